package query

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

// ErrMalformed is wrapped by Load when the input is not a well-formed
// XML document.
var ErrMalformed = errors.New("malformed xml document")

// Document is a parsed XML document with its declared namespace
// prefixes. All queries and attribute lookups go through it.
type Document struct {
	doc      *etree.Document
	prefixes []string
}

// Load parses text into a Document. The returned error wraps
// ErrMalformed for any non-well-formed input, including documents
// without a root element.
func Load(text string) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformed)
	}
	return &Document{doc: doc, prefixes: collectPrefixes(root)}, nil
}

// Root returns the document's root element.
func (d *Document) Root() *etree.Element {
	return d.doc.Root()
}

// Prefixes returns the known namespace prefixes in lookup order.
func (d *Document) Prefixes() []string {
	out := make([]string, len(d.prefixes))
	copy(out, d.prefixes)
	return out
}

// collectPrefixes walks the whole tree gathering xmlns:prefix
// declarations in document order, seeding "edc" when absent.
func collectPrefixes(root *etree.Element) []string {
	var prefixes []string
	seen := make(map[string]bool)
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, a := range el.Attr {
			if a.Space == "xmlns" && !seen[a.Key] {
				seen[a.Key] = true
				prefixes = append(prefixes, a.Key)
			}
		}
		for _, c := range el.ChildElements() {
			walk(c)
		}
	}
	walk(root)
	if !seen["edc"] {
		prefixes = append(prefixes, "edc")
	}
	return prefixes
}

// QueryAll evaluates a compiled path against the document. A nil ctx
// evaluates from the document node, so an absolute first step can match
// the root element itself. Results are in document order without
// duplicates.
func (d *Document) QueryAll(p *Path, ctx *etree.Element) []*etree.Element {
	if p == nil {
		return nil
	}
	matched := make(map[*etree.Element]bool)
	for _, br := range p.branches {
		for _, el := range d.evalBranch(br, ctx) {
			matched[el] = true
		}
	}
	if len(matched) == 0 {
		return nil
	}
	var out []*etree.Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if matched[el] {
			out = append(out, el)
		}
		for _, c := range el.ChildElements() {
			walk(c)
		}
	}
	if root := d.doc.Root(); root != nil {
		walk(root)
	}
	return out
}

// Find compiles expr and evaluates it against ctx (nil for the document
// node). Invalid expressions yield no results.
func (d *Document) Find(expr string, ctx *etree.Element) []*etree.Element {
	p, err := Compile(expr)
	if err != nil {
		return nil
	}
	return d.QueryAll(p, ctx)
}

// FindOne returns the first match of expr, or nil.
func (d *Document) FindOne(expr string, ctx *etree.Element) *etree.Element {
	els := d.Find(expr, ctx)
	if len(els) == 0 {
		return nil
	}
	return els[0]
}

// evalBranch runs one alternation branch step by step. The current node
// set uses nil as the virtual document node.
func (d *Document) evalBranch(br branch, ctx *etree.Element) []*etree.Element {
	cur := []*etree.Element{ctx}
	for _, st := range br.steps {
		var next []*etree.Element
		seen := make(map[*etree.Element]bool)
		for _, n := range cur {
			var candidates []*etree.Element
			if st.descend {
				candidates = d.descendants(n)
			} else {
				candidates = d.children(n)
			}
			for _, c := range candidates {
				if !seen[c] && d.stepMatches(c, st) {
					seen[c] = true
					next = append(next, c)
				}
			}
		}
		cur = next
		if len(cur) == 0 {
			return nil
		}
	}
	return cur
}

// children returns the child elements of n; for the document node that
// is the root element alone.
func (d *Document) children(n *etree.Element) []*etree.Element {
	if n == nil {
		if root := d.doc.Root(); root != nil {
			return []*etree.Element{root}
		}
		return nil
	}
	return n.ChildElements()
}

// descendants returns all elements below n in document order. For the
// document node the root element itself is included, so //name can
// match the root.
func (d *Document) descendants(n *etree.Element) []*etree.Element {
	var out []*etree.Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		out = append(out, el)
		for _, c := range el.ChildElements() {
			walk(c)
		}
	}
	if n == nil {
		if root := d.doc.Root(); root != nil {
			walk(root)
		}
		return out
	}
	for _, c := range n.ChildElements() {
		walk(c)
	}
	return out
}

// stepMatches reports whether el satisfies a step's name constraint and
// every attribute predicate. Element names compare by local name only.
func (d *Document) stepMatches(el *etree.Element, st step) bool {
	if st.name != "" && el.Tag != st.name {
		return false
	}
	for _, c := range st.conds {
		val, ok := d.lookupAttr(el, c.attr)
		if !ok {
			return false
		}
		if c.hasValue && val != c.value {
			return false
		}
	}
	return true
}

// lookupAttr resolves an attribute by local name: the unprefixed
// attribute first, then each known prefix in declaration order.
func (d *Document) lookupAttr(el *etree.Element, local string) (string, bool) {
	for _, a := range el.Attr {
		if a.Space == "" && a.Key == local {
			return a.Value, true
		}
	}
	for _, p := range d.prefixes {
		for _, a := range el.Attr {
			if a.Space == p && a.Key == local {
				return a.Value, true
			}
		}
	}
	return "", false
}
