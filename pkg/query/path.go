package query

import (
	"fmt"
	"strings"
)

// Path is a compiled query expression. Compile once and reuse; a Path
// is safe for concurrent use.
type Path struct {
	expr     string
	branches []branch
}

type branch struct {
	steps []step
}

// step is one location step: an axis (child or descendant), a local
// element name ("" matches any) and attribute predicates.
type step struct {
	descend bool
	name    string
	conds   []attrCond
}

// attrCond requires an attribute with the given local name; when
// hasValue is set its resolved value must equal value.
type attrCond struct {
	attr     string
	value    string
	hasValue bool
}

// Compile parses a query expression. The grammar covers alternation
// with "|", the axes "//", ".//" and "/", steps "name", "prefix:name"
// and "*", and bracket predicates in both prefixed and local-name()
// form.
func Compile(expr string) (*Path, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil, fmt.Errorf("compile %q: empty expression", expr)
	}
	parts, err := splitTop(trimmed, '|')
	if err != nil {
		return nil, fmt.Errorf("compile %q: %v", expr, err)
	}
	p := &Path{expr: expr}
	for _, part := range parts {
		br, err := parseBranch(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("compile %q: %v", expr, err)
		}
		p.branches = append(p.branches, br)
	}
	return p, nil
}

// MustCompile is Compile that panics on error, for package-level path
// variables.
func MustCompile(expr string) *Path {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source expression.
func (p *Path) String() string { return p.expr }

func parseBranch(s string) (branch, error) {
	if s == "" {
		return branch{}, fmt.Errorf("empty branch")
	}
	descendNext := false
	switch {
	case strings.HasPrefix(s, ".//"):
		descendNext = true
		s = s[3:]
	case strings.HasPrefix(s, "//"):
		descendNext = true
		s = s[2:]
	case strings.HasPrefix(s, "./"):
		s = s[2:]
	case strings.HasPrefix(s, "/"):
		s = s[1:]
	}
	if s == "" {
		return branch{}, fmt.Errorf("branch has no steps")
	}

	var br branch
	var cur strings.Builder
	depth := 0
	var quote rune
	flush := func() error {
		tok := cur.String()
		cur.Reset()
		if tok == "" {
			return fmt.Errorf("empty step")
		}
		st, err := parseStep(tok)
		if err != nil {
			return err
		}
		st.descend = descendNext
		descendNext = false
		br.steps = append(br.steps, st)
		return nil
	}
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			cur.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
			cur.WriteRune(r)
		case r == '[':
			depth++
			cur.WriteRune(r)
		case r == ']':
			depth--
			cur.WriteRune(r)
		case r == '/' && depth == 0:
			if err := flush(); err != nil {
				return branch{}, err
			}
			if i+1 < len(runes) && runes[i+1] == '/' {
				descendNext = true
				i++
			}
		default:
			cur.WriteRune(r)
		}
	}
	if quote != 0 {
		return branch{}, fmt.Errorf("unterminated quote")
	}
	if depth != 0 {
		return branch{}, fmt.Errorf("unbalanced brackets")
	}
	if err := flush(); err != nil {
		return branch{}, err
	}
	return br, nil
}

func parseStep(tok string) (step, error) {
	namePart := tok
	predPart := ""
	if i := strings.IndexByte(tok, '['); i >= 0 {
		namePart = tok[:i]
		predPart = tok[i:]
	}

	var st step
	switch {
	case namePart == "*":
		st.name = ""
	case namePart == "":
		return step{}, fmt.Errorf("step %q: missing name", tok)
	default:
		st.name = localName(namePart)
	}

	if predPart == "" {
		return st, nil
	}
	groups, err := splitPredGroups(predPart)
	if err != nil {
		return step{}, fmt.Errorf("step %q: %v", tok, err)
	}
	for _, g := range groups {
		clauses, err := splitTop(g, 0) // split on " and "
		if err != nil {
			return step{}, fmt.Errorf("step %q: %v", tok, err)
		}
		for _, cl := range clauses {
			if err := parseClause(strings.TrimSpace(cl), &st); err != nil {
				return step{}, fmt.Errorf("step %q: %v", tok, err)
			}
		}
	}
	return st, nil
}

// parseClause handles one predicate clause:
//
//	local-name()="n"
//	@attr='v' / @prefix:attr="v" / @attr
//	@*[local-name()="a"]="v" / @*[local-name()="a"]
func parseClause(cl string, st *step) error {
	switch {
	case strings.HasPrefix(cl, "local-name()"):
		rest := strings.TrimSpace(cl[len("local-name()"):])
		if !strings.HasPrefix(rest, "=") {
			return fmt.Errorf("predicate %q: expected =", cl)
		}
		name, tail, err := parseQuoted(strings.TrimSpace(rest[1:]))
		if err != nil || strings.TrimSpace(tail) != "" {
			return fmt.Errorf("predicate %q: bad value", cl)
		}
		if st.name != "" && st.name != name {
			return fmt.Errorf("predicate %q: conflicts with step name %q", cl, st.name)
		}
		st.name = name
		return nil

	case strings.HasPrefix(cl, "@*["):
		inner, tail, err := matchBracket(cl[2:])
		if err != nil {
			return fmt.Errorf("predicate %q: %v", cl, err)
		}
		inner = strings.TrimSpace(inner)
		if !strings.HasPrefix(inner, "local-name()") {
			return fmt.Errorf("predicate %q: expected local-name()", cl)
		}
		rest := strings.TrimSpace(inner[len("local-name()"):])
		if !strings.HasPrefix(rest, "=") {
			return fmt.Errorf("predicate %q: expected =", cl)
		}
		attr, extra, err := parseQuoted(strings.TrimSpace(rest[1:]))
		if err != nil || strings.TrimSpace(extra) != "" {
			return fmt.Errorf("predicate %q: bad attribute name", cl)
		}
		cond := attrCond{attr: attr}
		tail = strings.TrimSpace(tail)
		if tail != "" {
			if !strings.HasPrefix(tail, "=") {
				return fmt.Errorf("predicate %q: unexpected trailer %q", cl, tail)
			}
			val, extra, err := parseQuoted(strings.TrimSpace(tail[1:]))
			if err != nil || strings.TrimSpace(extra) != "" {
				return fmt.Errorf("predicate %q: bad value", cl)
			}
			cond.value = val
			cond.hasValue = true
		}
		st.conds = append(st.conds, cond)
		return nil

	case strings.HasPrefix(cl, "@"):
		body := cl[1:]
		eq := strings.IndexByte(body, '=')
		if eq < 0 {
			name := strings.TrimSpace(body)
			if name == "" {
				return fmt.Errorf("predicate %q: missing attribute name", cl)
			}
			st.conds = append(st.conds, attrCond{attr: localName(name)})
			return nil
		}
		name := strings.TrimSpace(body[:eq])
		if name == "" {
			return fmt.Errorf("predicate %q: missing attribute name", cl)
		}
		val, tail, err := parseQuoted(strings.TrimSpace(body[eq+1:]))
		if err != nil || strings.TrimSpace(tail) != "" {
			return fmt.Errorf("predicate %q: bad value", cl)
		}
		st.conds = append(st.conds, attrCond{attr: localName(name), value: val, hasValue: true})
		return nil
	}
	return fmt.Errorf("unsupported predicate %q", cl)
}

// splitPredGroups splits "[a][b]" into its top-level bracket groups.
func splitPredGroups(s string) ([]string, error) {
	var groups []string
	for s != "" {
		if s[0] != '[' {
			return nil, fmt.Errorf("unexpected %q after predicate", s)
		}
		inner, tail, err := matchBracket(s)
		if err != nil {
			return nil, err
		}
		groups = append(groups, inner)
		s = strings.TrimSpace(tail)
	}
	return groups, nil
}

// matchBracket takes a string starting with '[' and returns the content
// of the matching bracket pair and the remainder after it.
func matchBracket(s string) (inner, tail string, err error) {
	if s == "" || s[0] != '[' {
		return "", "", fmt.Errorf("expected [")
	}
	depth := 0
	var quote rune
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '[':
			depth++
		case r == ']':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], nil
			}
		}
	}
	return "", "", fmt.Errorf("unbalanced brackets in %q", s)
}

// splitTop splits on a separator outside quotes and brackets. A zero
// separator splits on the literal " and ".
func splitTop(s string, sep rune) ([]string, error) {
	var parts []string
	var cur strings.Builder
	depth := 0
	var quote rune
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			cur.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
			cur.WriteRune(r)
		case r == '[':
			depth++
			cur.WriteRune(r)
		case r == ']':
			depth--
			cur.WriteRune(r)
		case depth == 0 && sep != 0 && r == sep:
			parts = append(parts, cur.String())
			cur.Reset()
		case depth == 0 && sep == 0 && r == ' ' && strings.HasPrefix(string(runes[i:]), " and "):
			parts = append(parts, cur.String())
			cur.Reset()
			i += len(" and ") - 1
		default:
			cur.WriteRune(r)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in %q", s)
	}
	parts = append(parts, cur.String())
	return parts, nil
}

// parseQuoted reads a leading quoted string and returns its content and
// the remainder.
func parseQuoted(s string) (val, tail string, err error) {
	if s == "" || (s[0] != '\'' && s[0] != '"') {
		return "", "", fmt.Errorf("expected quoted string in %q", s)
	}
	q := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] == q {
			return s[1:i], s[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("unterminated quote in %q", s)
}

// localName strips a namespace prefix from a qualified name.
func localName(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}
