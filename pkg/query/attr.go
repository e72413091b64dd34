package query

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Attr resolves an attribute by local name on el.
func (d *Document) Attr(el *etree.Element, name string) (string, bool) {
	if el == nil {
		return "", false
	}
	return d.lookupAttr(el, name)
}

// AttrDefault resolves an attribute by local name, falling back to def.
func (d *Document) AttrDefault(el *etree.Element, name, def string) string {
	if v, ok := d.Attr(el, name); ok {
		return v
	}
	return def
}

// AttrInt resolves an integer attribute. Values with an 0x/0X prefix
// parse as hex, everything else as decimal. Missing or unparsable
// values yield def, never an error.
func (d *Document) AttrInt(el *etree.Element, name string, def int64) int64 {
	v, ok := d.Attr(el, name)
	if !ok {
		return def
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
		if n, err := strconv.ParseInt(v[2:], 16, 64); err == nil {
			return n
		}
		return def
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	return def
}

// AttrHex resolves a hexadecimal attribute. Both 0x-prefixed and bare
// digit strings parse as base 16; the dialects write addresses and
// masks this way regardless of prefix.
func (d *Document) AttrHex(el *etree.Element, name string, def int64) int64 {
	v, ok := d.Attr(el, name)
	if !ok {
		return def
	}
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(strings.TrimPrefix(v, "0x"), "0X")
	if v == "" {
		return def
	}
	if n, err := strconv.ParseInt(v, 16, 64); err == nil {
		return n
	}
	return def
}

// AttrFloat resolves a floating-point attribute; false when missing or
// unparsable.
func (d *Document) AttrFloat(el *etree.Element, name string) (float64, bool) {
	v, ok := d.Attr(el, name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// AttrBool resolves a boolean attribute; the dialects write "true" and
// "false" literally.
func (d *Document) AttrBool(el *etree.Element, name string) (bool, bool) {
	v, ok := d.Attr(el, name)
	if !ok {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}
