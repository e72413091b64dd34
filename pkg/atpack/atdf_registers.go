package atpack

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/atpack-tools/atpack-go/pkg/model"
	"github.com/atpack-tools/atpack-go/pkg/query"
)

var (
	atdfModulePath        = query.MustCompile(`//modules/module`)
	atdfRegisterGroupPath = query.MustCompile(`.//register-group`)
	atdfRegisterPath      = query.MustCompile(`.//register`)
	atdfBitfieldPath      = query.MustCompile(`.//bitfield`)
	atdfValuePath         = query.MustCompile(`.//value`)
)

// modules extracts every peripheral module that contributes at least
// one register group with registers.
func (x *atdfExtractor) modules() []model.Module {
	var modules []model.Module
	for _, modEl := range x.doc.QueryAll(atdfModulePath, nil) {
		groups := x.registerGroups(modEl)
		if len(groups) == 0 {
			continue
		}
		modules = append(modules, model.Module{
			Name:           x.doc.AttrDefault(modEl, "name", ""),
			Caption:        x.doc.AttrDefault(modEl, "caption", ""),
			RegisterGroups: groups,
		})
	}
	return modules
}

func (x *atdfExtractor) registerGroups(modEl *etree.Element) []model.RegisterGroup {
	var groups []model.RegisterGroup
	for _, groupEl := range x.doc.QueryAll(atdfRegisterGroupPath, modEl) {
		groupName := x.doc.AttrDefault(groupEl, "name", "")
		regs := x.groupRegisters(groupEl, groupName)
		if len(regs) == 0 {
			continue
		}
		groups = append(groups, model.RegisterGroup{
			Name:      groupName,
			Caption:   x.doc.AttrDefault(groupEl, "caption", ""),
			Registers: regs,
		})
	}
	return groups
}

// groupRegisters collects the group's own registers plus those of any
// same-named register-group instanced elsewhere in the document.
func (x *atdfExtractor) groupRegisters(groupEl *etree.Element, groupName string) []model.Register {
	regEls := x.doc.QueryAll(atdfRegisterPath, groupEl)
	seen := make(map[*etree.Element]bool, len(regEls))
	for _, el := range regEls {
		seen[el] = true
	}
	if groupName != "" {
		for _, other := range x.doc.Find(fmt.Sprintf(`//register-group[@name=%q]`, groupName), nil) {
			if other == groupEl {
				continue
			}
			for _, el := range x.doc.QueryAll(atdfRegisterPath, other) {
				if !seen[el] {
					seen[el] = true
					regEls = append(regEls, el)
				}
			}
		}
	}

	var regs []model.Register
	for _, el := range regEls {
		if reg, ok := x.register(el); ok {
			regs = append(regs, reg)
		}
	}
	return regs
}

func (x *atdfExtractor) register(el *etree.Element) (model.Register, bool) {
	name, _ := x.doc.Attr(el, "name")
	if name == "" {
		return model.Register{}, false
	}
	reg := model.Register{
		Name:    name,
		Caption: x.doc.AttrDefault(el, "caption", ""),
		Offset:  x.doc.AttrHex(el, "offset", 0),
		Size:    int(x.doc.AttrInt(el, "size", 1)),
		Access:  x.doc.AttrDefault(el, "ocd-rw", "RW"),
	}
	if mask := x.doc.AttrHex(el, "mask", 0); mask > 0 {
		reg.Mask = &mask
	}
	if initval := x.doc.AttrHex(el, "initval", 0); initval > 0 {
		reg.InitValue = &initval
	}
	for _, bfEl := range x.doc.QueryAll(atdfBitfieldPath, el) {
		if bf, ok := x.bitfield(bfEl); ok {
			reg.Bitfields = append(reg.Bitfields, bf)
		}
	}
	return reg, true
}

func (x *atdfExtractor) bitfield(el *etree.Element) (model.RegisterBitfield, bool) {
	name, _ := x.doc.Attr(el, "name")
	mask := x.doc.AttrHex(el, "mask", 0)
	if name == "" || mask == 0 {
		return model.RegisterBitfield{}, false
	}
	offset, width := maskToRange(mask)
	bf := model.RegisterBitfield{
		Name:      name,
		Caption:   x.doc.AttrDefault(el, "caption", ""),
		Mask:      mask,
		BitOffset: offset,
		BitWidth:  width,
	}
	if ref, _ := x.doc.Attr(el, "values"); ref != "" {
		bf.Values = x.valueGroup(ref, nil)
	}
	return bf, true
}

// valueGroup resolves a value-group reference into a value→label table,
// optionally scoped to one module element.
func (x *atdfExtractor) valueGroup(ref string, scope *etree.Element) map[int64]string {
	expr := fmt.Sprintf(`//value-group[@name=%q]`, ref)
	if scope != nil {
		expr = fmt.Sprintf(`.//value-group[@name=%q]`, ref)
	}
	values := make(map[int64]string)
	for _, vg := range x.doc.Find(expr, scope) {
		for _, valEl := range x.doc.QueryAll(atdfValuePath, vg) {
			valName, _ := x.doc.Attr(valEl, "name")
			if valName == "" {
				continue
			}
			label := x.doc.AttrDefault(valEl, "caption", "")
			if label == "" {
				label = valName
			}
			values[x.doc.AttrHex(valEl, "value", 0)] = label
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}
