package atpack

import (
	"github.com/beevik/etree"

	"github.com/atpack-tools/atpack-go/pkg/model"
	"github.com/atpack-tools/atpack-go/pkg/query"
)

var (
	atdfFuseModulePath    = query.MustCompile(`//modules/module[@name="FUSE"]`)
	atdfFuseGroupPath     = query.MustCompile(`.//register-group[@name="FUSE"]`)
	atdfRootFuseGroupPath = query.MustCompile(`//register-group[@name="FUSE"]`)
)

// fuses extracts fuse registers from the FUSE module and from any
// root-level FUSE register-group. Value tables resolve only inside a
// FUSE module, where the value-groups live. Registers reachable both
// ways count once.
func (x *atdfExtractor) fuses() []model.Fuse {
	var fuses []model.Fuse
	seen := make(map[*etree.Element]bool)

	for _, modEl := range x.doc.QueryAll(atdfFuseModulePath, nil) {
		for _, groupEl := range x.doc.QueryAll(atdfFuseGroupPath, modEl) {
			for _, regEl := range x.doc.QueryAll(atdfRegisterPath, groupEl) {
				if seen[regEl] {
					continue
				}
				seen[regEl] = true
				if fuse, ok := x.fuseRegister(regEl, modEl); ok {
					fuses = append(fuses, fuse)
				}
			}
		}
	}
	for _, groupEl := range x.doc.QueryAll(atdfRootFuseGroupPath, nil) {
		for _, regEl := range x.doc.QueryAll(atdfRegisterPath, groupEl) {
			if seen[regEl] {
				continue
			}
			seen[regEl] = true
			if fuse, ok := x.fuseRegister(regEl, nil); ok {
				fuses = append(fuses, fuse)
			}
		}
	}
	return fuses
}

func (x *atdfExtractor) fuseRegister(el, modEl *etree.Element) (model.Fuse, bool) {
	name, _ := x.doc.Attr(el, "name")
	if name == "" {
		return model.Fuse{}, false
	}
	fuse := model.Fuse{
		Name:   name,
		Offset: x.doc.AttrHex(el, "offset", 0),
		Size:   int(x.doc.AttrInt(el, "size", 1)),
	}
	if mask := x.doc.AttrHex(el, "mask", 0); mask > 0 {
		fuse.Mask = &mask
	}
	if initval := x.doc.AttrHex(el, "initval", 0); initval > 0 {
		fuse.DefaultValue = &initval
	}

	for _, bfEl := range x.doc.QueryAll(atdfBitfieldPath, el) {
		bfName, _ := x.doc.Attr(bfEl, "name")
		bfMask := x.doc.AttrHex(bfEl, "mask", 0)
		if bfName == "" || bfMask == 0 {
			continue
		}
		offset, width := maskToRange(bfMask)
		bf := model.FuseBitfield{
			Name:        bfName,
			Description: x.doc.AttrDefault(bfEl, "caption", ""),
			BitOffset:   offset,
			BitWidth:    width,
		}
		if ref, _ := x.doc.Attr(bfEl, "values"); ref != "" && modEl != nil {
			bf.Values = x.valueGroup(ref, modEl)
		}
		fuse.Bitfields = append(fuse.Bitfields, bf)
	}
	return fuse, true
}
