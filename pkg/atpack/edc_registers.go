package atpack

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/atpack-tools/atpack-go/pkg/model"
	"github.com/atpack-tools/atpack-go/pkg/query"
)

var (
	edcSFRDefPath      = query.MustCompile(`.//edc:SFRDef`)
	edcSFRModePath     = query.MustCompile(`.//edc:SFRMode`)
	edcSFRFieldDefPath = query.MustCompile(`.//edc:SFRFieldDef`)
	edcNMMRPlacePath   = query.MustCompile(`.//edc:NMMRPlace`)
)

// modules groups SFR registers per bank, with non-memory-mapped
// registers collected under a CORE module.
func (x *edcExtractor) modules() []model.Module {
	var modules []model.Module

	for _, sector := range x.doc.QueryAll(edcSFRSectorPath, x.dev) {
		bank := x.doc.AttrDefault(sector, "bank", "0")
		var regs []model.Register
		for _, sfrDef := range x.doc.QueryAll(edcSFRDefPath, sector) {
			if reg, ok := x.sfrRegister(sfrDef); ok {
				regs = append(regs, reg)
			}
		}
		if len(regs) == 0 {
			continue
		}
		modules = append(modules, model.Module{
			Name:    "BANK" + bank,
			Caption: "Register Bank " + bank,
			RegisterGroups: []model.RegisterGroup{{
				Name:      "SFR_BANK" + bank,
				Caption:   "SFR Bank " + bank,
				Registers: regs,
			}},
		})
	}

	for _, place := range x.doc.QueryAll(edcNMMRPlacePath, x.dev) {
		var regs []model.Register
		for _, sfrDef := range x.doc.QueryAll(edcSFRDefPath, place) {
			if reg, ok := x.sfrRegister(sfrDef); ok {
				regs = append(regs, reg)
			}
		}
		if len(regs) == 0 {
			continue
		}
		modules = append(modules, model.Module{
			Name:    "CORE",
			Caption: "Core Registers",
			RegisterGroups: []model.RegisterGroup{{
				Name:      "CORE",
				Caption:   "Core Registers",
				Registers: regs,
			}},
		})
	}
	return modules
}

// sfrRegister builds one register from an SFRDef. Registers at address
// zero are kept only for the core WREG/INDF aliases.
func (x *edcExtractor) sfrRegister(sfrDef *etree.Element) (model.Register, bool) {
	name := x.doc.AttrDefault(sfrDef, "name", "UNKNOWN")
	addr := x.doc.AttrHex(sfrDef, "_addr", 0)
	if addr <= 0 && name != "WREG" && name != "INDF" {
		return model.Register{}, false
	}

	width := x.doc.AttrHex(sfrDef, "nzwidth", 0x8)
	size := 1
	if width >= 8 {
		size = int(width / 8)
	}
	caption := x.doc.AttrDefault(sfrDef, "desc", "")
	if caption == "" {
		caption = name
	}

	return model.Register{
		Name:      name,
		Caption:   caption,
		Offset:    addr,
		Size:      size,
		Access:    accessFromPattern(x.doc.AttrDefault(sfrDef, "access", "nnnnnnnn")),
		Bitfields: x.sfrBitfields(sfrDef),
	}, true
}

// accessFromPattern maps a per-bit access string onto R, W or RW.
// Unmapped bits ('-') without write markers read back as R.
func accessFromPattern(pattern string) string {
	lower := strings.ToLower(pattern)
	hasR := strings.Contains(lower, "r")
	hasW := strings.Contains(lower, "w")
	switch {
	case hasR && !hasW:
		return "R"
	case hasW && !hasR:
		return "W"
	case strings.Contains(pattern, "-"):
		return "R"
	}
	return "RW"
}

// sfrBitfields reconciles the bit layout across SFRMode declarations.
// Mode "DS.0" is authoritative: its fields run through a cursor, and a
// single-bit sentinel mask of 0x1 trusts the cursor instead of the
// literal mask. The remaining modes alias the same bits under other
// names and are replayed with their AdjustPoint gaps, emitting only
// fields not already produced.
func (x *edcExtractor) sfrBitfields(sfrDef *etree.Element) []model.RegisterBitfield {
	modes := x.doc.QueryAll(edcSFRModePath, sfrDef)

	var bitfields []model.RegisterBitfield
	emitted := make(map[string]bool)

	for _, mode := range modes {
		if x.doc.AttrDefault(mode, "id", "") != "DS.0" {
			continue
		}
		cursor := 0
		for _, fieldDef := range x.doc.QueryAll(edcSFRFieldDefPath, mode) {
			bf, width, ok := x.fieldAt(fieldDef, cursor)
			if !ok {
				continue
			}
			if !emitted[bf.Name] {
				emitted[bf.Name] = true
				bitfields = append(bitfields, bf)
			}
			cursor += width
		}
	}

	for _, mode := range modes {
		if x.doc.AttrDefault(mode, "id", "") == "DS.0" {
			continue
		}
		cursor := 0
		for _, child := range mode.ChildElements() {
			switch child.Tag {
			case "AdjustPoint":
				cursor += int(x.doc.AttrHex(child, "offset", 1))
			case "SFRFieldDef":
				bf, width, ok := x.fieldAt(child, cursor)
				if !ok {
					continue
				}
				if !emitted[bf.Name] {
					emitted[bf.Name] = true
					bitfields = append(bitfields, bf)
				}
				cursor += width
			}
		}
	}
	return bitfields
}

// fieldAt decodes one SFRFieldDef at the given cursor position. The
// sentinel mask 0x1 places the field at the cursor with its declared
// width; any other mask carries the real position and width itself.
func (x *edcExtractor) fieldAt(fieldDef *etree.Element, cursor int) (model.RegisterBitfield, int, bool) {
	name := x.doc.AttrDefault(fieldDef, "name", "")
	mask := x.doc.AttrHex(fieldDef, "mask", 0)
	if name == "" || mask <= 0 {
		return model.RegisterBitfield{}, 0, false
	}

	var offset, width int
	var actualMask int64
	if mask == 0x1 {
		offset = cursor
		width = int(x.doc.AttrHex(fieldDef, "nzwidth", 1))
		if width < 1 {
			width = 1
		}
		actualMask = int64(((1 << width) - 1) << offset)
	} else {
		offset, width = maskToRange(mask)
		actualMask = mask
	}

	caption := x.doc.AttrDefault(fieldDef, "desc", "")
	if caption == "" {
		caption = name
	}
	return model.RegisterBitfield{
		Name:      name,
		Caption:   caption,
		Mask:      actualMask,
		BitOffset: offset,
		BitWidth:  width,
	}, width, true
}
