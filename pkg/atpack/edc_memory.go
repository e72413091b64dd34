package atpack

import (
	"sort"

	"github.com/beevik/etree"

	"github.com/atpack-tools/atpack-go/pkg/model"
	"github.com/atpack-tools/atpack-go/pkg/query"
)

var (
	edcProgramSpacePath = query.MustCompile(`.//edc:ProgramSpace`)
	edcDataSpacePath    = query.MustCompile(`.//edc:DataSpace`)
	edcEEDataSpacePath  = query.MustCompile(`.//edc:EEDataSpace`)
	edcCodeSectorPath   = query.MustCompile(`.//edc:CodeSector`)
	edcSFRSectorPath    = query.MustCompile(`.//edc:SFRDataSector`)
	edcDataSectorPath   = query.MustCompile(`.//edc:DataSector`)
	edcEESectorPath     = query.MustCompile(`.//edc:EESector`)
)

// memory extracts program, data and EEPROM sectors. A sector counts
// only when endaddr > beginaddr; size is the address span.
func (x *edcExtractor) memory() ([]model.MemorySegment, []model.MemorySpace) {
	var flat []model.MemorySegment
	var spaces []model.MemorySpace

	collect := func(spaceEls []*etree.Element, spaceName, spaceType string, sectors func(*etree.Element) []model.MemorySegment) {
		var children []model.MemorySegment
		for _, spaceEl := range spaceEls {
			for _, seg := range sectors(spaceEl) {
				flat = append(flat, seg)
				seg.ParentSpace = spaceName
				seg.Level = 1
				children = append(children, seg)
			}
		}
		if len(children) == 0 {
			return
		}
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].Start < children[j].Start
		})
		spaces = append(spaces, model.MemorySpace{
			Name:      spaceName,
			SpaceType: spaceType,
			Segments:  children,
		})
	}

	collect(x.doc.QueryAll(edcProgramSpacePath, x.dev), "ProgramSpace", "program",
		func(ps *etree.Element) []model.MemorySegment {
			var segs []model.MemorySegment
			for _, cs := range x.doc.QueryAll(edcCodeSectorPath, ps) {
				if seg, ok := x.sector(cs, x.doc.AttrDefault(cs, "sectionname", "PROG"), "program", "program"); ok {
					segs = append(segs, seg)
				}
			}
			return segs
		})

	collect(x.doc.QueryAll(edcDataSpacePath, x.dev), "DataSpace", "data",
		func(ds *etree.Element) []model.MemorySegment {
			var segs []model.MemorySegment
			for _, sfr := range x.doc.QueryAll(edcSFRSectorPath, ds) {
				bank := x.doc.AttrDefault(sfr, "bank", "0")
				if seg, ok := x.sector(sfr, "SFR_BANK"+bank, "sfr", "data"); ok {
					segs = append(segs, seg)
				}
			}
			for _, dsec := range x.doc.QueryAll(edcDataSectorPath, ds) {
				if seg, ok := x.sector(dsec, x.doc.AttrDefault(dsec, "sectionname", "DATA"), "data", "data"); ok {
					segs = append(segs, seg)
				}
			}
			return segs
		})

	collect(x.doc.QueryAll(edcEEDataSpacePath, x.dev), "EEDataSpace", "eeprom",
		func(es *etree.Element) []model.MemorySegment {
			var segs []model.MemorySegment
			for _, ee := range x.doc.QueryAll(edcEESectorPath, es) {
				if seg, ok := x.sector(ee, "EEPROM", "eeprom", "eeprom"); ok {
					segs = append(segs, seg)
				}
			}
			return segs
		})

	return flat, spaces
}

func (x *edcExtractor) sector(el *etree.Element, name, segType, addrSpace string) (model.MemorySegment, bool) {
	start := x.doc.AttrHex(el, "beginaddr", 0)
	end := x.doc.AttrHex(el, "endaddr", 0)
	if end <= start {
		return model.MemorySegment{}, false
	}
	return model.MemorySegment{
		Name:         name,
		Start:        start,
		Size:         end - start,
		Type:         segType,
		AddressSpace: addrSpace,
	}, true
}
