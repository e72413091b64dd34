package atpack

import (
	"sort"

	"github.com/beevik/etree"

	"github.com/atpack-tools/atpack-go/pkg/model"
	"github.com/atpack-tools/atpack-go/pkg/query"
)

var (
	atdfAddressSpacePath  = query.MustCompile(`.//address-space`)
	atdfMemorySegmentPath = query.MustCompile(`.//memory-segment`)
)

// memory extracts both the flat segment list and the hierarchical
// space list from the device's address spaces. An address space with no
// memory-segment children is represented by one synthesized segment
// covering the whole space.
func (x *atdfExtractor) memory() ([]model.MemorySegment, []model.MemorySpace) {
	var flat []model.MemorySegment
	var spaces []model.MemorySpace

	for _, space := range x.doc.QueryAll(atdfAddressSpacePath, x.dev) {
		spaceName := x.doc.AttrDefault(space, "name", "")
		spaceStart := x.doc.AttrHex(space, "start", 0)
		spaceSize := x.doc.AttrHex(space, "size", 0)

		segEls := x.doc.QueryAll(atdfMemorySegmentPath, space)
		if len(segEls) == 0 {
			synth := model.MemorySegment{
				Name:         spaceName,
				Start:        spaceStart,
				Size:         spaceSize,
				Type:         spaceName,
				AddressSpace: spaceName,
			}
			flat = append(flat, synth)
			spaces = append(spaces, model.MemorySpace{
				Name:      spaceName,
				SpaceType: "address-space",
				Start:     ptrInt64(spaceStart),
				Size:      ptrInt64(spaceSize),
				Segments:  []model.MemorySegment{synth},
			})
			continue
		}

		var children []model.MemorySegment
		for _, segEl := range segEls {
			seg := x.segment(segEl, spaceName)
			flat = append(flat, seg)
			seg.ParentSpace = spaceName
			seg.Level = 1
			children = append(children, seg)
		}
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].Start < children[j].Start
		})
		spaces = append(spaces, model.MemorySpace{
			Name:      spaceName,
			SpaceType: "address-space",
			Start:     ptrInt64(spaceStart),
			Size:      ptrInt64(spaceSize),
			Segments:  children,
		})
	}
	return flat, spaces
}

func (x *atdfExtractor) segment(el *etree.Element, spaceName string) model.MemorySegment {
	seg := model.MemorySegment{
		Name:         x.doc.AttrDefault(el, "name", ""),
		Start:        x.doc.AttrHex(el, "start", 0),
		Size:         x.doc.AttrHex(el, "size", 0),
		Type:         x.doc.AttrDefault(el, "type", ""),
		AddressSpace: spaceName,
	}
	if ps := x.doc.AttrHex(el, "pagesize", 0); ps > 0 {
		seg.PageSize = ps
	}
	return seg
}

func ptrInt64(v int64) *int64 { return &v }
