package atpack

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/atpack-tools/atpack-go/pkg/model"
	"github.com/atpack-tools/atpack-go/pkg/query"
)

var (
	edcGPRSectorPath    = query.MustCompile(`.//edc:GPRDataSector`)
	edcEEDataSectorPath = query.MustCompile(`.//edc:EEDataSector`)
)

// extractDeviceSpecs derives aggregate memory sizing for a PIC device
// from its raw sectors. Shadow sectors mirror memory that is already
// counted elsewhere and are excluded from every sum.
func extractDeviceSpecs(doc *query.Document, name string) (*model.DeviceSpecs, error) {
	dev := findPICDevice(doc, name)
	if dev == nil {
		return nil, &DeviceNotFoundError{Name: name}
	}

	specs := &model.DeviceSpecs{
		DeviceName:   doc.AttrDefault(dev, "name", name),
		Architecture: "PIC",
		Series:       picSeries(doc.AttrDefault(dev, "arch", "")),
		FCPU:         "User configurable",
	}

	x := &edcExtractor{doc: doc, dev: dev}
	x.specsFlash(specs)
	x.specsRAM(specs)
	x.specsEEPROM(specs)
	x.specsConfig(specs)
	return specs, nil
}

// isShadowSector reports whether a sector carries a shadowidref
// attribute in any namespace form.
func (x *edcExtractor) isShadowSector(el *etree.Element) bool {
	_, ok := x.doc.Attr(el, "shadowidref")
	return ok
}

func (x *edcExtractor) specsFlash(specs *model.DeviceSpecs) {
	for _, ps := range x.doc.QueryAll(edcProgramSpacePath, x.dev) {
		for _, cs := range x.doc.QueryAll(edcCodeSectorPath, ps) {
			if x.isShadowSector(cs) {
				continue
			}
			begin := x.doc.AttrHex(cs, "beginaddr", 0)
			end := x.doc.AttrHex(cs, "endaddr", 0)
			specs.FlashSize += end - begin
		}
	}
}

func (x *edcExtractor) specsRAM(specs *model.DeviceSpecs) {
	for _, ds := range x.doc.QueryAll(edcDataSpacePath, x.dev) {
		for _, gpr := range x.doc.QueryAll(edcGPRSectorPath, ds) {
			if x.isShadowSector(gpr) {
				continue
			}
			begin := x.doc.AttrHex(gpr, "beginaddr", 0)
			end := x.doc.AttrHex(gpr, "endaddr", 0)
			size := end - begin
			if size <= 0 {
				continue
			}
			bankStr := x.doc.AttrDefault(gpr, "bank", "0")
			bank, err := strconv.Atoi(bankStr)
			if err != nil {
				bank = 0
			}
			specs.GPRTotalSize += size
			specs.GPRSectors = append(specs.GPRSectors, model.GprSector{
				Name:  "GPR_BANK" + bankStr,
				Start: begin,
				End:   end,
				Size:  size,
				Bank:  bank,
			})
		}
	}
}

// specsEEPROM records the first EEPROM sector with a positive span.
func (x *edcExtractor) specsEEPROM(specs *model.DeviceSpecs) {
	for _, ps := range x.doc.QueryAll(edcProgramSpacePath, x.dev) {
		for _, ee := range x.doc.QueryAll(edcEEDataSectorPath, ps) {
			begin := x.doc.AttrHex(ee, "beginaddr", 0)
			end := x.doc.AttrHex(ee, "endaddr", 0)
			if end > begin {
				specs.EEPROMAddr = fmt.Sprintf("0x%04X", begin)
				specs.EEPROMSize = end - begin
				return
			}
		}
	}
}

// specsConfig records the first configuration fuse sector with a
// positive span.
func (x *edcExtractor) specsConfig(specs *model.DeviceSpecs) {
	for _, ps := range x.doc.QueryAll(edcProgramSpacePath, x.dev) {
		for _, cfg := range x.doc.QueryAll(edcConfigSectorPath, ps) {
			begin := x.doc.AttrHex(cfg, "beginaddr", 0)
			end := x.doc.AttrHex(cfg, "endaddr", 0)
			if end > begin {
				specs.ConfigAddr = fmt.Sprintf("0x%04X", begin)
				specs.ConfigSize = end - begin
				return
			}
		}
	}
}
