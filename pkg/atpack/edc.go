package atpack

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/atpack-tools/atpack-go/pkg/model"
	"github.com/atpack-tools/atpack-go/pkg/query"
)

var edcAnyPICPath = query.MustCompile(`//edc:PIC`)

// edcExtractor walks one PIC/EDC document for one device.
type edcExtractor struct {
	doc *query.Document
	dev *etree.Element
}

func parsePIC(doc *query.Document, name string) (*model.Device, error) {
	dev := findPICDevice(doc, name)
	if dev == nil {
		return nil, &DeviceNotFoundError{Name: name}
	}

	x := &edcExtractor{doc: doc, dev: dev}
	devName := doc.AttrDefault(dev, "name", name)
	d := &model.Device{
		Name:         devName,
		Dialect:      model.DialectPIC,
		Architecture: "PIC",
		Series:       picSeries(doc.AttrDefault(dev, "arch", "")),
	}

	d.MemorySegments, d.MemorySpaces = x.memory()
	d.Modules = x.modules()
	d.ConfigWords = x.configWords()
	d.Interrupts = x.interrupts()
	d.Signatures = x.signatures()
	d.PowerSpec = x.powerSpec()
	d.OscillatorConfigs = x.oscillatorConfigs()
	d.Programming = x.programming()
	d.Pinout = x.pinout()
	d.Debug = x.debugCapabilities()
	d.ArchitectureInfo = x.architectureInfo()
	d.Peripherals = x.detectPeripherals()
	return d, nil
}

// findPICDevice resolves the device element, trying the prefixed query
// first and the explicit local-name form second. Both forms match the
// same elements; documents in the wild use either habit.
func findPICDevice(doc *query.Document, name string) *etree.Element {
	if name == "" {
		els := doc.QueryAll(edcAnyPICPath, nil)
		if len(els) == 0 {
			return nil
		}
		return els[0]
	}
	if el := doc.FindOne(fmt.Sprintf(`//edc:PIC[@edc:name=%q]`, name), nil); el != nil {
		return el
	}
	return doc.FindOne(fmt.Sprintf(`//*[local-name()="PIC" and @*[local-name()="name"]=%q]`, name), nil)
}

// picSeries derives the marketing series from the arch attribute, for
// example "16xxxx" to PIC16.
func picSeries(arch string) string {
	if arch == "" {
		return ""
	}
	for _, prefix := range []string{"16", "18", "12", "10"} {
		if strings.HasPrefix(arch, prefix) {
			return "PIC" + prefix
		}
	}
	return "PIC" + arch
}
