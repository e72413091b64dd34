package atpack

import (
	"sort"
	"strings"

	"github.com/atpack-tools/atpack-go/pkg/model"
	"github.com/atpack-tools/atpack-go/pkg/query"
)

var (
	pdscPackagePath         = query.MustCompile(`//package`)
	pdscDescriptionPath     = query.MustCompile(`//package/description`)
	pdscFamilyDevicePath    = query.MustCompile(`//devices/family/device`)
	pdscSubFamilyDevicePath = query.MustCompile(`//devices/family/subFamily/device`)
	pdscVariantPath         = query.MustCompile(`//devices/family/device/variant`)
	pdscAnyDevicePath       = query.MustCompile(`//device`)
	pdscAnyFamilyPath       = query.MustCompile(`//family`)
)

// ParsePDSCMetadata reads the pack's descriptive header and detects its
// device family from the PDSC index content.
func ParsePDSCMetadata(text string) (*model.PackMetadata, error) {
	doc, err := query.Load(text)
	if err != nil {
		return nil, err
	}

	meta := &model.PackMetadata{
		Name:    "Unknown",
		Vendor:  "Unknown",
		Version: "0.0.0",
		Family:  detectFamily(doc),
	}
	if pkgs := doc.QueryAll(pdscPackagePath, nil); len(pkgs) > 0 {
		pkg := pkgs[0]
		meta.Name = doc.AttrDefault(pkg, "name", "Unknown")
		meta.Vendor = doc.AttrDefault(pkg, "vendor", "Unknown")
		meta.Version = doc.AttrDefault(pkg, "version", "0.0.0")
		meta.URL = doc.AttrDefault(pkg, "url", "")
	}
	if descs := doc.QueryAll(pdscDescriptionPath, nil); len(descs) > 0 {
		meta.Description = strings.TrimSpace(descs[0].Text())
	}
	return meta, nil
}

// ListPDSCDevices returns the device names a PDSC declares, including
// subFamily devices and variants, deduplicated and sorted.
func ListPDSCDevices(text string) ([]string, error) {
	doc, err := query.Load(text)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	collect := func(p *query.Path, attr string) {
		for _, el := range doc.QueryAll(p, nil) {
			if name := doc.AttrDefault(el, attr, ""); name != "" {
				seen[name] = true
			}
		}
	}
	collect(pdscFamilyDevicePath, "Dname")
	collect(pdscSubFamilyDevicePath, "Dname")
	collect(pdscVariantPath, "Dvariant")

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// atmelCores and atmelFamilies mark Microchip packs that describe
// former-ATMEL parts rather than PICs.
var (
	atmelCores    = []string{"ARM", "AVR", "CORTEX"}
	atmelFamilies = []string{"AVR", "SAM", "MEGA", "TINY"}
)

// detectFamily classifies the pack by vendor, falling back to core and
// family attributes for Microchip packs that ship ATMEL parts.
func detectFamily(doc *query.Document) model.Dialect {
	vendor := ""
	if pkgs := doc.QueryAll(pdscPackagePath, nil); len(pkgs) > 0 {
		vendor = strings.ToUpper(doc.AttrDefault(pkgs[0], "vendor", ""))
	}
	switch {
	case strings.Contains(vendor, "ATMEL"):
		return model.DialectATDF
	case strings.Contains(vendor, "MICROCHIP"):
		for _, el := range doc.QueryAll(pdscAnyDevicePath, nil) {
			core := strings.ToUpper(doc.AttrDefault(el, "Dcore", ""))
			for _, marker := range atmelCores {
				if core != "" && strings.Contains(core, marker) {
					return model.DialectATDF
				}
			}
		}
		for _, el := range doc.QueryAll(pdscAnyFamilyPath, nil) {
			family := strings.ToUpper(doc.AttrDefault(el, "Dfamily", ""))
			for _, marker := range atmelFamilies {
				if family != "" && strings.Contains(family, marker) {
					return model.DialectATDF
				}
			}
		}
		return model.DialectPIC
	}
	return model.DialectUnsupported
}
