package atpack

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/atpack-tools/atpack-go/pkg/model"
	"github.com/atpack-tools/atpack-go/pkg/query"
)

var (
	atdfAnyDevicePath = query.MustCompile(`//device`)
	atdfInterruptPath = query.MustCompile(`//interrupts/interrupt`)
	atdfSignaturePath = query.MustCompile(`//property-group[@name="SIGNATURES"]/property`)
	atdfPropGroupPath = query.MustCompile(`//property-groups/property-group`)
	atdfPropertyPath  = query.MustCompile(`.//property`)
)

// atdfExtractor walks one ATDF document for one device.
type atdfExtractor struct {
	doc *query.Document
	dev *etree.Element
}

func parseATDF(doc *query.Document, name string) (*model.Device, error) {
	var devs []*etree.Element
	if name != "" {
		devs = doc.Find(fmt.Sprintf(`//device[@name=%q]`, name), nil)
	} else {
		devs = doc.QueryAll(atdfAnyDevicePath, nil)
	}
	if len(devs) == 0 {
		return nil, &DeviceNotFoundError{Name: name}
	}

	x := &atdfExtractor{doc: doc, dev: devs[0]}
	d := &model.Device{
		Name:         doc.AttrDefault(x.dev, "name", name),
		Dialect:      model.DialectATDF,
		Architecture: doc.AttrDefault(x.dev, "architecture", ""),
		Series:       doc.AttrDefault(x.dev, "family", ""),
	}

	d.MemorySegments, d.MemorySpaces = x.memory()
	d.Modules = x.modules()
	d.Fuses = x.fuses()
	d.Interrupts = x.interrupts()
	d.Signatures = x.signatures()
	d.ElectricalParams = x.electricalParameters()
	d.PackageVariants = x.packageVariants()
	d.PinoutTables = x.pinoutTables()
	d.ProgInterfaces = x.programmingInterfaces()
	return d, nil
}

func (x *atdfExtractor) interrupts() []model.Interrupt {
	var ints []model.Interrupt
	for _, el := range x.doc.QueryAll(atdfInterruptPath, nil) {
		name, _ := x.doc.Attr(el, "name")
		if name == "" {
			continue
		}
		ints = append(ints, model.Interrupt{
			Index:   int(x.doc.AttrInt(el, "index", 0)),
			Name:    name,
			Caption: x.doc.AttrDefault(el, "caption", ""),
		})
	}
	sort.SliceStable(ints, func(i, j int) bool { return ints[i].Index < ints[j].Index })
	return ints
}

func (x *atdfExtractor) signatures() []model.DeviceSignature {
	var sigs []model.DeviceSignature
	for _, el := range x.doc.QueryAll(atdfSignaturePath, nil) {
		name, _ := x.doc.Attr(el, "name")
		if name == "" {
			continue
		}
		valStr := x.doc.AttrDefault(el, "value", "0")
		value, err := parseIntAuto(valStr)
		if err != nil {
			continue
		}
		sig := model.DeviceSignature{Name: name, Value: value}
		// SIGNATURE0, SIGNATURE1, ... encode the byte address in
		// their name.
		if rest := strings.TrimPrefix(name, "SIGNATURE"); rest != name && rest != "" {
			if addr, err := strconv.ParseInt(rest, 10, 64); err == nil {
				sig.Address = &addr
			}
		}
		sigs = append(sigs, sig)
	}
	sort.SliceStable(sigs, func(i, j int) bool {
		return sigAddr(sigs[i]) < sigAddr(sigs[j])
	})
	return sigs
}

// sigAddr orders addressless signatures last.
func sigAddr(s model.DeviceSignature) int64 {
	if s.Address == nil {
		return 999
	}
	return *s.Address
}

// electricalGroupNames marks property groups holding electrical
// characteristics.
var electricalGroupNames = []string{"ELECTRICAL", "ABSOLUTE", "DC", "AC"}

func (x *atdfExtractor) electricalParameters() []model.ElectricalParameter {
	var params []model.ElectricalParameter
	for _, group := range x.doc.QueryAll(atdfPropGroupPath, nil) {
		groupName := x.doc.AttrDefault(group, "name", "")
		if !isElectricalGroup(groupName) {
			continue
		}
		for _, prop := range x.doc.QueryAll(atdfPropertyPath, group) {
			name, _ := x.doc.Attr(prop, "name")
			if name == "" {
				continue
			}
			p := model.ElectricalParameter{
				Group:       groupName,
				Name:        name,
				Caption:     x.doc.AttrDefault(prop, "caption", ""),
				Description: x.doc.AttrDefault(prop, "description", ""),
				Unit:        x.doc.AttrDefault(prop, "unit", ""),
				Conditions:  x.doc.AttrDefault(prop, "conditions", ""),
			}
			if f, ok := x.doc.AttrFloat(prop, "min"); ok {
				p.Min = &f
			}
			if f, ok := x.doc.AttrFloat(prop, "typ"); ok {
				p.Typical = &f
			}
			if f, ok := x.doc.AttrFloat(prop, "max"); ok {
				p.Max = &f
			}
			params = append(params, p)
		}
	}
	return params
}

func isElectricalGroup(name string) bool {
	for _, marker := range electricalGroupNames {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// parseIntAuto parses a decimal or 0x-prefixed integer.
func parseIntAuto(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseInt(s[2:], 16, 64)
	}
	return strconv.ParseInt(s, 10, 64)
}
