package atpack

import (
	"github.com/atpack-tools/atpack-go/pkg/model"
	"github.com/atpack-tools/atpack-go/pkg/query"
)

var (
	atdfVariantPath   = query.MustCompile(`//variant`)
	atdfPinoutPath    = query.MustCompile(`//pinout`)
	atdfPinPath       = query.MustCompile(`.//pin`)
	atdfInterfacePath = query.MustCompile(`//interface`)
	atdfParamPath     = query.MustCompile(`.//param`)
)

func (x *atdfExtractor) packageVariants() []model.PackageVariant {
	var variants []model.PackageVariant
	for _, el := range x.doc.QueryAll(atdfVariantPath, nil) {
		pkg := x.doc.AttrDefault(el, "package", "")
		pinout := x.doc.AttrDefault(el, "pinout", "")
		if pkg == "" || pinout == "" {
			continue
		}
		v := model.PackageVariant{
			OrderCode: x.doc.AttrDefault(el, "ordercode", ""),
			Package:   pkg,
			Pinout:    pinout,
		}
		if f, ok := x.doc.AttrFloat(el, "tempmin"); ok {
			v.TempMin = &f
		}
		if f, ok := x.doc.AttrFloat(el, "tempmax"); ok {
			v.TempMax = &f
		}
		if speed, err := parseIntAuto(x.doc.AttrDefault(el, "speedmax", "")); err == nil {
			v.SpeedMaxHz = &speed
		}
		if f, ok := x.doc.AttrFloat(el, "vccmin"); ok {
			v.VccMin = &f
		}
		if f, ok := x.doc.AttrFloat(el, "vccmax"); ok {
			v.VccMax = &f
		}
		variants = append(variants, v)
	}
	return variants
}

func (x *atdfExtractor) pinoutTables() []model.PinoutTable {
	var tables []model.PinoutTable
	for _, el := range x.doc.QueryAll(atdfPinoutPath, nil) {
		name := x.doc.AttrDefault(el, "name", "")
		if name == "" {
			continue
		}
		var pins []model.PinoutPin
		for _, pinEl := range x.doc.QueryAll(atdfPinPath, el) {
			position := x.doc.AttrDefault(pinEl, "position", "")
			pad := x.doc.AttrDefault(pinEl, "pad", "")
			if position == "" || pad == "" {
				continue
			}
			pins = append(pins, model.PinoutPin{Position: position, Pad: pad})
		}
		if len(pins) == 0 {
			continue
		}
		tables = append(tables, model.PinoutTable{
			Name:    name,
			Caption: x.doc.AttrDefault(el, "caption", ""),
			Pins:    pins,
		})
	}
	return tables
}

func (x *atdfExtractor) programmingInterfaces() []model.ProgrammingInterface {
	var ifaces []model.ProgrammingInterface
	for _, el := range x.doc.QueryAll(atdfInterfacePath, nil) {
		name := x.doc.AttrDefault(el, "name", "")
		ifaceType := x.doc.AttrDefault(el, "type", "")
		if name == "" || ifaceType == "" {
			continue
		}
		params := make(map[string]string)
		for _, paramEl := range x.doc.QueryAll(atdfParamPath, el) {
			pName := x.doc.AttrDefault(paramEl, "name", "")
			if pName == "" {
				continue
			}
			params[pName] = x.doc.AttrDefault(paramEl, "value", "")
		}
		if len(params) == 0 {
			params = nil
		}
		ifaces = append(ifaces, model.ProgrammingInterface{
			Name:       name,
			Type:       ifaceType,
			Parameters: params,
		})
	}
	return ifaces
}
