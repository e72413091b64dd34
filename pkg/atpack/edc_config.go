package atpack

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atpack-tools/atpack-go/pkg/model"
	"github.com/atpack-tools/atpack-go/pkg/query"
)

var (
	edcConfigDefPath    = query.MustCompile(`.//edc:ConfigDef`)
	edcConfigWordPath   = query.MustCompile(`.//edc:ConfigWord`)
	edcConfigFieldPath  = query.MustCompile(`.//edc:ConfigField`)
	edcConfigValuePath  = query.MustCompile(`.//edc:ConfigValue`)
	edcInterruptDefPath = query.MustCompile(`.//edc:InterruptDef`)
	edcInterruptPath    = query.MustCompile(`.//edc:Interrupt`)
	edcDeviceIDPath     = query.MustCompile(`.//edc:DeviceIDSector`)
)

// configWords extracts the configuration words, sorted ascending by
// address. Words at address zero are placeholders and dropped.
func (x *edcExtractor) configWords() []model.ConfigWord {
	var words []model.ConfigWord
	for _, configDef := range x.doc.QueryAll(edcConfigDefPath, x.dev) {
		for _, wordEl := range x.doc.QueryAll(edcConfigWordPath, configDef) {
			addr := x.doc.AttrHex(wordEl, "addr", 0)
			if addr <= 0 {
				continue
			}
			word := model.ConfigWord{
				Name:         x.doc.AttrDefault(wordEl, "name", fmt.Sprintf("CONFIG%04X", addr)),
				Address:      addr,
				DefaultValue: x.doc.AttrHex(wordEl, "default", 0),
				Mask:         x.doc.AttrHex(wordEl, "mask", 0xFFFF),
			}

			for _, fieldEl := range x.doc.QueryAll(edcConfigFieldPath, wordEl) {
				name := x.doc.AttrDefault(fieldEl, "name", "")
				mask := x.doc.AttrHex(fieldEl, "mask", 0)
				if name == "" || mask == 0 {
					continue
				}
				offset, width := maskToRange(mask)
				caption := x.doc.AttrDefault(fieldEl, "desc", "")
				if caption == "" {
					caption = name
				}
				bf := model.RegisterBitfield{
					Name:      name,
					Caption:   caption,
					Mask:      mask,
					BitOffset: offset,
					BitWidth:  width,
				}

				values := make(map[int64]string)
				for _, valEl := range x.doc.QueryAll(edcConfigValuePath, fieldEl) {
					valName := x.doc.AttrDefault(valEl, "name", "")
					if valName == "" {
						continue
					}
					label := x.doc.AttrDefault(valEl, "desc", "")
					if label == "" {
						label = valName
					}
					values[x.doc.AttrHex(valEl, "value", 0)] = label
				}
				if len(values) > 0 {
					bf.Values = values
				}
				word.Bitfields = append(word.Bitfields, bf)
			}
			words = append(words, word)
		}
	}
	sort.SliceStable(words, func(i, j int) bool { return words[i].Address < words[j].Address })
	return words
}

// enableBitNames maps interrupt enable bit stems to interrupt names.
var enableBitNames = map[string]string{
	"GI":  "GLOBAL",
	"PEI": "PERIPHERAL",
	"T0I": "TIMER0",
	"INT": "EXTERNAL",
	"RBI": "PORTB_CHANGE",
}

// interrupts takes explicit Interrupt declarations when present and
// otherwise infers sources from the enable bits of the interrupt
// control registers.
func (x *edcExtractor) interrupts() []model.Interrupt {
	var ints []model.Interrupt
	for _, intDef := range x.doc.QueryAll(edcInterruptDefPath, x.dev) {
		for _, intEl := range x.doc.QueryAll(edcInterruptPath, intDef) {
			name := x.doc.AttrDefault(intEl, "name", "")
			if name == "" {
				continue
			}
			caption := x.doc.AttrDefault(intEl, "desc", "")
			if caption == "" {
				caption = name
			}
			ints = append(ints, model.Interrupt{
				Index:   int(x.doc.AttrInt(intEl, "vector", 0)),
				Name:    name,
				Caption: caption,
			})
		}
	}
	if len(ints) == 0 {
		ints = x.inferredInterrupts()
	}
	sort.SliceStable(ints, func(i, j int) bool { return ints[i].Index < ints[j].Index })
	return ints
}

func (x *edcExtractor) inferredInterrupts() []model.Interrupt {
	sources := make(map[string]bool)
	for _, sector := range x.doc.QueryAll(edcSFRSectorPath, x.dev) {
		for _, sfrDef := range x.doc.QueryAll(edcSFRDefPath, sector) {
			switch x.doc.AttrDefault(sfrDef, "name", "") {
			case "PIE1", "PIE2", "PIE3", "PIE4", "INTCON":
			default:
				continue
			}
			for _, fieldDef := range x.doc.QueryAll(edcSFRFieldDefPath, sfrDef) {
				fieldName := x.doc.AttrDefault(fieldDef, "name", "")
				if fieldName == "" || !isEnableBit(fieldName) {
					continue
				}
				stem := enableBitStem(fieldName)
				if mapped, ok := enableBitNames[stem]; ok {
					stem = mapped
				}
				if stem != "" {
					sources[stem] = true
				}
			}
		}
	}

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	var ints []model.Interrupt
	for i, name := range names {
		ints = append(ints, model.Interrupt{
			Index:   i,
			Name:    name + "_INT",
			Caption: name + " Interrupt",
		})
	}
	return ints
}

func isEnableBit(name string) bool {
	switch name {
	case "GIE", "PEIE", "T0IE", "INTE", "RBIE":
		return true
	}
	return strings.HasSuffix(name, "IE") || strings.HasSuffix(name, "EN")
}

// enableBitStem drops the enable suffix: the EN marker entirely,
// otherwise the trailing E of IE-style names (GIE to GI, INTE to INT).
func enableBitStem(name string) string {
	if strings.HasSuffix(name, "EN") {
		return strings.TrimSuffix(name, "EN")
	}
	return strings.TrimSuffix(name, "E")
}

// signatures extracts the device-id words; a zero value means the
// sector carries no usable id.
func (x *edcExtractor) signatures() []model.DeviceSignature {
	var sigs []model.DeviceSignature
	for _, sector := range x.doc.QueryAll(edcDeviceIDPath, x.dev) {
		value := x.doc.AttrHex(sector, "value", 0)
		if value <= 0 {
			continue
		}
		addr := x.doc.AttrHex(sector, "beginaddr", 0)
		mask := x.doc.AttrHex(sector, "mask", 0xFFFF)
		region := x.doc.AttrDefault(sector, "regionid", "devid")
		sigs = append(sigs, model.DeviceSignature{
			Name:    "DEVID_" + strings.ToUpper(region),
			Address: &addr,
			Value:   value,
			Mask:    &mask,
		})
	}
	return sigs
}
