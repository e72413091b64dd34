package atpack

import (
	"sort"
	"strings"

	"github.com/beevik/etree"

	"github.com/atpack-tools/atpack-go/pkg/model"
	"github.com/atpack-tools/atpack-go/pkg/query"
)

var (
	edcPowerPath        = query.MustCompile(`.//edc:Power`)
	edcVDDPath          = query.MustCompile(`.//edc:VDD`)
	edcVPPPath          = query.MustCompile(`.//edc:VPP`)
	edcProgrammingPath  = query.MustCompile(`.//edc:Programming`)
	edcWaitTimePath     = query.MustCompile(`.//edc:ProgrammingWaitTime`)
	edcRowSizePath      = query.MustCompile(`.//edc:ProgrammingRowSize`)
	edcPinListPath      = query.MustCompile(`.//edc:PinList`)
	edcPinPath          = query.MustCompile(`.//edc:Pin`)
	edcVirtualPinPath   = query.MustCompile(`.//edc:VirtualPin`)
	edcBreakpointsPath  = query.MustCompile(`.//edc:Breakpoints`)
	edcInstrSetPath     = query.MustCompile(`.//edc:InstructionSet`)
	edcMemTraitsPath    = query.MustCompile(`.//edc:MemTraits`)
	edcCodeTraitsPath   = query.MustCompile(`.//edc:CodeMemTraits`)
	edcDataTraitsPath   = query.MustCompile(`.//edc:DataMemTraits`)
	edcConfigSectorPath = query.MustCompile(`.//edc:ConfigFuseSector`)
	edcDCRDefPath       = query.MustCompile(`.//edc:DCRDef`)
	edcDCRModePath      = query.MustCompile(`.//edc:DCRMode`)
	edcDCRFieldDefPath  = query.MustCompile(`.//edc:DCRFieldDef`)
	edcDCRSemanticPath  = query.MustCompile(`.//edc:DCRFieldSemantic`)
	edcLegacyAliasPath  = query.MustCompile(`.//edc:LegacyAlias`)
)

// powerSpec extracts supply and programming voltages; nil when the
// document declares no meaningful power data.
func (x *edcExtractor) powerSpec() *model.PowerSpec {
	powerEls := x.doc.QueryAll(edcPowerPath, x.dev)
	if len(powerEls) == 0 {
		return nil
	}
	powerEl := powerEls[0]

	spec := &model.PowerSpec{}
	if b, ok := x.doc.AttrBool(powerEl, "hashighvoltagemclr2"); ok {
		spec.HasHighVoltageMCLR = &b
	}

	if vdds := x.doc.QueryAll(edcVDDPath, powerEl); len(vdds) > 0 {
		vdd := vdds[0]
		spec.VDDMin = x.floatAttr(vdd, "minvoltage")
		spec.VDDMax = x.floatAttr(vdd, "maxvoltage")
		spec.VDDNominal = x.floatAttr(vdd, "nominalvoltage")
		spec.VDDDefaultMin = x.floatAttr(vdd, "mindefaultvoltage")
		spec.VDDDefaultMax = x.floatAttr(vdd, "maxdefaultvoltage")
	}
	if vpps := x.doc.QueryAll(edcVPPPath, powerEl); len(vpps) > 0 {
		vpp := vpps[0]
		spec.VPPMin = x.floatAttr(vpp, "minvoltage")
		spec.VPPMax = x.floatAttr(vpp, "maxvoltage")
		spec.VPPDefault = x.floatAttr(vpp, "defaultvoltage")
	}

	if spec.VDDMin == nil && spec.VDDMax == nil && spec.VDDNominal == nil &&
		spec.VPPMin == nil && spec.VPPMax == nil && spec.VPPDefault == nil {
		return nil
	}
	return spec
}

func (x *edcExtractor) floatAttr(el *etree.Element, name string) *float64 {
	if f, ok := x.doc.AttrFloat(el, name); ok {
		return &f
	}
	return nil
}

// oscillatorConfigs collects the oscillator options declared by
// FOSC/OSC configuration fields.
func (x *edcExtractor) oscillatorConfigs() []model.OscillatorConfig {
	var configs []model.OscillatorConfig
	for _, sector := range x.doc.QueryAll(edcConfigSectorPath, x.dev) {
		for _, dcr := range x.doc.QueryAll(edcDCRDefPath, sector) {
			for _, mode := range x.doc.QueryAll(edcDCRModePath, dcr) {
				for _, field := range x.doc.QueryAll(edcDCRFieldDefPath, mode) {
					fieldName := x.doc.AttrDefault(field, "name", "")
					if !strings.Contains(strings.ToUpper(fieldName), "OSC") {
						continue
					}
					fieldMask := x.doc.AttrDefault(field, "mask", "")
					for _, semantic := range x.doc.QueryAll(edcDCRSemanticPath, field) {
						cname := x.doc.AttrDefault(semantic, "cname", "")
						if cname == "" {
							continue
						}
						desc := x.doc.AttrDefault(semantic, "desc", "")
						if desc == "" {
							desc = cname
						}
						cfg := model.OscillatorConfig{
							Name:          cname,
							Description:   desc,
							ConfigMask:    fieldMask,
							WhenCondition: x.doc.AttrDefault(semantic, "when", ""),
							CName:         cname,
						}
						if aliases := x.doc.QueryAll(edcLegacyAliasPath, semantic); len(aliases) > 0 {
							cfg.LegacyAlias = x.doc.AttrDefault(aliases[0], "cname", "")
						}
						configs = append(configs, cfg)
					}
				}
			}
		}
	}
	return configs
}

// programming extracts programming/erase characteristics; nil when the
// document has no Programming element.
func (x *edcExtractor) programming() *model.ProgrammingSpec {
	progEls := x.doc.QueryAll(edcProgrammingPath, x.dev)
	if len(progEls) == 0 {
		return nil
	}
	progEl := progEls[0]

	spec := &model.ProgrammingSpec{
		EraseAlgo: x.doc.AttrDefault(progEl, "erasealgo", ""),
		MemTech:   x.doc.AttrDefault(progEl, "memtech", ""),
	}
	if b, ok := x.doc.AttrBool(progEl, "haslvp2"); ok {
		spec.HasLVP = &b
	}
	if f, ok := x.doc.AttrFloat(progEl, "lvpthresh"); ok {
		spec.LVPThreshold = &f
	}
	if tries := x.doc.AttrInt(progEl, "tries", 0); tries > 0 {
		n := int(tries)
		spec.ProgramTries = &n
	}
	if b, ok := x.doc.AttrBool(progEl, "hasrowerasecmd"); ok {
		spec.HasRowEraseCmd = &b
	}

	for _, waitEl := range x.doc.QueryAll(edcWaitTimePath, progEl) {
		op := x.doc.AttrDefault(waitEl, "progop", "")
		timeVal := x.doc.AttrInt(waitEl, "time", 0)
		if op == "" || timeVal == 0 {
			continue
		}
		units := x.doc.AttrDefault(waitEl, "timeunits", "")
		if units == "" {
			units = "us"
		}
		spec.WaitTimes = append(spec.WaitTimes, model.ProgrammingWaitTime{
			Operation: op,
			Time:      timeVal,
			Units:     units,
		})
	}
	for _, rowEl := range x.doc.QueryAll(edcRowSizePath, progEl) {
		op := x.doc.AttrDefault(rowEl, "progop", "")
		size := x.doc.AttrInt(rowEl, "nzsize", 0)
		if op == "" || size == 0 {
			continue
		}
		spec.RowSizes = append(spec.RowSizes, model.ProgrammingRowSize{
			Operation: op,
			Size:      size,
		})
	}
	return spec
}

// pinCategory classifies a pin by its primary function name; the first
// matching rule wins.
func pinCategory(fn string) string {
	switch {
	case fn == "VDD" || fn == "VSS":
		return "power"
	case fn == "MCLR" || fn == "VPP":
		return "control"
	case strings.HasPrefix(fn, "AN") || strings.Contains(fn, "VREF"):
		return "analog"
	case strings.HasPrefix(fn, "OSC"):
		return "oscillator"
	case strings.HasPrefix(fn, "PGC") || strings.HasPrefix(fn, "PGD"):
		return "programming"
	}
	return "digital"
}

// pinout extracts the physical pins with their multiplexed functions.
// Physical pin numbers are 1-based document order.
func (x *edcExtractor) pinout() []model.PinInfo {
	pinLists := x.doc.QueryAll(edcPinListPath, x.dev)
	if len(pinLists) == 0 {
		return nil
	}

	var pins []model.PinInfo
	for i, pinEl := range x.doc.QueryAll(edcPinPath, pinLists[0]) {
		pin := model.PinInfo{PhysicalPin: i + 1}
		for _, vpin := range x.doc.QueryAll(edcVirtualPinPath, pinEl) {
			fn := x.doc.AttrDefault(vpin, "name", "")
			if fn == "" {
				continue
			}
			pin.Functions = append(pin.Functions, model.PinFunction{Name: fn})
			if pin.PrimaryFunction == "" {
				pin.PrimaryFunction = fn
				pin.Category = pinCategory(fn)
			}
		}
		pins = append(pins, pin)
	}
	return pins
}

// debugCapabilities extracts breakpoint resources; nil without a
// Breakpoints element.
func (x *edcExtractor) debugCapabilities() *model.DebugCapabilities {
	bps := x.doc.QueryAll(edcBreakpointsPath, x.dev)
	if len(bps) == 0 {
		return nil
	}
	bp := bps[0]

	caps := &model.DebugCapabilities{
		IDByte: x.doc.AttrDefault(bp, "idbyte", ""),
	}
	if count := x.doc.AttrInt(bp, "hwbpcount", 0); count > 0 {
		n := int(count)
		caps.HardwareBreakpoints = &n
	}
	if b, ok := x.doc.AttrBool(bp, "hasdatacapture"); ok {
		caps.HasDataCapture = &b
	}
	return caps
}

// architectureInfo extracts instruction-set and memory-trait metadata;
// nil when none of it is declared.
func (x *edcExtractor) architectureInfo() *model.ArchitectureInfo {
	info := &model.ArchitectureInfo{}

	if els := x.doc.QueryAll(edcInstrSetPath, x.dev); len(els) > 0 {
		info.InstructionSet = x.doc.AttrDefault(els[0], "instructionsetid", "")
	}
	if traits := x.doc.QueryAll(edcMemTraitsPath, x.dev); len(traits) > 0 {
		mt := traits[0]
		if depth := x.doc.AttrInt(mt, "hwstackdepth", 0); depth > 0 {
			n := int(depth)
			info.HardwareStackDepth = &n
		}
		if els := x.doc.QueryAll(edcCodeTraitsPath, mt); len(els) > 0 {
			if ws := x.doc.AttrInt(els[0], "wordsize", 0); ws > 0 {
				n := int(ws)
				info.CodeWordSize = &n
			}
		}
		if els := x.doc.QueryAll(edcDataTraitsPath, mt); len(els) > 0 {
			if ws := x.doc.AttrInt(els[0], "wordsize", 0); ws > 0 {
				n := int(ws)
				info.DataWordSize = &n
			}
		}
	}

	if info.InstructionSet == "" && info.HardwareStackDepth == nil &&
		info.CodeWordSize == nil && info.DataWordSize == nil {
		return nil
	}
	return info
}

// peripheralRules maps register name prefixes to peripheral labels, in
// match order.
var peripheralRules = []struct {
	prefixes []string
	label    string
}{
	{[]string{"TMR", "T0CON", "T1CON", "T2CON", "T3CON", "T4CON", "T5CON"}, "TIMER"},
	{[]string{"CCP", "PWM"}, "CCP_PWM"},
	{[]string{"ADC", "ADCON", "ADRES"}, "ADC"},
	{[]string{"SSP", "SPI"}, "SPI"},
	{[]string{"USART", "UART", "EUSART"}, "UART"},
	{[]string{"I2C", "MSSP"}, "I2C"},
}

// detectPeripherals derives a sorted peripheral label set from the SFR
// register names.
func (x *edcExtractor) detectPeripherals() []string {
	found := make(map[string]bool)
	for _, sfrDef := range x.doc.QueryAll(edcSFRDefPath, x.dev) {
		name := strings.ToUpper(x.doc.AttrDefault(sfrDef, "name", ""))
		if name == "" {
			continue
		}
		if label := classifyPeripheral(name); label != "" {
			found[label] = true
		}
	}

	labels := make([]string, 0, len(found))
	for label := range found {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func classifyPeripheral(name string) string {
	for _, rule := range peripheralRules {
		for _, prefix := range rule.prefixes {
			if strings.HasPrefix(name, prefix) {
				return rule.label
			}
		}
	}
	switch {
	case strings.HasPrefix(name, "CM"), strings.Contains(name, "CMCON"):
		return "COMPARATOR"
	}
	switch name {
	case "PIE1", "PIE2", "PIE3", "PIE4", "PIR1", "PIR2", "PIR3", "PIR4", "INTCON":
		return "INTERRUPT_CONTROLLER"
	}
	switch {
	case strings.HasPrefix(name, "TRIS"), strings.HasPrefix(name, "PORT"), strings.HasPrefix(name, "LAT"):
		return "GPIO"
	case strings.HasPrefix(name, "WDT"):
		return "WATCHDOG"
	case strings.HasPrefix(name, "EECON"), strings.HasPrefix(name, "EEDATA"), strings.HasPrefix(name, "EEADR"):
		return "EEPROM"
	case strings.HasPrefix(name, "OSC"), strings.HasPrefix(name, "CLOCK"):
		return "OSCILLATOR"
	}
	return ""
}
