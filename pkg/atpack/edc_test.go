package atpack

import (
	"errors"
	"testing"

	"github.com/atpack-tools/atpack-go/pkg/model"
)

const picFixture = `<?xml version="1.0"?>
<edc:PIC xmlns:edc="http://crownking/edc" edc:name="PIC16F877A" edc:arch="16xxxx">
  <edc:InstructionSet edc:instructionsetid="pic16"/>
  <edc:MemTraits edc:hwstackdepth="8">
    <edc:CodeMemTraits edc:wordsize="2"/>
    <edc:DataMemTraits edc:wordsize="1"/>
  </edc:MemTraits>
  <edc:PhysicalSpace>
    <edc:ProgramSpace>
      <edc:CodeSector edc:beginaddr="0x0" edc:endaddr="0x2000" edc:sectionname="CODE"/>
      <edc:DeviceIDSector edc:beginaddr="0x2006" edc:value="0x0E20" edc:mask="0x3FE0" edc:regionid="devid"/>
      <edc:ConfigFuseSector edc:beginaddr="0x2007" edc:endaddr="0x2008">
        <edc:DCRDef edc:addr="0x2007" edc:name="CONFIG" edc:default="0x3FFF" edc:mask="0x3FFF">
          <edc:DCRMode edc:id="DS.0">
            <edc:DCRFieldDef edc:name="FOSC" edc:desc="Oscillator Selection" edc:mask="0x3">
              <edc:DCRFieldSemantic edc:cname="FOSC_HS" edc:desc="HS oscillator" edc:when="(field &amp; 0x3) == 0x2">
                <edc:LegacyAlias edc:cname="HS_OSC"/>
              </edc:DCRFieldSemantic>
              <edc:DCRFieldSemantic edc:cname="FOSC_XT" edc:desc="XT oscillator" edc:when="(field &amp; 0x3) == 0x1"/>
            </edc:DCRFieldDef>
            <edc:DCRFieldDef edc:name="WDTE" edc:desc="Watchdog Timer" edc:mask="0x4"/>
          </edc:DCRMode>
        </edc:DCRDef>
      </edc:ConfigFuseSector>
    </edc:ProgramSpace>
    <edc:DataSpace>
      <edc:SFRDataSector edc:bank="0" edc:beginaddr="0x0" edc:endaddr="0x20">
        <edc:SFRDef edc:name="INDF" edc:_addr="0x0" edc:access="rrrrrrrr" edc:nzwidth="0x8" edc:desc="Indirect register"/>
        <edc:SFRDef edc:name="STATUS" edc:_addr="0x3" edc:access="rwrwrwrwrwrwrwrw" edc:nzwidth="0x8" edc:desc="Status register">
          <edc:SFRMode edc:id="DS.0">
            <edc:SFRFieldDef edc:name="C" edc:desc="Carry" edc:mask="0x1" edc:nzwidth="0x1"/>
            <edc:SFRFieldDef edc:name="DC" edc:desc="Digit Carry" edc:mask="0x1" edc:nzwidth="0x1"/>
            <edc:SFRFieldDef edc:name="Z" edc:desc="Zero" edc:mask="0x1" edc:nzwidth="0x1"/>
            <edc:SFRFieldDef edc:name="RP" edc:desc="Bank Select" edc:mask="0x60"/>
          </edc:SFRMode>
          <edc:SFRMode edc:id="LT.0">
            <edc:AdjustPoint edc:offset="0x3"/>
            <edc:SFRFieldDef edc:name="PD" edc:desc="Power Down" edc:mask="0x1" edc:nzwidth="0x1"/>
            <edc:SFRFieldDef edc:name="TO" edc:desc="Timeout" edc:mask="0x1" edc:nzwidth="0x1"/>
          </edc:SFRMode>
        </edc:SFRDef>
        <edc:SFRDef edc:name="INTCON" edc:_addr="0xB" edc:access="rwrwrwrwrwrwrwrw">
          <edc:SFRMode edc:id="DS.0">
            <edc:SFRFieldDef edc:name="RBIE" edc:desc="Port change enable" edc:mask="0x8"/>
            <edc:SFRFieldDef edc:name="GIE" edc:desc="Global enable" edc:mask="0x80"/>
          </edc:SFRMode>
        </edc:SFRDef>
        <edc:SFRDef edc:name="PHANTOM" edc:_addr="0x0"/>
      </edc:SFRDataSector>
      <edc:SFRDataSector edc:bank="1" edc:beginaddr="0x80" edc:endaddr="0xA0">
        <edc:SFRDef edc:name="TRISB" edc:_addr="0x86" edc:access="rwrwrwrwrwrwrwrw"/>
      </edc:SFRDataSector>
      <edc:GPRDataSector edc:bank="0" edc:beginaddr="0x20" edc:endaddr="0x70"/>
      <edc:DataSector edc:beginaddr="0x70" edc:endaddr="0x80" edc:sectionname="COMMON"/>
      <edc:SFRDataSector edc:bank="9" edc:beginaddr="0x100" edc:endaddr="0x100"/>
    </edc:DataSpace>
    <edc:EEDataSpace>
      <edc:EESector edc:beginaddr="0x2100" edc:endaddr="0x2200"/>
    </edc:EEDataSpace>
  </edc:PhysicalSpace>
  <edc:NMMRPlace>
    <edc:SFRDef edc:name="WREG" edc:_addr="0x0" edc:access="rwrwrwrwrwrwrwrw" edc:desc="Working register"/>
  </edc:NMMRPlace>
  <edc:Programming edc:erasealgo="bulk" edc:memtech="EE" edc:haslvp2="true" edc:lvpthresh="4.5" edc:tries="1">
    <edc:ProgrammingWaitTime edc:progop="PGM" edc:time="4000"/>
    <edc:ProgrammingRowSize edc:progop="PGM" edc:nzsize="8"/>
  </edc:Programming>
  <edc:Breakpoints edc:hwbpcount="1" edc:hasdatacapture="false" edc:idbyte="0x0"/>
  <edc:PinList>
    <edc:Pin>
      <edc:VirtualPin edc:name="MCLR"/>
      <edc:VirtualPin edc:name="VPP"/>
    </edc:Pin>
    <edc:Pin>
      <edc:VirtualPin edc:name="RA0"/>
      <edc:VirtualPin edc:name="AN0"/>
    </edc:Pin>
    <edc:Pin>
      <edc:VirtualPin edc:name="OSC1"/>
    </edc:Pin>
    <edc:Pin>
      <edc:VirtualPin edc:name="VDD"/>
    </edc:Pin>
  </edc:PinList>
  <edc:Power edc:hashighvoltagemclr2="true">
    <edc:VDD edc:minvoltage="4.0" edc:maxvoltage="5.5" edc:nominalvoltage="5.0"/>
    <edc:VPP edc:minvoltage="12.75" edc:maxvoltage="13.25" edc:defaultvoltage="13.0"/>
  </edc:Power>
</edc:PIC>`

func parsePICFixture(t *testing.T) *model.Device {
	t.Helper()
	dev, err := ParseDevice(picFixture, model.DialectPIC, "PIC16F877A")
	if err != nil {
		t.Fatalf("ParseDevice: %v", err)
	}
	return dev
}

func TestPICDeviceIdentity(t *testing.T) {
	dev := parsePICFixture(t)
	if dev.Name != "PIC16F877A" || dev.Dialect != model.DialectPIC {
		t.Fatalf("identity = %q/%q", dev.Name, dev.Dialect)
	}
	if dev.Architecture != "PIC" || dev.Series != "PIC16" {
		t.Fatalf("architecture %q series %q", dev.Architecture, dev.Series)
	}
}

func TestPICDeviceNotFound(t *testing.T) {
	_, err := ParseDevice(picFixture, model.DialectPIC, "PIC18F4550")
	var nf *DeviceNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want DeviceNotFoundError", err)
	}
	if nf.Name != "PIC18F4550" {
		t.Fatalf("Name = %q", nf.Name)
	}
}

func TestPICSeriesDerivation(t *testing.T) {
	cases := map[string]string{
		"16xxxx": "PIC16",
		"18xxxx": "PIC18",
		"12xxxx": "PIC12",
		"10xxxx": "PIC10",
		"24E":    "PIC24E",
		"":       "",
	}
	for arch, want := range cases {
		if got := picSeries(arch); got != want {
			t.Errorf("picSeries(%q) = %q, want %q", arch, got, want)
		}
	}
}

func TestPICMemorySegments(t *testing.T) {
	dev := parsePICFixture(t)

	byName := make(map[string]model.MemorySegment)
	for _, seg := range dev.MemorySegments {
		byName[seg.Name] = seg
	}

	code := byName["CODE"]
	if code.Start != 0 || code.Size != 0x2000 || code.Type != "program" {
		t.Fatalf("code = %+v", code)
	}
	bank0 := byName["SFR_BANK0"]
	if bank0.Start != 0 || bank0.Size != 0x20 || bank0.Type != "sfr" {
		t.Fatalf("bank0 = %+v", bank0)
	}
	common := byName["COMMON"]
	if common.Start != 0x70 || common.Size != 0x10 || common.Type != "data" {
		t.Fatalf("common = %+v", common)
	}
	eeprom := byName["EEPROM"]
	if eeprom.Start != 0x2100 || eeprom.Size != 0x100 || eeprom.Type != "eeprom" {
		t.Fatalf("eeprom = %+v", eeprom)
	}
	// Zero-span sectors are dropped.
	if _, ok := byName["SFR_BANK9"]; ok {
		t.Fatal("empty sector SFR_BANK9 should be dropped")
	}
}

func TestPICMemorySpaces(t *testing.T) {
	dev := parsePICFixture(t)
	if len(dev.MemorySpaces) != 3 {
		t.Fatalf("got %d spaces, want 3", len(dev.MemorySpaces))
	}
	for _, space := range dev.MemorySpaces {
		for i := 1; i < len(space.Segments); i++ {
			if space.Segments[i-1].Start > space.Segments[i].Start {
				t.Fatalf("space %s segments not sorted", space.Name)
			}
		}
	}
	data := dev.MemorySpaces[1]
	if data.Name != "DataSpace" || len(data.Segments) != 3 {
		t.Fatalf("data space = %+v", data)
	}
}

func TestPICRegisterBanks(t *testing.T) {
	dev := parsePICFixture(t)

	var bank0, core *model.Module
	for i := range dev.Modules {
		switch dev.Modules[i].Name {
		case "BANK0":
			bank0 = &dev.Modules[i]
		case "CORE":
			core = &dev.Modules[i]
		}
	}
	if bank0 == nil || core == nil {
		t.Fatalf("modules = %+v", dev.Modules)
	}
	if bank0.Caption != "Register Bank 0" || bank0.RegisterGroups[0].Name != "SFR_BANK0" {
		t.Fatalf("bank0 = %+v", bank0)
	}

	// INDF sits at address zero but is a known core alias; the
	// unnamed placeholder at address zero is dropped.
	names := make(map[string]bool)
	for _, reg := range bank0.RegisterGroups[0].Registers {
		names[reg.Name] = true
	}
	if !names["INDF"] || !names["STATUS"] || !names["INTCON"] {
		t.Fatalf("bank0 registers = %v", names)
	}
	if names["PHANTOM"] {
		t.Fatal("PHANTOM at address zero should be dropped")
	}

	if len(core.RegisterGroups[0].Registers) != 1 || core.RegisterGroups[0].Registers[0].Name != "WREG" {
		t.Fatalf("core registers = %+v", core.RegisterGroups[0].Registers)
	}
}

func TestPICRegisterAccessMapping(t *testing.T) {
	dev := parsePICFixture(t)

	indf, _ := dev.FindRegister("INDF")
	if indf.Access != "R" {
		t.Fatalf("INDF access = %q", indf.Access)
	}
	status, _ := dev.FindRegister("STATUS")
	if status.Access != "RW" {
		t.Fatalf("STATUS access = %q", status.Access)
	}
	if status.Size != 1 {
		t.Fatalf("STATUS size = %d", status.Size)
	}
}

func TestPICStatusBitLayoutReconciliation(t *testing.T) {
	dev := parsePICFixture(t)
	status, ok := dev.FindRegister("STATUS")
	if !ok {
		t.Fatal("STATUS not found")
	}

	fields := make(map[string]model.RegisterBitfield)
	for _, bf := range status.Bitfields {
		fields[bf.Name] = bf
	}

	// DS.0 sentinel fields walk the cursor: C, DC, Z at bits 0..2.
	for i, name := range []string{"C", "DC", "Z"} {
		bf, ok := fields[name]
		if !ok {
			t.Fatalf("field %s missing", name)
		}
		if bf.BitOffset != i || bf.BitWidth != 1 {
			t.Fatalf("%s = offset %d width %d, want %d/1", name, bf.BitOffset, bf.BitWidth, i)
		}
		if bf.Mask != int64(1)<<i {
			t.Fatalf("%s mask = %#x", name, bf.Mask)
		}
	}

	// The multi-bit field keeps its literal mask.
	rp := fields["RP"]
	if rp.BitOffset != 5 || rp.BitWidth != 2 || rp.Mask != 0x60 {
		t.Fatalf("RP = %+v", rp)
	}

	// Alias-mode fields land after the AdjustPoint gap: PD at bit 3,
	// TO at bit 4.
	pd := fields["PD"]
	if pd.BitOffset != 3 || pd.Mask != 0x8 {
		t.Fatalf("PD = %+v", pd)
	}
	to := fields["TO"]
	if to.BitOffset != 4 || to.Mask != 0x10 {
		t.Fatalf("TO = %+v", to)
	}

	if len(status.Bitfields) != 6 {
		t.Fatalf("got %d bitfields, want 6", len(status.Bitfields))
	}
}

func TestPICConfigWords(t *testing.T) {
	dev := parsePICFixture(t)
	if len(dev.ConfigWords) != 0 {
		// The fixture declares DCRDef under ConfigFuseSector, not
		// ConfigDef/ConfigWord, so no config words come out.
		t.Fatalf("config words = %+v", dev.ConfigWords)
	}
}

func TestPICInferredInterrupts(t *testing.T) {
	dev := parsePICFixture(t)
	// No explicit InterruptDef: inferred from INTCON enable bits.
	if len(dev.Interrupts) != 2 {
		t.Fatalf("interrupts = %+v", dev.Interrupts)
	}
	if dev.Interrupts[0].Name != "GLOBAL_INT" || dev.Interrupts[1].Name != "PORTB_CHANGE_INT" {
		t.Fatalf("interrupts = %+v", dev.Interrupts)
	}
	for i, in := range dev.Interrupts {
		if in.Index != i {
			t.Fatalf("interrupt indices not sequential: %+v", dev.Interrupts)
		}
	}
}

func TestPICSignatures(t *testing.T) {
	dev := parsePICFixture(t)
	if len(dev.Signatures) != 1 {
		t.Fatalf("signatures = %+v", dev.Signatures)
	}
	sig := dev.Signatures[0]
	if sig.Name != "DEVID_DEVID" || sig.Value != 0x0E20 {
		t.Fatalf("signature = %+v", sig)
	}
	if sig.Address == nil || *sig.Address != 0x2006 || sig.Mask == nil || *sig.Mask != 0x3FE0 {
		t.Fatalf("signature = %+v", sig)
	}
}

func TestPICPowerSpec(t *testing.T) {
	dev := parsePICFixture(t)
	if dev.PowerSpec == nil {
		t.Fatal("power spec missing")
	}
	p := dev.PowerSpec
	if p.VDDMin == nil || *p.VDDMin != 4.0 || p.VDDMax == nil || *p.VDDMax != 5.5 {
		t.Fatalf("vdd = %+v", p)
	}
	if p.VPPDefault == nil || *p.VPPDefault != 13.0 {
		t.Fatalf("vpp = %+v", p)
	}
	if p.HasHighVoltageMCLR == nil || !*p.HasHighVoltageMCLR {
		t.Fatalf("hv mclr = %+v", p.HasHighVoltageMCLR)
	}
}

func TestPICPowerSpecAbsent(t *testing.T) {
	const minimal = `<edc:PIC xmlns:edc="http://crownking/edc" edc:name="PIC10F200" edc:arch="10xxxx"/>`
	dev, err := ParseDevice(minimal, model.DialectPIC, "PIC10F200")
	if err != nil {
		t.Fatalf("ParseDevice: %v", err)
	}
	if dev.PowerSpec != nil {
		t.Fatalf("power spec = %+v, want nil", dev.PowerSpec)
	}
	if dev.Programming != nil || dev.Debug != nil || dev.ArchitectureInfo != nil {
		t.Fatal("absent ancillary blocks must be nil")
	}
}

func TestPICOscillatorConfigs(t *testing.T) {
	dev := parsePICFixture(t)
	if len(dev.OscillatorConfigs) != 2 {
		t.Fatalf("oscillator configs = %+v", dev.OscillatorConfigs)
	}
	hs := dev.OscillatorConfigs[0]
	if hs.Name != "FOSC_HS" || hs.Description != "HS oscillator" || hs.LegacyAlias != "HS_OSC" {
		t.Fatalf("hs = %+v", hs)
	}
	if hs.ConfigMask != "0x3" {
		t.Fatalf("hs mask = %q", hs.ConfigMask)
	}
	xt := dev.OscillatorConfigs[1]
	if xt.Name != "FOSC_XT" || xt.LegacyAlias != "" {
		t.Fatalf("xt = %+v", xt)
	}
}

func TestPICProgramming(t *testing.T) {
	dev := parsePICFixture(t)
	prog := dev.Programming
	if prog == nil {
		t.Fatal("programming missing")
	}
	if prog.EraseAlgo != "bulk" || prog.MemTech != "EE" {
		t.Fatalf("programming = %+v", prog)
	}
	if prog.HasLVP == nil || !*prog.HasLVP || prog.LVPThreshold == nil || *prog.LVPThreshold != 4.5 {
		t.Fatalf("lvp = %+v", prog)
	}
	if len(prog.WaitTimes) != 1 || prog.WaitTimes[0].Time != 4000 || prog.WaitTimes[0].Units != "us" {
		t.Fatalf("wait times = %+v", prog.WaitTimes)
	}
	if len(prog.RowSizes) != 1 || prog.RowSizes[0].Size != 8 {
		t.Fatalf("row sizes = %+v", prog.RowSizes)
	}
}

func TestPICPinout(t *testing.T) {
	dev := parsePICFixture(t)
	if len(dev.Pinout) != 4 {
		t.Fatalf("pins = %+v", dev.Pinout)
	}
	want := []struct {
		primary  string
		category string
	}{
		{"MCLR", "control"},
		{"RA0", "digital"},
		{"OSC1", "oscillator"},
		{"VDD", "power"},
	}
	for i, w := range want {
		pin := dev.Pinout[i]
		if pin.PhysicalPin != i+1 {
			t.Fatalf("pin %d number = %d", i, pin.PhysicalPin)
		}
		if pin.PrimaryFunction != w.primary || pin.Category != w.category {
			t.Fatalf("pin %d = %+v, want %s/%s", i, pin, w.primary, w.category)
		}
	}
	if len(dev.Pinout[0].Functions) != 2 {
		t.Fatalf("pin 1 functions = %+v", dev.Pinout[0].Functions)
	}
}

func TestPICDebugCapabilities(t *testing.T) {
	dev := parsePICFixture(t)
	if dev.Debug == nil {
		t.Fatal("debug missing")
	}
	if dev.Debug.HardwareBreakpoints == nil || *dev.Debug.HardwareBreakpoints != 1 {
		t.Fatalf("breakpoints = %+v", dev.Debug)
	}
	if dev.Debug.HasDataCapture == nil || *dev.Debug.HasDataCapture {
		t.Fatalf("data capture = %+v", dev.Debug.HasDataCapture)
	}
}

func TestPICArchitectureInfo(t *testing.T) {
	dev := parsePICFixture(t)
	info := dev.ArchitectureInfo
	if info == nil {
		t.Fatal("architecture info missing")
	}
	if info.InstructionSet != "pic16" {
		t.Fatalf("instruction set = %q", info.InstructionSet)
	}
	if info.HardwareStackDepth == nil || *info.HardwareStackDepth != 8 {
		t.Fatalf("stack depth = %+v", info.HardwareStackDepth)
	}
	if info.CodeWordSize == nil || *info.CodeWordSize != 2 || info.DataWordSize == nil || *info.DataWordSize != 1 {
		t.Fatalf("word sizes = %+v", info)
	}
}

func TestPICDetectedPeripherals(t *testing.T) {
	dev := parsePICFixture(t)
	want := []string{"GPIO", "INTERRUPT_CONTROLLER"}
	if len(dev.Peripherals) != len(want) {
		t.Fatalf("peripherals = %v, want %v", dev.Peripherals, want)
	}
	for i, label := range want {
		if dev.Peripherals[i] != label {
			t.Fatalf("peripherals = %v, want %v", dev.Peripherals, want)
		}
	}
}

func TestPICParseIsIdempotent(t *testing.T) {
	first := parsePICFixture(t)
	second := parsePICFixture(t)
	if len(first.MemorySegments) != len(second.MemorySegments) ||
		len(first.Modules) != len(second.Modules) ||
		len(first.Interrupts) != len(second.Interrupts) {
		t.Fatal("repeated parsing diverged")
	}
}
