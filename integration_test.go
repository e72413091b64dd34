package atpack_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/atpack-tools/atpack-go/pkg/atpack"
	"github.com/atpack-tools/atpack-go/pkg/model"
)

const e2ePDSC = `<?xml version="1.0"?>
<package name="PIC16F_E2E_DFP" vendor="Microchip" version="1.0.0">
  <devices>
    <family Dfamily="PIC16">
      <device Dname="PIC16F684"/>
    </family>
  </devices>
</package>`

const e2ePIC = `<?xml version="1.0"?>
<edc:PIC xmlns:edc="http://crownking/edc" edc:name="PIC16F684" edc:arch="16xxxx">
  <edc:PhysicalSpace>
    <edc:ProgramSpace>
      <edc:CodeSector edc:beginaddr="0x0" edc:endaddr="0x800" edc:sectionname="CODE"/>
      <edc:ConfigFuseSector edc:beginaddr="0x2007" edc:endaddr="0x2008">
        <edc:ConfigDef>
          <edc:ConfigWord edc:addr="0x2007" edc:name="CONFIG" edc:default="0x3FFF">
            <edc:ConfigField edc:name="FOSC" edc:desc="Oscillator Selection" edc:mask="0x7"/>
            <edc:ConfigField edc:name="WDTE" edc:desc="Watchdog Enable" edc:mask="0x8"/>
          </edc:ConfigWord>
        </edc:ConfigDef>
      </edc:ConfigFuseSector>
    </edc:ProgramSpace>
    <edc:DataSpace>
      <edc:SFRDataSector edc:bank="0" edc:beginaddr="0x0" edc:endaddr="0x20">
        <edc:SFRDef edc:name="STATUS" edc:_addr="0x3" edc:nzwidth="8" edc:access="rw">
          <edc:SFRModeList>
            <edc:SFRMode edc:id="DS.0">
              <edc:SFRFieldDef edc:name="C" edc:mask="0x1" edc:nzwidth="1"/>
              <edc:SFRFieldDef edc:name="DC" edc:mask="0x1" edc:nzwidth="1"/>
              <edc:SFRFieldDef edc:name="Z" edc:mask="0x1" edc:nzwidth="1"/>
            </edc:SFRMode>
          </edc:SFRModeList>
        </edc:SFRDef>
      </edc:SFRDataSector>
      <edc:GPRDataSector edc:bank="0" edc:beginaddr="0x20" edc:endaddr="0x60"/>
    </edc:DataSpace>
  </edc:PhysicalSpace>
</edc:PIC>`

const e2eATDF = `<?xml version="1.0"?>
<avr-tools-device-file>
  <devices>
    <device name="ATtiny25" architecture="AVR8" family="tinyAVR">
      <address-spaces>
        <address-space name="prog" start="0x0000" size="0x0800">
          <memory-segment name="FLASH" start="0x0000" size="0x0800" type="flash"/>
        </address-space>
      </address-spaces>
      <interrupts>
        <interrupt index="0" name="RESET"/>
        <interrupt index="1" name="INT0"/>
      </interrupts>
    </device>
  </devices>
  <modules>
    <module name="PORT" caption="I/O Port">
      <register-group name="PORTB" caption="Port B">
        <register name="PORTB" offset="0x18" size="1" caption="Port B Data"/>
      </register-group>
    </module>
  </modules>
</avr-tools-device-file>`

func writeZipPack(t *testing.T, files map[string]string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "e2e.atpack")
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return p
}

// TestE2E_PICPack runs the whole pipeline against a zipped PIC pack:
// open, classify, list, extract, and derive sizing, checking that the
// derived flash size agrees with the extracted memory layout.
func TestE2E_PICPack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	p, err := atpack.OpenPack(writeZipPack(t, map[string]string{
		"Microchip.PIC16F_E2E_DFP.pdsc": e2ePDSC,
		"edc/PIC16F684.PIC":             e2ePIC,
	}))
	if err != nil {
		t.Fatalf("Failed to open pack: %v", err)
	}
	defer p.Close()

	if p.Dialect() != model.DialectPIC {
		t.Fatalf("Dialect = %v, want PIC", p.Dialect())
	}

	names, err := p.Devices()
	if err != nil {
		t.Fatalf("Failed to list devices: %v", err)
	}
	if len(names) != 1 || names[0] != "PIC16F684" {
		t.Fatalf("Devices = %v", names)
	}

	dev, err := p.Device("PIC16F684")
	if err != nil {
		t.Fatalf("Failed to extract device: %v", err)
	}
	if dev.Series != "PIC16" {
		t.Errorf("Series = %q", dev.Series)
	}
	if _, ok := dev.FindRegister("STATUS"); !ok {
		t.Error("STATUS register missing")
	}
	if len(dev.ConfigWords) != 1 || len(dev.ConfigWords[0].Bitfields) != 2 {
		t.Errorf("ConfigWords = %+v", dev.ConfigWords)
	}

	specs, err := p.DeviceSpecs("PIC16F684")
	if err != nil {
		t.Fatalf("Failed to derive specs: %v", err)
	}

	// The derived flash size must agree with the extracted program
	// segments.
	var programTotal int64
	for _, seg := range dev.MemorySegments {
		if seg.Type == "program" {
			programTotal += seg.Size
		}
	}
	if specs.FlashSize != programTotal {
		t.Errorf("FlashSize = %d, program segments total %d", specs.FlashSize, programTotal)
	}
	if specs.GPRTotalSize != 0x40 {
		t.Errorf("GPRTotalSize = %d", specs.GPRTotalSize)
	}
}

// TestE2E_ATDFPack covers the ATDF side of the dispatcher, including
// pack classification without a PDSC.
func TestE2E_ATDFPack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	p, err := atpack.OpenPack(writeZipPack(t, map[string]string{
		"atdf/ATtiny25.atdf": e2eATDF,
	}))
	if err != nil {
		t.Fatalf("Failed to open pack: %v", err)
	}
	defer p.Close()

	if p.Dialect() != model.DialectATDF {
		t.Fatalf("Dialect = %v, want ATDF", p.Dialect())
	}

	dev, err := p.Device("ATtiny25")
	if err != nil {
		t.Fatalf("Failed to extract device: %v", err)
	}
	if dev.Architecture != "AVR8" || dev.Series != "tinyAVR" {
		t.Errorf("identity = %q/%q", dev.Architecture, dev.Series)
	}
	if len(dev.MemorySegments) != 1 || dev.MemorySegments[0].Name != "FLASH" {
		t.Errorf("MemorySegments = %+v", dev.MemorySegments)
	}
	if len(dev.Interrupts) != 2 || dev.Interrupts[0].Name != "RESET" {
		t.Errorf("Interrupts = %+v", dev.Interrupts)
	}
	if _, ok := dev.FindRegister("PORTB"); !ok {
		t.Error("PORTB register missing")
	}

	// Derived sizing is a PIC concept.
	if _, err := p.DeviceSpecs("ATtiny25"); err == nil {
		t.Error("expected DeviceSpecs to fail for an ATDF pack")
	}
}
