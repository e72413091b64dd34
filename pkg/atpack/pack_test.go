package atpack

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/atpack-tools/atpack-go/pkg/model"
)

func writeTestPack(t *testing.T, withPDSC bool) string {
	t.Helper()
	dir := t.TempDir()
	if withPDSC {
		const pdsc = `<package name="PIC16Fxxx_DFP" vendor="Microchip" version="1.7.162">
  <devices>
    <family Dfamily="PIC16">
      <device Dname="PIC16F877A"/>
    </family>
  </devices>
</package>`
		if err := os.WriteFile(filepath.Join(dir, "Microchip.PIC16Fxxx_DFP.pdsc"), []byte(pdsc), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	edcDir := filepath.Join(dir, "edc")
	if err := os.MkdirAll(edcDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(edcDir, "PIC16F877A.PIC"), []byte(picFixture), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestOpenPackWithPDSC(t *testing.T) {
	p, err := OpenPack(writeTestPack(t, true))
	if err != nil {
		t.Fatalf("OpenPack: %v", err)
	}
	defer p.Close()

	if p.Dialect() != model.DialectPIC {
		t.Fatalf("dialect = %v", p.Dialect())
	}
	meta := p.Metadata()
	if meta.Name != "PIC16Fxxx_DFP" || meta.Vendor != "Microchip" {
		t.Fatalf("meta = %+v", meta)
	}

	names, err := p.Devices()
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"PIC16F877A"}) {
		t.Fatalf("devices = %v", names)
	}
}

func TestOpenPackWithoutPDSCFallsBackToExtensions(t *testing.T) {
	p, err := OpenPack(writeTestPack(t, false))
	if err != nil {
		t.Fatalf("OpenPack: %v", err)
	}
	defer p.Close()

	if p.Dialect() != model.DialectPIC {
		t.Fatalf("dialect = %v", p.Dialect())
	}

	// Without a PDSC the device list comes from the file stems.
	names, err := p.Devices()
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"PIC16F877A"}) {
		t.Fatalf("devices = %v", names)
	}
}

func TestPackDevice(t *testing.T) {
	p, err := OpenPack(writeTestPack(t, true))
	if err != nil {
		t.Fatalf("OpenPack: %v", err)
	}
	defer p.Close()

	dev, err := p.Device("pic16f877a")
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	if dev.Name != "PIC16F877A" || dev.Dialect != model.DialectPIC {
		t.Fatalf("device = %q/%v", dev.Name, dev.Dialect)
	}

	_, err = p.Device("PIC16F628A")
	var nf *DeviceNotFoundError
	if !errors.As(err, &nf) || nf.Name != "PIC16F628A" {
		t.Fatalf("err = %v, want DeviceNotFoundError", err)
	}
}

func TestPackDeviceSpecs(t *testing.T) {
	p, err := OpenPack(writeTestPack(t, true))
	if err != nil {
		t.Fatalf("OpenPack: %v", err)
	}
	defer p.Close()

	specs, err := p.DeviceSpecs("PIC16F877A")
	if err != nil {
		t.Fatalf("DeviceSpecs: %v", err)
	}
	if specs.FlashSize == 0 {
		t.Fatalf("specs = %+v", specs)
	}
}

func TestPackDeviceSpecsRequiresPIC(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ATmega16.atdf"), []byte("<avr-tools-device-file/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := OpenPack(dir)
	if err != nil {
		t.Fatalf("OpenPack: %v", err)
	}
	defer p.Close()

	if p.Dialect() != model.DialectATDF {
		t.Fatalf("dialect = %v", p.Dialect())
	}
	if _, err := p.DeviceSpecs("ATmega16"); !errors.Is(err, ErrUnsupportedDialect) {
		t.Fatalf("err = %v, want ErrUnsupportedDialect", err)
	}
}
