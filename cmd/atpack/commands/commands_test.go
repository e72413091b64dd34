package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPIC = `<?xml version="1.0"?>
<edc:PIC xmlns:edc="http://crownking/edc" edc:name="PIC16F690" edc:arch="16xxxx">
  <edc:PhysicalSpace>
    <edc:ProgramSpace>
      <edc:CodeSector edc:beginaddr="0x0" edc:endaddr="0x1000" edc:sectionname="CODE"/>
      <edc:ConfigFuseSector edc:beginaddr="0x2007" edc:endaddr="0x2008">
        <edc:ConfigDef>
          <edc:ConfigWord edc:addr="0x2007" edc:name="CONFIG" edc:default="0x3FFF">
            <edc:ConfigField edc:name="FOSC" edc:desc="Oscillator Selection" edc:mask="0x7"/>
          </edc:ConfigWord>
        </edc:ConfigDef>
      </edc:ConfigFuseSector>
    </edc:ProgramSpace>
    <edc:DataSpace>
      <edc:SFRDataSector edc:bank="0" edc:beginaddr="0x0" edc:endaddr="0x20">
        <edc:SFRDef edc:name="STATUS" edc:_addr="0x3" edc:nzwidth="8" edc:access="rw"/>
      </edc:SFRDataSector>
      <edc:GPRDataSector edc:bank="0" edc:beginaddr="0x20" edc:endaddr="0x70"/>
    </edc:DataSpace>
  </edc:PhysicalSpace>
</edc:PIC>`

const testPDSC = `<package name="PIC16F_DFP" vendor="Microchip" version="1.3.90">
  <devices>
    <family Dfamily="PIC16">
      <device Dname="PIC16F690"/>
    </family>
  </devices>
</package>`

func writeCommandPack(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Microchip.PIC16F_DFP.pdsc"), []byte(testPDSC), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "PIC16F690.PIC"), []byte(testPIC), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRunDevices(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunDevices([]string{writeCommandPack(t)}, stdout, stderr)

	if exitCode != exitSuccess {
		t.Errorf("expected exit code %d, got %d", exitSuccess, exitCode)
		t.Logf("stderr: %s", stderr.String())
	}
	if !strings.Contains(stdout.String(), "PIC16F690") {
		t.Errorf("expected device name in output, got: %s", stdout.String())
	}
	if !strings.Contains(stdout.String(), "Total: 1 devices") {
		t.Errorf("expected total line, got: %s", stdout.String())
	}
}

func TestRunDevices_JSONOutput(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunDevices([]string{"--format", "json", writeCommandPack(t)}, stdout, stderr)

	if exitCode != exitSuccess {
		t.Errorf("expected exit code %d, got %d", exitSuccess, exitCode)
	}
	if !strings.Contains(stdout.String(), `"devices"`) {
		t.Errorf("expected JSON output with 'devices' field, got: %s", stdout.String())
	}
}

func TestRunDevices_NoPack(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunDevices([]string{}, stdout, stderr)

	if exitCode != exitCommandError {
		t.Errorf("expected exit code %d, got %d", exitCommandError, exitCode)
	}
	if !strings.Contains(stderr.String(), "no atpack file specified") {
		t.Errorf("expected 'no atpack file specified' in stderr, got: %s", stderr.String())
	}
}

func TestRunDevices_BadFormat(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunDevices([]string{"--format", "xml", writeCommandPack(t)}, stdout, stderr)

	if exitCode != exitCommandError {
		t.Errorf("expected exit code %d, got %d", exitCommandError, exitCode)
	}
}

func TestRunShow(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunShow([]string{writeCommandPack(t), "PIC16F690"}, stdout, stderr)

	if exitCode != exitSuccess {
		t.Errorf("expected exit code %d, got %d", exitSuccess, exitCode)
		t.Logf("stderr: %s", stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "PIC16F690") || !strings.Contains(out, "PIC") {
		t.Errorf("expected device summary, got: %s", out)
	}
}

func TestRunShow_DeviceNotFound(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunShow([]string{writeCommandPack(t), "PIC16F999"}, stdout, stderr)

	if exitCode != exitDataError {
		t.Errorf("expected exit code %d, got %d", exitDataError, exitCode)
	}
	if !strings.Contains(stderr.String(), "not found") {
		t.Errorf("expected not-found error, got: %s", stderr.String())
	}
}

func TestRunShow_NoDevice(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunShow([]string{writeCommandPack(t)}, stdout, stderr)

	if exitCode != exitCommandError {
		t.Errorf("expected exit code %d, got %d", exitCommandError, exitCode)
	}
	if !strings.Contains(stderr.String(), "no device specified") {
		t.Errorf("expected 'no device specified' in stderr, got: %s", stderr.String())
	}
}

func TestRunMemory(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunMemory([]string{writeCommandPack(t), "PIC16F690"}, stdout, stderr)

	if exitCode != exitSuccess {
		t.Errorf("expected exit code %d, got %d", exitSuccess, exitCode)
		t.Logf("stderr: %s", stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "CODE") || !strings.Contains(out, "SEGMENT") {
		t.Errorf("expected segment table, got: %s", out)
	}
}

func TestRunRegisters(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunRegisters([]string{writeCommandPack(t), "PIC16F690"}, stdout, stderr)

	if exitCode != exitSuccess {
		t.Errorf("expected exit code %d, got %d", exitSuccess, exitCode)
		t.Logf("stderr: %s", stderr.String())
	}
	if !strings.Contains(stdout.String(), "STATUS") {
		t.Errorf("expected STATUS register, got: %s", stdout.String())
	}
}

func TestRunConfig(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunConfig([]string{writeCommandPack(t), "PIC16F690"}, stdout, stderr)

	if exitCode != exitSuccess {
		t.Errorf("expected exit code %d, got %d", exitSuccess, exitCode)
		t.Logf("stderr: %s", stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "CONFIG") || !strings.Contains(out, "FOSC") {
		t.Errorf("expected config word output, got: %s", out)
	}
}

func TestRunSpecs(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunSpecs([]string{writeCommandPack(t), "PIC16F690"}, stdout, stderr)

	if exitCode != exitSuccess {
		t.Errorf("expected exit code %d, got %d", exitSuccess, exitCode)
		t.Logf("stderr: %s", stderr.String())
	}
	if !strings.Contains(stdout.String(), "4096 bytes") {
		t.Errorf("expected flash size, got: %s", stdout.String())
	}
}

func TestRunSpecs_YAMLOutput(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunSpecs([]string{"--format", "yaml", writeCommandPack(t), "PIC16F690"}, stdout, stderr)

	if exitCode != exitSuccess {
		t.Errorf("expected exit code %d, got %d", exitSuccess, exitCode)
	}
	if !strings.Contains(stdout.String(), "flash_size:") {
		t.Errorf("expected yaml flash_size field, got: %s", stdout.String())
	}
}

func TestRunFiles(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunFiles([]string{"--pattern", ".pdsc", writeCommandPack(t)}, stdout, stderr)

	if exitCode != exitSuccess {
		t.Errorf("expected exit code %d, got %d", exitSuccess, exitCode)
		t.Logf("stderr: %s", stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "Microchip.PIC16F_DFP.pdsc") {
		t.Errorf("expected pdsc file, got: %s", out)
	}
	if !strings.Contains(out, "Total: 1 files") {
		t.Errorf("expected filtered total, got: %s", out)
	}
}
