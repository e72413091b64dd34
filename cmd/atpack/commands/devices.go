package commands

import (
	"fmt"
	"io"

	"github.com/atpack-tools/atpack-go/pkg/model"
)

// DevicesOutput lists the devices and pack header of one archive.
type DevicesOutput struct {
	Pack    string        `json:"pack" yaml:"pack"`
	Vendor  string        `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Version string        `json:"version,omitempty" yaml:"version,omitempty"`
	Family  model.Dialect `json:"family" yaml:"family"`
	Devices []string      `json:"devices" yaml:"devices"`
}

// RunDevices runs the devices command.
func RunDevices(args []string, stdout, stderr io.Writer) int {
	opts, err := parsePackArgs("devices", args, false)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printDevicesUsage(stderr)
		return exitCommandError
	}

	p, code := openPack(opts.Pack, stderr)
	if code != exitSuccess {
		return code
	}
	defer p.Close()

	names, err := p.Devices()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitDataError
	}

	meta := p.Metadata()
	output := DevicesOutput{
		Pack:    meta.Name,
		Vendor:  meta.Vendor,
		Version: meta.Version,
		Family:  meta.Family,
		Devices: names,
	}

	switch opts.Format {
	case "json", "yaml":
		writeStructured(stdout, opts.Format, output)
	default:
		fmt.Fprintf(stdout, "Pack: %s %s (%s, %s)\n\n", output.Pack, output.Version, output.Vendor, output.Family)
		for _, name := range names {
			fmt.Fprintf(stdout, "  %s\n", name)
		}
		fmt.Fprintf(stdout, "\nTotal: %d devices\n", len(names))
	}
	return exitSuccess
}

func printDevicesUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: atpack devices [options] <atpack-file>

Options:
  -f, --format    Output format (text, json, yaml) [default: text]

Examples:
  atpack devices Atmel.ATmega_DFP.2.2.509.atpack
  atpack devices --format json Microchip.PIC16Fxxx_DFP.atpack`)
}
