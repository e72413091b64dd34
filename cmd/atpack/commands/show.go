package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/atpack-tools/atpack-go/pkg/model"
)

// ShowOutput is the device summary for display.
type ShowOutput struct {
	Name          string        `json:"name" yaml:"name"`
	Dialect       model.Dialect `json:"dialect" yaml:"dialect"`
	Architecture  string        `json:"architecture,omitempty" yaml:"architecture,omitempty"`
	Series        string        `json:"series,omitempty" yaml:"series,omitempty"`
	Segments      int           `json:"memory_segments" yaml:"memory_segments"`
	Modules       int           `json:"modules" yaml:"modules"`
	Registers     int           `json:"registers" yaml:"registers"`
	Fuses         int           `json:"fuses,omitempty" yaml:"fuses,omitempty"`
	ConfigWords   int           `json:"config_words,omitempty" yaml:"config_words,omitempty"`
	Interrupts    int           `json:"interrupts" yaml:"interrupts"`
	Peripherals   []string      `json:"peripherals,omitempty" yaml:"peripherals,omitempty"`
	Package       []string      `json:"packages,omitempty" yaml:"packages,omitempty"`
	HasPowerSpec  bool          `json:"has_power_spec" yaml:"has_power_spec"`
	HasProgSpec   bool          `json:"has_programming_spec" yaml:"has_programming_spec"`
	HasDebugSpec  bool          `json:"has_debug_spec" yaml:"has_debug_spec"`
}

// RunShow runs the show command.
func RunShow(args []string, stdout, stderr io.Writer) int {
	opts, err := parsePackArgs("show", args, true)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printShowUsage(stderr)
		return exitCommandError
	}

	p, code := openPack(opts.Pack, stderr)
	if code != exitSuccess {
		return code
	}
	defer p.Close()

	dev, err := p.Device(opts.Device)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitDataError
	}

	output := buildShowOutput(dev)

	switch opts.Format {
	case "json", "yaml":
		writeStructured(stdout, opts.Format, output)
	default:
		printShowText(stdout, output)
	}
	return exitSuccess
}

func buildShowOutput(dev *model.Device) ShowOutput {
	output := ShowOutput{
		Name:         dev.Name,
		Dialect:      dev.Dialect,
		Architecture: dev.Architecture,
		Series:       dev.Series,
		Segments:     len(dev.MemorySegments),
		Modules:      len(dev.Modules),
		Registers:    len(dev.AllRegisters()),
		Fuses:        len(dev.Fuses),
		ConfigWords:  len(dev.ConfigWords),
		Interrupts:   len(dev.Interrupts),
		Peripherals:  dev.Peripherals,
		HasPowerSpec: dev.PowerSpec != nil,
		HasProgSpec:  dev.Programming != nil,
		HasDebugSpec: dev.Debug != nil,
	}
	for _, v := range dev.PackageVariants {
		output.Package = append(output.Package, v.Package)
	}
	return output
}

func printShowText(w io.Writer, output ShowOutput) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Device:\t%s\n", output.Name)
	fmt.Fprintf(tw, "Dialect:\t%s\n", output.Dialect)
	if output.Architecture != "" {
		fmt.Fprintf(tw, "Architecture:\t%s\n", output.Architecture)
	}
	if output.Series != "" {
		fmt.Fprintf(tw, "Series:\t%s\n", output.Series)
	}
	fmt.Fprintf(tw, "Memory segments:\t%d\n", output.Segments)
	fmt.Fprintf(tw, "Modules:\t%d\n", output.Modules)
	fmt.Fprintf(tw, "Registers:\t%d\n", output.Registers)
	if output.Fuses > 0 {
		fmt.Fprintf(tw, "Fuses:\t%d\n", output.Fuses)
	}
	if output.ConfigWords > 0 {
		fmt.Fprintf(tw, "Config words:\t%d\n", output.ConfigWords)
	}
	fmt.Fprintf(tw, "Interrupts:\t%d\n", output.Interrupts)
	if len(output.Peripherals) > 0 {
		fmt.Fprintf(tw, "Peripherals:\t%s\n", strings.Join(output.Peripherals, ", "))
	}
	if len(output.Package) > 0 {
		fmt.Fprintf(tw, "Packages:\t%s\n", strings.Join(output.Package, ", "))
	}
	tw.Flush()
}

func printShowUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: atpack show [options] <atpack-file> <device>

Options:
  -f, --format    Output format (text, json, yaml) [default: text]

Examples:
  atpack show Atmel.ATmega_DFP.2.2.509.atpack ATmega16
  atpack show --format json Microchip.PIC16Fxxx_DFP.atpack PIC16F877A`)
}
