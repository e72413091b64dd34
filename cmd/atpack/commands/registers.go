package commands

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/atpack-tools/atpack-go/pkg/model"
)

// RegistersOptions configures the registers command.
type RegistersOptions struct {
	packOptions
	Module string // filter by module name
	Bits   bool   // include bitfield rows
}

// RegistersOutput is the register map of one device.
type RegistersOutput struct {
	Device  string         `json:"device" yaml:"device"`
	Modules []model.Module `json:"modules" yaml:"modules"`
}

// RunRegisters runs the registers command.
func RunRegisters(args []string, stdout, stderr io.Writer) int {
	opts, err := parseRegistersArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printRegistersUsage(stderr)
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

	modules := dev.Modules
	if opts.Module != "" {
		var kept []model.Module
		for _, m := range modules {
			if strings.EqualFold(m.Name, opts.Module) {
				kept = append(kept, m)
			}
		}
		modules = kept
	}
	output := RegistersOutput{Device: dev.Name, Modules: modules}

	switch opts.Format {
	case "json", "yaml":
		writeStructured(stdout, opts.Format, output)
	default:
		printRegistersText(stdout, output, opts.Bits)
	}
	return exitSuccess
}

func printRegistersText(w io.Writer, output RegistersOutput, withBits bool) {
	fmt.Fprintf(w, "Device: %s\n", output.Device)

	for _, mod := range output.Modules {
		fmt.Fprintf(w, "\n[%s] %s\n", mod.Name, mod.Caption)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, group := range mod.RegisterGroups {
			for _, reg := range group.Registers {
				fmt.Fprintf(tw, "  %s\t0x%04X\t%d\t%s\t%s\n",
					reg.Name, reg.Offset, reg.Size, reg.Access, reg.Caption)
				if !withBits {
					continue
				}
				for _, bf := range reg.Bitfields {
					fmt.Fprintf(tw, "    .%s\tbit %d\twidth %d\tmask 0x%02X\t%s\n",
						bf.Name, bf.BitOffset, bf.BitWidth, bf.Mask, bf.Caption)
				}
			}
		}
		tw.Flush()
	}
}

func parseRegistersArgs(args []string) (RegistersOptions, error) {
	fs := flag.NewFlagSet("registers", flag.ContinueOnError)
	opts := RegistersOptions{}

	fs.StringVar(&opts.Format, "format", "text", "Output format (text, json, yaml)")
	fs.StringVar(&opts.Format, "f", "text", "Output format (shorthand)")
	fs.StringVar(&opts.Module, "module", "", "Filter by module name")
	fs.BoolVar(&opts.Bits, "bits", false, "Include bitfield rows")

	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	remaining := fs.Args()
	if len(remaining) > 0 {
		opts.Pack = remaining[0]
	}
	if len(remaining) > 1 {
		opts.Device = remaining[1]
	}

	if opts.Pack == "" {
		return opts, fmt.Errorf("no atpack file specified")
	}
	if opts.Device == "" {
		return opts, fmt.Errorf("no device specified")
	}
	switch opts.Format {
	case "text", "json", "yaml":
	default:
		return opts, fmt.Errorf("unknown format %q", opts.Format)
	}
	return opts, nil
}

func printRegistersUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: atpack registers [options] <atpack-file> <device>

Options:
  -f, --format    Output format (text, json, yaml) [default: text]
  --module        Filter by module name
  --bits          Include bitfield rows in text output

Examples:
  atpack registers Atmel.ATmega_DFP.2.2.509.atpack ATmega16
  atpack registers --module PORT --bits Atmel.ATmega_DFP.2.2.509.atpack ATmega16`)
}
