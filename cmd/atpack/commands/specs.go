package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// RunSpecs runs the specs command.
func RunSpecs(args []string, stdout, stderr io.Writer) int {
	opts, err := parsePackArgs("specs", args, true)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printSpecsUsage(stderr)
		return exitCommandError
	}

	p, code := openPack(opts.Pack, stderr)
	if code != exitSuccess {
		return code
	}
	defer p.Close()

	specs, err := p.DeviceSpecs(opts.Device)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitDataError
	}

	switch opts.Format {
	case "json", "yaml":
		writeStructured(stdout, opts.Format, specs)
	default:
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "Device:\t%s\n", specs.DeviceName)
		fmt.Fprintf(tw, "Architecture:\t%s %s\n", specs.Architecture, specs.Series)
		fmt.Fprintf(tw, "Flash:\t%d bytes\n", specs.FlashSize)
		fmt.Fprintf(tw, "RAM (GPR):\t%d bytes in %d banks\n", specs.GPRTotalSize, len(specs.GPRSectors))
		if specs.EEPROMSize > 0 {
			fmt.Fprintf(tw, "EEPROM:\t%d bytes at %s\n", specs.EEPROMSize, specs.EEPROMAddr)
		}
		if specs.ConfigSize > 0 {
			fmt.Fprintf(tw, "Config:\t%d words at %s\n", specs.ConfigSize, specs.ConfigAddr)
		}
		fmt.Fprintf(tw, "F_CPU:\t%s\n", specs.FCPU)
		tw.Flush()

		if len(specs.GPRSectors) > 0 {
			fmt.Fprintln(stdout)
			tw = tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "BANK\tSTART\tEND\tSIZE")
			for _, sector := range specs.GPRSectors {
				fmt.Fprintf(tw, "%s\t0x%04X\t0x%04X\t%d\n", sector.Name, sector.Start, sector.End, sector.Size)
			}
			tw.Flush()
		}
	}
	return exitSuccess
}

func printSpecsUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: atpack specs [options] <atpack-file> <device>

Derived memory sizing is available for PIC packs only.

Options:
  -f, --format    Output format (text, json, yaml) [default: text]

Examples:
  atpack specs Microchip.PIC16Fxxx_DFP.atpack PIC16F877A
  atpack specs --format json Microchip.PIC16Fxxx_DFP.atpack PIC16F877A`)
}
