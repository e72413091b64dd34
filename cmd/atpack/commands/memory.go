package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/atpack-tools/atpack-go/pkg/model"
)

// MemoryOutput is the memory layout of one device.
type MemoryOutput struct {
	Device   string                `json:"device" yaml:"device"`
	Segments []model.MemorySegment `json:"segments" yaml:"segments"`
	Spaces   []model.MemorySpace   `json:"spaces,omitempty" yaml:"spaces,omitempty"`
}

// RunMemory runs the memory command.
func RunMemory(args []string, stdout, stderr io.Writer) int {
	opts, err := parsePackArgs("memory", args, true)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printMemoryUsage(stderr)
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

	output := MemoryOutput{
		Device:   dev.Name,
		Segments: dev.SegmentsByStart(),
		Spaces:   dev.MemorySpaces,
	}

	switch opts.Format {
	case "json", "yaml":
		writeStructured(stdout, opts.Format, output)
	default:
		printMemoryText(stdout, output)
	}
	return exitSuccess
}

func printMemoryText(w io.Writer, output MemoryOutput) {
	fmt.Fprintf(w, "Device: %s\n\n", output.Device)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEGMENT\tTYPE\tSTART\tEND\tSIZE\tSPACE")
	for _, seg := range output.Segments {
		fmt.Fprintf(tw, "%s\t%s\t0x%04X\t0x%04X\t%d\t%s\n",
			seg.Name, seg.Type, seg.Start, seg.End(), seg.Size, seg.AddressSpace)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nTotal: %d segments\n", len(output.Segments))
}

func printMemoryUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: atpack memory [options] <atpack-file> <device>

Options:
  -f, --format    Output format (text, json, yaml) [default: text]

Examples:
  atpack memory Atmel.ATmega_DFP.2.2.509.atpack ATmega16
  atpack memory --format yaml Microchip.PIC16Fxxx_DFP.atpack PIC16F877A`)
}
