package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/atpack-tools/atpack-go/pkg/model"
)

// ConfigOutput carries whichever configuration form the dialect uses:
// fuses for ATDF devices, configuration words for PIC devices.
type ConfigOutput struct {
	Device      string             `json:"device" yaml:"device"`
	Dialect     model.Dialect      `json:"dialect" yaml:"dialect"`
	Fuses       []model.Fuse       `json:"fuses,omitempty" yaml:"fuses,omitempty"`
	ConfigWords []model.ConfigWord `json:"config_words,omitempty" yaml:"config_words,omitempty"`
}

// RunConfig runs the config command.
func RunConfig(args []string, stdout, stderr io.Writer) int {
	opts, err := parsePackArgs("config", args, true)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printConfigUsage(stderr)
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

	output := ConfigOutput{
		Device:      dev.Name,
		Dialect:     dev.Dialect,
		Fuses:       dev.Fuses,
		ConfigWords: dev.ConfigWords,
	}

	switch opts.Format {
	case "json", "yaml":
		writeStructured(stdout, opts.Format, output)
	default:
		printConfigText(stdout, output)
	}
	return exitSuccess
}

func printConfigText(w io.Writer, output ConfigOutput) {
	fmt.Fprintf(w, "Device: %s\n", output.Device)

	for _, fuse := range output.Fuses {
		fmt.Fprintf(w, "\nFuse %s at 0x%02X", fuse.Name, fuse.Offset)
		if fuse.DefaultValue != nil {
			fmt.Fprintf(w, " (default 0x%02X)", *fuse.DefaultValue)
		}
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, bf := range fuse.Bitfields {
			fmt.Fprintf(tw, "  %s\tbit %d\twidth %d\t%s\n", bf.Name, bf.BitOffset, bf.BitWidth, bf.Description)
		}
		tw.Flush()
	}

	for _, word := range output.ConfigWords {
		fmt.Fprintf(w, "\n%s at 0x%04X (default 0x%04X, mask 0x%04X)\n",
			word.Name, word.Address, word.DefaultValue, word.Mask)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, bf := range word.Bitfields {
			fmt.Fprintf(tw, "  %s\tbit %d\twidth %d\t%s\n", bf.Name, bf.BitOffset, bf.BitWidth, bf.Caption)
		}
		tw.Flush()
	}

	if len(output.Fuses) == 0 && len(output.ConfigWords) == 0 {
		fmt.Fprintln(w, "\nNo configuration data")
	}
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: atpack config [options] <atpack-file> <device>

Options:
  -f, --format    Output format (text, json, yaml) [default: text]

Examples:
  atpack config Atmel.ATmega_DFP.2.2.509.atpack ATmega16
  atpack config --format json Microchip.PIC16Fxxx_DFP.atpack PIC16F877A`)
}
