// Package commands implements the atpack CLI subcommands.
package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/atpack-tools/atpack-go/pkg/atpack"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitDataError    = 2
)

// packOptions carries the arguments every data command shares: the
// archive path, an optional device name, and the output format.
type packOptions struct {
	Format string // text, json, yaml
	Pack   string
	Device string
}

func parsePackArgs(name string, args []string, needDevice bool) (packOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	opts := packOptions{}

	fs.StringVar(&opts.Format, "format", "text", "Output format (text, json, yaml)")
	fs.StringVar(&opts.Format, "f", "text", "Output format (shorthand)")

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
	if needDevice && opts.Device == "" {
		return opts, fmt.Errorf("no device specified")
	}
	switch opts.Format {
	case "text", "json", "yaml":
	default:
		return opts, fmt.Errorf("unknown format %q", opts.Format)
	}
	return opts, nil
}

// writeStructured renders v as indented JSON or YAML.
func writeStructured(w io.Writer, format string, v any) {
	switch format {
	case "json":
		data, _ := json.MarshalIndent(v, "", "  ")
		fmt.Fprintln(w, string(data))
	case "yaml":
		data, _ := yaml.Marshal(v)
		fmt.Fprint(w, string(data))
	}
}

func openPack(path string, stderr io.Writer) (*atpack.Pack, int) {
	p, err := atpack.OpenPack(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil, exitCommandError
	}
	return p, exitSuccess
}
