package commands

import (
	"flag"
	"fmt"
	"io"
)

// FilesOptions configures the files command.
type FilesOptions struct {
	packOptions
	Pattern string // substring filter
}

// FilesOutput lists archive member names.
type FilesOutput struct {
	Pack  string   `json:"pack" yaml:"pack"`
	Files []string `json:"files" yaml:"files"`
}

// RunFiles runs the files command.
func RunFiles(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFilesArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printFilesUsage(stderr)
		return exitCommandError
	}

	p, code := openPack(opts.Pack, stderr)
	if code != exitSuccess {
		return code
	}
	defer p.Close()

	files, err := p.Files(opts.Pattern)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitDataError
	}

	output := FilesOutput{Pack: opts.Pack, Files: files}

	switch opts.Format {
	case "json", "yaml":
		writeStructured(stdout, opts.Format, output)
	default:
		for _, f := range files {
			fmt.Fprintln(stdout, f)
		}
		fmt.Fprintf(stdout, "\nTotal: %d files\n", len(files))
	}
	return exitSuccess
}

func parseFilesArgs(args []string) (FilesOptions, error) {
	fs := flag.NewFlagSet("files", flag.ContinueOnError)
	opts := FilesOptions{}

	fs.StringVar(&opts.Format, "format", "text", "Output format (text, json, yaml)")
	fs.StringVar(&opts.Format, "f", "text", "Output format (shorthand)")
	fs.StringVar(&opts.Pattern, "pattern", "", "Keep only names containing the pattern")

	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if remaining := fs.Args(); len(remaining) > 0 {
		opts.Pack = remaining[0]
	}
	if opts.Pack == "" {
		return opts, fmt.Errorf("no atpack file specified")
	}
	switch opts.Format {
	case "text", "json", "yaml":
	default:
		return opts, fmt.Errorf("unknown format %q", opts.Format)
	}
	return opts, nil
}

func printFilesUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: atpack files [options] <atpack-file>

Options:
  -f, --format    Output format (text, json, yaml) [default: text]
  --pattern       Keep only names containing the pattern

Examples:
  atpack files Atmel.ATmega_DFP.2.2.509.atpack
  atpack files --pattern .atdf Atmel.ATmega_DFP.2.2.509.atpack`)
}
