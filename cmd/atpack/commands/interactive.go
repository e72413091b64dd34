package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/atpack-tools/atpack-go/pkg/atpack"
	"github.com/atpack-tools/atpack-go/pkg/model"
)

// session holds the interactive state: the open pack and the currently
// selected device.
type session struct {
	pack   *atpack.Pack
	device *model.Device
	rl     *readline.Instance
}

// RunInteractive runs the interactive command.
func RunInteractive(args []string, stdout, stderr io.Writer) int {
	opts, err := parsePackArgs("interactive", args, false)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printInteractiveUsage(stderr)
		return exitCommandError
	}

	p, code := openPack(opts.Pack, stderr)
	if code != exitSuccess {
		return code
	}
	defer p.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "atpack> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("help"),
			readline.PcItem("devices"),
			readline.PcItem("use"),
			readline.PcItem("show"),
			readline.PcItem("memory"),
			readline.PcItem("registers"),
			readline.PcItem("config"),
			readline.PcItem("specs"),
			readline.PcItem("files"),
			readline.PcItem("exit"),
		),
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create readline: %v\n", err)
		return exitCommandError
	}
	defer rl.Close()

	s := &session{pack: p, rl: rl}
	s.printHelp()
	s.loop()
	return exitSuccess
}

func (s *session) loop() {
	out := s.rl.Stdout()
	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(out, "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "devices", "d":
			s.cmdDevices()

		case "use", "u":
			s.cmdUse(args)

		case "show", "s":
			s.cmdShow()

		case "memory", "m":
			s.cmdMemory()

		case "registers", "r":
			s.cmdRegisters(args)

		case "config", "c":
			s.cmdConfig()

		case "specs":
			s.cmdSpecs()

		case "files", "f":
			s.cmdFiles(args)

		case "exit", "quit", "q":
			fmt.Fprintln(out, "Exiting...")
			return

		default:
			fmt.Fprintf(out, "Unknown command: %s (try 'help')\n", cmd)
		}
	}
}

func (s *session) printHelp() {
	fmt.Fprint(s.rl.Stdout(), `Commands:
  devices              List the pack's devices
  use <device>         Select a device
  show                 Summarize the selected device
  memory               Show the selected device's memory layout
  registers [module]   Show the selected device's registers
  config               Show fuses or configuration words
  specs                Show derived memory sizing (PIC only)
  files [pattern]      List archive files
  help                 Show this help
  exit                 Leave the shell
`)
}

func (s *session) cmdDevices() {
	out := s.rl.Stdout()
	names, err := s.pack.Devices()
	if err != nil {
		fmt.Fprintf(s.rl.Stderr(), "Error: %v\n", err)
		return
	}
	for _, name := range names {
		fmt.Fprintf(out, "  %s\n", name)
	}
	fmt.Fprintf(out, "Total: %d devices\n", len(names))
}

func (s *session) cmdUse(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.rl.Stderr(), "Usage: use <device>")
		return
	}
	dev, err := s.pack.Device(args[0])
	if err != nil {
		fmt.Fprintf(s.rl.Stderr(), "Error: %v\n", err)
		return
	}
	s.device = dev
	fmt.Fprintf(s.rl.Stdout(), "Selected %s\n", dev.Name)
}

// selected guards the device-scoped commands.
func (s *session) selected() *model.Device {
	if s.device == nil {
		fmt.Fprintln(s.rl.Stderr(), "No device selected (use <device>)")
		return nil
	}
	return s.device
}

func (s *session) cmdShow() {
	dev := s.selected()
	if dev == nil {
		return
	}
	printShowText(s.rl.Stdout(), buildShowOutput(dev))
}

func (s *session) cmdMemory() {
	dev := s.selected()
	if dev == nil {
		return
	}
	printMemoryText(s.rl.Stdout(), MemoryOutput{
		Device:   dev.Name,
		Segments: dev.SegmentsByStart(),
		Spaces:   dev.MemorySpaces,
	})
}

func (s *session) cmdRegisters(args []string) {
	dev := s.selected()
	if dev == nil {
		return
	}
	modules := dev.Modules
	if len(args) > 0 {
		var kept []model.Module
		for _, m := range modules {
			if strings.EqualFold(m.Name, args[0]) {
				kept = append(kept, m)
			}
		}
		modules = kept
	}
	printRegistersText(s.rl.Stdout(), RegistersOutput{Device: dev.Name, Modules: modules}, false)
}

func (s *session) cmdConfig() {
	dev := s.selected()
	if dev == nil {
		return
	}
	printConfigText(s.rl.Stdout(), ConfigOutput{
		Device:      dev.Name,
		Dialect:     dev.Dialect,
		Fuses:       dev.Fuses,
		ConfigWords: dev.ConfigWords,
	})
}

func (s *session) cmdSpecs() {
	dev := s.selected()
	if dev == nil {
		return
	}
	specs, err := s.pack.DeviceSpecs(dev.Name)
	if err != nil {
		fmt.Fprintf(s.rl.Stderr(), "Error: %v\n", err)
		return
	}
	out := s.rl.Stdout()
	fmt.Fprintf(out, "Flash: %d bytes\n", specs.FlashSize)
	fmt.Fprintf(out, "RAM (GPR): %d bytes in %d banks\n", specs.GPRTotalSize, len(specs.GPRSectors))
	if specs.EEPROMSize > 0 {
		fmt.Fprintf(out, "EEPROM: %d bytes at %s\n", specs.EEPROMSize, specs.EEPROMAddr)
	}
	if specs.ConfigSize > 0 {
		fmt.Fprintf(out, "Config: %d words at %s\n", specs.ConfigSize, specs.ConfigAddr)
	}
}

func (s *session) cmdFiles(args []string) {
	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}
	files, err := s.pack.Files(pattern)
	if err != nil {
		fmt.Fprintf(s.rl.Stderr(), "Error: %v\n", err)
		return
	}
	out := s.rl.Stdout()
	for _, f := range files {
		fmt.Fprintln(out, f)
	}
	fmt.Fprintf(out, "Total: %d files\n", len(files))
}

func printInteractiveUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: atpack interactive <atpack-file>

Examples:
  atpack interactive Atmel.ATmega_DFP.2.2.509.atpack`)
}
