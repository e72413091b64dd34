// atpack is a CLI tool for inspecting AtPack device support archives.
package main

import (
	"fmt"
	"os"

	"github.com/atpack-tools/atpack-go/cmd/atpack/commands"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitDataError    = 2
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitCommandError)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var exitCode int
	switch cmd {
	case "devices":
		exitCode = commands.RunDevices(args, os.Stdout, os.Stderr)
	case "show":
		exitCode = commands.RunShow(args, os.Stdout, os.Stderr)
	case "memory":
		exitCode = commands.RunMemory(args, os.Stdout, os.Stderr)
	case "registers":
		exitCode = commands.RunRegisters(args, os.Stdout, os.Stderr)
	case "config":
		exitCode = commands.RunConfig(args, os.Stdout, os.Stderr)
	case "specs":
		exitCode = commands.RunSpecs(args, os.Stdout, os.Stderr)
	case "files":
		exitCode = commands.RunFiles(args, os.Stdout, os.Stderr)
	case "interactive":
		exitCode = commands.RunInteractive(args, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
		exitCode = exitSuccess
	case "version", "-v", "--version":
		fmt.Println("atpack version 0.1.0")
		exitCode = exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		exitCode = exitCommandError
	}

	os.Exit(exitCode)
}

func printUsage() {
	fmt.Println(`atpack - AtPack device support archive inspector

Usage:
  atpack <command> [options] <atpack-file> [device]

Commands:
  devices      List the devices an AtPack declares
  show         Display a device summary
  memory       Display a device's memory segments and spaces
  registers    Display a device's peripheral registers
  config       Display a device's fuses or configuration words
  specs        Display derived memory sizing for a PIC device
  files        List the files inside an AtPack
  interactive  Explore an AtPack in an interactive shell

Options:
  -h, --help     Show this help message
  -v, --version  Show version information

Examples:
  atpack devices Atmel.ATmega_DFP.2.2.509.atpack
  atpack show --format json Microchip.PIC16Fxxx_DFP.atpack PIC16F877A
  atpack memory Atmel.ATmega_DFP.2.2.509.atpack ATmega16
  atpack specs Microchip.PIC16Fxxx_DFP.atpack PIC16F877A

For command-specific help, run:
  atpack <command> --help`)
}
