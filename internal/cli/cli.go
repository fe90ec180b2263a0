// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/debugger"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
)

// DefaultScale is the default window scale factor of the emulator.
const DefaultScale = 10

// ParseDisasmFlags parses the disassembler command line flags and returns
// program and disassembler options. args contains the program name first.
func ParseDisasmFlags(args []string) (options.Program, options.Disassembler, error) {
	flags := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts options.Program
	readOptionFlags(flags, &opts)
	disasmOptions := options.NewDisassembler()
	var extra disasmFlags
	readDisasmOptionFlags(flags, &disasmOptions, &extra)

	err := flags.Parse(args[1:])
	positional := flags.Args()
	if err != nil || (len(positional) == 0 && opts.Batch == "") {
		return opts, options.Disassembler{}, &UsageError{flags: flags, usage: disasmUsage, msg: errorMessage(err)}
	}

	if err := validateArgs(positional); err != nil {
		return opts, options.Disassembler{}, err
	}

	address, err := chip8.ParseAddress(extra.base)
	if err != nil {
		return opts, options.Disassembler{}, fmt.Errorf("parsing base address: %w", err)
	}
	disasmOptions.Base = address

	if opts.Batch == "" {
		opts.Input = positional[0]
	}

	if err := validateOptionCombinations(opts, disasmOptions); err != nil {
		return opts, options.Disassembler{}, err
	}

	return opts, disasmOptions, nil
}

// ParseEmulatorFlags parses the emulator command line flags. args contains
// the program name first.
func ParseEmulatorFlags(args []string) (options.Emulator, error) {
	flags := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts options.Emulator
	breakpoints := readEmulatorFlags(flags, &opts)

	err := flags.Parse(args[1:])
	positional := flags.Args()
	if err != nil || len(positional) == 0 {
		return opts, &UsageError{flags: flags, usage: emulatorUsage, msg: errorMessage(err)}
	}

	if err := validateArgs(positional); err != nil {
		return opts, err
	}
	opts.Input = positional[0]

	if opts.Breakpoints, err = parseAddressList(*breakpoints); err != nil {
		return opts, fmt.Errorf("parsing breakpoints: %w", err)
	}

	if _, err := config.QuirksProfile(opts.Quirks); err != nil {
		return opts, err
	}
	if opts.Rate < 1 || opts.Rate > debugger.MaxRate {
		return opts, fmt.Errorf("instruction rate %d is outside of 1-%d", opts.Rate, debugger.MaxRate)
	}
	if opts.Scale < 1 {
		return opts, fmt.Errorf("invalid window scale %d", opts.Scale)
	}
	return opts, nil
}

const (
	disasmUsage   = "usage: chip8disasm [options] <file to disassemble>"
	emulatorUsage = "usage: retrochip8 [options] <ROM file to run>"
)

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	usage string
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage and the flag defaults to stdout.
func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Printf("%s\n\n", e.msg)
	}
	if e.flags == nil {
		return
	}
	fmt.Printf("%s\n\n", e.usage)
	e.flags.SetOutput(os.Stdout)
	e.flags.PrintDefaults()
	fmt.Println()
}

func errorMessage(err error) string {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ""
	}
	return err.Error()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after the ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// validateOptionCombinations rejects option combinations that can not work together.
func validateOptionCombinations(opts options.Program, disasmOpts options.Disassembler) error {
	if opts.AssembleTest && disasmOpts.Trace {
		return errors.New("verify can not be combined with trace, unreachable bytes are not part of the output")
	}
	return nil
}

func parseAddressList(s string) ([]uint16, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var addresses []uint16
	for field := range strings.SplitSeq(s, ",") {
		address, err := chip8.ParseAddress(field)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}
	return addresses, nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Output, "o", "", "name of the output .asm file, printed on console if no name given")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically .asm file naming, for example *.ch8")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.AssembleTest, "verify", false, "verify the generated output by reassembling it and check if it matches the input")
}

// disasmFlags contains flags that need conversion before they are stored
// in the disassembler options.
type disasmFlags struct {
	base string
}

func readDisasmOptionFlags(flags *flag.FlagSet, opts *options.Disassembler, extra *disasmFlags) {
	flags.StringVar(&extra.base, "base", fmt.Sprintf("0x%03X", chip8.ProgramStart), "address that the ROM is loaded to")
	flags.BoolVar(&opts.Trace, "trace", false, "follow the execution flow instead of disassembling all bytes")
	flags.BoolVar(&opts.HexComments, "hexcomments", false, "output opcode bytes as hex values in comments")
	flags.BoolVar(&opts.Header, "header", false, "output a comment header with checksum, base address and size")
}

func readEmulatorFlags(flags *flag.FlagSet, opts *options.Emulator) *string {
	flags.IntVar(&opts.Rate, "rate", debugger.DefaultRate, "instructions executed per second")
	flags.Uint64Var(&opts.Seed, "seed", machine.DefaultSeed, "seed of the random number generator")
	flags.StringVar(&opts.Quirks, "quirks", config.ModernProfile, "instruction quirks profile (modern/cosmac)")
	flags.IntVar(&opts.Scale, "scale", DefaultScale, "window scale factor")
	flags.BoolVar(&opts.Headless, "headless", false, "run without a window, the console controls the emulator")
	flags.DurationVar(&opts.Duration, "duration", 0, "stop after the given run time, for example 10s")
	flags.BoolVar(&opts.Debug, "debug", false, "start paused with the debugger console enabled")
	flags.BoolVar(&opts.DebugLog, "debug-log", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	return flags.String("break", "", "comma separated list of breakpoint addresses, for example 0x204,0x300")
}
