// Package options contains the program options.
package options

import (
	"time"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
)

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input ROM file"`
	Output string `flag:"o" usage:"output .asm file (default: stdout)"`
	Batch  string `flag:"batch" usage:"batch process files matching pattern (e.g. *.ch8)"`
}

// Flags contains behavior options.
type Flags struct {
	AssembleTest bool `flag:"verify" usage:"verify output by reassembling and comparing to input"`
	Debug        bool `flag:"debug" usage:"enable debug logging"`
	Quiet        bool `flag:"q" usage:"quiet mode"`
}

// Program options of the disassembler.
type Program struct {
	Parameters
	Flags
}

// Disassembler defines options to control the disassembler.
type Disassembler struct {
	Base        uint16 // address that the first byte of the ROM is loaded to
	Trace       bool   // follow the execution flow instead of a linear sweep
	HexComments bool
	Header      bool
}

// NewDisassembler returns a new options instance with default options. The
// defaults output plain "<address>: <mnemonic>" lines.
func NewDisassembler() Disassembler {
	return Disassembler{
		Base: chip8.ProgramStart,
	}
}

// Emulator options of the emulator.
type Emulator struct {
	Input string `arg:"positional" usage:"ROM file to run"`

	Rate        int           `flag:"rate" usage:"instructions per second"`
	Seed        uint64        `flag:"seed" usage:"random number generator seed"`
	Quirks      string        `flag:"quirks" usage:"instruction quirks profile: modern, cosmac"`
	Breakpoints []uint16      `flag:"break" usage:"comma separated breakpoint addresses"`
	Scale       int           `flag:"scale" usage:"window scale factor"`
	Headless    bool          `flag:"headless" usage:"run without a window"`
	Duration    time.Duration `flag:"duration" usage:"stop after the given run time, 0 runs until quit"`

	Debug    bool `flag:"debug" usage:"start paused with the debugger console"`
	DebugLog bool `flag:"debug-log" usage:"enable debug logging"`
	Quiet    bool `flag:"q" usage:"quiet mode"`
}
