package debugger

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrochip8/internal/machine"
)

// Snapshot is a copy of the machine state for display purposes.
type Snapshot struct {
	Mode      Mode
	Registers machine.Registers
	Stack     []uint16 // return addresses on the stack, oldest first
	Timers    machine.Timers
	Waiting   bool // waiting for a key press

	MemoryStart uint16
	Memory      []byte

	Next  string // instruction at PC as assembly text
	Valid bool   // the bytes at PC form a valid instruction

	Rate          int
	Cycles        uint64
	FastForwarded uint64
	Halted        error
}

// Inspect returns a snapshot of the machine state including a copy of
// length bytes of memory starting at the given address.
func (d *Debugger) Inspect(start uint16, length int) (Snapshot, error) {
	memory, err := d.machine.Memory().Slice(start, length)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading memory window: %w", err)
	}

	registers := d.machine.Registers()
	snapshot := Snapshot{
		Mode:          d.mode,
		Registers:     registers,
		Stack:         registers.CallStack(),
		Timers:        d.machine.Timers(),
		Waiting:       d.machine.Waiting(),
		MemoryStart:   start,
		Memory:        memory,
		Rate:          d.clock.Rate(),
		Cycles:        d.cycles,
		FastForwarded: d.fastForwarded,
		Halted:        d.halted,
	}
	snapshot.Next, snapshot.Valid = d.describe(registers.PC)
	return snapshot, nil
}

// describe returns the assembly text of the instruction at the address.
func (d *Debugger) describe(address uint16) (string, bool) {
	ins, err := d.machine.Fetch(address)
	if err == nil {
		return ins.String(), true
	}

	data, readErr := d.machine.Memory().Slice(address, chip8.OpcodeSize)
	if readErr != nil {
		return "???", false
	}
	return chip8.FormatData(data), false
}
