package debugger

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrogolib/log"
)

// Breakpoint errors, they do not affect the machine.
var (
	ErrInvalidBreakpoint  = errors.New("invalid breakpoint address")
	ErrBreakpointNotFound = errors.New("breakpoint not found")
)

// Breakpoint is an address that pauses execution before the instruction there runs.
type Breakpoint struct {
	Address uint16
	Enabled bool
}

// SetBreakpoint adds an enabled breakpoint at the given address.
func (d *Debugger) SetBreakpoint(address int) error {
	addr, err := checkBreakpointAddress(address)
	if err != nil {
		return err
	}
	d.breakpoints[addr] = true
	d.logger.Debug("Breakpoint added", log.Hex("address", addr))
	return nil
}

// ClearBreakpoint removes the breakpoint at the given address.
func (d *Debugger) ClearBreakpoint(address int) error {
	addr, err := d.existingBreakpoint(address)
	if err != nil {
		return err
	}
	delete(d.breakpoints, addr)
	d.logger.Debug("Breakpoint removed", log.Hex("address", addr))
	return nil
}

// EnableBreakpoint enables the breakpoint at the given address.
func (d *Debugger) EnableBreakpoint(address int) error {
	addr, err := d.existingBreakpoint(address)
	if err != nil {
		return err
	}
	d.breakpoints[addr] = true
	return nil
}

// DisableBreakpoint keeps the breakpoint at the given address but stops it
// from pausing execution.
func (d *Debugger) DisableBreakpoint(address int) error {
	addr, err := d.existingBreakpoint(address)
	if err != nil {
		return err
	}
	d.breakpoints[addr] = false
	return nil
}

// ClearBreakpoints removes all breakpoints.
func (d *Debugger) ClearBreakpoints() {
	clear(d.breakpoints)
}

// Breakpoints returns all breakpoints sorted by address.
func (d *Debugger) Breakpoints() []Breakpoint {
	addresses := slices.Sorted(maps.Keys(d.breakpoints))
	breakpoints := make([]Breakpoint, 0, len(addresses))
	for _, addr := range addresses {
		breakpoints = append(breakpoints, Breakpoint{
			Address: addr,
			Enabled: d.breakpoints[addr],
		})
	}
	return breakpoints
}

// breakpointHit returns whether an enabled breakpoint is set at the address.
func (d *Debugger) breakpointHit(address uint16) bool {
	return d.breakpoints[address]
}

func (d *Debugger) existingBreakpoint(address int) (uint16, error) {
	addr, err := checkBreakpointAddress(address)
	if err != nil {
		return 0, err
	}
	if _, ok := d.breakpoints[addr]; !ok {
		return 0, fmt.Errorf("%w at $%03X", ErrBreakpointNotFound, addr)
	}
	return addr, nil
}

func checkBreakpointAddress(address int) (uint16, error) {
	if address < 0 || address > chip8.MaxAddress {
		return 0, fmt.Errorf("%w: %d is outside of $000-$%03X", ErrInvalidBreakpoint, address, chip8.MaxAddress)
	}
	return uint16(address), nil
}
