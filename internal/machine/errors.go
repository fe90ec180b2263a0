package machine

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
)

// Errors that stop the machine.
var (
	ErrStackOverflow     = errors.New("stack overflow")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrAddressOutOfRange = errors.New("address out of range")
	ErrProgramTooLarge   = errors.New("program too large")
)

// Error is a fatal execution error with the machine context at the time it occurred.
// The machine state is left as it was before the failing instruction.
type Error struct {
	Err         error
	Address     uint16            // address of the failing instruction
	Opcode      uint16            // raw opcode word, 0 if it could not be fetched
	Instruction chip8.Instruction // decoded instruction, zero on fetch or decode errors
	Registers   Registers         // register state before the failing instruction
}

func (e *Error) Error() string {
	if e.Instruction.Op.Valid() {
		return fmt.Sprintf("executing '%s' at $%03X: %v", e.Instruction, e.Address, e.Err)
	}
	return fmt.Sprintf("executing opcode $%04X at $%03X: %v", e.Opcode, e.Address, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
