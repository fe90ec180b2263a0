package machine

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
)

// StackSize is the maximum number of nested subroutine calls.
const StackSize = 16

// Registers contains the CPU registers and the call stack.
type Registers struct {
	V     [chip8.RegisterCount]uint8
	I     uint16
	PC    uint16
	SP    uint8 // number of return addresses on the stack
	Stack [StackSize]uint16
}

// push stores a return address on the stack.
func (r *Registers) push(address uint16) error {
	if r.SP >= StackSize {
		return ErrStackOverflow
	}
	r.Stack[r.SP] = address
	r.SP++
	return nil
}

// pop removes the last return address from the stack.
func (r *Registers) pop() (uint16, error) {
	if r.SP == 0 {
		return 0, ErrStackUnderflow
	}
	r.SP--
	return r.Stack[r.SP], nil
}

// CallStack returns the return addresses currently on the stack, oldest first.
func (r Registers) CallStack() []uint16 {
	stack := make([]uint16, r.SP)
	copy(stack, r.Stack[:r.SP])
	return stack
}

func (r Registers) String() string {
	return fmt.Sprintf("V: [% 02X] I: $%04X PC: $%03X SP: %d", r.V[:], r.I, r.PC, r.SP)
}
