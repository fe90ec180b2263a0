package chip8

import (
	"fmt"
	"strings"
)

// CHIP-8 memory layout constants.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x1FF: Interpreter and font data (512 bytes)
//	0x200-0xFFF: User program space (3584 bytes)
//
// The display buffer (64x32 pixels) and stack are maintained
// separately from the 4KB main memory address space.
const (
	// ProgramStart is the memory address where CHIP-8 programs begin execution.
	// Programs are loaded at address 0x200 in the virtual machine's memory space,
	// but stored starting at offset 0x0 in ROM files.
	ProgramStart = 0x200

	// MaxAddress is the highest valid address in CHIP-8 memory space (4KB total).
	MaxAddress = 0xFFF

	// MemorySize is the size of the CHIP-8 address space.
	MemorySize = MaxAddress + 1

	// MaxProgramSize is the largest program image that fits behind ProgramStart.
	MaxProgramSize = MemorySize - ProgramStart

	// RegisterCount is the number of V registers.
	RegisterCount = 16

	// FlagRegister is the index of VF, the carry, borrow and collision flag.
	FlagRegister = 0xF
)

// RegisterName returns the name of the V register with the given index.
func RegisterName(x uint8) string {
	return fmt.Sprintf("V%X", x&0xF)
}

// Format returns the assembly text of an instruction, for example "ld V0, $FF".
// The debugger and the disassembler both use it so that their output agrees.
func Format(ins Instruction) string {
	if !ins.Op.Valid() {
		return "invalid"
	}

	name := ins.Name()
	params := formatParams(opcodes[ins.Op].params, ins)
	if params == "" {
		return name
	}
	return name + " " + params
}

// formatParams replaces the placeholders of an operand template with the
// values of the instruction. VX and VY become register names, NNN, NN and N
// become hex literals and all other tokens are copied.
func formatParams(template string, ins Instruction) string {
	if template == "" {
		return ""
	}

	tokens := strings.Split(template, ", ")
	for i, token := range tokens {
		switch token {
		case "VX":
			tokens[i] = RegisterName(ins.X)
		case "VY":
			tokens[i] = RegisterName(ins.Y)
		case "NNN":
			tokens[i] = fmt.Sprintf("$%03X", ins.NNN)
		case "NN":
			tokens[i] = fmt.Sprintf("$%02X", ins.NN)
		case "N":
			tokens[i] = fmt.Sprintf("$%X", ins.N)
		}
	}
	return strings.Join(tokens, ", ")
}

// FormatData returns the placeholder text for bytes that do not form an instruction.
func FormatData(data []byte) string {
	buf := &strings.Builder{}
	buf.WriteString(".byte ")
	for i, b := range data {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(buf, "$%02X", b)
	}
	return buf.String()
}
