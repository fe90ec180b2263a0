package chip8

import (
	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Instruction is a decoded CHIP-8 instruction. Only the operand fields used by
// the layout of Op are set, all others are zero.
type Instruction struct {
	Op  Op
	X   uint8  // register index from the second nibble
	Y   uint8  // register index from the third nibble
	N   uint8  // 4 bit literal from the last nibble
	NN  uint8  // 8 bit literal from the low byte
	NNN uint16 // 12 bit address
}

// Name returns the instruction mnemonic.
func (i Instruction) Name() string {
	return i.Op.Name()
}

// IsCall returns true if the instruction is a subroutine call.
// SYS is not treated as a call as it has no effect on modern interpreters.
func (i Instruction) IsCall() bool {
	return i.Op == OpCALL
}

// IsJump returns true if the instruction is an unconditional jump.
func (i Instruction) IsJump() bool {
	return i.Op == OpJP || i.Op == OpJPV0
}

// IsReturn returns true if the instruction is a return instruction.
func (i Instruction) IsReturn() bool {
	return i.Op == OpRET
}

// IsSkip returns true if the instruction is a conditional skip instruction.
func (i Instruction) IsSkip() bool {
	if !i.Op.Valid() {
		return false
	}
	return chip8cpu.SkipInstructions.Contains(i.Name())
}

// IsDataReference returns true if the instruction references data (LD I, addr).
func (i Instruction) IsDataReference() bool {
	return i.Op == OpLDI
}

// Target returns the address embedded in the instruction for instructions
// that carry one.
func (i Instruction) Target() (uint16, bool) {
	switch i.Op {
	case OpSYS, OpJP, OpCALL, OpLDI, OpJPV0:
		return i.NNN, true
	default:
		return 0, false
	}
}

// Encode returns the 16 bit opcode word of the instruction.
func (i Instruction) Encode() uint16 {
	if !i.Op.Valid() {
		return 0
	}

	info := opcodes[i.Op]
	w := info.value
	switch info.layout {
	case layoutNNN:
		w |= i.NNN & 0x0FFF
	case layoutXNN:
		w |= uint16(i.X&0xF)<<8 | uint16(i.NN)
	case layoutXY:
		w |= uint16(i.X&0xF)<<8 | uint16(i.Y&0xF)<<4
	case layoutXYN:
		w |= uint16(i.X&0xF)<<8 | uint16(i.Y&0xF)<<4 | uint16(i.N&0xF)
	case layoutX:
		w |= uint16(i.X&0xF) << 8
	case layoutNone:
	}
	return w
}

// Bytes returns the big-endian encoding of the instruction.
func (i Instruction) Bytes() [OpcodeSize]byte {
	w := i.Encode()
	return [OpcodeSize]byte{byte(w >> 8), byte(w)}
}

// String returns the instruction formatted as assembly text.
func (i Instruction) String() string {
	return Format(i)
}
