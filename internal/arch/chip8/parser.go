package chip8

import (
	"errors"
	"fmt"
)

// ErrUnknownOpcode is returned for opcode words that are not part of the base instruction set.
var ErrUnknownOpcode = errors.New("unknown opcode")

// DecodeError reports an opcode word that could not be decoded.
type DecodeError struct {
	Opcode uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s $%04X", ErrUnknownOpcode, e.Opcode)
}

func (e *DecodeError) Unwrap() error {
	return ErrUnknownOpcode
}

// Decode decodes the instruction stored in the two given bytes, high byte first.
func Decode(hi, lo byte) (Instruction, error) {
	return DecodeWord(uint16(hi)<<8 | uint16(lo))
}

// DecodeBytes decodes the instruction at the start of data.
func DecodeBytes(data []byte) (Instruction, error) {
	if len(data) < OpcodeSize {
		return Instruction{}, fmt.Errorf("decoding %d bytes: %w", len(data), ErrUnknownOpcode)
	}
	return Decode(data[0], data[1])
}

// DecodeWord decodes a 16 bit opcode word. The top nibble selects the
// instruction family, the mask of each candidate then checks the low nibble
// or low byte that disambiguates the family members.
func DecodeWord(w uint16) (Instruction, error) {
	for _, op := range opcodesByNibble[w>>12] {
		info := opcodes[op]
		if w&info.mask != info.value {
			continue
		}
		return extractOperands(op, info.layout, w), nil
	}
	return Instruction{}, &DecodeError{Opcode: w}
}

func extractOperands(op Op, l layout, w uint16) Instruction {
	ins := Instruction{Op: op}
	switch l {
	case layoutNNN:
		ins.NNN = w & 0x0FFF
	case layoutXNN:
		ins.X = extractRegisterX(w)
		ins.NN = uint8(w & 0x00FF)
	case layoutXY:
		ins.X = extractRegisterX(w)
		ins.Y = extractRegisterY(w)
	case layoutXYN:
		ins.X = extractRegisterX(w)
		ins.Y = extractRegisterY(w)
		ins.N = uint8(w & 0x000F)
	case layoutX:
		ins.X = extractRegisterX(w)
	case layoutNone:
	}
	return ins
}

// extractRegisterX extracts the X register nibble from a CHIP-8 opcode.
func extractRegisterX(opcode uint16) uint8 {
	return uint8((opcode & 0x0F00) >> 8)
}

// extractRegisterY extracts the Y register nibble from a CHIP-8 opcode.
func extractRegisterY(opcode uint16) uint8 {
	return uint8((opcode & 0x00F0) >> 4)
}
