package chip8

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is returned for assembly text that does not describe an instruction.
var ErrSyntax = errors.New("invalid syntax")

// Assemble converts a single line of assembly text as produced by Format or
// FormatData back into its bytes.
func Assemble(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if rest, ok := strings.CutPrefix(text, ".byte"); ok {
		return parseDataBytes(rest)
	}

	ins, err := ParseInstruction(text)
	if err != nil {
		return nil, err
	}
	b := ins.Bytes()
	return b[:], nil
}

// ParseInstruction parses the assembly text of a single instruction.
func ParseInstruction(text string) (Instruction, error) {
	name, rest, _ := strings.Cut(strings.TrimSpace(text), " ")
	candidates, ok := opcodesByName[strings.ToLower(name)]
	if !ok {
		return Instruction{}, fmt.Errorf("%w: unknown mnemonic '%s'", ErrSyntax, name)
	}

	var operands []string
	if rest = strings.TrimSpace(rest); rest != "" {
		operands = strings.Split(rest, ",")
		for i := range operands {
			operands[i] = strings.TrimSpace(operands[i])
		}
	}

	for _, op := range candidates {
		if ins, ok := matchOperands(op, operands); ok {
			return ins, nil
		}
	}
	return Instruction{}, fmt.Errorf("%w: unsupported operands for '%s'", ErrSyntax, name)
}

func matchOperands(op Op, operands []string) (Instruction, bool) {
	var tokens []string
	if template := opcodes[op].params; template != "" {
		tokens = strings.Split(template, ", ")
	}
	if len(tokens) != len(operands) {
		return Instruction{}, false
	}

	ins := Instruction{Op: op}
	for i, token := range tokens {
		operand := operands[i]
		var ok bool

		switch token {
		case "VX":
			ins.X, ok = parseRegister(operand)
		case "VY":
			ins.Y, ok = parseRegister(operand)
		case "NNN":
			var value uint64
			value, ok = parseHex(operand, 12)
			ins.NNN = uint16(value)
		case "NN":
			var value uint64
			value, ok = parseHex(operand, 8)
			ins.NN = uint8(value)
		case "N":
			var value uint64
			value, ok = parseHex(operand, 4)
			ins.N = uint8(value)
		default:
			ok = strings.EqualFold(token, operand)
		}

		if !ok {
			return Instruction{}, false
		}
	}
	return ins, true
}

func parseRegister(s string) (uint8, bool) {
	if len(s) != 2 || (s[0] != 'V' && s[0] != 'v') {
		return 0, false
	}
	value, err := strconv.ParseUint(s[1:], 16, 4)
	if err != nil {
		return 0, false
	}
	return uint8(value), true
}

func parseHex(s string, bits int) (uint64, bool) {
	digits, ok := strings.CutPrefix(s, "$")
	if !ok {
		return 0, false
	}
	value, err := strconv.ParseUint(digits, 16, bits)
	if err != nil {
		return 0, false
	}
	return value, true
}

func parseDataBytes(s string) ([]byte, error) {
	var data []byte
	for field := range strings.SplitSeq(s, ",") {
		value, ok := parseHex(strings.TrimSpace(field), 8)
		if !ok {
			return nil, fmt.Errorf("%w: invalid data byte '%s'", ErrSyntax, strings.TrimSpace(field))
		}
		data = append(data, byte(value))
	}
	return data, nil
}

// ParseAddress parses a memory address given as hex number with an optional
// "$" or "0x" prefix, for example "$204", "0x204" or "204".
func ParseAddress(s string) (uint16, error) {
	digits := strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(digits, "$"); ok {
		digits = rest
	} else if len(digits) > 2 && (digits[:2] == "0x" || digits[:2] == "0X") {
		digits = digits[2:]
	}

	value, err := strconv.ParseUint(digits, 16, 16)
	if err != nil || value > MaxAddress {
		return 0, fmt.Errorf("%w: invalid address '%s'", ErrSyntax, s)
	}
	return uint16(value), nil
}
