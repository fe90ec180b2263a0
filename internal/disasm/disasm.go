// Package disasm implements a CHIP-8 program disassembler.
package disasm

import (
	"iter"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrogolib/log"
)

// Options controls the disassembly.
type Options struct {
	// Trace follows the execution flow from the base address instead of
	// sweeping linearly over all bytes. Unreachable bytes are not listed.
	Trace bool
}

// Entry is a single line of the disassembly.
type Entry struct {
	Address     uint16
	Instruction chip8.Instruction // only set for valid entries
	Data        []byte            // raw bytes covered by the entry
	Text        string            // assembly text
	Valid       bool              // false for data placeholders
}

// Disasm disassembles a program image.
type Disasm struct {
	logger  *log.Logger
	options Options

	data []byte
	base uint16 // address of the first byte of data
}

// New returns a disassembler for the program image that is located at the
// base address.
func New(logger *log.Logger, data []byte, base uint16, options Options) *Disasm {
	return &Disasm{
		logger:  logger,
		options: options,
		data:    data,
		base:    base,
	}
}

// Entries returns the disassembly entries in ascending address order. The
// sequence can be iterated multiple times.
func (dis *Disasm) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		var entries iter.Seq[Entry]
		if dis.options.Trace {
			entries = dis.trace()
		} else {
			entries = sweep(dis.data, dis.base)
		}

		for entry := range entries {
			if !entry.Valid {
				dis.logger.Debug("Data placeholder emitted",
					log.Hex("address", entry.Address),
					log.String("data", entry.Text))
			}
			if !yield(entry) {
				return
			}
		}
	}
}

// All returns all disassembly entries.
func (dis *Disasm) All() []Entry {
	var entries []Entry
	for entry := range dis.Entries() {
		entries = append(entries, entry)
	}
	return entries
}

// sweep decodes data linearly in steps of one instruction. Bytes that do not
// start a valid instruction become a single byte placeholder and the sweep
// continues at the next byte.
func sweep(data []byte, base uint16) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for offset := 0; offset < len(data); {
			entry := decodeAt(data, offset, base+uint16(offset))
			if !yield(entry) {
				return
			}
			offset += len(entry.Data)
		}
	}
}

// decodeAt decodes the instruction at the offset of data. A trailing odd
// byte or an unknown opcode results in a single byte placeholder.
func decodeAt(data []byte, offset int, address uint16) Entry {
	if offset+chip8.OpcodeSize <= len(data) {
		ins, err := chip8.DecodeBytes(data[offset:])
		if err == nil {
			return Entry{
				Address:     address,
				Instruction: ins,
				Data:        data[offset : offset+chip8.OpcodeSize],
				Text:        ins.String(),
				Valid:       true,
			}
		}
	}

	placeholder := data[offset : offset+1]
	return Entry{
		Address: address,
		Data:    placeholder,
		Text:    chip8.FormatData(placeholder),
	}
}
