package disasm

import "github.com/retroenv/retrochip8/internal/arch/chip8"

// Window returns a listing of up to count entries of memory that contains
// the address pc. The listing starts at a block boundary so that it does
// not scroll with every executed instruction. Memory is indexed by address.
func Window(memory []byte, pc uint16, count int) []Entry {
	if count <= 0 || int(pc) >= len(memory) {
		return nil
	}

	count = min(count, len(memory))
	span := min(count*chip8.OpcodeSize, len(memory))
	start := int(pc) - (int(pc)%span)&^1 // keep the instruction alignment of pc
	end := min(start+span, len(memory))

	entries := make([]Entry, 0, count)
	for entry := range sweep(memory[start:end], uint16(start)) {
		entries = append(entries, entry)
		if len(entries) == count {
			break
		}
	}
	return entries
}
