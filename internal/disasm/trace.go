package disasm

import (
	"iter"
	"maps"
	"slices"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// trace follows the execution flow starting at the base address. Jumps,
// calls and both paths of a skip are followed, a computed jump or a return
// ends the path. The entries are returned in ascending address order.
func (dis *Disasm) trace() iter.Seq[Entry] {
	var (
		toParse      = []uint16{dis.base}
		toParseAdded = set.New[uint16]()
		parsed       = map[uint16]Entry{}
	)
	toParseAdded.Add(dis.base)

	addTarget := func(address uint16) {
		if !dis.inRange(address) || toParseAdded.Contains(address) {
			return
		}
		toParseAdded.Add(address)
		toParse = append(toParse, address)
	}

	for len(toParse) > 0 {
		address := toParse[0]
		toParse = toParse[1:]

		entry := decodeAt(dis.data, int(address-dis.base), address)
		parsed[address] = entry
		if !entry.Valid {
			continue
		}

		for _, next := range successors(entry) {
			addTarget(next)
		}
	}

	dis.logger.Debug("Execution flow traced", log.Int("instructions", len(parsed)))

	addresses := slices.Sorted(maps.Keys(parsed))
	return func(yield func(Entry) bool) {
		for _, address := range addresses {
			if !yield(parsed[address]) {
				return
			}
		}
	}
}

func (dis *Disasm) inRange(address uint16) bool {
	return address >= dis.base && int(address-dis.base) < len(dis.data)
}

// successors returns the addresses that execution can continue at after
// the instruction of the entry.
func successors(entry Entry) []uint16 {
	ins := entry.Instruction
	next := entry.Address + chip8.OpcodeSize

	switch {
	case ins.IsReturn():
		return nil

	case ins.IsJump():
		if ins.Op == chip8.OpJPV0 {
			return nil // target depends on V0
		}
		return []uint16{ins.NNN}

	case ins.IsCall():
		return []uint16{ins.NNN, next}

	case ins.IsSkip():
		return []uint16{next, next + chip8.OpcodeSize}

	default:
		return []uint16{next}
	}
}
