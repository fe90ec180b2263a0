package machine

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
)

const vf = chip8.FlagRegister

// Execute applies a decoded instruction to the machine state. PC advances by
// 2, or by 4 for a skip whose condition held, unless the instruction sets PC
// itself. On error the state is left unchanged.
//
//nolint:funlen,cyclop // one case per instruction form
func (m *Machine) Execute(ins chip8.Instruction) error {
	r := &m.registers
	x, y := ins.X&0xF, ins.Y&0xF
	next := r.PC + chip8.OpcodeSize

	switch ins.Op {
	case chip8.OpSYS:
		// machine code routines of the original interpreter host are not supported

	case chip8.OpCLS:
		m.display.clear()

	case chip8.OpRET:
		address, err := r.pop()
		if err != nil {
			return m.fault(err, ins, 0)
		}
		next = address

	case chip8.OpJP:
		next = ins.NNN

	case chip8.OpCALL:
		if err := r.push(next); err != nil {
			return m.fault(err, ins, 0)
		}
		next = ins.NNN

	case chip8.OpSEByte:
		next = skipIf(next, r.V[x] == ins.NN)

	case chip8.OpSNEByte:
		next = skipIf(next, r.V[x] != ins.NN)

	case chip8.OpSEReg:
		next = skipIf(next, r.V[x] == r.V[y])

	case chip8.OpSNEReg:
		next = skipIf(next, r.V[x] != r.V[y])

	case chip8.OpLDByte:
		r.V[x] = ins.NN

	case chip8.OpADDByte:
		r.V[x] += ins.NN

	case chip8.OpLDReg:
		r.V[x] = r.V[y]

	case chip8.OpOR:
		r.V[x] |= r.V[y]

	case chip8.OpAND:
		r.V[x] &= r.V[y]

	case chip8.OpXOR:
		r.V[x] ^= r.V[y]

	case chip8.OpADDReg:
		sum := uint16(r.V[x]) + uint16(r.V[y])
		r.V[x] = uint8(sum)
		r.V[vf] = flag(sum > 0xFF)

	case chip8.OpSUB:
		vx, vy := r.V[x], r.V[y]
		r.V[x] = vx - vy
		r.V[vf] = flag(vx >= vy)

	case chip8.OpSUBN:
		vx, vy := r.V[x], r.V[y]
		r.V[x] = vy - vx
		r.V[vf] = flag(vy >= vx)

	case chip8.OpSHR:
		source := m.shiftSource(x, y)
		r.V[x] = source >> 1
		r.V[vf] = source & 0x01

	case chip8.OpSHL:
		source := m.shiftSource(x, y)
		r.V[x] = source << 1
		r.V[vf] = source >> 7

	case chip8.OpLDI:
		r.I = ins.NNN

	case chip8.OpJPV0:
		// an address beyond the memory faults on the next fetch
		next = ins.NNN + uint16(r.V[0])

	case chip8.OpRND:
		r.V[x] = uint8(m.rng.UintN(256)) & ins.NN

	case chip8.OpDRW:
		sprite, err := m.memory.view(r.I, int(ins.N))
		if err != nil {
			return m.fault(err, ins, 0)
		}
		collision := m.display.draw(r.V[x], r.V[y], sprite)
		r.V[vf] = flag(collision)

	case chip8.OpSKP:
		next = skipIf(next, m.keypad.IsDown(r.V[x]))

	case chip8.OpSKNP:
		next = skipIf(next, !m.keypad.IsDown(r.V[x]))

	case chip8.OpLDVxDT:
		r.V[x] = m.timers.Delay

	case chip8.OpLDVxK:
		m.waiting = true
		m.waitRegister = x
		m.waitKeys = m.keypad.State()
		return nil

	case chip8.OpLDDTVx:
		m.timers.Delay = r.V[x]

	case chip8.OpLDSTVx:
		m.timers.Sound = r.V[x]

	case chip8.OpADDI:
		r.I += uint16(r.V[x])

	case chip8.OpLDF:
		r.I = FontAddress + uint16(r.V[x]&0xF)*FontSpriteSize

	case chip8.OpLDB:
		buf, err := m.memory.view(r.I, 3)
		if err != nil {
			return m.fault(err, ins, 0)
		}
		value := r.V[x]
		buf[0] = value / 100
		buf[1] = value / 10 % 10
		buf[2] = value % 10

	case chip8.OpLDIVx:
		buf, err := m.memory.view(r.I, int(x)+1)
		if err != nil {
			return m.fault(err, ins, 0)
		}
		copy(buf, r.V[:x+1])
		m.advanceIndex(x)

	case chip8.OpLDVxI:
		buf, err := m.memory.view(r.I, int(x)+1)
		if err != nil {
			return m.fault(err, ins, 0)
		}
		copy(r.V[:x+1], buf)
		m.advanceIndex(x)

	default:
		return m.fault(fmt.Errorf("%w: form %s", chip8.ErrUnknownOpcode, ins.Op), ins, 0)
	}

	r.PC = next
	return nil
}

func (m *Machine) shiftSource(x, y uint8) uint8 {
	if m.options.Quirks.ShiftUsesVY {
		return m.registers.V[y]
	}
	return m.registers.V[x]
}

func (m *Machine) advanceIndex(x uint8) {
	if m.options.Quirks.LoadStoreIncrementsI {
		m.registers.I += uint16(x) + 1
	}
}

func skipIf(next uint16, condition bool) uint16 {
	if condition {
		return next + chip8.OpcodeSize
	}
	return next
}

func flag(set bool) uint8 {
	if set {
		return 1
	}
	return 0
}
