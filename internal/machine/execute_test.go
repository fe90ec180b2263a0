package machine

import (
	"errors"
	"testing"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestMachine(t *testing.T, program ...byte) *Machine {
	t.Helper()
	m := New(log.NewTestLogger(t), NewOptions())
	assert.NoError(t, m.Load(program))
	return m
}

func execute(t *testing.T, m *Machine, opcode uint16) {
	t.Helper()
	ins, err := chip8.DecodeWord(opcode)
	assert.NoError(t, err)
	assert.NoError(t, m.Execute(ins))
}

func TestExecute_AddRegisters(t *testing.T) {
	tests := []struct {
		name     string
		vx, vy   uint8
		expected uint8
		carry    uint8
	}{
		{"no carry", 0x0A, 0x05, 0x0F, 0},
		{"carry", 0xFF, 0x01, 0x00, 1},
		{"carry with remainder", 0x80, 0x90, 0x10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			m.registers.V[1] = tt.vx
			m.registers.V[2] = tt.vy

			execute(t, m, 0x8124)
			assert.Equal(t, tt.expected, m.registers.V[1])
			assert.Equal(t, tt.carry, m.registers.V[0xF])
			assert.Equal(t, uint16(0x202), m.registers.PC)
		})
	}
}

//nolint:funlen // test functions can be long
func TestExecute_Arithmetic(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		vx, vy uint8
		vf     uint8 // initial VF
		x      uint8 // expected VX
		flag   uint8 // expected VF
	}{
		{"ld reg", 0x8120, 0x01, 0x02, 0x07, 0x02, 0x07},
		{"or keeps vf", 0x8121, 0x0C, 0x03, 0x07, 0x0F, 0x07},
		{"and keeps vf", 0x8122, 0x0C, 0x06, 0x07, 0x04, 0x07},
		{"xor keeps vf", 0x8123, 0x0C, 0x06, 0x07, 0x0A, 0x07},
		{"sub no borrow", 0x8125, 0x0A, 0x03, 0x00, 0x07, 1},
		{"sub equal", 0x8125, 0x05, 0x05, 0x00, 0x00, 1},
		{"sub borrow", 0x8125, 0x03, 0x0A, 0x01, 0xF9, 0},
		{"subn no borrow", 0x8127, 0x03, 0x0A, 0x00, 0x07, 1},
		{"subn borrow", 0x8127, 0x0A, 0x03, 0x01, 0xF9, 0},
		{"shr odd", 0x8126, 0x05, 0xF0, 0x00, 0x02, 1},
		{"shr even", 0x8126, 0x04, 0xF0, 0x01, 0x02, 0},
		{"shl high bit", 0x812E, 0x81, 0x00, 0x00, 0x02, 1},
		{"shl low bit", 0x812E, 0x41, 0x00, 0x01, 0x82, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			m.registers.V[1] = tt.vx
			m.registers.V[2] = tt.vy
			m.registers.V[0xF] = tt.vf

			execute(t, m, tt.opcode)
			assert.Equal(t, tt.x, m.registers.V[1])
			assert.Equal(t, tt.flag, m.registers.V[0xF])
		})
	}
}

func TestExecute_FlagRegisterAsDestination(t *testing.T) {
	m := newTestMachine(t)
	m.registers.V[0xF] = 0xFF
	m.registers.V[1] = 0x01

	execute(t, m, 0x8F14) // add VF, V1
	assert.Equal(t, uint8(1), m.registers.V[0xF])
}

func TestExecute_ShiftQuirk(t *testing.T) {
	m := New(log.NewTestLogger(t), Options{Quirks: CosmacQuirks()})
	m.registers.V[1] = 0x00
	m.registers.V[2] = 0x81

	execute(t, m, 0x8126)
	assert.Equal(t, uint8(0x40), m.registers.V[1])
	assert.Equal(t, uint8(1), m.registers.V[0xF])

	execute(t, m, 0x812E)
	assert.Equal(t, uint8(0x02), m.registers.V[1])
	assert.Equal(t, uint8(1), m.registers.V[0xF])
}

func TestExecute_Skips(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		pc     uint16
	}{
		{"se byte taken", 0x3105, 0x204},
		{"se byte not taken", 0x3106, 0x202},
		{"sne byte taken", 0x4106, 0x204},
		{"sne byte not taken", 0x4105, 0x202},
		{"se reg taken", 0x5120, 0x204},
		{"se reg not taken", 0x5130, 0x202},
		{"sne reg taken", 0x9130, 0x204},
		{"sne reg not taken", 0x9120, 0x202},
		{"skp taken", 0xE39E, 0x204},
		{"skp not taken", 0xE19E, 0x202},
		{"sknp taken", 0xE1A1, 0x204},
		{"sknp not taken", 0xE3A1, 0x202},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			m.registers.V[1] = 0x05
			m.registers.V[2] = 0x05
			m.registers.V[3] = 0x07
			m.keypad.Press(0x07)

			execute(t, m, tt.opcode)
			assert.Equal(t, tt.pc, m.registers.PC)
		})
	}
}

func TestExecute_JumpsAndCalls(t *testing.T) {
	m := newTestMachine(t)

	execute(t, m, 0x1300)
	assert.Equal(t, uint16(0x300), m.registers.PC)

	m.registers.V[0] = 0x10
	execute(t, m, 0xB400)
	assert.Equal(t, uint16(0x410), m.registers.PC)

	execute(t, m, 0x0123) // sys is ignored
	assert.Equal(t, uint16(0x412), m.registers.PC)
}

func TestExecute_CallReturn(t *testing.T) {
	m := newTestMachine(t)
	m.registers.PC = 0x240
	m.registers.SP = 3

	execute(t, m, 0x2300)
	assert.Equal(t, uint16(0x300), m.registers.PC)
	assert.Equal(t, uint8(4), m.registers.SP)
	assert.Equal(t, uint16(0x242), m.registers.Stack[3])

	execute(t, m, 0x00EE)
	assert.Equal(t, uint16(0x242), m.registers.PC)
	assert.Equal(t, uint8(3), m.registers.SP)
}

func TestExecute_StackErrors(t *testing.T) {
	m := newTestMachine(t)

	ret, err := chip8.DecodeWord(0x00EE)
	assert.NoError(t, err)
	err = m.Execute(ret)
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, uint16(0x200), m.registers.PC)

	call, err := chip8.DecodeWord(0x2200)
	assert.NoError(t, err)
	for range StackSize {
		assert.NoError(t, m.Execute(call))
	}
	err = m.Execute(call)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, uint8(StackSize), m.registers.SP)

	var execErr *Error
	assert.True(t, errors.As(err, &execErr))
	assert.Equal(t, uint16(0x200), execErr.Address)
	assert.Equal(t, uint16(0x2200), execErr.Opcode)
	assert.Equal(t, chip8.OpCALL, execErr.Instruction.Op)
	assert.Equal(t, uint8(StackSize), execErr.Registers.SP)
}

func TestExecute_Index(t *testing.T) {
	m := newTestMachine(t)

	execute(t, m, 0xA123)
	assert.Equal(t, uint16(0x123), m.registers.I)

	m.registers.V[4] = 0x10
	execute(t, m, 0xF41E)
	assert.Equal(t, uint16(0x133), m.registers.I)

	m.registers.V[4] = 0x0B
	execute(t, m, 0xF429)
	assert.Equal(t, uint16(FontAddress+0x0B*FontSpriteSize), m.registers.I)
}

func TestExecute_BCD(t *testing.T) {
	m := newTestMachine(t)
	m.registers.I = 0x300
	m.registers.V[2] = 254

	execute(t, m, 0xF233)
	data, err := m.memory.Slice(0x300, 3)
	assert.NoError(t, err)
	assert.Equal(t, []byte{2, 5, 4}, data)
	assert.Equal(t, uint16(0x300), m.registers.I)
}

func TestExecute_LoadStore(t *testing.T) {
	tests := []struct {
		name   string
		quirks Quirks
		i      uint16
	}{
		{"modern", ModernQuirks(), 0x300},
		{"cosmac", CosmacQuirks(), 0x303},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(log.NewTestLogger(t), Options{Quirks: tt.quirks})
			m.registers.I = 0x300
			m.registers.V = [16]uint8{1, 2, 3, 4}

			execute(t, m, 0xF255)
			data, err := m.memory.Slice(0x300, 4)
			assert.NoError(t, err)
			assert.Equal(t, []byte{1, 2, 3, 0}, data)
			assert.Equal(t, tt.i, m.registers.I)

			m.registers.I = 0x300
			m.registers.V = [16]uint8{}
			execute(t, m, 0xF165)
			assert.Equal(t, uint8(1), m.registers.V[0])
			assert.Equal(t, uint8(2), m.registers.V[1])
			assert.Equal(t, uint8(0), m.registers.V[2])
		})
	}
}

func TestExecute_AddressOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		i      uint16
	}{
		{"store beyond memory", 0xF355, 0xFFE},
		{"load beyond memory", 0xF065, 0x1000},
		{"bcd beyond memory", 0xF033, 0xFFE},
		{"sprite beyond memory", 0xD015, 0xFFD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t)
			m.registers.I = tt.i
			ins, err := chip8.DecodeWord(tt.opcode)
			assert.NoError(t, err)

			err = m.Execute(ins)
			assert.True(t, errors.Is(err, ErrAddressOutOfRange))
			assert.Equal(t, uint16(0x200), m.registers.PC)
		})
	}
}

func TestExecute_Timers(t *testing.T) {
	m := newTestMachine(t)
	m.registers.V[1] = 30

	execute(t, m, 0xF115)
	execute(t, m, 0xF118)
	assert.Equal(t, Timers{Delay: 30, Sound: 30}, m.timers)
	assert.True(t, m.SoundActive())

	m.TickTimers()
	execute(t, m, 0xF207)
	assert.Equal(t, uint8(29), m.registers.V[2])
}

func TestExecute_Random(t *testing.T) {
	first := newTestMachine(t)
	second := newTestMachine(t)

	for range 8 {
		execute(t, first, 0xC10F)
		execute(t, second, 0xC10F)
		assert.Equal(t, first.registers.V[1], second.registers.V[1])
		assert.Equal(t, uint8(0), first.registers.V[1]&0xF0)
	}
}

func TestExecute_Display(t *testing.T) {
	m := newTestMachine(t)
	m.registers.I = FontAddress // sprite for 0: F0 90 90 90 F0
	m.registers.V[1] = 2
	m.registers.V[2] = 3

	execute(t, m, 0xD125)
	assert.True(t, m.display.Pixel(2, 3))
	assert.True(t, m.display.Pixel(5, 3))
	assert.False(t, m.display.Pixel(6, 3))
	assert.False(t, m.display.Pixel(3, 4))
	assert.Equal(t, uint8(0), m.registers.V[0xF])
	assert.Equal(t, 14, m.display.Lit())

	execute(t, m, 0xD125)
	assert.Equal(t, uint8(1), m.registers.V[0xF])
	assert.Equal(t, 0, m.display.Lit())

	execute(t, m, 0xD125)
	assert.True(t, m.display.Lit() > 0)
	execute(t, m, 0x00E0)
	for y := range DisplayHeight {
		for x := range DisplayWidth {
			assert.False(t, m.display.Pixel(x, y))
		}
	}
}

func TestExecute_DisplayClipping(t *testing.T) {
	m := newTestMachine(t)
	m.registers.I = FontAddress
	m.registers.V[1] = 62
	m.registers.V[2] = 30

	execute(t, m, 0xD125)
	assert.True(t, m.display.Pixel(62, 30))
	assert.True(t, m.display.Pixel(62, 31))
	assert.False(t, m.display.Pixel(63, 31))
	assert.False(t, m.display.Pixel(0, 30))
	assert.False(t, m.display.Pixel(62, 0))
	assert.Equal(t, 3, m.display.Lit())

	// start coordinates wrap around
	m.display.clear()
	m.registers.V[1] = 64 + 1
	m.registers.V[2] = 32
	execute(t, m, 0xD121)
	assert.True(t, m.display.Pixel(1, 0))
}

func TestExecute_WaitForKey(t *testing.T) {
	m := newTestMachine(t, 0xF3, 0x0A, 0x60, 0x01)
	m.keypad.Press(0x2) // held before the wait starts

	assert.NoError(t, m.Step())
	assert.True(t, m.Waiting())
	assert.Equal(t, uint16(0x200), m.registers.PC)

	assert.NoError(t, m.Step())
	assert.False(t, m.PollKey())
	assert.Equal(t, uint16(0x200), m.registers.PC)

	m.keypad.Press(0xA)
	assert.True(t, m.PollKey())
	assert.False(t, m.Waiting())
	assert.Equal(t, uint8(0xA), m.registers.V[3])
	assert.Equal(t, uint16(0x202), m.registers.PC)
}

func TestEveryOpExecutes(t *testing.T) {
	for _, op := range chip8.Ops() {
		m := newTestMachine(t)
		m.registers.I = 0x300
		m.registers.SP = 1
		m.registers.Stack[0] = 0x208

		err := m.Execute(chip8.Instruction{Op: op, X: 1, Y: 2, N: 3, NN: 4, NNN: 0x300})
		assert.NoError(t, err)
	}

	m := newTestMachine(t)
	err := m.Execute(chip8.Instruction{})
	assert.True(t, errors.Is(err, chip8.ErrUnknownOpcode))
}
