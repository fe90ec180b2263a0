package disasm

import (
	"math"
	"testing"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type line struct {
	address uint16
	text    string
	valid   bool
}

func lines(entries []Entry) []line {
	result := make([]line, 0, len(entries))
	for _, entry := range entries {
		result = append(result, line{entry.Address, entry.Text, entry.Valid})
	}
	return result
}

//nolint:funlen // test functions can be long
func TestDisasm_Linear(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []line
	}{
		{
			name: "single instruction",
			data: []byte{0x60, 0xFF},
			want: []line{{0x200, "ld V0, $FF", true}},
		},
		{
			name: "empty program",
			data: nil,
			want: []line{},
		},
		{
			name: "unknown opcode advances by one byte",
			data: []byte{0xFF, 0xFF, 0x00, 0xE0},
			want: []line{
				{0x200, ".byte $FF", false},
				{0x201, ".byte $FF", false},
				{0x202, "cls", true},
			},
		},
		{
			name: "placeholder realigns the sweep",
			data: []byte{0x5A, 0x61, 0x23, 0x00, 0xEE},
			want: []line{
				{0x200, ".byte $5A", false},
				{0x201, "ld V1, $23", true},
				{0x203, "ret", true},
			},
		},
		{
			name: "trailing odd byte",
			data: []byte{0x12, 0x00, 0xA2},
			want: []line{
				{0x200, "jp $200", true},
				{0x202, ".byte $A2", false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dis := New(log.NewTestLogger(t), tt.data, chip8.ProgramStart, Options{})
			assert.Equal(t, tt.want, lines(dis.All()))
		})
	}
}

func TestDisasm_EntryDetails(t *testing.T) {
	dis := New(log.NewTestLogger(t), []byte{0x60, 0xFF}, chip8.ProgramStart, Options{})

	entries := dis.All()
	assert.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, chip8.OpLDByte, entry.Instruction.Op)
	assert.Equal(t, uint8(0), entry.Instruction.X)
	assert.Equal(t, uint8(0xFF), entry.Instruction.NN)
	assert.Equal(t, []byte{0x60, 0xFF}, entry.Data)
}

func TestDisasm_EntriesRestartable(t *testing.T) {
	dis := New(log.NewTestLogger(t), []byte{0x00, 0xE0, 0x00, 0xEE}, chip8.ProgramStart, Options{})

	var first []uint16
	for entry := range dis.Entries() {
		first = append(first, entry.Address)
		break
	}
	assert.Equal(t, []uint16{0x200}, first)
	assert.Len(t, dis.All(), 2)
}

//nolint:funlen // test functions can be long
func TestDisasm_Trace(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []line
	}{
		{
			name: "jump over data",
			data: []byte{
				0x12, 0x04, // 200: jp $204
				0xFF, 0xFF, // 202: data
				0x00, 0xE0, // 204: cls
				0x12, 0x04, // 206: jp $204
			},
			want: []line{
				{0x200, "jp $204", true},
				{0x204, "cls", true},
				{0x206, "jp $204", true},
			},
		},
		{
			name: "call and skip paths",
			data: []byte{
				0x22, 0x08, // 200: call $208
				0x30, 0x01, // 202: se V0, $01
				0x12, 0x02, // 204: jp $202
				0x12, 0x06, // 206: jp $206
				0x00, 0xEE, // 208: ret
				0xAB, 0xCD, // 20A: unreachable
			},
			want: []line{
				{0x200, "call $208", true},
				{0x202, "se V0, $01", true},
				{0x204, "jp $202", true},
				{0x206, "jp $206", true},
				{0x208, "ret", true},
			},
		},
		{
			name: "unaligned jump target",
			data: []byte{
				0x12, 0x03, // 200: jp $203
				0x00, 0x61, // 203: ld V1, $23
				0x23, 0xB2, // 205: jp V0, $200
				0x00,
			},
			want: []line{
				{0x200, "jp $203", true},
				{0x203, "ld V1, $23", true},
				{0x205, "jp V0, $200", true},
			},
		},
		{
			name: "invalid instruction ends the path",
			data: []byte{
				0x60, 0x01, // 200: ld V0, $01
				0xF0, 0xFF, // 202: unknown
				0x00, 0xE0, // 204: unreachable
			},
			want: []line{
				{0x200, "ld V0, $01", true},
				{0x202, ".byte $F0", false},
			},
		},
		{
			name: "jump outside of the program",
			data: []byte{0x13, 0x00},
			want: []line{{0x200, "jp $300", true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dis := New(log.NewTestLogger(t), tt.data, chip8.ProgramStart, Options{Trace: true})
			assert.Equal(t, tt.want, lines(dis.All()))
		})
	}
}

func TestWindow(t *testing.T) {
	memory := make([]byte, chip8.MemorySize)
	program := []byte{
		0x60, 0x01, // 200
		0x61, 0x02, // 202
		0x62, 0x03, // 204
		0x63, 0x04, // 206
		0x64, 0x05, // 208
		0x65, 0x06, // 20A
	}
	copy(memory[chip8.ProgramStart:], program)

	entries := Window(memory, 0x204, 4)
	assert.Equal(t, []line{
		{0x200, "ld V0, $01", true},
		{0x202, "ld V1, $02", true},
		{0x204, "ld V2, $03", true},
		{0x206, "ld V3, $04", true},
	}, lines(entries))

	entries = Window(memory, 0x20A, 4)
	assert.Equal(t, uint16(0x208), entries[0].Address)
	assert.Equal(t, "ld V5, $06", entries[1].Text)

	entries = Window(memory, 0x201, 2)
	assert.Equal(t, uint16(0x201), entries[0].Address)

	entries = Window(memory, chip8.MaxAddress, 4)
	assert.Equal(t, []line{
		{0xFF9, "sys $000", true},
		{0xFFB, "sys $000", true},
		{0xFFD, "sys $000", true},
		{chip8.MaxAddress, ".byte $00", false},
	}, lines(entries))

	// counts beyond the memory size list the whole memory
	entries = Window(memory, 0x200, 32768)
	assert.Len(t, entries, chip8.MemorySize/chip8.OpcodeSize)
	assert.Equal(t, uint16(0), entries[0].Address)
	assert.Equal(t, "ld V0, $01", entries[0x100].Text)

	entries = Window(memory, 0x201, math.MaxInt)
	assert.Equal(t, uint16(1), entries[0].Address)
	assert.Equal(t, uint16(chip8.MaxAddress), entries[len(entries)-1].Address)

	assert.Empty(t, Window(memory, chip8.MemorySize, 4))
	assert.Empty(t, Window(memory, 0x200, 0))
}
