package chip8

import (
	"testing"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestOpcodeTable(t *testing.T) {
	assert.Len(t, Ops(), 35)

	for _, op := range Ops() {
		info := opcodes[op]
		assert.NotEmpty(t, info.pattern)
		assert.Equal(t, info.value, info.value&info.mask)
		assert.True(t, info.ins != nil || info.name != "")
	}
}

func TestOp_Name(t *testing.T) {
	tests := []struct {
		op       Op
		expected string
	}{
		{OpSYS, "sys"},
		{OpCLS, chip8cpu.ClsInst.Name},
		{OpJPV0, chip8cpu.JpInst.Name},
		{OpSUBN, chip8cpu.SubnInst.Name},
		{OpLDVxK, chip8cpu.LdInst.Name},
		{OpInvalid, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.op.Name())
	}
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "8XY4", OpADDReg.String())
	assert.Equal(t, "FX0A", OpLDVxK.String())
	assert.Equal(t, "invalid", opCount.String())
}

func TestOp_Memory(t *testing.T) {
	tests := []struct {
		name   string
		op     Op
		reads  bool
		writes bool
	}{
		{"DRW instruction", OpDRW, true, false},
		{"LD Vx, [I] instruction", OpLDVxI, true, false},
		{"LD [I], Vx instruction", OpLDIVx, false, true},
		{"LD B, Vx instruction", OpLDB, false, true},
		{"LD I instruction", OpLDI, false, false},
		{"JP instruction", OpJP, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.reads, tt.op.ReadsMemory())
			assert.Equal(t, tt.writes, tt.op.WritesMemory())
		})
	}
}
