package chip8

import (
	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// OpcodeSize is the size of CHIP-8 instructions in bytes.
const OpcodeSize = 2

// Op identifies one of the base CHIP-8 instruction forms.
type Op uint8

// The order inside a top nibble family matters: more specific patterns have to
// be listed before the generic ones, 00E0 and 00EE are checked before 0NNN.
const (
	OpInvalid Op = iota
	OpCLS
	OpRET
	OpSYS
	OpJP
	OpCALL
	OpSEByte
	OpSNEByte
	OpSEReg
	OpLDByte
	OpADDByte
	OpLDReg
	OpOR
	OpAND
	OpXOR
	OpADDReg
	OpSUB
	OpSHR
	OpSUBN
	OpSHL
	OpSNEReg
	OpLDI
	OpJPV0
	OpRND
	OpDRW
	OpSKP
	OpSKNP
	OpLDVxDT
	OpLDVxK
	OpLDDTVx
	OpLDSTVx
	OpADDI
	OpLDF
	OpLDB
	OpLDIVx
	OpLDVxI

	opCount
)

// operand layout of the 16 bit opcode word.
type layout uint8

const (
	layoutNone layout = iota
	layoutNNN         // _NNN
	layoutXNN         // _XNN
	layoutXY          // _XY_
	layoutXYN         // _XYN
	layoutX           // _X__
)

// opcodeInfo describes a single instruction form.
type opcodeInfo struct {
	pattern string // canonical opcode notation like 8XY4
	mask    uint16
	value   uint16
	layout  layout
	ins     *chip8cpu.Instruction // nil for forms that retrogolib does not describe
	name    string                // mnemonic used when ins is nil
	params  string                // operand template, see formatParams
}

var opcodes = [opCount]opcodeInfo{
	OpCLS:     {pattern: "00E0", mask: 0xFFFF, value: 0x00E0, layout: layoutNone, ins: chip8cpu.ClsInst},
	OpRET:     {pattern: "00EE", mask: 0xFFFF, value: 0x00EE, layout: layoutNone, ins: chip8cpu.RetInst},
	OpSYS:     {pattern: "0NNN", mask: 0xF000, value: 0x0000, layout: layoutNNN, name: "sys", params: "NNN"},
	OpJP:      {pattern: "1NNN", mask: 0xF000, value: 0x1000, layout: layoutNNN, ins: chip8cpu.JpInst, params: "NNN"},
	OpCALL:    {pattern: "2NNN", mask: 0xF000, value: 0x2000, layout: layoutNNN, ins: chip8cpu.CallInst, params: "NNN"},
	OpSEByte:  {pattern: "3XNN", mask: 0xF000, value: 0x3000, layout: layoutXNN, ins: chip8cpu.SeInst, params: "VX, NN"},
	OpSNEByte: {pattern: "4XNN", mask: 0xF000, value: 0x4000, layout: layoutXNN, ins: chip8cpu.SneInst, params: "VX, NN"},
	OpSEReg:   {pattern: "5XY0", mask: 0xF00F, value: 0x5000, layout: layoutXY, ins: chip8cpu.SeInst, params: "VX, VY"},
	OpLDByte:  {pattern: "6XNN", mask: 0xF000, value: 0x6000, layout: layoutXNN, ins: chip8cpu.LdInst, params: "VX, NN"},
	OpADDByte: {pattern: "7XNN", mask: 0xF000, value: 0x7000, layout: layoutXNN, ins: chip8cpu.AddInst, params: "VX, NN"},
	OpLDReg:   {pattern: "8XY0", mask: 0xF00F, value: 0x8000, layout: layoutXY, ins: chip8cpu.LdInst, params: "VX, VY"},
	OpOR:      {pattern: "8XY1", mask: 0xF00F, value: 0x8001, layout: layoutXY, ins: chip8cpu.OrInst, params: "VX, VY"},
	OpAND:     {pattern: "8XY2", mask: 0xF00F, value: 0x8002, layout: layoutXY, ins: chip8cpu.AndInst, params: "VX, VY"},
	OpXOR:     {pattern: "8XY3", mask: 0xF00F, value: 0x8003, layout: layoutXY, ins: chip8cpu.XorInst, params: "VX, VY"},
	OpADDReg:  {pattern: "8XY4", mask: 0xF00F, value: 0x8004, layout: layoutXY, ins: chip8cpu.AddInst, params: "VX, VY"},
	OpSUB:     {pattern: "8XY5", mask: 0xF00F, value: 0x8005, layout: layoutXY, ins: chip8cpu.SubInst, params: "VX, VY"},
	OpSHR:     {pattern: "8XY6", mask: 0xF00F, value: 0x8006, layout: layoutXY, ins: chip8cpu.ShrInst, params: "VX, VY"},
	OpSUBN:    {pattern: "8XY7", mask: 0xF00F, value: 0x8007, layout: layoutXY, ins: chip8cpu.SubnInst, params: "VX, VY"},
	OpSHL:     {pattern: "8XYE", mask: 0xF00F, value: 0x800E, layout: layoutXY, ins: chip8cpu.ShlInst, params: "VX, VY"},
	OpSNEReg:  {pattern: "9XY0", mask: 0xF00F, value: 0x9000, layout: layoutXY, ins: chip8cpu.SneInst, params: "VX, VY"},
	OpLDI:     {pattern: "ANNN", mask: 0xF000, value: 0xA000, layout: layoutNNN, ins: chip8cpu.LdInst, params: "I, NNN"},
	OpJPV0:    {pattern: "BNNN", mask: 0xF000, value: 0xB000, layout: layoutNNN, ins: chip8cpu.JpInst, params: "V0, NNN"},
	OpRND:     {pattern: "CXNN", mask: 0xF000, value: 0xC000, layout: layoutXNN, ins: chip8cpu.RndInst, params: "VX, NN"},
	OpDRW:     {pattern: "DXYN", mask: 0xF000, value: 0xD000, layout: layoutXYN, ins: chip8cpu.DrwInst, params: "VX, VY, N"},
	OpSKP:     {pattern: "EX9E", mask: 0xF0FF, value: 0xE09E, layout: layoutX, ins: chip8cpu.SkpInst, params: "VX"},
	OpSKNP:    {pattern: "EXA1", mask: 0xF0FF, value: 0xE0A1, layout: layoutX, ins: chip8cpu.SknpInst, params: "VX"},
	OpLDVxDT:  {pattern: "FX07", mask: 0xF0FF, value: 0xF007, layout: layoutX, ins: chip8cpu.LdInst, params: "VX, DT"},
	OpLDVxK:   {pattern: "FX0A", mask: 0xF0FF, value: 0xF00A, layout: layoutX, ins: chip8cpu.LdInst, params: "VX, K"},
	OpLDDTVx:  {pattern: "FX15", mask: 0xF0FF, value: 0xF015, layout: layoutX, ins: chip8cpu.LdInst, params: "DT, VX"},
	OpLDSTVx:  {pattern: "FX18", mask: 0xF0FF, value: 0xF018, layout: layoutX, ins: chip8cpu.LdInst, params: "ST, VX"},
	OpADDI:    {pattern: "FX1E", mask: 0xF0FF, value: 0xF01E, layout: layoutX, ins: chip8cpu.AddInst, params: "I, VX"},
	OpLDF:     {pattern: "FX29", mask: 0xF0FF, value: 0xF029, layout: layoutX, ins: chip8cpu.LdInst, params: "F, VX"},
	OpLDB:     {pattern: "FX33", mask: 0xF0FF, value: 0xF033, layout: layoutX, ins: chip8cpu.LdInst, params: "B, VX"},
	OpLDIVx:   {pattern: "FX55", mask: 0xF0FF, value: 0xF055, layout: layoutX, ins: chip8cpu.LdInst, params: "[I], VX"},
	OpLDVxI:   {pattern: "FX65", mask: 0xF0FF, value: 0xF065, layout: layoutX, ins: chip8cpu.LdInst, params: "VX, [I]"},
}

// opcodesByNibble lists the candidate forms for each top nibble in table order.
var opcodesByNibble [16][]Op

// opcodesByName maps a mnemonic to all forms that share it.
var opcodesByName = map[string][]Op{}

func init() {
	for op := OpInvalid + 1; op < opCount; op++ {
		info := opcodes[op]
		nibble := info.value >> 12
		opcodesByNibble[nibble] = append(opcodesByNibble[nibble], op)
		name := op.Name()
		opcodesByName[name] = append(opcodesByName[name], op)
	}
}

// Ops returns all valid instruction forms in table order.
func Ops() []Op {
	ops := make([]Op, 0, opCount-1)
	for op := OpInvalid + 1; op < opCount; op++ {
		ops = append(ops, op)
	}
	return ops
}

// Valid returns whether the op is one of the defined instruction forms.
func (o Op) Valid() bool {
	return o > OpInvalid && o < opCount
}

// Name returns the lowercase mnemonic of the instruction form.
func (o Op) Name() string {
	if !o.Valid() {
		return ""
	}
	info := opcodes[o]
	if info.ins != nil {
		return info.ins.Name
	}
	return info.name
}

// String returns the canonical opcode notation, for example 8XY4.
func (o Op) String() string {
	if !o.Valid() {
		return "invalid"
	}
	return opcodes[o].pattern
}

// ReadsMemory returns true if the instruction form reads from main memory.
func (o Op) ReadsMemory() bool {
	switch o {
	case OpDRW, OpLDVxI:
		return true
	default:
		return false
	}
}

// WritesMemory returns true if the instruction form writes to main memory.
func (o Op) WritesMemory() bool {
	switch o {
	case OpLDB, OpLDIVx:
		return true
	default:
		return false
	}
}
