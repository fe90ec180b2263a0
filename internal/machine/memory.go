package machine

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
)

// FontAddress is the address of the hex digit sprites in memory.
const FontAddress = 0x000

// FontSpriteSize is the number of bytes of a single hex digit sprite.
const FontSpriteSize = 5

var fontSprites = [16 * FontSpriteSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the 4KB CHIP-8 address space.
type Memory struct {
	data [chip8.MemorySize]byte
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) (byte, error) {
	if err := checkRange(address, 1); err != nil {
		return 0, err
	}
	return m.data[address], nil
}

// Write sets the byte at the given address.
func (m *Memory) Write(address uint16, value byte) error {
	if err := checkRange(address, 1); err != nil {
		return err
	}
	m.data[address] = value
	return nil
}

// Word returns the big-endian 16 bit word at the given address.
func (m *Memory) Word(address uint16) (uint16, error) {
	if err := checkRange(address, 2); err != nil {
		return 0, err
	}
	return uint16(m.data[address])<<8 | uint16(m.data[address+1]), nil
}

// Slice returns a copy of length bytes starting at the given address.
func (m *Memory) Slice(address uint16, length int) ([]byte, error) {
	if err := checkRange(address, length); err != nil {
		return nil, err
	}
	buf := make([]byte, length)
	copy(buf, m.data[address:])
	return buf, nil
}

// view returns the memory range without copying it.
func (m *Memory) view(address uint16, length int) ([]byte, error) {
	if err := checkRange(address, length); err != nil {
		return nil, err
	}
	return m.data[address : int(address)+length], nil
}

// clear zeroes the memory and installs the font sprites.
func (m *Memory) clear() {
	m.data = [chip8.MemorySize]byte{}
	copy(m.data[FontAddress:], fontSprites[:])
}

// loadProgram copies a program image to the program start address,
// bytes that do not fit are dropped.
func (m *Memory) loadProgram(program []byte) {
	copy(m.data[chip8.ProgramStart:], program)
}

func checkRange(address uint16, length int) error {
	if length < 0 || int(address)+length > chip8.MemorySize {
		return fmt.Errorf("%w: $%04X+%d", ErrAddressOutOfRange, address, length)
	}
	return nil
}
