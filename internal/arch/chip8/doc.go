// Package chip8 provides the CHIP-8 instruction set shared by the emulator and the disassembler.
//
// # Memory Layout
//
// CHIP-8 systems have 4KB of memory (0x000-MaxAddress):
//   - 0x000-0x04F: Hex digit font sprites
//   - 0x050-0x1FF: Reserved for the interpreter
//   - ProgramStart-MaxAddress: User program and data area
//
// # Instruction Set
//
// CHIP-8 has 35 opcodes in its base instruction set:
//   - All instructions are 2 bytes (16 bits), stored big-endian
//   - Instructions use direct addressing with 12-bit addresses
//   - 16 general-purpose 8-bit registers (V0-VF), VF doubles as flag register
//   - Special-purpose registers: I (16-bit), PC, SP
//
// Every opcode is described by a single table entry that drives decoding,
// encoding, text formatting and text parsing. Decoding matches the top nibble
// first and then the low nibble or low byte inside a family, any other bit
// pattern is reported as a *DecodeError.
//
// # Usage Example
//
//	ins, err := chip8.Decode(0x60, 0xFF)
//	if err != nil {
//		return fmt.Errorf("decoding opcode: %w", err)
//	}
//	fmt.Println(ins) // ld V0, $FF
//
// Mnemonic names follow the retrogolib CHIP-8 instruction descriptors so that
// output of this package matches other retroenv tools.
package chip8
