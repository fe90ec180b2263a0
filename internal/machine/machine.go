// Package machine implements the CHIP-8 virtual machine state and instruction execution.
package machine

import (
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrogolib/log"
)

// DefaultSeed is the random number generator seed used when none is configured.
const DefaultSeed = 222

// Options configures a machine.
type Options struct {
	Quirks Quirks
	Seed   uint64
}

// NewOptions returns the default machine options.
func NewOptions() Options {
	return Options{
		Quirks: ModernQuirks(),
		Seed:   DefaultSeed,
	}
}

// Machine is the complete state of a CHIP-8 system.
type Machine struct {
	logger  *log.Logger
	options Options
	rng     *rand.Rand

	memory    Memory
	registers Registers
	timers    Timers
	display   Display
	keypad    Keypad
	program   []byte

	waiting      bool   // FX0A is waiting for a key press
	waitRegister uint8  // register that receives the pressed key
	waitKeys     uint16 // keypad state at the last poll while waiting
}

// New returns a new machine in its reset state with no program loaded.
func New(logger *log.Logger, options Options) *Machine {
	m := &Machine{
		logger:  logger,
		options: options,
	}
	m.Reset()
	return m
}

// Load resets the machine and copies the program image to the program start address.
func (m *Machine) Load(program []byte) error {
	if len(program) > chip8.MaxProgramSize {
		return fmt.Errorf("%w: %d bytes exceed the maximum of %d bytes",
			ErrProgramTooLarge, len(program), chip8.MaxProgramSize)
	}

	m.program = append(m.program[:0], program...)
	m.Reset()

	m.logger.Debug("Program loaded",
		log.Int("size", len(program)),
		log.Hex("start", uint16(chip8.ProgramStart)))
	return nil
}

// Reset restores the power-on state and reloads the last loaded program.
// The keypad state is kept as it reflects the host input.
func (m *Machine) Reset() {
	m.memory.clear()
	m.registers = Registers{PC: chip8.ProgramStart}
	m.timers = Timers{}
	m.display.clear()
	m.rng = rand.New(rand.NewPCG(m.options.Seed, m.options.Seed))
	m.waiting = false
	m.memory.loadProgram(m.program)
}

// Step fetches, decodes and executes the instruction at PC. While an FX0A
// instruction is waiting for a key press Step does nothing.
func (m *Machine) Step() error {
	if m.waiting {
		return nil
	}

	pc := m.registers.PC
	opcode, err := m.memory.Word(pc)
	if err != nil {
		return m.fault(err, chip8.Instruction{}, 0)
	}

	ins, err := chip8.DecodeWord(opcode)
	if err != nil {
		return m.fault(err, chip8.Instruction{}, opcode)
	}

	return m.Execute(ins)
}

// Fetch decodes the instruction at the given address without executing it.
func (m *Machine) Fetch(address uint16) (chip8.Instruction, error) {
	opcode, err := m.memory.Word(address)
	if err != nil {
		return chip8.Instruction{}, err
	}
	ins, err := chip8.DecodeWord(opcode)
	if err != nil {
		return chip8.Instruction{}, fmt.Errorf("decoding opcode at $%03X: %w", address, err)
	}
	return ins, nil
}

// PollKey completes a waiting FX0A instruction once a key went down since
// the last poll. It is meant to be called once per outer tick and returns
// true if the wait ended.
func (m *Machine) PollKey() bool {
	if !m.waiting {
		return false
	}

	state := m.keypad.State()
	pressed := state &^ m.waitKeys
	m.waitKeys = state
	if pressed == 0 {
		return false
	}

	key := lowestKey(pressed)
	m.registers.V[m.waitRegister] = key
	m.registers.PC += chip8.OpcodeSize
	m.waiting = false

	m.logger.Debug("Key wait completed",
		log.String("register", chip8.RegisterName(m.waitRegister)),
		log.Uint8("key", key))
	return true
}

// TickTimers decrements the delay and sound timers once. It returns true if
// the sound timer reached zero with this tick.
func (m *Machine) TickTimers() bool {
	return m.timers.Tick()
}

// Waiting returns whether an FX0A instruction is waiting for a key press.
func (m *Machine) Waiting() bool {
	return m.waiting
}

// SoundActive returns whether the buzzer should currently sound.
func (m *Machine) SoundActive() bool {
	return m.timers.Sound > 0
}

// Registers returns a copy of the registers.
func (m *Machine) Registers() Registers {
	return m.registers
}

// Timers returns a copy of the timers.
func (m *Machine) Timers() Timers {
	return m.timers
}

// Memory returns the memory of the machine.
func (m *Machine) Memory() *Memory {
	return &m.memory
}

// Display returns the framebuffer of the machine.
func (m *Machine) Display() *Display {
	return &m.display
}

// Keypad returns the keypad of the machine.
func (m *Machine) Keypad() *Keypad {
	return &m.keypad
}

// Quirks returns the configured instruction quirks.
func (m *Machine) Quirks() Quirks {
	return m.options.Quirks
}

func (m *Machine) fault(err error, ins chip8.Instruction, opcode uint16) *Error {
	if ins.Op.Valid() {
		opcode = ins.Encode()
	}
	return &Error{
		Err:         err,
		Address:     m.registers.PC,
		Opcode:      opcode,
		Instruction: ins,
		Registers:   m.registers,
	}
}
