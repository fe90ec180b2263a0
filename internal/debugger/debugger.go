// Package debugger drives a CHIP-8 machine and allows pausing, stepping and
// inspecting it.
package debugger

import (
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/log"
)

// ErrNotPaused is returned for step requests while the machine is not paused.
var ErrNotPaused = errors.New("machine is not paused")

// Options configures a debugger.
type Options struct {
	Rate        int  // instructions per second
	StartPaused bool // start in Paused mode instead of Running
}

// NewOptions returns the default debugger options.
func NewOptions() Options {
	return Options{
		Rate: DefaultRate,
	}
}

// Debugger controls when and how the machine executes instructions. All
// methods have to be called from the same goroutine that drives Advance.
type Debugger struct {
	logger  *log.Logger
	options Options
	machine *machine.Machine
	clock   *Clock

	mode        Mode
	breakpoints map[uint16]bool
	stepDepth   uint8 // stack depth at the start of a step over
	halted      error // fatal machine error, execution can not continue

	// the first fetch after resuming ignores a breakpoint at resumeAddress
	resuming      bool
	resumeAddress uint16

	cycles        uint64
	fastForwarded uint64
}

// New returns a debugger controlling the given machine.
func New(logger *log.Logger, m *machine.Machine, options Options) *Debugger {
	d := &Debugger{
		logger:      logger,
		options:     options,
		machine:     m,
		clock:       NewClock(options.Rate),
		breakpoints: map[uint16]bool{},
	}
	d.mode = d.initialMode()
	return d
}

// Machine returns the controlled machine.
func (d *Debugger) Machine() *machine.Machine {
	return d.machine
}

// Mode returns the current execution mode.
func (d *Debugger) Mode() Mode {
	return d.mode
}

// Halted returns the fatal error that stopped the machine, or nil.
func (d *Debugger) Halted() error {
	return d.halted
}

// Pause stops execution before the next instruction.
func (d *Debugger) Pause() {
	d.setMode(Paused)
}

// Resume continues execution. A breakpoint at the current PC does not
// trigger again so that execution can leave it. Breakpoints at any other
// address still trigger, also when a pending key wait moves PC.
func (d *Debugger) Resume() error {
	if d.halted != nil {
		return d.halted
	}
	if d.mode == Running {
		return nil
	}
	d.skipBreakpointOnce()
	d.setMode(Running)
	return nil
}

// TogglePause pauses a running machine or resumes a paused one.
func (d *Debugger) TogglePause() error {
	if d.mode == Paused {
		return d.Resume()
	}
	d.Pause()
	return nil
}

// StepOne executes exactly one instruction while paused.
func (d *Debugger) StepOne() (Event, error) {
	if d.halted != nil {
		return d.haltEvent(), d.halted
	}
	if d.mode != Paused {
		return Event{}, ErrNotPaused
	}

	d.setMode(SteppingOne)
	defer d.setMode(Paused)

	event := Event{Reason: StopStep}
	d.machine.PollKey()
	if !d.machine.Waiting() {
		if err := d.execute(&event); err != nil {
			return event, err
		}
	}
	event.Address = d.machine.Registers().PC
	return event, nil
}

// StepOver executes the next instruction while paused. If it is a call,
// execution continues until the subroutine returned. A key wait keeps the
// step active until a key completes it. Advance performs the execution.
func (d *Debugger) StepOver() error {
	if d.halted != nil {
		return d.halted
	}
	if d.mode != Paused {
		return ErrNotPaused
	}

	d.stepDepth = d.machine.Registers().SP
	d.skipBreakpointOnce()
	d.setMode(SteppingOver)
	return nil
}

// Advance runs the machine for the elapsed wall clock time. It executes the
// instructions owed at the configured rate and ticks the timers for every
// 60 Hz boundary crossed. While paused nothing happens, including the timers.
func (d *Debugger) Advance(elapsed time.Duration) (Event, error) {
	if d.halted != nil {
		return d.haltEvent(), d.halted
	}
	if d.mode != Running && d.mode != SteppingOver {
		return Event{}, nil
	}

	cycles, ticks := d.clock.Advance(elapsed)

	var (
		event Event
		err   error
	)
	if d.machine.PollKey() {
		// a pending FX0A completed and PC moved on
		d.resuming = false
		d.finishStepOver(&event)
	}
	if d.mode != Paused {
		err = d.run(&event, cycles)
	}

	for range ticks {
		if d.machine.TickTimers() {
			event.SoundStopped = true
		}
	}
	event.Ticks = ticks

	if event.Cycles > 1 {
		d.fastForwarded += uint64(event.Cycles - 1)
	}
	return event, err
}

// run executes up to the given number of cycles, stopping early at
// breakpoints, the end of a step over or a fatal error.
func (d *Debugger) run(event *Event, cycles int) error {
	for range cycles {
		if d.machine.Waiting() {
			return nil
		}

		pc := d.machine.Registers().PC
		skip := d.resuming && pc == d.resumeAddress
		d.resuming = false
		if !skip && d.breakpointHit(pc) {
			d.setMode(Paused)
			event.Reason = StopBreakpoint
			event.Address = pc
			d.logger.Info("Breakpoint hit", log.Hex("address", pc))
			return nil
		}

		if err := d.execute(event); err != nil {
			return err
		}
		if d.finishStepOver(event) {
			return nil
		}
	}
	return nil
}

// finishStepOver pauses a step over once the stepped instruction completed
// and the stack is back at the starting depth.
func (d *Debugger) finishStepOver(event *Event) bool {
	if d.mode != SteppingOver || d.machine.Waiting() {
		return false
	}
	regs := d.machine.Registers()
	if regs.SP > d.stepDepth {
		return false
	}

	d.setMode(Paused)
	event.Reason = StopStep
	event.Address = regs.PC
	return true
}

func (d *Debugger) skipBreakpointOnce() {
	d.resuming = true
	d.resumeAddress = d.machine.Registers().PC
}

// execute runs a single instruction and halts the debugger on errors.
func (d *Debugger) execute(event *Event) error {
	if err := d.machine.Step(); err != nil {
		d.halted = fmt.Errorf("machine halted: %w", err)
		d.setMode(Paused)
		*event = d.haltEvent()
		d.logger.Error("Execution halted", log.Err(err))
		return d.halted
	}
	event.Cycles++
	d.cycles++
	return nil
}

// Reset restarts the loaded program. Breakpoints are kept.
func (d *Debugger) Reset() {
	d.machine.Reset()
	d.clock.Reset()
	d.halted = nil
	d.resuming = false
	d.cycles = 0
	d.fastForwarded = 0
	d.setMode(d.initialMode())
}

// Rate returns the instruction rate in instructions per second.
func (d *Debugger) Rate() int {
	return d.clock.Rate()
}

// SetRate sets the instruction rate in instructions per second.
func (d *Debugger) SetRate(rate int) {
	d.clock.SetRate(rate)
	d.logger.Debug("Instruction rate changed", log.Int("rate", d.clock.Rate()))
}

// ScaleRate multiplies the instruction rate by the given factor.
func (d *Debugger) ScaleRate(factor float64) {
	d.SetRate(int(float64(d.clock.Rate()) * factor))
}

// Cycles returns the number of executed instructions since the last reset.
func (d *Debugger) Cycles() uint64 {
	return d.cycles
}

// FastForwarded returns the number of instructions that were executed in
// addition to the first one of every advance.
func (d *Debugger) FastForwarded() uint64 {
	return d.fastForwarded
}

func (d *Debugger) initialMode() Mode {
	if d.options.StartPaused {
		return Paused
	}
	return Running
}

func (d *Debugger) setMode(mode Mode) {
	if d.mode == mode {
		return
	}
	d.logger.Debug("Mode changed",
		log.Stringer("from", d.mode),
		log.Stringer("to", mode))
	d.mode = mode
}

func (d *Debugger) haltEvent() Event {
	return Event{
		Reason:  StopHalted,
		Address: d.machine.Registers().PC,
	}
}
