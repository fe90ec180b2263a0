package debugger

// Mode is the execution mode of the debugger.
type Mode uint8

// Execution modes.
const (
	Running Mode = iota
	Paused
	SteppingOne
	SteppingOver
)

func (m Mode) String() string {
	switch m {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case SteppingOne:
		return "stepping"
	case SteppingOver:
		return "stepping over"
	default:
		return "unknown"
	}
}

// StopReason describes why execution stopped.
type StopReason uint8

// Stop reasons.
const (
	StopNone StopReason = iota
	StopBreakpoint
	StopStep
	StopHalted
)

func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "none"
	case StopBreakpoint:
		return "breakpoint hit"
	case StopStep:
		return "step done"
	case StopHalted:
		return "halted"
	default:
		return "unknown"
	}
}

// Event reports the outcome of advancing the machine.
type Event struct {
	Reason       StopReason
	Address      uint16 // PC at the time execution stopped
	Cycles       int    // instructions executed
	Ticks        int    // timer ticks applied
	SoundStopped bool   // the sound timer reached zero
}
