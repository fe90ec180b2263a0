package debugger

import (
	"time"

	"github.com/retroenv/retrochip8/internal/machine"
)

// DefaultRate is the default instruction rate in instructions per second.
const DefaultRate = 500

// MaxRate is the highest supported instruction rate.
const MaxRate = 1_000_000

// maxElapsed limits the time that is caught up in a single advance, a host
// that was suspended would otherwise execute a burst of instructions.
const maxElapsed = time.Second

// Clock converts elapsed wall clock time into owed instruction cycles and
// 60 Hz timer ticks. Remainders carry over between calls.
type Clock struct {
	rate          int
	cycleInterval time.Duration
	cycleCarry    time.Duration
	timerCarry    time.Duration
}

// NewClock returns a clock running at the given instruction rate.
func NewClock(rate int) *Clock {
	c := &Clock{}
	c.SetRate(rate)
	return c
}

// Rate returns the instruction rate in instructions per second.
func (c *Clock) Rate() int {
	return c.rate
}

// SetRate sets the instruction rate, it is limited to the range 1 to MaxRate.
func (c *Clock) SetRate(rate int) {
	c.rate = min(max(rate, 1), MaxRate)
	c.cycleInterval = time.Second / time.Duration(c.rate)
}

// ScaleRate multiplies the instruction rate by the given factor.
func (c *Clock) ScaleRate(factor float64) {
	c.SetRate(int(float64(c.rate) * factor))
}

// Advance returns the number of instructions owed and timer ticks crossed
// for the elapsed time.
func (c *Clock) Advance(elapsed time.Duration) (cycles, ticks int) {
	elapsed = min(max(elapsed, 0), maxElapsed)

	c.cycleCarry += elapsed
	cycles = int(c.cycleCarry / c.cycleInterval)
	c.cycleCarry %= c.cycleInterval

	c.timerCarry += elapsed
	ticks = int(c.timerCarry / machine.TimerInterval)
	c.timerCarry %= machine.TimerInterval
	return cycles, ticks
}

// Reset drops the carried over remainders.
func (c *Clock) Reset() {
	c.cycleCarry = 0
	c.timerCarry = 0
}
