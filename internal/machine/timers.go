package machine

import "time"

// TimerFrequency is the rate at which the delay and sound timers count down.
const TimerFrequency = 60

// TimerInterval is the duration of a single timer tick.
const TimerInterval = time.Second / TimerFrequency

// Timers contains the delay and sound timers.
type Timers struct {
	Delay uint8
	Sound uint8
}

// Tick decrements both timers without going below zero. It returns true if the
// sound timer reached zero with this tick.
func (t *Timers) Tick() (soundStopped bool) {
	if t.Delay > 0 {
		t.Delay--
	}
	if t.Sound > 0 {
		t.Sound--
		return t.Sound == 0
	}
	return false
}
