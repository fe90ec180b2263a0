// Package frontend drives the debugger from the host: a window that renders
// the display and reads the keypad, or a headless loop that is controlled by
// the console only.
package frontend

import (
	"errors"
	"time"

	"github.com/retroenv/retrochip8/internal/console"
	"github.com/retroenv/retrochip8/internal/debugger"
	"github.com/retroenv/retrogolib/log"
)

// Options configures a frontend.
type Options struct {
	Title    string
	Scale    int           // window pixels per display pixel
	Duration time.Duration // stop after this run time, 0 runs until quit
}

// driver advances the debugger with the elapsed wall clock time and
// executes console lines. Window and headless loops share it.
type driver struct {
	logger   *log.Logger
	debugger *debugger.Debugger
	console  *console.Console // nil if no console is attached

	last         time.Time
	haltReported bool
}

func newDriver(logger *log.Logger, d *debugger.Debugger, con *console.Console, now time.Time) driver {
	return driver{
		logger:   logger,
		debugger: d,
		console:  con,
		last:     now,
	}
}

// advance runs the machine for the time passed since the last call and
// reports execution stops to the console.
func (dr *driver) advance(now time.Time) debugger.Event {
	elapsed := now.Sub(dr.last)
	dr.last = now

	event, err := dr.debugger.Advance(elapsed)
	if err != nil {
		// a halted machine returns the same error on every advance
		if dr.haltReported {
			return event
		}
		dr.haltReported = true
		dr.logger.Error("Machine halted", log.Err(err))
		dr.report(event, err)
		return event
	}

	dr.haltReported = false
	if event.Reason != debugger.StopNone {
		dr.report(event, nil)
	}
	return event
}

// execute runs a console line. It returns true if the user requested to quit.
func (dr *driver) execute(line string) (bool, error) {
	if dr.console == nil {
		return false, nil
	}

	err := dr.console.Execute(line)
	switch {
	case errors.Is(err, console.ErrQuit):
		return true, nil
	case err != nil:
		return false, err
	}

	// a reset clears the halt, the next one has to be reported again
	if dr.debugger.Halted() == nil {
		dr.haltReported = false
	}
	return false, nil
}

func (dr *driver) report(event debugger.Event, err error) {
	if dr.console != nil {
		dr.console.Report(event, err)
	}
}
