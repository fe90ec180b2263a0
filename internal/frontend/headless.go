package frontend

import (
	"context"
	"time"

	"github.com/retroenv/retrochip8/internal/console"
	"github.com/retroenv/retrochip8/internal/debugger"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/log"
)

// RunHeadless advances the machine at the timer frequency without a window.
// Console lines are executed between advances. It returns when the context
// is cancelled, the console requested to quit or the configured duration
// passed.
func RunHeadless(ctx context.Context, logger *log.Logger, d *debugger.Debugger,
	con *console.Console, lines <-chan string, options Options) error {

	ticker := time.NewTicker(machine.TimerInterval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if options.Duration > 0 {
		timer := time.NewTimer(options.Duration)
		defer timer.Stop()
		deadline = timer.C
	}

	dr := newDriver(logger, d, con, time.Now())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-deadline:
			logger.Info("Run time elapsed",
				log.Stringer("duration", options.Duration),
				log.Int("cycles", int(d.Cycles())))
			return nil

		case line, ok := <-lines:
			if !ok {
				// end of input, keep running until cancelled
				lines = nil
				continue
			}
			quit, err := dr.execute(line)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}

		case now := <-ticker.C:
			dr.advance(now)
		}
	}
}
