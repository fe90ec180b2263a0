package frontend

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrochip8/internal/console"
	"github.com/retroenv/retrochip8/internal/debugger"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/image/font/basicfont"
)

const overlayLineHeight = 13

var (
	overlayBackground = color.RGBA{0, 0, 0, 170}
	overlayForeground = color.RGBA{0x40, 0xFF, 0x40, 0xFF}
)

// Window renders the machine display in a window and forwards the host
// keyboard to the keypad. It implements ebiten.Game.
type Window struct {
	driver
	ctx     context.Context
	options Options
	beeper  *Beeper
	lines   <-chan string

	started time.Time
	frame   *ebiten.Image
	pixels  []byte
	overlay bool
	err     error
}

// NewWindow returns a window frontend. The beeper and the console can be nil.
func NewWindow(ctx context.Context, logger *log.Logger, d *debugger.Debugger, con *console.Console,
	lines <-chan string, beeper *Beeper, options Options) *Window {

	now := time.Now()
	return &Window{
		driver:  newDriver(logger, d, con, now),
		ctx:     ctx,
		options: options,
		beeper:  beeper,
		lines:   lines,
		started: now,
		pixels:  make([]byte, machine.DisplayWidth*machine.DisplayHeight*4),
	}
}

// Run opens the window and blocks until it is closed.
func (w *Window) Run() error {
	ebiten.SetWindowSize(machine.DisplayWidth*w.options.Scale, machine.DisplayHeight*w.options.Scale)
	ebiten.SetWindowTitle(w.options.Title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetTPS(machine.TimerFrequency)

	if err := ebiten.RunGame(w); err != nil {
		return fmt.Errorf("running window: %w", err)
	}
	return w.err
}

// Update is called by ebiten at the timer frequency.
func (w *Window) Update() error {
	if ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(quitKey) {
		return ebiten.Termination
	}
	if err := w.ctx.Err(); err != nil {
		w.err = err
		return ebiten.Termination
	}

	now := time.Now()
	if w.options.Duration > 0 && now.Sub(w.started) >= w.options.Duration {
		w.logger.Info("Run time elapsed", log.Stringer("duration", w.options.Duration))
		return ebiten.Termination
	}

	if quit := w.executeLines(); quit {
		return ebiten.Termination
	}
	if w.err != nil {
		return ebiten.Termination
	}

	w.handleHotkeys()
	updateKeypad(w.debugger.Machine().Keypad(), ebiten.IsKeyPressed)

	w.advance(now)
	w.beeper.SetActive(w.debugger.Mode() != debugger.Paused && w.debugger.Machine().SoundActive())
	return nil
}

// executeLines runs all console lines that are pending without blocking.
func (w *Window) executeLines() bool {
	for {
		select {
		case line, ok := <-w.lines:
			if !ok {
				w.lines = nil
				return false
			}
			quit, err := w.execute(line)
			if err != nil {
				w.err = err
				return false
			}
			if quit {
				return true
			}
		default:
			return false
		}
	}
}

func (w *Window) handleHotkeys() {
	if inpututil.IsKeyJustPressed(pauseKey) {
		if err := w.debugger.TogglePause(); err != nil {
			w.logger.Error("Resuming failed", log.Err(err))
		}
	}
	if inpututil.IsKeyJustPressed(overlayKey) {
		w.overlay = !w.overlay
	}

	switch {
	case inpututil.IsKeyJustPressed(fasterKey):
		w.debugger.ScaleRate(rateUpScale)
	case inpututil.IsKeyJustPressed(slowerKey):
		w.debugger.ScaleRate(rateDownScale)
	default:
		return
	}
	w.logger.Info("Instruction rate changed", log.Int("rate", w.debugger.Rate()))
}

// Draw renders the display and the optional debug overlay.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.frame == nil {
		w.frame = ebiten.NewImage(machine.DisplayWidth, machine.DisplayHeight)
	}

	renderFrame(w.debugger.Machine().Display().Rows(), w.pixels)
	w.frame.WritePixels(w.pixels)

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(w.options.Scale), float64(w.options.Scale))
	screen.DrawImage(w.frame, opts)

	if w.overlay {
		w.drawOverlay(screen)
	}
}

func (w *Window) drawOverlay(screen *ebiten.Image) {
	snapshot, err := w.debugger.Inspect(0, chip8.MemorySize)
	if err != nil {
		return
	}

	lines := overlayText(snapshot)
	bounds := screen.Bounds()
	height := min(len(lines)*overlayLineHeight+4, bounds.Dy())
	ebitenutil.DrawRect(screen, 0, 0, float64(bounds.Dx()), float64(height), overlayBackground)

	for i, line := range lines {
		text.Draw(screen, line, basicfont.Face7x13, 4, (i+1)*overlayLineHeight, overlayForeground)
	}
}

// Layout returns the scaled display size.
func (w *Window) Layout(_, _ int) (int, int) {
	return machine.DisplayWidth * w.options.Scale, machine.DisplayHeight * w.options.Scale
}
