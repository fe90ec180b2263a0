package frontend

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate     = 44100
	beepFrequency  = 440
	beepAmplitude  = 0.2
	bytesPerSample = 4 // mono float32
)

// squareWave generates float32 little endian samples of a square wave while
// it is active and silence otherwise.
type squareWave struct {
	active atomic.Bool
	phase  int // position within the current period in samples
}

// Read implements io.Reader for the audio player.
func (w *squareWave) Read(p []byte) (int, error) {
	period := sampleRate / beepFrequency
	active := w.active.Load()

	n := len(p) / bytesPerSample
	for i := range n {
		var sample float32
		if active {
			sample = beepAmplitude
			if w.phase >= period/2 {
				sample = -beepAmplitude
			}
			w.phase = (w.phase + 1) % period
		}
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(sample))
	}
	return n * bytesPerSample, nil
}

// Beeper plays a tone while the sound timer of the machine is active.
type Beeper struct {
	wave   *squareWave
	player *oto.Player
}

// NewBeeper opens the audio device and starts a silent player.
func NewBeeper() (*Beeper, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("creating audio context: %w", err)
	}
	<-ready

	b := &Beeper{
		wave: &squareWave{},
	}
	b.player = ctx.NewPlayer(b.wave)
	b.player.Play()
	return b, nil
}

// SetActive turns the tone on or off. A nil beeper is silent.
func (b *Beeper) SetActive(active bool) {
	if b == nil {
		return
	}
	b.wave.active.Store(active)
}

// Close stops the player.
func (b *Beeper) Close() error {
	if b == nil {
		return nil
	}
	if err := b.player.Close(); err != nil {
		return fmt.Errorf("closing audio player: %w", err)
	}
	return nil
}
