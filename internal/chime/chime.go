// Package chime plays a short tone when the shop restocks.
package chime

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/filipesarturi/summoner/internal/event"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	// RestockMessage is the success narration that triggers the chime.
	RestockMessage = "SHOP RESTOCKED!"
)

type Chime struct {
	freq     float64
	duration time.Duration

	once    sync.Once
	initErr error
	play    func(beep.Streamer)
}

func New(freqHz float64, duration time.Duration) *Chime {
	return &Chime{
		freq:     freqHz,
		duration: duration,
		play:     func(s beep.Streamer) { speaker.Play(s) },
	}
}

// Handle is an event.Handler. The speaker is opened on the first restock.
func (c *Chime) Handle(_ context.Context, e event.Event) error {
	if e.Category != event.Success || e.Message != RestockMessage {
		return nil
	}

	c.once.Do(func() {
		if c.initErr = speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); c.initErr != nil {
			c.initErr = fmt.Errorf("opening speaker: %w", c.initErr)
		}
	})
	if c.initErr != nil {
		return c.initErr
	}

	c.play(c.Tone())
	return nil
}

// Tone returns the chime as a finite stream.
func (c *Chime) Tone() beep.Streamer {
	return beep.Take(sampleRate.N(c.duration), &tone{sr: sampleRate, freq: c.freq, length: sampleRate.N(c.duration)})
}

// tone is a sine with a linear fade out.
type tone struct {
	sr     beep.SampleRate
	freq   float64
	length int
	pos    int
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		at := float64(t.pos) / float64(t.sr)
		envelope := 1.0
		if t.length > 0 {
			envelope = math.Max(0, 1-float64(t.pos)/float64(t.length))
		}

		v := 0.4 * envelope * math.Sin(2*math.Pi*t.freq*at)
		samples[i][0] = v
		samples[i][1] = v
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error {
	return nil
}
