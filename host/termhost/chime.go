package termhost

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/gogpu/scratchcard"
)

const sampleRate = beep.SampleRate(44100)

// Chime notes, in Hz.
var (
	revealNotes = []float64{660, 880, 1320}
	resetNotes  = []float64{440}
)

const noteLength = 90 * time.Millisecond

// Chime is an Emitter that plays a short arpeggio when the card is revealed
// and a single blip on reset. It never blocks: notes are queued on the
// speaker's own goroutine.
type Chime struct {
	play func(beep.Streamer)
}

// NewChime initializes the speaker. Terminals without audio get an error;
// callers run silent in that case.
func NewChime() (*Chime, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("termhost: init speaker: %w", err)
	}
	return &Chime{play: func(s beep.Streamer) { speaker.Play(s) }}, nil
}

// Emit implements scratchcard.Emitter.
func (c *Chime) Emit(e scratchcard.Event) {
	switch e.Kind {
	case scratchcard.EventScratchComplete:
		c.notes(revealNotes)
	case scratchcard.EventScratchReset:
		c.notes(resetNotes)
	}
}

func (c *Chime) notes(freqs []float64) {
	seq, err := tune(freqs)
	if err != nil {
		scratchcard.Logger().Debug("termhost: chime unavailable", "err", err)
		return
	}
	c.play(seq)
}

// tune builds a sequence of sine notes, noteLength each.
func tune(freqs []float64) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(freqs))
	for _, f := range freqs {
		tone, err := generators.SineTone(sampleRate, f)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(sampleRate.N(noteLength), tone))
	}
	return beep.Seq(parts...), nil
}
