package scratchcard

import (
	"image"
	"image/color"
	"math/rand/v2"
	"testing"
	"time"
)

// manualClock is a Clock that only moves when told to.
type manualClock struct {
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// recorder collects emitted events.
type recorder struct {
	events []Event
}

func (r *recorder) Emit(e Event) { r.events = append(r.events, e) }

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) last(kind EventKind) (Event, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == kind {
			return r.events[i], true
		}
	}
	return Event{}, false
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func solidIcon(c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// solidAssets resolves every IconRef synchronously to an opaque square.
var solidAssets = AssetLoaderFunc(func(_ IconRef, done func(image.Image, error)) {
	done(solidIcon(color.NRGBA{R: 200, G: 40, B: 10, A: 255}), nil)
})

var testPalette = []IconRef{"star", "coin", "gem"}

type harness struct {
	card  *Controller
	loop  *FrameLoop
	clock *manualClock
	rec   *recorder
}

// newHarness mounts a controller on a 160×100 surface at scale 1: 16000
// pixels, 1000 coverage samples at the default stride.
func newHarness(t *testing.T, cfg Config, extra ...Option) *harness {
	t.Helper()
	h := &harness{loop: NewFrameLoop(), clock: newManualClock(), rec: &recorder{}}
	opts := []Option{
		WithScheduler(h.loop),
		WithEmitter(h.rec),
		WithClock(h.clock),
		WithRand(seeded(7)),
		WithAssets(solidAssets),
	}
	card, err := New(cfg, testPalette, append(opts, extra...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	card.SetViewport(1024)
	card.Mount(NewSurface(160, 100, 1))
	t.Cleanup(card.Unmount)
	h.card = card
	return h
}

// frames advances the clock by one 60 Hz frame and steps the loop, n times.
func (h *harness) frames(n int) {
	for range n {
		h.clock.Advance(16 * time.Millisecond)
		h.loop.Step(h.clock.Now())
	}
}

func iconCounts(cells []Cell) map[IconRef]int {
	m := make(map[IconRef]int)
	for _, c := range cells {
		m[c.Icon]++
	}
	return m
}
