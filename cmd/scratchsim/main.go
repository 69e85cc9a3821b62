// Command scratchsim scratches a card headlessly and saves the result.
//
// It drags a zigzag across the card, steps the frame loop on a simulated
// clock and writes the composited frame to a PNG. Use -strokes to stop before
// the reveal threshold and inspect a partially scratched card.
package main

import (
	"flag"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/scratchcard"
	"github.com/gogpu/scratchcard/assets"
	"github.com/gogpu/scratchcard/telemetry"
)

const frameInterval = 16 * time.Millisecond

type simClock struct{ now time.Time }

func (c *simClock) Now() time.Time { return c.now }

func main() {
	var (
		width   = flag.Float64("width", 360, "card width in logical pixels")
		height  = flag.Float64("height", 220, "card height in logical pixels")
		scale   = flag.Float64("scale", 2, "device pixel ratio")
		strokes = flag.Int("strokes", 0, "zigzag passes to drag, 0 scratches until revealed")
		seed    = flag.Uint64("seed", 1, "shuffle seed")
		config  = flag.String("config", "", "YAML config file")
		output  = flag.String("output", "scratch.png", "output file")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	scratchcard.SetLogger(logger)

	cfg, err := scratchcard.LoadConfig(*config)
	if err != nil {
		log.Fatal(err)
	}

	clock := &simClock{now: time.Unix(0, 0)}
	loop := scratchcard.NewFrameLoop()
	card, err := scratchcard.New(cfg, assets.DemoPalette,
		scratchcard.WithScheduler(loop),
		scratchcard.WithClock(clock),
		scratchcard.WithRand(rand.New(rand.NewPCG(*seed, *seed))),
		scratchcard.WithEmitter(telemetry.LogEmitter{Logger: logger}),
		scratchcard.WithAssets(assets.Demo(128)),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer card.Unmount()

	card.SetViewport(*width)
	card.Mount(scratchcard.NewSurface(*width, *height, *scale))

	step := func() {
		clock.now = clock.now.Add(frameInterval)
		loop.Step(clock.now)
	}

	passes := *strokes
	if passes <= 0 {
		passes = 64
	}
	radius := card.BrushRadius()
	y := radius / 2
	for i := 0; i < passes && card.State() == scratchcard.Covered; i++ {
		x0, x1 := 0.0, *width
		if i%2 == 1 {
			x0, x1 = x1, x0
		}
		card.PointerDown(gg.Pt(x0, y))
		for t := 0.0; t <= 1; t += 0.1 {
			card.PointerMove(gg.Pt(x0+(x1-x0)*t, y))
			step()
		}
		card.PointerUp()
		y += radius
		if y > *height {
			y = radius / 2
		}
	}
	for card.Animating() {
		step()
	}

	w, h := card.Surface().PixelSize()
	dst := gg.NewPixmap(w, h)
	dst.Clear(gg.Hex("#FFF3EC"))
	card.Render(dst)
	if err := dst.SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	logger.Info("saved", "output", *output, "width", w, "height", h,
		"state", card.State(), "coverage", card.Coverage())
}
