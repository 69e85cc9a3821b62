// Command scratchdemo opens a window with a scratch card.
//
// Drag with the mouse or a finger to scratch. Once the card is revealed a
// panel offers the contact action and a reset button. R deals a new card once
// the cooldown has passed, Enter fires the contact action, Escape quits.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/scratchcard"
	"github.com/gogpu/scratchcard/assets"
	"github.com/gogpu/scratchcard/host/ebitenhost"
	"github.com/gogpu/scratchcard/telemetry"
)

const appName = "scratchcard"

func main() {
	var (
		width   = flag.Int("width", 480, "window width")
		height  = flag.Int("height", 300, "window height")
		config  = flag.String("config", "", "YAML config file")
		icons   = flag.String("icons", "", "directory of PNG or JPEG icons")
		palette = flag.String("palette", "", "comma-separated icon file names inside -icons")
		verbose = flag.Bool("v", false, "log debug output")
		journal = flag.Bool("journal", true, "keep an event tally in the user data directory")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	scratchcard.SetLogger(logger)

	cfg, err := scratchcard.LoadConfig(*config)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	shutdown, err := telemetry.Setup(ctx, appName)
	if err != nil {
		logger.Warn("tracing disabled", "err", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		_ = shutdown(sctx)
	}()

	emitter := scratchcard.MultiEmitter{telemetry.LogEmitter{Logger: logger}, telemetry.NewSpanEmitter(nil)}
	var tally *telemetry.Journal
	if *journal {
		if tally, err = telemetry.OpenJournal(appName); err != nil {
			logger.Warn("journal unavailable", "err", err)
			tally = nil
		} else {
			emitter = append(emitter, tally)
		}
	}

	loop := scratchcard.NewFrameLoop()
	refs := assets.DemoPalette
	var loader scratchcard.AssetLoader = assets.Demo(128)
	if *icons != "" {
		refs = parsePalette(*palette)
		loader = assets.NewFiles(os.DirFS(*icons), loop)
	}

	card, err := scratchcard.New(cfg, refs,
		scratchcard.WithScheduler(loop),
		scratchcard.WithEmitter(emitter),
		scratchcard.WithAssets(loader),
		scratchcard.WithPanel(scratchcard.DefaultPanel()),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer card.Unmount()

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("Scratch card")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(ebitenhost.New(card, loop, nil)); err != nil {
		logger.Error("run", "err", err)
	}

	if tally != nil {
		if err := tally.Save(); err != nil {
			logger.Warn("journal not saved", "err", err)
		}
		logger.Info("session tally", "tally", tally.Tally())
	}
}

func parsePalette(s string) []scratchcard.IconRef {
	var refs []scratchcard.IconRef
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			refs = append(refs, scratchcard.IconRef(f))
		}
	}
	return refs
}
