// Command scratchterm plays a scratch card in the terminal.
//
// Drag with the mouse to scratch. r deals a new card once the cooldown has
// passed, Enter fires the contact action, q quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/scratchcard"
	"github.com/gogpu/scratchcard/assets"
	"github.com/gogpu/scratchcard/host/termhost"
	"github.com/gogpu/scratchcard/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "scratchterm:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		config  = flag.String("config", "", "YAML config file, applied over the terminal defaults")
		logFile = flag.String("log", "", "write debug logs to this file")
		sound   = flag.Bool("sound", true, "chime on reveal and reset")
	)
	flag.Parse()

	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		scratchcard.SetLogger(slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := scratchcard.LoadConfigOver(termhost.Defaults(), *config)
	if err != nil {
		return err
	}

	emitter := scratchcard.MultiEmitter{telemetry.LogEmitter{}}
	if *sound {
		chime, err := termhost.NewChime()
		if err != nil {
			scratchcard.Logger().Warn("sound disabled", "err", err)
		} else {
			emitter = append(emitter, chime)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	loop := scratchcard.NewFrameLoop()
	card, err := scratchcard.New(cfg, assets.DemoPalette,
		scratchcard.WithScheduler(loop),
		scratchcard.WithEmitter(emitter),
		scratchcard.WithAssets(assets.Demo(16)),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := termhost.New(screen, card, loop, nil).Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
