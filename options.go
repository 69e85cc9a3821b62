package scratchcard

import (
	"math/rand/v2"
)

// Option configures a Controller during creation.
// Use functional options to inject the host's collaborators.
//
// Example:
//
//	// Defaults: own FrameLoop, system clock, no events, blank cells
//	card, _ := scratchcard.New(cfg, palette)
//
//	// Host-driven loop and analytics sink (dependency injection)
//	card, _ := scratchcard.New(cfg, palette,
//	    scratchcard.WithScheduler(loop),
//	    scratchcard.WithEmitter(sink),
//	)
type Option func(*options)

// options holds the collaborators a Controller depends on.
type options struct {
	scheduler Scheduler
	emitter   Emitter
	clock     Clock
	rng       *rand.Rand
	assets    AssetLoader
	panel     *Panel
}

// defaultOptions returns the default collaborators.
func defaultOptions() options {
	return options{
		scheduler: nil, // Will be set to a new FrameLoop if nil
		emitter:   nopEmitter{},
		clock:     systemClock{},
		rng:       nil, // Will be seeded from the runtime source if nil
		assets:    missingAssets{},
	}
}

// WithScheduler sets the per-frame callback facility that drives the
// particle and fade animations.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithEmitter sets the analytics sink. The controller never reaches for a
// global collector; without this option events are discarded.
func WithEmitter(e Emitter) Option {
	return func(o *options) {
		if e != nil {
			o.emitter = e
		}
	}
}

// WithClock sets the time source for animations, cooldowns and timestamps.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithRand sets the random source for shuffles, noise and particles.
// Tests pass a seeded source to get reproducible cards:
//
//	scratchcard.WithRand(rand.New(rand.NewPCG(1, 2)))
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rng = r
		}
	}
}

// WithAssets sets the loader that resolves IconRef values to images.
func WithAssets(a AssetLoader) Option {
	return func(o *options) {
		if a != nil {
			o.assets = a
		}
	}
}

// WithPanel shows p over the card once it is revealed. Taps on its buttons
// trigger Contact and Reset; the reset button is drawn disabled while the
// cooldown runs.
func WithPanel(p Panel) Option {
	return func(o *options) {
		o.panel = &p
	}
}
