// Package scratchcard implements a scratch-to-reveal widget engine.
//
// # Overview
//
// A scratch card is three pixel buffers composited in a fixed stack:
//
//   - Content: a 3×3 grid of icons, shuffled on mount and on every reset
//   - Mask: an opaque procedural overlay the user erodes with a pointer
//   - Effects: short-lived glowing particles spawned along the stroke
//
// A Controller owns the buffers, routes pointer input, samples how much of the
// mask has been removed and, once the reveal threshold is crossed, fades the
// mask out and emits a completion event.
//
// # Quick Start
//
//	loop := scratchcard.NewFrameLoop()
//	card, err := scratchcard.New(scratchcard.DefaultConfig(), palette,
//	    scratchcard.WithScheduler(loop),
//	    scratchcard.WithAssets(loader),
//	    scratchcard.WithEmitter(emitter),
//	)
//	if err != nil {
//	    return err
//	}
//	card.Mount(scratchcard.NewSurface(512, 512, 2))
//
//	// Per host frame:
//	card.PointerDown(gg.Pt(x, y))
//	loop.Step(time.Now())
//	card.Render(frame)
//
// # Rendering
//
// All buffers are gg pixmaps rasterized on the CPU. Layer operations receive
// the owning RenderContext explicitly; layers never reference each other.
//
// # Threading
//
// A Controller is NOT safe for concurrent use. Every method, and every frame
// callback run by FrameLoop.Step, must be called from the host's UI goroutine.
// Work finished on other goroutines is handed back with FrameLoop.Post.
package scratchcard
