package scratchcard

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/gogpu/gg"
)

// Controller is the reveal state machine. It owns the RenderContext and the
// three layers, routes pointer input to the mask, samples coverage after each
// erosion and drives the fade and particle animations through the Scheduler.
//
// A Controller is not safe for concurrent use; every method belongs to the
// host's UI goroutine.
type Controller struct {
	cfg     Config
	palette []IconRef

	sched   Scheduler
	emitter Emitter
	clock   Clock
	rng     *rand.Rand

	rc      *RenderContext
	content *ContentLayer
	mask    *MaskLayer
	effects *EffectsLayer
	panel   *panelLayer

	// particles drives EffectsLayer.Tick until the live set empties.
	particles task

	state      RevealState
	coverage   float64
	scratching bool
	viewport   float64

	resetAt  time.Time
	hasReset bool
}

// New creates an unmounted controller for cfg and the icon palette, and deals
// the first shuffle. It fails if cfg is invalid or the palette is empty.
func New(cfg Config, palette []IconRef, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scratchcard: new controller: %w", err)
	}
	if len(palette) == 0 {
		return nil, ErrEmptyPalette
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.scheduler == nil {
		o.scheduler = NewFrameLoop()
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // visual randomness
	}

	c := &Controller{
		cfg:     cfg,
		palette: append([]IconRef(nil), palette...),
		sched:   o.scheduler,
		emitter: o.emitter,
		clock:   o.clock,
		rng:     o.rng,
		content: NewContentLayer(o.assets),
		effects: NewEffectsLayer(cfg.ParticleCap, cfg.ParticleGravity),
	}
	c.mask = NewMaskLayer(&c.cfg)
	if o.panel != nil {
		c.panel = &panelLayer{panel: *o.panel}
	}
	c.particles = task{sched: c.sched, step: func(time.Time) bool {
		return c.effects.Tick(c.rc)
	}}
	c.content.cells = Shuffle(c.palette, c.rng)
	return c, nil
}

// Mount allocates the layer buffers for s and draws the card. Mounting an
// already mounted controller behaves like Resize.
func (c *Controller) Mount(s Surface) {
	c.install(s)
	Logger().Info("scratchcard: mounted", "width", s.Width, "height", s.Height, "scale", s.Scale, "state", c.state)
}

// Resize replaces the RenderContext with one sized for s. The grid is laid out
// again; a covered card gets a freshly painted mask, so erosion made at the
// old size is discarded, while a revealed card stays clear.
func (c *Controller) Resize(s Surface) {
	c.install(s)
	Logger().Debug("scratchcard: resized", "width", s.Width, "height", s.Height, "scale", s.Scale)
}

func (c *Controller) install(s Surface) {
	if c.rc != nil {
		c.content.Invalidate()
		_ = c.rc.Close()
	}
	c.panel.release()
	c.rc = NewRenderContext(s)
	c.scratching = false
	c.content.Layout(c.rc, c.content.cells)
	if c.state == Covered {
		c.mask.Paint(c.rc, c.clock.Now(), c.rng)
		c.coverage = 0
		return
	}
	c.mask.Clear(c.rc)
}

// Unmount cancels both animations, drops pending icon loads and releases the
// buffers. A fade cut short by Unmount counts as finished.
func (c *Controller) Unmount() {
	c.particles.cancel()
	if c.mask.Fading() {
		c.mask.CancelFade()
	}
	if c.state == Revealing {
		c.state = Revealed
	}
	c.content.Invalidate()
	c.scratching = false
	if c.rc != nil {
		_ = c.rc.Close()
		c.rc = nil
	}
	c.panel.release()
	Logger().Info("scratchcard: unmounted", "state", c.state)
}

// SetViewport records the host viewport width used for brush sizing and the
// device class. Zero falls back to the surface width.
func (c *Controller) SetViewport(width float64) {
	c.viewport = max(width, 0)
}

func (c *Controller) viewportWidth() float64 {
	if c.viewport > 0 {
		return c.viewport
	}
	return c.rc.Surface().Width
}

// Device returns the device class for the current viewport.
func (c *Controller) Device() DeviceClass {
	if c.viewportWidth() < c.cfg.MobileBreakpoint {
		return DeviceMobile
	}
	return DeviceDesktop
}

// BrushRadius returns the erosion radius for the current viewport.
func (c *Controller) BrushRadius() float64 {
	if c.Device() == DeviceMobile {
		return c.cfg.MobileBrushRadius
	}
	return c.cfg.BrushRadius
}

// PointerDown starts a gesture at p, in widget-local logical coordinates.
// It is ignored unless the card is mounted, covered and interactive. With a
// panel enabled, a press on an uncovered card goes to the panel's buttons.
func (c *Controller) PointerDown(p gg.Point) {
	if c.panel != nil && c.state != Covered && c.rc.Ready() {
		c.tapPanel(p)
		return
	}
	if !c.rc.Ready() || c.state != Covered || !c.mask.Interactive() {
		Logger().Debug("scratchcard: pointer down ignored", "state", c.state, "mounted", c.rc.Ready())
		return
	}
	c.scratching = true
	c.mask.BeginGesture()
	c.emit(EventScratchStart)
	c.scratch(p)
}

func (c *Controller) tapPanel(p gg.Point) {
	switch c.panel.panel.Hit(c.rc.Surface(), p) {
	case PanelContact:
		c.Contact()
	case PanelReset:
		c.Reset()
	}
}

// PointerMove continues the current gesture.
func (c *Controller) PointerMove(p gg.Point) {
	if !c.scratching || c.state != Covered {
		return
	}
	c.scratch(p)
}

// PointerUp ends the current gesture. Hosts call it for pointer leave too.
func (c *Controller) PointerUp() {
	if !c.scratching {
		return
	}
	c.scratching = false
	c.mask.EndGesture()
}

func (c *Controller) scratch(p gg.Point) {
	c.mask.Erode(c.rc, p, c.BrushRadius())
	if n := c.cfg.ParticlesPerStroke; n > 0 && c.cfg.ParticleCap > 0 {
		c.effects.Spawn(p, n, c.rng)
		c.particles.start()
	}
	c.evaluate()
}

// evaluate samples coverage and starts the reveal once the threshold is met.
func (c *Controller) evaluate() {
	if c.state != Covered {
		return
	}
	c.coverage = c.mask.Coverage(c.rc)
	if c.coverage < c.cfg.RevealThreshold {
		return
	}

	c.state = Revealing
	c.scratching = false
	c.mask.EndGesture()
	percent := int(math.Round(c.coverage))
	Logger().Info("scratchcard: reveal", "percent", percent, "device", c.Device())
	c.emitter.Emit(Event{
		Kind:      EventScratchComplete,
		Timestamp: c.clock.Now(),
		Percent:   percent,
		Device:    c.Device(),
	})
	c.mask.FadeOut(c.sched, c.clock, c.cfg.FadeDuration, func() {
		c.state = Revealed
		Logger().Debug("scratchcard: fade finished")
	})
}

// CanReset reports whether the reset cooldown has elapsed.
func (c *Controller) CanReset() bool {
	return !c.hasReset || c.clock.Now().Sub(c.resetAt) >= c.cfg.ResetCooldown
}

// Reset returns the card to Covered with a fresh shuffle and a repainted mask,
// and starts the cooldown. During the cooldown it does nothing and returns
// false.
func (c *Controller) Reset() bool {
	if !c.CanReset() {
		Logger().Debug("scratchcard: reset ignored during cooldown")
		return false
	}
	now := c.clock.Now()

	c.particles.cancel()
	c.mask.CancelFade()
	c.effects.Clear(c.rc)
	c.state = Covered
	c.coverage = 0
	c.scratching = false

	c.content.Layout(c.rc, Shuffle(c.palette, c.rng))
	c.mask.Paint(c.rc, now, c.rng)

	c.resetAt, c.hasReset = now, true
	Logger().Info("scratchcard: reset")
	c.emitter.Emit(Event{Kind: EventScratchReset, Timestamp: now})
	return true
}

// Contact reports the call-to-action on the revealed panel. It is ignored
// while the card is still covered.
func (c *Controller) Contact() {
	if c.state == Covered {
		return
	}
	c.emit(EventContact)
}

func (c *Controller) emit(kind EventKind) {
	c.emitter.Emit(Event{Kind: kind, Timestamp: c.clock.Now()})
}

// Render composites the card over dst: content, then the mask at its current
// opacity, then the effects, then the panel if one is enabled. dst must
// match the surface's physical size; hosts that want a backdrop fill dst
// before calling Render.
func (c *Controller) Render(dst *gg.Pixmap) {
	if !c.rc.Ready() || dst == nil {
		return
	}
	out := buffer(dst)
	if w, h := c.rc.Surface().PixelSize(); out.Width != w || out.Height != h {
		Logger().Debug("scratchcard: render target size mismatch", "want_w", w, "want_h", h, "got_w", out.Width, "got_h", out.Height)
		return
	}
	out.Over(buffer(c.rc.Content()), 1)
	if op := c.mask.Opacity(); op > 0 {
		out.Over(buffer(c.rc.Mask()), op)
	}
	out.Over(buffer(c.rc.Effects()), 1)
	if op := c.PanelOpacity(); op > 0 {
		out.Over(buffer(c.panel.pixmap(c.rc.Surface(), c.CanReset())), op)
	}
}

// PanelOpacity returns the opacity of the revealed panel: zero without a
// panel or while covered, rising to one as the mask fades.
func (c *Controller) PanelOpacity() float64 {
	if c.panel == nil || c.state == Covered {
		return 0
	}
	return clamp01(1 - c.mask.Opacity()/c.cfg.BaseOpacity)
}

// State returns the current reveal state.
func (c *Controller) State() RevealState { return c.state }

// Coverage returns the percentage measured by the most recent sample.
func (c *Controller) Coverage() float64 { return c.coverage }

// Cells returns the current icon assignment.
func (c *Controller) Cells() []Cell { return c.content.Cells() }

// Particles returns a snapshot of the live particles.
func (c *Controller) Particles() []Particle { return c.effects.Particles() }

// MaskOpacity returns the opacity the mask is composited at.
func (c *Controller) MaskOpacity() float64 { return c.mask.Opacity() }

// Scratching reports whether a gesture is in progress.
func (c *Controller) Scratching() bool { return c.scratching }

// Animating reports whether the fade or particle loop has a frame pending.
func (c *Controller) Animating() bool {
	return c.mask.Fading() || c.particles.Running()
}

// Scheduler returns the scheduler driving the animations.
func (c *Controller) Scheduler() Scheduler { return c.sched }

// Surface returns the mounted surface, or the zero Surface when unmounted.
func (c *Controller) Surface() Surface { return c.rc.Surface() }

// Config returns the controller's configuration.
func (c *Controller) Config() Config { return c.cfg }
