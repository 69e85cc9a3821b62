package scratchcard

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/scratchcard/internal/pixel"
)

// transparentBelow is the alpha under which a mask pixel counts as removed.
const transparentBelow = 128

// Mask palette.
var (
	maskTop      = gg.Hex("#FFF7F2")
	maskBottom   = gg.Hex("#FFE8DE")
	accent       = gg.Hex("#FD4800")
	labelColor   = gg.RGBA{R: 197.0 / 255, G: 60.0 / 255, B: 0, A: 0.55}
	shimmerPeak  = 0.18
	strokeAlpha  = 0.1
	strokeWidth  = 2.0
	strokeInsetX = 1.0
	glowAlpha    = 0.25
	glowBlur     = 16.0
)

// MaskLayer is the erasable overlay. It owns the erosion brush state of the
// current gesture, the layer opacity and the fade-out task.
type MaskLayer struct {
	cfg *Config

	opacity     float64
	interactive bool

	// Previous erosion point of the current gesture, in physical pixels.
	lastX, lastY float64
	hasLast      bool

	fade task
}

// NewMaskLayer creates a mask layer using cfg's brush and paint settings.
func NewMaskLayer(cfg *Config) *MaskLayer {
	return &MaskLayer{cfg: cfg, opacity: cfg.BaseOpacity, interactive: true}
}

// Opacity returns the opacity the mask is currently composited at.
func (m *MaskLayer) Opacity() float64 { return m.opacity }

// Interactive reports whether the mask intercepts pointer input.
func (m *MaskLayer) Interactive() bool { return m.interactive }

// Paint renders the overlay from scratch: gradient, shimmer band, noise,
// inset stroke and label. The shimmer position is derived from now, so two
// paints at different times differ. Paint restores the base opacity and
// pointer interception; it is used on mount, reset and resize.
func (m *MaskLayer) Paint(rc *RenderContext, now time.Time, rng *rand.Rand) {
	m.fade.cancel()
	m.opacity = m.cfg.BaseOpacity
	m.interactive = true
	m.hasLast = false

	dc := rc.maskCtx()
	if dc == nil {
		return
	}
	buf := buffer(dc.ResizeTarget())
	pw, ph := float64(buf.Width), float64(buf.Height)

	base := gg.NewLinearGradientBrush(0, 0, pw, ph).
		AddColorStop(0, maskTop).
		AddColorStop(1, maskBottom)
	shade(buf, base, func(b pixel.Buffer, x, y int, c pixel.Color) {
		c.A = 1
		b.Set(x, y, c)
	})

	o := shimmerOffset(now, m.cfg.ShimmerPeriod)
	shimmer := gg.NewLinearGradientBrush(
		-pw+o*pw*2, -ph+o*ph*2,
		pw+o*pw*2, ph+o*ph*2,
	).
		AddColorStop(0, withAlpha(accent, 0)).
		AddColorStop(0.5, withAlpha(accent, shimmerPeak)).
		AddColorStop(1, withAlpha(accent, 0))
	shade(buf, shimmer, pixel.Buffer.BlendOver)

	buf.Jitter(m.cfg.NoiseAmplitude, rng.Float64)

	m.paintDecor(buf, rc.Surface())
}

// paintDecor draws the inset stroke and label on a transparent scratch
// context and composites it over the mask, so partially covered edge pixels
// blend instead of replacing the opaque base.
func (m *MaskLayer) paintDecor(buf pixel.Buffer, s Surface) {
	decor := gg.NewContext(buf.Width, buf.Height)
	defer func() { _ = decor.Close() }()

	k := s.Scale
	strokeGlow(buf, k)
	decor.SetRGBA(accent.R, accent.G, accent.B, strokeAlpha)
	strokeInset(decor, k)

	if m.cfg.Label != "" {
		if src, err := labelSource(); err != nil {
			Logger().Warn("scratchcard: label font unavailable", "err", err)
		} else {
			decor.SetFont(src.Face(m.cfg.LabelSize * k))
			decor.SetColor(labelColor.Color())
			decor.DrawStringAnchored(m.cfg.Label, float64(buf.Width)/2, float64(buf.Height)/2, 0.5, 0.5)
		}
	}

	buf.Over(buffer(decor.ResizeTarget()), 1)
}

// strokeInset strokes the card border, inset by strokeInsetX, with the
// context's current color.
func strokeInset(dc *gg.Context, k float64) {
	w, h := float64(dc.Width()), float64(dc.Height())
	dc.SetLineWidth(strokeWidth * k)
	dc.DrawRectangle(strokeInsetX*k, strokeInsetX*k, w-2*strokeInsetX*k, h-2*strokeInsetX*k)
	_ = dc.Stroke()
}

// strokeGlow blends a blurred accent copy of the inset stroke over buf.
func strokeGlow(buf pixel.Buffer, k float64) {
	radius := int(math.Round(glowBlur / 2 * k))
	if radius <= 0 || buf.Empty() {
		return
	}
	outline := gg.NewContext(buf.Width, buf.Height)
	defer func() { _ = outline.Close() }()
	outline.SetRGBA(0, 0, 0, 1)
	strokeInset(outline, k)

	src := outline.ResizeTarget().Data()
	plane := make([]uint8, buf.Width*buf.Height)
	for i := range plane {
		plane[i] = src[i*4+3]
	}
	pixel.BoxBlur(plane, buf.Width, buf.Height, radius)

	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			if a := plane[y*buf.Width+x]; a > 0 {
				buf.BlendOver(x, y, pixel.Color{R: accent.R, G: accent.G, B: accent.B, A: glowAlpha * float64(a) / 255})
			}
		}
	}
}

// Clear makes the whole mask transparent and stops pointer interception.
// Used when a revealed card is resized.
func (m *MaskLayer) Clear(rc *RenderContext) {
	m.interactive = false
	m.hasLast = false
	if dc := rc.maskCtx(); dc != nil {
		dc.Clear()
	}
}

// BeginGesture starts a new stroke: the next erosion is a lone dab.
func (m *MaskLayer) BeginGesture() { m.hasLast = false }

// EndGesture finishes the current stroke.
func (m *MaskLayer) EndGesture() { m.hasLast = false }

// Erode removes the mask under a brush of the given logical radius at p.
// After the first dab of a gesture it also erodes a round-capped segment from
// the previous point, StrokeWidthFactor × the brush diameter wide, so fast
// pointer motion leaves a continuous path rather than isolated dabs.
// It returns the number of pixels whose alpha changed.
func (m *MaskLayer) Erode(rc *RenderContext, p gg.Point, radius float64) int {
	dc := rc.maskCtx()
	if dc == nil || !m.interactive {
		return 0
	}
	s := rc.Surface()
	buf := buffer(dc.ResizeTarget())
	x, y := s.ToPixel(p)
	r := radius * s.Scale

	changed := buf.EraseDisk(x, y, r)
	if m.hasLast {
		changed += buf.EraseCapsule(m.lastX, m.lastY, x, y, r*m.cfg.StrokeWidthFactor)
	}
	m.lastX, m.lastY, m.hasLast = x, y, true
	return changed
}

// Coverage returns the percentage in [0, 100] of sampled mask pixels whose
// alpha is below half intensity. Only every SampleStride-th pixel is read, so
// the cost stays bounded enough to run on every pointer move. A zero-area
// surface reports 0.
func (m *MaskLayer) Coverage(rc *RenderContext) float64 {
	dc := rc.maskCtx()
	if dc == nil {
		return 0
	}
	transparent, samples := buffer(dc.ResizeTarget()).Coverage(m.cfg.SampleStride, transparentBelow)
	if samples == 0 {
		return 0
	}
	return float64(transparent) * 100 / float64(samples)
}

// FadeOut animates the opacity from its current value to zero along an
// ease-out cubic curve over d. Both ends of the fade are read from clock; the
// scheduler only decides when the opacity is recomputed. When the fade completes the
// mask stops intercepting input and done is called.
func (m *MaskLayer) FadeOut(sched Scheduler, clock Clock, d time.Duration, done func()) {
	m.fade.cancel()
	f := fade{start: clock.Now(), duration: d, from: m.opacity}
	finish := func() {
		m.opacity = 0
		m.interactive = false
		m.hasLast = false
		if done != nil {
			done()
		}
	}
	if d <= 0 {
		finish()
		return
	}
	m.fade = task{sched: sched, step: func(time.Time) bool {
		opacity, complete := f.at(clock.Now())
		m.opacity = opacity
		if complete {
			finish()
			return false
		}
		return true
	}}
	m.fade.start()
}

// CancelFade stops an in-flight fade, leaving the opacity where it is.
func (m *MaskLayer) CancelFade() {
	m.fade.cancel()
}

// Fading reports whether a fade is in flight.
func (m *MaskLayer) Fading() bool {
	return m.fade.Running()
}

// shade evaluates brush at every pixel center and hands the color to apply.
func shade(buf pixel.Buffer, brush gg.Brush, apply func(pixel.Buffer, int, int, pixel.Color)) {
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			c := brush.ColorAt(float64(x)+0.5, float64(y)+0.5)
			apply(buf, x, y, pixel.Color{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}
}

func shimmerOffset(now time.Time, period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	ms := period.Milliseconds()
	if ms <= 0 {
		return 0
	}
	return float64(now.UnixMilli()%ms) / float64(ms)
}

func withAlpha(c gg.RGBA, a float64) gg.RGBA {
	c.A = a
	return c
}

var labelFont struct {
	once sync.Once
	src  *text.FontSource
	err  error
}

// labelSource parses the embedded Go Regular face once per process.
func labelSource() (*text.FontSource, error) {
	labelFont.once.Do(func() {
		labelFont.src, labelFont.err = text.NewFontSource(goregular.TTF)
	})
	return labelFont.src, labelFont.err
}

// clamp01 limits v to [0, 1].
func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
