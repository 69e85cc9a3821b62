package scratchcard

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/scratchcard/internal/pixel"
)

// Surface is the drawable region shared by all layers.
//
// Width and Height are logical (CSS) pixels; Scale is the device pixel ratio.
// Buffers are allocated at the physical size, Width×Scale by Height×Scale.
type Surface struct {
	Width  float64
	Height float64
	Scale  float64
}

// NewSurface returns a Surface of the given logical size. A non-positive or
// NaN scale falls back to 1.
func NewSurface(width, height, scale float64) Surface {
	if !(scale > 0) {
		scale = 1
	}
	return Surface{Width: width, Height: height, Scale: scale}
}

// PixelSize returns the physical buffer dimensions.
func (s Surface) PixelSize() (width, height int) {
	if !(s.Width > 0) || !(s.Height > 0) || !(s.Scale > 0) {
		return 0, 0
	}
	return int(math.Round(s.Width * s.Scale)), int(math.Round(s.Height * s.Scale))
}

// Empty reports whether the surface has zero physical area.
func (s Surface) Empty() bool {
	w, h := s.PixelSize()
	return w <= 0 || h <= 0
}

// ToPixel maps a logical point into physical buffer coordinates.
func (s Surface) ToPixel(p gg.Point) (x, y float64) {
	return p.X * s.Scale, p.Y * s.Scale
}

// RenderContext owns the Surface and the three layer buffers derived from it.
//
// A RenderContext is created whole and replaced whole: resizing builds a new
// one, so no layer ever sees buffers of mismatched sizes.
type RenderContext struct {
	surface Surface
	content *gg.Context
	mask    *gg.Context
	effects *gg.Context
	closed  bool
}

// NewRenderContext allocates the content, mask and effects buffers for s.
// A zero-area surface yields a context whose layer operations are no-ops.
func NewRenderContext(s Surface) *RenderContext {
	rc := &RenderContext{surface: s}
	w, h := s.PixelSize()
	if w <= 0 || h <= 0 {
		return rc
	}
	rc.content = gg.NewContext(w, h)
	rc.mask = gg.NewContext(w, h)
	rc.effects = gg.NewContext(w, h)
	return rc
}

// Surface returns the surface the buffers were derived from.
func (rc *RenderContext) Surface() Surface {
	if rc == nil {
		return Surface{}
	}
	return rc.surface
}

// Ready reports whether the context has live buffers.
func (rc *RenderContext) Ready() bool {
	return rc != nil && !rc.closed && rc.content != nil
}

// Content returns the content layer pixmap, or nil when not ready.
func (rc *RenderContext) Content() *gg.Pixmap { return rc.pixmap(rc.contentCtx()) }

// Mask returns the mask layer pixmap, or nil when not ready.
func (rc *RenderContext) Mask() *gg.Pixmap { return rc.pixmap(rc.maskCtx()) }

// Effects returns the effects layer pixmap, or nil when not ready.
func (rc *RenderContext) Effects() *gg.Pixmap { return rc.pixmap(rc.effectsCtx()) }

func (rc *RenderContext) contentCtx() *gg.Context {
	if !rc.Ready() {
		return nil
	}
	return rc.content
}

func (rc *RenderContext) maskCtx() *gg.Context {
	if !rc.Ready() {
		return nil
	}
	return rc.mask
}

func (rc *RenderContext) effectsCtx() *gg.Context {
	if !rc.Ready() {
		return nil
	}
	return rc.effects
}

func (rc *RenderContext) pixmap(dc *gg.Context) *gg.Pixmap {
	if dc == nil {
		return nil
	}
	return dc.ResizeTarget()
}

// buffer wraps a layer pixmap for byte-level access.
func buffer(pm *gg.Pixmap) pixel.Buffer {
	if pm == nil {
		return pixel.Buffer{}
	}
	return pixel.New(pm.Data(), pm.Width(), pm.Height())
}

// Close releases the layer buffers. Close is idempotent.
func (rc *RenderContext) Close() error {
	if rc == nil || rc.closed {
		return nil
	}
	rc.closed = true
	for _, dc := range []*gg.Context{rc.content, rc.mask, rc.effects} {
		if dc != nil {
			_ = dc.Close()
		}
	}
	return nil
}
