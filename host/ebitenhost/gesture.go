package ebitenhost

import (
	"github.com/gogpu/gg"
)

// Pointer is the input surface of a scratchcard.Controller.
type Pointer interface {
	PointerDown(p gg.Point)
	PointerMove(p gg.Point)
	PointerUp()
}

// gesture turns per-frame pointer samples into down/move/up calls. Ebiten
// reports positions every frame whether or not they changed; repeated
// positions are not forwarded.
type gesture struct {
	target Pointer
	active bool
	last   gg.Point
}

func (g *gesture) press(p gg.Point) {
	if g.active {
		g.target.PointerUp()
	}
	g.active, g.last = true, p
	g.target.PointerDown(p)
}

func (g *gesture) drag(p gg.Point) {
	if !g.active || p == g.last {
		return
	}
	g.last = p
	g.target.PointerMove(p)
}

func (g *gesture) release() {
	if !g.active {
		return
	}
	g.active = false
	g.target.PointerUp()
}

// toLogical maps a screen position in device pixels to widget coordinates.
func toLogical(x, y int, scale float64) gg.Point {
	if !(scale > 0) {
		scale = 1
	}
	return gg.Pt(float64(x)/scale, float64(y)/scale)
}
