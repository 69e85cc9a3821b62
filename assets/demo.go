package assets

import (
	"image"
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/scratchcard"
)

// Demo palette icon references.
const (
	Coin scratchcard.IconRef = "coin"
	Star scratchcard.IconRef = "star"
	Gem  scratchcard.IconRef = "gem"
)

// DemoPalette lists the icons served by Demo.
var DemoPalette = []scratchcard.IconRef{Coin, Star, Gem}

// Demo draws the three demo icons at size×size pixels.
func Demo(size int) Static {
	return Static{
		Coin: drawIcon(size, drawCoin),
		Star: drawIcon(size, drawStar),
		Gem:  drawIcon(size, drawGem),
	}
}

func drawIcon(size int, draw func(dc *gg.Context, s float64)) image.Image {
	dc := gg.NewContext(size, size)
	defer func() { _ = dc.Close() }()
	draw(dc, float64(size))
	return toNRGBA(dc.ResizeTarget())
}

// toNRGBA copies a pixmap into an image whose type matches the pixmap's
// straight-alpha layout.
func toNRGBA(pm *gg.Pixmap) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, pm.Width(), pm.Height()))
	copy(img.Pix, pm.Data())
	return img
}

func drawCoin(dc *gg.Context, s float64) {
	c := s / 2
	dc.SetHexColor("#E8A317")
	dc.DrawCircle(c, c, s*0.46)
	_ = dc.Fill()
	dc.SetHexColor("#FFD34D")
	dc.DrawCircle(c, c, s*0.36)
	_ = dc.Fill()
	dc.SetHexColor("#E8A317")
	dc.SetLineWidth(s * 0.06)
	dc.DrawLine(c, s*0.3, c, s*0.7)
	_ = dc.Stroke()
}

func drawStar(dc *gg.Context, s float64) {
	c := s / 2
	outer, inner := s*0.46, s*0.2
	for i := range 10 {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		x, y := c+r*math.Cos(a), c+r*math.Sin(a)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	dc.SetHexColor("#FD4800")
	_ = dc.Fill()
}

func drawGem(dc *gg.Context, s float64) {
	c := s / 2
	dc.SetHexColor("#2E86DE")
	dc.DrawRegularPolygon(6, c, c, s*0.44, math.Pi/6)
	_ = dc.Fill()
	dc.SetHexColor("#9AD0FF")
	dc.DrawRegularPolygon(6, c, c-s*0.08, s*0.2, math.Pi/6)
	_ = dc.Fill()
}
