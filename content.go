package scratchcard

import (
	"image"
	"math"
	"math/rand/v2"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/scratchcard/internal/pixel"
)

// Grid geometry of the content layer.
const (
	GridColumns = 3
	GridRows    = 3
	GridCells   = GridColumns * GridRows

	// iconInset is the icon size relative to the cell's minor dimension.
	iconInset = 0.6

	// Drop shadow, in logical pixels.
	shadowBlur    = 8.0
	shadowOffsetY = 2.0
	shadowAlpha   = 0.1
)

// IconRef is an opaque handle to a drawable asset supplied by the embedder.
type IconRef string

// AssetLoader resolves icons to images.
//
// Load may call done before returning (cached or in-memory assets) or later,
// once an asynchronous decode finishes. done must run on the UI goroutine;
// loaders doing work elsewhere hand the result back with FrameLoop.Post.
type AssetLoader interface {
	Load(ref IconRef, done func(image.Image, error))
}

// AssetLoaderFunc adapts a function to the AssetLoader interface.
type AssetLoaderFunc func(ref IconRef, done func(image.Image, error))

// Load implements AssetLoader.
func (f AssetLoaderFunc) Load(ref IconRef, done func(image.Image, error)) { f(ref, done) }

type missingAssets struct{}

func (missingAssets) Load(_ IconRef, done func(image.Image, error)) { done(nil, ErrUnknownIcon) }

// Cell is one grid position and the icon assigned to it.
// Index runs row-major from the top-left cell.
type Cell struct {
	Index int
	Icon  IconRef
}

// Row returns the cell's grid row.
func (c Cell) Row() int { return c.Index / GridColumns }

// Col returns the cell's grid column.
func (c Cell) Col() int { return c.Index % GridColumns }

// Shuffle assigns palette[i mod len(palette)] to each of the nine cells and
// permutes the assignment with a fresh Fisher–Yates pass. With three icons
// every icon appears exactly three times.
func Shuffle(palette []IconRef, rng *rand.Rand) []Cell {
	if len(palette) == 0 {
		return nil
	}
	icons := make([]IconRef, GridCells)
	for i := range icons {
		icons[i] = palette[i%len(palette)]
	}
	rng.Shuffle(len(icons), func(i, j int) {
		icons[i], icons[j] = icons[j], icons[i]
	})
	cells := make([]Cell, GridCells)
	for i, icon := range icons {
		cells[i] = Cell{Index: i, Icon: icon}
	}
	return cells
}

// ContentLayer draws the icon grid. It is write-once per reveal cycle: the
// grid is only redrawn on mount, resize and reset.
type ContentLayer struct {
	loader AssetLoader
	cells  []Cell

	// generation advances on every Layout; completions carrying an older
	// generation belong to a superseded grid and are dropped.
	generation uint64
}

// NewContentLayer creates a content layer resolving icons through loader.
func NewContentLayer(loader AssetLoader) *ContentLayer {
	if loader == nil {
		loader = missingAssets{}
	}
	return &ContentLayer{loader: loader}
}

// Cells returns a copy of the current assignment.
func (l *ContentLayer) Cells() []Cell {
	return append([]Cell(nil), l.cells...)
}

// Layout clears the content buffer and requests every cell's icon. Each icon
// is drawn when its own load completes, without touching other cells, so
// assets finishing in any order never double-draw. Layout is idempotent.
func (l *ContentLayer) Layout(rc *RenderContext, cells []Cell) {
	l.cells = append(l.cells[:0], cells...)
	l.generation++
	dc := rc.contentCtx()
	if dc == nil {
		return
	}
	dc.Clear()

	gen := l.generation
	for _, cell := range l.cells {
		l.loader.Load(cell.Icon, func(img image.Image, err error) {
			switch {
			case gen != l.generation || !rc.Ready():
				Logger().Debug("scratchcard: dropping stale icon", "icon", cell.Icon, "cell", cell.Index)
			case err != nil:
				Logger().Warn("scratchcard: icon unavailable", "icon", cell.Icon, "cell", cell.Index, "err", err)
			case img == nil:
				Logger().Debug("scratchcard: icon loader returned no image", "icon", cell.Icon)
			default:
				drawCell(rc, cell.Index, img)
			}
		})
	}
}

// Invalidate drops every in-flight icon load without clearing the buffer.
func (l *ContentLayer) Invalidate() {
	l.generation++
}

// CellRect returns the physical-pixel rectangle of cell i on s.
func CellRect(s Surface, i int) (x, y, w, h float64) {
	pw, ph := s.PixelSize()
	w = float64(pw) / GridColumns
	h = float64(ph) / GridRows
	return float64(i%GridColumns) * w, float64(i/GridColumns) * h, w, h
}

// drawCell draws img centered in cell i with a soft drop shadow.
func drawCell(rc *RenderContext, i int, img image.Image) {
	dc := rc.contentCtx()
	if dc == nil || img.Bounds().Empty() {
		return
	}
	s := rc.Surface()
	x, y, w, h := CellRect(s, i)
	size := int(math.Round(math.Min(w, h) * iconInset))
	if size <= 0 {
		return
	}
	left := int(math.Round(x + w/2 - float64(size)/2))
	top := int(math.Round(y + h/2 - float64(size)/2))

	scaled := image.NewNRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	drawShadow(buffer(dc.ResizeTarget()), scaled, left, top, s.Scale)
	dc.DrawImageEx(gg.ImageBufFromImage(scaled), gg.DrawImageOptions{
		X:             float64(left),
		Y:             float64(top),
		Interpolation: gg.InterpBilinear,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
}

// drawShadow composites a blurred, offset silhouette of icon at (left, top).
func drawShadow(dst pixel.Buffer, icon *image.NRGBA, left, top int, scale float64) {
	radius := int(math.Round(shadowBlur / 2 * scale))
	offset := int(math.Round(shadowOffsetY * scale))
	iw, ih := icon.Rect.Dx(), icon.Rect.Dy()
	pw, ph := iw+2*radius, ih+2*radius

	plane := make([]uint8, pw*ph)
	for y := 0; y < ih; y++ {
		for x := 0; x < iw; x++ {
			plane[(y+radius)*pw+x+radius] = icon.Pix[y*icon.Stride+x*4+3]
		}
	}
	pixel.BoxBlur(plane, pw, ph, radius)

	ox, oy := left-radius, top-radius+offset
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			a := plane[y*pw+x]
			if a == 0 {
				continue
			}
			dst.BlendOver(ox+x, oy+y, pixel.Color{A: float64(a) / 255 * shadowAlpha})
		}
	}
}
