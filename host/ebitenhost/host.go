// Package ebitenhost runs a scratchcard.Controller inside an Ebitengine
// window. The Host implements ebiten.Game: Layout tracks the window size and
// device scale, Update routes mouse and touch input and steps the frame loop,
// Draw uploads the composited card.
package ebitenhost

import (
	"image"

	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/scratchcard"
	"github.com/gogpu/scratchcard/internal/pixel"
)

// Backdrop is drawn behind the card.
var Backdrop = gg.Hex("#FFF3EC")

// Host adapts a Controller to ebiten.Game.
//
// Keys: R resets the card, Enter triggers the contact action, Escape quits.
type Host struct {
	card  *scratchcard.Controller
	loop  *scratchcard.FrameLoop
	clock scratchcard.Clock

	input    gesture
	touch    ebiten.TouchID
	touching bool

	surface scratchcard.Surface
	mounted bool
	target  *gg.Pixmap
	upload  []byte
	image   *ebiten.Image
}

// New creates a host for card. loop must be the scheduler the card was
// created with.
func New(card *scratchcard.Controller, loop *scratchcard.FrameLoop, clock scratchcard.Clock) *Host {
	if clock == nil {
		clock = scratchcard.SystemClock()
	}
	return &Host{card: card, loop: loop, clock: clock, input: gesture{target: card}}
}

// Layout implements ebiten.Game. The card is sized to the window in logical
// pixels and rendered at the monitor's device scale.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := 1.0
	if m := ebiten.Monitor(); m != nil {
		scale = m.DeviceScaleFactor()
	}
	s := scratchcard.NewSurface(float64(outsideWidth), float64(outsideHeight), scale)
	if s != h.surface || !h.mounted {
		h.resize(s)
	}
	return s.PixelSize()
}

func (h *Host) resize(s scratchcard.Surface) {
	h.surface = s
	h.card.SetViewport(s.Width)
	if h.mounted {
		h.card.Resize(s)
	} else {
		h.card.Mount(s)
		h.mounted = true
	}

	w, ht := s.PixelSize()
	if h.image != nil {
		h.image.Deallocate()
		h.image = nil
	}
	if w <= 0 || ht <= 0 {
		h.target, h.upload = nil, nil
		return
	}
	h.target = gg.NewPixmap(w, ht)
	h.upload = make([]byte, w*ht*4)
	h.image = ebiten.NewImage(w, ht)
}

// Update implements ebiten.Game.
func (h *Host) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		h.card.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		h.card.Contact()
	}

	h.updateTouch()
	if !h.touching {
		h.updateMouse()
	}
	h.loop.Step(h.clock.Now())
	return nil
}

func (h *Host) updateMouse() {
	x, y := ebiten.CursorPosition()
	p := toLogical(x, y, h.surface.Scale)
	w, ht := h.surface.PixelSize()
	inside := image.Pt(x, y).In(image.Rect(0, 0, w, ht))

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && inside:
		h.input.press(p)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft), !inside:
		h.input.release()
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		h.input.drag(p)
	}
}

func (h *Host) updateTouch() {
	if h.touching {
		if inpututil.IsTouchJustReleased(h.touch) {
			h.touching = false
			h.input.release()
			return
		}
		x, y := ebiten.TouchPosition(h.touch)
		h.input.drag(toLogical(x, y, h.surface.Scale))
		return
	}
	ids := inpututil.AppendJustPressedTouchIDs(nil)
	if len(ids) == 0 {
		return
	}
	h.touch, h.touching = ids[0], true
	x, y := ebiten.TouchPosition(h.touch)
	h.input.press(toLogical(x, y, h.surface.Scale))
}

// Draw implements ebiten.Game.
func (h *Host) Draw(screen *ebiten.Image) {
	if h.target == nil {
		return
	}
	h.target.Clear(Backdrop)
	h.card.Render(h.target)
	pixel.New(h.target.Data(), h.target.Width(), h.target.Height()).Premultiply(h.upload)
	h.image.WritePixels(h.upload)
	screen.DrawImage(h.image, nil)
}
