package scratchcard

import (
	"math"

	"github.com/gogpu/gg"
)

// PanelAction is what a tap on the revealed panel asks for.
type PanelAction int

const (
	// PanelNone: the tap missed both buttons.
	PanelNone PanelAction = iota
	// PanelContact: the call-to-action button.
	PanelContact
	// PanelReset: the scratch-again button.
	PanelReset
)

// Panel is the overlay shown once the card is revealed: a heading, a line of
// copy, a call-to-action and a reset button that stays disabled while the
// reset cooldown runs. Enable it with WithPanel.
type Panel struct {
	Heading      string
	Body         string
	ContactLabel string
	ResetLabel   string
}

// DefaultPanel returns the stock panel copy.
func DefaultPanel() Panel {
	return Panel{
		Heading:      "Boa!",
		Body:         "Continue a leitura no site e entre em contato.",
		ContactLabel: "Falar com a Pegasus",
		ResetLabel:   "Raspar novamente",
	}
}

// PanelRect is a rectangle in logical pixels.
type PanelRect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r.
func (r PanelRect) Contains(p gg.Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Center returns the middle of r.
func (r PanelRect) Center() gg.Point {
	return gg.Pt(r.X+r.W/2, r.Y+r.H/2)
}

// PanelLayout positions the panel on a surface, in logical pixels.
type PanelLayout struct {
	HeadingY, HeadingSize float64
	BodyY, BodySize       float64
	Contact, Reset        PanelRect
}

// Layout centers the panel on s. Buttons are stacked below the copy.
func (p Panel) Layout(s Surface) PanelLayout {
	w, h := s.Width, s.Height
	bw := math.Min(w-32, 220)
	if bw <= 0 {
		bw = w
	}
	bh := math.Min(36, h*0.14)
	gap := math.Min(12, h*0.04)
	x := (w - bw) / 2
	top := h * 0.52
	return PanelLayout{
		HeadingY:    h * 0.24,
		HeadingSize: math.Min(28, h*0.13),
		BodyY:       h * 0.40,
		BodySize:    math.Min(14, h*0.07),
		Contact:     PanelRect{X: x, Y: top, W: bw, H: bh},
		Reset:       PanelRect{X: x, Y: top + bh + gap, W: bw, H: bh},
	}
}

// Hit returns the button under p on surface s.
func (p Panel) Hit(s Surface, pt gg.Point) PanelAction {
	l := p.Layout(s)
	switch {
	case l.Contact.Contains(pt):
		return PanelContact
	case l.Reset.Contains(pt):
		return PanelReset
	}
	return PanelNone
}

// Panel colors.
var (
	panelMuted    = gg.Hex("#6B6B6B")
	panelBackdrop = 0.95
	panelDisabled = 0.5
)

// panelLayer caches the rendered panel. It is repainted when the surface
// size or the reset button's enabled state changes.
type panelLayer struct {
	panel        Panel
	dc           *gg.Context
	resetEnabled bool
}

func (l *panelLayer) pixmap(s Surface, resetEnabled bool) *gg.Pixmap {
	w, h := s.PixelSize()
	if w <= 0 || h <= 0 {
		return nil
	}
	switch {
	case l.dc == nil || l.dc.Width() != w || l.dc.Height() != h:
		l.release()
		l.dc = gg.NewContext(w, h)
		l.paint(s, resetEnabled)
	case l.resetEnabled != resetEnabled:
		l.paint(s, resetEnabled)
	}
	return l.dc.ResizeTarget()
}

func (l *panelLayer) release() {
	if l == nil || l.dc == nil {
		return
	}
	_ = l.dc.Close()
	l.dc = nil
}

func (l *panelLayer) paint(s Surface, resetEnabled bool) {
	l.resetEnabled = resetEnabled
	dc := l.dc
	k := s.Scale
	lay := l.panel.Layout(s)
	dc.Clear()

	dc.SetRGBA(1, 1, 1, panelBackdrop)
	dc.DrawRectangle(0, 0, float64(dc.Width()), float64(dc.Height()))
	_ = dc.Fill()

	src, err := labelSource()
	if err != nil {
		Logger().Warn("scratchcard: panel font unavailable", "err", err)
	}
	label := func(str string, size, x, y float64, c gg.RGBA) {
		if src == nil || str == "" || size <= 0 {
			return
		}
		dc.SetFont(src.Face(size * k))
		dc.SetRGBA(c.R, c.G, c.B, c.A)
		dc.DrawStringAnchored(str, x*k, y*k, 0.5, 0.5)
	}

	mid := s.Width / 2
	label(l.panel.Heading, lay.HeadingSize, mid, lay.HeadingY, accent)
	label(l.panel.Body, lay.BodySize, mid, lay.BodyY, panelMuted)

	b := lay.Contact
	dc.SetRGBA(accent.R, accent.G, accent.B, 1)
	dc.DrawRoundedRectangle(b.X*k, b.Y*k, b.W*k, b.H*k, b.H/4*k)
	_ = dc.Fill()
	label(l.panel.ContactLabel, b.H*0.5, mid, b.Y+b.H/2, gg.RGBA{R: 1, G: 1, B: 1, A: 1})

	r := lay.Reset
	ink := accent
	if !resetEnabled {
		ink = withAlpha(accent, panelDisabled)
	}
	dc.SetRGBA(ink.R, ink.G, ink.B, ink.A)
	dc.SetLineWidth(1.5 * k)
	dc.DrawRoundedRectangle(r.X*k, r.Y*k, r.W*k, r.H*k, r.H/4*k)
	_ = dc.Stroke()
	label(l.panel.ResetLabel, r.H*0.5, mid, r.Y+r.H/2, ink)
}
