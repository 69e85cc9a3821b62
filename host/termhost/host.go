// Package termhost runs a scratchcard.Controller in a terminal with tcell.
//
// Each character cell shows two vertically stacked card pixels using the
// upper half block, so a W×H terminal hosts a W×2H logical surface at scale
// 1. Dragging with the primary mouse button scratches. Once the card is
// uncovered a text panel offers the contact action and a reset button.
package termhost

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/gg"

	"github.com/gogpu/scratchcard"
)

// FrameInterval is the redraw period, about 60 Hz.
const FrameInterval = 16 * time.Millisecond

const halfBlock = '▀'

// Backdrop fills pixels the card leaves transparent.
var Backdrop = gg.Hex("#1E1A18")

// Defaults returns a configuration sized for terminal pixels: a brush a few
// cells wide, no label and a single mobile/desktop class.
func Defaults() scratchcard.Config {
	cfg := scratchcard.DefaultConfig()
	cfg.BrushRadius = 5
	cfg.MobileBrushRadius = 5
	cfg.MobileBreakpoint = 0
	cfg.Label = ""
	cfg.ParticlesPerStroke = 1
	cfg.ParticleCap = 40
	cfg.SampleStride = 4
	cfg.StrokeWidthFactor = 1.2
	return cfg
}

// Panel styles.
var (
	panelStyle  = tcell.StyleDefault.Background(tcell.NewRGBColor(255, 255, 255)).Foreground(tcell.NewRGBColor(107, 107, 107))
	accentStyle = panelStyle.Foreground(tcell.NewRGBColor(253, 72, 0)).Bold(true)
)

// Host drives a Controller from tcell events.
//
// Keys: r resets, Enter triggers the contact action, q or Escape quits.
// Clicking the panel's contact or reset line does the same as Enter or r.
type Host struct {
	screen tcell.Screen
	card   *scratchcard.Controller
	loop   *scratchcard.FrameLoop
	clock  scratchcard.Clock
	panel  scratchcard.Panel

	cols, rows int
	target     *gg.Pixmap
	pressed    bool
	last       gg.Point
}

// New creates a host drawing on an initialized screen. loop must be the
// scheduler the card was created with.
func New(screen tcell.Screen, card *scratchcard.Controller, loop *scratchcard.FrameLoop, clock scratchcard.Clock) *Host {
	if clock == nil {
		clock = scratchcard.SystemClock()
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	h := &Host{screen: screen, card: card, loop: loop, clock: clock, panel: scratchcard.DefaultPanel()}
	h.resize()
	return h
}

// Run polls events and redraws every FrameInterval until the user quits or
// ctx is done. It unmounts the card before returning.
func (h *Host) Run(ctx context.Context) error {
	defer h.card.Unmount()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !h.Handle(ev) {
				return nil
			}
		case <-ticker.C:
			h.Frame(h.clock.Now())
		}
	}
}

// Handle applies one event and reports whether the host should keep running.
func (h *Host) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyEnter:
			h.card.Contact()
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'r' || ev.Rune() == 'R'):
			h.card.Reset()
		}
	case *tcell.EventMouse:
		h.mouse(ev)
	case *tcell.EventResize:
		h.screen.Sync()
		h.resize()
	}
	return true
}

func (h *Host) mouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	p := CellCenter(x, y)
	down := ev.Buttons()&tcell.Button1 != 0
	switch {
	case down && !h.pressed:
		h.pressed, h.last = true, p
		if h.tapPanel(y) {
			return
		}
		h.card.PointerDown(p)
	case down && p != h.last:
		h.last = p
		h.card.PointerMove(p)
	case !down && h.pressed:
		h.pressed = false
		h.card.PointerUp()
	}
}

// tapPanel runs the panel action on row and reports whether the panel is
// showing.
func (h *Host) tapPanel(row int) bool {
	if h.card.State() == scratchcard.Covered {
		return false
	}
	top := h.panelTop()
	switch row {
	case top + 2:
		h.card.Contact()
	case top + 3:
		h.card.Reset()
	}
	return true
}

// panelTop returns the first of the panel's four rows.
func (h *Host) panelTop() int {
	return max(h.rows/2-2, 0)
}

// CellCenter maps a character cell to the logical point at its center.
func CellCenter(col, row int) gg.Point {
	return gg.Pt(float64(col)+0.5, float64(row)*2+1)
}

func (h *Host) resize() {
	h.cols, h.rows = h.screen.Size()
	s := scratchcard.NewSurface(float64(h.cols), float64(h.rows*2), 1)
	if h.target == nil {
		h.card.Mount(s)
	} else {
		h.card.Resize(s)
	}
	w, ht := s.PixelSize()
	h.target = gg.NewPixmap(max(w, 1), max(ht, 1))
	scratchcard.Logger().Debug("termhost: resized", "cols", h.cols, "rows", h.rows)
}

// Frame steps the animations to now and redraws the screen.
func (h *Host) Frame(now time.Time) {
	h.loop.Step(now)
	h.Draw()
}

// Draw composites the card over the backdrop and paints it as half blocks.
func (h *Host) Draw() {
	h.target.Clear(Backdrop)
	h.card.Render(h.target)

	for row := 0; row < h.rows; row++ {
		for col := 0; col < h.cols; col++ {
			top := h.color(col, row*2)
			bottom := h.color(col, row*2+1)
			h.screen.SetContent(col, row, halfBlock, nil, tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}
	if h.card.State() != scratchcard.Covered {
		h.drawPanel()
	}
	h.screen.Show()
}

func (h *Host) drawPanel() {
	reset := panelStyle.Dim(!h.card.CanReset())
	lines := []struct {
		text  string
		style tcell.Style
	}{
		{h.panel.Heading, accentStyle},
		{h.panel.Body, panelStyle},
		{"Enter  " + h.panel.ContactLabel, accentStyle},
		{"r  " + h.panel.ResetLabel, reset},
	}
	top := h.panelTop()
	for i, l := range lines {
		row := top + i
		if row >= h.rows {
			return
		}
		text := []rune(l.text)
		if len(text) > h.cols {
			text = text[:h.cols]
		}
		start := (h.cols - len(text)) / 2
		for col := 0; col < h.cols; col++ {
			r := ' '
			if k := col - start; k >= 0 && k < len(text) {
				r = text[k]
			}
			h.screen.SetContent(col, row, r, nil, l.style)
		}
	}
}

func (h *Host) color(x, y int) tcell.Color {
	c := h.target.GetPixel(x, y)
	return tcell.NewRGBColor(int32(c.R*255+0.5), int32(c.G*255+0.5), int32(c.B*255+0.5))
}
