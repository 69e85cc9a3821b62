package scratchcard

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/gogpu/gg"
)

// presetCoverage makes the first n coverage samples of the mask transparent.
func presetCoverage(c *Controller, n int) {
	buf := buffer(c.rc.Mask())
	i := 0
	buf.SamplePoints(c.cfg.SampleStride, func(x, y int) {
		if i < n {
			buf.SetAlpha(x, y, 0)
		}
		i++
	})
}

func TestRevealThresholdInclusive(t *testing.T) {
	tests := []struct {
		name        string
		transparent int
		want        RevealState
		wantEvents  int
	}{
		{"51.9 stays covered", 519, Covered, 0},
		{"52.0 reveals", 520, Revealing, 1},
		{"above threshold reveals", 700, Revealing, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, DefaultConfig())
			presetCoverage(h.card, tt.transparent)
			h.card.evaluate()

			want := float64(tt.transparent) / 10
			if got := h.card.Coverage(); math.Abs(got-want) > 1e-9 {
				t.Errorf("Coverage() = %v, want %v", got, want)
			}
			if got := h.card.State(); got != tt.want {
				t.Errorf("State() = %v, want %v", got, tt.want)
			}
			if got := h.rec.count(EventScratchComplete); got != tt.wantEvents {
				t.Errorf("scratch_complete emitted %d times, want %d", got, tt.wantEvents)
			}
		})
	}
}

func TestCompleteEventPayload(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	presetCoverage(h.card, 526)
	h.card.evaluate()

	e, ok := h.rec.last(EventScratchComplete)
	if !ok {
		t.Fatal("no scratch_complete event")
	}
	if e.Percent != 53 {
		t.Errorf("Percent = %d, want 53 (rounded 52.6)", e.Percent)
	}
	if e.Device != DeviceDesktop {
		t.Errorf("Device = %q, want desktop", e.Device)
	}
	if !e.Timestamp.Equal(h.clock.Now()) {
		t.Errorf("Timestamp = %v, want %v", e.Timestamp, h.clock.Now())
	}
}

func TestResponsiveBrush(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	tests := []struct {
		viewport float64
		device   DeviceClass
		radius   float64
	}{
		{1024, DeviceDesktop, 60},
		{768, DeviceDesktop, 60},
		{767, DeviceMobile, 40},
		{0, DeviceMobile, 40}, // falls back to the 160px surface
	}
	for _, tt := range tests {
		h.card.SetViewport(tt.viewport)
		if got := h.card.Device(); got != tt.device {
			t.Errorf("viewport %v: Device() = %v, want %v", tt.viewport, got, tt.device)
		}
		if got := h.card.BrushRadius(); got != tt.radius {
			t.Errorf("viewport %v: BrushRadius() = %v, want %v", tt.viewport, got, tt.radius)
		}
	}
}

func TestEndToEndReveal(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	for icon, n := range iconCounts(h.card.Cells()) {
		if n != 3 {
			t.Fatalf("icon %q appears %d times, want 3", icon, n)
		}
	}

	h.card.PointerDown(gg.Pt(0, 50))
	for x := 10.0; x <= 160; x += 10 {
		h.card.PointerMove(gg.Pt(x, 50))
	}
	h.card.PointerUp()

	if got := h.rec.count(EventScratchStart); got != 1 {
		t.Errorf("scratch_start emitted %d times, want 1", got)
	}
	if got := h.card.State(); got != Revealing {
		t.Fatalf("State() after drag = %v, want Revealing", got)
	}
	if got := h.card.Coverage(); got < 52 {
		t.Errorf("Coverage() = %v, want >= 52", got)
	}
	if len(h.card.Particles()) == 0 {
		t.Error("drag spawned no particles")
	}

	h.frames(10) // 160ms
	if got := h.card.State(); got != Revealing {
		t.Errorf("State() mid-fade = %v, want Revealing", got)
	}
	if op := h.card.MaskOpacity(); op <= 0 || op >= DefaultConfig().BaseOpacity {
		t.Errorf("MaskOpacity() mid-fade = %v", op)
	}

	h.frames(8) // 288ms
	if got := h.card.State(); got != Revealed {
		t.Fatalf("State() after fade = %v, want Revealed", got)
	}
	if h.card.MaskOpacity() != 0 {
		t.Errorf("MaskOpacity() = %v, want 0", h.card.MaskOpacity())
	}

	e, ok := h.rec.last(EventScratchComplete)
	if got := h.rec.count(EventScratchComplete); got != 1 || !ok {
		t.Fatalf("scratch_complete emitted %d times, want exactly 1", got)
	}
	if e.Percent < 52 {
		t.Errorf("Percent = %d, want >= 52", e.Percent)
	}

	// The revealed card ignores further scratching.
	h.card.PointerDown(gg.Pt(80, 50))
	if got := h.rec.count(EventScratchStart); got != 1 {
		t.Errorf("pointer down on a revealed card emitted scratch_start")
	}

	h.frames(60)
	if len(h.card.Particles()) != 0 || h.card.Animating() {
		t.Error("particles or animations still alive after they should have expired")
	}
	if h.loop.Pending() != 0 {
		t.Errorf("%d frame callbacks left dangling", h.loop.Pending())
	}
}

func TestPointerMoveWithoutDownIgnored(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	before := bytes.Clone(h.card.rc.Mask().Data())
	h.card.PointerMove(gg.Pt(80, 50))
	h.card.PointerUp()

	if !bytes.Equal(before, h.card.rc.Mask().Data()) {
		t.Error("move without a pointer down eroded the mask")
	}
	if len(h.rec.events) != 0 {
		t.Errorf("unexpected events: %v", h.rec.events)
	}
}

func TestResetCooldown(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	if !h.card.CanReset() {
		t.Fatal("CanReset() = false before any reset")
	}
	if !h.card.Reset() {
		t.Fatal("first Reset() refused")
	}

	h.card.PointerDown(gg.Pt(40, 50))
	h.card.PointerUp()
	mask := bytes.Clone(h.card.rc.Mask().Data())
	particles := h.card.Particles()
	cells := h.card.Cells()

	h.clock.Advance(7 * time.Second)
	if h.card.CanReset() {
		t.Error("CanReset() = true inside the cooldown")
	}
	if h.card.Reset() {
		t.Fatal("Reset() during cooldown returned true")
	}
	if !bytes.Equal(mask, h.card.rc.Mask().Data()) {
		t.Error("refused reset touched the mask")
	}
	if got := h.card.Particles(); len(got) != len(particles) {
		t.Errorf("refused reset changed particles: %d, want %d", len(got), len(particles))
	}
	for i, c := range h.card.Cells() {
		if c != cells[i] {
			t.Fatal("refused reset reshuffled the cells")
		}
	}
	if got := h.rec.count(EventScratchReset); got != 1 {
		t.Errorf("scratch_reset emitted %d times, want 1", got)
	}

	h.clock.Advance(time.Second)
	if !h.card.Reset() {
		t.Fatal("Reset() after the cooldown refused")
	}
	if got := h.rec.count(EventScratchReset); got != 2 {
		t.Errorf("scratch_reset emitted %d times, want 2", got)
	}
}

func TestResetRefusedWhileRevealed(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	if !h.card.Reset() {
		t.Fatal("first Reset() refused")
	}
	presetCoverage(h.card, 600)
	h.card.evaluate()
	h.frames(30)
	if h.card.State() != Revealed {
		t.Fatalf("State() = %v, want Revealed", h.card.State())
	}

	mask := bytes.Clone(h.card.rc.Mask().Data())
	content := bytes.Clone(h.card.rc.Content().Data())
	cells := h.card.Cells()

	h.clock.Advance(5 * time.Second)
	if h.card.Reset() {
		t.Fatal("Reset() inside the cooldown returned true")
	}
	if h.card.State() != Revealed {
		t.Errorf("State() = %v after a refused reset, want Revealed", h.card.State())
	}
	if h.card.MaskOpacity() != 0 {
		t.Errorf("MaskOpacity() = %v after a refused reset, want 0", h.card.MaskOpacity())
	}
	if !bytes.Equal(mask, h.card.rc.Mask().Data()) {
		t.Error("refused reset repainted the mask")
	}
	if !bytes.Equal(content, h.card.rc.Content().Data()) {
		t.Error("refused reset redrew the content")
	}
	for i, c := range h.card.Cells() {
		if c != cells[i] {
			t.Fatal("refused reset reshuffled the cells")
		}
	}
	if got := h.rec.count(EventScratchReset); got != 1 {
		t.Errorf("scratch_reset emitted %d times, want 1", got)
	}
}

func TestResetRestoresCoveredCard(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	presetCoverage(h.card, 600)
	h.card.evaluate()
	h.frames(30)
	if h.card.State() != Revealed {
		t.Fatalf("State() = %v, want Revealed", h.card.State())
	}
	h.card.effects.Spawn(gg.Pt(10, 10), 5, h.card.rng)

	if !h.card.Reset() {
		t.Fatal("Reset() refused")
	}
	if h.card.State() != Covered {
		t.Errorf("State() = %v, want Covered", h.card.State())
	}
	if len(h.card.Particles()) != 0 {
		t.Errorf("%d particles survived reset", len(h.card.Particles()))
	}
	if h.card.MaskOpacity() != DefaultConfig().BaseOpacity || h.card.Coverage() != 0 {
		t.Errorf("mask not restored: opacity %v coverage %v", h.card.MaskOpacity(), h.card.Coverage())
	}
	pix := h.card.rc.Mask().Data()
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 255 {
			t.Fatalf("mask alpha at byte %d = %d after reset, want 255", i, pix[i])
		}
	}
	for icon, n := range iconCounts(h.card.Cells()) {
		if n != 3 {
			t.Errorf("icon %q appears %d times after reset, want 3", icon, n)
		}
	}

	// Scratching works again and can complete a second cycle.
	h.card.PointerDown(gg.Pt(80, 50))
	if got := h.rec.count(EventScratchStart); got != 1 {
		t.Errorf("scratch_start after reset emitted %d times, want 1", got)
	}
}

func TestResetDuringFadeCancelsIt(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	presetCoverage(h.card, 600)
	h.card.evaluate()
	h.frames(2)
	if h.card.State() != Revealing {
		t.Fatalf("State() = %v, want Revealing", h.card.State())
	}

	h.card.Reset()
	h.frames(30)
	if h.card.State() != Covered {
		t.Errorf("cancelled fade still completed: State() = %v", h.card.State())
	}
	if h.card.MaskOpacity() != DefaultConfig().BaseOpacity {
		t.Errorf("MaskOpacity() = %v after reset", h.card.MaskOpacity())
	}
}

func TestUnmountCancelsAnimations(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.card.PointerDown(gg.Pt(10, 10))
	presetCoverage(h.card, 600)
	h.card.PointerMove(gg.Pt(12, 10))
	if !h.card.Animating() {
		t.Fatal("no animation running after a reveal")
	}

	h.card.Unmount()
	if h.card.Animating() || h.loop.Pending() != 0 {
		t.Error("Unmount left frame callbacks pending")
	}
	if h.card.State() != Revealed {
		t.Errorf("State() after unmount mid-fade = %v, want Revealed", h.card.State())
	}
	h.frames(5)

	h.card.PointerDown(gg.Pt(10, 10))
	h.card.Render(gg.NewPixmap(160, 100))
	if got := h.rec.count(EventScratchStart); got != 1 {
		t.Errorf("input after unmount emitted events")
	}
}

func TestInputBeforeMountIgnored(t *testing.T) {
	rec := &recorder{}
	card, err := New(DefaultConfig(), testPalette, WithEmitter(rec))
	if err != nil {
		t.Fatal(err)
	}
	card.PointerDown(gg.Pt(1, 1))
	card.PointerMove(gg.Pt(2, 2))
	card.PointerUp()
	card.Render(nil)

	if len(rec.events) != 0 {
		t.Errorf("unmounted card emitted %v", rec.events)
	}
	if card.Coverage() != 0 || card.State() != Covered {
		t.Error("unmounted card changed state")
	}
}

func TestResizeRepaintsCoveredCard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BrushRadius = 10
	h := newHarness(t, cfg)
	h.card.PointerDown(gg.Pt(80, 50))
	h.card.PointerUp()
	if h.card.State() != Covered || h.card.Coverage() == 0 {
		t.Fatalf("before resize: State() = %v, Coverage() = %v; want a partly scratched covered card",
			h.card.State(), h.card.Coverage())
	}

	h.card.Resize(NewSurface(200, 120, 2))
	pm := h.card.rc.Mask()
	if pm.Width() != 400 || pm.Height() != 240 {
		t.Fatalf("mask after resize is %dx%d, want 400x240", pm.Width(), pm.Height())
	}
	if got := h.card.rc.Surface(); got.Width != 200 || got.Scale != 2 {
		t.Errorf("Surface() = %+v", got)
	}
	if h.card.Coverage() != 0 {
		t.Errorf("Coverage() after resize = %v, want 0", h.card.Coverage())
	}
	if a := buffer(pm).Alpha(160, 100); a != 255 {
		t.Errorf("resized mask alpha = %d, want 255", a)
	}
}

func TestResizeKeepsRevealedCardClear(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	presetCoverage(h.card, 600)
	h.card.evaluate()
	h.frames(30)

	h.card.Resize(NewSurface(120, 80, 1))
	if h.card.State() != Revealed {
		t.Errorf("State() = %v, want Revealed", h.card.State())
	}
	if a := buffer(h.card.rc.Mask()).Alpha(60, 40); a != 0 {
		t.Errorf("revealed mask alpha after resize = %d, want 0", a)
	}
}

func TestContact(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.card.Contact()
	if h.rec.count(EventContact) != 0 {
		t.Error("contact emitted while covered")
	}

	presetCoverage(h.card, 600)
	h.card.evaluate()
	h.frames(30)
	h.card.Contact()
	if h.rec.count(EventContact) != 1 {
		t.Error("contact not emitted on a revealed card")
	}
}

func TestRenderComposite(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	dst := gg.NewPixmap(160, 100)
	h.card.Render(dst)

	// Top-left corner has no icon; only the mask at base opacity.
	if a := buffer(dst).Alpha(0, 0); a != 199 {
		t.Errorf("covered corner alpha = %d, want 199 (0.78 opacity)", a)
	}

	wrong := gg.NewPixmap(10, 10)
	h.card.Render(wrong)
	for _, b := range wrong.Data() {
		if b != 0 {
			t.Fatal("Render wrote into a mismatched target")
		}
	}

	presetCoverage(h.card, 600)
	h.card.evaluate()
	h.frames(30)
	out := gg.NewPixmap(160, 100)
	h.card.Render(out)
	x, y, w, hh := CellRect(h.card.Surface(), 4)
	cx, cy := int(x+w/2), int(y+hh/2)
	if got, want := buffer(out).Alpha(cx, cy), buffer(h.card.rc.Content()).Alpha(cx, cy); got != want {
		t.Errorf("revealed render alpha = %d, want content alpha %d", got, want)
	}
	if a := buffer(out).Alpha(0, 0); a != 0 {
		t.Errorf("revealed corner alpha = %d, want 0", a)
	}
}
