package scratchcard

import (
	"math"
	"testing"

	"github.com/gogpu/gg"
)

func TestSurfacePixelSize(t *testing.T) {
	tests := []struct {
		name  string
		s     Surface
		wantW int
		wantH int
	}{
		{"unit scale", NewSurface(320, 200, 1), 320, 200},
		{"retina", NewSurface(320, 200, 2), 640, 400},
		{"fractional", NewSurface(101, 51, 1.5), 152, 77},
		{"zero scale falls back", NewSurface(10, 10, 0), 10, 10},
		{"nan scale falls back", NewSurface(10, 10, math.NaN()), 10, 10},
		{"zero width", NewSurface(0, 10, 1), 0, 0},
		{"negative height", Surface{Width: 10, Height: -1, Scale: 1}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.s.PixelSize()
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("PixelSize() = %d, %d; want %d, %d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestSurfaceToPixel(t *testing.T) {
	x, y := NewSurface(100, 100, 2).ToPixel(gg.Pt(10, 20.5))
	if x != 20 || y != 41 {
		t.Errorf("ToPixel() = %v, %v; want 20, 41", x, y)
	}
}

func TestRenderContextBuffers(t *testing.T) {
	rc := NewRenderContext(NewSurface(40, 30, 2))
	if !rc.Ready() {
		t.Fatal("Ready() = false")
	}
	for name, pm := range map[string]*gg.Pixmap{"content": rc.Content(), "mask": rc.Mask(), "effects": rc.Effects()} {
		if pm == nil || pm.Width() != 80 || pm.Height() != 60 {
			t.Errorf("%s pixmap has wrong size", name)
		}
	}

	if err := rc.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := rc.Close(); err != nil {
		t.Fatalf("second Close() = %v", err)
	}
	if rc.Ready() || rc.Mask() != nil {
		t.Error("closed context still exposes buffers")
	}
}

func TestRenderContextNil(t *testing.T) {
	var rc *RenderContext
	if rc.Ready() || rc.Mask() != nil || !rc.Surface().Empty() {
		t.Error("nil RenderContext should behave as unmounted")
	}
	if err := rc.Close(); err != nil {
		t.Errorf("nil Close() = %v", err)
	}
}
