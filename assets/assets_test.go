package assets

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gogpu/scratchcard"
)

// chanPoster hands posted functions to the test goroutine.
type chanPoster chan func()

func (p chanPoster) Post(fn func()) { p <- fn }

func (p chanPoster) run(t *testing.T) {
	t.Helper()
	select {
	case fn := <-p:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a posted completion")
	}
}

func encoded(t *testing.T, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"icons/a.png":   {Data: encoded(t, func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) })},
		"icons/b.jpg":   {Data: encoded(t, func(b *bytes.Buffer, m image.Image) error { return jpeg.Encode(b, m, nil) })},
		"icons/bad.png": {Data: []byte("not an image")},
	}
}

func TestFilesDecodesOffThread(t *testing.T) {
	post := make(chanPoster, 4)
	f := NewFiles(testFS(t), post)

	for _, ref := range []scratchcard.IconRef{"icons/a.png", "icons/b.jpg"} {
		var got image.Image
		var gotErr error
		called := false
		f.Load(ref, func(img image.Image, err error) { got, gotErr, called = img, err, true })
		if called {
			t.Fatalf("%s: first load completed synchronously", ref)
		}
		post.run(t)
		if gotErr != nil {
			t.Fatalf("%s: load error = %v", ref, gotErr)
		}
		if got.Bounds().Dx() != 8 || got.Bounds().Dy() != 6 {
			t.Errorf("%s: decoded size = %v", ref, got.Bounds())
		}
		if !f.Cached(ref) {
			t.Errorf("%s: not cached after decode", ref)
		}
	}
}

func TestFilesCacheHitIsSynchronous(t *testing.T) {
	post := make(chanPoster, 1)
	f := NewFiles(testFS(t), post)
	f.Load("icons/a.png", func(image.Image, error) {})
	post.run(t)

	called := false
	f.Load("icons/a.png", func(img image.Image, err error) { called = err == nil && img != nil })
	if !called {
		t.Error("cached load did not complete synchronously")
	}
}

func TestFilesSharesInflightDecode(t *testing.T) {
	post := make(chanPoster, 4)
	f := NewFiles(testFS(t), post)
	calls := 0
	for range 3 {
		f.Load("icons/a.png", func(image.Image, error) { calls++ })
	}
	post.run(t)

	if calls != 3 {
		t.Errorf("%d callbacks ran, want 3", calls)
	}
	select {
	case <-post:
		t.Error("duplicate loads posted more than one completion")
	default:
	}
}

func TestFilesErrors(t *testing.T) {
	tests := []struct {
		ref     scratchcard.IconRef
		unknown bool
	}{
		{"icons/missing.png", true},
		{"icons/bad.png", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.ref), func(t *testing.T) {
			post := make(chanPoster, 1)
			f := NewFiles(testFS(t), post)
			var gotErr error
			f.Load(tt.ref, func(_ image.Image, err error) { gotErr = err })
			post.run(t)

			if gotErr == nil {
				t.Fatal("load succeeded, want error")
			}
			if errors.Is(gotErr, scratchcard.ErrUnknownIcon) != tt.unknown {
				t.Errorf("error = %v, unknown icon = %v", gotErr, tt.unknown)
			}
			if f.Cached(tt.ref) {
				t.Error("failed load was cached")
			}
		})
	}
}

func TestFilesDeliversThroughFrameLoop(t *testing.T) {
	loop := scratchcard.NewFrameLoop()
	f := NewFiles(testFS(t), loop)
	done := make(chan struct{})
	var decoded image.Image
	f.Load("icons/a.png", func(img image.Image, _ error) {
		decoded = img
		close(done)
	})

	deadline := time.Now().Add(5 * time.Second)
	for decoded == nil && time.Now().Before(deadline) {
		loop.Step(time.Now())
		time.Sleep(time.Millisecond)
	}
	select {
	case <-done:
	default:
		t.Fatal("completion never delivered by Step")
	}
}

func TestStatic(t *testing.T) {
	icon := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	s := Static{"x": icon}

	var got image.Image
	s.Load("x", func(img image.Image, _ error) { got = img })
	if got != icon {
		t.Error("Static did not return the registered image")
	}

	var err error
	s.Load("y", func(_ image.Image, e error) { err = e })
	if !errors.Is(err, scratchcard.ErrUnknownIcon) {
		t.Errorf("missing icon error = %v, want ErrUnknownIcon", err)
	}
	if len(s.Refs()) != 1 {
		t.Errorf("Refs() = %v", s.Refs())
	}
}

func TestDemoIcons(t *testing.T) {
	d := Demo(64)
	if len(d) != len(DemoPalette) {
		t.Fatalf("Demo has %d icons, want %d", len(d), len(DemoPalette))
	}
	for _, ref := range DemoPalette {
		img, ok := d[ref]
		if !ok {
			t.Fatalf("icon %q missing", ref)
		}
		if img.Bounds().Dx() != 64 {
			t.Errorf("%q width = %d", ref, img.Bounds().Dx())
		}
		_, _, _, a := img.At(32, 32).RGBA()
		if a == 0 {
			t.Errorf("%q is transparent at its center", ref)
		}
		_, _, _, a = img.At(0, 0).RGBA()
		if a != 0 {
			t.Errorf("%q is painted in its corner", ref)
		}
	}
}
