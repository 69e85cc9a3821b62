package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"io/fs"
	"sync"

	_ "golang.org/x/image/webp" // register WebP

	"github.com/gogpu/scratchcard"
)

// Poster runs a function on the UI goroutine. *scratchcard.FrameLoop
// implements it.
type Poster interface {
	Post(fn func())
}

// Files decodes icons from an fs.FS. An IconRef is a slash-separated path
// inside the file system.
//
// Decoding runs on its own goroutine; the completion is posted back so the
// content layer is only ever touched from the UI goroutine. Concurrent loads
// of the same path share one decode.
type Files struct {
	fsys fs.FS
	post Poster

	mu       sync.Mutex
	cache    map[scratchcard.IconRef]image.Image
	inflight map[scratchcard.IconRef][]func(image.Image, error)
}

// NewFiles creates a loader reading from fsys and delivering through post.
func NewFiles(fsys fs.FS, post Poster) *Files {
	return &Files{
		fsys:     fsys,
		post:     post,
		cache:    make(map[scratchcard.IconRef]image.Image),
		inflight: make(map[scratchcard.IconRef][]func(image.Image, error)),
	}
}

// Load implements scratchcard.AssetLoader. Cached images complete
// synchronously.
func (f *Files) Load(ref scratchcard.IconRef, done func(image.Image, error)) {
	f.mu.Lock()
	if img, ok := f.cache[ref]; ok {
		f.mu.Unlock()
		done(img, nil)
		return
	}
	waiters, busy := f.inflight[ref]
	f.inflight[ref] = append(waiters, done)
	f.mu.Unlock()
	if busy {
		return
	}

	go func() {
		img, err := f.decode(ref)

		f.mu.Lock()
		if err == nil {
			f.cache[ref] = img
		}
		waiters := f.inflight[ref]
		delete(f.inflight, ref)
		f.mu.Unlock()

		f.post.Post(func() {
			for _, w := range waiters {
				w(img, err)
			}
		})
	}()
}

func (f *Files) decode(ref scratchcard.IconRef) (image.Image, error) {
	file, err := f.fsys.Open(string(ref))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("assets: %q: %w", ref, scratchcard.ErrUnknownIcon)
		}
		return nil, fmt.Errorf("assets: open %q: %w", ref, err)
	}
	defer func() { _ = file.Close() }()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("assets: decode %q: %w", ref, err)
	}
	scratchcard.Logger().Debug("assets: decoded icon", "icon", ref, "format", format, "size", img.Bounds().Size())
	return img, nil
}

// Cached reports whether ref has been decoded successfully.
func (f *Files) Cached(ref scratchcard.IconRef) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.cache[ref]
	return ok
}
