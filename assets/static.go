package assets

import (
	"fmt"
	"image"

	"github.com/gogpu/scratchcard"
)

// Static is an in-memory loader. Load completes before returning.
type Static map[scratchcard.IconRef]image.Image

// Load implements scratchcard.AssetLoader.
func (s Static) Load(ref scratchcard.IconRef, done func(image.Image, error)) {
	img, ok := s[ref]
	if !ok {
		done(nil, fmt.Errorf("assets: %q: %w", ref, scratchcard.ErrUnknownIcon))
		return
	}
	done(img, nil)
}

// Refs returns the icon references in s, in no particular order.
func (s Static) Refs() []scratchcard.IconRef {
	refs := make([]scratchcard.IconRef, 0, len(s))
	for ref := range s {
		refs = append(refs, ref)
	}
	return refs
}
