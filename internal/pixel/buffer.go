// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pixel implements byte-level operations on straight-alpha RGBA
// buffers: compositing, hard-edged erasure and stride sampling.
//
// All functions operate on the same memory layout as gg.Pixmap: 4 bytes per
// pixel, rows packed without padding, color channels not premultiplied.
package pixel

// Buffer is a view over straight-alpha RGBA bytes.
// It does not own Pix; callers keep the backing pixmap alive.
type Buffer struct {
	Pix    []uint8
	Width  int
	Height int
}

// New wraps pix as a width×height buffer.
// A pix slice shorter than width*height*4 yields an empty buffer.
func New(pix []uint8, width, height int) Buffer {
	if width <= 0 || height <= 0 || len(pix) < width*height*4 {
		return Buffer{}
	}
	return Buffer{Pix: pix, Width: width, Height: height}
}

// Empty reports whether the buffer has no pixels.
func (b Buffer) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Len returns the number of pixels.
func (b Buffer) Len() int {
	if b.Empty() {
		return 0
	}
	return b.Width * b.Height
}

// Offset returns the byte offset of pixel (x, y). The caller checks bounds.
func (b Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// Clear zeroes every byte.
func (b Buffer) Clear() {
	clear(b.Pix)
}

// Alpha returns the alpha byte of pixel (x, y), or 0 outside the buffer.
func (b Buffer) Alpha(x, y int) uint8 {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return 0
	}
	return b.Pix[b.Offset(x, y)+3]
}

// SetAlpha overwrites the alpha byte of pixel (x, y).
func (b Buffer) SetAlpha(x, y int, a uint8) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	b.Pix[b.Offset(x, y)+3] = a
}

// Rect is an integer pixel rectangle, Min inclusive and Max exclusive.
type Rect struct {
	MinX, MinY, MaxX, MaxY int
}

// Empty reports whether r contains no pixels.
func (r Rect) Empty() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

// Bounds returns the full buffer rectangle.
func (b Buffer) Bounds() Rect {
	return Rect{MaxX: b.Width, MaxY: b.Height}
}

// Clip intersects r with the buffer bounds.
func (b Buffer) Clip(r Rect) Rect {
	r.MinX = max(r.MinX, 0)
	r.MinY = max(r.MinY, 0)
	r.MaxX = min(r.MaxX, b.Width)
	r.MaxY = min(r.MaxY, b.Height)
	return r
}
