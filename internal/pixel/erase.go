// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pixel

import "math"

// destinationOut applies D' = D × (1 − Sa) to the alpha byte at index i.
// Color channels are kept; a straight-alpha pixel with zero alpha is invisible
// regardless of its color.
func destinationOut(pix []uint8, i int, sa uint8) bool {
	da := pix[i+3]
	if da == 0 || sa == 0 {
		return false
	}
	na := uint8(uint32(da) * uint32(255-sa) / 255)
	if na == da {
		return false
	}
	pix[i+3] = na
	return true
}

// EraseDisk removes alpha from every pixel whose center lies within radius r
// of (cx, cy). The brush is hard-edged and fully opaque, so the footprint
// becomes fully transparent and repeated calls change nothing further.
// It returns the number of pixels whose alpha changed.
func (b Buffer) EraseDisk(cx, cy, r float64) int {
	if b.Empty() || r <= 0 || math.IsNaN(cx) || math.IsNaN(cy) {
		return 0
	}
	area := b.Clip(Rect{
		MinX: int(math.Floor(cx - r)),
		MinY: int(math.Floor(cy - r)),
		MaxX: int(math.Ceil(cx+r)) + 1,
		MaxY: int(math.Ceil(cy+r)) + 1,
	})
	r2 := r * r
	changed := 0
	for y := area.MinY; y < area.MaxY; y++ {
		dy := float64(y) + 0.5 - cy
		for x := area.MinX; x < area.MaxX; x++ {
			dx := float64(x) + 0.5 - cx
			if dx*dx+dy*dy > r2 {
				continue
			}
			if destinationOut(b.Pix, b.Offset(x, y), 255) {
				changed++
			}
		}
	}
	return changed
}

// EraseCapsule removes alpha from every pixel whose center lies within
// halfWidth of the segment (x0, y0)–(x1, y1). This is a stroked line with
// round caps; consecutive capsules sharing endpoints also form round joins.
// It returns the number of pixels whose alpha changed.
func (b Buffer) EraseCapsule(x0, y0, x1, y1, halfWidth float64) int {
	if b.Empty() || halfWidth <= 0 {
		return 0
	}
	dx, dy := x1-x0, y1-y0
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return b.EraseDisk(x0, y0, halfWidth)
	}
	area := b.Clip(Rect{
		MinX: int(math.Floor(math.Min(x0, x1) - halfWidth)),
		MinY: int(math.Floor(math.Min(y0, y1) - halfWidth)),
		MaxX: int(math.Ceil(math.Max(x0, x1)+halfWidth)) + 1,
		MaxY: int(math.Ceil(math.Max(y0, y1)+halfWidth)) + 1,
	})
	hw2 := halfWidth * halfWidth
	changed := 0
	for y := area.MinY; y < area.MaxY; y++ {
		py := float64(y) + 0.5
		for x := area.MinX; x < area.MaxX; x++ {
			px := float64(x) + 0.5
			t := ((px-x0)*dx + (py-y0)*dy) / lenSq
			t = math.Max(0, math.Min(1, t))
			ex := px - (x0 + t*dx)
			ey := py - (y0 + t*dy)
			if ex*ex+ey*ey > hw2 {
				continue
			}
			if destinationOut(b.Pix, b.Offset(x, y), 255) {
				changed++
			}
		}
	}
	return changed
}

// Coverage samples the alpha of every stride-th pixel of the flattened buffer
// and counts how many fall below threshold. A stride below 1 samples every
// pixel.
func (b Buffer) Coverage(stride int, threshold uint8) (transparent, samples int) {
	if b.Empty() {
		return 0, 0
	}
	stride = max(stride, 1)
	n := b.Len()
	for p := 0; p < n; p += stride {
		if b.Pix[p*4+3] < threshold {
			transparent++
		}
		samples++
	}
	return transparent, samples
}

// SamplePoints calls fn with the coordinates of every pixel Coverage would
// sample, in order.
func (b Buffer) SamplePoints(stride int, fn func(x, y int)) {
	if b.Empty() {
		return
	}
	stride = max(stride, 1)
	for p := 0; p < b.Len(); p += stride {
		fn(p%b.Width, p/b.Width)
	}
}
