// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pixel

import "math"

// Color is a straight-alpha color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func from8(v uint8) float64 {
	return float64(v) / 255
}

// Set overwrites pixel (x, y) with c.
func (b Buffer) Set(x, y int, c Color) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	i := b.Offset(x, y)
	b.Pix[i] = to8(c.R)
	b.Pix[i+1] = to8(c.G)
	b.Pix[i+2] = to8(c.B)
	b.Pix[i+3] = to8(c.A)
}

// BlendOver composites c over pixel (x, y) using the source-over operator.
func (b Buffer) BlendOver(x, y int, c Color) {
	if c.A <= 0 || x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	i := b.Offset(x, y)
	over(b.Pix[i:i+4:i+4], c)
}

func over(d []uint8, c Color) {
	sa := math.Min(c.A, 1)
	da := from8(d[3])
	oa := sa + da*(1-sa)
	if oa <= 0 {
		d[0], d[1], d[2], d[3] = 0, 0, 0, 0
		return
	}
	k := da * (1 - sa)
	d[0] = to8((c.R*sa + from8(d[0])*k) / oa)
	d[1] = to8((c.G*sa + from8(d[1])*k) / oa)
	d[2] = to8((c.B*sa + from8(d[2])*k) / oa)
	d[3] = to8(oa)
}

// BlendPlus adds c to pixel (x, y) in premultiplied space, saturating at 1.
// This is the "lighter" operator used for glowing particles.
func (b Buffer) BlendPlus(x, y int, c Color) {
	if c.A <= 0 || x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	i := b.Offset(x, y)
	d := b.Pix[i : i+4 : i+4]

	da := from8(d[3])
	sa := math.Min(c.A, 1)
	oa := math.Min(da+sa, 1)
	if oa <= 0 {
		return
	}
	r := math.Min(from8(d[0])*da+c.R*sa, 1)
	g := math.Min(from8(d[1])*da+c.G*sa, 1)
	bl := math.Min(from8(d[2])*da+c.B*sa, 1)
	d[0] = to8(r / oa)
	d[1] = to8(g / oa)
	d[2] = to8(bl / oa)
	d[3] = to8(oa)
}

// Over composites every pixel of src over b. Both buffers must have the same
// dimensions; mismatched buffers are left untouched.
func (b Buffer) Over(src Buffer, opacity float64) {
	if b.Width != src.Width || b.Height != src.Height || opacity <= 0 {
		return
	}
	for i := 0; i < len(src.Pix) && i < len(b.Pix); i += 4 {
		sa := src.Pix[i+3]
		if sa == 0 {
			continue
		}
		over(b.Pix[i:i+4:i+4], Color{
			R: from8(src.Pix[i]),
			G: from8(src.Pix[i+1]),
			B: from8(src.Pix[i+2]),
			A: from8(sa) * opacity,
		})
	}
}

// Jitter adds an independent uniform offset in [-amp/2, amp/2) to the color
// channels of every pixel, saturating at the 8-bit range. Alpha is untouched.
// next must return values in [0, 1).
func (b Buffer) Jitter(amp float64, next func() float64) {
	if amp <= 0 {
		return
	}
	for i := 0; i+3 < len(b.Pix) && i < b.Len()*4; i += 4 {
		n := next()*amp - amp/2
		b.Pix[i] = clampAdd(b.Pix[i], n)
		b.Pix[i+1] = clampAdd(b.Pix[i+1], n)
		b.Pix[i+2] = clampAdd(b.Pix[i+2], n)
	}
}

func clampAdd(v uint8, n float64) uint8 {
	f := float64(v) + n
	if f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return uint8(f)
}

// Premultiply writes b into dst as premultiplied RGBA, the layout expected by
// GPU texture uploads. dst must hold at least b.Len()*4 bytes.
func (b Buffer) Premultiply(dst []uint8) {
	n := min(len(dst), b.Len()*4)
	for i := 0; i+3 < n; i += 4 {
		a := uint32(b.Pix[i+3])
		dst[i] = uint8(uint32(b.Pix[i]) * a / 255)
		dst[i+1] = uint8(uint32(b.Pix[i+1]) * a / 255)
		dst[i+2] = uint8(uint32(b.Pix[i+2]) * a / 255)
		dst[i+3] = uint8(a)
	}
}
