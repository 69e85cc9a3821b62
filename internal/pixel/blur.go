// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pixel

// BoxBlur blurs a single-channel plane in place with a separable box filter
// of the given radius, run twice to approximate a gaussian falloff.
func BoxBlur(plane []uint8, width, height, radius int) {
	if radius <= 0 || width <= 0 || height <= 0 || len(plane) < width*height {
		return
	}
	tmp := make([]uint8, width*height)
	for range 2 {
		blurRows(tmp, plane, width, height, radius)
		blurCols(plane, tmp, width, height, radius)
	}
}

func blurRows(dst, src []uint8, width, height, radius int) {
	window := 2*radius + 1
	for y := 0; y < height; y++ {
		row := y * width
		sum := 0
		for i := -radius; i <= radius; i++ {
			sum += int(src[row+clampIndex(i, width)])
		}
		for x := 0; x < width; x++ {
			dst[row+x] = uint8(sum / window)
			sum += int(src[row+clampIndex(x+radius+1, width)])
			sum -= int(src[row+clampIndex(x-radius, width)])
		}
	}
}

func blurCols(dst, src []uint8, width, height, radius int) {
	window := 2*radius + 1
	for x := 0; x < width; x++ {
		sum := 0
		for i := -radius; i <= radius; i++ {
			sum += int(src[clampIndex(i, height)*width+x])
		}
		for y := 0; y < height; y++ {
			dst[y*width+x] = uint8(sum / window)
			sum += int(src[clampIndex(y+radius+1, height)*width+x])
			sum -= int(src[clampIndex(y-radius, height)*width+x])
		}
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
