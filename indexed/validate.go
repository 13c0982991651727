package indexed

import (
	"image"
	"image/color"
)

type bitDepther interface {
	BitDepth() int
}

// paletted returns the palette-based view of m, unwrapping a Source
func paletted(m image.Image) (image.PalettedImage, color.Palette, bool) {
	if s, ok := m.(*Source); ok {
		m = s.Image
	}
	pm, ok := m.(image.PalettedImage)
	if !ok {
		return nil, nil, false
	}
	p, ok := pm.ColorModel().(color.Palette)
	if !ok || len(p) == 0 {
		return nil, nil, false
	}
	return pm, p, true
}

// An in-memory paletted image always holds one byte per pixel
func bitDepth(m image.Image) int {
	if d, ok := m.(bitDepther); ok {
		return d.BitDepth()
	}
	return BitDepth
}

// Validate checks that m can be encoded. It returns ErrNotIndexed,
// ErrNotEightBpp or ErrTooManyColors for the first check that fails, in that
// order.
func Validate(m image.Image) error {
	pm, _, ok := paletted(m)
	if !ok {
		return ErrNotIndexed
	}

	if bitDepth(m) != BitDepth {
		return ErrNotEightBpp
	}

	b := pm.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if pm.ColorIndexAt(x, y) > MaxColorIndex {
				return ErrTooManyColors
			}
		}
	}

	return nil
}
