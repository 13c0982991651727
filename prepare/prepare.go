/*
Package prepare converts arbitrary images into sources accepted by the indexed
package.

The result is a paletted image using no more than 16 colors whose palette is
padded to 256 entries, so that it is stored at 8 bits per pixel when written
as a PNG. The image can optionally be resized so that both dimensions are a
whole number of tiles.
*/
package prepare

import (
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"

	"github.com/KononK/resize"
	"github.com/bodgit/tilemask/indexed"
	"github.com/bodgit/tilemask/mask"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/esimov/colorquant"
)

const (
	maxColors   = indexed.MaxColorIndex + 1
	paletteSize = 256
)

var errTooManyColors = errors.New("prepare: unable to reduce image to 16 colors")

// Quantizer selects the color reduction algorithm
type Quantizer int

const (
	// MedianCut reduces colors with a median cut quantizer
	MedianCut Quantizer = iota
	// Dither reduces colors with Floyd-Steinberg error diffusion
	Dither
)

// Options control the conversion
type Options struct {
	Quantizer Quantizer
	// Snap resizes the image down to a whole number of tiles
	Snap bool
}

var floydSteinberg = [][]float32{
	{0.0, 0.0, 0.0, 7.0 / 48.0, 5.0 / 48.0},
	{3.0 / 48.0, 5.0 / 48.0, 7.0 / 48.0, 5.0 / 48.0, 3.0 / 48.0},
	{1.0 / 48.0, 3.0 / 48.0, 5.0 / 48.0, 3.0 / 48.0, 1.0 / 48.0},
}

func snap(n int) uint {
	if n < mask.TileSize {
		return mask.TileSize
	}
	return uint(n - n%mask.TileSize)
}

// compact rebuilds m with a palette containing only the colors it uses, in
// order of first appearance
func compact(m image.Image) (*image.Paletted, bool) {
	b := m.Bounds()
	p := make(color.Palette, 0, maxColors)
	seen := make(map[color.Color]uint8)

	out := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), nil)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y))
			i, ok := seen[c]
			if !ok {
				if len(p) == maxColors {
					return nil, false
				}
				i = uint8(len(p))
				seen[c] = i
				p = append(p, c)
			}
			out.SetColorIndex(x-b.Min.X, y-b.Min.Y, i)
		}
	}
	out.Palette = p
	return out, true
}

func pad(p color.Palette) color.Palette {
	out := make(color.Palette, paletteSize)
	for i := range out {
		out[i] = color.NRGBA{0, 0, 0, 0xff}
	}
	copy(out, p)
	return out
}

func medianCut(m image.Image) image.Image {
	b := m.Bounds()
	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, maxColors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

func dither(m image.Image) image.Image {
	d := colorquant.Dither{Filter: floydSteinberg}
	dst := image.NewPaletted(m.Bounds(), palette.WebSafe)
	return d.Quantize(m, dst, maxColors, true, true)
}

// Convert returns m as a paletted image of at most 16 colors.
func Convert(m image.Image, o Options) (*image.Paletted, error) {
	if o.Snap {
		b := m.Bounds()
		if b.Dx()%mask.TileSize != 0 || b.Dy()%mask.TileSize != 0 {
			m = resize.Resize(snap(b.Dx()), snap(b.Dy()), m, resize.NearestNeighbor)
		}
	}

	// Already few enough colors, just normalize the palette
	if pm, ok := compact(m); ok {
		pm.Palette = pad(pm.Palette)
		return pm, nil
	}

	var q image.Image
	switch o.Quantizer {
	case Dither:
		q = dither(m)
	default:
		q = medianCut(m)
	}

	pm, ok := compact(q)
	if !ok && o.Quantizer == Dither {
		// Error diffusion can reintroduce colors outside the reduced palette
		pm, ok = compact(medianCut(q))
	}
	if !ok {
		return nil, errTooManyColors
	}
	pm.Palette = pad(pm.Palette)
	return pm, nil
}
