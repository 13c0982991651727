package indexed

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/bodgit/tilemask/mask"
)

// ExpandPalette builds the 256 color palette by repeating the first 16
// entries of p sixteen times. Palettes with fewer than 16 entries wrap around
// rather than being padded.
func ExpandPalette(p color.Palette) color.Palette {
	out := make(color.Palette, paletteSize)
	for i := 0; i < numPalettes; i++ {
		for j := 0; j < colorsPerPalette; j++ {
			// Only the RGB components are kept, as an opaque color
			c := color.NRGBAModel.Convert(p[j%len(p)]).(color.NRGBA)
			c.A = 0xff
			out[i*colorsPerPalette+j] = c
		}
	}
	return out
}

// ApplyMask returns a copy of m re-indexed against the expanded palette using
// the palette bank and priority of each tile in mk. Pixels beyond the last
// whole tile column or row keep their original index.
func ApplyMask(m image.Image, mk *mask.Mask) (*image.Paletted, error) {
	if m == nil || mk == nil {
		return nil, ErrNoAssetsLoaded
	}

	pm, p, ok := paletted(m)
	if !ok {
		return nil, ErrNotIndexed
	}

	b := pm.Bounds()
	if mk.Width() != b.Dx()/mask.TileSize || mk.Height() != b.Dy()/mask.TileSize {
		return nil, ErrMaskMismatch
	}

	width, height := b.Dx(), b.Dy()
	out := image.NewPaletted(image.Rect(0, 0, width, height), ExpandPalette(p))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.Pix[y*out.Stride+x] = pm.ColorIndexAt(b.Min.X+x, b.Min.Y+y) & 0x0f
		}
	}

	for ty := 0; ty < mk.Height(); ty++ {
		for tx := 0; tx < mk.Width(); tx++ {
			tile, _ := mk.Tile(tx, ty)
			for y := 0; y < mask.TileSize; y++ {
				for x := 0; x < mask.TileSize; x++ {
					px := tx*mask.TileSize + x
					py := ty*mask.TileSize + y

					if px >= width || py >= height {
						continue
					}

					i := py*out.Stride + px
					out.Pix[i] = tile.Pack(out.Pix[i])
				}
			}
		}
	}

	return out, nil
}

// Encode applies mk to m and writes the result to w as an 8-bit PNG.
func Encode(w io.Writer, m image.Image, mk *mask.Mask) error {
	out, err := ApplyMask(m, mk)
	if err != nil {
		return err
	}
	return png.Encode(w, out)
}
