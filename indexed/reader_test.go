package indexed

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/bodgit/tilemask/mask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

// padded returns p extended to 256 entries so encoders store 8 bits per pixel
func padded(p color.Palette) color.Palette {
	out := make(color.Palette, 256)
	for i := range out {
		out[i] = color.RGBA{0, 0, 0, 0xff}
	}
	copy(out, p)
	return out
}

func TestDecodePNG(t *testing.T) {
	tables := []struct {
		name    string
		palette color.Palette
		depth   int
		err     error
	}{
		{"sixteen entries", sixteenColors(), 4, ErrNotEightBpp},
		{"256 entries", padded(sixteenColors()), 8, nil},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			m := newImage(16, 8, table.palette, func(x, y int) uint8 { return uint8(x) })

			b := new(bytes.Buffer)
			require.Nil(t, png.Encode(b, m))

			s, format, err := Decode(b)
			require.Nil(t, err)
			assert.Equal(t, "png", format)
			assert.Equal(t, table.depth, s.BitDepth())
			assert.Equal(t, table.err, Validate(s))
		})
	}
}

func TestDecodeTrueColorPNG(t *testing.T) {
	b := new(bytes.Buffer)
	require.Nil(t, png.Encode(b, image.NewNRGBA(image.Rect(0, 0, 8, 8))))

	s, _, err := Decode(b)
	require.Nil(t, err)
	assert.Equal(t, ErrNotIndexed, Validate(s))
}

func TestDecodeGIF(t *testing.T) {
	m := newImage(8, 8, sixteenColors(), func(x, y int) uint8 { return uint8(y) })

	b := new(bytes.Buffer)
	require.Nil(t, gif.Encode(b, m, nil))

	s, format, err := Decode(b)
	require.Nil(t, err)
	assert.Equal(t, "gif", format)
	assert.Equal(t, 8, s.BitDepth())
	assert.Nil(t, Validate(s))
}

func TestDecodeBMP(t *testing.T) {
	m := newImage(8, 8, padded(sixteenColors()), func(x, y int) uint8 { return uint8(x) })

	b := new(bytes.Buffer)
	require.Nil(t, bmp.Encode(b, m))

	s, format, err := Decode(b)
	require.Nil(t, err)
	assert.Equal(t, "bmp", format)
	assert.Equal(t, 8, s.BitDepth())
	assert.Nil(t, Validate(s))
}

func TestDecodeGarbage(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("not an image")))
	assert.Equal(t, image.ErrFormat, err)
}

func TestEncode(t *testing.T) {
	m := newImage(16, 16, sixteenColors(), func(x, y int) uint8 { return 2 })
	mk, err := mask.ForBounds(m.Bounds())
	require.Nil(t, err)
	require.Nil(t, mk.SetProperties(0, 0, 1, 1))

	b := new(bytes.Buffer)
	require.Nil(t, Encode(b, m, mk))

	s, _, err := Decode(b)
	require.Nil(t, err)
	assert.Equal(t, 8, s.BitDepth())

	pm, ok := s.Image.(*image.Paletted)
	require.True(t, ok)
	assert.Len(t, pm.Palette, 256)
	assert.Equal(t, uint8(0x92), pm.ColorIndexAt(0, 0))
	assert.Equal(t, uint8(0x02), pm.ColorIndexAt(8, 8))
}
