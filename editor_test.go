package tilemask

import (
	"image"
	"image/color"
	"io/ioutil"
	"log"
	"testing"

	"github.com/bodgit/tilemask/indexed"
	"github.com/bodgit/tilemask/mask"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
	red   = color.RGBA{0xff, 0x00, 0x00, 0xff}
	green = color.RGBA{0x00, 0xff, 0x00, 0xff}
	blue  = color.RGBA{0x00, 0x00, 0xff, 0xff}
)

func discard() *log.Logger {
	return log.New(ioutil.Discard, "", 0)
}

func testImage(width, height int, index uint8) *image.Paletted {
	m := image.NewPaletted(image.Rect(0, 0, width, height), color.Palette{white, red, green, blue})
	for i := range m.Pix {
		m.Pix[i] = index
	}
	return m
}

func TestEditorNoAssets(t *testing.T) {
	e := NewEditor(discard())
	assert.Equal(t, NoAssets, e.State())

	_, err := e.Mask()
	assert.Equal(t, indexed.ErrNoAssetsLoaded, err)
	_, err = e.Export()
	assert.Equal(t, indexed.ErrNoAssetsLoaded, err)

	m, err := mask.New(2, 2)
	require.Nil(t, err)
	assert.Equal(t, indexed.ErrNoAssetsLoaded, e.LoadMask(m))
	assert.Equal(t, indexed.ErrNoAssetsLoaded, e.SetTiles([]image.Point{{0, 0}}, 1, 1))
	assert.False(t, e.Undo())

	_, ok := e.Tile(0, 0)
	assert.False(t, ok)
}

func TestEditorLoadImage(t *testing.T) {
	e := NewEditor(discard())

	assert.Equal(t, indexed.ErrNotIndexed, e.LoadImage(image.NewRGBA(image.Rect(0, 0, 16, 16))))
	assert.Equal(t, NoAssets, e.State())

	assert.Equal(t, mask.ErrInvalidSize, e.LoadImage(testImage(4, 16, 1)))
	assert.Equal(t, NoAssets, e.State())

	require.Nil(t, e.LoadImage(testImage(20, 16, 1)))
	assert.Equal(t, ImageLoaded, e.State())

	m, err := e.Mask()
	require.Nil(t, err)
	assert.Equal(t, 2, m.Width())
	assert.Equal(t, 2, m.Height())

	// A failed load keeps the current session
	bad := testImage(16, 16, 1)
	bad.Pix[0] = 16
	assert.Equal(t, indexed.ErrTooManyColors, e.LoadImage(bad))
	m, err = e.Mask()
	require.Nil(t, err)
	assert.Equal(t, 2, m.Width())
}

func TestEditorLoadImageClearsHistory(t *testing.T) {
	e := NewEditor(discard())
	require.Nil(t, e.LoadImage(testImage(16, 16, 1)))
	require.Nil(t, e.SetTiles([]image.Point{{0, 0}}, 1, 0))
	assert.Equal(t, 1, e.UndoLen())

	require.Nil(t, e.LoadImage(testImage(16, 16, 2)))
	assert.Equal(t, 0, e.UndoLen())
	assert.False(t, e.Undo())

	tile, ok := e.Tile(0, 0)
	require.True(t, ok)
	assert.Equal(t, 0, tile.Palette())
}

func TestEditorLoadMask(t *testing.T) {
	e := NewEditor(discard())
	require.Nil(t, e.LoadImage(testImage(16, 16, 1)))
	require.Nil(t, e.SetTiles([]image.Point{{0, 0}}, 1, 0))

	wrong, err := mask.New(3, 2)
	require.Nil(t, err)
	assert.Equal(t, indexed.ErrMaskMismatch, e.LoadMask(wrong))
	assert.Equal(t, 1, e.UndoLen())

	m, err := mask.New(2, 2)
	require.Nil(t, err)
	require.Nil(t, m.SetProperties(1, 0, 3, 1))
	require.Nil(t, e.LoadMask(m))
	assert.Equal(t, 0, e.UndoLen())

	// The editor holds its own copy
	require.Nil(t, m.SetProperties(1, 0, 0, 0))
	tile, _ := e.Tile(1, 0)
	assert.Equal(t, 3, tile.Palette())
	assert.Equal(t, 1, tile.Priority())
}

func TestEditorUndo(t *testing.T) {
	e := NewEditor(discard())
	require.Nil(t, e.LoadImage(testImage(32, 32, 1)))

	var before []*mask.Mask
	edits := []func() error{
		func() error { return e.SetTiles([]image.Point{{0, 0}, {1, 1}}, 2, 1) },
		func() error { return e.SetPalette([]image.Point{{0, 0}}, 3) },
		func() error { return e.SetPriority([]image.Point{{1, 1}, {2, 2}}, 1) },
		func() error { return e.SetTiles([]image.Point{{3, 3}}, 1, 0) },
	}
	for _, edit := range edits {
		m, err := e.Mask()
		require.Nil(t, err)
		before = append(before, m)
		require.Nil(t, edit())
	}

	for i := len(edits) - 1; i >= 0; i-- {
		require.True(t, e.Undo())
		m, err := e.Mask()
		require.Nil(t, err)
		if !assert.Equal(t, before[i], m) {
			t.Fatalf("undo %d: state: %s", i, spew.Sdump(m.Tiles()))
		}
	}
	assert.False(t, e.Undo())
}

func TestEditorEditAfterUndo(t *testing.T) {
	e := NewEditor(discard())
	require.Nil(t, e.LoadImage(testImage(16, 16, 1)))

	palette := func() int {
		tile, ok := e.Tile(0, 0)
		require.True(t, ok)
		return tile.Palette()
	}

	require.Nil(t, e.SetPalette([]image.Point{{0, 0}}, 1))
	require.Nil(t, e.SetPalette([]image.Point{{0, 0}}, 2))
	require.True(t, e.Undo())
	assert.Equal(t, 1, palette())

	// The restored mask is live again and must not alter older snapshots
	require.Nil(t, e.SetPalette([]image.Point{{0, 0}}, 3))
	assert.Equal(t, 3, palette())
	require.True(t, e.Undo())
	assert.Equal(t, 1, palette())
	require.True(t, e.Undo())
	assert.Equal(t, 0, palette())
	assert.False(t, e.Undo())
}

func TestEditorInvalidEditNotRecorded(t *testing.T) {
	e := NewEditor(discard())
	require.Nil(t, e.LoadImage(testImage(16, 16, 1)))

	assert.Equal(t, mask.ErrBadPalette, e.SetTiles([]image.Point{{0, 0}}, 4, 0))
	assert.Equal(t, mask.ErrBadPriority, e.SetPriority([]image.Point{{0, 0}}, 2))
	assert.Equal(t, 0, e.UndoLen())
}

func TestEditorUndoBounded(t *testing.T) {
	e := NewEditor(discard())
	require.Nil(t, e.LoadImage(testImage(16, 16, 1)))

	for i := 0; i < mask.HistorySize+3; i++ {
		require.Nil(t, e.SetPalette([]image.Point{{0, 0}}, i%mask.Palettes))
	}
	assert.Equal(t, mask.HistorySize, e.UndoLen())

	for i := 0; i < mask.HistorySize; i++ {
		assert.True(t, e.Undo())
	}
	assert.False(t, e.Undo())

	// Oldest retained state was before the fourth edit, which set palette 3
	tile, _ := e.Tile(0, 0)
	assert.Equal(t, 2, tile.Palette())
}

func TestEditorExport(t *testing.T) {
	e := NewEditor(discard())
	require.Nil(t, e.LoadImage(testImage(16, 16, 1)))

	out, err := e.Export()
	require.Nil(t, err)
	for _, v := range out.Pix {
		assert.Equal(t, uint8(1), v)
	}

	require.Nil(t, e.SetTiles([]image.Point{{1, 1}}, 2, 1))
	out, err = e.Export()
	require.Nil(t, err)
	assert.Equal(t, uint8(0xa1), out.ColorIndexAt(15, 15))
	assert.Equal(t, uint8(0x01), out.ColorIndexAt(7, 15))

	r1, g1, b1, _ := out.Palette[0xa1].RGBA()
	r2, g2, b2, _ := red.RGBA()
	assert.Equal(t, [3]uint32{r2, g2, b2}, [3]uint32{r1, g1, b1})

	require.True(t, e.Undo())
	out, err = e.Export()
	require.Nil(t, err)
	assert.Equal(t, uint8(0x01), out.ColorIndexAt(15, 15))
}
