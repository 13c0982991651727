/*
Package mask implements the per-tile annotation grid used to bake palette
bank and priority information into an indexed image.

An image is split into 8 by 8 pixel tiles. Each tile carries a 2-bit palette
bank selecting one of four 16 color palettes and a 1-bit priority flag, as
consumed by the Mega Drive VDP.
*/
package mask

import (
	"errors"
	"image"
)

const (
	// TileSize is the width and height of a tile in pixels
	TileSize = 8

	// Palettes is the number of selectable palette banks
	Palettes   = 4
	maxPalette = Palettes - 1
)

var (
	// ErrInvalidSize is returned when creating a mask with no tiles
	ErrInvalidSize = errors.New("mask: width and height must be positive")
	// ErrBadPalette is returned for a palette bank outside 0-3
	ErrBadPalette = errors.New("mask: invalid palette bank")
	// ErrBadPriority is returned for a priority other than 0 or 1
	ErrBadPriority = errors.New("mask: invalid priority")
)

// Tile is the annotation for one 8 by 8 block of pixels.
type Tile struct {
	x, y     int
	palette  int
	priority int
}

// X returns the column of the tile in the grid
func (t Tile) X() int { return t.x }

// Y returns the row of the tile in the grid
func (t Tile) Y() int { return t.y }

// Palette returns the palette bank, 0 to 3
func (t Tile) Palette() int { return t.palette }

// Priority returns the priority flag, 0 or 1
func (t Tile) Priority() int { return t.priority }

// Pack combines the low nibble of a source color index with the tile palette
// bank and priority into a 256 color index.
func (t Tile) Pack(index uint8) uint8 {
	return index&0x0f | uint8(t.palette)<<4 | uint8(t.priority)<<7
}

// Mask is a width by height grid of tiles stored in row-major order.
type Mask struct {
	width, height int
	tiles         []Tile
}

// New returns a mask of width by height tiles, all using palette 0 with low
// priority.
func New(width, height int) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}

	m := &Mask{
		width:  width,
		height: height,
		tiles:  make([]Tile, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.tiles[y*width+x] = Tile{x: x, y: y}
		}
	}
	return m, nil
}

// ForBounds returns a default mask covering every whole tile within r.
func ForBounds(r image.Rectangle) (*Mask, error) {
	return New(r.Dx()/TileSize, r.Dy()/TileSize)
}

// Width returns the number of tile columns
func (m *Mask) Width() int { return m.width }

// Height returns the number of tile rows
func (m *Mask) Height() int { return m.height }

// Bounds returns the tile grid as a rectangle
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

func (m *Mask) index(x, y int) (int, bool) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0, false
	}
	return y*m.width + x, true
}

// Tile returns the tile at x, y. The boolean is false if the coordinates are
// outside the grid.
func (m *Mask) Tile(x, y int) (Tile, bool) {
	i, ok := m.index(x, y)
	if !ok {
		return Tile{}, false
	}
	return m.tiles[i], true
}

// Tiles returns a copy of every tile in row-major order.
func (m *Mask) Tiles() []Tile {
	return append([]Tile(nil), m.tiles...)
}

func checkPalette(palette int) error {
	if palette < 0 || palette > maxPalette {
		return ErrBadPalette
	}
	return nil
}

func checkPriority(priority int) error {
	if priority != 0 && priority != 1 {
		return ErrBadPriority
	}
	return nil
}

// SetProperties sets both the palette bank and priority of the tile at x, y.
// Coordinates outside the grid are ignored.
func (m *Mask) SetProperties(x, y, palette, priority int) error {
	if err := checkPalette(palette); err != nil {
		return err
	}
	if err := checkPriority(priority); err != nil {
		return err
	}

	if i, ok := m.index(x, y); ok {
		m.tiles[i].palette, m.tiles[i].priority = palette, priority
	}
	return nil
}

// visit calls fn once for each distinct point that lies within the grid
func (m *Mask) visit(points []image.Point, fn func(*Tile)) {
	seen := make(map[int]struct{}, len(points))
	for _, p := range points {
		i, ok := m.index(p.X, p.Y)
		if !ok {
			continue
		}
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		fn(&m.tiles[i])
	}
}

// SetPropertiesBulk sets the palette bank and priority of every tile in
// points. Points outside the grid are ignored and duplicates are only applied
// once.
func (m *Mask) SetPropertiesBulk(points []image.Point, palette, priority int) error {
	if err := checkPalette(palette); err != nil {
		return err
	}
	if err := checkPriority(priority); err != nil {
		return err
	}

	m.visit(points, func(t *Tile) {
		t.palette, t.priority = palette, priority
	})
	return nil
}

// SetPalette changes only the palette bank of every tile in points
func (m *Mask) SetPalette(points []image.Point, palette int) error {
	if err := checkPalette(palette); err != nil {
		return err
	}
	m.visit(points, func(t *Tile) {
		t.palette = palette
	})
	return nil
}

// SetPriority changes only the priority of every tile in points
func (m *Mask) SetPriority(points []image.Point, priority int) error {
	if err := checkPriority(priority); err != nil {
		return err
	}
	m.visit(points, func(t *Tile) {
		t.priority = priority
	})
	return nil
}

// Clone returns an independent deep copy of the mask.
func (m *Mask) Clone() *Mask {
	return &Mask{
		width:  m.width,
		height: m.height,
		tiles:  m.Tiles(),
	}
}
