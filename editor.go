package tilemask

import (
	"image"
	"log"

	"github.com/bodgit/tilemask/indexed"
	"github.com/bodgit/tilemask/mask"
)

// State is the stage an Editor session has reached
type State int

const (
	// NoAssets means no image has been loaded
	NoAssets State = iota
	// ImageLoaded means a valid image and its mask are available
	ImageLoaded
)

func (s State) String() string {
	if s == ImageLoaded {
		return "image loaded"
	}
	return "no assets"
}

// Editor is a single editing session: one validated image, the mask being
// edited and the undo history for that mask. It is not safe for concurrent
// use.
type Editor struct {
	image   image.Image
	mask    *mask.Mask
	history mask.History
	logger  *log.Logger
}

func NewEditor(logger *log.Logger) *Editor {
	return &Editor{
		logger: logger,
	}
}

// State returns the current session state
func (e *Editor) State() State {
	if e.image == nil {
		return NoAssets
	}
	return ImageLoaded
}

// LoadImage validates m and starts a new session with a default mask sized
// to it. Any previous mask and undo history are discarded. On error the
// session is left unchanged.
func (e *Editor) LoadImage(m image.Image) error {
	if m == nil {
		return indexed.ErrNoAssetsLoaded
	}
	if err := indexed.Validate(m); err != nil {
		return err
	}

	mk, err := mask.ForBounds(m.Bounds())
	if err != nil {
		return err
	}

	e.image, e.mask = m, mk
	e.history.Clear()
	e.logger.Printf("Loaded %dx%d image as %dx%d tiles\n", m.Bounds().Dx(), m.Bounds().Dy(), mk.Width(), mk.Height())

	return nil
}

// LoadMask replaces the current mask with a copy of mk. The mask must have
// the same grid as the loaded image. The undo history is discarded.
func (e *Editor) LoadMask(mk *mask.Mask) error {
	if e.image == nil || mk == nil {
		return indexed.ErrNoAssetsLoaded
	}
	if mk.Width() != e.mask.Width() || mk.Height() != e.mask.Height() {
		e.logger.Printf("Mask is %dx%d tiles, image needs %dx%d\n", mk.Width(), mk.Height(), e.mask.Width(), e.mask.Height())
		return indexed.ErrMaskMismatch
	}

	e.mask = mk.Clone()
	e.history.Clear()

	return nil
}

// Mask returns a copy of the current mask
func (e *Editor) Mask() (*mask.Mask, error) {
	if e.mask == nil {
		return nil, indexed.ErrNoAssetsLoaded
	}
	return e.mask.Clone(), nil
}

// Tile returns the current state of the tile at x, y
func (e *Editor) Tile(x, y int) (mask.Tile, bool) {
	if e.mask == nil {
		return mask.Tile{}, false
	}
	return e.mask.Tile(x, y)
}

// edit applies fn to a copy of the mask. On success the replaced mask becomes
// the latest snapshot.
func (e *Editor) edit(fn func(*mask.Mask) error) error {
	if e.mask == nil {
		return indexed.ErrNoAssetsLoaded
	}

	next := e.mask.Clone()
	if err := fn(next); err != nil {
		return err
	}

	e.history.Push(e.mask)
	e.mask = next

	return nil
}

// SetTiles sets the palette bank and priority of every tile in points
func (e *Editor) SetTiles(points []image.Point, palette, priority int) error {
	return e.edit(func(m *mask.Mask) error {
		return m.SetPropertiesBulk(points, palette, priority)
	})
}

// SetPalette sets the palette bank of every tile in points
func (e *Editor) SetPalette(points []image.Point, palette int) error {
	return e.edit(func(m *mask.Mask) error {
		return m.SetPalette(points, palette)
	})
}

// SetPriority sets the priority of every tile in points
func (e *Editor) SetPriority(points []image.Point, priority int) error {
	return e.edit(func(m *mask.Mask) error {
		return m.SetPriority(points, priority)
	})
}

// Undo restores the mask to its state before the most recent edit. It
// returns false if there is nothing to undo.
func (e *Editor) Undo() bool {
	m, ok := e.history.Pop()
	if !ok {
		return false
	}
	e.mask = m
	return true
}

// UndoLen returns how many edits can be undone
func (e *Editor) UndoLen() int {
	return e.history.Len()
}

// Export bakes the current mask into the image.
func (e *Editor) Export() (*image.Paletted, error) {
	if e.image == nil || e.mask == nil {
		return nil, indexed.ErrNoAssetsLoaded
	}
	return indexed.ApplyMask(e.image, e.mask)
}
