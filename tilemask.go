/*
Package tilemask is a library for annotating indexed bitmaps with a per-tile
palette bank and priority, and baking those annotations into a 256 color
bitmap ready for SGDK.
*/
package tilemask

import (
	"errors"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/tilemask/config"
	"github.com/bodgit/tilemask/mask"
)

// Edit describes a change to a set of tiles. Rects are in tile coordinates
// with an exclusive maximum and are clipped to the mask. A negative Palette
// or Priority leaves that property unchanged.
type Edit struct {
	Points   []image.Point
	Rects    []image.Rectangle
	Palette  int
	Priority int
}

// tiles returns every point selected by the edit that lies within bounds
func (e Edit) tiles(bounds image.Rectangle) []image.Point {
	pts := append([]image.Point(nil), e.Points...)
	for _, r := range e.Rects {
		r = r.Intersect(bounds)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts
}

type TileMask struct {
	db     *MaskDB
	logger *log.Logger
}

func New(db *MaskDB, logger *log.Logger) *TileMask {
	return &TileMask{
		db:     db,
		logger: logger,
	}
}

// remember records the directories of the files used in the stored
// configuration
func (t *TileMask) remember(imageFile, maskFile string) error {
	c, err := t.db.LoadConfig()
	if err != nil {
		return err
	}
	if imageFile != "" {
		dir, err := filepath.Abs(filepath.Dir(imageFile))
		if err != nil {
			return err
		}
		c.LastImageDirectory = dir
	}
	if maskFile != "" {
		dir, err := filepath.Abs(filepath.Dir(maskFile))
		if err != nil {
			return err
		}
		c.LastMaskDirectory = dir
	}
	return t.db.SaveConfig(c)
}

// Config returns the stored editor configuration
func (t *TileMask) Config() (config.Config, error) {
	return t.db.LoadConfig()
}

// SetConfig changes a single stored configuration value
func (t *TileMask) SetConfig(key, value string) error {
	c, err := t.db.LoadConfig()
	if err != nil {
		return err
	}
	if err := c.Set(key, value); err != nil {
		return err
	}
	return t.db.SaveConfig(c)
}

// Validate checks the image can be used as a source.
func (t *TileMask) Validate(imageFile string) error {
	m, _, err := ReadImage(imageFile)
	if err != nil {
		return err
	}
	if err := NewEditor(t.logger).LoadImage(m); err != nil {
		return err
	}
	t.logger.Printf("\"%s\" is valid\n", imageFile)
	return nil
}

// NewMask writes a default mask sized to the image.
func (t *TileMask) NewMask(imageFile, maskFile string) error {
	m, _, err := ReadImage(imageFile)
	if err != nil {
		return err
	}

	e := NewEditor(t.logger)
	if err := e.LoadImage(m); err != nil {
		return err
	}

	mk, err := e.Mask()
	if err != nil {
		return err
	}
	if err := WriteMask(maskFile, mk); err != nil {
		return err
	}

	return t.remember(imageFile, maskFile)
}

// Edit applies a change to the mask for the image and rewrites it.
func (t *TileMask) Edit(imageFile, maskFile string, edit Edit) error {
	m, _, err := ReadImage(imageFile)
	if err != nil {
		return err
	}
	mk, err := ReadMask(maskFile)
	if err != nil {
		return err
	}

	e := NewEditor(t.logger)
	if err := e.LoadImage(m); err != nil {
		return err
	}
	if err := e.LoadMask(mk); err != nil {
		return err
	}

	pts := edit.tiles(mk.Bounds())
	switch {
	case edit.Palette >= 0 && edit.Priority >= 0:
		err = e.SetTiles(pts, edit.Palette, edit.Priority)
	case edit.Palette >= 0:
		err = e.SetPalette(pts, edit.Palette)
	case edit.Priority >= 0:
		err = e.SetPriority(pts, edit.Priority)
	default:
		return errors.New("nothing to change")
	}
	if err != nil {
		return err
	}

	if mk, err = e.Mask(); err != nil {
		return err
	}
	if err := WriteMask(maskFile, mk); err != nil {
		return err
	}

	return t.remember(imageFile, maskFile)
}

// Store saves the mask in the database against the image it belongs to.
func (t *TileMask) Store(imageFile, maskFile string) error {
	m, sha, err := ReadImage(imageFile)
	if err != nil {
		return err
	}
	mk, err := ReadMask(maskFile)
	if err != nil {
		return err
	}

	// Make sure the mask is usable with this image before storing it
	e := NewEditor(t.logger)
	if err := e.LoadImage(m); err != nil {
		return err
	}
	if err := e.LoadMask(mk); err != nil {
		return err
	}

	if err := t.db.SaveMask(sha, mk); err != nil {
		return err
	}
	t.logger.Printf("Stored mask for \"%s\", with SHA1 \"%s\"\n", imageFile, sha)

	return nil
}

func (t *TileMask) export(imageFile, maskFile, outFile string) error {
	m, sha, err := ReadImage(imageFile)
	if err != nil {
		return err
	}

	e := NewEditor(t.logger)
	if err := e.LoadImage(m); err != nil {
		return err
	}

	var mk *mask.Mask
	if maskFile != "" {
		if mk, err = ReadMask(maskFile); err != nil {
			return err
		}
	} else if mk, err = t.db.FindMaskBySHA1(sha); err != nil {
		return err
	}

	if err := e.LoadMask(mk); err != nil {
		return err
	}

	out, err := e.Export()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outFile), 0755); err != nil {
		return &IOError{Kind: WriteFailure, Path: outFile, Err: err}
	}
	if err := WriteImage(outFile, out); err != nil {
		return err
	}
	t.logger.Printf("Exported \"%s\" to \"%s\"\n", imageFile, outFile)

	return nil
}

// Export applies the mask to the image and writes the result as a PNG. If
// maskFile is empty the mask is looked up in the database.
func (t *TileMask) Export(imageFile, maskFile, outFile string) error {
	if err := t.export(imageFile, maskFile, outFile); err != nil {
		return err
	}
	return t.remember(imageFile, maskFile)
}
