/*
Package indexed validates 16 color indexed source images and bakes a tile
mask into them.

A valid source is a palette-based image stored at 8 bits per pixel where every
pixel uses one of the first 16 palette entries. Encoding produces an image of
the same size with a 256 color palette made of 16 copies of the source
palette. Each pixel index keeps the original color in its low nibble, the tile
palette bank in bits 4 and 5 and the tile priority in bit 7, which is the
layout expected by SGDK when importing a bitmap with per-tile palette and
priority information.
*/
package indexed

import "errors"

const (
	// BitDepth is the only accepted number of bits per pixel
	BitDepth = 8
	// MaxColorIndex is the highest pixel index a source may use
	MaxColorIndex = 15

	colorsPerPalette = 16
	numPalettes      = 16
	paletteSize      = colorsPerPalette * numPalettes
)

var (
	// ErrNotIndexed is returned for images without a color palette
	ErrNotIndexed = errors.New("indexed: image is not palette-based")
	// ErrNotEightBpp is returned for images not stored at 8 bits per pixel
	ErrNotEightBpp = errors.New("indexed: image is not 8 bits per pixel")
	// ErrTooManyColors is returned when a pixel uses a palette index above 15
	ErrTooManyColors = errors.New("indexed: image uses more than the first 16 colors")
	// ErrNoAssetsLoaded is returned when encoding without an image or mask
	ErrNoAssetsLoaded = errors.New("indexed: no image or mask loaded")
	// ErrMaskMismatch is returned when the mask grid does not cover the image
	ErrMaskMismatch = errors.New("indexed: mask size does not match image")
)
