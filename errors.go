package tilemask

import (
	"errors"
	"fmt"

	"github.com/bodgit/tilemask/indexed"
	"github.com/bodgit/tilemask/mask"
)

// Kind classifies an error so callers can decide how to report it.
type Kind int

const (
	// None is the Kind of a nil error
	None Kind = iota
	// Other covers anything not listed below
	Other

	// NotIndexed means the image has no palette
	NotIndexed
	// NotEightBpp means the image is not stored at 8 bits per pixel
	NotEightBpp
	// TooManyColors means a pixel uses a palette index above 15
	TooManyColors
	// InvalidSize means the image is smaller than a single tile
	InvalidSize

	// NoAssetsLoaded means no image or mask has been loaded
	NoAssetsLoaded
	// MaskMismatch means the mask grid does not match the image
	MaskMismatch

	// ReadFailure means a file could not be read or decoded
	ReadFailure
	// WriteFailure means a file could not be written
	WriteFailure
)

var kindNames = [...]string{
	None:           "none",
	Other:          "other",
	NotIndexed:     "not indexed",
	NotEightBpp:    "not 8bpp",
	TooManyColors:  "too many colors",
	InvalidSize:    "invalid size",
	NoAssetsLoaded: "no assets loaded",
	MaskMismatch:   "mask mismatch",
	ReadFailure:    "read failure",
	WriteFailure:   "write failure",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsValidation reports whether the image itself was rejected
func (k Kind) IsValidation() bool {
	return k >= NotIndexed && k <= InvalidSize
}

// IsState reports whether the operation was attempted at the wrong time
func (k Kind) IsState() bool {
	return k == NoAssetsLoaded || k == MaskMismatch
}

// IOError records a failure reading or writing a file
type IOError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err
func KindOf(err error) Kind {
	var ioe *IOError

	switch {
	case err == nil:
		return None
	case errors.As(err, &ioe):
		return ioe.Kind
	case errors.Is(err, indexed.ErrNotIndexed):
		return NotIndexed
	case errors.Is(err, indexed.ErrNotEightBpp):
		return NotEightBpp
	case errors.Is(err, indexed.ErrTooManyColors):
		return TooManyColors
	case errors.Is(err, mask.ErrInvalidSize):
		return InvalidSize
	case errors.Is(err, indexed.ErrNoAssetsLoaded):
		return NoAssetsLoaded
	case errors.Is(err, indexed.ErrMaskMismatch):
		return MaskMismatch
	default:
		return Other
	}
}
