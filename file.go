package tilemask

import (
	"crypto/sha1"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/ioutil"
	"os"

	"github.com/bodgit/tilemask/indexed"
	"github.com/bodgit/tilemask/mask"
)

// ReadImage decodes an image file, returning it along with the SHA1 of the
// file contents.
func ReadImage(file string) (*indexed.Source, string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, "", &IOError{Kind: ReadFailure, Path: file, Err: err}
	}
	defer f.Close()

	h := sha1.New()
	m, _, err := indexed.Decode(io.TeeReader(f, h))
	if err != nil {
		return nil, "", &IOError{Kind: ReadFailure, Path: file, Err: err}
	}

	return m, fmt.Sprintf("%X", h.Sum(nil)), nil
}

// ReadMask reads a mask file
func ReadMask(file string) (*mask.Mask, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, &IOError{Kind: ReadFailure, Path: file, Err: err}
	}

	m := new(mask.Mask)
	if err := m.UnmarshalBinary(b); err != nil {
		return nil, &IOError{Kind: ReadFailure, Path: file, Err: err}
	}
	return m, nil
}

// WriteMask writes a mask file
func WriteMask(file string, m *mask.Mask) error {
	b, err := m.MarshalBinary()
	if err != nil {
		return &IOError{Kind: WriteFailure, Path: file, Err: err}
	}
	if err := ioutil.WriteFile(file, b, 0644); err != nil {
		return &IOError{Kind: WriteFailure, Path: file, Err: err}
	}
	return nil
}

// WriteImage writes m as a PNG file
func WriteImage(file string, m image.Image) error {
	f, err := os.Create(file)
	if err != nil {
		return &IOError{Kind: WriteFailure, Path: file, Err: err}
	}

	if err := png.Encode(f, m); err != nil {
		f.Close()
		return &IOError{Kind: WriteFailure, Path: file, Err: err}
	}

	if err := f.Close(); err != nil {
		return &IOError{Kind: WriteFailure, Path: file, Err: err}
	}
	return nil
}
