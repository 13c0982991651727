package indexed

import (
	"bytes"
	"encoding/binary"
	"image"
	_ "image/gif" // register GIF sources
	_ "image/png" // register PNG sources
	"io"
	"io/ioutil"

	_ "golang.org/x/image/bmp" // register BMP sources
)

const (
	pngHeader      = "\x89PNG\r\n\x1a\n"
	pngDepthOffset = 24 // signature, IHDR length and type, width, height
	bmpHeader      = "BM"
	bmpDepthOffset = 28
)

// Source is a decoded image along with the number of bits per pixel its
// pixels were stored with.
type Source struct {
	image.Image
	Depth int
}

// BitDepth returns the stored bits per pixel
func (s *Source) BitDepth() int {
	return s.Depth
}

// sniffDepth returns the stored bits per pixel for the formats we can decode,
// or zero if it can't be determined
func sniffDepth(b []byte, format string) int {
	switch format {
	case "png":
		if len(b) > pngDepthOffset && bytes.HasPrefix(b, []byte(pngHeader)) {
			return int(b[pngDepthOffset])
		}
	case "bmp":
		if len(b) >= bmpDepthOffset+2 && bytes.HasPrefix(b, []byte(bmpHeader)) {
			return int(binary.LittleEndian.Uint16(b[bmpDepthOffset:]))
		}
	case "gif":
		return BitDepth
	}
	return 0
}

// Decode reads a PNG, GIF or BMP image from r and returns it with its stored
// bit depth, along with the format name.
func Decode(r io.Reader) (*Source, string, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, "", err
	}

	m, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", err
	}

	return &Source{
		Image: m,
		Depth: sniffDepth(b, format),
	}, format, nil
}
