package mask

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

const (
	// Extension is the conventional filename extension for a saved mask
	Extension = ".msk"

	magic         = "TMSK"
	priorityBit   = 0x80
	paletteShift  = 4
	paletteBits   = maxPalette << paletteShift
	validTileBits = priorityBit | paletteBits
	headerSize    = len(magic) + 4
	maxMaskExtent = 1<<16 - 1
)

var (
	errBadMagic  = errors.New("mask: not a mask file")
	errNotEnough = errors.New("mask: not enough tile data")
	errTooMuch   = errors.New("mask: too much tile data")
	errBadTile   = errors.New("mask: invalid tile data")
	errTooLarge  = errors.New("mask: too many tiles to encode")
)

// MarshalBinary encodes the mask. The format is a four byte magic, the width
// and height as little-endian 16-bit values, then one byte per tile in
// row-major order with the palette bank in bits 4-5 and priority in bit 7.
func (m *Mask) MarshalBinary() ([]byte, error) {
	if m.width > maxMaskExtent || m.height > maxMaskExtent {
		return nil, errTooLarge
	}

	b := new(bytes.Buffer)
	b.Grow(headerSize + len(m.tiles))

	b.WriteString(magic)
	if err := binary.Write(b, binary.LittleEndian, [2]uint16{uint16(m.width), uint16(m.height)}); err != nil {
		return nil, err
	}

	for _, t := range m.tiles {
		// Same bit layout as the upper bits of an exported pixel
		b.WriteByte(t.Pack(0))
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes a mask written by MarshalBinary, replacing the
// receiver entirely.
func (m *Mask) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)

	var hdr [len(magic)]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil || string(hdr[:]) != magic {
		return errBadMagic
	}

	var size [2]uint16
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return errNotEnough
	}

	// Check the header against the data before allocating anything
	switch count := int(size[0]) * int(size[1]); {
	case r.Len() < count:
		return errNotEnough
	case r.Len() > count:
		return errTooMuch
	}

	n, err := New(int(size[0]), int(size[1]))
	if err != nil {
		return err
	}

	data := b[headerSize:]

	for i, v := range data {
		if v&^validTileBits != 0 {
			return errBadTile
		}
		n.tiles[i].palette = int(v&paletteBits) >> paletteShift
		if v&priorityBit != 0 {
			n.tiles[i].priority = 1
		}
	}

	*m = *n
	return nil
}
