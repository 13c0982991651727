package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBinary(t *testing.T) {
	m, err := New(3, 1)
	require.Nil(t, err)
	require.Nil(t, m.SetProperties(1, 0, 2, 1))
	require.Nil(t, m.SetProperties(2, 0, 3, 0))

	b, err := m.MarshalBinary()
	require.Nil(t, err)
	assert.Equal(t, []byte{'T', 'M', 'S', 'K', 3, 0, 1, 0, 0x00, 0xa0, 0x30}, b)

	var n Mask
	require.Nil(t, n.UnmarshalBinary(b))
	assert.Equal(t, m, &n)
}

func TestUnmarshalBinaryErrors(t *testing.T) {
	tables := []struct {
		name string
		b    []byte
		err  error
	}{
		{"empty", nil, errBadMagic},
		{"bad magic", []byte{'M', 'S', 'K', 0, 1, 0, 1, 0, 0}, errBadMagic},
		{"short header", []byte{'T', 'M', 'S', 'K', 1}, errNotEnough},
		{"zero width", []byte{'T', 'M', 'S', 'K', 0, 0, 1, 0}, ErrInvalidSize},
		{"short tiles", []byte{'T', 'M', 'S', 'K', 2, 0, 1, 0, 0}, errNotEnough},
		{"huge header", []byte{'T', 'M', 'S', 'K', 0xff, 0xff, 0xff, 0xff}, errNotEnough},
		{"huge header short tiles", []byte{'T', 'M', 'S', 'K', 0x00, 0x10, 0x00, 0x10, 0, 0, 0, 0}, errNotEnough},
		{"trailing", []byte{'T', 'M', 'S', 'K', 1, 0, 1, 0, 0, 0}, errTooMuch},
		{"bit 6", []byte{'T', 'M', 'S', 'K', 1, 0, 1, 0, 0x40}, errBadTile},
		{"low nibble", []byte{'T', 'M', 'S', 'K', 1, 0, 1, 0, 0x01}, errBadTile},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			var m Mask
			assert.Equal(t, table.err, m.UnmarshalBinary(table.b))
		})
	}
}
