/*
Package config holds the settings of an editor session: the directories last
used to open images and masks, and the colors used to draw the mask overlay.

Settings are exchanged as string key/value pairs so they can be stored in any
key/value backend. Colors are written as #AARRGGBB.
*/
package config

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
)

// Color slots in the overlay
const (
	ArrayBorder = iota
	SelectionLasso
	SelectedTile
	HighPriorityBorder
	PaletteText
	Palette0
	Palette1
	Palette2
	Palette3
	NumColors
)

const (
	// LastImageDirectory is the key for the last directory an image was read from
	LastImageDirectory = "lastImageDirectory"
	// LastMaskDirectory is the key for the last directory a mask was read from
	LastMaskDirectory = "lastMaskDirectory"
)

var colorKeys = [NumColors]string{
	"Array Border",
	"Selection Lasso",
	"Selected Tile",
	"High Priority Border",
	"Palette Text",
	"Palette 0",
	"Palette 1",
	"Palette 2",
	"Palette 3",
}

var (
	errUnknownKey = errors.New("config: unknown key")
	errBadColor   = errors.New("config: color must be #AARRGGBB")
)

// Config is the complete set of editor settings
type Config struct {
	LastImageDirectory string
	LastMaskDirectory  string
	Colors             [NumColors]color.NRGBA
}

// Default returns the settings used when nothing has been saved
func Default() Config {
	return Config{
		Colors: [NumColors]color.NRGBA{
			ArrayBorder:        {0xc0, 0xc0, 0xc0, 0xff},
			SelectionLasso:     {0x00, 0xff, 0xff, 0x64},
			SelectedTile:       {0x00, 0xff, 0x00, 0x64},
			HighPriorityBorder: {0x00, 0x00, 0xff, 0xff},
			PaletteText:        {0x00, 0x00, 0x00, 0xff},
			Palette0:           {0xff, 0xff, 0xff, 0xff},
			Palette1:           {0x00, 0xff, 0x00, 0xff},
			Palette2:           {0xff, 0x00, 0xff, 0xff},
			Palette3:           {0x00, 0x00, 0xff, 0xff},
		},
	}
}

// Keys returns every key in a stable order
func Keys() []string {
	keys := []string{LastImageDirectory, LastMaskDirectory}
	return append(keys, colorKeys[:]...)
}

// ParseColor parses a color written as #AARRGGBB
func ParseColor(s string) (color.NRGBA, error) {
	if len(s) != 9 || s[0] != '#' {
		return color.NRGBA{}, errBadColor
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.NRGBA{}, errBadColor
	}
	return color.NRGBA{
		A: uint8(v >> 24),
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}

// FormatColor writes c as #AARRGGBB
func FormatColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}

func colorIndex(key string) (int, bool) {
	for i, k := range colorKeys {
		if strings.EqualFold(k, key) {
			return i, true
		}
	}
	return 0, false
}

// Get returns the value of key
func (c *Config) Get(key string) (string, error) {
	switch key {
	case LastImageDirectory:
		return c.LastImageDirectory, nil
	case LastMaskDirectory:
		return c.LastMaskDirectory, nil
	}
	if i, ok := colorIndex(key); ok {
		return FormatColor(c.Colors[i]), nil
	}
	return "", fmt.Errorf("%w: %q", errUnknownKey, key)
}

// Set changes the value of key
func (c *Config) Set(key, value string) error {
	switch key {
	case LastImageDirectory:
		c.LastImageDirectory = value
		return nil
	case LastMaskDirectory:
		c.LastMaskDirectory = value
		return nil
	}
	i, ok := colorIndex(key)
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownKey, key)
	}
	col, err := ParseColor(value)
	if err != nil {
		return err
	}
	c.Colors[i] = col
	return nil
}

// Map returns every non-empty setting
func (c *Config) Map() map[string]string {
	m := make(map[string]string, len(colorKeys)+2)
	for _, k := range Keys() {
		v, _ := c.Get(k)
		if v != "" {
			m[k] = v
		}
	}
	return m
}

// FromMap returns the default settings overridden by any values in m.
// Unknown keys are ignored so older databases keep working.
func FromMap(m map[string]string) (Config, error) {
	c := Default()

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := c.Set(k, m[k]); err != nil {
			if errors.Is(err, errUnknownKey) {
				continue
			}
			return Config{}, fmt.Errorf("%s: %w", k, err)
		}
	}
	return c, nil
}
