package canvas

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/worldmaps/pkg/errors"
)

// Color is a non-premultiplied 8-bit RGBA color. It implements
// color.Color.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 0xff} }

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	if err := errors.ValidateHexColor(s); err != nil {
		return Color{}, err
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return Color{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid color %q", s)
	}
	if len(s) == 7 {
		return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A) * 0x101
	r = uint32(c.R) * 0x101 * a / 0xffff
	g = uint32(c.G) * 0x101 * a / 0xffff
	b = uint32(c.B) * 0x101 * a / 0xffff
	return r, g, b, a
}

// Hex returns "#rrggbb", dropping alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Opacity returns alpha in [0, 1].
func (c Color) Opacity() float64 { return float64(c.A) / 0xff }

// String returns "#rrggbb", or "#rrggbbaa" when not opaque.
func (c Color) String() string {
	if c.A == 0xff {
		return c.Hex()
	}
	return fmt.Sprintf("%s%02x", c.Hex(), c.A)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler, so colors decode
// from "#rrggbb" strings in TOML scenario files.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
