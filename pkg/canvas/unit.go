package canvas

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/worldmaps/pkg/errors"
)

// Unit is a device-independent length in points (1/72 inch). Canvas space
// coordinates are points.
type Unit float64

// Raster surfaces render at 96 dpi: one pixel is three quarters of a point.
const (
	pointsPerPixel = 0.75
	pixelsPerPoint = 1 / pointsPerPixel
)

// Pt returns v points.
func Pt(v float64) Unit { return Unit(v) }

// Px returns v pixels at 96 dpi.
func Px(v float64) Unit { return Unit(v * pointsPerPixel) }

// Mm returns v millimetres.
func Mm(v float64) Unit { return Unit(v * 72 / 25.4) }

// In returns v inches.
func In(v float64) Unit { return Unit(v * 72) }

// Pt returns u in points.
func (u Unit) Pt() float64 { return float64(u) }

// Px returns u in pixels at 96 dpi.
func (u Unit) Px() float64 { return float64(u) / pointsPerPixel }

func (u Unit) String() string { return fmt.Sprintf("%gpt", float64(u)) }

var unitSuffixes = []struct {
	suffix string
	unit   func(float64) Unit
}{
	{"px", Px},
	{"pt", Pt},
	{"mm", Mm},
	{"in", In},
}

// ParseUnit parses a length such as "1280px", "12pt", "210mm" or "1in". A
// bare number is in points.
func ParseUnit(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	conv := Pt
	for _, u := range unitSuffixes {
		if strings.HasSuffix(s, u.suffix) {
			s, conv = strings.TrimSpace(strings.TrimSuffix(s, u.suffix)), u.unit
			break
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid length %q", s)
	}
	return conv(v), nil
}

// MarshalText implements encoding.TextMarshaler.
func (u Unit) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler using [ParseUnit].
func (u *Unit) UnmarshalText(b []byte) error {
	v, err := ParseUnit(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}
