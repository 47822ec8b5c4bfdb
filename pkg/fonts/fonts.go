// Package fonts provides the embedded Go fonts used for map text.
//
// The font data ships with golang.org/x/image, so text renders the same on
// every machine. Raster canvases draw with [Face]; SVG output embeds the
// TTF data through [TTFBase64] in an @font-face rule.
package fonts

import (
	"encoding/base64"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Weight selects a font file.
type Weight int

const (
	Regular Weight = iota
	Bold
)

// String returns the CSS font-weight keyword.
func (w Weight) String() string {
	if w == Bold {
		return "bold"
	}
	return "normal"
}

// FontFamily is the CSS font-family name of the embedded font.
const FontFamily = "Go"

// FallbackFontFamily lists fallbacks for viewers that ignore @font-face.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// TTF returns the TrueType data for w.
func TTF(w Weight) []byte {
	if w == Bold {
		return gobold.TTF
	}
	return goregular.TTF
}

type loaded struct {
	once   sync.Once
	source *text.FontSource
	err    error
	b64    string
}

var sources [2]loaded

func get(w Weight) *loaded {
	if w == Bold {
		return &sources[1]
	}
	return &sources[0]
}

// Source returns the parsed font for w. Parsing happens once per weight.
func Source(w Weight) (*text.FontSource, error) {
	l := get(w)
	l.once.Do(func() {
		l.source, l.err = text.NewFontSource(TTF(w))
		l.b64 = base64.StdEncoding.EncodeToString(TTF(w))
	})
	return l.source, l.err
}

// Face returns a face of w at size.
func Face(w Weight, size float64) (text.Face, error) {
	src, err := Source(w)
	if err != nil {
		return nil, err
	}
	return src.Face(size), nil
}

// TTFBase64 returns the TrueType data for w as base64.
func TTFBase64(w Weight) string {
	_, _ = Source(w)
	return get(w).b64
}
