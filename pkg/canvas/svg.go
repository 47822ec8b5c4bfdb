package canvas

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo/float"
	"github.com/paulmach/orb"

	"github.com/matzehuels/worldmaps/pkg/fonts"
)

// vector writes SVG into memory, in points.
type vector struct {
	buf    bytes.Buffer
	doc    *svg.SVG
	w, h   float64
	styled map[fonts.Weight]bool
}

func newVector(w, h Unit, title string) (*vector, error) {
	v := &vector{w: w.Pt(), h: h.Pt(), styled: map[fonts.Weight]bool{}}
	v.doc = svg.New(&v.buf)
	v.doc.StartviewUnit(v.w, v.h, "pt", 0, 0, v.w, v.h)
	if title != "" {
		v.doc.Title(title)
	}
	return v, nil
}

func fillStyle(c Color) string {
	s := "fill:" + c.Hex()
	if c.A != 0xff {
		s += ";fill-opacity:" + num(c.Opacity())
	}
	return s
}

func (v *vector) fillRect(c Color) error {
	v.doc.Rect(0, 0, v.w, v.h, fillStyle(c))
	return nil
}

func (v *vector) fillPolygons(c Color, mp orb.MultiPolygon) error {
	style := fillStyle(c) + ";fill-rule:evenodd"
	for _, p := range mp {
		if d := pathData(p); d != "" {
			v.doc.Path(d, style)
		}
	}
	return nil
}

// pathData renders the rings of p as SVG path commands.
func pathData(p orb.Polygon) string {
	var sb strings.Builder
	for _, ring := range p {
		if len(ring) < 3 {
			continue
		}
		for i, pt := range ring {
			if i == 0 {
				sb.WriteString("M")
			} else {
				sb.WriteString(" L")
			}
			sb.WriteString(num(pt[0]))
			sb.WriteByte(' ')
			sb.WriteString(num(pt[1]))
		}
		sb.WriteString(" Z")
	}
	return sb.String()
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (v *vector) drawText(t TextBlock) error {
	face, err := fonts.Face(t.Weight, t.Size.Pt())
	if err != nil {
		return err
	}
	v.embedFont(t.Weight)

	style := fmt.Sprintf("font-family:%s;font-size:%spx;font-weight:%s;%s",
		fonts.FallbackFontFamily, num(t.Size.Pt()), t.Weight, fillStyle(t.Color))
	for _, l := range layout(t, face) {
		v.doc.Text(l.x, l.baseline, l.text, style)
	}
	return nil
}

// embedFont adds an @font-face rule for w the first time it is used.
func (v *vector) embedFont(w fonts.Weight) {
	if v.styled[w] {
		return
	}
	v.styled[w] = true
	v.doc.Style("text/css", fmt.Sprintf(
		"@font-face { font-family: '%s'; font-weight: %s; src: url(data:font/ttf;base64,%s) format('truetype'); }",
		fonts.FontFamily, w, fonts.TTFBase64(w)))
}

func (v *vector) encode(w io.Writer) error {
	v.doc.End()
	_, err := v.buf.WriteTo(w)
	return err
}

func (v *vector) release() { v.buf.Reset() }
