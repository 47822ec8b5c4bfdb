package canvas

import (
	"strings"

	"github.com/gogpu/gg/text"

	"github.com/matzehuels/worldmaps/pkg/fonts"
)

// Align is the horizontal alignment of text lines.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return "left"
}

// TextBlock is a run of text laid out inside a box.
type TextBlock struct {
	Text   string
	Weight fonts.Weight
	Size   Unit
	Color  Color
	// X and Y are the top-left corner of the block.
	X, Y Unit
	// Width is the wrapping width. Zero disables wrapping; lines then
	// align around X.
	Width Unit
	Align Align
	// LineSpacing multiplies the font line height. Zero means 1.
	LineSpacing float64
}

// placedLine is one laid out line in canvas units.
type placedLine struct {
	text     string
	x        float64 // start of the line
	baseline float64
}

// layout wraps t with face, which must be sized in points, and positions
// every line.
func layout(t TextBlock, face text.Face) []placedLine {
	width := t.Width.Pt()

	var lines []string
	if width > 0 {
		for _, w := range text.WrapText(t.Text, face, width, text.WrapWord) {
			lines = append(lines, strings.TrimRight(w.Text, " \t"))
		}
	} else {
		lines = strings.Split(t.Text, "\n")
	}

	spacing := t.LineSpacing
	if spacing == 0 {
		spacing = 1
	}
	m := face.Metrics()
	step := m.LineHeight() * spacing
	baseline := t.Y.Pt() + m.Ascent

	out := make([]placedLine, 0, len(lines))
	for _, l := range lines {
		adv := face.Advance(l)
		x := t.X.Pt()
		switch {
		case t.Align == AlignCenter && width > 0:
			x += (width - adv) / 2
		case t.Align == AlignCenter:
			x -= adv / 2
		case t.Align == AlignRight && width > 0:
			x += width - adv
		case t.Align == AlignRight:
			x -= adv
		}
		out = append(out, placedLine{text: l, x: x, baseline: baseline})
		baseline += step
	}
	return out
}
