// Package drawable provides the visual elements painted onto a canvas.
//
// A [Drawable] appends marks to a [canvas.Canvas]. [Render] applies a
// sequence of drawables in order, so later entries paint over earlier
// ones. There is no automatic z-ordering: a [Background] must come first,
// and a [Text] that should stay readable must come after the polygons it
// overlaps.
//
//	err := drawable.Render(c,
//	    drawable.Background{Color: sea},
//	    drawable.PolygonDrawer{Fill: land, Geoms: []geo.Geometry{world}},
//	    drawable.Text{Content: "Null Island", Size: canvas.Pt(24), X: canvas.Pt(40), Y: canvas.Pt(40)},
//	)
package drawable

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"

	"github.com/matzehuels/worldmaps/pkg/canvas"
	"github.com/matzehuels/worldmaps/pkg/crs"
	"github.com/matzehuels/worldmaps/pkg/errors"
	"github.com/matzehuels/worldmaps/pkg/fonts"
	"github.com/matzehuels/worldmaps/pkg/geo"
)

// Drawable is a unit of paintable content.
type Drawable interface {
	Draw(c canvas.Canvas) error
}

// Render draws ds onto c in order. Later drawables occlude earlier ones.
// It stops at the first failing drawable.
func Render(c canvas.Canvas, ds ...Drawable) error {
	for i, d := range ds {
		if err := d.Draw(c); err != nil {
			return fmt.Errorf("draw %d (%s): %w", i, Describe(d), err)
		}
	}
	return nil
}

// Describe returns a short name for d, used in logs and errors.
func Describe(d Drawable) string {
	if s, ok := d.(fmt.Stringer); ok {
		return s.String()
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", d), "drawable.")
}

// Background fills the whole canvas with a solid color.
type Background struct {
	Color canvas.Color
}

// Draw implements [Drawable].
func (b Background) Draw(c canvas.Canvas) error { return c.FillRect(b.Color) }

func (b Background) String() string { return "background " + b.Color.String() }

// PolygonDrawer fills canvas-space geometries with one color. Outer rings
// are filled and holes are left unfilled.
type PolygonDrawer struct {
	Fill  canvas.Color
	Geoms []geo.Geometry

	// Clip trims the geometry to the canvas, grown by Margin on every
	// side, before painting.
	Clip   bool
	Margin canvas.Unit
}

// Draw implements [Drawable]. Geometry must be tagged with [crs.Canvas].
func (p PolygonDrawer) Draw(c canvas.Canvas) error {
	var mp orb.MultiPolygon
	for i, g := range p.Geoms {
		if !g.CRS().Equal(crs.Canvas) {
			return errors.New(errors.ErrCodeProjection, "geometry %d is in %s, not canvas space", i, g.CRS())
		}
		mp = append(mp, g.MultiPolygon()...)
	}
	if p.Clip {
		m := p.Margin.Pt()
		bound := orb.Bound{
			Min: orb.Point{-m, -m},
			Max: orb.Point{c.Width().Pt() + m, c.Height().Pt() + m},
		}
		mp = clip.MultiPolygon(bound, mp)
	}
	if len(mp) == 0 {
		return nil
	}
	return c.FillPolygons(p.Fill, mp)
}

func (p PolygonDrawer) String() string {
	n := 0
	for _, g := range p.Geoms {
		n += g.NumPolygons()
	}
	return fmt.Sprintf("polygons %s (%d)", p.Fill, n)
}

// Text is a block of styled text. X and Y are the top-left corner of the
// block; lines wrap at Width and align within it.
type Text struct {
	Content     string
	Weight      fonts.Weight
	Size        canvas.Unit
	Color       canvas.Color
	X, Y        canvas.Unit
	Width       canvas.Unit
	Align       canvas.Align
	LineSpacing float64
}

// Draw implements [Drawable].
func (t Text) Draw(c canvas.Canvas) error {
	if t.Size <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "text size must be positive, got %v", t.Size)
	}
	return c.DrawText(canvas.TextBlock{
		Text:        t.Content,
		Weight:      t.Weight,
		Size:        t.Size,
		Color:       t.Color,
		X:           t.X,
		Y:           t.Y,
		Width:       t.Width,
		Align:       t.Align,
		LineSpacing: t.LineSpacing,
	})
}

func (t Text) String() string { return fmt.Sprintf("text %q", t.Content) }
