package canvas

import (
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/paulmach/orb"

	"github.com/matzehuels/worldmaps/pkg/fonts"
)

// raster draws with gg at 96 dpi. Canvas points are scaled to pixels on
// the way in.
type raster struct {
	dc     *gg.Context
	format Format
}

func newRaster(w, h Unit, format Format) (*raster, error) {
	dc := gg.NewContext(int(math.Round(w.Px())), int(math.Round(h.Px())))
	return &raster{dc: dc, format: format}, nil
}

func (r *raster) fillRect(c Color) error {
	r.dc.SetColor(c)
	r.dc.DrawRectangle(0, 0, float64(r.dc.Width()), float64(r.dc.Height()))
	return r.dc.Fill()
}

func (r *raster) fillPolygons(c Color, mp orb.MultiPolygon) error {
	dc := r.dc
	dc.SetColor(c)
	dc.SetFillRule(gg.FillRuleEvenOdd)
	for _, p := range mp {
		dc.ClearPath()
		for _, ring := range p {
			if len(ring) < 3 {
				continue
			}
			dc.MoveTo(ring[0][0]*pixelsPerPoint, ring[0][1]*pixelsPerPoint)
			for _, pt := range ring[1:] {
				dc.LineTo(pt[0]*pixelsPerPoint, pt[1]*pixelsPerPoint)
			}
			dc.ClosePath()
		}
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	return nil
}

func (r *raster) drawText(t TextBlock) error {
	// Layout happens in points, painting in pixels.
	layoutFace, err := fonts.Face(t.Weight, t.Size.Pt())
	if err != nil {
		return err
	}
	paintFace, err := fonts.Face(t.Weight, t.Size.Px())
	if err != nil {
		return err
	}
	r.dc.SetFont(paintFace)
	r.dc.SetColor(t.Color)
	for _, l := range layout(t, layoutFace) {
		r.dc.DrawString(l.text, l.x*pixelsPerPoint, l.baseline*pixelsPerPoint)
	}
	return nil
}

func (r *raster) encode(w io.Writer) error {
	if r.format == FormatJPEG {
		return r.dc.EncodeJPEG(w, JPEGQuality)
	}
	return r.dc.EncodePNG(w)
}

func (r *raster) release() { _ = r.dc.Close() }
