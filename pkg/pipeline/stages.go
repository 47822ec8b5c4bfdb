package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/worldmaps/pkg/canvas"
	"github.com/matzehuels/worldmaps/pkg/crs"
	"github.com/matzehuels/worldmaps/pkg/drawable"
	"github.com/matzehuels/worldmaps/pkg/geo"
	"github.com/matzehuels/worldmaps/pkg/normalize"
	"github.com/matzehuels/worldmaps/pkg/source"
	"github.com/matzehuels/worldmaps/pkg/transform"
)

// Inputs are the loaded sources of a scenario, one collection per file.
type Inputs struct {
	Land  []geo.Collection
	Lakes []geo.Collection
}

func (in *Inputs) landRecords() int { return records(in.Land) }
func (in *Inputs) lakeRecords() int { return records(in.Lakes) }

func records(cs []geo.Collection) int {
	n := 0
	for _, c := range cs {
		n += c.Len()
	}
	return n
}

// Load reads every land and lake source of sc in its source CRS.
func Load(sc Scenario, dataDir string) (*Inputs, error) {
	c, err := sc.SourceCRSValue()
	if err != nil {
		return nil, err
	}
	in := &Inputs{}
	for _, p := range sc.Land {
		col, err := source.LoadAs(resolve(dataDir, p), c)
		if err != nil {
			return nil, fmt.Errorf("land: %w", err)
		}
		in.Land = append(in.Land, col)
	}
	for _, p := range sc.Lakes {
		col, err := source.LoadAs(resolve(dataDir, p), c)
		if err != nil {
			return nil, fmt.Errorf("lakes: %w", err)
		}
		in.Lakes = append(in.Lakes, col)
	}
	return in, nil
}

// Normalize turns loaded sources into one validated land geometry. The
// order is fixed: axes are swapped first, then land and lakes are each
// unioned, then the lakes and the exclusion band are cut out of the land.
func Normalize(sc Scenario, in *Inputs) (geo.Geometry, error) {
	land, lakes := in.Land, in.Lakes
	if sc.SwapAxes {
		land, lakes = swapAll(land), swapAll(lakes)
	}

	g, err := normalize.UnionAll(land...)
	if err != nil {
		return geo.Geometry{}, fmt.Errorf("union land: %w", err)
	}
	if len(lakes) > 0 {
		water, err := normalize.UnionAll(lakes...)
		if err != nil {
			return geo.Geometry{}, fmt.Errorf("union lakes: %w", err)
		}
		if g, err = normalize.Difference(g, water); err != nil {
			return geo.Geometry{}, fmt.Errorf("subtract lakes: %w", err)
		}
	}
	if sc.ExcludeBand != nil {
		if g, err = normalize.ExcludeBand(g, sc.ExcludeBand.Bound()); err != nil {
			return geo.Geometry{}, fmt.Errorf("exclude band: %w", err)
		}
	}
	if err := normalize.Validate(g, sc.Strict); err != nil {
		return geo.Geometry{}, err
	}
	return g, nil
}

func swapAll(cs []geo.Collection) []geo.Collection {
	out := make([]geo.Collection, len(cs))
	for i, c := range cs {
		out[i] = normalize.SwapAxes(c)
	}
	return out
}

// Transformer builds the point function of sc, including the reflection
// step when the scenario asks for it.
func Transformer(sc Scenario) (transform.Func, error) {
	cfg, err := sc.TransformConfig()
	if err != nil {
		return transform.Func{}, err
	}
	f, err := transform.Build(cfg)
	if err != nil {
		return transform.Func{}, err
	}
	if sc.Reflect {
		f = f.Then(transform.Reflect(sc.Center()))
	}
	return f, nil
}

// Project maps normalized land onto the canvas of sc.
func Project(sc Scenario, land geo.Geometry) (geo.Geometry, error) {
	f, err := Transformer(sc)
	if err != nil {
		return geo.Geometry{}, err
	}
	return f.Apply(land, crs.Canvas)
}

// Drawables lists what sc paints, bottom to top: the background, the land,
// then the text blocks.
func Drawables(sc Scenario, land geo.Geometry) ([]drawable.Drawable, error) {
	var ds []drawable.Drawable
	if sc.Background != nil {
		ds = append(ds, drawable.Background{Color: *sc.Background})
	}
	ds = append(ds, drawable.PolygonDrawer{
		Fill:   sc.Fill,
		Geoms:  []geo.Geometry{land},
		Clip:   sc.Clip,
		Margin: canvas.Pt(2),
	})
	for _, t := range sc.Text {
		align, err := t.Alignment()
		if err != nil {
			return nil, err
		}
		ds = append(ds, drawable.Text{
			Content: t.Content,
			Weight:  t.Weight(),
			Size:    t.Size,
			Color:   t.Color,
			X:       t.X,
			Y:       t.Y,
			Width:   t.Width,
			Align:   align,
		})
	}
	return ds, nil
}

// Render paints canvas-space land onto a new canvas at path. The file only
// appears once everything was drawn and encoded.
func Render(ctx context.Context, sc Scenario, land geo.Geometry, path string) error {
	ds, err := Drawables(sc, land)
	if err != nil {
		return err
	}
	c, err := canvas.Builder{
		Path:   path,
		Width:  sc.Width,
		Height: sc.Height,
		Title:  sc.Description,
	}.Build()
	if err != nil {
		return err
	}
	defer c.Abort()

	for _, d := range ds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := drawable.Render(c, d); err != nil {
			return err
		}
	}
	return c.Close()
}
