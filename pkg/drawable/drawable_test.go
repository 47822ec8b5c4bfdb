package drawable

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/worldmaps/pkg/canvas"
	"github.com/matzehuels/worldmaps/pkg/crs"
	"github.com/matzehuels/worldmaps/pkg/errors"
	"github.com/matzehuels/worldmaps/pkg/geo"
)

// recorder is a canvas that remembers every call.
type recorder struct {
	w, h   canvas.Unit
	calls  []string
	polys  []orb.MultiPolygon
	texts  []canvas.TextBlock
	closed bool
}

func newRecorder() *recorder { return &recorder{w: canvas.Pt(100), h: canvas.Pt(50)} }

func (r *recorder) Width() canvas.Unit  { return r.w }
func (r *recorder) Height() canvas.Unit { return r.h }

func (r *recorder) FillRect(c canvas.Color) error {
	if r.closed {
		return errors.New(errors.ErrCodeCanvasClosed, "closed")
	}
	r.calls = append(r.calls, "rect "+c.String())
	return nil
}

func (r *recorder) FillPolygons(c canvas.Color, mp orb.MultiPolygon) error {
	if r.closed {
		return errors.New(errors.ErrCodeCanvasClosed, "closed")
	}
	r.calls = append(r.calls, "polygons "+c.String())
	r.polys = append(r.polys, mp)
	return nil
}

func (r *recorder) DrawText(t canvas.TextBlock) error {
	if r.closed {
		return errors.New(errors.ErrCodeCanvasClosed, "closed")
	}
	r.calls = append(r.calls, "text "+t.Text)
	r.texts = append(r.texts, t)
	return nil
}

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

var (
	sea  = canvas.RGB(0x10, 0x20, 0x60)
	land = canvas.RGB(0xe0, 0xd0, 0x90)
)

func square(x, y, size float64) geo.Geometry {
	return geo.FromBound(crs.Canvas, orb.Bound{Min: orb.Point{x, y}, Max: orb.Point{x + size, y + size}})
}

func TestRenderOrder(t *testing.T) {
	r := newRecorder()
	err := Render(r,
		Background{Color: sea},
		PolygonDrawer{Fill: land, Geoms: []geo.Geometry{square(10, 10, 20)}},
		Text{Content: "title", Size: canvas.Pt(12)},
	)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"rect #102060", "polygons #e0d090", "text title"}
	if strings.Join(r.calls, "|") != strings.Join(want, "|") {
		t.Errorf("calls = %v, want %v", r.calls, want)
	}
}

func TestRenderStopsAtFirstError(t *testing.T) {
	r := newRecorder()
	bad := geo.FromBound(crs.LonLat, orb.Bound{Max: orb.Point{1, 1}})
	err := Render(r,
		Background{Color: sea},
		PolygonDrawer{Fill: land, Geoms: []geo.Geometry{bad}},
		Text{Content: "never", Size: canvas.Pt(12)},
	)
	if !errors.Is(err, errors.ErrCodeProjection) {
		t.Fatalf("expected PROJECTION, got %v", err)
	}
	if !strings.Contains(err.Error(), "draw 1") {
		t.Errorf("error should name the failing drawable: %v", err)
	}
	if len(r.calls) != 1 {
		t.Errorf("calls after failure: %v", r.calls)
	}
}

func TestRenderClosedCanvas(t *testing.T) {
	r := newRecorder()
	_ = r.Close()
	if err := Render(r, Background{Color: sea}); !errors.Is(err, errors.ErrCodeCanvasClosed) {
		t.Errorf("expected CANVAS_CLOSED, got %v", err)
	}
}

func TestPolygonDrawerClip(t *testing.T) {
	tests := []struct {
		name   string
		margin canvas.Unit
		geom   geo.Geometry
		want   orb.Bound
		empty  bool
	}{
		{
			name: "inside",
			geom: square(10, 10, 20),
			want: orb.Bound{Min: orb.Point{10, 10}, Max: orb.Point{30, 30}},
		},
		{
			name: "overhang",
			geom: square(80, 40, 50),
			want: orb.Bound{Min: orb.Point{80, 40}, Max: orb.Point{100, 50}},
		},
		{
			name:   "overhang with margin",
			margin: canvas.Pt(5),
			geom:   square(80, 40, 50),
			want:   orb.Bound{Min: orb.Point{80, 40}, Max: orb.Point{105, 55}},
		},
		{
			name:  "outside",
			geom:  square(200, 200, 10),
			empty: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRecorder()
			d := PolygonDrawer{Fill: land, Geoms: []geo.Geometry{tt.geom}, Clip: true, Margin: tt.margin}
			if err := d.Draw(r); err != nil {
				t.Fatal(err)
			}
			if tt.empty {
				if len(r.calls) != 0 {
					t.Errorf("fully clipped geometry should not be painted: %v", r.calls)
				}
				return
			}
			if len(r.polys) != 1 {
				t.Fatalf("expected one fill, got %d", len(r.polys))
			}
			if got := r.polys[0].Bound(); !got.Equal(tt.want) {
				t.Errorf("bound = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygonDrawerKeepsInput(t *testing.T) {
	g := square(80, 40, 50)
	before := g.Bound()
	_ = PolygonDrawer{Fill: land, Geoms: []geo.Geometry{g}, Clip: true}.Draw(newRecorder())
	if !g.Bound().Equal(before) {
		t.Error("clipping modified the input geometry")
	}
}

func TestTextDraw(t *testing.T) {
	r := newRecorder()
	txt := Text{Content: "Null Island", Size: canvas.Pt(18), X: canvas.Pt(4), Y: canvas.Pt(8), Width: canvas.Pt(80), Align: canvas.AlignCenter}
	if err := txt.Draw(r); err != nil {
		t.Fatal(err)
	}
	got := r.texts[0]
	if got.Text != "Null Island" || got.Size != canvas.Pt(18) || got.Align != canvas.AlignCenter || got.Width != canvas.Pt(80) {
		t.Errorf("text block = %+v", got)
	}
	if err := (Text{Content: "x"}).Draw(r); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("zero size: expected INVALID_CONFIG, got %v", err)
	}
}

func TestBackgroundThenPolygonPixels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	c, err := canvas.Builder{Path: path, Width: canvas.Px(64), Height: canvas.Px(64)}.Build()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Abort()

	poly := square(canvas.Px(16).Pt(), canvas.Px(16).Pt(), canvas.Px(32).Pt())
	if err := Render(c, Background{Color: sea}, PolygonDrawer{Fill: land, Geoms: []geo.Geometry{poly}}); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []struct {
		x, y int
		want canvas.Color
	}{
		{32, 32, land},
		{20, 44, land},
		{4, 4, sea},
		{60, 32, sea},
		{32, 60, sea},
	} {
		r, g, b, _ := img.At(p.x, p.y).RGBA()
		if uint8(r>>8) != p.want.R || uint8(g>>8) != p.want.G || uint8(b>>8) != p.want.B {
			t.Errorf("pixel (%d, %d) = %v, want %v", p.x, p.y, img.At(p.x, p.y), p.want)
		}
	}
}
