package pipeline

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"

	"github.com/matzehuels/worldmaps/pkg/cache"
	"github.com/matzehuels/worldmaps/pkg/canvas"
	"github.com/matzehuels/worldmaps/pkg/crs"
	"github.com/matzehuels/worldmaps/pkg/errors"
	"github.com/matzehuels/worldmaps/pkg/geo"
	"github.com/matzehuels/worldmaps/pkg/observability"
)

const (
	landJSON = `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[10,10],[60,10],[60,90],[10,90],[10,10]]]}},
		{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[50,20],[90,20],[90,80],[50,80],[50,20]]]}}
	]}`
	lakeJSON = `{"type":"Polygon","coordinates":[[[35,35],[55,35],[55,55],[35,55],[35,35]]]}`
)

var (
	sea  = canvas.RGB(0x1c, 0x81, 0x58)
	land = canvas.RGB(0x44, 0xef, 0x8a)
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// testScenario maps one degree onto one pixel of a 100x100 px canvas.
func testScenario(output string) Scenario {
	bg := sea
	return Scenario{
		Name:       "test-map",
		Output:     output,
		Width:      canvas.Px(100),
		Height:     canvas.Px(100),
		Background: &bg,
		Fill:       land,
		Land:       []string{"land.geojson"},
		Lakes:      []string{"lake.geojson"},
		Scale:      ScaleSpec{X: 1, Y: 1, Per: canvas.Px(1)},
	}
}

func newTestRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func setup(t *testing.T) (data, out string) {
	t.Helper()
	data, out = t.TempDir(), t.TempDir()
	writeFile(t, data, "land.geojson", landJSON)
	writeFile(t, data, "lake.geojson", lakeJSON)
	return data, out
}

func TestExecuteRendersLandMinusLakes(t *testing.T) {
	data, out := setup(t)
	r := newTestRunner(nil)

	res, err := r.Execute(context.Background(), testScenario("map.png"), Options{DataDir: data, OutputDir: out})
	if err != nil {
		t.Fatal(err)
	}
	if res.Output != filepath.Join(out, "map.png") {
		t.Errorf("Output = %s", res.Output)
	}
	if math.Abs(res.Stats.Area-5400) > 1e-6 {
		t.Errorf("area = %v, want 5400", res.Stats.Area)
	}
	if res.Stats.Polygons != 1 || res.Stats.LandRecords != 2 || res.Stats.LakeRecords != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.RunID == "" {
		t.Error("missing run id")
	}

	f, err := os.Open(res.Output)
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
		{25, 25, land},
		{75, 75, land},
		{55, 30, land}, // where the two land squares overlap
		{45, 45, sea},  // lake
		{75, 85, sea},
		{5, 5, sea},
		{95, 95, sea},
	} {
		r, g, b, _ := img.At(p.x, p.y).RGBA()
		if uint8(r>>8) != p.want.R || uint8(g>>8) != p.want.G || uint8(b>>8) != p.want.B {
			t.Errorf("pixel (%d, %d) = %v, want %v", p.x, p.y, img.At(p.x, p.y), p.want)
		}
	}
}

func TestExecuteUsesGeometryCache(t *testing.T) {
	data, out := setup(t)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := newTestRunner(fc)
	sc := testScenario("map.svg")
	opts := Options{DataDir: data, OutputDir: out}

	first, err := r.Execute(context.Background(), sc, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.GeometryHit {
		t.Error("first run cannot hit the cache")
	}

	second, err := r.Execute(context.Background(), sc, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.GeometryHit {
		t.Error("second run should hit the cache")
	}
	if second.Stats.Area != first.Stats.Area {
		t.Errorf("cached area %v, computed %v", second.Stats.Area, first.Stats.Area)
	}

	// Changing a source invalidates the entry.
	writeFile(t, data, "lake.geojson", `{"type":"Polygon","coordinates":[[[40,40],[45,40],[45,45],[40,45],[40,40]]]}`)
	third, err := r.Execute(context.Background(), sc, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.GeometryHit {
		t.Error("edited source should miss the cache")
	}
	if math.Abs(third.Stats.Area-5775) > 1e-6 {
		t.Errorf("area after edit = %v, want 5775", third.Stats.Area)
	}

	refreshed, err := r.Execute(context.Background(), sc, Options{DataDir: data, OutputDir: out, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.GeometryHit {
		t.Error("Refresh should bypass the cache")
	}
}

// fixedCache answers every Get with the same entry.
type fixedCache struct {
	data []byte
}

func (c fixedCache) Get(context.Context, string) ([]byte, bool, error) { return c.data, true, nil }

func (c fixedCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (c fixedCache) Delete(context.Context, string) error { return nil }

func (c fixedCache) Close() error { return nil }

func TestExecuteDiscardsCacheEntryInOtherCRS(t *testing.T) {
	data, out := setup(t)
	stale, err := geo.MarshalGeoJSON(geo.New(crs.WebMercator, orb.MultiPolygon{
		{{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}},
	}))
	if err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	r := NewRunner(fixedCache{data: stale}, nil, log.New(&logs))

	res, err := r.Execute(context.Background(), testScenario("map.svg"), Options{DataDir: data, OutputDir: out})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.GeometryHit {
		t.Error("entry in another CRS must not be used")
	}
	if math.Abs(res.Stats.Area-5400) > 1e-6 {
		t.Errorf("area = %v, want 5400", res.Stats.Area)
	}
	got := logs.String()
	if !strings.Contains(got, "another CRS") || !strings.Contains(got, "EPSG:3857") {
		t.Errorf("log should name the mismatched CRS:\n%s", got)
	}
	if strings.Contains(got, "error=") {
		t.Errorf("log reports an error for a readable entry:\n%s", got)
	}
}

func TestExecuteFailureLeavesNoOutput(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Scenario)
		code   errors.Code
	}{
		{
			name:   "missing source",
			modify: func(s *Scenario) { s.Lakes = []string{"missing.shp"} },
			code:   errors.ErrCodeSourceRead,
		},
		{
			name: "projection blows up at the pole",
			modify: func(s *Scenario) {
				s.Land = []string{"polar.geojson"}
				s.Lakes = nil
				s.Projection = "EPSG:3857"
				s.Scale = ScaleSpec{X: 100000, Y: -100000}
			},
			code: errors.ErrCodeProjection,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, out := setup(t)
			writeFile(t, data, "polar.geojson", `{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,95],[0,95],[0,0]]]}`)
			sc := testScenario("map.png")
			tt.modify(&sc)

			_, err := newTestRunner(nil).Execute(context.Background(), sc, Options{DataDir: data, OutputDir: out})
			if !errors.Is(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
			entries, _ := os.ReadDir(out)
			if len(entries) != 0 {
				t.Errorf("failed render left files: %v", entries)
			}
		})
	}
}

type stageRecorder struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	stages []string
}

func (h *stageRecorder) OnStageComplete(_ context.Context, _, stage string, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		stage += "!"
	}
	h.stages = append(h.stages, stage)
}

func TestExecuteStageOrder(t *testing.T) {
	data, out := setup(t)
	rec := &stageRecorder{}
	observability.SetPipelineHooks(rec)
	defer observability.Reset()

	if _, err := newTestRunner(nil).Execute(context.Background(), testScenario("map.svg"), Options{DataDir: data, OutputDir: out}); err != nil {
		t.Fatal(err)
	}
	want := "load normalize transform render"
	if got := strings.Join(rec.stages, " "); got != want {
		t.Errorf("stages = %q, want %q", got, want)
	}
}

func TestExecuteCanceled(t *testing.T) {
	data, out := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestRunner(nil).Execute(ctx, testScenario("map.png"), Options{DataDir: data, OutputDir: out})
	if err == nil || !strings.Contains(err.Error(), context.Canceled.Error()) {
		t.Errorf("expected cancellation, got %v", err)
	}
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Scenario)
		ok     bool
	}{
		{"valid", func(*Scenario) {}, true},
		{"bad name", func(s *Scenario) { s.Name = "Social Preview" }, false},
		{"no output", func(s *Scenario) { s.Output = "" }, false},
		{"output escapes", func(s *Scenario) { s.Output = "../map.png" }, false},
		{"unknown format", func(s *Scenario) { s.Output = "map.gif" }, false},
		{"zero height", func(s *Scenario) { s.Height = 0 }, false},
		{"no land", func(s *Scenario) { s.Land = nil }, false},
		{"bad source crs", func(s *Scenario) { s.SourceCRS = "EPSG:0" }, false},
		{"bad projection", func(s *Scenario) { s.Projection = "+proj=nope" }, false},
		{"zero scale", func(s *Scenario) { s.Scale = ScaleSpec{} }, false},
		{"inverted band", func(s *Scenario) { s.ExcludeBand = &Band{MinX: 1, MaxX: 0, MaxY: 1} }, false},
		{"text without size", func(s *Scenario) { s.Text = []TextSpec{{Content: "x"}} }, false},
		{"bad alignment", func(s *Scenario) { s.Text = []TextSpec{{Content: "x", Size: 10, Align: "justify"}} }, false},
		{"text", func(s *Scenario) { s.Text = []TextSpec{{Content: "x", Size: 10, Align: "center"}} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := testScenario("map.png")
			tt.modify(&sc)
			if err := sc.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestScenarioCRS(t *testing.T) {
	sc := testScenario("map.png")
	sc.SwapAxes = true
	working, err := sc.WorkingCRS()
	if err != nil {
		t.Fatal(err)
	}
	if working.ID != "EPSG:4326" {
		t.Errorf("swapped working CRS = %s, want EPSG:4326", working)
	}
	dest, _ := sc.DestCRS()
	if !dest.Equal(working) {
		t.Errorf("empty projection should keep the working CRS, got %s", dest)
	}
}

func TestScaleSpec(t *testing.T) {
	s := ScaleSpec{X: 35000, Y: -35000, Per: canvas.Px(1)}.Scale()
	if math.Abs(s.X-35000/0.75) > 1e-9 || math.Abs(s.Y+35000/0.75) > 1e-9 {
		t.Errorf("Scale = %+v", s)
	}
	if got := (ScaleSpec{X: 2, Y: 2}).Scale(); got.X != 2 || got.Y != 2 {
		t.Errorf("zero Per should mean one point, got %+v", got)
	}
}
