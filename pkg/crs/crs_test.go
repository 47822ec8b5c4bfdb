package crs

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/worldmaps/pkg/errors"
)

func TestParseKnown(t *testing.T) {
	tests := []struct {
		in   string
		want CRS
	}{
		{"EPSG:4326", WGS84},
		{"epsg:4326", WGS84},
		{"OGC:CRS84", LonLat},
		{" EPSG:3857 ", WebMercator},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "EPSG:99999", "proj=aea", "+lat_1=20", "+proj=rpoly +lat_ts=90", "+proj=nope"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) should fail", in)
		}
	}
}

func TestFromProj4Normalizes(t *testing.T) {
	a, err := FromProj4("+proj=rpoly +lon_0=10 +lat_0=0")
	if err != nil {
		t.Fatal(err)
	}
	b, err := FromProj4("+lat_0=0  +lon_0=10 +proj=rpoly")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Errorf("parameter order should not matter: %q vs %q", a.Proj4, b.Proj4)
	}
	if a.ID != "proj:rpoly" {
		t.Errorf("ID = %q, want proj:rpoly", a.ID)
	}
	if a.ProjName() != "rpoly" {
		t.Errorf("ProjName = %q", a.ProjName())
	}
}

func TestSwapped(t *testing.T) {
	if got := LonLat.Swapped(); !got.Equal(WGS84) {
		t.Errorf("LonLat.Swapped() = %v, want %v", got, WGS84)
	}
	if got := WGS84.Swapped().Swapped(); !got.Equal(WGS84) {
		t.Errorf("double swap = %v, want %v", got, WGS84)
	}
	if LonLat.Equal(WGS84) {
		t.Error("axis order must take part in equality")
	}
	if !LonLat.SamePlane(WGS84) {
		t.Error("LonLat and WGS84 share a plane")
	}
	if !Canvas.IsCanvas() || LonLat.IsCanvas() {
		t.Error("IsCanvas misclassifies")
	}
	if !WGS84.IsGeographic() || WebMercator.IsGeographic() {
		t.Error("IsGeographic misclassifies")
	}
}

func TestIdentityProjector(t *testing.T) {
	p, err := NewProjector(LonLat, LonLat)
	if err != nil {
		t.Fatal(err)
	}
	x, y, err := p.Forward(20, 10)
	if err != nil {
		t.Fatal(err)
	}
	if x != 20 || y != 10 {
		t.Errorf("Forward = (%v, %v), want (20, 10)", x, y)
	}
	bx, by, err := p.Inverse(x, y)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(bx-20) > 1e-6 || math.Abs(by-10) > 1e-6 {
		t.Errorf("round trip = (%v, %v)", bx, by)
	}
}

func TestAxisSwapProjector(t *testing.T) {
	p, err := NewProjector(LonLat, WGS84)
	if err != nil {
		t.Fatal(err)
	}
	x, y, err := p.Forward(13.4, 52.5)
	if err != nil {
		t.Fatal(err)
	}
	if x != 52.5 || y != 13.4 {
		t.Errorf("Forward = (%v, %v), want (52.5, 13.4)", x, y)
	}
}

func TestProjectorRejectsCanvas(t *testing.T) {
	_, err := NewProjector(Canvas, LonLat)
	if !errors.Is(err, errors.ErrCodeProjection) {
		t.Errorf("expected PROJECTION error, got %v", err)
	}
}

func TestProjectorRejectsNonFinite(t *testing.T) {
	p, err := NewProjector(LonLat, LonLat)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := p.Forward(math.NaN(), 0); !errors.Is(err, errors.ErrCodeProjection) {
		t.Errorf("expected PROJECTION error, got %v", err)
	}
	if _, _, err := p.Forward(0, math.Inf(1)); !errors.Is(err, errors.ErrCodeProjection) {
		t.Errorf("expected PROJECTION error, got %v", err)
	}
}

func TestRPolyForward(t *testing.T) {
	dst, err := FromProj4("+proj=rpoly")
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewProjector(LonLat, dst)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name         string
		lon, lat     float64
		wantX, wantY float64
	}{
		{"origin", 0, 0, 0, 0},
		{"equator is true to scale", 90, 0, wgs84Radius * math.Pi / 2, 0},
		{"central meridian is true to scale", 0, 45, 0, wgs84Radius * math.Pi / 4},
		{"southern hemisphere", 0, -30, 0, -wgs84Radius * math.Pi / 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, err := p.Forward(tt.lon, tt.lat)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(x-tt.wantX) > 1e-6 || math.Abs(y-tt.wantY) > 1e-6 {
				t.Errorf("Forward(%v, %v) = (%v, %v), want (%v, %v)", tt.lon, tt.lat, x, y, tt.wantX, tt.wantY)
			}
		})
	}

	// East and west mirror each other.
	xe, ye, _ := p.Forward(60, 40)
	xw, yw, _ := p.Forward(-60, 40)
	if math.Abs(xe+xw) > 1e-6 || math.Abs(ye-yw) > 1e-6 {
		t.Errorf("asymmetric: (%v, %v) vs (%v, %v)", xe, ye, xw, yw)
	}

	if p.CanInvert() {
		t.Error("rpoly should not offer an inverse")
	}
	if _, _, err := p.Inverse(0, 0); !errors.Is(err, errors.ErrCodeProjection) {
		t.Errorf("expected PROJECTION error, got %v", err)
	}
}

func TestRPolyRejectsBadLatitude(t *testing.T) {
	dst, _ := FromProj4("+proj=rpoly")
	p, err := NewProjector(LonLat, dst)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := p.Forward(0, 91); !errors.Is(err, errors.ErrCodeProjection) {
		t.Errorf("expected PROJECTION error, got %v", err)
	}
}

func TestRPolyFalseOrigin(t *testing.T) {
	dst, err := FromProj4("+proj=rpoly +x_0=1000 +y_0=-500")
	if err != nil {
		t.Fatal(err)
	}
	p, _ := NewProjector(WGS84, dst)
	// WGS84 input is (lat, lon).
	x, y, err := p.Forward(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if x != 1000 || y != -500 {
		t.Errorf("Forward(0, 0) = (%v, %v), want (1000, -500)", x, y)
	}
}

func TestAlbersRoundTrip(t *testing.T) {
	dst, err := Parse("+proj=aea +lat_1=-20 +lat_2=0 +lon_0=0 +lat_0=0 +x_0=0 +y_0=0")
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewProjector(LonLat, dst)
	if err != nil {
		t.Fatal(err)
	}
	x, y, err := p.Forward(20, -35)
	if err != nil {
		t.Fatal(err)
	}
	if x <= 0 || y >= 0 {
		t.Errorf("Forward(20, -35) = (%v, %v), want x > 0 and y < 0", x, y)
	}
	lon, lat, err := p.Inverse(x, y)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(lon-20) > 1e-6 || math.Abs(lat+35) > 1e-6 {
		t.Errorf("round trip = (%v, %v), want (20, -35)", lon, lat)
	}
}

func TestFromProj4Defaults(t *testing.T) {
	tests := []struct {
		name string
		in   string
		lon  float64
		lat  float64
	}{
		{"albers usa", "+proj=aea +lat_1=29.5 +lat_2=45.5", -96, 37.5},
		{"albers south", "+proj=aea +lat_1=-20 +lat_2=0", 10, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst, err := FromProj4(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			for _, k := range []string{"+lat_0=0", "+lon_0=0", "+x_0=0", "+y_0=0"} {
				if !strings.Contains(dst.Proj4, k) {
					t.Errorf("Proj4 = %q, missing %s", dst.Proj4, k)
				}
			}
			p, err := NewProjector(LonLat, dst)
			if err != nil {
				t.Fatal(err)
			}
			if _, _, err := p.Forward(tt.lon, tt.lat); err != nil {
				t.Errorf("Forward(%v, %v): %v", tt.lon, tt.lat, err)
			}
		})
	}
}

func TestFromProj4KeepsExplicitParams(t *testing.T) {
	c, err := FromProj4("+proj=aea +lat_1=29.5 +lat_2=45.5 +lon_0=-96 +x_0=100")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.Proj4, "+lon_0=-96") || !strings.Contains(c.Proj4, "+x_0=100") {
		t.Errorf("explicit parameters overwritten: %q", c.Proj4)
	}
	r, err := FromProj4("+proj=rpoly")
	if err != nil {
		t.Fatal(err)
	}
	if r.Proj4 != "+proj=rpoly" {
		t.Errorf("rpoly Proj4 = %q, want +proj=rpoly", r.Proj4)
	}
}

func TestFromProj4UnknownProjection(t *testing.T) {
	_, err := FromProj4("+proj=nope +lat_1=10")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("expected INVALID_CONFIG, got %v", err)
	}
}
