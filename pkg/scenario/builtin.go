package scenario

import (
	"github.com/paulmach/orb"

	"github.com/matzehuels/worldmaps/pkg/canvas"
	"github.com/matzehuels/worldmaps/pkg/pipeline"
)

// Natural Earth sources, relative to the data directory.
const (
	land50m   = "ne_50m_land/ne_50m_land.shp"
	lakes50m  = "ne_50m_lakes/ne_50m_lakes.shp"
	land110m  = "ne_110m_land/ne_110m_land.shp"
	lakes110m = "ne_110m_lakes/ne_110m_lakes.shp"
)

// socialPreview is the repository banner: the world in a rectified
// polyconic projection with the project name on top.
func socialPreview() pipeline.Scenario {
	width := canvas.Px(1280)
	height := width / 2
	bg := canvas.RGB(28, 129, 88)
	return pipeline.Scenario{
		Name:        SocialPreview,
		Description: "Rectified polyconic world map with the project title",
		Output:      "social-preview.png",
		Width:       width,
		Height:      height,
		Background:  &bg,
		Fill:        canvas.RGB(68, 239, 138),
		Land:        []string{land50m},
		Lakes:       []string{lakes50m},
		SwapAxes:    true,
		Projection:  "+proj=rpoly",
		Scale:       pipeline.ScaleSpec{X: 35000, Y: -35000, Per: canvas.Px(1)},
		GeoOrigin:   orb.Point{0, 0},
		Origin:      pipeline.CanvasSpot{X: width / 4, Y: height / 2},
		Clip:        true,
		Text: []pipeline.TextSpec{{
			Content: "world-maps",
			Bold:    true,
			Size:    canvas.Pt(90),
			Color:   canvas.RGB(255, 255, 255),
			X:       0,
			Y:       canvas.Pt(height.Pt()/2 - 70),
			Width:   width,
			Align:   "center",
		}},
	}
}

// projVisWGS84 draws unprojected latitude and longitude, one degree per
// 1/360 of the canvas width. The reflection step turns the (lat, lon)
// working order into an east-right, north-up picture centred on the
// canvas.
func projVisWGS84() pipeline.Scenario {
	width := canvas.Px(1800)
	bg := canvas.RGB(59, 130, 246)
	return pipeline.Scenario{
		Name:        ProjVisWGS84,
		Description: "Plate carree world map in raw WGS 84 coordinates",
		Output:      "proj-vis-wgs84.png",
		Width:       width,
		Height:      width / 2,
		Background:  &bg,
		Fill:        canvas.RGB(255, 255, 255),
		Land:        []string{land50m},
		Lakes:       []string{lakes50m},
		SwapAxes:    true,
		Scale:       pipeline.ScaleSpec{X: 1, Y: -1, Per: width / 360},
		Reflect:     true,
	}
}

// projVisBackground is a transparent Albers equal-area strip without
// Antarctica, meant as a page background.
func projVisBackground() pipeline.Scenario {
	width := canvas.Px(1280)
	return pipeline.Scenario{
		Name:        ProjVisBackground,
		Description: "Albers equal-area land strip without Antarctica",
		Output:      "proj-vis-background.svg",
		Width:       width,
		Height:      width / 3,
		Fill:        canvas.RGB(59, 130, 246),
		Land:        []string{land110m},
		Lakes:       []string{lakes110m},
		SwapAxes:    true,
		// (lat, lon) order after the swap.
		ExcludeBand: &pipeline.Band{MinX: -90, MinY: -180, MaxX: -62, MaxY: 180},
		Projection:  "+proj=aea +lat_1=-20 +lat_2=0 +lon_0=0 +lat_0=0 +x_0=0 +y_0=0",
		Scale:       pipeline.ScaleSpec{X: 30000, Y: -30000, Per: canvas.Px(1)},
		Origin:      pipeline.CanvasSpot{X: width / 2, Y: width / 16},
		Clip:        true,
	}
}
