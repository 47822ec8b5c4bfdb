package normalize_test

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/matzehuels/worldmaps/pkg/crs"
	"github.com/matzehuels/worldmaps/pkg/geo"
	"github.com/matzehuels/worldmaps/pkg/normalize"
)

func ExampleDifference() {
	land := geo.FromPolygon(crs.LonLat, orb.Polygon{{{0, 0}, {0, 10}, {10, 10}, {10, 0}}})
	lake := geo.FromPolygon(crs.LonLat, orb.Polygon{{{2, 2}, {2, 4}, {4, 4}, {4, 2}}})

	dry, err := normalize.Difference(land, lake)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%.0f\n", dry.Area())
	// Output: 96
}
