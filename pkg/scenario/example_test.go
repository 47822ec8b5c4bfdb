package scenario_test

import (
	"fmt"

	"github.com/matzehuels/worldmaps/pkg/scenario"
)

func ExampleNames() {
	fmt.Println(scenario.Names())
	// Output: [proj-vis-background proj-vis-wgs84 social-preview]
}

func ExampleGet() {
	sc, err := scenario.Get(scenario.ProjVisWGS84)
	if err != nil {
		panic(err)
	}
	fmt.Println(sc.Output, sc.Width.Px(), sc.Height.Px(), sc.Reflect)
	// Output: proj-vis-wgs84.png 1800 900 true
}

func ExampleDecode() {
	sc, err := scenario.Decode([]byte(`
name   = "pacific"
output = "pacific.svg"
width  = "210mm"
height = "148mm"
fill   = "#2f6f4f"
land   = ["ne_110m_land/ne_110m_land.shp"]

[scale]
x = 1.0
y = -1.0
per = "1mm"
`))
	if err != nil {
		panic(err)
	}
	fmt.Println(sc.Name, sc.Fill, sc.Land[0])
	// Output: pacific #2f6f4f ne_110m_land/ne_110m_land.shp
}
