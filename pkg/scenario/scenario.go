// Package scenario provides the built-in map scenarios and loads scenario
// files.
//
// A scenario file is TOML decoded into [pipeline.Scenario]:
//
//	name   = "proj-vis-wgs84"
//	output = "proj-vis-wgs84.png"
//	width  = "1800px"
//	height = "900px"
//
//	background = "#3b82f6"
//	fill       = "#ffffff"
//	land       = ["ne_50m_land/ne_50m_land.shp"]
//	swap_axes  = true
//
//	[scale]
//	x   = 1.0
//	y   = -1.0
//	per = "5px"
//
// Lengths accept px, pt, mm and in suffixes; colors are "#rrggbb" or
// "#rrggbbaa".
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/worldmaps/pkg/errors"
	"github.com/matzehuels/worldmaps/pkg/pipeline"
)

// Names of the built-in scenarios.
const (
	SocialPreview     = "social-preview"
	ProjVisWGS84      = "proj-vis-wgs84"
	ProjVisBackground = "proj-vis-background"
)

var builtins = map[string]func() pipeline.Scenario{
	SocialPreview:     socialPreview,
	ProjVisWGS84:      projVisWGS84,
	ProjVisBackground: projVisBackground,
}

// Names returns the built-in scenario names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every built-in scenario, sorted by name.
func All() []pipeline.Scenario {
	names := Names()
	out := make([]pipeline.Scenario, len(names))
	for i, name := range names {
		out[i] = builtins[name]()
	}
	return out
}

// Get returns the built-in scenario called name. Each call returns a fresh
// value, so callers may modify it.
func Get(name string) (pipeline.Scenario, error) {
	fn, ok := builtins[name]
	if !ok {
		return pipeline.Scenario{}, errors.New(errors.ErrCodeNotFound,
			"unknown scenario %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return fn(), nil
}

// Decode parses a TOML scenario and validates it.
func Decode(data []byte) (pipeline.Scenario, error) {
	var sc pipeline.Scenario
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&sc)
	if err != nil {
		return pipeline.Scenario{}, errors.Wrap(errors.ErrCodeInvalidScenario, err, "decode scenario")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return pipeline.Scenario{}, errors.New(errors.ErrCodeInvalidScenario, "unknown scenario keys: %s", strings.Join(keys, ", "))
	}
	if err := sc.Validate(); err != nil {
		return pipeline.Scenario{}, err
	}
	return sc, nil
}

// LoadFile reads and decodes the scenario file at path.
func LoadFile(path string) (pipeline.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return pipeline.Scenario{}, errors.Wrap(errors.ErrCodeNotFound, err, "scenario file %s", path)
		}
		return pipeline.Scenario{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read scenario file %s", path)
	}
	sc, err := Decode(data)
	if err != nil {
		return pipeline.Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Encode writes sc as TOML. The output decodes back into an equal value.
func Encode(sc pipeline.Scenario) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(sc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode scenario %s", sc.Name)
	}
	return buf.Bytes(), nil
}
