// grouperSim project params.go
//
// Reads the parameter file over the built in defaults
/*
Copyright 2021 Bruce Golden and Matt Spangler

Permission is hereby granted, free of charge, to any person obtaining a copy of
this software and associated documentation files (the "Software"), to deal in
the Software without restriction, including without limitation the rights to
use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
of the Software, and to permit persons to whom the Software is furnished to do
so, subject to the following conditions:
The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/
package params

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	hjson "github.com/hjson/hjson-go"
	"gopkg.in/yaml.v3"

	"github.com/blgolden/grouperSim/animal"
	"github.com/blgolden/grouperSim/fishery"
)

//go:embed defaults.hjson
var defaultsHjson []byte

var ErrMissingKey = errors.New("key not found in parameter file")
var ErrBadValue = errors.New("bad value in parameter file")

// Most fishing pressures a fishingPressureRange may ask for
const MaxPressureLevels = 1000

// Everything a run needs from the parameter file
type Params_t struct {
	Comment     string
	Scenario    animal.Scenario
	Pressures   []float64
	Replicates  int
	OutputImage string // Empty means no image is saved
	Dpi         int
}

// Load the defaults and lay the keys of the file at path over them.
// The file is hjson unless it ends in .yaml or .yml.  An empty path
// gives the defaults.
func Load(path string) (map[string]interface{}, error) {
	var param map[string]interface{}
	if err := hjson.Unmarshal(defaultsHjson, &param); err != nil {
		return nil, fmt.Errorf("parsing built in defaults: %w", err)
	}

	if path == "" {
		return param, nil
	}

	byteValue, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameter file: %w", err)
	}

	var user map[string]interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(byteValue, &user)
	default:
		err = hjson.Unmarshal(byteValue, &user)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	for k, v := range user {
		param[k] = v
	}
	return param, nil
}

// Turn the param[key] pairs into the run parameters
func Decode(param map[string]interface{}) (Params_t, error) {
	var p Params_t
	var err error

	if c, ok := param["Comment"].(string); ok {
		p.Comment = c
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"initialPopulationSize", &p.Scenario.InitialPopulationSize},
		{"carryingCapacity", &p.Scenario.CarryingCapacity},
		{"minimumFishingAge", &p.Scenario.MinimumFishingAge},
		{"yearsBeforeFishing", &p.Scenario.YearsBeforeFishing},
		{"simulationYears", &p.Scenario.SimulationYears},
		{"simulationsPerFishingPressure", &p.Replicates},
		{"dpi", &p.Dpi},
	}
	for _, i := range ints {
		if *i.dst, err = intValue(param, i.key); err != nil {
			return p, err
		}
	}

	if p.Pressures, err = pressures(param); err != nil {
		return p, err
	}

	if v, ok := param["outputImage"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return p, fmt.Errorf("%w: 'outputImage' must be a file name", ErrBadValue)
		}
		p.OutputImage = s
	}

	return p, nil
}

// The explicit fishingPressures list wins over fishingPressureRange.
// Listed values are used as written, only the range is rounded.
func pressures(param map[string]interface{}) ([]float64, error) {
	if v, ok := param["fishingPressures"]; ok {
		array, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: 'fishingPressures' must be a list", ErrBadValue)
		}
		out := make([]float64, len(array))
		for i := range array {
			f, ok := number(array[i])
			if !ok {
				return nil, fmt.Errorf("%w: 'fishingPressures' entry %v", ErrBadValue, array[i])
			}
			out[i] = f
		}
		return out, nil
	}

	v, ok := param["fishingPressureRange"]
	if !ok {
		return nil, fmt.Errorf("%w: 'fishingPressures' or 'fishingPressureRange'", ErrMissingKey)
	}
	array, ok := v.([]interface{})
	if !ok || len(array) != 3 {
		return nil, fmt.Errorf("%w: 'fishingPressureRange' must be [start, stop, count]", ErrBadValue)
	}
	var r [3]float64
	for i := range r {
		if r[i], ok = number(array[i]); !ok {
			return nil, fmt.Errorf("%w: 'fishingPressureRange' entry %v", ErrBadValue, array[i])
		}
	}
	if r[2] != math.Trunc(r[2]) || r[2] > MaxPressureLevels {
		return nil, fmt.Errorf("%w: 'fishingPressureRange' count %v, at most %d", ErrBadValue, r[2], MaxPressureLevels)
	}

	return fishery.Linspace(r[0], r[1], int(r[2]))
}

func intValue(param map[string]interface{}, key string) (int, error) {
	v, ok := param[key]
	if !ok {
		return 0, fmt.Errorf("%w: '%s'", ErrMissingKey, key)
	}
	f, ok := number(v)
	if !ok || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: '%s' must be a whole number, got %v", ErrBadValue, key, v)
	}
	return int(f), nil
}

// hjson numbers are float64, yaml gives int for whole numbers
func number(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}
