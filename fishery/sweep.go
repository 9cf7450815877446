// grouperSim project sweep.go
//
// Runs replicate simulations for each fishing pressure
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
package fishery

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"github.com/remeh/sizedwaitgroup"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/blgolden/grouperSim/animal"
)

var ErrNoReplicates = errors.New("no replicates requested")
var ErrNoPressures = errors.New("no fishing pressures requested")

type SweepConfig struct {
	Base       animal.Scenario // FishingPressure is replaced by each of Pressures
	Pressures  []float64
	Replicates int   // Simulations per fishing pressure
	Seed       int64 // Seed of the generator that makes the replicate seeds
	Workers    int   // Concurrent simulations, <= 0 means one per CPU
}

// One simulation
type Replicate struct {
	Index           int
	Seed            uint64
	PopulationSizes []int
	SexRatios       []float64
	Records         []animal.YearRecord_t
}

// Final year statistics over the replicates of a level
type Summary_t struct {
	MeanFinalSize     float64
	StdDevFinalSize   float64
	StdDevMean        float64 // Standard deviation of MeanFinalSize
	MeanFinalSexRatio float64
	Collapsed         int // Replicates that ended with no fish
}

// All replicates of one fishing pressure
type Level struct {
	Pressure   float64
	Scenario   animal.Scenario
	Replicates []Replicate
	Summary    Summary_t
}

// Check everything before any simulation starts
func (c SweepConfig) Validate() error {
	if c.Replicates <= 0 {
		return fmt.Errorf("%w: %d", ErrNoReplicates, c.Replicates)
	}
	if len(c.Pressures) == 0 {
		return ErrNoPressures
	}
	for _, p := range c.Pressures {
		s := c.Base
		s.FishingPressure = p
		if err := s.Validate(); err != nil {
			return fmt.Errorf("fishing pressure %g: %w", p, err)
		}
	}
	return nil
}

// Seeds for each replicate index.  The same seeds are used at every
// fishing pressure so the levels differ only by the pressure.
func Seeds(seed int64, n int) []uint64 {
	master := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = master.Uint64()
	}
	return seeds
}

// Run one simulation with its own generator and rate cache
func RunReplicate(s animal.Scenario, index int, seed uint64) (Replicate, error) {
	p, err := animal.NewPopulation(s, rand.New(rand.NewPCG(seed, seed)), animal.NewRateCache())
	if err != nil {
		return Replicate{}, err
	}

	p.Run(s.SimulationYears)

	return Replicate{
		Index:           index,
		Seed:            seed,
		PopulationSizes: p.PopulationSizes,
		SexRatios:       p.SexRatios,
		Records:         p.Records,
	}, nil
}

// Replaced in tests
var runReplicate = RunReplicate

// Simulate every fishing pressure.  Levels come back in the order of
// c.Pressures and replicates in index order.  At most Workers
// simulations run at once over all the levels.
func Sweep(ctx context.Context, c SweepConfig) ([]Level, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	seeds := Seeds(c.Seed, c.Replicates)
	levels := make([]Level, len(c.Pressures))

	swg := sizedwaitgroup.New(workers)
	g, gctx := errgroup.WithContext(ctx)

launch:
	for i, pressure := range c.Pressures {
		s := c.Base
		s.FishingPressure = pressure
		levels[i] = Level{
			Pressure:   pressure,
			Scenario:   s,
			Replicates: make([]Replicate, len(seeds)),
		}

		for r, seed := range seeds {
			if gctx.Err() != nil {
				break launch
			}
			swg.Add()
			g.Go(func() error {
				defer swg.Done()
				rep, err := runReplicate(s, r, seed)
				if err != nil {
					return fmt.Errorf("fishing pressure %g replicate %d: %w", pressure, r, err)
				}
				levels[i].Replicates[r] = rep
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := range levels {
		levels[i].Summary = Summarize(levels[i].Replicates)
	}
	return levels, nil
}

// Final year statistics of a set of replicates
func Summarize(reps []Replicate) Summary_t {
	var sum Summary_t
	if len(reps) == 0 {
		return sum
	}

	sizes := make([]float64, 0, len(reps))
	ratios := make([]float64, 0, len(reps))
	for _, r := range reps {
		n := len(r.PopulationSizes)
		if n == 0 {
			continue
		}
		sizes = append(sizes, float64(r.PopulationSizes[n-1]))
		ratios = append(ratios, r.SexRatios[n-1])
		if r.PopulationSizes[n-1] == 0 {
			sum.Collapsed++
		}
	}
	if len(sizes) == 0 {
		return sum
	}

	mean, variance := stat.MeanVariance(sizes, nil)
	if len(sizes) < 2 {
		variance = 0 // undefined for a single replicate
	}
	sum.MeanFinalSize = mean
	sum.StdDevFinalSize = math.Sqrt(variance)
	sum.StdDevMean = math.Sqrt(variance / float64(len(sizes)))
	sum.MeanFinalSexRatio = stat.Mean(ratios, nil)

	return sum
}
