// grouperSim project population.go
//
// The population of groupers and the yearly update
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
package animal

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Recruitment coefficients
const (
	maxFertilityRate      = 0.8  // Fertilization rate with plenty of males
	fertilitySaturation   = 80.0 // How quickly fertilization saturates with the sex ratio
	larvalSurvivalScale   = 0.1
	larvalSurvivalDivisor = 8.0
	larvalShape           = 0.5265 // Gamma shape of the yearly larval survival
	larvalScale           = 1.8828 // Gamma scale of the yearly larval survival
	densityDependence     = 2.0    // Beverton-Holt compression coefficient
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

// The parameters of a run.  They do not change during the run.
type Scenario struct {
	InitialPopulationSize int     // Number of age 0 females at the start
	CarryingCapacity      int     // No recruitment at or above this size
	FishingPressure       float64 // Added mortality probability of fished groupers
	MinimumFishingAge     int     // Groupers older than this are fished
	YearsBeforeFishing    int     // First simulation year with fishing
	SimulationYears       int     // Length of a run
}

// Check the scenario before any fish are made
func (s Scenario) Validate() error {
	switch {
	case s.InitialPopulationSize <= 0:
		return fmt.Errorf("%w: initial population size must be positive, got %d", ErrInvalidConfiguration, s.InitialPopulationSize)
	case s.CarryingCapacity <= 0:
		return fmt.Errorf("%w: carrying capacity must be positive, got %d", ErrInvalidConfiguration, s.CarryingCapacity)
	case math.IsNaN(s.FishingPressure) || s.FishingPressure < 0 || s.FishingPressure >= 1:
		return fmt.Errorf("%w: fishing pressure must be in [0,1), got %g", ErrInvalidConfiguration, s.FishingPressure)
	case s.MinimumFishingAge < 0:
		return fmt.Errorf("%w: minimum fishing age must not be negative, got %d", ErrInvalidConfiguration, s.MinimumFishingAge)
	case s.YearsBeforeFishing < 0:
		return fmt.Errorf("%w: years before fishing must not be negative, got %d", ErrInvalidConfiguration, s.YearsBeforeFishing)
	case s.SimulationYears <= 0:
		return fmt.Errorf("%w: simulation years must be positive, got %d", ErrInvalidConfiguration, s.SimulationYears)
	}
	return nil
}

// What happened in one simulated year
type YearRecord_t struct {
	Year               int
	FishingActive      bool
	Survivors          int     // Fish alive after the survival check
	Males              int     // Surviving males
	Females            int     // Surviving females
	PotentialOffspring int     // Sum of the offspring of spawning females
	Fertilized         int     // Potential offspring times the fertility rate
	LarvalSurvivors    float64 // After the yearly larval survival draw
	Recruits           int     // New age 0 fish after density dependence
	PopulationSize     int     // Fish alive at the end of the year
	SexRatio           float64
}

type Population struct {
	Scenario Scenario
	Fishes   []Grouper // Live fish, order has no meaning
	Year     int       // Next year to simulate, starts at 0

	PopulationSizes []int     // One entry per simulated year
	SexRatios       []float64 // One entry per simulated year
	Records         []YearRecord_t

	spare          []Grouper // Survivor buffer swapped with Fishes every year
	rng            *rand.Rand
	rates          *RateCache
	larvalSurvival distuv.Gamma
}

// Make the initial cohort.  rates may be nil.
func NewPopulation(s Scenario, rng *rand.Rand, rates *RateCache) (*Population, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: a random number generator is required", ErrInvalidConfiguration)
	}
	if rates == nil {
		rates = NewRateCache()
	}

	p := &Population{
		Scenario: s,
		Fishes:   make([]Grouper, s.InitialPopulationSize, s.CarryingCapacity+s.InitialPopulationSize),
		spare:    make([]Grouper, 0, s.CarryingCapacity+s.InitialPopulationSize),
		rng:      rng,
		rates:    rates,
		larvalSurvival: distuv.Gamma{
			Alpha: larvalShape,
			Beta:  1 / larvalScale, // gonum uses the rate
			Src:   rng,
		},
	}
	for i := range p.Fishes {
		p.Fishes[i] = NewGrouper()
	}

	return p, nil
}

// Simulate a number of years
func (p *Population) Run(years int) {
	for i := 0; i < years; i++ {
		p.Step()
	}
}

// Simulate one year: survival, sex change, spawning, aging, then recruitment
func (p *Population) Step() YearRecord_t {
	s := p.Scenario

	var rec YearRecord_t
	rec.Year = p.Year
	rec.FishingActive = p.Year >= s.YearsBeforeFishing

	survivors := p.spare[:0]

	for i := range p.Fishes {
		fish := &p.Fishes[i]

		var alive bool
		if fish.Age > s.MinimumFishingAge && rec.FishingActive {
			alive = fish.DetermineAlive(p.rng, p.rates, s.FishingPressure)
		} else {
			alive = fish.DetermineAlive(p.rng, p.rates, 0)
		}
		if !alive {
			continue
		}

		fish.DetermineSex(p.rng, p.rates)

		if fish.Sex == Female {
			rec.Females++
			rec.PotentialOffspring += fish.CalculateOffspringCount(p.rng, p.rates)
		} else {
			rec.Males++
		}

		fish.IncrementAge()

		survivors = append(survivors, *fish)
	}

	p.spare = p.Fishes[:0]
	p.Fishes = survivors
	rec.Survivors = len(p.Fishes)

	if rec.Females > 0 {
		rec.SexRatio = float64(rec.Males) / float64(rec.Females)
	}

	if len(p.Fishes) < s.CarryingCapacity {
		p.recruit(&rec)
	}

	rec.PopulationSize = len(p.Fishes)

	p.PopulationSizes = append(p.PopulationSizes, rec.PopulationSize)
	p.SexRatios = append(p.SexRatios, rec.SexRatio)
	p.Records = append(p.Records, rec)
	p.Year++

	return rec
}

// Density dependent recruitment of the year's offspring.
// The larval survival draw is one per year for the whole cohort.
func (p *Population) recruit(rec *YearRecord_t) {
	k := float64(p.Scenario.CarryingCapacity)

	fertilityRate := maxFertilityRate * (1 - math.Exp(-fertilitySaturation*rec.SexRatio))
	rec.Fertilized = int(math.RoundToEven(float64(rec.PotentialOffspring) * fertilityRate))

	rec.LarvalSurvivors = float64(rec.Fertilized) * larvalSurvivalScale * (p.larvalSurvival.Rand() / larvalSurvivalDivisor)

	ratio := rec.LarvalSurvivors / k
	rec.Recruits = int(math.RoundToEven(rec.LarvalSurvivors / (1 + densityDependence*ratio*ratio)))

	for i := 0; i < rec.Recruits; i++ {
		p.Fishes = append(p.Fishes, NewGrouper())
	}
}
