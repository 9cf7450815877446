package animal

import (
	"errors"
	"math"
	"math/rand/v2"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

func testScenario() Scenario {
	return Scenario{
		InitialPopulationSize: 1000,
		CarryingCapacity:      3000,
		FishingPressure:       0.0,
		MinimumFishingAge:     3,
		YearsBeforeFishing:    100,
		SimulationYears:       10,
	}
}

func newTestPopulation(t *testing.T, s Scenario, seed uint64) *Population {
	t.Helper()
	p, err := NewPopulation(s, rand.New(rand.NewPCG(seed, seed)), nil)
	if err != nil {
		t.Fatalf("NewPopulation() error = %v", err)
	}
	return p
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Scenario)
	}{
		{"zero initial population", func(s *Scenario) { s.InitialPopulationSize = 0 }},
		{"negative initial population", func(s *Scenario) { s.InitialPopulationSize = -5 }},
		{"zero carrying capacity", func(s *Scenario) { s.CarryingCapacity = 0 }},
		{"negative fishing pressure", func(s *Scenario) { s.FishingPressure = -0.1 }},
		{"fishing pressure of one", func(s *Scenario) { s.FishingPressure = 1 }},
		{"negative minimum fishing age", func(s *Scenario) { s.MinimumFishingAge = -1 }},
		{"negative years before fishing", func(s *Scenario) { s.YearsBeforeFishing = -1 }},
		{"no simulation years", func(s *Scenario) { s.SimulationYears = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testScenario()
			tt.modify(&s)
			_, err := NewPopulation(s, rand.New(rand.NewPCG(1, 1)), nil)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("NewPopulation() error = %v, want ErrInvalidConfiguration", err)
			}
		})
	}

	if err := testScenario().Validate(); err != nil {
		t.Errorf("Validate() on the reference scenario = %v", err)
	}
}

func TestNewPopulationRequiresRng(t *testing.T) {
	if _, err := NewPopulation(testScenario(), nil, nil); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("NewPopulation(nil rng) error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestNewPopulationInitialCohort(t *testing.T) {
	p := newTestPopulation(t, testScenario(), 1)
	if len(p.Fishes) != 1000 {
		t.Fatalf("initial cohort = %d fish, want 1000", len(p.Fishes))
	}
	for _, f := range p.Fishes {
		if f.Age != 0 || f.Sex != Female {
			t.Fatalf("initial fish %+v, want age 0 female", f)
		}
	}
}

func TestRunSeriesLength(t *testing.T) {
	s := testScenario()
	p := newTestPopulation(t, s, 42)
	p.Run(s.SimulationYears)

	if len(p.PopulationSizes) != s.SimulationYears || len(p.SexRatios) != s.SimulationYears {
		t.Fatalf("series lengths %d and %d, want %d", len(p.PopulationSizes), len(p.SexRatios), s.SimulationYears)
	}
	if len(p.Records) != s.SimulationYears {
		t.Fatalf("records length %d, want %d", len(p.Records), s.SimulationYears)
	}
	for i, n := range p.PopulationSizes {
		if n < 0 || n > 10000 {
			t.Errorf("year %d population size %d out of range", i, n)
		}
		if p.SexRatios[i] < 0 {
			t.Errorf("year %d sex ratio %v is negative", i, p.SexRatios[i])
		}
		if p.Records[i].PopulationSize != n || p.Records[i].Year != i {
			t.Errorf("year %d record %+v does not match series", i, p.Records[i])
		}
	}
}

func TestFirstYearEveryoneSurvives(t *testing.T) {
	s := testScenario()
	s.CarryingCapacity = 500
	p := newTestPopulation(t, s, 7)

	rec := p.Step()
	if rec.Survivors != 1000 {
		t.Errorf("age 0 survivors = %d, want 1000", rec.Survivors)
	}
	if rec.Recruits != 0 || rec.PopulationSize != 1000 {
		t.Errorf("recruited %d fish above carrying capacity, size %d", rec.Recruits, rec.PopulationSize)
	}
	for _, f := range p.Fishes {
		if f.Age != 1 {
			t.Fatalf("survivor age %d, want 1", f.Age)
		}
	}
}

func TestNoRecruitmentAtCarryingCapacity(t *testing.T) {
	s := testScenario()
	s.InitialPopulationSize = 200
	s.CarryingCapacity = 100
	p := newTestPopulation(t, s, 3)

	for i := 0; i < 20; i++ {
		before := len(p.Fishes)
		rec := p.Step()
		if rec.Survivors >= s.CarryingCapacity && rec.Recruits != 0 {
			t.Fatalf("year %d: %d survivors at capacity %d but %d recruits", rec.Year, rec.Survivors, s.CarryingCapacity, rec.Recruits)
		}
		if rec.Survivors > before {
			t.Fatalf("year %d: survivors %d exceed live fish %d", rec.Year, rec.Survivors, before)
		}
	}
}

func TestFishingEligibility(t *testing.T) {
	s := testScenario()
	s.InitialPopulationSize = 200
	s.CarryingCapacity = 1 // no recruits to blur the counts
	s.FishingPressure = 0.99
	s.MinimumFishingAge = 3
	s.YearsBeforeFishing = 10

	tests := []struct {
		name         string
		age          int
		year         int
		wantFishing  bool
		wantWipedOut bool
	}{
		{"at minimum age in a fishing year", 3, 10, true, false},
		{"over minimum age in the first fishing year", 4, 10, true, true},
		{"over minimum age the year before fishing", 4, 9, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPopulation(t, s, 21)
			for i := range p.Fishes {
				p.Fishes[i].Age = tt.age
			}
			p.Year = tt.year

			rec := p.Step()
			if rec.FishingActive != tt.wantFishing {
				t.Errorf("FishingActive = %v, want %v", rec.FishingActive, tt.wantFishing)
			}
			// Natural mortality alone kills about a quarter, fishing kills them all
			if tt.wantWipedOut && rec.Survivors != 0 {
				t.Errorf("%d of 200 fished groupers survived pressure 0.99", rec.Survivors)
			}
			if !tt.wantWipedOut && rec.Survivors < 100 {
				t.Errorf("only %d of 200 unfished groupers survived", rec.Survivors)
			}
		})
	}
}

// sameStreamPosition reports whether two generators will produce the same next value
func sameStreamPosition(a, b *rand.Rand) bool {
	return a.Uint64() == b.Uint64()
}

func referenceGamma(src *rand.Rand) distuv.Gamma {
	return distuv.Gamma{Alpha: larvalShape, Beta: 1 / larvalScale, Src: src}
}

func TestOneLarvalSurvivalDrawPerYear(t *testing.T) {
	for _, n := range []int{1, 50, 400} {
		s := testScenario()
		s.InitialPopulationSize = n
		p := newTestPopulation(t, s, 8)
		ref := rand.New(rand.NewPCG(8, 8))

		p.Step()

		// Age 0 fish take one sex draw each and no survival draw
		for i := 0; i < n; i++ {
			ref.Float64()
		}
		g := referenceGamma(ref)
		g.Rand()

		if !sameStreamPosition(p.rng, ref) {
			t.Errorf("%d fish: recruitment did not take exactly one larval survival draw", n)
		}
	}
}

func TestLarvalSurvivalScalesTheCohort(t *testing.T) {
	p := newTestPopulation(t, testScenario(), 13)
	ref := rand.New(rand.NewPCG(13, 13))
	g := referenceGamma(ref)

	rec := YearRecord_t{PotentialOffspring: 20000, SexRatio: 0.5}
	p.recruit(&rec)

	rate := maxFertilityRate * (1 - math.Exp(-fertilitySaturation*0.5))
	fertilized := int(math.RoundToEven(20000 * rate))
	if rec.Fertilized != fertilized {
		t.Errorf("Fertilized = %d, want %d", rec.Fertilized, fertilized)
	}
	want := float64(fertilized) * larvalSurvivalScale * (g.Rand() / larvalSurvivalDivisor)
	if rec.LarvalSurvivors != want {
		t.Errorf("LarvalSurvivors = %v, want %v", rec.LarvalSurvivors, want)
	}
	if !sameStreamPosition(p.rng, ref) {
		t.Errorf("recruit took more than one draw")
	}
}

func TestNoLarvalSurvivalDrawAtCapacity(t *testing.T) {
	s := testScenario()
	s.InitialPopulationSize = 100
	s.CarryingCapacity = 100
	p := newTestPopulation(t, s, 5)
	ref := rand.New(rand.NewPCG(5, 5))

	rec := p.Step()
	if rec.Survivors != 100 || rec.Recruits != 0 {
		t.Fatalf("survivors %d recruits %d, want 100 and 0", rec.Survivors, rec.Recruits)
	}
	for i := 0; i < 100; i++ {
		ref.Float64()
	}
	if !sameStreamPosition(p.rng, ref) {
		t.Errorf("a draw was taken beyond the sex draws in a year at capacity")
	}
}

func TestSexRatioZeroWithoutFemales(t *testing.T) {
	s := testScenario()
	p := newTestPopulation(t, s, 11)
	for i := range p.Fishes {
		p.Fishes[i] = Grouper{Age: 0, Sex: Male}
	}

	rec := p.Step()
	if rec.Females != 0 || rec.Males != 1000 {
		t.Fatalf("counted %d females and %d males", rec.Females, rec.Males)
	}
	if rec.SexRatio != 0 || p.SexRatios[0] != 0 {
		t.Errorf("sex ratio = %v, want 0", rec.SexRatio)
	}
	if rec.Recruits != 0 {
		t.Errorf("recruited %d fish with no females", rec.Recruits)
	}
}

func TestNoRecruitmentWithoutMales(t *testing.T) {
	s := testScenario()
	p := newTestPopulation(t, s, 5)
	for i := range p.Fishes {
		p.Fishes[i] = Grouper{Age: 8, Sex: Female}
	}

	// Age 8 females rarely change sex, but any that do make recruitment possible.
	rec := p.Step()
	if rec.Males == 0 && rec.Recruits != 0 {
		t.Errorf("recruited %d fish with no males", rec.Recruits)
	}
	if rec.Males == 0 && rec.SexRatio != 0 {
		t.Errorf("sex ratio %v with no males", rec.SexRatio)
	}
}

func TestRecruitmentWithMales(t *testing.T) {
	s := testScenario()
	s.InitialPopulationSize = 400
	p := newTestPopulation(t, s, 9)
	for i := range p.Fishes {
		if i%4 == 0 {
			p.Fishes[i] = Grouper{Age: 12, Sex: Male}
		} else {
			p.Fishes[i] = Grouper{Age: 6, Sex: Female}
		}
	}

	var recruits int
	for i := 0; i < 10; i++ {
		rec := p.Step()
		if rec.Males > 0 && rec.Females > 0 && rec.SexRatio <= 0 {
			t.Fatalf("year %d sex ratio %v with %d males and %d females", rec.Year, rec.SexRatio, rec.Males, rec.Females)
		}
		recruits += rec.Recruits
	}
	if recruits == 0 {
		t.Errorf("no recruits in 10 years from a spawning population")
	}
}

func TestRunIsDeterministic(t *testing.T) {
	s := testScenario()
	s.SimulationYears = 40
	s.YearsBeforeFishing = 10
	s.FishingPressure = 0.2

	a := newTestPopulation(t, s, 1234)
	b := newTestPopulation(t, s, 1234)
	a.Run(s.SimulationYears)
	b.Run(s.SimulationYears)

	if !reflect.DeepEqual(a.PopulationSizes, b.PopulationSizes) {
		t.Errorf("population sizes differ:\n%v\n%v", a.PopulationSizes, b.PopulationSizes)
	}
	if !reflect.DeepEqual(a.SexRatios, b.SexRatios) {
		t.Errorf("sex ratios differ:\n%v\n%v", a.SexRatios, b.SexRatios)
	}
}

func finalSizes(t *testing.T, s Scenario, replicates int) []float64 {
	t.Helper()
	sizes := make([]float64, replicates)
	for r := range sizes {
		p := newTestPopulation(t, s, uint64(100+r))
		p.Run(s.SimulationYears)
		if len(p.PopulationSizes) != s.SimulationYears {
			t.Fatalf("replicate %d series length %d, want %d", r, len(p.PopulationSizes), s.SimulationYears)
		}
		sizes[r] = float64(p.PopulationSizes[s.SimulationYears-1])
	}
	return sizes
}

func TestFishingReducesPopulation(t *testing.T) {
	const replicates = 12

	s := testScenario()
	unfished := stat.Mean(finalSizes(t, s, replicates), nil)

	s.FishingPressure = 0.4
	lateFishing := stat.Mean(finalSizes(t, s, replicates), nil)
	if unfished < lateFishing {
		t.Errorf("mean year 10 size %v without fishing, %v with fishing after year 100", unfished, lateFishing)
	}

	s.YearsBeforeFishing = 0
	fished := stat.Mean(finalSizes(t, s, replicates), nil)
	if unfished <= fished {
		t.Errorf("mean year 10 size %v without fishing, %v with fishing from year 0", unfished, fished)
	}
}
