// grouperSim project grouper.go
//
// Defines a grouper and what happens to it in a year
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

const (
	Female string = "F" // Every grouper is born female
	Male   string = "M" // Terminal sex, never changes back
)

// Youngest age a female can spawn
const AgeOfReproduction = 3

// Uniform is the source of draws in [0,1).  *rand.Rand satisfies it.
type Uniform interface {
	Float64() float64
}

// This is the individual fish.  No id, fish are interchangeable.
type Grouper struct {
	Age int    // Years, 0 in the year of birth
	Sex string // Female or Male
}

func NewGrouper() Grouper {
	return Grouper{Age: 0, Sex: Female}
}

// Offspring produced this year.  Only eligible females that spawn have any.
// The draw is taken only when the sex and age gate passes.
func (g *Grouper) CalculateOffspringCount(u Uniform, rc *RateCache) int {
	if g.Sex == Female && g.Age >= AgeOfReproduction && u.Float64() < rc.ReproductionProbability(g.Age) {
		n := rc.NumberOfOffspring(g.Age)
		if n < 0 {
			return 0
		}
		return n
	}

	return 0
}

func (g *Grouper) IncrementAge() {
	g.Age++
}

// Survival for this year.  Age 0 fish always survive and no draw is taken.
func (g *Grouper) DetermineAlive(u Uniform, rc *RateCache, fishingPressure float64) bool {
	if g.Age == 0 {
		return true
	}
	return u.Float64() > rc.Mortality(g.Age)+fishingPressure
}

// A female changes to male when the draw exceeds the stay female curve,
// so the yearly transition probability is 1 - SexChangeProbability(age).
func (g *Grouper) DetermineSex(u Uniform, rc *RateCache) {
	if g.Sex == Male {
		return
	}
	if u.Float64() > rc.SexChangeProbability(g.Age) {
		g.Sex = Male
	}
}
