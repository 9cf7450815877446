// grouperSim project rates.go
//
// Age dependent biological rates of the grouper
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
	"math"
)

// Coefficients of the rate curves
const (
	maturityIntercept = -6.42 // Gompertz maturation curve
	maturitySlope     = 1.81

	batchSize          = 25.0 // Number of spawning batches per season
	fecunditySlope     = 80.997
	fecundityIntercept = 151.2

	mortalityScale    = 0.4298 // Natural mortality power law
	mortalityExponent = 0.488

	sexChangeMidAge = 10.0 // Age where half the females remain female
	sexChangeSpread = 0.367
)

// RateCache memoizes the rate curves by age.  Each curve has its own map.
// A RateCache is not safe for concurrent use; give each run its own.
type RateCache struct {
	reproductionProbabilityByAge map[int]float64
	numberOfOffspringByAge       map[int]int
	mortalityByAge               map[int]float64
	sexChangeProbabilityByAge    map[int]float64
}

func NewRateCache() *RateCache {
	return &RateCache{
		reproductionProbabilityByAge: make(map[int]float64),
		numberOfOffspringByAge:       make(map[int]int),
		mortalityByAge:               make(map[int]float64),
		sexChangeProbabilityByAge:    make(map[int]float64),
	}
}

// Probability a female of this age spawns this year
func (rc *RateCache) ReproductionProbability(age int) float64 {
	p, ok := rc.reproductionProbabilityByAge[age]
	if !ok {
		p = math.Exp(-math.Exp(-(maturityIntercept + maturitySlope*float64(age))))
		rc.reproductionProbabilityByAge[age] = p
	}
	return p
}

// Number of offspring of a spawning female.  Negative below about age 2,
// callers gate on AgeOfReproduction.
func (rc *RateCache) NumberOfOffspring(age int) int {
	n, ok := rc.numberOfOffspringByAge[age]
	if !ok {
		n = int(math.RoundToEven(batchSize * (fecunditySlope*float64(age) - fecundityIntercept)))
		rc.numberOfOffspringByAge[age] = n
	}
	return n
}

// Natural mortality probability.  +Inf at age 0.
func (rc *RateCache) Mortality(age int) float64 {
	m, ok := rc.mortalityByAge[age]
	if !ok {
		m = mortalityScale / math.Pow(float64(age), mortalityExponent)
		rc.mortalityByAge[age] = m
	}
	return m
}

// Probability a female of this age stays female this year
func (rc *RateCache) SexChangeProbability(age int) float64 {
	p, ok := rc.sexChangeProbabilityByAge[age]
	if !ok {
		p = 1 / (1 + math.Exp((float64(age)-sexChangeMidAge)/sexChangeSpread))
		rc.sexChangeProbabilityByAge[age] = p
	}
	return p
}
