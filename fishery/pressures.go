// grouperSim project pressures.go
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
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// n evenly spaced fishing pressures from start to stop inclusive,
// rounded to one decimal like the labels on the charts
func Linspace(start, stop float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: range count %d", ErrNoPressures, n)
	}
	if n == 1 {
		return []float64{RoundPressure(start)}, nil
	}

	p := floats.Span(make([]float64, n), start, stop)
	for i := range p {
		p[i] = RoundPressure(p[i])
	}
	return p, nil
}

func RoundPressure(p float64) float64 {
	return scalar.Round(p, 1)
}
