// grouperSim project main.go
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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/blgolden/grouperSim/fishery"
	"github.com/blgolden/grouperSim/graphs"
	"github.com/blgolden/grouperSim/logger"
)

var version = "alpha0.1.0"

// Summary of the final year for each fishing pressure
func printTables(levels []fishery.Level) {
	if *logger.OutputMode == "quiet" {
		return
	}

	fmt.Println("\t ____________________________________________________________________________")
	fmt.Println("\t| Fishing  | Mean Final | StdDev(Final) | StdDev(Mean) | Mean Sex | Collapsed|")
	fmt.Println("\t| Pressure |    Size    |     Size      |     Size     |  Ratio   |          |")
	fmt.Println("\t|__________|____________|_______________|______________|__________|__________|")
	for _, lvl := range levels {
		s := lvl.Summary
		fmt.Printf("\t| %8.3g | %10.1f | %13.1f | %12.2f | %8.3f | %8d |\n",
			lvl.Pressure, s.MeanFinalSize, s.StdDevFinalSize, s.StdDevMean, s.MeanFinalSexRatio, s.Collapsed)
	}
	fmt.Println("\t|____________________________________________________________________________|")
	fmt.Printf("\t *Number of replicates per pressure: %d, years: %d\n\n", sweep.Replicates, sweep.Base.SimulationYears)
}

// Year by year records of the first replicate of each pressure
func printYearTables(levels []fishery.Level) {
	if !logger.Debug() {
		return
	}

	for _, lvl := range levels {
		if len(lvl.Replicates) == 0 {
			continue
		}
		rep := lvl.Replicates[0]
		fmt.Printf("\nFishing pressure %g, replicate seed %d\n", lvl.Pressure, rep.Seed)
		fmt.Printf("Year  Fished  Survivors  Males  Females    Potential   Fertilized  Larval  Recruits   Size  SexRatio\n")
		for _, r := range rep.Records {
			fished := "no"
			if r.FishingActive {
				fished = "yes"
			}
			fmt.Printf("%4d  %6s  %9d  %5d  %7d  %11d  %11d  %6.0f  %8d  %5d  %8.4f\n",
				r.Year, fished, r.Survivors, r.Males, r.Females, r.PotentialOffspring,
				r.Fertilized, r.LarvalSurvivors, r.Recruits, r.PopulationSize, r.SexRatio)
		}
	}
	fmt.Println()
}

func main() {

	initSimulation() // Initialize everything

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()

	levels, err := fishery.Sweep(ctx, sweep)
	if err != nil {
		logger.LogWriterFatal("simulation failed", "error", err)
	}

	elapsed := time.Since(start)
	logger.LogWriter("simulation finished",
		"runs", len(levels)*sweep.Replicates,
		"elapsed", elapsed.String())

	printYearTables(levels)

	printTables(levels)

	if run.OutputImage != "" {
		if err := graphs.Save(levels, run.OutputImage, run.Dpi); err != nil {
			logger.LogWriterFatal("cannot save chart", "file", run.OutputImage, "error", err)
		}
		logger.LogWriter("chart saved", "file", run.OutputImage, "dpi", run.Dpi)
	}
}
