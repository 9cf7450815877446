// initSimulation
package main

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

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"

	"github.com/blgolden/grouperSim/fishery"
	"github.com/blgolden/grouperSim/logger"
	"github.com/blgolden/grouperSim/params"
)

var paramFile *string   // Name of the parameter file
var outputImage *string // Overrides outputImage: in the parameter file
var workers *int
var isVersion *bool

var run params.Params_t
var sweep fishery.SweepConfig

// Initialize the simulation
func initSimulation() {

	parseArgs()

	logger.Init()

	param, err := params.Load(*paramFile)
	if err != nil {
		logger.LogWriterFatal("failed to load parameter file", "file", *paramFile, "error", err)
	}

	run, err = params.Decode(param)
	if err != nil {
		logger.LogWriterFatal("bad parameter file", "file", *paramFile, "error", err)
	}

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "output" {
			run.OutputImage = *outputImage
		}
	})

	sweep = fishery.SweepConfig{
		Base:       run.Scenario,
		Pressures:  run.Pressures,
		Replicates: run.Replicates,
		Seed:       *logger.Seed,
		Workers:    *workers,
	}

	if err := sweep.Validate(); err != nil {
		logger.LogWriterFatal("invalid simulation parameters", "error", err)
	}

	if logger.Verbose() {
		if run.Comment != "" {
			fmt.Printf("Comment: %v\n\n", run.Comment)
		}

		s := run.Scenario
		fmt.Printf("Initial population size: %s\n", humanize.Comma(int64(s.InitialPopulationSize)))
		fmt.Printf("Carrying capacity:       %s\n", humanize.Comma(int64(s.CarryingCapacity)))
		fmt.Printf("Minimum fishing age:     %d\n", s.MinimumFishingAge)
		fmt.Printf("Years before fishing:    %d\n", s.YearsBeforeFishing)
		fmt.Printf("Simulation years:        %d\n", s.SimulationYears)
		fmt.Printf("Fishing pressures:       %v\n", run.Pressures)
		fmt.Printf("Replicates per pressure: %d\n", run.Replicates)

		w := *workers
		if w <= 0 {
			w = runtime.NumCPU()
		}
		fishYears := int64(s.InitialPopulationSize) * int64(s.SimulationYears) * int64(len(run.Pressures)*run.Replicates)
		fmt.Printf("\n\tSimulating %s runs (about %s initial fish-years) on %d workers\n\n",
			humanize.Comma(int64(len(run.Pressures)*run.Replicates)), humanize.Comma(fishYears), w)
	}

	logger.LogWriter("parameters loaded",
		"file", *paramFile,
		"pressures", run.Pressures,
		"replicates", run.Replicates,
		"years", run.Scenario.SimulationYears)
}

// Parse the arg list looking for the input parameter file
func parseArgs() {

	paramFile = flag.String("param", "", "The grouperSim parameter file, hjson or yaml (optional)")
	logger.OutputMode = flag.String("outputMode", "verbose", "'verbose'(default), 'table', 'debug' or 'quiet'")
	logger.Seed = flag.Int64("seed", 1234, "Random number generator seed (int64)")
	outputImage = flag.String("output", "", "Chart file (.png, .jpg, .tiff), overrides outputImage in the parameter file; empty saves nothing")
	workers = flag.Int("workers", 0, "Simulations run at once (default one per CPU)")
	isVersion = flag.Bool("version", false, "prints the version number of grouperSim")

	flag.Parse()

	if *isVersion {
		fmt.Println("Version:", version)
		os.Exit(0)
	}

	switch *logger.OutputMode {
	case "verbose", "table", "debug", "quiet":
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown -outputMode %q\n\n", *logger.OutputMode)
		flag.Usage()
		os.Exit(1)
	}

	if *logger.OutputMode == "verbose" || *logger.OutputMode == "debug" {
		fmt.Printf("\n\t*** grouperSim ver %v ***\n\n", version)
	}
}
