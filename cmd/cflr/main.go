// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// cflr: whole-program points-to analysis by CFL-reachability closure.
// Loads the given packages, builds the pointer assignment graph from their
// SSA form, saturates it under the points-to grammar and prints the resulting
// points-to relation.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/tools/go/ssa"

	"github.com/awslabs/cflr/analysis"
	"github.com/awslabs/cflr/analysis/cflr"
	"github.com/awslabs/cflr/analysis/config"
	"github.com/awslabs/cflr/analysis/pag"
	"github.com/awslabs/cflr/internal/formatutil"
	"github.com/awslabs/cflr/internal/funcutil"
	"github.com/awslabs/cflr/internal/graphutil"
)

var (
	configPath = flag.String("config", "", "Config file path for the analysis")
	graphOut   = flag.String("graphout", "", "Write the solved graph in DOT format to this file")
	stats      = flag.Bool("stats", false, "Print graph statistics after solving")
	buildmode  = ssa.BuilderMode(0)
)

func init() {
	flag.Var(&buildmode, "build", ssa.BuilderModeDoc)
}

const usage = ` Compute a whole-program points-to analysis for your packages.
Usage:
    cflr [options] <package path(s)>
Examples:
% cflr -config config.yaml package...
The points-to relation is printed on stdout, one "pointer -> object" line per fact.
`

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		_, _ = fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := config.NewDefault()
	if *configPath != "" {
		config.SetGlobalConfig(*configPath)
		loaded, err := config.LoadGlobal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not load config %s: %v\n", *configPath, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *graphOut != "" {
		cfg.GraphOut = *graphOut
	}
	if *stats {
		cfg.ReportStats = true
	}
	logger := config.NewLogGroup(cfg)

	logger.Infof(formatutil.Faint("Reading sources"))
	program, err := analysis.LoadProgram(nil, "", buildmode, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load program: %v\n", err)
		os.Exit(1)
	}

	builder := pag.NewBuilder(logger)
	graph := builder.Build(program.Program)

	solver := cflr.NewSolver(graph, cfg, logger)
	if cfg.RepairSeeds {
		solver.RepairSeedInverses()
	}

	start := time.Now()
	if err := solver.Solve(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", formatutil.Red("solving failed"), err)
		os.Exit(1)
	}
	logger.Infof("Solving took %3.4f s", time.Since(start).Seconds())

	result := solver.Result()
	if err := result.WriteResult(os.Stdout, builder.NodeName); err != nil {
		fmt.Fprintf(os.Stderr, "could not write result: %v\n", err)
		os.Exit(1)
	}

	if cfg.ReportStats {
		printStats(logger, result)
	}

	if cfg.GraphOut != "" {
		if err := writeGraph(cfg.GraphOut, graph, builder); err != nil {
			fmt.Fprintf(os.Stderr, "could not write graph: %v\n", err)
			os.Exit(1)
		}
		logger.Infof("Solved graph written to %s", cfg.GraphOut)
	}
}

func printStats(logger *config.LogGroup, result *cflr.Result) {
	counts := result.EdgeCounts()
	for _, label := range funcutil.SortedKeys(counts) {
		logger.Infof("%-8s %d edges", label, counts[label])
	}
	cycles := graphutil.NonTrivialComponents(
		graphutil.StronglyConnected(result.Graph(), cflr.Copy))
	logger.Infof("%d non-trivial copy cycles", len(cycles))
}

func writeGraph(filename string, graph *cflr.Graph, builder *pag.Builder) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return cflr.WriteDOT(f, graph, builder.NodeName)
}
