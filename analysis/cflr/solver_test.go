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

package cflr

import (
	"errors"
	"testing"

	"golang.org/x/exp/slices"

	"github.com/awslabs/cflr/analysis/config"
)

func quietConfig() *config.Config {
	cfg := config.NewDefault()
	cfg.LogLevel = int(config.ErrLevel)
	return cfg
}

func seedGraph(edges ...Edge) *Graph {
	g := NewGraph()
	for _, e := range edges {
		g.AddEdge(e.Src, e.Dst, e.Label)
	}
	return g
}

func solved(t *testing.T, g *Graph) *Graph {
	t.Helper()
	s := NewSolver(g, quietConfig(), nil)
	if err := s.Solve(); err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	return g
}

func sortedEdges(g *Graph) []Edge {
	edges := g.Edges()
	slices.SortFunc(edges, func(a, b Edge) bool {
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		if a.Src != b.Src {
			return a.Src < b.Src
		}
		return a.Dst < b.Dst
	})
	return edges
}

// p = &a; q = p. Rule 1 derives PT(p, a), rule 2 propagates it to q.
func TestSolveCopyPropagatesPointsTo(t *testing.T) {
	const p, q, a = 1, 2, 3
	g := solved(t, seedGraph(
		Edge{a, p, Addr}, Edge{p, a, AddrBar},
		Edge{p, q, Copy}, Edge{q, p, CopyBar},
	))

	pts := g.EdgesWithLabel(PT)
	want := []Edge{{p, a, PT}, {q, a, PT}}
	if !slices.Equal(pts, want) {
		t.Fatalf("PT set = %v, want %v", pts, want)
	}
	for _, e := range want {
		if !g.HasEdge(e.Dst, e.Src, PTBar) {
			t.Fatalf("missing inverse PTBar(%d, %d)", e.Dst, e.Src)
		}
	}
}

// *p = v and r = *p with p pointing to o: the store/load pair induces a value
// flow Copy(v, r) through PV and VP.
func TestSolveStoreLoadPair(t *testing.T) {
	const v, p, o, r = 1, 2, 3, 4
	g := solved(t, seedGraph(
		Edge{v, p, Store},
		Edge{p, o, PT}, Edge{o, p, PTBar},
		Edge{p, r, Load},
	))

	checks := []Edge{
		{v, o, PV},
		{o, r, VP},
		{v, r, Copy},
		{r, v, CopyBar},
	}
	for _, e := range checks {
		if !g.HasEdge(e.Src, e.Dst, e.Label) {
			t.Fatalf("missing derived edge %v\nclosure: %v", e, sortedEdges(g))
		}
	}
}

// Without AddrBar, Store and Load edges the grammar has nothing to fire on.
func TestSolveNothingDerivable(t *testing.T) {
	g := seedGraph(
		Edge{3, 1, Addr},
		Edge{1, 2, Copy}, Edge{2, 1, CopyBar},
	)
	before := g.NumEdges()
	solved(t, g)
	if g.NumEdges() != before {
		t.Fatalf("closure grew from %d to %d edges, want no growth", before, g.NumEdges())
	}
}

func TestSolveIdempotent(t *testing.T) {
	const p, q, a = 1, 2, 3
	g := seedGraph(
		Edge{a, p, Addr}, Edge{p, a, AddrBar},
		Edge{p, q, Copy}, Edge{q, p, CopyBar},
	)
	solved(t, g)
	closed := g.NumEdges()

	s := NewSolver(g, quietConfig(), nil)
	if err := s.Solve(); err != nil {
		t.Fatalf("re-solve failed: %v", err)
	}
	if _, derived := s.Stats(); derived != 0 {
		t.Fatalf("re-solving a closed graph derived %d edges", derived)
	}
	if g.NumEdges() != closed {
		t.Fatalf("closed graph grew from %d to %d edges", closed, g.NumEdges())
	}
}

// chainSeed builds a copy chain p0 = &a, p1 = p0, ..., pn = pn-1 with a
// store/load pair at the end, covering all five productions.
func chainSeed(n NodeID) []Edge {
	const a = 200
	edges := []Edge{{a, 0, Addr}, {0, a, AddrBar}}
	for i := NodeID(1); i <= n; i++ {
		edges = append(edges, Edge{i - 1, i, Copy}, Edge{i, i - 1, CopyBar})
	}
	// *p0 = pn and loaded = *p0
	edges = append(edges, Edge{n, 0, Store}, Edge{0, 100, Load})
	return edges
}

// The rewriting system is confluent: FIFO and LIFO worklists must reach the
// same closure, and the closure must contain the seed.
func TestSolveConfluence(t *testing.T) {
	seeds := chainSeed(8)

	fifo := seedGraph(seeds...)
	solved(t, fifo)

	lifoCfg := quietConfig()
	lifoCfg.Worklist = "lifo"
	lifo := seedGraph(seeds...)
	s := NewSolver(lifo, lifoCfg, nil)
	if err := s.Solve(); err != nil {
		t.Fatalf("LIFO solve failed: %v", err)
	}

	fifoEdges, lifoEdges := sortedEdges(fifo), sortedEdges(lifo)
	if !slices.Equal(fifoEdges, lifoEdges) {
		t.Fatalf("FIFO and LIFO closures differ:\nfifo: %v\nlifo: %v", fifoEdges, lifoEdges)
	}
	for _, e := range seeds {
		if !fifo.HasEdge(e.Src, e.Dst, e.Label) {
			t.Fatalf("closure lost seed edge %v", e)
		}
	}
}

func TestSolveInverseInvariant(t *testing.T) {
	g := seedGraph(chainSeed(6)...)
	solved(t, g)
	for _, e := range g.EdgesWithLabel(PT) {
		if !g.HasEdge(e.Dst, e.Src, PTBar) {
			t.Fatalf("PT(%d, %d) without PTBar(%d, %d)", e.Src, e.Dst, e.Dst, e.Src)
		}
	}
	for _, e := range g.EdgesWithLabel(Copy) {
		if !g.HasEdge(e.Dst, e.Src, CopyBar) {
			t.Fatalf("Copy(%d, %d) without CopyBar(%d, %d)", e.Src, e.Dst, e.Dst, e.Src)
		}
	}
}

func TestSolveEdgeBudget(t *testing.T) {
	cfg := quietConfig()
	cfg.MaxEdges = 5
	g := seedGraph(chainSeed(8)...)
	s := NewSolver(g, cfg, nil)
	if err := s.Solve(); !errors.Is(err, ErrEdgeBudget) {
		t.Fatalf("expected ErrEdgeBudget, got %v", err)
	}
}

// A seed PT edge without its PTBar would keep rule 4 from firing; the repair
// pass restores the inverse so the load is still resolved.
func TestRepairSeedInverses(t *testing.T) {
	const p, o, r = 1, 2, 3
	g := seedGraph(
		Edge{p, o, PT}, // PTBar(o, p) deliberately missing
		Edge{p, r, Load},
	)
	s := NewSolver(g, quietConfig(), nil)
	s.RepairSeedInverses()
	if !g.HasEdge(o, p, PTBar) {
		t.Fatal("repair did not restore PTBar")
	}
	if err := s.Solve(); err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !g.HasEdge(o, r, VP) {
		t.Fatalf("expected VP(%d, %d) in closure %v", o, r, sortedEdges(g))
	}
}
