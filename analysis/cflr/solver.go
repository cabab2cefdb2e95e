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
	"fmt"

	"github.com/awslabs/cflr/analysis/config"
)

// ErrEdgeBudget is returned by Solve when the closure grows past the
// configured maximum edge count. The partial graph is left in a consistent
// state but is not a fixpoint.
var ErrEdgeBudget = errors.New("edge budget exhausted")

// Solver saturates a labeled graph under the points-to grammar. It owns the
// graph for the duration of Solve; see the package documentation for the
// production rules.
type Solver struct {
	graph  *Graph
	queue  *EdgeQueue
	logger *config.LogGroup

	// maxEdges bounds the closure size; 0 means unbounded.
	maxEdges int

	// stats
	pops    int
	derived int
}

// NewSolver returns a solver over g configured by cfg. The graph should
// already hold the base-relation seed edges.
func NewSolver(g *Graph, cfg *config.Config, logger *config.LogGroup) *Solver {
	if logger == nil {
		logger = config.NewLogGroup(cfg)
	}
	// Load already rejected invalid worklist options; anything unknown here
	// falls back to FIFO.
	strategy, _ := config.ParseWorklist(cfg.Worklist)
	return &Solver{
		graph:    g,
		queue:    NewEdgeQueue(Strategy(strategy)),
		logger:   logger,
		maxEdges: cfg.MaxEdges,
	}
}

// Graph returns the solver's graph. After a successful Solve it holds the
// full closure.
func (s *Solver) Graph() *Graph {
	return s.graph
}

// Stats returns the number of worklist pops and derived edges of the last
// solve.
func (s *Solver) Stats() (pops int, derived int) {
	return s.pops, s.derived
}

// RepairSeedInverses inserts the missing PTBar and CopyBar counterparts of
// seed PT and Copy edges. The builder is expected to emit inverse-consistent
// seeds, so this is a defensive pass enabled by the repair-seeds config
// option; a builder bug here would otherwise silently shrink the closure.
func (s *Solver) RepairSeedInverses() {
	repaired := 0
	for _, e := range s.graph.Edges() {
		if bar, ok := e.Label.inverse(); ok && !s.graph.HasEdge(e.Dst, e.Src, bar) {
			s.graph.AddEdge(e.Dst, e.Src, bar)
			repaired++
		}
	}
	if repaired > 0 {
		s.logger.Warnf("repaired %d missing inverse seed edges", repaired)
	}
}

// Solve runs the worklist loop to the least fixpoint. Every edge present in
// the graph is seeded onto the worklist once; each popped edge is matched
// against the productions as left and right operand, and every new edge goes
// through submit, which also maintains the PT/PTBar and Copy/CopyBar
// invariant. Solve returns ErrEdgeBudget if the closure exceeds the
// configured bound, and nil otherwise.
//
// Solve is idempotent: re-running it on an already saturated graph derives
// nothing and drains the re-seeded worklist without insertions.
func (s *Solver) Solve() error {
	s.pops, s.derived = 0, 0
	s.graph.ForEachEdge(func(e Edge) { s.queue.Push(e) })
	s.logger.Infof("solving: %d seed edges", s.queue.Len())

	for !s.queue.Empty() {
		e, err := s.queue.Pop()
		if err != nil {
			// unreachable: emptiness is checked above
			return fmt.Errorf("worklist: %w", err)
		}
		s.pops++
		if err := s.step(e); err != nil {
			return err
		}
	}

	s.logger.Infof("fixpoint reached: %d edges (%d derived, %d pops)",
		s.graph.NumEdges(), s.derived, s.pops)
	return nil
}

// step applies every production in which e can participate.
func (s *Solver) step(e Edge) error {
	u, v := e.Src, e.Dst

	// Unary production: AddrBar(u, v) yields PT(u, v).
	if e.Label == AddrBar {
		if err := s.submit(u, v, PT); err != nil {
			return err
		}
	}

	// Binary productions, e as left operand: scan v's outgoing edges for the
	// matching right label.
	//
	//	CopyBar(u, v) PT(v, w)   yields PT(u, w)
	//	Store(u, v)   PT(v, w)   yields PV(u, w)
	//	PTBar(u, v)   Load(v, w) yields VP(u, w)
	//	PV(u, v)      VP(v, w)   yields Copy(u, w)
	succs := s.graph.Successors(v)
	switch e.Label {
	case CopyBar:
		if err := s.produce(u, succs[PT], PT); err != nil {
			return err
		}
	case Store:
		if err := s.produce(u, succs[PT], PV); err != nil {
			return err
		}
	case PTBar:
		if err := s.produce(u, succs[Load], VP); err != nil {
			return err
		}
	case PV:
		if err := s.produce(u, succs[VP], Copy); err != nil {
			return err
		}
	}

	// Binary productions, e as right operand: scan u's incoming edges for the
	// matching left label. A production can complete from either side
	// depending on which operand arrived last.
	preds := s.graph.Predecessors(u)
	switch e.Label {
	case PT:
		for _, w := range preds[CopyBar].Sorted() {
			if err := s.submit(w, v, PT); err != nil {
				return err
			}
		}
		for _, w := range preds[Store].Sorted() {
			if err := s.submit(w, v, PV); err != nil {
				return err
			}
		}
	case Load:
		for _, w := range preds[PTBar].Sorted() {
			if err := s.submit(w, v, VP); err != nil {
				return err
			}
		}
	case VP:
		for _, w := range preds[PV].Sorted() {
			if err := s.submit(w, v, Copy); err != nil {
				return err
			}
		}
	}
	return nil
}

// produce submits (u, w, lbl) for every w in targets.
func (s *Solver) produce(u NodeID, targets NodeSet, lbl Label) error {
	for _, w := range targets.Sorted() {
		if err := s.submit(u, w, lbl); err != nil {
			return err
		}
	}
	return nil
}

// submit is the sole insertion path during solving. A candidate edge that is
// not yet in the graph is inserted and enqueued, and its PTBar or CopyBar
// counterpart is inserted and enqueued alongside it, which keeps the inverse
// invariant true at every point of the run rather than only at the fixpoint.
func (s *Solver) submit(u, v NodeID, lbl Label) error {
	if s.graph.HasEdge(u, v, lbl) {
		return nil
	}
	if err := s.insert(u, v, lbl); err != nil {
		return err
	}
	if bar, ok := lbl.inverse(); ok && !s.graph.HasEdge(v, u, bar) {
		return s.insert(v, u, bar)
	}
	return nil
}

func (s *Solver) insert(u, v NodeID, lbl Label) error {
	if s.maxEdges > 0 && s.graph.NumEdges() >= s.maxEdges {
		return fmt.Errorf("%w: limit %d reached deriving %v",
			ErrEdgeBudget, s.maxEdges, Edge{Src: u, Dst: v, Label: lbl})
	}
	s.graph.AddEdge(u, v, lbl)
	s.queue.Push(Edge{Src: u, Dst: v, Label: lbl})
	s.derived++
	s.logger.Tracef("derived %v", Edge{Src: u, Dst: v, Label: lbl})
	return nil
}
