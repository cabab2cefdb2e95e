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
	"fmt"
	"io"

	"github.com/awslabs/cflr/internal/funcutil"
)

// Result wraps a solved graph and answers points-to and alias queries. It
// must only be constructed after Solve has returned; the underlying graph is
// read-only from this point on.
type Result struct {
	graph *Graph
}

// Result returns the query interface over the solver's saturated graph.
func (s *Solver) Result() *Result {
	return &Result{graph: s.graph}
}

// PointsTo returns the set of objects u may point to. The returned set
// aliases the graph and must not be mutated.
func (r *Result) PointsTo(u NodeID) NodeSet {
	return r.graph.Successors(u)[PT]
}

// PointedBy returns the set of pointers that may point to object o.
func (r *Result) PointedBy(o NodeID) NodeSet {
	return r.graph.Successors(o)[PTBar]
}

// MayAlias reports whether u and v may point to a common object.
func (r *Result) MayAlias(u, v NodeID) bool {
	return len(funcutil.Intersect(r.PointsTo(u), r.PointsTo(v))) > 0
}

// FlowsTo returns the set of values u may flow to through Copy edges,
// including the value flows induced by store/load pairs during solving.
func (r *Result) FlowsTo(u NodeID) NodeSet {
	return r.graph.Successors(u)[Copy]
}

// Graph returns the underlying saturated graph.
func (r *Result) Graph() *Graph {
	return r.graph
}

// EdgeCounts returns the number of edges per label.
func (r *Result) EdgeCounts() map[Label]int {
	counts := map[Label]int{}
	r.graph.ForEachEdge(func(e Edge) { counts[e.Label]++ })
	return counts
}

// WriteResult writes the PT relation to w, one "name -> name" line per edge,
// sorted by source then destination so the dump is deterministic. name maps a
// node to a printable description; nil falls back to the numeric id.
func (r *Result) WriteResult(w io.Writer, name func(NodeID) string) error {
	if name == nil {
		name = func(n NodeID) string { return fmt.Sprintf("n%d", n) }
	}
	for _, e := range r.graph.EdgesWithLabel(PT) {
		if _, err := fmt.Fprintf(w, "%s -> %s\n", name(e.Src), name(e.Dst)); err != nil {
			return fmt.Errorf("writing result: %w", err)
		}
	}
	return nil
}
