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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// NodeSet is a set of node identifiers.
type NodeSet map[NodeID]bool

// Sorted returns the elements of the set in increasing order.
func (s NodeSet) Sorted() []NodeID {
	nodes := maps.Keys(s)
	slices.Sort(nodes)
	return nodes
}

// adjacency maps a node to its neighbors grouped by edge label.
type adjacency map[NodeID]map[Label]NodeSet

func (a adjacency) add(x NodeID, lbl Label, y NodeID) {
	byLabel := a[x]
	if byLabel == nil {
		byLabel = map[Label]NodeSet{}
		a[x] = byLabel
	}
	set := byLabel[lbl]
	if set == nil {
		set = NodeSet{}
		byLabel[lbl] = set
	}
	set[y] = true
}

// Graph stores a set of labeled directed edges with label-indexed adjacency
// maintained in both orientations. Membership tests are O(1) amortized and
// neighbor enumeration is O(degree). The edge set only grows; there is no
// removal operation.
//
// A Graph is not safe for concurrent mutation. The solver owns it for the
// duration of a solve; consumers read it only after the fixpoint is reached.
type Graph struct {
	succ adjacency
	pred adjacency

	// numEdges counts distinct (src, dst, label) triples.
	numEdges int
}

// NewGraph returns an empty labeled graph.
func NewGraph() *Graph {
	return &Graph{succ: adjacency{}, pred: adjacency{}}
}

// HasEdge reports whether the edge (u, v, lbl) is present.
func (g *Graph) HasEdge(u, v NodeID, lbl Label) bool {
	return g.succ[u][lbl][v]
}

// AddEdge inserts the edge (u, v, lbl). Inserting an edge that is already
// present is a no-op.
func (g *Graph) AddEdge(u, v NodeID, lbl Label) {
	if g.HasEdge(u, v, lbl) {
		return
	}
	g.succ.add(u, lbl, v)
	g.pred.add(v, lbl, u)
	g.numEdges++
}

// Successors returns the outgoing neighbors of u grouped by label. The result
// aliases the graph's internal state and must not be mutated; it reflects
// later insertions. No ordering is implied over the node sets.
func (g *Graph) Successors(u NodeID) map[Label]NodeSet {
	return g.succ[u]
}

// Predecessors returns the incoming neighbors of v grouped by label, with the
// same aliasing caveats as Successors.
func (g *Graph) Predecessors(v NodeID) map[Label]NodeSet {
	return g.pred[v]
}

// NumEdges returns the number of distinct edges in the graph.
func (g *Graph) NumEdges() int {
	return g.numEdges
}

// ForEachEdge calls f on every edge currently in the graph. f must not mutate
// the graph.
func (g *Graph) ForEachEdge(f func(Edge)) {
	for u, byLabel := range g.succ {
		for lbl, targets := range byLabel {
			for v := range targets {
				f(Edge{Src: u, Dst: v, Label: lbl})
			}
		}
	}
}

// Edges returns all edges of the graph in an unspecified order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.numEdges)
	g.ForEachEdge(func(e Edge) { edges = append(edges, e) })
	return edges
}

// Nodes returns every node that appears as an endpoint of some edge, sorted.
func (g *Graph) Nodes() []NodeID {
	seen := NodeSet{}
	for u := range g.succ {
		seen[u] = true
	}
	for v := range g.pred {
		seen[v] = true
	}
	return seen.Sorted()
}

// EdgesWithLabel returns all edges carrying lbl, sorted by source then
// destination so that callers get a deterministic view.
func (g *Graph) EdgesWithLabel(lbl Label) []Edge {
	var edges []Edge
	for u, byLabel := range g.succ {
		for v := range byLabel[lbl] {
			edges = append(edges, Edge{Src: u, Dst: v, Label: lbl})
		}
	}
	slices.SortFunc(edges, func(a, b Edge) bool {
		if a.Src != b.Src {
			return a.Src < b.Src
		}
		return a.Dst < b.Dst
	})
	return edges
}
