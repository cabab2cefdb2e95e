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

// Package graphutil bridges the labeled analysis graph to generic graph
// algorithms from existing libraries.
package graphutil

import (
	"github.com/yourbasic/graph"

	"github.com/awslabs/cflr/analysis/cflr"
)

// Projection restricts a labeled graph to the edges of a single relation and
// renumbers the nodes densely so it satisfies graph.Iterator.
type Projection struct {
	// nodes maps dense indices back to graph nodes.
	nodes []cflr.NodeID

	// index is the inverse of nodes.
	index map[cflr.NodeID]int

	// succs holds, per dense index, the dense indices of the label's targets.
	succs [][]int
}

// NewProjection builds the projection of g onto the edges labeled lbl.
func NewProjection(g *cflr.Graph, lbl cflr.Label) *Projection {
	p := &Projection{index: map[cflr.NodeID]int{}}
	for _, n := range g.Nodes() {
		p.index[n] = len(p.nodes)
		p.nodes = append(p.nodes, n)
	}
	p.succs = make([][]int, len(p.nodes))
	for _, e := range g.EdgesWithLabel(lbl) {
		i := p.index[e.Src]
		p.succs[i] = append(p.succs[i], p.index[e.Dst])
	}
	return p
}

// Order implements graph.Iterator.
func (p *Projection) Order() int {
	return len(p.nodes)
}

// Visit implements graph.Iterator: it calls do on every out-neighbor of v
// until do returns true.
func (p *Projection) Visit(v int, do func(w int, c int64) bool) bool {
	if v < 0 || v >= len(p.succs) {
		return false
	}
	for _, w := range p.succs[v] {
		if do(w, 1) {
			return true
		}
	}
	return false
}

// Node returns the graph node at dense index i.
func (p *Projection) Node(i int) cflr.NodeID {
	return p.nodes[i]
}

// StronglyConnected returns the strongly connected components of the
// projection of g onto lbl, as sets of graph nodes. Components of size one
// are included. For the Copy relation the non-trivial components are the copy
// cycles a pre-solver optimization could collapse.
func StronglyConnected(g *cflr.Graph, lbl cflr.Label) [][]cflr.NodeID {
	p := NewProjection(g, lbl)
	var components [][]cflr.NodeID
	for _, comp := range graph.StrongComponents(p) {
		nodes := make([]cflr.NodeID, len(comp))
		for i, v := range comp {
			nodes[i] = p.Node(v)
		}
		components = append(components, nodes)
	}
	return components
}

// NonTrivialComponents filters components down to those of size at least two.
func NonTrivialComponents(components [][]cflr.NodeID) [][]cflr.NodeID {
	var out [][]cflr.NodeID
	for _, c := range components {
		if len(c) >= 2 {
			out = append(out, c)
		}
	}
	return out
}
