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

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/multi"
)

// dotNode adapts a NodeID to Gonum's graph.Node with a printable DOT id.
type dotNode struct {
	id   int64
	name string
}

func (n dotNode) ID() int64 { return n.id }

// DOTID implements dot.Node so nodes render with their program-level names.
func (n dotNode) DOTID() string { return n.name }

// dotLine is a graph line annotated with its relation label.
type dotLine struct {
	graph.Line
	label string
}

// Attributes implements encoding.Attributer.
func (l dotLine) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: l.label}}
}

// WriteDOT renders the graph in Graphviz DOT format. Parallel edges between
// the same node pair are kept as separate lines labeled with their relation.
// name maps nodes to DOT identifiers (nil falls back to numeric ids), and
// labels restricts the output to the given relations (empty keeps all).
func WriteDOT(w io.Writer, g *Graph, name func(NodeID) string, labels ...Label) error {
	if name == nil {
		name = func(n NodeID) string { return fmt.Sprintf("n%d", n) }
	}
	keep := func(Label) bool { return true }
	if len(labels) > 0 {
		wanted := map[Label]bool{}
		for _, l := range labels {
			wanted[l] = true
		}
		keep = func(l Label) bool { return wanted[l] }
	}

	dg := multi.NewDirectedGraph()
	node := func(n NodeID) dotNode {
		return dotNode{id: int64(n), name: name(n)}
	}
	for l := Label(0); int(l) < numLabels; l++ {
		if !keep(l) {
			continue
		}
		for _, e := range g.EdgesWithLabel(l) {
			line := dg.NewLine(node(e.Src), node(e.Dst))
			dg.SetLine(dotLine{Line: line, label: l.String()})
		}
	}

	b, err := dot.MarshalMulti(dg, "pointsto", "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling graph to DOT: %w", err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("writing DOT output: %w", err)
	}
	return nil
}
