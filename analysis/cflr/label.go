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

import "fmt"

// NodeID identifies a node of the labeled graph. Nodes denote program
// entities (variables, allocation sites) and are allocated by the graph
// builder before solving starts; the solver never creates nodes.
type NodeID uint32

// Label is the relation kind an edge carries, drawn from a closed alphabet.
// X and XBar are distinct labels denoting the two directions of the same
// semantic fact.
type Label uint8

const (
	// Base relations, emitted by the graph builder.

	// Addr is the address-of relation: Addr(o, p) records p = &o.
	Addr Label = iota
	// AddrBar is the inverse of Addr.
	AddrBar
	// Copy is the assignment relation: Copy(q, p) records p = q.
	Copy
	// CopyBar is the inverse of Copy.
	CopyBar
	// Store records *p = q as Store(q, p).
	Store
	// Load records r = *p as Load(p, r).
	Load

	// Derived relations, produced only by the solver.

	// PT is points-to: PT(p, o) means p may point to o.
	PT
	// PTBar is the inverse of PT.
	PTBar
	// PV relates a stored value to the object it reaches.
	PV
	// VP relates an object to a value loaded from it.
	VP

	numLabels int = iota
)

var labelNames = [numLabels]string{
	Addr:    "Addr",
	AddrBar: "AddrBar",
	Copy:    "Copy",
	CopyBar: "CopyBar",
	Store:   "Store",
	Load:    "Load",
	PT:      "PT",
	PTBar:   "PTBar",
	PV:      "PV",
	VP:      "VP",
}

func (l Label) String() string {
	if int(l) < len(labelNames) {
		return labelNames[l]
	}
	return "Label(?)"
}

// inverse returns the bar label the solver maintains alongside l, or false
// when l carries no maintained inverse.
func (l Label) inverse() (Label, bool) {
	switch l {
	case PT:
		return PTBar, true
	case Copy:
		return CopyBar, true
	default:
		return 0, false
	}
}

// Edge is an ordered (source, destination, label) triple. The graph stores
// edges as a set: a triple is present at most once, and once inserted it is
// never removed or relabeled.
type Edge struct {
	Src   NodeID
	Dst   NodeID
	Label Label
}

func (e Edge) String() string {
	return fmt.Sprintf("%s(%d, %d)", e.Label, e.Src, e.Dst)
}
