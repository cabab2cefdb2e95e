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

import "errors"

// ErrEmptyQueue is returned by Pop when no edge is pending. The solve loop
// checks Empty before popping, so observing this error indicates a caller
// contract violation.
var ErrEmptyQueue = errors.New("pop from empty edge queue")

// Strategy selects the order in which the worklist hands out pending edges.
// The closure is confluent, so every strategy produces the same final edge
// set; the choice only affects the order of intermediate derivations.
type Strategy int

const (
	// FIFO processes edges in insertion order. This is the default.
	FIFO Strategy = iota
	// LIFO processes the most recently inserted edge first.
	LIFO
)

// String implements fmt.Stringer for logging.
func (s Strategy) String() string {
	if s == LIFO {
		return "lifo"
	}
	return "fifo"
}

// EdgeQueue is the worklist of pending edges. It performs no deduplication
// itself: the solver only pushes an edge at the moment it is inserted into
// the graph, which guarantees each edge is enqueued at most once.
type EdgeQueue struct {
	strategy Strategy
	edges    []Edge
	// head indexes the next FIFO element; popped slots are reclaimed when
	// the queue drains or the dead prefix dominates the backing array.
	head int
}

// NewEdgeQueue returns an empty queue using the given strategy.
func NewEdgeQueue(strategy Strategy) *EdgeQueue {
	return &EdgeQueue{strategy: strategy}
}

// Push appends an edge to the pending set.
func (q *EdgeQueue) Push(e Edge) {
	q.edges = append(q.edges, e)
}

// Pop removes and returns the next pending edge according to the queue's
// strategy. It returns ErrEmptyQueue when no edge is pending.
func (q *EdgeQueue) Pop() (Edge, error) {
	if q.Empty() {
		return Edge{}, ErrEmptyQueue
	}
	if q.strategy == LIFO {
		e := q.edges[len(q.edges)-1]
		q.edges = q.edges[:len(q.edges)-1]
		return e, nil
	}
	e := q.edges[q.head]
	q.head++
	if q.head == len(q.edges) {
		q.edges = q.edges[:0]
		q.head = 0
	} else if q.head > len(q.edges)/2 && q.head > 1024 {
		n := copy(q.edges, q.edges[q.head:])
		q.edges = q.edges[:n]
		q.head = 0
	}
	return e, nil
}

// Empty reports whether no edge is pending.
func (q *EdgeQueue) Empty() bool {
	return q.Len() == 0
}

// Len returns the number of pending edges.
func (q *EdgeQueue) Len() int {
	return len(q.edges) - q.head
}
