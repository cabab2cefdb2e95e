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

// Package cflr implements a CFL-reachability closure engine over an
// edge-labeled directed multigraph, the core of a flow-insensitive,
// context-insensitive points-to analysis.
//
// An external builder (see the pag package) seeds a Graph with base-relation
// edges (Addr, Copy, Store, Load and the inverses AddrBar, CopyBar). The
// Solver then saturates the graph under a fixed context-free grammar:
//
//	PT   ::= AddrBar | CopyBar PT
//	PV   ::= Store PT
//	VP   ::= PTBar Load
//	Copy ::= PV VP
//
// Saturation is a least-fixpoint computation: a worklist of pending edges is
// drained, each popped edge is matched against the productions using the
// graph's adjacency in both directions, and every newly derivable edge is
// inserted and re-enqueued. Edges are only ever added, so the loop terminates
// once the bounded edge space is exhausted. The rewriting system is confluent:
// the final edge set does not depend on the order in which pending edges are
// processed.
//
// After solving, all PT(u, v) edges read as "u may point to v" and feed alias
// queries through Result; Copy edges derived by the Store/Load pairing rule
// represent induced value flow.
package cflr
