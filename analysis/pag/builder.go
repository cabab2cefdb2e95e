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

// Package pag builds the pointer assignment graph of a program: the seed
// graph the cflr solver saturates. Each pointer-typed ssa.Value becomes a
// node, each allocation site becomes an object node, and the elementary
// pointer operations become base-relation edges:
//
//	p := new(T)   Addr(obj, p) and AddrBar(p, obj)
//	p = q         Copy(q, p) and CopyBar(p, q)
//	*p = q        Store(q, p)
//	r = *p        Load(p, r)
//
// The builder is flow- and context-insensitive and field-insensitive: field
// and index addressing collapse onto the base object. Every Addr and Copy
// seed is emitted together with its inverse, which the solver's grammar
// relies on.
package pag

import (
	"fmt"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"github.com/awslabs/cflr/analysis/cflr"
	"github.com/awslabs/cflr/analysis/config"
)

// Builder accumulates the pointer assignment graph of a program. The zero
// value is not usable; construct with NewBuilder.
type Builder struct {
	graph  *cflr.Graph
	logger *config.LogGroup

	// values maps a pointer-like ssa.Value to its node.
	values map[ssa.Value]cflr.NodeID

	// objects maps an allocation instruction or global to its object node.
	objects map[ssa.Value]cflr.NodeID

	// descs describes every allocated node, indexed by NodeID.
	descs []string
}

// NewBuilder returns an empty builder logging through logger.
func NewBuilder(logger *config.LogGroup) *Builder {
	if logger == nil {
		logger = config.NewLogGroup(nil)
	}
	return &Builder{
		graph:   cflr.NewGraph(),
		logger:  logger,
		values:  map[ssa.Value]cflr.NodeID{},
		objects: map[ssa.Value]cflr.NodeID{},
	}
}

// Graph returns the graph built so far.
func (b *Builder) Graph() *cflr.Graph {
	return b.graph
}

// NumNodes returns the number of nodes allocated so far.
func (b *Builder) NumNodes() int {
	return len(b.descs)
}

// NodeName returns a printable description of a node,
// e.g. "main.t0" or "obj:main.t0".
func (b *Builder) NodeName(id cflr.NodeID) string {
	if int(id) < len(b.descs) {
		return b.descs[id]
	}
	return fmt.Sprintf("n%d", id)
}

// ValueNode returns the node of v, if v was assigned one during the build.
func (b *Builder) ValueNode(v ssa.Value) (cflr.NodeID, bool) {
	id, ok := b.values[v]
	return id, ok
}

// ObjectNode returns the object node of an allocation site, if any.
func (b *Builder) ObjectNode(site ssa.Value) (cflr.NodeID, bool) {
	id, ok := b.objects[site]
	return id, ok
}

// Build constructs the pointer assignment graph for every function of the
// program, including synthetic wrappers, plus the package-level globals, and
// returns the seed graph.
func (b *Builder) Build(program *ssa.Program) *cflr.Graph {
	for _, pkg := range program.AllPackages() {
		for _, member := range pkg.Members {
			if g, ok := member.(*ssa.Global); ok {
				b.addAddr(b.objectNode(g), b.valueNode(g))
			}
		}
	}
	funcs := ssautil.AllFunctions(program)
	for f := range funcs {
		b.AddFunction(f)
	}
	b.logger.Infof("pointer assignment graph: %d nodes, %d seed edges over %d functions",
		b.NumNodes(), b.graph.NumEdges(), len(funcs))
	return b.graph
}

// AddFunction emits the base edges for the body of f. Functions without a
// body (external or interface-dispatched) contribute nothing.
func (b *Builder) AddFunction(f *ssa.Function) {
	for _, block := range f.Blocks {
		for _, instr := range block.Instrs {
			b.addInstruction(instr)
		}
	}
}

func (b *Builder) addInstruction(instr ssa.Instruction) {
	switch v := instr.(type) {
	case *ssa.Alloc:
		b.addAddr(b.objectNode(v), b.valueNode(v))

	case *ssa.MakeSlice, *ssa.MakeMap, *ssa.MakeChan:
		site := v.(ssa.Value)
		b.addAddr(b.objectNode(site), b.valueNode(site))

	case *ssa.MakeClosure:
		b.addAddr(b.objectNode(v), b.valueNode(v))
		if fn, ok := v.Fn.(*ssa.Function); ok {
			for i, bind := range v.Bindings {
				b.addCopy(bind, fn.FreeVars[i])
			}
		}

	case *ssa.Phi:
		for _, op := range v.Edges {
			b.addCopy(op, v)
		}

	case *ssa.ChangeType:
		b.addCopy(v.X, v)
	case *ssa.Convert:
		b.addCopy(v.X, v)
	case *ssa.ChangeInterface:
		b.addCopy(v.X, v)
	case *ssa.MakeInterface:
		b.addCopy(v.X, v)
	case *ssa.Slice:
		b.addCopy(v.X, v)
	case *ssa.TypeAssert:
		if !v.CommaOk {
			b.addCopy(v.X, v)
		}

	case *ssa.FieldAddr:
		// field-insensitive: the field address aliases the base object
		b.addCopy(v.X, v)
	case *ssa.IndexAddr:
		b.addCopy(v.X, v)

	case *ssa.UnOp:
		if v.Op == token.MUL {
			b.addLoad(v.X, v)
		}

	case *ssa.Store:
		b.addStore(v.Val, v.Addr)

	case *ssa.Call:
		b.addCall(v.Common(), v)
	case *ssa.Go:
		b.addCall(v.Common(), nil)
	case *ssa.Defer:
		b.addCall(v.Common(), nil)

	case *ssa.Return:
		// handled at call sites through addCall
	}
}

// addCall wires the arguments of a statically resolved call to the callee's
// parameters, and the callee's returned values back to the call result.
// Dynamic calls (through interfaces or function values) are not resolved; a
// sound treatment would iterate the points-to set of the function value,
// which requires interleaving the builder with the solver.
func (b *Builder) addCall(call *ssa.CallCommon, result ssa.Value) {
	callee := call.StaticCallee()
	if callee == nil || len(callee.Blocks) == 0 {
		return
	}
	params := callee.Params
	args := call.Args
	for i := 0; i < len(args) && i < len(params); i++ {
		b.addCopy(args[i], params[i])
	}
	if result == nil || callee.Signature.Results().Len() != 1 {
		return
	}
	for _, block := range callee.Blocks {
		if ret, ok := block.Instrs[len(block.Instrs)-1].(*ssa.Return); ok && len(ret.Results) == 1 {
			b.addCopy(ret.Results[0], result)
		}
	}
}

// addAddr emits Addr(obj, ptr) with its inverse.
func (b *Builder) addAddr(obj, ptr cflr.NodeID) {
	b.graph.AddEdge(obj, ptr, cflr.Addr)
	b.graph.AddEdge(ptr, obj, cflr.AddrBar)
}

// addCopy emits Copy(src, dst) with its inverse when both operands are
// pointer-like.
func (b *Builder) addCopy(src, dst ssa.Value) {
	if !pointerLike(src.Type()) || !pointerLike(dst.Type()) {
		return
	}
	s, d := b.valueNode(src), b.valueNode(dst)
	if s == d {
		// self-referential phi operands
		return
	}
	b.graph.AddEdge(s, d, cflr.Copy)
	b.graph.AddEdge(d, s, cflr.CopyBar)
}

// addStore emits Store(val, ptr) for *ptr = val.
func (b *Builder) addStore(val, ptr ssa.Value) {
	if !pointerLike(val.Type()) {
		return
	}
	b.graph.AddEdge(b.valueNode(val), b.valueNode(ptr), cflr.Store)
}

// addLoad emits Load(ptr, dst) for dst = *ptr.
func (b *Builder) addLoad(ptr, dst ssa.Value) {
	if !pointerLike(dst.Type()) {
		return
	}
	b.graph.AddEdge(b.valueNode(ptr), b.valueNode(dst), cflr.Load)
}

func (b *Builder) valueNode(v ssa.Value) cflr.NodeID {
	if id, ok := b.values[v]; ok {
		return id
	}
	id := b.newNode(valueDesc(v))
	b.values[v] = id
	return id
}

func (b *Builder) objectNode(site ssa.Value) cflr.NodeID {
	if id, ok := b.objects[site]; ok {
		return id
	}
	id := b.newNode("obj:" + valueDesc(site))
	b.objects[site] = id
	return id
}

func (b *Builder) newNode(desc string) cflr.NodeID {
	id := cflr.NodeID(len(b.descs))
	b.descs = append(b.descs, desc)
	return id
}

func valueDesc(v ssa.Value) string {
	switch x := v.(type) {
	case *ssa.Global:
		return x.Pkg.Pkg.Path() + "." + x.Name()
	case *ssa.Function:
		return x.String()
	}
	if f := funcOf(v); f != nil {
		return f.String() + "." + v.Name()
	}
	return v.Name()
}

func funcOf(v ssa.Value) *ssa.Function {
	switch x := v.(type) {
	case ssa.Instruction:
		return x.Parent()
	case *ssa.Parameter:
		return x.Parent()
	case *ssa.FreeVar:
		return x.Parent()
	case *ssa.Function:
		return x
	default:
		return nil
	}
}

// pointerLike reports whether values of type t can hold or reach a pointer,
// and therefore need a node in the graph.
func pointerLike(t types.Type) bool {
	switch u := t.Underlying().(type) {
	case *types.Pointer, *types.Slice, *types.Map, *types.Chan,
		*types.Signature, *types.Interface:
		return true
	case *types.Basic:
		return u.Kind() == types.UnsafePointer
	default:
		return false
	}
}
