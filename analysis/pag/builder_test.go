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

package pag

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"github.com/awslabs/cflr/analysis/cflr"
	"github.com/awslabs/cflr/analysis/config"
)

// buildSSA compiles a single dependency-free source file to SSA.
func buildSSA(t *testing.T, src string) *ssa.Package {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "p.go", src, 0)
	if err != nil {
		t.Fatalf("could not parse test source: %v", err)
	}
	pkg, _, err := ssautil.BuildPackage(
		&types.Config{}, fset, types.NewPackage("p", "p"),
		[]*ast.File{file}, ssa.SanityCheckFunctions)
	if err != nil {
		t.Fatalf("could not build SSA: %v", err)
	}
	return pkg
}

func quietLogger() *config.LogGroup {
	cfg := config.NewDefault()
	cfg.LogLevel = int(config.ErrLevel)
	return config.NewLogGroup(cfg)
}

const storeLoadSrc = `package p

var g *int

func f() *int {
	x := new(int)
	g = x
	return g
}
`

func TestBuildStoreLoad(t *testing.T) {
	pkg := buildSSA(t, storeLoadSrc)

	builder := NewBuilder(quietLogger())
	graph := builder.Build(pkg.Prog)

	fn := pkg.Func("f")
	if fn == nil {
		t.Fatal("function f not found")
	}
	var alloc *ssa.Alloc
	var load *ssa.UnOp
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			switch v := instr.(type) {
			case *ssa.Alloc:
				alloc = v
			case *ssa.UnOp:
				if v.Op == token.MUL {
					load = v
				}
			}
		}
	}
	if alloc == nil || load == nil {
		t.Fatal("expected an allocation and a load in f")
	}

	allocNode, ok := builder.ValueNode(alloc)
	if !ok {
		t.Fatal("allocation has no value node")
	}
	obj, ok := builder.ObjectNode(alloc)
	if !ok {
		t.Fatal("allocation has no object node")
	}
	loadNode, ok := builder.ValueNode(load)
	if !ok {
		t.Fatal("loaded value has no node")
	}

	cfg := config.NewDefault()
	cfg.LogLevel = int(config.ErrLevel)
	solver := cflr.NewSolver(graph, cfg, nil)
	if err := solver.Solve(); err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	res := solver.Result()

	if !res.PointsTo(allocNode)[obj] {
		t.Fatalf("x should point to its allocation site; PT(x) = %v",
			res.PointsTo(allocNode).Sorted())
	}
	if !res.PointsTo(loadNode)[obj] {
		t.Fatalf("the value loaded from g should point to x's object; PT = %v",
			res.PointsTo(loadNode).Sorted())
	}
	if !res.MayAlias(allocNode, loadNode) {
		t.Fatal("x and the value loaded back from g should alias")
	}
}

const copyChainSrc = `package p

func id(p *int) *int {
	return p
}

func h() *int {
	a := new(int)
	b := id(a)
	return b
}
`

func TestBuildStaticCallBindsParams(t *testing.T) {
	pkg := buildSSA(t, copyChainSrc)

	builder := NewBuilder(quietLogger())
	graph := builder.Build(pkg.Prog)

	fn := pkg.Func("h")
	var alloc *ssa.Alloc
	var call *ssa.Call
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			switch v := instr.(type) {
			case *ssa.Alloc:
				alloc = v
			case *ssa.Call:
				call = v
			}
		}
	}
	if alloc == nil || call == nil {
		t.Fatal("expected an allocation and a call in h")
	}

	cfg := config.NewDefault()
	cfg.LogLevel = int(config.ErrLevel)
	solver := cflr.NewSolver(graph, cfg, nil)
	if err := solver.Solve(); err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	res := solver.Result()

	obj, _ := builder.ObjectNode(alloc)
	callNode, ok := builder.ValueNode(call)
	if !ok {
		t.Fatal("call result has no node")
	}
	if !res.PointsTo(callNode)[obj] {
		t.Fatalf("id(a) should point to a's object; PT = %v", res.PointsTo(callNode).Sorted())
	}
}

func TestBuildNodeNames(t *testing.T) {
	pkg := buildSSA(t, storeLoadSrc)
	builder := NewBuilder(quietLogger())
	builder.Build(pkg.Prog)

	if builder.NumNodes() == 0 {
		t.Fatal("builder allocated no nodes")
	}
	seen := map[string]bool{}
	for id := 0; id < builder.NumNodes(); id++ {
		name := builder.NodeName(cflr.NodeID(id))
		if name == "" {
			t.Fatalf("node %d has an empty name", id)
		}
		seen[name] = true
	}
	// out-of-range ids fall back to a numeric name
	if got := builder.NodeName(cflr.NodeID(builder.NumNodes() + 10)); got == "" {
		t.Fatal("fallback name should not be empty")
	}
}
