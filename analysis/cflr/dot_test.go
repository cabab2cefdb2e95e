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
	"strings"
	"testing"
)

func TestWriteDOT(t *testing.T) {
	g := seedGraph(
		Edge{1, 2, Copy}, Edge{2, 1, CopyBar},
		Edge{1, 2, Store}, // parallel edge with a different label
	)
	names := map[NodeID]string{1: "p", 2: "q"}

	var sb strings.Builder
	err := WriteDOT(&sb, g, func(n NodeID) string { return names[n] })
	if err != nil {
		t.Fatalf("WriteDOT failed: %v", err)
	}
	out := sb.String()

	for _, want := range []string{"digraph", "p", "q", `label=Copy`, `label=CopyBar`, `label=Store`} {
		if !strings.Contains(out, want) {
			t.Fatalf("DOT output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteDOTLabelFilter(t *testing.T) {
	g := seedGraph(
		Edge{1, 2, Copy}, Edge{2, 1, CopyBar},
		Edge{3, 1, Addr},
	)
	var sb strings.Builder
	if err := WriteDOT(&sb, g, nil, Copy); err != nil {
		t.Fatalf("WriteDOT failed: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "label=Copy") {
		t.Fatalf("filtered DOT output missing Copy edge:\n%s", out)
	}
	if strings.Contains(out, "CopyBar") || strings.Contains(out, "Addr") {
		t.Fatalf("filtered DOT output contains excluded labels:\n%s", out)
	}
}
