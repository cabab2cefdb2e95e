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

// Package funcutil provides generic helpers for the map-represented sets
// used throughout the analysis.
package funcutil

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Merge merges the two maps into the first map.
// if x is in b but not in a, then a[x] := b[x]
// if x is in both a and b, then a[x] := both(a[x], b[x])
// @mutates a
func Merge[T comparable, S any](a map[T]S, b map[T]S, both func(x S, y S) S) {
	for x, yb := range b {
		if ya, ina := a[x]; ina {
			a[x] = both(ya, yb)
		} else {
			a[x] = yb
		}
	}
}

// Union returns the union of map-represented sets a and b. This mutates map a
// @mutates a
func Union[T comparable](a map[T]bool, b map[T]bool) map[T]bool {
	Merge(a, b, func(a bool, b bool) bool { return a || b })
	return a
}

// Intersect returns a new map-represented set holding the elements present in
// both a and b. Neither argument is mutated; passing nil for either returns
// an empty set.
func Intersect[T comparable](a map[T]bool, b map[T]bool) map[T]bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	res := map[T]bool{}
	for x := range a {
		if b[x] {
			res[x] = true
		}
	}
	return res
}

// SortedKeys returns the keys of m in increasing order.
func SortedKeys[T constraints.Ordered, S any](m map[T]S) []T {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// Iter iterates over all elements in the slice and calls the function on that
// element.
func Iter[T any](a []T, f func(T)) {
	for _, x := range a {
		f(x)
	}
}
