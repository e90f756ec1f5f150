// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import (
	"sort"
	"testing"
)

func TestValueEqual(t *testing.T) {
	tests := []struct {
		note  string
		a, b  Value
		equal bool
	}{
		{"equal strings", String("ada"), String("ada"), true},
		{"unequal strings", String("ada"), String("ben"), false},
		{"equal numbers", Number(1), Number(1), true},
		{"equal vars", Var("X"), Var("X"), true},
		{"unequal vars", Var("X"), Var("Y"), false},
		{"string vs var", String("X"), Var("X"), false},
		{"number vs string", Number(1), String("1"), false},
	}

	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			if tc.a.Equal(tc.b) != tc.equal {
				t.Fatalf("expected %v.Equal(%v) == %v", tc.a, tc.b, tc.equal)
			}
			if tc.equal && tc.a.Hash() != tc.b.Hash() {
				t.Fatalf("equal values must hash equal: %v, %v", tc.a, tc.b)
			}
		})
	}
}

func TestTupleEqualHash(t *testing.T) {
	a := Tuple{String("ada"), Number(1)}
	b := Tuple{String("ada"), Number(1)}
	c := Tuple{Number(1), String("ada")}

	if !a.Equal(b) {
		t.Fatal("expected equal tuples")
	}
	if a.Equal(c) || a.Equal(a[:1]) {
		t.Fatal("expected unequal tuples")
	}
	if a.Hash() != b.Hash() {
		t.Fatal("equal tuples must hash equal")
	}
}

func TestCompare(t *testing.T) {
	// Var < Number < String; same types compare naturally.
	ordered := []Value{Var("A"), Var("B"), Number(-1), Number(10), String("a"), String("b")}
	for i := range ordered {
		for j := range ordered {
			cmp := Compare(ordered[i], ordered[j])
			switch {
			case i < j && cmp >= 0:
				t.Fatalf("expected %v < %v", ordered[i], ordered[j])
			case i == j && cmp != 0:
				t.Fatalf("expected %v == %v", ordered[i], ordered[j])
			case i > j && cmp <= 0:
				t.Fatalf("expected %v > %v", ordered[i], ordered[j])
			}
		}
	}
}

func TestTupleCompare(t *testing.T) {
	tuples := []Tuple{
		{String("b"), String("a")},
		{String("a"), String("b")},
		{String("a")},
		{String("a"), String("a")},
	}
	sort.Slice(tuples, func(i, j int) bool {
		return tuples[i].Compare(tuples[j]) < 0
	})
	expected := []string{"(a)", "(a, a)", "(a, b)", "(b, a)"}
	for i, exp := range expected {
		if tuples[i].String() != exp {
			t.Fatalf("expected %v at position %d but got %v", exp, i, tuples[i])
		}
	}
}

func TestVarSet(t *testing.T) {
	a := VarSet{}
	a.Add(Var("X"))
	a.Add(Var("Y"))

	b := VarSet{}
	b.Add(Var("Y"))
	b.Add(Var("Z"))

	if diff := a.Diff(b); !diff.Contains(Var("X")) || diff.Contains(Var("Y")) {
		t.Fatalf("unexpected diff: %v", diff)
	}
	if isect := a.Intersect(b); !isect.Contains(Var("Y")) || isect.Contains(Var("X")) {
		t.Fatalf("unexpected intersection: %v", isect)
	}

	cpy := a.Copy()
	cpy.Add(Var("W"))
	if a.Contains(Var("W")) {
		t.Fatal("copy must not alias the original")
	}

	sorted := a.Sorted()
	if len(sorted) != 2 || sorted[0] != Var("X") || sorted[1] != Var("Y") {
		t.Fatalf("unexpected sorted vars: %v", sorted)
	}
}

func TestWildcard(t *testing.T) {
	v := Var(WildcardPrefix + "0")
	if !v.IsWildcard() {
		t.Fatal("expected wildcard")
	}
	if v.String() != "_" {
		t.Fatalf("expected wildcard to print as _ but got %v", v.String())
	}
	if Var("X").IsWildcard() {
		t.Fatal("named variables are not wildcards")
	}
}

func TestAdornments(t *testing.T) {
	q := MustParseQuery(`ancestor(ada, X)?`)
	if a := QueryAdornment(q); a != Adornment("bf") {
		t.Fatalf("expected bf but got %v", a)
	}
	if a := AllFree(3); a != Adornment("fff") {
		t.Fatalf("expected fff but got %v", a)
	}

	a := Adornment("bfb")
	if !a.IsBound(0) || a.IsBound(1) || !a.IsBound(2) {
		t.Fatal("unexpected bound positions")
	}
	if a.BoundCount() != 2 {
		t.Fatalf("expected 2 bound positions but got %d", a.BoundCount())
	}

	key := EnterKey("ancestor", "bf")
	if key.String() != "enter_ancestor^bf" {
		t.Fatalf("unexpected key rendering: %v", key)
	}
	if plain := PlainKey("parent"); plain.String() != "parent" {
		t.Fatalf("unexpected key rendering: %v", plain)
	}
}
