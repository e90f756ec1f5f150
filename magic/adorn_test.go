// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package magic

import (
	"testing"

	"github.com/seer-datalog/seer/ast"
)

const ancestorProgram = `
	parent(avery, blair).
	parent(blair, charlie).
	parent(charlie, dakota).
	parent(emerson, finley).
	parent(finley, greyson).
	ancestor(X, Y) :- parent(X, Y).
	ancestor(X, Z) :- parent(X, Y), ancestor(Y, Z).
`

func TestAdornAncestorBoundFree(t *testing.T) {
	c := mustCompile(t, ancestorProgram)

	adorned, err := Adorn(c, "ancestor", "bf", LeftToRight())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{
		"ancestor(X, Y)^bf :- parent(X, Y)^bf.",
		"ancestor(X, Z)^bf :- parent(X, Y)^bf, ancestor(Y, Z)^bf.",
	}
	assertAdorned(t, adorned, expected)
}

func TestAdornAncestorFreeBound(t *testing.T) {
	c := mustCompile(t, ancestorProgram)

	// Left-to-right passes nothing into parent for a free-bound query, but
	// once parent has bound Y the recursive literal runs fully bound, which
	// demands the bb adornment of ancestor as well.
	adorned, err := Adorn(c, "ancestor", "fb", LeftToRight())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{
		"ancestor(X, Y)^fb :- parent(X, Y)^fb.",
		"ancestor(X, Z)^fb :- parent(X, Y)^ff, ancestor(Y, Z)^bb.",
		"ancestor(X, Y)^bb :- parent(X, Y)^bb.",
		"ancestor(X, Z)^bb :- parent(X, Y)^bf, ancestor(Y, Z)^bb.",
	}
	assertAdorned(t, adorned, expected)
}

func TestAdornMostBound(t *testing.T) {
	c := mustCompile(t, ancestorProgram)

	// With a bound second argument the recursive literal is more selective
	// than parent, so the greedy strategy schedules it first.
	adorned, err := Adorn(c, "ancestor", "fb", MostBound())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{
		"ancestor(X, Y)^fb :- parent(X, Y)^fb.",
		"ancestor(X, Z)^fb :- ancestor(Y, Z)^fb, parent(X, Y)^fb.",
	}
	assertAdorned(t, adorned, expected)
}

func TestAdornReachableOnly(t *testing.T) {
	c := mustCompile(t, ancestorProgram+`
		related(X, Y) :- ancestor(Z, X), ancestor(Z, Y).
	`)

	adorned, err := Adorn(c, "ancestor", "bf", LeftToRight())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The related rules are not reachable from the query predicate.
	for _, ar := range adorned {
		if ar.Source.Head.Name != "ancestor" {
			t.Fatalf("adorned an unreachable rule: %v", ar)
		}
	}
}

func TestAdornDistinctAdornments(t *testing.T) {
	c := mustCompile(t, `
		link(a, b).
		path(X, Y) :- link(X, Y).
		path(X, Z) :- path(X, Y), path(Y, Z).
	`)

	adorned, err := Adorn(c, "path", "bb", LeftToRight())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Under the bb adornment path(X, Y) runs with only X bound, which
	// demands the bf adornment of path as well.
	heads := map[ast.Adornment]int{}
	for _, ar := range adorned {
		heads[ar.Head]++
	}
	if heads["bb"] != 2 || heads["bf"] != 2 {
		t.Fatalf("expected two rules per adornment bb and bf but got %v", heads)
	}
}

func assertAdorned(t *testing.T, adorned []*AdornedRule, expected []string) {
	t.Helper()
	if len(adorned) != len(expected) {
		t.Fatalf("expected %d adorned rules but got %d: %v", len(expected), len(adorned), adorned)
	}
	for i, exp := range expected {
		if adorned[i].String() != exp {
			t.Fatalf("expected %q but got %q", exp, adorned[i].String())
		}
	}
}

func mustCompile(t *testing.T, input string) *ast.Compiler {
	t.Helper()
	c, err := ast.CompileProgram(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}
