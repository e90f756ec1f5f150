// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import (
	"strings"
	"testing"
)

func TestParseFacts(t *testing.T) {
	tests := []struct {
		note     string
		input    string
		expected *Fact
	}{
		{"symbols", `parent(ada, ben).`, &Fact{Name: "parent", Values: Tuple{String("ada"), String("ben")}}},
		{"quoted strings", `city("New York", usa).`, &Fact{Name: "city", Values: Tuple{String("New York"), String("usa")}}},
		{"numbers", `age(ada, 36).`, &Fact{Name: "age", Values: Tuple{String("ada"), Number(36)}}},
		{"negative number", `delta(x, -2).`, &Fact{Name: "delta", Values: Tuple{String("x"), Number(-2)}}},
		{"unary", `person(ada).`, &Fact{Name: "person", Values: Tuple{String("ada")}}},
		{"comment before", "% people\nperson(ada).", &Fact{Name: "person", Values: Tuple{String("ada")}}},
	}

	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			stmt, err := ParseStatement(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			fact, ok := stmt.(*Fact)
			if !ok {
				t.Fatalf("expected fact but got %T", stmt)
			}
			if !fact.Equal(tc.expected) {
				t.Fatalf("expected %v but got %v", tc.expected, fact)
			}
		})
	}
}

func TestParseRules(t *testing.T) {
	rule := MustParseRule(`ancestor(X, Z) :- parent(X, Y), ancestor(Y, Z).`)

	if rule.Head.Name != "ancestor" || rule.Head.Arity() != 2 {
		t.Fatalf("unexpected head: %v", rule.Head)
	}
	if len(rule.Body) != 2 {
		t.Fatalf("expected 2 body literals but got %v", rule.Body)
	}
	if exp := "ancestor(X, Z) :- parent(X, Y), ancestor(Y, Z)."; rule.String() != exp {
		t.Fatalf("expected %q but got %q", exp, rule.String())
	}

	exp := VarSet{}
	exp.Add(Var("X"))
	exp.Add(Var("Y"))
	exp.Add(Var("Z"))
	if !rule.Vars().Equal(exp) {
		t.Fatalf("expected vars %v but got %v", exp, rule.Vars())
	}
}

func TestParseQueries(t *testing.T) {
	tests := []struct {
		note     string
		input    string
		bound    map[int]Value
		expected string
	}{
		{"first bound", `ancestor(ada, X)?`, map[int]Value{0: String("ada")}, "ancestor(ada, X)?"},
		{"second bound", `ancestor(X, ben)?`, map[int]Value{1: String("ben")}, "ancestor(X, ben)?"},
		{"all free", `ancestor(X, Y)?`, map[int]Value{}, "ancestor(X, Y)?"},
		{"all bound", `ancestor(ada, ben)?`, map[int]Value{0: String("ada"), 1: String("ben")}, "ancestor(ada, ben)?"},
		{"optional mark", `ancestor(ada, X)`, map[int]Value{0: String("ada")}, "ancestor(ada, X)?"},
		{"wildcard is free", `ancestor(_, ben)?`, map[int]Value{1: String("ben")}, "ancestor(_, ben)?"},
	}

	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			q, err := ParseQuery(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			bindings := q.Bindings()
			if len(bindings) != len(tc.bound) {
				t.Fatalf("expected bindings %v but got %v", tc.bound, bindings)
			}
			for i, v := range tc.bound {
				if got, ok := bindings[i]; !ok || !got.Equal(v) {
					t.Fatalf("expected bindings %v but got %v", tc.bound, bindings)
				}
			}
			if q.String() != tc.expected {
				t.Fatalf("expected %q but got %q", tc.expected, q.String())
			}
		})
	}
}

func TestParseWildcardsUnique(t *testing.T) {
	q := MustParseQuery(`path(_, _)?`)
	v0, ok0 := q.Args[0].Value.(Var)
	v1, ok1 := q.Args[1].Value.(Var)
	if !ok0 || !ok1 {
		t.Fatalf("expected wildcard variables but got %v", q)
	}
	if !v0.IsWildcard() || !v1.IsWildcard() {
		t.Fatalf("expected wildcards but got %v and %v", string(v0), string(v1))
	}
	if v0 == v1 {
		t.Fatalf("wildcards must not unify: %v", string(v0))
	}
}

func TestParseStatementsRecovery(t *testing.T) {
	input := `
		parent(ada, ben).
		parent(ada ben).
		parent(ben, cyd).
		Parent(cyd, dee).
	`
	stmts, err := ParseStatements("test.dl", input)
	if err == nil {
		t.Fatal("expected errors")
	}
	errs, ok := err.(Errors)
	if !ok {
		t.Fatalf("expected Errors but got %T: %v", err, err)
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors but got %d: %v", len(errs), errs)
	}
	// Parsing continues past a malformed statement.
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements but got %d: %v", len(stmts), stmts)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		note  string
		input string
		msg   string
	}{
		{"missing terminator", `parent(ada, ben)`, "unexpected end of input"},
		{"uppercase predicate", `Parent(ada, ben).`, "must not start with an uppercase letter"},
		{"missing parens", `parent.`, "expected '('"},
		{"empty literal", `parent().`, "expected constant or variable"},
		{"unterminated string", `name("ada).`, "illegal"},
		{"bare colon", `p(a) : q(a).`, "illegal"},
		{"query in program", `p(a). p(X)?`, "queries are not allowed in program text"},
	}

	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			_, err := ParseProgram("", tc.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("expected error containing %q but got: %v", tc.msg, err)
			}
		})
	}
}

func TestParseNumberThenDot(t *testing.T) {
	// The '.' after a trailing number terminates the statement.
	fact := MustParseFact(`age(ada, 36).`)
	if !fact.Values[1].Equal(Number(36)) {
		t.Fatalf("unexpected values: %v", fact.Values)
	}
}

func TestParseProgramLocations(t *testing.T) {
	program := MustParseProgram("parent(ada, ben).\nancestor(X, Y) :- parent(X, Y).")
	if loc := program.Facts[0].Location; loc.Row != 1 {
		t.Fatalf("expected row 1 but got %v", loc.Row)
	}
	if loc := program.Rules[0].Location; loc.Row != 2 {
		t.Fatalf("expected row 2 but got %v", loc.Row)
	}
}
