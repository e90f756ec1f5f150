// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package bottomup

import (
	"context"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/seer-datalog/seer/ast"
	"github.com/seer-datalog/seer/magic"
	"github.com/seer-datalog/seer/metrics"
	"github.com/seer-datalog/seer/storage"
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

func TestEvalAncestorBoundFirst(t *testing.T) {
	p, store := transform(t, ancestorProgram, "ancestor", "bf")
	store.Relation(p.Seed, 1).Insert(tuple("finley"))

	if err := New(p, store).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertRelation(t, store, p.Answer, []ast.Tuple{tuple("finley", "greyson")})

	// The demand stays inside the component reachable from the seed: the
	// avery chain is never entered.
	enter, _ := store.Get(p.Seed)
	for _, tup := range enter.Tuples() {
		switch tup[0] {
		case ast.String("finley"), ast.String("greyson"):
		default:
			t.Fatalf("demanded an unreachable constant: %v", tup)
		}
	}
}

func TestEvalAncestorBoundSecond(t *testing.T) {
	p, store := transform(t, ancestorProgram, "ancestor", "fb")
	store.Relation(p.Seed, 1).Insert(tuple("dakota"))

	if err := New(p, store).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertRelation(t, store, p.Answer, []ast.Tuple{
		tuple("avery", "dakota"),
		tuple("blair", "dakota"),
		tuple("charlie", "dakota"),
	})
}

func TestEvalAllFree(t *testing.T) {
	p, store := transform(t, ancestorProgram, "ancestor", "ff")
	store.Relation(p.Seed, 0).Insert(ast.Tuple{})

	if err := New(p, store).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	answer, _ := store.Get(p.Answer)
	if answer.Len() != 9 {
		t.Fatalf("expected the full closure of 9 tuples but got %v", answer)
	}
}

func TestEvalPlainMatchesTransformed(t *testing.T) {
	c := mustCompile(t, ancestorProgram)

	plain := magic.Plain(c)
	plain.Stratify()
	plainStore := storage.NewFromFacts(c.Program.Facts)
	if err := New(plain, plainStore).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	full, _ := plainStore.Get(ast.PlainKey("ancestor"))

	p, store := transform(t, ancestorProgram, "ancestor", "bf")
	store.Relation(p.Seed, 1).Insert(tuple("avery"))
	if err := New(p, store).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	answer, _ := store.Get(p.Answer)

	// Everything derived under the demand appears in the full closure, and
	// the closure restricted to the seed equals the answer.
	restricted := full.Lookup(map[int]ast.Value{0: ast.String("avery")})
	if diff := cmp.Diff(sortTuplesForTest(restricted), answer.Sorted()); diff != "" {
		t.Fatalf("unexpected answer (-want +got):\n%s", diff)
	}
}

func TestEvalNoDerivations(t *testing.T) {
	p, store := transform(t, ancestorProgram, "ancestor", "bf")
	store.Relation(p.Seed, 1).Insert(tuple("zed"))

	if err := New(p, store).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	answer, _ := store.Get(p.Answer)
	if answer.Len() != 0 {
		t.Fatalf("expected no answers but got %v", answer)
	}
}

func TestEvalParallelMatchesSerial(t *testing.T) {
	serial, serialStore := transform(t, ancestorProgram, "ancestor", "fb")
	serialStore.Relation(serial.Seed, 1).Insert(tuple("dakota"))
	if err := New(serial, serialStore).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parallel, parallelStore := transform(t, ancestorProgram, "ancestor", "fb")
	parallelStore.Relation(parallel.Seed, 1).Insert(tuple("dakota"))
	if err := New(parallel, parallelStore).WithWorkers(4).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, _ := serialStore.Get(serial.Answer)
	b, _ := parallelStore.Get(parallel.Answer)
	if diff := cmp.Diff(a.Sorted(), b.Sorted()); diff != "" {
		t.Fatalf("parallel evaluation diverged (-serial +parallel):\n%s", diff)
	}
}

func TestEvalCancellation(t *testing.T) {
	p, store := transform(t, ancestorProgram, "ancestor", "bf")
	store.Relation(p.Seed, 1).Insert(tuple("avery"))

	cancel := NewCancel()
	cancel.Cancel()

	err := New(p, store).WithCancel(cancel).Run(context.Background())
	if err == nil {
		t.Fatal("expected cancel error")
	}
	if !IsCancel(err) {
		t.Fatalf("expected cancel error but got: %v", err)
	}
}

func TestEvalContextCancellation(t *testing.T) {
	p, store := transform(t, ancestorProgram, "ancestor", "bf")
	store.Relation(p.Seed, 1).Insert(tuple("avery"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(p, store).Run(ctx)
	if err == nil {
		t.Fatal("expected cancel error")
	}
	if !IsCancel(err) {
		t.Fatalf("expected cancel error but got: %v", err)
	}
}

func TestEvalMetrics(t *testing.T) {
	p, store := transform(t, ancestorProgram, "ancestor", "fb")
	store.Relation(p.Seed, 1).Insert(tuple("dakota"))

	m := metrics.New()
	if err := New(p, store).WithMetrics(m).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := m.All()

	rounds, ok := all["counter_eval_rounds"].(uint64)
	if !ok || rounds == 0 {
		t.Fatalf("expected a positive round count, got %v", all["counter_eval_rounds"])
	}
	if tuples, ok := all["counter_eval_tuples"].(uint64); !ok || tuples == 0 {
		t.Fatalf("expected a positive tuple count, got %v", all["counter_eval_tuples"])
	}

	// One histogram sample per round, recording that round's derivation count.
	hist, ok := all["histogram_eval_round_tuples"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected a round size histogram, got %v", all["histogram_eval_round_tuples"])
	}
	if count, ok := hist["count"].(int64); !ok || count != int64(rounds) {
		t.Fatalf("expected %d histogram samples but got %v", rounds, hist["count"])
	}
}

func TestEvalUnstratifiedProgram(t *testing.T) {
	c := mustCompile(t, ancestorProgram)
	p := magic.Plain(c)
	// Stratify deliberately not called.
	err := New(p, storage.NewFromFacts(c.Program.Facts)).Run(context.Background())
	if err == nil || IsCancel(err) {
		t.Fatalf("expected internal error but got: %v", err)
	}
}

func transform(t *testing.T, input, name string, adornment ast.Adornment) (*magic.Program, *storage.Store) {
	t.Helper()
	c := mustCompile(t, input)
	adorned, err := magic.Adorn(c, name, adornment, magic.LeftToRight())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := magic.Transform(c, adorned, name, adornment)
	p.Stratify()
	return p, storage.NewFromFacts(c.Program.Facts)
}

func mustCompile(t *testing.T, input string) *ast.Compiler {
	t.Helper()
	c, err := ast.CompileProgram(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func assertRelation(t *testing.T, store *storage.Store, key ast.PredKey, expected []ast.Tuple) {
	t.Helper()
	rel, ok := store.Get(key)
	if !ok {
		t.Fatalf("expected relation %v", key)
	}
	if diff := cmp.Diff(expected, rel.Sorted()); diff != "" {
		t.Fatalf("unexpected %v (-want +got):\n%s", key, diff)
	}
}

func sortTuplesForTest(tuples []ast.Tuple) []ast.Tuple {
	sorted := make([]ast.Tuple, len(tuples))
	copy(sorted, tuples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Compare(sorted[j]) < 0
	})
	return sorted
}

func tuple(values ...string) ast.Tuple {
	t := make(ast.Tuple, len(values))
	for i, v := range values {
		t[i] = ast.String(v)
	}
	return t
}
