// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const depsTestProgram = `
	parent(avery, blair).
	ancestor(X, Y) :- parent(X, Y).
	ancestor(X, Z) :- parent(X, Y), ancestor(Y, Z).
	orphan(X) :- person(X).
	person(avery).
`

func TestDepsReachable(t *testing.T) {
	params := depsCommandParams{format: newFormatFlag()}
	params.dataPaths.v = []string{writeTestProgram(t)}

	var buf bytes.Buffer
	if err := deps(&buf, []string{"ancestor"}, params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "parent\n"
	if buf.String() != expected {
		t.Fatalf("expected %q but got %q", expected, buf.String())
	}
}

func TestDepsChain(t *testing.T) {
	params := depsCommandParams{format: newFormatFlag()}
	params.dataPaths.v = []string{writeTestProgram(t)}

	var buf bytes.Buffer
	if err := deps(&buf, []string{"ancestor", "parent"}, params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "ancestor\nparent\n"
	if buf.String() != expected {
		t.Fatalf("expected %q but got %q", expected, buf.String())
	}
}

func TestDepsChainNotFound(t *testing.T) {
	params := depsCommandParams{format: newFormatFlag()}
	params.dataPaths.v = []string{writeTestProgram(t)}

	var buf bytes.Buffer
	if err := deps(&buf, []string{"ancestor", "person"}, params); err == nil {
		t.Fatal("expected an error for predicates with no dependency chain")
	}
}

func writeTestProgram(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "family.dl")
	if err := os.WriteFile(path, []byte(depsTestProgram), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}
