// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package util

import "testing"

func TestEnumFlag(t *testing.T) {
	f := NewEnumFlag("pretty", []string{"pretty", "json"})

	if f.String() != "pretty" {
		t.Fatalf("expected default pretty but got %v", f.String())
	}
	if f.IsSet() {
		t.Fatal("expected flag to be unset")
	}
	if f.Type() != "{pretty,json}" {
		t.Fatalf("unexpected type: %v", f.Type())
	}

	if err := f.Set("json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.IsSet() || f.String() != "json" {
		t.Fatalf("expected json but got %v", f.String())
	}

	if err := f.Set("yaml"); err == nil {
		t.Fatal("expected error for invalid value")
	}
}
