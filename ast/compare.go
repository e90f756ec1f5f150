// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import "strings"

// Compare returns an integer indicating whether two values are less than,
// equal to, or greater than each other.
//
// Values are compared by type first: Var < Number < String. Values of the
// same type are compared by their natural order.
func Compare(a, b Value) int {
	o1, o2 := sortOrder(a), sortOrder(b)
	if o1 != o2 {
		if o1 < o2 {
			return -1
		}
		return 1
	}
	switch a := a.(type) {
	case Var:
		return strings.Compare(string(a), string(b.(Var)))
	case Number:
		bn := b.(Number)
		if a < bn {
			return -1
		} else if a > bn {
			return 1
		}
		return 0
	case String:
		return strings.Compare(string(a), string(b.(String)))
	}
	return 0
}

// Compare returns an integer indicating whether two tuples are less than,
// equal to, or greater than each other in lexicographic order.
func (t Tuple) Compare(other Tuple) int {
	n := min(len(t), len(other))
	for i := 0; i < n; i++ {
		if cmp := Compare(t[i], other[i]); cmp != 0 {
			return cmp
		}
	}
	return len(t) - len(other)
}

func sortOrder(v Value) int {
	switch v.(type) {
	case Var:
		return 0
	case Number:
		return 1
	case String:
		return 2
	}
	return 3
}
