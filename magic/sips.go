// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package magic

import (
	"github.com/seer-datalog/seer/ast"
)

// Strategy chooses the order in which the literals of a rule body are
// evaluated, i.e., the sideways information passing strategy. Implementations
// must return a permutation of the input body and must not schedule a literal
// before all of its variables are determinable. Body literals are always
// positive in this language, so every literal binds its own variables and
// any permutation is safe; a strategy still decides how bindings flow.
type Strategy interface {
	Order(body ast.Body, bound ast.VarSet) (ast.Body, error)
}

// LeftToRight returns the default strategy: literals are evaluated in the
// order they were written.
func LeftToRight() Strategy {
	return leftToRight{}
}

type leftToRight struct{}

func (leftToRight) Order(body ast.Body, _ ast.VarSet) (ast.Body, error) {
	return body, nil
}

// MostBound returns a greedy cost-based strategy: at each step it picks the
// literal with the most argument positions already bound, so that lookups
// are as selective as possible. Ties go to the literal written first.
func MostBound() Strategy {
	return mostBound{}
}

type mostBound struct{}

func (mostBound) Order(body ast.Body, bound ast.VarSet) (ast.Body, error) {
	known := bound.Copy()
	reordered := make(ast.Body, 0, len(body))
	scheduled := make([]bool, len(body))

	for len(reordered) < len(body) {
		best := -1
		bestScore := -1
		for i, lit := range body {
			if scheduled[i] {
				continue
			}
			score := ast.NewAdornment(lit, known).BoundCount()
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		scheduled[best] = true
		reordered = append(reordered, body[best])
		known.Update(body[best].Vars())
	}

	return reordered, nil
}
