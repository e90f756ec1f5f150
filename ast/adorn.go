// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import "strings"

// Adornment is a binding pattern over the argument positions of one predicate
// occurrence: 'b' marks a position whose value is known when control reaches
// the occurrence, 'f' marks a position that is still free.
type Adornment string

const (
	// Bound marks an argument position carrying a known constant.
	Bound = 'b'

	// Free marks an argument position that is not yet determined.
	Free = 'f'
)

// NewAdornment computes the adornment of a literal given the set of variables
// already known to be bound. Constant arguments are always bound.
func NewAdornment(lit *Literal, bound VarSet) Adornment {
	var sb strings.Builder
	sb.Grow(len(lit.Args))
	for _, arg := range lit.Args {
		switch v := arg.Value.(type) {
		case Var:
			if bound.Contains(v) {
				sb.WriteByte(Bound)
			} else {
				sb.WriteByte(Free)
			}
		default:
			sb.WriteByte(Bound)
		}
	}
	return Adornment(sb.String())
}

// QueryAdornment computes the adornment induced by a query: constant argument
// positions are bound, variable positions are free.
func QueryAdornment(q *Query) Adornment {
	var sb strings.Builder
	sb.Grow(len(q.Args))
	for _, arg := range q.Args {
		if arg.IsGround() {
			sb.WriteByte(Bound)
		} else {
			sb.WriteByte(Free)
		}
	}
	return Adornment(sb.String())
}

// AllFree returns the adornment with every position free.
func AllFree(arity int) Adornment {
	return Adornment(strings.Repeat(string(rune(Free)), arity))
}

// IsBound returns true if position i is bound.
func (a Adornment) IsBound(i int) bool {
	return a[i] == Bound
}

// BoundCount returns the number of bound positions.
func (a Adornment) BoundCount() int {
	return strings.Count(string(a), string(rune(Bound)))
}

// Kind distinguishes the roles a predicate can play in a transformed
// program.
type Kind int

const (
	// Plain identifies an extensional predicate resolved directly against
	// stored facts.
	Plain Kind = iota

	// Enter identifies the control predicate recording that evaluation has
	// demanded an adorned predicate with specific bound arguments.
	Enter

	// Exit identifies the answer predicate recording full tuples an adorned
	// predicate succeeded with.
	Exit
)

func (k Kind) String() string {
	switch k {
	case Enter:
		return "enter"
	case Exit:
		return "exit"
	}
	return "plain"
}

// PredKey identifies one relation of a transformed program: a predicate name
// tagged with the adornment it was specialized for and the role it plays.
// Two occurrences of the same source predicate with different adornments are
// different keys and get independent relations. PredKey is comparable and is
// used to index the relation registry.
type PredKey struct {
	Name      string
	Adornment Adornment
	Kind      Kind
}

// PlainKey returns the key of the stored relation for an extensional
// predicate. Extensional relations are shared by all adornments, so the
// adornment is left empty.
func PlainKey(name string) PredKey {
	return PredKey{Name: name, Kind: Plain}
}

// EnterKey returns the key of the enter relation for p adorned with a. Its
// relation holds one value per bound position of a.
func EnterKey(name string, a Adornment) PredKey {
	return PredKey{Name: name, Adornment: a, Kind: Enter}
}

// ExitKey returns the key of the exit relation for p adorned with a. Its
// relation holds full-arity tuples.
func ExitKey(name string, a Adornment) PredKey {
	return PredKey{Name: name, Adornment: a, Kind: Exit}
}

func (k PredKey) String() string {
	switch k.Kind {
	case Plain:
		return k.Name
	default:
		return k.Kind.String() + "_" + k.Name + "^" + string(k.Adornment)
	}
}
