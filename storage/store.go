// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package storage implements the relation store: per-predicate indexed tuple
// sets with set semantics. One Store is owned by one evaluation run; it is
// never shared across queries.
package storage

import (
	"sort"

	"github.com/seer-datalog/seer/ast"
)

// Store maps predicate keys to relations. Adorned predicates are discovered
// incrementally during transformation, so the registry is mapping-based
// rather than fixed at construction.
type Store struct {
	relations map[ast.PredKey]*Relation
}

// New returns an empty store.
func New() *Store {
	return &Store{relations: map[ast.PredKey]*Relation{}}
}

// NewFromFacts returns a store pre-populated with the extensional facts of
// the program, keyed by plain predicate keys.
func NewFromFacts(facts []*ast.Fact) *Store {
	s := New()
	for _, fact := range facts {
		s.Relation(ast.PlainKey(fact.Name), fact.Arity()).Insert(fact.Values)
	}
	return s
}

// Relation returns the relation for key, creating an empty relation of the
// given arity if none exists yet.
func (s *Store) Relation(key ast.PredKey, arity int) *Relation {
	r, ok := s.relations[key]
	if !ok {
		r = NewRelation(arity)
		s.relations[key] = r
	}
	return r
}

// Fork returns a new store that shares this store's relations by reference.
// The transformed programs produced for queries only ever insert into their
// own enter_/exit_ relations, never into the stored fact relations, so a
// fact store can be forked once per query instead of copied.
func (s *Store) Fork() *Store {
	f := New()
	for key, r := range s.relations {
		f.relations[key] = r
	}
	return f
}

// Get returns the relation for key if present.
func (s *Store) Get(key ast.PredKey) (*Relation, bool) {
	r, ok := s.relations[key]
	return r, ok
}

// Keys returns all registered predicate keys ordered by their string form.
func (s *Store) Keys() []ast.PredKey {
	keys := make([]ast.PredKey, 0, len(s.relations))
	for key := range s.relations {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// Size returns the total number of tuples across all relations.
func (s *Store) Size() int {
	var n int
	for _, r := range s.relations {
		n += r.Len()
	}
	return n
}
