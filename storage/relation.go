// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package storage

import (
	"sort"
	"strings"
	"sync"

	"github.com/seer-datalog/seer/ast"
)

// Relation is a set of tuples of fixed arity with lazily built lookup
// indexes. Tuples are only ever added, never removed, during one evaluation
// run; indexes are maintained incrementally on insert. Lookups may run
// concurrently; the mutex serializes index construction against them.
type Relation struct {
	mu      sync.Mutex
	arity   int
	tuples  []ast.Tuple
	buckets map[int][]int
	indices map[uint64]*index
}

// index maps the hash of the values at the positions selected by mask to the
// tuples carrying those values.
//
//	+------+-----------------------------+
//	| val1 | tuple-1, tuple-7, ...       |
//	+------+-----------------------------+
//	| val2 | tuple-2, ...                |
//	+------+-----------------------------+
//
// Entries are tuple offsets so that delta windows (suffixes of the tuple
// slice) remain cheap to intersect with lookups.
type index struct {
	mask  uint64
	table map[int][]int
}

// NewRelation returns an empty relation with the given arity.
func NewRelation(arity int) *Relation {
	return &Relation{
		arity:   arity,
		buckets: map[int][]int{},
		indices: map[uint64]*index{},
	}
}

// Arity returns the arity of the relation.
func (r *Relation) Arity() int {
	return r.arity
}

// Len returns the number of tuples in the relation.
func (r *Relation) Len() int {
	return len(r.tuples)
}

// Contains returns true if the tuple is present in the relation.
func (r *Relation) Contains(t ast.Tuple) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(t) >= 0
}

// Insert adds the tuple to the relation and returns true if the tuple was
// not already present. Inserting an existing tuple is a no-op and must not
// be counted as new by delta bookkeeping.
func (r *Relation) Insert(t ast.Tuple) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.find(t) >= 0 {
		return false
	}
	i := len(r.tuples)
	r.tuples = append(r.tuples, t)
	hash := t.Hash()
	r.buckets[hash] = append(r.buckets[hash], i)
	for _, ind := range r.indices {
		ind.add(t, i)
	}
	return true
}

// Tuples returns the tuples of the relation in insertion order. The returned
// slice is a read-only view backed by the relation.
func (r *Relation) Tuples() []ast.Tuple {
	return r.tuples
}

// Window returns the tuples inserted at or after offset lo, i.e., the delta
// of a round whose first insertion happened at offset lo.
func (r *Relation) Window(lo int) []ast.Tuple {
	return r.tuples[lo:]
}

// Lookup returns the tuples whose values at the bound positions equal the
// partial tuple. An empty partial returns all tuples. The lookup is served
// from an index keyed by the set of bound positions, built on first use.
func (r *Relation) Lookup(partial map[int]ast.Value) []ast.Tuple {
	if len(partial) == 0 {
		return r.tuples
	}
	r.mu.Lock()
	ind := r.indexFor(maskOf(partial))
	r.mu.Unlock()
	var result []ast.Tuple
	for _, i := range ind.table[hashPartial(partial)] {
		if matches(r.tuples[i], partial) {
			result = append(result, r.tuples[i])
		}
	}
	return result
}

// Sorted returns the tuples in lexicographic order. The relation itself is
// unordered; this is for presentation and test comparison.
func (r *Relation) Sorted() []ast.Tuple {
	sorted := make([]ast.Tuple, len(r.tuples))
	copy(sorted, r.tuples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Compare(sorted[j]) < 0
	})
	return sorted
}

func (r *Relation) String() string {
	buf := make([]string, 0, len(r.tuples))
	for _, t := range r.Sorted() {
		buf = append(buf, t.String())
	}
	return "{" + strings.Join(buf, ", ") + "}"
}

func (r *Relation) find(t ast.Tuple) int {
	for _, i := range r.buckets[t.Hash()] {
		if r.tuples[i].Equal(t) {
			return i
		}
	}
	return -1
}

func (r *Relation) indexFor(mask uint64) *index {
	ind, ok := r.indices[mask]
	if !ok {
		ind = &index{mask: mask, table: map[int][]int{}}
		for i, t := range r.tuples {
			ind.add(t, i)
		}
		r.indices[mask] = ind
	}
	return ind
}

func (ind *index) add(t ast.Tuple, i int) {
	var h int
	for pos := range t {
		if ind.mask&(1<<uint(pos)) != 0 {
			h += t[pos].Hash()
		}
	}
	ind.table[h] = append(ind.table[h], i)
}

func maskOf(partial map[int]ast.Value) uint64 {
	var mask uint64
	for pos := range partial {
		mask |= 1 << uint(pos)
	}
	return mask
}

func hashPartial(partial map[int]ast.Value) int {
	var h int
	for _, v := range partial {
		h += v.Hash()
	}
	return h
}

func matches(t ast.Tuple, partial map[int]ast.Value) bool {
	for pos, v := range partial {
		if !t[pos].Equal(v) {
			return false
		}
	}
	return true
}
