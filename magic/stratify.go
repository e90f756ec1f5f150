// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package magic

import (
	"sort"

	"github.com/seer-datalog/seer/ast"
)

// Stratum is a maximal set of mutually dependent predicates evaluated
// together to one fixpoint, with the rules defining them.
type Stratum struct {
	Keys  map[ast.PredKey]struct{}
	Rules []*Rule
}

// Defines returns true if key is computed in this stratum.
func (s *Stratum) Defines(key ast.PredKey) bool {
	_, ok := s.Keys[key]
	return ok
}

// Stratify partitions the rule set into strata: the strongly-connected
// components of the predicate dependency graph, in topological order, so
// that a stratum only depends on relations of earlier strata plus monotone
// recursion within itself. Predicates with no rules (stored relations) are
// inputs, not members of any stratum.
//
// Every dependency in this language is positive, so stratification cannot
// fail; a cycle simply makes its predicates share a stratum. Negation, if
// ever added, would turn negative edges into stratum boundaries and negative
// cycles into errors.
func Stratify(rules []*Rule) []Stratum {

	byHead := map[ast.PredKey][]*Rule{}
	for _, rule := range rules {
		byHead[rule.Head.Key] = append(byHead[rule.Head.Key], rule)
	}

	graph := map[ast.PredKey][]ast.PredKey{}
	for head, defs := range byHead {
		seen := map[ast.PredKey]struct{}{}
		for _, rule := range defs {
			for _, atom := range rule.Body {
				if _, defined := byHead[atom.Key]; !defined {
					continue
				}
				if _, dup := seen[atom.Key]; dup {
					continue
				}
				seen[atom.Key] = struct{}{}
				graph[head] = append(graph[head], atom.Key)
			}
		}
		if _, ok := graph[head]; !ok {
			graph[head] = nil
		}
	}

	// Tarjan finishes a component only after every component it depends on
	// has been emitted, so the components come out already in dependency
	// order.
	t := &tarjan{
		graph:   graph,
		index:   map[ast.PredKey]int{},
		lowlink: map[ast.PredKey]int{},
		onstack: map[ast.PredKey]struct{}{},
	}
	for _, head := range sortedKeys(graph) {
		if _, visited := t.index[head]; !visited {
			t.visit(head)
		}
	}

	strata := make([]Stratum, 0, len(t.components))
	for _, component := range t.components {
		s := Stratum{Keys: map[ast.PredKey]struct{}{}}
		for _, key := range component {
			s.Keys[key] = struct{}{}
		}
		for _, key := range component {
			s.Rules = append(s.Rules, byHead[key]...)
		}
		strata = append(strata, s)
	}
	return strata
}

type tarjan struct {
	graph      map[ast.PredKey][]ast.PredKey
	index      map[ast.PredKey]int
	lowlink    map[ast.PredKey]int
	stack      []ast.PredKey
	onstack    map[ast.PredKey]struct{}
	next       int
	components [][]ast.PredKey
}

func (t *tarjan) visit(u ast.PredKey) {
	t.index[u] = t.next
	t.lowlink[u] = t.next
	t.next++
	t.stack = append(t.stack, u)
	t.onstack[u] = struct{}{}

	for _, v := range t.graph[u] {
		if _, visited := t.index[v]; !visited {
			t.visit(v)
			t.lowlink[u] = min(t.lowlink[u], t.lowlink[v])
		} else if _, on := t.onstack[v]; on {
			t.lowlink[u] = min(t.lowlink[u], t.index[v])
		}
	}

	if t.lowlink[u] == t.index[u] {
		var component []ast.PredKey
		for {
			v := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			delete(t.onstack, v)
			component = append(component, v)
			if v == u {
				break
			}
		}
		t.components = append(t.components, component)
	}
}

// sortedKeys returns the graph nodes ordered by their string form so that
// stratification is deterministic across runs.
func sortedKeys(graph map[ast.PredKey][]ast.PredKey) []ast.PredKey {
	keys := make([]ast.PredKey, 0, len(graph))
	for key := range graph {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}
