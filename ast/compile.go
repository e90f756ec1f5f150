// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import (
	"sort"
)

// Compiler contains the state of a compilation process. Structural checks
// (arity consistency, safety) run once per program load; their results are
// kept on the compiler and are not re-checked per query.
type Compiler struct {

	// Errors contains errors that occurred during the compilation process.
	// If there are one or more errors, the compilation process is considered
	// "failed".
	Errors Errors

	// Program contains the compiled program. If the compilation process
	// failed, there is no guarantee about the state of the program.
	Program *Program

	// Predicates contains one entry per predicate name appearing anywhere in
	// the program, recording its arity and whether it is extensional
	// (defined only by stored facts) or intensional (defined by rules).
	Predicates map[string]*PredicateInfo

	// RuleGraph represents predicate dependencies. An edge (p, q) is present
	// if some rule defining p mentions q in its body.
	RuleGraph map[string]map[string]struct{}

	stages []stage
}

type stage struct {
	f    func()
	name string
}

// PredicateInfo describes one predicate of a compiled program.
type PredicateInfo struct {
	Name        string
	Arity       int
	Extensional bool
	Location    *Location
}

// NewCompiler returns a new empty compiler.
func NewCompiler() *Compiler {

	c := &Compiler{
		Predicates: map[string]*PredicateInfo{},
		RuleGraph:  map[string]map[string]struct{}{},
	}

	c.stages = []stage{
		{c.setPredicates, "setPredicates"},
		{c.checkSafety, "checkSafety"},
		{c.setRuleGraph, "setRuleGraph"},
	}

	return c
}

// Compile runs the compilation process on the input program. The program is
// treated as immutable from this point on.
func (c *Compiler) Compile(program *Program) {
	c.Program = program
	for _, s := range c.stages {
		if s.f(); c.Failed() {
			return
		}
	}
}

// CompileProgram is a helper function to compile a program represented as a
// string.
func CompileProgram(input string) (*Compiler, error) {
	program, err := ParseProgram("", input)
	if err != nil {
		return nil, err
	}
	c := NewCompiler()
	if c.Compile(program); c.Failed() {
		return nil, c.Errors
	}
	return c, nil
}

// Failed returns true if a compilation error has been encountered.
func (c *Compiler) Failed() bool {
	return len(c.Errors) > 0
}

// GetRules returns the rules whose head predicate is name.
func (c *Compiler) GetRules(name string) []*Rule {
	return c.Program.RulesFor(name)
}

// IsExtensional returns true if name is defined only by stored facts.
// Unknown predicates are treated as extensional with an empty relation.
func (c *Compiler) IsExtensional(name string) bool {
	info, ok := c.Predicates[name]
	if !ok {
		return true
	}
	return info.Extensional
}

// Arity returns the arity of the named predicate and whether the predicate is
// known to the program.
func (c *Compiler) Arity(name string) (int, bool) {
	info, ok := c.Predicates[name]
	if !ok {
		return 0, false
	}
	return info.Arity, true
}

// SortedPredicates returns the predicate infos ordered by name.
func (c *Compiler) SortedPredicates() []*PredicateInfo {
	sorted := make([]*PredicateInfo, 0, len(c.Predicates))
	for _, info := range c.Predicates {
		sorted = append(sorted, info)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// CheckQuery validates a query against the compiled program. A query naming
// an unknown predicate is legal and simply yields an empty answer; a query
// using a known predicate with the wrong arity is an error.
func (c *Compiler) CheckQuery(q *Query) error {
	if info, ok := c.Predicates[q.Name]; ok && info.Arity != q.Arity() {
		return NewError(ArityErr, q.Location, "%v: predicate %v used with arity %d (declared with arity %d)", q.Name, q.Name, q.Arity(), info.Arity)
	}
	return nil
}

// setPredicates builds the predicate table, checking that every use of a
// predicate has a consistent arity and classifying predicates as extensional
// or intensional. A predicate defined by rules must not also appear as a
// stored fact.
func (c *Compiler) setPredicates() {

	record := func(name string, arity int, loc *Location) *PredicateInfo {
		info, ok := c.Predicates[name]
		if !ok {
			info = &PredicateInfo{Name: name, Arity: arity, Extensional: true, Location: loc}
			c.Predicates[name] = info
			return info
		}
		if info.Arity != arity {
			c.err(NewError(ArityErr, loc, "%v: predicate %v used with arity %d (first used with arity %d)", name, name, arity, info.Arity))
		}
		return info
	}

	for _, fact := range c.Program.Facts {
		record(fact.Name, fact.Arity(), fact.Location)
	}

	for _, rule := range c.Program.Rules {
		info := record(rule.Head.Name, rule.Head.Arity(), rule.Location)
		info.Extensional = false
		for _, lit := range rule.Body {
			record(lit.Name, lit.Arity(), lit.Location)
		}
	}

	for _, fact := range c.Program.Facts {
		if !c.Predicates[fact.Name].Extensional {
			c.err(NewError(CompileErr, fact.Location, "%v: predicate %v is defined by rules and must not be asserted as a fact", fact.Name, fact.Name))
		}
	}
}

// checkSafety ensures that every variable in a rule head appears in at least
// one body literal. Body literals are always positive in this language, so
// every body variable has itself as a binding source.
func (c *Compiler) checkSafety() {
	for _, rule := range c.Program.Rules {
		unsafe := rule.HeadVars().Diff(rule.Body.Vars())
		for _, v := range unsafe.Sorted() {
			c.err(NewError(UnsafeVarErr, rule.Location, "%v: %v is unsafe (variable %v must appear in at least one literal within the body of %v)", rule.Head.Name, v, v, rule.Head.Name))
		}
	}
}

// setRuleGraph populates the RuleGraph on the compiler.
func (c *Compiler) setRuleGraph() {
	for _, rule := range c.Program.Rules {
		edges, ok := c.RuleGraph[rule.Head.Name]
		if !ok {
			edges = map[string]struct{}{}
			c.RuleGraph[rule.Head.Name] = edges
		}
		for _, lit := range rule.Body {
			edges[lit.Name] = struct{}{}
		}
	}
}

func (c *Compiler) err(err *Error) {
	c.Errors = append(c.Errors, err)
}
