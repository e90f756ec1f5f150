// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import (
	"fmt"
	"strings"
)

// Statement represents a single parsed statement: a *Fact, a *Rule, or a
// *Query.
type Statement interface{}

type (
	// Program represents a collection of rules and extensional facts. A
	// Program is immutable once it has been compiled; evaluation only grows
	// relations, never the program itself.
	Program struct {
		Facts []*Fact
		Rules []*Rule
	}

	// Fact represents a predicate applied to a tuple of constants. Facts
	// belonging to one predicate form a relation.
	Fact struct {
		Location *Location `json:"-"`
		Name     string
		Values   Tuple
	}

	// Rule represents a head literal and an ordered sequence of body
	// literals. The head is derivable whenever all body literals are
	// satisfiable.
	Rule struct {
		Location *Location `json:"-"`
		Head     *Literal
		Body     Body
	}

	// Body represents one or more literals contained inside a rule.
	Body []*Literal

	// Literal represents a predicate applied to a sequence of terms, each
	// term a variable or a constant.
	Literal struct {
		Location *Location `json:"-"`
		Name     string
		Args     []*Term
	}

	// Query represents a question posed against a program: a predicate
	// applied to terms where constants mark bound positions and variables
	// (or wildcards) mark free positions.
	Query struct {
		Location *Location `json:"-"`
		Name     string
		Args     []*Term
	}
)

// Arity returns the number of arguments of the literal.
func (lit *Literal) Arity() int {
	return len(lit.Args)
}

// Equal returns true if this literal has the same predicate name and ordered,
// equal arguments as the other literal.
func (lit *Literal) Equal(other *Literal) bool {
	if lit.Name != other.Name || len(lit.Args) != len(other.Args) {
		return false
	}
	for i := range lit.Args {
		if !lit.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	return true
}

// IsGround returns true if no argument of the literal is a variable.
func (lit *Literal) IsGround() bool {
	for _, arg := range lit.Args {
		if !arg.IsGround() {
			return false
		}
	}
	return true
}

// Vars returns a VarSet with the variables contained in the literal.
func (lit *Literal) Vars() VarSet {
	vs := VarSet{}
	for _, arg := range lit.Args {
		if v, ok := arg.Value.(Var); ok {
			vs.Add(v)
		}
	}
	return vs
}

func (lit *Literal) String() string {
	buf := make([]string, len(lit.Args))
	for i, arg := range lit.Args {
		buf[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", lit.Name, strings.Join(buf, ", "))
}

// Equal returns true if this body consists of equal, ordered literals.
func (body Body) Equal(other Body) bool {
	if len(body) != len(other) {
		return false
	}
	for i := range body {
		if !body[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Contains returns true if this body contains the given literal.
func (body Body) Contains(lit *Literal) bool {
	for _, cur := range body {
		if cur == lit {
			return true
		}
	}
	return false
}

// Vars returns a VarSet with the variables contained in the body.
func (body Body) Vars() VarSet {
	vs := VarSet{}
	for _, lit := range body {
		vs.Update(lit.Vars())
	}
	return vs
}

func (body Body) String() string {
	buf := make([]string, len(body))
	for i, lit := range body {
		buf[i] = lit.String()
	}
	return strings.Join(buf, ", ")
}

// Equal returns true if this rule has an equal head and an equal, ordered
// body as the other rule.
func (rule *Rule) Equal(other *Rule) bool {
	return rule.Head.Equal(other.Head) && rule.Body.Equal(other.Body)
}

// HeadVars returns a VarSet with the variables in the rule head.
func (rule *Rule) HeadVars() VarSet {
	return rule.Head.Vars()
}

// Vars returns a VarSet with all variables in the rule.
func (rule *Rule) Vars() VarSet {
	vs := rule.Head.Vars()
	vs.Update(rule.Body.Vars())
	return vs
}

func (rule *Rule) String() string {
	return fmt.Sprintf("%v :- %v.", rule.Head, rule.Body)
}

// Arity returns the number of values in the fact.
func (f *Fact) Arity() int {
	return len(f.Values)
}

// Equal returns true if this fact asserts the same tuple for the same
// predicate as the other fact.
func (f *Fact) Equal(other *Fact) bool {
	return f.Name == other.Name && f.Values.Equal(other.Values)
}

func (f *Fact) String() string {
	buf := make([]string, len(f.Values))
	for i, v := range f.Values {
		buf[i] = v.String()
	}
	return fmt.Sprintf("%s(%s).", f.Name, strings.Join(buf, ", "))
}

// Arity returns the number of arguments of the query.
func (q *Query) Arity() int {
	return len(q.Args)
}

// Bindings returns the bound positions of the query mapped to their constant
// values. Positions occupied by variables are free and omitted.
func (q *Query) Bindings() map[int]Value {
	bindings := map[int]Value{}
	for i, arg := range q.Args {
		if arg.IsGround() {
			bindings[i] = arg.Value
		}
	}
	return bindings
}

func (q *Query) String() string {
	buf := make([]string, len(q.Args))
	for i, arg := range q.Args {
		buf[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)?", q.Name, strings.Join(buf, ", "))
}

// NewProgram returns a Program containing the facts and rules found in the
// given statements. Queries are ignored.
func NewProgram(stmts ...Statement) *Program {
	p := &Program{}
	for _, stmt := range stmts {
		switch stmt := stmt.(type) {
		case *Fact:
			p.Facts = append(p.Facts, stmt)
		case *Rule:
			p.Rules = append(p.Rules, stmt)
		}
	}
	return p
}

// RulesFor returns the rules whose head predicate is name.
func (p *Program) RulesFor(name string) []*Rule {
	var rules []*Rule
	for _, rule := range p.Rules {
		if rule.Head.Name == name {
			rules = append(rules, rule)
		}
	}
	return rules
}

func (p *Program) String() string {
	buf := make([]string, 0, len(p.Facts)+len(p.Rules))
	for _, f := range p.Facts {
		buf = append(buf, f.String())
	}
	for _, r := range p.Rules {
		buf = append(buf, r.String())
	}
	return strings.Join(buf, "\n")
}
