// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package magic implements the Magic Sets transformation: a source-to-source
// rewrite of a rule set, driven by a query's binding pattern, that lets a
// bottom-up evaluator derive only the tuples the query actually demands.
package magic

import (
	"fmt"

	"github.com/seer-datalog/seer/ast"
)

// AdornedLiteral is one body literal annotated with the adornment under
// which it is evaluated.
type AdornedLiteral struct {
	Literal     *ast.Literal
	Adornment   ast.Adornment
	Extensional bool
}

func (lit AdornedLiteral) String() string {
	return fmt.Sprintf("%v^%v", lit.Literal, lit.Adornment)
}

// AdornedRule is a source rule specialized for one head adornment. The body
// is in SIPS order and each literal carries the adornment that holds when
// control reaches it.
type AdornedRule struct {
	Source *ast.Rule
	Head   ast.Adornment
	Body   []AdornedLiteral
}

func (rule *AdornedRule) String() string {
	s := fmt.Sprintf("%v^%v :-", rule.Source.Head, rule.Head)
	for i, lit := range rule.Body {
		if i > 0 {
			s += ","
		}
		s += " " + lit.String()
	}
	return s + "."
}

// Adorn computes the closure of adorned rules reachable from the query
// predicate under the given adornment. It maintains a worklist of adorned
// predicates: for each one popped, every rule defining the predicate is
// specialized by propagating bound variables through the body in the order
// chosen by the strategy. Extensional predicates are adorned in place but
// never expanded (they have no rules; they resolve against stored facts).
func Adorn(c *ast.Compiler, name string, adornment ast.Adornment, strategy Strategy) ([]*AdornedRule, error) {

	type item struct {
		name      string
		adornment ast.Adornment
	}

	var adorned []*AdornedRule
	seen := map[item]struct{}{{name, adornment}: {}}
	worklist := []item{{name, adornment}}

	for len(worklist) > 0 {
		next := worklist[0]
		worklist = worklist[1:]

		for _, rule := range c.GetRules(next.name) {

			bound := boundHeadVars(rule.Head, next.adornment)
			body, err := strategy.Order(rule.Body, bound)
			if err != nil {
				return nil, err
			}
			if err := checkOrder(rule, body); err != nil {
				return nil, err
			}

			ar := &AdornedRule{Source: rule, Head: next.adornment}
			for _, lit := range body {
				a := ast.NewAdornment(lit, bound)
				extensional := c.IsExtensional(lit.Name)
				ar.Body = append(ar.Body, AdornedLiteral{Literal: lit, Adornment: a, Extensional: extensional})
				if !extensional {
					it := item{lit.Name, a}
					if _, ok := seen[it]; !ok {
						seen[it] = struct{}{}
						worklist = append(worklist, it)
					}
				}
				bound.Update(lit.Vars())
			}
			adorned = append(adorned, ar)
		}
	}

	return adorned, nil
}

// boundHeadVars returns the head variables marked bound by the adornment.
// Constant head arguments contribute no variables.
func boundHeadVars(head *ast.Literal, adornment ast.Adornment) ast.VarSet {
	bound := ast.VarSet{}
	for i, arg := range head.Args {
		if v, ok := arg.Value.(ast.Var); ok && adornment.IsBound(i) {
			bound.Add(v)
		}
	}
	return bound
}

// checkOrder verifies that the strategy returned a permutation of the rule
// body.
func checkOrder(rule *ast.Rule, body ast.Body) error {
	if len(body) != len(rule.Body) {
		return ast.NewError(ast.CompileErr, rule.Location, "%v: strategy returned %d literals for a body of %d", rule.Head.Name, len(body), len(rule.Body))
	}
	for _, lit := range body {
		if !rule.Body.Contains(lit) {
			return ast.NewError(ast.CompileErr, rule.Location, "%v: strategy returned a literal not present in the body: %v", rule.Head.Name, lit)
		}
	}
	return nil
}
