// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package magic

import (
	"fmt"
	"strings"

	"github.com/seer-datalog/seer/ast"
)

// Atom is a predicate key applied to terms inside a transformed rule.
type Atom struct {
	Key  ast.PredKey
	Args []*ast.Term
}

// Vars returns a VarSet with the variables contained in the atom.
func (a Atom) Vars() ast.VarSet {
	vs := ast.VarSet{}
	for _, arg := range a.Args {
		if v, ok := arg.Value.(ast.Var); ok {
			vs.Add(v)
		}
	}
	return vs
}

func (a Atom) String() string {
	buf := make([]string, len(a.Args))
	for i, arg := range a.Args {
		buf[i] = arg.String()
	}
	return fmt.Sprintf("%v(%s)", a.Key, strings.Join(buf, ", "))
}

// Rule is one rule of a transformed program.
type Rule struct {
	Head Atom
	Body []Atom

	// Source points at the original rule the transformed rule was derived
	// from, for diagnostics. Synthesized seed rules have no source.
	Source *ast.Rule
}

func (r *Rule) String() string {
	buf := make([]string, len(r.Body))
	for i, atom := range r.Body {
		buf[i] = atom.String()
	}
	return fmt.Sprintf("%v :- %s.", r.Head, strings.Join(buf, ", "))
}

// Program is a transformed rule set ready for bottom-up evaluation, together
// with the keys the query executor needs: Seed, the enter relation that must
// be populated with the query's bound values, and Answer, the exit relation
// holding the query's result. A Program depends only on the rule set and the
// query's adornment, never on the query's constant values, so it may be
// cached and shared read-only across queries.
type Program struct {
	Rules   []*Rule
	Arities map[ast.PredKey]int
	Strata  []Stratum

	Seed   ast.PredKey
	Answer ast.PredKey
}

// Stratify computes the evaluation order of the program's rules. It must be
// called once after Transform or Plain, before the program is evaluated.
func (p *Program) Stratify() {
	p.Strata = Stratify(p.Rules)
}

// Transform rewrites the adorned rule set into enter_/exit_ rules. For each
// adorned rule p^a(args) :- l1^b1, ..., ln^bn it emits:
//
//	enter_li^bi(boundVars(li)) :- enter_p^a(boundVars(p)), X1, ..., X(i-1).
//	exit_p^a(args)             :- enter_p^a(boundVars(p)), X1, ..., Xn.
//
// where Xj is exit_lj^bj(args(lj)) for intensional lj and the stored
// relation lj(args(lj)) for extensional lj, which needs no enter rule: its
// tuples come straight from the fact base filtered by the bound arguments.
//
// The exit rule doubles as the magic-guarded copy of the original rule: it
// has full arity, is guarded by the enter atom, and is the only way a tuple
// of p can be derived, so nothing the query never demanded is materialized.
func Transform(c *ast.Compiler, adorned []*AdornedRule, name string, adornment ast.Adornment) *Program {

	p := &Program{
		Arities: map[ast.PredKey]int{},
		Seed:    ast.EnterKey(name, adornment),
		Answer:  ast.ExitKey(name, adornment),
	}
	p.Arities[p.Seed] = adornment.BoundCount()
	if arity, ok := c.Arity(name); ok {
		p.Arities[p.Answer] = arity
	}

	for _, ar := range adorned {
		head := ar.Source.Head
		enterAtom := Atom{
			Key:  ast.EnterKey(head.Name, ar.Head),
			Args: boundArgs(head, ar.Head),
		}
		p.Arities[enterAtom.Key] = len(enterAtom.Args)

		prefix := []Atom{enterAtom}
		for _, lit := range ar.Body {
			if !lit.Extensional {
				enter := &Rule{
					Head: Atom{
						Key:  ast.EnterKey(lit.Literal.Name, lit.Adornment),
						Args: boundArgs(lit.Literal, lit.Adornment),
					},
					Body:   append([]Atom(nil), prefix...),
					Source: ar.Source,
				}
				p.Arities[enter.Head.Key] = len(enter.Head.Args)
				p.Rules = append(p.Rules, enter)
			}
			atom := bodyAtom(lit)
			p.Arities[atom.Key] = len(atom.Args)
			prefix = append(prefix, atom)
		}

		exit := &Rule{
			Head:   Atom{Key: ast.ExitKey(head.Name, ar.Head), Args: head.Args},
			Body:   prefix,
			Source: ar.Source,
		}
		p.Arities[exit.Head.Key] = len(exit.Head.Args)
		p.Rules = append(p.Rules, exit)
	}

	return p
}

// Plain builds the untransformed program: every rule is carried over with
// plain predicate keys and no guards. Evaluating it bottom-up computes the
// full, unconstrained closure. It backs unconstrained queries and the
// equivalence checks between naive and magic evaluation.
func Plain(c *ast.Compiler) *Program {
	p := &Program{Arities: map[ast.PredKey]int{}}
	for _, rule := range c.Program.Rules {
		tr := &Rule{
			Head:   Atom{Key: ast.PlainKey(rule.Head.Name), Args: rule.Head.Args},
			Source: rule,
		}
		p.Arities[tr.Head.Key] = rule.Head.Arity()
		for _, lit := range rule.Body {
			tr.Body = append(tr.Body, Atom{Key: ast.PlainKey(lit.Name), Args: lit.Args})
			p.Arities[ast.PlainKey(lit.Name)] = lit.Arity()
		}
		p.Rules = append(p.Rules, tr)
	}
	return p
}

// bodyAtom returns the atom a body literal contributes to rule bodies: the
// exit relation for intensional literals, the stored relation for
// extensional ones.
func bodyAtom(lit AdornedLiteral) Atom {
	if lit.Extensional {
		return Atom{Key: ast.PlainKey(lit.Literal.Name), Args: lit.Literal.Args}
	}
	return Atom{Key: ast.ExitKey(lit.Literal.Name, lit.Adornment), Args: lit.Literal.Args}
}

// boundArgs returns the arguments at the bound positions of the adornment,
// in position order.
func boundArgs(lit *ast.Literal, adornment ast.Adornment) []*ast.Term {
	var args []*ast.Term
	for i, arg := range lit.Args {
		if adornment.IsBound(i) {
			args = append(args, arg)
		}
	}
	return args
}
