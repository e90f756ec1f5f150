// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// This file contains extra functions for parsing Datalog. Most of the
// parsing is handled by the code in parser.go; this file contains fixture
// helpers that panic instead of returning errors.

package ast

import "fmt"

// MustParseStatements returns the parsed statements. If the input cannot be
// parsed, this function panics.
func MustParseStatements(input string) []Statement {
	stmts, err := ParseStatements("", input)
	if err != nil {
		panic(err)
	}
	return stmts
}

// MustParseStatement returns exactly one parsed statement. If the input
// cannot be parsed, this function panics.
func MustParseStatement(input string) Statement {
	stmt, err := ParseStatement(input)
	if err != nil {
		panic(err)
	}
	return stmt
}

// MustParseProgram returns the parsed program. If the input cannot be
// parsed, this function panics.
func MustParseProgram(input string) *Program {
	p, err := ParseProgram("", input)
	if err != nil {
		panic(err)
	}
	return p
}

// MustParseRule returns the parsed rule. If the input cannot be parsed or is
// not a rule, this function panics.
func MustParseRule(input string) *Rule {
	rule, ok := MustParseStatement(input).(*Rule)
	if !ok {
		panic(fmt.Sprintf("expected rule: %v", input))
	}
	return rule
}

// MustParseFact returns the parsed fact. If the input cannot be parsed or is
// not a fact, this function panics.
func MustParseFact(input string) *Fact {
	fact, ok := MustParseStatement(input).(*Fact)
	if !ok {
		panic(fmt.Sprintf("expected fact: %v", input))
	}
	return fact
}

// MustParseQuery returns the parsed query. If the input cannot be parsed,
// this function panics.
func MustParseQuery(input string) *Query {
	q, err := ParseQuery(input)
	if err != nil {
		panic(err)
	}
	return q
}
