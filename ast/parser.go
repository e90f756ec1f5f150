// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Parser reads a stream of Datalog statements: facts terminated by ".",
// rules written "head :- body." and queries terminated by "?".
type Parser struct {
	s *scanner
	// wildcards are mangled to unique variables so that two anonymous
	// placeholders in one statement never unify.
	wildcards int
	errs      Errors
}

// NewParser returns a Parser for the given input. The file name may be empty
// and is only used in error locations.
func NewParser(file, input string) *Parser {
	return &Parser{s: newScanner(file, input)}
}

// ParseStatements parses input and returns all statements found. If any part
// of the input is malformed, the (possibly partial) statements parsed so far
// are returned together with an Errors value.
func ParseStatements(file, input string) ([]Statement, error) {
	p := NewParser(file, input)
	var stmts []Statement
	for {
		stmt, err := p.next()
		if err != nil {
			if pe, ok := err.(*Error); ok {
				p.errs = append(p.errs, pe)
				p.recover()
				continue
			}
			return stmts, err
		}
		if stmt == nil {
			break
		}
		stmts = append(stmts, stmt)
	}
	if len(p.errs) > 0 {
		return stmts, p.errs
	}
	return stmts, nil
}

// ParseStatement parses exactly one statement.
func ParseStatement(input string) (Statement, error) {
	stmts, err := ParseStatements("", input)
	if err != nil {
		return nil, err
	}
	if len(stmts) != 1 {
		return nil, fmt.Errorf("expected exactly one statement")
	}
	return stmts[0], nil
}

// ParseProgram parses input into a Program. Queries are not allowed in
// program text.
func ParseProgram(file, input string) (*Program, error) {
	stmts, err := ParseStatements(file, input)
	if err != nil {
		return nil, err
	}
	for _, stmt := range stmts {
		if q, ok := stmt.(*Query); ok {
			return nil, Errors{NewError(ParseErr, q.Location, "queries are not allowed in program text: %v", q)}
		}
	}
	return NewProgram(stmts...), nil
}

// ParseQuery parses input as a query. The trailing "?" is optional.
func ParseQuery(input string) (*Query, error) {
	stmt, err := ParseStatement(ensureQueryMark(input))
	if err != nil {
		return nil, err
	}
	q, ok := stmt.(*Query)
	if !ok {
		return nil, fmt.Errorf("expected query but got %T", stmt)
	}
	return q, nil
}

func ensureQueryMark(input string) string {
	for i := len(input) - 1; i >= 0; i-- {
		c := input[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			continue
		}
		if c == '?' || c == '.' {
			return input
		}
		break
	}
	return input + "?"
}

// next returns the next statement or nil at end of input.
func (p *Parser) next() (Statement, error) {
	tok := p.s.scan()
	if tok.kind == tokenEOF {
		return nil, nil
	}
	p.wildcards = 0
	head, err := p.parseLiteral(tok)
	if err != nil {
		return nil, err
	}
	switch end := p.s.scan(); end.kind {
	case tokenDot:
		if head.IsGround() {
			return &Fact{Location: head.Location, Name: head.Name, Values: groundValues(head)}, nil
		}
		// A non-ground statement with no body is a headless rule. It is
		// reported as unsafe at compile time, not silently accepted here.
		return &Rule{Location: head.Location, Head: head}, nil
	case tokenQuery:
		return &Query{Location: head.Location, Name: head.Name, Args: head.Args}, nil
	case tokenImplies:
		return p.parseRuleBody(head)
	default:
		return nil, p.errorf(end.loc, "unexpected %v (expected '.', '?' or ':-')", end)
	}
}

func (p *Parser) parseRuleBody(head *Literal) (Statement, error) {
	var body Body
	for {
		tok := p.s.scan()
		lit, err := p.parseLiteral(tok)
		if err != nil {
			return nil, err
		}
		body = append(body, lit)
		switch sep := p.s.scan(); sep.kind {
		case tokenComma:
			continue
		case tokenDot:
			return &Rule{Location: head.Location, Head: head, Body: body}, nil
		default:
			return nil, p.errorf(sep.loc, "unexpected %v (expected ',' or '.')", sep)
		}
	}
}

func (p *Parser) parseLiteral(tok token) (*Literal, error) {
	if tok.kind != tokenIdent {
		return nil, p.errorf(tok.loc, "unexpected %v (expected predicate name)", tok)
	}
	if r, _ := utf8.DecodeRuneInString(tok.text); unicode.IsUpper(r) {
		return nil, p.errorf(tok.loc, "predicate name %v must not start with an uppercase letter", tok.text)
	}
	lit := &Literal{Location: tok.loc, Name: tok.text}
	if open := p.s.scan(); open.kind != tokenLParen {
		return nil, p.errorf(open.loc, "unexpected %v (expected '(')", open)
	}
	for {
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		lit.Args = append(lit.Args, term)
		switch sep := p.s.scan(); sep.kind {
		case tokenComma:
			continue
		case tokenRParen:
			return lit, nil
		default:
			return nil, p.errorf(sep.loc, "unexpected %v (expected ',' or ')')", sep)
		}
	}
}

func (p *Parser) parseTerm() (*Term, error) {
	tok := p.s.scan()
	switch tok.kind {
	case tokenIdent:
		r, _ := utf8.DecodeRuneInString(tok.text)
		if tok.text == "_" {
			v := Var(fmt.Sprintf("%s%d", WildcardPrefix, p.wildcards))
			p.wildcards++
			return &Term{Value: v, Location: tok.loc}, nil
		}
		if unicode.IsUpper(r) || r == '_' {
			return &Term{Value: Var(tok.text), Location: tok.loc}, nil
		}
		return &Term{Value: String(tok.text), Location: tok.loc}, nil
	case tokenString:
		return &Term{Value: String(tok.text), Location: tok.loc}, nil
	case tokenNumber:
		n, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, p.errorf(tok.loc, "invalid number %v", tok.text)
		}
		return &Term{Value: Number(n), Location: tok.loc}, nil
	default:
		return nil, p.errorf(tok.loc, "unexpected %v (expected constant or variable)", tok)
	}
}

// recover skips input until the end of the current statement so that parsing
// can continue and report further errors.
func (p *Parser) recover() {
	for {
		tok := p.s.scan()
		if tok.kind == tokenDot || tok.kind == tokenQuery || tok.kind == tokenEOF {
			return
		}
	}
}

func (p *Parser) errorf(loc *Location, f string, a ...interface{}) error {
	return NewError(ParseErr, loc, f, a...)
}

func groundValues(lit *Literal) Tuple {
	values := make(Tuple, len(lit.Args))
	for i, arg := range lit.Args {
		values[i] = arg.Value
	}
	return values
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenString
	tokenNumber
	tokenLParen
	tokenRParen
	tokenComma
	tokenDot
	tokenQuery
	tokenImplies
	tokenIllegal
)

type token struct {
	kind tokenKind
	text string
	loc  *Location
}

func (t token) String() string {
	switch t.kind {
	case tokenEOF:
		return "end of input"
	case tokenIllegal:
		return fmt.Sprintf("illegal character %q", t.text)
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

type scanner struct {
	file  string
	input string
	pos   int
	row   int
	col   int
}

func newScanner(file, input string) *scanner {
	return &scanner{file: file, input: input, row: 1, col: 1}
}

func (s *scanner) loc(text string) *Location {
	return NewLocation([]byte(text), s.file, s.row, s.col-len(text))
}

func (s *scanner) scan() token {
	s.skipWhitespace()
	if s.pos >= len(s.input) {
		return token{kind: tokenEOF, loc: s.loc("")}
	}
	c := s.input[s.pos]
	switch {
	case c == '(':
		return s.single(tokenLParen)
	case c == ')':
		return s.single(tokenRParen)
	case c == ',':
		return s.single(tokenComma)
	case c == '.':
		return s.single(tokenDot)
	case c == '?':
		return s.single(tokenQuery)
	case c == ':':
		if s.pos+1 < len(s.input) && s.input[s.pos+1] == '-' {
			s.advance()
			s.advance()
			return token{kind: tokenImplies, text: ":-", loc: s.loc(":-")}
		}
		return s.single(tokenIllegal)
	case c == '"':
		return s.scanString()
	case c >= '0' && c <= '9' || c == '-':
		return s.scanNumber()
	default:
		r, _ := utf8.DecodeRuneInString(s.input[s.pos:])
		if unicode.IsLetter(r) || r == '_' {
			return s.scanIdent()
		}
		return s.single(tokenIllegal)
	}
}

func (s *scanner) single(kind tokenKind) token {
	text := s.input[s.pos : s.pos+1]
	s.advance()
	return token{kind: kind, text: text, loc: s.loc(text)}
}

func (s *scanner) scanIdent() token {
	start := s.pos
	for s.pos < len(s.input) {
		r, size := utf8.DecodeRuneInString(s.input[s.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		s.pos += size
		s.col += 1
	}
	text := s.input[start:s.pos]
	return token{kind: tokenIdent, text: text, loc: s.loc(text)}
}

func (s *scanner) scanNumber() token {
	start := s.pos
	if s.input[s.pos] == '-' {
		s.advance()
	}
	for s.pos < len(s.input) {
		c := s.input[s.pos]
		if (c < '0' || c > '9') && c != '.' && c != 'e' && c != 'E' && c != '+' {
			break
		}
		// A '.' followed by a non-digit terminates the statement instead of
		// continuing the number.
		if c == '.' && (s.pos+1 >= len(s.input) || s.input[s.pos+1] < '0' || s.input[s.pos+1] > '9') {
			break
		}
		s.advance()
	}
	text := s.input[start:s.pos]
	return token{kind: tokenNumber, text: text, loc: s.loc(text)}
}

func (s *scanner) scanString() token {
	start := s.pos
	s.advance() // opening quote
	for s.pos < len(s.input) && s.input[s.pos] != '"' {
		if s.input[s.pos] == '\n' {
			text := s.input[start:s.pos]
			return token{kind: tokenIllegal, text: text, loc: s.loc(text)}
		}
		s.advance()
	}
	if s.pos >= len(s.input) {
		text := s.input[start:]
		return token{kind: tokenIllegal, text: text, loc: s.loc(text)}
	}
	text := s.input[start+1 : s.pos]
	s.advance() // closing quote
	return token{kind: tokenString, text: text, loc: s.loc(text)}
}

func (s *scanner) skipWhitespace() {
	for s.pos < len(s.input) {
		switch s.input[s.pos] {
		case ' ', '\t', '\r':
			s.advance()
		case '\n':
			s.advance()
		case '%':
			for s.pos < len(s.input) && s.input[s.pos] != '\n' {
				s.advance()
			}
		default:
			return
		}
	}
}

func (s *scanner) advance() {
	if s.input[s.pos] == '\n' {
		s.row++
		s.col = 1
	} else {
		s.col++
	}
	s.pos++
}
