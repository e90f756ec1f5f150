// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import (
	"fmt"
	"strconv"
	"strings"
	"unsafe"

	"github.com/dchest/siphash"
)

// Location records a position in source code.
type Location struct {
	Text []byte `json:"-"` // The original text fragment from the source.
	File string // The name of the source file (which may be empty).
	Row  int    // The line in the source.
	Col  int    // The column in the row.
}

// NewLocation returns a new Location object.
func NewLocation(text []byte, file string, row int, col int) *Location {
	return &Location{Text: text, File: file, Row: row, Col: col}
}

// Format returns a formatted string prefixed with the location information.
func (loc *Location) Format(f string, a ...interface{}) string {
	if len(loc.File) > 0 {
		f = fmt.Sprintf("%v:%v: %v", loc.File, loc.Row, f)
	} else {
		f = fmt.Sprintf("%v:%v: %v", loc.Row, loc.Col, f)
	}
	return fmt.Sprintf(f, a...)
}

// Errorf returns a new error value with a message formatted to include the
// location info (e.g., line, column, filename, etc.)
func (loc *Location) Errorf(f string, a ...interface{}) error {
	return fmt.Errorf("%s", loc.Format(f, a...))
}

// Value declares the common interface for all term values. Datalog is flat:
// a value is either a variable or a scalar constant.
//
// - String, Number (constants)
// - Var (variables)
type Value interface {
	// Equal returns true if this value equals the other value.
	Equal(other Value) bool

	// IsGround returns true if this value is not a variable.
	IsGround() bool

	// String returns a human readable string representation of the value.
	String() string

	// Hash returns the hash code of the value.
	Hash() int
}

// Term is an argument to a literal.
type Term struct {
	Value    Value     // the value of the Term as represented in Go
	Location *Location `json:"-"` // the location of the Term in the source
}

// NewTerm returns a new Term object.
func NewTerm(v Value) *Term {
	return &Term{Value: v}
}

// Equal returns true if this term equals the other term.
func (term *Term) Equal(other *Term) bool {
	if term == nil || other == nil {
		return term == other
	}
	if term == other {
		return true
	}
	return term.Value.Equal(other.Value)
}

// Hash returns the hash code of the Term's value.
func (term *Term) Hash() int {
	return term.Value.Hash()
}

// IsGround returns true if this term's Value is not a variable.
func (term *Term) IsGround() bool {
	return term.Value.IsGround()
}

func (term *Term) String() string {
	return term.Value.String()
}

// Vars returns a VarSet with the variables contained in this term.
func (term *Term) Vars() VarSet {
	vs := VarSet{}
	if v, ok := term.Value.(Var); ok {
		vs.Add(v)
	}
	return vs
}

const (
	hashSeed0 = 0x4a1030f7f33f2cb9
	hashSeed1 = 0x6b7a2e8c1d5b940f
)

func hashString(s string) int {
	b := *(*[]byte)(unsafe.Pointer(&s))
	return int(siphash.Hash(hashSeed0, hashSeed1, b))
}

// Var represents a variable as defined by the language.
type Var string

// VarTerm creates a new Term with a Var value.
func VarTerm(v string) *Term {
	return &Term{Value: Var(v)}
}

// Equal returns true if the other Value is a Var and has the same name.
func (v Var) Equal(other Value) bool {
	switch other := other.(type) {
	case Var:
		return v == other
	default:
		return false
	}
}

// Hash returns the hash code for the Value.
func (v Var) Hash() int {
	return hashString(string(v))
}

// IsGround always returns false.
func (Var) IsGround() bool {
	return false
}

// IsWildcard returns true if this variable is the anonymous placeholder.
func (v Var) IsWildcard() bool {
	return strings.HasPrefix(string(v), WildcardPrefix)
}

func (v Var) String() string {
	if v.IsWildcard() {
		return "_"
	}
	return string(v)
}

// WildcardPrefix is the special character that all wildcard variables are
// prefixed with when the statement they are contained in is parsed.
const WildcardPrefix = "$"

// String represents a symbolic or quoted string constant.
type String string

// StringTerm creates a new Term with a String value.
func StringTerm(s string) *Term {
	return &Term{Value: String(s)}
}

// Equal returns true if the other Value is a String and is equal.
func (str String) Equal(other Value) bool {
	switch other := other.(type) {
	case String:
		return str == other
	default:
		return false
	}
}

// Hash returns the hash code for the Value.
func (str String) Hash() int {
	return hashString(string(str))
}

// IsGround always returns true.
func (String) IsGround() bool {
	return true
}

func (str String) String() string {
	return string(str)
}

// Number represents a numeric constant.
type Number float64

// NumberTerm creates a new Term with a Number value.
func NumberTerm(n float64) *Term {
	return &Term{Value: Number(n)}
}

// Equal returns true if the other Value is a Number and is equal.
func (num Number) Equal(other Value) bool {
	switch other := other.(type) {
	case Number:
		return num == other
	default:
		return false
	}
}

// Hash returns the hash code for the Value.
func (num Number) Hash() int {
	return int(num)
}

// IsGround always returns true.
func (Number) IsGround() bool {
	return true
}

func (num Number) String() string {
	return strconv.FormatFloat(float64(num), 'G', -1, 64)
}

// Tuple is an ordered sequence of ground values, i.e., one row of a relation.
type Tuple []Value

// Equal returns true if both tuples have the same length and pairwise equal
// values.
func (t Tuple) Equal(other Tuple) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if !t[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Hash returns the hash code for the tuple.
func (t Tuple) Hash() int {
	var h int
	for _, v := range t {
		h += v.Hash()
	}
	return h
}

func (t Tuple) String() string {
	buf := make([]string, len(t))
	for i, v := range t {
		buf[i] = v.String()
	}
	return "(" + strings.Join(buf, ", ") + ")"
}
