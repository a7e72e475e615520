// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the type of a Cell's content.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindInteger
	KindReal
	KindBoolean
	KindDateTime
	KindFormula
)

var kindNames = [...]string{"empty", "text", "integer", "real", "boolean", "datetime", "formula"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Cell is a single immutable cell value with an optional display format.
//
// The format is opaque: it is stored and forwarded to the writer, never interpreted.
type Cell struct {
	kind   Kind
	text   string // Text or formula text
	i      int64
	f      float64
	b      bool
	t      CalendarTime
	ref    Range
	format string
}

// Empty returns an empty cell.
func Empty() Cell { return Cell{} }

// Text returns a text cell.
func Text(s string) Cell { return Cell{kind: KindText, text: s} }

// Integer returns an integer cell.
func Integer(i int64) Cell { return Cell{kind: KindInteger, i: i} }

// Real returns a real cell. Negative zero is kept as is.
func Real(f float64) Cell { return Cell{kind: KindReal, f: f} }

// Boolean returns a boolean cell.
func Boolean(b bool) Cell { return Cell{kind: KindBoolean, b: b} }

// DateTime returns a date/time cell.
func DateTime(t CalendarTime) Cell { return Cell{kind: KindDateTime, t: t} }

// NewFormula returns a formula cell after a lexical check of text.
// ref is the range the formula reads; the zero Range means none.
func NewFormula(text string, ref Range) (Cell, error) {
	if err := CheckFormula(text); err != nil {
		return Cell{}, err
	}
	return Cell{kind: KindFormula, text: text, ref: ref}, nil
}

// MustFormula is like NewFormula but panics on error. For literals.
func MustFormula(text string, ref Range) Cell {
	c, err := NewFormula(text, ref)
	if err != nil {
		panic(err)
	}
	return c
}

// WithFormat returns a copy of c with the given display format.
func (c Cell) WithFormat(format string) Cell {
	c.format = format
	return c
}

func (c Cell) Kind() Kind { return c.kind }
func (c Cell) Format() string { return c.format }
func (c Cell) IsEmpty() bool { return c.kind == KindEmpty }
func (c Cell) TextValue() string { return c.text }
func (c Cell) IntValue() int64 { return c.i }
func (c Cell) RealValue() float64 { return c.f }
func (c Cell) BoolValue() bool { return c.b }
func (c Cell) TimeValue() CalendarTime { return c.t }

// Formula returns the formula text and its referenced range.
func (c Cell) Formula() (string, Range) { return c.text, c.ref }

// Value returns the content as a plain Go value:
// nil, string, int64, float64, bool, CalendarTime or the formula string.
func (c Cell) Value() any {
	switch c.kind {
	case KindText, KindFormula:
		return c.text
	case KindInteger:
		return c.i
	case KindReal:
		return c.f
	case KindBoolean:
		return c.b
	case KindDateTime:
		return c.t
	default:
		return nil
	}
}

// Equal reports whether c and d have the same kind, content and format.
// Reals are compared bitwise, so -0 and 0 differ.
func (c Cell) Equal(d Cell) bool {
	if c.kind != d.kind || c.format != d.format {
		return false
	}
	switch c.kind {
	case KindText:
		return c.text == d.text
	case KindFormula:
		return c.text == d.text && c.ref == d.ref
	case KindInteger:
		return c.i == d.i
	case KindReal:
		return math.Float64bits(c.f) == math.Float64bits(d.f)
	case KindBoolean:
		return c.b == d.b
	case KindDateTime:
		return c.t == d.t
	}
	return true
}

// String renders the content as text: ISO dates, shortest float form, formula text.
func (c Cell) String() string {
	switch c.kind {
	case KindText, KindFormula:
		return c.text
	case KindInteger:
		return strconv.FormatInt(c.i, 10)
	case KindReal:
		return strconv.FormatFloat(c.f, 'g', -1, 64)
	case KindBoolean:
		if c.b {
			return "TRUE"
		}
		return "FALSE"
	case KindDateTime:
		return c.t.String()
	default:
		return ""
	}
}

func (c Cell) GoString() string {
	if c.format != "" {
		return fmt.Sprintf("%s(%q fmt=%q)", c.kind, c.String(), c.format)
	}
	return fmt.Sprintf("%s(%q)", c.kind, c.String())
}

// Row is an ordered sequence of cells.
type Row []Cell

// TextRow is a convenience for header rows.
func TextRow(values ...string) Row {
	r := make(Row, len(values))
	for i, v := range values {
		r[i] = Text(v)
	}
	return r
}

// Clone returns a copy of r.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	return append(Row(nil), r...)
}

// Equal reports whether both rows hold equal cells.
func (r Row) Equal(s Row) bool {
	if len(r) != len(s) {
		return false
	}
	for i := range r {
		if !r[i].Equal(s[i]) {
			return false
		}
	}
	return true
}
