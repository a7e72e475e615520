// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellRef is a 1-based cell position.
type CellRef struct {
	Col, Row int
}

// ParseCellRef parses "B5" or "$B$5".
func ParseCellRef(s string) (CellRef, error) {
	col, row, err := excelize.CellNameToCoordinates(strings.ReplaceAll(s, "$", ""))
	if err != nil {
		return CellRef{}, fmt.Errorf("cell reference %q: %w", s, err)
	}
	return CellRef{Col: col, Row: row}, nil
}

// MustCellRef is like ParseCellRef but panics on error.
func MustCellRef(s string) CellRef {
	c, err := ParseCellRef(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsZero reports whether c is unset.
func (c CellRef) IsZero() bool { return c.Col == 0 && c.Row == 0 }

func (c CellRef) String() string {
	s, err := excelize.CoordinatesToCellName(c.Col, c.Row)
	if err != nil {
		return fmt.Sprintf("R%dC%d", c.Row, c.Col)
	}
	return s
}

// Range is a rectangular block of cells, optionally qualified by a sheet.
// The zero Range means "no range".
type Range struct {
	Sheet      string
	Start, End CellRef
}

// NewRange returns the normalized range spanning both corners.
func NewRange(a, b CellRef) Range {
	if a.Col > b.Col {
		a.Col, b.Col = b.Col, a.Col
	}
	if a.Row > b.Row {
		a.Row, b.Row = b.Row, a.Row
	}
	return Range{Start: a, End: b}
}

// ParseRange parses "A1:F11", "B2", "Sheet1!A1:B2" or "'My Sheet'!$A$1".
func ParseRange(s string) (Range, error) {
	var sheet string
	if i := strings.LastIndexByte(s, '!'); i >= 0 {
		sheet = strings.ReplaceAll(strings.Trim(s[:i], "'"), "''", "'")
		s = s[i+1:]
	}
	first, last, found := strings.Cut(s, ":")
	a, err := ParseCellRef(first)
	if err != nil {
		return Range{}, err
	}
	b := a
	if found {
		if b, err = ParseCellRef(last); err != nil {
			return Range{}, err
		}
	}
	r := NewRange(a, b)
	r.Sheet = sheet
	return r, nil
}

// MustRange is like ParseRange but panics on error.
func MustRange(s string) Range {
	r, err := ParseRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Range) IsZero() bool { return r.Start.IsZero() && r.End.IsZero() }

// Width is the number of columns.
func (r Range) Width() int { return r.End.Col - r.Start.Col + 1 }

// Height is the number of rows.
func (r Range) Height() int { return r.End.Row - r.Start.Row + 1 }

// Contains reports whether c lies inside r.
func (r Range) Contains(c CellRef) bool {
	return r.Start.Col <= c.Col && c.Col <= r.End.Col &&
		r.Start.Row <= c.Row && c.Row <= r.End.Row
}

// Overlaps reports whether r and s share a cell.
func (r Range) Overlaps(s Range) bool {
	return r.Start.Col <= s.End.Col && s.Start.Col <= r.End.Col &&
		r.Start.Row <= s.End.Row && s.Start.Row <= r.End.Row
}

// String returns the A1 notation, without the sheet.
func (r Range) String() string {
	if r.IsZero() {
		return ""
	}
	if r.Start == r.End {
		return r.Start.String()
	}
	return r.Start.String() + ":" + r.End.String()
}
