// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"iter"
	"slices"
)

// Sheet is a named grid of rows. Row 1 is the header by convention.
type Sheet struct {
	name string
	rows []Row
}

// NewSheet returns a sheet holding a copy of rows.
func NewSheet(name string, rows []Row) Sheet {
	cp := make([]Row, len(rows))
	for i, r := range rows {
		cp[i] = r.Clone()
	}
	return Sheet{name: name, rows: cp}
}

func (s Sheet) Name() string { return s.name }

// NumRows returns the number of rows, header included.
func (s Sheet) NumRows() int { return len(s.rows) }

// Width returns the length of the longest row.
func (s Sheet) Width() int {
	var w int
	for _, r := range s.rows {
		w = max(w, len(r))
	}
	return w
}

// Row returns a copy of the 1-based row n, or nil.
func (s Sheet) Row(n int) Row {
	if n < 1 || n > len(s.rows) {
		return nil
	}
	return s.rows[n-1].Clone()
}

// Rows iterates over copies of the rows with their 1-based numbers.
func (s Sheet) Rows() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		for i, r := range s.rows {
			if !yield(i+1, r.Clone()) {
				return
			}
		}
	}
}

// Cell returns the cell at c, and whether it exists.
func (s Sheet) Cell(c CellRef) (Cell, bool) {
	if c.Row < 1 || c.Row > len(s.rows) {
		return Cell{}, false
	}
	r := s.rows[c.Row-1]
	if c.Col < 1 || c.Col > len(r) {
		return Cell{}, false
	}
	return r[c.Col-1], true
}

// TableStyle describes the look of a table.
type TableStyle struct {
	Name              string
	ShowRowStripes    bool
	ShowColumnStripes bool
	ShowFirstColumn   bool
	ShowLastColumn    bool
}

// Table binds a range of a sheet to a display name.
type Table struct {
	Sheet       string
	DisplayName string
	Range       Range
	Style       TableStyle
}

// FormulaRef records a formula attached to a cell.
type FormulaRef struct {
	Sheet  string
	Cell   CellRef
	Text   string
	Refers Range
}

// Workbook is an ordered sequence of sheets with their tables and formulas.
//
// A Workbook is immutable: the accessors return copies.
// Obtain a validated one from assembler.Builder.Finalize.
type Workbook struct {
	sheets   []Sheet
	tables   []Table
	formulas []FormulaRef
}

// NewWorkbook wraps already validated parts into a Workbook. It does not check invariants.
func NewWorkbook(sheets []Sheet, tables []Table, formulas []FormulaRef) *Workbook {
	return &Workbook{
		sheets:   slices.Clone(sheets),
		tables:   slices.Clone(tables),
		formulas: slices.Clone(formulas),
	}
}

// Sheets returns the sheets in tab order.
func (wb *Workbook) Sheets() []Sheet { return slices.Clone(wb.sheets) }

// SheetNames returns the sheet names in tab order.
func (wb *Workbook) SheetNames() []string {
	names := make([]string, len(wb.sheets))
	for i, s := range wb.sheets {
		names[i] = s.name
	}
	return names
}

// Sheet returns the named sheet.
func (wb *Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range wb.sheets {
		if s.name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// Tables returns every table of the workbook.
func (wb *Workbook) Tables() []Table { return slices.Clone(wb.tables) }

// TablesOf returns the tables of one sheet.
func (wb *Workbook) TablesOf(sheet string) []Table {
	var tt []Table
	for _, t := range wb.tables {
		if t.Sheet == sheet {
			tt = append(tt, t)
		}
	}
	return tt
}

// Formulas returns every formula attachment.
func (wb *Workbook) Formulas() []FormulaRef { return slices.Clone(wb.formulas) }
