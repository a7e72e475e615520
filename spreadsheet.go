// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package fixture is the value model of the spreadsheet fixture generator:
// cells, rows, sheets, tables and workbooks, and the Writer boundary that
// persists a finished Workbook into a spreadsheet container.
package fixture

import (
	"errors"
	"io"
	"strings"
)

// Writer writes the spreadsheet consisting of the sheets created
// with NewSheet. The write finishes when Close is called.
//
// The writer SHOULD allow writing to separate sheets concurrently,
// and document if it does not provide this functionality.
type Writer interface {
	io.Closer
	NewSheet(name string, cols []Column) (SheetWriter, error)
}

// Aborter is implemented by Writers which can drop everything written so far
// instead of finishing the container.
type Aborter interface {
	Abort() error
}

// SheetWriter should be Closed when finished.
//
// AddTable is called after all rows of the table are appended.
type SheetWriter interface {
	io.Closer
	AppendRow(cells ...Cell) error
	AddTable(Table) error
}

// Style is a style for a column/row/cell.
type Style struct {
	// Format is the number format
	Format string
	// FontBold is true if the font is bold
	FontBold bool
	// WrapText is true if line breaks should be shown
	WrapText bool
}

// Column contains the Name of the column and header's style and column's style.
type Column struct {
	Name           string
	Header, Column Style
}

// Write persists wb with w in one pass and closes w.
//
// A first row made of non-empty texts becomes the column header,
// everything else is appended as is. Errors are returned as *SerializationError;
// ones already of that type are passed through unchanged.
//
// On a sheet error w is aborted if it is an Aborter, so nothing is written;
// other writers are closed and may leave partial output behind.
func Write(w Writer, wb *Workbook) error {
	for _, sheet := range wb.sheets {
		if err := writeSheet(w, wb, sheet); err != nil {
			if a, ok := w.(Aborter); ok {
				a.Abort()
			} else {
				w.Close()
			}
			return err
		}
	}
	if err := w.Close(); err != nil {
		return serializationError("close", "", err)
	}
	return nil
}

func writeSheet(w Writer, wb *Workbook, sheet Sheet) error {
	rows := sheet.rows
	var cols []Column
	if len(rows) != 0 && isHeader(rows[0]) {
		cols = make([]Column, len(rows[0]))
		for i, c := range rows[0] {
			cols[i] = Column{Name: c.text, Header: Style{FontBold: true}}
		}
		rows = rows[1:]
	}
	sw, err := w.NewSheet(sheet.name, cols)
	if err != nil {
		return serializationError("new sheet", sheet.name, err)
	}
	for _, row := range rows {
		if err := sw.AppendRow(row...); err != nil {
			sw.Close()
			return serializationError("append row", sheet.name, err)
		}
	}
	for _, t := range wb.TablesOf(sheet.name) {
		if err := sw.AddTable(t); err != nil {
			sw.Close()
			return serializationError("add table "+t.DisplayName, sheet.name, err)
		}
	}
	if err := sw.Close(); err != nil {
		return serializationError("close sheet", sheet.name, err)
	}
	return nil
}

func isHeader(row Row) bool {
	if len(row) == 0 {
		return false
	}
	for _, c := range row {
		if c.kind != KindText || c.text == "" {
			return false
		}
	}
	return true
}

func serializationError(op, sheet string, err error) error {
	var se *SerializationError
	if errors.As(err, &se) {
		return err
	}
	return &SerializationError{Op: op, Sheet: sheet, Err: err}
}

// NeedsWrap reports whether a text cell contains line breaks.
func NeedsWrap(c Cell) bool {
	return c.kind == KindText && strings.ContainsAny(c.text, "\r\n")
}
