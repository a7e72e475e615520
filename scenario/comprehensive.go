// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package scenario

import (
	"context"
	"fmt"

	"github.com/UNO-SOFT/fixture"
	"github.com/UNO-SOFT/fixture/assembler"
	"github.com/UNO-SOFT/fixture/edge"
)

// Serial number formats of the DateEdgeCases sheet.
const (
	SerialFormat         = "0"
	FractionSerialFormat = "0.000000"
)

// Comprehensive returns the six sheet type coverage workbook:
// DataTypes, Formulas, Internationalization, MultilineCells, DateEdgeCases and EdgeCases.
func Comprehensive(ctx context.Context, opts Options) (*fixture.Workbook, error) {
	b := opts.builder()
	lib := opts.library()
	for _, add := range []func(*assembler.Builder, *edge.Library) error{
		addDataTypes, addFormulas, addInternationalization,
		addMultilineCells, addDateEdgeCases, addEdgeCases,
	} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := add(b, lib); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}

// entryRows turns the entries of the categories into rows.
func entryRows(lib *edge.Library, row func(edge.Entry) fixture.Row, cats ...edge.Category) ([]fixture.Row, error) {
	var rows []fixture.Row
	for _, cat := range cats {
		seq, err := lib.Produce(cat, 0)
		if err != nil {
			return nil, err
		}
		for e := range seq {
			rows = append(rows, row(e))
		}
	}
	return rows, nil
}

func labelValueDescription(e edge.Entry) fixture.Row {
	return fixture.Row{fixture.Text(e.Label), e.Cell, fixture.Text(e.Description)}
}

func addDataTypes(b *assembler.Builder, lib *edge.Library) error {
	rows, err := entryRows(lib, labelValueDescription, edge.TypeSample)
	if err != nil {
		return err
	}
	return b.AddSheet("DataTypes", append([]fixture.Row{fixture.TextRow("Type", "Value", "Description")}, rows...))
}

func addFormulas(b *assembler.Builder, _ *edge.Library) error {
	const sheet = "Formulas"
	rows := []fixture.Row{fixture.TextRow("Formula Type", "Formula", "Result", "Description")}
	for i := 1; i <= 5; i++ {
		desc := fixture.Empty()
		if i == 1 {
			desc = fixture.Text("Sample values")
		}
		rows = append(rows, fixture.Row{fixture.Text("Data"), fixture.Integer(int64(10 * i)), fixture.Empty(), desc})
	}
	type calc struct{ name, text, ref, desc string }
	calcs := []calc{
		{"SUM", "=SUM(B2:B6)", "B2:B6", "Sum of range"},
		{"AVERAGE", "=AVERAGE(B2:B6)", "B2:B6", "Average of range"},
		{"MIN", "=MIN(B2:B6)", "B2:B6", "Minimum value"},
		{"MAX", "=MAX(B2:B6)", "B2:B6", "Maximum value"},
		{"COUNT", "=COUNT(B2:B6)", "B2:B6", "Count numbers"},
		{"IF", `=IF(B2>15,"High","Low")`, "B2", "Conditional"},
		{"AND", "=AND(B2>5,B2<15)", "B2", "Logical AND"},
		{"OR", "=OR(B2>100,B2<5)", "B2", "Logical OR"},
		{"ROUND", "=ROUND(3.14159,2)", "", "Round to 2 decimals"},
		{"ABS", "=ABS(-42)", "", "Absolute value"},
		{"SQRT", "=SQRT(144)", "", "Square root"},
	}
	formulas := make([]formula, 0, len(calcs))
	for _, c := range calcs {
		rows = append(rows, fixture.Row{fixture.Text(c.name), fixture.Empty(), fixture.Empty(), fixture.Text(c.desc)})
		formulas = append(formulas, formula{cell: fmt.Sprintf("B%d", len(rows)), text: c.text, ref: c.ref})
	}
	if err := b.AddSheet(sheet, rows); err != nil {
		return err
	}
	return attach(b, sheet, formulas...)
}

func addInternationalization(b *assembler.Builder, lib *edge.Library) error {
	rows, err := entryRows(lib, func(e edge.Entry) fixture.Row {
		return fixture.Row{fixture.Text(e.Label), e.Cell, fixture.Text(e.Detail), fixture.Text(e.Description)}
	}, edge.UnicodeScript)
	if err != nil {
		return err
	}
	return b.AddSheet("Internationalization",
		append([]fixture.Row{fixture.TextRow("Language", "Text", "Characters", "Description")}, rows...))
}

func addMultilineCells(b *assembler.Builder, lib *edge.Library) error {
	rows, err := entryRows(lib, func(e edge.Entry) fixture.Row {
		return fixture.Row{fixture.Integer(int64(e.Size)), e.Cell, fixture.Text(e.Description)}
	}, edge.MultilineText)
	if err != nil {
		return err
	}
	return b.AddSheet("MultilineCells",
		append([]fixture.Row{fixture.TextRow("Line Count", "Content", "Description")}, rows...))
}

// SerialCell returns the 1900 date system serial of ct: an integer at
// midnight, a real with the time of day as fraction otherwise.
func SerialCell(ct fixture.CalendarTime) (fixture.Cell, error) {
	serial, err := fixture.Serial1900(ct)
	if err != nil {
		return fixture.Cell{}, err
	}
	if ct.IsMidnight() {
		return fixture.Integer(int64(serial)).WithFormat(SerialFormat), nil
	}
	return fixture.Real(serial).WithFormat(FractionSerialFormat), nil
}

func addDateEdgeCases(b *assembler.Builder, lib *edge.Library) error {
	rows := []fixture.Row{fixture.TextRow("Description", "Date", "Serial", "Notes", "Epoch", "Naive Reading")}
	seq, err := lib.Produce(edge.DateBoundary, 0)
	if err != nil {
		return err
	}
	for e := range seq {
		ct := e.Cell.TimeValue()
		serial, err := SerialCell(ct)
		if err != nil {
			return fmt.Errorf("%s: %w", e.Label, err)
		}
		naive := fixture.Empty()
		if e.Epoch != edge.NotBoundary {
			s, _ := fixture.Serial1900(ct)
			if t, err := fixture.FromSerialNaive(s); err == nil {
				naive = fixture.DateTime(t).WithFormat(edge.FormatDate)
			}
		}
		rows = append(rows, fixture.Row{
			fixture.Text(e.Label), e.Cell, serial, fixture.Text(e.Description),
			fixture.Text(e.Epoch.String()), naive,
		})
	}
	return b.AddSheet("DateEdgeCases", rows)
}

func addEdgeCases(b *assembler.Builder, lib *edge.Library) error {
	rows, err := entryRows(lib, labelValueDescription,
		edge.LongText, edge.WhitespaceVariant, edge.NumericExtreme, edge.QuotingVariant, edge.LookalikeText)
	if err != nil {
		return err
	}
	return b.AddSheet("EdgeCases", append([]fixture.Row{fixture.TextRow("Type", "Value", "Description")}, rows...))
}
