// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/fixture"
	"github.com/UNO-SOFT/fixture/edge"
	"github.com/UNO-SOFT/fixture/scenario"
	"github.com/UNO-SOFT/fixture/xlsx"
)

func write(t *testing.T, wb *fixture.Workbook, streaming bool) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, fixture.Write(xlsx.NewWriter(&buf, xlsx.WithStreaming(streaming)), wb))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func raw(t *testing.T, f *excelize.File, sheet, axis string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func TestTables(t *testing.T) {
	wb, err := scenario.TableStructures(context.Background(), scenario.Options{Seed: 1})
	require.NoError(t, err)
	for _, streaming := range []bool{false, true} {
		t.Run(map[bool]string{false: "memory", true: "streaming"}[streaming], func(t *testing.T) {
			f := write(t, wb, streaming)
			assert.Equal(t, wb.SheetNames(), f.GetSheetList())

			for _, want := range wb.Tables() {
				tables, err := f.GetTables(want.Sheet)
				require.NoError(t, err)
				require.Len(t, tables, 1, want.Sheet)
				assert.Equal(t, want.DisplayName, tables[0].Name)
				assert.Equal(t, want.Range.String(), tables[0].Range)
				assert.Equal(t, want.Style.Name, tables[0].StyleName)
			}
			tables, err := f.GetTables("UnformattedData")
			require.NoError(t, err)
			assert.Empty(t, tables)

			formula, err := f.GetCellFormula("SalesTable", "E2")
			require.NoError(t, err)
			assert.Equal(t, "PRODUCT(C2:D2)", formula)

			assert.Equal(t, "ProductName", raw(t, f, "ProductsTable", "B1"))
			assert.Equal(t, "Wireless Mouse", raw(t, f, "ProductsTable", "B2"))
			// 2024-01-15
			assert.Equal(t, "45306", raw(t, f, "SalesTable", "F2"))
		})
	}
}

func TestComprehensive(t *testing.T) {
	wb, err := scenario.Comprehensive(context.Background(), scenario.Options{})
	require.NoError(t, err)
	for _, streaming := range []bool{false, true} {
		f := write(t, wb, streaming)
		assert.Equal(t, wb.SheetNames(), f.GetSheetList())

		formula, err := f.GetCellFormula("Formulas", "B7")
		require.NoError(t, err)
		assert.Equal(t, "SUM(B2:B6)", formula)

		// First day, 1900-01-01
		assert.Equal(t, "1", raw(t, f, "DateEdgeCases", "B2"))
		assert.Equal(t, "1", raw(t, f, "DateEdgeCases", "C2"))
		// Day after fake leap, 1900-03-01
		assert.Equal(t, "61", raw(t, f, "DateEdgeCases", "B5"))

		rows, err := f.GetRows("MultilineCells")
		require.NoError(t, err)
		require.Greater(t, len(rows), 2)
		assert.Equal(t, "Single line", rows[1][1])
		assert.Equal(t, "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", rows[2][1])
	}
}

func TestDateFormat(t *testing.T) {
	b := fixture.NewWorkbook([]fixture.Sheet{fixture.NewSheet("Dates", []fixture.Row{
		fixture.TextRow("When"),
		{fixture.DateTime(fixture.Date(2024, 1, 1))},
		{fixture.DateTime(fixture.DateTimeOf(2024, 1, 1, 12, 0, 0))},
	})}, nil, nil)
	f := write(t, b, false)
	assert.Equal(t, "45292", raw(t, f, "Dates", "A2"))
	assert.Equal(t, "45292.5", raw(t, f, "Dates", "A3"))
	v, err := f.GetCellValue("Dates", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", v)
}

func TestClosed(t *testing.T) {
	var buf bytes.Buffer
	w := xlsx.NewWriter(&buf)
	sw, err := w.NewSheet("Rows", nil)
	require.NoError(t, err)
	require.NoError(t, sw.AppendRow(fixture.Integer(1), fixture.Text("a")))
	require.NoError(t, sw.Close())
	require.NoError(t, w.Close())
	assert.NotZero(t, buf.Len())

	_, err = w.NewSheet("Late", nil)
	assert.Error(t, err)
	assert.NoError(t, w.Close())
}

func modes(t *testing.T, f func(t *testing.T, streaming bool)) {
	for _, streaming := range []bool{false, true} {
		t.Run(map[bool]string{false: "memory", true: "streaming"}[streaming], func(t *testing.T) {
			f(t, streaming)
		})
	}
}

func TestSheetNameClash(t *testing.T) {
	wb := fixture.NewWorkbook([]fixture.Sheet{
		fixture.NewSheet("Data", []fixture.Row{{fixture.Integer(1)}}),
		fixture.NewSheet("data", []fixture.Row{{fixture.Integer(2)}}),
	}, nil, nil)
	modes(t, func(t *testing.T, streaming bool) {
		var buf bytes.Buffer
		err := fixture.Write(xlsx.NewWriter(&buf, xlsx.WithStreaming(streaming)), wb)
		require.Error(t, err)
		assert.ErrorIs(t, err, fixture.ErrSerialization)
		var se *fixture.SerializationError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "data", se.Sheet)
		assert.Contains(t, err.Error(), `clashes with "Data"`)
		assert.Zero(t, buf.Len(), "aborted writer must not write")
	})
}

func TestLongText(t *testing.T) {
	require.Equal(t, excelize.TotalCellChars, edge.MaxCellChars)
	lib := edge.New(0)
	at, err := lib.Collect(edge.LongText, edge.MaxCellChars)
	require.NoError(t, err)
	over, err := lib.Collect(edge.LongText, edge.MaxCellChars+7233)
	require.NoError(t, err)
	require.True(t, over[0].OverLimit)

	modes(t, func(t *testing.T, streaming bool) {
		f := write(t, fixture.NewWorkbook([]fixture.Sheet{fixture.NewSheet("Long", []fixture.Row{
			fixture.TextRow("Text"),
			{at[0].Cell},
		})}, nil, nil), streaming)
		got := raw(t, f, "Long", "A2")
		assert.Equal(t, edge.MaxCellChars, len(got))
		assert.Equal(t, at[0].Cell.TextValue(), got)

		for name, wb := range map[string]*fixture.Workbook{
			"cell": fixture.NewWorkbook([]fixture.Sheet{fixture.NewSheet("Long", []fixture.Row{
				{fixture.Integer(1), over[0].Cell},
			})}, nil, nil),
			"header": fixture.NewWorkbook([]fixture.Sheet{fixture.NewSheet("Long", []fixture.Row{
				fixture.TextRow(over[0].Cell.TextValue()),
			})}, nil, nil),
			// a non-BMP rune takes two UTF-16 units
			"surrogates": fixture.NewWorkbook([]fixture.Sheet{fixture.NewSheet("Long", []fixture.Row{
				{fixture.Integer(1), fixture.Text(strings.Repeat("\U0001F600", edge.MaxCellChars/2+1))},
			})}, nil, nil),
		} {
			var buf bytes.Buffer
			err := fixture.Write(xlsx.NewWriter(&buf, xlsx.WithStreaming(streaming)), wb)
			require.Error(t, err, name)
			assert.ErrorIs(t, err, fixture.ErrSerialization, name)
			assert.ErrorIs(t, err, fixture.ErrInvalidCellValue, name)
			assert.Zero(t, buf.Len(), name)
		}
	})
}

func TestAbort(t *testing.T) {
	var buf bytes.Buffer
	w := xlsx.NewWriter(&buf)
	sw, err := w.NewSheet("Rows", nil)
	require.NoError(t, err)
	require.NoError(t, sw.AppendRow(fixture.Integer(1)))
	require.NoError(t, sw.Close())
	require.NoError(t, w.Abort())
	assert.Zero(t, buf.Len())
	assert.NoError(t, w.Close())
	assert.Zero(t, buf.Len())
	_, err = w.NewSheet("Late", nil)
	assert.Error(t, err)
}
