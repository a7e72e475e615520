// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package assembler_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UNO-SOFT/fixture"
	"github.com/UNO-SOFT/fixture/assembler"
)

var medium9 = fixture.TableStyle{Name: "TableStyleMedium9", ShowRowStripes: true}

func products(dataCols int) []fixture.Row {
	rows := []fixture.Row{fixture.TextRow("ProductID", "ProductName", "Category", "Price", "Stock", "Supplier")}
	for i := range 10 {
		row := fixture.Row{
			fixture.Integer(int64(1001 + i)), fixture.Text("Thing"), fixture.Text("Office"),
			fixture.Real(9.99), fixture.Integer(10), fixture.Text("TechCorp"),
		}
		rows = append(rows, row[:dataCols])
	}
	return rows
}

func requireValidation(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
	assert.ErrorIs(t, err, fixture.ErrValidation)
	var ve *fixture.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestAddSheet(t *testing.T) {
	b := assembler.New()
	require.NoError(t, b.AddSheet("Data", nil))
	requireValidation(t, b.AddSheet("Data", nil), fixture.ErrDuplicateSheetName)
	require.NoError(t, b.AddSheet("data", nil), "sheet names are case-sensitive")
	for _, name := range []string{"", "a/b", "a[1]", "x:y", "what?", "star*", `back\slash`, "'quoted'"} {
		requireValidation(t, b.AddSheet(name, nil), fixture.ErrInvalidSheetName)
	}
	assert.Equal(t, []string{"Data", "data"}, b.SheetNames())
}

func TestAddTable(t *testing.T) {
	b := assembler.New()
	require.NoError(t, b.AddSheet("ProductsTable", products(6)))
	require.NoError(t, b.AddSheet("Broken", products(5)))

	requireValidation(t, b.AddTable("Nope", "Products", fixture.MustRange("A1:F11"), medium9), fixture.ErrUnknownSheet)
	require.NoError(t, b.AddTable("ProductsTable", "Products", fixture.MustRange("A1:F11"), medium9))
	requireValidation(t, b.AddTable("ProductsTable", "PRODUCTS", fixture.MustRange("H1:H2"), medium9), fixture.ErrDuplicateTableName)
	requireValidation(t, b.AddTable("ProductsTable", "Inner", fixture.MustRange("B1:C5"), medium9), fixture.ErrOverlappingTables)

	err := b.AddTable("Broken", "Broken", fixture.MustRange("A1:F11"), medium9)
	requireValidation(t, err, fixture.ErrMalformedTableRange)
	assert.Contains(t, err.Error(), "row 2 has 5 columns, the header has 6")

	for _, name := range []string{"", "1st", "A1", "has space", "R", "c", "Tab-le", "Price€", "A\u00a0B", "x²"} {
		requireValidation(t, b.AddTable("Broken", name, fixture.MustRange("A1:E11"), medium9), fixture.ErrInvalidTableName)
	}
	require.NoError(t, b.AddTable("Broken", "_Five.Cols", fixture.MustRange("A1:E11"), medium9))

	require.NoError(t, b.AddSheet("Árak", products(6)))
	require.NoError(t, b.AddTable("Árak", "Árlista_ÉV", fixture.MustRange("A1:F11"), medium9))

	for name, rng := range map[string]string{
		"HeaderOnly": "A1:F1",
		"TooTall":    "A1:F20",
		"OtherSheet": "Other!A1:B2",
	} {
		requireValidation(t, b.AddTable("ProductsTable", name, fixture.MustRange(rng), medium9), fixture.ErrMalformedTableRange)
	}

	require.NoError(t, b.AddSheet("Headers", []fixture.Row{
		{fixture.Text("A"), fixture.Integer(2)},
		fixture.TextRow("a", "A"),
		fixture.TextRow("x", "y"),
		fixture.TextRow("p", "q"),
	}))
	requireValidation(t, b.AddTable("Headers", "NumHeader", fixture.MustRange("A1:B3"), medium9), fixture.ErrMalformedTableRange)
	requireValidation(t, b.AddTable("Headers", "SameHeader", fixture.MustRange("A2:B3"), medium9), fixture.ErrMalformedTableRange)
	require.NoError(t, b.AddTable("Headers", "Lower", fixture.MustRange("A3:B4"), medium9))
}

func TestAttachFormula(t *testing.T) {
	b := assembler.New()
	rows := []fixture.Row{fixture.TextRow("Type", "Value")}
	for i := range 5 {
		rows = append(rows, fixture.Row{fixture.Text("Data"), fixture.Integer(int64(10 * (i + 1)))})
	}
	rows = append(rows, fixture.TextRow("SUM"))
	require.NoError(t, b.AddSheet("Formulas", rows))

	requireValidation(t,
		b.AttachFormula("Nope", fixture.MustCellRef("B7"), "=SUM(B2:B6)", fixture.MustRange("B2:B6")),
		fixture.ErrUnknownSheet)
	requireValidation(t,
		b.AttachFormula("Formulas", fixture.MustCellRef("B7"), "=SUM(B2:B9)", fixture.MustRange("B2:B9")),
		fixture.ErrOutOfBoundsReference)
	requireValidation(t,
		b.AttachFormula("Formulas", fixture.MustCellRef("B7"), "=SUM(B2:C6)", fixture.Range{}),
		fixture.ErrOutOfBoundsReference)
	requireValidation(t,
		b.AttachFormula("Formulas", fixture.MustCellRef("B8"), "=SUM(B2:B6)", fixture.MustRange("B2:B6")),
		fixture.ErrOutOfBoundsReference)
	requireValidation(t,
		b.AttachFormula("Formulas", fixture.MustCellRef("B7"), "=SUM(Other!A1)", fixture.Range{}),
		fixture.ErrUnknownSheet)
	assert.ErrorIs(t,
		b.AttachFormula("Formulas", fixture.MustCellRef("B7"), "SUM(B2:B6)", fixture.MustRange("B2:B6")),
		fixture.ErrInvalidCellValue)

	require.NoError(t, b.AttachFormula("Formulas", fixture.MustCellRef("B7"), "=SUM(B2:B6)", fixture.MustRange("B2:B6")))
	require.NoError(t, b.AttachFormula("Formulas", fixture.MustCellRef("D7"), "=ABS(-42)", fixture.Range{}))

	wb, err := b.Finalize()
	require.NoError(t, err)
	sheet, ok := wb.Sheet("Formulas")
	require.True(t, ok)
	row := sheet.Row(7)
	require.Len(t, row, 4)
	assert.True(t, row[2].IsEmpty())
	text, ref := row[1].Formula()
	assert.Equal(t, "=SUM(B2:B6)", text)
	assert.Equal(t, "B2:B6", ref.String())
	assert.Equal(t, fixture.KindFormula, row[3].Kind())
	assert.Len(t, wb.Formulas(), 2)
}

func TestFinalize(t *testing.T) {
	_, err := assembler.New().Finalize()
	requireValidation(t, err, fixture.ErrEmptyWorkbook)

	b := assembler.New()
	require.NoError(t, b.AddSheet("ProductsTable", products(6)))
	require.NoError(t, b.AddTable("ProductsTable", "Products", fixture.MustRange("A1:F11"), medium9))
	// a formula over the header breaks the table; tables are checked first
	require.NoError(t, b.AttachFormula("ProductsTable", fixture.MustCellRef("D1"), "=MAX(D2:D11)", fixture.MustRange("D2:D11")))
	_, err = b.Finalize()
	requireValidation(t, err, fixture.ErrMalformedTableRange)

	require.NoError(t, b.AttachFormula("ProductsTable", fixture.MustCellRef("H1"), "=MAX(D2:D11)", fixture.MustRange("D2:D11")))
	wb, err := b.Finalize()
	require.Error(t, err, "the header is still a formula")
	assert.Nil(t, wb)

	b = assembler.New()
	require.NoError(t, b.AddSheet("ProductsTable", products(6)))
	require.NoError(t, b.AddTable("ProductsTable", "Products", fixture.MustRange("A1:F11"), medium9))
	wb, err = b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []string{"ProductsTable"}, wb.SheetNames())
	require.Len(t, wb.Tables(), 1)
	assert.Equal(t, "Products", wb.Tables()[0].DisplayName)

	assert.ErrorIs(t, b.AddSheet("More", nil), assembler.ErrFinalized)
	assert.ErrorIs(t, b.AddTable("ProductsTable", "X", fixture.MustRange("H1:H2"), medium9), assembler.ErrFinalized)
	assert.ErrorIs(t, b.AttachFormula("ProductsTable", fixture.MustCellRef("H1"), "=ABS(1)", fixture.Range{}), assembler.ErrFinalized)
	_, err = b.Finalize()
	assert.ErrorIs(t, err, assembler.ErrFinalized)
}

func TestFromWorkbook(t *testing.T) {
	b := assembler.New()
	require.NoError(t, b.AddSheet("ProductsTable", products(6)))
	require.NoError(t, b.AddTable("ProductsTable", "Products", fixture.MustRange("A1:F11"), medium9))
	wb, err := b.Finalize()
	require.NoError(t, err)

	v := assembler.FromWorkbook(wb)
	require.NoError(t, v.AppendRows("ProductsTable", products(6)[1:]...))
	require.NoError(t, v.AddSheet("Extra", []fixture.Row{fixture.TextRow("x")}))
	requireValidation(t, v.AddTable("ProductsTable", "products", fixture.MustRange("A12:F21"), medium9), fixture.ErrDuplicateTableName)
	wb2, err := v.Finalize()
	require.NoError(t, err)

	orig, _ := wb.Sheet("ProductsTable")
	variant, _ := wb2.Sheet("ProductsTable")
	assert.Equal(t, 11, orig.NumRows())
	assert.Equal(t, 21, variant.NumRows())
	assert.Equal(t, []string{"ProductsTable"}, wb.SheetNames())
	assert.Equal(t, []string{"ProductsTable", "Extra"}, wb2.SheetNames())
	assert.Len(t, wb2.Tables(), 1)
}

func TestImmutable(t *testing.T) {
	rows := products(6)
	b := assembler.New()
	require.NoError(t, b.AddSheet("P", rows))
	rows[1][0] = fixture.Text("changed")
	wb, err := b.Finalize()
	require.NoError(t, err)
	s, _ := wb.Sheet("P")
	assert.Equal(t, int64(1001), s.Row(2)[0].IntValue())
	s.Row(2)[0] = fixture.Text("changed")
	s, _ = wb.Sheet("P")
	assert.Equal(t, fixture.KindInteger, s.Row(2)[0].Kind())
}
