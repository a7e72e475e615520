// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package assembler builds validated workbooks.
//
// A Builder collects sheets, tables and formulas, checking every operation
// as it arrives. Finalize checks everything once more, fail-fast, and
// returns an immutable fixture.Workbook.
//
// A Builder is not safe for concurrent use.
package assembler

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/UNO-SOFT/fixture"
)

// ErrFinalized is returned by every mutation after a successful Finalize.
var ErrFinalized = errors.New("workbook is finalized")

type sheet struct {
	name string
	rows []fixture.Row
}

// Builder is a workbook under construction.
type Builder struct {
	sheets    []*sheet
	tables    []fixture.Table
	formulas  []fixture.FormulaRef
	finalized bool
	logger    *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger, which is discarding by default.
func WithLogger(lgr *slog.Logger) Option { return func(b *Builder) { b.logger = lgr } }

// New returns an empty Builder.
func New(opts ...Option) *Builder {
	b := &Builder{}
	for _, o := range opts {
		o(b)
	}
	if b.logger == nil {
		b.logger = slog.New(slog.DiscardHandler)
	}
	return b
}

// FromWorkbook returns a Builder holding a copy of wb, to derive variants
// of a finished workbook without synthesizing its data again.
func FromWorkbook(wb *fixture.Workbook, opts ...Option) *Builder {
	b := New(opts...)
	for _, s := range wb.Sheets() {
		rows := make([]fixture.Row, 0, s.NumRows())
		for _, r := range s.Rows() {
			rows = append(rows, r)
		}
		b.sheets = append(b.sheets, &sheet{name: s.Name(), rows: rows})
	}
	b.tables = wb.Tables()
	b.formulas = wb.Formulas()
	return b
}

func verr(kind error, sheet, subject, format string, args ...any) *fixture.ValidationError {
	return &fixture.ValidationError{Kind: kind, Sheet: sheet, Subject: subject, Detail: fmt.Sprintf(format, args...)}
}

func (b *Builder) sheet(name string) *sheet {
	for _, s := range b.sheets {
		if s.name == name {
			return s
		}
	}
	return nil
}

// SheetNames returns the names of the sheets added so far.
func (b *Builder) SheetNames() []string {
	names := make([]string, len(b.sheets))
	for i, s := range b.sheets {
		names[i] = s.name
	}
	return names
}

// AddSheet appends a sheet holding a copy of rows.
func (b *Builder) AddSheet(name string, rows []fixture.Row) error {
	if b.finalized {
		return ErrFinalized
	}
	if err := checkSheetName(name); err != nil {
		return err
	}
	if b.sheet(name) != nil {
		return verr(fixture.ErrDuplicateSheetName, name, "", "already present")
	}
	cp := make([]fixture.Row, len(rows))
	for i, r := range rows {
		cp[i] = r.Clone()
	}
	b.sheets = append(b.sheets, &sheet{name: name, rows: cp})
	b.logger.Debug("AddSheet", "name", name, "rows", len(rows))
	return nil
}

// AppendRows appends rows to an existing sheet.
func (b *Builder) AppendRows(sheetName string, rows ...fixture.Row) error {
	if b.finalized {
		return ErrFinalized
	}
	s := b.sheet(sheetName)
	if s == nil {
		return verr(fixture.ErrUnknownSheet, sheetName, "", "no such sheet")
	}
	for _, r := range rows {
		s.rows = append(s.rows, r.Clone())
	}
	return nil
}

// AddTable declares a table over rng of an existing sheet.
// The first row of rng is the header.
func (b *Builder) AddTable(sheetName, displayName string, rng fixture.Range, style fixture.TableStyle) error {
	if b.finalized {
		return ErrFinalized
	}
	if rng.Sheet != "" && rng.Sheet != sheetName {
		return verr(fixture.ErrMalformedTableRange, sheetName, displayName, "range is on sheet %q", rng.Sheet)
	}
	rng.Sheet = ""
	t := fixture.Table{Sheet: sheetName, DisplayName: displayName, Range: rng, Style: style}
	if err := b.checkTable(t, b.tables); err != nil {
		return err
	}
	b.tables = append(b.tables, t)
	b.logger.Debug("AddTable", "sheet", sheetName, "name", displayName, "range", rng.String())
	return nil
}

// AttachFormula places a formula into the cell at pos.
//
// ref is the range the formula reads; the zero Range means none.
// ref and every range operand of the text must lie within the sheet's
// current extent: its row count times its widest row.
// The row of pos must exist; it is padded with empty cells up to pos.
// A formula attached earlier to the same cell is replaced.
func (b *Builder) AttachFormula(sheetName string, pos fixture.CellRef, text string, ref fixture.Range) error {
	if b.finalized {
		return ErrFinalized
	}
	f := fixture.FormulaRef{Sheet: sheetName, Cell: pos, Text: text, Refers: ref}
	if err := b.checkFormula(f); err != nil {
		return err
	}
	cell, err := fixture.NewFormula(text, ref)
	if err != nil {
		return err
	}
	s := b.sheet(sheetName)
	row := s.rows[pos.Row-1]
	for len(row) < pos.Col {
		row = append(row, fixture.Empty())
	}
	row[pos.Col-1] = cell
	s.rows[pos.Row-1] = row
	b.formulas = slices.DeleteFunc(b.formulas, func(g fixture.FormulaRef) bool {
		return g.Sheet == f.Sheet && g.Cell == f.Cell
	})
	b.formulas = append(b.formulas, f)
	b.logger.Debug("AttachFormula", "sheet", sheetName, "cell", pos.String(), "formula", text)
	return nil
}

// Finalize checks every invariant and returns the finished Workbook.
// The first violation is returned: sheets are checked first, then tables,
// then formulas, each in the order they were added.
//
// After a successful Finalize the Builder refuses further changes.
func (b *Builder) Finalize() (*fixture.Workbook, error) {
	if b.finalized {
		return nil, ErrFinalized
	}
	if len(b.sheets) == 0 {
		return nil, verr(fixture.ErrEmptyWorkbook, "", "", "add at least one sheet")
	}
	seen := make(map[string]struct{}, len(b.sheets))
	for _, s := range b.sheets {
		if err := checkSheetName(s.name); err != nil {
			return nil, err
		}
		if _, ok := seen[s.name]; ok {
			return nil, verr(fixture.ErrDuplicateSheetName, s.name, "", "already present")
		}
		seen[s.name] = struct{}{}
	}
	for i, t := range b.tables {
		if err := b.checkTable(t, b.tables[:i]); err != nil {
			return nil, err
		}
	}
	for _, f := range b.formulas {
		if err := b.checkFormula(f); err != nil {
			return nil, err
		}
	}

	sheets := make([]fixture.Sheet, len(b.sheets))
	var rows int
	for i, s := range b.sheets {
		sheets[i] = fixture.NewSheet(s.name, s.rows)
		rows += len(s.rows)
	}
	b.finalized = true
	b.logger.Debug("Finalize", "sheets", len(sheets), "rows", rows, "tables", len(b.tables), "formulas", len(b.formulas))
	return fixture.NewWorkbook(sheets, b.tables, b.formulas), nil
}

// checkSheetName checks the characters of a sheet name.
// The length limit of the container is left to the writer.
func checkSheetName(name string) error {
	switch {
	case name == "":
		return verr(fixture.ErrInvalidSheetName, name, "", "empty name")
	case strings.ContainsAny(name, `[]:*?/\`):
		return verr(fixture.ErrInvalidSheetName, name, "", `contains one of []:*?/\`)
	case strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'"):
		return verr(fixture.ErrInvalidSheetName, name, "", "starts or ends with an apostrophe")
	}
	return nil
}

func (b *Builder) checkTable(t fixture.Table, previous []fixture.Table) error {
	s := b.sheet(t.Sheet)
	if s == nil {
		return verr(fixture.ErrUnknownSheet, t.Sheet, t.DisplayName, "no such sheet")
	}
	if err := checkTableName(t.DisplayName); err != nil {
		return verr(fixture.ErrInvalidTableName, t.Sheet, t.DisplayName, "%v", err)
	}
	for _, p := range previous {
		if strings.EqualFold(p.DisplayName, t.DisplayName) {
			return verr(fixture.ErrDuplicateTableName, t.Sheet, t.DisplayName, "already used on sheet %q", p.Sheet)
		}
	}
	if err := checkTableRange(s, t.Range); err != nil {
		return verr(fixture.ErrMalformedTableRange, t.Sheet, t.DisplayName, "%v", err)
	}
	for _, p := range previous {
		if p.Sheet == t.Sheet && p.Range.Overlaps(t.Range) {
			return verr(fixture.ErrOverlappingTables, t.Sheet, t.DisplayName, "%s overlaps %s of %s", t.Range, p.Range, p.DisplayName)
		}
	}
	return nil
}

// checkTableName checks the rules of table names: a letter, '_' or '\' first,
// then letters, digits, '_' and '.'; it must not look like a cell reference.
func checkTableName(name string) error {
	if name == "" {
		return errors.New("empty name")
	}
	if utf8.RuneCountInString(name) > 255 {
		return errors.New("longer than 255 characters")
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '\\' || unicode.IsLetter(r):
		case i != 0 && (r == '.' || ('0' <= r && r <= '9')):
		default:
			return fmt.Errorf("invalid character %q at %d", r, i)
		}
	}
	if strings.EqualFold(name, "R") || strings.EqualFold(name, "C") {
		return errors.New("R and C are reserved")
	}
	if _, err := fixture.ParseCellRef(name); err == nil {
		return errors.New("looks like a cell reference")
	}
	return nil
}

// checkTableRange checks that rng has a header of distinct non-empty texts,
// and that its data rows have cells for every column of rng.
func checkTableRange(s *sheet, rng fixture.Range) error {
	if rng.IsZero() || rng.Start.Row < 1 || rng.Start.Col < 1 {
		return errors.New("empty range")
	}
	if rng.Height() < 2 {
		return fmt.Errorf("%s has no data rows", rng)
	}
	if rng.End.Row > len(s.rows) {
		return fmt.Errorf("%s ends below the last row %d", rng, len(s.rows))
	}
	header := s.rows[rng.Start.Row-1]
	if len(header) < rng.End.Col {
		return fmt.Errorf("header has %d columns, the range needs %d", len(header)-rng.Start.Col+1, rng.Width())
	}
	names := make(map[string]struct{}, rng.Width())
	for col := rng.Start.Col; col <= rng.End.Col; col++ {
		c := header[col-1]
		if c.Kind() != fixture.KindText || c.TextValue() == "" {
			return fmt.Errorf("header cell %s is not a non-empty text: %v", fixture.CellRef{Col: col, Row: rng.Start.Row}, c)
		}
		k := strings.ToLower(c.TextValue())
		if _, ok := names[k]; ok {
			return fmt.Errorf("header %q is repeated", c.TextValue())
		}
		names[k] = struct{}{}
	}
	for r := rng.Start.Row + 1; r <= rng.End.Row; r++ {
		if n := len(s.rows[r-1]) - rng.Start.Col + 1; n < rng.Width() {
			return fmt.Errorf("row %d has %d columns, the header has %d", r, max(n, 0), rng.Width())
		}
	}
	return nil
}

func (b *Builder) checkFormula(f fixture.FormulaRef) error {
	s := b.sheet(f.Sheet)
	if s == nil {
		return verr(fixture.ErrUnknownSheet, f.Sheet, f.Cell.String(), "no such sheet")
	}
	if err := fixture.CheckFormula(f.Text); err != nil {
		return err
	}
	if f.Cell.Row < 1 || f.Cell.Col < 1 || f.Cell.Row > len(s.rows) {
		return verr(fixture.ErrOutOfBoundsReference, f.Sheet, f.Cell.String(), "the formula cell is outside the %d rows", len(s.rows))
	}
	if !f.Refers.IsZero() {
		if err := b.checkRef(s, f, f.Refers); err != nil {
			return err
		}
	}
	for _, rng := range fixture.FormulaRanges(f.Text) {
		if err := b.checkRef(s, f, rng); err != nil {
			return err
		}
	}
	return nil
}

// checkRef checks that rng lies within the extent of its sheet,
// which is s unless rng names another one.
func (b *Builder) checkRef(s *sheet, f fixture.FormulaRef, rng fixture.Range) error {
	if rng.Sheet != "" && rng.Sheet != s.name {
		if s = b.sheet(rng.Sheet); s == nil {
			return verr(fixture.ErrUnknownSheet, rng.Sheet, f.Cell.String(), "referenced by %s", f.Text)
		}
	}
	var width int
	for _, r := range s.rows {
		width = max(width, len(r))
	}
	if rng.Start.Row < 1 || rng.Start.Col < 1 || rng.End.Row > len(s.rows) || rng.End.Col > width {
		return verr(fixture.ErrOutOfBoundsReference, f.Sheet, f.Cell.String(),
			"%s is outside %s!A1:%s", rng, s.name, fixture.CellRef{Col: max(width, 1), Row: max(len(s.rows), 1)})
	}
	return nil
}
