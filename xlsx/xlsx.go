// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/fixture"
)

var (
	_ = (fixture.Writer)((*XLSXWriter)(nil))
	_ = (fixture.Aborter)((*XLSXWriter)(nil))
)

// MaxRowCount is the number of maximum rows.
const MaxRowCount = 1_048_576

// Default number formats of date cells.
const (
	DateFormat     = "yyyy-mm-dd"
	DateTimeFormat = "yyyy-mm-dd hh:mm:ss"
)

type XLSXWriter struct {
	w         io.Writer
	xl        *excelize.File
	styles    map[fixture.Style]int
	sheets    []string
	streaming bool
	logger    *slog.Logger
	mu        sync.Mutex
}

type XLSXSheet struct {
	xlw  *XLSXWriter
	sw   *excelize.StreamWriter
	Name string
	row  int
	mu   sync.Mutex
}

// Option configures an XLSXWriter.
type Option func(*XLSXWriter)

// WithStreaming makes the sheets be written with excelize's StreamWriter,
// which keeps only the current row in memory.
// Streaming sheets must not be written concurrently.
func WithStreaming(streaming bool) Option { return func(xlw *XLSXWriter) { xlw.streaming = streaming } }

// WithLogger sets the logger.
func WithLogger(lgr *slog.Logger) Option { return func(xlw *XLSXWriter) { xlw.logger = lgr } }

// NewWriter returns a new fixture.Writer.
//
// This writer allows concurrent writes to separate sheets, unless streaming.
//
// Without streaming this writer collects everything in memory, so big sheets may impose problems.
func NewWriter(w io.Writer, opts ...Option) *XLSXWriter {
	xlw := &XLSXWriter{w: w, xl: excelize.NewFile()}
	for _, o := range opts {
		o(xlw)
	}
	if xlw.logger == nil {
		xlw.logger = slog.New(slog.DiscardHandler)
	}
	return xlw
}

func (xlw *XLSXWriter) Close() error {
	if xlw == nil {
		return nil
	}
	xlw.mu.Lock()
	defer xlw.mu.Unlock()
	xl, w := xlw.xl, xlw.w
	xlw.xl, xlw.w = nil, nil
	if xl == nil || w == nil {
		return nil
	}
	defer xl.Close()
	n, err := xl.WriteTo(w)
	xlw.logger.Debug("xlsx written", "sheets", len(xlw.sheets), "bytes", n, "error", err)
	return err
}

// Abort drops the workbook without writing anything.
func (xlw *XLSXWriter) Abort() error {
	if xlw == nil {
		return nil
	}
	xlw.mu.Lock()
	defer xlw.mu.Unlock()
	xl := xlw.xl
	xlw.xl, xlw.w = nil, nil
	if xl == nil {
		return nil
	}
	xlw.logger.Debug("xlsx aborted", "sheets", len(xlw.sheets))
	return xl.Close()
}

func (xlw *XLSXWriter) NewSheet(name string, columns []fixture.Column) (fixture.SheetWriter, error) {
	xlw.mu.Lock()
	defer xlw.mu.Unlock()
	if xlw.xl == nil {
		return nil, fmt.Errorf("%s: writer is closed", name)
	}
	// the container compares sheet names case-insensitively
	for _, s := range xlw.sheets {
		if strings.EqualFold(s, name) {
			return nil, fmt.Errorf("%s: sheet name clashes with %q", name, s)
		}
	}
	for _, c := range columns {
		if err := checkText(c.Name); err != nil {
			return nil, fmt.Errorf("%s: header %.20q: %w", name, c.Name, err)
		}
	}
	if len(xlw.sheets) == 0 { // first
		if err := xlw.xl.SetSheetName("Sheet1", name); err != nil {
			return nil, err
		}
	} else if _, err := xlw.xl.NewSheet(name); err != nil {
		return nil, err
	}
	xlw.sheets = append(xlw.sheets, name)
	xls := &XLSXSheet{xlw: xlw, Name: name}
	if xlw.streaming {
		sw, err := xlw.xl.NewStreamWriter(name)
		if err != nil {
			return nil, err
		}
		xls.sw = sw
	}

	var hasHeader bool
	header := make([]any, len(columns))
	for i, c := range columns {
		if c.Name != "" {
			hasHeader = true
		}
		hs, err := xlw.getStyle(c.Header)
		if err != nil {
			return nil, err
		}
		header[i] = excelize.Cell{StyleID: hs, Value: c.Name}
		if xls.sw != nil {
			continue
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if s, err := xlw.getStyle(c.Column); err != nil {
			return nil, err
		} else if s != 0 {
			if err = xlw.xl.SetColStyle(name, col, s); err != nil {
				return nil, err
			}
		}
		if hs != 0 {
			if err = xlw.xl.SetCellStyle(name, col+"1", col+"1", hs); err != nil {
				return nil, err
			}
		}
		if c.Name != "" {
			if err = xlw.xl.SetCellStr(name, col+"1", c.Name); err != nil {
				return nil, err
			}
		}
	}
	if hasHeader {
		xls.row++
		if xls.sw != nil {
			if err := xls.sw.SetRow("A1", header); err != nil {
				return nil, err
			}
		}
	}
	return xls, nil
}

// getStyle returns the style ID for style, 0 for the default style.
// The caller must hold xlw.mu.
func (xlw *XLSXWriter) getStyle(style fixture.Style) (int, error) {
	if style == (fixture.Style{}) {
		return 0, nil
	}
	if s, ok := xlw.styles[style]; ok {
		return s, nil
	}
	var st excelize.Style
	if style.FontBold {
		st.Font = &excelize.Font{Bold: true}
	}
	if style.Format != "" {
		numFmt := style.Format
		st.CustomNumFmt = &numFmt
	}
	if style.WrapText {
		st.Alignment = &excelize.Alignment{WrapText: true, Vertical: "top"}
	}
	s, err := xlw.xl.NewStyle(&st)
	if err != nil {
		return 0, fmt.Errorf("style %+v: %w", style, err)
	}
	if xlw.styles == nil {
		xlw.styles = make(map[fixture.Style]int)
	}
	xlw.styles[style] = s
	return s, nil
}

func (xlw *XLSXWriter) styleID(style fixture.Style) (int, error) {
	xlw.mu.Lock()
	defer xlw.mu.Unlock()
	return xlw.getStyle(style)
}

func (xls *XLSXSheet) Close() error {
	xls.mu.Lock()
	defer xls.mu.Unlock()
	sw := xls.sw
	xls.sw = nil
	if sw == nil {
		return nil
	}
	return sw.Flush()
}

// AppendRow appends the cells as the next row.
//
// Dates are written as 1900 date system serials, with DateFormat or
// DateTimeFormat unless the cell has its own format.
func (xls *XLSXSheet) AppendRow(cells ...fixture.Cell) error {
	xls.mu.Lock()
	defer xls.mu.Unlock()
	if xls.row >= MaxRowCount {
		return fixture.ErrTooManyRows
	}
	xls.row++
	values := make([]any, len(cells))
	for i, c := range cells {
		axis, err := excelize.CoordinatesToCellName(i+1, xls.row)
		if err != nil {
			return fmt.Errorf("%d/%d: %w", i, xls.row, err)
		}
		v, err := xls.convert(c)
		if err != nil {
			return fmt.Errorf("%s[%s]: %w", xls.Name, axis, err)
		}
		if xls.sw != nil {
			values[i] = v
			continue
		}
		if err = xls.set(axis, c, v); err != nil {
			return fmt.Errorf("%s[%s]: %w", xls.Name, axis, err)
		}
	}
	if xls.sw != nil {
		axis, _ := excelize.CoordinatesToCellName(1, xls.row)
		if err := xls.sw.SetRow(axis, values); err != nil {
			return fmt.Errorf("%s[%s]: %w", xls.Name, axis, err)
		}
	}
	return nil
}

// convert returns the excelize representation of the cell.
func (xls *XLSXSheet) convert(c fixture.Cell) (excelize.Cell, error) {
	style := fixture.Style{Format: c.Format(), WrapText: fixture.NeedsWrap(c)}
	var cell excelize.Cell
	switch c.Kind() {
	case fixture.KindEmpty:
	case fixture.KindText:
		if err := checkText(c.TextValue()); err != nil {
			return cell, err
		}
		cell.Value = c.TextValue()
	case fixture.KindInteger:
		cell.Value = c.IntValue()
	case fixture.KindReal:
		cell.Value = c.RealValue()
	case fixture.KindBoolean:
		cell.Value = c.BoolValue()
	case fixture.KindDateTime:
		t := c.TimeValue()
		serial, err := fixture.Serial1900(t)
		if err != nil {
			return cell, err
		}
		cell.Value = serial
		if style.Format == "" {
			style.Format = DateFormat
			if !t.IsMidnight() {
				style.Format = DateTimeFormat
			}
		}
	case fixture.KindFormula:
		text, _ := c.Formula()
		cell.Formula = strings.TrimPrefix(text, "=")
	default:
		return cell, fmt.Errorf("%w: kind %v", fixture.ErrInvalidCellValue, c.Kind())
	}
	var err error
	cell.StyleID, err = xls.xlw.styleID(style)
	return cell, err
}

// checkText rejects texts which excelize would silently truncate.
// The limit is in UTF-16 code units.
func checkText(s string) error {
	if len(s) <= excelize.TotalCellChars {
		return nil
	}
	var n int
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	if n > excelize.TotalCellChars {
		return fmt.Errorf("%w: text of %d UTF-16 units exceeds %d", fixture.ErrInvalidCellValue, n, excelize.TotalCellChars)
	}
	return nil
}

func (xls *XLSXSheet) set(axis string, c fixture.Cell, v excelize.Cell) error {
	xl, name := xls.xlw.xl, xls.Name
	var err error
	switch c.Kind() {
	case fixture.KindEmpty:
	case fixture.KindText:
		err = xl.SetCellStr(name, axis, c.TextValue())
	case fixture.KindReal, fixture.KindDateTime:
		err = xl.SetCellFloat(name, axis, v.Value.(float64), -1, 64)
	case fixture.KindBoolean:
		err = xl.SetCellBool(name, axis, c.BoolValue())
	case fixture.KindFormula:
		err = xl.SetCellFormula(name, axis, v.Formula)
	default:
		err = xl.SetCellValue(name, axis, v.Value)
	}
	if err != nil || v.StyleID == 0 {
		return err
	}
	return xl.SetCellStyle(name, axis, axis, v.StyleID)
}

// AddTable defines a table over already appended rows.
func (xls *XLSXSheet) AddTable(t fixture.Table) error {
	xls.mu.Lock()
	defer xls.mu.Unlock()
	stripes := t.Style.ShowRowStripes
	tbl := excelize.Table{
		Range:             t.Range.String(),
		Name:              t.DisplayName,
		StyleName:         t.Style.Name,
		ShowRowStripes:    &stripes,
		ShowColumnStripes: t.Style.ShowColumnStripes,
		ShowFirstColumn:   t.Style.ShowFirstColumn,
		ShowLastColumn:    t.Style.ShowLastColumn,
	}
	if xls.sw != nil {
		return xls.sw.AddTable(&tbl)
	}
	return xls.xlw.xl.AddTable(xls.Name, &tbl)
}
