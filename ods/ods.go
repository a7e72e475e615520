// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package ods writes OpenDocument spreadsheets.
//
// Number formats are not carried over: percent and currency formats select
// the value type, everything else is written as a plain float.
package ods

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/compress/zip"
	qt "github.com/valyala/quicktemplate"

	"github.com/UNO-SOFT/fixture"
)

var (
	_ = (fixture.Writer)((*ODSWriter)(nil))
	_ = (fixture.Aborter)((*ODSWriter)(nil))
)

// MimeType of the OpenDocument spreadsheet, the first, stored member of the zip.
const MimeType = "application/vnd.oasis.opendocument.spreadsheet"

// MaxRowCount is the row limit of LibreOffice Calc.
const MaxRowCount = 1_048_576

// Cell style names of content.xml.
const (
	styleHeader = "ceH"
	styleWrap   = "ceW"
)

type ODSWriter struct {
	w      io.Writer
	sheets []*ODSSheet
	tables []fixture.Table
	logger *slog.Logger
	mu     sync.Mutex
	closed bool
}

// ODSSheet buffers its rows into a temporary file until the writer is closed.
type ODSSheet struct {
	Name   string
	f      *os.File
	bw     *bufio.Writer
	tables []fixture.Table
	width  int
	rows   int
	done   bool
	mu     sync.Mutex
	logger *slog.Logger
}

// Option configures an ODSWriter.
type Option func(*ODSWriter)

// WithLogger sets the logger.
func WithLogger(lgr *slog.Logger) Option { return func(ow *ODSWriter) { ow.logger = lgr } }

// NewWriter returns a fixture.Writer producing an .ods into w.
//
// Separate sheets may be written concurrently.
func NewWriter(w io.Writer, opts ...Option) *ODSWriter {
	ow := &ODSWriter{w: w}
	for _, o := range opts {
		o(ow)
	}
	if ow.logger == nil {
		ow.logger = slog.New(slog.DiscardHandler)
	}
	return ow
}

func (ow *ODSWriter) NewSheet(name string, columns []fixture.Column) (fixture.SheetWriter, error) {
	ow.mu.Lock()
	defer ow.mu.Unlock()
	if ow.closed {
		return nil, fmt.Errorf("%s: writer is closed", name)
	}
	// spreadsheet applications compare sheet names case-insensitively
	for _, s := range ow.sheets {
		if strings.EqualFold(s.Name, name) {
			return nil, fmt.Errorf("%s: sheet name clashes with %q", name, s.Name)
		}
	}
	f, err := os.CreateTemp("", "fixture-ods-*.xml")
	if err != nil {
		return nil, err
	}
	os.Remove(f.Name())
	ows := &ODSSheet{Name: name, f: f, bw: bufio.NewWriterSize(f, 1<<16), logger: ow.logger}
	ow.sheets = append(ow.sheets, ows)

	var hasHeader bool
	for _, c := range columns {
		if c.Name != "" {
			hasHeader = true
			break
		}
	}
	if hasHeader {
		qw := qt.AcquireWriter(ows.bw)
		qw.N().S("<table:table-row>")
		for _, c := range columns {
			ows.writeText(qw, c.Name, c.Header.FontBold)
		}
		qw.N().S("</table:table-row>\n")
		qt.ReleaseWriter(qw)
		ows.rows++
		ows.width = len(columns)
	}
	return ows, nil
}

func (ows *ODSSheet) AppendRow(cells ...fixture.Cell) error {
	ows.mu.Lock()
	defer ows.mu.Unlock()
	if ows.done {
		return fmt.Errorf("%s: sheet is closed", ows.Name)
	}
	if ows.rows >= MaxRowCount {
		return fixture.ErrTooManyRows
	}
	ows.rows++
	ows.width = max(ows.width, len(cells))
	qw := qt.AcquireWriter(ows.bw)
	defer qt.ReleaseWriter(qw)
	n, e := qw.N(), qw.E()
	n.S("<table:table-row>")
	for i, c := range cells {
		switch c.Kind() {
		case fixture.KindEmpty:
			n.S("<table:table-cell/>")
		case fixture.KindText:
			ows.writeText(qw, c.TextValue(), false)
		case fixture.KindInteger:
			writeFloat(n, "float", strconv.FormatInt(c.IntValue(), 10), c.String())
		case fixture.KindReal:
			writeFloat(n, valueType(c.Format()), strconv.FormatFloat(c.RealValue(), 'g', -1, 64), c.String())
		case fixture.KindBoolean:
			v := strconv.FormatBool(c.BoolValue())
			n.S(`<table:table-cell office:value-type="boolean" office:boolean-value="`)
			n.S(v)
			n.S(`"><text:p>`)
			n.S(strings.ToUpper(v))
			n.S("</text:p></table:table-cell>")
		case fixture.KindDateTime:
			t := c.TimeValue()
			n.S(`<table:table-cell office:value-type="date" office:date-value="`)
			n.S(t.Time().Format("2006-01-02T15:04:05"))
			n.S(`"><text:p>`)
			n.S(t.String())
			n.S("</text:p></table:table-cell>")
		case fixture.KindFormula:
			text, _ := c.Formula()
			n.S(`<table:table-cell table:formula="`)
			e.S(OpenFormula(text))
			n.S(`"/>`)
		default:
			return fmt.Errorf("%s[%d:%d]: %w: kind %v", ows.Name, ows.rows, i+1, fixture.ErrInvalidCellValue, c.Kind())
		}
	}
	n.S("</table:table-row>\n")
	return nil
}

// valueType maps the percent and currency formats to their value types.
func valueType(format string) string {
	switch {
	case strings.Contains(format, "%"):
		return "percentage"
	case strings.Contains(format, "$"):
		return "currency USD"
	case strings.Contains(format, "€"):
		return "currency EUR"
	}
	return "float"
}

func writeFloat(n *qt.QWriter, typ, value, display string) {
	typ, currency, _ := strings.Cut(typ, " ")
	n.S(`<table:table-cell office:value-type="`)
	n.S(typ)
	if currency != "" {
		n.S(`" office:currency="`)
		n.S(currency)
	}
	n.S(`" office:value="`)
	n.S(value)
	n.S(`"><text:p>`)
	n.S(display)
	n.S("</text:p></table:table-cell>")
}

// writeText writes a string cell, a paragraph per line.
// Tabs and space runs that would be collapsed are written as elements.
func (ows *ODSSheet) writeText(qw *qt.Writer, s string, bold bool) {
	n, e := qw.N(), qw.E()
	n.S(`<table:table-cell office:value-type="string"`)
	switch {
	case bold:
		n.S(` table:style-name="` + styleHeader + `"`)
	case strings.ContainsAny(s, "\r\n"):
		n.S(` table:style-name="` + styleWrap + `"`)
	}
	n.S(">")
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		n.S("<text:p>")
		for i := 0; i < len(line); {
			switch line[i] {
			case '\t':
				n.S("<text:tab/>")
				i++
			case ' ':
				j := i
				for j < len(line) && line[j] == ' ' {
					j++
				}
				if i != 0 && j != len(line) && j-i == 1 {
					n.S(" ")
				} else {
					n.S(`<text:s text:c="`)
					n.D(j - i)
					n.S(`"/>`)
				}
				i = j
			default:
				j := strings.IndexAny(line[i:], " \t")
				if j < 0 {
					j = len(line) - i
				}
				e.S(line[i : i+j])
				i += j
			}
		}
		n.S("</text:p>")
	}
	n.S("</table:table-cell>")
}

// AddTable records a database range over the already appended rows.
func (ows *ODSSheet) AddTable(t fixture.Table) error {
	ows.mu.Lock()
	defer ows.mu.Unlock()
	if t.Range.End.Row > ows.rows {
		return fmt.Errorf("%s: table %s range %s beyond row %d", ows.Name, t.DisplayName, t.Range, ows.rows)
	}
	t.Sheet = ows.Name
	ows.tables = append(ows.tables, t)
	return nil
}

// Close flushes the rows. The sheet is assembled when the ODSWriter is closed.
func (ows *ODSSheet) Close() error {
	ows.mu.Lock()
	defer ows.mu.Unlock()
	if ows.done {
		return nil
	}
	ows.done = true
	return ows.bw.Flush()
}

// Abort releases the sheets without writing anything.
func (ow *ODSWriter) Abort() error {
	ow.mu.Lock()
	defer ow.mu.Unlock()
	if ow.closed {
		return nil
	}
	ow.closed = true
	var errs []error
	for _, s := range ow.sheets {
		errs = append(errs, s.f.Close())
	}
	ow.logger.Debug("ods aborted", "sheets", len(ow.sheets))
	return errors.Join(errs...)
}

// Close assembles the zip: mimetype, manifest, styles and content.
func (ow *ODSWriter) Close() error {
	ow.mu.Lock()
	defer ow.mu.Unlock()
	if ow.closed {
		return nil
	}
	ow.closed = true
	defer func() {
		for _, s := range ow.sheets {
			s.f.Close()
		}
	}()
	for _, s := range ow.sheets {
		if err := s.Close(); err != nil {
			return fmt.Errorf("%s: %w", s.Name, err)
		}
	}

	zw := zip.NewWriter(ow.w)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return err
	}
	if _, err = io.WriteString(w, MimeType); err != nil {
		return err
	}
	for _, m := range []struct{ name, content string }{
		{"META-INF/manifest.xml", manifestXML},
		{"styles.xml", stylesXML},
	} {
		if w, err = zw.Create(m.name); err != nil {
			return err
		}
		if _, err = io.WriteString(w, m.content); err != nil {
			return err
		}
	}
	if w, err = zw.Create("content.xml"); err != nil {
		return err
	}
	if err = ow.writeContent(w); err != nil {
		return err
	}
	err = zw.Close()
	ow.logger.Debug("ods written", "sheets", len(ow.sheets), "tables", len(ow.tables), "error", err)
	return err
}

func (ow *ODSWriter) writeContent(w io.Writer) error {
	bw := bufio.NewWriterSize(w, 1<<16)
	qw := qt.AcquireWriter(bw)
	defer qt.ReleaseWriter(qw)
	n, e := qw.N(), qw.E()
	n.S(contentHead)
	var tables []fixture.Table
	for _, s := range ow.sheets {
		n.S(`<table:table table:name="`)
		e.S(s.Name)
		n.S(`">`)
		n.S(`<table:table-column table:number-columns-repeated="`)
		n.D(max(s.width, 1))
		n.S(`"/>` + "\n")
		if _, err := s.f.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("%s: %w", s.Name, err)
		}
		if _, err := io.Copy(bw, s.f); err != nil {
			return fmt.Errorf("%s: %w", s.Name, err)
		}
		n.S("</table:table>\n")
		tables = append(tables, s.tables...)
	}
	ow.tables = tables
	if len(tables) != 0 {
		n.S("<table:database-ranges>\n")
		for _, t := range tables {
			n.S(`<table:database-range table:name="`)
			e.S(t.DisplayName)
			n.S(`" table:target-range-address="`)
			e.S(cellRangeAddress(t.Sheet, t.Range))
			n.S(`" table:contains-header="true"/>` + "\n")
		}
		n.S("</table:database-ranges>\n")
	}
	n.S(contentTail)
	return bw.Flush()
}

const manifestXML = `<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.2">
 <manifest:file-entry manifest:full-path="/" manifest:version="1.2" manifest:media-type="` + MimeType + `"/>
 <manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>
 <manifest:file-entry manifest:full-path="styles.xml" manifest:media-type="text/xml"/>
</manifest:manifest>
`

const namespaces = ` xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"` +
	` xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0"` +
	` xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"` +
	` xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"` +
	` xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0"` +
	` xmlns:of="urn:oasis:names:tc:opendocument:xmlns:of:1.2"` +
	` office:version="1.2"`

const stylesXML = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-styles` + namespaces + `>
<office:styles>
 <style:default-style style:family="table-cell"><style:paragraph-properties style:tab-stop-distance="1.25cm"/></style:default-style>
</office:styles>
</office:document-styles>
`

const contentHead = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content` + namespaces + `>
<office:automatic-styles>
 <style:style style:name="` + styleHeader + `" style:family="table-cell"><style:text-properties fo:font-weight="bold"/></style:style>
 <style:style style:name="` + styleWrap + `" style:family="table-cell"><style:table-cell-properties fo:wrap-option="wrap" style:vertical-align="top"/></style:style>
</office:automatic-styles>
<office:body>
<office:spreadsheet>
`

const contentTail = `</office:spreadsheet>
</office:body>
</office:document-content>
`
