// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package fixture_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UNO-SOFT/fixture"
)

// recorder is a fixture.Writer logging the calls it gets.
type recorder struct {
	calls  []string
	failOn string
}

type recorderSheet struct {
	*recorder
	name string
}

func (r *recorder) fail(call string) error {
	r.calls = append(r.calls, call)
	if r.failOn != "" && strings.HasPrefix(call, r.failOn) {
		return errors.New("boom")
	}
	return nil
}

func (r *recorder) Close() error { return r.fail("close") }

func (r *recorder) NewSheet(name string, cols []fixture.Column) (fixture.SheetWriter, error) {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
		if !c.Header.FontBold {
			names[i] += "(plain)"
		}
	}
	if err := r.fail(fmt.Sprintf("sheet %s %v", name, names)); err != nil {
		return nil, err
	}
	return recorderSheet{recorder: r, name: name}, nil
}

func (s recorderSheet) AppendRow(cells ...fixture.Cell) error {
	ss := make([]string, len(cells))
	for i, c := range cells {
		ss[i] = c.String()
	}
	return s.fail(fmt.Sprintf("row %s %v", s.name, ss))
}

func (s recorderSheet) AddTable(t fixture.Table) error {
	return s.fail(fmt.Sprintf("table %s %s", s.name, t.DisplayName))
}

func (s recorderSheet) Close() error { return s.fail("close " + s.name) }

func testWorkbook() *fixture.Workbook {
	return fixture.NewWorkbook(
		[]fixture.Sheet{
			fixture.NewSheet("A", []fixture.Row{
				fixture.TextRow("Name", "Value"),
				{fixture.Text("x"), fixture.Integer(1)},
			}),
			fixture.NewSheet("B", []fixture.Row{
				{fixture.Integer(1), fixture.Text("no header")},
			}),
		},
		[]fixture.Table{{Sheet: "A", DisplayName: "T", Range: fixture.MustRange("A1:B2")}},
		nil,
	)
}

func TestWrite(t *testing.T) {
	var r recorder
	require.NoError(t, fixture.Write(&r, testWorkbook()))
	assert.Equal(t, []string{
		"sheet A [Name Value]",
		"row A [x 1]",
		"table A T",
		"close A",
		"sheet B []",
		"row B [1 no header]",
		"close B",
		"close",
	}, r.calls)
}

func TestWriteError(t *testing.T) {
	for _, failOn := range []string{"sheet B", "row A", "table", "close A", "close"} {
		r := recorder{failOn: failOn}
		err := fixture.Write(&r, testWorkbook())
		require.Error(t, err, failOn)
		assert.ErrorIs(t, err, fixture.ErrSerialization, failOn)
		var se *fixture.SerializationError
		require.True(t, errors.As(err, &se), failOn)
		assert.Equal(t, "boom", se.Err.Error())
		assert.Equal(t, "close", r.calls[len(r.calls)-1], failOn)
	}

	// already typed errors pass through unchanged
	inner := &fixture.SerializationError{Op: "inner", Err: io.ErrShortWrite}
	w := errWriter{err: inner}
	assert.Same(t, inner, fixture.Write(w, testWorkbook()))
}

// abortRecorder is a recorder which can be aborted.
type abortRecorder struct{ *recorder }

func (r abortRecorder) Abort() error { return r.fail("abort") }

func TestWriteAbort(t *testing.T) {
	for _, failOn := range []string{"sheet B", "row A", "table", "close A"} {
		r := abortRecorder{&recorder{failOn: failOn}}
		err := fixture.Write(r, testWorkbook())
		require.Error(t, err, failOn)
		assert.ErrorIs(t, err, fixture.ErrSerialization, failOn)
		assert.Equal(t, "abort", r.calls[len(r.calls)-1], failOn)
		assert.NotContains(t, r.calls, "close", failOn)
	}

	r := abortRecorder{&recorder{}}
	require.NoError(t, fixture.Write(r, testWorkbook()))
	assert.Equal(t, "close", r.calls[len(r.calls)-1])
	assert.NotContains(t, r.calls, "abort")
}

type errWriter struct{ err error }

func (w errWriter) Close() error { return nil }
func (w errWriter) NewSheet(string, []fixture.Column) (fixture.SheetWriter, error) {
	return nil, w.err
}

func TestNeedsWrap(t *testing.T) {
	assert.True(t, fixture.NeedsWrap(fixture.Text("a\nb")))
	assert.True(t, fixture.NeedsWrap(fixture.Text("a\r\nb")))
	assert.False(t, fixture.NeedsWrap(fixture.Text("a b")))
	assert.False(t, fixture.NeedsWrap(fixture.Integer(1)))
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func TestCSVWriter(t *testing.T) {
	bufs := make(map[string]*bytes.Buffer)
	w, err := fixture.NewCSVWriter(func(sheet string) (io.WriteCloser, error) {
		bufs[sheet] = new(bytes.Buffer)
		return nopCloser{bufs[sheet]}, nil
	}, "iso-8859-2")
	require.NoError(t, err)
	wb := fixture.NewWorkbook([]fixture.Sheet{fixture.NewSheet("Ő", []fixture.Row{
		fixture.TextRow("Név", "Érték"),
		{fixture.Text("tűz, víz"), fixture.Real(1.5)},
		{fixture.Text("a\"b"), fixture.MustFormula("=SUM(B2)", fixture.MustRange("B2"))},
	})}, nil, nil)
	require.NoError(t, fixture.Write(w, wb))
	require.Contains(t, bufs, "Ő")
	// é is 0xE9, É is 0xC9, ű is 0xFB, í is 0xED in ISO-8859-2
	assert.Equal(t,
		"N\xe9v,\xc9rt\xe9k\n\"t\xfbz, v\xedz\",1.5\n\"a\"\"b\",=SUM(B2)\n",
		bufs["Ő"].String())

	_, err = fixture.NewCSVWriter(nil, "no-such-charset")
	assert.Error(t, err)
}

func TestEncNameFromLang(t *testing.T) {
	for lang, want := range map[string]string{
		"":                       "utf-8",
		"C":                      "utf-8",
		"POSIX":                  "utf-8",
		"C.UTF-8":                "utf-8",
		"en_US.UTF-8":            "utf-8",
		"hu_HU.ISO-8859-2":       "iso-8859-2",
		"de_DE.ISO-8859-15@euro": "iso-8859-15",
		"xx_XX.no-such-charset":  "utf-8",
		"xx_XX.":                 "utf-8",
	} {
		got := fixture.EncNameFromLang(lang)
		assert.Equal(t, want, got, lang)
		_, err := fixture.GetEncoding(got)
		assert.NoError(t, err, lang)
	}
}

func TestReadCsvRows(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(fn, []byte("a;b;c\n1;\"x;y\";\n2\n"), 0o600))
	rows, err := fixture.ReadCsvRows(fn, "utf-8")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, fixture.TextRow("a", "b", "c"), rows[0])
	assert.Equal(t, fixture.TextRow("1", "x;y", ""), rows[1])
	assert.Equal(t, fixture.TextRow("2"), rows[2])
}
