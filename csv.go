package fixture

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// EncName is the default charset, derived from $LANG.
var EncName = EncNameFromLang(os.Getenv("LANG"))

// EncNameFromLang returns the charset of a locale such as "hu_HU.ISO-8859-2@euro".
// Locales without a charset (C, POSIX) and unknown charsets give "utf-8".
func EncNameFromLang(lang string) string {
	i := strings.IndexByte(lang, '.')
	if i < 0 {
		return "utf-8"
	}
	name := strings.ToLower(lang[i+1:])
	if j := strings.IndexByte(name, '@'); j >= 0 {
		name = name[:j]
	}
	if _, err := GetEncoding(name); err != nil || name == "" {
		return "utf-8"
	}
	return name
}

func GetEncoding(encName string) (encoding.Encoding, error) {
	encName = strings.ToLower(encName)
	if encName == "" || encName == "utf-8" || encName == "utf8" {
		return nil, nil
	}
	enc, err := htmlindex.Get(encName)
	if err != nil {
		err = fmt.Errorf("%q: %w", encName, err)
	}
	return enc, err
}

type csvReadCloser struct {
	*csv.Reader
	io.Closer
}

// OpenCsv opens fn ("" or "-" is stdin) for reading, guessing the separator
// from the first non-letter, non-number rune.
func OpenCsv(fn, encName string) (csvReadCloser, error) {
	var enc encoding.Encoding
	if encName != "" {
		var err error
		if enc, err = GetEncoding(encName); err != nil {
			return csvReadCloser{}, err
		}
	}
	fh := os.Stdin
	if !(fn == "" || fn == "-") {
		var err error
		if fh, err = os.Open(fn); err != nil {
			return csvReadCloser{}, err
		}
	}
	r := io.ReadCloser(fh)
	if enc != nil {
		r = struct {
			io.Reader
			io.Closer
		}{enc.NewDecoder().Reader(r), r}
	}
	br := bufio.NewReaderSize(r, 1<<20)
	b, err := br.Peek(1024)
	if err != nil && len(b) == 0 {
		return csvReadCloser{}, err
	}
	sep := rune(',')
	for _, r := range string(b) {
		if r == '"' || r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) {
			continue
		}
		sep = r
		break
	}

	cr := csv.NewReader(br)
	cr.ReuseRecord = true
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	return csvReadCloser{cr, r}, nil
}

// ReadCsvRows reads a whole CSV file as text rows.
func ReadCsvRows(fn, encName string) ([]Row, error) {
	cr, err := OpenCsv(fn, encName)
	if err != nil {
		return nil, err
	}
	defer cr.Close()
	var rows []Row
	for {
		rec, err := cr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return rows, fmt.Errorf("%s:%d: %w", fn, len(rows)+1, err)
		}
		rows = append(rows, TextRow(rec...))
	}
	return rows, nil
}

var _ = (Writer)((*CSVWriter)(nil))

// CSVWriter writes every sheet into its own CSV stream.
// Tables cannot be represented and are skipped; formulas are written as their text.
//
// Separate sheets may be written concurrently.
type CSVWriter struct {
	open func(sheet string) (io.WriteCloser, error)
	enc  encoding.Encoding
	mu   sync.Mutex
}

type csvSheet struct {
	w      io.WriteCloser
	enc    io.Closer
	cw     *csv.Writer
	record []string
}

// NewCSVWriter returns a Writer which calls open for each sheet,
// and encodes the output with the named charset.
func NewCSVWriter(open func(sheet string) (io.WriteCloser, error), encName string) (*CSVWriter, error) {
	enc, err := GetEncoding(encName)
	if err != nil {
		return nil, err
	}
	return &CSVWriter{open: open, enc: enc}, nil
}

func (cw *CSVWriter) Close() error { return nil }

func (cw *CSVWriter) NewSheet(name string, cols []Column) (SheetWriter, error) {
	cw.mu.Lock()
	w, err := cw.open(name)
	cw.mu.Unlock()
	if err != nil {
		return nil, err
	}
	cs := &csvSheet{w: w}
	var out io.Writer = w
	if cw.enc != nil {
		out = cw.enc.NewEncoder().Writer(w)
		cs.enc, _ = out.(io.Closer)
	}
	cs.cw = csv.NewWriter(out)
	if len(cols) != 0 {
		for _, c := range cols {
			cs.record = append(cs.record, c.Name)
		}
		if err := cs.cw.Write(cs.record); err != nil {
			return nil, err
		}
	}
	return cs, nil
}

func (cs *csvSheet) AppendRow(cells ...Cell) error {
	cs.record = cs.record[:0]
	for _, c := range cells {
		cs.record = append(cs.record, c.String())
	}
	return cs.cw.Write(cs.record)
}

func (cs *csvSheet) AddTable(Table) error { return nil }

func (cs *csvSheet) Close() error {
	cs.cw.Flush()
	err := cs.cw.Error()
	if cs.enc != nil {
		if closeErr := cs.enc.Close(); err == nil {
			err = closeErr
		}
	}
	if err != nil {
		cs.w.Close()
		return err
	}
	return cs.w.Close()
}
