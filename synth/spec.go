// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package synth

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/UNO-SOFT/fixture"
)

// Kind is the generator of a column.
type Kind string

const (
	// Sequence is start + row*step, rendered through Template if set.
	Sequence Kind = "sequence"
	// Choice picks one of Values, or of ByValue[row[DependsOn]].
	// With Cycle it takes Values[row % len(Values)] instead and draws nothing.
	Choice Kind = "choice"
	// IntRange is a uniform integer in [Min, Max].
	IntRange Kind = "intRange"
	// RealRange is a uniform real in [Min, Max), rounded to Decimals.
	RealRange Kind = "realRange"
	// DateRange is Base + row*StepDays + a uniform offset in [MinOffsetDays, MaxOffsetDays].
	DateRange Kind = "dateRange"
	// DateAfter is the From column's date plus [MinDays, MaxDays] days; MinDays is at least 1.
	DateAfter Kind = "dateAfter"
	// Bool is true with Probability.
	Bool Kind = "bool"
	// Expr is derived from the preceding columns of the same row. It draws no randomness.
	Expr Kind = "expr"
)

// DatasetSpec declares a dataset: its sheet name and its columns.
//
// Columns are drawn in declaration order; Expr columns and DependsOn may
// only refer to earlier columns. EmptyWhen conditions are evaluated after
// the whole row is drawn and may refer to any column.
type DatasetSpec struct {
	Name    string       `yaml:"name"`
	Sheet   string       `yaml:"sheet"`
	Columns []ColumnSpec `yaml:"columns"`
}

// ColumnSpec declares one column. Only the fields of its Kind are used.
type ColumnSpec struct {
	Key    string `yaml:"key"`
	Header string `yaml:"header"`
	Kind   Kind   `yaml:"kind"`
	// Format is the display format of the cells.
	Format string `yaml:"format,omitempty"`
	// Hidden columns are drawn and usable from expressions but not emitted.
	Hidden bool `yaml:"hidden,omitempty"`
	// EmptyWhen is an expression; the cell is Empty where it is true.
	EmptyWhen string `yaml:"emptyWhen,omitempty"`

	Template string `yaml:"template,omitempty"`
	Start    int64  `yaml:"start,omitempty"`
	Step     int64  `yaml:"step,omitempty"`

	Values    []string            `yaml:"values,omitempty"`
	DependsOn string              `yaml:"dependsOn,omitempty"`
	ByValue   map[string][]string `yaml:"byValue,omitempty"`
	Cycle     bool                `yaml:"cycle,omitempty"`

	Min      float64 `yaml:"min,omitempty"`
	Max      float64 `yaml:"max,omitempty"`
	Decimals int     `yaml:"decimals,omitempty"`

	Base          string `yaml:"base,omitempty"`
	MinOffsetDays int    `yaml:"minOffsetDays,omitempty"`
	MaxOffsetDays int    `yaml:"maxOffsetDays,omitempty"`
	StepDays      int    `yaml:"stepDays,omitempty"`
	WithTime      bool   `yaml:"withTime,omitempty"`

	From    string `yaml:"from,omitempty"`
	MinDays int    `yaml:"minDays,omitempty"`
	MaxDays int    `yaml:"maxDays,omitempty"`

	Probability float64 `yaml:"probability,omitempty"`

	Expr string `yaml:"expr,omitempty"`
}

// Dataset is a compiled DatasetSpec.
type Dataset struct {
	Name   string
	Sheet  string
	cols   []column
	header fixture.Row
}

type column struct {
	ColumnSpec
	index     int
	depIndex  int
	base      time.Time
	scale     float64
	program   *vm.Program
	emptyWhen *vm.Program
}

// Header returns the header row: the headers of the visible columns.
func (ds *Dataset) Header() fixture.Row { return ds.header.Clone() }

// Width is the number of visible columns.
func (ds *Dataset) Width() int { return len(ds.header) }

// Compile checks spec and prepares it for generation.
// Every problem is reported as a *fixture.ConfigError.
func Compile(spec DatasetSpec) (*Dataset, error) {
	if spec.Name == "" {
		return nil, fixture.NewConfigError("name", "dataset has no name")
	}
	if len(spec.Columns) == 0 {
		return nil, fixture.NewConfigError(spec.Name, "dataset has no columns")
	}
	ds := &Dataset{Name: spec.Name, Sheet: spec.Sheet, cols: make([]column, 0, len(spec.Columns))}
	if ds.Sheet == "" {
		ds.Sheet = spec.Name
	}
	// sample holds a typed zero value for every column seen so far,
	// so that expressions are type-checked against earlier columns only.
	sample := make(map[string]any, len(spec.Columns))
	index := make(map[string]int, len(spec.Columns))
	for i, cs := range spec.Columns {
		field := spec.Name + "." + cs.Key
		if cs.Key == "" {
			return nil, fixture.NewConfigError(fmt.Sprintf("%s.columns[%d]", spec.Name, i), "missing key")
		}
		if _, ok := index[cs.Key]; ok {
			return nil, fixture.NewConfigError(field, "duplicate key")
		}
		c := column{ColumnSpec: cs, index: i, depIndex: -1}
		if err := c.compile(field, spec.Columns, index, sample); err != nil {
			return nil, err
		}
		index[cs.Key] = i
		ds.cols = append(ds.cols, c)
		if !cs.Hidden {
			h := cs.Header
			if h == "" {
				h = cs.Key
			}
			ds.header = append(ds.header, fixture.Text(h))
		}
	}
	for i := range ds.cols {
		c := &ds.cols[i]
		if c.EmptyWhen == "" {
			continue
		}
		prog, err := expr.Compile(c.EmptyWhen, expr.Env(sample), expr.AsBool())
		if err != nil {
			return nil, fixture.NewConfigError(spec.Name+"."+c.Key+".emptyWhen", "%v", err)
		}
		c.emptyWhen = prog
	}
	if len(ds.header) == 0 {
		return nil, fixture.NewConfigError(spec.Name, "every column is hidden")
	}
	return ds, nil
}

func (c *column) compile(field string, all []ColumnSpec, index map[string]int, sample map[string]any) error {
	bad := func(format string, args ...any) error { return fixture.NewConfigError(field, format, args...) }
	switch c.Kind {
	case Sequence:
		if c.Step == 0 {
			c.Step = 1
		}
		if c.Template != "" {
			sample[c.Key] = ""
		} else {
			sample[c.Key] = int64(0)
		}

	case Choice:
		if c.DependsOn == "" {
			if len(c.Values) == 0 {
				return bad("empty vocabulary")
			}
			sample[c.Key] = ""
			break
		}
		if c.Cycle {
			return bad("cycle cannot be used with dependsOn")
		}
		dep, ok := index[c.DependsOn]
		if !ok {
			return bad("dependsOn %q is not an earlier column", c.DependsOn)
		}
		if all[dep].Kind != Choice || all[dep].DependsOn != "" {
			return bad("dependsOn %q must be a plain choice column", c.DependsOn)
		}
		for _, v := range all[dep].Values {
			if len(c.ByValue[v]) == 0 {
				return bad("empty vocabulary for %s=%q", c.DependsOn, v)
			}
		}
		c.depIndex = dep
		sample[c.Key] = ""

	case IntRange:
		if c.Min > c.Max {
			return bad("min %v > max %v", c.Min, c.Max)
		}
		if c.Min != math.Trunc(c.Min) || c.Max != math.Trunc(c.Max) {
			return bad("bounds must be integers")
		}
		sample[c.Key] = 0

	case RealRange:
		if c.Min > c.Max {
			return bad("min %v > max %v", c.Min, c.Max)
		}
		if c.Decimals < 0 {
			return bad("negative decimals %d", c.Decimals)
		}
		if c.Decimals > 0 {
			c.scale = math.Pow10(c.Decimals)
		}
		sample[c.Key] = 0.0

	case DateRange:
		base, err := time.Parse(time.DateOnly, c.Base)
		if err != nil {
			return bad("base: %v", err)
		}
		if c.MinOffsetDays > c.MaxOffsetDays {
			return bad("minOffsetDays %d > maxOffsetDays %d", c.MinOffsetDays, c.MaxOffsetDays)
		}
		c.base = base
		sample[c.Key] = time.Time{}

	case DateAfter:
		dep, ok := index[c.From]
		if !ok {
			return bad("from %q is not an earlier column", c.From)
		}
		if k := all[dep].Kind; k != DateRange && k != DateAfter {
			return bad("from %q is not a date column", c.From)
		}
		if c.MinDays < 1 {
			return bad("minDays must be at least 1, got %d", c.MinDays)
		}
		if c.MinDays > c.MaxDays {
			return bad("minDays %d > maxDays %d", c.MinDays, c.MaxDays)
		}
		c.depIndex = dep
		sample[c.Key] = time.Time{}

	case Bool:
		if c.Probability < 0 || c.Probability > 1 {
			return bad("probability %v out of [0,1]", c.Probability)
		}
		sample[c.Key] = false

	case Expr:
		if c.Expr == "" {
			return bad("missing expr")
		}
		prog, err := expr.Compile(c.Expr, expr.Env(sample))
		if err != nil {
			return bad("%v", err)
		}
		c.program = prog
		// the dry run on zero values gives later expressions a typed sample
		var v any
		if out, err := expr.Run(prog, sample); err == nil {
			v = out
		}
		sample[c.Key] = v

	case "":
		return bad("missing kind")
	default:
		return bad("unknown kind %q", c.Kind)
	}
	return nil
}

// toCell converts a drawn or derived value into a cell.
func toCell(v any, format string) (fixture.Cell, error) {
	var c fixture.Cell
	switch x := v.(type) {
	case nil:
		return fixture.Empty(), nil
	case fixture.Cell:
		return x, nil
	case string:
		c = fixture.Text(x)
	case bool:
		c = fixture.Boolean(x)
	case float64:
		c = fixture.Real(x)
	case float32:
		c = fixture.Real(float64(x))
	case time.Time:
		c = fixture.DateTime(fixture.FromTime(x))
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			c = fixture.Integer(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			c = fixture.Integer(int64(rv.Uint()))
		default:
			return fixture.Cell{}, fmt.Errorf("%w: %T", fixture.ErrInvalidCellValue, v)
		}
	}
	if format != "" {
		c = c.WithFormat(format)
	}
	return c, nil
}
