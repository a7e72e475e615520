// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package scenario assembles the fixture workbooks: comprehensive type
// coverage, large volume, table structures, business records and sample data.
package scenario

import (
	"context"
	"log/slog"
	"slices"

	"github.com/UNO-SOFT/fixture"
	"github.com/UNO-SOFT/fixture/assembler"
	"github.com/UNO-SOFT/fixture/edge"
	"github.com/UNO-SOFT/fixture/synth"
)

// DefaultLargeRows is the number of LargeData rows of LargeVolume, header excluded.
const DefaultLargeRows = 10_000

// Options of a scenario run.
type Options struct {
	Seed fixture.Seed
	// LargeRows is the number of LargeData rows; 0 means DefaultLargeRows.
	LargeRows int
	// Workers bounds the synthesis concurrency; 0 means GOMAXPROCS.
	Workers int
	// KeepNegativeZero records on the negative zero entry that readers
	// should show it as -0.
	KeepNegativeZero bool
	Logger           *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o Options) builder() *assembler.Builder {
	return assembler.New(assembler.WithLogger(o.logger()))
}

func (o Options) synthesizer() *synth.Synthesizer {
	return synth.New(o.Seed, synth.WithWorkers(o.Workers), synth.WithLogger(o.logger()))
}

func (o Options) library() *edge.Library {
	return edge.New(o.Seed, edge.WithNegativeZeroNormalized(!o.KeepNegativeZero))
}

// BuildFunc builds the workbook of a scenario.
type BuildFunc func(context.Context, Options) (*fixture.Workbook, error)

// Scenario is a named workbook recipe.
type Scenario struct {
	Name        string
	Description string
	Build       BuildFunc
}

var registry = []Scenario{
	{Name: "comprehensive", Build: Comprehensive,
		Description: "every cell type, formulas, scripts, multi-line texts, date boundaries and edge cases"},
	{Name: "large", Build: LargeVolume,
		Description: "10,000 personnel rows plus a 50 row secondary sheet"},
	{Name: "tables", Build: TableStructures,
		Description: "styled tables, one with calculated totals, and an unformatted range"},
	{Name: "business", Build: BusinessRecords,
		Description: "customer orders, project timeline, product inventory and employees"},
	{Name: "sample", Build: SampleData,
		Description: "monthly sales with SUM and AVERAGE, employees with IF bonuses, metrics"},
}

// Names returns the registered scenario names.
func Names() []string {
	names := make([]string, len(registry))
	for i, s := range registry {
		names[i] = s.Name
	}
	return names
}

// All returns every registered scenario.
func All() []Scenario { return slices.Clone(registry) }

// Lookup returns the named scenario.
func Lookup(name string) (Scenario, error) {
	for _, s := range registry {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fixture.NewConfigError("scenario", "unknown scenario %q (known: %v)", name, Names())
}

// synthesize adds a sheet with n rows of the named built-in dataset.
func synthesize(ctx context.Context, b *assembler.Builder, s *synth.Synthesizer, dataset string, n int) (string, error) {
	spec, err := synth.Builtin(dataset)
	if err != nil {
		return "", err
	}
	ds, err := synth.Compile(spec)
	if err != nil {
		return "", err
	}
	rows, err := s.Generate(ctx, ds, n)
	if err != nil {
		return "", err
	}
	return ds.Sheet, b.AddSheet(ds.Sheet, rows)
}

type formula struct {
	cell, text, ref string
}

// attach attaches formulas given in A1 notation; an empty ref means none.
func attach(b *assembler.Builder, sheet string, formulas ...formula) error {
	for _, f := range formulas {
		var ref fixture.Range
		if f.ref != "" {
			var err error
			if ref, err = fixture.ParseRange(f.ref); err != nil {
				return err
			}
		}
		pos, err := fixture.ParseCellRef(f.cell)
		if err != nil {
			return err
		}
		if err := b.AttachFormula(sheet, pos, f.text, ref); err != nil {
			return err
		}
	}
	return nil
}
