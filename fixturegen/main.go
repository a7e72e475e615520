// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Command fixturegen writes the fixture workbooks as xlsx, ods or csv.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/UNO-SOFT/zlog/v2"
	"github.com/fatih/color"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/peterbourgon/ff/v3/ffyaml"
	"github.com/sourcegraph/conc/pool"

	"github.com/UNO-SOFT/fixture"
	"github.com/UNO-SOFT/fixture/assembler"
	"github.com/UNO-SOFT/fixture/ods"
	"github.com/UNO-SOFT/fixture/scenario"
	"github.com/UNO-SOFT/fixture/synth"
	"github.com/UNO-SOFT/fixture/xlsx"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(); err != nil {
		slog.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

type config struct {
	scenario.Options
	Format    string
	Charset   string
	Streaming bool
}

func Main() error {
	var cfg config
	fs := flag.NewFlagSet("fixturegen", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	seed := fs.Uint64("seed", 0, "random seed")
	fs.IntVar(&cfg.LargeRows, "large-rows", scenario.DefaultLargeRows, "number of LargeData rows")
	fs.IntVar(&cfg.Workers, "workers", 0, "synthesis workers (default GOMAXPROCS)")
	fs.BoolVar(&cfg.KeepNegativeZero, "keep-negative-zero", false, "expect readers to show -0")
	fs.StringVar(&cfg.Format, "format", "", "output format: xlsx, ods or csv (default from the file extension)")
	fs.StringVar(&cfg.Charset, "charset", fixture.EncName, "csv charset name")
	fs.BoolVar(&cfg.Streaming, "streaming", false, "stream xlsx rows instead of building the sheets in memory")
	_ = fs.String("config", "", "YAML config file")
	options := []ff.Option{
		ff.WithEnvVarPrefix("FIXTUREGEN"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ffyaml.Parser),
		ff.WithAllowMissingConfigFile(true),
	}
	setup := func() {
		cfg.Seed = fixture.Seed(*seed)
		cfg.Logger = logger
	}

	listCmd := ffcli.Command{Name: "list", ShortUsage: "list",
		ShortHelp: "list the scenarios and the built-in datasets",
		Exec: func(ctx context.Context, args []string) error {
			bold := color.New(color.Bold)
			bold.Println("Scenarios:")
			for _, s := range scenario.All() {
				fmt.Printf("  %-14s %s\n", s.Name, s.Description)
			}
			bold.Println("Datasets:")
			for _, name := range synth.Builtins() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	allCmd := ffcli.Command{Name: "all", ShortUsage: "all <dir>",
		ShortHelp: "write every scenario into dir as <scenario>.<format>",
		Exec: func(ctx context.Context, args []string) error {
			setup()
			dir := "."
			if len(args) != 0 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0750); err != nil {
				return err
			}
			format := cfg.Format
			if format == "" {
				format = "xlsx"
			}
			p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
			for _, s := range scenario.All() {
				p.Go(func(ctx context.Context) error {
					wb, err := s.Build(ctx, cfg.Options)
					if err != nil {
						return fmt.Errorf("%s: %w", s.Name, err)
					}
					return cfg.write(filepath.Join(dir, s.Name+"."+format), wb)
				})
			}
			return p.Wait()
		},
	}

	datasetFS := flag.NewFlagSet("dataset", flag.ContinueOnError)
	rows := datasetFS.Int("rows", 100, "number of rows")
	datasetCmd := ffcli.Command{Name: "dataset", ShortUsage: "dataset [-rows N] <name|spec.yaml> <output>",
		ShortHelp: "synthesize a built-in or a YAML dataset into a one-sheet workbook",
		FlagSet:   datasetFS,
		Exec: func(ctx context.Context, args []string) error {
			setup()
			if len(args) < 2 {
				return flag.ErrHelp
			}
			return cfg.dataset(ctx, args[0], *rows, args[1])
		},
	}

	app := ffcli.Command{Name: "fixturegen", FlagSet: fs, Options: options,
		ShortUsage:  "fixturegen [flags] <scenario> <output> [Sheet:file.csv...]",
		Subcommands: []*ffcli.Command{&listCmd, &allCmd, &datasetCmd},
		Exec: func(ctx context.Context, args []string) error {
			setup()
			if len(args) < 2 {
				return flag.ErrHelp
			}
			s, err := scenario.Lookup(args[0])
			if err != nil {
				return err
			}
			wb, err := s.Build(ctx, cfg.Options)
			if err != nil {
				return err
			}
			if len(args) > 2 {
				if wb, err = addCsvSheets(wb, cfg.Charset, args[2:]); err != nil {
					return err
				}
			}
			return cfg.write(args[1], wb)
		},
	}

	if err := app.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()
	err := app.Run(ctx)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, ffcli.DefaultUsageFunc(&app))
		return nil
	}
	return err
}

// dataset synthesizes rows of the built-in dataset name, or of the YAML
// file name, into a one-sheet workbook written to out.
func (cfg config) dataset(ctx context.Context, name string, rows int, out string) error {
	var spec synth.DatasetSpec
	var err error
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		spec, err = synth.LoadSpecFile(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	} else {
		spec, err = synth.Builtin(name)
	}
	if err != nil {
		return err
	}
	ds, err := synth.Compile(spec)
	if err != nil {
		return err
	}
	s := synth.New(cfg.Seed, synth.WithWorkers(cfg.Workers), synth.WithLogger(logger),
		synth.WithProgress(func(done, total int) { logger.Debug("progress", "done", done, "total", total) }))
	rs, err := s.Generate(ctx, ds, rows)
	if err != nil {
		return err
	}
	b := assembler.New(assembler.WithLogger(logger))
	if err = b.AddSheet(ds.Sheet, rs); err != nil {
		return err
	}
	wb, err := b.Finalize()
	if err != nil {
		return err
	}
	return cfg.write(out, wb)
}

// addCsvSheets appends a sheet per "Sheet:file.csv" (or "file.csv") argument.
func addCsvSheets(wb *fixture.Workbook, charset string, args []string) (*fixture.Workbook, error) {
	b := assembler.FromWorkbook(wb, assembler.WithLogger(logger))
	for i, fn := range args {
		sheetName := fmt.Sprintf("Sheet%d", i+1)
		if i := strings.IndexByte(fn, ':'); i >= 0 {
			sheetName, fn = fn[:i], fn[i+1:]
		} else if fn != "" && fn != "-" {
			sheetName = strings.TrimSuffix(filepath.Base(fn), ".csv")
		}
		rows, err := fixture.ReadCsvRows(fn, charset)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", fn, err)
		}
		if err = b.AddSheet(sheetName, rows); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}

// write writes wb to fn ("-" is stdout) in the format of the extension,
// and prints a summary.
func (cfg config) write(fn string, wb *fixture.Workbook) error {
	format := cfg.Format
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(fn), ".")
	}
	var fh io.WriteCloser = nopCloser{os.Stdout}
	if !(fn == "" || fn == "-") && format != "csv" {
		var err error
		if fh, err = os.Create(fn); err != nil {
			return err
		}
	}
	defer fh.Close()

	var w fixture.Writer
	switch format {
	case "xlsx", "":
		w = xlsx.NewWriter(fh, xlsx.WithStreaming(cfg.Streaming), xlsx.WithLogger(logger))
	case "ods":
		w = ods.NewWriter(fh, ods.WithLogger(logger))
	case "csv":
		var err error
		if w, err = fixture.NewCSVWriter(csvOpener(fn), cfg.Charset); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%s: unknown format %q", fn, format)
	}
	if err := fixture.Write(w, wb); err != nil {
		return err
	}
	if err := fh.Close(); err != nil {
		return err
	}
	summary(fn, wb)
	return nil
}

// csvOpener returns an opener of dir/base_<sheet>.csv files for fn,
// or of stdout for "-".
func csvOpener(fn string) func(string) (io.WriteCloser, error) {
	if fn == "" || fn == "-" {
		return func(string) (io.WriteCloser, error) { return nopCloser{os.Stdout}, nil }
	}
	base := strings.TrimSuffix(fn, ".csv")
	return func(sheet string) (io.WriteCloser, error) {
		return os.Create(base + "_" + strings.ReplaceAll(sheet, " ", "_") + ".csv")
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func summary(fn string, wb *fixture.Workbook) {
	if fn == "" || fn == "-" {
		return
	}
	green, faint := color.New(color.FgGreen, color.Bold), color.New(color.Faint)
	green.Fprintf(os.Stderr, "✓ %s\n", fn)
	for _, s := range wb.Sheets() {
		faint.Fprintf(os.Stderr, "  %-22s %6d rows %3d cols %d tables\n",
			s.Name(), s.NumRows(), s.Width(), len(wb.TablesOf(s.Name())))
	}
}
