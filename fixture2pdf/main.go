// Copyright 2021, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Command fixture2pdf renders a sheet of a fixture scenario, or a CSV file, as a PDF table.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/UNO-SOFT/zlog/v2"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/UNO-SOFT/fixture"
	"github.com/UNO-SOFT/fixture/assembler"
	"github.com/UNO-SOFT/fixture/pdf"
	"github.com/UNO-SOFT/fixture/scenario"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(); err != nil {
		slog.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

func Main() error {
	alternateColor := pdf.DefaultAlternateColor

	fs := flag.NewFlagSet("fixture2pdf", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	flagEnc := fs.String("charset", fixture.EncName, "csv charset name")
	flagOut := fs.String("o", "", "output file name (default input + .pdf)")
	fs.Var(&alternateColor, "alternate-color", "alternate color")
	flagLandscape := fs.Bool("L", false, "landscape orientation (default: portrait)")
	flagFontSize := fs.Float64("f", 8, "font size")
	flagPrintPagenum := fs.Bool("print-pagenum", false, "print page numbers")
	flagSheet := fs.String("sheet", "", "sheet to render (default: the first)")
	flagSeed := fs.Uint64("seed", 0, "random seed of the scenario")
	flagLargeRows := fs.Int("large-rows", scenario.DefaultLargeRows, "number of LargeData rows")

	app := ffcli.Command{Name: "fixture2pdf", FlagSet: fs,
		ShortUsage: "fixture2pdf [flags] <scenario|file.csv>",
		Options:    []ff.Option{ff.WithEnvVarPrefix("FIXTURE2PDF")},
		Exec: func(ctx context.Context, args []string) error {
			input := "-"
			if len(args) != 0 {
				input = args[0]
			}
			wb, err := load(ctx, input, *flagEnc, scenario.Options{
				Seed: fixture.Seed(*flagSeed), LargeRows: *flagLargeRows, Logger: logger,
			})
			if err != nil {
				return err
			}

			out := *flagOut
			if out == "" && input != "" && input != "-" {
				out = input + ".pdf"
			}
			fh := os.Stdout
			if !(out == "" || out == "-") {
				if fh, err = os.Create(out); err != nil {
					return err
				}
				defer fh.Close()
			}
			if err = pdf.Render(fh, wb, pdf.Options{
				Sheet:          *flagSheet,
				FontSize:       *flagFontSize,
				Landscape:      *flagLandscape,
				PageNumbers:    *flagPrintPagenum,
				AlternateColor: &alternateColor,
				Logger:         logger,
			}); err != nil {
				return err
			}
			if fh == os.Stdout {
				return nil
			}
			return fh.Close()
		},
	}

	args := make([]string, 0, len(os.Args))
	for _, a := range os.Args[1:] {
		if strings.HasPrefix(a, "-f") && len(a) > 2 && '0' <= a[2] && a[2] <= '9' {
			args = append(args, "-f", a[2:])
		} else {
			args = append(args, a)
		}
	}
	logger.Debug("args", "original", os.Args[1:], "fixed", args)
	if err := app.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return app.Run(ctx)
}

// load reads a CSV file ("-" is stdin) into a one-sheet workbook,
// or builds the named scenario.
func load(ctx context.Context, input, encName string, opts scenario.Options) (*fixture.Workbook, error) {
	if input == "-" || strings.HasSuffix(input, ".csv") {
		rows, err := fixture.ReadCsvRows(input, encName)
		if err != nil {
			return nil, err
		}
		name := "Sheet1"
		if input != "-" {
			name = strings.TrimSuffix(filepath.Base(input), ".csv")
		}
		b := assembler.New(assembler.WithLogger(opts.Logger))
		if err = b.AddSheet(name, rows); err != nil {
			return nil, err
		}
		return b.Finalize()
	}
	s, err := scenario.Lookup(input)
	if err != nil {
		return nil, err
	}
	return s.Build(ctx, opts)
}
