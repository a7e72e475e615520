// Copyright 2021, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package pdf renders a workbook sheet as a PDF table listing.
package pdf

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"math"
	"unicode/utf8"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/UNO-SOFT/fixture"
)

// DefaultAlternateColor is the background of every second row.
var DefaultAlternateColor = Color{Color: props.Color{Red: 230, Green: 230, Blue: 230}}

// Options of Render.
type Options struct {
	// Sheet to render; empty means the first one.
	Sheet string
	// FontSize of the content; the header is 1.375 times bigger. 0 means 8.
	FontSize       float64
	Landscape      bool
	PageNumbers    bool
	AlternateColor *Color
	Logger         *slog.Logger
}

// Render writes the sheet as a table listing, the first row being the header.
func Render(w io.Writer, wb *fixture.Workbook, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.FontSize == 0 {
		opts.FontSize = 8
	}
	if opts.AlternateColor == nil {
		opts.AlternateColor = &DefaultAlternateColor
	}
	sheet, ok := wb.Sheet(opts.Sheet)
	if opts.Sheet == "" {
		if sheets := wb.Sheets(); len(sheets) != 0 {
			sheet, ok = sheets[0], true
		}
	}
	if !ok {
		return fmt.Errorf("%w: %q", fixture.ErrUnknownSheet, opts.Sheet)
	}

	var contents [][]string
	for _, r := range sheet.Rows() {
		ss := make([]string, len(r))
		for i, c := range r {
			ss[i] = c.String()
		}
		contents = append(contents, ss)
	}
	if len(contents) == 0 {
		return fmt.Errorf("%s: %w", sheet.Name(), fixture.ErrEmptyWorkbook)
	}
	gridSize := GridSizes(contents)
	var total int
	for _, g := range gridSize {
		total += g
	}
	logger.Debug("grid", "sheet", sheet.Name(), "sizes", gridSize)

	cb := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithMaxGridSize(total)
	if opts.Landscape {
		cb = cb.WithOrientation(orientation.Horizontal)
	} else {
		cb = cb.WithOrientation(orientation.Vertical)
	}
	if opts.PageNumbers {
		cb = cb.WithPageNumber(props.PageNumber{Pattern: "{current} / {total}", Place: props.RightBottom})
	}
	m := maroto.New(cb.Build())

	headerProp := props.Text{
		Family: fontfamily.Arial, Style: fontstyle.Bold,
		Size: opts.FontSize * 1.375, Align: align.Center,
	}
	contentProp := props.Text{
		Family: fontfamily.Courier, Style: fontstyle.Normal,
		Size: opts.FontSize, Align: align.Center,
	}
	line := func(ss []string, prop props.Text, height float64) core.Row {
		r := row.New(height)
		for i, g := range gridSize {
			var s string
			if i < len(ss) {
				s = ss[i]
			}
			r.Add(text.NewCol(g, s, prop))
		}
		return r
	}
	if err := m.RegisterHeader(line(contents[0], headerProp, opts.FontSize*1.2)); err != nil {
		return err
	}
	rows := make([]core.Row, 0, len(contents)-1)
	for i, ss := range contents[1:] {
		r := line(ss, contentProp, opts.FontSize*0.6)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: &opts.AlternateColor.Color})
		}
		rows = append(rows, r)
	}
	m.AddRows(rows...)

	doc, err := m.Generate()
	if err != nil {
		return err
	}
	_, err = w.Write(doc.GetBytes())
	return err
}

// GridSizes distributes the grid among the columns by their average text width.
// Every column gets at least 1.
func GridSizes(contents [][]string) []int {
	var width int
	for _, row := range contents {
		width = max(width, len(row))
	}
	widths := make([]float64, width)
	var avg float64
	for _, row := range contents {
		for i, s := range row {
			n := float64(utf8.RuneCountInString(s))
			widths[i] += n
			avg += n
		}
	}
	if width == 0 {
		return nil
	}
	avg /= float64(width)
	sizes := make([]int, width)
	for i, w := range widths {
		if avg != 0 {
			sizes[i] = int(math.Round(4 * w / avg))
		}
		sizes[i] = max(sizes[i], 1)
	}
	return sizes
}

// Color is a flag.Value for an RGB color in hex: e6e6e6.
type Color struct {
	props.Color
}

func (c *Color) String() string {
	return fmt.Sprintf("%02x%02x%02x", c.Red, c.Green, c.Blue)
}

func (c *Color) Set(s string) error { return c.Parse(s) }

func (c *Color) Parse(s string) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) != 3 {
		return fmt.Errorf("color %q: need 3 bytes, got %d", s, len(b))
	}
	c.Red, c.Green, c.Blue = int(b[0]), int(b[1]), int(b[2])
	return nil
}
