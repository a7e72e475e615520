// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package scenario

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/UNO-SOFT/fixture"
	"github.com/UNO-SOFT/fixture/assembler"
	"github.com/UNO-SOFT/fixture/edge"
)

// BusinessRecords returns the Customer Orders, Project Timeline,
// Product Inventory and Employees sheets.
func BusinessRecords(ctx context.Context, opts Options) (*fixture.Workbook, error) {
	b, s := opts.builder(), opts.synthesizer()
	for _, d := range []struct {
		dataset string
		rows    int
	}{
		{"orders", 50},
		{"projects", 12},
		{"inventory", 10},
		{"employees", 30},
	} {
		if _, err := synthesize(ctx, b, s, d.dataset, d.rows); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}

// SampleData returns the Sales sheet with SUM and AVERAGE formulas per row,
// the Employees sheet with IF formulas for the bonus, and Metrics.
func SampleData(ctx context.Context, opts Options) (*fixture.Workbook, error) {
	b := opts.builder()
	for _, add := range []func(*assembler.Builder) error{addSales, addBonuses, addMetrics} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := add(b); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }

func addSales(b *assembler.Builder) error {
	const sheet = "Sales"
	products := []string{
		"Widgets", "Gadgets", "Doohickeys", "Thingamajigs", "Sprockets",
		"Flanges", "Cogs", "Bearings", "Gizmos", "Contraptions",
	}
	header := fixture.TextRow("Product")
	for m := time.January; m <= time.December; m++ {
		header = append(header, fixture.Text(m.String()[:3]))
	}
	header = append(header, fixture.Text("Total"), fixture.Text("Avg"))
	rows := []fixture.Row{header}
	var formulas []formula
	for i := range 30 {
		product := products[i%len(products)]
		if i >= len(products) {
			product = fmt.Sprintf("%s %d", product, i/len(products))
		}
		row := fixture.Row{fixture.Text(product)}
		for j := range 12 {
			row = append(row, fixture.Real(round2(500+float64(i)*37.5+float64(j)*25.3)))
		}
		rows = append(rows, row)
		r := len(rows)
		months := fmt.Sprintf("B%d:M%d", r, r)
		formulas = append(formulas,
			formula{cell: fmt.Sprintf("N%d", r), text: "=SUM(" + months + ")", ref: months},
			formula{cell: fmt.Sprintf("O%d", r), text: "=AVERAGE(" + months + ")", ref: months},
		)
	}
	if err := b.AddSheet(sheet, rows); err != nil {
		return err
	}
	return attach(b, sheet, formulas...)
}

func addBonuses(b *assembler.Builder) error {
	const sheet = "Employees"
	rows := []fixture.Row{fixture.TextRow("Name", "Department", "Salary", "Active", "Start Date", "Bonus (10%)")}
	var formulas []formula
	for _, e := range []struct {
		name, dept string
		salary     int64
		active     bool
		start      fixture.CalendarTime
	}{
		{"Alice Johnson", "Engineering", 95000, true, fixture.Date(2020, time.January, 15)},
		{"Bob Smith", "Sales", 75000, true, fixture.Date(2019, time.June, 1)},
		{"Carol White", "Marketing", 68000, true, fixture.Date(2021, time.March, 10)},
		{"David Brown", "Engineering", 105000, true, fixture.Date(2018, time.September, 20)},
		{"Eve Davis", "Sales", 72000, false, fixture.Date(2022, time.February, 14)},
	} {
		rows = append(rows, fixture.Row{
			fixture.Text(e.name), fixture.Text(e.dept), fixture.Integer(e.salary),
			fixture.Boolean(e.active), fixture.DateTime(e.start).WithFormat(edge.FormatDate),
		})
		r := len(rows)
		formulas = append(formulas, formula{
			cell: fmt.Sprintf("F%d", r),
			text: fmt.Sprintf("=IF(D%d, C%d*0.1, 0)", r, r),
			ref:  fmt.Sprintf("C%d:D%d", r, r),
		})
	}
	if err := b.AddSheet(sheet, rows); err != nil {
		return err
	}
	return attach(b, sheet, formulas...)
}

func addMetrics(b *assembler.Builder) error {
	return b.AddSheet("Metrics", []fixture.Row{
		fixture.TextRow("Metric", "Value", "Change", "Status"),
		{fixture.Text("Revenue"), fixture.Integer(1250000), fixture.Real(12.5), fixture.Text("Up")},
		{fixture.Text("Customers"), fixture.Integer(4580), fixture.Real(-2.3), fixture.Text("Down")},
		{fixture.Text("Satisfaction"), fixture.Real(4.7), fixture.Real(0.3), fixture.Text("Up")},
		{fixture.Text("Churn Rate"), fixture.Real(3.2), fixture.Real(-0.5), fixture.Text("Down")},
	})
}
