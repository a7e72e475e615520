// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/UNO-SOFT/fixture"
	"github.com/UNO-SOFT/fixture/assembler"
	"github.com/UNO-SOFT/fixture/edge"
)

// Table styles of TableStructures.
var (
	ProductsStyle  = fixture.TableStyle{Name: "TableStyleMedium9", ShowRowStripes: true}
	SalesStyle     = fixture.TableStyle{Name: "TableStyleMedium2", ShowRowStripes: true}
	EmployeesStyle = fixture.TableStyle{Name: "TableStyleLight11", ShowRowStripes: true}
)

// TableStructures returns ProductsTable (table Products), SalesTable
// (table Sales, with Total formulas), EmployeesTable (table Employees)
// and UnformattedData, which has no table.
func TableStructures(ctx context.Context, opts Options) (*fixture.Workbook, error) {
	b := opts.builder()
	if err := addProductsTable(b); err != nil {
		return nil, err
	}
	if err := addSalesTable(b); err != nil {
		return nil, err
	}
	sheet, err := synthesize(ctx, b, opts.synthesizer(), "staff_table", 15)
	if err != nil {
		return nil, err
	}
	if err := b.AddTable(sheet, "Employees", fixture.MustRange("A1:F16"), EmployeesStyle); err != nil {
		return nil, err
	}
	if err := addUnformattedData(b); err != nil {
		return nil, err
	}
	return b.Finalize()
}

func productRows() []fixture.Row {
	type product struct {
		name, category string
		price          float64
		stock          int64
		supplier       string
	}
	products := []product{
		{"Wireless Mouse", "Electronics", 24.99, 150, "TechCorp"},
		{"USB-C Cable", "Accessories", 9.99, 500, "CableWorld"},
		{"Laptop Stand", "Accessories", 34.99, 75, "OfficePlus"},
		{"Mechanical Keyboard", "Electronics", 89.99, 45, "KeyMasters"},
		{"Webcam HD", "Electronics", 59.99, 120, "TechCorp"},
		{"Phone Charger", "Accessories", 19.99, 300, "ChargeIt"},
		{"Monitor Arm", "Office", 79.99, 30, "OfficePlus"},
		{"Desk Lamp LED", "Office", 44.99, 85, "LightWorks"},
		{"Cable Organizer", "Accessories", 12.99, 200, "OfficePlus"},
		{"USB Hub", "Electronics", 29.99, 160, "TechCorp"},
	}
	rows := []fixture.Row{fixture.TextRow("ProductID", "ProductName", "Category", "Price", "Stock", "Supplier")}
	for i, p := range products {
		rows = append(rows, fixture.Row{
			fixture.Integer(int64(1001 + i)), fixture.Text(p.name), fixture.Text(p.category),
			fixture.Real(p.price).WithFormat(edge.FormatDollar), fixture.Integer(p.stock), fixture.Text(p.supplier),
		})
	}
	return rows
}

func addProductsTable(b *assembler.Builder) error {
	if err := b.AddSheet("ProductsTable", productRows()); err != nil {
		return err
	}
	return b.AddTable("ProductsTable", "Products", fixture.MustRange("A1:F11"), ProductsStyle)
}

func addSalesTable(b *assembler.Builder) error {
	const sheet = "SalesTable"
	type sale struct {
		product, quantity int64
		price             float64
		day               int
	}
	sales := []sale{
		{1001, 2, 24.99, 15}, {1003, 1, 34.99, 16}, {1002, 5, 9.99, 16},
		{1004, 1, 89.99, 17}, {1005, 2, 59.99, 18}, {1001, 3, 24.99, 19},
		{1006, 4, 19.99, 20}, {1008, 1, 44.99, 21}, {1002, 10, 9.99, 22},
		{1007, 2, 79.99, 23},
	}
	rows := []fixture.Row{fixture.TextRow("OrderID", "ProductID", "Quantity", "UnitPrice", "Total", "OrderDate")}
	formulas := make([]formula, 0, len(sales))
	for i, s := range sales {
		rows = append(rows, fixture.Row{
			fixture.Integer(int64(5001 + i)), fixture.Integer(s.product), fixture.Integer(s.quantity),
			fixture.Real(s.price), fixture.Empty(),
			fixture.DateTime(fixture.Date(2024, time.January, s.day)).WithFormat(edge.FormatDate),
		})
		r := len(rows)
		formulas = append(formulas, formula{
			cell: fmt.Sprintf("E%d", r),
			text: fmt.Sprintf("=PRODUCT(C%d:D%d)", r, r),
			ref:  fmt.Sprintf("C%d:D%d", r, r),
		})
	}
	if err := b.AddSheet(sheet, rows); err != nil {
		return err
	}
	if err := attach(b, sheet, formulas...); err != nil {
		return err
	}
	return b.AddTable(sheet, "Sales", fixture.MustRange("A1:F11"), SalesStyle)
}

func addUnformattedData(b *assembler.Builder) error {
	rows := []fixture.Row{fixture.TextRow("Region", "Q1 Sales", "Q2 Sales", "Q3 Sales", "Q4 Sales")}
	for _, r := range []struct {
		region string
		q      [4]int64
	}{
		{"North", [4]int64{125000, 132000, 145000, 158000}},
		{"South", [4]int64{98000, 105000, 112000, 121000}},
		{"East", [4]int64{156000, 162000, 175000, 188000}},
		{"West", [4]int64{187000, 195000, 208000, 221000}},
	} {
		row := fixture.Row{fixture.Text(r.region)}
		for _, q := range r.q {
			row = append(row, fixture.Integer(q))
		}
		rows = append(rows, row)
	}
	return b.AddSheet("UnformattedData", rows)
}
