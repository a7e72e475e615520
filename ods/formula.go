// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package ods

import (
	"strings"

	"github.com/xuri/efp"

	"github.com/UNO-SOFT/fixture"
)

// OpenFormula translates an A1 formula such as =SUM(B2:B6) into the
// OpenFormula syntax of table:formula: of:=SUM([.B2:.B6]).
func OpenFormula(text string) string {
	ps := efp.ExcelParser()
	var buf strings.Builder
	buf.WriteString("of:=")
	for _, tok := range ps.Parse(strings.TrimPrefix(text, "=")) {
		switch tok.TType {
		case efp.TokenTypeFunction, efp.TokenTypeSubexpression:
			if tok.TSubType == efp.TokenSubTypeStop {
				buf.WriteByte(')')
			} else {
				buf.WriteString(tok.TValue)
				buf.WriteByte('(')
			}
		case efp.TokenTypeArgument:
			buf.WriteByte(';')
		case efp.TokenTypeWhitespace:
			buf.WriteByte(' ')
		case efp.TokenTypeOperand:
			switch tok.TSubType {
			case efp.TokenSubTypeText:
				buf.WriteByte('"')
				buf.WriteString(strings.ReplaceAll(tok.TValue, `"`, `""`))
				buf.WriteByte('"')
			case efp.TokenSubTypeRange:
				if r, err := fixture.ParseRange(tok.TValue); err == nil {
					buf.WriteString(reference(r))
				} else {
					buf.WriteString(tok.TValue)
				}
			default:
				buf.WriteString(tok.TValue)
			}
		default:
			buf.WriteString(tok.TValue)
		}
	}
	return buf.String()
}

// reference returns r in bracketed OpenFormula notation: [.B2:.B6] or ['Other'.A1].
func reference(r fixture.Range) string {
	prefix := "."
	if r.Sheet != "" {
		prefix = "$" + quoteSheet(r.Sheet) + "."
	}
	s := "[" + prefix + r.Start.String()
	if r.End != r.Start {
		s += ":." + r.End.String()
	}
	return s + "]"
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// cellRangeAddress returns the absolute address of r on sheet, as used by
// table:target-range-address.
func cellRangeAddress(sheet string, r fixture.Range) string {
	q := quoteSheet(sheet)
	return q + "." + r.Start.String() + ":" + q + "." + r.End.String()
}
