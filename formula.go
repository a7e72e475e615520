// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"fmt"
	"strings"

	"github.com/xuri/efp"
)

// CheckFormula checks that text has the shape =FUNCTION(ARGS).
//
// Only the surface is checked: the leading '=', a function name, balanced
// parentheses outside string literals, and that the first call spans the
// whole text. Nothing is evaluated.
func CheckFormula(text string) error {
	bad := func(reason string) error {
		return fmt.Errorf("%w: formula %q: %s", ErrInvalidCellValue, text, reason)
	}
	if !strings.HasPrefix(text, "=") {
		return bad("missing leading '='")
	}
	body := text[1:]
	i := 0
	for i < len(body) && isFuncNameByte(body[i], i == 0) {
		i++
	}
	if i == 0 {
		return bad("missing function name")
	}
	if i == len(body) || body[i] != '(' {
		return bad("missing '(' after function name")
	}
	depth := 0
	inString := false
	for j := i; j < len(body); j++ {
		c := body[j]
		if inString {
			if c == '"' {
				// "" is an escaped quote inside a literal
				if j+1 < len(body) && body[j+1] == '"' {
					j++
					continue
				}
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return bad("unbalanced ')'")
			}
			if depth == 0 && j != len(body)-1 {
				return bad("text after the closing ')'")
			}
		}
	}
	if inString {
		return bad("unterminated string literal")
	}
	if depth != 0 {
		return bad("unbalanced '('")
	}
	return nil
}

func isFuncNameByte(c byte, first bool) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z':
		return true
	case first:
		return false
	case '0' <= c && c <= '9', c == '.', c == '_':
		return true
	}
	return false
}

// FormulaRanges returns the cell and range operands of a formula, such as
// "B2:B6" or "D2". Sheet-qualified operands keep their sheet in Range.Sheet.
func FormulaRanges(text string) []Range {
	ps := efp.ExcelParser()
	var ranges []Range
	for _, tok := range ps.Parse(strings.TrimPrefix(text, "=")) {
		if tok.TType != efp.TokenTypeOperand || tok.TSubType != efp.TokenSubTypeRange {
			continue
		}
		r, err := ParseRange(tok.TValue)
		if err != nil {
			// defined names are range operands too, and are not ours to check
			continue
		}
		ranges = append(ranges, r)
	}
	return ranges
}
