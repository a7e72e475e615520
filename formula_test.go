// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package fixture_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/UNO-SOFT/fixture"
)

func TestCheckFormula(t *testing.T) {
	for _, text := range []string{
		"=SUM(B2:B6)",
		`=IF(B2>15,"High","Low")`,
		"=ROUND(3.14159,2)",
		"=IF(D2, C2*0.1, 0)",
		`=CONCAT("(",A1,"""")`,
		"=LOG10(100)",
		"=T.TEST(A1:A3,B1:B3,2,1)",
	} {
		assert.NoError(t, fixture.CheckFormula(text), text)
	}
	for _, text := range []string{
		"", "SUM(A1)", "=", "=C2*D2", "=(A1)", "=SUM A1", "=SUM(A1", "=SUM(A1))",
		"=SUM(A1)+1", `=LEN("abc)`, "=1SUM(A1)",
	} {
		assert.ErrorIs(t, fixture.CheckFormula(text), fixture.ErrInvalidCellValue, text)
	}
}

func TestFormulaRanges(t *testing.T) {
	assert.Equal(t,
		[]fixture.Range{fixture.MustRange("B2:B6")},
		fixture.FormulaRanges("=SUM(B2:B6)"))
	assert.Equal(t,
		[]fixture.Range{fixture.MustRange("D2"), fixture.MustRange("C2")},
		fixture.FormulaRanges("=IF(D2, C2*0.1, 0)"))
	assert.Equal(t,
		[]fixture.Range{fixture.MustRange("Other!A1:A3")},
		fixture.FormulaRanges("=SUM(Other!A1:A3)"))
	assert.Empty(t, fixture.FormulaRanges(`=IF(TRUE,"B2",SQRT(144))`))
}
