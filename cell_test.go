// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package fixture_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UNO-SOFT/fixture"
)

func TestCellString(t *testing.T) {
	tenth, fifth := 0.1, 0.2
	for want, c := range map[string]fixture.Cell{
		"":                    fixture.Empty(),
		"abc":                 fixture.Text("abc"),
		"-42":                 fixture.Integer(-42),
		"0.30000000000000004": fixture.Real(tenth + fifth),
		"TRUE":                fixture.Boolean(true),
		"2024-03-15":          fixture.DateTime(fixture.Date(2024, time.March, 15)),
		"=SUM(A1:A2)":         fixture.MustFormula("=SUM(A1:A2)", fixture.MustRange("A1:A2")),
	} {
		assert.Equal(t, want, c.String())
	}
}

func TestCellEqual(t *testing.T) {
	zero, negZero := fixture.Real(0), fixture.Real(math.Copysign(0, -1))
	assert.False(t, zero.Equal(negZero))
	assert.True(t, negZero.Equal(negZero))
	assert.False(t, fixture.Integer(1).Equal(fixture.Real(1)))
	assert.False(t, fixture.Real(1).Equal(fixture.Real(1).WithFormat("0%")))
	assert.True(t, fixture.Empty().Equal(fixture.Cell{}))

	f1 := fixture.MustFormula("=SUM(A1:A2)", fixture.MustRange("A1:A2"))
	f2 := fixture.MustFormula("=SUM(A1:A2)", fixture.MustRange("A1:A3"))
	assert.False(t, f1.Equal(f2))
}

func TestNewFormula(t *testing.T) {
	c, err := fixture.NewFormula("=SUM(B2:B6)", fixture.MustRange("B2:B6"))
	require.NoError(t, err)
	assert.Equal(t, fixture.KindFormula, c.Kind())
	text, ref := c.Formula()
	assert.Equal(t, "=SUM(B2:B6)", text)
	assert.Equal(t, "B2:B6", ref.String())

	_, err = fixture.NewFormula("SUM(B2:B6)", fixture.Range{})
	assert.ErrorIs(t, err, fixture.ErrInvalidCellValue)
	assert.Panics(t, func() { fixture.MustFormula("=", fixture.Range{}) })
}

func TestRow(t *testing.T) {
	r := fixture.TextRow("a", "b")
	c := r.Clone()
	c[0] = fixture.Integer(1)
	assert.Equal(t, "a", r[0].TextValue())
	assert.False(t, r.Equal(c))
	assert.True(t, r.Equal(fixture.TextRow("a", "b")))
	assert.Nil(t, fixture.Row(nil).Clone())
}

func TestSheet(t *testing.T) {
	rows := []fixture.Row{fixture.TextRow("H1", "H2"), {fixture.Integer(1)}}
	s := fixture.NewSheet("S", rows)
	rows[1][0] = fixture.Integer(2)
	assert.Equal(t, int64(1), s.Row(2)[0].IntValue())
	assert.Equal(t, 2, s.Width())
	assert.Nil(t, s.Row(3))

	c, ok := s.Cell(fixture.MustCellRef("B1"))
	require.True(t, ok)
	assert.Equal(t, "H2", c.TextValue())
	_, ok = s.Cell(fixture.MustCellRef("B2"))
	assert.False(t, ok)

	var seen []int
	for i, r := range s.Rows() {
		seen = append(seen, i)
		r[0] = fixture.Empty()
	}
	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, "H1", s.Row(1)[0].TextValue())
}
