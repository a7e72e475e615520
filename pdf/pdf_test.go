// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package pdf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UNO-SOFT/fixture"
	"github.com/UNO-SOFT/fixture/pdf"
	"github.com/UNO-SOFT/fixture/scenario"
)

func TestRender(t *testing.T) {
	wb, err := scenario.SampleData(context.Background(), scenario.Options{})
	require.NoError(t, err)
	for _, opts := range []pdf.Options{
		{},
		{Sheet: "Employees", Landscape: true, PageNumbers: true, FontSize: 10},
	} {
		var buf bytes.Buffer
		require.NoError(t, pdf.Render(&buf, wb, opts))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	}

	err = pdf.Render(&bytes.Buffer{}, wb, pdf.Options{Sheet: "Nope"})
	assert.ErrorIs(t, err, fixture.ErrUnknownSheet)
}

func TestGridSizes(t *testing.T) {
	assert.Nil(t, pdf.GridSizes(nil))
	assert.Equal(t, []int{4, 4}, pdf.GridSizes([][]string{{"ab", "cd"}}))
	sizes := pdf.GridSizes([][]string{
		{"ID", "Description", ""},
		{"1", "a very long description of the product"},
	})
	require.Len(t, sizes, 3)
	assert.Greater(t, sizes[1], sizes[0])
	assert.Equal(t, 1, sizes[2])
}

func TestColor(t *testing.T) {
	var c pdf.Color
	require.NoError(t, c.Set("0a0b0c"))
	assert.Equal(t, 10, c.Red)
	assert.Equal(t, 12, c.Blue)
	assert.Equal(t, "0a0b0c", c.String())
	assert.Error(t, c.Set("0a0b"))
	assert.Error(t, c.Set("zz"))
	assert.Equal(t, "e6e6e6", pdf.DefaultAlternateColor.String())
}
