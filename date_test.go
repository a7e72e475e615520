// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package fixture_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/UNO-SOFT/fixture"
)

func TestSerial1900(t *testing.T) {
	d := fixture.Date
	for _, tc := range []struct {
		ct     fixture.CalendarTime
		serial float64
	}{
		{d(1900, time.January, 1), 1},
		{d(1900, time.January, 31), 31},
		{d(1900, time.February, 28), 59},
		{d(1900, time.March, 1), 61},
		{d(1900, time.December, 31), 366},
		{d(2000, time.January, 1), 36526},
		{d(2000, time.February, 29), 36585},
		{d(2024, time.January, 1), 45292},
		{d(2024, time.December, 3), 45629},
		{fixture.DateTimeOf(2024, time.June, 15, 12, 0, 0), 45458.5},
		{fixture.DateTimeOf(1900, time.January, 1, 6, 0, 0), 1.25},
	} {
		got, err := fixture.Serial1900(tc.ct)
		require.NoError(t, err, tc.ct)
		assert.Equal(t, tc.serial, got, tc.ct)

		back, err := fixture.FromSerial1900(got)
		require.NoError(t, err, tc.ct)
		assert.Equal(t, tc.ct, back)
	}
}

func TestSerial1900Errors(t *testing.T) {
	_, err := fixture.Serial1900(fixture.Date(1899, time.December, 31))
	assert.ErrorIs(t, err, fixture.ErrInvalidCellValue)
	_, err = fixture.Serial1900(fixture.CalendarTime{Year: 2023, Month: time.February, Day: 29})
	assert.ErrorIs(t, err, fixture.ErrInvalidCellValue)

	_, err = fixture.FromSerial1900(fixture.PhantomLeapDaySerial)
	assert.ErrorIs(t, err, fixture.ErrInvalidCellValue)
	_, err = fixture.FromSerial1900(0)
	assert.ErrorIs(t, err, fixture.ErrInvalidCellValue)

	// the naive reading maps the phantom day to a real one
	naive, err := fixture.FromSerialNaive(fixture.PhantomLeapDaySerial)
	require.NoError(t, err)
	assert.Equal(t, fixture.Date(1900, time.March, 1), naive)
}

func TestSerialRoundTrip(t *testing.T) {
	start := fixture.Date(1900, time.January, 1)
	rapid.Check(t, func(t *rapid.T) {
		ct := start.AddDays(rapid.IntRange(0, 80_000).Draw(t, "days"))
		ct.Hour = rapid.IntRange(0, 23).Draw(t, "hour")
		ct.Minute = rapid.IntRange(0, 59).Draw(t, "minute")
		ct.Second = rapid.IntRange(0, 59).Draw(t, "second")

		serial, err := fixture.Serial1900(ct)
		if err != nil {
			t.Fatal(err)
		}
		back, err := fixture.FromSerial1900(serial)
		if err != nil {
			t.Fatal(err)
		}
		if back != ct {
			t.Fatalf("%s -> %v -> %s", ct, serial, back)
		}

		naive, err := fixture.FromSerialNaive(serial)
		if err != nil {
			t.Fatal(err)
		}
		want := ct
		if ct.AffectedByLeapBug() {
			want = ct.AddDays(1)
		}
		if naive != want {
			t.Fatalf("naive %s: got %s, wanted %s", ct, naive, want)
		}
	})
}

func TestCalendarTime(t *testing.T) {
	ct := fixture.DateTimeOf(2024, time.February, 28, 23, 59, 59)
	assert.Equal(t, "2024-02-28 23:59:59", ct.String())
	assert.Equal(t, "2024-02-29", fixture.Date(2024, time.February, 29).String())
	assert.False(t, ct.IsMidnight())
	assert.True(t, ct.Valid())
	next := ct.AddDays(1)
	assert.Equal(t, fixture.DateTimeOf(2024, time.February, 29, 23, 59, 59), next)
	assert.True(t, ct.Before(next))
	assert.Equal(t, ct, fixture.FromTime(ct.Time()))
}
