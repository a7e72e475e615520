// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"fmt"
	"math"
	"time"
)

// CalendarTime is a wall-clock timestamp with no time zone and no epoch.
type CalendarTime struct {
	Year                 int
	Month                time.Month
	Day                  int
	Hour, Minute, Second int
}

// Date returns a CalendarTime at midnight.
func Date(year int, month time.Month, day int) CalendarTime {
	return CalendarTime{Year: year, Month: month, Day: day}
}

// DateTimeOf returns a CalendarTime with a time of day.
func DateTimeOf(year int, month time.Month, day, hour, min, sec int) CalendarTime {
	return CalendarTime{Year: year, Month: month, Day: day, Hour: hour, Minute: min, Second: sec}
}

// FromTime drops the location and sub-second part of t.
func FromTime(t time.Time) CalendarTime {
	return CalendarTime{
		Year: t.Year(), Month: t.Month(), Day: t.Day(),
		Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(),
	}
}

// Time returns ct as a UTC time.Time.
func (ct CalendarTime) Time() time.Time {
	return time.Date(ct.Year, ct.Month, ct.Day, ct.Hour, ct.Minute, ct.Second, 0, time.UTC)
}

// AddDays returns ct shifted by n calendar days.
func (ct CalendarTime) AddDays(n int) CalendarTime {
	return FromTime(ct.Time().AddDate(0, 0, n))
}

// Before reports whether ct is earlier than other.
func (ct CalendarTime) Before(other CalendarTime) bool { return ct.Time().Before(other.Time()) }

// IsMidnight reports whether the time of day is 00:00:00.
func (ct CalendarTime) IsMidnight() bool { return ct.Hour == 0 && ct.Minute == 0 && ct.Second == 0 }

// Valid reports whether ct names an existing calendar second.
func (ct CalendarTime) Valid() bool { return FromTime(ct.Time()) == ct }

func (ct CalendarTime) String() string {
	if ct.IsMidnight() {
		return fmt.Sprintf("%04d-%02d-%02d", ct.Year, ct.Month, ct.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", ct.Year, ct.Month, ct.Day, ct.Hour, ct.Minute, ct.Second)
}

var (
	serialEpoch = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)
	// LeapBugStart is the first date whose 1900-system serial is one higher
	// than the plain day count, as the system counts a 29 February 1900.
	LeapBugStart = Date(1900, time.March, 1)
)

const (
	secondsPerDay = 24 * 60 * 60
	// PhantomLeapDaySerial is the serial of the non-existent 1900-02-29.
	PhantomLeapDaySerial = 60
)

// AffectedByLeapBug reports whether ct is on or after 1900-03-01.
func (ct CalendarTime) AffectedByLeapBug() bool { return !ct.Before(LeapBugStart) }

// Serial1900 returns the day serial of the 1900 date system, including the
// leap-year compensation: 1900-01-01 is 1, 1900-02-28 is 59, 1900-03-01 is 61.
// The time of day is the fractional part.
func Serial1900(ct CalendarTime) (float64, error) {
	if !ct.Valid() {
		return 0, fmt.Errorf("%w: %+v is not a calendar date", ErrInvalidCellValue, ct)
	}
	if ct.Before(Date(1900, time.January, 1)) {
		return 0, fmt.Errorf("%w: %s is before the 1900 date system", ErrInvalidCellValue, ct)
	}
	days, frac := plainDays(ct)
	if ct.AffectedByLeapBug() {
		days++
	}
	return float64(days) + frac, nil
}

// FromSerial1900 is the inverse of Serial1900. The phantom day 60 is rejected.
func FromSerial1900(serial float64) (CalendarTime, error) {
	days, secs, err := splitSerial(serial)
	if err != nil {
		return CalendarTime{}, err
	}
	if days == PhantomLeapDaySerial {
		return CalendarTime{}, fmt.Errorf("%w: serial %d is the non-existent 1900-02-29", ErrInvalidCellValue, days)
	}
	if days > PhantomLeapDaySerial {
		days--
	}
	return fromPlainDays(days, secs), nil
}

// FromSerialNaive reads a serial as a plain day count from 1899-12-31,
// ignoring the leap-year compensation. Dates from 1900-03-01 on come back one day late.
func FromSerialNaive(serial float64) (CalendarTime, error) {
	days, secs, err := splitSerial(serial)
	if err != nil {
		return CalendarTime{}, err
	}
	return fromPlainDays(days, secs), nil
}

func plainDays(ct CalendarTime) (int, float64) {
	t := ct.Time()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := int(midnight.Sub(serialEpoch).Hours() / 24)
	secs := ct.Hour*3600 + ct.Minute*60 + ct.Second
	return days, float64(secs) / secondsPerDay
}

func splitSerial(serial float64) (int, int, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 {
		return 0, 0, fmt.Errorf("%w: serial %v out of range", ErrInvalidCellValue, serial)
	}
	days := math.Floor(serial)
	secs := int(math.Round((serial - days) * secondsPerDay))
	if secs >= secondsPerDay {
		days++
		secs -= secondsPerDay
	}
	return int(days), secs, nil
}

func fromPlainDays(days, secs int) CalendarTime {
	t := serialEpoch.AddDate(0, 0, days).Add(time.Duration(secs) * time.Second)
	return FromTime(t)
}
