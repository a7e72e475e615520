// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package edge

import (
	"fmt"
	"iter"
	"time"

	"github.com/UNO-SOFT/fixture"
)

const defaultSeriesDays = 30

// SeriesStart is the first day of a DateSeries: two weeks before the leap bug.
var SeriesStart = fixture.Date(1900, time.February, 14)

// dateSeries returns n consecutive days from SeriesStart, each with a random
// time of day. The first, the bug day and the last entries are pinned to
// midnight, 23:59:59 and midnight respectively.
func (l *Library) dateSeries(n int) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		// a fresh stream per iteration keeps the sequence restartable
		rng := l.seed.Named(string(DateSeries), uint64(n))
		for i := 0; i < n; i++ {
			day := SeriesStart.AddDays(i)
			secs := rng.IntN(24 * 60 * 60)
			switch {
			case i == 0, i == n-1:
				secs = 0
			case day == fixture.LeapBugStart:
				secs = 24*60*60 - 1
			}
			ct := day
			ct.Hour, ct.Minute, ct.Second = secs/3600, secs/60%60, secs%60
			e := dateEntry(fmt.Sprintf("Day %d", i+1), ct, "")
			e.Size = i + 1
			if e.Epoch == AfterLeapBug {
				e.Description = "after the phantom 1900-02-29"
			} else if e.Epoch == BeforeLeapBug {
				e.Description = "before the phantom 1900-02-29"
			}
			e.Category = DateSeries
			if !yield(e) {
				return
			}
		}
	}
}
