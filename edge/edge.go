// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package edge is a catalog of deliberately tricky cell values:
// date-system boundaries, scripts, multi-line and long texts, numeric
// extremes, whitespace and quoting variants.
//
// Every producer returns a finite sequence which yields the very same
// entries each time it is iterated.
package edge

import (
	"iter"
	"slices"

	"github.com/UNO-SOFT/fixture"
)

// Category names a family of edge cases.
type Category string

const (
	DateBoundary      Category = "date-boundary"
	DateSeries        Category = "date-series"
	UnicodeScript     Category = "unicode-script"
	MultilineText     Category = "multiline-text"
	NumericExtreme    Category = "numeric-extreme"
	WhitespaceVariant Category = "whitespace-variant"
	QuotingVariant    Category = "quoting-variant"
	TypeSample        Category = "type-sample"
	LongText          Category = "long-text"
	LookalikeText     Category = "lookalike-text"
)

// Categories returns every known category.
func Categories() []Category {
	return []Category{
		TypeSample, DateBoundary, DateSeries, UnicodeScript, MultilineText,
		NumericExtreme, WhitespaceVariant, QuotingVariant, LongText, LookalikeText,
	}
}

// EpochBoundary tells on which side of the 1900 leap-year bug a date entry probes.
type EpochBoundary uint8

const (
	NotBoundary EpochBoundary = iota
	// BeforeLeapBug dates read back the same with or without the compensation.
	BeforeLeapBug
	// AfterLeapBug dates read back one day late without the compensation.
	AfterLeapBug
)

func (e EpochBoundary) String() string {
	switch e {
	case BeforeLeapBug:
		return "before-leap-bug"
	case AfterLeapBug:
		return "after-leap-bug"
	default:
		return "none"
	}
}

// Entry is one edge case: a label, the cell and what it probes.
type Entry struct {
	Category    Category
	Label       string
	Cell        fixture.Cell
	Description string

	// Detail is an auxiliary column, such as the characters a text probes.
	Detail string

	// Size is the size parameter of the entry: line count, text length or day count.
	Size int
	// OverLimit marks texts longer than MaxCellChars.
	OverLimit bool

	Epoch EpochBoundary

	// NegativeZero marks a real -0. NormalizeNegativeZero is the behaviour
	// expected from readers for it.
	NegativeZero          bool
	NormalizeNegativeZero bool
}

// Library produces edge-case sequences. It is safe for concurrent use.
type Library struct {
	seed             fixture.Seed
	normalizeNegZero bool
}

// Option configures a Library.
type Option func(*Library)

// WithNegativeZeroNormalized sets the expectation recorded on the negative zero entry.
// The default is true: readers are expected to show -0 as 0.
func WithNegativeZeroNormalized(normalize bool) Option {
	return func(l *Library) { l.normalizeNegZero = normalize }
}

// New returns a Library whose randomized producers draw from seed.
func New(seed fixture.Seed, opts ...Option) *Library {
	l := &Library{seed: seed, normalizeNegZero: true}
	for _, o := range opts {
		o(l)
	}
	return l
}

// MaxCellChars is the most characters an xlsx cell holds.
const MaxCellChars = 32767

// Produce returns the entries of a category.
//
// param is the size or intensity, 0 meaning the default set:
// the line count for MultilineText, the character count for LongText,
// the number of days for DateSeries. Other categories ignore it.
//
// LongText is not capped at MaxCellChars: such entries are marked OverLimit,
// and containers with the limit refuse to write them.
func (l *Library) Produce(cat Category, param int) (iter.Seq[Entry], error) {
	if param < 0 {
		return nil, fixture.NewConfigError("param", "%s: negative size %d", cat, param)
	}
	var entries func() []Entry
	switch cat {
	case TypeSample:
		entries = typeSamples
	case DateBoundary:
		entries = dateBoundaries
	case DateSeries:
		n := param
		if n == 0 {
			n = defaultSeriesDays
		}
		return l.dateSeries(n), nil
	case UnicodeScript:
		entries = unicodeScripts
	case MultilineText:
		if param != 0 {
			return single(multiline(param)), nil
		}
		entries = multilineDefaults
	case NumericExtreme:
		entries = func() []Entry { return numericExtremes(l.normalizeNegZero) }
	case WhitespaceVariant:
		entries = whitespaceVariants
	case QuotingVariant:
		entries = quotingVariants
	case LongText:
		if param != 0 {
			return single(longRun(param)), nil
		}
		entries = longTexts
	case LookalikeText:
		entries = lookalikeTexts
	default:
		return nil, fixture.NewConfigError("category", "unknown category %q", cat)
	}
	return func(yield func(Entry) bool) {
		for _, e := range entries() {
			e.Category = cat
			if !yield(e) {
				return
			}
		}
	}, nil
}

// MustProduce is like Produce but panics on error.
func (l *Library) MustProduce(cat Category, param int) iter.Seq[Entry] {
	seq, err := l.Produce(cat, param)
	if err != nil {
		panic(err)
	}
	return seq
}

// Collect produces and collects a category.
func (l *Library) Collect(cat Category, param int) ([]Entry, error) {
	seq, err := l.Produce(cat, param)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}

func single(e Entry) iter.Seq[Entry] {
	return func(yield func(Entry) bool) { yield(e) }
}
