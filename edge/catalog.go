// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package edge

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/UNO-SOFT/fixture"
)

const (
	FormatPercent   = "0%"
	FormatDollar    = "$#,##0.00"
	FormatEuro      = "€#,##0.00"
	FormatDate      = "yyyy-mm-dd"
	FormatTimestamp = "yyyy-mm-dd hh:mm:ss"
)

func typeSamples() []Entry {
	return []Entry{
		{Label: "String", Cell: fixture.Text("Hello World"), Description: "Simple string"},
		{Label: "String", Cell: fixture.Text("Text with spaces   "), Description: "String with trailing spaces"},
		{Label: "String", Cell: fixture.Text("123456"), Description: "Number as string"},
		{Label: "String", Cell: fixture.Text("=TEXT"), Description: "String that looks like formula"},
		{Label: "Integer", Cell: fixture.Integer(42), Description: "Positive integer"},
		{Label: "Integer", Cell: fixture.Integer(-273), Description: "Negative integer"},
		{Label: "Float", Cell: fixture.Real(3.14159), Description: "Decimal number"},
		{Label: "Float", Cell: fixture.Real(2.5e10), Description: "Scientific notation"},
		{Label: "Percentage", Cell: fixture.Real(0.75).WithFormat(FormatPercent), Description: "Percentage (75%)"},
		{Label: "Boolean", Cell: fixture.Boolean(true), Description: "TRUE value"},
		{Label: "Boolean", Cell: fixture.Boolean(false), Description: "FALSE value"},
		{Label: "Empty", Cell: fixture.Empty(), Description: "Empty cell"},
		{Label: "Currency", Cell: fixture.Real(1234.56).WithFormat(FormatDollar), Description: "US Dollar"},
		{Label: "Currency", Cell: fixture.Real(9876.54).WithFormat(FormatEuro), Description: "Euro"},
		{Label: "Date", Cell: fixture.DateTime(fixture.Date(2024, time.March, 15)).WithFormat(FormatDate), Description: "Date with date format"},
	}
}

func dateEntry(label string, ct fixture.CalendarTime, notes string) Entry {
	format := FormatTimestamp
	if ct.IsMidnight() {
		format = FormatDate
	}
	e := Entry{Label: label, Cell: fixture.DateTime(ct).WithFormat(format), Description: notes}
	if ct.Year == 1900 {
		e.Epoch = BeforeLeapBug
		if ct.AffectedByLeapBug() {
			e.Epoch = AfterLeapBug
		}
	}
	return e
}

func dateBoundaries() []Entry {
	d, dt := fixture.Date, fixture.DateTimeOf
	return []Entry{
		dateEntry("First day", d(1900, time.January, 1), "Excel serial 1"),
		dateEntry("Late January", d(1900, time.January, 31), "Before leap bug"),
		dateEntry("Day before fake leap", d(1900, time.February, 28), "Serial 59"),
		dateEntry("Day after fake leap", d(1900, time.March, 1), "Serial 61, leap bug applies"),
		dateEntry("Mid March 1900", d(1900, time.March, 15), "Serial 75, leap bug applies"),
		dateEntry("End of 1900", d(1900, time.December, 31), "Serial 366, leap bug applies"),
		dateEntry("Y2K", d(2000, time.January, 1), "Year 2000"),
		dateEntry("Real leap day", d(2000, time.February, 29), "2000 was a leap year"),
		dateEntry("Recent date", d(2024, time.January, 1), "2024 start"),
		dateEntry("Modern leap day", d(2024, time.February, 29), "2024 is a leap year"),
		dateEntry("Today", d(2024, time.December, 3), "Current date"),
		dateEntry("Issue #25 test", dt(2025, time.November, 19, 11, 18, 20), "Date from screenshot"),
		dateEntry("Issue #25 test 2", dt(2025, time.November, 19, 11, 18, 22), "Second row from screenshot"),
		dateEntry("Date + Time", dt(2024, time.June, 15, 14, 30, 0), "With time component"),
		dateEntry("Midnight", dt(2024, time.June, 15, 0, 0, 0), "Time = 00:00:00"),
		dateEntry("Just before midnight", dt(2024, time.June, 15, 23, 59, 59), "Time = 23:59:59"),
	}
}

func codepoints(s string) string {
	var parts []string
	for _, r := range s {
		if r < 0x80 {
			continue
		}
		parts = append(parts, fmt.Sprintf("U+%04X", r))
	}
	return strings.Join(parts, " ")
}

func unicodeScripts() []Entry {
	text := func(lang, s, chars, desc string) Entry {
		return Entry{Label: lang, Cell: fixture.Text(s), Detail: chars, Description: desc}
	}
	const cafe = "Café"
	nfc, nfd := norm.NFC.String(cafe), norm.NFD.String(cafe)
	return []Entry{
		text("German", "Größe", "ö, ß", "Umlauts and eszett"),
		text("German", "Äpfel und Übung", "Ä, Ü", "More umlauts"),
		text("German", "§123 Paragraph", "§", "Section sign"),
		text("Turkish", "İstanbul", "İ", "Dotted capital I"),
		text("Turkish", "ışık", "ı, ş", "Dotless i, cedilla"),
		text("Turkish", "çalışma", "ç, ş", "Turkish characters"),
		text("Chinese", "简体中文", "简体中文", "Simplified Chinese"),
		text("Chinese", "表格文件", "表格文件", "Table file"),
		text("Chinese", "测试数据", "测试数据", "Test data"),
		text("Japanese", "日本語", "日本語", "Japanese language"),
		text("Japanese", "テスト", "テスト", "Test (katakana)"),
		text("Mixed", "Café résumé", "é", "French accents"),
		text("Mixed", "Москва", "Cyrillic", "Russian (Moscow)"),
		text("Mixed", "naïve", "ï", "Diaeresis"),
		text("Hungarian", "Árvíztűrő tükörfúrógép", "ű, ő", "Double acute accents"),
		text("Arabic", "مرحبا بالعالم", "RTL", "Right-to-left script"),
		text("Hebrew", "שלום עולם", "RTL", "Right-to-left script"),
		text("Emoji", "👩‍💻 🇭🇺 👍🏽", "ZWJ, flags, skin tone", "Multi-codepoint grapheme clusters"),
		text("Normalization", nfc, codepoints(nfc), "Precomposed (NFC)"),
		text("Normalization", nfd, codepoints(nfd), "Decomposed (NFD), looks identical"),
	}
}

func lines(n int) string {
	var buf strings.Builder
	for i := 1; i <= n; i++ {
		if i > 1 {
			buf.WriteByte('\n')
		}
		buf.WriteString("Line ")
		buf.WriteString(strconv.Itoa(i))
	}
	return buf.String()
}

func multiline(n int) Entry {
	e := Entry{Label: strconv.Itoa(n), Cell: fixture.Text(lines(n)), Size: n}
	switch {
	case n == 1:
		e.Description = "No newlines"
	case n <= 5:
		e.Description = "Short multi-line"
	case n <= 10:
		e.Description = "Medium multi-line"
	case n == 20:
		e.Description = "Issue #16 test case"
	case n <= 50:
		e.Description = "Large multi-line"
	default:
		e.Description = "Very large multi-line"
	}
	return e
}

func multilineDefaults() []Entry {
	var entries []Entry
	for _, n := range []int{1, 5, 10, 20, 50, 100} {
		e := multiline(n)
		if n == 1 {
			e.Cell = fixture.Text("Single line")
		}
		entries = append(entries, e)
	}
	return append(entries,
		Entry{Label: "4", Size: 4, Description: "Mixed languages",
			Cell: fixture.Text("Line 1: English\nLine 2: Deutsch (ä, ö, ü)\nLine 3: 中文\nLine 4: Türkçe")},
		Entry{Label: "6", Size: 6, Description: "Contains empty lines",
			Cell: fixture.Text("Line 1\n\nLine 3 (empty line 2)\n\n\nLine 6 (empty 4-5)")},
		Entry{Label: "3", Size: 3, Description: "Windows line endings",
			Cell: fixture.Text("Line 1\r\nLine 2\r\nLine 3")},
		Entry{Label: "2", Size: 2, Description: "Trailing newline",
			Cell: fixture.Text("Line 1\nLine 2\n")},
	)
}

// variables, so that the sum is computed in float64 and not exactly
var tenth, fifth = 0.1, 0.2

func numericExtremes(normalizeNegZero bool) []Entry {
	return []Entry{
		{Label: "Large Number", Cell: fixture.Integer(9999999999999), Description: "Large integer"},
		{Label: "Negative Large", Cell: fixture.Integer(-9999999999999), Description: "Large negative integer"},
		{Label: "Max Safe Integer", Cell: fixture.Integer(1<<53 - 1), Description: "2^53-1, every integer up to it is exact as a double"},
		{Label: "First Unsafe Integer", Cell: fixture.Integer(1 << 53), Description: "2^53, exact but shared with 2^53+1"},
		{Label: "Beyond Safe Integer", Cell: fixture.Integer(1<<53 + 1), Description: "2^53+1, not exact as a double"},
		{Label: "Small Decimal", Cell: fixture.Real(0.000000001), Description: "Very small decimal"},
		{Label: "Tiny Real", Cell: fixture.Real(1e-300), Description: "Near the smallest normal double"},
		{Label: "Huge Real", Cell: fixture.Real(9.99e307), Description: "Near the largest double"},
		{Label: "Zero", Cell: fixture.Integer(0), Description: "Zero value"},
		{Label: "Negative Zero", Cell: fixture.Real(math.Copysign(0, -1)), Description: "Negative zero",
			NegativeZero: true, NormalizeNegativeZero: normalizeNegZero},
		{Label: "Binary Fraction", Cell: fixture.Real(tenth + fifth), Description: "0.1+0.2 rounding artifact"},
	}
}

func whitespaceVariants() []Entry {
	return []Entry{
		{Label: "Leading Space", Cell: fixture.Text("   Leading"), Description: "3 leading spaces"},
		{Label: "Trailing Space", Cell: fixture.Text("Trailing   "), Description: "3 trailing spaces"},
		{Label: "Tab Character", Cell: fixture.Text("Before\tAfter"), Description: "Contains tab"},
		{Label: "Newline", Cell: fixture.Text("Line1\nLine2"), Description: "Contains newline"},
		{Label: "Multiple Spaces", Cell: fixture.Text("Word    Word"), Description: "Multiple internal spaces"},
		{Label: "Number String", Cell: fixture.Text("  42  "), Description: "Number with spaces"},
		{Label: "Non-breaking Space", Cell: fixture.Text("A\u00a0B"), Description: "U+00A0 between letters"},
		{Label: "Whitespace Only", Cell: fixture.Text("   "), Description: "Only spaces"},
	}
}

func quotingVariants() []Entry {
	return []Entry{
		{Label: "Quotes", Cell: fixture.Text(`He said "Hello"`), Description: "Contains quotes"},
		{Label: "Apostrophe", Cell: fixture.Text("Don't"), Description: "Contains apostrophe"},
		{Label: "Comma", Cell: fixture.Text("Last, First"), Description: "Contains comma"},
		{Label: "Semicolon", Cell: fixture.Text("A;B;C"), Description: "Contains semicolons"},
		{Label: "Leading Apostrophe", Cell: fixture.Text("'quoted"), Description: "Starts with apostrophe"},
		{Label: "Backslash", Cell: fixture.Text(`C:\temp\new`), Description: "Contains backslashes"},
		{Label: "Markup", Cell: fixture.Text("<b>&amp;</b>"), Description: "XML special characters"},
	}
}

func longRun(n int) Entry {
	e := Entry{Label: "Long String", Cell: fixture.Text(strings.Repeat("A", n)), Size: n,
		Description: strconv.Itoa(n) + " characters"}
	if n > MaxCellChars {
		e.OverLimit = true
		e.Description += ", over the xlsx cell limit"
	}
	return e
}

func longTexts() []Entry {
	words := strings.Repeat("Word ", 200)
	return []Entry{
		longRun(1000),
		{Label: "Long w/ Spaces", Cell: fixture.Text(words[:len(words)-1]), Size: 200, Description: "200 words"},
	}
}

func lookalikeTexts() []Entry {
	return []Entry{
		{Label: "Decimal String", Cell: fixture.Text("3.14"), Description: "Decimal as string"},
		{Label: "Date String", Cell: fixture.Text("2024-01-01"), Description: "Date as string"},
		{Label: "Boolean String", Cell: fixture.Text("TRUE"), Description: "Boolean as string"},
		{Label: "Percent String", Cell: fixture.Text("75%"), Description: "Percentage as string"},
	}
}
