// Package format provides the keystroke formatters applied to draft fields.
// Every formatter is total (defined for any string) and idempotent:
// applying it twice yields the same result as applying it once.
package format

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// monthEditLayout is the ISO edit format for month fields ("2024-01").
const monthEditLayout = "2006-01"

// monthDisplayLayout is the display format for month fields ("Jan - 2024").
const monthDisplayLayout = "Jan - 2006"

// Name strips everything but letters and spaces, collapses repeated
// spaces, and title-cases each word.
func Name(s string) string {
	kept := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || r == ' ' {
			return r
		}
		return -1
	}, s)

	words := strings.Fields(kept)
	for i, w := range words {
		runes := []rune(w)
		words[i] = string(unicode.ToUpper(runes[0])) + strings.ToLower(string(runes[1:]))
	}
	return strings.Join(words, " ")
}

// Location keeps letters, digits, spaces, commas, quotes, periods and colons.
func Location(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		switch r {
		case ' ', ',', '\'', '"', '.', ':':
			return r
		}
		return -1
	}, s)
}

// EducationField keeps letters, spaces, periods, commas and hyphens.
func EducationField(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		switch r {
		case ' ', '.', ',', '-':
			return r
		}
		return -1
	}, s)
}

// Mobile enforces a fixed "+91" prefix. If the prefix was altered or the
// number pasted with a country code, the prefix is re-derived from the
// digits typed; the subscriber part is capped at 10 digits and anything
// that is not a digit is dropped.
func Mobile(s string) string {
	rest := s
	if strings.HasPrefix(s, "+91") {
		rest = s[3:]
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, rest)

	// A pasted number carrying the country code: peel it off.
	if len(digits) > 10 && strings.HasPrefix(digits, "91") {
		digits = digits[2:]
	}
	if len(digits) > 10 {
		digits = digits[:10]
	}
	return "+91" + digits
}

// FromMonthInput converts an ISO edit token ("2024-01") to the display
// token ("Jan - 2024"). Unparseable input yields the empty string.
func FromMonthInput(iso string) string {
	t, err := time.Parse(monthEditLayout, iso)
	if err != nil {
		return ""
	}
	return t.Format(monthDisplayLayout)
}

// ToMonthInput converts a display token ("Jan - 2024") to the ISO edit
// token ("2024-01"). Unparseable input is passed through unchanged so a
// half-typed value is never destroyed.
func ToMonthInput(display string) string {
	t, err := time.Parse(monthDisplayLayout, display)
	if err != nil {
		return display
	}
	return t.Format(monthEditLayout)
}

// Duration derives the human-readable span for a work-experience entry
// from its ISO period fields, counting both end months inclusively
// ("2022-01".."2022-03" is 3 mos). PeriodTo may be "Present", resolved
// against now. An unparseable or inverted range yields the empty string.
func Duration(periodFrom, periodTo string, now time.Time) string {
	from, err := time.Parse(monthEditLayout, periodFrom)
	if err != nil {
		return ""
	}

	var to time.Time
	if periodTo == "Present" {
		to = now
	} else {
		to, err = time.Parse(monthEditLayout, periodTo)
		if err != nil {
			return ""
		}
	}

	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month()) + 1
	if months <= 0 {
		return ""
	}

	yrs, mos := months/12, months%12
	var parts []string
	switch {
	case yrs == 1:
		parts = append(parts, "1 yr")
	case yrs > 1:
		parts = append(parts, strconv.Itoa(yrs)+" yrs")
	}
	switch {
	case mos == 1:
		parts = append(parts, "1 mo")
	case mos > 1:
		parts = append(parts, strconv.Itoa(mos)+" mos")
	}
	return strings.Join(parts, " ")
}
