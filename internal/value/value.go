// Package value parses the date and amount notations found in German bank
// exports. The parsers never fail: malformed input degrades to a fallback so a
// single bad cell cannot abort a whole file.
package value

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Now is the clock used for the date fallback.
var Now = time.Now

// ParseDate parses "DD.MM.YYYY" (or "DD.MM.YY", read as 20YY). Malformed
// input returns Now(); the result then says nothing about the source row.
func ParseDate(text string) time.Time {
	t, _ := TryParseDate(text)
	return t
}

// TryParseDate is ParseDate that also reports whether text was well-formed.
func TryParseDate(text string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(text), ".")
	if len(parts) != 3 {
		return Now(), false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Now(), false
		}
		nums[i] = n
	}

	day, month, year := nums[0], nums[1], nums[2]
	if len(parts[2]) <= 2 {
		year += 2000
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 31.02. into March; reject instead.
	if t.Day() != day || int(t.Month()) != month {
		return Now(), false
	}
	return t, true
}

// ParseAmount parses "1.234,56", "-12,5" or "12.50". Unparseable input
// returns zero.
func ParseAmount(text string) decimal.Decimal {
	d, _ := TryParseAmount(text)
	return d
}

// TryParseAmount is ParseAmount that also reports whether text was well-formed.
// An empty cell is well-formed zero.
func TryParseAmount(text string) (decimal.Decimal, bool) {
	s := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\u00a0', '\u202f':
			return -1
		}
		return r
	}, text)
	if s == "" {
		return decimal.Zero, true
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	s = strings.TrimPrefix(s, "+")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
