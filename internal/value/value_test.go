package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixClock(t *testing.T) time.Time {
	t.Helper()
	fixed := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	orig := Now
	Now = func() time.Time { return fixed }
	t.Cleanup(func() { Now = orig })
	return fixed
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"03.01.2025", time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)},
		{" 31.12.2024 ", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"1.2.2023", time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"15.08.24", time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)},
		{"29.02.2024", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, ok := TryParseDate(tt.input)
		assert.True(t, ok, "TryParseDate(%q)", tt.input)
		assert.Equal(t, tt.want, got, "TryParseDate(%q)", tt.input)
		assert.Equal(t, tt.want, ParseDate(tt.input))
	}
}

func TestParseDate_Fallback(t *testing.T) {
	fixed := fixClock(t)

	badInputs := []string{
		"",
		"2025-01-03",
		"03.01",
		"03.01.2025.1",
		"aa.bb.cccc",
		"31.02.2025",
		"00.01.2025",
		"-1.01.2025",
	}
	for _, input := range badInputs {
		got, ok := TryParseDate(input)
		assert.False(t, ok, "expected fallback for %q", input)
		assert.Equal(t, fixed, got)
		assert.Equal(t, fixed, ParseDate(input))
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"-12,50", "-12.50"},
		{"1.234,56", "1234.56"},
		{"-1.234.567,89", "-1234567.89"},
		{" 42 ", "42.00"},
		{"12.50", "12.50"},
		{"+3,1", "3.10"},
		{"1 234,00", "1234.00"},
		{"1\u00a0234,00", "1234.00"},
		{"", "0.00"},
	}
	for _, tt := range tests {
		got, ok := TryParseAmount(tt.input)
		assert.True(t, ok, "TryParseAmount(%q)", tt.input)
		assert.Equal(t, tt.want, got.StringFixed(2), "TryParseAmount(%q)", tt.input)
		assert.Equal(t, tt.want, ParseAmount(tt.input).StringFixed(2))
	}
}

func TestParseAmount_Fallback(t *testing.T) {
	for _, input := range []string{"abc", "12,34,56", "EUR 5", "--1"} {
		got, ok := TryParseAmount(input)
		assert.False(t, ok, "expected fallback for %q", input)
		assert.True(t, got.IsZero())
		assert.True(t, ParseAmount(input).IsZero())
	}
}
