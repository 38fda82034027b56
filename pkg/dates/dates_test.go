package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseTextFormats(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-05", date(2025, 1, 5)},
		{"05/01/2025", date(2025, 1, 5)},
		{"05-01-2025", date(2025, 1, 5)},
		{"2025/01/05", date(2025, 1, 5)},
		{"05.01.2025", date(2025, 1, 5)},
		{"2025.01.05", date(2025, 1, 5)},
		{"  2025-01-05\t", date(2025, 1, 5)},
		{"5/1/2025", date(2025, 1, 5)},
		{"2025-1-5", date(2025, 1, 5)},
		// day-first is the fixed policy
		{"01/02/2025", date(2025, 2, 1)},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		require.True(t, ok, "expected %q to parse", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []any{
		"",
		"   ",
		"not a date",
		"2025-13-01",
		"31/02/2025",
		"2025-01-05 10:00",
		"25-01-05",
		45658.0,
		42,
		true,
		nil,
		time.Time{},
		(*time.Time)(nil),
	} {
		_, ok := Parse(in)
		assert.False(t, ok, "expected %#v to be unparseable", in)
	}
}

func TestParseTimeValuesAreTruncated(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	in := time.Date(2025, 3, 4, 23, 30, 0, 0, loc)

	got, ok := Parse(in)
	require.True(t, ok)
	assert.Equal(t, date(2025, 3, 4), got)

	got, ok = Parse(&in)
	require.True(t, ok)
	assert.Equal(t, date(2025, 3, 4), got)
}

func TestParseRoundTripsEveryFormat(t *testing.T) {
	formats := []string{
		"2006-01-02",
		"02/01/2006",
		"02-01-2006",
		"2006/01/02",
		"02.01.2006",
		"2006.01.02",
	}
	for d := date(1999, 1, 1); d.Before(date(2031, 1, 1)); d = d.AddDate(0, 0, 13) {
		for _, f := range formats {
			got, ok := Parse(d.Format(f))
			if !ok || !got.Equal(d) {
				t.Fatalf("Parse(%q) = %v, %v; want %v", d.Format(f), got, ok, d)
			}
		}
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(date(2025, 1, 1), date(2025, 1, 1)))
	assert.Equal(t, 9, DaysBetween(date(2025, 1, 1), date(2025, 1, 10)))
	assert.Equal(t, -3, DaysBetween(date(2025, 1, 4), date(2025, 1, 1)))
	assert.Equal(t, 366, DaysBetween(date(2024, 1, 1), date(2025, 1, 1)))
	assert.Equal(t, date(2025, 3, 1), AddDays(date(2025, 2, 28), 1))
}

func TestDaysBetweenCenturies(t *testing.T) {
	// longer than time.Duration can hold
	assert.Equal(t, 730494, DaysBetween(date(25, 1, 1), date(2025, 1, 10)))
	assert.Equal(t, -730494, DaysBetween(date(2025, 1, 10), date(25, 1, 1)))
	assert.Equal(t, 155229, DaysBetween(date(1600, 1, 1), date(2025, 1, 1)))

	start, ok := Parse("0025-01-01")
	require.True(t, ok)
	assert.Equal(t, date(25, 1, 1), start)
}
