package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-08-15")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.August, d.Month())
	assert.Equal(t, 15, d.Day())
	assert.Equal(t, "2026-08-15", d.String())

	_, err = ParseDate("15/08/2026")
	require.Error(t, err)
}

func TestDateAddNormalizes(t *testing.T) {
	d := NewDate(2026, time.August, 31)
	assert.Equal(t, "2026-09-01", d.Add(1).String())
	assert.Equal(t, "2026-03-01", NewDate(2024, time.February, 29).Add(731).String())
}

func TestWindowSpans(t *testing.T) {
	// 2026-08-15 is a Saturday.
	now := NewDate(2026, time.August, 15)

	today := WindowToday.Span(now)
	assert.Equal(t, Range{From: now, To: now}, today)

	week := WindowThisWeek.Span(now)
	assert.Equal(t, "2026-08-10", week.From.String(), "weeks start on Monday")
	assert.Equal(t, "2026-08-16", week.To.String())

	month := WindowThisMonth.Span(now)
	assert.Equal(t, "2026-08-01", month.From.String())
	assert.Equal(t, "2026-08-31", month.To.String())

	year := WindowThisYear.Span(now)
	assert.Equal(t, "2026-01-01", year.From.String())
	assert.Equal(t, "2026-12-31", year.To.String())
}

func TestWindowSpanOnMondayAndSunday(t *testing.T) {
	monday := NewDate(2026, time.August, 10)
	sunday := NewDate(2026, time.August, 16)

	assert.Equal(t, "2026-08-10", WindowThisWeek.Span(monday).From.String())
	assert.Equal(t, "2026-08-10", WindowThisWeek.Span(sunday).From.String())
}

func TestRangeContains(t *testing.T) {
	r := Range{From: NewDate(2026, time.August, 1), To: NewDate(2026, time.August, 31)}
	assert.True(t, r.Contains(NewDate(2026, time.August, 1)))
	assert.True(t, r.Contains(NewDate(2026, time.August, 31)))
	assert.False(t, r.Contains(NewDate(2026, time.July, 31)))
	assert.False(t, r.Contains(NewDate(2026, time.September, 1)))
}

func TestParseGranularity(t *testing.T) {
	for _, s := range []string{"daily", "Weekly", " monthly ", "year"} {
		_, err := ParseGranularity(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseGranularity("fortnightly")
	require.Error(t, err)
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("this_week")
	require.NoError(t, err)
	assert.Equal(t, WindowThisWeek, w)

	_, err = ParseWindow("last_week")
	require.Error(t, err)
}
