package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDateISO(t *testing.T) {
	t.Parallel()

	ts, ok := NormalizeDate("2024-03-05")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), ts)
}

func TestNormalizeDateLongMonth(t *testing.T) {
	t.Parallel()

	ts, ok := NormalizeDate("March 5, 2024")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), ts)
}

func TestNormalizeDateDayMonthYearBeforeMonthDayYear(t *testing.T) {
	t.Parallel()

	// Slash dates try day/month/year first.
	ts, ok := NormalizeDate("05/04/2024")
	require.True(t, ok)
	assert.Equal(t, time.April, ts.Month())
	assert.Equal(t, 5, ts.Day())
}

func TestNormalizeDateISODateTime(t *testing.T) {
	t.Parallel()

	ts, ok := NormalizeDate("2024-03-05T14:30:00")
	require.True(t, ok)
	assert.Equal(t, 14, ts.Hour())
}

func TestNormalizeDateEmbeddedInText(t *testing.T) {
	t.Parallel()

	ts, ok := NormalizeDate("Published on 2024-03-05 by staff")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), ts)

	ts, ok = NormalizeDate("Posted: March 5, 2024 10:15 AM")
	require.True(t, ok)
	assert.Equal(t, time.March, ts.Month())
}

func TestNormalizeDateUnknown(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "not a date", "yesterday", "   "} {
		_, ok := NormalizeDate(raw)
		assert.False(t, ok, "expected %q to stay unknown", raw)
	}
}
