package finance

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestNewDate(t *testing.T) {
	d, err := NewDate("2025-01-31")
	assert.NoError(t, err)
	assert.Equal(t, "2025-01-31", d.String())
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.January, d.Month())
	assert.Equal(t, 31, d.Day())
}

func TestNewDateInvalid(t *testing.T) {
	for _, value := range []string{"", "31-01-2025", "2025-13-01", "2025-02-30", "yesterday"} {
		_, err := NewDate(value)
		assert.Error(t, err, "expected error for %q", value)
	}
}

func TestDateOfNormalizesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	instant := time.Date(2025, time.March, 1, 1, 30, 0, 0, loc) // 2025-02-28 22:30 UTC

	d := DateOf(instant)
	assert.Equal(t, "2025-02-28", d.String())
}

func TestDateComparisons(t *testing.T) {
	a := MustDate("2025-01-01")
	b := MustDate("2025-01-02")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(MustDate("2025-01-01")))
	assert.False(t, a.Equal(b))
}

func TestDateAddDays(t *testing.T) {
	d := MustDate("2024-12-31")
	assert.Equal(t, "2025-01-01", d.AddDays(1).String())
	assert.Equal(t, "2025-01-07", d.AddDays(7).String())
}

func TestDateDaysUntil(t *testing.T) {
	a := MustDate("2025-01-01")
	assert.Equal(t, 9, a.DaysUntil(MustDate("2025-01-10")))
	assert.Equal(t, -1, a.DaysUntil(MustDate("2024-12-31")))
}

func TestDateMonthBounds(t *testing.T) {
	d := MustDate("2024-02-15")
	assert.Equal(t, "2024-02-01", d.StartOfMonth().String())
	assert.Equal(t, "2024-02-29", d.EndOfMonth().String())

	d = MustDate("2025-02-15")
	assert.Equal(t, "2025-02-28", d.EndOfMonth().String())
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := MustDate("2025-04-01")

	data, err := d.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `"2025-04-01"`, string(data))

	var decoded Date
	assert.NoError(t, decoded.UnmarshalJSON(data))
	assert.True(t, d.Equal(decoded))
}
