package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPad0(t *testing.T) {
	assert.Equal(t, "00", Pad0(0))
	assert.Equal(t, "07", Pad0(7))
	assert.Equal(t, "23", Pad0(23))
	assert.Equal(t, "100", Pad0(100))
}

func TestHHMM(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00h 00m"},
		{59, "00h 00m"},
		{60, "00h 01m"},
		{3600, "01h 00m"},
		{3660 + 59, "01h 01m"},
		{36 * 3600, "36h 00m"},
		{150 * 3600, "150h 00m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HHMM(tt.secs), "HHMM(%d)", tt.secs)
	}
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("2020-04-02")
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, 4, 2, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"", "1asdf", "2020-4-2", "2020-13-01", "2020-02-30", "2020-04-02T00:00:00Z"} {
		_, ok := ParseDate(bad)
		assert.False(t, ok, "ParseDate(%q) should fail", bad)
	}
}

func TestNextDay(t *testing.T) {
	next, ok := NextDay("2020-02-28")
	require.True(t, ok)
	assert.Equal(t, "2020-02-29", next)

	next, ok = NextDay("2020-12-31")
	require.True(t, ok)
	assert.Equal(t, "2021-01-01", next)

	_, ok = NextDay("garbage")
	assert.False(t, ok)
}

func TestParseWhen(t *testing.T) {
	w, ok := ParseWhen("2020-04-03T10:15:00-03:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, 4, 3, 13, 15, 0, 0, time.UTC), w.UTC())

	w, ok = ParseWhen("2020-04-03 10:15:00 +0200")
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, 4, 3, 8, 15, 0, 0, time.UTC), w.UTC())

	_, ok = ParseWhen("yesterday")
	assert.False(t, ok)
}

func TestUnixHour(t *testing.T) {
	date, hour := UnixHour(1585861200)
	assert.Equal(t, "2020-04-02", date)
	assert.Equal(t, 21, hour)
}

func TestFormatGitTime_RoundTrip(t *testing.T) {
	loc := time.FixedZone("", 2*60*60)
	ts := time.Unix(1589945042, 0).In(loc)

	s := FormatGitTime(ts)
	assert.Equal(t, "2020-05-20 05:24:02 +02:00", s)

	parsed, ok := ParseWhen(s)
	require.True(t, ok)
	assert.True(t, parsed.Equal(ts))
}
