package units

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "0 Seconds"},
		{30, "30 Seconds"},
		{59, "59 Seconds"},
		{60, "1 Minutes"},
		{90, "1 Minutes"},
		{3599, "59 Minutes"},
		{3600, "1 Hours"},
		{86399, "23 Hours"},
		{86400, "1 Days"},
		{2627999, "30 Days"},
		{2628000, "1 Months"},
		{31535999, "11 Months"},
		{31536000, "1 Years"},
		{63072000, "2 Years"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatSeconds(c.seconds), "seconds=%d", c.seconds)
	}
}

func TestFormatDateRelative(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "3 Hours ago", FormatDate("2024-06-01T09:00:00Z", "", now))
	assert.Equal(t, "In 2 Days", FormatDate("2024-06-03T12:00:01Z", "", now))
	assert.Equal(t, "0 Seconds ago", FormatDate("2024-06-01T12:00:00Z", "", now))
}

func TestFormatDateAbsolute(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-30", FormatDate("2024-05-30T01:02:03Z", "2006-01-02", now))
}

func TestFormatDateInvalid(t *testing.T) {
	now := time.Now()
	assert.Equal(t, DateFallback, FormatDate("", "", now))
	assert.Equal(t, DateFallback, FormatDate("not a date", "2006", now))
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"01:30:00", 90 * time.Minute},
		{"1h30m", 90 * time.Minute},
		{"30s", 30 * time.Second},
		{"5", 5 * time.Minute},
		{"0.5", 30 * time.Second},
	}
	for _, c := range cases {
		got, err := ParseDuration(c.in)
		require.NoError(t, err, "input %q", c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
	}

	for _, bad := range []string{"", "-5", "abc"} {
		_, err := ParseDuration(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "9.0KiB", FormatSize(9*1024))
	assert.Equal(t, "1.5MiB", FormatSize(3*1024*1024/2))
	assert.Equal(t, "2.0GiB", FormatSize(2*1024*1024*1024))
}
