package units

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a flexible duration string. Accepted formats:
//   - hh:mm:ss (e.g. "01:30:00")
//   - Go-style duration (e.g. "1h30m", "5m", "30s")
//   - Plain number as minutes (e.g. "90", "0.5")
//
// Negative values are rejected.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration string")
	}

	// Try hh:mm:ss
	if strings.Count(s, ":") == 2 {
		parts := strings.SplitN(s, ":", 3)
		h, err1 := strconv.Atoi(parts[0])
		m, err2 := strconv.Atoi(parts[1])
		sec, err3 := strconv.Atoi(parts[2])
		if err1 == nil && err2 == nil && err3 == nil {
			d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second
			if d < 0 {
				return 0, fmt.Errorf("negative duration: %s", s)
			}
			return d, nil
		}
	}

	// Try Go-style duration (e.g. "1h30m5s", "5m", "30s")
	if d, err := time.ParseDuration(strings.ToLower(s)); err == nil {
		if d < 0 {
			return 0, fmt.Errorf("negative duration: %s", s)
		}
		return d, nil
	}

	// Try plain number as minutes
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: must be hh:mm:ss, Go duration (1h30m), or minutes", s)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative duration: %s", s)
	}
	return time.Duration(f * float64(time.Minute)), nil
}

const (
	minute = 60
	hour   = 60 * minute
	day    = 24 * hour
	year   = 365 * day
	month  = year / 12
)

// FormatSeconds renders a second count in the largest fitting unit, e.g.
// "30 Seconds", "1 Minutes", "18 Hours". Intervals are half-open with the
// lower bound inclusive: exactly 60 seconds is "1 Minutes", not "60 Seconds".
func FormatSeconds(seconds int64) string {
	switch {
	case seconds < minute:
		return strconv.FormatInt(seconds, 10) + " Seconds"
	case seconds < hour:
		return strconv.FormatInt(seconds/minute, 10) + " Minutes"
	case seconds < day:
		return strconv.FormatInt(seconds/hour, 10) + " Hours"
	case seconds < month:
		return strconv.FormatInt(seconds/day, 10) + " Days"
	case seconds < year:
		return strconv.FormatInt(seconds/month, 10) + " Months"
	default:
		return strconv.FormatInt(seconds/year, 10) + " Years"
	}
}

// DateFallback is rendered for timestamps that fail to parse. The only
// observed case is categories without a release date, like Music.
const DateFallback = "200,000 years ago"

// FormatDate renders an ISO8601 timestamp. A non-empty layout formats the
// absolute time; otherwise the result is relative to now ("3 Hours ago",
// "In 2 Days"). Unparseable input renders DateFallback.
func FormatDate(iso, layout string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return DateFallback
	}
	if layout != "" {
		return t.Format(layout)
	}

	delta := int64(now.Sub(t) / time.Second)
	if delta < 0 {
		return "In " + FormatSeconds(-delta)
	}
	return FormatSeconds(delta) + " ago"
}

const (
	kibibyte = 1024
	mebibyte = 1024 * kibibyte
	gibibyte = 1024 * mebibyte
)

// FormatSize formats a byte count as a human-readable string.
func FormatSize(bytes int) string {
	switch {
	case bytes >= gibibyte:
		return fmt.Sprintf("%.1fGiB", float64(bytes)/gibibyte)
	case bytes >= mebibyte:
		return fmt.Sprintf("%.1fMiB", float64(bytes)/mebibyte)
	default:
		return fmt.Sprintf("%.1fKiB", float64(bytes)/kibibyte)
	}
}
