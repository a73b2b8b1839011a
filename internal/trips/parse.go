package trips

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04",
}

// ParseTimestamp parses a start time as found in the datasets. Values
// without a zone are read as wall-clock time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// ParseDuration parses trip duration seconds, accepting float notation.
func ParseDuration(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid trip duration %q: %w", s, err)
	}
	return f, nil
}

// ParseBirthYear parses "1992" or "1992.0". Blank and NaN values yield 0.
func ParseBirthYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid birth year %q: %w", s, err)
	}
	if math.IsNaN(f) {
		return 0, nil
	}
	return int(f), nil
}
