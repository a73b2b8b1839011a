package trips

import (
	"strings"
	"time"
)

// All disables a month or day filter.
const All = "All"

// Months lists canonical month names; index+1 is the month number.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Weekdays lists canonical day names Monday first; index+1 is the value
// stored in Trip.Weekday.
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// NormalizeMonth maps user input to a canonical month name or All.
func NormalizeMonth(s string) (string, bool) {
	return normalizeIn(s, Months)
}

// NormalizeDay maps user input to a canonical weekday name or All.
func NormalizeDay(s string) (string, bool) {
	return normalizeIn(s, Weekdays)
}

func normalizeIn(s string, vocab []string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, All) {
		return All, true
	}
	for _, v := range vocab {
		if strings.EqualFold(s, v) {
			return v, true
		}
	}
	return "", false
}

// MonthIndex returns the 1-based month number for a canonical name, or 0
// for All and unknown names.
func MonthIndex(name string) int {
	return indexOf(name, Months)
}

// DayIndex returns the 1-based Monday-first position of a canonical day
// name, or 0 for All and unknown names.
func DayIndex(name string) int {
	return indexOf(name, Weekdays)
}

func indexOf(name string, vocab []string) int {
	for i, v := range vocab {
		if v == name {
			return i + 1
		}
	}
	return 0
}

// MonthName is the inverse of MonthIndex.
func MonthName(n int) string {
	if n < 1 || n > len(Months) {
		return ""
	}
	return Months[n-1]
}

// DayName is the inverse of DayIndex.
func DayName(n int) string {
	if n < 1 || n > len(Weekdays) {
		return ""
	}
	return Weekdays[n-1]
}

// DayOfWeek returns 1 for Monday through 7 for Sunday.
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday())+6)%7 + 1
}
