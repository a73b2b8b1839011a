package stats

import (
	"errors"
	"fmt"

	"bikeshare/internal/trips"
)

// TimeReport holds the most frequent times of travel.
type TimeReport struct {
	Month string `json:"month"`
	Day   string `json:"day"`
	Hour  int    `json:"hour"`
}

// StationReport holds the most popular stations and trip.
type StationReport struct {
	StartStation string `json:"startStation"`
	EndStation   string `json:"endStation"`
	Trip         string `json:"trip"`
}

// DurationReport holds trip duration aggregates in seconds.
type DurationReport struct {
	Count int     `json:"count"`
	Total float64 `json:"totalSeconds"`
	Mean  float64 `json:"meanSeconds"`
}

// BirthYearStats summarises the birth year column.
type BirthYearStats struct {
	Earliest   int `json:"earliest"`
	MostRecent int `json:"mostRecent"`
	MostCommon int `json:"mostCommon"`
}

// UserReport holds user demographics. BirthYears is nil when every trip in
// the table lacks a birth year.
type UserReport struct {
	UserTypes  []Count[string] `json:"userTypes"`
	Genders    []Count[string] `json:"genders"`
	BirthYears *BirthYearStats `json:"birthYears,omitempty"`
}

// TripSeparator joins start and end station names in StationReport.Trip.
const TripSeparator = " to "

// TimeStats computes the most common month, day of week and start hour.
func TimeStats(tbl *trips.Table) (TimeReport, error) {
	if tbl.Empty() {
		return TimeReport{}, ErrNoData
	}
	months, days, hours := newCounter[int](), newCounter[int](), newCounter[int]()
	for _, t := range tbl.Trips {
		months.add(t.Month)
		days.add(t.Weekday)
		hours.add(t.Hour)
	}
	m, _ := months.mode()
	d, _ := days.mode()
	h, _ := hours.mode()
	return TimeReport{
		Month: trips.MonthName(m.Value),
		Day:   trips.DayName(d.Value),
		Hour:  h.Value,
	}, nil
}

// StationStats computes the most common start station, end station and
// start/end combination.
func StationStats(tbl *trips.Table) (StationReport, error) {
	if tbl.Empty() {
		return StationReport{}, ErrNoData
	}
	starts, ends, pairs := newCounter[string](), newCounter[string](), newCounter[string]()
	for _, t := range tbl.Trips {
		starts.add(t.StartStation)
		ends.add(t.EndStation)
		pairs.add(t.StartStation + TripSeparator + t.EndStation)
	}
	s, _ := starts.mode()
	e, _ := ends.mode()
	p, _ := pairs.mode()
	return StationReport{StartStation: s.Value, EndStation: e.Value, Trip: p.Value}, nil
}

// DurationStats computes total and mean trip duration.
func DurationStats(tbl *trips.Table) (DurationReport, error) {
	if tbl.Empty() {
		return DurationReport{}, ErrNoData
	}
	var total float64
	for _, t := range tbl.Trips {
		total += t.Duration
	}
	n := tbl.Len()
	return DurationReport{Count: n, Total: total, Mean: total / float64(n)}, nil
}

// UserStats computes user type and gender counts and birth year statistics.
// Callers should only invoke it for tables with demographics.
func UserStats(tbl *trips.Table) (UserReport, error) {
	if tbl.Empty() {
		return UserReport{}, ErrNoData
	}
	types, genders := newCounter[string](), newCounter[string]()
	for _, t := range tbl.Trips {
		if t.UserType != "" {
			types.add(t.UserType)
		}
		if t.Gender != "" {
			genders.add(t.Gender)
		}
	}
	r := UserReport{UserTypes: types.sorted(), Genders: genders.sorted()}
	by, err := BirthYearSummary(tbl)
	switch {
	case err == nil:
		r.BirthYears = &by
	case !errors.Is(err, ErrNoData):
		return UserReport{}, fmt.Errorf("birth year: %w", err)
	}
	return r, nil
}

// BirthYearSummary returns min, max and mode of the known birth years.
func BirthYearSummary(tbl *trips.Table) (BirthYearStats, error) {
	years := newCounter[int]()
	var s BirthYearStats
	for _, t := range tbl.Trips {
		y := t.BirthYear
		if y == 0 {
			continue
		}
		if len(years.items) == 0 || y < s.Earliest {
			s.Earliest = y
		}
		if len(years.items) == 0 || y > s.MostRecent {
			s.MostRecent = y
		}
		years.add(y)
	}
	m, err := years.mode()
	if err != nil {
		return BirthYearStats{}, err
	}
	s.MostCommon = m.Value
	return s, nil
}
