package stats

import (
	"time"

	"bikeshare/internal/trips"
)

// Summary is the machine-readable result of one explorer iteration.
type Summary struct {
	RunID       string          `json:"runId"`
	City        string          `json:"city"`
	Month       string          `json:"month"`
	Day         string          `json:"day"`
	Records     int             `json:"records"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Time        *TimeReport     `json:"time,omitempty"`
	Stations    *StationReport  `json:"stations,omitempty"`
	Duration    *DurationReport `json:"duration,omitempty"`
	Users       *UserReport     `json:"users,omitempty"`
}

// NewSummary starts a summary for a selection and its filtered table.
func NewSummary(runID string, sel trips.Selection, tbl *trips.Table, now time.Time) Summary {
	return Summary{
		RunID:       runID,
		City:        sel.City,
		Month:       sel.Month,
		Day:         sel.Day,
		Records:     tbl.Len(),
		GeneratedAt: now.UTC(),
	}
}
