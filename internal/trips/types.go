package trips

import "time"

// Trip is one ride from a bikeshare dataset.
type Trip struct {
	StartTime    time.Time
	StartStation string
	EndStation   string
	Duration     float64 // seconds
	UserType     string  // empty if missing
	Gender       string  // empty if missing
	BirthYear    int     // 0 if missing

	// Derived from StartTime when the table is built.
	Month   int // 1..12
	Weekday int // 1=Monday .. 7=Sunday
	Hour    int // 0..23
}

// Column identifies an optional dataset column.
type Column uint8

const (
	ColUserType Column = 1 << iota
	ColGender
	ColBirthYear
)

// Table is an ordered set of trips for one city sharing a schema.
type Table struct {
	City  string
	Trips []Trip
	cols  Column
}

// NewTable derives month/weekday/hour for every trip and records which
// optional columns the source carried.
func NewTable(city string, trips []Trip, cols Column) *Table {
	for i := range trips {
		derive(&trips[i])
	}
	return &Table{City: city, Trips: trips, cols: cols}
}

func derive(t *Trip) {
	t.Month = int(t.StartTime.Month())
	t.Weekday = DayOfWeek(t.StartTime)
	t.Hour = t.StartTime.Hour()
}

func (t *Table) Len() int { return len(t.Trips) }

func (t *Table) Empty() bool { return len(t.Trips) == 0 }

// Has reports whether the source carried every column in c.
func (t *Table) Has(c Column) bool { return t.cols&c == c }

// Columns returns the optional column set.
func (t *Table) Columns() Column { return t.cols }

// HasDemographics reports whether gender and birth year are available,
// which is what the user reporter needs.
func (t *Table) HasDemographics() bool { return t.Has(ColGender | ColBirthYear) }

// Selection is the user's (city, month, day) choice. Month and Day hold a
// canonical name or All; parts skipped because of an earlier stop are empty.
type Selection struct {
	City    string
	Month   string
	Day     string
	Stopped bool
}
