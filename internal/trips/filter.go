package trips

// Filter returns the trips that match month and day. All (or an empty
// string) leaves that dimension unfiltered. With both unfiltered the
// receiver itself is returned; otherwise the result is a new table and the
// receiver is not modified.
func (t *Table) Filter(month, day string) *Table {
	m := MonthIndex(month)
	d := DayIndex(day)
	if m == 0 && d == 0 {
		return t
	}
	kept := make([]Trip, 0, len(t.Trips))
	for _, tr := range t.Trips {
		if m != 0 && tr.Month != m {
			continue
		}
		if d != 0 && tr.Weekday != d {
			continue
		}
		kept = append(kept, tr)
	}
	return &Table{City: t.City, Trips: kept, cols: t.cols}
}
