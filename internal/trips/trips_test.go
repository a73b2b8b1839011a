package trips

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bikeshare/internal/catalog"
)

var chicagoCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
1,2017-01-01 09:07:57,2017-01-01 09:20:53,776,Canal St & Adams St,Clinton St & Lake St,Subscriber,Male,1984.0
2,2017-01-02 17:15:00,2017-01-02 17:30:00,900,Canal St & Adams St,Clinton St & Lake St,Subscriber,Female,1992.0
3,2017-01-09 17:45:10,2017-01-09 17:55:10,600,Streeter Dr & Grand Ave,Lake Shore Dr & Monroe St,Customer,,
4,2017-02-06 08:00:00,2017-02-06 08:10:00,600,Streeter Dr & Grand Ave,Canal St & Adams St,Subscriber,Male,1984
5,2017-06-23 15:09:32,2017-06-23 15:14:53,321,Wood St & Hubbard St,Damen Ave & Chicago Ave,Customer,,
`

var washingtonCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type
0,2017-06-21 08:36:34,2017-06-21 08:44:43,489.066,14th & Belmont St NW,15th & K St NW,Subscriber
1,2017-03-11 10:40:00,2017-03-11 10:46:00,402.549,Yuma St & Tenley Circle NW,Connecticut Ave & Yuma St NW,Subscriber
`

func readFixture(t *testing.T, city, data string) *Table {
	t.Helper()
	tbl, err := ReadCSV(context.Background(), city, strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	return tbl
}

func TestDayOfWeekMondayFirst(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2017-01-02", 1}, // Monday
		{"2017-01-04", 3},
		{"2017-01-07", 6},
		{"2017-01-01", 7}, // Sunday
	}
	for _, tt := range tests {
		d, _ := time.Parse("2006-01-02", tt.date)
		if got := DayOfWeek(d); got != tt.want {
			t.Errorf("DayOfWeek(%s) = %d, want %d", tt.date, got, tt.want)
		}
		if DayName(tt.want) != d.Weekday().String() {
			t.Errorf("DayName(%d) = %q, want %q", tt.want, DayName(tt.want), d.Weekday())
		}
	}
}

func TestNormalizeMonth(t *testing.T) {
	for i, m := range Months {
		for _, in := range []string{m, strings.ToLower(m), strings.ToUpper(m), "  " + m + " "} {
			got, ok := NormalizeMonth(in)
			if !ok || got != m {
				t.Errorf("NormalizeMonth(%q) = %q, %v", in, got, ok)
			}
		}
		if MonthIndex(m) != i+1 {
			t.Errorf("MonthIndex(%q) = %d, want %d", m, MonthIndex(m), i+1)
		}
	}
	if got, ok := NormalizeMonth("aLL"); !ok || got != All {
		t.Errorf("NormalizeMonth(aLL) = %q, %v", got, ok)
	}
	for _, bad := range []string{"", "jan", "Smarch", "13"} {
		if _, ok := NormalizeMonth(bad); ok {
			t.Errorf("NormalizeMonth(%q) should fail", bad)
		}
	}
}

func TestNormalizeDay(t *testing.T) {
	if got, ok := NormalizeDay(" friday"); !ok || got != "Friday" {
		t.Errorf("NormalizeDay(friday) = %q, %v", got, ok)
	}
	if got, ok := NormalizeDay("ALL"); !ok || got != All {
		t.Errorf("NormalizeDay(ALL) = %q, %v", got, ok)
	}
	if _, ok := NormalizeDay("fri"); ok {
		t.Error("abbreviations should be rejected")
	}
	if DayIndex("Sunday") != 7 || DayIndex("Monday") != 1 || DayIndex(All) != 0 {
		t.Error("unexpected DayIndex mapping")
	}
}

func TestReadCSVWithDemographics(t *testing.T) {
	tbl := readFixture(t, "chicago", chicagoCSV)
	if tbl.Len() != 5 {
		t.Fatalf("expected 5 trips, got %d", tbl.Len())
	}
	if !tbl.HasDemographics() || !tbl.Has(ColUserType) {
		t.Error("chicago fixture should carry user type, gender and birth year")
	}
	first := tbl.Trips[0]
	if first.StartStation != "Canal St & Adams St" || first.Duration != 776 {
		t.Errorf("unexpected first trip: %+v", first)
	}
	if first.BirthYear != 1984 || first.Gender != "Male" {
		t.Errorf("expected 1984/Male, got %d/%s", first.BirthYear, first.Gender)
	}
	if first.Month != 1 || first.Weekday != 7 || first.Hour != 9 {
		t.Errorf("unexpected derived fields: month=%d weekday=%d hour=%d", first.Month, first.Weekday, first.Hour)
	}
	if tbl.Trips[2].BirthYear != 0 || tbl.Trips[2].Gender != "" {
		t.Errorf("blank demographics should stay empty, got %+v", tbl.Trips[2])
	}
}

func TestReadCSVWithoutDemographics(t *testing.T) {
	tbl := readFixture(t, "washington", washingtonCSV)
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 trips, got %d", tbl.Len())
	}
	if tbl.HasDemographics() {
		t.Error("washington fixture must not report demographics")
	}
	if !tbl.Has(ColUserType) {
		t.Error("washington fixture carries user type")
	}
	if tbl.Trips[0].Duration != 489.066 {
		t.Errorf("expected float duration, got %v", tbl.Trips[0].Duration)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"missing columns", "Start Time,Trip Duration\n2017-01-01 00:00:00,5\n"},
		{"bad timestamp", "Start Time,Start Station,End Station,Trip Duration\nyesterday,a,b,5\n"},
		{"bad duration", "Start Time,Start Station,End Station,Trip Duration\n2017-01-01 00:00:00,a,b,long\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(context.Background(), "x", strings.NewReader(tt.data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestReadCSVPaddedHeader(t *testing.T) {
	data := " Start Time,Start Station,End Station,Trip Duration\n2017-01-01 00:00:00,a,b,5\n"
	_, err := ReadCSV(context.Background(), "x", strings.NewReader(data))
	if err == nil || !strings.Contains(err.Error(), "missing required columns: Start Time") {
		t.Fatalf("expected padded header to be reported as missing, got %v", err)
	}
}

func TestFilterByMonth(t *testing.T) {
	tbl := readFixture(t, "chicago", chicagoCSV)

	jan := tbl.Filter("January", All)
	if jan.Len() != 3 {
		t.Fatalf("expected 3 January trips, got %d", jan.Len())
	}
	for _, tr := range jan.Trips {
		if tr.Month != MonthIndex("January") {
			t.Errorf("trip outside January: %v", tr.StartTime)
		}
	}
	if all := tbl.Filter(All, All); all != tbl {
		t.Error("All/All should return the table unchanged")
	}
	if jan == tbl {
		t.Error("a month filter should build a new table")
	}
	if tbl.Len() != 5 {
		t.Error("Filter must not modify the receiver")
	}
	if dec := tbl.Filter("December", All); !dec.Empty() || !dec.HasDemographics() {
		t.Error("December filter should be empty and keep column capabilities")
	}
}

func TestFilterByDay(t *testing.T) {
	tbl := readFixture(t, "chicago", chicagoCSV)

	mon := tbl.Filter(All, "Monday")
	if mon.Len() != 3 {
		t.Fatalf("expected 3 Monday trips, got %d", mon.Len())
	}
	for _, tr := range mon.Trips {
		if tr.StartTime.Weekday() != time.Monday || tr.Weekday != DayIndex("Monday") {
			t.Errorf("trip not on Monday: %v", tr.StartTime)
		}
	}
	sun := tbl.Filter(All, "Sunday")
	if sun.Len() != 1 || sun.Trips[0].StartTime.Weekday() != time.Sunday {
		t.Errorf("expected the single Sunday trip, got %d", sun.Len())
	}
	janMon := tbl.Filter("January", "Monday")
	if janMon.Len() != 2 {
		t.Errorf("expected 2 January Monday trips, got %d", janMon.Len())
	}
}

type countingSource struct {
	calls int
	inner Source
}

func (c *countingSource) Fetch(ctx context.Context, city catalog.City) (*Table, error) {
	c.calls++
	return c.inner.Fetch(ctx, city)
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "chicago.csv"), []byte(chicagoCSV), 0644); err != nil {
		t.Fatal(err)
	}
	src := &countingSource{inner: NewCSVSource(dir)}
	l := NewLoader(catalog.Default(), src)

	tbl, err := l.Load(context.Background(), Selection{City: "Chicago", Month: "January", Day: All})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tbl.City != "chicago" || tbl.Len() != 3 {
		t.Errorf("expected 3 chicago trips, got %q/%d", tbl.City, tbl.Len())
	}

	// fresh read per call
	if _, err := l.Load(context.Background(), Selection{City: "chicago", Month: All, Day: All}); err != nil {
		t.Fatal(err)
	}
	if src.calls != 2 {
		t.Errorf("expected 2 source reads, got %d", src.calls)
	}

	if _, err := l.Load(context.Background(), Selection{City: "boston", Month: All, Day: All}); !errors.Is(err, ErrUnknownCity) {
		t.Errorf("expected ErrUnknownCity, got %v", err)
	}
	if _, err := l.Load(context.Background(), Selection{City: "washington", Month: All, Day: All}); err == nil {
		t.Error("expected error for missing washington.csv")
	}
}

func TestParseTimestamp(t *testing.T) {
	for _, s := range []string{"2017-01-01 09:07:57", "2017-01-01T09:07:57Z", "2017-01-01 09:07:57.000", "2017-01-01 09:07"} {
		ts, err := ParseTimestamp(s)
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", s, err)
			continue
		}
		if ts.Hour() != 9 || ts.Day() != 1 {
			t.Errorf("ParseTimestamp(%q) = %v", s, ts)
		}
	}
}

func TestParseTimestampHourOffset(t *testing.T) {
	tests := []struct {
		in     string
		offset int
	}{
		{"2017-01-01 09:07:57+00", 0},
		{"2017-01-01 09:07:57-05", -5 * 3600},
		{"2017-01-01 09:07:57.25+02", 2 * 3600},
	}
	for _, tt := range tests {
		ts, err := ParseTimestamp(tt.in)
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", tt.in, err)
			continue
		}
		if _, off := ts.Zone(); off != tt.offset || ts.Hour() != 9 || ts.Minute() != 7 {
			t.Errorf("ParseTimestamp(%q) = %v", tt.in, ts)
		}
	}
}

func TestParseBirthYear(t *testing.T) {
	tests := map[string]int{"1992.0": 1992, "1984": 1984, "": 0, "NaN": 0}
	for in, want := range tests {
		got, err := ParseBirthYear(in)
		if err != nil || got != want {
			t.Errorf("ParseBirthYear(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	if _, err := ParseBirthYear("nineteen"); err == nil {
		t.Error("expected error for non-numeric year")
	}
}
