package stats

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

// Section headings printed before each report.
const (
	TimeHeading     = "Calculating The Most Frequent Times of Travel..."
	StationHeading  = "Calculating The Most Popular Stations and Trip..."
	DurationHeading = "Calculating Trip Duration..."
	UserHeading     = "Calculating User Stats..."
)

func (r TimeReport) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Most Common Month: %s\nMost Common Day of Week: %s\nMost Common Start Hour: %d\n",
		r.Month, r.Day, r.Hour)
	return err
}

func (r StationReport) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Most Common Start Station: %s\nMost Common End Station: %s\nMost Common Start Station / End Station: %s\n",
		r.StartStation, r.EndStation, r.Trip)
	return err
}

func (r DurationReport) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Total travel time: %s\nMean travel time: %s\n",
		formatSeconds(r.Total), formatSeconds(r.Mean))
	return err
}

func (r UserReport) Render(w io.Writer) error {
	if err := renderCounts(w, "Counts by User Type", r.UserTypes); err != nil {
		return err
	}
	if err := renderCounts(w, "Counts by Gender", r.Genders); err != nil {
		return err
	}
	if r.BirthYears == nil {
		_, err := fmt.Fprintln(w, "Year of birth: no data")
		return err
	}
	_, err := fmt.Fprintf(w, "Most recent year of birth: %d\nEarliest year of birth: %d\nMost Common year of birth: %d\n",
		r.BirthYears.MostRecent, r.BirthYears.Earliest, r.BirthYears.MostCommon)
	return err
}

func renderCounts(w io.Writer, title string, counts []Count[string]) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(counts) == 0 {
		_, err := fmt.Fprintln(w, "  no data")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 4, ' ', 0)
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.Value, c.Count)
	}
	return tw.Flush()
}

// formatSeconds prints whole numbers without a fractional part.
func formatSeconds(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
