package trips

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"bikeshare/internal/catalog"

	"github.com/jszwec/csvutil"
)

// Dataset column headers.
const (
	HeaderStartTime    = "Start Time"
	HeaderStartStation = "Start Station"
	HeaderEndStation   = "End Station"
	HeaderDuration     = "Trip Duration"
	HeaderUserType     = "User Type"
	HeaderGender       = "Gender"
	HeaderBirthYear    = "Birth Year"
)

// csvRow mirrors one dataset line. Values stay raw so that blank optional
// fields and float-formatted years can be handled explicitly.
type csvRow struct {
	StartTime    string `csv:"Start Time"`
	StartStation string `csv:"Start Station"`
	EndStation   string `csv:"End Station"`
	Duration     string `csv:"Trip Duration"`
	UserType     string `csv:"User Type,omitempty"`
	Gender       string `csv:"Gender,omitempty"`
	BirthYear    string `csv:"Birth Year,omitempty"`
}

var requiredHeaders = []string{HeaderStartTime, HeaderStartStation, HeaderEndStation, HeaderDuration}

// CSVSource reads city datasets from flat files under Dir.
type CSVSource struct {
	Dir string
}

func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{Dir: dir}
}

// Fetch reads the whole dataset for city.
func (s *CSVSource) Fetch(ctx context.Context, city catalog.City) (*Table, error) {
	if city.File == "" {
		return nil, fmt.Errorf("city %q has no data file", city.Name)
	}
	path := city.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	tbl, err := ReadCSV(ctx, city.Name, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	log.Printf("loaded %d trips for %q from %s", tbl.Len(), city.Name, path)
	return tbl, nil
}

// ReadCSV decodes a dataset with a header row into a Table.
func ReadCSV(ctx context.Context, city string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true

	dec, err := csvutil.NewDecoder(cr)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv file")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols, err := headerColumns(dec.Header())
	if err != nil {
		return nil, err
	}

	var trips []Trip
	for line := 2; ; line++ {
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		var row csvRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		t, err := row.trip()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		trips = append(trips, t)
	}
	return NewTable(city, trips, cols), nil
}

func headerColumns(header []string) (Column, error) {
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		seen[h] = true
	}
	var missing []string
	for _, h := range requiredHeaders {
		if !seen[h] {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return 0, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	var cols Column
	if seen[HeaderUserType] {
		cols |= ColUserType
	}
	if seen[HeaderGender] {
		cols |= ColGender
	}
	if seen[HeaderBirthYear] {
		cols |= ColBirthYear
	}
	return cols, nil
}

func (r csvRow) trip() (Trip, error) {
	start, err := ParseTimestamp(r.StartTime)
	if err != nil {
		return Trip{}, err
	}
	dur, err := ParseDuration(r.Duration)
	if err != nil {
		return Trip{}, err
	}
	by, err := ParseBirthYear(r.BirthYear)
	if err != nil {
		return Trip{}, err
	}
	return Trip{
		StartTime:    start,
		StartStation: strings.TrimSpace(r.StartStation),
		EndStation:   strings.TrimSpace(r.EndStation),
		Duration:     dur,
		UserType:     strings.TrimSpace(r.UserType),
		Gender:       strings.TrimSpace(r.Gender),
		BirthYear:    by,
	}, nil
}
