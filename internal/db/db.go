package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"bikeshare/internal/catalog"
	"bikeshare/internal/trips"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DefaultTable is read when neither the catalog, the configuration nor the
// import registry names a trips table.
const DefaultTable = "trips"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func Open(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(2)
	}
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

// Source reads trips from a SQL table with columns
// city, start_time, start_station, end_station, trip_duration and,
// optionally, user_type, gender, birth_year.
type Source struct {
	db     *sql.DB
	driver string
	table  string
}

// NewSource returns a trips.Source over db. table may be empty, in which
// case the import registry is consulted per city.
func NewSource(db *sql.DB, driver, table string) *Source {
	return &Source{db: db, driver: driver, table: table}
}

// placeholder returns the n-th bind parameter for the driver.
func (s *Source) placeholder(n int) string {
	if s.driver == "sqlite" {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

func (s *Source) resolveTable(ctx context.Context, city catalog.City) (string, error) {
	table := city.Table
	if table == "" {
		table = s.table
	}
	if table == "" {
		name, err := ResolveTripsTable(ctx, s.db, s.placeholder(1), city.Name)
		if err != nil {
			log.Printf("import registry lookup for %q failed (%v); using table %q", city.Name, err, DefaultTable)
			name = DefaultTable
		}
		table = name
	}
	if !identRe.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return table, nil
}

// Fetch loads every trip of city. Optional columns missing from the table
// are reported through the table's capabilities.
func (s *Source) Fetch(ctx context.Context, city catalog.City) (*trips.Table, error) {
	table, err := s.resolveTable(ctx, city)
	if err != nil {
		return nil, err
	}
	have, err := hasColumns(ctx, s.db, table, "city", "user_type", "gender", "birth_year")
	if err != nil {
		return nil, fmt.Errorf("introspect %s columns: %w", table, err)
	}

	var cols trips.Column
	optional := func(name string, c trips.Column) string {
		if !have[name] {
			return "''"
		}
		cols |= c
		return fmt.Sprintf("COALESCE(CAST(%s AS TEXT), '')", name)
	}
	q := fmt.Sprintf(`SELECT CAST(start_time AS TEXT),
       COALESCE(start_station, ''),
       COALESCE(end_station, ''),
       trip_duration,
       %s, %s, %s
FROM %s`, optional("user_type", trips.ColUserType), optional("gender", trips.ColGender), optional("birth_year", trips.ColBirthYear), table)

	var args []any
	if have["city"] {
		q += " WHERE LOWER(city) = LOWER(" + s.placeholder(1) + ")"
		args = append(args, city.Name)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []trips.Trip
	for rows.Next() {
		var (
			t            trips.Trip
			start, birth string
			duration     sql.NullFloat64
		)
		if err := rows.Scan(&start, &t.StartStation, &t.EndStation, &duration, &t.UserType, &t.Gender, &birth); err != nil {
			return nil, err
		}
		if t.StartTime, err = trips.ParseTimestamp(start); err != nil {
			return nil, err
		}
		if !duration.Valid {
			return nil, fmt.Errorf("trip starting %s has no duration", start)
		}
		t.Duration = duration.Float64
		if t.BirthYear, err = trips.ParseBirthYear(birth); err != nil {
			return nil, err
		}
		t.UserType = strings.TrimSpace(t.UserType)
		t.Gender = strings.TrimSpace(t.Gender)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	log.Printf("loaded %d trips for %q from table %s", len(out), city.Name, table)
	return trips.NewTable(city.Name, out, cols), nil
}

// hasColumns returns a map of requested column names to existence for the given table.
func hasColumns(ctx context.Context, db *sql.DB, table string, cols ...string) (map[string]bool, error) {
	res := make(map[string]bool, len(cols))
	for _, c := range cols {
		res[c] = false
	}
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+table+" LIMIT 0")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		n = strings.ToLower(n)
		if _, ok := res[n]; ok {
			res[n] = true
		}
	}
	return res, rows.Err()
}
