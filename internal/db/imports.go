package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ResolveTripsTable returns the table_name with the most recent imported_at
// from bikeshare_imports for the given city. ph is the driver's first bind
// placeholder.
func ResolveTripsTable(ctx context.Context, db *sql.DB, ph, city string) (string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return "", fmt.Errorf("city is required")
	}
	q := `
SELECT table_name
FROM bikeshare_imports
WHERE LOWER(city) = LOWER(` + ph + `)
ORDER BY imported_at DESC
LIMIT 1`
	var name sql.NullString
	if err := db.QueryRowContext(ctx, q, city).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("no import found for city %q", city)
		}
		return "", err
	}
	if !name.Valid || name.String == "" {
		return "", fmt.Errorf("empty table_name for city %q", city)
	}
	return name.String, nil
}
