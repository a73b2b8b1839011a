package trips

import (
	"context"
	"errors"
	"fmt"

	"bikeshare/internal/catalog"
)

// ErrUnknownCity is returned when a selection names a city the catalog does
// not know.
var ErrUnknownCity = errors.New("unknown city")

// Source produces the unfiltered table for a city.
type Source interface {
	Fetch(ctx context.Context, city catalog.City) (*Table, error)
}

// Loader resolves a selection to a filtered table.
type Loader struct {
	cities *catalog.Catalog
	source Source
}

func NewLoader(cities *catalog.Catalog, source Source) *Loader {
	return &Loader{cities: cities, source: source}
}

// Load fetches the selected city's dataset and applies the month and day
// filters. An empty result is not an error; callers check Table.Empty.
func (l *Loader) Load(ctx context.Context, sel Selection) (*Table, error) {
	city, ok := l.cities.Lookup(sel.City)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCity, sel.City)
	}
	tbl, err := l.source.Fetch(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", city.Name, err)
	}
	return tbl.Filter(sel.Month, sel.Day), nil
}
