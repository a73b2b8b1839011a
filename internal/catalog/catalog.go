package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a catalog file fails validation.
var ErrInvalid = errors.New("invalid city catalog")

// ReservedName ends the interactive session and cannot name a city.
const ReservedName = "stop"

// City maps a user-facing city name to the dataset that backs it.
// File is resolved against the data directory; Table names a SQL table
// and is only consulted by the database source.
type City struct {
	Name  string `yaml:"name" validate:"required"`
	File  string `yaml:"file" validate:"required_without=Table"`
	Table string `yaml:"table" validate:"omitempty"`
}

type fileConfig struct {
	Cities []City `yaml:"cities" validate:"required,min=1,dive"`
}

// Catalog is an immutable city lookup. Construct it once and pass it to the
// loader and the prompt.
type Catalog struct {
	byName map[string]City
	names  []string
}

// Default returns the three bundled bikeshare datasets.
func Default() *Catalog {
	c, err := New([]City{
		{Name: "chicago", File: "chicago.csv"},
		{Name: "new york city", File: "new_york_city.csv"},
		{Name: "washington", File: "washington.csv"},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a catalog from the given cities. Names are matched
// case-insensitively and must be unique.
func New(cities []City) (*Catalog, error) {
	if len(cities) == 0 {
		return nil, fmt.Errorf("%w: no cities", ErrInvalid)
	}
	c := &Catalog{byName: make(map[string]City, len(cities))}
	for _, city := range cities {
		key := normalize(city.Name)
		if key == "" {
			return nil, fmt.Errorf("%w: empty city name", ErrInvalid)
		}
		if key == ReservedName {
			return nil, fmt.Errorf("%w: %q is reserved", ErrInvalid, city.Name)
		}
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("%w: duplicate city %q", ErrInvalid, key)
		}
		city.Name = key
		c.byName[key] = city
		c.names = append(c.names, key)
	}
	return c, nil
}

// Load reads a YAML catalog of the form
//
//	cities:
//	  - name: chicago
//	    file: chicago.csv
//	    table: chicago_trips
//
// An empty path yields the default catalog.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read city catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML catalog bytes.
func Parse(data []byte) (*Catalog, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse city catalog: %w", err)
	}
	v := validator.New()
	if err := v.Struct(fc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return New(fc.Cities)
}

// Lookup returns the city registered under name (case-insensitive, trimmed).
func (c *Catalog) Lookup(name string) (City, bool) {
	city, ok := c.byName[normalize(name)]
	return city, ok
}

// Names returns the registered city names in declaration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
