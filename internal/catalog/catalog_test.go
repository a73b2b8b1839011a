package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	want := []string{"chicago", "new york city", "washington"}
	got := c.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %d cities, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("city %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	city, ok := c.Lookup("  New York City ")
	if !ok {
		t.Fatal("expected case-insensitive lookup to succeed")
	}
	if city.File != "new_york_city.csv" {
		t.Errorf("expected new_york_city.csv, got %q", city.File)
	}
	if _, ok := c.Lookup("boston"); ok {
		t.Error("boston should not be in the default catalog")
	}
}

func TestNamesReturnsCopy(t *testing.T) {
	c := Default()
	names := c.Names()
	names[0] = "mutated"
	if c.Names()[0] != "chicago" {
		t.Error("Names must not expose internal state")
	}
}

func TestParseCatalog(t *testing.T) {
	data := []byte(`
cities:
  - name: Boston
    file: boston.csv
  - name: denver
    table: denver_trips
`)
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	b, ok := c.Lookup("boston")
	if !ok || b.File != "boston.csv" || b.Name != "boston" {
		t.Errorf("unexpected boston entry: %+v (ok=%v)", b, ok)
	}
	d, ok := c.Lookup("DENVER")
	if !ok || d.Table != "denver_trips" {
		t.Errorf("unexpected denver entry: %+v (ok=%v)", d, ok)
	}
	if names := c.Names(); len(names) != 2 || names[0] != "boston" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestParseCatalogInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no cities", "cities: []\n"},
		{"missing name", "cities:\n  - file: x.csv\n"},
		{"missing file and table", "cities:\n  - name: x\n"},
		{"reserved name", "cities:\n  - name: Stop\n    file: s.csv\n"},
		{"duplicate", "cities:\n  - name: a\n    file: a.csv\n  - name: A\n    file: b.csv\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestParseCatalogBadYAML(t *testing.T) {
	_, err := Parse([]byte("cities: [[["))
	if err == nil {
		t.Fatal("expected YAML error")
	}
	if errors.Is(err, ErrInvalid) {
		t.Error("syntax errors should not be reported as validation errors")
	}
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if len(c.Names()) != 3 {
		t.Errorf("empty path should give default catalog, got %v", c.Names())
	}

	path := filepath.Join(t.TempDir(), "cities.yml")
	if err := os.WriteFile(path, []byte("cities:\n  - name: austin\n    file: austin.csv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err = Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := c.Lookup("austin"); !ok {
		t.Error("expected austin from file")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("expected error for missing file")
	}
}
