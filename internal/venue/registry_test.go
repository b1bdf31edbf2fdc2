package venue

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleYAML = `
venues:
  - id: "3313"
    name: Yankee Stadium
    latitude: 40.8296
    longitude: -73.9262
    compass_bearing: 75
  - id: "12"
    name: Tropicana Field
    latitude: 27.7682
    longitude: -82.6534
    compass_bearing: 45
    outdoor: false
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "venues.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}

	v, ok := r.Lookup("3313")
	if !ok {
		t.Fatal("Lookup(3313) not found")
	}
	if v.Name != "Yankee Stadium" || v.CompassBearing != 75 || !v.Outdoor {
		t.Errorf("venue = %+v", v)
	}

	dome, _ := r.Lookup("12")
	if dome.Outdoor {
		t.Error("Tropicana Field should be indoor")
	}

	if _, ok := r.Lookup("999"); ok {
		t.Error("Lookup(999) should miss")
	}
	if got := r.IDs(); !reflect.DeepEqual(got, []string{"12", "3313"}) {
		t.Errorf("IDs() = %v", got)
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"missing id", "venues:\n  - name: x\n", "id is required"},
		{"duplicate", "venues:\n  - id: a\n  - id: a\n", "duplicate id"},
		{"latitude", "venues:\n  - id: a\n    latitude: 91\n", "latitude out of range"},
		{"longitude", "venues:\n  - id: a\n    longitude: -181\n", "longitude out of range"},
		{"bearing", "venues:\n  - id: a\n    compass_bearing: 360\n", "compass_bearing"},
		{"bad yaml", "venues: [", "parse venues yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	if _, ok := r.Lookup("x"); ok {
		t.Error("nil registry lookup should miss")
	}
	if r.Len() != 0 || r.IDs() != nil {
		t.Error("nil registry should be empty")
	}
}

func TestShippedVenuesFile(t *testing.T) {
	r, err := Load(filepath.Join("..", "..", "configs", "venues.yaml"))
	if err != nil {
		t.Fatalf("Load shipped venues: %v", err)
	}
	if _, ok := r.Lookup("3313"); !ok {
		t.Error("shipped file should contain Yankee Stadium")
	}
}
