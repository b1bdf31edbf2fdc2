// Package venue loads ballpark coordinates and orientation from a YAML file.
package venue

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/rickgao/totals-data/internal/model"
)

// File is the on-disk layout.
type File struct {
	Venues []Entry `yaml:"venues"`
}

// Entry is one venue in the file.
type Entry struct {
	ID             string  `yaml:"id"`
	Name           string  `yaml:"name"`
	Latitude       float64 `yaml:"latitude"`
	Longitude      float64 `yaml:"longitude"`
	CompassBearing float64 `yaml:"compass_bearing"`
	Outdoor        *bool   `yaml:"outdoor"`
}

// Registry maps venue ids to venues.
type Registry struct {
	venues map[string]model.Venue
}

// NewRegistry builds a registry from venues.
func NewRegistry(venues []model.Venue) *Registry {
	r := &Registry{venues: make(map[string]model.Venue, len(venues))}
	for _, v := range venues {
		r.venues[v.ID] = v
	}
	return r
}

// Load reads a registry file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read venues file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates registry YAML.
func Parse(data []byte) (*Registry, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse venues yaml: %w", err)
	}

	venues := make([]model.Venue, 0, len(f.Venues))
	seen := make(map[string]bool, len(f.Venues))
	for i, e := range f.Venues {
		if e.ID == "" {
			return nil, fmt.Errorf("venues[%d].id is required", i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("venues[%d]: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = true
		if e.Latitude < -90 || e.Latitude > 90 {
			return nil, fmt.Errorf("venues[%d].latitude out of range: %v", i, e.Latitude)
		}
		if e.Longitude < -180 || e.Longitude > 180 {
			return nil, fmt.Errorf("venues[%d].longitude out of range: %v", i, e.Longitude)
		}
		if e.CompassBearing < 0 || e.CompassBearing >= 360 {
			return nil, fmt.Errorf("venues[%d].compass_bearing must be in [0,360): %v", i, e.CompassBearing)
		}

		outdoor := true
		if e.Outdoor != nil {
			outdoor = *e.Outdoor
		}
		venues = append(venues, model.Venue{
			ID:             e.ID,
			Name:           e.Name,
			Latitude:       e.Latitude,
			Longitude:      e.Longitude,
			CompassBearing: e.CompassBearing,
			Outdoor:        outdoor,
		})
	}

	return NewRegistry(venues), nil
}

// Lookup returns the venue for id.
func (r *Registry) Lookup(id string) (model.Venue, bool) {
	if r == nil {
		return model.Venue{}, false
	}
	v, ok := r.venues[id]
	return v, ok
}

// Len returns the number of venues.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.venues)
}

// IDs returns venue ids in sorted order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.venues))
	for id := range r.venues {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
