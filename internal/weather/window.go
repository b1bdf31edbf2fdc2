package weather

import (
	"fmt"
	"time"
)

// Preset names.
const (
	PresetStandard   = "standard"
	PresetFirstPitch = "first_pitch"
)

// Window controls which samples are eligible and how they are weighted.
type Window struct {
	HalfWidth  time.Duration
	Weights    []float64 // positional over eligible samples; nil means unweighted
	MinSamples int
	Align      time.Duration // round the center to this grid; 0 keeps the exact time
}

// StandardWindow is +/-1.5h, unweighted, at least one sample.
func StandardWindow() Window {
	return Window{HalfWidth: 90 * time.Minute, MinSamples: 1}
}

// FirstPitchWindow is +/-1h around the hour nearest first pitch, weighted
// toward the hours around it, requiring three samples. Aligning to the hour
// keeps three hourly samples in reach for starts like 19:05.
func FirstPitchWindow() Window {
	return Window{HalfWidth: time.Hour, Weights: []float64{1.0, 1.0, 0.5}, MinSamples: 3, Align: time.Hour}
}

// Preset returns the named window.
func Preset(name string) (Window, error) {
	switch name {
	case PresetStandard, "":
		return StandardWindow(), nil
	case PresetFirstPitch:
		return FirstPitchWindow(), nil
	default:
		return Window{}, fmt.Errorf("unknown weather preset %q", name)
	}
}

// Center returns the window center for an event at eventTime.
func (w Window) Center(eventTime time.Time) time.Time {
	if w.Align > 0 {
		return eventTime.Round(w.Align)
	}
	return eventTime
}

// Contains reports whether t is within the window around center, bounds included.
func (w Window) Contains(center, t time.Time) bool {
	return !t.Before(center.Add(-w.HalfWidth)) && !t.After(center.Add(w.HalfWidth))
}

// weight returns the weight of the i-th eligible sample.
func (w Window) weight(i int) float64 {
	if i < len(w.Weights) {
		return w.Weights[i]
	}
	return 1
}

func (w Window) minSamples() int {
	if w.MinSamples < 1 {
		return 1
	}
	return w.MinSamples
}
