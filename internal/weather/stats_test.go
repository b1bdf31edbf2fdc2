package weather

import (
	"math"
	"testing"

	"github.com/rickgao/totals-data/internal/model"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestWeightedMean(t *testing.T) {
	tests := []struct {
		name    string
		values  []*float64
		weights []float64
		want    *float64
	}{
		{"unweighted", []*float64{fp(10), fp(20), fp(30)}, nil, fp(20)},
		{"weighted", []*float64{fp(10), fp(20), fp(40)}, []float64{1, 1, 0.5}, fp(20)},
		{"skips nil in both sums", []*float64{fp(10), nil, fp(30)}, []float64{1, 5, 1}, fp(20)},
		{"skips NaN", []*float64{fp(math.NaN()), fp(4)}, nil, fp(4)},
		{"all nil", []*float64{nil, nil}, nil, nil},
		{"zero weight", []*float64{fp(10)}, []float64{0}, nil},
		{"empty", nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedMean(tt.values, tt.weights)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("WeightedMean = %v, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("WeightedMean = nil, want %v", *tt.want)
			case tt.want != nil && !approx(*got, *tt.want):
				t.Errorf("WeightedMean = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestCircularMean(t *testing.T) {
	t.Run("wraps around north", func(t *testing.T) {
		got := CircularMean([]*float64{fp(350), fp(10)}, nil)
		if got == nil {
			t.Fatal("CircularMean = nil")
		}
		// An arithmetic mean would give 180.
		if !approx(*got, 0) && !approx(*got, 360) {
			t.Errorf("CircularMean(350, 10) = %v, want 0", *got)
		}
		if *got < 0 || *got >= 360 {
			t.Errorf("CircularMean out of range: %v", *got)
		}
	})

	t.Run("normalized to positive", func(t *testing.T) {
		got := CircularMean([]*float64{fp(300), fp(320)}, nil)
		if got == nil || !approx(*got, 310) {
			t.Errorf("CircularMean(300, 320) = %v, want 310", got)
		}
	})

	t.Run("weighted", func(t *testing.T) {
		got := CircularMean([]*float64{fp(0), fp(90)}, []float64{1, 0})
		if got == nil || !approx(*got, 0) {
			t.Errorf("CircularMean = %v, want 0", got)
		}
	})

	t.Run("opposite directions cancel", func(t *testing.T) {
		if got := CircularMean([]*float64{fp(90), fp(270)}, nil); got != nil {
			t.Errorf("CircularMean(90, 270) = %v, want nil", *got)
		}
	})

	t.Run("no usable values", func(t *testing.T) {
		if got := CircularMean([]*float64{nil}, nil); got != nil {
			t.Errorf("CircularMean = %v, want nil", *got)
		}
	})
}

func TestClassifyWind(t *testing.T) {
	tests := []struct {
		dir, bearing float64
		want         model.WindClass
	}{
		{0, 0, model.Headwind},
		{45, 0, model.Headwind},
		{46, 0, model.Crosswind},
		{315, 0, model.Headwind},
		{314, 0, model.Crosswind},
		{135, 0, model.Tailwind},
		{180, 0, model.Tailwind},
		{225, 0, model.Tailwind},
		{226, 0, model.Crosswind},
		{90, 0, model.Crosswind},
		{10, 350, model.Headwind},
		{200, 20, model.Tailwind},
	}

	for _, tt := range tests {
		if got := ClassifyWind(tt.dir, tt.bearing); got != tt.want {
			t.Errorf("ClassifyWind(%v, %v) = %v, want %v", tt.dir, tt.bearing, got, tt.want)
		}
	}
}

func TestWindVector(t *testing.T) {
	tests := []struct {
		speed, dir, bearing, want float64
	}{
		{10, 0, 0, 10},
		{10, 180, 0, -10},
		{10, 90, 0, 0},
		{10, 60, 0, 5},
		{10, 10, 350, 10 * math.Cos(20*math.Pi/180)},
	}

	for _, tt := range tests {
		if got := WindVector(tt.speed, tt.dir, tt.bearing); !approx(got, tt.want) {
			t.Errorf("WindVector(%v, %v, %v) = %v, want %v", tt.speed, tt.dir, tt.bearing, got, tt.want)
		}
	}
}

func TestCondition(t *testing.T) {
	if got := Condition(0); got != "Clear sky" {
		t.Errorf("Condition(0) = %q", got)
	}
	if got := Condition(95); got != "Thunderstorm" {
		t.Errorf("Condition(95) = %q", got)
	}
	if got := Condition(42); got != UnknownCondition {
		t.Errorf("Condition(42) = %q, want %q", got, UnknownCondition)
	}
}

func TestDominantCode(t *testing.T) {
	tests := []struct {
		name   string
		codes  []*int
		want   int
		wantOK bool
	}{
		{"most frequent", []*int{ip(1), ip(3), ip(3)}, 3, true},
		{"tie goes to first seen", []*int{ip(61), ip(3), ip(3), ip(61)}, 61, true},
		{"nil skipped", []*int{nil, ip(2), nil}, 2, true},
		{"none", []*int{nil}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DominantCode(tt.codes)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("DominantCode = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
