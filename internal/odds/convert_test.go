package odds

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		input float64
		want  float64
	}{
		{150, 2.5},
		{-150, 1 + 100.0/150},
		{100, 2.0},
		{-100, 2.0},
		{-110, 1 + 100.0/110},
		{250, 3.5},
	}

	for _, tt := range tests {
		got, err := AmericanToDecimal(tt.input)
		if err != nil {
			t.Errorf("AmericanToDecimal(%v) error: %v", tt.input, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("AmericanToDecimal(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if _, err := AmericanToDecimal(0); !errors.Is(err, ErrZeroAmerican) {
		t.Errorf("AmericanToDecimal(0) err = %v, want ErrZeroAmerican", err)
	}
}

func TestAmericanToDecimalNotRounded(t *testing.T) {
	got, _ := AmericanToDecimal(-150)
	// Rounding to display precision would give 1.67.
	if math.Abs(got-5.0/3) > 1e-12 {
		t.Errorf("AmericanToDecimal(-150) = %.16f, want 5/3", got)
	}
}

func TestNormalizePrice(t *testing.T) {
	if got, _ := NormalizePrice(1.91, FormatDecimal); got != 1.91 {
		t.Errorf("decimal passthrough = %v, want 1.91", got)
	}
	if got, _ := NormalizePrice(150, FormatAmerican); got != 2.5 {
		t.Errorf("american = %v, want 2.5", got)
	}
	if _, err := NormalizePrice(1.91, "fractional"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 6, 1, 23, 5, 0, 0, time.UTC)

	for _, s := range []string{"2024-06-01T23:05:00Z", "2024-06-01T19:05:00-04:00", "2024-06-01T23:05:00"} {
		got, err := ParseTime(s)
		if err != nil {
			t.Errorf("ParseTime(%q) error: %v", s, err)
			continue
		}
		if !got.Equal(want) || got.Location() != time.UTC {
			t.Errorf("ParseTime(%q) = %v, want %v", s, got, want)
		}
	}

	if _, err := ParseTime("yesterday"); err == nil {
		t.Error("expected error for invalid time")
	}
}

func TestEventDocToModel(t *testing.T) {
	doc := EventDoc{
		ID:           "e1",
		SportKey:     "baseball_mlb",
		SportTitle:   "MLB",
		CommenceTime: "2024-06-01T23:05:00Z",
		HomeTeam:     "New York Yankees",
		AwayTeam:     "Boston Red Sox",
	}
	ev, err := doc.ToModel()
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}
	if ev.ID != "e1" || ev.HomeTeam != "New York Yankees" || ev.CommenceTime.Hour() != 23 {
		t.Errorf("ToModel = %+v", ev)
	}

	doc.CommenceTime = "bad"
	if _, err := doc.ToModel(); err == nil {
		t.Error("expected malformed error")
	}
}
