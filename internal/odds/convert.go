package odds

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rickgao/totals-data/internal/fetch"
	"github.com/rickgao/totals-data/internal/model"
)

// ErrZeroAmerican is returned for American odds of 0, which have no decimal form.
var ErrZeroAmerican = errors.New("american odds cannot be zero")

// AmericanToDecimal converts American odds to decimal odds.
// +150 -> 2.5, -150 -> 1.666...
// The result is never rounded.
func AmericanToDecimal(american float64) (float64, error) {
	switch {
	case american > 0:
		return american/100 + 1, nil
	case american < 0:
		return 100/math.Abs(american) + 1, nil
	default:
		return 0, ErrZeroAmerican
	}
}

// NormalizePrice converts a provider price in format to decimal odds.
func NormalizePrice(price float64, format string) (float64, error) {
	switch format {
	case FormatAmerican:
		return AmericanToDecimal(price)
	case FormatDecimal, "":
		return price, nil
	default:
		return 0, fmt.Errorf("unknown odds format %q", format)
	}
}

// FormatTime renders t as the provider's ISO form, e.g. 2024-06-01T23:05:00Z.
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// ParseTime parses a provider timestamp. Accepts RFC 3339 and the zone-less form.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05", s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t.UTC(), nil
}

// ToModel validates an EventDoc and converts it to model.Event.
func (e *EventDoc) ToModel() (model.Event, error) {
	if e.ID == "" {
		return model.Event{}, fetch.Malformed("event without id")
	}
	commence, err := ParseTime(e.CommenceTime)
	if err != nil {
		return model.Event{}, fetch.Malformed("event %s commence_time %q", e.ID, e.CommenceTime)
	}
	return model.Event{
		ID:           e.ID,
		SportKey:     e.SportKey,
		SportTitle:   e.SportTitle,
		CommenceTime: commence,
		HomeTeam:     e.HomeTeam,
		AwayTeam:     e.AwayTeam,
	}, nil
}
