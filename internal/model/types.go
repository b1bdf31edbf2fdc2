package model

import "time"

// -----------------------------------------------------------------------------
// Reference Types
// -----------------------------------------------------------------------------

// Event is a scheduled game discovered from the odds provider.
// Immutable once created; keyed by ID.
type Event struct {
	ID           string    // Odds provider event id (primary key)
	SportKey     string    // e.g. "baseball_mlb"
	SportTitle   string    // e.g. "MLB"
	CommenceTime time.Time // Nominal first pitch (UTC)
	HomeTeam     string
	AwayTeam     string
}

// Venue describes where a game is played.
type Venue struct {
	ID             string
	Name           string
	Latitude       float64
	Longitude      float64
	CompassBearing float64 // Home plate to center field, degrees
	Outdoor        bool
}

// -----------------------------------------------------------------------------
// Enrichment Types
// -----------------------------------------------------------------------------

// OddsQuote is a complete totals quote from one bookmaker.
// A quote only exists when line and both prices are known.
type OddsQuote struct {
	EventID    string
	Line       float64 // Totals point
	OverPrice  float64 // Decimal odds
	UnderPrice float64 // Decimal odds
	BookID     string  // Bookmaker key
	SnapshotAt string  // Provider snapshot token the quote was read at
}

// WeatherSample is one hourly observation. Nil channels are missing upstream.
type WeatherSample struct {
	Time          time.Time
	Temperature   *float64
	Humidity      *float64
	Pressure      *float64
	DewPoint      *float64
	Precipitation *float64
	WindSpeed     *float64
	WindGust      *float64
	WindDirection *float64 // Degrees, [0,360)
	Code          *int     // WMO weather code
}

// WindClass classifies wind relative to the venue orientation.
type WindClass string

const (
	Headwind  WindClass = "Headwind"
	Tailwind  WindClass = "Tailwind"
	Crosswind WindClass = "Crosswind"
)

// WeatherSummary is the per-event reduction of a window of samples.
type WeatherSummary struct {
	SampleCount   int
	Temperature   *float64
	Humidity      *float64
	Pressure      *float64
	DewPoint      *float64
	Precipitation *float64
	WindSpeed     *float64
	WindGust      *float64
	WindDirection *float64 // Circular mean, degrees [0,360)
	Condition     string   // Text for the most common weather code
	WindCategory  WindClass
	WindVector    *float64 // Signed wind speed along the venue bearing
}

// Outcome is the three-way totals result.
type Outcome string

const (
	Over  Outcome = "Over"
	Under Outcome = "Under"
	Push  Outcome = "Push"
)

// Settlement is the classified outcome with flat-stake payouts.
type Settlement struct {
	Outcome      Outcome
	OverPayout   float64
	UnderPayout  float64
	Differential float64 // Realized total minus line
}

// -----------------------------------------------------------------------------
// Table Row
// -----------------------------------------------------------------------------

// Row is one record of the persisted event table.
type Row struct {
	Event

	// Schedule facts, attached by the schedule matcher.
	GameID    *string
	VenueID   *string
	HomeScore *int
	AwayScore *int
	TotalRuns *int

	Odds       *OddsQuote
	Weather    *WeatherSummary
	Settlement *Settlement
}

// HasOdds reports whether the row carries a complete quote.
func (r *Row) HasOdds() bool {
	return r.Odds != nil
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}

// String returns a pointer to v.
func String(v string) *string {
	return &v
}
