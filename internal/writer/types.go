package writer

import (
	"time"

	"github.com/rickgao/totals-data/internal/model"
)

// WriterConfig contains configuration for batch writers.
type WriterConfig struct {
	// BatchSize is the number of rows per pgx batch.
	BatchSize int
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		BatchSize: 500,
	}
}

// WriterMetrics holds metrics for a writer.
type WriterMetrics struct {
	Inserts int64
	Updates int64
	Errors  int64
	Flushes int64
}

// eventRow is one row of the events table. Nil pointers are NULL.
type eventRow struct {
	ID           string
	SportKey     string
	SportTitle   string
	CommenceTime *time.Time
	HomeTeam     string
	AwayTeam     string

	GameID    *string
	VenueID   *string
	HomeScore *int
	AwayScore *int
	TotalRuns *int

	Line       *float64
	OverPrice  *float64
	UnderPrice *float64
	BookID     *string
	SnapshotAt *string

	Samples       *int
	Temperature   *float64
	Humidity      *float64
	Pressure      *float64
	DewPoint      *float64
	Precipitation *float64
	WindSpeed     *float64
	WindGust      *float64
	WindDirection *float64
	Condition     *string
	WindCategory  *string
	WindVector    *float64

	Outcome      *string
	OverPayout   *float64
	UnderPayout  *float64
	Differential *float64
}

// args returns the row values in column order.
func (r eventRow) args() []any {
	return []any{
		r.ID, r.SportKey, r.SportTitle, r.CommenceTime, r.HomeTeam, r.AwayTeam,
		r.GameID, r.VenueID, r.HomeScore, r.AwayScore, r.TotalRuns,
		r.Line, r.OverPrice, r.UnderPrice, r.BookID, r.SnapshotAt,
		r.Samples, r.Temperature, r.Humidity, r.Pressure, r.DewPoint, r.Precipitation,
		r.WindSpeed, r.WindGust, r.WindDirection, r.Condition, r.WindCategory, r.WindVector,
		r.Outcome, r.OverPayout, r.UnderPayout, r.Differential,
	}
}

// dest returns scan targets in column order.
func (r *eventRow) dest() []any {
	return []any{
		&r.ID, &r.SportKey, &r.SportTitle, &r.CommenceTime, &r.HomeTeam, &r.AwayTeam,
		&r.GameID, &r.VenueID, &r.HomeScore, &r.AwayScore, &r.TotalRuns,
		&r.Line, &r.OverPrice, &r.UnderPrice, &r.BookID, &r.SnapshotAt,
		&r.Samples, &r.Temperature, &r.Humidity, &r.Pressure, &r.DewPoint, &r.Precipitation,
		&r.WindSpeed, &r.WindGust, &r.WindDirection, &r.Condition, &r.WindCategory, &r.WindVector,
		&r.Outcome, &r.OverPayout, &r.UnderPayout, &r.Differential,
	}
}

// transform flattens a model row.
func transform(m model.Row) eventRow {
	r := eventRow{
		ID:         m.ID,
		SportKey:   m.SportKey,
		SportTitle: m.SportTitle,
		HomeTeam:   m.HomeTeam,
		AwayTeam:   m.AwayTeam,
		GameID:     m.GameID,
		VenueID:    m.VenueID,
		HomeScore:  m.HomeScore,
		AwayScore:  m.AwayScore,
		TotalRuns:  m.TotalRuns,
	}
	if !m.CommenceTime.IsZero() {
		t := m.CommenceTime.UTC()
		r.CommenceTime = &t
	}

	if q := m.Odds; q != nil {
		r.Line = model.Float(q.Line)
		r.OverPrice = model.Float(q.OverPrice)
		r.UnderPrice = model.Float(q.UnderPrice)
		r.BookID = nonEmpty(q.BookID)
		r.SnapshotAt = nonEmpty(q.SnapshotAt)
	}

	if w := m.Weather; w != nil {
		r.Samples = model.Int(w.SampleCount)
		r.Temperature = w.Temperature
		r.Humidity = w.Humidity
		r.Pressure = w.Pressure
		r.DewPoint = w.DewPoint
		r.Precipitation = w.Precipitation
		r.WindSpeed = w.WindSpeed
		r.WindGust = w.WindGust
		r.WindDirection = w.WindDirection
		r.Condition = nonEmpty(w.Condition)
		r.WindCategory = nonEmpty(string(w.WindCategory))
		r.WindVector = w.WindVector
	}

	if s := m.Settlement; s != nil {
		r.Outcome = model.String(string(s.Outcome))
		r.OverPayout = model.Float(s.OverPayout)
		r.UnderPayout = model.Float(s.UnderPayout)
		r.Differential = model.Float(s.Differential)
	}

	return r
}

// toModel rebuilds a model row. A quote needs line and both prices; weather
// needs a sample count; a settlement needs an outcome.
func (r eventRow) toModel() model.Row {
	m := model.Row{
		Event: model.Event{
			ID:         r.ID,
			SportKey:   r.SportKey,
			SportTitle: r.SportTitle,
			HomeTeam:   r.HomeTeam,
			AwayTeam:   r.AwayTeam,
		},
		GameID:    r.GameID,
		VenueID:   r.VenueID,
		HomeScore: r.HomeScore,
		AwayScore: r.AwayScore,
		TotalRuns: r.TotalRuns,
	}
	if r.CommenceTime != nil {
		m.CommenceTime = r.CommenceTime.UTC()
	}

	if r.Line != nil && r.OverPrice != nil && r.UnderPrice != nil {
		m.Odds = &model.OddsQuote{
			EventID:    r.ID,
			Line:       *r.Line,
			OverPrice:  *r.OverPrice,
			UnderPrice: *r.UnderPrice,
			BookID:     deref(r.BookID),
			SnapshotAt: deref(r.SnapshotAt),
		}
	}

	if r.Samples != nil {
		m.Weather = &model.WeatherSummary{
			SampleCount:   *r.Samples,
			Temperature:   r.Temperature,
			Humidity:      r.Humidity,
			Pressure:      r.Pressure,
			DewPoint:      r.DewPoint,
			Precipitation: r.Precipitation,
			WindSpeed:     r.WindSpeed,
			WindGust:      r.WindGust,
			WindDirection: r.WindDirection,
			Condition:     deref(r.Condition),
			WindCategory:  model.WindClass(deref(r.WindCategory)),
			WindVector:    r.WindVector,
		}
	}

	if r.Outcome != nil {
		m.Settlement = &model.Settlement{
			Outcome:      model.Outcome(*r.Outcome),
			OverPayout:   derefFloat(r.OverPayout),
			UnderPayout:  derefFloat(r.UnderPayout),
			Differential: derefFloat(r.Differential),
		}
	}

	return m
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
