package enrich

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/totals-data/internal/fetch"
	"github.com/rickgao/totals-data/internal/model"
	"github.com/rickgao/totals-data/internal/outcome"
	"github.com/rickgao/totals-data/internal/progress"
	"github.com/rickgao/totals-data/internal/table"
)

// OddsSource resolves snapshots and reads totals quotes.
type OddsSource interface {
	ResolveSnapshot(ctx context.Context, eventID string, nominal time.Time) (string, error)
	Totals(ctx context.Context, eventID, snapshot string) (model.OddsQuote, error)
}

// WeatherSource summarizes weather around an event at a venue.
type WeatherSource interface {
	Aggregate(ctx context.Context, eventTime time.Time, venue model.Venue) (model.WeatherSummary, error)
}

// VenueLookup resolves venue ids.
type VenueLookup interface {
	Lookup(id string) (model.Venue, bool)
}

// Config holds pipeline configuration.
type Config struct {
	// Force refetches odds and weather even when a row already has them.
	// New values replace stored ones; a refetch that finds nothing keeps
	// the stored value. Runner saves through Overwriter when the store has it.
	Force bool
}

// Summary reports one pipeline run.
type Summary struct {
	RunID          string        `json:"run_id"`
	Rows           int           `json:"rows"`
	Processed      int           `json:"processed"`
	Skipped        int           `json:"skipped"`
	OddsFilled     int           `json:"odds_filled"`
	WeatherFilled  int           `json:"weather_filled"`
	OutcomesFilled int           `json:"outcomes_filled"`
	NoData         int           `json:"no_data"`
	Failures       int           `json:"failures"`
	Duplicates     int           `json:"duplicates"`
	Interrupted    bool          `json:"interrupted"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
}

// Pipeline enriches rows one at a time.
type Pipeline struct {
	cfg       Config
	odds      OddsSource
	weather   WeatherSource
	venues    VenueLookup
	publisher progress.Publisher
	logger    *slog.Logger

	mu   sync.RWMutex
	last *Summary
}

// NewPipeline creates a Pipeline. weather and venues may be nil to skip
// weather enrichment; publisher may be nil.
func NewPipeline(cfg Config, odds OddsSource, weather WeatherSource, venues VenueLookup, publisher progress.Publisher, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = progress.Discard
	}
	return &Pipeline{
		cfg:       cfg,
		odds:      odds,
		weather:   weather,
		venues:    venues,
		publisher: publisher,
		logger:    logger,
	}
}

// LastSummary returns the most recent run summary, if any.
func (p *Pipeline) LastSummary() (Summary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.last == nil {
		return Summary{}, false
	}
	return *p.last, true
}

// Run enriches rows in order and returns the full table.
//
// Input rows are first de-duplicated by event id. Rows that already carry odds
// are skipped for odds unless Force is set, but still get weather and an
// outcome when those are missing. ctx is checked before each event; the in-flight event always runs
// to completion. After an interrupt the remaining rows are returned unchanged.
func (p *Pipeline) Run(ctx context.Context, rows []model.Row) ([]model.Row, Summary) {
	rows, dups := table.Merge(nil, rows)

	sum := Summary{
		RunID:      uuid.NewString(),
		Rows:       len(rows),
		Duplicates: dups,
		StartedAt:  time.Now().UTC(),
	}

	p.publish(sum.RunID, "", progress.StageRun, progress.StatusStarted, "")
	p.logger.Info("enrichment started", "run_id", sum.RunID, "rows", len(rows), "force", p.cfg.Force)

	// Calls are never cut mid-flight.
	callCtx := context.WithoutCancel(ctx)

	for i := range rows {
		if ctx.Err() != nil {
			sum.Interrupted = true
			p.logger.Warn("enrichment interrupted", "run_id", sum.RunID, "processed", sum.Processed, "remaining", len(rows)-i)
			break
		}

		row := &rows[i]
		if row.HasOdds() && !p.cfg.Force {
			sum.Skipped++
			p.fillWeather(callCtx, row, &sum)
			if row.Settlement == nil {
				p.fillOutcome(row, &sum)
			}
			p.publish(sum.RunID, row.ID, progress.StageRow, progress.StatusSkipped, "")
			continue
		}

		p.enrichRow(callCtx, row, &sum)
		sum.Processed++
		p.publish(sum.RunID, row.ID, progress.StageRow, progress.StatusFinished, "")
	}

	sum.Duration = time.Since(sum.StartedAt)

	status := progress.StatusFinished
	if sum.Interrupted {
		status = progress.StatusFailed
	}
	p.publish(sum.RunID, "", progress.StageRun, status, "")

	p.logger.Info("enrichment complete",
		"run_id", sum.RunID,
		"rows", sum.Rows,
		"processed", sum.Processed,
		"skipped", sum.Skipped,
		"odds_filled", sum.OddsFilled,
		"weather_filled", sum.WeatherFilled,
		"outcomes_filled", sum.OutcomesFilled,
		"no_data", sum.NoData,
		"failures", sum.Failures,
		"duplicates", sum.Duplicates,
		"interrupted", sum.Interrupted,
		"duration", sum.Duration,
	)

	p.mu.Lock()
	last := sum
	p.last = &last
	p.mu.Unlock()

	return rows, sum
}

// enrichRow fills each field independently.
func (p *Pipeline) enrichRow(ctx context.Context, row *model.Row, sum *Summary) {
	if q, ok := p.fetchOdds(ctx, row, sum); ok {
		row.Odds = &q
		sum.OddsFilled++
		p.publish(sum.RunID, row.ID, progress.StageOdds, progress.StatusFilled, q.BookID)
	}

	p.fillWeather(ctx, row, sum)
	p.fillOutcome(row, sum)
}

func (p *Pipeline) fillWeather(ctx context.Context, row *model.Row, sum *Summary) {
	if w, ok := p.fetchWeather(ctx, row, sum); ok {
		row.Weather = &w
		sum.WeatherFilled++
		p.publish(sum.RunID, row.ID, progress.StageWeather, progress.StatusFilled, w.Condition)
	}
}

func (p *Pipeline) fillOutcome(row *model.Row, sum *Summary) {
	if s, ok := outcome.ForRow(row); ok {
		row.Settlement = &s
		sum.OutcomesFilled++
		p.publish(sum.RunID, row.ID, progress.StageOutcome, progress.StatusFilled, string(s.Outcome))
	}
}

func (p *Pipeline) fetchOdds(ctx context.Context, row *model.Row, sum *Summary) (model.OddsQuote, bool) {
	snapshot, err := p.odds.ResolveSnapshot(ctx, row.ID, row.CommenceTime)
	if err != nil {
		p.record(sum, row.ID, progress.StageOdds, "snapshot", err)
		return model.OddsQuote{}, false
	}

	q, err := p.odds.Totals(ctx, row.ID, snapshot)
	if err != nil {
		p.record(sum, row.ID, progress.StageOdds, "totals", err)
		return model.OddsQuote{}, false
	}
	return q, true
}

func (p *Pipeline) fetchWeather(ctx context.Context, row *model.Row, sum *Summary) (model.WeatherSummary, bool) {
	if p.weather == nil || p.venues == nil {
		return model.WeatherSummary{}, false
	}
	if row.Weather != nil && !p.cfg.Force {
		return model.WeatherSummary{}, false
	}
	if row.VenueID == nil {
		p.logger.Debug("no venue for event", "event_id", row.ID)
		p.publish(sum.RunID, row.ID, progress.StageWeather, progress.StatusSkipped, "no venue")
		return model.WeatherSummary{}, false
	}

	v, ok := p.venues.Lookup(*row.VenueID)
	if !ok {
		p.logger.Debug("unknown venue", "event_id", row.ID, "venue_id", *row.VenueID)
		p.publish(sum.RunID, row.ID, progress.StageWeather, progress.StatusSkipped, "unknown venue "+*row.VenueID)
		return model.WeatherSummary{}, false
	}

	w, err := p.weather.Aggregate(ctx, row.CommenceTime, v)
	if err != nil {
		p.record(sum, row.ID, progress.StageWeather, "archive", err)
		return model.WeatherSummary{}, false
	}
	return w, true
}

// record classifies a field failure. Soft conditions leave the field absent
// and are logged at debug; everything else counts as a failure.
func (p *Pipeline) record(sum *Summary, eventID string, stage progress.Stage, endpoint string, err error) {
	if fetch.IsSoft(err) {
		sum.NoData++
		p.logger.Debug("no data", "event_id", eventID, "endpoint", endpoint, "error", err)
		p.publish(sum.RunID, eventID, stage, progress.StatusNoData, err.Error())
		return
	}

	sum.Failures++
	p.logger.Warn("fetch failed", "event_id", eventID, "endpoint", endpoint, "error", err)
	p.publish(sum.RunID, eventID, stage, progress.StatusFailed, err.Error())
}

func (p *Pipeline) publish(runID, eventID string, stage progress.Stage, status progress.Status, detail string) {
	p.publisher.Publish(progress.Event{
		RunID:   runID,
		EventID: eventID,
		Stage:   stage,
		Status:  status,
		Detail:  detail,
	})
}
