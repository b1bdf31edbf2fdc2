package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickgao/totals-data/internal/discovery"
	"github.com/rickgao/totals-data/internal/model"
	"github.com/rickgao/totals-data/internal/schedule"
	"github.com/rickgao/totals-data/internal/table"
)

// Store loads and saves the event table.
type Store interface {
	Load(ctx context.Context) ([]model.Row, error)
	Save(ctx context.Context, rows []model.Row) error
}

// Overwriter is implemented by stores that keep stored values on Save and
// need an explicit call to replace them.
type Overwriter interface {
	Overwrite(ctx context.Context, rows []model.Row) error
}

// Discoverer backfills events over a date range.
type Discoverer interface {
	Backfill(ctx context.Context, from, to time.Time) (discovery.Result, error)
}

// ScheduleSource fetches league schedules covering a date range.
type ScheduleSource interface {
	Seasons(ctx context.Context, from, to time.Time) ([]schedule.Game, error)
}

// DiscoverReport summarizes a discover stage.
type DiscoverReport struct {
	Fetched    int
	Added      int
	Duplicates int
	FailedDays int
	Total      int
}

// Runner chains the pipeline stages against a store. Any stage may be nil
// when its command is not used.
type Runner struct {
	store    Store
	discover Discoverer
	schedule ScheduleSource
	pipeline *Pipeline
	logger   *slog.Logger
	lookback time.Duration
	timeNow  func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLookback sets the discovery range used by RunAll.
func WithLookback(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.lookback = d
	}
}

// NewRunner creates a Runner.
func NewRunner(store Store, disc Discoverer, sched ScheduleSource, pipeline *Pipeline, logger *slog.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		store:    store,
		discover: disc,
		schedule: sched,
		pipeline: pipeline,
		logger:   logger,
		lookback: 72 * time.Hour,
		timeNow:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Pipeline returns the enrichment pipeline.
func (r *Runner) Pipeline() *Pipeline {
	return r.pipeline
}

// Discover backfills [from, to] and folds new events into the store. Stored
// rows win over rediscovered ones. Days that were fetched before an interrupt
// are still saved.
func (r *Runner) Discover(ctx context.Context, from, to time.Time) (DiscoverReport, error) {
	if r.discover == nil {
		return DiscoverReport{}, errors.New("discovery not configured")
	}

	previous, err := r.store.Load(ctx)
	if err != nil {
		return DiscoverReport{}, fmt.Errorf("load table: %w", err)
	}

	res, backfillErr := r.discover.Backfill(ctx, from, to)

	merged, dropped := table.Merge(previous, table.RowsFromEvents(res.Events))
	report := DiscoverReport{
		Fetched:    res.Fetched,
		Added:      len(merged) - len(previous),
		Duplicates: dropped,
		FailedDays: res.FailedDays,
		Total:      len(merged),
	}

	if err := r.store.Save(context.WithoutCancel(ctx), merged); err != nil {
		return report, fmt.Errorf("save table: %w", err)
	}

	r.logger.Info("discovery merged",
		"fetched", report.Fetched,
		"added", report.Added,
		"duplicates_removed", report.Duplicates,
		"failed_days", report.FailedDays,
		"total", report.Total,
	)
	return report, backfillErr
}

// Schedule attaches league schedule facts to stored rows that lack them.
func (r *Runner) Schedule(ctx context.Context) (int, error) {
	if r.schedule == nil {
		return 0, errors.New("schedule source not configured")
	}

	rows, err := r.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load table: %w", err)
	}

	from, to, ok := unscheduledRange(rows)
	if !ok {
		r.logger.Info("all rows already scheduled", "rows", len(rows))
		return 0, nil
	}

	games, err := r.schedule.Seasons(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("fetch schedule: %w", err)
	}

	attached := schedule.Attach(rows, games)
	if attached > 0 {
		if err := r.store.Save(context.WithoutCancel(ctx), rows); err != nil {
			return attached, fmt.Errorf("save table: %w", err)
		}
	}

	r.logger.Info("schedule attached", "games", len(games), "attached", attached, "rows", len(rows))
	return attached, nil
}

// Enrich runs the pipeline over the stored table and saves the result, even
// when interrupted.
func (r *Runner) Enrich(ctx context.Context) (Summary, error) {
	if r.pipeline == nil {
		return Summary{}, errors.New("pipeline not configured")
	}

	rows, err := r.store.Load(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load table: %w", err)
	}

	rows, sum := r.pipeline.Run(ctx, rows)

	if err := r.saveEnriched(context.WithoutCancel(ctx), rows); err != nil {
		return sum, fmt.Errorf("save table: %w", err)
	}
	return sum, nil
}

// saveEnriched makes forced refetches stick in stores that otherwise keep
// stored values.
func (r *Runner) saveEnriched(ctx context.Context, rows []model.Row) error {
	if ow, ok := r.store.(Overwriter); ok && r.pipeline.cfg.Force {
		return ow.Overwrite(ctx, rows)
	}
	return r.store.Save(ctx, rows)
}

// RunAll discovers the lookback window ending today, attaches schedules and
// enriches. A discovery or schedule failure is logged and enrichment still
// runs over what is stored.
func (r *Runner) RunAll(ctx context.Context) (Summary, error) {
	to := r.timeNow().UTC()
	from := to.Add(-r.lookback)

	if r.discover != nil {
		if _, err := r.Discover(ctx, from, to); err != nil {
			if ctx.Err() != nil {
				return Summary{}, err
			}
			r.logger.Warn("discover stage failed", "error", err)
		}
	}

	if r.schedule != nil {
		if _, err := r.Schedule(ctx); err != nil {
			if ctx.Err() != nil {
				return Summary{}, err
			}
			r.logger.Warn("schedule stage failed", "error", err)
		}
	}

	return r.Enrich(ctx)
}

// unscheduledRange returns the commence range of rows without a game id.
func unscheduledRange(rows []model.Row) (from, to time.Time, ok bool) {
	for _, row := range rows {
		if row.GameID != nil || row.CommenceTime.IsZero() {
			continue
		}
		if !ok || row.CommenceTime.Before(from) {
			from = row.CommenceTime
		}
		if !ok || row.CommenceTime.After(to) {
			to = row.CommenceTime
		}
		ok = true
	}
	return from, to, ok
}
