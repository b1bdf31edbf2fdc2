// Package discovery backfills events from the odds provider one UTC day at a
// time.
package discovery

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rickgao/totals-data/internal/fetch"
	"github.com/rickgao/totals-data/internal/model"
)

// EventLister lists events visible at a snapshot within a commence window.
type EventLister interface {
	ListEvents(ctx context.Context, snapshot, from, to time.Time) ([]model.Event, string, error)
}

// Result summarizes a backfill.
type Result struct {
	Events     []model.Event // in fetch order, may contain repeats across days
	Days       int
	FailedDays int
	Fetched    int
	Duration   time.Duration
}

// Discoverer walks days and collects events.
type Discoverer struct {
	lister EventLister
	logger *slog.Logger
}

// New creates a Discoverer.
func New(lister EventLister, logger *slog.Logger) *Discoverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discoverer{lister: lister, logger: logger}
}

// Backfill fetches every UTC day from from through to, inclusive. Each day is
// queried at its 00:00Z snapshot for events commencing in [day, day+1). A
// failed day is logged and skipped. Cancellation stops between days and the
// partial result is returned with the context error.
func (d *Discoverer) Backfill(ctx context.Context, from, to time.Time) (Result, error) {
	start := time.Now()
	var res Result

	first, last := day(from), day(to)
	d.logger.Info("backfilling events", "from", first.Format(time.DateOnly), "to", last.Format(time.DateOnly))

	for cursor := first; !cursor.After(last); cursor = cursor.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			res.Duration = time.Since(start)
			return res, err
		}
		res.Days++

		next := cursor.AddDate(0, 0, 1)
		events, _, err := d.lister.ListEvents(ctx, cursor, cursor, next)
		if err != nil {
			if errors.Is(err, fetch.ErrNoData) {
				d.logger.Debug("no events", "day", cursor.Format(time.DateOnly))
				continue
			}
			if ctx.Err() != nil {
				res.Duration = time.Since(start)
				return res, ctx.Err()
			}
			d.logger.Warn("day fetch failed, skipping", "day", cursor.Format(time.DateOnly), "error", err)
			res.FailedDays++
			continue
		}

		if len(events) > 0 {
			d.logger.Info("fetched events", "day", cursor.Format(time.DateOnly), "count", len(events))
		}
		res.Events = append(res.Events, events...)
		res.Fetched += len(events)
	}

	res.Duration = time.Since(start)
	d.logger.Info("backfill complete",
		"days", res.Days,
		"failed_days", res.FailedDays,
		"fetched", res.Fetched,
		"duration", res.Duration,
	)
	return res, nil
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
