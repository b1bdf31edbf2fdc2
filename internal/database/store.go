package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/totals-data/internal/model"
	"github.com/rickgao/totals-data/internal/writer"
)

// Pool is the subset of pgxpool.Pool the store needs.
type Pool interface {
	writer.DB
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EventStore keeps the event table in Postgres.
type EventStore struct {
	pool   Pool
	writer *writer.RowWriter
	logger *slog.Logger
}

// NewEventStore creates a store writing batches of batchSize rows.
func NewEventStore(pool Pool, batchSize int, logger *slog.Logger) *EventStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventStore{
		pool:   pool,
		writer: writer.NewRowWriter(writer.WriterConfig{BatchSize: batchSize}, pool, logger),
		logger: logger,
	}
}

// EnsureSchema creates the events table if it does not exist.
func (s *EventStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, writer.Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Load returns every stored row ordered by commence time.
func (s *EventStore) Load(ctx context.Context) ([]model.Row, error) {
	rows, err := s.writer.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("loaded events", "count", len(rows))
	return rows, nil
}

// Save upserts rows. Stored values win; only absent columns are filled.
func (s *EventStore) Save(ctx context.Context, rows []model.Row) error {
	if err := s.writer.Write(ctx, rows); err != nil {
		return err
	}
	s.logSaved(len(rows))
	return nil
}

// Overwrite upserts rows letting their values replace stored ones. Used for
// forced re-enrichment.
func (s *EventStore) Overwrite(ctx context.Context, rows []model.Row) error {
	if err := s.writer.Overwrite(ctx, rows); err != nil {
		return err
	}
	s.logSaved(len(rows))
	return nil
}

func (s *EventStore) logSaved(count int) {
	stats := s.writer.Stats()
	s.logger.Info("saved events",
		"count", count,
		"inserts_total", stats.Inserts,
		"updates_total", stats.Updates,
	)
}

var _ Pool = (*pgxpool.Pool)(nil)
