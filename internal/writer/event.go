package writer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/totals-data/internal/model"
)

// DB is the subset of pgxpool.Pool the writer needs.
type DB interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// RowWriter upserts event rows in batches.
type RowWriter struct {
	cfg    WriterConfig
	db     DB
	logger *slog.Logger

	mu      sync.Mutex
	metrics WriterMetrics
}

// NewRowWriter creates a new RowWriter.
func NewRowWriter(cfg WriterConfig, db DB, logger *slog.Logger) *RowWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultWriterConfig().BatchSize
	}
	return &RowWriter{
		cfg:    cfg,
		db:     db,
		logger: logger,
	}
}

// Stats returns current metrics.
func (w *RowWriter) Stats() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Write upserts rows. Existing non-NULL columns are kept. The first failed
// batch stops the write; earlier batches stay committed.
func (w *RowWriter) Write(ctx context.Context, rows []model.Row) error {
	return w.write(ctx, rows, upsertSQL)
}

// Overwrite upserts rows letting incoming values win. Odds, weather and
// settlement are replaced as whole groups when the row carries them; absent
// values never clear stored ones.
func (w *RowWriter) Overwrite(ctx context.Context, rows []model.Row) error {
	return w.write(ctx, rows, overwriteSQL)
}

func (w *RowWriter) write(ctx context.Context, rows []model.Row, sql string) error {
	for start := 0; start < len(rows); start += w.cfg.BatchSize {
		end := min(start+w.cfg.BatchSize, len(rows))
		if err := w.flush(ctx, rows[start:end], sql); err != nil {
			return err
		}
	}
	return nil
}

// ReadAll loads every stored row ordered by commence time.
func (w *RowWriter) ReadAll(ctx context.Context) ([]model.Row, error) {
	rows, err := w.db.Query(ctx, selectSQL)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []model.Row
	for rows.Next() {
		var r eventRow
		if err := rows.Scan(r.dest()...); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, r.toModel())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return out, nil
}

// flush writes one batch.
func (w *RowWriter) flush(ctx context.Context, rows []model.Row, sql string) error {
	start := time.Now()

	inserted, err := w.batchUpsert(ctx, rows, sql)
	if err != nil {
		w.logger.Error("batch upsert failed", "error", err, "count", len(rows))
		w.mu.Lock()
		w.metrics.Errors++
		w.mu.Unlock()
		return fmt.Errorf("upsert events: %w", err)
	}

	w.mu.Lock()
	w.metrics.Inserts += int64(inserted)
	w.metrics.Updates += int64(len(rows) - inserted)
	w.metrics.Flushes++
	w.mu.Unlock()

	w.logger.Debug("flushed events",
		"count", len(rows),
		"inserted", inserted,
		"duration", time.Since(start),
	)
	return nil
}

// batchUpsert sends rows using pgx.Batch.
func (w *RowWriter) batchUpsert(ctx context.Context, rows []model.Row, sql string) (inserted int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(sql, transform(r).args()...)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for _, r := range rows {
		var isInsert bool
		if err := results.QueryRow().Scan(&isInsert); err != nil {
			return 0, fmt.Errorf("event %s: %w", r.ID, err)
		}
		if isInsert {
			inserted++
		}
	}

	return inserted, nil
}
