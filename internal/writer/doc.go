// Package writer implements the batch upsert writer for the events table.
//
// Writes use fill-only semantics: an existing column value is never
// overwritten, only NULL columns are filled from the incoming row. This
// matches the file store's merge rule where previously stored rows win.
//
// Rows are sent in pgx batches of WriterConfig.BatchSize statements.
package writer
