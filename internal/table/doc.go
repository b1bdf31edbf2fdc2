// Package table owns the persisted event table: merging fresh rows into it,
// auditing exported tables for duplicate rows, and the CSV file store.
//
// Absent enrichment fields are empty cells on disk and nil in memory. The
// stored table keeps full precision; rounding happens only in the display
// export (WriteDisplayRows).
package table
