// Package database provides the PostgreSQL connection pool and the event
// table store.
//
// The Postgres store is an alternative to the CSV file store. Both hold the
// same columns; Postgres adds fill-only upserts so concurrent or repeated
// saves never erase enrichment already recorded.
package database
