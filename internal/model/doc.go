// Package model defines shared data types used across the totals pipeline.
//
// All types mirror the persisted event table (see table.Columns).
//
// Conventions:
//   - Timestamps: time.Time in UTC
//   - Prices: decimal odds (float64, never rounded internally)
//   - Missing data: nil pointers, never sentinel numbers
//   - IDs: provider strings (odds event id, league game id, venue id)
package model
