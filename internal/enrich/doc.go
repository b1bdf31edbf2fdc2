// Package enrich fills odds, weather and outcome fields on event table rows.
//
// Enrichment is strictly sequential: one event is processed fully before the
// next begins. Each field source is independent, so a failure in one never
// suppresses another on the same row, and no failure aborts the batch.
//
// Runner chains the pipeline stages against a Store:
//
//	discover -> merge -> schedule -> enrich -> save
package enrich
