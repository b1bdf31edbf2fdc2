// Package odds reads historical totals markets from the odds provider.
//
// Endpoints (base https://api.the-odds-api.com):
//   - GET /v4/historical/sports/{sport}/events             discovery and snapshot lookup
//   - GET /v4/historical/sports/{sport}/events/{id}/odds   odds at a snapshot
//
// A nominal time never addresses a snapshot directly. Callers resolve the
// snapshot token first and pass that token to Totals.
package odds
