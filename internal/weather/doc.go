// Package weather reduces the hourly archive series around first pitch to a
// per-event model.WeatherSummary.
//
// Upstream: https://archive-api.open-meteo.com/v1/archive, requested in GMT so
// sample times line up with UTC event times.
//
// Missing values are nil all the way through. A window with too few samples
// is fetch.ErrNoData, never a zero-filled summary.
package weather
