// Package schedule attaches league schedule facts (game id, venue, final
// score) to discovered events.
//
// Upstream: https://statsapi.mlb.com/api/v1/schedule, one request per season.
package schedule
