// Package fetch provides the HTTP GET client shared by the odds, weather and
// schedule clients.
//
// Failure taxonomy:
//   - 404 / 422: ErrNoData (soft, the caller records an absent field)
//   - 429: retried with a fixed backoff, then ErrRateLimited
//   - other non-2xx: *APIError
//   - undecodable body: ErrMalformed
//
// Successful server round trips are followed by a pacing delay to stay under
// upstream quota. Cache hits are not paced.
package fetch
