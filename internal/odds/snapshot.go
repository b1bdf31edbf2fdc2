package odds

import (
	"context"
	"fmt"
	"time"

	"github.com/rickgao/totals-data/internal/fetch"
)

// ResolveSnapshot returns the provider snapshot token valid at nominal for
// eventID. It never falls back to nominal: an empty answer is fetch.ErrNoData.
func (c *Client) ResolveSnapshot(ctx context.Context, eventID string, nominal time.Time) (string, error) {
	query := c.query()
	query.Set("date", FormatTime(nominal))
	query.Set("eventIds", eventID)

	var resp HistoricalEventsResponse
	if err := c.fetcher.Get(ctx, c.eventsPath(), query, &resp); err != nil {
		return "", fmt.Errorf("resolve snapshot %s: %w", eventID, err)
	}

	if resp.Timestamp == "" {
		return "", fmt.Errorf("resolve snapshot %s: %w", eventID, fetch.ErrNoData)
	}

	return resp.Timestamp, nil
}
