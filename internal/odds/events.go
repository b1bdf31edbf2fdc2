package odds

import (
	"context"
	"fmt"
	"time"

	"github.com/rickgao/totals-data/internal/model"
)

// ListEvents returns the events visible at snapshot whose commence time falls
// in [from, to). The second return value is the snapshot token the provider
// answered with.
func (c *Client) ListEvents(ctx context.Context, snapshot, from, to time.Time) ([]model.Event, string, error) {
	query := c.query()
	query.Set("date", FormatTime(snapshot))
	query.Set("commenceTimeFrom", FormatTime(from))
	query.Set("commenceTimeTo", FormatTime(to))
	query.Set("dateFormat", "iso")

	var resp HistoricalEventsResponse
	if err := c.fetcher.Get(ctx, c.eventsPath(), query, &resp); err != nil {
		return nil, "", fmt.Errorf("list events %s: %w", FormatTime(snapshot), err)
	}

	events := make([]model.Event, 0, len(resp.Data))
	for i := range resp.Data {
		ev, err := resp.Data[i].ToModel()
		if err != nil {
			return nil, "", fmt.Errorf("list events %s: %w", FormatTime(snapshot), err)
		}
		events = append(events, ev)
	}

	return events, resp.Timestamp, nil
}
