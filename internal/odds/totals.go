package odds

import (
	"context"
	"fmt"

	"github.com/rickgao/totals-data/internal/fetch"
	"github.com/rickgao/totals-data/internal/model"
)

// Totals fetches odds for eventID at snapshot and extracts the totals quote.
func (c *Client) Totals(ctx context.Context, eventID, snapshot string) (model.OddsQuote, error) {
	var resp HistoricalOddsResponse
	if err := c.fetcher.Get(ctx, c.oddsPath(eventID), c.oddsQuery(snapshot), &resp); err != nil {
		return model.OddsQuote{}, fmt.Errorf("get totals %s: %w", eventID, err)
	}

	quote, ok := ExtractTotals(resp.Data, eventID, c.cfg.OddsFormat)
	if !ok {
		return model.OddsQuote{}, fmt.Errorf("get totals %s: no complete market: %w", eventID, fetch.ErrNoData)
	}
	quote.SnapshotAt = snapshot
	if resp.Timestamp != "" {
		quote.SnapshotAt = resp.Timestamp
	}

	return quote, nil
}

// ExtractTotals scans bookmakers in document order and returns the quote of
// the first one with a complete totals market. A market is complete when both
// Over and Under carry a point and a price. The line is the Over point.
func ExtractTotals(doc OddsDocument, eventID, format string) (model.OddsQuote, bool) {
	for _, book := range doc.Bookmakers {
		for _, market := range book.Markets {
			if market.Key != TotalsMarket {
				continue
			}

			over, under := findSide(market.Outcomes, "Over"), findSide(market.Outcomes, "Under")
			if !complete(over) || !complete(under) {
				continue
			}

			overPrice, err := NormalizePrice(*over.Price, format)
			if err != nil {
				continue
			}
			underPrice, err := NormalizePrice(*under.Price, format)
			if err != nil {
				continue
			}

			return model.OddsQuote{
				EventID:    eventID,
				Line:       *over.Point,
				OverPrice:  overPrice,
				UnderPrice: underPrice,
				BookID:     book.Key,
			}, true
		}
	}
	return model.OddsQuote{}, false
}

func findSide(outcomes []OutcomeDoc, name string) *OutcomeDoc {
	for i := range outcomes {
		if outcomes[i].Name == name {
			return &outcomes[i]
		}
	}
	return nil
}

func complete(o *OutcomeDoc) bool {
	return o != nil && o.Point != nil && o.Price != nil
}
