package odds

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/rickgao/totals-data/internal/fetch"
)

// Price formats accepted by the provider.
const (
	FormatAmerican = "american"
	FormatDecimal  = "decimal"
)

// TotalsMarket is the market key extracted by Totals.
const TotalsMarket = "totals"

// Config holds odds provider request settings.
type Config struct {
	APIKey     string
	Sport      string // e.g. "baseball_mlb"
	Regions    string // e.g. "us"
	OddsFormat string // american or decimal
	MaxLines   int    // 0 omits the parameter
}

// Client reads historical events and odds.
type Client struct {
	fetcher *fetch.Client
	cfg     Config
	logger  *slog.Logger
}

// NewClient creates an odds client on top of fetcher.
func NewClient(fetcher *fetch.Client, cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.OddsFormat == "" {
		cfg.OddsFormat = FormatDecimal
	}
	if cfg.Regions == "" {
		cfg.Regions = "us"
	}
	return &Client{fetcher: fetcher, cfg: cfg, logger: logger}
}

func (c *Client) eventsPath() string {
	return fmt.Sprintf("/v4/historical/sports/%s/events", url.PathEscape(c.cfg.Sport))
}

func (c *Client) oddsPath(eventID string) string {
	return fmt.Sprintf("/v4/historical/sports/%s/events/%s/odds",
		url.PathEscape(c.cfg.Sport), url.PathEscape(eventID))
}

func (c *Client) query() url.Values {
	q := url.Values{}
	if c.cfg.APIKey != "" {
		q.Set("apiKey", c.cfg.APIKey)
	}
	return q
}

func (c *Client) oddsQuery(snapshot string) url.Values {
	q := c.query()
	q.Set("date", snapshot)
	q.Set("regions", c.cfg.Regions)
	q.Set("markets", TotalsMarket)
	q.Set("oddsFormat", c.cfg.OddsFormat)
	if c.cfg.MaxLines > 0 {
		q.Set("max_lines", strconv.Itoa(c.cfg.MaxLines))
	}
	return q
}
