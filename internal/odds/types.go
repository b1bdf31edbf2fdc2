package odds

// HistoricalEventsResponse from GET /historical/sports/{sport}/events.
type HistoricalEventsResponse struct {
	Timestamp         string     `json:"timestamp"`
	PreviousTimestamp string     `json:"previous_timestamp"`
	NextTimestamp     string     `json:"next_timestamp"`
	Data              []EventDoc `json:"data"`
}

// EventDoc is one event in a discovery payload.
type EventDoc struct {
	ID           string `json:"id"`
	SportKey     string `json:"sport_key"`
	SportTitle   string `json:"sport_title"`
	CommenceTime string `json:"commence_time"`
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
}

// HistoricalOddsResponse from GET /historical/sports/{sport}/events/{id}/odds.
type HistoricalOddsResponse struct {
	Timestamp string       `json:"timestamp"`
	Data      OddsDocument `json:"data"`
}

// OddsDocument is the per-event odds body.
type OddsDocument struct {
	ID         string         `json:"id"`
	Bookmakers []BookmakerDoc `json:"bookmakers"`
}

// BookmakerDoc is one bookmaker's markets.
type BookmakerDoc struct {
	Key     string      `json:"key"`
	Title   string      `json:"title"`
	Markets []MarketDoc `json:"markets"`
}

// MarketDoc is one market, keyed e.g. "totals".
type MarketDoc struct {
	Key      string       `json:"key"`
	Outcomes []OutcomeDoc `json:"outcomes"`
}

// OutcomeDoc is one side of a market. Point and Price are nil when absent.
type OutcomeDoc struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
	Point *float64 `json:"point"`
}
