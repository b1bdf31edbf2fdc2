package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/rickgao/totals-data/internal/fetch"
)

// SchedulePath is the schedule endpoint.
const SchedulePath = "/schedule"

// Game is one scheduled game. Scores are nil until the game is final.
type Game struct {
	GamePk    int
	Date      time.Time // UTC calendar date of first pitch
	Home      string
	Away      string
	HomeScore *int
	AwayScore *int
	VenueID   string
}

// ScheduleResponse from GET /schedule.
type ScheduleResponse struct {
	Dates []DateDoc `json:"dates"`
}

// DateDoc groups games by official date.
type DateDoc struct {
	Date  string    `json:"date"`
	Games []GameDoc `json:"games"`
}

// GameDoc is one game in the schedule payload.
type GameDoc struct {
	GamePk   int    `json:"gamePk"`
	GameDate string `json:"gameDate"`
	Teams    struct {
		Home TeamDoc `json:"home"`
		Away TeamDoc `json:"away"`
	} `json:"teams"`
	Venue struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"venue"`
}

// TeamDoc is one side of a game.
type TeamDoc struct {
	Score *int `json:"score"`
	Team  struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
}

// Client reads the league schedule.
type Client struct {
	fetcher  *fetch.Client
	sportID  int
	gameType string
	logger   *slog.Logger
}

// NewClient creates a schedule client. sportID 1 is MLB; gameType "R" is the
// regular season.
func NewClient(fetcher *fetch.Client, sportID int, gameType string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if sportID == 0 {
		sportID = 1
	}
	if gameType == "" {
		gameType = "R"
	}
	return &Client{fetcher: fetcher, sportID: sportID, gameType: gameType, logger: logger}
}

// Season fetches every game of season.
func (c *Client) Season(ctx context.Context, season int) ([]Game, error) {
	query := url.Values{}
	query.Set("sportId", strconv.Itoa(c.sportID))
	query.Set("season", strconv.Itoa(season))
	query.Set("gameTypes", c.gameType)
	query.Set("hydrate", "teams,venue")

	var resp ScheduleResponse
	if err := c.fetcher.Get(ctx, SchedulePath, query, &resp); err != nil {
		return nil, fmt.Errorf("get schedule %d: %w", season, err)
	}

	var games []Game
	for _, d := range resp.Dates {
		for _, g := range d.Games {
			game, err := g.toGame()
			if err != nil {
				c.logger.Warn("skipping schedule entry", "game_pk", g.GamePk, "error", err)
				continue
			}
			games = append(games, game)
		}
	}

	c.logger.Info("fetched schedule", "season", season, "games", len(games))
	return games, nil
}

// Seasons fetches every season touched by [from, to]. A failed season is
// logged and skipped.
func (c *Client) Seasons(ctx context.Context, from, to time.Time) ([]Game, error) {
	var all []Game
	var failed int
	for y := from.UTC().Year(); y <= to.UTC().Year(); y++ {
		games, err := c.Season(ctx, y)
		if err != nil {
			if ctx.Err() != nil {
				return all, ctx.Err()
			}
			c.logger.Warn("schedule season failed", "season", y, "error", err)
			failed++
			continue
		}
		all = append(all, games...)
	}
	if failed > 0 && len(all) == 0 {
		return nil, fmt.Errorf("all %d schedule seasons failed", failed)
	}
	return all, nil
}

func (g GameDoc) toGame() (Game, error) {
	t, err := time.Parse(time.RFC3339, g.GameDate)
	if err != nil {
		return Game{}, fetch.Malformed("gameDate %q", g.GameDate)
	}
	game := Game{
		GamePk:    g.GamePk,
		Date:      dateOf(t),
		Home:      g.Teams.Home.Team.Name,
		Away:      g.Teams.Away.Team.Name,
		HomeScore: g.Teams.Home.Score,
		AwayScore: g.Teams.Away.Score,
	}
	if g.Venue.ID != 0 {
		game.VenueID = strconv.Itoa(g.Venue.ID)
	}
	return game, nil
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
