package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rickgao/totals-data/internal/model"
)

var (
	punctRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeName lower-cases, strips punctuation and collapses whitespace.
func NormalizeName(s string) string {
	s = strings.ToLower(s)
	s = punctRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

type matchKey struct {
	date       time.Time
	home, away string
}

// Attach fills schedule facts on rows without a game id. A row matches a game
// on (UTC date, home, away) in either orientation; the first candidate wins.
// Scores are assigned in the row's orientation. Returns the rows attached.
func Attach(rows []model.Row, games []Game) int {
	index := make(map[matchKey]int, len(games))
	for i, g := range games {
		k := matchKey{date: g.Date, home: NormalizeName(g.Home), away: NormalizeName(g.Away)}
		if _, ok := index[k]; !ok {
			index[k] = i
		}
	}

	attached := 0
	for i := range rows {
		r := &rows[i]
		if r.GameID != nil || r.CommenceTime.IsZero() {
			continue
		}

		date := dateOf(r.CommenceTime)
		home, away := NormalizeName(r.HomeTeam), NormalizeName(r.AwayTeam)

		var homeScore, awayScore *int
		gi, ok := index[matchKey{date: date, home: home, away: away}]
		if ok {
			homeScore, awayScore = games[gi].HomeScore, games[gi].AwayScore
		} else if gi, ok = index[matchKey{date: date, home: away, away: home}]; ok {
			homeScore, awayScore = games[gi].AwayScore, games[gi].HomeScore
		}
		if !ok {
			continue
		}

		g := games[gi]
		gameID := strconv.Itoa(g.GamePk)
		r.GameID = &gameID
		if g.VenueID != "" {
			venueID := g.VenueID
			r.VenueID = &venueID
		}
		r.HomeScore = copyInt(homeScore)
		r.AwayScore = copyInt(awayScore)
		if r.HomeScore != nil && r.AwayScore != nil {
			total := *r.HomeScore + *r.AwayScore
			r.TotalRuns = &total
		}
		attached++
	}
	return attached
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
