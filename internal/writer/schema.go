package writer

import (
	"fmt"
	"strings"

	"github.com/rickgao/totals-data/internal/table"
)

// Table is the events table name.
const Table = "events"

// Schema creates the events table. Column names match the file store.
const Schema = `
CREATE TABLE IF NOT EXISTS events (
	id               TEXT PRIMARY KEY,
	sport_key        TEXT NOT NULL DEFAULT '',
	sport_title      TEXT NOT NULL DEFAULT '',
	commence_time    TIMESTAMPTZ,
	home_team        TEXT NOT NULL DEFAULT '',
	away_team        TEXT NOT NULL DEFAULT '',
	game_id          TEXT,
	venue_id         TEXT,
	home_score       INTEGER,
	away_score       INTEGER,
	total_runs       INTEGER,
	line             DOUBLE PRECISION,
	over_price       DOUBLE PRECISION,
	under_price      DOUBLE PRECISION,
	book_id          TEXT,
	snapshot_at      TEXT,
	weather_samples  INTEGER,
	temperature      DOUBLE PRECISION,
	humidity         DOUBLE PRECISION,
	pressure         DOUBLE PRECISION,
	dew_point        DOUBLE PRECISION,
	precipitation    DOUBLE PRECISION,
	wind_speed       DOUBLE PRECISION,
	wind_gust        DOUBLE PRECISION,
	wind_direction   DOUBLE PRECISION,
	condition        TEXT,
	wind_category    TEXT,
	wind_vector      DOUBLE PRECISION,
	outcome          TEXT,
	over_payout      DOUBLE PRECISION,
	under_payout     DOUBLE PRECISION,
	differential     DOUBLE PRECISION,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS events_commence_time_idx ON events (commence_time);
`

// identity columns are set once on insert and never touched by the upsert.
var identity = map[string]bool{
	table.ColID: true,
}

// text columns are NOT NULL; the empty string means absent.
var text = map[string]bool{
	table.ColSportKey:   true,
	table.ColSportTitle: true,
	table.ColHomeTeam:   true,
	table.ColAwayTeam:   true,
}

// groups maps each enrichment column to the column that marks its group as
// present. Overwrites replace a group whole so fields of two fetches never mix.
var groups = map[string]string{
	table.ColLine:       table.ColLine,
	table.ColOverPrice:  table.ColLine,
	table.ColUnderPrice: table.ColLine,
	table.ColBookID:     table.ColLine,
	table.ColSnapshotAt: table.ColLine,

	table.ColSamples:       table.ColSamples,
	table.ColTemperature:   table.ColSamples,
	table.ColHumidity:      table.ColSamples,
	table.ColPressure:      table.ColSamples,
	table.ColDewPoint:      table.ColSamples,
	table.ColPrecipitation: table.ColSamples,
	table.ColWindSpeed:     table.ColSamples,
	table.ColWindGust:      table.ColSamples,
	table.ColWindDirection: table.ColSamples,
	table.ColCondition:     table.ColSamples,
	table.ColWindCategory:  table.ColSamples,
	table.ColWindVector:    table.ColSamples,

	table.ColOutcome:      table.ColOutcome,
	table.ColOverPayout:   table.ColOutcome,
	table.ColUnderPayout:  table.ColOutcome,
	table.ColDifferential: table.ColOutcome,
}

// upsertSQL fills absent columns only; overwriteSQL lets incoming values win.
// Both are built once from table.Columns.
var (
	upsertSQL    = buildUpsert(false)
	overwriteSQL = buildUpsert(true)
)

// selectSQL reads every column in table.Columns order.
var selectSQL = fmt.Sprintf("SELECT %s FROM %s ORDER BY commence_time NULLS LAST, id",
	strings.Join(table.Columns, ", "), Table)

func buildUpsert(overwrite bool) string {
	placeholders := make([]string, len(table.Columns))
	var sets []string
	for i, col := range table.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		switch {
		case identity[col]:
		case overwrite && groups[col] != "":
			sets = append(sets, fmt.Sprintf(
				"%[1]s = CASE WHEN EXCLUDED.%[3]s IS NOT NULL THEN EXCLUDED.%[1]s ELSE %[2]s.%[1]s END",
				col, Table, groups[col]))
		case overwrite && text[col]:
			sets = append(sets, fmt.Sprintf("%[1]s = COALESCE(NULLIF(EXCLUDED.%[1]s, ''), %[2]s.%[1]s)", col, Table))
		case overwrite:
			sets = append(sets, fmt.Sprintf("%[1]s = COALESCE(EXCLUDED.%[1]s, %[2]s.%[1]s)", col, Table))
		case text[col]:
			sets = append(sets, fmt.Sprintf("%[1]s = COALESCE(NULLIF(%[2]s.%[1]s, ''), EXCLUDED.%[1]s)", col, Table))
		default:
			sets = append(sets, fmt.Sprintf("%[1]s = COALESCE(%[2]s.%[1]s, EXCLUDED.%[1]s)", col, Table))
		}
	}
	sets = append(sets, "updated_at = now()")

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s RETURNING (xmax = 0) AS inserted",
		Table,
		strings.Join(table.Columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(sets, ", "),
	)
}
