package table

// Column names of the persisted event table, in file order.
const (
	ColID            = "id"
	ColSportKey      = "sport_key"
	ColSportTitle    = "sport_title"
	ColCommenceTime  = "commence_time"
	ColHomeTeam      = "home_team"
	ColAwayTeam      = "away_team"
	ColGameID        = "game_id"
	ColVenueID       = "venue_id"
	ColHomeScore     = "home_score"
	ColAwayScore     = "away_score"
	ColTotalRuns     = "total_runs"
	ColLine          = "line"
	ColOverPrice     = "over_price"
	ColUnderPrice    = "under_price"
	ColBookID        = "book_id"
	ColSnapshotAt    = "snapshot_at"
	ColSamples       = "weather_samples"
	ColTemperature   = "temperature"
	ColHumidity      = "humidity"
	ColPressure      = "pressure"
	ColDewPoint      = "dew_point"
	ColPrecipitation = "precipitation"
	ColWindSpeed     = "wind_speed"
	ColWindGust      = "wind_gust"
	ColWindDirection = "wind_direction"
	ColCondition     = "condition"
	ColWindCategory  = "wind_category"
	ColWindVector    = "wind_vector"
	ColOutcome       = "outcome"
	ColOverPayout    = "over_payout"
	ColUnderPayout   = "under_payout"
	ColDifferential  = "differential"
)

// Columns is the table schema in file order.
var Columns = []string{
	ColID, ColSportKey, ColSportTitle, ColCommenceTime, ColHomeTeam, ColAwayTeam,
	ColGameID, ColVenueID, ColHomeScore, ColAwayScore, ColTotalRuns,
	ColLine, ColOverPrice, ColUnderPrice, ColBookID, ColSnapshotAt,
	ColSamples, ColTemperature, ColHumidity, ColPressure, ColDewPoint, ColPrecipitation,
	ColWindSpeed, ColWindGust, ColWindDirection, ColCondition, ColWindCategory, ColWindVector,
	ColOutcome, ColOverPayout, ColUnderPayout, ColDifferential,
}

// Display precision per column, used by ToDisplayRecord only. Columns not
// listed are written unrounded.
var precision = map[string]int32{
	ColOverPrice:     2,
	ColUnderPrice:    2,
	ColOverPayout:    2,
	ColUnderPayout:   2,
	ColTemperature:   1,
	ColHumidity:      1,
	ColPressure:      1,
	ColDewPoint:      1,
	ColPrecipitation: 1,
	ColWindSpeed:     1,
	ColWindGust:      1,
	ColWindDirection: 1,
	ColWindVector:    1,
}
