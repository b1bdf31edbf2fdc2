package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultOddsBaseURL       = "https://api.the-odds-api.com"
	DefaultSport             = "baseball_mlb"
	DefaultRegions           = "us"
	DefaultOddsFormat        = "american"
	DefaultWeatherBaseURL    = "https://archive-api.open-meteo.com"
	DefaultWeatherPreset     = "standard"
	DefaultTemperatureUnit   = "fahrenheit"
	DefaultWindSpeedUnit     = "mph"
	DefaultPrecipitationUnit = "inch"
	DefaultScheduleBaseURL   = "https://statsapi.mlb.com/api/v1"
	DefaultSportID           = 1
	DefaultGameType          = "R"
	DefaultScheduleTimeout   = 60 * time.Second
	DefaultFetchTimeout      = 30 * time.Second
	DefaultMaxAttempts       = 3
	DefaultRateLimitBackoff  = 60 * time.Second
	DefaultPace              = 500 * time.Millisecond
	DefaultUserAgent         = "totals-data/1.0"
	DefaultCacheTTL          = 30 * 24 * time.Hour
	DefaultTableDriver       = "csv"
	DefaultTablePath         = "data/events.csv"
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultMaxConns          = 10
	DefaultMinConns          = 2
	DefaultBatchSize         = 500
	DefaultRedisAddr         = "localhost:6379"
	DefaultRedisPrefix       = "totals:"
	DefaultVenuesPath        = "configs/venues.yaml"
	DefaultLookback          = 72 * time.Hour
	DefaultServerAddr        = ":8080"
	DefaultCron              = "0 6 * * *"
)

// Table drivers.
const (
	DriverCSV      = "csv"
	DriverPostgres = "postgres"
)

func (c *Config) applyDefaults() {
	// Odds defaults
	if c.Odds.BaseURL == "" {
		c.Odds.BaseURL = DefaultOddsBaseURL
	}
	if c.Odds.Sport == "" {
		c.Odds.Sport = DefaultSport
	}
	if c.Odds.Regions == "" {
		c.Odds.Regions = DefaultRegions
	}
	if c.Odds.OddsFormat == "" {
		c.Odds.OddsFormat = DefaultOddsFormat
	}

	// Weather defaults
	if c.Weather.BaseURL == "" {
		c.Weather.BaseURL = DefaultWeatherBaseURL
	}
	if c.Weather.Preset == "" {
		c.Weather.Preset = DefaultWeatherPreset
	}
	if c.Weather.TemperatureUnit == "" {
		c.Weather.TemperatureUnit = DefaultTemperatureUnit
	}
	if c.Weather.WindSpeedUnit == "" {
		c.Weather.WindSpeedUnit = DefaultWindSpeedUnit
	}
	if c.Weather.PrecipitationUnit == "" {
		c.Weather.PrecipitationUnit = DefaultPrecipitationUnit
	}

	// Schedule defaults
	if c.Schedule.BaseURL == "" {
		c.Schedule.BaseURL = DefaultScheduleBaseURL
	}
	if c.Schedule.SportID == 0 {
		c.Schedule.SportID = DefaultSportID
	}
	if c.Schedule.GameType == "" {
		c.Schedule.GameType = DefaultGameType
	}
	if c.Schedule.Timeout == 0 {
		c.Schedule.Timeout = DefaultScheduleTimeout
	}

	// Fetch defaults
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = DefaultFetchTimeout
	}
	if c.Fetch.MaxAttempts == 0 {
		c.Fetch.MaxAttempts = DefaultMaxAttempts
	}
	if c.Fetch.RateLimitBackoff == nil {
		d := DefaultRateLimitBackoff
		c.Fetch.RateLimitBackoff = &d
	}
	if c.Fetch.Pace == nil {
		d := DefaultPace
		c.Fetch.Pace = &d
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = DefaultUserAgent
	}
	if c.Fetch.CacheTTL == 0 {
		c.Fetch.CacheTTL = DefaultCacheTTL
	}

	// Table defaults
	if c.Table.Driver == "" {
		c.Table.Driver = DefaultTableDriver
	}
	if c.Table.Path == "" {
		c.Table.Path = DefaultTablePath
	}

	applyDBDefaults(&c.Database)

	// Redis defaults
	if c.Redis.Addr == "" {
		c.Redis.Addr = DefaultRedisAddr
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = DefaultRedisPrefix
	}

	if c.Venues.Path == "" {
		c.Venues.Path = DefaultVenuesPath
	}

	if c.Discovery.Lookback == 0 {
		c.Discovery.Lookback = DefaultLookback
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}

	if c.Scheduler.Cron == "" {
		c.Scheduler.Cron = DefaultCron
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
	if db.BatchSize == 0 {
		db.BatchSize = DefaultBatchSize
	}
}
