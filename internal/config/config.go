package config

import "time"

// Config is the root configuration for the enricher.
type Config struct {
	Odds      OddsConfig      `yaml:"odds"`
	Weather   WeatherConfig   `yaml:"weather"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Table     TableConfig     `yaml:"table"`
	Database  DBConfig        `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Venues    VenuesConfig    `yaml:"venues"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Server    ServerConfig    `yaml:"server"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// OddsConfig holds odds provider settings.
type OddsConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	Sport      string `yaml:"sport"`
	Regions    string `yaml:"regions"`
	OddsFormat string `yaml:"odds_format"` // american or decimal
	MaxLines   int    `yaml:"max_lines"`   // 0 = provider default
}

// WeatherConfig holds weather archive settings. Preset selects a window;
// HalfWidth, Weights and MinSamples override it when set.
type WeatherConfig struct {
	BaseURL           string        `yaml:"base_url"`
	Preset            string        `yaml:"preset"`
	HalfWidth         time.Duration `yaml:"half_width"`
	Weights           []float64     `yaml:"weights"`
	MinSamples        int           `yaml:"min_samples"`
	Align             time.Duration `yaml:"align"` // round first pitch to this grid
	TemperatureUnit   string        `yaml:"temperature_unit"`
	WindSpeedUnit     string        `yaml:"wind_speed_unit"`
	PrecipitationUnit string        `yaml:"precipitation_unit"`
}

// ScheduleConfig holds league schedule API settings.
type ScheduleConfig struct {
	BaseURL  string        `yaml:"base_url"`
	SportID  int           `yaml:"sport_id"`
	GameType string        `yaml:"game_type"`
	Timeout  time.Duration `yaml:"timeout"` // bulk fetches are slow
}

// FetchConfig holds shared HTTP client settings. Pace and RateLimitBackoff
// are pointers so an explicit 0s survives defaulting.
type FetchConfig struct {
	Timeout          time.Duration  `yaml:"timeout"`
	MaxAttempts      int            `yaml:"max_attempts"`
	RateLimitBackoff *time.Duration `yaml:"rate_limit_backoff"`
	Pace             *time.Duration `yaml:"pace"`
	UserAgent        string         `yaml:"user_agent"`
	CacheTTL         time.Duration  `yaml:"cache_ttl"`
}

// TableConfig selects where the event table lives.
type TableConfig struct {
	Driver string `yaml:"driver"` // csv or postgres
	Path   string `yaml:"path"`   // csv only
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Name      string `yaml:"name"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	SSLMode   string `yaml:"ssl_mode"`
	MaxConns  int    `yaml:"max_conns"`
	MinConns  int    `yaml:"min_conns"`
	BatchSize int    `yaml:"batch_size"`
}

// RedisConfig holds the optional response cache.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// VenuesConfig points at the venue registry file.
type VenuesConfig struct {
	Path string `yaml:"path"`
}

// DiscoveryConfig holds event backfill settings.
type DiscoveryConfig struct {
	From     string        `yaml:"from"` // YYYY-MM-DD
	To       string        `yaml:"to"`   // YYYY-MM-DD, default today
	Lookback time.Duration `yaml:"lookback"`
}

// ServerConfig holds the status API listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SchedulerConfig holds the cron schedule for serve mode.
type SchedulerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
}
