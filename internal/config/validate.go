package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rickgao/totals-data/internal/weather"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Odds.APIKey == "" {
		return errors.New("odds.api_key is required")
	}
	switch c.Odds.OddsFormat {
	case "american", "decimal":
	default:
		return fmt.Errorf("odds.odds_format must be american or decimal, got %q", c.Odds.OddsFormat)
	}
	if c.Odds.MaxLines < 0 {
		return errors.New("odds.max_lines must be >= 0")
	}

	if _, err := c.Weather.Window(); err != nil {
		return err
	}

	if c.Fetch.MaxAttempts < 1 {
		return errors.New("fetch.max_attempts must be >= 1")
	}
	if c.Fetch.Pace != nil && *c.Fetch.Pace < 0 {
		return errors.New("fetch.pace must be >= 0")
	}
	if c.Fetch.RateLimitBackoff != nil && *c.Fetch.RateLimitBackoff < 0 {
		return errors.New("fetch.rate_limit_backoff must be >= 0")
	}

	switch c.Table.Driver {
	case DriverCSV:
		if c.Table.Path == "" {
			return errors.New("table.path is required for csv driver")
		}
	case DriverPostgres:
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("table.driver must be csv or postgres, got %q", c.Table.Driver)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.New("redis.addr is required when redis is enabled")
	}

	if _, _, err := c.Discovery.Range(time.Now()); err != nil {
		return err
	}

	if c.Scheduler.Enabled {
		if _, err := cron.ParseStandard(c.Scheduler.Cron); err != nil {
			return fmt.Errorf("scheduler.cron: %w", err)
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	if db.BatchSize < 1 {
		return fmt.Errorf("%s.batch_size must be >= 1", prefix)
	}
	return nil
}

// Window resolves the preset and applies explicit overrides.
func (w WeatherConfig) Window() (weather.Window, error) {
	win, err := weather.Preset(w.Preset)
	if err != nil {
		return weather.Window{}, fmt.Errorf("weather.preset: %w", err)
	}
	if w.HalfWidth < 0 {
		return weather.Window{}, errors.New("weather.half_width must be >= 0")
	}
	if w.HalfWidth > 0 {
		win.HalfWidth = w.HalfWidth
	}
	if w.Weights != nil {
		for i, v := range w.Weights {
			if v < 0 {
				return weather.Window{}, fmt.Errorf("weather.weights[%d] must be >= 0", i)
			}
		}
		win.Weights = w.Weights
	}
	if w.MinSamples < 0 {
		return weather.Window{}, errors.New("weather.min_samples must be >= 0")
	}
	if w.MinSamples > 0 {
		win.MinSamples = w.MinSamples
	}
	if w.Align < 0 {
		return weather.Window{}, errors.New("weather.align must be >= 0")
	}
	if w.Align > 0 {
		win.Align = w.Align
	}
	return win, nil
}

// Range returns the configured discovery range. A missing To is today; a
// missing From is To minus Lookback.
func (d DiscoveryConfig) Range(now time.Time) (from, to time.Time, err error) {
	to = now.UTC()
	if d.To != "" {
		if to, err = time.Parse(time.DateOnly, d.To); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("discovery.to: %w", err)
		}
	}

	from = to.Add(-d.Lookback)
	if d.From != "" {
		if from, err = time.Parse(time.DateOnly, d.From); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("discovery.from: %w", err)
		}
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("discovery.from %s is after discovery.to %s", from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	return from, to, nil
}
