package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rickgao/totals-data/internal/config"
	"github.com/rickgao/totals-data/internal/database"
	"github.com/rickgao/totals-data/internal/discovery"
	"github.com/rickgao/totals-data/internal/enrich"
	"github.com/rickgao/totals-data/internal/fetch"
	"github.com/rickgao/totals-data/internal/odds"
	"github.com/rickgao/totals-data/internal/progress"
	"github.com/rickgao/totals-data/internal/schedule"
	"github.com/rickgao/totals-data/internal/table"
	"github.com/rickgao/totals-data/internal/venue"
	"github.com/rickgao/totals-data/internal/weather"
)

// app holds the components shared by every command.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	store    enrich.Store
	cache    fetch.Cache
	odds     *odds.Client
	weather  *weather.Aggregator
	schedule *schedule.Client

	closers []func()
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.openCache(ctx); err != nil {
		a.Close()
		return nil, err
	}

	window, err := cfg.Weather.Window()
	if err != nil {
		a.Close()
		return nil, err
	}

	// Historical odds and weather never change, so both share the cache.
	// Schedule scores do change and are always fetched fresh.
	a.odds = odds.NewClient(a.fetcher(cfg.Odds.BaseURL, cfg.Fetch.Timeout, a.cache), odds.Config{
		APIKey:     cfg.Odds.APIKey,
		Sport:      cfg.Odds.Sport,
		Regions:    cfg.Odds.Regions,
		OddsFormat: cfg.Odds.OddsFormat,
		MaxLines:   cfg.Odds.MaxLines,
	}, logger)

	a.weather = weather.NewAggregator(a.fetcher(cfg.Weather.BaseURL, cfg.Fetch.Timeout, a.cache), weather.Config{
		Window:            window,
		TemperatureUnit:   cfg.Weather.TemperatureUnit,
		WindSpeedUnit:     cfg.Weather.WindSpeedUnit,
		PrecipitationUnit: cfg.Weather.PrecipitationUnit,
	}, logger)

	a.schedule = schedule.NewClient(
		a.fetcher(cfg.Schedule.BaseURL, cfg.Schedule.Timeout, nil),
		cfg.Schedule.SportID,
		cfg.Schedule.GameType,
		logger,
	)

	return a, nil
}

// Close releases the store and cache connections.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// fetcher builds a client with the shared retry and pacing policy.
func (a *app) fetcher(baseURL string, timeout time.Duration, cache fetch.Cache) *fetch.Client {
	opts := []fetch.ClientOption{
		fetch.WithLogger(a.logger),
		fetch.WithTimeout(timeout),
		fetch.WithUserAgent(a.cfg.Fetch.UserAgent),
		fetch.WithRetries(a.cfg.Fetch.MaxAttempts, *a.cfg.Fetch.RateLimitBackoff),
		fetch.WithPace(*a.cfg.Fetch.Pace),
	}
	if cache != nil {
		opts = append(opts, fetch.WithCache(cache), fetch.WithCacheTTL(a.cfg.Fetch.CacheTTL))
	}
	return fetch.NewClient(baseURL, opts...)
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.Table.Driver {
	case config.DriverPostgres:
		a.logger.Info("connecting to database",
			"conn", database.RedactedConnString(a.cfg.Database),
		)
		pool, err := database.Connect(ctx, a.cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		a.closers = append(a.closers, pool.Close)

		store := database.NewEventStore(pool, a.cfg.Database.BatchSize, a.logger)
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		a.store = store
		a.logger.Info("database connected")

	default:
		a.store = table.NewCSVStore(a.cfg.Table.Path)
		a.logger.Info("using csv table", "path", a.cfg.Table.Path)
	}
	return nil
}

func (a *app) openCache(ctx context.Context) error {
	if !a.cfg.Redis.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("connect redis: %w", err)
	}

	cache := fetch.NewRedisCache(client, a.cfg.Redis.Prefix)
	a.closers = append(a.closers, func() { cache.Close() })
	a.cache = cache

	a.logger.Info("response cache enabled", "addr", a.cfg.Redis.Addr, "prefix", a.cfg.Redis.Prefix)
	return nil
}

// pipeline builds the enrichment pipeline. A missing venue registry disables
// weather rather than failing the run.
func (a *app) pipeline(force bool, publisher progress.Publisher) *enrich.Pipeline {
	var (
		ws     enrich.WeatherSource
		venues enrich.VenueLookup
	)

	reg, err := venue.Load(a.cfg.Venues.Path)
	if err != nil {
		a.logger.Warn("venue registry unavailable, weather disabled", "path", a.cfg.Venues.Path, "error", err)
	} else {
		a.logger.Info("venue registry loaded", "venues", reg.Len())
		ws, venues = a.weather, reg
	}

	return enrich.NewPipeline(enrich.Config{Force: force}, a.odds, ws, venues, publisher, a.logger)
}

// runner wires every stage.
func (a *app) runner(pipeline *enrich.Pipeline) *enrich.Runner {
	return enrich.NewRunner(
		a.store,
		discovery.New(a.odds, a.logger),
		a.schedule,
		pipeline,
		a.logger,
		enrich.WithLookback(a.cfg.Discovery.Lookback),
	)
}
