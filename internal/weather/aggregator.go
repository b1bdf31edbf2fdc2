package weather

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rickgao/totals-data/internal/fetch"
	"github.com/rickgao/totals-data/internal/model"
)

// ArchivePath is the hourly archive endpoint.
const ArchivePath = "/v1/archive"

// Config holds aggregator settings.
type Config struct {
	Window            Window
	TemperatureUnit   string // celsius or fahrenheit
	WindSpeedUnit     string // kmh, ms, mph, kn
	PrecipitationUnit string // mm or inch
}

// Aggregator fetches hourly series and summarizes them.
type Aggregator struct {
	fetcher *fetch.Client
	cfg     Config
	logger  *slog.Logger
}

// NewAggregator creates an aggregator on top of fetcher.
func NewAggregator(fetcher *fetch.Client, cfg Config, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{fetcher: fetcher, cfg: cfg, logger: logger}
}

// Window returns the configured window.
func (a *Aggregator) Window() Window {
	return a.cfg.Window
}

// Aggregate fetches the series around eventTime at venue and summarizes it.
func (a *Aggregator) Aggregate(ctx context.Context, eventTime time.Time, venue model.Venue) (model.WeatherSummary, error) {
	eventTime = eventTime.UTC()
	center := a.cfg.Window.Center(eventTime)
	start := center.Add(-a.cfg.Window.HalfWidth)
	end := center.Add(a.cfg.Window.HalfWidth)

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(venue.Latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(venue.Longitude, 'f', -1, 64))
	query.Set("start_date", start.Format(time.DateOnly))
	query.Set("end_date", end.Format(time.DateOnly))
	query.Set("hourly", strings.Join(Channels, ","))
	query.Set("timezone", "GMT")
	if a.cfg.TemperatureUnit != "" {
		query.Set("temperature_unit", a.cfg.TemperatureUnit)
	}
	if a.cfg.WindSpeedUnit != "" {
		query.Set("wind_speed_unit", a.cfg.WindSpeedUnit)
	}
	if a.cfg.PrecipitationUnit != "" {
		query.Set("precipitation_unit", a.cfg.PrecipitationUnit)
	}

	var resp ArchiveResponse
	if err := a.fetcher.Get(ctx, ArchivePath, query, &resp); err != nil {
		return model.WeatherSummary{}, fmt.Errorf("get weather %s: %w", venue.ID, err)
	}

	samples, err := resp.Hourly.Samples()
	if err != nil {
		return model.WeatherSummary{}, fmt.Errorf("get weather %s: %w", venue.ID, err)
	}

	bearing := venue.CompassBearing
	summary, err := Summarize(samples, eventTime, a.cfg.Window, &bearing)
	if err != nil {
		return model.WeatherSummary{}, fmt.Errorf("get weather %s: %w", venue.ID, err)
	}

	a.logger.Debug("weather summarized",
		"venue", venue.ID,
		"event_time", eventTime,
		"samples", summary.SampleCount,
	)

	return summary, nil
}

// Summarize reduces samples in the window around eventTime. bearing may be
// nil, in which case no wind classification is made.
func Summarize(samples []model.WeatherSample, eventTime time.Time, w Window, bearing *float64) (model.WeatherSummary, error) {
	center := w.Center(eventTime)
	eligible := make([]model.WeatherSample, 0, len(samples))
	for _, s := range samples {
		if w.Contains(center, s.Time) {
			eligible = append(eligible, s)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Time.Before(eligible[j].Time)
	})

	if len(eligible) < w.minSamples() {
		return model.WeatherSummary{}, fmt.Errorf("%d samples in window, need %d: %w",
			len(eligible), w.minSamples(), fetch.ErrNoData)
	}

	weights := make([]float64, len(eligible))
	for i := range eligible {
		weights[i] = w.weight(i)
	}

	channel := func(get func(model.WeatherSample) *float64) []*float64 {
		out := make([]*float64, len(eligible))
		for i, s := range eligible {
			out[i] = get(s)
		}
		return out
	}

	summary := model.WeatherSummary{
		SampleCount:   len(eligible),
		Temperature:   WeightedMean(channel(func(s model.WeatherSample) *float64 { return s.Temperature }), weights),
		Humidity:      WeightedMean(channel(func(s model.WeatherSample) *float64 { return s.Humidity }), weights),
		Pressure:      WeightedMean(channel(func(s model.WeatherSample) *float64 { return s.Pressure }), weights),
		DewPoint:      WeightedMean(channel(func(s model.WeatherSample) *float64 { return s.DewPoint }), weights),
		Precipitation: WeightedMean(channel(func(s model.WeatherSample) *float64 { return s.Precipitation }), weights),
		WindSpeed:     WeightedMean(channel(func(s model.WeatherSample) *float64 { return s.WindSpeed }), weights),
		WindGust:      WeightedMean(channel(func(s model.WeatherSample) *float64 { return s.WindGust }), weights),
		WindDirection: CircularMean(channel(func(s model.WeatherSample) *float64 { return s.WindDirection }), weights),
	}

	codes := make([]*int, len(eligible))
	for i, s := range eligible {
		codes[i] = s.Code
	}
	if code, ok := DominantCode(codes); ok {
		summary.Condition = Condition(code)
	}

	if bearing != nil && summary.WindDirection != nil {
		summary.WindCategory = ClassifyWind(*summary.WindDirection, *bearing)
		if summary.WindSpeed != nil {
			v := WindVector(*summary.WindSpeed, *summary.WindDirection, *bearing)
			summary.WindVector = &v
		}
	}

	return summary, nil
}
