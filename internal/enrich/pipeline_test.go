package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/rickgao/totals-data/internal/fetch"
	"github.com/rickgao/totals-data/internal/model"
	"github.com/rickgao/totals-data/internal/progress"
	"github.com/rickgao/totals-data/internal/venue"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeOdds struct {
	snapshots map[string]string
	quotes    map[string]model.OddsQuote
	snapErr   map[string]error
	calls     []string
	onCall    func()
}

func (f *fakeOdds) ResolveSnapshot(ctx context.Context, eventID string, nominal time.Time) (string, error) {
	f.calls = append(f.calls, eventID)
	if f.onCall != nil {
		f.onCall()
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err, ok := f.snapErr[eventID]; ok {
		return "", err
	}
	s, ok := f.snapshots[eventID]
	if !ok {
		return "", fmt.Errorf("events %s: %w", eventID, fetch.ErrNoData)
	}
	return s, nil
}

func (f *fakeOdds) Totals(_ context.Context, eventID, snapshot string) (model.OddsQuote, error) {
	q, ok := f.quotes[eventID]
	if !ok {
		return model.OddsQuote{}, fetch.ErrNoData
	}
	q.SnapshotAt = snapshot
	return q, nil
}

type fakeWeather struct {
	summary model.WeatherSummary
	err     error
	venues  []string
}

func (f *fakeWeather) Aggregate(_ context.Context, _ time.Time, v model.Venue) (model.WeatherSummary, error) {
	f.venues = append(f.venues, v.ID)
	if f.err != nil {
		return model.WeatherSummary{}, f.err
	}
	return f.summary, nil
}

type recorder struct {
	mu     sync.Mutex
	events []progress.Event
}

func (r *recorder) Publish(ev progress.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) count(stage progress.Stage, status progress.Status) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Stage == stage && ev.Status == status {
			n++
		}
	}
	return n
}

var commence = time.Date(2024, 6, 1, 23, 5, 0, 0, time.UTC)

func row(id string, venueID string, total int) model.Row {
	r := model.Row{Event: model.Event{ID: id, CommenceTime: commence, HomeTeam: "H", AwayTeam: "A"}}
	if venueID != "" {
		r.VenueID = model.String(venueID)
	}
	if total >= 0 {
		r.TotalRuns = model.Int(total)
	}
	return r
}

func testVenues() *venue.Registry {
	return venue.NewRegistry([]model.Venue{
		{ID: "1", Name: "Park", Latitude: 40.8, Longitude: -73.9, CompassBearing: 75, Outdoor: true},
	})
}

func TestPipelineFillsFieldsIndependently(t *testing.T) {
	odds := &fakeOdds{
		snapshots: map[string]string{"a": "2024-06-01T22:55:00Z", "c": "2024-06-01T22:55:00Z"},
		quotes: map[string]model.OddsQuote{
			"a": {EventID: "a", Line: 8.5, OverPrice: 1.91, UnderPrice: 1.95, BookID: "fanduel"},
			"c": {EventID: "c", Line: 7.5, OverPrice: 2.0, UnderPrice: 1.8, BookID: "draftkings"},
		},
	}
	weather := &fakeWeather{summary: model.WeatherSummary{SampleCount: 3, Temperature: model.Float(72)}}
	rec := &recorder{}

	p := NewPipeline(Config{}, odds, weather, testVenues(), rec, testLogger())

	rows := []model.Row{
		row("a", "1", 10), // odds, weather, outcome
		row("b", "1", 5),  // no odds, weather only
		row("c", "", -1),  // odds only
	}

	out, sum := p.Run(context.Background(), rows)

	if len(out) != 3 {
		t.Fatalf("len(out) = %d, want 3", len(out))
	}
	if sum.Processed != 3 || sum.OddsFilled != 2 || sum.WeatherFilled != 2 || sum.OutcomesFilled != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.NoData != 1 || sum.Failures != 0 {
		t.Errorf("NoData/Failures = %d/%d, want 1/0", sum.NoData, sum.Failures)
	}
	if sum.RunID == "" {
		t.Error("RunID empty")
	}

	a := out[0]
	if a.Odds == nil || a.Odds.SnapshotAt != "2024-06-01T22:55:00Z" {
		t.Errorf("row a odds = %+v", a.Odds)
	}
	if a.Settlement == nil || a.Settlement.Outcome != model.Over {
		t.Errorf("row a settlement = %+v", a.Settlement)
	}

	b := out[1]
	if b.Odds != nil || b.Settlement != nil {
		t.Errorf("row b should have no odds or outcome: %+v %+v", b.Odds, b.Settlement)
	}
	if b.Weather == nil {
		t.Error("row b weather missing despite odds failure")
	}

	c := out[2]
	if c.Weather != nil {
		t.Error("row c has weather without a venue")
	}
	if c.Settlement != nil {
		t.Error("row c has outcome without total runs")
	}

	if got := rec.count(progress.StageRun, progress.StatusFinished); got != 1 {
		t.Errorf("run finished events = %d, want 1", got)
	}
	if got := rec.count(progress.StageOdds, progress.StatusNoData); got != 1 {
		t.Errorf("odds no_data events = %d, want 1", got)
	}

	last, ok := p.LastSummary()
	if !ok || last.RunID != sum.RunID {
		t.Errorf("LastSummary() = %+v, %v", last, ok)
	}
}

func TestPipelineSkipsRowsWithOdds(t *testing.T) {
	existing := row("a", "1", 9)
	existing.Odds = &model.OddsQuote{EventID: "a", Line: 8.5, OverPrice: 1.9, UnderPrice: 1.9}

	tests := []struct {
		name        string
		force       bool
		wantCalls   int
		wantSkipped int
	}{
		{"skip", false, 0, 1},
		{"force", true, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			odds := &fakeOdds{}
			p := NewPipeline(Config{Force: tt.force}, odds, nil, nil, nil, testLogger())

			out, sum := p.Run(context.Background(), []model.Row{existing})

			if len(odds.calls) != tt.wantCalls {
				t.Errorf("odds calls = %d, want %d", len(odds.calls), tt.wantCalls)
			}
			if sum.Skipped != tt.wantSkipped {
				t.Errorf("Skipped = %d, want %d", sum.Skipped, tt.wantSkipped)
			}
			// The stored quote is kept when a forced refetch finds nothing.
			if out[0].Odds == nil {
				t.Fatal("existing quote lost")
			}
			if out[0].Settlement == nil || out[0].Settlement.Outcome != model.Over {
				t.Errorf("settlement = %+v, want Over", out[0].Settlement)
			}
		})
	}
}

func TestPipelineRetriesWeatherOnRowsWithOdds(t *testing.T) {
	quote := &model.OddsQuote{EventID: "a", Line: 8.5, OverPrice: 1.9, UnderPrice: 1.9}
	stored := &model.WeatherSummary{SampleCount: 3, Condition: "Clear sky"}

	missing := row("a", "1", 9)
	missing.Odds = quote
	complete := row("b", "1", 9)
	complete.Odds = quote
	complete.Weather = stored

	ws := &fakeWeather{summary: model.WeatherSummary{SampleCount: 3, Condition: "Overcast"}}
	odds := &fakeOdds{}
	rec := &recorder{}
	p := NewPipeline(Config{}, odds, ws, testVenues(), rec, testLogger())

	out, sum := p.Run(context.Background(), []model.Row{missing, complete})

	if len(odds.calls) != 0 {
		t.Errorf("odds calls = %v, want none", odds.calls)
	}
	if len(ws.venues) != 1 {
		t.Errorf("weather calls = %d, want 1", len(ws.venues))
	}
	if out[0].Weather == nil || out[0].Weather.Condition != "Overcast" {
		t.Errorf("missing weather not filled: %+v", out[0].Weather)
	}
	if out[1].Weather != stored {
		t.Errorf("stored weather replaced: %+v", out[1].Weather)
	}
	if sum.Skipped != 2 || sum.WeatherFilled != 1 || sum.OutcomesFilled != 2 {
		t.Errorf("summary = %+v", sum)
	}
	if got := rec.count(progress.StageWeather, progress.StatusFilled); got != 1 {
		t.Errorf("weather filled events = %d, want 1", got)
	}
}

func TestPipelineCountsDuplicates(t *testing.T) {
	p := NewPipeline(Config{}, &fakeOdds{}, nil, nil, nil, testLogger())

	out, sum := p.Run(context.Background(), []model.Row{row("a", "", -1), row("b", "", -1), row("a", "", -1)})

	if len(out) != 2 || sum.Duplicates != 1 || sum.Rows != 2 {
		t.Errorf("len=%d summary=%+v", len(out), sum)
	}
}

func TestPipelineHardFailure(t *testing.T) {
	odds := &fakeOdds{
		snapErr: map[string]error{
			"a": &fetch.APIError{StatusCode: 500, Message: "boom"},
			"b": fmt.Errorf("%w after 3 attempts: %w", fetch.ErrRateLimited, &fetch.APIError{StatusCode: 429}),
		},
	}
	weather := &fakeWeather{err: errors.New("connection refused")}

	p := NewPipeline(Config{}, odds, weather, testVenues(), nil, testLogger())
	out, sum := p.Run(context.Background(), []model.Row{row("a", "1", 3), row("b", "1", 3)})

	if len(out) != 2 || sum.Processed != 2 {
		t.Fatalf("batch did not complete: len=%d processed=%d", len(out), sum.Processed)
	}
	if sum.Failures != 4 {
		t.Errorf("Failures = %d, want 4", sum.Failures)
	}
}

func TestPipelineUnknownVenue(t *testing.T) {
	weather := &fakeWeather{summary: model.WeatherSummary{SampleCount: 1}}
	p := NewPipeline(Config{}, &fakeOdds{}, weather, testVenues(), nil, testLogger())

	_, sum := p.Run(context.Background(), []model.Row{row("a", "999", -1)})

	if len(weather.venues) != 0 {
		t.Errorf("weather fetched for unknown venue: %v", weather.venues)
	}
	if sum.WeatherFilled != 0 {
		t.Errorf("WeatherFilled = %d, want 0", sum.WeatherFilled)
	}
}

func TestPipelineInterruptFinishesCurrentEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	odds := &fakeOdds{
		snapshots: map[string]string{"a": "s", "b": "s", "c": "s"},
		quotes: map[string]model.OddsQuote{
			"a": {EventID: "a", Line: 8.5, OverPrice: 1.9, UnderPrice: 1.9},
			"b": {EventID: "b", Line: 8.5, OverPrice: 1.9, UnderPrice: 1.9},
			"c": {EventID: "c", Line: 8.5, OverPrice: 1.9, UnderPrice: 1.9},
		},
	}
	// Interrupt arrives while the first event is in flight.
	odds.onCall = func() {
		if len(odds.calls) == 1 {
			cancel()
		}
	}

	p := NewPipeline(Config{}, odds, nil, nil, nil, testLogger())
	out, sum := p.Run(ctx, []model.Row{row("a", "", -1), row("b", "", -1), row("c", "", -1)})

	if !sum.Interrupted {
		t.Error("Interrupted = false")
	}
	if sum.Processed != 1 {
		t.Errorf("Processed = %d, want 1", sum.Processed)
	}
	if len(out) != 3 {
		t.Fatalf("len(out) = %d, want all rows returned", len(out))
	}
	if out[0].Odds == nil {
		t.Error("in-flight event was cut short")
	}
	if out[1].Odds != nil || out[2].Odds != nil {
		t.Error("rows after interrupt were enriched")
	}
}
