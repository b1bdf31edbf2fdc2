package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rickgao/totals-data/internal/discovery"
	"github.com/rickgao/totals-data/internal/model"
	"github.com/rickgao/totals-data/internal/schedule"
	"github.com/rickgao/totals-data/internal/table"
)

type memStore struct {
	rows  []model.Row
	saves int
}

func (m *memStore) Load(context.Context) ([]model.Row, error) {
	out := make([]model.Row, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

func (m *memStore) Save(_ context.Context, rows []model.Row) error {
	m.saves++
	m.rows = append([]model.Row(nil), rows...)
	return nil
}

// keepingStore behaves like the Postgres store: Save keeps stored odds.
type keepingStore struct {
	memStore
	overwrites int
}

func (k *keepingStore) Save(_ context.Context, rows []model.Row) error {
	k.saves++
	for i := range rows {
		if i < len(k.rows) && k.rows[i].Odds != nil {
			rows[i].Odds = k.rows[i].Odds
		}
	}
	k.rows = append([]model.Row(nil), rows...)
	return nil
}

func (k *keepingStore) Overwrite(_ context.Context, rows []model.Row) error {
	k.overwrites++
	k.rows = append([]model.Row(nil), rows...)
	return nil
}

type fakeDiscoverer struct {
	res discovery.Result
	err error
}

func (f *fakeDiscoverer) Backfill(context.Context, time.Time, time.Time) (discovery.Result, error) {
	return f.res, f.err
}

type fakeSchedule struct {
	games []schedule.Game
	from  time.Time
	to    time.Time
}

func (f *fakeSchedule) Seasons(_ context.Context, from, to time.Time) ([]schedule.Game, error) {
	f.from, f.to = from, to
	return f.games, nil
}

func TestRunnerDiscoverMergesPreviousFirst(t *testing.T) {
	stored := row("a", "", -1)
	stored.Odds = &model.OddsQuote{EventID: "a", Line: 9}
	store := &memStore{rows: []model.Row{stored}}

	disc := &fakeDiscoverer{res: discovery.Result{
		Events: []model.Event{
			{ID: "a", HomeTeam: "changed"},
			{ID: "b"},
			{ID: "b"},
		},
		Fetched: 3,
	}}

	r := NewRunner(store, disc, nil, nil, testLogger())
	report, err := r.Discover(context.Background(), commence, commence)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if report.Added != 1 || report.Duplicates != 2 || report.Total != 2 {
		t.Errorf("report = %+v", report)
	}
	if store.rows[0].Odds == nil || store.rows[0].HomeTeam != "H" {
		t.Errorf("stored row overwritten: %+v", store.rows[0])
	}
}

func TestRunnerDiscoverSavesOnInterrupt(t *testing.T) {
	store := &memStore{}
	disc := &fakeDiscoverer{
		res: discovery.Result{Events: []model.Event{{ID: "a"}}, Fetched: 1},
		err: context.Canceled,
	}

	r := NewRunner(store, disc, nil, nil, testLogger())
	_, err := r.Discover(context.Background(), commence, commence)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(store.rows) != 1 {
		t.Errorf("partial discovery not saved: %d rows", len(store.rows))
	}
}

func TestRunnerSchedule(t *testing.T) {
	later := commence.Add(48 * time.Hour)
	r2 := row("b", "", -1)
	r2.CommenceTime = later
	store := &memStore{rows: []model.Row{row("a", "", -1), r2}}

	sched := &fakeSchedule{games: []schedule.Game{{
		GamePk:    745000,
		Date:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Home:      "A",
		Away:      "H",
		HomeScore: model.Int(3),
		AwayScore: model.Int(5),
		VenueID:   "1",
	}}}

	r := NewRunner(store, nil, sched, nil, testLogger())
	n, err := r.Schedule(context.Background())
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("attached = %d, want 1", n)
	}
	if !sched.from.Equal(commence) || !sched.to.Equal(later) {
		t.Errorf("range = %v..%v", sched.from, sched.to)
	}

	got := store.rows[0]
	if got.HomeScore == nil || *got.HomeScore != 5 || got.TotalRuns == nil || *got.TotalRuns != 8 {
		t.Errorf("row = home %v total %v", got.HomeScore, got.TotalRuns)
	}
}

func TestRunnerEnrichSavesResult(t *testing.T) {
	store := &memStore{rows: []model.Row{row("a", "", 4)}}
	odds := &fakeOdds{
		snapshots: map[string]string{"a": "s"},
		quotes:    map[string]model.OddsQuote{"a": {EventID: "a", Line: 8.5, OverPrice: 1.9, UnderPrice: 1.95}},
	}
	p := NewPipeline(Config{}, odds, nil, nil, nil, testLogger())

	r := NewRunner(store, nil, nil, p, testLogger())
	sum, err := r.Enrich(context.Background())
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	if sum.OddsFilled != 1 || store.saves != 1 {
		t.Errorf("summary=%+v saves=%d", sum, store.saves)
	}
	if s := store.rows[0].Settlement; s == nil || s.Outcome != model.Under {
		t.Errorf("settlement = %+v, want Under", s)
	}
}

func TestRunnerEnrichForceOverwrites(t *testing.T) {
	stale := row("a", "", 9)
	stale.Odds = &model.OddsQuote{EventID: "a", Line: 7.5, OverPrice: 1.8, UnderPrice: 2.0}

	tests := []struct {
		name           string
		force          bool
		wantLine       float64
		wantSaves      int
		wantOverwrites int
	}{
		{"fill only", false, 7.5, 1, 0},
		{"force", true, 9.5, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &keepingStore{memStore: memStore{rows: []model.Row{stale}}}
			odds := &fakeOdds{
				snapshots: map[string]string{"a": "s"},
				quotes:    map[string]model.OddsQuote{"a": {EventID: "a", Line: 9.5, OverPrice: 1.9, UnderPrice: 1.9}},
			}
			p := NewPipeline(Config{Force: tt.force}, odds, nil, nil, nil, testLogger())

			if _, err := NewRunner(store, nil, nil, p, testLogger()).Enrich(context.Background()); err != nil {
				t.Fatalf("Enrich() error = %v", err)
			}
			if store.saves != tt.wantSaves || store.overwrites != tt.wantOverwrites {
				t.Errorf("saves=%d overwrites=%d, want %d %d", store.saves, store.overwrites, tt.wantSaves, tt.wantOverwrites)
			}
			if got := store.rows[0].Odds.Line; got != tt.wantLine {
				t.Errorf("stored line = %v, want %v", got, tt.wantLine)
			}
		})
	}
}

func TestRunnerRunAllWithCSVStore(t *testing.T) {
	store := table.NewCSVStore(t.TempDir() + "/events.csv")
	disc := &fakeDiscoverer{res: discovery.Result{
		Events:  []model.Event{{ID: "a", CommenceTime: commence, HomeTeam: "H", AwayTeam: "A"}},
		Fetched: 1,
	}}
	sched := &fakeSchedule{games: []schedule.Game{{
		GamePk: 1, Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Home: "H", Away: "A", HomeScore: model.Int(6), AwayScore: model.Int(4),
	}}}
	odds := &fakeOdds{
		snapshots: map[string]string{"a": "s"},
		quotes:    map[string]model.OddsQuote{"a": {EventID: "a", Line: 9.5, OverPrice: 1.8, UnderPrice: 2.05, BookID: "b"}},
	}
	p := NewPipeline(Config{}, odds, nil, nil, nil, testLogger())

	r := NewRunner(store, disc, sched, p, testLogger(), WithLookback(24*time.Hour))
	r.timeNow = func() time.Time { return commence }

	sum, err := r.RunAll(context.Background())
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	if sum.OutcomesFilled != 1 {
		t.Errorf("OutcomesFilled = %d, want 1", sum.OutcomesFilled)
	}

	rows, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(rows) != 1 || rows[0].Settlement == nil || rows[0].Settlement.Outcome != model.Over {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestUnscheduledRange(t *testing.T) {
	scheduled := row("a", "", -1)
	scheduled.GameID = model.String("1")

	if _, _, ok := unscheduledRange([]model.Row{scheduled}); ok {
		t.Error("ok = true with every row scheduled")
	}
}
