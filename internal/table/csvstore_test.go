package table

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rickgao/totals-data/internal/model"
	"github.com/rickgao/totals-data/internal/odds"
	"github.com/rickgao/totals-data/internal/outcome"
)

func enrichedRow() model.Row {
	return model.Row{
		Event: model.Event{
			ID:           "e1",
			SportKey:     "baseball_mlb",
			SportTitle:   "MLB",
			CommenceTime: time.Date(2024, 6, 1, 23, 5, 0, 0, time.UTC),
			HomeTeam:     "New York Yankees",
			AwayTeam:     "Boston Red Sox",
		},
		GameID:    model.String("745123"),
		VenueID:   model.String("3313"),
		HomeScore: model.Int(5),
		AwayScore: model.Int(4),
		TotalRuns: model.Int(9),
		Odds: &model.OddsQuote{
			EventID: "e1", Line: 8.5, OverPrice: 1.9090909, UnderPrice: 1.95,
			BookID: "draftkings", SnapshotAt: "2024-06-01T23:00:00Z",
		},
		Weather: &model.WeatherSummary{
			SampleCount:   3,
			Temperature:   model.Float(71.26),
			WindSpeed:     model.Float(8),
			WindDirection: model.Float(355.04),
			Condition:     "Overcast",
			WindCategory:  model.Headwind,
			WindVector:    model.Float(7.97),
		},
		Settlement: &model.Settlement{Outcome: model.Over, OverPayout: 190.90909, Differential: 0.5},
	}
}

func cell(t *testing.T, rec []string, col string) string {
	t.Helper()
	for i, c := range Columns {
		if c == col {
			return rec[i]
		}
	}
	t.Fatalf("no column %s", col)
	return ""
}

func TestToDisplayRecordRounding(t *testing.T) {
	rec := ToDisplayRecord(enrichedRow())
	get := func(col string) string { return cell(t, rec, col) }

	tests := map[string]string{
		ColLine:         "8.5",
		ColOverPrice:    "1.91",
		ColUnderPrice:   "1.95",
		ColOverPayout:   "190.91",
		ColUnderPayout:  "0.00",
		ColTemperature:  "71.3",
		ColHumidity:     "",
		ColCommenceTime: "2024-06-01T23:05:00Z",
		ColTotalRuns:    "9",
		ColDifferential: "0.5",
		ColOutcome:      "Over",
	}
	for col, want := range tests {
		if got := get(col); got != want {
			t.Errorf("%s = %q, want %q", col, got, want)
		}
	}
}

func TestToRecordFullPrecision(t *testing.T) {
	rec := ToRecord(enrichedRow())

	tests := map[string]string{
		ColOverPrice:   "1.9090909",
		ColUnderPrice:  "1.95",
		ColOverPayout:  "190.90909",
		ColUnderPayout: "0",
		ColTemperature: "71.26",
	}
	for col, want := range tests {
		if got := cell(t, rec, col); got != want {
			t.Errorf("%s = %q, want %q", col, got, want)
		}
	}
}

func TestCSVStoreReloadSettlesExactly(t *testing.T) {
	under, err := odds.AmericanToDecimal(-150)
	if err != nil {
		t.Fatal(err)
	}

	// Odds land before the game is played; scores arrive on a later run.
	row := model.Row{
		Event: model.Event{ID: "e1", HomeTeam: "A", AwayTeam: "B"},
		Odds:  &model.OddsQuote{EventID: "e1", Line: 8.5, OverPrice: 2.3, UnderPrice: under},
	}

	store := NewCSVStore(filepath.Join(t.TempDir(), "events.csv"))
	ctx := context.Background()
	if err := store.Save(ctx, []model.Row{row}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	rows, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 1 || rows[0].Odds == nil {
		t.Fatalf("rows = %+v", rows)
	}

	got := rows[0]
	if got.Odds.UnderPrice != under {
		t.Errorf("UnderPrice = %v, want %v", got.Odds.UnderPrice, under)
	}

	got.TotalRuns = model.Int(7)
	s, ok := outcome.ForRow(&got)
	if !ok {
		t.Fatal("ForRow() not settled")
	}
	want := outcome.Stake * under
	if s.Outcome != model.Under || s.UnderPayout != want {
		t.Errorf("settlement = %s %v, want Under %v", s.Outcome, s.UnderPayout, want)
	}
}

func TestWriteDisplayRows(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDisplayRows(&buf, []model.Row{enrichedRow()}); err != nil {
		t.Fatalf("WriteDisplayRows: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, ColID+","+ColSportKey) {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, ",1.91,1.95,") {
		t.Errorf("prices not rounded: %q", out)
	}
}

func TestCSVStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	store := NewCSVStore(path)
	ctx := context.Background()

	bare := model.Row{Event: model.Event{ID: "e2", HomeTeam: "A", AwayTeam: "B"}}
	if err := store.Save(ctx, []model.Row{enrichedRow(), bare}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rows, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	got := rows[0]
	if got.Odds == nil || got.Odds.Line != 8.5 || got.Odds.BookID != "draftkings" {
		t.Errorf("Odds = %+v", got.Odds)
	}
	if got.Weather == nil || got.Weather.Humidity != nil || got.Weather.SampleCount != 3 {
		t.Errorf("Weather = %+v", got.Weather)
	}
	if got.Settlement == nil || got.Settlement.Outcome != model.Over {
		t.Errorf("Settlement = %+v", got.Settlement)
	}
	if *got.TotalRuns != 9 || *got.GameID != "745123" {
		t.Errorf("schedule fields = %v %v", *got.TotalRuns, *got.GameID)
	}

	// Absent fields stay absent, never zero.
	b := rows[1]
	if b.Odds != nil || b.Weather != nil || b.Settlement != nil || b.TotalRuns != nil || b.GameID != nil {
		t.Errorf("bare row gained fields: %+v", b)
	}
	if !b.CommenceTime.IsZero() {
		t.Errorf("CommenceTime = %v, want zero", b.CommenceTime)
	}
}

func TestCSVStoreMissingFile(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "nope.csv"))
	rows, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rows))
	}
}

func TestFromRecordPartialQuote(t *testing.T) {
	header := []string{ColID, ColLine, ColOverPrice}
	r, err := FromRecord(header, []string{"e1", "8.5", "1.9"})
	if err != nil {
		t.Fatalf("FromRecord: %v", err)
	}
	if r.Odds != nil {
		t.Errorf("partial quote kept: %+v", r.Odds)
	}
}

func TestFromRecordErrors(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		record []string
	}{
		{"missing id", []string{ColID}, []string{""}},
		{"bad time", []string{ColID, ColCommenceTime}, []string{"e", "June"}},
		{"bad int", []string{ColID, ColTotalRuns}, []string{"e", "7.5"}},
		{"bad float", []string{ColID, ColLine}, []string{"e", "eight"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromRecord(tt.header, tt.record); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseIntSpreadsheetForm(t *testing.T) {
	n, err := parseInt("7.0")
	if err != nil || n == nil || *n != 7 {
		t.Errorf("parseInt(7.0) = %v, %v", n, err)
	}
}

func TestReadFrameAndWriteDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.csv")
	if err := os.WriteFile(path, []byte("id,x\n1,2\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := ReadFrame(path)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if f.Name != "a.csv" || len(f.Records) != 2 {
		t.Errorf("frame = %+v", f)
	}

	var buf bytes.Buffer
	if err := WriteDuplicates(&buf, FindDuplicates([]Frame{f}, f.Header)); err != nil {
		t.Fatalf("WriteDuplicates: %v", err)
	}
	if !strings.Contains(buf.String(), "a.csv,2,a.csv,3") {
		t.Errorf("report = %q", buf.String())
	}
}
