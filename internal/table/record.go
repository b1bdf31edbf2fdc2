package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/totals-data/internal/model"
)

// ToRecord renders a row as cells in Columns order. Numbers are written at
// full precision so a reloaded table settles exactly as the original did.
func ToRecord(r model.Row) []string {
	return toRecord(r, exactFloat)
}

// ToDisplayRecord is ToRecord with prices, payouts and weather rounded to
// their display precision. Never reload a display record for computation.
func ToDisplayRecord(r model.Row) []string {
	return toRecord(r, displayFloat)
}

type floatFormat func(col string, v *float64) string

func toRecord(r model.Row, formatFloat floatFormat) []string {
	cells := make(map[string]string, len(Columns))

	cells[ColID] = r.ID
	cells[ColSportKey] = r.SportKey
	cells[ColSportTitle] = r.SportTitle
	if !r.CommenceTime.IsZero() {
		cells[ColCommenceTime] = r.CommenceTime.UTC().Format(time.RFC3339)
	}
	cells[ColHomeTeam] = r.HomeTeam
	cells[ColAwayTeam] = r.AwayTeam
	cells[ColGameID] = formatString(r.GameID)
	cells[ColVenueID] = formatString(r.VenueID)
	cells[ColHomeScore] = formatInt(r.HomeScore)
	cells[ColAwayScore] = formatInt(r.AwayScore)
	cells[ColTotalRuns] = formatInt(r.TotalRuns)

	if q := r.Odds; q != nil {
		cells[ColLine] = formatFloat(ColLine, &q.Line)
		cells[ColOverPrice] = formatFloat(ColOverPrice, &q.OverPrice)
		cells[ColUnderPrice] = formatFloat(ColUnderPrice, &q.UnderPrice)
		cells[ColBookID] = q.BookID
		cells[ColSnapshotAt] = q.SnapshotAt
	}

	if w := r.Weather; w != nil {
		cells[ColSamples] = strconv.Itoa(w.SampleCount)
		cells[ColTemperature] = formatFloat(ColTemperature, w.Temperature)
		cells[ColHumidity] = formatFloat(ColHumidity, w.Humidity)
		cells[ColPressure] = formatFloat(ColPressure, w.Pressure)
		cells[ColDewPoint] = formatFloat(ColDewPoint, w.DewPoint)
		cells[ColPrecipitation] = formatFloat(ColPrecipitation, w.Precipitation)
		cells[ColWindSpeed] = formatFloat(ColWindSpeed, w.WindSpeed)
		cells[ColWindGust] = formatFloat(ColWindGust, w.WindGust)
		cells[ColWindDirection] = formatFloat(ColWindDirection, w.WindDirection)
		cells[ColCondition] = w.Condition
		cells[ColWindCategory] = string(w.WindCategory)
		cells[ColWindVector] = formatFloat(ColWindVector, w.WindVector)
	}

	if s := r.Settlement; s != nil {
		cells[ColOutcome] = string(s.Outcome)
		cells[ColOverPayout] = formatFloat(ColOverPayout, &s.OverPayout)
		cells[ColUnderPayout] = formatFloat(ColUnderPayout, &s.UnderPayout)
		cells[ColDifferential] = formatFloat(ColDifferential, &s.Differential)
	}

	record := make([]string, len(Columns))
	for i, col := range Columns {
		record[i] = cells[col]
	}
	return record
}

// FromRecord parses a record laid out per header. Unknown columns are
// ignored and missing columns leave fields absent.
func FromRecord(header []string, record []string) (model.Row, error) {
	get := func(col string) string {
		for i, h := range header {
			if h == col && i < len(record) {
				return strings.TrimSpace(record[i])
			}
		}
		return ""
	}

	var r model.Row
	r.ID = get(ColID)
	if r.ID == "" {
		return model.Row{}, fmt.Errorf("record without %s", ColID)
	}
	r.SportKey = get(ColSportKey)
	r.SportTitle = get(ColSportTitle)
	r.HomeTeam = get(ColHomeTeam)
	r.AwayTeam = get(ColAwayTeam)

	if s := get(ColCommenceTime); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return model.Row{}, fmt.Errorf("row %s: parse %s: %w", r.ID, ColCommenceTime, err)
		}
		r.CommenceTime = t.UTC()
	}

	var err error
	r.GameID = parseString(get(ColGameID))
	r.VenueID = parseString(get(ColVenueID))
	if r.HomeScore, err = parseInt(get(ColHomeScore)); err != nil {
		return model.Row{}, fmt.Errorf("row %s: %s: %w", r.ID, ColHomeScore, err)
	}
	if r.AwayScore, err = parseInt(get(ColAwayScore)); err != nil {
		return model.Row{}, fmt.Errorf("row %s: %s: %w", r.ID, ColAwayScore, err)
	}
	if r.TotalRuns, err = parseInt(get(ColTotalRuns)); err != nil {
		return model.Row{}, fmt.Errorf("row %s: %s: %w", r.ID, ColTotalRuns, err)
	}

	floats := make(map[string]*float64)
	for _, col := range []string{
		ColLine, ColOverPrice, ColUnderPrice,
		ColTemperature, ColHumidity, ColPressure, ColDewPoint, ColPrecipitation,
		ColWindSpeed, ColWindGust, ColWindDirection, ColWindVector,
		ColOverPayout, ColUnderPayout, ColDifferential,
	} {
		v, err := parseFloat(get(col))
		if err != nil {
			return model.Row{}, fmt.Errorf("row %s: %s: %w", r.ID, col, err)
		}
		floats[col] = v
	}

	// A quote is only kept when it is complete.
	if line, over, under := floats[ColLine], floats[ColOverPrice], floats[ColUnderPrice]; line != nil && over != nil && under != nil {
		r.Odds = &model.OddsQuote{
			EventID:    r.ID,
			Line:       *line,
			OverPrice:  *over,
			UnderPrice: *under,
			BookID:     get(ColBookID),
			SnapshotAt: get(ColSnapshotAt),
		}
	}

	if samples := get(ColSamples); samples != "" {
		n, err := parseInt(samples)
		if err != nil {
			return model.Row{}, fmt.Errorf("row %s: %s: %w", r.ID, ColSamples, err)
		}
		count := 0
		if n != nil {
			count = *n
		}
		r.Weather = &model.WeatherSummary{
			SampleCount:   count,
			Temperature:   floats[ColTemperature],
			Humidity:      floats[ColHumidity],
			Pressure:      floats[ColPressure],
			DewPoint:      floats[ColDewPoint],
			Precipitation: floats[ColPrecipitation],
			WindSpeed:     floats[ColWindSpeed],
			WindGust:      floats[ColWindGust],
			WindDirection: floats[ColWindDirection],
			Condition:     get(ColCondition),
			WindCategory:  model.WindClass(get(ColWindCategory)),
			WindVector:    floats[ColWindVector],
		}
	}

	if out := get(ColOutcome); out != "" {
		s := &model.Settlement{Outcome: model.Outcome(out)}
		if v := floats[ColOverPayout]; v != nil {
			s.OverPayout = *v
		}
		if v := floats[ColUnderPayout]; v != nil {
			s.UnderPayout = *v
		}
		if v := floats[ColDifferential]; v != nil {
			s.Differential = *v
		}
		r.Settlement = s
	}

	return r, nil
}

// exactFloat writes the shortest decimal that parses back to the same float64.
func exactFloat(_ string, v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return ""
	}
	return decimal.NewFromFloat(*v).String()
}

func displayFloat(col string, v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return ""
	}
	d := decimal.NewFromFloat(*v)
	if places, ok := precision[col]; ok {
		return d.StringFixed(places)
	}
	return d.String()
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func parseString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseFloat(s string) (*float64, error) {
	if isMissing(s) {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// parseInt accepts "7" and spreadsheet-style "7.0".
func parseInt(s string) (*int, error) {
	if isMissing(s) {
		return nil, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return nil, fmt.Errorf("not an integer: %q", s)
	}
	n := int(f)
	return &n, nil
}
