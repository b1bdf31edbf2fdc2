// Package outcome classifies a realized total against the betting line.
package outcome

import "github.com/rickgao/totals-data/internal/model"

// Stake is the nominal flat stake payouts are computed on.
const Stake = 100.0

// Classify labels realized against line and computes flat-stake payouts.
// Push requires exact equality; lines come in halves so no tolerance is used.
// A missing price pays 0 on its side; the label only needs the line.
func Classify(realized, line float64, over, under *float64) model.Settlement {
	s := model.Settlement{Differential: realized - line}

	switch {
	case realized == line:
		s.Outcome = model.Push
		s.OverPayout = Stake
		s.UnderPayout = Stake
	case realized > line:
		s.Outcome = model.Over
		if over != nil {
			s.OverPayout = Stake * *over
		}
	default:
		s.Outcome = model.Under
		if under != nil {
			s.UnderPayout = Stake * *under
		}
	}

	return s
}

// ForRow classifies a row when it has both a quote and a realized total.
func ForRow(r *model.Row) (model.Settlement, bool) {
	if r.Odds == nil || r.TotalRuns == nil {
		return model.Settlement{}, false
	}
	over, under := r.Odds.OverPrice, r.Odds.UnderPrice
	return Classify(float64(*r.TotalRuns), r.Odds.Line, &over, &under), true
}
