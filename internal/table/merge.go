package table

import "github.com/rickgao/totals-data/internal/model"

// Merge folds fresh rows into previous. The concatenation previous+fresh is
// de-duplicated by event id keeping the first occurrence, so stored rows win
// and keep their enrichment. Order is preserved. dropped counts removed rows.
func Merge(previous, fresh []model.Row) (merged []model.Row, dropped int) {
	seen := make(map[string]struct{}, len(previous)+len(fresh))
	merged = make([]model.Row, 0, len(previous)+len(fresh))

	for _, rows := range [][]model.Row{previous, fresh} {
		for _, r := range rows {
			if _, ok := seen[r.ID]; ok {
				dropped++
				continue
			}
			seen[r.ID] = struct{}{}
			merged = append(merged, r)
		}
	}

	return merged, dropped
}

// RowsFromEvents wraps discovered events as bare rows.
func RowsFromEvents(events []model.Event) []model.Row {
	rows := make([]model.Row, len(events))
	for i, ev := range events {
		rows[i] = model.Row{Event: ev}
	}
	return rows
}
