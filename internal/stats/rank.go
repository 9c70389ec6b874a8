package stats

import (
	"sort"

	"github.com/skymetrics/skymetrics/internal/model"
)

// RankInput pairs a catalog entry with its resolved record, which may be nil.
type RankInput struct {
	Airport model.AirportDefinition
	Stats   *model.MonthlyStatistics
}

// RankEntry is one row of a single-month ranking.
type RankEntry struct {
	Code     string
	Name     string
	IsCustom bool
	Value    int64
	Prev     *int64
	Growth   *Growth
}

// RankForMonth ranks airports by their figure for month, highest first. Airports without a
// positive figure that month are left out; ties keep catalog order.
func RankForMonth(inputs []RankInput, month int) []RankEntry {
	entries := make([]RankEntry, 0, len(inputs))
	for _, in := range inputs {
		p, ok := in.Stats.Month(month)
		if !ok || p.Passengers <= 0 {
			continue
		}
		entry := RankEntry{
			Code:     in.Airport.Code,
			Name:     in.Airport.Name,
			IsCustom: in.Airport.IsCustom,
			Value:    p.Passengers,
			Prev:     p.Comparison,
		}
		if g, ok := MonthlyGrowth(p); ok {
			entry.Growth = &g
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	return entries
}

// MonthTotal sums the ranked values.
func MonthTotal(entries []RankEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Value
	}
	return total
}
