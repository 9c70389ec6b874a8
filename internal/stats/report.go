package stats

import (
	"github.com/skymetrics/skymetrics/internal/model"
)

// AirportSummary is one airport's line in a yearly overview.
type AirportSummary struct {
	Airport model.AirportDefinition
	State   model.ResolutionKind
	Err     error
	Stats   *model.MonthlyStatistics
	Total   int64
	Growth  float64
	// HasGrowth is false when no baseline exists.
	HasGrowth bool
}

// Report contains precomputed data for a yearly overview.
type Report struct {
	Year        int
	Airports    []AirportSummary
	LatestMonth int
	Ranking     []RankEntry
}

// BuildReport derives totals, growth, and the latest-month ranking from resolved records.
func BuildReport(year int, airports []model.AirportDefinition, results map[string]model.Resolution) Report {
	report := Report{Year: year, LatestMonth: -1}
	inputs := make([]RankInput, 0, len(airports))
	records := make([]*model.MonthlyStatistics, 0, len(airports))
	for _, ap := range airports {
		res, ok := results[ap.Code]
		if !ok {
			res = model.Resolution{Kind: model.ResolutionEmpty}
		}
		summary := AirportSummary{Airport: ap, State: res.Kind, Err: res.Err}
		if data, ok := res.Statistics(); ok {
			summary.Stats = data
			summary.Total = YearTotal(data)
			summary.Growth, summary.HasGrowth = YearToDateGrowth(data)
			records = append(records, data)
		}
		inputs = append(inputs, RankInput{Airport: ap, Stats: summary.Stats})
		report.Airports = append(report.Airports, summary)
	}
	report.LatestMonth = LatestMonthIndex(records...)
	if report.LatestMonth >= 0 {
		report.Ranking = RankForMonth(inputs, report.LatestMonth)
	}
	return report
}
