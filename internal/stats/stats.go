// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"

	"github.com/skymetrics/skymetrics/internal/model"
)

// Growth is the change of a current figure against its prior-year figure.
type Growth struct {
	Amount     int64
	Percentage float64
}

// YearTotal sums passengers over every data point.
func YearTotal(s *model.MonthlyStatistics) int64 {
	if s == nil {
		return 0
	}
	var total int64
	for _, p := range s.ChartData {
		total += p.Passengers
	}
	return total
}

// YearToDateGrowth compares months with a positive current figure against the same months a
// year earlier. It reports false when no month has data or the baseline sums to zero.
func YearToDateGrowth(s *model.MonthlyStatistics) (float64, bool) {
	if s == nil {
		return 0, false
	}
	var currentSum, prevSum int64
	hasData := false
	for _, p := range s.ChartData {
		if p.Passengers <= 0 {
			continue
		}
		hasData = true
		currentSum += p.Passengers
		if p.HasComparison() {
			prevSum += p.ComparisonValue()
		}
	}
	if !hasData || prevSum == 0 {
		return 0, false
	}
	return percentChange(currentSum, prevSum), true
}

// MonthlyGrowth is defined only when both the current and the prior-year figure are positive.
func MonthlyGrowth(p model.ChartDataPoint) (Growth, bool) {
	if p.Passengers <= 0 || p.Comparison == nil || *p.Comparison <= 0 {
		return Growth{}, false
	}
	prev := *p.Comparison
	return Growth{
		Amount:     p.Passengers - prev,
		Percentage: percentChange(p.Passengers, prev),
	}, true
}

// CumulativeSeries returns running totals. Zero months add nothing but keep the running total;
// entries stay absent until the total first becomes positive.
func CumulativeSeries(data []int64) []model.Count {
	out := make([]model.Count, len(data))
	var running int64
	for i, v := range data {
		if v > 0 {
			running += v
		}
		if running > 0 {
			out[i] = model.Some(running)
		}
	}
	return out
}

// SeriesFromStatistics aligns a record to the calendar, zero-filling missing months.
func SeriesFromStatistics(s *model.MonthlyStatistics) [model.MonthsPerYear]int64 {
	var out [model.MonthsPerYear]int64
	for i := range out {
		if p, ok := s.Month(i); ok && p.Passengers > 0 {
			out[i] = p.Passengers
		}
	}
	return out
}

// SeriesTotalPeak returns the sum and maximum of a series.
func SeriesTotalPeak(data [model.MonthsPerYear]int64) (total, peak int64) {
	for _, v := range data {
		total += v
		if v > peak {
			peak = v
		}
	}
	return total, peak
}

// HasPositive reports whether any month carries data.
func HasPositive(data [model.MonthsPerYear]int64) bool {
	for _, v := range data {
		if v > 0 {
			return true
		}
	}
	return false
}

// LatestMonthIndex returns the last month index with a positive figure across all records,
// or -1 when none has data.
func LatestMonthIndex(records ...*model.MonthlyStatistics) int {
	latest := -1
	for _, s := range records {
		for i := model.MonthsPerYear - 1; i > latest; i-- {
			if p, ok := s.Month(i); ok && p.Passengers > 0 {
				latest = i
				break
			}
		}
	}
	return latest
}

// RoundAmount applies the display policy for growth amounts.
func RoundAmount(amount int64, policy model.RoundingPolicy) int64 {
	if policy != model.RoundThousand {
		return amount
	}
	return int64(math.Round(float64(amount)/1000)) * 1000
}

func percentChange(current, prev int64) float64 {
	return round1(float64(current-prev) / float64(prev) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
