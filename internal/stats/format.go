package stats

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/skymetrics/skymetrics/internal/model"
)

// NoData is shown wherever a value is absent, so it never reads as a measured zero.
const NoData = "-"

// FormatPassengers renders a passenger count with thousands separators.
func FormatPassengers(v int64) string {
	return humanize.Comma(v)
}

// FormatCount renders an optional value.
func FormatCount(c model.Count) string {
	if !c.Valid {
		return NoData
	}
	return FormatPassengers(c.Value)
}

// FormatMonthly renders a monthly figure, treating zero as no data.
func FormatMonthly(v int64) string {
	if v <= 0 {
		return NoData
	}
	return FormatPassengers(v)
}

// FormatOptional renders a pointer value, nil meaning absent.
func FormatOptional(v *int64) string {
	if v == nil {
		return NoData
	}
	return FormatPassengers(*v)
}

// FormatPercent renders a signed one-decimal percentage.
func FormatPercent(p float64) string {
	if p > 0 {
		return fmt.Sprintf("+%.1f%%", p)
	}
	return fmt.Sprintf("%.1f%%", p)
}

// FormatAmount renders a signed growth amount under the rounding policy.
func FormatAmount(amount int64, policy model.RoundingPolicy) string {
	amount = RoundAmount(amount, policy)
	if amount > 0 {
		return "+" + humanize.Comma(amount)
	}
	return humanize.Comma(amount)
}

// FormatGrowth renders the year-to-date growth of a record.
func FormatGrowth(s *model.MonthlyStatistics) string {
	g, ok := YearToDateGrowth(s)
	if !ok {
		return NoData
	}
	return FormatPercent(g)
}
