package stats

import (
	"fmt"
	"strings"

	"github.com/skymetrics/skymetrics/internal/model"
)

// BuildSummary describes a manually entered record: months counted, both yearly totals, and
// the growth rate with two decimals when a baseline exists.
func BuildSummary(code, name string, year int, points []model.ChartDataPoint) string {
	var totalCurrent, totalPrev int64
	for _, p := range points {
		totalCurrent += p.Passengers
		totalPrev += p.ComparisonValue()
	}
	growth := "n/a (no prior-year data)"
	if totalPrev > 0 {
		rate := float64(totalCurrent-totalPrev) / float64(totalPrev) * 100
		sign := ""
		if rate > 0 {
			sign = "+"
		}
		growth = fmt.Sprintf("%s%.2f%%", sign, rate)
	}
	lines := []string{
		fmt.Sprintf("Manually entered data for %s (%s), %d.", name, model.NormalizeCode(code), year),
		fmt.Sprintf("- Months recorded: %d", len(points)),
		fmt.Sprintf("- %d total passengers: %s", year, FormatPassengers(totalCurrent)),
		fmt.Sprintf("- %d same-period total: %s", year-1, FormatPassengers(totalPrev)),
		fmt.Sprintf("- Growth: %s", growth),
	}
	return strings.Join(lines, "\n")
}
