// Package model defines shared data structures.
package model

import (
	"strconv"
	"strings"
	"time"
)

// MonthsPerYear is the number of calendar months in a statistics record.
const MonthsPerYear = 12

// MonthNames are the language-independent month labels used in period strings.
var MonthNames = [MonthsPerYear]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// DashboardConfig defines settings for the dashboard and reporting commands.
type DashboardConfig struct {
	Year       int
	Month      int // 0-11, -1 selects the latest month with data
	Rounding   RoundingPolicy
	Cumulative bool
	Prefix     string
}

// RoundingPolicy controls how growth amounts are displayed.
type RoundingPolicy string

const (
	RoundExact    RoundingPolicy = "exact"
	RoundThousand RoundingPolicy = "thousand"
)

// Theme is the persisted UI preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// AirportDefinition is a catalog entry.
type AirportDefinition struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	IsCustom bool   `json:"isCustom,omitempty"`
}

// NormalizeCode trims and uppercases an airport code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Source is an attribution for a statistics record.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// ChartDataPoint holds one month of passenger counts.
// Comparison is nil when no prior-year figure exists, which is not the same as zero.
type ChartDataPoint struct {
	Period     string `json:"period"`
	Passengers int64  `json:"passengers"`
	Comparison *int64 `json:"comparison,omitempty"`
}

// HasComparison reports whether a prior-year figure is present.
func (p ChartDataPoint) HasComparison() bool {
	return p.Comparison != nil
}

// ComparisonValue returns the prior-year figure or zero.
func (p ChartDataPoint) ComparisonValue() int64 {
	if p.Comparison == nil {
		return 0
	}
	return *p.Comparison
}

// MonthIndex parses the month from the period label ("2024 Jan").
func (p ChartDataPoint) MonthIndex() (int, bool) {
	fields := strings.Fields(p.Period)
	if len(fields) < 2 {
		return -1, false
	}
	for i, name := range MonthNames {
		if strings.EqualFold(fields[len(fields)-1], name) {
			return i, true
		}
	}
	return -1, false
}

// MonthlyStatistics is a per-airport, per-year record.
type MonthlyStatistics struct {
	AirportName string           `json:"airportName"`
	Summary     string           `json:"summary"`
	ChartData   []ChartDataPoint `json:"chartData"`
	Sources     []Source         `json:"sources"`
}

// Month returns the data point for month index i (0-11). The period label wins over slice
// position so sparse records still line up with the calendar.
func (s *MonthlyStatistics) Month(i int) (ChartDataPoint, bool) {
	if s == nil || i < 0 || i >= MonthsPerYear {
		return ChartDataPoint{}, false
	}
	for _, p := range s.ChartData {
		if idx, ok := p.MonthIndex(); ok && idx == i {
			return p, true
		}
	}
	if i < len(s.ChartData) {
		if _, labelled := s.ChartData[i].MonthIndex(); !labelled {
			return s.ChartData[i], true
		}
	}
	return ChartDataPoint{}, false
}

// Period builds the label for a year and month index.
func Period(year, month int) string {
	return strconv.Itoa(year) + " " + MonthNames[month]
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 {
	return &v
}

// Count is an optional integer used in derived tables.
type Count struct {
	Value int64
	Valid bool
}

// Some returns a present Count.
func Some(v int64) Count {
	return Count{Value: v, Valid: true}
}

// Color is a palette entry assigned to a chart series.
type Color struct {
	Name string
	Hex  string
}

// ChartSeries is one (airport, year) or (year) dataset in a comparison view.
type ChartSeries struct {
	ID    string
	Code  string
	Year  int
	Data  [MonthsPerYear]int64
	Total int64
	Peak  int64
	Color Color
}

// ResolutionKind tags how a statistics record was obtained.
type ResolutionKind int

const (
	ResolutionEmpty ResolutionKind = iota
	ResolutionCached
	ResolutionResolved
	ResolutionFailed
)

func (k ResolutionKind) String() string {
	switch k {
	case ResolutionCached:
		return "cached"
	case ResolutionResolved:
		return "resolved"
	case ResolutionFailed:
		return "failed"
	default:
		return "empty"
	}
}

// Resolution is the outcome of resolving one (airport, year) pair.
type Resolution struct {
	Kind ResolutionKind
	Data *MonthlyStatistics
	Err  error
}

// Statistics returns the record when the resolution carries data.
func (r Resolution) Statistics() (*MonthlyStatistics, bool) {
	if (r.Kind == ResolutionCached || r.Kind == ResolutionResolved) && r.Data != nil {
		return r.Data, true
	}
	return nil, false
}

// RefreshReport summarizes a batch resolution.
type RefreshReport struct {
	Year        int
	Results     map[string]Resolution
	CompletedAt time.Time
}
