// Package importer turns manually entered monthly figures into statistics records.
package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/skymetrics/skymetrics/internal/model"
	"github.com/skymetrics/skymetrics/internal/stats"
)

// ErrEmpty is returned when no month carries a current or prior-year figure.
var ErrEmpty = errors.New("enter data for at least one month (current or prior year)")

// ManualSource is attached to every manually entered record.
var ManualSource = model.Source{Title: "manual entry", URI: "#"}

// Entry is one month of raw input. Empty strings mean the field was left blank.
type Entry struct {
	Month      int
	Current    string
	Comparison string
}

// Build validates entries and assembles the record for (code, year). A month is kept when
// either figure is given; a blank current figure with a prior-year figure stores zero.
func Build(code, name string, year int, entries []Entry) (*model.MonthlyStatistics, error) {
	code = model.NormalizeCode(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("airport code and name are required")
	}

	var slots [model.MonthsPerYear]*model.ChartDataPoint
	for _, e := range entries {
		if e.Month < 0 || e.Month >= model.MonthsPerYear {
			return nil, fmt.Errorf("month %d out of range", e.Month+1)
		}
		current, hasCurrent, err := parseCount(e.Current)
		if err != nil {
			return nil, fmt.Errorf("%s passengers: %w", model.MonthNames[e.Month], err)
		}
		comparison, hasComparison, err := parseCount(e.Comparison)
		if err != nil {
			return nil, fmt.Errorf("%s comparison: %w", model.MonthNames[e.Month], err)
		}
		if !hasCurrent && !hasComparison {
			continue
		}
		if slots[e.Month] != nil {
			return nil, fmt.Errorf("%s entered twice", model.MonthNames[e.Month])
		}
		p := &model.ChartDataPoint{Period: model.Period(year, e.Month), Passengers: current}
		if hasComparison {
			p.Comparison = model.Int64(comparison)
		}
		slots[e.Month] = p
	}

	points := make([]model.ChartDataPoint, 0, model.MonthsPerYear)
	for _, p := range slots {
		if p != nil {
			points = append(points, *p)
		}
	}
	if len(points) == 0 {
		return nil, ErrEmpty
	}
	return &model.MonthlyStatistics{
		AirportName: name,
		Summary:     stats.BuildSummary(code, name, year, points),
		ChartData:   points,
		Sources:     []model.Source{ManualSource},
	}, nil
}

// Entries converts an existing record back into raw input, the starting point for edits.
func Entries(s *model.MonthlyStatistics) []Entry {
	var out []Entry
	for i := 0; i < model.MonthsPerYear; i++ {
		p, ok := s.Month(i)
		if !ok {
			continue
		}
		e := Entry{Month: i, Current: strconv.FormatInt(p.Passengers, 10)}
		if p.HasComparison() {
			e.Comparison = strconv.FormatInt(p.ComparisonValue(), 10)
		}
		out = append(out, e)
	}
	return out
}

// ParseMonth accepts "Jan", "january", "1", or a period label such as "2024 Jan".
func ParseMonth(value string) (int, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return -1, fmt.Errorf("month is empty")
	}
	token := fields[len(fields)-1]
	if n, err := strconv.Atoi(token); err == nil {
		if n < 1 || n > model.MonthsPerYear {
			return -1, fmt.Errorf("month %d out of range (1-12)", n)
		}
		return n - 1, nil
	}
	if len(token) >= 3 {
		for i, name := range model.MonthNames {
			if strings.EqualFold(token[:3], name) {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("unknown month %q", value)
}

// ParseFlag parses "MONTH=CURRENT[/COMPARISON]", e.g. "jan=4131000/2070000" or "feb=/2350000".
func ParseFlag(value string) (Entry, error) {
	monthPart, figures, ok := strings.Cut(value, "=")
	if !ok {
		return Entry{}, fmt.Errorf("invalid month entry %q (want MONTH=CURRENT[/COMPARISON])", value)
	}
	month, err := ParseMonth(monthPart)
	if err != nil {
		return Entry{}, err
	}
	current, comparison, _ := strings.Cut(figures, "/")
	return Entry{Month: month, Current: strings.TrimSpace(current), Comparison: strings.TrimSpace(comparison)}, nil
}

func parseCount(value string) (int64, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false, nil
	}
	cleaned := strings.NewReplacer(",", "", "_", "").Replace(value)
	for i := 0; i < len(cleaned); i++ {
		if cleaned[i] < '0' || cleaned[i] > '9' {
			return 0, false, fmt.Errorf("invalid number %q", value)
		}
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid number %q", value)
	}
	return n, true, nil
}
