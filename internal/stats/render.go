package stats

import (
	"fmt"
	"io"

	"github.com/skymetrics/skymetrics/internal/model"
)

// RenderOverview prints one line per airport with its yearly total and growth.
func RenderOverview(w io.Writer, report Report) error {
	if len(report.Airports) == 0 {
		_, err := fmt.Fprintln(w, "No airports in catalog.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Overview %d\n", report.Year); err != nil {
		return err
	}
	headers := []string{"Code", "Name", "Total", "YTD Growth", "State"}
	rows := make([][]string, 0, len(report.Airports))
	for _, a := range report.Airports {
		total := NoData
		growth := NoData
		if a.Stats != nil {
			total = FormatPassengers(a.Total)
		}
		if a.HasGrowth {
			growth = FormatPercent(a.Growth)
		}
		state := a.State.String()
		if a.Err != nil {
			state = fmt.Sprintf("%s: %v", state, a.Err)
		}
		code := a.Airport.Code
		if a.Airport.IsCustom {
			code += "*"
		}
		rows = append(rows, []string{code, a.Airport.Name, total, growth, state})
	}
	return writeLines(w, FormatTable(headers, rows, map[int]bool{2: true, 3: true}))
}

// RenderYearSummary prints the monthly breakdown of a single record.
func RenderYearSummary(w io.Writer, code string, year int, s *model.MonthlyStatistics, policy model.RoundingPolicy) error {
	if s == nil || len(s.ChartData) == 0 {
		_, err := fmt.Fprintf(w, "No data for %s %d.\n", model.NormalizeCode(code), year)
		return err
	}
	title := s.AirportName
	if title == "" {
		title = model.NormalizeCode(code)
	}
	if _, err := fmt.Fprintf(w, "%s %d\n", title, year); err != nil {
		return err
	}
	headers := []string{"Month", "Passengers", fmt.Sprintf("%d", year-1), "Change", "Change %"}
	rows := make([][]string, 0, model.MonthsPerYear)
	for i := 0; i < model.MonthsPerYear; i++ {
		p, ok := s.Month(i)
		if !ok {
			rows = append(rows, []string{model.MonthNames[i], NoData, NoData, NoData, NoData})
			continue
		}
		change, changePct := NoData, NoData
		if g, ok := MonthlyGrowth(p); ok {
			change = FormatAmount(g.Amount, policy)
			changePct = FormatPercent(g.Percentage)
		}
		rows = append(rows, []string{
			model.MonthNames[i],
			FormatMonthly(p.Passengers),
			FormatOptional(p.Comparison),
			change,
			changePct,
		})
	}
	lines := FormatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true})
	if err := writeLines(w, lines); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total: %s\n", FormatPassengers(YearTotal(s))); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "YTD growth: %s\n", FormatGrowth(s)); err != nil {
		return err
	}
	for _, src := range s.Sources {
		if _, err := fmt.Fprintf(w, "Source: %s (%s)\n", src.Title, src.URI); err != nil {
			return err
		}
	}
	return nil
}

// RenderRanking prints a single-month ranking with the month total and the leader.
func RenderRanking(w io.Writer, year, month int, entries []RankEntry, policy model.RoundingPolicy) error {
	if month < 0 || month >= model.MonthsPerYear || len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No data for this month.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Ranking %s\n", model.Period(year, month)); err != nil {
		return err
	}
	headers := []string{"#", "Code", "Name", "Passengers", "Prior year", "Change", "YoY"}
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		change, yoy := NoData, NoData
		if e.Growth != nil {
			change = FormatAmount(e.Growth.Amount, policy)
			yoy = FormatPercent(e.Growth.Percentage)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			e.Code,
			e.Name,
			FormatPassengers(e.Value),
			FormatOptional(e.Prev),
			change,
			yoy,
		})
	}
	lines := FormatTable(headers, rows, map[int]bool{0: true, 3: true, 4: true, 5: true, 6: true})
	if err := writeLines(w, lines); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total: %s  Top: %s\n", FormatPassengers(MonthTotal(entries)), entries[0].Code); err != nil {
		return err
	}
	return nil
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
