package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/skymetrics/skymetrics/internal/compare"
	"github.com/skymetrics/skymetrics/internal/model"
	"github.com/skymetrics/skymetrics/internal/stats"
)

func (s styles) metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", s.cardTitle.Render(label), s.cardValue.Render(value))
	return s.card.Render(content)
}

func renderSummaryCards(st styles, report stats.Report, ranking []stats.RankEntry, month int, width int) string {
	var total int64
	withData := 0
	for _, a := range report.Airports {
		if a.Stats != nil {
			total += a.Total
			withData++
		}
	}
	leader := stats.NoData
	if len(ranking) > 0 && month >= 0 {
		leader = fmt.Sprintf("%s (%s)", ranking[0].Code, model.MonthNames[month])
	}
	cards := []string{
		st.metricCard("Year", strconv.Itoa(report.Year)),
		st.metricCard("Airports with data", fmt.Sprintf("%d / %d", withData, len(report.Airports))),
		st.metricCard("Total passengers", stats.FormatPassengers(total)),
		st.metricCard("Latest leader", leader),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func overviewColumns(width int) []table.Column {
	fixed := 5 + 12 + 11 + 10
	name := maxInt(12, width-fixed-4)
	return []table.Column{
		{Title: "Code", Width: 5},
		{Title: "Name", Width: name},
		{Title: "Total", Width: 12},
		{Title: "YTD Growth", Width: 11},
		{Title: "State", Width: 10},
	}
}

func overviewRows(report stats.Report) []table.Row {
	rows := make([]table.Row, 0, len(report.Airports))
	for _, a := range report.Airports {
		total, growth := stats.NoData, stats.NoData
		if a.Stats != nil {
			total = stats.FormatPassengers(a.Total)
		}
		if a.HasGrowth {
			growth = stats.FormatPercent(a.Growth)
		}
		code := a.Airport.Code
		if a.Airport.IsCustom {
			code += "*"
		}
		rows = append(rows, table.Row{code, a.Airport.Name, total, growth, a.State.String()})
	}
	return rows
}

func rankingColumns(width int) []table.Column {
	fixed := 3 + 5 + 12 + 12 + 11 + 8
	name := maxInt(10, width-fixed-6)
	return []table.Column{
		{Title: "#", Width: 3},
		{Title: "Code", Width: 5},
		{Title: "Name", Width: name},
		{Title: "Passengers", Width: 12},
		{Title: "Prior year", Width: 12},
		{Title: "Change", Width: 11},
		{Title: "YoY", Width: 8},
	}
}

func rankingRows(entries []stats.RankEntry, policy model.RoundingPolicy) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for i, e := range entries {
		change, yoy := stats.NoData, stats.NoData
		if e.Growth != nil {
			change = stats.FormatAmount(e.Growth.Amount, policy)
			yoy = stats.FormatPercent(e.Growth.Percentage)
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			e.Code,
			e.Name,
			stats.FormatPassengers(e.Value),
			stats.FormatOptional(e.Prev),
			change,
			yoy,
		})
	}
	return rows
}

func rankingFooter(year, month int, entries []stats.RankEntry) string {
	if month < 0 || len(entries) == 0 {
		return "No data for this month."
	}
	return fmt.Sprintf("%s  total %s  top %s",
		model.Period(year, month), stats.FormatPassengers(stats.MonthTotal(entries)), entries[0].Code)
}

func renderAirportDetail(st styles, code string, year int, res model.Resolution, policy model.RoundingPolicy) string {
	var buf bytes.Buffer
	data, _ := res.Statistics()
	if res.Kind == model.ResolutionFailed {
		msg := "failed to load"
		if res.Err != nil {
			msg = res.Err.Error()
		}
		buf.WriteString(st.errorText.Render(msg))
		buf.WriteString("\n")
	}
	if err := stats.RenderYearSummary(&buf, code, year, data, policy); err != nil {
		return fmt.Sprintf("Failed to render %s: %v", code, err)
	}
	if data != nil && data.Summary != "" {
		buf.WriteString("\n")
		buf.WriteString(st.muted.Render(data.Summary))
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderComparison(st styles, c *compare.Comparator, projection compare.Projection, width int) string {
	var buf bytes.Buffer
	if err := compare.RenderTable(&buf, c, projection, compare.RenderOptions{Width: width}); err != nil {
		return fmt.Sprintf("Failed to render comparison: %v", err)
	}
	return colorLegend(strings.TrimRight(buf.String(), "\n"), c.Active())
}

// colorLegend paints the legend swatch of each series in its palette color.
func colorLegend(out string, active []model.ChartSeries) string {
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		for _, s := range active {
			prefix := "■ " + s.ID
			if line == prefix || strings.HasPrefix(line, prefix+" ") {
				swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color.Hex)).Render("■")
				lines[i] = swatch + strings.TrimPrefix(line, "■")
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

// parseSeriesInput reads "CODE [YEAR]" or "YEAR". A missing year selects defaultYear.
func parseSeriesInput(input string, defaultYear int) (compare.Selector, error) {
	fields := strings.Fields(input)
	sel := compare.Selector{Year: defaultYear}
	switch len(fields) {
	case 0:
		return sel, errors.New("enter an airport code and optional year")
	case 1:
		if year, err := strconv.Atoi(fields[0]); err == nil {
			sel.Year = year
			return sel, nil
		}
		sel.Code = model.NormalizeCode(fields[0])
	case 2:
		year, err := strconv.Atoi(fields[1])
		if err != nil {
			return sel, fmt.Errorf("invalid year %q", fields[1])
		}
		sel.Code = model.NormalizeCode(fields[0])
		sel.Year = year
	default:
		return sel, errors.New("too many values (use CODE [YEAR])")
	}
	return sel, nil
}
