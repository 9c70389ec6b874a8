package stats

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/skymetrics/skymetrics/internal/model"
)

func TestBuildReport(t *testing.T) {
	airports := []model.AirportDefinition{
		{Code: "HKG", Name: "Hong Kong"},
		{Code: "MNL", Name: "Manila"},
		{Code: "KIX", Name: "Kansai", IsCustom: true},
	}
	results := map[string]model.Resolution{
		"HKG": {Kind: model.ResolutionResolved, Data: hkg2024()},
		"MNL": {Kind: model.ResolutionFailed, Err: errors.New("no data for MNL")},
	}
	report := BuildReport(2024, airports, results)
	if len(report.Airports) != 3 {
		t.Fatalf("expected 3 airports, got %d", len(report.Airports))
	}
	hkg := report.Airports[0]
	if hkg.Total != 53055000 || !hkg.HasGrowth || hkg.Growth != 34.4 {
		t.Fatalf("unexpected HKG summary %+v", hkg)
	}
	if report.Airports[1].State != model.ResolutionFailed || report.Airports[1].Stats != nil {
		t.Fatalf("unexpected MNL summary %+v", report.Airports[1])
	}
	if report.Airports[2].State != model.ResolutionEmpty {
		t.Fatalf("expected missing result to be empty, got %v", report.Airports[2].State)
	}
	if report.LatestMonth != 11 {
		t.Fatalf("expected latest month 11, got %d", report.LatestMonth)
	}
	if len(report.Ranking) != 1 || report.Ranking[0].Code != "HKG" {
		t.Fatalf("unexpected ranking %+v", report.Ranking)
	}

	var buf bytes.Buffer
	if err := RenderOverview(&buf, report); err != nil {
		t.Fatalf("render overview: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Overview 2024", "53,055,000", "+34.4%", "failed: no data for MNL", "KIX*"} {
		if !strings.Contains(out, want) {
			t.Fatalf("overview missing %q:\n%s", want, out)
		}
	}
}

func TestRenderYearSummary(t *testing.T) {
	s := &model.MonthlyStatistics{
		AirportName: "Kansai",
		ChartData: []model.ChartDataPoint{
			{Period: "2025 Jan", Passengers: 2101499, Comparison: model.Int64(1900000)},
			{Period: "2025 Feb", Passengers: 0, Comparison: model.Int64(1800000)},
		},
		Sources: []model.Source{{Title: "manual", URI: "#"}},
	}
	var buf bytes.Buffer
	if err := RenderYearSummary(&buf, "KIX", 2025, s, model.RoundThousand); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Kansai 2025", "2,101,499", "+201,000", "+10.6%", "Total: 2,101,499", "YTD growth: +10.6%", "Source: manual (#)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	lines := strings.Split(out, "\n")
	var feb string
	for _, line := range lines {
		if strings.HasPrefix(line, "Feb") {
			feb = line
		}
	}
	if strings.Contains(feb, " 0 ") || !strings.Contains(feb, "1,800,000") {
		t.Fatalf("zero month must render as no data: %q", feb)
	}

	buf.Reset()
	if err := RenderYearSummary(&buf, "kix", 2026, nil, model.RoundExact); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No data for KIX 2026") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRenderRanking(t *testing.T) {
	entries := RankForMonth([]RankInput{
		{Airport: model.AirportDefinition{Code: "HKG", Name: "Hong Kong"}, Stats: hkg2024()},
	}, 0)
	var buf bytes.Buffer
	if err := RenderRanking(&buf, 2024, 0, entries, model.RoundExact); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Ranking 2024 Jan", "4,131,000", "2,070,000", "+2,061,000", "+99.6%", "Top: HKG"} {
		if !strings.Contains(out, want) {
			t.Fatalf("ranking missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderRanking(&buf, 2024, 0, nil, model.RoundExact); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No data") {
		t.Fatalf("expected no data message")
	}
}

func TestBuildSummary(t *testing.T) {
	points := []model.ChartDataPoint{
		{Period: "2025 Jan", Passengers: 1100, Comparison: model.Int64(1000)},
		{Period: "2025 Feb", Passengers: 0, Comparison: model.Int64(1000)},
	}
	out := BuildSummary("kix", "Kansai", 2025, points)
	for _, want := range []string{"Kansai (KIX), 2025", "Months recorded: 2", "2025 total passengers: 1,100", "2024 same-period total: 2,000", "Growth: -45.00%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	out = BuildSummary("KIX", "Kansai", 2025, []model.ChartDataPoint{{Period: "2025 Jan", Passengers: 10}})
	if !strings.Contains(out, "Growth: n/a") {
		t.Fatalf("expected n/a growth:\n%s", out)
	}
}
