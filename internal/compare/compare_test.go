package compare

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/skymetrics/skymetrics/internal/model"
)

type fakeResolver map[string]*model.MonthlyStatistics

func (f fakeResolver) Resolve(_ context.Context, code string, year int) model.Resolution {
	s, ok := f[strconv.Itoa(year)+code]
	if !ok {
		return model.Resolution{Kind: model.ResolutionEmpty}
	}
	return model.Resolution{Kind: model.ResolutionCached, Data: s}
}

func record(year int, values ...int64) *model.MonthlyStatistics {
	s := &model.MonthlyStatistics{}
	for i, v := range values {
		s.ChartData = append(s.ChartData, model.ChartDataPoint{Period: model.Period(year, i), Passengers: v})
	}
	return s
}

func testResolver() fakeResolver {
	return fakeResolver{
		"2024HKG": record(2024, 100, 0, 300),
		"2024TPE": record(2024, 50, 60),
		"2023HKG": record(2023, 10, 20, 30),
		"2025HKG": record(2025, 7),
		"2024MNL": record(2024, 0, 0),
	}
}

func TestAddSeriesCrossAirport(t *testing.T) {
	c := New(CrossAirport, testResolver(), nil)
	c.SetTargetYear(2024)

	s, err := c.AddSeries(context.Background(), Selector{Code: "hkg"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if s.ID != "HKG-2024" || s.Total != 400 || s.Peak != 300 || s.Color.Hex != "#3b82f6" {
		t.Fatalf("unexpected series %+v", s)
	}
	if _, err := c.AddSeries(context.Background(), Selector{Code: "HKG", Year: 2024}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, err := c.AddSeries(context.Background(), Selector{Code: "MNL"}); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected no data for zero series, got %v", err)
	}
	if _, err := c.AddSeries(context.Background(), Selector{Code: "KIX"}); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected no data for missing series, got %v", err)
	}
	s2, err := c.AddSeries(context.Background(), Selector{Code: "HKG", Year: 2023})
	if err != nil {
		t.Fatalf("add other year: %v", err)
	}
	if s2.ID != "HKG-2023" || s2.Color.Hex != "#ef4444" {
		t.Fatalf("unexpected series %+v", s2)
	}
	if got := len(c.Active()); got != 2 {
		t.Fatalf("expected 2 active series, got %d", got)
	}
}

func TestSetTargetYearResetsCrossAirport(t *testing.T) {
	c := New(CrossAirport, testResolver(), nil)
	c.SetTargetYear(2024)
	for _, code := range []string{"HKG", "TPE"} {
		if _, err := c.AddSeries(context.Background(), Selector{Code: code}); err != nil {
			t.Fatalf("add %s: %v", code, err)
		}
	}
	c.SetTargetYear(2024)
	if len(c.Active()) != 2 {
		t.Fatalf("same year must keep series")
	}
	c.SetTargetYear(2025)
	if len(c.Active()) != 0 {
		t.Fatalf("expected reset on year change, got %v", c.Active())
	}
	s, err := c.AddSeries(context.Background(), Selector{Code: "HKG"})
	if err != nil {
		t.Fatalf("add after reset: %v", err)
	}
	if s.ID != "HKG-2025" || s.Color.Hex != "#3b82f6" {
		t.Fatalf("expected first color after reset, got %+v", s)
	}
}

func TestHistoricalMode(t *testing.T) {
	c := New(Historical, testResolver(), nil)
	if _, err := c.AddSeries(context.Background(), Selector{Year: 2024}); !errors.Is(err, ErrNoSubject) {
		t.Fatalf("expected missing subject, got %v", err)
	}
	c.SetSubjectAirport("hkg")
	for _, year := range []int{2024, 2023} {
		s, err := c.AddSeries(context.Background(), Selector{Code: "TPE", Year: year})
		if err != nil {
			t.Fatalf("add %d: %v", year, err)
		}
		if s.Code != "HKG" {
			t.Fatalf("historical series must use the subject airport, got %s", s.Code)
		}
	}
	ids := []string{}
	for _, s := range c.Active() {
		ids = append(ids, s.ID)
	}
	if strings.Join(ids, ",") != "2024,2023" {
		t.Fatalf("unexpected ids %v", ids)
	}
	c.SetTargetYear(2030)
	if len(c.Active()) != 2 {
		t.Fatalf("target year must not reset historical mode")
	}
	c.SetSubjectAirport("TPE")
	if len(c.Active()) != 0 {
		t.Fatalf("subject change must reset historical mode")
	}
}

func TestTableProjections(t *testing.T) {
	c := New(CrossAirport, testResolver(), nil)
	c.SetTargetYear(2024)
	_, _ = c.AddSeries(context.Background(), Selector{Code: "HKG"})
	_, _ = c.AddSeries(context.Background(), Selector{Code: "TPE"})

	rows := c.Table(Monthly)
	if len(rows) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(rows))
	}
	if got := rows[1].Values["HKG-2024"]; got.Valid {
		t.Fatalf("zero month must be absent, got %+v", got)
	}
	if got := rows[2].Values["HKG-2024"]; !got.Valid || got.Value != 300 {
		t.Fatalf("unexpected March value %+v", got)
	}

	cum := c.Table(Cumulative)
	want := []model.Count{model.Some(100), model.Some(100), model.Some(400), model.Some(400)}
	for i, w := range want {
		if got := cum[i].Values["HKG-2024"]; got != w {
			t.Fatalf("month %d: expected %+v, got %+v", i, w, got)
		}
	}
	if got := cum[11].Values["TPE-2024"]; got != model.Some(110) {
		t.Fatalf("expected running total 110 at year end, got %+v", got)
	}

	h := New(Historical, testResolver(), nil)
	h.SetSubjectAirport("HKG")
	_, _ = h.AddSeries(context.Background(), Selector{Year: 2024})
	if got := h.Table(Cumulative)[1].Values["2024"]; got.Valid {
		t.Fatalf("historical table must stay monthly, got %+v", got)
	}
}

func TestRemoveSeriesReleasesColor(t *testing.T) {
	c := New(CrossAirport, testResolver(), nil)
	c.SetTargetYear(2024)
	_, _ = c.AddSeries(context.Background(), Selector{Code: "HKG"})
	_, _ = c.AddSeries(context.Background(), Selector{Code: "TPE"})
	if !c.RemoveSeries("HKG-2024") {
		t.Fatalf("expected removal")
	}
	if c.RemoveSeries("HKG-2024") {
		t.Fatalf("second removal must report false")
	}
	s, err := c.AddSeries(context.Background(), Selector{Code: "HKG", Year: 2023})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if s.Color.Name != "blue" {
		t.Fatalf("expected released color to be reused, got %s", s.Color.Name)
	}
}

func TestPaletteWraps(t *testing.T) {
	p := NewPalette(model.Color{Name: "a"}, model.Color{Name: "b"})
	got := []string{p.Acquire().Name, p.Acquire().Name, p.Acquire().Name, p.Acquire().Name}
	if strings.Join(got, "") != "abab" {
		t.Fatalf("unexpected sequence %v", got)
	}
	p.Release(model.Color{Name: "b"})
	p.Release(model.Color{Name: "b"})
	if c := p.Acquire(); c.Name != "b" {
		t.Fatalf("expected freed color, got %s", c.Name)
	}
}

func TestRenderTable(t *testing.T) {
	c := New(CrossAirport, testResolver(), nil)
	c.SetTargetYear(2024)
	_, _ = c.AddSeries(context.Background(), Selector{Code: "HKG"})
	_, _ = c.AddSeries(context.Background(), Selector{Code: "TPE"})

	var buf bytes.Buffer
	if err := RenderTable(&buf, c, Monthly, RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Airport comparison (monthly)", "Month  HKG-2024  TPE-2024", "Feb           -        60", "■ HKG-2024  blue", "total 400", "peak 300"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("unexpected color codes without color option")
	}

	buf.Reset()
	if err := RenderTable(&buf, c, Monthly, RenderOptions{Color: true, Width: 18}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out = buf.String()
	if !strings.Contains(out, "\x1b[38;2;59;130;246m■") {
		t.Fatalf("expected truecolor swatch:\n%s", out)
	}
	if strings.Contains(out, "HKG-2024  TPE-2024") {
		t.Fatalf("expected columns split across blocks:\n%s", out)
	}

	buf.Reset()
	if err := RenderTable(&buf, New(CrossAirport, nil, nil), Monthly, RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No series selected.") {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}

func TestYearChangeRestartsPaletteCycle(t *testing.T) {
	resolver := fakeResolver{}
	codes := make([]string, len(DefaultColors)+1)
	for i := range codes {
		codes[i] = "A" + strconv.Itoa(10+i)
		resolver["2024"+codes[i]] = record(2024, 1)
		resolver["2025"+codes[i]] = record(2025, 1)
	}
	c := New(CrossAirport, resolver, nil)
	var last model.ChartSeries
	for _, year := range []int{2024, 2025} {
		c.SetTargetYear(year)
		for _, code := range codes {
			s, err := c.AddSeries(context.Background(), Selector{Code: code})
			if err != nil {
				t.Fatalf("add %s %d: %v", code, year, err)
			}
			last = s
		}
	}
	if last.Color != DefaultColors[0] {
		t.Fatalf("expected the overflow color to restart at %v, got %v", DefaultColors[0], last.Color)
	}
}
