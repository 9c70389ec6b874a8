package dataset

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/skymetrics/skymetrics/internal/stats"
)

func TestDefaultAirports(t *testing.T) {
	airports := DefaultAirports()
	want := []string{"HKG", "TPE", "SIN", "BKK", "ICN", "MNL"}
	if len(airports) != len(want) {
		t.Fatalf("expected %d airports, got %d", len(want), len(airports))
	}
	for i, code := range want {
		if airports[i].Code != code || airports[i].IsCustom {
			t.Fatalf("unexpected airport %d: %+v", i, airports[i])
		}
	}
}

func TestDemoResolveHKG(t *testing.T) {
	s, err := Demo{}.Resolve(context.Background(), "hkg", DemoYear)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(s.ChartData) != 12 {
		t.Fatalf("expected 12 months, got %d", len(s.ChartData))
	}
	if s.ChartData[0].Period != "2024 Jan" {
		t.Fatalf("unexpected period %q", s.ChartData[0].Period)
	}
	if got := stats.YearTotal(s); got != 53055000 {
		t.Fatalf("expected 53055000, got %d", got)
	}
	if g, ok := stats.YearToDateGrowth(s); !ok || g != 34.4 {
		t.Fatalf("expected 34.4 growth, got %v %v", g, ok)
	}

	s.ChartData[0].Passengers = 1
	again, _ := Demo{}.Resolve(context.Background(), "HKG", DemoYear)
	if again.ChartData[0].Passengers != 4131000 {
		t.Fatalf("resolved records must not share state")
	}
}

func TestDemoResolveMissing(t *testing.T) {
	_, err := Demo{}.Resolve(context.Background(), "MNL", DemoYear)
	if !errors.Is(err, ErrNoData) || !strings.Contains(err.Error(), "no data for MNL") {
		t.Fatalf("expected no data error, got %v", err)
	}
	_, err = Demo{}.Resolve(context.Background(), "HKG", 2026)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected no data error for other years, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Demo{}).Resolve(ctx, "HKG", DemoYear); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}
