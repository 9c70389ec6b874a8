package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skymetrics/skymetrics/internal/compare"
	"github.com/skymetrics/skymetrics/internal/model"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("skymetrics %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return filepath.Join(dir, "data", "skymetrics.db")
}

func TestCustomAirportCommands(t *testing.T) {
	db := setupEnv(t)
	out := run(t, "stats", "save", "kix", "--db", db, "--name", "Kansai", "--year", "2025",
		"--month", "jan=2100000/1900000", "--month", "feb=/1800000")
	if !strings.Contains(out, "Months recorded: 2") {
		t.Fatalf("unexpected save output:\n%s", out)
	}

	out = run(t, "airports", "list", "--db", db)
	if !strings.Contains(out, "KIX   Kansai") || !strings.Contains(out, "2025") {
		t.Fatalf("expected KIX in list:\n%s", out)
	}

	out = run(t, "stats", "show", "KIX", "--db", db, "--year", "2025")
	for _, want := range []string{"Kansai 2025", "2,100,000", "+10.5%", "State: cached", "Saved: "} {
		if !strings.Contains(out, want) {
			t.Fatalf("show missing %q:\n%s", want, out)
		}
	}

	out = run(t, "stats", "show", "KIX", "--db", db, "--year", "2025", "--flags")
	want := "skymetrics stats save KIX --year 2025 --month jan=2100000/1900000 --month feb=0/1800000"
	if strings.TrimSpace(out) != want {
		t.Fatalf("unexpected edit form:\n%s", out)
	}

	run(t, "airports", "remove", "KIX", "--db", db)
	out = run(t, "airports", "list", "--db", db)
	if strings.Contains(out, "KIX") {
		t.Fatalf("expected KIX removed:\n%s", out)
	}
	out = run(t, "stats", "show", "KIX", "--db", db, "--year", "2025", "--csv")
	if !strings.Contains(out, "2025 Feb,0,1800000") {
		t.Fatalf("stored data must survive removal:\n%s", out)
	}
}

func TestReportCommands(t *testing.T) {
	setupEnv(t)
	out := run(t, "refresh", "--ephemeral")
	for _, want := range []string{"Overview 2024", "53,055,000", "failed: no data for MNL", "bundled 5", "failed 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("refresh missing %q:\n%s", want, out)
		}
	}

	out = run(t, "rank", "--ephemeral", "--month", "1")
	if !strings.Contains(out, "Ranking 2024 Jan") || !strings.Contains(out, "Top: ICN") {
		t.Fatalf("unexpected ranking:\n%s", out)
	}

	out = run(t, "compare", "--ephemeral", "HKG", "TPE", "MNL")
	for _, want := range []string{
		"Month   HKG-2024   TPE-2024",
		"Jul    4,790,000          -",
		"skipping MNL-2024: no data for selection: MNL 2024",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("comparison missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "MNL-0") {
		t.Fatalf("skip notice must name the resolved year:\n%s", out)
	}

	out = run(t, "theme", "--ephemeral")
	if strings.TrimSpace(out) != "dark" {
		t.Fatalf("expected dark theme, got %q", out)
	}
}

func TestCompareSelectors(t *testing.T) {
	sels, err := compareSelectors([]string{"hkg", "TPE:2023"}, compare.CrossAirport)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sels[0] != (compare.Selector{Code: "HKG"}) || sels[1] != (compare.Selector{Code: "TPE", Year: 2023}) {
		t.Fatalf("unexpected selectors %+v", sels)
	}
	sels, err = compareSelectors([]string{"hkg", "2023", "2024"}, compare.Historical)
	if err != nil || len(sels) != 2 || sels[1] != (compare.Selector{Code: "HKG", Year: 2024}) {
		t.Fatalf("unexpected historical selectors %+v %v", sels, err)
	}
	if _, err := compareSelectors([]string{"HKG"}, compare.Historical); err == nil {
		t.Fatalf("expected error without years")
	}
	if _, err := compareSelectors([]string{"HKG:x"}, compare.CrossAirport); err == nil {
		t.Fatalf("expected invalid year error")
	}
}

func TestValidateConfig(t *testing.T) {
	valid := model.DashboardConfig{Year: 2024, Month: -1, Rounding: model.RoundExact, Prefix: "skymetrics_"}
	if err := validateConfig(valid); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	bad := valid
	bad.Month = 12
	if err := validateConfig(bad); err == nil {
		t.Fatalf("expected month error")
	}
	bad = valid
	bad.Rounding = "nearest"
	if err := validateConfig(bad); err == nil {
		t.Fatalf("expected rounding error")
	}
}
