package importer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/skymetrics/skymetrics/internal/model"
)

func TestBuildKeepsMonthsWithAnyFigure(t *testing.T) {
	entries := []Entry{
		{Month: 2, Current: "2,300,000"},
		{Month: 0, Current: "2100000", Comparison: "1900000"},
		{Month: 1, Comparison: "1800000"},
		{Month: 3},
	}
	s, err := Build(" kix ", "Kansai", 2025, entries)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []model.ChartDataPoint{
		{Period: "2025 Jan", Passengers: 2100000, Comparison: model.Int64(1900000)},
		{Period: "2025 Feb", Passengers: 0, Comparison: model.Int64(1800000)},
		{Period: "2025 Mar", Passengers: 2300000},
	}
	if diff := cmp.Diff(want, s.ChartData); diff != "" {
		t.Fatalf("chart data mismatch (-want +got):\n%s", diff)
	}
	if s.AirportName != "Kansai" || len(s.Sources) != 1 || s.Sources[0] != ManualSource {
		t.Fatalf("unexpected record %+v", s)
	}
	if !strings.Contains(s.Summary, "Kansai (KIX), 2025") || !strings.Contains(s.Summary, "Months recorded: 3") {
		t.Fatalf("unexpected summary:\n%s", s.Summary)
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build("KIX", "Kansai", 2025, []Entry{{Month: 0}}); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := Build("", "Kansai", 2025, []Entry{{Month: 0, Current: "1"}}); err == nil {
		t.Fatalf("expected missing code error")
	}
	if _, err := Build("KIX", "Kansai", 2025, []Entry{{Month: 0, Current: "-5"}}); err == nil {
		t.Fatalf("expected invalid number error")
	}
	if _, err := Build("KIX", "Kansai", 2025, []Entry{{Month: 0, Current: "1"}, {Month: 0, Current: "2"}}); err == nil {
		t.Fatalf("expected duplicate month error")
	}
	if _, err := Build("KIX", "Kansai", 2025, []Entry{{Month: 12, Current: "1"}}); err == nil {
		t.Fatalf("expected range error")
	}
}

func TestParseMonth(t *testing.T) {
	cases := map[string]int{"Jan": 0, "january": 0, "12": 11, "2024 Mar": 2, " sep ": 8}
	for in, want := range cases {
		got, err := ParseMonth(in)
		if err != nil || got != want {
			t.Fatalf("ParseMonth(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	for _, in := range []string{"", "13", "0", "Ja", "foo"} {
		if _, err := ParseMonth(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestParseFlag(t *testing.T) {
	e, err := ParseFlag("feb=/2350000")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if e.Month != 1 || e.Current != "" || e.Comparison != "2350000" {
		t.Fatalf("unexpected entry %+v", e)
	}
	e, err = ParseFlag("1=4131000")
	if err != nil || e.Month != 0 || e.Current != "4131000" || e.Comparison != "" {
		t.Fatalf("unexpected entry %+v %v", e, err)
	}
	if got := FormatEntry(Entry{Month: 1, Current: "0", Comparison: "5"}); got != "feb=0/5" {
		t.Fatalf("unexpected format %q", got)
	}
	if _, err := ParseFlag("jan"); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestReadCSV(t *testing.T) {
	input := "# KIX 2025\ncomparison,month,passengers\n1900000,Jan,2100000\n,Feb,2000000\n\n1800000,Mar,\n"
	entries, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []Entry{
		{Month: 0, Current: "2100000", Comparison: "1900000"},
		{Month: 1, Current: "2000000"},
		{Month: 2, Comparison: "1800000"},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}

	entries, err = ReadCSV(strings.NewReader("Jan,10,5\n2,20\n"))
	if err != nil {
		t.Fatalf("read without header: %v", err)
	}
	if len(entries) != 2 || entries[1].Month != 1 || entries[1].Current != "20" {
		t.Fatalf("unexpected entries %+v", entries)
	}

	if _, err := ReadCSV(strings.NewReader("month,passengers\nsmarch,1\n")); err == nil {
		t.Fatalf("expected month error")
	}
}

func TestCSVRoundTrip(t *testing.T) {
	original, err := Build("KIX", "Kansai", 2025, []Entry{
		{Month: 0, Current: "2100000", Comparison: "1900000"},
		{Month: 4, Comparison: "1700000"},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, 2025, original); err != nil {
		t.Fatalf("write: %v", err)
	}
	path := filepath.Join(t.TempDir(), "kix.csv")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	entries, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rebuilt, err := Build("KIX", "Kansai", 2025, entries)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if diff := cmp.Diff(original, rebuilt); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
