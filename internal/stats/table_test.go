package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Code", "Passengers", "YoY"}
	rows := [][]string{
		{"HKG", "4,131,000", "+99.6%"},
		{"香港", "0", "-"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := FormatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Code  Passengers     YoY" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "HKG    4,131,000  +99.6%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "香港           0       -" {
		t.Fatalf("unexpected wide row line: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := FormatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil, got %v", lines)
	}
}
