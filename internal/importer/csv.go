package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/skymetrics/skymetrics/internal/model"
)

const (
	columnMonth      = "month"
	columnPassengers = "passengers"
	columnComparison = "comparison"
)

// LoadFile reads entries from a CSV file.
func LoadFile(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			_ = cerr
		}
	}()
	return ReadCSV(file)
}

// ReadCSV reads rows of month, passengers, and comparison. The header row is optional; when
// present, columns may appear in any order. Lines starting with # are skipped.
func ReadCSV(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	index := map[string]int{columnMonth: 0, columnPassengers: 1, columnComparison: 2}
	var entries []Entry
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if row == 1 && isHeader(record) {
			index = headerIndex(record)
			continue
		}
		if blank(record) {
			continue
		}
		month, err := ParseMonth(field(record, index, columnMonth))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		entries = append(entries, Entry{
			Month:      month,
			Current:    field(record, index, columnPassengers),
			Comparison: field(record, index, columnComparison),
		})
	}
	return entries, nil
}

// WriteCSV writes s in the format ReadCSV accepts.
func WriteCSV(w io.Writer, year int, s *model.MonthlyStatistics) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{columnMonth, columnPassengers, columnComparison}); err != nil {
		return err
	}
	for _, e := range Entries(s) {
		if err := writer.Write([]string{model.Period(year, e.Month), e.Current, e.Comparison}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func isHeader(record []string) bool {
	for _, cell := range record {
		if strings.EqualFold(strings.TrimSpace(cell), columnMonth) {
			return true
		}
	}
	return false
}

func headerIndex(record []string) map[string]int {
	index := map[string]int{}
	for i, cell := range record {
		index[strings.ToLower(strings.TrimSpace(cell))] = i
	}
	return index
}

func field(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// FormatEntry renders e in the ParseFlag syntax.
func FormatEntry(e Entry) string {
	out := strings.ToLower(model.MonthNames[e.Month]) + "=" + e.Current
	if e.Comparison != "" {
		out += "/" + e.Comparison
	}
	return out
}
