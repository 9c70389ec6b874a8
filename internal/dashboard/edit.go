package dashboard

import (
	"errors"
	"strings"

	"github.com/skymetrics/skymetrics/internal/importer"
	"github.com/skymetrics/skymetrics/internal/model"
)

// dataInput is a parsed "CODE [NAME...] MONTH=CUR[/CMP]..." line from the entry modal.
type dataInput struct {
	code    string
	name    string
	entries []importer.Entry
}

func parseDataInput(input string) (dataInput, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return dataInput{}, errors.New("enter an airport code followed by month figures")
	}
	out := dataInput{code: model.NormalizeCode(fields[0])}
	var name []string
	for _, field := range fields[1:] {
		if !strings.Contains(field, "=") {
			if len(out.entries) > 0 {
				return dataInput{}, errors.New("put the airport name before the month figures")
			}
			name = append(name, field)
			continue
		}
		e, err := importer.ParseFlag(field)
		if err != nil {
			return dataInput{}, err
		}
		out.entries = append(out.entries, e)
	}
	out.name = strings.Join(name, " ")
	return out, nil
}

// formatDataInput renders an existing record in the modal syntax.
func formatDataInput(code string, data *model.MonthlyStatistics) string {
	parts := []string{code}
	for _, e := range importer.Entries(data) {
		parts = append(parts, importer.FormatEntry(e))
	}
	return strings.Join(parts, " ")
}
