package compare

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/skymetrics/skymetrics/internal/model"
	"github.com/skymetrics/skymetrics/internal/stats"
)

const (
	colorReset          = "\x1b[0m"
	swatch              = "■"
	columnGap           = 2
	terminalWidthBackup = 80
)

// RenderOptions controls terminal output of a comparison.
type RenderOptions struct {
	Color bool
	// Width is the line budget; series columns wrap into further blocks past it. Zero means
	// unlimited.
	Width int
}

// TerminalOptions detects color support and width for w.
func TerminalOptions(w io.Writer, forceColor bool) RenderOptions {
	return RenderOptions{Color: shouldUseColor(w, forceColor), Width: terminalWidth(w)}
}

// RenderTable prints the active series as month rows followed by a legend.
func RenderTable(w io.Writer, c *Comparator, projection Projection, opts RenderOptions) error {
	active := c.Active()
	if len(active) == 0 {
		_, err := fmt.Fprintln(w, "No series selected.")
		return err
	}
	if _, err := fmt.Fprintln(w, title(c, projection)); err != nil {
		return err
	}

	rows := c.Table(projection)
	cells := make([][]string, len(active))
	widths := make([]int, len(active))
	for j, s := range active {
		cells[j] = make([]string, len(rows))
		widths[j] = runewidth.StringWidth(s.ID)
		for i, row := range rows {
			cells[j][i] = stats.FormatCount(row.Values[s.ID])
			if cw := runewidth.StringWidth(cells[j][i]); cw > widths[j] {
				widths[j] = cw
			}
		}
	}

	for start, block := 0, 0; start < len(active); block++ {
		end := blockEnd(widths, start, opts.Width)
		if block > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		headers := []string{"Month"}
		right := map[int]bool{}
		for j := start; j < end; j++ {
			headers = append(headers, active[j].ID)
			right[len(headers)-1] = true
		}
		tableRows := make([][]string, len(rows))
		for i, row := range rows {
			line := []string{model.MonthNames[row.Month]}
			for j := start; j < end; j++ {
				line = append(line, cells[j][i])
			}
			tableRows[i] = line
		}
		for _, line := range stats.FormatTable(headers, tableRows, right) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		start = end
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return renderLegend(w, active, opts.Color)
}

func title(c *Comparator, projection Projection) string {
	view := "monthly"
	if projection == Cumulative && c.Mode() == CrossAirport {
		view = "cumulative"
	}
	if c.Mode() == Historical {
		return fmt.Sprintf("Historical comparison %s (%s)", c.Subject(), view)
	}
	return fmt.Sprintf("Airport comparison (%s)", view)
}

// blockEnd returns the end of the column block starting at start. Each block holds at least
// one series.
func blockEnd(widths []int, start, budget int) int {
	if budget <= 0 {
		return len(widths)
	}
	used := len("Month")
	end := start
	for end < len(widths) {
		next := used + columnGap + widths[end]
		if next > budget && end > start {
			break
		}
		used = next
		end++
	}
	return end
}

func renderLegend(w io.Writer, active []model.ChartSeries, color bool) error {
	rows := make([][]string, 0, len(active))
	for _, s := range active {
		rows = append(rows, []string{
			swatch + " " + s.ID,
			s.Color.Name,
			"total " + stats.FormatPassengers(s.Total),
			"peak " + stats.FormatPassengers(s.Peak),
		})
	}
	for i, line := range stats.FormatTable(nil, rows, nil) {
		if color {
			line = ansiForeground(active[i].Color.Hex) + swatch + colorReset + strings.TrimPrefix(line, swatch)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func ansiForeground(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return ""
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", v>>16&0xff, v>>8&0xff, v&0xff)
}

func terminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
