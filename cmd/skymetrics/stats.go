package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skymetrics/skymetrics/internal/importer"
	"github.com/skymetrics/skymetrics/internal/model"
	"github.com/skymetrics/skymetrics/internal/stats"
)

var (
	statsShowCSV   bool
	statsShowFlags bool
	statsName    string
	statsMonths  []string
	statsFile    string
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show and edit monthly statistics",
	}

	show := &cobra.Command{
		Use:   "show CODE",
		Short: "Show the monthly breakdown for a year",
		Args:  cobra.ExactArgs(1),
		RunE:  runStatsShowCmd,
	}
	show.Flags().BoolVar(&statsShowCSV, "csv", false, "print in import format for editing")
	show.Flags().BoolVar(&statsShowFlags, "flags", false, "print as a stats save command for editing")
	show.MarkFlagsMutuallyExclusive("csv", "flags")

	save := &cobra.Command{
		Use:   "save CODE",
		Short: "Save manually entered figures",
		Example: "  skymetrics stats save KIX --name Kansai --year 2025 \\\n" +
			"    --month jan=2100000/1900000 --month feb=/1800000",
		Args: cobra.ExactArgs(1),
		RunE: runStatsSaveCmd,
	}
	save.Flags().StringVar(&statsName, "name", "", "airport name (required for new airports)")
	save.Flags().StringArrayVar(&statsMonths, "month", nil, "MONTH=CURRENT[/COMPARISON], repeatable")

	imp := &cobra.Command{
		Use:   "import CODE",
		Short: "Save figures from a CSV file (month,passengers,comparison)",
		Args:  cobra.ExactArgs(1),
		RunE:  runStatsImportCmd,
	}
	imp.Flags().StringVar(&statsName, "name", "", "airport name (required for new airports)")
	imp.Flags().StringVar(&statsFile, "file", "", "CSV file")
	_ = imp.MarkFlagRequired("file")

	del := &cobra.Command{
		Use:   "delete CODE",
		Short: "Delete the stored record for a year",
		Args:  cobra.ExactArgs(1),
		RunE:  runStatsDeleteCmd,
	}

	cmd.AddCommand(show, save, imp, del)
	return cmd
}

func runStatsShowCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	code := model.NormalizeCode(args[0])
	res := a.session.Resolve(commandContext(cmd), code, a.cfg.Year)
	if res.Kind == model.ResolutionFailed {
		return fmt.Errorf("failed to load %s %d: %w", code, a.cfg.Year, res.Err)
	}
	data, _ := res.Statistics()
	if (statsShowCSV || statsShowFlags) && data == nil {
		return fmt.Errorf("no data for %s %d", code, a.cfg.Year)
	}
	switch {
	case statsShowCSV:
		return importer.WriteCSV(cmd.OutOrStdout(), a.cfg.Year, data)
	case statsShowFlags:
		return writeLines(cmd, []string{saveCommand(code, a.cfg.Year, data)})
	}
	if err := stats.RenderYearSummary(cmd.OutOrStdout(), code, a.cfg.Year, data, a.cfg.Rounding); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if data == nil {
		return nil
	}
	lines := []string{fmt.Sprintf("State: %s", res.Kind)}
	if res.Kind == model.ResolutionCached {
		if at, ok := a.session.SavedAt(commandContext(cmd), code, a.cfg.Year); ok {
			lines = append(lines, "Saved: "+at.Local().Format("2006-01-02 15:04:05"))
		}
	}
	return writeLines(cmd, lines)
}

// saveCommand renders data as the stats save invocation that reproduces it.
func saveCommand(code string, year int, data *model.MonthlyStatistics) string {
	parts := []string{"skymetrics stats save", code, "--year", strconv.Itoa(year)}
	for _, e := range importer.Entries(data) {
		parts = append(parts, "--month", importer.FormatEntry(e))
	}
	return strings.Join(parts, " ")
}

func runStatsSaveCmd(cmd *cobra.Command, args []string) error {
	entries := make([]importer.Entry, 0, len(statsMonths))
	for _, raw := range statsMonths {
		e, err := importer.ParseFlag(raw)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}
	return saveEntries(cmd, args[0], entries)
}

func runStatsImportCmd(cmd *cobra.Command, args []string) error {
	entries, err := importer.LoadFile(statsFile)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", statsFile, err)
	}
	return saveEntries(cmd, args[0], entries)
}

func saveEntries(cmd *cobra.Command, code string, entries []importer.Entry) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	name := strings.TrimSpace(statsName)
	if name == "" {
		if ap, ok := a.session.Catalog().Lookup(code); ok {
			name = ap.Name
		}
	}
	if name == "" {
		return fmt.Errorf("--name is required for a new airport")
	}
	data, err := importer.Build(code, name, a.cfg.Year, entries)
	if err != nil {
		return err
	}
	if err := a.session.SaveStatistics(commandContext(cmd), code, name, a.cfg.Year, data); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), data.Summary); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runStatsDeleteCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	code := model.NormalizeCode(args[0])
	if err := a.session.DeleteStatistics(commandContext(cmd), code, a.cfg.Year); err != nil {
		return err
	}
	return writeLines(cmd, []string{fmt.Sprintf("Deleted stored data for %s %d.", code, a.cfg.Year)})
}
