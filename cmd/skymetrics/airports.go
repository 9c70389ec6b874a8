package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skymetrics/skymetrics/internal/session"
	"github.com/skymetrics/skymetrics/internal/stats"
)

func newAirportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "airports",
		Short: "List and manage airports",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List built-in and custom airports",
		Args:  cobra.NoArgs,
		RunE:  runAirportsListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add CODE NAME",
		Short: "Add a custom airport",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runAirportsAddCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove CODE",
		Short: "Remove a custom airport (stored data is kept)",
		Args:  cobra.ExactArgs(1),
		RunE:  runAirportsRemoveCmd,
	})
	return cmd
}

func runAirportsListCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	headers := []string{"Code", "Name", "Type", "Stored years"}
	var rows [][]string
	for _, ap := range a.session.Catalog().ListAll() {
		kind := "built-in"
		if ap.IsCustom {
			kind = "custom"
		}
		years, err := a.session.StoredYears(ctx, ap.Code)
		if err != nil {
			return err
		}
		stored := stats.NoData
		if len(years) > 0 {
			parts := make([]string, len(years))
			for i, y := range years {
				parts[i] = strconv.Itoa(y)
			}
			stored = strings.Join(parts, ",")
		}
		rows = append(rows, []string{ap.Code, ap.Name, kind, stored})
	}
	return writeLines(cmd, stats.FormatTable(headers, rows, nil))
}

func runAirportsAddCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	name := strings.TrimSpace(strings.Join(args[1:], " "))
	added, err := a.session.AddAirport(commandContext(cmd), args[0], name)
	if err != nil {
		return err
	}
	ap, _ := a.session.Catalog().Lookup(args[0])
	if !added {
		return writeLines(cmd, []string{fmt.Sprintf("%s already exists (%s)", ap.Code, ap.Name)})
	}
	return writeLines(cmd, []string{fmt.Sprintf("Added %s (%s)", ap.Code, ap.Name)})
}

func runAirportsRemoveCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.session.RemoveCustomAirport(commandContext(cmd), args[0]); err != nil {
		if errors.Is(err, session.ErrDefaultAirport) {
			logErrln("only custom airports can be removed")
		}
		return err
	}
	return writeLines(cmd, []string{fmt.Sprintf("Removed %s; stored data was kept.", strings.ToUpper(args[0]))})
}

func writeLines(cmd *cobra.Command, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
