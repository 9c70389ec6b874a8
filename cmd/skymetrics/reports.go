package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skymetrics/skymetrics/internal/compare"
	"github.com/skymetrics/skymetrics/internal/model"
	"github.com/skymetrics/skymetrics/internal/stats"
)

var (
	compareHistory bool
	compareColor   bool
)

func newRankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank airports by passengers for one month",
		Args:  cobra.NoArgs,
		RunE:  runRankCmd,
	}
	cmd.Flags().IntVar(&dashboardMonth, "month", 0, "month 1-12 (default: latest with data)")
	return cmd
}

func runRankCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	a.session.Refresh(commandContext(cmd), a.cfg.Year)
	month, entries := a.session.Ranking(a.cfg.Month)
	return stats.RenderRanking(cmd.OutOrStdout(), a.cfg.Year, month, entries, a.cfg.Rounding)
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Load every airport for the year and print an overview",
		Args:  cobra.NoArgs,
		RunE:  runRefreshCmd,
	}
}

func runRefreshCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	report := a.session.Refresh(commandContext(cmd), a.cfg.Year)
	if err := stats.RenderOverview(cmd.OutOrStdout(), a.session.Report()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	counts := map[model.ResolutionKind]int{}
	for _, res := range report.Results {
		counts[res.Kind]++
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d airports at %s (stored %d, bundled %d, empty %d, failed %d)\n",
		len(report.Results),
		report.CompletedAt.Format("2006-01-02 15:04:05"),
		counts[model.ResolutionCached],
		counts[model.ResolutionResolved],
		counts[model.ResolutionEmpty],
		counts[model.ResolutionFailed],
	)
	return err
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare SERIES...",
		Short: "Compare airports (CODE or CODE:YEAR) or, with --history, years of one airport",
		Example: "  skymetrics compare HKG TPE SIN:2023 --cumulative\n" +
			"  skymetrics compare --history HKG 2023 2024",
		Args: cobra.MinimumNArgs(1),
		RunE: runCompareCmd,
	}
	cmd.Flags().BoolVar(&compareHistory, "history", false, "compare years of a single airport")
	cmd.Flags().BoolVar(&dashboardCumulative, "cumulative", false, "show running totals (airport comparison only)")
	cmd.Flags().BoolVar(&compareColor, "color", false, "force colored legend")
	return cmd
}

func runCompareCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	mode := compare.CrossAirport
	if compareHistory {
		mode = compare.Historical
	}
	c := compare.New(mode, a.session, nil)
	c.SetTargetYear(a.cfg.Year)

	selectors, err := compareSelectors(args, mode)
	if err != nil {
		return err
	}
	if mode == compare.Historical {
		c.SetSubjectAirport(args[0])
	}
	for _, sel := range selectors {
		if sel.Year == 0 {
			sel.Year = a.cfg.Year
		}
		if _, err := c.AddSeries(ctx, sel); err != nil {
			if _, werr := fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", c.SeriesID(sel), err); werr != nil {
				return fmt.Errorf("failed to write output: %w", werr)
			}
		}
	}
	if len(c.Active()) == 0 {
		return fmt.Errorf("no series with data")
	}

	projection := compare.Monthly
	if a.cfg.Cumulative {
		projection = compare.Cumulative
	}
	return compare.RenderTable(cmd.OutOrStdout(), c, projection, compare.TerminalOptions(cmd.OutOrStdout(), compareColor))
}

// compareSelectors parses CODE[:YEAR] arguments, or CODE YEAR... in historical mode.
func compareSelectors(args []string, mode compare.Mode) ([]compare.Selector, error) {
	if mode == compare.Historical {
		if len(args) < 2 {
			return nil, fmt.Errorf("--history needs an airport and at least one year")
		}
		code := model.NormalizeCode(args[0])
		out := make([]compare.Selector, 0, len(args)-1)
		for _, raw := range args[1:] {
			year, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid year %q", raw)
			}
			out = append(out, compare.Selector{Code: code, Year: year})
		}
		return out, nil
	}
	out := make([]compare.Selector, 0, len(args))
	for _, raw := range args {
		code, yearPart, hasYear := strings.Cut(raw, ":")
		sel := compare.Selector{Code: model.NormalizeCode(code)}
		if hasYear {
			year, err := strconv.Atoi(yearPart)
			if err != nil {
				return nil, fmt.Errorf("invalid year in %q", raw)
			}
			sel.Year = year
		}
		out = append(out, sel)
	}
	return out, nil
}
