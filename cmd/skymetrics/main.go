// Package main provides the CLI entrypoint for skymetrics.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skymetrics/skymetrics/internal/catalog"
	"github.com/skymetrics/skymetrics/internal/config"
	"github.com/skymetrics/skymetrics/internal/dashboard"
	"github.com/skymetrics/skymetrics/internal/dataset"
	"github.com/skymetrics/skymetrics/internal/logging"
	"github.com/skymetrics/skymetrics/internal/model"
	"github.com/skymetrics/skymetrics/internal/persist"
	"github.com/skymetrics/skymetrics/internal/session"
	"github.com/skymetrics/skymetrics/internal/store"
)

const (
	defaultYear     = dataset.DemoYear
	defaultRounding = string(model.RoundExact)
	defaultLogLevel = "info"
)

var (
	globalYear      int
	globalDBPath    string
	globalPrefix    string
	globalEphemeral bool
	globalLogLevel  string
	globalLogFile   string
	globalRounding  string

	dashboardMonth      int
	dashboardCumulative bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "skymetrics",
		Short:         "Airport passenger statistics dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDashboardCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&globalYear, "year", defaultYear, "statistics year")
	flags.StringVar(&globalDBPath, "db", "", "database path (default: XDG data dir)")
	flags.StringVar(&globalPrefix, "prefix", persist.DefaultPrefix, "storage key prefix")
	flags.BoolVar(&globalEphemeral, "ephemeral", false, "keep data in memory only")
	flags.StringVar(&globalLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&globalLogFile, "log-file", "", "log file, - for stderr (default: XDG data dir)")
	flags.StringVar(&globalRounding, "rounding", defaultRounding, "growth amount rounding (exact, thousand)")

	rootCmd.Flags().IntVar(&dashboardMonth, "month", 0, "ranking month 1-12 (default: latest with data)")
	rootCmd.Flags().BoolVar(&dashboardCumulative, "cumulative", false, "start comparisons in cumulative view")

	rootCmd.AddCommand(newAirportsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newRankCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newRefreshCmd())
	rootCmd.AddCommand(newThemeCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// app holds everything a command needs for one run.
type app struct {
	cfg     model.DashboardConfig
	store   *store.Store
	session *session.Session
	logger  *zap.Logger
}

func openApp(cmd *cobra.Command) (*app, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "year", &globalYear, fileCfg.Dashboard.Year)
	applyStringConfig(cmd, "rounding", &globalRounding, fileCfg.Dashboard.AmountRounding)
	applyStringConfig(cmd, "db", &globalDBPath, fileCfg.Storage.Path)
	applyStringConfig(cmd, "prefix", &globalPrefix, fileCfg.Storage.Prefix)
	applyStringConfig(cmd, "log-level", &globalLogLevel, fileCfg.Logging.Level)
	applyStringConfig(cmd, "log-file", &globalLogFile, fileCfg.Logging.File)
	if cmd.Flags().Lookup("month") != nil {
		applyIntConfig(cmd, "month", &dashboardMonth, fileCfg.Dashboard.Month)
	}
	if cmd.Flags().Lookup("cumulative") != nil {
		applyBoolConfig(cmd, "cumulative", &dashboardCumulative, fileCfg.Dashboard.Cumulative)
	}

	cfg := model.DashboardConfig{
		Year:       globalYear,
		Month:      dashboardMonth - 1,
		Rounding:   model.RoundingPolicy(strings.ToLower(strings.TrimSpace(globalRounding))),
		Cumulative: dashboardCumulative,
		Prefix:     globalPrefix,
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	logFile := globalLogFile
	if logFile == "" {
		logFile = config.DefaultLogPath()
	}
	logger, err := logging.New(logging.Config{Level: globalLogLevel, File: logFile})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	var kv persist.KV
	if globalEphemeral {
		kv = persist.NewMemoryKV()
	} else {
		dbPath := globalDBPath
		if dbPath == "" {
			dbPath = config.DefaultDBPath()
		}
		st, err := store.Open(dbPath)
		if err != nil {
			_ = logger.Sync()
			return nil, fmt.Errorf("failed to open db: %w", err)
		}
		a.store = st
		kv = st
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	p := persist.New(kv, cfg.Prefix, logger)
	cat := catalog.New(dataset.DefaultAirports(), p.LoadCustomCatalog(ctx), p)
	a.session = session.New(cat, p, dataset.Demo{}, cfg.Year, logger)
	logger.Debug("session ready",
		zap.Int("year", cfg.Year),
		zap.Bool("ephemeral", globalEphemeral),
		zap.Int("airports", len(cat.ListAll())),
	)
	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		if cerr := a.store.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
	_ = a.logger.Sync()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	m := dashboard.NewModel(commandContext(cmd), a.session, a.cfg, a.logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# skymetrics configuration
# Uncomment a value to enable it. CLI flags override config values.

[dashboard]
# year = %d                  # Statistics year
# month = 0                    # Ranking month 1-12, 0 selects the latest month with data
# amount-rounding = %q     # Growth amounts: "exact" or "thousand"
# cumulative = false           # Start comparisons in cumulative view

[storage]
# path = %q
# prefix = %q       # Key prefix for stored records

[logging]
# level = %q                # debug, info, warn, error
# file = %q
`,
		defaultYear,
		defaultRounding,
		config.DefaultDBPath(),
		persist.DefaultPrefix,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.DashboardConfig) error {
	if cfg.Year < 1 || cfg.Year > 9999 {
		return fmt.Errorf("--year must be between 1 and 9999")
	}
	if cfg.Month < -1 || cfg.Month >= model.MonthsPerYear {
		return fmt.Errorf("--month must be between 1 and 12 (0 for latest)")
	}
	if cfg.Rounding != model.RoundExact && cfg.Rounding != model.RoundThousand {
		return fmt.Errorf("--rounding must be exact or thousand")
	}
	if strings.TrimSpace(cfg.Prefix) == "" {
		return fmt.Errorf("--prefix must not be empty")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
