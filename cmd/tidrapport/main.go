package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	charmLog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/hylla/tidrapport/internal/adapters/deck"
	"github.com/hylla/tidrapport/internal/adapters/monday"
	"github.com/hylla/tidrapport/internal/adapters/storage/sqlite"
	"github.com/hylla/tidrapport/internal/allocate"
	"github.com/hylla/tidrapport/internal/app"
	"github.com/hylla/tidrapport/internal/config"
	"github.com/hylla/tidrapport/internal/domain"
	"github.com/hylla/tidrapport/internal/platform"
	"github.com/hylla/tidrapport/internal/tui"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// main handles main.
func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run runs the requested command flow.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	fs := flag.NewFlagSet("tidrapport", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		configPath string
		dbPath     string
		appName    string
		monthFlag  string
		asOfFlag   string
		devMode    bool
		showVer    bool
	)
	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("TIDRAPPORT_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	appName = "tidrapport"
	if envApp := strings.TrimSpace(os.Getenv("TIDRAPPORT_APP_NAME")); envApp != "" {
		appName = envApp
	}
	fs.StringVar(&configPath, "config", "", "path to config TOML")
	fs.StringVar(&dbPath, "db", "", "path to sqlite database")
	fs.StringVar(&appName, "app", appName, "application name for config/data path resolution")
	fs.StringVar(&monthFlag, "month", "", "report month as YYYY-MM (default: current month)")
	fs.StringVar(&asOfFlag, "as-of", "", "completed/remaining cut-off date as YYYY-MM-DD (default: today)")
	fs.BoolVar(&devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")
	fs.BoolVar(&showVer, "version", false, "show version")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showVer {
		_, _ = fmt.Fprintf(stdout, "tidrapport %s\n", version)
		return nil
	}

	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: appName,
		DevMode: devMode,
	})
	if err != nil {
		return err
	}

	command := firstArg(fs.Args())
	switch command {
	case "paths":
		_, _ = fmt.Fprintf(stdout, "app: %s\n", appName)
		_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", devMode)
		_, _ = fmt.Fprintf(stdout, "config: %s\n", paths.ConfigPath)
		_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", paths.DataDir)
		_, _ = fmt.Fprintf(stdout, "db: %s\n", paths.DBPath)
		return nil
	case "", "fetch", "report":
		// Continue.
	default:
		return fmt.Errorf("unknown command: %s", command)
	}

	asOf, err := resolveAsOf(asOfFlag)
	if err != nil {
		return err
	}
	month, err := resolveMonth(monthFlag, asOf)
	if err != nil {
		return err
	}

	dbOverridden := strings.TrimSpace(dbPath) != ""
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("TIDRAPPORT_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	if !dbOverridden {
		if envPath := strings.TrimSpace(os.Getenv("TIDRAPPORT_DB_PATH")); envPath != "" {
			dbPath = envPath
			dbOverridden = true
		} else {
			dbPath = paths.DBPath
		}
	}

	defaultCfg := config.Default(dbPath)
	cfg, err := config.Load(configPath, defaultCfg)
	if err != nil {
		return fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}

	logger, err := newRuntimeLogger(stderr, appName, devMode, cfg.Logging)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "" {
		// Keep TUI rendering clean: runtime logs stay in the dev-file sink while the review is active.
		logger.SetConsoleEnabled(false)
	}
	defer func() {
		if closeErr := logger.Close(); closeErr != nil {
			_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
		}
	}()

	logger.Info("startup configuration resolved", "app", appName, "dev_mode", devMode, "command", command, "month", month.String(), "as_of", asOf.Format("2006-01-02"))
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "db_path", dbPath)

	repo, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		return fmt.Errorf("open sqlite repository: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			logger.Warn("sqlite close failed", "db_path", cfg.Database.Path, "err", closeErr)
		}
	}()
	logger.Info("sqlite repository ready", "db_path", cfg.Database.Path)

	fetcher := buildFetcher(cfg.Monday, logger)

	rules := allocate.Rules{
		FilmingHoursPerDay: cfg.Rules.FilmingHoursPerDay,
		EditingHoursPerDay: cfg.Rules.EditingHoursPerDay,
		MaxHoursPerDay:     cfg.Rules.MaxHoursPerDay,
	}
	svc := app.NewService(fetcher, repo, rules, uuid.NewString, time.Now)
	logger.Debug("application service initialized", "filming_rate", rules.FilmingHoursPerDay, "editing_rate", rules.EditingHoursPerDay, "daily_cap", rules.MaxHoursPerDay)

	switch command {
	case "fetch":
		logger.Info("command flow start", "command", "fetch")
		if err := runFetch(ctx, svc, month, asOf, stdout); err != nil {
			logger.Error("command flow failed", "command", "fetch", "err", err)
			return fmt.Errorf("run fetch command: %w", err)
		}
		logger.Info("command flow complete", "command", "fetch")
		return nil
	case "report":
		logger.Info("command flow start", "command", "report")
		if err := runReport(ctx, svc, cfg.Report, month, fs.Args()[1:], stdout); err != nil {
			logger.Error("command flow failed", "command", "report", "err", err)
			return fmt.Errorf("run report command: %w", err)
		}
		logger.Info("command flow complete", "command", "report")
		return nil
	}

	m := tui.NewModel(svc, month,
		tui.WithAsOf(asOf),
		tui.WithLeadPerson(cfg.Report.LeadPerson),
	)
	logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("command flow complete", "command", "tui")
	return nil
}

// errFetcher surfaces a deferred configuration error on the first fetch, so
// a saved session can still be reviewed without a working token.
type errFetcher struct {
	err error
}

func (f errFetcher) FetchActivities(context.Context) ([]domain.ActivityRecord, error) {
	return nil, f.err
}

// buildFetcher wires the board client, or a fetcher that reports why it
// could not be built.
func buildFetcher(cfg config.MondayConfig, logger *runtimeLogger) app.Fetcher {
	token, err := monday.ResolveToken("", cfg.TokenFile)
	if err != nil {
		logger.Warn("board fetching unavailable", "err", err)
		return errFetcher{err: err}
	}
	client, err := monday.New(monday.Config{
		APIURL:              cfg.APIURL,
		Token:               token,
		BoardID:             cfg.BoardID,
		DepartmentColumn:    cfg.DepartmentColumn,
		DepartmentIndex:     cfg.DepartmentIndex,
		PeopleColumn:        cfg.PeopleColumn,
		FilmingDateColumns:  cfg.FilmingDateColumns,
		EditingRangeColumns: cfg.EditingRangeColumns,
	}, logger.fileSinkOrDiscard())
	if err != nil {
		logger.Warn("board fetching unavailable", "err", err)
		return errFetcher{err: err}
	}
	return client
}

// runFetch runs the requested command flow.
func runFetch(ctx context.Context, svc *app.Service, month domain.Month, asOf time.Time, stdout io.Writer) error {
	session, err := svc.Refresh(ctx, month, asOf)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "fetched %d records for %s\n", len(session.Records), month.Label())
	totals := session.Summary.Totals()
	_, _ = fmt.Fprintf(stdout, "completed %.1fh, remaining %.1fh, total %.1fh\n", totals.Completed, totals.Remaining, totals.Total())
	for _, p := range session.Summary.PersonSummaries() {
		_, _ = fmt.Fprintf(stdout, "  %-24s %6.1fh done %6.1fh left\n", p.Person, p.Completed, p.Remaining)
	}
	return nil
}

// runReport runs the requested command flow.
func runReport(ctx context.Context, svc *app.Service, reportCfg config.ReportConfig, month domain.Month, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("tidrapport report", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		outPath        string
		forecastMonths int
	)
	fs.StringVar(&outPath, "out", "", "output PDF path (default: <output_dir>/time-report-<month>.pdf)")
	fs.IntVar(&forecastMonths, "forecast", reportCfg.ForecastMonths, "number of forecast months to append (0 disables)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse report flags: %w", err)
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected report arguments: %v", fs.Args())
	}

	session, err := svc.Load(ctx)
	if err != nil {
		if errors.Is(err, app.ErrNoData) {
			return fmt.Errorf("no saved session: run `tidrapport fetch` first")
		}
		return err
	}

	var forecast []app.ForecastMonth
	if forecastMonths > 0 {
		forecast, err = svc.Forecast(forecastMonths)
		if err != nil {
			return fmt.Errorf("build forecast: %w", err)
		}
	}

	if outPath == "" {
		dir := strings.TrimSpace(reportCfg.OutputDir)
		if dir == "" {
			dir = "."
		}
		outPath = filepath.Join(dir, deck.FileName(session.Summary.Month))
	}
	if err := deck.Render(deck.Input{
		Summary:     session.Summary,
		GeneratedAt: time.Now(),
		LeadPerson:  reportCfg.LeadPerson,
		Forecast:    forecast,
	}, outPath); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "wrote %s\n", outPath)
	return nil
}

// resolveAsOf parses the cut-off date flag, defaulting to today.
func resolveAsOf(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.DateOnly(time.Now().UTC()), nil
	}
	asOf, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse -as-of: %w", err)
	}
	return asOf, nil
}

// resolveMonth parses the month flag, defaulting to the as-of month.
func resolveMonth(raw string, asOf time.Time) (domain.Month, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.MonthOf(asOf), nil
	}
	month, err := domain.ParseMonth(raw)
	if err != nil {
		return domain.Month{}, fmt.Errorf("parse -month: %w", err)
	}
	return month, nil
}

// firstArg handles first arg.
func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// parseBoolEnv reads one boolean environment toggle.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// runtimeLogger fans log events to a styled console sink and an optional dev-file sink.
type runtimeLogger struct {
	sinks          []*charmLog.Logger
	consoleSink    *charmLog.Logger
	fileSink       *charmLog.Logger
	consoleEnabled bool
	closeFile      func() error
	devLog         string
}

// newRuntimeLogger configures runtime log sinks from CLI/config state.
func newRuntimeLogger(stderr io.Writer, appName string, devMode bool, cfg config.LoggingConfig) (*runtimeLogger, error) {
	levelName := cfg.Level
	if strings.TrimSpace(levelName) == "" {
		levelName = "info"
	}
	level, err := charmLog.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}

	if stderr == nil {
		stderr = io.Discard
	}

	consoleLogger := charmLog.NewWithOptions(stderr, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	})

	logger := &runtimeLogger{
		sinks:          []*charmLog.Logger{consoleLogger},
		consoleSink:    consoleLogger,
		consoleEnabled: true,
	}
	devLogPath := strings.TrimSpace(cfg.DevFile)
	if !devMode || devLogPath == "" {
		return logger, nil
	}

	if err := os.MkdirAll(filepath.Dir(devLogPath), 0o755); err != nil {
		return nil, fmt.Errorf("create dev log dir: %w", err)
	}
	logFile, err := os.OpenFile(devLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open dev log file: %w", err)
	}

	// Keep file output parseable and unstyled while preserving styled console logs.
	fileLogger := charmLog.NewWithOptions(logFile, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	})
	logger.sinks = append(logger.sinks, fileLogger)
	logger.fileSink = fileLogger
	logger.closeFile = logFile.Close
	logger.devLog = devLogPath
	return logger, nil
}

// DevLogPath returns the active dev log file path.
func (l *runtimeLogger) DevLogPath() string {
	if l == nil {
		return ""
	}
	return l.devLog
}

// fileSinkOrDiscard hands adapters a quiet logger when no dev file is open.
func (l *runtimeLogger) fileSinkOrDiscard() *charmLog.Logger {
	if l == nil || l.fileSink == nil {
		return charmLog.New(io.Discard)
	}
	return l.fileSink
}

// Close closes the optional dev-file sink.
func (l *runtimeLogger) Close() error {
	if l == nil || l.closeFile == nil {
		return nil
	}
	return l.closeFile()
}

// SetConsoleEnabled toggles whether the console sink receives runtime events.
func (l *runtimeLogger) SetConsoleEnabled(enabled bool) {
	if l == nil {
		return
	}
	l.consoleEnabled = enabled
}

// shouldLogToSink reports whether one sink should receive runtime output.
func (l *runtimeLogger) shouldLogToSink(sink *charmLog.Logger) bool {
	if l == nil || sink == nil {
		return false
	}
	if sink == l.consoleSink && !l.consoleEnabled {
		return false
	}
	return true
}

// Debug logs a debug event to all configured sinks.
func (l *runtimeLogger) Debug(msg string, keyvals ...any) {
	l.log(func(sink *charmLog.Logger) { sink.Debug(msg, keyvals...) })
}

// Info logs an informational event to all configured sinks.
func (l *runtimeLogger) Info(msg string, keyvals ...any) {
	l.log(func(sink *charmLog.Logger) { sink.Info(msg, keyvals...) })
}

// Warn logs a warning event to all configured sinks.
func (l *runtimeLogger) Warn(msg string, keyvals ...any) {
	l.log(func(sink *charmLog.Logger) { sink.Warn(msg, keyvals...) })
}

// Error logs an error event to all configured sinks.
func (l *runtimeLogger) Error(msg string, keyvals ...any) {
	l.log(func(sink *charmLog.Logger) { sink.Error(msg, keyvals...) })
}

func (l *runtimeLogger) log(emit func(*charmLog.Logger)) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if !l.shouldLogToSink(sink) {
			continue
		}
		emit(sink)
	}
}
