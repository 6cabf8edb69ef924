package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/glamour"
	charmLog "github.com/charmbracelet/log"
	"github.com/evanschultz/kanbo/internal/adapters/server/mcpapi"
	"github.com/evanschultz/kanbo/internal/adapters/storage/sqlite"
	"github.com/evanschultz/kanbo/internal/app"
	"github.com/evanschultz/kanbo/internal/board"
	"github.com/evanschultz/kanbo/internal/config"
	"github.com/evanschultz/kanbo/internal/platform"
	"github.com/evanschultz/kanbo/internal/repl"
	"github.com/evanschultz/kanbo/internal/storage"
	"github.com/evanschultz/kanbo/internal/theme"
	"github.com/evanschultz/kanbo/internal/tui"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// version stores a package-level helper value.
var version = "dev"

//go:embed guide.md
var guideMarkdown string

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
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run runs the requested command flow.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	g := &globalOptions{
		appName: "kanbo",
		devMode: version == "dev",
	}
	if envApp := strings.TrimSpace(os.Getenv("KANBO_APP_NAME")); envApp != "" {
		g.appName = envApp
	}
	if envDev, ok := parseBoolEnv("KANBO_DEV_MODE"); ok {
		g.devMode = envDev
	}

	root := newRootCommand(g)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	return fang.Execute(ctx, root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, "error:", err)
		}),
	)
}

// globalOptions carries root-level flag state shared by every command.
type globalOptions struct {
	configPath string
	dataPath   string
	appName    string
	devMode    bool
	noColor    bool
	width      int
}

// newRootCommand builds the command tree. The bare root runs the
// interactive board session.
func newRootCommand(g *globalOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "kanbo",
		Short: "Personal kanban board for the terminal",
		Long: `kanbo keeps a three-column kanban board (TO DO, IN-PROGRESS, DONE)
in a single JSON file and renders it in your terminal.

Run without arguments for the interactive board session; see
"kanbo guide" for the full manual.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := g.bootstrap(cmd, "repl")
			if err != nil {
				return err
			}
			defer rt.close()

			rt.logger.Info("command flow start", "command", "repl")
			if err := rt.svc.Load(); err != nil {
				rt.logger.Error("command flow failed", "command", "repl", "err", err)
				return fmt.Errorf("load board state: %w", err)
			}
			if err := repl.Run(cmd.Context(), rt.svc, repl.Options{
				Input:     cmd.InOrStdin(),
				Output:    cmd.OutOrStdout(),
				Styles:    rt.styles,
				Width:     rt.width,
				AltScreen: rt.altScreen,
			}); err != nil {
				rt.logger.Error("command flow failed", "command", "repl", "err", err)
				return fmt.Errorf("run board session: %w", err)
			}
			rt.logger.Info("command flow complete", "command", "repl")
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "path to config TOML")
	flags.StringVar(&g.dataPath, "data", "", "path to the tasks JSON file")
	flags.StringVar(&g.appName, "app", g.appName, "application name for config/data path resolution")
	flags.BoolVar(&g.devMode, "dev", g.devMode, "use dev mode paths (<app>-dev)")
	flags.BoolVar(&g.noColor, "no-color", false, "disable styled output")
	flags.IntVar(&g.width, "width", 0, "board render width (0 = detect terminal)")

	root.AddCommand(
		newTUICommand(g),
		newExportCommand(g),
		newImportCommand(g),
		newHistoryCommand(g),
		newGuideCommand(g),
		newMCPCommand(g),
		newPathsCommand(g),
	)
	return root
}

// newTUICommand builds the full-screen board command.
func newTUICommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the full-screen board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := g.bootstrap(cmd, "tui")
			if err != nil {
				return err
			}
			defer rt.close()

			rt.logger.Info("command flow start", "command", "tui")
			if err := rt.svc.Load(); err != nil {
				rt.logger.Error("command flow failed", "command", "tui", "err", err)
				return fmt.Errorf("load board state: %w", err)
			}

			opts := []tui.Option{tui.WithStyles(rt.styles)}
			watcher, err := tui.NewWatcher(rt.dataPath)
			if err != nil {
				rt.logger.Warn("data file watcher unavailable", "tasks_path", rt.dataPath, "err", err)
			} else {
				defer watcher.Close()
				opts = append(opts, tui.WithWatcher(watcher, rt.dataPath))
			}

			rt.logger.Info("starting tui program loop")
			if _, err := programFactory(tui.NewModel(rt.svc, opts...)).Run(); err != nil {
				rt.logger.Error("tui program terminated with error", "err", err)
				return fmt.Errorf("run tui program: %w", err)
			}
			// Quit must persist even when the surrounding context was
			// canceled by the interrupt that ended the program.
			if err := rt.svc.Flush(context.WithoutCancel(cmd.Context())); err != nil {
				rt.logger.Error("command flow failed", "command", "tui", "err", err)
				return fmt.Errorf("persist board state: %w", err)
			}
			rt.logger.Info("command flow complete", "command", "tui")
			return nil
		},
	}
}

// newExportCommand builds the board export command.
func newExportCommand(g *globalOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the board as indented JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := g.bootstrap(cmd, "export")
			if err != nil {
				return err
			}
			defer rt.close()

			rt.logger.Info("command flow start", "command", "export")
			if err := runExport(rt.store, outPath, cmd.OutOrStdout()); err != nil {
				rt.logger.Error("command flow failed", "command", "export", "err", err)
				return fmt.Errorf("run export command: %w", err)
			}
			rt.logger.Info("command flow complete", "command", "export")
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	return cmd
}

// newImportCommand builds the board import command.
func newImportCommand(g *globalOptions) *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the board from an exported JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if inPath == "" {
				return fmt.Errorf("--in is required")
			}
			rt, err := g.bootstrap(cmd, "import")
			if err != nil {
				return err
			}
			defer rt.close()

			rt.logger.Info("command flow start", "command", "import")
			if err := runImport(rt.store, inPath); err != nil {
				rt.logger.Error("command flow failed", "command", "import", "err", err)
				return fmt.Errorf("run import command: %w", err)
			}
			rt.logger.Info("command flow complete", "command", "import")
			return nil
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "input tasks JSON file")
	return cmd
}

// newHistoryCommand builds the archived-task listing command.
func newHistoryCommand(g *globalOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived done tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := g.bootstrap(cmd, "history")
			if err != nil {
				return err
			}
			defer rt.close()

			rt.logger.Info("command flow start", "command", "history")
			if err := runHistory(cmd.Context(), rt.repo, limit, cmd.OutOrStdout()); err != nil {
				rt.logger.Error("command flow failed", "command", "history", "err", err)
				return fmt.Errorf("run history command: %w", err)
			}
			rt.logger.Info("command flow complete", "command", "history")
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to print (0 = all)")
	return cmd
}

// newGuideCommand builds the rendered user-guide command.
func newGuideCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Show the user guide",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stdout := cmd.OutOrStdout()
			style := glamour.WithAutoStyle()
			if g.noColor || !isTerminal(stdout) {
				style = glamour.WithStandardStyle("notty")
			}
			renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
			if err != nil {
				return fmt.Errorf("build guide renderer: %w", err)
			}
			rendered, err := renderer.Render(guideMarkdown)
			if err != nil {
				return fmt.Errorf("render guide: %w", err)
			}
			_, _ = fmt.Fprint(stdout, rendered)
			return nil
		},
	}
}

// newMCPCommand builds the stdio MCP server command.
func newMCPCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the board to MCP clients over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := g.bootstrap(cmd, "mcp")
			if err != nil {
				return err
			}
			defer rt.close()

			rt.logger.Info("command flow start", "command", "mcp")
			if err := rt.svc.Load(); err != nil {
				rt.logger.Error("command flow failed", "command", "mcp", "err", err)
				return fmt.Errorf("load board state: %w", err)
			}
			srv, err := mcpapi.NewServer(mcpapi.Config{
				ServerName:    g.appName,
				ServerVersion: version,
			}, rt.svc)
			if err != nil {
				rt.logger.Error("command flow failed", "command", "mcp", "err", err)
				return fmt.Errorf("build mcp server: %w", err)
			}
			rt.logger.Info("serving mcp over stdio", "server", g.appName, "version", version)
			if err := mcpapi.Listen(cmd.Context(), srv, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				rt.logger.Error("command flow failed", "command", "mcp", "err", err)
				return fmt.Errorf("serve mcp: %w", err)
			}
			rt.logger.Info("command flow complete", "command", "mcp")
			return nil
		},
	}
}

// newPathsCommand builds the resolved-locations command.
func newPathsCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Show resolved config and data locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := platform.DefaultPathsWithOptions(platform.Options{
				AppName: g.appName,
				DevMode: g.devMode,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", g.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", g.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", paths.ConfigPath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "tasks: %s\n", paths.TasksPath)
			_, _ = fmt.Fprintf(out, "archive: %s\n", paths.ArchivePath)
			return nil
		},
	}
}

// runtime bundles the collaborators a resolved command works with.
type runtime struct {
	logger      *runtimeLogger
	stderr      io.Writer
	dataPath    string
	archivePath string
	store       *storage.Store
	repo        *sqlite.Repository
	svc         *app.Service
	styles      theme.Styles
	width       func() int
	altScreen   bool
}

// close releases the archive handle and the log sinks.
func (rt *runtime) close() {
	if rt.repo != nil {
		if err := rt.repo.Close(); err != nil {
			rt.logger.Warn("archive close failed", "archive_path", rt.archivePath, "err", err)
		}
	}
	if err := rt.logger.Close(); err != nil && rt.logger.shouldLogToSink(rt.logger.consoleSink) {
		// Keep shutdown quiet on the terminal when console logging is intentionally muted.
		_, _ = fmt.Fprintf(rt.stderr, "warning: close runtime log sink: %v\n", err)
	}
}

// bootstrap resolves configuration and wires the collaborators one
// command invocation needs. Callers own the returned runtime.
func (g *globalOptions) bootstrap(cmd *cobra.Command, command string) (*runtime, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: g.appName,
		DevMode: g.devMode,
	})
	if err != nil {
		return nil, err
	}

	configPath := g.configPath
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("KANBO_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}

	dataPath := strings.TrimSpace(g.dataPath)
	dataOverridden := dataPath != ""
	if !dataOverridden {
		if envPath := strings.TrimSpace(os.Getenv("KANBO_DATA_PATH")); envPath != "" {
			dataPath = envPath
			dataOverridden = true
		}
	}

	defaultCfg := config.Default(paths.TasksPath)
	cfg, err := config.Load(configPath, defaultCfg)
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dataOverridden {
		cfg.Data.Path = dataPath
	}
	dataPath = cfg.Data.Path

	archivePath := strings.TrimSpace(cfg.Archive.Path)
	if archivePath == "" {
		archivePath = filepath.Join(filepath.Dir(dataPath), "archive.db")
	}

	stderr := cmd.ErrOrStderr()
	logger, err := newRuntimeLogger(stderr, g.appName, g.devMode, cfg.Logging, shortSessionID(), time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "repl" || command == "tui" {
		// Keep the board surface clean: runtime logs stay in the dev-file sink while the terminal shows the board.
		logger.SetConsoleEnabled(false)
	}

	logger.Info("startup configuration resolved", "app", g.appName, "dev_mode", g.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "tasks_path", dataPath)
	logger.Info("configuration loaded", "config_path", configPath, "tasks_path", dataPath, "log_level", cfg.Logging.Level)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	rt := &runtime{
		logger:      logger,
		stderr:      stderr,
		dataPath:    dataPath,
		archivePath: archivePath,
		store:       storage.NewStore(dataPath),
	}

	var archive app.Archive
	if cfg.Archive.Enabled {
		logger.Info("opening archive repository", "archive_path", archivePath)
		repo, err := sqlite.Open(archivePath)
		if err != nil {
			logger.Error("archive open failed", "archive_path", archivePath, "err", err)
			_ = logger.Close()
			return nil, fmt.Errorf("open archive repository: %w", err)
		}
		rt.repo = repo
		archive = repo
		logger.Info("archive repository ready", "archive_path", archivePath, "migrations", "ensured")
	}

	rt.svc = app.NewService(rt.store, archive, nil, app.ServiceConfig{
		PruneMaxAge: time.Duration(cfg.Prune.MaxDoneAgeDays) * 24 * time.Hour,
	})
	logger.Debug("application service initialized", "prune_max_age_days", cfg.Prune.MaxDoneAgeDays, "archive_enabled", cfg.Archive.Enabled)

	stdout := cmd.OutOrStdout()
	profile := termenv.Ascii
	if !g.noColor {
		profile = theme.DetectProfile(os.Getenv, isTerminal(stdout))
	}
	palette := theme.ResolvePalette(os.Getenv, theme.LoadDotEnv(filepath.Join(filepath.Dir(dataPath), ".env")), theme.Overrides{
		Primary:    cfg.Theme.Primary,
		Todo:       cfg.Theme.Todo,
		InProgress: cfg.Theme.InProgress,
		Done:       cfg.Theme.Done,
	})
	rt.styles = theme.NewStyles(palette, profile)
	rt.width = resolveWidth(g.width, cfg.Board.Width, stdout)
	rt.altScreen = resolveAltScreen(cfg.REPL.AltScreen)

	return rt, nil
}

// runExport runs the requested command flow.
func runExport(store *storage.Store, outPath string, stdout io.Writer) error {
	state, err := store.Load()
	if err != nil {
		return err
	}
	encoded, err := storage.Encode(state)
	if err != nil {
		return err
	}
	encoded = append(encoded, '\n')

	if outPath == "-" {
		if _, err := stdout.Write(encoded); err != nil {
			return fmt.Errorf("write board to stdout: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create export output dir: %w", err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// runImport runs the requested command flow.
func runImport(store *storage.Store, inPath string) error {
	content, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	state, err := storage.Decode(content)
	if err != nil {
		return err
	}

	// Round-trip through the board so column membership and ordering
	// are normalized before the file is replaced.
	b := board.New()
	b.Load(state)
	return store.Save(b.ExportState())
}

// runHistory runs the requested command flow.
func runHistory(ctx context.Context, repo *sqlite.Repository, limit int, stdout io.Writer) error {
	if repo == nil {
		return errors.New("archive is disabled in config")
	}
	items, err := repo.List(ctx, limit)
	if err != nil {
		return fmt.Errorf("list archived tasks: %w", err)
	}
	if len(items) == 0 {
		_, _ = fmt.Fprintln(stdout, "Archive is empty.")
		return nil
	}
	for _, item := range items {
		line := fmt.Sprintf("#%d %s", item.TaskID, item.Title)
		if item.CompletedAt != nil {
			line += fmt.Sprintf("  completed %s", item.CompletedAt.UTC().Format("2006-01-02"))
		}
		line += fmt.Sprintf("  archived %s", item.ArchivedAt.UTC().Format("2006-01-02"))
		_, _ = fmt.Fprintln(stdout, line)
	}
	return nil
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// resolveWidth orders board width sources: flag, environment, config,
// then the live terminal size. Zero falls through to the renderer
// default.
func resolveWidth(flagWidth, cfgWidth int, stdout io.Writer) func() int {
	if flagWidth > 0 {
		return func() int { return flagWidth }
	}
	if raw := strings.TrimSpace(os.Getenv("KANBO_WIDTH")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return func() int { return v }
		}
	}
	if cfgWidth > 0 {
		return func() int { return cfgWidth }
	}
	return func() int { return terminalWidth(stdout) }
}

// resolveAltScreen lets the environment override the config toggle.
func resolveAltScreen(cfgValue bool) bool {
	raw, ok := os.LookupEnv("KANBO_ALT_SCREEN")
	if !ok {
		return cfgValue
	}
	return !isFalsyEnv(raw)
}

// isFalsyEnv reports whether an environment value spells "off".
func isFalsyEnv(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "no", "off":
		return true
	default:
		return false
	}
}

// shortSessionID derives a compact per-run identifier for log
// correlation across sinks.
func shortSessionID() string {
	return uuid.NewString()[:8]
}

// isTerminal reports whether the writer is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// terminalWidth reports the current stdout width, or zero when stdout
// is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 0
	}
	return width
}

// runtimeLogger fans log events to a styled console sink and an optional dev-file sink.
type runtimeLogger struct {
	sinks          []*charmLog.Logger
	consoleSink    *charmLog.Logger
	consoleEnabled bool
	closeFile      func() error
	devLog         string
}

// newRuntimeLogger configures runtime log sinks from CLI/config state.
func newRuntimeLogger(stderr io.Writer, appName string, devMode bool, cfg config.LoggingConfig, session string, now func() time.Time) (*runtimeLogger, error) {
	level, err := charmLog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}

	if now == nil {
		now = time.Now
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
	if session != "" {
		consoleLogger = consoleLogger.With("session", session)
	}

	logger := &runtimeLogger{
		sinks:          []*charmLog.Logger{consoleLogger},
		consoleSink:    consoleLogger,
		consoleEnabled: true,
	}
	if !devMode || !cfg.DevFile.Enabled {
		return logger, nil
	}

	devLogPath, err := devLogFilePath(cfg.DevFile.Dir, appName, now().UTC())
	if err != nil {
		return nil, fmt.Errorf("resolve dev log file path: %w", err)
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
	if session != "" {
		fileLogger = fileLogger.With("session", session)
	}
	logger.sinks = append(logger.sinks, fileLogger)
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
	if l == nil {
		return false
	}
	if sink == nil {
		return false
	}
	if sink == l.consoleSink && !l.consoleEnabled {
		return false
	}
	return true
}

// Debug logs a debug event to all configured sinks.
func (l *runtimeLogger) Debug(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if !l.shouldLogToSink(sink) {
			continue
		}
		sink.Debug(msg, keyvals...)
	}
}

// Info logs an informational event to all configured sinks.
func (l *runtimeLogger) Info(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if !l.shouldLogToSink(sink) {
			continue
		}
		sink.Info(msg, keyvals...)
	}
}

// Warn logs a warning event to all configured sinks.
func (l *runtimeLogger) Warn(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if !l.shouldLogToSink(sink) {
			continue
		}
		sink.Warn(msg, keyvals...)
	}
}

// Error logs an error event to all configured sinks.
func (l *runtimeLogger) Error(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if !l.shouldLogToSink(sink) {
			continue
		}
		sink.Error(msg, keyvals...)
	}
}

// devLogFilePath resolves a workspace-local dev log file path for the current run day.
func devLogFilePath(configDir, appName string, now time.Time) (string, error) {
	baseDir := strings.TrimSpace(configDir)
	if baseDir == "" {
		baseDir = ".kanbo/log"
	}
	if !filepath.IsAbs(baseDir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working dir: %w", err)
		}
		baseDir = filepath.Join(workspaceRootFrom(cwd), baseDir)
	}
	fileStem := sanitizeLogFileStem(appName)
	fileName := fmt.Sprintf("%s-%s.log", fileStem, now.Format("20060102"))
	return filepath.Join(filepath.Clean(baseDir), fileName), nil
}

// workspaceRootFrom resolves the nearest ancestor workspace marker for stable local log placement.
func workspaceRootFrom(start string) string {
	start = filepath.Clean(strings.TrimSpace(start))
	if start == "" {
		return "."
	}
	dir := start
	for {
		if hasWorkspaceMarker(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

// hasWorkspaceMarker reports whether a directory looks like a project workspace root.
func hasWorkspaceMarker(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return true
	}
	return false
}

// sanitizeLogFileStem normalizes app names into safe file-name segments.
func sanitizeLogFileStem(appName string) string {
	stem := strings.TrimSpace(appName)
	if stem == "" {
		return "kanbo"
	}
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-")
	stem = strings.Trim(replacer.Replace(stem), "-")
	if stem == "" {
		return "kanbo"
	}
	return stem
}
