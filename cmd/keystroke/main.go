// Package main provides the CLI entrypoint for keystroke.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/keystroke/internal/config"
	"github.com/verte-zerg/keystroke/internal/i18n"
	"github.com/verte-zerg/keystroke/internal/logging"
	"github.com/verte-zerg/keystroke/internal/model"
	"github.com/verte-zerg/keystroke/internal/stats"
	"github.com/verte-zerg/keystroke/internal/store"
	"github.com/verte-zerg/keystroke/internal/texts"
	"github.com/verte-zerg/keystroke/internal/tui"
)

const (
	defaultPollMs    = 200
	summaryPlotLines = 10
)

var (
	configPath   string
	dbPath       string
	locale       string
	textsDir     string
	pollInterval time.Duration
	theme        string
	bell         bool
	showErrors   bool
	showHistory  bool
	logFile      string
	logLevel     string
	exportDir    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "keystroke",
		Short:         "Typing practice with live speed and accuracy stats",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	defaults := config.Defaults()
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "preferences database path")

	rootCmd.Flags().StringVar(&locale, "locale", defaults.Locale, "locale for texts and messages")
	rootCmd.Flags().StringVar(&textsDir, "texts-dir", defaults.TextsDir, "directory with <locale>.txt text pools")
	rootCmd.Flags().DurationVar(&pollInterval, "poll-interval", defaults.PollInterval, "live stats refresh interval")
	rootCmd.Flags().StringVar(&theme, "theme", defaults.Theme, "color theme (dark or light)")
	rootCmd.Flags().BoolVar(&bell, "bell", defaults.Bell, "ring the terminal bell on mistakes")
	rootCmd.Flags().BoolVar(&showErrors, "show-errors", defaults.ShowErrors, "show the errors tab in the report")
	rootCmd.Flags().BoolVar(&showHistory, "show-history", defaults.ShowHistory, "show the keystrokes tab in the report")
	rootCmd.Flags().StringVar(&logFile, "log-file", defaults.LogFile, "diagnostic log file (disabled when empty)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", defaults.LogLevel, "log level: "+strings.Join(logging.Levels, ", "))
	rootCmd.Flags().StringVar(&exportDir, "export-dir", defaults.ExportDir, "directory for CSV exports")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLocalesCmd())
	rootCmd.AddCommand(newPrefsCmd())

	return rootCmd
}

func resolveConfig(cmd *cobra.Command, st *store.Store) (model.Config, error) {
	cfg := config.Defaults()
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg.Apply(&cfg)

	prefs, err := st.LoadPreferences(cmd.Context(), cfg.Preferences)
	if err != nil {
		logErrf("failed to load preferences: %v\n", err)
	} else {
		cfg.Preferences = prefs
	}

	applyFlag(cmd, "locale", &cfg.Locale, locale)
	applyFlag(cmd, "texts-dir", &cfg.TextsDir, textsDir)
	applyFlag(cmd, "poll-interval", &cfg.PollInterval, pollInterval)
	applyFlag(cmd, "theme", &cfg.Theme, theme)
	applyFlag(cmd, "bell", &cfg.Bell, bell)
	applyFlag(cmd, "show-errors", &cfg.ShowErrors, showErrors)
	applyFlag(cmd, "show-history", &cfg.ShowHistory, showHistory)
	applyFlag(cmd, "log-file", &cfg.LogFile, logFile)
	applyFlag(cmd, "log-level", &cfg.LogLevel, logLevel)
	applyFlag(cmd, "export-dir", &cfg.ExportDir, exportDir)

	if err := config.Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	cfg, err := resolveConfig(cmd, st)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closer.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	pool, err := texts.Load(cfg.TextsDir)
	if err != nil {
		return err
	}
	src := texts.NewSource(pool)
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if err := texts.Watch(ctx, cfg.TextsDir, src, logger); err != nil {
		logger.Warn("texts watch disabled", "dir", cfg.TextsDir, "err", err)
	}
	logger.Info("starting", "locale", cfg.Locale, "texts", cfg.TextsDir, "locales", pool.Locales())

	m := tui.NewModel(tui.Options{
		Config: cfg,
		Texts:  src,
		Store:  st,
		Logger: logger,
		Rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	})
	defer m.Close()
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	res := m.Result()
	if !res.Finished {
		return nil
	}
	p := i18n.Printer(res.Locale)
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, p, res.Data.Stats, res.Data.Errors, res.Data.Keystrokes); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if started := res.Data.State.StartedAt; started != nil {
		if err := stats.RenderPace(out, p, res.Data.Keystrokes, *started, 0, summaryPlotLines); err != nil {
			return fmt.Errorf("failed to write pace plot: %w", err)
		}
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
	path := configPath
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
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLocalesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "List locales with texts and translated messages",
		Args:  cobra.NoArgs,
		RunE:  runLocalesCmd,
	}
}

func runLocalesCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.Defaults()
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg.Apply(&cfg)
	pool, err := texts.Load(cfg.TextsDir)
	if err != nil {
		return err
	}

	translated := map[string]bool{}
	for _, code := range i18n.Locales() {
		translated[code] = true
	}
	for _, code := range pool.Locales() {
		line := fmt.Sprintf("%s\t%d texts", code, len(pool.Texts(code)))
		if translated[code] {
			line += "\ttranslated"
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyFlag[T any](cmd *cobra.Command, name string, target *T, value T) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# keystroke configuration
# Uncomment a value to enable it. CLI flags override config values.
# Preferences changed in the app (locale, theme, bell) are stored separately
# and take precedence over this file; see "keystroke prefs".

[practice]
# locale = %q
# texts-dir = %q          # <locale>.txt files, one text per line
# poll-interval-ms = %d

[display]
# theme = "dark"          # dark or light
# bell = false            # Ring the terminal bell on mistakes
# show-errors = true
# show-history = true

[log]
# file = ""               # Diagnostic log; disabled when empty
# level = "info"          # debug, info, warn, error

[export]
# dir = %q
`,
		model.DefaultPreferences().Locale,
		config.DefaultTextsDir(),
		defaultPollMs,
		config.DefaultExportDir(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
