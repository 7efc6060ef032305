package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/csheth/attachpanel/internal/capability"
	"github.com/csheth/attachpanel/internal/config"
	"github.com/csheth/attachpanel/internal/launcher"
	"github.com/csheth/attachpanel/internal/pickers"
	"github.com/csheth/attachpanel/internal/tui"
	"github.com/csheth/attachpanel/internal/usage"
)

var (
	configPath  string
	noAltScreen bool
	logFile     string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "attachpanel",
	Short: "Attach files, captures and app content from a terminal panel",
	Long: `A terminal attach panel. Embedded pickers (gallery, camera, voice,
documents) live on their own pages; other categories open external
applications from the grid page and return their selection.

Examples:
  attachpanel                          # Run with ~/.config/attachpanel/config.yaml
  attachpanel --config panel.yaml      # Use another configuration
  attachpanel categories               # List categories and their availability
  attachpanel usage                    # Show the grid ranking`,
	SilenceUsage: true,
	RunE:         runPanel,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (default $ATTACHPANEL_CONFIG or ~/.config/attachpanel/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openLogger returns a file-backed logger, or a discarding one when no file
// is configured. The terminal belongs to the TUI.
func openLogger() (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q", logLevel)
	}
	if logFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}

func runPanel(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, closeLog, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	categories, err := cfg.CategoryList()
	if err != nil {
		return err
	}
	store, err := usage.Open(cfg.Usage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	model, err := tui.New(tui.Config{
		Categories: categories,
		Pickers:    pickers.NewHost(pickers.Options{Config: cfg.Pickers, Logger: logger}),
		Launcher: launcher.New(cfg.Launchers, launcher.Options{
			ScanDir: cfg.Pickers.DocumentDir,
			Logger:  logger,
		}),
		Authorizer:        capability.New(cfg.Capabilities),
		Ranker:            store,
		OutboxPath:        cfg.Outbox.Path,
		HeightRatio:       cfg.Panel.HeightRatio,
		AnimationDuration: cfg.AnimationDuration(),
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	opts := []tea.ProgramOption{}
	if !noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
