package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/codegym-software/imeetcal/internal/api"
	"github.com/codegym-software/imeetcal/internal/config"
	"github.com/codegym-software/imeetcal/internal/ui"
)

var (
	cfgFile   string
	serverURL string
	cfg       *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "imeetcal",
	Short: "A terminal calendar client for the iMeet meeting service",
	Long: `Imeetcal is a terminal calendar client for the iMeet meeting service.
It shows your meetings in day, week, month and year views and lets you
book and cancel meetings without leaving the terminal.`,
	RunE: runTUI,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file to use (default: $XDG_CONFIG_HOME/imeetcal/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Meeting server base URL (overrides config)")
}

func initConfig() {
	var err error
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
}

// newLogger sends diagnostics to the configured log file. The TUI owns the
// terminal, so stderr is not an option while it runs.
func newLogger() (*log.Logger, func(), error) {
	if cfg.LogFile == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return log.New(f, "imeetcal ", log.LstdFlags), func() { f.Close() }, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := api.NewClient(cfg.ServerURL)
	if err != nil {
		return fmt.Errorf("setting up API client: %w", err)
	}

	model := ui.NewModel(cfg, client, client, logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())

	// Reload settings when the config file changes on disk.
	if cfg.Path != "" {
		watcher, err := config.NewWatcher(cfg.Path, func(string) {
			p.Send(ui.ConfigChangedMsg{})
		})
		if err != nil {
			logger.Printf("config watcher unavailable: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}
