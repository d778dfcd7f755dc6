// Package main is the imsdash CLI entry point: a terminal dashboard for an
// interview-management tool backed by a public mock REST API. Running the
// bare command opens the interactive dashboard; subcommands offer a headless
// path to the same internals.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"imsdash/cmd/imsdash/ui"
	"imsdash/internal/api"
	"imsdash/internal/config"
	"imsdash/internal/session"
)

var (
	verbose bool
	logger  *zap.Logger
)

var rootCmd *cobra.Command

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "imsdash",
		Short: "imsdash - interview management dashboard for the terminal",
		Long: `imsdash is a role-gated terminal dashboard for an interview-management
tool. Candidates, schedules and feedback come from a public mock REST API;
authentication is simulated and the chosen role is advisory only.

Run without arguments to open the interactive dashboard.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The interactive dashboard owns the terminal; it runs without a
			// console logger.
			if cmd == rootCmd {
				logger = zap.NewNop()
				return nil
			}

			cfg := zap.NewProductionConfig()
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = cfg.Build()
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard()
		},
	}
}

// runtime bundles the pieces both the TUI and the headless subcommands need.
type runtime struct {
	cfg    *config.Config
	client *api.Client
	store  *session.Store
	vault  *session.Persistence
}

// newRuntime loads config, opens the session vault and bootstraps the store
// from any persisted session. A malformed persisted record leaves the store
// logged out without complaint.
func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	stateDir, err := cfg.ResolveStateDir()
	if err != nil {
		return nil, err
	}

	store := session.NewStore()
	vault := session.NewPersistence(stateDir)
	if rec, ok := vault.Load(); ok {
		store.Bootstrap(rec)
	}

	return &runtime{
		cfg:    cfg,
		client: api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger),
		store:  store,
		vault:  vault,
	}, nil
}

func runDashboard() error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	app := &ui.App{
		Config: rt.cfg,
		Logger: logger,
		Client: rt.client,
		Store:  rt.store,
		Vault:  rt.vault,
		Styles: ui.NewStyles(ui.ThemeFor(rt.cfg.Theme)),
	}

	program := tea.NewProgram(ui.NewModel(app), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

func init() {
	rootCmd = newRootCmd()
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(candidatesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
