package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thinxi/thinxi-admin/internal/config"
	"github.com/thinxi/thinxi-admin/internal/logger"
	"github.com/thinxi/thinxi-admin/internal/store"
)

// settings and log are set by setup before any subcommand runs.
var (
	settings *config.Config
	log      = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "thinxi-admin",
	Short: "Thinxi question bank tooling",
	Long: "thinxi-admin maintains the Thinxi trivia question bank: it generates questions\n" +
		"with a text model, records answers, re-grades difficulty and seeds reward tasks.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

// Execute runs the CLI. ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default: ./thinxi.yaml or $XDG_CONFIG_HOME/thinxi/thinxi.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides THINXI_DB env var)")
	pf.String("backend", "", "Document store backend: firestore or sqlite")
	pf.String("provider", "", "Text model provider: gemini, anthropic, openai, openrouter or mock")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(adjustCmd)
	rootCmd.AddCommand(rewardsCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(playtestCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration, applies command-line overrides and builds
// the logger.
func setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		cfg.Store.Backend = v
	}
	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}

	settings = cfg
	l, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	log = l
	return nil
}

// newLogger builds a logger from the loaded settings with the console
// output going to console.
func newLogger(console io.Writer) (*zap.Logger, error) {
	l, err := logger.New(logger.Options{
		Level:      settings.Log.Level,
		File:       settings.Log.File,
		MaxSizeMB:  settings.Log.MaxSizeMB,
		MaxBackups: settings.Log.MaxBackups,
		MaxAgeDays: settings.Log.MaxAgeDays,
		Console:    console,
	})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then store.sqlite_path / THINXI_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if settings != nil && settings.Store.SQLitePath != "" {
		return settings.Store.SQLitePath, store.EnsureDir(settings.Store.SQLitePath)
	}
	return store.DefaultDBPath()
}
