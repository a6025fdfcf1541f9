// Package cli implements the sitegen command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/resumedj/sitegen/internal/config"
	"github.com/resumedj/sitegen/internal/db"
	"github.com/resumedj/sitegen/internal/version"
)

var (
	projectDir     string
	verbose        bool
	nonInteractive bool
	jsonOutput     bool
	noProgress     bool

	logger    zerolog.Logger
	loadedCfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "sitegen",
	Short:   "Build and publish the ResumeDJ site",
	Long:    "sitegen compiles themed stylesheets and pages into a static site tree and publishes it.",
	Version: version.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).
			With().
			Timestamp().
			Logger()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "p", ".", "project directory containing site.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "never prompt; fail when input would be required")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit machine-readable JSON output")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress output")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var preflight *PreflightError
		if asPreflight(err, &preflight) {
			fmt.Fprintln(os.Stderr, preflight.Format())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// ProjectDir returns the absolute project directory.
func ProjectDir() (string, error) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return "", fmt.Errorf("resolve project dir: %w", err)
	}
	return abs, nil
}

// GetConfig loads the site configuration for the project, caching the result
// for the lifetime of the command.
func GetConfig() (*config.Config, error) {
	if loadedCfg != nil {
		return loadedCfg, nil
	}

	dir, err := ProjectDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	loadedCfg = cfg
	return cfg, nil
}

// openDatabase opens the build history database and applies migrations.
func openDatabase(ctx context.Context) (*db.DB, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	dir, err := ProjectDir()
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.HistoryDBPath(dir), logger)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if _, err := database.MigrateUp(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrate history database: %w", err)
	}
	return database, nil
}
