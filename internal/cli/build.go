package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/resumedj/sitegen/internal/db"
	"github.com/resumedj/sitegen/internal/events"
	"github.com/resumedj/sitegen/internal/models"
	"github.com/resumedj/sitegen/internal/site"
	"github.com/resumedj/sitegen/internal/theme"
)

var buildThemeOverride string

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildThemeOverride, "theme", "", "build with this theme instead of the configured one")
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the site",
	Long:  "Compile stylesheets against the active theme, render all pages, and write the output tree.",
	RunE: func(cmd *cobra.Command, args []string) error {
		manifest, _, err := runBuild(cmd.Context())
		if err != nil {
			return err
		}

		if IsJSONOutput() {
			return WriteOutput(os.Stdout, manifest)
		}

		fmt.Fprintf(os.Stdout, "Built %d pages (%d files, %d bytes) with theme %q in %s\n",
			manifest.PageCount, len(manifest.Files), manifest.TotalBytes, manifest.Theme,
			formatDuration(manifest.Duration))
		return nil
	},
}

// runBuild builds the site for the current project and records the result in
// the history database. History failures do not fail the build.
func runBuild(ctx context.Context) (*site.Manifest, *models.BuildRecord, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, nil, err
	}
	dir, err := ProjectDir()
	if err != nil {
		return nil, nil, err
	}

	themeName := cfg.Theme
	if buildThemeOverride != "" {
		themeName = buildThemeOverride
	}

	activeTheme, err := theme.FindTheme(dir, themeName)
	if err != nil {
		if errors.Is(err, theme.ErrThemeNotFound) {
			return nil, nil, &PreflightError{
				Message:  fmt.Sprintf("theme %q not found", themeName),
				Hint:     "Themes live in .sitegen/themes/ or ship as builtins",
				NextStep: "sitegen themes list",
			}
		}
		return nil, nil, err
	}

	builder, err := site.NewBuilder(site.Options{
		ProjectDir: dir,
		OutputDir:  cfg.OutputDir(dir),
		SiteTitle:  cfg.Title,
		Theme:      activeTheme,
		Pages:      cfg.Pages,
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, err
	}

	progress := startProgress("Building site")
	manifest, buildErr := builder.Build(ctx)
	if buildErr != nil {
		progress.Fail(buildErr)
	} else {
		progress.Done()
	}

	record := recordBuild(ctx, activeTheme.Name, manifest, buildErr)
	if buildErr != nil {
		return nil, record, buildErr
	}
	return manifest, record, nil
}

// recordBuild writes a build record and event to the history database.
func recordBuild(ctx context.Context, themeName string, manifest *site.Manifest, buildErr error) *models.BuildRecord {
	database, err := openDatabase(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("history database unavailable, build not recorded")
		return nil
	}
	defer database.Close()

	record := &models.BuildRecord{
		Theme:      themeName,
		Status:     models.BuildStatusSucceeded,
		RecordedAt: time.Now().UTC(),
	}
	if buildErr != nil {
		record.Status = models.BuildStatusFailed
		record.Error = buildErr.Error()
	}
	if manifest != nil {
		record.PageCount = manifest.PageCount
		record.FileCount = len(manifest.Files)
		record.TotalBytes = manifest.TotalBytes
		record.ContentHash = manifest.ContentHash
		record.DurationMillis = manifest.Duration.Milliseconds()
	}

	buildRepo := db.NewBuildRepository(database)
	if err := buildRepo.Create(ctx, record); err != nil {
		logger.Warn().Err(err).Msg("failed to record build")
		return nil
	}

	eventRepo := db.NewEventRepository(database)
	if buildErr != nil {
		err = events.LogBuildFailed(ctx, eventRepo, record.ID, themeName, buildErr)
	} else {
		err = events.LogBuildCompleted(ctx, eventRepo, record.ID, themeName,
			record.PageCount, record.FileCount, record.TotalBytes, record.ContentHash,
			time.Duration(record.DurationMillis)*time.Millisecond)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("failed to record build event")
	}

	return record
}
