package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/resumedj/sitegen/internal/db"
	"github.com/resumedj/sitegen/internal/models"
)

var (
	historyLimit      int
	historyTheme      string
	historyFailedOnly bool

	historyEventsBuild string
	historyEventsLimit int

	historyPruneOlderThan string
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyEventsCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "max builds to show")
	historyCmd.Flags().StringVar(&historyTheme, "theme", "", "filter by theme")
	historyCmd.Flags().BoolVar(&historyFailedOnly, "failed", false, "show only failed builds")

	historyEventsCmd.Flags().StringVar(&historyEventsBuild, "build", "", "show events for this build ID")
	historyEventsCmd.Flags().IntVar(&historyEventsLimit, "limit", 50, "max events to show")

	historyPruneCmd.Flags().StringVar(&historyPruneOlderThan, "older-than", "720h", "delete builds older than this duration (e.g. 168h)")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show build history",
	Long:  "Show recorded builds, newest first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		query := models.BuildQuery{Limit: historyLimit}
		if strings.TrimSpace(historyTheme) != "" {
			query.Theme = &historyTheme
		}
		if historyFailedOnly {
			failed := models.BuildStatusFailed
			query.Status = &failed
		}

		records, err := db.NewBuildRepository(database).Query(ctx, query)
		if err != nil {
			return fmt.Errorf("query build history: %w", err)
		}

		if IsJSONOutput() {
			return WriteOutput(os.Stdout, records)
		}

		if len(records) == 0 {
			fmt.Fprintln(os.Stdout, "No builds recorded.")
			return nil
		}

		rows := make([][]string, 0, len(records))
		for _, r := range records {
			detail := shortHash(r.ContentHash)
			if r.Status == models.BuildStatusFailed {
				detail = r.Error
			}
			rows = append(rows, []string{
				shortID(r.ID),
				r.RecordedAt.Local().Format("2006-01-02 15:04:05"),
				r.Theme,
				string(r.Status),
				fmt.Sprintf("%d", r.PageCount),
				formatDuration(time.Duration(r.DurationMillis) * time.Millisecond),
				detail,
			})
		}
		return writeTable(os.Stdout, []string{"ID", "WHEN", "THEME", "STATUS", "PAGES", "TOOK", "DETAIL"}, rows)
	},
}

var historyEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the history event log",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		repo := db.NewEventRepository(database)

		var eventList []*models.Event
		if strings.TrimSpace(historyEventsBuild) != "" {
			eventList, err = repo.ListByEntity(ctx, models.EntityTypeBuild, historyEventsBuild, historyEventsLimit)
		} else {
			var page *db.EventPage
			page, err = repo.Query(ctx, db.EventQuery{Limit: historyEventsLimit})
			if page != nil {
				eventList = page.Events
			}
		}
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if IsJSONOutput() {
			return WriteOutput(os.Stdout, eventList)
		}

		if len(eventList) == 0 {
			fmt.Fprintln(os.Stdout, "No events recorded.")
			return nil
		}

		rows := make([][]string, 0, len(eventList))
		for _, e := range eventList {
			rows = append(rows, []string{
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				string(e.Type),
				string(e.EntityType),
				shortID(e.EntityID),
			})
		}
		return writeTable(os.Stdout, []string{"WHEN", "TYPE", "ENTITY", "ID"}, rows)
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old build records",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		age, err := time.ParseDuration(historyPruneOlderThan)
		if err != nil {
			return fmt.Errorf("invalid --older-than value %q: %w", historyPruneOlderThan, err)
		}

		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		deleted, err := db.NewBuildRepository(database).DeleteOlderThan(ctx, time.Now().UTC().Add(-age))
		if err != nil {
			return fmt.Errorf("prune build history: %w", err)
		}

		if IsJSONOutput() {
			return WriteOutput(os.Stdout, map[string]int64{"deleted": deleted})
		}
		fmt.Fprintf(os.Stdout, "Deleted %d build records older than %s\n", deleted, historyPruneOlderThan)
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	if hash == "" {
		return "-"
	}
	return hash
}
