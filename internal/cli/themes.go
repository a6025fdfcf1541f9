package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/resumedj/sitegen/internal/config"
	"github.com/resumedj/sitegen/internal/db"
	"github.com/resumedj/sitegen/internal/events"
	"github.com/resumedj/sitegen/internal/theme"
	"github.com/resumedj/sitegen/internal/tui"
)

func init() {
	rootCmd.AddCommand(themesCmd)
	themesCmd.AddCommand(themesListCmd)
	themesCmd.AddCommand(themesShowCmd)
	themesCmd.AddCommand(themesSetCmd)
	themesCmd.AddCommand(themesPreviewCmd)
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "Manage themes",
	Long:  "List, inspect, preview, and activate the color themes available to the site.",
}

var themesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available themes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		dir, err := ProjectDir()
		if err != nil {
			return err
		}

		themes, err := theme.LoadThemes(dir)
		if err != nil {
			return err
		}

		if IsJSONOutput() {
			return WriteOutput(os.Stdout, themes)
		}

		rows := make([][]string, 0, len(themes))
		for _, t := range themes {
			rows = append(rows, []string{
				t.Name,
				fmt.Sprintf("%d", len(t.Tokens)),
				formatYesNo(t.Name == cfg.Theme),
				t.Description,
			})
		}
		return writeTable(os.Stdout, []string{"NAME", "TOKENS", "ACTIVE", "DESCRIPTION"}, rows)
	},
}

var themesShowCmd = &cobra.Command{
	Use:   "show <theme>",
	Short: "Show a theme's tokens",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := ProjectDir()
		if err != nil {
			return err
		}

		t, err := findThemeOrPreflight(dir, args[0])
		if err != nil {
			return err
		}

		if IsJSONOutput() {
			return WriteOutput(os.Stdout, t)
		}

		rows := make([][]string, 0, len(t.Tokens))
		for _, token := range t.Tokens {
			rows = append(rows, []string{token.Name, token.Value})
		}
		return writeTable(os.Stdout, []string{"TOKEN", "VALUE"}, rows)
	},
}

var themesSetCmd = &cobra.Command{
	Use:   "set [theme]",
	Short: "Activate a theme",
	Long:  "Set the site's active theme. With no argument, opens an interactive picker.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		dir, err := ProjectDir()
		if err != nil {
			return err
		}

		name := ""
		if len(args) == 1 {
			name = args[0]
		} else {
			if IsNonInteractive() {
				return &PreflightError{
					Message:  "theme name is required in non-interactive mode",
					Hint:     "Pass the theme name as an argument",
					NextStep: "sitegen themes list",
				}
			}
			themes, err := theme.LoadThemes(dir)
			if err != nil {
				return err
			}
			name, err = tui.RunPicker(themes, cfg.Theme)
			if err != nil {
				return err
			}
			if name == "" {
				fmt.Fprintln(os.Stderr, "No theme selected.")
				return nil
			}
		}

		if _, err := findThemeOrPreflight(dir, name); err != nil {
			return err
		}

		oldTheme := cfg.Theme
		if oldTheme == name {
			fmt.Fprintf(os.Stdout, "Theme %q is already active\n", name)
			return nil
		}

		cfg.Theme = name
		if err := config.Save(cfg, dir); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		if database, err := openDatabase(ctx); err == nil {
			defer database.Close()
			if err := events.LogThemeReplaced(ctx, db.NewEventRepository(database), oldTheme, name); err != nil {
				logger.Warn().Err(err).Msg("failed to record theme change")
			}
		} else {
			logger.Warn().Err(err).Msg("history database unavailable, theme change not recorded")
		}

		fmt.Fprintf(os.Stdout, "Active theme changed from %q to %q\n", oldTheme, name)
		fmt.Fprintln(os.Stdout, "Run 'sitegen build' to regenerate the site with the new theme.")
		return nil
	},
}

var themesPreviewCmd = &cobra.Command{
	Use:   "preview <theme>",
	Short: "Preview a theme's colors in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := ProjectDir()
		if err != nil {
			return err
		}

		t, err := findThemeOrPreflight(dir, args[0])
		if err != nil {
			return err
		}

		fmt.Fprint(os.Stdout, tui.RenderPreview(t))
		return nil
	},
}

func findThemeOrPreflight(dir, name string) (*theme.Theme, error) {
	t, err := theme.FindTheme(dir, name)
	if err != nil {
		if errors.Is(err, theme.ErrThemeNotFound) {
			return nil, &PreflightError{
				Message:  fmt.Sprintf("theme %q not found", name),
				Hint:     "Themes live in .sitegen/themes/ or ship as builtins",
				NextStep: "sitegen themes list",
			}
		}
		return nil, err
	}
	return t, nil
}
