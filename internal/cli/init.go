package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initForce bool

// initDirFunc returns the directory to initialize, overridable in tests.
var initDirFunc = func() (string, error) {
	return ProjectDir()
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing site.yaml")
}

type stepResult struct {
	status  string
	message string
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new site project",
	Long:  "Create site.yaml with defaults plus the content and override directories.",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := []struct {
			label string
			run   func() stepResult
		}{
			{"Writing site.yaml", createSiteConfig},
			{"Creating project directories", createProjectDirs},
		}

		for _, step := range steps {
			result := step.run()
			switch result.status {
			case "done":
				fmt.Fprintf(os.Stderr, "%s... done", step.label)
				if result.message != "" {
					fmt.Fprintf(os.Stderr, " (%s)", result.message)
				}
				fmt.Fprintln(os.Stderr)
			case "skipped":
				fmt.Fprintf(os.Stderr, "%s... skipped (%s)\n", step.label, result.message)
			default:
				return fmt.Errorf("%s: %s", step.label, result.message)
			}
		}

		fmt.Fprintln(os.Stdout, "Project initialized. Run 'sitegen build' to build the site.")
		return nil
	},
}

const defaultSiteConfig = `# ResumeDJ site configuration
title: ResumeDJ
theme: earthtone
output: public

# Pages default to the builtin set (home, instructions, faq, contact).
# Uncomment to customize:
# pages:
#   - path: index
#     title: Home
#     template: home
#   - path: faq
#     title: FAQ
#     stylesheets: [base, navigation, components]

# deploy:
#   dest: /srv/www/resumedj        # local copy deploy
#   host: pages.example.com       # or SSH deploy
#   user: deploy
#   dir: /srv/www/resumedj
`

func createSiteConfig() stepResult {
	dir, err := initDirFunc()
	if err != nil {
		return stepResult{status: "failed", message: err.Error()}
	}

	path := filepath.Join(dir, "site.yaml")
	if _, err := os.Stat(path); err == nil && !initForce {
		return stepResult{status: "skipped", message: "site.yaml already exists, use --force to overwrite"}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return stepResult{status: "failed", message: err.Error()}
	}
	if err := os.WriteFile(path, []byte(defaultSiteConfig), 0644); err != nil {
		return stepResult{status: "failed", message: err.Error()}
	}
	return stepResult{status: "done", message: path}
}

// createProjectDirs creates content/ for page fragments and .sitegen/ for
// theme, sheet, and template overrides.
func createProjectDirs() stepResult {
	dir, err := initDirFunc()
	if err != nil {
		return stepResult{status: "failed", message: err.Error()}
	}

	for _, sub := range []string{
		"content",
		filepath.Join(".sitegen", "themes"),
		filepath.Join(".sitegen", "sheets"),
		filepath.Join(".sitegen", "templates"),
	} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return stepResult{status: "failed", message: err.Error()}
		}
	}
	return stepResult{status: "done"}
}
