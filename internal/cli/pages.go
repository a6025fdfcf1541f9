package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/resumedj/sitegen/internal/site"
)

func init() {
	rootCmd.AddCommand(pagesCmd)
	pagesCmd.AddCommand(pagesListCmd)
}

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Manage site pages",
}

var pagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the pages the site builds",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}

		pages := cfg.Pages
		if len(pages) == 0 {
			pages = site.DefaultPages()
		}

		if IsJSONOutput() {
			return WriteOutput(os.Stdout, pages)
		}

		rows := make([][]string, 0, len(pages))
		for _, p := range pages {
			rows = append(rows, []string{
				p.Path,
				p.Title,
				p.TemplateName(),
				strings.Join(p.Stylesheets, ", "),
			})
		}
		return writeTable(os.Stdout, []string{"PATH", "TITLE", "TEMPLATE", "STYLESHEETS"}, rows)
	},
}
