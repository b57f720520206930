package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opendemo/opendemo-cli/internal/cli"
	"github.com/opendemo/opendemo-cli/pkg/readme"
)

var statsUpdateReadme bool

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [language]",
		Short: "Show library statistics",
		Long: `Show demo counts across the builtin catalog, your user library
and the output directory: totals, per language, per difficulty and how
many are verified.

With --update-readme the stats table in the output directory's
README.md is refreshed as well.

Examples:
  opendemo stats
  opendemo stats python
  opendemo stats --update-readme`,
		Args: cobra.MaximumNArgs(1),
		RunE: runStats,
	}

	cmd.Flags().BoolVar(&statsUpdateReadme, "update-readme", false, "Refresh the README stats table in the output directory")

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	language := ""
	if len(args) == 1 {
		language = strings.ToLower(args[0])
		if err := cli.ValidateLanguage(language); err != nil {
			return err
		}
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	stats := a.Search.Statistics(language)

	if outputFormat != string(cli.FormatText) {
		if err := cli.OutputResults(os.Stdout, outputFormat, stats); err != nil {
			return err
		}
	} else {
		fmt.Printf("Total demos:  %d\n", stats.Total)
		fmt.Printf("Verified:     %d\n\n", stats.Verified)

		table := cli.NewTableFormatter(os.Stdout)
		table.Header("LANGUAGE", "DEMOS")
		for _, lang := range sortedCountKeys(stats.ByLanguage) {
			table.Row(lang, fmt.Sprintf("%d", stats.ByLanguage[lang]))
		}
		table.Flush()
		fmt.Println()

		table = cli.NewTableFormatter(os.Stdout)
		table.Header("DIFFICULTY", "DEMOS")
		for _, level := range []string{"beginner", "intermediate", "advanced"} {
			table.Row(level, fmt.Sprintf("%d", stats.ByDifficulty[level]))
		}
		table.Flush()

		fmt.Println()
		fmt.Println(newReadmeUpdater(a).Summary())
	}

	if statsUpdateReadme {
		if newReadmeUpdater(a).Update() {
			cli.PrintSuccess("README statistics updated")
		} else {
			cli.PrintWarning("No README stats section to update in the output directory")
		}
	}
	return nil
}

// newReadmeUpdater points the README updater at the output directory's
// README.md.
func newReadmeUpdater(a *app) *readme.Updater {
	outputDir := a.Storage.OutputDirectory()
	return readme.NewUpdater(outputDir, filepath.Join(outputDir, "README.md"), a.Logger)
}

func sortedCountKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
