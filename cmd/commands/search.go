package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opendemo/opendemo-cli/internal/cli"
	"github.com/opendemo/opendemo-cli/pkg/models"
	"github.com/opendemo/opendemo-cli/pkg/storage"
)

var (
	searchDifficulty string
	searchScope      string
)

// DemoOutput represents one demo in listing output
type DemoOutput struct {
	Name        string   `json:"name" yaml:"name"`
	Language    string   `json:"language" yaml:"language"`
	Difficulty  string   `json:"difficulty" yaml:"difficulty"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Verified    bool     `json:"verified" yaml:"verified"`
	Path        string   `json:"path" yaml:"path"`
}

// SearchResultOutput represents the formatted search results
type SearchResultOutput struct {
	Language string       `json:"language,omitempty" yaml:"language,omitempty"`
	Keywords []string     `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Count    int          `json:"count" yaml:"count"`
	Results  []DemoOutput `json:"results" yaml:"results"`
}

// NewSearchCommand creates the search command
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [language] [keywords...]",
		Short: "Search the demo libraries",
		Long: `Search the builtin catalog, your user library and the output
directory for demos.

Without arguments the per-language demo counts are shown. With a
language, all of that language's demos are listed; additional keywords
rank the demos by how well they match.

Examples:
  # Per-language overview
  opendemo search

  # Everything for one language
  opendemo search python

  # Ranked keyword search
  opendemo search python logging rotation --difficulty beginner`,
		RunE: runSearch,
	}

	cmd.Flags().StringVarP(&searchDifficulty, "difficulty", "d", "", "Difficulty filter (beginner, intermediate, advanced)")
	cmd.Flags().StringVar(&searchScope, "scope", "all", "Library scope (builtin, user, all)")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := cli.ValidateDifficulty(searchDifficulty); err != nil {
		return err
	}
	if !cli.Contains([]string{storage.ScopeBuiltin, storage.ScopeUser, storage.ScopeAll}, searchScope) {
		return fmt.Errorf("invalid scope: %s (must be: builtin, user, or all)", searchScope)
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return printLanguageOverview(a)
	}

	language := strings.ToLower(args[0])
	if err := cli.ValidateLanguage(language); err != nil {
		return err
	}
	keywords := args[1:]

	demos := a.Search.SearchDemos(language, keywords, searchDifficulty, searchScope)

	output := SearchResultOutput{
		Language: language,
		Keywords: keywords,
		Count:    len(demos),
		Results:  make([]DemoOutput, 0, len(demos)),
	}
	for i := range demos {
		output.Results = append(output.Results, demoOutput(&demos[i]))
	}

	if outputFormat != string(cli.FormatText) {
		return cli.OutputResults(os.Stdout, outputFormat, output)
	}

	if output.Count == 0 {
		cli.PrintInfo("No demos found")
		return nil
	}

	table := cli.NewTableFormatter(os.Stdout)
	table.Header("NAME", "DIFFICULTY", "VERIFIED", "DESCRIPTION")
	for _, d := range output.Results {
		verified := ""
		if d.Verified {
			verified = "yes"
		}
		table.Row(d.Name, d.Difficulty, verified, cli.TruncateString(d.Description, 60))
	}
	table.Flush()
	fmt.Printf("\n%d demo(s)\n", output.Count)
	return nil
}

func printLanguageOverview(a *app) error {
	stats := a.Search.Statistics("")

	if outputFormat != string(cli.FormatText) {
		return cli.OutputResults(os.Stdout, outputFormat, stats)
	}

	if stats.Total == 0 {
		cli.PrintInfo("The library is empty")
		return nil
	}

	table := cli.NewTableFormatter(os.Stdout)
	table.Header("LANGUAGE", "DEMOS")
	for _, language := range a.Search.Languages() {
		table.Row(language, fmt.Sprintf("%d", stats.ByLanguage[language]))
	}
	table.Flush()
	fmt.Printf("\n%d demo(s) total, %d verified\n", stats.Total, stats.Verified)
	return nil
}

func demoOutput(demo *models.Demo) DemoOutput {
	return DemoOutput{
		Name:        demo.Name(),
		Language:    demo.Language(),
		Difficulty:  demo.Difficulty(),
		Keywords:    demo.Keywords(),
		Description: demo.Description(),
		Verified:    demo.Verified(),
		Path:        demo.Path,
	}
}
