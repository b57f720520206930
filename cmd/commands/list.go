package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opendemo/opendemo-cli/internal/cli"
	"github.com/opendemo/opendemo-cli/pkg/models"
)

var listCategory string

// LibrariesOutput represents the library catalog listing
type LibrariesOutput struct {
	Language  string   `json:"language" yaml:"language"`
	Count     int      `json:"count" yaml:"count"`
	Libraries []string `json:"libraries" yaml:"libraries"`
}

// FeaturesOutput represents a library's feature listing
type FeaturesOutput struct {
	Language string           `json:"language" yaml:"language"`
	Library  string           `json:"library" yaml:"library"`
	Category string           `json:"category,omitempty" yaml:"category,omitempty"`
	Count    int              `json:"count" yaml:"count"`
	Features []models.Feature `json:"features" yaml:"features"`
}

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List libraries and their features",
	}

	libraries := &cobra.Command{
		Use:   "libraries <language>",
		Short: "List the known libraries for a language",
		Long: `List the libraries the demo catalog knows for a language.

For kubernetes this lists the tools present in the output directory
instead, since kubernetes demos are organized per tool.

Examples:
  opendemo list libraries python
  opendemo list libraries kubernetes`,
		Args: cobra.ExactArgs(1),
		RunE: runListLibraries,
	}

	features := &cobra.Command{
		Use:   "features <language> <library>",
		Short: "List the features of a library",
		Long: `List the demo features available for one library.

Examples:
  opendemo list features python numpy
  opendemo list features python pandas --category dataframe`,
		Args: cobra.ExactArgs(2),
		RunE: runListFeatures,
	}
	features.Flags().StringVar(&listCategory, "category", "", "Filter features by category")

	cmd.AddCommand(libraries, features)
	return cmd
}

func runListLibraries(cmd *cobra.Command, args []string) error {
	language := strings.ToLower(args[0])
	if err := cli.ValidateLanguage(language); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	libraries := a.Repository.SupportedLibraries(language)
	output := LibrariesOutput{Language: language, Count: len(libraries), Libraries: libraries}

	if outputFormat != string(cli.FormatText) {
		return cli.OutputResults(os.Stdout, outputFormat, output)
	}

	if output.Count == 0 {
		cli.PrintInfo("No libraries known for %s", language)
		return nil
	}

	table := cli.NewTableFormatter(os.Stdout)
	table.Header("LIBRARY", "FEATURES", "DESCRIPTION")
	for _, name := range libraries {
		info := a.Repository.LibraryInfo(language, name)
		count, description := 0, ""
		if info != nil {
			count = info.FeatureCount
			if info.Metadata != nil {
				description = info.Metadata.Description
			}
		}
		table.Row(name, fmt.Sprintf("%d", count), cli.TruncateString(description, 60))
	}
	table.Flush()
	return nil
}

func runListFeatures(cmd *cobra.Command, args []string) error {
	language := strings.ToLower(args[0])
	if err := cli.ValidateLanguage(language); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	return printLibraryFeatures(a, language, strings.ToLower(args[1]), listCategory)
}

// printLibraryFeatures renders a library's feature catalog in the
// selected output format. Shared with the get command's bare-library
// flow.
func printLibraryFeatures(a *app, language, library, category string) error {
	features := a.Repository.ListLibraryFeatures(language, library, category)
	output := FeaturesOutput{
		Language: language,
		Library:  library,
		Category: category,
		Count:    len(features),
		Features: features,
	}

	if outputFormat != string(cli.FormatText) {
		return cli.OutputResults(os.Stdout, outputFormat, output)
	}

	if output.Count == 0 {
		cli.PrintInfo("No features found for %s/%s", language, library)
		return nil
	}

	table := cli.NewTableFormatter(os.Stdout)
	table.Header("FEATURE", "CATEGORY", "DIFFICULTY", "DESCRIPTION")
	for _, f := range features {
		table.Row(f.Name, f.Category, f.Difficulty, cli.TruncateString(f.Description, 50))
	}
	table.Flush()
	fmt.Printf("\n%d feature(s). Get one with: opendemo get %s %s <feature>\n", output.Count, language, library)
	return nil
}
