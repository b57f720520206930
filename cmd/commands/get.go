package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opendemo/opendemo-cli/internal/cli"
	"github.com/opendemo/opendemo-cli/internal/picker"
	"github.com/opendemo/opendemo-cli/pkg/config"
	"github.com/opendemo/opendemo-cli/pkg/generate"
	"github.com/opendemo/opendemo-cli/pkg/models"
	"github.com/opendemo/opendemo-cli/pkg/search"
	"github.com/opendemo/opendemo-cli/pkg/storage"
)

var (
	getDifficulty string
	getVerify     bool
)

// NewGetCommand creates the get command
func NewGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <language> <keywords...>",
		Short: "Get a demo, from the library or freshly generated",
		Long: `Get a demo for the given language and keywords.

The lookup runs in stages: when the first keyword names a known library
(numpy, gin, express, a kubernetes tool, ...) the remaining keywords
select one of that library's features. Otherwise the local libraries are
searched, and when nothing matches the demo is generated by the AI
service.

Append the keyword "new" to skip the library entirely and force a fresh
generation into a "-new" suffixed folder.

Examples:
  # Library feature lookup
  opendemo get python numpy array-creation

  # Plain demo search, generation fallback
  opendemo get go context timeout

  # Force regeneration
  opendemo get python numpy broadcasting new`,
		Args: cobra.MinimumNArgs(2),
		RunE: runGet,
	}

	cmd.Flags().StringVarP(&getDifficulty, "difficulty", "d", "", "Difficulty filter (beginner, intermediate, advanced)")
	cmd.Flags().BoolVar(&getVerify, "verify", false, "Verify the demo after materializing it")

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	language := strings.ToLower(args[0])
	if err := cli.ValidateLanguage(language); err != nil {
		return err
	}
	if err := cli.ValidateDifficulty(getDifficulty); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	keywords := args[1:]
	if n := len(keywords); n > 1 && strings.EqualFold(keywords[n-1], "new") {
		return forceGenerate(a, language, keywords[:n-1])
	}

	if libCmd := a.Repository.DetectLibraryCommand(language, keywords); libCmd != nil {
		return runLibraryGet(a, libCmd)
	}

	// An exact name hit beats ranked search.
	slug := strings.Join(keywords, "-")
	for _, name := range []string{slug, language + "-" + slug} {
		if demo := a.Search.FindExact(name, language); demo != nil {
			return materialize(a, demo)
		}
	}

	results := a.Search.SearchDemos(language, keywords, getDifficulty, storage.ScopeAll)
	if len(results) > 0 {
		return materialize(a, &results[0])
	}

	cli.PrintInfo("No matching demo in the library, generating one")
	return generateDemo(a, generate.Params{
		Language:   language,
		Topic:      strings.Join(keywords, " "),
		Difficulty: getDifficulty,
	}, getVerify)
}

// runLibraryGet resolves a library command: list features when none were
// named, otherwise find the best feature match and copy it to output.
func runLibraryGet(a *app, libCmd *models.LibraryCommand) error {
	if len(libCmd.FeatureKeywords) == 0 {
		return printLibraryFeatures(a, libCmd.Language, libCmd.Library, "")
	}

	term := strings.Join(libCmd.FeatureKeywords, " ")
	matches := a.Search.SearchLibraryFeatures(libCmd.Language, libCmd.Library, term)

	switch len(matches) {
	case 0:
		cli.PrintInfo("%s has no '%s' feature yet, generating one", libCmd.Library, term)
		return generateDemo(a, generate.Params{
			Language:    libCmd.Language,
			Topic:       term,
			Difficulty:  getDifficulty,
			LibraryName: libCmd.Library,
		}, getVerify)
	case 1:
		return copyFeature(a, libCmd, matches[0].Feature.Name)
	default:
		name, err := pickFeature(libCmd.Library, matches)
		if err != nil {
			// No usable terminal, show the candidates instead.
			printFeatureMatches(libCmd.Library, matches)
			return nil
		}
		if name == "" {
			cli.PrintInfo("Cancelled")
			return nil
		}
		return copyFeature(a, libCmd, name)
	}
}

func pickFeature(library string, matches []search.FeatureMatch) (string, error) {
	choices := make([]picker.Choice, 0, len(matches))
	for _, m := range matches {
		label := m.Feature.Title
		if label == "" {
			label = m.Feature.Name
		}
		choices = append(choices, picker.Choice{
			Label:       fmt.Sprintf("%s (%s)", label, m.Feature.Difficulty),
			Description: m.Feature.Description,
			Value:       m.Feature.Name,
		})
	}

	choice, err := picker.Pick(fmt.Sprintf("Multiple %s features match", library), choices)
	if err != nil {
		return "", err
	}
	if choice == nil {
		return "", nil
	}
	return choice.Value, nil
}

func printFeatureMatches(library string, matches []search.FeatureMatch) {
	fmt.Printf("Multiple %s features match, run again with one of:\n\n", library)
	table := cli.NewTableFormatter(os.Stdout)
	table.Header("FEATURE", "DIFFICULTY", "DESCRIPTION")
	for _, m := range matches {
		table.Row(m.Feature.Name, m.Feature.Difficulty, cli.TruncateString(m.Feature.Description, 60))
	}
	table.Flush()
}

func copyFeature(a *app, libCmd *models.LibraryCommand, feature string) error {
	path := a.Repository.CopyLibraryFeatureToOutput(libCmd.Language, libCmd.Library, feature)
	if path == "" {
		return fmt.Errorf("failed to copy feature '%s/%s' to the output directory", libCmd.Library, feature)
	}
	demo := a.Repository.LoadDemo(path)
	if demo == nil {
		return fmt.Errorf("copied demo at %s is unreadable", path)
	}
	cli.PrintSuccess("Demo ready at %s", path)
	printDemoFiles(a, demo)
	return verifyIfRequested(a, demo, getVerify)
}

// materialize copies a library hit into the output directory, or reports
// its location when it already lives there.
func materialize(a *app, demo *models.Demo) error {
	path := a.Repository.CopyToOutput(demo, "")
	if path == "" {
		return fmt.Errorf("failed to copy demo '%s' to the output directory", demo.Name())
	}
	target := a.Repository.LoadDemo(path)
	if target == nil {
		return fmt.Errorf("copied demo at %s is unreadable", path)
	}
	cli.PrintSuccess("Demo ready at %s", path)
	printDemoFiles(a, target)
	return verifyIfRequested(a, target, getVerify)
}

// forceGenerate handles the trailing "new" keyword: a fresh generation
// into a collision-free "-new" suffixed folder.
func forceGenerate(a *app, language string, keywords []string) error {
	folder := generate.ForceFolderName(a.Storage.OutputDirectory(), language, keywords)
	cli.PrintInfo("Forcing a fresh demo into %s", folder)
	return generateDemo(a, generate.Params{
		Language:         language,
		Topic:            strings.Join(keywords, " "),
		Difficulty:       getDifficulty,
		CustomFolderName: folder,
	}, getVerify)
}

// generateDemo runs the generator behind a spinner and prints the result.
func generateDemo(a *app, p generate.Params, verify bool) error {
	if !a.AI.Configured() {
		return fmt.Errorf("no matching demo found and the AI service is not configured; set OPENDEMO_AI_API_KEY or run 'opendemo config init'")
	}

	var result *generate.Result
	message := fmt.Sprintf("Generating %s demo for '%s'", p.Language, p.Topic)
	_, err := picker.Spin(message, func() (string, error) {
		r, err := a.Generator.Generate(context.Background(), p)
		if err != nil {
			return "", err
		}
		result = r
		return fmt.Sprintf("Generated %s", r.Path), nil
	})
	if err != nil {
		if picker.IsCancelled(err) {
			cli.PrintInfo("Cancelled")
			return nil
		}
		return fmt.Errorf("generation failed: %w", err)
	}

	cli.PrintSuccess("Demo generated at %s", result.Path)
	printDemoFiles(a, result.Demo)
	return verifyIfRequested(a, result.Demo, verify)
}

func printDemoFiles(a *app, demo *models.Demo) {
	files := a.Repository.DemoFiles(demo)
	if len(files) == 0 {
		return
	}
	table := cli.NewTableFormatter(os.Stdout)
	table.Header("FILE", "SIZE", "DESCRIPTION")
	for _, f := range files {
		table.Row(f.Path, cli.FormatBytes(f.Size), f.Description)
	}
	table.Flush()
}

// shouldVerify reports whether a demo gets verified: either the --verify
// flag asked for it or the config enables verification globally.
func shouldVerify(cfg *config.Config, requested bool) bool {
	return requested || cfg.GetBool("enable_verification", false)
}

// verifyIfRequested runs the verifier and records a passing run in the
// demo's metadata.
func verifyIfRequested(a *app, demo *models.Demo, requested bool) error {
	if !shouldVerify(a.Config, requested) {
		return nil
	}
	result := a.Verifier.Verify(context.Background(), demo.Path, demo.Language())
	if result.Skipped {
		cli.PrintWarning("%s", result.Message)
		return nil
	}
	if !result.Verified {
		cli.PrintWarning("Verification failed: %s", strings.Join(result.Errors, "; "))
		return nil
	}
	if !a.Repository.UpdateMetadata(demo, map[string]any{"verified": true}) {
		cli.PrintWarning("Demo verified but metadata update failed")
		return nil
	}
	cli.PrintSuccess("Demo verified (%s)", result.Method)
	return nil
}
