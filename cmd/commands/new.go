package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/opendemo/opendemo-cli/internal/cli"
	"github.com/opendemo/opendemo-cli/pkg/generate"
)

var (
	newDifficulty string
	newVerify     bool
	newFolder     string
	newToUserLib  bool
	newNoAI       bool
)

// NewNewCommand creates the new command
func NewNewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <language> <topic...>",
		Short: "Generate a fresh demo with the AI service",
		Long: `Generate a brand new demo, bypassing the existing library.

When the first topic word names a known library the demo is filed under
that library's namespace. The classification asks the AI service unless
--no-ai is given, falling back to the built-in heuristics.

Examples:
  opendemo new python decorators
  opendemo new go numpy broadcasting --difficulty intermediate
  opendemo new kubernetes istio traffic-shifting --verify`,
		Args: cobra.MinimumNArgs(2),
		RunE: runNew,
	}

	cmd.Flags().StringVarP(&newDifficulty, "difficulty", "d", "", "Target difficulty (beginner, intermediate, advanced)")
	cmd.Flags().BoolVar(&newVerify, "verify", false, "Verify the demo after generating it")
	cmd.Flags().StringVar(&newFolder, "folder", "", "Folder name override")
	cmd.Flags().BoolVar(&newToUserLib, "to-user-library", false, "Save into the user library instead of the output directory")
	cmd.Flags().BoolVar(&newNoAI, "no-ai", false, "Classify the topic with heuristics only")

	return cmd
}

func runNew(cmd *cobra.Command, args []string) error {
	language := strings.ToLower(args[0])
	if err := cli.ValidateLanguage(language); err != nil {
		return err
	}
	if err := cli.ValidateDifficulty(newDifficulty); err != nil {
		return err
	}
	if newFolder != "" {
		if err := cli.ValidateDemoName(newFolder); err != nil {
			return err
		}
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	topics := args[1:]
	library := a.Repository.DetectLibraryForNew(language, topics[0], !newNoAI)
	topic := strings.Join(topics, " ")
	if library != "" {
		cli.PrintInfo("'%s' looks like a %s library, filing the demo under it", topics[0], language)
		topic = strings.Join(topics[1:], " ")
		if topic == "" {
			topic = topics[0]
		}
	}

	if err := generateDemo(a, generate.Params{
		Language:          language,
		Topic:             topic,
		Difficulty:        newDifficulty,
		SaveToUserLibrary: newToUserLib,
		CustomFolderName:  newFolder,
		LibraryName:       library,
	}, newVerify); err != nil {
		return err
	}

	updateReadmeStats(a)
	return nil
}

// updateReadmeStats refreshes the README demo table when the output
// directory carries one. Failures are silent; the README is cosmetic.
func updateReadmeStats(a *app) {
	updater := newReadmeUpdater(a)
	if updater.Update() {
		cli.PrintInfo("README statistics updated")
	}
}
