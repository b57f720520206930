package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opendemo/opendemo-cli/internal/cli"
	"github.com/opendemo/opendemo-cli/pkg/repo"
)

// NewContributeCommand creates the contribute command
func NewContributeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "contribute <language/name | name | path>",
		Short: "Copy a demo into your user library",
		Long: `Validate a demo and copy it into your personal library under
~/.opendemo/demos, then print a contribution message you can use to
submit it upstream.

A contributable demo needs metadata.json, a README.md of at least 100
characters and at least one code file.

Examples:
  opendemo contribute python/python-logging
  opendemo contribute ./opendemo_output/go/go-channels`,
		Args: cobra.ExactArgs(1),
		RunE: runContribute,
	}
}

func runContribute(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	path := args[0]
	if _, statErr := os.Stat(path); statErr != nil {
		path, err = a.resolver().Resolve(args[0])
		if err != nil {
			return err
		}
	}

	ok, problems := a.Repository.ValidateContribution(path)
	if !ok {
		for _, p := range problems {
			cli.PrintError("%s", p)
		}
		return fmt.Errorf("demo is not ready to contribute")
	}

	confirmed, err := cli.Confirm(fmt.Sprintf("Copy %s into your user library?", path), true)
	if err != nil || !confirmed {
		cli.PrintInfo("Cancelled")
		return nil
	}

	target := a.Repository.ContributeToUserLibrary(path)
	if target == "" {
		return fmt.Errorf("failed to copy the demo into the user library")
	}
	cli.PrintSuccess("Demo copied to %s", target)

	if info := a.Repository.PrepareContributionInfo(target); info != nil {
		fmt.Println()
		fmt.Println(repo.ContributionMessage(info))
	}
	return nil
}
