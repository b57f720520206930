package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opendemo/opendemo-cli/internal/cli"
	"github.com/opendemo/opendemo-cli/pkg/verify"
)

var verifyReport bool

// NewVerifyCommand creates the verify command
func NewVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <language/name | name | path>",
		Short: "Run a demo to check that it works",
		Long: `Verify a demo by actually running it: Python demos run in a
fresh virtualenv, Go demos are built and executed, Node.js demos run
under node, kubernetes manifests go through a client-side dry run.

Verification must be enabled in the config (enable_verification: true).
A passing run records verified: true in the demo's metadata.

Examples:
  opendemo verify python/python-logging
  opendemo verify ./opendemo_output/go/go-channels --report`,
		Args: cobra.ExactArgs(1),
		RunE: runVerify,
	}

	cmd.Flags().BoolVar(&verifyReport, "report", false, "Print the full verification report")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	path := args[0]
	if dirErr := cli.ValidateDirectoryPath(path); dirErr != nil {
		path, err = a.resolver().Resolve(args[0])
		if err != nil {
			return err
		}
	}

	demo := a.Repository.LoadDemo(path)
	if demo == nil {
		return fmt.Errorf("no demo at %s", path)
	}

	cli.PrintProgress("Verifying %s", demo.Name())
	result := a.Verifier.Verify(context.Background(), demo.Path, demo.Language())

	if verifyReport {
		fmt.Println(verify.Report(result))
	}

	if result.Skipped {
		cli.PrintWarning("%s", result.Message)
		return nil
	}
	if !result.Verified {
		for _, e := range result.Errors {
			cli.PrintError("%s", e)
		}
		return fmt.Errorf("verification failed")
	}

	if a.Repository.UpdateMetadata(demo, map[string]any{"verified": true}) {
		cli.PrintSuccess("Demo verified (%s), metadata updated", result.Method)
	} else {
		cli.PrintWarning("Demo verified but metadata update failed")
	}
	return nil
}
