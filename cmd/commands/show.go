package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opendemo/opendemo-cli/internal/cli"
	"github.com/opendemo/opendemo-cli/pkg/models"
)

// ShowOutput represents a single demo's details
type ShowOutput struct {
	DemoOutput `yaml:",inline"`
	Author     string            `json:"author,omitempty" yaml:"author,omitempty"`
	CreatedAt  string            `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt  string            `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	Version    string            `json:"version,omitempty" yaml:"version,omitempty"`
	Files      []models.DemoFile `json:"files" yaml:"files"`
}

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <language/name | name>",
		Short: "Show a demo's metadata and files",
		Long: `Show the metadata and file listing of a demo from the output
directory or the user library.

Examples:
  opendemo show python/python-logging
  opendemo show python-logging`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	path, err := a.resolver().Resolve(args[0])
	if err != nil {
		return err
	}
	demo := a.Repository.LoadDemo(path)
	if demo == nil {
		return fmt.Errorf("demo at %s is unreadable", path)
	}

	output := ShowOutput{
		DemoOutput: demoOutput(demo),
		Author:     demo.Meta.Author,
		CreatedAt:  demo.Meta.CreatedAt,
		UpdatedAt:  demo.Meta.UpdatedAt,
		Version:    demo.Meta.Version,
		Files:      a.Repository.DemoFiles(demo),
	}

	if outputFormat != string(cli.FormatText) {
		return cli.OutputResults(os.Stdout, outputFormat, output)
	}

	fmt.Printf("Name:        %s\n", output.Name)
	fmt.Printf("Language:    %s\n", output.Language)
	fmt.Printf("Difficulty:  %s\n", output.Difficulty)
	if len(output.Keywords) > 0 {
		fmt.Printf("Keywords:    %s\n", strings.Join(output.Keywords, ", "))
	}
	if output.Description != "" {
		fmt.Printf("Description: %s\n", output.Description)
	}
	if output.Author != "" {
		fmt.Printf("Author:      %s\n", output.Author)
	}
	verified := "no"
	if output.Verified {
		verified = "yes"
	}
	fmt.Printf("Verified:    %s\n", verified)
	fmt.Printf("Path:        %s\n\n", output.Path)

	table := cli.NewTableFormatter(os.Stdout)
	table.Header("FILE", "SIZE", "DESCRIPTION")
	for _, f := range output.Files {
		table.Row(f.Path, cli.FormatBytes(f.Size), f.Description)
	}
	table.Flush()
	return nil
}
