package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/opendemo/opendemo-cli/internal/cli"
)

// NewClipboardCommand creates the clipboard command
func NewClipboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clipboard <language/name | name>",
		Short: "Copy a demo's README to the system clipboard",
		Long: `Copy a demo's README to the system clipboard, ready to paste.

When the demo has no README a short quick-start summary is copied
instead.

Examples:
  opendemo clipboard python/python-logging
  opendemo clipboard go-channels`,
		Args:    cobra.ExactArgs(1),
		Aliases: []string{"clip", "copy"},
		RunE:    runClipboard,
	}
}

func runClipboard(cmd *cobra.Command, args []string) error {
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

	content, err := a.Storage.ReadFile(filepath.Join(path, "README.md"))
	if err != nil {
		content = quickStart(demo.Path, demo.Name(), demo.Description())
	}

	if err := clipboard.WriteAll(content); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}

	cli.PrintSuccess("Copied %s to clipboard (%s)", demo.Name(), cli.FormatBytes(int64(len(content))))
	return nil
}

// quickStart builds a minimal usage blurb for demos without a README.
func quickStart(demoPath, name, description string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", name)
	if description != "" {
		fmt.Fprintf(&b, "%s\n\n", description)
	}
	b.WriteString("## Files\n\n")

	entries, err := os.ReadDir(demoPath)
	if err == nil {
		for _, e := range entries {
			if !e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
				fmt.Fprintf(&b, "- %s\n", e.Name())
			}
		}
	}
	return b.String()
}
