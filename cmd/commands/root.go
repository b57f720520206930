package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opendemo/opendemo-cli/internal/cli"
	"github.com/opendemo/opendemo-cli/pkg/ai"
	"github.com/opendemo/opendemo-cli/pkg/builtin"
	"github.com/opendemo/opendemo-cli/pkg/config"
	"github.com/opendemo/opendemo-cli/pkg/generate"
	"github.com/opendemo/opendemo-cli/pkg/repo"
	"github.com/opendemo/opendemo-cli/pkg/search"
	"github.com/opendemo/opendemo-cli/pkg/storage"
	"github.com/opendemo/opendemo-cli/pkg/verify"
)

var (
	outputFormat string
	quietMode    bool
	noColor      bool
	assumeYes    bool
)

// NewRootCommand creates the opendemo root command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "opendemo",
		Short: "Manage a library of runnable code demos",
		Long: `opendemo maintains a filesystem library of runnable code demos
across Python, Go, Node.js, Java and Kubernetes.

Demos come from three places: the builtin catalog shipped with the
binary, your personal library under ~/.opendemo/demos, and the output
directory of the current project. Library-specific demos (numpy, gin,
express, ...) are organized per library; kubernetes demos are organized
per tool.

When no existing demo matches, the AI service generates one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}
			cli.SetGlobalFlags(quietMode, noColor, assumeYes)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&outputFormat, "output", "o", "text", "Output format (text, json, yaml)")
	flags.BoolVarP(&quietMode, "quiet", "q", false, "Suppress informational output")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&assumeYes, "yes", "y", false, "Assume yes for confirmation prompts")

	root.AddCommand(
		NewGetCommand(),
		NewSearchCommand(),
		NewNewCommand(),
		NewListCommand(),
		NewShowCommand(),
		NewClipboardCommand(),
		NewVerifyCommand(),
		NewContributeCommand(),
		NewConfigCommand(),
		NewStatsCommand(),
		NewVersionCommand(),
	)

	return root
}

// app bundles the wired services a command needs. Each command builds one
// in its RunE so flag parsing happens before any filesystem work.
type app struct {
	Config     *config.Config
	Storage    *storage.Storage
	Repository *repo.Repository
	Search     *search.Search
	AI         *ai.Service
	Generator  *generate.Generator
	Verifier   *verify.Verifier
	Logger     *slog.Logger
}

// newApp wires the full service graph. The builtin catalog is extracted
// and migrated on first use.
func newApp() (*app, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}

	logger := newLogger()

	st, err := storage.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := ensureBuiltinCatalog(st, logger); err != nil {
		return nil, err
	}

	service := ai.New(cfg, logger)
	repository := repo.New(st, cfg, service, logger)

	return &app{
		Config:     cfg,
		Storage:    st,
		Repository: repository,
		Search:     search.New(repository),
		AI:         service,
		Generator:  generate.New(service, repository, cfg, logger),
		Verifier:   verify.New(cfg, logger),
		Logger:     logger,
	}, nil
}

// newLogger opens the JSON log file under ~/.opendemo/logs. Logging is
// best effort; when the file cannot be opened the logs are discarded.
func newLogger() *slog.Logger {
	home, err := os.UserHomeDir()
	if err != nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	logPath := filepath.Join(home, config.ConfigDirName, "logs", "opendemo.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// ensureBuiltinCatalog extracts the embedded demos next to the user
// library and runs the one-time library layout migration.
func ensureBuiltinCatalog(st *storage.Storage, logger *slog.Logger) error {
	builtinPath := st.BuiltinLibraryPath()
	if _, err := os.Stat(builtinPath); os.IsNotExist(err) {
		if err := builtin.Extract(builtinPath); err != nil {
			return fmt.Errorf("failed to extract builtin demos: %w", err)
		}
		logger.Info("extracted builtin catalog", "path", builtinPath)
	}

	if !st.MigrationCompleted() {
		if err := st.MigrateBuiltinLibraries(); err != nil {
			logger.Warn("builtin library migration failed", "error", err)
		}
	}
	return nil
}

// resolver returns a demo resolver over the output directory and the
// user library, in that order.
func (a *app) resolver() *cli.DemoResolver {
	return cli.NewDemoResolver(a.Storage.OutputDirectory(), a.Storage.UserLibraryPath())
}
