package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opendemo/opendemo-cli/internal/cli"
	"github.com/opendemo/opendemo-cli/pkg/config"
)

var (
	configAPIKey string
	configGlobal bool
)

// secretKeys are masked in get/list output.
var secretKeys = map[string]bool{
	"ai.api_key": true,
}

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage opendemo configuration",
		Long: `Manage the opendemo configuration.

Settings merge in order: built-in defaults, the global config at
~/.opendemo/config.yaml, a project-local .opendemo.yaml, and finally
the OPENDEMO_AI_* environment variables.`,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write an initial global config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	initCmd.Flags().StringVar(&configAPIKey, "api-key", "", "AI service API key to store")

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigGet,
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value with a dotted key, for example
ai.model or output_directory. Writes the project config by default;
--global writes ~/.opendemo/config.yaml instead.`,
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	}
	setCmd.Flags().BoolVarP(&configGlobal, "global", "g", false, "Write the global config instead of the project config")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigList,
	}

	cmd.AddCommand(initCmd, getCmd, setCmd, listCmd)
	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	if err := cfg.Init(configAPIKey); err != nil {
		return err
	}
	cli.PrintSuccess("Config written to %s", cfg.GlobalPath())
	if configAPIKey == "" {
		cli.PrintInfo("Set an API key later with: opendemo config set ai.api_key <key> --global")
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	key := args[0]
	value := cfg.Get(key, nil)
	if value == nil {
		return fmt.Errorf("unknown config key: %s", key)
	}
	fmt.Println(maskSecret(key, value))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	key, raw := args[0], args[1]
	if err := cfg.Set(key, parseConfigValue(raw), configGlobal); err != nil {
		return err
	}

	scope := "project"
	if configGlobal {
		scope = "global"
	}
	cli.PrintSuccess("Set %s (%s config)", key, scope)
	return nil
}

func runConfigList(cmd *cobra.Command, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	flat := flattenConfig("", cfg.All())

	if outputFormat != string(cli.FormatText) {
		masked := make(map[string]any, len(flat))
		for k, v := range flat {
			masked[k] = maskSecret(k, v)
		}
		return cli.OutputResults(os.Stdout, outputFormat, masked)
	}

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	table := cli.NewTableFormatter(os.Stdout)
	table.Header("KEY", "VALUE")
	for _, k := range keys {
		table.Row(k, fmt.Sprintf("%v", maskSecret(k, flat[k])))
	}
	table.Flush()

	for _, warning := range cfg.Validate() {
		cli.PrintWarning("%s", warning)
	}
	return nil
}

// maskSecret hides all but the tail of secret values.
func maskSecret(key string, value any) any {
	if !secretKeys[key] {
		return value
	}
	s, ok := value.(string)
	if !ok || s == "" {
		return value
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

// parseConfigValue keeps bools and integers typed so yaml round-trips
// them properly.
func parseConfigValue(raw string) any {
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	var n int
	if _, err := fmt.Sscanf(raw, "%d", &n); err == nil && fmt.Sprintf("%d", n) == raw {
		return n
	}
	return raw
}

// flattenConfig turns the nested config tree into dotted keys.
func flattenConfig(prefix string, tree map[string]any) map[string]any {
	flat := make(map[string]any)
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			for nk, nv := range flattenConfig(key, nested) {
				flat[nk] = nv
			}
			continue
		}
		flat[key] = v
	}
	return flat
}
