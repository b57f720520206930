package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigDirName is the per-user directory under $HOME holding the
	// global config, the user demo library and logs.
	ConfigDirName     = ".opendemo"
	GlobalConfigName  = "config.yaml"
	ProjectConfigName = ".opendemo.yaml"
)

// Env overrides for secrets, loaded from the environment or a .env file.
const (
	EnvAPIKey   = "OPENDEMO_AI_API_KEY"
	EnvEndpoint = "OPENDEMO_AI_API_ENDPOINT"
	EnvModel    = "OPENDEMO_AI_MODEL"
)

// Config loads and merges the default, global and project configuration.
// Project values override global values, which override the defaults.
// Values are addressed with dotted keys such as "ai.api_key".
type Config struct {
	globalPath  string
	projectPath string
	loaded      map[string]any
}

// Defaults returns the built-in configuration tree.
func Defaults() map[string]any {
	home, _ := os.UserHomeDir()
	return map[string]any{
		"output_directory":     "./opendemo_output",
		"user_demo_library":    filepath.Join(home, ConfigDirName, "demos"),
		"default_language":     "python",
		"enable_verification":  false,
		"verification_method":  "venv",
		"verification_timeout": 300,
		"ai": map[string]any{
			"provider":       "openai",
			"api_key":        "",
			"api_endpoint":   "",
			"model":          "gpt-4",
			"temperature":    0.7,
			"max_tokens":     4000,
			"timeout":        60,
			"retry_times":    3,
			"retry_interval": 5,
		},
		"contribution": map[string]any{
			"auto_prompt":    true,
			"author_name":    "",
			"author_email":   "",
			"repository_url": "https://github.com/opendemo/demos",
		},
		"display": map[string]any{
			"color_output": true,
			"page_size":    10,
			"verbose":      false,
		},
	}
}

// New creates a Config rooted at the user's home directory. The user
// directories (demos, logs) are created if missing.
func New() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}

	userDir := filepath.Join(home, ConfigDirName)
	for _, dir := range []string{userDir, filepath.Join(userDir, "demos"), filepath.Join(userDir, "logs")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return &Config{
		globalPath:  filepath.Join(userDir, GlobalConfigName),
		projectPath: ProjectConfigName,
	}, nil
}

// NewAt creates a Config reading explicit global and project config file
// paths. No directories are created.
func NewAt(globalPath, projectPath string) *Config {
	return &Config{globalPath: globalPath, projectPath: projectPath}
}

// GlobalPath returns the path of the global config file.
func (c *Config) GlobalPath() string {
	return c.globalPath
}

// Load merges defaults, global config, project config and env overrides.
// The result is cached for the lifetime of the Config.
func (c *Config) Load() map[string]any {
	if c.loaded != nil {
		return c.loaded
	}

	merged := Defaults()
	if global, err := readYAML(c.globalPath); err == nil {
		merged = mergeMaps(merged, global)
	}
	if project, err := readYAML(c.projectPath); err == nil {
		merged = mergeMaps(merged, project)
	}

	applyEnvOverrides(merged)

	c.loaded = merged
	return merged
}

// applyEnvOverrides lets the environment (or a .env file in the working
// directory) override AI credentials without touching config files.
func applyEnvOverrides(config map[string]any) {
	godotenv.Load()

	overrides := map[string]string{
		EnvAPIKey:   "ai.api_key",
		EnvEndpoint: "ai.api_endpoint",
		EnvModel:    "ai.model",
	}
	for env, key := range overrides {
		if value := os.Getenv(env); value != "" {
			setNested(config, key, value)
		}
	}
}

// Get returns the value at the dotted key, or def when absent.
func (c *Config) Get(key string, def any) any {
	value := any(c.Load())
	for _, part := range strings.Split(key, ".") {
		node, ok := value.(map[string]any)
		if !ok {
			return def
		}
		value, ok = node[part]
		if !ok {
			return def
		}
	}
	return value
}

// GetString returns the string value at key, or def.
func (c *Config) GetString(key, def string) string {
	if v, ok := c.Get(key, def).(string); ok {
		return v
	}
	return def
}

// GetBool returns the bool value at key, or def.
func (c *Config) GetBool(key string, def bool) bool {
	if v, ok := c.Get(key, def).(bool); ok {
		return v
	}
	return def
}

// GetInt returns the int value at key, or def. YAML numbers may decode as
// int or float64 depending on source.
func (c *Config) GetInt(key string, def int) int {
	switch v := c.Get(key, def).(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

// GetFloat returns the float value at key, or def.
func (c *Config) GetFloat(key string, def float64) float64 {
	switch v := c.Get(key, def).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// Set writes a value at the dotted key into the global or project config
// file and drops the loaded cache.
func (c *Config) Set(key string, value any, global bool) error {
	path := c.globalPath
	if !global {
		path = c.projectPath
	}

	config, err := readYAML(path)
	if err != nil {
		config = map[string]any{}
	}
	setNested(config, key, value)

	if err := writeYAML(path, config); err != nil {
		return err
	}
	c.loaded = nil
	return nil
}

// Init writes a fresh global config file. It refuses to overwrite an
// existing one.
func (c *Config) Init(apiKey string) error {
	if _, err := os.Stat(c.globalPath); err == nil {
		return fmt.Errorf("config file already exists at %s", c.globalPath)
	}

	config := Defaults()
	if apiKey != "" {
		setNested(config, "ai.api_key", apiKey)
	}
	return writeYAML(c.globalPath, config)
}

// Validate checks the loaded configuration and returns all problems found.
func (c *Config) Validate() []string {
	var errs []string

	if c.GetString("ai.api_key", "") == "" {
		errs = append(errs, "AI API key is not configured. Run 'opendemo config set ai.api_key YOUR_KEY'")
	}

	if dir := c.GetString("output_directory", ""); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			errs = append(errs, fmt.Sprintf("invalid output_directory: %v", err))
		}
	}

	if timeout := c.GetInt("verification_timeout", 300); timeout <= 0 {
		errs = append(errs, "verification_timeout must be a positive integer")
	}

	return errs
}

// All returns a copy of the merged configuration tree.
func (c *Config) All() map[string]any {
	return mergeMaps(map[string]any{}, c.Load())
}

func readYAML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config := map[string]any{}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}

func writeYAML(path string, config map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// mergeMaps deep-merges override into base, returning a new map. Nested
// maps merge recursively; everything else is replaced.
func mergeMaps(base, override map[string]any) map[string]any {
	result := make(map[string]any, len(base))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range override {
		if baseMap, ok := result[k].(map[string]any); ok {
			if overrideMap, ok := v.(map[string]any); ok {
				result[k] = mergeMaps(baseMap, overrideMap)
				continue
			}
		}
		result[k] = v
	}
	return result
}

func setNested(config map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	current := config
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
