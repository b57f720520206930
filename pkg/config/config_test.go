package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestConfig(t *testing.T) (*Config, string, string) {
	t.Helper()
	dir := t.TempDir()
	global := filepath.Join(dir, "config.yaml")
	project := filepath.Join(dir, ".opendemo.yaml")
	return NewAt(global, project), global, project
}

func TestDefaultsOnly(t *testing.T) {
	cfg, _, _ := newTestConfig(t)

	if got := cfg.GetString("default_language", ""); got != "python" {
		t.Errorf("default_language = %q, want python", got)
	}
	if got := cfg.GetBool("enable_verification", true); got {
		t.Error("verification should default to disabled")
	}
	if got := cfg.GetInt("ai.retry_times", 0); got != 3 {
		t.Errorf("ai.retry_times = %d, want 3", got)
	}
	if got := cfg.GetFloat("ai.temperature", 0); got != 0.7 {
		t.Errorf("ai.temperature = %v, want 0.7", got)
	}
}

func TestProjectOverridesGlobal(t *testing.T) {
	cfg, global, project := newTestConfig(t)

	if err := os.WriteFile(global, []byte("default_language: go\nai:\n  model: gpt-3.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(project, []byte("default_language: nodejs\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := cfg.GetString("default_language", ""); got != "nodejs" {
		t.Errorf("default_language = %q, want the project value", got)
	}
	// Merging is deep: the global ai.model survives, other ai defaults too.
	if got := cfg.GetString("ai.model", ""); got != "gpt-3.5" {
		t.Errorf("ai.model = %q, want gpt-3.5", got)
	}
	if got := cfg.GetInt("ai.max_tokens", 0); got != 4000 {
		t.Errorf("ai.max_tokens = %d, want the default", got)
	}
}

func TestEnvOverridesFiles(t *testing.T) {
	cfg, global, _ := newTestConfig(t)
	if err := os.WriteFile(global, []byte("ai:\n  api_key: from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIKey, "from-env")

	if got := cfg.GetString("ai.api_key", ""); got != "from-env" {
		t.Errorf("ai.api_key = %q, want the env value", got)
	}
}

func TestGetMissingKey(t *testing.T) {
	cfg, _, _ := newTestConfig(t)

	if got := cfg.Get("no.such.key", "fallback"); got != "fallback" {
		t.Errorf("Get = %v, want fallback", got)
	}
	if got := cfg.GetString("ai", "def"); got != "def" {
		t.Errorf("GetString on a subtree = %q, want the default", got)
	}
}

func TestSetAndReload(t *testing.T) {
	cfg, _, project := newTestConfig(t)

	if err := cfg.Set("ai.model", "gpt-4o", false); err != nil {
		t.Fatal(err)
	}
	if got := cfg.GetString("ai.model", ""); got != "gpt-4o" {
		t.Errorf("ai.model after Set = %q", got)
	}
	if _, err := os.Stat(project); err != nil {
		t.Error("Set without --global should write the project file")
	}

	if err := cfg.Set("display.page_size", 25, true); err != nil {
		t.Fatal(err)
	}
	if got := cfg.GetInt("display.page_size", 0); got != 25 {
		t.Errorf("display.page_size = %d, want 25", got)
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	cfg, global, _ := newTestConfig(t)

	if err := cfg.Init("sk-test"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(global); err != nil {
		t.Fatal("init should write the global config")
	}
	if got := cfg.GetString("ai.api_key", ""); got != "sk-test" {
		t.Errorf("ai.api_key = %q, want sk-test", got)
	}

	if err := cfg.Init(""); err == nil {
		t.Error("second init should refuse to overwrite")
	}
}

func TestValidate(t *testing.T) {
	cfg, global, _ := newTestConfig(t)
	outDir := filepath.Join(t.TempDir(), "out")
	if err := os.WriteFile(global, []byte("output_directory: "+outDir+"\nverification_timeout: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	problems := cfg.Validate()
	var sawKey, sawTimeout bool
	for _, p := range problems {
		if strings.Contains(p, "API key") {
			sawKey = true
		}
		if strings.Contains(p, "verification_timeout") {
			sawTimeout = true
		}
	}
	if !sawKey || !sawTimeout {
		t.Errorf("Validate = %v, want missing-key and timeout problems", problems)
	}
}
