package verify

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opendemo/opendemo-cli/pkg/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func enabledConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("enable_verification: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return config.NewAt(path, filepath.Join(dir, "project.yaml"))
}

func TestVerifySkippedWhenDisabled(t *testing.T) {
	v := New(nil, discardLogger())
	result := v.Verify(context.Background(), t.TempDir(), "python")
	if !result.Skipped {
		t.Errorf("expected skip when verification is disabled, got %+v", result)
	}
	if result.Message != "Verification is disabled" {
		t.Errorf("message = %q", result.Message)
	}
}

func TestVerifyUnsupportedLanguage(t *testing.T) {
	v := New(enabledConfig(t), discardLogger())
	result := v.Verify(context.Background(), t.TempDir(), "cobol")
	if result.Verified || len(result.Errors) == 0 {
		t.Errorf("expected unsupported-language error, got %+v", result)
	}
	if !strings.Contains(result.Errors[0], "cobol") {
		t.Errorf("error should name the language: %v", result.Errors)
	}
}

func TestStageDemoIsolatesOriginal(t *testing.T) {
	src := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "code"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "code", "main.py"), []byte("print(1)\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	work, cleanup, err := stageDemo(src)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	copied := filepath.Join(work, "code", "main.py")
	if _, err := os.Stat(copied); err != nil {
		t.Fatalf("staged file missing: %v", err)
	}
	// Mutating the staged copy must not touch the source.
	if err := os.WriteFile(copied, []byte("changed"), 0o644); err != nil {
		t.Fatal(err)
	}
	original, err := os.ReadFile(filepath.Join(src, "code", "main.py"))
	if err != nil {
		t.Fatal(err)
	}
	if string(original) != "print(1)\n" {
		t.Error("source demo was mutated by staging")
	}

	cleanup()
	if _, err := os.Stat(work); !os.IsNotExist(err) {
		t.Error("cleanup did not remove the staging directory")
	}
}

func TestFindJavaMain(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"Helper.java": "public class Helper {}\n",
		"Main.java":   "public class Main {\n    public static void main(String[] args) {}\n}\n",
		"notes.txt":   "static void main",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if got := findJavaMain(dir); got != "Main" {
		t.Errorf("findJavaMain = %q, want Main", got)
	}
	if got := javaSources(dir); len(got) != 2 {
		t.Errorf("javaSources = %v, want the two .java files", got)
	}

	os.Remove(filepath.Join(dir, "Main.java"))
	if got := findJavaMain(dir); got != "" {
		t.Errorf("findJavaMain without a main method = %q, want empty", got)
	}
	if got := findJavaMain(filepath.Join(dir, "missing")); got != "" {
		t.Errorf("findJavaMain on missing dir = %q, want empty", got)
	}
}

func TestFindNodeMain(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"helper.js", "index.js", "main.js"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("//"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if got := findNodeMain(dir); filepath.Base(got) != "main.js" {
		t.Errorf("findNodeMain = %q, want main.js preferred", got)
	}

	os.Remove(filepath.Join(dir, "main.js"))
	if got := findNodeMain(dir); filepath.Base(got) != "index.js" {
		t.Errorf("findNodeMain = %q, want index.js next", got)
	}

	if got := findNodeMain(filepath.Join(dir, "missing")); got != "" {
		t.Errorf("findNodeMain on missing dir = %q, want empty", got)
	}
}

func TestFindManifests(t *testing.T) {
	dir := t.TempDir()
	files := []string{"deployment.yaml", "service.yml", "Chart.yaml", "values.yaml", "README.md"}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	manifests := findManifests(dir)
	if len(manifests) != 2 {
		t.Fatalf("manifests = %v, want deployment and service only", manifests)
	}
	for _, m := range manifests {
		base := filepath.Base(m)
		if base == "Chart.yaml" || base == "values.yaml" {
			t.Errorf("chart files must not be dry-run applied: %s", base)
		}
	}
}

func TestReport(t *testing.T) {
	result := Result{
		Verified: true,
		Method:   "go",
		Steps:    []string{"Build check passed", "Executed Go code"},
		Outputs:  []string{"=== Go Output ===\nhello"},
	}

	report := Report(result)
	for _, want := range []string{"✓ passed", "Method: go", "1. Build check passed", "hello"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}

	failed := Report(Result{Errors: []string{"build failed"}})
	if !strings.Contains(failed, "✗ failed") || !strings.Contains(failed, "- build failed") {
		t.Errorf("failure report malformed:\n%s", failed)
	}

	skipped := Report(Result{Skipped: true, Message: "Verification is disabled"})
	if !strings.Contains(skipped, "skipped - Verification is disabled") {
		t.Errorf("skip report malformed:\n%s", skipped)
	}
}
