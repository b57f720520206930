package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDemoDir(t *testing.T, root, language, name string) string {
	t.Helper()
	dir := filepath.Join(root, language, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestDemoResolverQualifiedReference(t *testing.T) {
	output := t.TempDir()
	want := writeDemoDir(t, output, "python", "python-logging")

	r := NewDemoResolver(output)
	got, err := r.Resolve("python/python-logging")
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestDemoResolverBareName(t *testing.T) {
	output := t.TempDir()
	user := t.TempDir()
	want := writeDemoDir(t, output, "go", "go-channels")

	r := NewDemoResolver(output, user)
	got, err := r.Resolve("go-channels")
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}

	if _, err := r.Resolve("missing"); err == nil {
		t.Error("expected error for unknown demo")
	}
}

func TestDemoResolverAmbiguousName(t *testing.T) {
	output := t.TempDir()
	writeDemoDir(t, output, "python", "hello")
	writeDemoDir(t, output, "go", "hello")

	r := NewDemoResolver(output)
	_, err := r.Resolve("hello")
	if err == nil || !strings.Contains(err.Error(), "multiple demos") {
		t.Errorf("expected ambiguity error, got %v", err)
	}
}

func TestValidateLanguage(t *testing.T) {
	if err := ValidateLanguage("Python"); err != nil {
		t.Errorf("ValidateLanguage(Python) = %v", err)
	}
	if err := ValidateLanguage("cobol"); err == nil {
		t.Error("expected error for unsupported language")
	}
}

func TestValidateDifficulty(t *testing.T) {
	for _, d := range []string{"", "beginner", "Intermediate", "advanced"} {
		if err := ValidateDifficulty(d); err != nil {
			t.Errorf("ValidateDifficulty(%q) = %v", d, err)
		}
	}
	if err := ValidateDifficulty("expert"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
}

func TestValidateDemoName(t *testing.T) {
	if err := ValidateDemoName("python-logging"); err != nil {
		t.Errorf("ValidateDemoName = %v", err)
	}
	for _, bad := range []string{"", "a/b", "..", "~home"} {
		if err := ValidateDemoName(bad); err == nil {
			t.Errorf("ValidateDemoName(%q) = nil, want error", bad)
		}
	}
}
