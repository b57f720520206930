package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestQuickStart(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"main.py", "metadata.json", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got := quickStart(dir, "python-logging", "Structured logging basics")

	if !strings.HasPrefix(got, "# python-logging\n") {
		t.Errorf("missing title header:\n%s", got)
	}
	if !strings.Contains(got, "Structured logging basics") {
		t.Error("missing description")
	}
	if !strings.Contains(got, "- main.py") || !strings.Contains(got, "- metadata.json") {
		t.Error("missing file entries")
	}
	if strings.Contains(got, ".hidden") {
		t.Error("dotfiles should be skipped")
	}
}

func TestQuickStartNoDescription(t *testing.T) {
	got := quickStart(t.TempDir(), "go-channels", "")
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("blank description should not leave an empty paragraph:\n%q", got)
	}
}
