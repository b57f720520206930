package repo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opendemo/opendemo-cli/pkg/models"
	"github.com/opendemo/opendemo-cli/pkg/storage"
)

func writeContributableDemo(t *testing.T, dir string) {
	t.Helper()
	writeDemo(t, dir, models.Metadata{
		Name:        "python-logging-basics",
		Language:    "Python",
		Description: "logging walkthrough",
	})
	readme := "# Logging Basics\n\n" + strings.Repeat("Explains structured logging in detail. ", 5)
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte(readme), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "code"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "code", "main.py"), []byte("print('x')\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestValidateContribution(t *testing.T) {
	r, _, _, output := newTestRepo(t)

	complete := filepath.Join(output, "python", "complete")
	writeContributableDemo(t, complete)
	if ok, problems := r.ValidateContribution(complete); !ok {
		t.Errorf("complete demo rejected: %v", problems)
	}

	tests := []struct {
		name    string
		mutate  func(t *testing.T, dir string)
		problem string
	}{
		{
			name: "missing readme",
			mutate: func(t *testing.T, dir string) {
				os.Remove(filepath.Join(dir, "README.md"))
			},
			problem: "missing required file: README.md",
		},
		{
			name: "missing code directory",
			mutate: func(t *testing.T, dir string) {
				os.RemoveAll(filepath.Join(dir, "code"))
			},
			problem: "missing code directory",
		},
		{
			name: "no code files",
			mutate: func(t *testing.T, dir string) {
				os.Remove(filepath.Join(dir, "code", "main.py"))
			},
			problem: "no code files found in code directory",
		},
		{
			name: "short readme",
			mutate: func(t *testing.T, dir string) {
				os.WriteFile(filepath.Join(dir, "README.md"), []byte("# tiny"), 0o644)
			},
			problem: "README.md content is too short",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(output, "python", "broken-"+strings.ReplaceAll(tt.name, " ", "-"))
			writeContributableDemo(t, dir)
			tt.mutate(t, dir)

			ok, problems := r.ValidateContribution(dir)
			if ok {
				t.Fatal("expected validation failure")
			}
			found := false
			for _, p := range problems {
				if p == tt.problem {
					found = true
				}
			}
			if !found {
				t.Errorf("problems = %v, want to include %q", problems, tt.problem)
			}
		})
	}
}

func TestContributeToUserLibrary(t *testing.T) {
	r, _, user, output := newTestRepo(t)
	dir := filepath.Join(output, "python", "python-logging-basics")
	writeContributableDemo(t, dir)

	got := r.ContributeToUserLibrary(dir)
	want := filepath.Join(user, "python", "python-logging-basics")
	if got != want {
		t.Errorf("ContributeToUserLibrary = %q, want %q", got, want)
	}
	if _, err := os.Stat(filepath.Join(got, storage.MetadataFile)); err != nil {
		t.Errorf("contributed demo missing: %v", err)
	}

	if got := r.ContributeToUserLibrary(filepath.Join(output, "nope")); got != "" {
		t.Errorf("expected empty path for missing demo, got %q", got)
	}
}

func TestPrepareContributionInfo(t *testing.T) {
	r, _, _, output := newTestRepo(t)
	dir := filepath.Join(output, "python", "python-logging-basics")
	writeContributableDemo(t, dir)

	info := r.PrepareContributionInfo(dir)
	if info == nil {
		t.Fatal("expected contribution info")
	}
	if info.Name != "python-logging-basics" || info.Language != "Python" {
		t.Errorf("unexpected info: %+v", info)
	}

	msg := ContributionMessage(info)
	if !strings.Contains(msg, "python-logging-basics") || !strings.Contains(msg, "## Checklist") {
		t.Errorf("unexpected message:\n%s", msg)
	}

	invalid := filepath.Join(output, "python", "invalid")
	writeDemo(t, invalid, models.Metadata{Name: "invalid", Language: "python"})
	if info := r.PrepareContributionInfo(invalid); info != nil {
		t.Errorf("expected nil for invalid demo, got %+v", info)
	}
}
