package readme

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestUpdater(t *testing.T) (*Updater, string, string) {
	t.Helper()
	base := t.TempDir()
	output := filepath.Join(base, "output")
	readmePath := filepath.Join(base, "README.md")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUpdater(output, readmePath, logger), output, readmePath
}

func mkdirs(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCollectStats(t *testing.T) {
	u, output, _ := newTestUpdater(t)
	mkdirs(t,
		filepath.Join(output, "python", "python-logging"),
		filepath.Join(output, "python", "python-http"),
		filepath.Join(output, "python", "libraries", "numpy", "array-creation"),
		filepath.Join(output, "python", "libraries", "numpy", "broadcasting"),
		filepath.Join(output, "python", "libraries", "empty-lib"),
		filepath.Join(output, "go", "go-channels"),
		filepath.Join(output, "kubernetes", "kubeskoop", "trace-demo"),
	)

	stats := u.CollectStats()

	py := stats["python"]
	if py.Base != 2 {
		t.Errorf("python base = %d, want 2", py.Base)
	}
	if py.Libraries["numpy"] != 2 {
		t.Errorf("numpy features = %d, want 2", py.Libraries["numpy"])
	}
	if _, ok := py.Libraries["empty-lib"]; ok {
		t.Error("library without features must be omitted")
	}

	if stats["go"].Base != 1 {
		t.Errorf("go base = %d, want 1", stats["go"].Base)
	}
	if stats["kubernetes"].Tools["kubeskoop"] != 1 {
		t.Errorf("kubeskoop demos = %d, want 1", stats["kubernetes"].Tools["kubeskoop"])
	}
	// Languages with no output directory still appear with zero counts.
	if stats["java"].Base != 0 {
		t.Errorf("java base = %d, want 0", stats["java"].Base)
	}

	base, features, grand := Totals(stats)
	if base != 3 || features != 3 || grand != 6 {
		t.Errorf("totals = %d/%d/%d, want 3/3/6", base, features, grand)
	}
}

func TestStatsTable(t *testing.T) {
	stats := map[string]LanguageStats{
		"python":     {Base: 2, Libraries: map[string]int{"numpy": 3}},
		"kubernetes": {Tools: map[string]int{"kubeskoop": 1}},
	}

	table := StatsTable(stats)
	for _, want := range []string{
		"| 🐍 **Python** | 2 | numpy(3) | 5 | ✅ |",
		"| ⎈ **Kubernetes** | 0 | kubeskoop(1) | 1 | ✅ |",
		"| 🐹 **Go** | 0 | - | 0 | ✅ |",
		"| **Total** | **2** | **4** | **6** | ✅ |",
	} {
		if !strings.Contains(table, want) {
			t.Errorf("table missing %q:\n%s", want, table)
		}
	}
}

func TestUpdate(t *testing.T) {
	u, output, readmePath := newTestUpdater(t)
	mkdirs(t, filepath.Join(output, "python", "python-logging"))

	original := strings.Join([]string{
		"# Open Demo",
		"",
		"[![Demos](https://img.shields.io/badge/Demos-999-orange.svg)](#)",
		"",
		"## 📊 Demo Stats",
		"",
		"| Language | Base Demos | Libraries/Tools | Total | Status |",
		"|---------|----------|----------|------|----------|",
		"| 🐍 **Python** | 0 | - | 0 | ✅ |",
		"| **Total** | **0** | **0** | **0** | ✅ |",
		"",
		"---",
		"",
		"## Usage",
		"Unrelated content stays put.",
	}, "\n")
	if err := os.WriteFile(readmePath, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	if !u.Update() {
		t.Fatal("Update failed")
	}

	data, err := os.ReadFile(readmePath)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.Contains(content, "Demos-1-orange.svg") {
		t.Error("badge count not rewritten")
	}
	if !strings.Contains(content, "| 🐍 **Python** | 1 | - | 1 | ✅ |") {
		t.Errorf("stats row not rewritten:\n%s", content)
	}
	if !strings.Contains(content, "Unrelated content stays put.") {
		t.Error("content outside the stats section was disturbed")
	}
}

func TestUpdateMissingReadme(t *testing.T) {
	u, _, _ := newTestUpdater(t)
	if u.Update() {
		t.Error("Update must fail when the README does not exist")
	}
}

func TestSummary(t *testing.T) {
	u, output, _ := newTestUpdater(t)
	mkdirs(t,
		filepath.Join(output, "python", "python-logging"),
		filepath.Join(output, "go", "go-channels"),
	)

	summary := u.Summary()
	for _, want := range []string{"Python: 1", "Go: 1", "total 2"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q: %s", want, summary)
		}
	}
}
