package readme

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// SupportedLanguages is the fixed language set tracked by the stats table.
var SupportedLanguages = []string{"python", "go", "nodejs", "java", "kubernetes"}

var languageDisplay = map[string]struct {
	Emoji string
	Name  string
}{
	"python":     {"🐍", "Python"},
	"go":         {"🐹", "Go"},
	"nodejs":     {"🟢", "Node.js"},
	"java":       {"☕", "Java"},
	"kubernetes": {"⎈", "Kubernetes"},
}

const statsHeader = "## 📊 Demo Stats"

var (
	statsSectionPattern = regexp.MustCompile(`(?s)## 📊 Demo Stats\n\n\| Language \| Base Demos.*?\n\| \*\*Total\*\* \|[^\n]*`)
	badgePattern        = regexp.MustCompile(`\[!\[Demos\]\(https://img\.shields\.io/badge/Demos-\d+-orange\.svg\)\]`)
)

// LanguageStats holds the demo counts for one language: plain demos plus
// per-library (or per-tool for kubernetes) feature counts.
type LanguageStats struct {
	Base      int
	Libraries map[string]int
	Tools     map[string]int
}

// Updater keeps a README's stats table and badge in sync with the output
// directory.
type Updater struct {
	outputDir  string
	readmePath string
	logger     *slog.Logger
}

func NewUpdater(outputDir, readmePath string, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{outputDir: outputDir, readmePath: readmePath, logger: logger}
}

// CollectStats walks the output directory counting demos per language.
// Kubernetes counts tool demos; other languages split plain demos from
// libraries/<lib>/<feature> entries.
func (u *Updater) CollectStats() map[string]LanguageStats {
	stats := make(map[string]LanguageStats, len(SupportedLanguages))

	for _, lang := range SupportedLanguages {
		s := LanguageStats{Libraries: map[string]int{}, Tools: map[string]int{}}
		langDir := filepath.Join(u.outputDir, lang)

		entries, err := os.ReadDir(langDir)
		if err != nil {
			stats[lang] = s
			continue
		}

		if lang == "kubernetes" {
			for _, e := range entries {
				if !e.IsDir() {
					continue
				}
				if n := countSubdirs(filepath.Join(langDir, e.Name())); n > 0 {
					s.Tools[e.Name()] = n
				}
			}
		} else {
			for _, e := range entries {
				if !e.IsDir() {
					continue
				}
				if e.Name() == "libraries" {
					libEntries, err := os.ReadDir(filepath.Join(langDir, "libraries"))
					if err != nil {
						continue
					}
					for _, lib := range libEntries {
						if !lib.IsDir() {
							continue
						}
						if n := countSubdirs(filepath.Join(langDir, "libraries", lib.Name())); n > 0 {
							s.Libraries[lib.Name()] = n
						}
					}
				} else {
					s.Base++
				}
			}
		}
		stats[lang] = s
	}
	return stats
}

// Totals sums the collected stats across languages.
func Totals(stats map[string]LanguageStats) (base, features, grand int) {
	for _, s := range stats {
		base += s.Base
		for _, n := range s.Libraries {
			features += n
		}
		for _, n := range s.Tools {
			features += n
		}
	}
	return base, features, base + features
}

// StatsTable renders the markdown stats table.
func StatsTable(stats map[string]LanguageStats) string {
	base, features, grand := Totals(stats)

	lines := []string{
		statsHeader,
		"",
		"| Language | Base Demos | Libraries/Tools | Total | Status |",
		"|---------|----------|----------|------|----------|",
	}

	for _, lang := range []string{"python", "go", "nodejs", "kubernetes"} {
		display := languageDisplay[lang]
		s := stats[lang]

		featureSet := s.Libraries
		if lang == "kubernetes" {
			featureSet = s.Tools
		}

		info := "-"
		if len(featureSet) > 0 {
			names := make([]string, 0, len(featureSet))
			for name := range featureSet {
				names = append(names, name)
			}
			sort.Strings(names)
			parts := make([]string, len(names))
			for i, name := range names {
				parts[i] = fmt.Sprintf("%s(%d)", name, featureSet[name])
			}
			info = strings.Join(parts, ", ")
		}

		total := s.Base
		for _, n := range featureSet {
			total += n
		}
		lines = append(lines, fmt.Sprintf("| %s **%s** | %d | %s | %d | ✅ |",
			display.Emoji, display.Name, s.Base, info, total))
	}

	lines = append(lines, fmt.Sprintf("| **Total** | **%d** | **%d** | **%d** | ✅ |", base, features, grand))
	return strings.Join(lines, "\n")
}

// Update rewrites the README's stats section and demo-count badge in
// place. Returns false when the README does not exist or cannot be
// written.
func (u *Updater) Update() bool {
	data, err := os.ReadFile(u.readmePath)
	if err != nil {
		u.logger.Warn("README not found", "path", u.readmePath)
		return false
	}

	stats := u.CollectStats()
	_, _, grand := Totals(stats)

	content := string(data)
	content = statsSectionPattern.ReplaceAllString(content, StatsTable(stats))
	content = badgePattern.ReplaceAllString(content,
		fmt.Sprintf("[![Demos](https://img.shields.io/badge/Demos-%d-orange.svg)]", grand))

	if err := os.WriteFile(u.readmePath, []byte(content), 0644); err != nil {
		u.logger.Error("failed to write README", "path", u.readmePath, "error", err)
		return false
	}
	u.logger.Info("README updated", "total", grand)
	return true
}

// Summary renders a one-line count overview for CLI output.
func (u *Updater) Summary() string {
	stats := u.CollectStats()
	_, _, grand := Totals(stats)

	var parts []string
	for _, lang := range []string{"python", "go", "nodejs", "kubernetes"} {
		s := stats[lang]
		total := s.Base
		for _, n := range s.Libraries {
			total += n
		}
		for _, n := range s.Tools {
			total += n
		}
		parts = append(parts, fmt.Sprintf("%s: %d", languageDisplay[lang].Name, total))
	}
	return fmt.Sprintf("%s (total %d)", strings.Join(parts, ", "), grand)
}

func countSubdirs(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			n++
		}
	}
	return n
}
