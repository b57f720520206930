package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opendemo/opendemo-cli/pkg/storage"
)

// ContributionInfo is the submission record assembled for a validated demo.
type ContributionInfo struct {
	DemoPath      string `json:"demo_path"`
	Name          string `json:"name"`
	Language      string `json:"language"`
	Description   string `json:"description"`
	Author        string `json:"author"`
	AuthorEmail   string `json:"author_email"`
	RepositoryURL string `json:"repository_url"`
}

var codeExtensions = map[string]bool{
	".py":   true,
	".java": true,
	".go":   true,
	".js":   true,
}

// ValidateContribution checks a demo against the contribution requirements:
// metadata and README present, a code directory with at least one source
// file, and a README long enough to be useful. Returns every problem found.
func (r *Repository) ValidateContribution(demoPath string) (bool, []string) {
	var errors []string

	for _, name := range []string{storage.MetadataFile, "README.md"} {
		if _, err := os.Stat(filepath.Join(demoPath, name)); err != nil {
			errors = append(errors, fmt.Sprintf("missing required file: %s", name))
		}
	}

	codeDir := filepath.Join(demoPath, "code")
	entries, err := os.ReadDir(codeDir)
	if err != nil {
		errors = append(errors, "missing code directory")
	} else {
		found := false
		for _, e := range entries {
			if !e.IsDir() && codeExtensions[filepath.Ext(e.Name())] {
				found = true
				break
			}
		}
		if !found {
			errors = append(errors, "no code files found in code directory")
		}
	}

	if content, err := r.storage.ReadFile(filepath.Join(demoPath, "README.md")); err == nil {
		if len(content) > 0 && len(content) < 100 {
			errors = append(errors, "README.md content is too short")
		}
	}

	return len(errors) == 0, errors
}

// ContributeToUserLibrary copies a demo into the user library under its
// language directory. Returns the new path, or "" on failure.
func (r *Repository) ContributeToUserLibrary(demoPath string) string {
	meta, err := r.storage.LoadDemoMetadata(demoPath)
	if err != nil {
		r.logger.Error("failed to load metadata for contribution", "path", demoPath, "error", err)
		return ""
	}

	language := strings.ToLower(meta.Language)
	if language == "" {
		language = "unknown"
	}
	target := filepath.Join(r.storage.UserLibraryPath(), language, filepath.Base(demoPath))

	if err := r.storage.CopyDemo(demoPath, target); err != nil {
		r.logger.Error("failed to copy demo to user library", "path", demoPath, "error", err)
		return ""
	}
	r.logger.Info("copied demo to user library", "target", target)
	return target
}

// PrepareContributionInfo validates the demo and assembles the submission
// record, pulling author details from configuration. Returns nil when the
// demo does not pass validation.
func (r *Repository) PrepareContributionInfo(demoPath string) *ContributionInfo {
	valid, problems := r.ValidateContribution(demoPath)
	if !valid {
		r.logger.Error("demo failed contribution validation", "path", demoPath, "problems", strings.Join(problems, "; "))
		return nil
	}

	meta, err := r.storage.LoadDemoMetadata(demoPath)
	if err != nil {
		r.logger.Error("failed to load metadata for contribution", "path", demoPath, "error", err)
		return nil
	}

	info := &ContributionInfo{
		DemoPath:    demoPath,
		Name:        meta.Name,
		Language:    meta.Language,
		Description: meta.Description,
	}
	if r.config != nil {
		info.Author = r.config.GetString("contribution.author_name", "")
		info.AuthorEmail = r.config.GetString("contribution.author_email", "")
		info.RepositoryURL = r.config.GetString("contribution.repository_url", "")
	}
	return info
}

// ContributionMessage renders the submission text for a contribution.
func ContributionMessage(info *ContributionInfo) string {
	lines := []string{
		fmt.Sprintf("# New demo contribution: %s", info.Name),
		"",
		fmt.Sprintf("**Language**: %s", info.Language),
		fmt.Sprintf("**Description**: %s", info.Description),
		fmt.Sprintf("**Author**: %s <%s>", info.Author, info.AuthorEmail),
		"",
		"## Checklist",
		"- [x] Complete README.md",
		"- [x] Runnable code files",
		"- [x] metadata.json",
		"- [ ] Verified locally",
		"",
		"## Notes",
		"This demo was tested locally and runs as expected.",
	}
	return strings.Join(lines, "\n")
}
