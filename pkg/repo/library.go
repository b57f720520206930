package repo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/opendemo/opendemo-cli/pkg/models"
	"github.com/opendemo/opendemo-cli/pkg/storage"
)

// SupportedLibraries lists the registered library names for a language.
//
// For kubernetes the output root is authoritative: any tool directory with
// at least one valid feature demo counts. For other languages both the
// builtin and user roots are scanned for directories carrying a
// library-level marker file, builtin entries winning name collisions.
// Results are cached per language.
func (r *Repository) SupportedLibraries(language string) []string {
	lang := strings.ToLower(language)

	r.mu.Lock()
	if libs, ok := r.supportedLibs[lang]; ok {
		r.mu.Unlock()
		return libs
	}
	r.mu.Unlock()

	var libs []string
	if lang == KubernetesLanguage {
		libs = r.scanKubernetesTools()
	} else {
		seen := make(map[string]bool)
		roots := []string{r.storage.BuiltinLibraryPath(), r.storage.UserLibraryPath()}
		for _, root := range roots {
			dir := filepath.Join(root, lang, storage.LibrariesDir)
			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			for _, e := range entries {
				if !e.IsDir() || seen[e.Name()] {
					continue
				}
				marker := filepath.Join(dir, e.Name(), storage.LibraryMetadataFile)
				if _, err := os.Stat(marker); err == nil {
					seen[e.Name()] = true
					libs = append(libs, e.Name())
				}
			}
		}
		sort.Strings(libs)
	}

	r.mu.Lock()
	r.supportedLibs[lang] = libs
	r.mu.Unlock()
	return libs
}

func (r *Repository) scanKubernetesTools() []string {
	var tools []string
	root := filepath.Join(r.storage.OutputDirectory(), KubernetesLanguage)
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		children, err := os.ReadDir(filepath.Join(root, e.Name()))
		if err != nil {
			continue
		}
		for _, c := range children {
			if !c.IsDir() {
				continue
			}
			marker := filepath.Join(root, e.Name(), c.Name(), storage.MetadataFile)
			if _, err := os.Stat(marker); err == nil {
				tools = append(tools, e.Name())
				break
			}
		}
	}
	sort.Strings(tools)
	return tools
}

// DetectLibraryCommand interprets the first keyword as a potential library
// name. When it matches a registered library, the remaining keywords become
// the feature query. Returns nil when the input is a plain topic search.
func (r *Repository) DetectLibraryCommand(language string, keywords []string) *models.LibraryCommand {
	if len(keywords) == 0 {
		return nil
	}
	candidate := strings.ToLower(keywords[0])

	for _, lib := range r.SupportedLibraries(language) {
		if strings.ToLower(lib) != candidate {
			continue
		}
		meta := r.loadLibraryMetadata(language, lib)
		return &models.LibraryCommand{
			Library:         lib,
			Language:        strings.ToLower(language),
			FeatureKeywords: keywords[1:],
			Metadata:        meta,
		}
	}
	return nil
}

// DetectLibraryForNew decides whether a keyword names a library that may
// not be registered yet. The registry is consulted first, then the AI
// classifier when enabled, then the conservative lexical heuristic.
// Returns "" when the keyword is judged a plain topic.
func (r *Repository) DetectLibraryForNew(language, keyword string, useAI bool) string {
	verdict := r.classifyKeyword(language, keyword, useAI)
	if verdict.Library != "" {
		r.logger.Info("classified keyword as library",
			"keyword", keyword, "library", verdict.Library,
			"source", verdict.Source, "confidence", verdict.Confidence)
	}
	return verdict.Library
}

// LibraryInfo composes the library's metadata with its feature list.
// Returns nil when the library is not registered.
func (r *Repository) LibraryInfo(language, library string) *models.LibraryInfo {
	meta := r.loadLibraryMetadata(language, library)
	features := r.ListLibraryFeatures(language, library, "")
	if meta == nil && len(features) == 0 {
		return nil
	}
	return &models.LibraryInfo{
		Metadata:     meta,
		Features:     features,
		FeatureCount: len(features),
	}
}

// ListLibraryFeatures enumerates a library's feature demos. For general
// languages the builtin and user roots are scanned first; output-root
// entries that duplicate an already-seen name are dropped, since output is
// a materialized copy rather than a catalog of its own. For kubernetes only
// the output root is scanned. Results are cached per (language, library)
// and optionally post-filtered by category.
func (r *Repository) ListLibraryFeatures(language, library, category string) []models.Feature {
	lang := strings.ToLower(language)
	cacheKey := lang + ":" + library

	r.mu.Lock()
	cached, ok := r.libraryFeature[cacheKey]
	r.mu.Unlock()

	if !ok {
		var dirs []string
		if lang == KubernetesLanguage {
			dirs = []string{filepath.Join(r.storage.OutputDirectory(), KubernetesLanguage, library)}
		} else {
			dirs = []string{
				filepath.Join(r.storage.BuiltinLibraryPath(), lang, storage.LibrariesDir, library),
				filepath.Join(r.storage.UserLibraryPath(), lang, storage.LibrariesDir, library),
				filepath.Join(r.storage.OutputDirectory(), lang, storage.LibrariesDir, library),
			}
		}

		seen := make(map[string]bool)
		var features []models.Feature
		for _, dir := range dirs {
			for _, f := range r.scanLibraryFeatures(dir) {
				if seen[f.Name] {
					continue
				}
				seen[f.Name] = true
				features = append(features, f)
			}
		}
		cached = features

		r.mu.Lock()
		r.libraryFeature[cacheKey] = cached
		r.mu.Unlock()
	}

	if category == "" {
		return cached
	}
	var filtered []models.Feature
	for _, f := range cached {
		if strings.EqualFold(f.Category, category) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

func (r *Repository) scanLibraryFeatures(dir string) []models.Feature {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var features []models.Feature
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), "_") {
			continue
		}
		featurePath := filepath.Join(dir, e.Name())
		meta, err := r.storage.LoadDemoMetadata(featurePath)
		if err != nil {
			continue
		}

		title := meta.Title
		if title == "" {
			title = meta.Name
		}
		category := meta.Category
		if category == "" {
			category = "uncategorized"
		}
		difficulty := meta.Difficulty
		if difficulty == "" {
			difficulty = models.DifficultyBeginner
		}

		features = append(features, models.Feature{
			Name:        e.Name(),
			Path:        featurePath,
			Title:       title,
			Description: meta.Description,
			Difficulty:  difficulty,
			Keywords:    meta.Keywords,
			Category:    category,
			Library:     meta.Library,
			Meta:        *meta,
		})
	}
	return features
}

// LibraryDemo looks up one feature demo, preferring an already materialized
// copy: output root first, then user, then builtin. Note this is the
// reverse of enumeration's builtin-first bias.
func (r *Repository) LibraryDemo(language, library, feature string) *models.Demo {
	lang := strings.ToLower(language)

	var candidates []string
	if lang == KubernetesLanguage {
		candidates = []string{
			filepath.Join(r.storage.OutputDirectory(), KubernetesLanguage, library, feature),
		}
	} else {
		candidates = []string{
			filepath.Join(r.storage.OutputDirectory(), lang, storage.LibrariesDir, library, feature),
			filepath.Join(r.storage.UserLibraryPath(), lang, storage.LibrariesDir, library, feature),
			filepath.Join(r.storage.BuiltinLibraryPath(), lang, storage.LibrariesDir, library, feature),
		}
	}

	for _, path := range candidates {
		if _, err := os.Stat(filepath.Join(path, storage.MetadataFile)); err != nil {
			continue
		}
		if demo := r.LoadDemo(path); demo != nil {
			return demo
		}
	}
	return nil
}

// CopyLibraryFeatureToOutput materializes a library feature into the
// output directory, preserving the library path shape. Returns the
// destination path, or "" when the feature does not exist or copying fails.
func (r *Repository) CopyLibraryFeatureToOutput(language, library, feature string) string {
	demo := r.LibraryDemo(language, library, feature)
	if demo == nil {
		return ""
	}

	addr := FeatureAddress(language, library, feature)
	target := addr.Join(r.storage.OutputDirectory())
	if target == demo.Path {
		return target
	}

	if err := r.storage.CopyDemo(demo.Path, target); err != nil {
		r.logger.Error("failed to copy library feature", "library", library, "feature", feature, "error", err)
		return ""
	}
	return target
}

// loadLibraryMetadata reads the library-level marker file, user root taking
// priority over builtin. Returns nil when neither root has one. Cached per
// (language, library).
func (r *Repository) loadLibraryMetadata(language, library string) *models.LibraryMetadata {
	lang := strings.ToLower(language)
	cacheKey := lang + ":" + library

	r.mu.Lock()
	if meta, ok := r.libraryMeta[cacheKey]; ok {
		r.mu.Unlock()
		return meta
	}
	r.mu.Unlock()

	paths := []string{
		filepath.Join(r.storage.UserLibraryPath(), lang, storage.LibrariesDir, library, storage.LibraryMetadataFile),
		filepath.Join(r.storage.BuiltinLibraryPath(), lang, storage.LibrariesDir, library, storage.LibraryMetadataFile),
	}

	var meta *models.LibraryMetadata
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var m models.LibraryMetadata
		if err := json.Unmarshal(data, &m); err != nil {
			r.logger.Warn("invalid library metadata", "path", path, "error", err)
			continue
		}
		if m.Name == "" {
			m.Name = library
		}
		if m.Language == "" {
			m.Language = lang
		}
		meta = &m
		break
	}

	r.mu.Lock()
	r.libraryMeta[cacheKey] = meta
	r.mu.Unlock()
	return meta
}
