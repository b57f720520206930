package repo

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/opendemo/opendemo-cli/pkg/config"
	"github.com/opendemo/opendemo-cli/pkg/models"
	"github.com/opendemo/opendemo-cli/pkg/storage"
)

// KeywordClassifier is the AI collaborator consumed by library detection.
type KeywordClassifier interface {
	ClassifyKeyword(language, keyword string) models.Classification
}

// Repository is the authoritative facade over demo storage. It owns the
// in-memory caches; storage owns the bytes. All lookups that fail on I/O or
// parse errors are logged and surface as nil/false, never as errors.
//
// The caches are guarded by a mutex so a Repository can be shared beyond a
// one-shot CLI invocation.
type Repository struct {
	storage    *storage.Storage
	config     *config.Config
	classifier KeywordClassifier
	logger     *slog.Logger

	mu             sync.Mutex
	demoCache      map[string]*models.Demo
	libraryMeta    map[string]*models.LibraryMetadata
	libraryFeature map[string][]models.Feature
	supportedLibs  map[string][]string
}

// New creates a Repository. config and classifier may be nil; library
// detection then skips the AI step and contribution settings fall back to
// defaults.
func New(st *storage.Storage, cfg *config.Config, classifier KeywordClassifier, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		storage:        st,
		config:         cfg,
		classifier:     classifier,
		logger:         logger,
		demoCache:      make(map[string]*models.Demo),
		libraryMeta:    make(map[string]*models.LibraryMetadata),
		libraryFeature: make(map[string][]models.Feature),
		supportedLibs:  make(map[string][]string),
	}
}

// Storage exposes the underlying storage collaborator.
func (r *Repository) Storage() *storage.Storage {
	return r.storage
}

// LoadDemo reads a demo's metadata, memoizing by absolute path. Repeated
// calls for the same path return the same object until ClearCache.
func (r *Repository) LoadDemo(demoPath string) *models.Demo {
	key, err := filepath.Abs(demoPath)
	if err != nil {
		key = demoPath
	}

	r.mu.Lock()
	if demo, ok := r.demoCache[key]; ok {
		r.mu.Unlock()
		return demo
	}
	r.mu.Unlock()

	meta, err := r.storage.LoadDemoMetadata(demoPath)
	if err != nil {
		r.logger.Warn("failed to load demo metadata", "path", demoPath, "error", err)
		return nil
	}

	demo := &models.Demo{Path: demoPath, Meta: *meta}
	r.mu.Lock()
	r.demoCache[key] = demo
	r.mu.Unlock()
	return demo
}

// LoadAllDemos enumerates every demo in the given scope, skipping paths
// whose metadata cannot be loaded.
func (r *Repository) LoadAllDemos(scope, language string) []models.Demo {
	var demos []models.Demo
	for _, path := range r.storage.ListDemos(scope, language) {
		if demo := r.LoadDemo(path); demo != nil {
			demos = append(demos, *demo)
		}
	}
	return demos
}

// CreateDemoParams carries everything needed to persist a new demo.
type CreateDemoParams struct {
	Name              string
	Language          string
	Keywords          []string
	Description       string
	Files             []storage.FileContent
	Difficulty        string
	Author            string
	SaveToUserLibrary bool
	CustomFolderName  string
	LibraryName       string
}

// CreateDemo derives the target directory, assembles full metadata and
// persists the bundle. On success the demo is re-read from disk so the
// returned object reflects exactly what was written. Returns nil on
// failure; a partial write is not rolled back.
func (r *Repository) CreateDemo(p CreateDemoParams) *models.Demo {
	folderName := p.CustomFolderName
	if folderName == "" {
		// Library features live under the library's namespace, so the
		// language prefix would be redundant.
		includePrefix := p.LibraryName == ""
		folderName = safeName(p.Name, p.Language, includePrefix)
	}

	root := r.storage.OutputDirectory()
	if p.SaveToUserLibrary {
		root = r.storage.UserLibraryPath()
	}

	var addr Address
	if p.LibraryName != "" {
		addr = FeatureAddress(p.Language, p.LibraryName, folderName)
	} else {
		addr = PlainAddress(p.Language, folderName)
	}
	demoPath := addr.Join(root)

	difficulty := p.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyBeginner
	}

	now := time.Now().Format(time.RFC3339)
	bundle := storage.Bundle{
		Metadata: models.Metadata{
			Name:         p.Name,
			Language:     p.Language,
			Keywords:     p.Keywords,
			Description:  p.Description,
			Difficulty:   difficulty,
			Author:       p.Author,
			CreatedAt:    now,
			UpdatedAt:    now,
			Version:      "1.0.0",
			Verified:     false,
			Dependencies: map[string]any{},
		},
		Files: p.Files,
	}

	if err := r.storage.SaveDemo(bundle, demoPath); err != nil {
		r.logger.Error("failed to save demo", "path", demoPath, "error", err)
		return nil
	}
	return r.LoadDemo(demoPath)
}

// UpdateMetadata merges a partial update into the demo's metadata, bumps
// updated_at, writes it back and invalidates the cache entry.
func (r *Repository) UpdateMetadata(demo *models.Demo, updates map[string]any) bool {
	demo.Meta.Apply(updates)
	demo.Meta.UpdatedAt = time.Now().Format(time.RFC3339)

	data, err := json.MarshalIndent(demo.Meta, "", "  ")
	if err != nil {
		r.logger.Error("failed to marshal demo metadata", "path", demo.Path, "error", err)
		return false
	}
	if err := r.storage.WriteFile(filepath.Join(demo.Path, storage.MetadataFile), string(data)); err != nil {
		r.logger.Error("failed to update demo metadata", "path", demo.Path, "error", err)
		return false
	}

	key, err := filepath.Abs(demo.Path)
	if err != nil {
		key = demo.Path
	}
	r.mu.Lock()
	delete(r.demoCache, key)
	r.mu.Unlock()

	r.logger.Info("updated metadata", "demo", demo.Name())
	return true
}

// CopyToOutput materializes a demo into the output directory under its
// language subdirectory. Returns the destination path, or "" on failure.
func (r *Repository) CopyToOutput(demo *models.Demo, outputName string) string {
	targetName := outputName
	if targetName == "" {
		targetName = filepath.Base(demo.Path)
	}
	target := filepath.Join(r.storage.OutputDirectory(), strings.ToLower(demo.Language()), targetName)

	if err := r.storage.CopyDemo(demo.Path, target); err != nil {
		r.logger.Error("failed to copy demo to output", "demo", demo.Name(), "error", err)
		return ""
	}
	return target
}

// DemoFiles lists the demo's regular files, skipping dotfiles and runtime
// cache directories, each annotated with a human-readable description.
func (r *Repository) DemoFiles(demo *models.Demo) []models.DemoFile {
	var files []models.DemoFile

	filepath.WalkDir(demo.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(demo.Path, path)
		if err != nil {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || strings.Contains(rel, "__pycache__") {
			return nil
		}
		var size int64
		if info, err := d.Info(); err == nil {
			size = info.Size()
		}
		files = append(files, models.DemoFile{
			Name:        d.Name(),
			Path:        rel,
			FullPath:    path,
			Size:        size,
			Description: fileDescription(d.Name()),
		})
		return nil
	})

	return files
}

// ClearCache drops every cached demo, library and feature record.
func (r *Repository) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.demoCache = make(map[string]*models.Demo)
	r.libraryMeta = make(map[string]*models.LibraryMetadata)
	r.libraryFeature = make(map[string][]models.Feature)
	r.supportedLibs = make(map[string][]string)
	r.logger.Info("cleared repository caches")
}

// safeName derives an ASCII, hyphen-delimited folder name. Degenerate
// results (empty, the bare language, or the literal "demo") are replaced
// with a timestamped name before the language prefix is applied.
func safeName(name, language string, includeLanguagePrefix bool) string {
	lowered := strings.ToLower(name)
	lowered = strings.ReplaceAll(lowered, " ", "-")
	lowered = strings.ReplaceAll(lowered, "_", "-")

	var b strings.Builder
	for _, c := range lowered {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' {
			b.WriteRune(c)
		}
	}
	safe := b.String()
	for strings.Contains(safe, "--") {
		safe = strings.ReplaceAll(safe, "--", "-")
	}
	safe = strings.Trim(safe, "-")

	langLower := strings.ToLower(language)
	if safe == "" || safe == langLower || safe == "demo" {
		safe = fmt.Sprintf("demo-%d", time.Now().Unix())
	}

	if includeLanguagePrefix {
		return langLower + "-" + safe
	}
	return safe
}

// fileDescription maps well-known filenames and extensions to labels.
func fileDescription(filename string) string {
	switch filename {
	case "README.md":
		return "usage guide"
	case storage.MetadataFile:
		return "demo metadata"
	case "requirements.txt":
		return "Python dependencies"
	case "pom.xml", "build.gradle":
		return "Java dependencies"
	case "go.mod":
		return "Go dependencies"
	case "package.json":
		return "Node.js dependencies"
	}

	switch filepath.Ext(filename) {
	case ".py":
		return "Python code"
	case ".java":
		return "Java code"
	case ".go":
		return "Go code"
	case ".js":
		return "JavaScript code"
	}
	return "other file"
}
