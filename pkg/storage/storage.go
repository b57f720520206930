package storage

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/opendemo/opendemo-cli/pkg/config"
	"github.com/opendemo/opendemo-cli/pkg/models"
)

const (
	// MetadataFile marks a directory as a demo.
	MetadataFile = "metadata.json"
	// LibraryMetadataFile marks a directory as a library catalog entry.
	// Its presence, not a demo's metadata file, registers a library.
	LibraryMetadataFile = "_library.json"
	// LibrariesDir is the path segment grouping library demos under a
	// language root. The kubernetes pseudo-language bypasses it.
	LibrariesDir = "libraries"
	// BuiltinDir is the extracted builtin catalog under ~/.opendemo.
	BuiltinDir = "builtin"

	migrationMarker = ".migration_completed"
)

// Library scopes for enumeration.
const (
	ScopeBuiltin = "builtin"
	ScopeUser    = "user"
	ScopeAll     = "all"
)

// FileContent is one file of a demo bundle to be written.
type FileContent struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Bundle is a demo's metadata plus its files, the unit SaveDemo persists.
type Bundle struct {
	Metadata models.Metadata `json:"metadata"`
	Files    []FileContent   `json:"files"`
}

// Storage owns all filesystem access for the three demo roots: the builtin
// catalog, the user library, and the output directory.
type Storage struct {
	builtinPath string
	userPath    string
	outputPath  string
	logger      *slog.Logger
}

// New builds a Storage from configuration. The builtin catalog lives under
// the user config directory and is seeded from the embedded demos on first
// use by the caller.
func New(cfg *config.Config, logger *slog.Logger) (*Storage, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}

	return NewWithPaths(
		filepath.Join(home, config.ConfigDirName, BuiltinDir),
		cfg.GetString("user_demo_library", filepath.Join(home, config.ConfigDirName, "demos")),
		cfg.GetString("output_directory", "./opendemo_output"),
		logger,
	), nil
}

// NewWithPaths builds a Storage over explicit roots.
func NewWithPaths(builtinPath, userPath, outputPath string, logger *slog.Logger) *Storage {
	if logger == nil {
		logger = slog.Default()
	}
	return &Storage{
		builtinPath: builtinPath,
		userPath:    userPath,
		outputPath:  outputPath,
		logger:      logger,
	}
}

// BuiltinLibraryPath returns the builtin catalog root.
func (s *Storage) BuiltinLibraryPath() string {
	return s.builtinPath
}

// UserLibraryPath returns the user library root, creating it if needed.
func (s *Storage) UserLibraryPath() string {
	if err := os.MkdirAll(s.userPath, 0755); err != nil {
		s.logger.Error("failed to create user library", "path", s.userPath, "error", err)
	}
	return s.userPath
}

// OutputDirectory returns the output root, creating it if needed.
func (s *Storage) OutputDirectory() string {
	if err := os.MkdirAll(s.outputPath, 0755); err != nil {
		s.logger.Error("failed to create output directory", "path", s.outputPath, "error", err)
	}
	return s.outputPath
}

// ListDemos returns the paths of all demo directories in the given scope,
// optionally restricted to one language. A directory is a demo iff it
// directly contains the metadata marker file.
func (s *Storage) ListDemos(scope, language string) []string {
	var roots []string
	if scope == ScopeAll || scope == ScopeUser {
		roots = append(roots, s.userPath)
	}
	if scope == ScopeAll || scope == ScopeBuiltin {
		roots = append(roots, s.builtinPath)
	}

	var demos []string
	for _, root := range roots {
		search := root
		if language != "" {
			search = filepath.Join(root, strings.ToLower(language))
		}
		demos = append(demos, findDemoDirs(search)...)
	}
	return demos
}

// findDemoDirs walks path collecting every directory that contains the
// metadata marker file.
func findDemoDirs(path string) []string {
	var demos []string
	filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && fileExists(filepath.Join(p, MetadataFile)) {
			demos = append(demos, p)
		}
		return nil
	})
	return demos
}

// LoadDemoMetadata reads and parses a demo's metadata file. A missing
// marker file or a parse failure returns an error; callers at the core
// boundary convert it to a nil demo.
func (s *Storage) LoadDemoMetadata(demoPath string) (*models.Metadata, error) {
	metadataPath := filepath.Join(demoPath, MetadataFile)

	data, err := os.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata %s: %w", metadataPath, err)
	}

	var meta models.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata %s: %w", metadataPath, err)
	}
	return &meta, nil
}

// SaveDemo writes a bundle's metadata and files under targetPath. The write
// is not transactional: a failure partway through leaves earlier files on
// disk.
func (s *Storage) SaveDemo(bundle Bundle, targetPath string) error {
	if err := os.MkdirAll(targetPath, 0755); err != nil {
		return fmt.Errorf("failed to create demo directory %s: %w", targetPath, err)
	}

	data, err := json.MarshalIndent(bundle.Metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(targetPath, MetadataFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	for _, file := range bundle.Files {
		filePath := filepath.Join(targetPath, file.Path)
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", file.Path, err)
		}
		if err := os.WriteFile(filePath, []byte(file.Content), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", file.Path, err)
		}
	}

	s.logger.Info("saved demo", "path", targetPath, "files", len(bundle.Files))
	return nil
}

// CopyDemo deep-copies a demo directory, replacing any existing target.
func (s *Storage) CopyDemo(sourcePath, targetPath string) error {
	if err := os.RemoveAll(targetPath); err != nil {
		return fmt.Errorf("failed to remove existing target %s: %w", targetPath, err)
	}
	if err := copyTree(sourcePath, targetPath); err != nil {
		return fmt.Errorf("failed to copy demo to %s: %w", targetPath, err)
	}
	s.logger.Info("copied demo", "from", sourcePath, "to", targetPath)
	return nil
}

// DeleteDemo removes a demo directory.
func (s *Storage) DeleteDemo(demoPath string) error {
	info, err := os.Stat(demoPath)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("demo path not found: %s", demoPath)
	}
	if err := os.RemoveAll(demoPath); err != nil {
		return fmt.Errorf("failed to delete demo %s: %w", demoPath, err)
	}
	s.logger.Info("deleted demo", "path", demoPath)
	return nil
}

// ReadFile returns a file's content.
func (s *Storage) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return string(data), nil
}

// WriteFile writes content, creating parent directories as needed.
func (s *Storage) WriteFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// EnsureDir creates a directory and its parents.
func (s *Storage) EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
