package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MigratedLibrary records one library moved to the output directory.
type MigratedLibrary struct {
	Language     string `json:"language"`
	Library      string `json:"library"`
	FeatureCount int    `json:"feature_count"`
}

type migrationRecord struct {
	MigratedAt        string            `json:"migrated_at"`
	MigratedLibraries []MigratedLibrary `json:"migrated_libraries"`
	Version           string            `json:"version"`
}

// MigrationCompleted reports whether the builtin library demos were already
// materialized into the output directory.
func (s *Storage) MigrationCompleted() bool {
	return fileExists(filepath.Join(s.OutputDirectory(), migrationMarker))
}

// MigrateBuiltinLibraries copies every builtin library feature demo into the
// output directory and drops a marker file so the copy runs once.
func (s *Storage) MigrateBuiltinLibraries() error {
	if s.MigrationCompleted() {
		s.logger.Info("library migration already completed, skipping")
		return nil
	}

	s.logger.Info("starting builtin library migration")
	var migrated []MigratedLibrary

	languageDirs, err := os.ReadDir(s.builtinPath)
	if err != nil {
		return fmt.Errorf("failed to read builtin library: %w", err)
	}

	for _, languageDir := range languageDirs {
		if !languageDir.IsDir() {
			continue
		}
		language := languageDir.Name()
		librariesPath := filepath.Join(s.builtinPath, language, LibrariesDir)
		if !dirExists(librariesPath) {
			continue
		}

		libraryDirs, err := os.ReadDir(librariesPath)
		if err != nil {
			continue
		}
		for _, libraryDir := range libraryDirs {
			if !libraryDir.IsDir() || strings.HasPrefix(libraryDir.Name(), "_") {
				continue
			}
			library := libraryDir.Name()
			count := 0

			featureDirs, err := os.ReadDir(filepath.Join(librariesPath, library))
			if err != nil {
				continue
			}
			for _, featureDir := range featureDirs {
				if !featureDir.IsDir() || strings.HasPrefix(featureDir.Name(), "_") {
					continue
				}
				source := filepath.Join(librariesPath, library, featureDir.Name())
				if !fileExists(filepath.Join(source, MetadataFile)) {
					continue
				}

				target := filepath.Join(s.OutputDirectory(), language, LibrariesDir, library, featureDir.Name())
				if err := s.CopyDemo(source, target); err != nil {
					s.logger.Warn("failed to migrate feature",
						"language", language, "library", library, "feature", featureDir.Name(), "error", err)
					continue
				}
				count++
			}

			if count > 0 {
				migrated = append(migrated, MigratedLibrary{
					Language:     language,
					Library:      library,
					FeatureCount: count,
				})
			}
		}
	}

	record := migrationRecord{
		MigratedAt:        time.Now().Format(time.RFC3339),
		MigratedLibraries: migrated,
		Version:           "1.0",
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal migration record: %w", err)
	}
	markerPath := filepath.Join(s.OutputDirectory(), migrationMarker)
	if err := os.WriteFile(markerPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write migration marker: %w", err)
	}

	s.logger.Info("migration completed", "libraries", len(migrated))
	return nil
}
