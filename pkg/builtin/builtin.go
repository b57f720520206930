// Package builtin ships the starter demo catalog inside the binary. The
// catalog is extracted to the builtin library root on first run so the
// storage layer can treat it like any other directory tree.
package builtin

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed all:demos
var demosFS embed.FS

// Extract writes the embedded catalog under targetDir. Existing files are
// left untouched so user edits to the extracted copy survive upgrades.
func Extract(targetDir string) error {
	return fs.WalkDir(demosFS, "demos", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel("demos", path)
		if err != nil {
			return err
		}
		target := filepath.Join(targetDir, rel)

		if d.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}
			return nil
		}

		if _, err := os.Stat(target); err == nil {
			return nil
		}

		data, err := demosFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read embedded file %s: %w", path, err)
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return fmt.Errorf("failed to extract %s: %w", target, err)
		}
		return nil
	})
}
