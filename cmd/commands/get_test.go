package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opendemo/opendemo-cli/pkg/config"
)

func TestShouldVerify(t *testing.T) {
	dir := t.TempDir()
	disabled := config.NewAt(filepath.Join(dir, "none.yaml"), filepath.Join(dir, "none-project.yaml"))

	enabledPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(enabledPath, []byte("enable_verification: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	enabled := config.NewAt(enabledPath, filepath.Join(dir, "project.yaml"))

	tests := []struct {
		name      string
		cfg       *config.Config
		requested bool
		want      bool
	}{
		{"flag alone", disabled, true, true},
		{"config alone", enabled, false, true},
		{"flag and config", enabled, true, true},
		{"neither", disabled, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldVerify(tt.cfg, tt.requested); got != tt.want {
				t.Errorf("shouldVerify(requested=%v) = %v, want %v", tt.requested, got, tt.want)
			}
		})
	}
}
