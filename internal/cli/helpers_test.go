package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

// swapStreams redirects the package writers to buffers for one test and
// restores them, and the global flags, afterwards.
func swapStreams(t *testing.T) (stdout, stderr *bytes.Buffer) {
	t.Helper()
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	origOut, origErr, origIn := out, errOut, in
	out, errOut = stdout, stderr
	t.Cleanup(func() {
		out, errOut, in = origOut, origErr, origIn
		SetGlobalFlags(false, false, false)
	})
	return stdout, stderr
}

func TestStatusMessageRouting(t *testing.T) {
	stdout, stderr := swapStreams(t)
	SetGlobalFlags(false, true, false)

	PrintSuccess("created %s", "demo")
	PrintInfo("searching")
	PrintProgress("building")
	PrintWarning("stale cache")
	PrintError("boom")

	for _, want := range []string{"OK: created demo\n", "INFO: searching\n", "WORKING: building\n"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout.String())
		}
	}
	if got := stderr.String(); got != "WARNING: stale cache\nERROR: boom\n" {
		t.Errorf("stderr = %q", got)
	}
}

func TestStatusMarksWhenColorEnabled(t *testing.T) {
	stdout, stderr := swapStreams(t)
	SetGlobalFlags(false, false, false)

	PrintSuccess("done")
	PrintError("bad")

	if !strings.Contains(stdout.String(), "✓") || strings.Contains(stdout.String(), "OK:") {
		t.Errorf("stdout should carry the mark, not the label: %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "✗") {
		t.Errorf("stderr should carry the error mark: %q", stderr.String())
	}
}

func TestQuietSuppressesStatusButNotProblems(t *testing.T) {
	stdout, stderr := swapStreams(t)
	SetGlobalFlags(true, true, false)

	PrintSuccess("created")
	PrintInfo("searching")
	PrintProgress("building")
	PrintWarning("stale cache")
	PrintError("boom")

	if stdout.Len() != 0 {
		t.Errorf("quiet mode leaked to stdout: %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "WARNING:") || !strings.Contains(stderr.String(), "ERROR:") {
		t.Errorf("warnings and errors must survive quiet mode: %q", stderr.String())
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{"yes", "y\n", false, true},
		{"yes word", "YES\n", false, true},
		{"no", "n\n", true, false},
		{"anything else is no", "maybe\n", false, false},
		{"empty takes default yes", "\n", true, true},
		{"empty takes default no", "\n", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _ := swapStreams(t)
			in = strings.NewReader(tt.input)

			got, err := Confirm("Delete it?", tt.defaultYes)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(stdout.String(), "Delete it?") {
				t.Errorf("prompt not written: %q", stdout.String())
			}
		})
	}
}

func TestConfirmSkippedByYesFlag(t *testing.T) {
	swapStreams(t)
	SetGlobalFlags(false, false, true)
	in = strings.NewReader("") // must not be read

	got, err := Confirm("Delete it?", false)
	if err != nil || !got {
		t.Errorf("Confirm with --yes = (%v, %v), want (true, nil)", got, err)
	}
}

func TestConfirmClosedInput(t *testing.T) {
	swapStreams(t)
	in = strings.NewReader("")

	if _, err := Confirm("Delete it?", false); err != io.EOF {
		t.Errorf("Confirm on closed input err = %v, want io.EOF", err)
	}
}
