package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Output destinations. Tests swap these for buffers.
var (
	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr
	in     io.Reader = os.Stdin
)

var (
	quiet       bool
	noColor     bool
	skipConfirm bool
)

// SetGlobalFlags wires the root command's persistent flags into this
// package. Call it once, before any output helper runs.
func SetGlobalFlags(q, nc, sc bool) {
	quiet = q
	noColor = nc
	skipConfirm = sc
}

// level describes one class of status message: a styled mark for normal
// output, a plain label for --no-color, and where it goes.
type level struct {
	mark     string
	label    string
	style    lipgloss.Style
	toStderr bool
	muted    bool // suppressed under --quiet
}

var (
	successLevel  = level{mark: "✓", label: "OK", style: lipgloss.NewStyle().Foreground(lipgloss.Color("2")), muted: true}
	infoLevel     = level{mark: "ℹ", label: "INFO", style: lipgloss.NewStyle().Foreground(lipgloss.Color("4")), muted: true}
	progressLevel = level{mark: "…", label: "WORKING", style: lipgloss.NewStyle().Foreground(lipgloss.Color("6")), muted: true}
	warningLevel  = level{mark: "⚠", label: "WARNING", style: lipgloss.NewStyle().Foreground(lipgloss.Color("3")), toStderr: true}
	errorLevel    = level{mark: "✗", label: "ERROR", style: lipgloss.NewStyle().Foreground(lipgloss.Color("1")), toStderr: true}
)

func (l level) printf(format string, args ...any) {
	if l.muted && quiet {
		return
	}
	w := out
	if l.toStderr {
		w = errOut
	}
	msg := fmt.Sprintf(format, args...)
	if noColor {
		fmt.Fprintf(w, "%s: %s\n", l.label, msg)
		return
	}
	fmt.Fprintf(w, "%s %s\n", l.style.Render(l.mark), msg)
}

// PrintSuccess reports a completed action. Silent under --quiet.
func PrintSuccess(format string, args ...any) { successLevel.printf(format, args...) }

// PrintInfo reports neutral progress information. Silent under --quiet.
func PrintInfo(format string, args ...any) { infoLevel.printf(format, args...) }

// PrintProgress reports a step that is still running. Silent under --quiet.
func PrintProgress(format string, args ...any) { progressLevel.printf(format, args...) }

// PrintWarning reports a recoverable problem on stderr.
func PrintWarning(format string, args ...any) { warningLevel.printf(format, args...) }

// PrintError reports a failure on stderr.
func PrintError(format string, args ...any) { errorLevel.printf(format, args...) }

// Confirm asks a yes/no question and reads one line of input. The --yes
// flag answers every prompt affirmatively without reading.
func Confirm(prompt string, defaultYes bool) (bool, error) {
	if skipConfirm {
		return true, nil
	}

	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprintf(out, "%s %s: ", prompt, hint)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, err
		}
		return false, io.EOF
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
