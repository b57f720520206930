package verify

import (
	"fmt"
	"strings"
)

// Report renders a verification result as markdown.
func Report(result Result) string {
	var b strings.Builder
	b.WriteString("# Verification Report\n\n")

	if result.Skipped {
		fmt.Fprintf(&b, "Status: skipped - %s\n", result.Message)
		return b.String()
	}

	status := "✗ failed"
	if result.Verified {
		status = "✓ passed"
	}
	fmt.Fprintf(&b, "Status: %s\n\n", status)

	method := result.Method
	if method == "" {
		method = "unknown"
	}
	fmt.Fprintf(&b, "Method: %s\n", method)

	if len(result.Steps) > 0 {
		b.WriteString("\n## Steps\n\n")
		for i, step := range result.Steps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}

	if len(result.Outputs) > 0 {
		b.WriteString("\n## Output\n\n")
		for _, output := range result.Outputs {
			fmt.Fprintf(&b, "```\n%s\n```\n\n", output)
		}
	}

	if len(result.Errors) > 0 {
		b.WriteString("\n## Errors\n\n")
		for _, err := range result.Errors {
			fmt.Fprintf(&b, "- %s\n", err)
		}
	}

	return b.String()
}
