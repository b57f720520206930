package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DemoResolver finds demo directories by user-supplied references. A
// reference is either "language/name" or a bare name searched across all
// language directories of the search roots.
type DemoResolver struct {
	// Roots are searched in order; the first hit wins.
	Roots []string
}

// NewDemoResolver creates a resolver over the given roots, typically the
// output directory first and the user library second.
func NewDemoResolver(roots ...string) *DemoResolver {
	return &DemoResolver{Roots: roots}
}

// Resolve returns the demo directory for a reference, or an error naming
// the ambiguity when a bare name matches in several languages.
func (r *DemoResolver) Resolve(ref string) (string, error) {
	if strings.Contains(ref, "/") {
		parts := strings.SplitN(ref, "/", 2)
		language := strings.ToLower(parts[0])
		name := parts[1]

		for _, root := range r.Roots {
			path := filepath.Join(root, language, name)
			if isDemoDir(path) {
				return path, nil
			}
			// Library features are addressable the same way.
			path = filepath.Join(root, language, "libraries", name)
			if isDemoDir(path) {
				return path, nil
			}
		}
		return "", fmt.Errorf("demo '%s' not found", ref)
	}

	matches := r.searchAllLanguages(ref)
	if len(matches) == 0 {
		return "", fmt.Errorf("demo '%s' not found", ref)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("multiple demos found with name '%s'. Specify the language (e.g. python/%s)", ref, ref)
	}
	return matches[0], nil
}

func (r *DemoResolver) searchAllLanguages(name string) []string {
	var matches []string
	seen := make(map[string]bool)

	for _, root := range r.Roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			path := filepath.Join(root, e.Name(), name)
			key := e.Name() + "/" + name
			if !seen[key] && isDemoDir(path) {
				seen[key] = true
				matches = append(matches, path)
			}
		}
	}
	return matches
}

func isDemoDir(path string) bool {
	if _, err := os.Stat(filepath.Join(path, "metadata.json")); err == nil {
		return true
	}
	return false
}
