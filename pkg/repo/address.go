package repo

import (
	"path/filepath"
	"strings"

	"github.com/opendemo/opendemo-cli/pkg/storage"
)

// KubernetesLanguage is the pseudo-language whose "libraries" are
// infrastructure tools stored without the libraries path segment.
const KubernetesLanguage = "kubernetes"

// AddressKind distinguishes the three demo storage layouts.
type AddressKind int

const (
	// PlainDemo is <root>/<language>/<name>.
	PlainDemo AddressKind = iota
	// LibraryFeature is <root>/<language>/libraries/<library>/<name>.
	LibraryFeature
	// ToolFeature is <root>/kubernetes/<tool>/<name>.
	ToolFeature
)

// Address locates a demo under any storage root. The kind decides how the
// path is rendered, replacing scattered string checks on the language.
type Address struct {
	Kind     AddressKind
	Language string
	Library  string
	Name     string
}

// PlainAddress addresses a topic demo.
func PlainAddress(language, name string) Address {
	return Address{Kind: PlainDemo, Language: strings.ToLower(language), Name: name}
}

// FeatureAddress addresses a library feature demo, choosing the tool layout
// for the kubernetes pseudo-language.
func FeatureAddress(language, library, name string) Address {
	kind := LibraryFeature
	if strings.ToLower(language) == KubernetesLanguage {
		kind = ToolFeature
	}
	return Address{Kind: kind, Language: strings.ToLower(language), Library: library, Name: name}
}

// LibraryAddress addresses a library's directory (the parent of its
// feature demos).
func LibraryAddress(language, library string) Address {
	addr := FeatureAddress(language, library, "")
	return addr
}

// Join renders the address under the given storage root.
func (a Address) Join(root string) string {
	parts := []string{root, a.Language}
	switch a.Kind {
	case LibraryFeature:
		parts = append(parts, storage.LibrariesDir, a.Library)
	case ToolFeature:
		parts = append(parts, a.Library)
	}
	if a.Name != "" {
		parts = append(parts, a.Name)
	}
	return filepath.Join(parts...)
}
