package models

import "path/filepath"

// Difficulty levels recognized in demo metadata. Unknown values are kept
// as-is but sort after the known ones.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// DifficultyRank maps a difficulty to its sort order. Known levels come
// first, anything else sorts last.
func DifficultyRank(difficulty string) int {
	switch difficulty {
	case DifficultyBeginner:
		return 1
	case DifficultyIntermediate:
		return 2
	case DifficultyAdvanced:
		return 3
	default:
		return 999
	}
}

// Metadata is the per-demo metadata record stored in metadata.json. Every
// field is optional on disk; accessors on Demo apply the defaults.
type Metadata struct {
	Name         string         `json:"name,omitempty"`
	Title        string         `json:"title,omitempty"`
	Language     string         `json:"language,omitempty"`
	Keywords     []string       `json:"keywords,omitempty"`
	Description  string         `json:"description,omitempty"`
	Difficulty   string         `json:"difficulty,omitempty"`
	Category     string         `json:"category,omitempty"`
	Library      string         `json:"library,omitempty"`
	FolderName   string         `json:"folder_name,omitempty"`
	Author       string         `json:"author,omitempty"`
	CreatedAt    string         `json:"created_at,omitempty"`
	UpdatedAt    string         `json:"updated_at,omitempty"`
	Version      string         `json:"version,omitempty"`
	Verified     bool           `json:"verified"`
	Dependencies map[string]any `json:"dependencies"`
}

// Apply merges a partial update into the metadata. Only recognized keys are
// applied; unknown keys are ignored.
func (m *Metadata) Apply(updates map[string]any) {
	for key, value := range updates {
		switch key {
		case "name":
			if v, ok := value.(string); ok {
				m.Name = v
			}
		case "title":
			if v, ok := value.(string); ok {
				m.Title = v
			}
		case "language":
			if v, ok := value.(string); ok {
				m.Language = v
			}
		case "keywords":
			m.Keywords = toStringSlice(value)
		case "description":
			if v, ok := value.(string); ok {
				m.Description = v
			}
		case "difficulty":
			if v, ok := value.(string); ok {
				m.Difficulty = v
			}
		case "category":
			if v, ok := value.(string); ok {
				m.Category = v
			}
		case "author":
			if v, ok := value.(string); ok {
				m.Author = v
			}
		case "version":
			if v, ok := value.(string); ok {
				m.Version = v
			}
		case "verified":
			if v, ok := value.(bool); ok {
				m.Verified = v
			}
		case "dependencies":
			if v, ok := value.(map[string]any); ok {
				m.Dependencies = v
			}
		}
	}
}

func toStringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Demo is one example-code bundle on disk, identified by its directory path.
type Demo struct {
	Path string
	Meta Metadata
}

// Name returns the display name, falling back to the directory name.
func (d *Demo) Name() string {
	if d.Meta.Name != "" {
		return d.Meta.Name
	}
	return filepath.Base(d.Path)
}

// Language returns the demo's language or "unknown".
func (d *Demo) Language() string {
	if d.Meta.Language != "" {
		return d.Meta.Language
	}
	return "unknown"
}

func (d *Demo) Keywords() []string {
	return d.Meta.Keywords
}

func (d *Demo) Description() string {
	return d.Meta.Description
}

// Difficulty returns the demo's difficulty, defaulting to beginner.
func (d *Demo) Difficulty() string {
	if d.Meta.Difficulty != "" {
		return d.Meta.Difficulty
	}
	return DifficultyBeginner
}

func (d *Demo) Verified() bool {
	return d.Meta.Verified
}

// DemoFile describes one regular file inside a demo bundle.
type DemoFile struct {
	Name        string `json:"name" yaml:"name"`
	Path        string `json:"path" yaml:"path"`
	FullPath    string `json:"full_path" yaml:"full_path"`
	Size        int64  `json:"size" yaml:"size"`
	Description string `json:"description" yaml:"description"`
}

// Feature is one capability demo of a library or tool. Structurally it is a
// Demo; this record carries the catalog fields used for listing and search.
type Feature struct {
	Name        string   `json:"name" yaml:"name"`
	Path        string   `json:"path" yaml:"path"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Difficulty  string   `json:"difficulty" yaml:"difficulty"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Category    string   `json:"category" yaml:"category"`
	Library     string   `json:"library,omitempty" yaml:"library,omitempty"`
	Meta        Metadata `json:"-" yaml:"-"`
}

// LibraryMetadata is the library-level record stored in _library.json,
// distinct from per-demo metadata.
type LibraryMetadata struct {
	Name        string `json:"name,omitempty"`
	Language    string `json:"language,omitempty"`
	Description string `json:"description,omitempty"`
	Homepage    string `json:"homepage,omitempty"`
	Version     string `json:"version,omitempty"`
}

// LibraryCommand is the parsed form of a "get <language> <library> ..."
// invocation whose first keyword named a registered library.
type LibraryCommand struct {
	Library         string
	Language        string
	FeatureKeywords []string
	// Metadata is nil when the library has no catalog record on disk.
	Metadata *LibraryMetadata
}

// LibraryInfo composes a library's metadata with its full feature list.
// Metadata stays nil for libraries known only through their features.
type LibraryInfo struct {
	Metadata     *LibraryMetadata `json:"metadata" yaml:"metadata"`
	Features     []Feature        `json:"features" yaml:"features"`
	FeatureCount int              `json:"feature_count" yaml:"feature_count"`
}

// Classification is a library-vs-topic verdict for a keyword.
type Classification struct {
	IsLibrary   bool    `json:"is_library"`
	Confidence  float64 `json:"confidence"`
	LibraryName string  `json:"library_name,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Statistics summarizes the demo catalog. Demos with an unrecognized
// difficulty count toward Total but are absent from ByDifficulty.
type Statistics struct {
	Total        int            `json:"total" yaml:"total"`
	ByLanguage   map[string]int `json:"by_language" yaml:"by_language"`
	ByDifficulty map[string]int `json:"by_difficulty" yaml:"by_difficulty"`
	Verified     int            `json:"verified" yaml:"verified"`
}
