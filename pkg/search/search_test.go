package search

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/opendemo/opendemo-cli/pkg/models"
	"github.com/opendemo/opendemo-cli/pkg/repo"
	"github.com/opendemo/opendemo-cli/pkg/storage"
)

func newTestSearch(t *testing.T) (*Search, string, string) {
	t.Helper()
	base := t.TempDir()
	builtin := filepath.Join(base, "builtin")
	user := filepath.Join(base, "user")
	output := filepath.Join(base, "output")
	for _, dir := range []string{builtin, user, output} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := storage.NewWithPaths(builtin, user, output, logger)
	r := repo.New(st, nil, nil, logger)
	return New(r), builtin, output
}

func writeDemo(t *testing.T, root string, meta models.Metadata) {
	t.Helper()
	lang := meta.Language
	if lang == "" {
		lang = "python"
	}
	dir := filepath.Join(root, lang, meta.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, storage.MetadataFile), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func demoNames(demos []models.Demo) []string {
	names := make([]string, len(demos))
	for i, d := range demos {
		names[i] = d.Name()
	}
	return names
}

func TestSearchDemosNoFiltersSortsByName(t *testing.T) {
	s, builtin, _ := newTestSearch(t)
	for _, name := range []string{"zeta", "alpha", "beta"} {
		writeDemo(t, builtin, models.Metadata{Name: name, Language: "python"})
	}

	got := demoNames(s.SearchDemos("python", nil, "", ""))
	want := []string{"alpha", "beta", "zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SearchDemos order = %v, want %v", got, want)
		}
	}
}

func TestSearchDemosKeywordTiers(t *testing.T) {
	s, builtin, _ := newTestSearch(t)
	writeDemo(t, builtin, models.Metadata{Name: "python-logging", Language: "python"})
	writeDemo(t, builtin, models.Metadata{Name: "python-http", Language: "python", Keywords: []string{"logging"}})
	writeDemo(t, builtin, models.Metadata{Name: "python-json", Language: "python"})

	got := demoNames(s.SearchDemos("python", []string{"logging"}, "", ""))
	want := []string{"python-logging", "python-http"}
	if len(got) != len(want) {
		t.Fatalf("SearchDemos = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SearchDemos order = %v, want %v", got, want)
		}
	}
}

func TestDemoMatchScoreDifficultyGate(t *testing.T) {
	demo := models.Demo{Meta: models.Metadata{
		Name:        "python-logging",
		Keywords:    []string{"logging", "handler"},
		Description: "logging walkthrough",
		Difficulty:  models.DifficultyBeginner,
	}}

	// A difficulty mismatch zeroes the score no matter how many keywords
	// would otherwise hit.
	if got := demoMatchScore(&demo, []string{"logging", "handler"}, models.DifficultyAdvanced); got != 0 {
		t.Errorf("score = %v, want 0 on difficulty mismatch", got)
	}
	if got := demoMatchScore(&demo, []string{"logging"}, models.DifficultyBeginner); got <= 0 {
		t.Errorf("score = %v, want > 0 on difficulty match", got)
	}
}

func TestDemoMatchScoreZeroMatchCollapse(t *testing.T) {
	demo := models.Demo{Meta: models.Metadata{
		Name:       "python-logging",
		Difficulty: models.DifficultyBeginner,
	}}

	// The difficulty bonus alone must not survive a total keyword miss.
	if got := demoMatchScore(&demo, []string{"kafka"}, models.DifficultyBeginner); got != 0 {
		t.Errorf("score = %v, want 0 when no keyword matches", got)
	}
}

func TestDemoMatchScoreCoverageRatio(t *testing.T) {
	demo := models.Demo{Meta: models.Metadata{Name: "python-logging"}}

	full := demoMatchScore(&demo, []string{"logging"}, "")
	if full != 10.0 {
		t.Fatalf("single keyword score = %v, want 10", full)
	}
	// One of two keywords matches: raw 10 scaled by 1/2.
	half := demoMatchScore(&demo, []string{"logging", "kafka"}, "")
	if half != 5.0 {
		t.Errorf("partial coverage score = %v, want 5", half)
	}
}

func TestDemoMatchScoreTiersAreExclusive(t *testing.T) {
	demo := models.Demo{Meta: models.Metadata{
		Name:        "python-logging",
		Keywords:    []string{"logging"},
		Description: "logging demo",
	}}

	// "logging" hits the name tier; the keyword and description tiers
	// must not add on top.
	if got := demoMatchScore(&demo, []string{"logging"}, ""); got != 10.0 {
		t.Errorf("score = %v, want exactly 10", got)
	}
}

func TestFindExact(t *testing.T) {
	s, builtin, _ := newTestSearch(t)
	writeDemo(t, builtin, models.Metadata{Name: "python-logging", Language: "python"})

	if demo := s.FindExact("PYTHON-LOGGING", ""); demo == nil {
		t.Error("case-insensitive exact match failed")
	}
	if demo := s.FindExact("python-log", ""); demo != nil {
		t.Errorf("partial name must not match exactly, got %+v", demo)
	}
}

func TestLanguagesAndKeywords(t *testing.T) {
	s, builtin, _ := newTestSearch(t)
	writeDemo(t, builtin, models.Metadata{Name: "a", Language: "Python", Keywords: []string{"logging"}})
	writeDemo(t, builtin, models.Metadata{Name: "b", Language: "go", Keywords: []string{"http", "logging"}})

	langs := s.Languages()
	if len(langs) != 2 || langs[0] != "go" || langs[1] != "python" {
		t.Errorf("Languages = %v, want [go python]", langs)
	}

	kws := s.Keywords("")
	if len(kws) != 2 || kws[0] != "http" || kws[1] != "logging" {
		t.Errorf("Keywords = %v, want [http logging]", kws)
	}
}

func TestStatistics(t *testing.T) {
	s, builtin, _ := newTestSearch(t)
	writeDemo(t, builtin, models.Metadata{Name: "a", Language: "python", Difficulty: models.DifficultyBeginner, Verified: true})
	writeDemo(t, builtin, models.Metadata{Name: "b", Language: "python", Difficulty: models.DifficultyAdvanced})
	writeDemo(t, builtin, models.Metadata{Name: "c", Language: "go", Difficulty: "expert"})

	stats := s.Statistics("")
	if stats.Total != 3 {
		t.Errorf("total = %d, want 3", stats.Total)
	}
	if stats.ByLanguage["python"] != 2 || stats.ByLanguage["go"] != 1 {
		t.Errorf("by language = %v", stats.ByLanguage)
	}
	// Unknown difficulty values count toward the total but are dropped
	// from the histogram.
	sum := 0
	for _, n := range stats.ByDifficulty {
		sum += n
	}
	if sum != 2 {
		t.Errorf("difficulty histogram sum = %d, want 2", sum)
	}
	if stats.Verified != 1 {
		t.Errorf("verified = %d, want 1", stats.Verified)
	}
}

func TestFeatureMatchScoreComposite(t *testing.T) {
	feature := models.Feature{
		Name:        "array-creation",
		Keywords:    []string{"array", "init"},
		Title:       "Array Creation",
		Description: "create arrays",
	}

	// Prefix(8) + keyword(5) + title(4) + description(3).
	if got := featureMatchScore(&feature, "array"); got != 20.0 {
		t.Errorf("score = %v, want 20", got)
	}
	// Exact name replaces the prefix tier.
	if got := featureMatchScore(&feature, "array-creation"); got != weightExactName {
		t.Errorf("exact score = %v, want %v", got, weightExactName)
	}
	// Substring hit on the name also collects the title bonus.
	if got, want := featureMatchScore(&feature, "creation"), weightContainName+weightTitle; got != want {
		t.Errorf("substring score = %v, want %v", got, want)
	}
	// Substring tier alone, no bonus overlap.
	if got := featureMatchScore(&models.Feature{Name: "array-creation"}, "creation"); got != weightContainName {
		t.Errorf("bare substring score = %v, want %v", got, weightContainName)
	}
	if got := featureMatchScore(&feature, "kafka"); got != 0 {
		t.Errorf("miss score = %v, want 0", got)
	}
}

func TestSearchLibraryFeaturesOrdering(t *testing.T) {
	s, builtin, _ := newTestSearch(t)

	libDir := filepath.Join(builtin, "python", storage.LibrariesDir, "numpy")
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(libDir, storage.LibraryMetadataFile), []byte(`{"name":"numpy"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	writeFeature := func(name, difficulty string) {
		dir := filepath.Join(libDir, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		meta := models.Metadata{Name: name, Keywords: []string{"sort"}, Difficulty: difficulty}
		data, _ := json.Marshal(meta)
		if err := os.WriteFile(filepath.Join(dir, storage.MetadataFile), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// All three score identically on the keyword bonus; difficulty rank
	// then name break the ties.
	writeFeature("zeta-feature", models.DifficultyBeginner)
	writeFeature("alpha-feature", models.DifficultyIntermediate)
	writeFeature("beta-feature", models.DifficultyBeginner)

	run := func() []string {
		matches := s.SearchLibraryFeatures("python", "numpy", "sort")
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Feature.Name
		}
		return names
	}

	want := []string{"beta-feature", "zeta-feature", "alpha-feature"}
	first := run()
	if len(first) != len(want) {
		t.Fatalf("matches = %v, want %v", first, want)
	}
	for i := range want {
		if first[i] != want[i] {
			t.Fatalf("order = %v, want %v", first, want)
		}
	}
	// Deterministic across repeated calls.
	second := run()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("repeat run order differs: %v vs %v", first, second)
		}
	}
}
