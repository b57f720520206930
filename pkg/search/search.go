package search

import (
	"sort"
	"strings"

	"github.com/opendemo/opendemo-cli/pkg/models"
	"github.com/opendemo/opendemo-cli/pkg/repo"
	"github.com/opendemo/opendemo-cli/pkg/storage"
)

// Match weights for library feature scoring. The name tiers are mutually
// exclusive; the keyword, title and description bonuses stack on top.
const (
	weightExactName   = 10.0
	weightPrefixName  = 8.0
	weightContainName = 6.0
	weightKeyword     = 5.0
	weightTitle       = 4.0
	weightDescription = 3.0
)

// Search ranks demo and feature collections. It holds no state of its own;
// the repository reference is used only to fetch candidate lists.
type Search struct {
	repository *repo.Repository
}

func New(r *repo.Repository) *Search {
	return &Search{repository: r}
}

// SearchDemos filters and ranks demos. With no keywords and no difficulty
// the full candidate list is returned sorted by name. Otherwise demos are
// scored, zero scores dropped, and results ordered by score descending
// with ties keeping their enumeration order.
func (s *Search) SearchDemos(language string, keywords []string, difficulty, scope string) []models.Demo {
	if scope == "" {
		scope = storage.ScopeAll
	}
	candidates := s.repository.LoadAllDemos(scope, language)
	if len(candidates) == 0 {
		return nil
	}

	if len(keywords) == 0 && difficulty == "" {
		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].Name() < candidates[j].Name()
		})
		return candidates
	}

	type scored struct {
		demo  models.Demo
		score float64
	}
	var matched []scored
	for _, demo := range candidates {
		if score := demoMatchScore(&demo, keywords, difficulty); score > 0 {
			matched = append(matched, scored{demo, score})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})

	results := make([]models.Demo, len(matched))
	for i, m := range matched {
		results[i] = m.demo
	}
	return results
}

// FindExact returns the first demo whose name matches case-insensitively,
// or nil.
func (s *Search) FindExact(name, language string) *models.Demo {
	for _, demo := range s.repository.LoadAllDemos(storage.ScopeAll, language) {
		if strings.EqualFold(demo.Name(), name) {
			d := demo
			return &d
		}
	}
	return nil
}

// Languages returns the sorted set of lowercase languages across all demos.
func (s *Search) Languages() []string {
	seen := make(map[string]bool)
	for _, demo := range s.repository.LoadAllDemos(storage.ScopeAll, "") {
		seen[strings.ToLower(demo.Language())] = true
	}
	return sortedKeys(seen)
}

// Keywords returns the sorted set of keywords, optionally filtered by
// language.
func (s *Search) Keywords(language string) []string {
	seen := make(map[string]bool)
	for _, demo := range s.repository.LoadAllDemos(storage.ScopeAll, language) {
		for _, kw := range demo.Keywords() {
			seen[kw] = true
		}
	}
	return sortedKeys(seen)
}

// Statistics aggregates demo counts. Demos with an unknown difficulty
// value count toward the total but are absent from the difficulty
// histogram.
func (s *Search) Statistics(language string) models.Statistics {
	demos := s.repository.LoadAllDemos(storage.ScopeAll, language)

	stats := models.Statistics{
		Total:      len(demos),
		ByLanguage: make(map[string]int),
		ByDifficulty: map[string]int{
			models.DifficultyBeginner:     0,
			models.DifficultyIntermediate: 0,
			models.DifficultyAdvanced:     0,
		},
	}
	for _, demo := range demos {
		stats.ByLanguage[strings.ToLower(demo.Language())]++
		difficulty := strings.ToLower(demo.Difficulty())
		if _, known := stats.ByDifficulty[difficulty]; known {
			stats.ByDifficulty[difficulty]++
		}
		if demo.Verified() {
			stats.Verified++
		}
	}
	return stats
}

// FeatureMatch pairs a library feature with its match score.
type FeatureMatch struct {
	Feature models.Feature
	Score   float64
}

// SearchLibraryFeatures scores a library's features against a single
// keyword. Results with a positive score are ordered by score descending,
// then difficulty rank ascending, then name ascending.
func (s *Search) SearchLibraryFeatures(language, library, keyword string) []FeatureMatch {
	features := s.repository.ListLibraryFeatures(language, library, "")
	if len(features) == 0 {
		return nil
	}

	term := strings.ToLower(keyword)
	var matches []FeatureMatch
	for _, f := range features {
		if score := featureMatchScore(&f, term); score > 0 {
			matches = append(matches, FeatureMatch{Feature: f, Score: score})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		ra, rb := models.DifficultyRank(a.Feature.Difficulty), models.DifficultyRank(b.Feature.Difficulty)
		if ra != rb {
			return ra < rb
		}
		return a.Feature.Name < b.Feature.Name
	})
	return matches
}

// demoMatchScore scores one demo. Difficulty is an AND-gate: a mismatch
// zeroes the result before keywords are considered. Each keyword scores on
// at most one tier, and at least one keyword must hit somewhere or the
// whole score collapses to zero. The final sum is scaled by the fraction
// of keywords that matched.
func demoMatchScore(demo *models.Demo, keywords []string, difficulty string) float64 {
	score := 0.0

	if difficulty != "" {
		if !strings.EqualFold(demo.Difficulty(), difficulty) {
			return 0
		}
		score += 10.0
	}

	if len(keywords) > 0 {
		name := strings.ToLower(demo.Name())
		description := strings.ToLower(demo.Description())
		combined := strings.ToLower(demo.Name() + " " + demo.Description() + " " + strings.Join(demo.Keywords(), " "))

		matched := 0
		for _, keyword := range keywords {
			term := strings.ToLower(keyword)
			switch {
			case strings.Contains(name, term):
				score += 10.0
				matched++
			case keywordListContains(demo.Keywords(), term):
				score += 8.0
				matched++
			case strings.Contains(description, term):
				score += 5.0
				matched++
			case strings.Contains(combined, term):
				score += 2.0
				matched++
			}
		}

		if matched == 0 {
			return 0
		}
		score *= float64(matched) / float64(len(keywords))
	}

	return score
}

// featureMatchScore scores one feature against a lowercase term. Unlike
// demo scoring the bonuses stack: a feature can hit the name tier and the
// keyword, title and description bonuses simultaneously.
func featureMatchScore(feature *models.Feature, term string) float64 {
	score := 0.0
	name := strings.ToLower(feature.Name)

	switch {
	case name == term:
		score += weightExactName
	case strings.HasPrefix(name, term):
		score += weightPrefixName
	case strings.Contains(name, term):
		score += weightContainName
	}

	if keywordListContains(feature.Keywords, term) {
		score += weightKeyword
	}
	if strings.Contains(strings.ToLower(feature.Title), term) {
		score += weightTitle
	}
	if strings.Contains(strings.ToLower(feature.Description), term) {
		score += weightDescription
	}
	return score
}

func keywordListContains(keywords []string, term string) bool {
	for _, kw := range keywords {
		if strings.Contains(strings.ToLower(kw), term) {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
