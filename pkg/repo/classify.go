package repo

import "strings"

// Verdict is a classifier's decision about one keyword. Library is the
// normalized library name, or "" when the keyword is a plain topic.
type Verdict struct {
	Library    string
	Source     string
	Confidence float64
}

// Classifier inspects a keyword in the context of a language. Returning nil
// means the classifier abstains and the next one in the chain is consulted.
type Classifier interface {
	Classify(language, keyword string) *Verdict
}

// registryClassifier matches against the libraries already present on disk.
// It abstains for unknown keywords so that later classifiers can decide.
type registryClassifier struct {
	repo *Repository
}

func (c *registryClassifier) Classify(language, keyword string) *Verdict {
	lowered := strings.ToLower(keyword)
	for _, lib := range c.repo.SupportedLibraries(language) {
		if strings.ToLower(lib) == lowered {
			return &Verdict{Library: lib, Source: "registry", Confidence: 1.0}
		}
	}
	return nil
}

// aiClassifier delegates to the AI collaborator. Its verdict is always
// definitive: an empty Library means the keyword is a topic, not a library.
type aiClassifier struct {
	classifier KeywordClassifier
}

func (c *aiClassifier) Classify(language, keyword string) *Verdict {
	result := c.classifier.ClassifyKeyword(language, keyword)
	if result.IsLibrary && result.Confidence >= 0.5 {
		name := result.LibraryName
		if name == "" {
			name = strings.ToLower(keyword)
		}
		return &Verdict{Library: name, Source: "ai", Confidence: result.Confidence}
	}
	return &Verdict{Source: "ai", Confidence: result.Confidence}
}

// heuristicClassifier is the terminal fallback. A keyword that looks like
// an identifier (short, ASCII, starts with a letter) is treated as a
// library name at low confidence; anything else is a topic.
type heuristicClassifier struct{}

func (heuristicClassifier) Classify(language, keyword string) *Verdict {
	lowered := strings.ToLower(strings.TrimSpace(keyword))
	if len(lowered) < 2 || len(lowered) > 30 {
		return &Verdict{Source: "heuristic"}
	}
	first := lowered[0]
	if first < 'a' || first > 'z' {
		return &Verdict{Source: "heuristic"}
	}
	for _, c := range lowered {
		if c >= '一' && c <= '鿿' {
			return &Verdict{Source: "heuristic"}
		}
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') && c != '-' && c != '_' {
			return &Verdict{Source: "heuristic"}
		}
	}
	return &Verdict{Library: lowered, Source: "heuristic", Confidence: 0.3}
}

// classifyKeyword runs the chain: registry first, AI when available and
// allowed, heuristic last. The heuristic never abstains so the result is
// always non-nil.
func (r *Repository) classifyKeyword(language, keyword string, useAI bool) *Verdict {
	chain := []Classifier{&registryClassifier{repo: r}}
	if useAI && r.classifier != nil {
		chain = append(chain, &aiClassifier{classifier: r.classifier})
	}
	chain = append(chain, heuristicClassifier{})

	for _, c := range chain {
		if v := c.Classify(language, keyword); v != nil {
			return v
		}
	}
	return &Verdict{Source: "heuristic"}
}
