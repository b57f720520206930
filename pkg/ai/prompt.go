package ai

import (
	"fmt"
	"strings"
)

func codingStandard(language string) string {
	switch strings.ToLower(language) {
	case "python":
		return "PEP 8"
	case "java":
		return "the Google Java Style Guide"
	case "go":
		return "Effective Go"
	default:
		return "industry best practices"
	}
}

func dependencyFile(language string) string {
	switch strings.ToLower(language) {
	case "python":
		return "requirements.txt"
	case "java":
		return "pom.xml"
	case "go":
		return "go.mod"
	case "nodejs":
		return "package.json"
	default:
		return "a dependency file"
	}
}

func buildGeneratePrompt(language, topic, difficulty string) string {
	depFile := dependencyFile(language)

	return fmt.Sprintf(`You are an experienced %[1]s programming tutor and code example generator.

Task: generate a complete, runnable %[1]s demo for the topic "%[2]s".

Requirements:
1. Produce 1-3 code files, each focused on one concrete scenario.
2. Code must carry clear comments explaining the key logic.
3. Follow %[4]s strictly.
4. Produce a complete README.md tutorial including: title and introduction, learning goals, environment requirements, dependency installation steps, a file guide, a step-by-step walkthrough with commands and expected output, code explanations, FAQ, and further reading.
5. Produce a %[5]s dependency declaration.
6. Produce metadata with: name, language, keywords (3-5), a one-line description, difficulty "%[3]s", and a dependencies object.

Output format: return JSON only, shaped as:
{
  "metadata": {
    "name": "demo name",
    "language": "%[1]s",
    "keywords": ["k1", "k2", "k3"],
    "description": "one-line description",
    "difficulty": "%[3]s",
    "dependencies": {}
  },
  "files": [
    {"path": "README.md", "content": "..."},
    {"path": "code/example1.ext", "content": "..."},
    {"path": "%[5]s", "content": "..."}
  ]
}

Constraints:
- Keep total code between 50 and 300 lines.
- Use stable library versions and APIs.
- Code must run on Windows, Linux and macOS without modification.
- The README must let a beginner run the demo end to end.

Return the JSON directly with no surrounding prose.`, language, topic, difficulty, codingStandard(language), depFile)
}

func buildClassifyPrompt(language, keyword string) string {
	return fmt.Sprintf(`You are an expert on programming language package ecosystems.

Decide whether the following keyword names a third-party library, package or framework in %[1]s, or describes a programming topic or concept.

Keyword: %[2]q
Language: %[1]s

Guidance:
- Library/package/framework: installable through a package manager, like numpy, pandas, requests, django, flask, spring, gin, express.
- Topic/concept: things like "async programming", "data processing", "HTTP requests", "design patterns", "logging", "threading".
- Standard library modules (like Python's os, sys, json) count as topics, not third-party libraries.
- Non-ASCII keywords are usually topics.

Return JSON only:
{
  "is_library": true/false,
  "confidence": 0.0-1.0,
  "library_name": "name" or null,
  "description": "short explanation"
}`, language, keyword)
}
