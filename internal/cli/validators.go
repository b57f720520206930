package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SupportedLanguages lists the languages the CLI accepts.
var SupportedLanguages = []string{"python", "go", "nodejs", "java", "kubernetes"}

// ValidateLanguage validates a language argument
func ValidateLanguage(language string) error {
	normalized := strings.ToLower(language)
	for _, valid := range SupportedLanguages {
		if normalized == valid {
			return nil
		}
	}
	return fmt.Errorf("unsupported language: %s (must be one of: %s)", language, strings.Join(SupportedLanguages, ", "))
}

// ValidateDifficulty validates a difficulty flag value
func ValidateDifficulty(difficulty string) error {
	if difficulty == "" {
		return nil
	}
	validLevels := []string{"beginner", "intermediate", "advanced"}
	normalized := strings.ToLower(difficulty)
	for _, valid := range validLevels {
		if normalized == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid difficulty: %s (must be: beginner, intermediate, or advanced)", difficulty)
}

// ValidateDemoName validates a demo name argument
func ValidateDemoName(name string) error {
	if name == "" {
		return fmt.Errorf("demo name cannot be empty")
	}

	invalidChars := []string{"/", "\\", "..", "~", "$", "`"}
	for _, char := range invalidChars {
		if strings.Contains(name, char) {
			return fmt.Errorf("demo name contains invalid character: %s", char)
		}
	}

	return nil
}

// ValidateDirectoryPath validates that a directory path exists
func ValidateDirectoryPath(path string) error {
	if !filepath.IsAbs(path) {
		path, _ = filepath.Abs(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", path)
		}
		return fmt.Errorf("error accessing directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	return nil
}

// ValidateOutputFormat validates the output format flag
func ValidateOutputFormat(format string) error {
	validFormats := []string{"text", "json", "yaml"}
	for _, valid := range validFormats {
		if format == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}

// Contains checks if a string is in a slice
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
