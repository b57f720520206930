package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/opendemo/opendemo-cli/pkg/models"
)

// extractJSON strips markdown code fences from a model reply, leaving the
// bare JSON payload. Replies that already start with "{" pass through.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "{") {
		return response
	}
	if idx := strings.Index(response, "```json"); idx >= 0 {
		start := idx + len("```json")
		end := strings.LastIndex(response, "```")
		if end > start {
			return strings.TrimSpace(response[start:end])
		}
	}
	if strings.HasPrefix(response, "```") {
		start := strings.Index(response, "\n") + 1
		end := strings.LastIndex(response, "```")
		if end > start {
			return strings.TrimSpace(response[start:end])
		}
	}
	return response
}

// parseDemoContent decodes a generation reply, filling in identity fields
// the model omitted.
func parseDemoContent(response, language, topic string) (*DemoContent, error) {
	var demo DemoContent
	if err := json.Unmarshal([]byte(extractJSON(response)), &demo); err != nil {
		return nil, fmt.Errorf("parse generation response: %w", err)
	}
	if len(demo.Files) == 0 {
		return nil, fmt.Errorf("generation response has no files")
	}

	if demo.Metadata.Name == "" {
		demo.Metadata.Name = fmt.Sprintf("%s-%s", language, topic)
	}
	if demo.Metadata.Language == "" {
		demo.Metadata.Language = language
	}
	if len(demo.Metadata.Keywords) == 0 {
		demo.Metadata.Keywords = []string{topic}
	}
	return &demo, nil
}

type classifyReply struct {
	IsLibrary   bool     `json:"is_library"`
	Confidence  *float64 `json:"confidence"`
	LibraryName string   `json:"library_name"`
	Description string   `json:"description"`
}

// parseClassification decodes a classification reply. Unparseable replies
// come back as a zero-confidence "not a library" verdict.
func parseClassification(response string) models.Classification {
	var reply classifyReply
	if err := json.Unmarshal([]byte(extractJSON(response)), &reply); err != nil {
		return models.Classification{Description: "failed to parse AI response"}
	}

	confidence := 0.5
	if reply.Confidence != nil {
		confidence = *reply.Confidence
	}
	result := models.Classification{
		IsLibrary:   reply.IsLibrary,
		Confidence:  confidence,
		Description: reply.Description,
	}
	if reply.IsLibrary {
		result.LibraryName = reply.LibraryName
	}
	return result
}
