package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/opendemo/opendemo-cli/pkg/config"
	"github.com/opendemo/opendemo-cli/pkg/models"
	"github.com/opendemo/opendemo-cli/pkg/storage"
)

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

// Service talks to an OpenAI-compatible chat-completions endpoint to
// generate demos and classify keywords. All failure modes degrade: demo
// generation returns an error, classification falls back to the built-in
// heuristic.
type Service struct {
	config *config.Config
	logger *slog.Logger
	client *http.Client
}

func New(cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		config: cfg,
		logger: logger,
		client: &http.Client{},
	}
}

// Configured reports whether an API key is available.
func (s *Service) Configured() bool {
	return s.config != nil && s.config.GetString("ai.api_key", "") != ""
}

func (s *Service) endpoint() string {
	if ep := s.config.GetString("ai.api_endpoint", ""); ep != "" {
		return ep
	}
	return defaultEndpoint
}

// DemoContent is the generation result: metadata plus the files to write.
type DemoContent struct {
	Metadata models.Metadata       `json:"metadata"`
	Files    []storage.FileContent `json:"files"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateDemo asks the model for a complete demo bundle. The call is
// retried a configured number of times with a fixed interval; cancelling
// the context stops both the request and the retry sleep.
func (s *Service) GenerateDemo(ctx context.Context, language, topic, difficulty string) (*DemoContent, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("AI API key is not configured")
	}
	if difficulty == "" {
		difficulty = models.DifficultyBeginner
	}

	prompt := buildGeneratePrompt(language, topic, difficulty)
	req := chatRequest{
		Model: s.config.GetString("ai.model", "gpt-4"),
		Messages: []chatMessage{
			{Role: "system", Content: "You are a programming tutor who produces high quality, runnable code examples with tutorials."},
			{Role: "user", Content: prompt},
		},
		Temperature: s.config.GetFloat("ai.temperature", 0.7),
		MaxTokens:   s.config.GetInt("ai.max_tokens", 4000),
	}

	retries := s.config.GetInt("ai.retry_times", 3)
	interval := time.Duration(s.config.GetInt("ai.retry_interval", 5)) * time.Second
	timeout := time.Duration(s.config.GetInt("ai.timeout", 60)) * time.Second

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		content, err := s.complete(ctx, req, timeout)
		if err == nil {
			demo, perr := parseDemoContent(content, language, topic)
			if perr == nil {
				return demo, nil
			}
			err = perr
		}
		lastErr = err
		s.logger.Error("AI generation attempt failed", "attempt", attempt, "retries", retries, "error", err)

		if attempt < retries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(interval):
			}
		}
	}
	return nil, fmt.Errorf("failed to generate demo after %d attempts: %w", retries, lastErr)
}

// ClassifyKeyword decides whether a keyword names a third-party library.
// When no API key is configured, or the API call or parse fails, the
// lexical heuristic answers instead.
func (s *Service) ClassifyKeyword(language, keyword string) models.Classification {
	if !s.Configured() {
		s.logger.Warn("AI API key not configured, using heuristic classification")
		return heuristicClassify(language, keyword)
	}

	req := chatRequest{
		Model: s.config.GetString("ai.model", "gpt-4"),
		Messages: []chatMessage{
			{Role: "system", Content: "You are an expert on programming language package ecosystems. Reply with JSON only."},
			{Role: "user", Content: buildClassifyPrompt(language, keyword)},
		},
		Temperature: 0.1,
		MaxTokens:   200,
	}
	timeout := time.Duration(s.config.GetInt("ai.timeout", 30)) * time.Second

	content, err := s.complete(context.Background(), req, timeout)
	if err != nil {
		s.logger.Warn("AI classification failed, using heuristic", "keyword", keyword, "error", err)
		return heuristicClassify(language, keyword)
	}
	return parseClassification(content)
}

// ValidateAPIKey sends a minimal completion request to confirm the
// configured credentials work.
func (s *Service) ValidateAPIKey(ctx context.Context) bool {
	if !s.Configured() {
		return false
	}
	req := chatRequest{
		Model:     s.config.GetString("ai.model", "gpt-4"),
		Messages:  []chatMessage{{Role: "user", Content: "test"}},
		MaxTokens: 5,
	}
	_, err := s.complete(ctx, req, 10*time.Second)
	if err != nil {
		s.logger.Error("API key validation failed", "error", err)
		return false
	}
	return true
}

func (s *Service) complete(ctx context.Context, req chatRequest, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.config.GetString("ai.api_key", ""))

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("API returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("API response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
