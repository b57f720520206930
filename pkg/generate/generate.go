package generate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/opendemo/opendemo-cli/pkg/ai"
	"github.com/opendemo/opendemo-cli/pkg/config"
	"github.com/opendemo/opendemo-cli/pkg/models"
	"github.com/opendemo/opendemo-cli/pkg/repo"
)

// Producer is the AI collaborator that turns a topic into demo content.
type Producer interface {
	GenerateDemo(ctx context.Context, language, topic, difficulty string) (*ai.DemoContent, error)
}

// Generator drives the AI-backed demo creation flow: ask the model for
// content, fill in authorship, persist through the repository.
type Generator struct {
	producer   Producer
	repository *repo.Repository
	config     *config.Config
	logger     *slog.Logger
}

func New(producer Producer, repository *repo.Repository, cfg *config.Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		producer:   producer,
		repository: repository,
		config:     cfg,
		logger:     logger,
	}
}

// Params selects what to generate and where to put it.
type Params struct {
	Language          string
	Topic             string
	Difficulty        string
	SaveToUserLibrary bool
	CustomFolderName  string
	LibraryName       string
}

// Result describes a freshly generated demo.
type Result struct {
	Demo     *models.Demo
	Path     string
	Language string
	Topic    string
	Files    []models.DemoFile
	Verified bool
}

// Generate produces and persists one demo. The folder name is taken from
// the explicit override first, then the model's suggestion, then for
// library demos the normalized topic.
func (g *Generator) Generate(ctx context.Context, p Params) (*Result, error) {
	if p.Difficulty == "" {
		p.Difficulty = models.DifficultyBeginner
	}
	g.logger.Info("generating demo", "language", p.Language, "topic", p.Topic)

	content, err := g.producer.GenerateDemo(ctx, p.Language, p.Topic, p.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("generate demo content: %w", err)
	}

	folderName := p.CustomFolderName
	if folderName == "" {
		folderName = content.Metadata.FolderName
	}
	if folderName == "" && p.LibraryName != "" {
		folderName = normalizeTopic(p.Topic)
	}

	name := content.Metadata.Name
	if name == "" {
		name = fmt.Sprintf("%s-%s", p.Language, p.Topic)
	}
	keywords := content.Metadata.Keywords
	if len(keywords) == 0 {
		keywords = []string{p.Topic}
	}
	description := content.Metadata.Description
	if description == "" {
		description = fmt.Sprintf("Demo for %s", p.Topic)
	}

	var author string
	if g.config != nil {
		author = g.config.GetString("contribution.author_name", "")
	}

	demo := g.repository.CreateDemo(repo.CreateDemoParams{
		Name:              name,
		Language:          p.Language,
		Keywords:          keywords,
		Description:       description,
		Files:             content.Files,
		Difficulty:        p.Difficulty,
		Author:            author,
		SaveToUserLibrary: p.SaveToUserLibrary,
		CustomFolderName:  folderName,
		LibraryName:       p.LibraryName,
	})
	if demo == nil {
		return nil, fmt.Errorf("failed to save generated demo")
	}

	g.logger.Info("generated demo", "path", demo.Path)
	return &Result{
		Demo:     demo,
		Path:     demo.Path,
		Language: p.Language,
		Topic:    p.Topic,
		Files:    g.repository.DemoFiles(demo),
	}, nil
}

// Regenerate replaces an existing demo in place: the old directory is
// removed and the same language/topic is generated again. An empty
// difficulty keeps the demo's current one.
func (g *Generator) Regenerate(ctx context.Context, demoPath, difficulty string) (*Result, error) {
	demo := g.repository.LoadDemo(demoPath)
	if demo == nil {
		return nil, fmt.Errorf("demo not found at %s", demoPath)
	}

	language := demo.Language()
	topic := demo.Name()
	if difficulty == "" {
		difficulty = demo.Difficulty()
	}

	if err := g.repository.Storage().DeleteDemo(demoPath); err != nil {
		return nil, fmt.Errorf("remove old demo: %w", err)
	}
	g.repository.ClearCache()

	return g.Generate(ctx, Params{Language: language, Topic: topic, Difficulty: difficulty})
}

// ForceFolderName builds a fresh folder name for a forced regeneration:
// the keywords joined by hyphens with a "-new" suffix, numbered upward
// until it does not collide with an existing directory.
func ForceFolderName(outputDir, language string, keywords []string) string {
	parts := make([]string, len(keywords))
	for i, kw := range keywords {
		parts[i] = strings.ToLower(kw)
	}
	base := strings.Join(parts, "-")

	name := base + "-new"
	langDir := filepath.Join(outputDir, strings.ToLower(language))
	for suffix := 1; ; suffix++ {
		// Any stat failure means nothing occupies the name.
		if _, err := os.Stat(filepath.Join(langDir, name)); err != nil {
			return name
		}
		name = fmt.Sprintf("%s-new%d", base, suffix)
	}
}

func normalizeTopic(topic string) string {
	name := strings.ToLower(topic)
	name = strings.ReplaceAll(name, " ", "-")
	return strings.ReplaceAll(name, "_", "-")
}
