package outline

import (
	"context"
	"fmt"
	"log/slog"

	"bookforge/internal/provider"
)

// Generator is the subset of the provider selector the builder needs.
type Generator interface {
	Generate(ctx context.Context, req provider.Request) (string, error)
}

// BuilderConfig holds configuration for the outline stage.
type BuilderConfig struct {
	Generator   Generator
	Chapters    int
	Style       string
	Tone        string
	Temperature float64
	MinWords    int
	MaxWords    int
}

// Builder produces an outline through three sequential generation passes:
// draft, review, and final polish. Failure at any pass is fatal to the run,
// since chapter generation depends on a fully numbered sequence.
type Builder struct {
	cfg BuilderConfig
}

// NewBuilder creates an outline builder.
func NewBuilder(cfg BuilderConfig) *Builder {
	if cfg.Chapters <= 0 {
		cfg.Chapters = 10
	}
	if cfg.Style == "" {
		cfg.Style = "clear and engaging"
	}
	if cfg.Tone == "" {
		cfg.Tone = "professional"
	}
	return &Builder{cfg: cfg}
}

// Build runs the three outline passes and returns the parsed result.
func (b *Builder) Build(ctx context.Context, topic, genre, audience string) (*Outline, error) {
	draft, err := b.pass(ctx, "draft", fmt.Sprintf(DraftPrompt,
		b.cfg.Chapters, topic, genre, audience, b.cfg.Style, b.cfg.Tone))
	if err != nil {
		return nil, err
	}

	reviewed, err := b.pass(ctx, "review", fmt.Sprintf(ReviewPrompt, draft))
	if err != nil {
		return nil, err
	}

	final, err := b.pass(ctx, "polish", fmt.Sprintf(PolishPrompt, reviewed))
	if err != nil {
		return nil, err
	}

	o, err := Parse(final)
	if err != nil {
		return nil, fmt.Errorf("parse final outline: %w", err)
	}

	for i := range o.Chapters {
		o.Chapters[i].MinWords = b.cfg.MinWords
		o.Chapters[i].MaxWords = b.cfg.MaxWords
	}

	slog.Info("outline built", "chapters", len(o.Chapters), "topic", topic)
	return o, nil
}

// pass runs one generation call and sanitizes its output. The sanitizer
// renumbers chapters sequentially, so a model that skips or duplicates
// numbers cannot corrupt the plan.
func (b *Builder) pass(ctx context.Context, name, prompt string) (string, error) {
	text, err := b.cfg.Generator.Generate(ctx, provider.Request{
		Prompt:      prompt,
		System:      SystemPrompt,
		Task:        provider.TaskOutline,
		Temperature: b.cfg.Temperature,
		MaxTokens:   4096,
	})
	if err != nil {
		return "", fmt.Errorf("outline %s pass: %w", name, err)
	}

	sanitized := Sanitize(text)
	if sanitized == "" {
		return "", fmt.Errorf("outline %s pass: %w", name, provider.ErrEmptyResponse)
	}

	slog.Debug("outline pass complete", "pass", name, "chars", len(sanitized))
	return sanitized, nil
}
