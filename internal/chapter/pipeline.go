package chapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"bookforge/internal/outline"
	"bookforge/internal/provider"
)

// DefaultMaxContinuations bounds the number of extension calls per chapter.
const DefaultMaxContinuations = 3

// Generator is the subset of the provider selector the pipeline needs.
type Generator interface {
	Generate(ctx context.Context, req provider.Request) (string, error)
}

// Config holds configuration for the chapter pipeline.
type Config struct {
	Generator        Generator
	Temperature      float64
	Style            string
	Tone             string
	MaxContinuations int
}

// Pipeline turns chapter specs into artifacts.
type Pipeline struct {
	cfg Config
}

// NewPipeline creates a chapter pipeline.
func NewPipeline(cfg Config) *Pipeline {
	if cfg.MaxContinuations <= 0 {
		cfg.MaxContinuations = DefaultMaxContinuations
	}
	if cfg.Style == "" {
		cfg.Style = "clear and engaging"
	}
	if cfg.Tone == "" {
		cfg.Tone = "professional"
	}
	return &Pipeline{cfg: cfg}
}

// Generate runs the chapter state machine: draft the chapter with the full
// outline and all prior chapters as context, then extend it while it is
// under the minimum word count. Prior chapters must be exactly chapters
// 1..N-1; later chapters never appear in the context.
func (p *Pipeline) Generate(ctx context.Context, spec outline.ChapterSpec, o *outline.Outline, prior []Artifact) (Artifact, error) {
	prompt := p.draftPrompt(spec, o, prior)

	slog.Info("drafting chapter", "chapter", spec.Number, "title", spec.Title, "state", StateDraft)

	text, err := p.cfg.Generator.Generate(ctx, provider.Request{
		Prompt:      prompt,
		System:      SystemPrompt,
		Task:        provider.TaskChapter,
		Temperature: p.cfg.Temperature,
		MaxTokens:   8192,
	})
	if err != nil {
		return Artifact{}, fmt.Errorf("draft chapter %d: %w", spec.Number, err)
	}

	art := Artifact{
		Number:  spec.Number,
		Title:   spec.Title,
		Content: CleanContent(text, spec.Number),
	}
	art.WordCount = CountWords(art.Content)

	return p.Extend(ctx, art, spec)
}

// Extend runs the Underlength state: bounded continuation calls appending
// text until the minimum word count is reached. After the attempt ceiling
// the chapter is accepted below minimum with its flag set; the final count
// is always the real one.
func (p *Pipeline) Extend(ctx context.Context, art Artifact, spec outline.ChapterSpec) (Artifact, error) {
	if spec.MinWords <= 0 || art.WordCount >= spec.MinWords {
		slog.Info("chapter complete", "chapter", art.Number, "words", art.WordCount, "state", StateComplete)
		return art, nil
	}

	for attempt := 1; attempt <= p.cfg.MaxContinuations && art.WordCount < spec.MinWords; attempt++ {
		needed := spec.MinWords - art.WordCount
		slog.Info("chapter underlength, continuing",
			"chapter", art.Number,
			"state", StateUnderlength,
			"attempt", attempt,
			"words", art.WordCount,
			"needed", needed,
		)

		text, err := p.cfg.Generator.Generate(ctx, provider.Request{
			Prompt:      fmt.Sprintf(ContinuationPrompt, art.Number, art.Title, needed, art.Content),
			System:      SystemPrompt,
			Task:        provider.TaskContinuation,
			Temperature: p.cfg.Temperature,
			MaxTokens:   8192,
		})
		if err != nil {
			return Artifact{}, fmt.Errorf("continue chapter %d: %w", art.Number, err)
		}

		addition := CleanContent(text, art.Number)
		if strings.TrimSpace(addition) == "" {
			// Empty continuation: the attempt is consumed and logged, not
			// retried within this round.
			slog.Warn("continuation returned no text", "chapter", art.Number, "attempt", attempt)
			continue
		}

		art.Content = art.Content + "\n\n" + addition
		art.WordCount = CountWords(art.Content)
	}

	if art.WordCount < spec.MinWords {
		art.BelowMinimum = true
		slog.Warn("chapter accepted below minimum",
			"chapter", art.Number,
			"words", art.WordCount,
			"minimum", spec.MinWords,
			"attempts", p.cfg.MaxContinuations,
		)
	} else {
		slog.Info("chapter complete", "chapter", art.Number, "words", art.WordCount, "state", StateComplete)
	}

	return art, nil
}

// draftPrompt assembles the context-aware prompt: the full outline plus the
// complete text of every prior chapter, in order.
func (p *Pipeline) draftPrompt(spec outline.ChapterSpec, o *outline.Outline, prior []Artifact) string {
	var context strings.Builder
	if len(prior) > 0 {
		context.WriteString("\nEarlier chapters (full text):\n")
		for _, prev := range prior {
			fmt.Fprintf(&context, "\n--- Chapter %d: %s ---\n%s\n", prev.Number, prev.Title, prev.Content)
		}
	}

	return fmt.Sprintf(DraftPrompt,
		spec.Number, spec.Title, spec.Summary,
		spec.MinWords, spec.MaxWords,
		p.cfg.Style, p.cfg.Tone,
		outline.Format(o),
		context.String(),
	)
}
