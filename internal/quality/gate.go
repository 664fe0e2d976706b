package quality

import (
	"context"
	"fmt"
	"log/slog"

	"bookforge/internal/chapter"
	"bookforge/internal/outline"
	"bookforge/internal/provider"
)

// Policy is the accept/rewrite decision rule. One explicit rule, applied
// everywhere: accept at AcceptScore, accept at GoodEnoughScore once at
// least GoodEnoughAfter assessments have been made, otherwise rewrite until
// MaxAttempts and then accept with the StillFlagged flag set.
type Policy struct {
	AcceptScore     int
	GoodEnoughScore int
	GoodEnoughAfter int
	MaxAttempts     int
}

// DefaultPolicy returns the standard decision thresholds.
func DefaultPolicy() Policy {
	return Policy{
		AcceptScore:     8,
		GoodEnoughScore: 6,
		GoodEnoughAfter: 2,
		MaxAttempts:     3,
	}
}

// Generator is the subset of the provider selector the gate needs.
type Generator interface {
	Generate(ctx context.Context, req provider.Request) (string, error)
}

// Archiver persists reports and pre-rewrite backups. Satisfied by
// *workspace.Workspace.
type Archiver interface {
	WriteReport(number int, report string) error
	BackupChapter(number, attempt int, content string) error
}

// Extender re-runs the underlength continuation state after a rewrite.
// Satisfied by *chapter.Pipeline.
type Extender interface {
	Extend(ctx context.Context, art chapter.Artifact, spec outline.ChapterSpec) (chapter.Artifact, error)
}

// Config holds configuration for the quality gate.
type Config struct {
	Generator   Generator
	Archiver    Archiver
	Extender    Extender
	Policy      Policy
	Temperature float64
}

// Gate runs the originality check and rewrite loop on finished chapters.
type Gate struct {
	cfg Config
}

// NewGate creates a quality gate.
func NewGate(cfg Config) *Gate {
	if cfg.Policy == (Policy{}) {
		cfg.Policy = DefaultPolicy()
	}
	return &Gate{cfg: cfg}
}

// Ensure assesses the artifact and rewrites it until the policy accepts it
// or attempts run out. The previous version is always archived before a
// rewrite overwrites it. A rewrite that leaves the chapter short re-enters
// continuation before the next assessment. After exhaustion the current
// version is accepted and flagged, never silently passed.
func (g *Gate) Ensure(ctx context.Context, art chapter.Artifact, spec outline.ChapterSpec) (chapter.Artifact, error) {
	pol := g.cfg.Policy

	for attempt := 1; ; attempt++ {
		rep, err := g.assess(ctx, art)
		if err != nil {
			return art, err
		}

		art.OriginalityScore = rep.Score

		if err := g.cfg.Archiver.WriteReport(art.Number, rep.Format()); err != nil {
			slog.Warn("failed to write originality report", "chapter", art.Number, "error", err)
		}

		slog.Info("originality assessment",
			"chapter", art.Number,
			"attempt", attempt,
			"score", rep.Score,
			"plagiarism_risk", rep.PlagiarismRisk,
		)

		switch {
		case rep.Score >= pol.AcceptScore:
			return art, nil

		case attempt >= pol.GoodEnoughAfter && rep.Score >= pol.GoodEnoughScore:
			slog.Info("accepting chapter at good-enough score",
				"chapter", art.Number, "score", rep.Score, "attempts", attempt)
			return art, nil

		case art.RewriteAttempts >= pol.MaxAttempts:
			art.StillFlagged = true
			slog.Warn("rewrite attempts exhausted, accepting flagged chapter",
				"chapter", art.Number, "score", rep.Score, "attempts", art.RewriteAttempts)
			return art, nil
		}

		art, err = g.rewrite(ctx, art, spec, rep)
		if err != nil {
			return art, err
		}
	}
}

// assess runs one originality-assessment call and parses its report.
func (g *Gate) assess(ctx context.Context, art chapter.Artifact) (Report, error) {
	text, err := g.cfg.Generator.Generate(ctx, provider.Request{
		Prompt:      fmt.Sprintf(AssessPrompt, art.Number, art.Content),
		System:      AssessSystemPrompt,
		Task:        provider.TaskAssessment,
		Temperature: 0.2, // assessments want determinism, not creativity
		MaxTokens:   1024,
	})
	if err != nil {
		return Report{}, fmt.Errorf("assess chapter %d: %w", art.Number, err)
	}

	rep, err := ParseReport(text)
	if err != nil {
		return Report{}, fmt.Errorf("assess chapter %d: %w", art.Number, err)
	}
	return rep, nil
}

// rewrite archives the current text, regenerates it against the assessment
// issues, and re-extends it if the rewrite came back short.
func (g *Gate) rewrite(ctx context.Context, art chapter.Artifact, spec outline.ChapterSpec, rep Report) (chapter.Artifact, error) {
	backupAttempt := art.RewriteAttempts + 1
	if err := g.cfg.Archiver.BackupChapter(art.Number, backupAttempt, art.Content); err != nil {
		return art, err
	}

	issues := rep.Issues
	if issues == "" {
		issues = fmt.Sprintf("originality score was %d/10, below the acceptance threshold", rep.Score)
	}

	slog.Info("rewriting chapter for originality",
		"chapter", art.Number, "attempt", backupAttempt, "score", rep.Score)

	text, err := g.cfg.Generator.Generate(ctx, provider.Request{
		Prompt:      fmt.Sprintf(RewritePrompt, art.Number, issues, art.Content),
		System:      RewriteSystemPrompt,
		Task:        provider.TaskRewrite,
		Temperature: g.cfg.Temperature,
		MaxTokens:   8192,
	})
	if err != nil {
		return art, fmt.Errorf("rewrite chapter %d: %w", art.Number, err)
	}

	art.RewriteAttempts++
	art.Content = chapter.CleanContent(text, art.Number)
	art.WordCount = chapter.CountWords(art.Content)
	art.BelowMinimum = false

	// A short rewrite goes back through continuation before reassessment.
	if g.cfg.Extender != nil && spec.MinWords > 0 && art.WordCount < spec.MinWords {
		art, err = g.cfg.Extender.Extend(ctx, art, spec)
		if err != nil {
			return art, err
		}
	}

	return art, nil
}
