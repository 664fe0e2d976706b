// Package book sequences the full generation run: outline stage, then the
// chapter pipeline and quality gate per chapter, strictly in order.
package book

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookforge/internal/chapter"
	"bookforge/internal/db"
	"bookforge/internal/outline"
	"bookforge/internal/provider"
	"bookforge/internal/quality"
	"bookforge/internal/workspace"
)

// Params describe one book run.
type Params struct {
	Topic    string
	Genre    string
	Audience string

	// Resume reuses the existing outline file and skips chapters whose
	// files are already on disk.
	Resume bool
}

// Orchestrator wires the stages together and owns run-level bookkeeping.
type Orchestrator struct {
	selector   *provider.Selector
	builder    *outline.Builder
	pipeline   *chapter.Pipeline
	gate       *quality.Gate
	ws         *workspace.Workspace
	store      *db.Store                // optional
	similarity *quality.SimilarityIndex // optional
	cooldown   time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

// Config holds the orchestrator's dependencies.
type Config struct {
	Selector   *provider.Selector
	Builder    *outline.Builder
	Pipeline   *chapter.Pipeline
	Gate       *quality.Gate
	Workspace  *workspace.Workspace
	Store      *db.Store
	Similarity *quality.SimilarityIndex
	Cooldown   time.Duration
}

// New creates an orchestrator.
func New(cfg Config) *Orchestrator {
	return &Orchestrator{
		selector:   cfg.Selector,
		builder:    cfg.Builder,
		pipeline:   cfg.Pipeline,
		gate:       cfg.Gate,
		ws:         cfg.Workspace,
		store:      cfg.Store,
		similarity: cfg.Similarity,
		cooldown:   cfg.Cooldown,
		sleep:      sleepCtx,
	}
}

// SetSleep overrides the inter-chapter sleep. Intended for tests.
func (o *Orchestrator) SetSleep(sleep func(ctx context.Context, d time.Duration) error) {
	o.sleep = sleep
}

// Run executes the whole pipeline. Chapters are processed strictly
// sequentially: chapter N's prompt depends on the final text of chapters
// 1..N-1, so generation never overlaps. Fatal errors stop the run; degraded
// outcomes are collected in the returned statistics.
func (o *Orchestrator) Run(ctx context.Context, p Params) (*RunStatistics, error) {
	start := time.Now()
	stats := &RunStatistics{RunID: uuid.NewString()}

	if o.store != nil {
		if err := o.store.CreateRun(ctx, db.CreateRunParams{
			ID:       stats.RunID,
			Topic:    p.Topic,
			Genre:    p.Genre,
			Audience: p.Audience,
		}); err != nil {
			slog.Warn("failed to record run start", "error", err)
		}
	}

	result, err := o.run(ctx, p, stats)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	stats.Elapsed = time.Since(start)
	o.finishRun(ctx, stats, status)
	o.report(stats, status)
	return result, err
}

func (o *Orchestrator) run(ctx context.Context, p Params, stats *RunStatistics) (*RunStatistics, error) {
	// Outline stage. Failure here is fatal: the chapter pipeline needs a
	// fully numbered sequence.
	var (
		plan *outline.Outline
		err  error
	)
	if p.Resume {
		text, rerr := o.ws.ReadOutline()
		if rerr != nil {
			return stats, fmt.Errorf("resume: %w", rerr)
		}
		plan, err = outline.Parse(text)
		if err != nil {
			return stats, fmt.Errorf("resume: outline malformed: %w", err)
		}
		slog.Info("resuming from existing outline", "chapters", len(plan.Chapters))
	} else {
		plan, err = o.builder.Build(ctx, p.Topic, p.Genre, p.Audience)
		if err != nil {
			return stats, err
		}
		if err := o.ws.WriteOutline(outline.Format(plan)); err != nil {
			return stats, fmt.Errorf("persist outline: %w", err)
		}
	}

	stats.ChaptersTotal = len(plan.Chapters)

	var priors []chapter.Artifact
	for _, spec := range plan.Chapters {
		if p.Resume && o.ws.ChapterExists(spec.Number) {
			art, rerr := o.loadExisting(spec)
			if rerr != nil {
				return stats, rerr
			}
			priors = append(priors, art)
			stats.ChaptersSkipped++
			stats.TotalWords += art.WordCount
			slog.Info("skipping existing chapter", "chapter", spec.Number, "words", art.WordCount)
			continue
		}

		// Fixed inter-chapter cooldown so back-to-back chapters do not trip
		// provider rate limits.
		if len(priors) > 0 && o.cooldown > 0 {
			if err := o.sleep(ctx, o.cooldown); err != nil {
				return stats, err
			}
		}

		art, err := o.pipeline.Generate(ctx, spec, plan, priors)
		if err != nil {
			return stats, err
		}

		art, err = o.gate.Ensure(ctx, art, spec)
		if err != nil {
			return stats, err
		}

		if err := o.ws.WriteChapter(art.Number, art.Title, art.Content); err != nil {
			return stats, fmt.Errorf("persist chapter %d: %w", art.Number, err)
		}

		if o.similarity != nil {
			match, serr := o.similarity.CheckAndAdd(ctx, art)
			if serr != nil {
				slog.Warn("similarity check failed", "chapter", art.Number, "error", serr)
			}
			if match != nil {
				stats.SimilarityMatches = append(stats.SimilarityMatches, art.Number)
			}
		}

		o.recordChapter(ctx, stats.RunID, art)

		stats.ChaptersGenerated++
		stats.TotalWords += art.WordCount
		if art.BelowMinimum {
			stats.BelowMinimum = append(stats.BelowMinimum, art.Number)
		}
		if art.StillFlagged {
			stats.StillFlagged = append(stats.StillFlagged, art.Number)
		}

		slog.Info("chapter finalized",
			"chapter", art.Number,
			"words", art.WordCount,
			"originality", art.OriginalityScore,
			"rewrites", art.RewriteAttempts,
			"below_minimum", art.BelowMinimum,
			"still_flagged", art.StillFlagged,
		)

		priors = append(priors, art)
	}

	return stats, nil
}

// loadExisting reconstructs a prior artifact from a chapter file so resumed
// runs still feed full prior text into later chapters.
func (o *Orchestrator) loadExisting(spec outline.ChapterSpec) (chapter.Artifact, error) {
	text, err := o.ws.ReadChapter(spec.Number)
	if err != nil {
		return chapter.Artifact{}, err
	}

	// Strip the "Chapter N: Title" heading the workspace writes.
	content := text
	if idx := strings.Index(text, "\n\n"); idx != -1 && strings.HasPrefix(strings.TrimSpace(text), "Chapter ") {
		content = text[idx+2:]
	}
	content = strings.TrimSpace(content)

	return chapter.Artifact{
		Number:    spec.Number,
		Title:     spec.Title,
		Content:   content,
		WordCount: chapter.CountWords(content),
	}, nil
}

func (o *Orchestrator) recordChapter(ctx context.Context, runID string, art chapter.Artifact) {
	if o.store == nil {
		return
	}
	err := o.store.CreateChapterRecord(ctx, db.ChapterRecord{
		RunID:            runID,
		Number:           int64(art.Number),
		Title:            art.Title,
		WordCount:        int64(art.WordCount),
		OriginalityScore: int64(art.OriginalityScore),
		RewriteAttempts:  int64(art.RewriteAttempts),
		BelowMinimum:     art.BelowMinimum,
		StillFlagged:     art.StillFlagged,
	})
	if err != nil {
		slog.Warn("failed to record chapter", "chapter", art.Number, "error", err)
	}
}

func (o *Orchestrator) finishRun(ctx context.Context, stats *RunStatistics, status string) {
	stats.APICalls = o.selector.Calls()

	if o.store == nil {
		return
	}
	err := o.store.FinishRun(ctx, db.FinishRunParams{
		ID:                   stats.RunID,
		Status:               status,
		TotalWords:           int64(stats.TotalWords),
		APICalls:             stats.APICalls,
		ChaptersTotal:        int64(stats.ChaptersTotal),
		ChaptersBelowMinimum: int64(len(stats.BelowMinimum)),
		ChaptersStillFlagged: int64(len(stats.StillFlagged)),
	})
	if err != nil {
		slog.Warn("failed to record run outcome", "error", err)
	}
}

// report summarizes the run, including every degraded outcome.
func (o *Orchestrator) report(stats *RunStatistics, status string) {
	slog.Info("run finished",
		"run_id", stats.RunID,
		"status", status,
		"chapters", stats.ChaptersGenerated,
		"skipped", stats.ChaptersSkipped,
		"total_words", stats.TotalWords,
		"api_calls", stats.APICalls,
		"elapsed", stats.Elapsed.Round(time.Second),
	)
	if len(stats.BelowMinimum) > 0 {
		slog.Warn("chapters accepted below minimum word count", "chapters", stats.BelowMinimum)
	}
	if len(stats.StillFlagged) > 0 {
		slog.Warn("chapters still flagged for originality", "chapters", stats.StillFlagged)
	}
	if len(stats.SimilarityMatches) > 0 {
		slog.Warn("chapters closely repeating earlier chapters", "chapters", stats.SimilarityMatches)
	}
}

// sleepCtx sleeps for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
