package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"bookforge/internal/book"
	"bookforge/internal/chapter"
	"bookforge/internal/config"
	"bookforge/internal/db"
	"bookforge/internal/outline"
	"bookforge/internal/provider"
	"bookforge/internal/quality"
	"bookforge/internal/ratelimit"
	"bookforge/internal/workspace"
)

var (
	genChapters      int
	genModel         string
	genTemperature   float64
	genMinWords      int
	genMaxWords      int
	genStyle         string
	genTone          string
	genPlagChecks    int
	genPlagThreshold int
	genOutput        string
	genResume        bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic> <genre> <audience>",
	Short: "Generate a full book manuscript",
	Long: `Generate builds a chapter outline for the topic, then writes each
chapter in order, extending underlength chapters and rewriting chapters
that fail the originality check.

Examples:
  bookforge generate "sourdough baking" "cookbook" "home bakers"
  bookforge generate "urban beekeeping" "how-to" "beginners" --chapters 8 --min-words 1500
  bookforge generate "urban beekeeping" "how-to" "beginners" --resume`,
	Args: cobra.ExactArgs(3),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&genChapters, "chapters", 10, "Number of chapters to plan")
	generateCmd.Flags().StringVar(&genModel, "model", provider.GeminiFlash, "Primary cloud model")
	generateCmd.Flags().Float64Var(&genTemperature, "temperature", 0.9, "Generation temperature")
	generateCmd.Flags().IntVar(&genMinWords, "min-words", 2000, "Minimum words per chapter")
	generateCmd.Flags().IntVar(&genMaxWords, "max-words", 4000, "Maximum words per chapter")
	generateCmd.Flags().StringVar(&genStyle, "style", "clear and engaging", "Writing style preset")
	generateCmd.Flags().StringVar(&genTone, "tone", "professional", "Writing tone preset")
	generateCmd.Flags().IntVar(&genPlagChecks, "plagiarism-checks", 3, "Maximum rewrite attempts per chapter")
	generateCmd.Flags().IntVar(&genPlagThreshold, "plagiarism-threshold", 8, "Originality score to accept immediately (1-10)")
	generateCmd.Flags().StringVar(&genOutput, "output", "", "Output directory (default: <OUTPUT_DIR>/<topic slug>)")
	generateCmd.Flags().BoolVar(&genResume, "resume", false, "Resume chapter generation from an existing outline file")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	topic, genre, audience := args[0], args[1], args[2]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForGeneration(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	outDir := genOutput
	if outDir == "" {
		outDir = filepath.Join(cfg.OutputDir, slugify(topic))
	}
	ws, err := workspace.New(outDir)
	if err != nil {
		return err
	}

	selector := buildSelector(cfg, store, genModel)

	builder := outline.NewBuilder(outline.BuilderConfig{
		Generator:   selector,
		Chapters:    genChapters,
		Style:       genStyle,
		Tone:        genTone,
		Temperature: genTemperature,
		MinWords:    genMinWords,
		MaxWords:    genMaxWords,
	})

	pipeline := chapter.NewPipeline(chapter.Config{
		Generator:   selector,
		Temperature: genTemperature,
		Style:       genStyle,
		Tone:        genTone,
	})

	gate := quality.NewGate(quality.Config{
		Generator: selector,
		Archiver:  ws,
		Extender:  pipeline,
		Policy: quality.Policy{
			AcceptScore:     genPlagThreshold,
			GoodEnoughScore: genPlagThreshold - 2,
			GoodEnoughAfter: 2,
			MaxAttempts:     genPlagChecks,
		},
		Temperature: genTemperature,
	})

	// Similarity index is best-effort: without a local embedding backend
	// the run proceeds with the model-based check only.
	var simIndex *quality.SimilarityIndex
	if err := cfg.ValidateForSimilarity(); err == nil {
		simIndex, err = quality.NewSimilarityIndex(quality.SimilarityConfig{Path: cfg.VecLitePath})
		if err != nil {
			slog.Warn("similarity index unavailable, continuing without it", "error", err)
			simIndex = nil
		} else {
			defer simIndex.Close()
		}
	}

	orch := book.New(book.Config{
		Selector:   selector,
		Builder:    builder,
		Pipeline:   pipeline,
		Gate:       gate,
		Workspace:  ws,
		Store:      store,
		Similarity: simIndex,
		Cooldown:   cfg.ChapterCooldown,
	})

	slog.Info("starting book generation",
		"topic", topic, "genre", genre, "audience", audience,
		"chapters", genChapters, "output", outDir, "resume", genResume,
	)

	stats, err := orch.Run(ctx, book.Params{
		Topic:    topic,
		Genre:    genre,
		Audience: audience,
		Resume:   genResume,
	})
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	fmt.Printf("Book complete: %d chapters, %d words, %d API calls (%s)\n",
		stats.ChaptersGenerated+stats.ChaptersSkipped, stats.TotalWords,
		stats.APICalls, stats.Elapsed.Round(1e9))
	return nil
}

// buildSelector assembles the provider fallback chain: the chosen Gemini
// tier, then the lite tier, then Groq and Ollama when configured.
func buildSelector(cfg *config.Config, store *db.Store, model string) *provider.Selector {
	limits := map[string]ratelimit.Limits{
		provider.GeminiFlash:     {PerMinute: 15, PerDay: 1500},
		provider.GeminiFlashLite: {PerMinute: 30, PerDay: 1500},
	}

	var candidates []provider.Candidate
	candidates = append(candidates, provider.Candidate{
		Client: provider.NewGeminiClient(provider.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  model,
		}),
	})
	if model != provider.GeminiFlashLite {
		candidates = append(candidates, provider.Candidate{
			Client: provider.NewGeminiClient(provider.GeminiConfig{
				APIKey: cfg.GeminiAPIKey,
				Model:  provider.GeminiFlashLite,
			}),
		})
	}

	if cfg.GroqAPIKey != "" {
		groq := provider.NewGroqClient(provider.GroqConfig{APIKey: cfg.GroqAPIKey})
		limits[groq.Name()] = ratelimit.Limits{PerMinute: 30, PerDay: 14400}
		candidates = append(candidates, provider.Candidate{Client: groq})
	}

	if cfg.OllamaHost != "" {
		candidates = append(candidates, provider.Candidate{
			Client: provider.NewOllamaClient(provider.OllamaConfig{
				Host:  cfg.OllamaHost,
				Model: cfg.OllamaModel,
			}),
		})
	}

	limiter := ratelimit.New(ratelimit.NewSQLStore(store.Queries), limits)

	return provider.NewSelector(provider.SelectorConfig{
		Candidates: candidates,
		Limiter:    limiter,
	})
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns a topic into a directory-safe name.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
