package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"bookforge/internal/config"
	"bookforge/internal/db"
	"bookforge/internal/outline"
	"bookforge/internal/provider"
	"bookforge/internal/workspace"
)

var (
	outChapters    int
	outModel       string
	outTemperature float64
	outStyle       string
	outTone        string
	outMinWords    int
	outMaxWords    int
	outOutput      string
)

var outlineCmd = &cobra.Command{
	Use:   "outline <topic> <genre> <audience>",
	Short: "Generate a chapter outline without writing chapters",
	Long: `Outline runs the three-pass outline stage (draft, review, polish)
and writes the result to outline.txt in the output directory. Use it to
inspect or hand-edit the chapter plan before a full generate run.`,
	Args: cobra.ExactArgs(3),
	RunE: runOutline,
}

func init() {
	outlineCmd.Flags().IntVar(&outChapters, "chapters", 10, "Number of chapters to plan")
	outlineCmd.Flags().StringVar(&outModel, "model", "", "Primary cloud model (default: gemini-2.0-flash)")
	outlineCmd.Flags().Float64Var(&outTemperature, "temperature", 0.9, "Generation temperature")
	outlineCmd.Flags().StringVar(&outStyle, "style", "clear and engaging", "Writing style preset")
	outlineCmd.Flags().StringVar(&outTone, "tone", "professional", "Writing tone preset")
	outlineCmd.Flags().IntVar(&outMinWords, "min-words", 2000, "Minimum words per chapter")
	outlineCmd.Flags().IntVar(&outMaxWords, "max-words", 4000, "Maximum words per chapter")
	outlineCmd.Flags().StringVar(&outOutput, "output", "", "Output directory (default: <OUTPUT_DIR>/<topic slug>)")
	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
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

	outDir := outOutput
	if outDir == "" {
		outDir = filepath.Join(cfg.OutputDir, slugify(topic))
	}
	ws, err := workspace.New(outDir)
	if err != nil {
		return err
	}

	model := outModel
	if model == "" {
		model = provider.GeminiFlash
	}
	selector := buildSelector(cfg, store, model)

	builder := outline.NewBuilder(outline.BuilderConfig{
		Generator:   selector,
		Chapters:    outChapters,
		Style:       outStyle,
		Tone:        outTone,
		Temperature: outTemperature,
		MinWords:    outMinWords,
		MaxWords:    outMaxWords,
	})

	slog.Info("building outline", "topic", topic, "chapters", outChapters)

	o, err := builder.Build(ctx, topic, genre, audience)
	if err != nil {
		return fmt.Errorf("build outline: %w", err)
	}

	if err := ws.WriteOutline(outline.Format(o)); err != nil {
		return fmt.Errorf("write outline: %w", err)
	}

	fmt.Printf("Outline with %d chapters written to %s\n", len(o.Chapters), ws.OutlinePath())
	return nil
}
