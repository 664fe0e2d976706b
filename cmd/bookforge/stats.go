package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bookforge/internal/config"
	"bookforge/internal/db"
)

var statsRuns int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lifetime generation statistics and recent runs",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsRuns, "runs", 10, "Number of recent runs to list")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	agg, err := store.GetAggregateStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	fmt.Println("Lifetime statistics")
	fmt.Printf("  Runs:            %d (%d completed)\n", agg.TotalRuns, agg.CompletedRuns)
	fmt.Printf("  Chapters:        %d\n", agg.TotalChapters)
	fmt.Printf("  Words:           %d\n", agg.TotalWords)
	fmt.Printf("  API calls:       %d\n", agg.TotalAPICalls)
	fmt.Printf("  Below minimum:   %d\n", agg.BelowMinimum)
	fmt.Printf("  Still flagged:   %d\n", agg.StillFlagged)

	runs, err := store.ListRuns(ctx, int64(statsRuns))
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		return nil
	}

	fmt.Printf("\nRecent runs\n")
	for _, r := range runs {
		finished := "-"
		if r.FinishedAt.Valid {
			finished = r.FinishedAt.Time.Format("2006-01-02 15:04")
		}
		fmt.Printf("  %s  %-9s  %2d chapters  %6d words  %s  %q\n",
			r.StartedAt.Format("2006-01-02 15:04"), r.Status,
			r.ChaptersTotal, r.TotalWords, finished, r.Topic)
	}
	return nil
}
