package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bookforge/internal/config"
	"bookforge/internal/db"
	"bookforge/internal/ratelimit"
)

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show today's per-model request usage",
	RunE:  runQuota,
}

func init() {
	rootCmd.AddCommand(quotaCmd)
}

func runQuota(cmd *cobra.Command, args []string) error {
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

	day := time.Now().Format(ratelimit.DayFormat)
	buckets, err := store.ListRateBucketsForDay(ctx, day)
	if err != nil {
		return fmt.Errorf("list buckets: %w", err)
	}

	fmt.Printf("Request usage for %s\n", day)
	if len(buckets) == 0 {
		fmt.Println("  no requests recorded today")
		return nil
	}
	for _, b := range buckets {
		fmt.Printf("  %-28s %5d today  (%d in current minute window)\n",
			b.Model, b.DayCount, b.MinuteCount)
	}
	return nil
}
