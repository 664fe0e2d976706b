package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bookforge/internal/research"
)

var (
	resListings string
	resCSV      string
	resKeywords int
)

var researchCmd = &cobra.Command{
	Use:   "research <query>",
	Short: "Analyze a book niche from marketplace listings",
	Long: `Research scores a niche from a JSON file of marketplace listings:
competition, demand, quality gaps, pricing, timing, and an overall
opportunity score, plus keyword suggestions mined from listing titles.

The listings file is a JSON array of objects with title, author,
reviews_count, rating, price, and publication_year fields.`,
	Args: cobra.ExactArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().StringVar(&resListings, "listings", "", "Path to the listings JSON file (required)")
	researchCmd.Flags().StringVar(&resCSV, "csv", "", "Also write the raw listings to this CSV file")
	researchCmd.Flags().IntVar(&resKeywords, "keywords", 10, "Number of keyword suggestions to print")
	_ = researchCmd.MarkFlagRequired("listings")
	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	listings, err := research.LoadListings(resListings)
	if err != nil {
		return fmt.Errorf("load listings: %w", err)
	}
	if len(listings) == 0 {
		return fmt.Errorf("no listings found in %s", resListings)
	}

	analysis := research.Analyze(listings, query)

	if err := research.WriteReport(os.Stdout, analysis); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	titles := make([]string, 0, len(listings))
	for _, l := range listings {
		titles = append(titles, l.Title)
	}
	keywords := research.SuggestKeywords(titles, resKeywords)
	if len(keywords) > 0 {
		fmt.Println("\nKeyword suggestions:")
		for _, kw := range keywords {
			fmt.Printf("  %-20s %d\n", kw.Word, kw.Count)
		}
	}

	if resCSV != "" {
		f, err := os.Create(resCSV)
		if err != nil {
			return fmt.Errorf("create csv file: %w", err)
		}
		defer f.Close()
		if err := research.WriteListingsCSV(f, listings); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		fmt.Printf("\nListings written to %s\n", resCSV)
	}

	return nil
}
