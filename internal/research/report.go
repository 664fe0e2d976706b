package research

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteReport renders a human-readable opportunity summary.
func WriteReport(w io.Writer, a Analysis) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Keyword opportunity report: %q\n", a.Query)
	fmt.Fprintf(&b, "Books analyzed: %d\n", a.TotalBooks)
	fmt.Fprintf(&b, "Opportunity score: %d/100\n\n", a.OpportunityScore)

	fmt.Fprintf(&b, "Competition (%s)\n", a.Competition.Level)
	fmt.Fprintf(&b, "  competitors: %d, avg reviews: %.0f, median reviews: %.0f, avg rating: %.2f\n",
		a.Competition.TotalCompetitors, a.Competition.AvgReviews,
		a.Competition.MedianReviews, a.Competition.AvgRating)
	fmt.Fprintf(&b, "  distinct authors: %d\n\n", a.Competition.AuthorDiversity)

	fmt.Fprintf(&b, "Demand (%s)\n", a.Demand.ActivityLevel)
	fmt.Fprintf(&b, "  total reviews: %d, avg per book: %.1f, active books: %d\n",
		a.Demand.TotalReviews, a.Demand.AvgReviewsPerBook, a.Demand.ActiveBooks)
	fmt.Fprintf(&b, "  estimated monthly searches: %d\n\n", a.Demand.EstimatedMonthlySearches)

	fmt.Fprintf(&b, "Quality gaps\n")
	fmt.Fprintf(&b, "  low-rated competitors worth displacing: %d\n", a.QualityGaps.LowRatedOpportunities)
	if len(a.QualityGaps.MissingFormats) > 0 {
		fmt.Fprintf(&b, "  missing formats: %s\n", strings.Join(a.QualityGaps.MissingFormats, ", "))
	}
	if len(a.QualityGaps.OversaturatedFormats) > 0 {
		fmt.Fprintf(&b, "  oversaturated: %s\n", strings.Join(a.QualityGaps.OversaturatedFormats, ", "))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Pricing (%s)\n", a.Pricing.Strategy)
	fmt.Fprintf(&b, "  avg: $%.2f, median: $%.2f\n", a.Pricing.AvgPrice, a.Pricing.MedianPrice)
	for _, gap := range a.Pricing.Gaps {
		fmt.Fprintf(&b, "  price gap: $%.2f - $%.2f\n", gap.Start, gap.End)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Timing (%s)\n", a.Timing.OpportunityTiming)
	fmt.Fprintf(&b, "  recent publications: %d (freshness %.0f%%), trend: %s\n",
		a.Timing.RecentPublications, a.Timing.MarketFreshness*100, a.Timing.PublishingTrend)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteListingsCSV exports listings for spreadsheet analysis.
func WriteListingsCSV(w io.Writer, listings []Listing) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"title", "author", "reviews", "rating", "price", "publication_year"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, l := range listings {
		record := []string{
			l.Title,
			l.Author,
			strconv.Itoa(l.ReviewsCount),
			strconv.FormatFloat(l.Rating, 'f', 1, 64),
			strconv.FormatFloat(l.Price, 'f', 2, 64),
			strconv.Itoa(l.PublicationYear),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
