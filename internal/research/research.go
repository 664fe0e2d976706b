// Package research estimates keyword opportunity for self-publishing from
// exported search-result listings. Fetching the listings is an external
// concern; this package only analyzes them.
package research

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Listing is one search-result entry for a keyword query.
type Listing struct {
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	ReviewsCount    int     `json:"reviews_count"`
	Rating          float64 `json:"rating"`
	Price           float64 `json:"price"`
	PublicationYear int     `json:"publication_year"`
}

// LoadListings reads listings from a JSON array file.
func LoadListings(path string) ([]Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read listings: %w", err)
	}

	var listings []Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("parse listings: %w", err)
	}
	return listings, nil
}

// Competition summarizes the competitive landscape for a query.
type Competition struct {
	TotalCompetitors int
	AvgReviews       float64
	MedianReviews    float64
	MaxReviews       int
	AvgRating        float64
	AuthorDiversity  int
	Level            string // low, medium, high
}

// Demand summarizes market-demand indicators.
type Demand struct {
	TotalReviews             int
	AvgReviewsPerBook        float64
	ResultDensity            int
	ActiveBooks              int
	ActivityLevel            string // low, medium, high
	EstimatedMonthlySearches int
}

// QualityGaps identifies underserved angles.
type QualityGaps struct {
	LowRatedOpportunities int
	MissingFormats        []string
	OversaturatedFormats  []string
}

// PriceGap is a stretch of the price axis with no competitors.
type PriceGap struct {
	Start float64
	End   float64
	Size  float64
}

// Pricing summarizes pricing opportunities.
type Pricing struct {
	AvgPrice     float64
	MedianPrice  float64
	Distribution map[string]int
	Gaps         []PriceGap
	Strategy     string
}

// Timing summarizes market freshness.
type Timing struct {
	RecentPublications int
	MarketFreshness    float64
	PublishingTrend    string // growing, stable
	OpportunityTiming  string // good, competitive
}

// Analysis is the full opportunity report for one query.
type Analysis struct {
	Query            string
	TotalBooks       int
	Competition      Competition
	Demand           Demand
	QualityGaps      QualityGaps
	Pricing          Pricing
	Timing           Timing
	OpportunityScore int // 0-100
}

// Analyze computes the opportunity analysis for a query over its listings.
func Analyze(listings []Listing, query string) Analysis {
	a := Analysis{
		Query:      query,
		TotalBooks: len(listings),
	}
	if len(listings) == 0 {
		return a
	}

	a.Competition = analyzeCompetition(listings)
	a.Demand = analyzeDemand(listings, query)
	a.QualityGaps = analyzeQualityGaps(listings)
	a.Pricing = analyzePricing(listings)
	a.Timing = analyzeTiming(listings, time.Now().Year())
	a.OpportunityScore = opportunityScore(a)
	return a
}

func analyzeCompetition(listings []Listing) Competition {
	var valid []Listing
	for _, l := range listings {
		if l.ReviewsCount > 0 {
			valid = append(valid, l)
		}
	}
	if len(valid) == 0 {
		return Competition{Level: "low"}
	}

	var reviews []float64
	var ratings []float64
	authors := make(map[string]bool)
	maxReviews := 0
	for _, l := range valid {
		reviews = append(reviews, float64(l.ReviewsCount))
		if l.ReviewsCount > maxReviews {
			maxReviews = l.ReviewsCount
		}
		if l.Rating > 0 {
			ratings = append(ratings, l.Rating)
		}
		authors[l.Author] = true
	}

	c := Competition{
		TotalCompetitors: len(valid),
		AvgReviews:       mean(reviews),
		MedianReviews:    median(reviews),
		MaxReviews:       maxReviews,
		AvgRating:        mean(ratings),
		AuthorDiversity:  len(authors),
	}

	switch {
	case c.AvgReviews > 500 && c.AvgRating > 4.3:
		c.Level = "high"
	case c.AvgReviews > 100 && c.AvgRating > 4.0:
		c.Level = "medium"
	default:
		c.Level = "low"
	}
	return c
}

func analyzeDemand(listings []Listing, query string) Demand {
	total := 0
	active := 0
	for _, l := range listings {
		total += l.ReviewsCount
		if l.ReviewsCount > 50 {
			active++
		}
	}

	d := Demand{
		TotalReviews:      total,
		AvgReviewsPerBook: float64(total) / float64(len(listings)),
		ResultDensity:     len(listings),
		ActiveBooks:       active,
	}

	switch {
	case d.AvgReviewsPerBook > 50:
		d.ActivityLevel = "high"
	case d.AvgReviewsPerBook > 15:
		d.ActivityLevel = "medium"
	default:
		d.ActivityLevel = "low"
	}

	// Rough search-volume estimate from result density and query shape.
	estimate := float64(len(listings) * 100)
	if len(strings.Fields(query)) == 1 {
		estimate *= 2
	} else if strings.Contains(strings.ToLower(query), "how to") {
		estimate *= 1.5
	}
	d.EstimatedMonthlySearches = int(estimate)

	return d
}

var commonFormats = []string{"guide", "handbook", "workbook", "journal", "planner"}

func analyzeQualityGaps(listings []Listing) QualityGaps {
	g := QualityGaps{}

	for _, l := range listings {
		if l.Rating > 0 && l.Rating < 4.0 && l.ReviewsCount > 20 {
			g.LowRatedOpportunities++
		}
	}

	wordFreq := make(map[string]int)
	for _, l := range listings {
		for _, w := range strings.Fields(strings.ToLower(l.Title)) {
			wordFreq[w]++
		}
	}

	for _, f := range commonFormats {
		if wordFreq[f] == 0 {
			g.MissingFormats = append(g.MissingFormats, f)
		}
	}

	saturated := float64(len(listings)) * 0.3
	var words []string
	for w := range wordFreq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if wordFreq[words[i]] != wordFreq[words[j]] {
			return wordFreq[words[i]] > wordFreq[words[j]]
		}
		return words[i] < words[j]
	})
	for i, w := range words {
		if i >= 5 {
			break
		}
		if float64(wordFreq[w]) > saturated {
			g.OversaturatedFormats = append(g.OversaturatedFormats, w)
		}
	}

	return g
}

func analyzePricing(listings []Listing) Pricing {
	var prices []float64
	for _, l := range listings {
		if l.Price > 0 {
			prices = append(prices, l.Price)
		}
	}
	if len(prices) == 0 {
		return Pricing{Distribution: map[string]int{}}
	}

	p := Pricing{
		AvgPrice:    mean(prices),
		MedianPrice: median(prices),
		Distribution: map[string]int{
			"under_3": 0, "3_to_6": 0, "6_to_10": 0, "over_10": 0,
		},
	}
	for _, price := range prices {
		switch {
		case price < 3:
			p.Distribution["under_3"]++
		case price < 6:
			p.Distribution["3_to_6"]++
		case price < 10:
			p.Distribution["6_to_10"]++
		default:
			p.Distribution["over_10"]++
		}
	}

	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)
	for i := 0; i < len(sorted)-1; i++ {
		gap := sorted[i+1] - sorted[i]
		if gap > 1.0 {
			p.Gaps = append(p.Gaps, PriceGap{Start: sorted[i], End: sorted[i+1], Size: gap})
		}
	}

	switch {
	case p.MedianPrice < 3:
		p.Strategy = "premium_opportunity"
	case p.MedianPrice > 8:
		p.Strategy = "budget_opportunity"
	default:
		p.Strategy = "competitive_pricing"
	}

	return p
}

func analyzeTiming(listings []Listing, currentYear int) Timing {
	recent := 0
	for _, l := range listings {
		if l.PublicationYear >= currentYear-2 {
			recent++
		}
	}

	t := Timing{
		RecentPublications: recent,
		MarketFreshness:    float64(recent) / float64(len(listings)),
	}

	if float64(recent) > float64(len(listings))*0.4 {
		t.PublishingTrend = "growing"
	} else {
		t.PublishingTrend = "stable"
	}
	if float64(recent) < float64(len(listings))*0.6 {
		t.OpportunityTiming = "good"
	} else {
		t.OpportunityTiming = "competitive"
	}
	return t
}

// opportunityScore weights the sub-analyses into a 0-100 score:
// competition 30, demand 40, quality gaps 20, timing 10.
func opportunityScore(a Analysis) int {
	score := 0

	switch a.Competition.Level {
	case "low":
		score += 25
	case "medium":
		score += 15
	default:
		score += 5
	}

	switch a.Demand.ActivityLevel {
	case "high":
		score += 35
	case "medium":
		score += 25
	default:
		score += 10
	}

	if a.QualityGaps.LowRatedOpportunities > 3 {
		score += 15
	}
	if len(a.QualityGaps.MissingFormats) > 0 {
		score += 5
	}

	switch a.Timing.OpportunityTiming {
	case "good":
		score += 8
	case "competitive":
		score += 4
	}

	if score > 100 {
		score = 100
	}
	return score
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
