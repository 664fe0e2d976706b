package research

import (
	"regexp"
	"sort"
	"strings"
)

// KeywordCount is a candidate keyword with its frequency across titles.
type KeywordCount struct {
	Word  string
	Count int
}

var wordPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

// stopWords are generic title words that carry no keyword signal.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "your": true,
	"how": true, "guide": true, "book": true, "complete": true, "ultimate": true,
}

// SuggestKeywords extracts the most frequent meaningful words from a set of
// successful titles, as seeds for further keyword research.
func SuggestKeywords(titles []string, limit int) []KeywordCount {
	freq := make(map[string]int)
	for _, title := range titles {
		for _, w := range wordPattern.FindAllString(strings.ToLower(title), -1) {
			if stopWords[w] {
				continue
			}
			freq[w]++
		}
	}

	out := make([]KeywordCount, 0, len(freq))
	for w, c := range freq {
		out = append(out, KeywordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
