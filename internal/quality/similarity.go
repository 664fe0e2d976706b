package quality

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abdul-hamid-achik/veclite"

	"bookforge/internal/chapter"
)

const chaptersCollection = "chapters"

// DefaultSimilarityThreshold is the cosine similarity above which a chapter
// is considered too close to an earlier one.
const DefaultSimilarityThreshold = float32(0.92)

// SimilarityMatch reports a finished chapter that is suspiciously close to
// an earlier chapter of the same book.
type SimilarityMatch struct {
	Chapter        int
	MatchedChapter int
	Similarity     float32
}

// SimilarityIndex embeds finished chapters and checks each new chapter
// against the earlier ones. It supplements the model-based assessment with
// a cheap local self-repetition check.
type SimilarityIndex struct {
	vecdb     *veclite.DB
	coll      *veclite.Collection
	threshold float32
}

// SimilarityConfig holds configuration for the index.
type SimilarityConfig struct {
	// Path to the VecLite database file (e.g., "data/chapters.veclite").
	Path string

	// ConfigPath is the path to veclite.yaml (optional).
	ConfigPath string

	// Threshold overrides DefaultSimilarityThreshold when non-zero.
	Threshold float32
}

// NewSimilarityIndex opens the VecLite-backed chapter index. Callers treat
// a failure here as a degraded mode, not a fatal error: the run proceeds
// without the self-repetition check.
func NewSimilarityIndex(cfg SimilarityConfig) (*SimilarityIndex, error) {
	vecliteCfg, err := veclite.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load veclite config: %w", err)
	}

	embedder, err := veclite.NewEmbedderFromConfig(vecliteCfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	vecdb, err := veclite.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open veclite db: %w", err)
	}

	coll, err := vecdb.CreateCollection(chaptersCollection,
		veclite.WithDimension(embedder.Dimension()),
		veclite.WithDistanceType(veclite.DistanceCosine),
		veclite.WithEmbedder(embedder),
	)
	if err != nil {
		// Collection might already exist, try to get it
		coll, err = vecdb.GetCollection(chaptersCollection)
		if err != nil {
			vecdb.Close()
			return nil, fmt.Errorf("get collection: %w", err)
		}
	}

	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = DefaultSimilarityThreshold
	}

	return &SimilarityIndex{
		vecdb:     vecdb,
		coll:      coll,
		threshold: threshold,
	}, nil
}

// Close closes the underlying database.
func (s *SimilarityIndex) Close() error {
	if s.vecdb != nil {
		return s.vecdb.Close()
	}
	return nil
}

// CheckAndAdd compares the chapter against the already-indexed chapters and
// then adds it to the index. A non-nil match means the chapter repeats an
// earlier one beyond the threshold.
func (s *SimilarityIndex) CheckAndAdd(ctx context.Context, art chapter.Artifact) (*SimilarityMatch, error) {
	var match *SimilarityMatch

	if s.coll.Count() > 0 {
		results, err := s.coll.SearchText(art.Content,
			veclite.TopK(1),
			veclite.Threshold(s.threshold),
		)
		if err != nil {
			return nil, fmt.Errorf("similarity search: %w", err)
		}

		if len(results) > 0 {
			matched := 0
			if results[0].Record.Payload != nil {
				if n, ok := results[0].Record.Payload["chapter"].(int); ok {
					matched = n
				} else if n, ok := results[0].Record.Payload["chapter"].(int64); ok {
					matched = int(n)
				}
			}
			match = &SimilarityMatch{
				Chapter:        art.Number,
				MatchedChapter: matched,
				Similarity:     results[0].Score,
			}
			slog.Warn("chapter closely repeats earlier chapter",
				"chapter", art.Number,
				"matched_chapter", matched,
				"similarity", results[0].Score,
			)
		}
	}

	payload := map[string]any{
		"chapter": art.Number,
		"title":   art.Title,
	}
	if _, err := s.coll.InsertText(art.Content, payload); err != nil {
		return match, fmt.Errorf("index chapter %d: %w", art.Number, err)
	}

	return match, nil
}
