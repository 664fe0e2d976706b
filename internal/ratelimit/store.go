package ratelimit

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"bookforge/internal/db"
)

// SQLStore persists buckets in the application's sqlite database so that
// rate-limit state survives process restarts.
type SQLStore struct {
	q *db.Queries
}

// NewSQLStore creates a sqlite-backed bucket store.
func NewSQLStore(q *db.Queries) *SQLStore {
	return &SQLStore{q: q}
}

// Bucket loads the counter state for a model and day.
func (s *SQLStore) Bucket(ctx context.Context, model, day string) (Bucket, bool, error) {
	row, err := s.q.GetRateBucket(ctx, model, day)
	if errors.Is(err, sql.ErrNoRows) {
		return Bucket{}, false, nil
	}
	if err != nil {
		return Bucket{}, false, err
	}

	return Bucket{
		Model:       row.Model,
		Day:         row.Day,
		MinuteStart: time.Unix(row.MinuteStart, 0),
		MinuteCount: int(row.MinuteCount),
		DayCount:    int(row.DayCount),
	}, true, nil
}

// Put writes the counter state for a model and day.
func (s *SQLStore) Put(ctx context.Context, b Bucket) error {
	return s.q.UpsertRateBucket(ctx, db.RateBucket{
		Model:       b.Model,
		Day:         b.Day,
		MinuteStart: b.MinuteStart.Unix(),
		MinuteCount: int64(b.MinuteCount),
		DayCount:    int64(b.DayCount),
	})
}

// MemoryStore is an in-memory bucket store for tests and dry runs.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]Bucket
}

// NewMemoryStore creates an empty in-memory bucket store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]Bucket)}
}

// Bucket loads the counter state for a model and day.
func (s *MemoryStore) Bucket(_ context.Context, model, day string) (Bucket, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[model+"|"+day]
	return b, ok, nil
}

// Put writes the counter state for a model and day.
func (s *MemoryStore) Put(_ context.Context, b Bucket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buckets[b.Model+"|"+b.Day] = b
	return nil
}
