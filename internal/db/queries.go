package db

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the interface shared by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries provides access to all database queries.
type Queries struct {
	db DBTX
}

// New creates a Queries instance.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// RateBucket is a persisted rate-limit counter row.
type RateBucket struct {
	Model       string
	Day         string
	MinuteStart int64
	MinuteCount int64
	DayCount    int64
}

// GetRateBucket fetches the counter row for a model and day.
// Returns sql.ErrNoRows when the bucket does not exist yet.
func (q *Queries) GetRateBucket(ctx context.Context, model, day string) (RateBucket, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT model, day, minute_start, minute_count, day_count
		FROM rate_limit_buckets
		WHERE model = ? AND day = ?
	`, model, day)

	var b RateBucket
	err := row.Scan(&b.Model, &b.Day, &b.MinuteStart, &b.MinuteCount, &b.DayCount)
	return b, err
}

// UpsertRateBucket writes the counter row for a model and day.
func (q *Queries) UpsertRateBucket(ctx context.Context, b RateBucket) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO rate_limit_buckets (model, day, minute_start, minute_count, day_count, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(model, day) DO UPDATE SET
			minute_start = excluded.minute_start,
			minute_count = excluded.minute_count,
			day_count = excluded.day_count,
			updated_at = CURRENT_TIMESTAMP
	`, b.Model, b.Day, b.MinuteStart, b.MinuteCount, b.DayCount)
	return err
}

// ListRateBucketsForDay returns all counter rows for a day.
func (q *Queries) ListRateBucketsForDay(ctx context.Context, day string) ([]RateBucket, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT model, day, minute_start, minute_count, day_count
		FROM rate_limit_buckets
		WHERE day = ?
		ORDER BY model
	`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []RateBucket
	for rows.Next() {
		var b RateBucket
		if err := rows.Scan(&b.Model, &b.Day, &b.MinuteStart, &b.MinuteCount, &b.DayCount); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// Run is a persisted book-generation run.
type Run struct {
	ID                   string
	Topic                string
	Genre                string
	Audience             string
	Status               string
	TotalWords           int64
	APICalls             int64
	ChaptersTotal        int64
	ChaptersBelowMinimum int64
	ChaptersStillFlagged int64
	StartedAt            time.Time
	FinishedAt           sql.NullTime
}

// CreateRunParams holds parameters for CreateRun.
type CreateRunParams struct {
	ID       string
	Topic    string
	Genre    string
	Audience string
}

// CreateRun records the start of a generation run.
func (q *Queries) CreateRun(ctx context.Context, p CreateRunParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO runs (id, topic, genre, audience, status)
		VALUES (?, ?, ?, ?, 'running')
	`, p.ID, p.Topic, p.Genre, p.Audience)
	return err
}

// FinishRunParams holds parameters for FinishRun.
type FinishRunParams struct {
	ID                   string
	Status               string
	TotalWords           int64
	APICalls             int64
	ChaptersTotal        int64
	ChaptersBelowMinimum int64
	ChaptersStillFlagged int64
}

// FinishRun records the outcome of a generation run.
func (q *Queries) FinishRun(ctx context.Context, p FinishRunParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE runs SET
			status = ?,
			total_words = ?,
			api_calls = ?,
			chapters_total = ?,
			chapters_below_minimum = ?,
			chapters_still_flagged = ?,
			finished_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.Status, p.TotalWords, p.APICalls, p.ChaptersTotal,
		p.ChaptersBelowMinimum, p.ChaptersStillFlagged, p.ID)
	return err
}

// ListRuns returns the most recent runs, newest first.
func (q *Queries) ListRuns(ctx context.Context, limit int64) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, topic, genre, audience, status, total_words, api_calls,
			chapters_total, chapters_below_minimum, chapters_still_flagged,
			started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Topic, &r.Genre, &r.Audience, &r.Status,
			&r.TotalWords, &r.APICalls, &r.ChaptersTotal, &r.ChaptersBelowMinimum,
			&r.ChaptersStillFlagged, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ChapterRecord is a persisted per-chapter outcome.
type ChapterRecord struct {
	RunID            string
	Number           int64
	Title            string
	WordCount        int64
	OriginalityScore int64
	RewriteAttempts  int64
	BelowMinimum     bool
	StillFlagged     bool
}

// CreateChapterRecord records a finished chapter.
func (q *Queries) CreateChapterRecord(ctx context.Context, c ChapterRecord) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO chapters (run_id, number, title, word_count, originality_score,
			rewrite_attempts, below_minimum, still_flagged)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.RunID, c.Number, c.Title, c.WordCount, c.OriginalityScore,
		c.RewriteAttempts, boolToInt(c.BelowMinimum), boolToInt(c.StillFlagged))
	return err
}

// ListChaptersForRun returns all chapter records for a run in order.
func (q *Queries) ListChaptersForRun(ctx context.Context, runID string) ([]ChapterRecord, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT run_id, number, title, word_count, originality_score,
			rewrite_attempts, below_minimum, still_flagged
		FROM chapters
		WHERE run_id = ?
		ORDER BY number
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []ChapterRecord
	for rows.Next() {
		var c ChapterRecord
		var below, flagged int64
		if err := rows.Scan(&c.RunID, &c.Number, &c.Title, &c.WordCount,
			&c.OriginalityScore, &c.RewriteAttempts, &below, &flagged); err != nil {
			return nil, err
		}
		c.BelowMinimum = below != 0
		c.StillFlagged = flagged != 0
		chapters = append(chapters, c)
	}
	return chapters, rows.Err()
}

// AggregateStats summarizes all recorded runs.
type AggregateStats struct {
	TotalRuns     int64
	CompletedRuns int64
	TotalWords    int64
	TotalAPICalls int64
	TotalChapters int64
	BelowMinimum  int64
	StillFlagged  int64
}

// GetAggregateStats computes lifetime statistics across runs.
func (q *Queries) GetAggregateStats(ctx context.Context) (AggregateStats, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(total_words), 0),
			COALESCE(SUM(api_calls), 0),
			COALESCE(SUM(chapters_total), 0),
			COALESCE(SUM(chapters_below_minimum), 0),
			COALESCE(SUM(chapters_still_flagged), 0)
		FROM runs
	`)

	var s AggregateStats
	err := row.Scan(&s.TotalRuns, &s.CompletedRuns, &s.TotalWords, &s.TotalAPICalls,
		&s.TotalChapters, &s.BelowMinimum, &s.StillFlagged)
	return s, err
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
