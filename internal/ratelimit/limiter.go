// Package ratelimit tracks per-minute and per-day request budgets for
// generation models, persisted so counters survive process restarts.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrDailyQuotaExceeded is returned when a model has used its full daily
// request budget. It is permanent for the rest of the calendar day and is
// fatal for the run, not retryable.
var ErrDailyQuotaExceeded = errors.New("daily request quota exceeded")

// Window is the length of the sliding per-minute window.
const Window = time.Minute

// DayFormat is the day-stamp key format for persisted buckets.
const DayFormat = "2006-01-02"

// Limits holds the request ceilings for a single model.
type Limits struct {
	PerMinute int
	PerDay    int
}

// Bucket is the persisted counter state for one model on one day.
type Bucket struct {
	Model       string
	Day         string
	MinuteStart time.Time
	MinuteCount int
	DayCount    int
}

// Store persists rate-limit buckets keyed by model and day stamp.
type Store interface {
	// Bucket loads the counter state for a model and day. The second return
	// is false when no bucket exists yet.
	Bucket(ctx context.Context, model, day string) (Bucket, bool, error)

	// Put writes the counter state for a model and day.
	Put(ctx context.Context, b Bucket) error
}

// Limiter enforces per-minute and per-day request budgets per model.
type Limiter struct {
	store  Store
	limits map[string]Limits
	now    func() time.Time
}

// New creates a Limiter over the given store. The limits map is keyed by
// model name; models without an entry are not limited.
func New(store Store, limits map[string]Limits) *Limiter {
	return &Limiter{
		store:  store,
		limits: limits,
		now:    time.Now,
	}
}

// SetClock overrides the limiter's clock. Intended for tests.
func (l *Limiter) SetClock(now func() time.Time) {
	l.now = now
}

// RecordAndCheck records one request for the model and reports how long the
// caller must wait before actually issuing it. A zero delay means the call
// may proceed immediately. ErrDailyQuotaExceeded means the model is done for
// the day.
//
// Every invocation increments the tracked counts by exactly one. When the
// minute window has elapsed the window resets and counting starts over.
func (l *Limiter) RecordAndCheck(ctx context.Context, model string) (time.Duration, error) {
	limits, ok := l.limits[model]
	if !ok {
		return 0, nil
	}

	now := l.now()
	day := now.Format(DayFormat)

	b, found, err := l.store.Bucket(ctx, model, day)
	if err != nil {
		return 0, fmt.Errorf("load rate bucket: %w", err)
	}
	if !found {
		b = Bucket{Model: model, Day: day, MinuteStart: now}
	}

	// Roll the minute window once it has fully elapsed.
	if now.Sub(b.MinuteStart) >= Window {
		b.MinuteStart = now
		b.MinuteCount = 0
	}

	b.MinuteCount++
	b.DayCount++

	if err := l.store.Put(ctx, b); err != nil {
		return 0, fmt.Errorf("save rate bucket: %w", err)
	}

	if limits.PerDay > 0 && b.DayCount > limits.PerDay {
		slog.Warn("daily quota exhausted", "model", model, "count", b.DayCount, "limit", limits.PerDay)
		return 0, fmt.Errorf("%s: %w", model, ErrDailyQuotaExceeded)
	}

	if limits.PerMinute > 0 && b.MinuteCount > limits.PerMinute {
		delay := Window - now.Sub(b.MinuteStart)
		if delay < 0 {
			delay = 0
		}
		slog.Debug("minute window full",
			"model", model,
			"count", b.MinuteCount,
			"limit", limits.PerMinute,
			"delay", delay,
		)
		return delay, nil
	}

	return 0, nil
}
