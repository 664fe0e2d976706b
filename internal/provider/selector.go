package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bookforge/internal/ratelimit"
)

// DefaultCooldown is how long a rate-limited candidate is skipped before the
// selector will try it again.
const DefaultCooldown = 60 * time.Second

// Candidate is one (client, model) entry in the fallback chain.
type Candidate struct {
	Client Client
	Limits ratelimit.Limits
}

// Selector tries candidates in priority order, cycling away from any model
// currently in a cooldown window after a rate-limit error.
type Selector struct {
	candidates []Candidate
	limiter    *ratelimit.Limiter
	cooldown   time.Duration

	cooldownUntil map[string]time.Time
	calls         int64

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// SelectorConfig holds configuration for the selector.
type SelectorConfig struct {
	Candidates []Candidate
	Limiter    *ratelimit.Limiter
	Cooldown   time.Duration
}

// NewSelector creates a selector over an ordered candidate list.
func NewSelector(cfg SelectorConfig) *Selector {
	cooldown := cfg.Cooldown
	if cooldown == 0 {
		cooldown = DefaultCooldown
	}

	return &Selector{
		candidates:    cfg.Candidates,
		limiter:       cfg.Limiter,
		cooldown:      cooldown,
		cooldownUntil: make(map[string]time.Time),
		now:           time.Now,
		sleep:         sleepCtx,
	}
}

// SetClock overrides the selector's clock and sleep. Intended for tests.
func (s *Selector) SetClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) {
	s.now = now
	s.sleep = sleep
}

// Calls returns the number of backend invocations made so far.
func (s *Selector) Calls() int64 {
	return s.calls
}

// Generate tries each candidate in order until one succeeds. Candidates in
// cooldown are skipped; a rate-limit error puts the candidate into cooldown
// and advances the chain; other errors advance without penalty. When the
// chain is exhausted the call fails with ErrAllUnavailable (or with the
// daily-quota error when every candidate's daily budget is spent).
func (s *Selector) Generate(ctx context.Context, req Request) (string, error) {
	var (
		lastErr      error
		triedAny     bool
		allExhausted = true
	)

	for _, cand := range s.candidates {
		name := cand.Client.Name()
		now := s.now()

		if until, ok := s.cooldownUntil[name]; ok && now.Before(until) {
			slog.Debug("skipping candidate in cooldown", "model", name, "until", until)
			continue
		}

		if s.limiter != nil {
			delay, err := s.limiter.RecordAndCheck(ctx, name)
			if errors.Is(err, ratelimit.ErrDailyQuotaExceeded) {
				// Done for the day; skip until the next calendar day.
				s.cooldownUntil[name] = endOfDay(now)
				lastErr = err
				slog.Warn("candidate exhausted for the day", "model", name)
				continue
			}
			if err != nil {
				return "", fmt.Errorf("rate limiter: %w", err)
			}
			if delay > 0 {
				slog.Info("rate limit back-off", "model", name, "delay", delay)
				if err := s.sleep(ctx, delay); err != nil {
					return "", err
				}
			}
		}

		triedAny = true
		allExhausted = false
		s.calls++

		text, err := cand.Client.Generate(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if IsRateLimited(err) {
			until := s.now().Add(s.cooldown)
			s.cooldownUntil[name] = until
			slog.Warn("candidate rate limited, entering cooldown",
				"model", name, "until", until, "task", req.Task)
			continue
		}

		slog.Warn("candidate failed, trying next", "model", name, "task", req.Task, "error", err)
	}

	if !triedAny && allExhausted && errors.Is(lastErr, ratelimit.ErrDailyQuotaExceeded) {
		return "", lastErr
	}
	if lastErr != nil {
		return "", fmt.Errorf("%w: last error: %v", ErrAllUnavailable, lastErr)
	}
	return "", ErrAllUnavailable
}

// sleepCtx sleeps for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// endOfDay returns the first instant of the next calendar day.
func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
