// Package provider contains the text-generation backends and the fallback
// selector that sequences them.
package provider

import (
	"context"
	"errors"
)

// Typed generation failures. Rate-limit failures drive the selector's
// cooldown handling; everything else advances the fallback chain without
// penalty.
var (
	// ErrRateLimited marks a rate-limit-class response from a backend.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrEmptyResponse marks a syntactically valid response with no text.
	ErrEmptyResponse = errors.New("provider returned empty response")

	// ErrAllUnavailable is returned when every candidate has been tried or
	// is in cooldown.
	ErrAllUnavailable = errors.New("all providers unavailable")
)

// Task categories, carried on requests for logging and future routing.
const (
	TaskOutline      = "outline"
	TaskChapter      = "chapter"
	TaskContinuation = "continuation"
	TaskAssessment   = "assessment"
	TaskRewrite      = "rewrite"
)

// Request is a single generation request. It is immutable once built and is
// consumed by one provider call attempt.
type Request struct {
	Prompt      string
	System      string
	Task        string
	Temperature float64
	MaxTokens   int
}

// Client is a text-generation backend. Implementations return generated
// text or a typed failure; they never substitute empty text for an error.
type Client interface {
	// Generate produces text for the request.
	Generate(ctx context.Context, req Request) (string, error)

	// Name identifies the backend for logging and rate-limit keys.
	Name() string
}

// IsRateLimited reports whether the error is a rate-limit-class failure.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
