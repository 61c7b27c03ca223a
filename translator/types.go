package translator

import (
	"context"
	"fmt"
	"time"
)

// ============================================================================
// TRANSLATOR — AI boundary for classification, extraction, and reasoning
// ============================================================================
// This package is the ONLY one that talks to an external language model.
// It sees the question, table schemas with a few sample rows, and known key
// relationships. It never sees whole tables.
//
// Three collaborators share one chat-completion client:
//   Classifier — question → data_query | analytical | hybrid
//   Extractor  — question → engine.QuerySpec (with a total fallback cascade)
//   Reasoner   — question (+ optional prior rows) → one free-text insight
// ============================================================================

// Classification labels what kind of processing a question needs.
type Classification string

const (
	// TypeDataQuery questions are answered from loaded data alone.
	TypeDataQuery Classification = "data_query"
	// TypeAnalytical questions need reasoning, prediction, or recommendations.
	TypeAnalytical Classification = "analytical"
	// TypeHybrid questions need both the data path and the reasoning path.
	TypeHybrid Classification = "hybrid"
)

// Valid reports whether the classification is one of the three known labels.
func (c Classification) Valid() bool {
	switch c {
	case TypeDataQuery, TypeAnalytical, TypeHybrid:
		return true
	}
	return false
}

// Request is one bounded chat-completion call.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Client issues bounded-time completion requests against a language model.
// Implementations must honor ctx cancellation and must not retry internally;
// callers decide whether to retry, fall back, or abort.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Config holds collaborator configuration.
type Config struct {
	APIKey   string        // provider API key
	Model    string        // model name (e.g. "gpt-4o-mini")
	Endpoint string        // API endpoint override (empty = default)
	Timeout  time.Duration // per-call deadline (0 = 30s default)
}

// ============================================================================
// ERRORS
// ============================================================================

// UnavailableError reports a collaborator that could not be reached:
// network failure, timeout, or a non-success HTTP status.
// Safe to retry; the call mutates no shared state.
type UnavailableError struct {
	Op  string // "classify", "extract", "reason"
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("collaborator unavailable during %s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// MalformedResponseError reports a collaborator that answered, but with a
// body no parser could make sense of.
type MalformedResponseError struct {
	Op      string
	Snippet string // truncated response body, for logs
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("collaborator returned unparsable response during %s: %.200s", e.Op, e.Snippet)
}
