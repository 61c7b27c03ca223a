package translator

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/lastmile-org/lastmile/engine"
)

// ============================================================================
// REASONER — Analytical insight collaborator
// ============================================================================
// Used for analytical and hybrid questions. The response is one free-text
// string treated as a single opaque insight; the pipeline never interprets
// its content.
// ============================================================================

// unavailableInsight is returned when the reasoning collaborator fails.
const unavailableInsight = "Unable to generate analytical insights at this time."

// Reasoner produces free-text analytical insights via the external model.
type Reasoner struct {
	client Client
}

// NewReasoner creates a reasoner on top of a completion client.
func NewReasoner(client Client) *Reasoner {
	return &Reasoner{client: client}
}

// Advise answers an analytical question, optionally grounded on rows the
// data path already produced. It never returns an error: on failure the
// caller gets a single canned line instead.
func (r *Reasoner) Advise(ctx context.Context, question string, rows []engine.Row) string {
	dataContext := ""
	if len(rows) > 0 {
		if b, err := json.Marshal(rows); err == nil {
			dataContext = string(b)
		}
	}

	response, err := r.client.Complete(ctx, Request{
		System:      reasonerSystem,
		User:        buildReasoningPrompt(question, dataContext),
		Temperature: 0.3,
		MaxTokens:   1000,
	})
	if err != nil {
		logrus.WithError(err).Warn("reasoning collaborator failed")
		return unavailableInsight
	}
	return response
}
