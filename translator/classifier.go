package translator

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"
)

// ============================================================================
// CLASSIFIER — question → data_query | analytical | hybrid
// ============================================================================
// Delegates to the model with a strict two-field contract. Every failure
// mode (timeout, bad status, unparsable body, unknown label) defaults to
// data_query — the conservative classification the pipeline can always
// resolve locally.
// ============================================================================

// Classifier labels questions via the external model.
type Classifier struct {
	client Client
}

// NewClassifier creates a classifier on top of a completion client.
func NewClassifier(client Client) *Classifier {
	return &Classifier{client: client}
}

// classificationResponse is the strict response contract.
type classificationResponse struct {
	Type      string `json:"type"`
	Reasoning string `json:"reasoning"`
}

// Classify labels a question. It never returns an error: degraded
// availability beats a stalled pipeline.
func (c *Classifier) Classify(ctx context.Context, question string) Classification {
	response, err := c.client.Complete(ctx, Request{
		System:      classifierSystem,
		User:        buildClassificationPrompt(question),
		Temperature: 0.1,
		MaxTokens:   200,
	})
	if err != nil {
		logrus.WithError(err).Warn("classification failed, defaulting to data_query")
		return TypeDataQuery
	}

	span, ok := ExtractJSONObject(response)
	if !ok {
		logrus.Warn("classification response had no JSON object, defaulting to data_query")
		return TypeDataQuery
	}

	var parsed classificationResponse
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		logrus.WithError(err).Warn("classification response unparsable, defaulting to data_query")
		return TypeDataQuery
	}

	label := Classification(strings.ToLower(strings.TrimSpace(parsed.Type)))
	if !label.Valid() {
		logrus.WithField("type", parsed.Type).Warn("unknown classification label, defaulting to data_query")
		return TypeDataQuery
	}

	logrus.WithFields(logrus.Fields{"type": label, "reasoning": parsed.Reasoning}).Debug("question classified")
	return label
}
