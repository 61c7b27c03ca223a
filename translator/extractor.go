package translator

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/lastmile-org/lastmile/dataset"
	"github.com/lastmile-org/lastmile/engine"
)

// ============================================================================
// EXTRACTOR — question → engine.QuerySpec
// ============================================================================
// Two strategies compose:
//   Extractor  — model-backed; each failure mode is a distinct typed error
//                so callers can decide to retry, fall back, or abort.
//   Degrading  — Extractor first, FallbackSpec on any failure. Degradation
//                is logged, never surfaced to the caller.
// ============================================================================

// Extractor produces QuerySpecs via the external model. Stateless between
// calls and safe to retry.
type Extractor struct {
	client        Client
	schemaJSON    string
	relationships string
}

// NewExtractor builds an extractor. The dataset is consulted once up front
// for the schema summary embedded in every prompt.
func NewExtractor(client Client, ds *dataset.Dataset) *Extractor {
	return &Extractor{
		client:        client,
		schemaJSON:    ds.Schema(3),
		relationships: dataset.DescribeRelationships(),
	}
}

// Extract asks the model for one QuerySpec-shaped JSON object.
// Returns *UnavailableError or *MalformedResponseError on failure.
func (e *Extractor) Extract(ctx context.Context, question string) (engine.QuerySpec, error) {
	response, err := e.client.Complete(ctx, Request{
		System:      extractorSystem,
		User:        buildExtractionPrompt(question, e.schemaJSON, e.relationships),
		Temperature: 0.1,
		MaxTokens:   500,
	})
	if err != nil {
		return engine.QuerySpec{}, err
	}

	span, ok := ExtractJSONObject(response)
	if !ok {
		return engine.QuerySpec{}, &MalformedResponseError{Op: "extract", Snippet: response}
	}

	var spec engine.QuerySpec
	if err := json.Unmarshal([]byte(span), &spec); err != nil {
		return engine.QuerySpec{}, &MalformedResponseError{Op: "extract", Snippet: span}
	}

	spec = spec.WithDefaults()
	logrus.WithFields(logrus.Fields{
		"table":  spec.Table,
		"intent": spec.Intent,
	}).Debug("model produced query spec")
	return spec, nil
}

// Degrading wraps the model-backed extractor with the deterministic
// fallback cascade. Extract is total: it always yields a valid spec.
type Degrading struct {
	primary *Extractor
}

// NewDegrading composes primary extraction with the fallback cascade.
func NewDegrading(primary *Extractor) *Degrading {
	return &Degrading{primary: primary}
}

// Extract tries the model first; any typed failure is swallowed and the
// fallback cascade substitutes a spec. The degradation is logged, not
// surfaced to the caller.
func (d *Degrading) Extract(ctx context.Context, question string) (engine.QuerySpec, error) {
	spec, err := d.primary.Extract(ctx, question)
	if err == nil {
		return spec, nil
	}
	logrus.WithError(err).Warn("extraction degraded to fallback cascade")
	return FallbackSpec(question), nil
}
