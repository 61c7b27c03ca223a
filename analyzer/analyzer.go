package analyzer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lastmile-org/lastmile/dataset"
	"github.com/lastmile-org/lastmile/engine"
	"github.com/lastmile-org/lastmile/insight"
	"github.com/lastmile-org/lastmile/translator"
)

// ============================================================================
// ANALYZER — Orchestrates the full question pipeline
// ============================================================================
// Per question: Classify → one of three paths → Done.
//
//   data_query: extract spec → execute → generate insights
//   analytical: delegate the bare question to the reasoner
//   hybrid:     the full data path, then the reasoner with the prior rows as
//               context; insights concatenate data-first
//
// No state is revisited and there is no retry loop here — each question runs
// the pipeline exactly once; retries belong to the collaborator calls.
// Every question yields a Response: total failure sets Error, a missing
// table becomes a "no results" answer, never a crash.
// ============================================================================

// Classifier labels questions; failures inside default to data_query.
type Classifier interface {
	Classify(ctx context.Context, question string) translator.Classification
}

// Extractor turns a question into a QuerySpec.
type Extractor interface {
	Extract(ctx context.Context, question string) (engine.QuerySpec, error)
}

// Reasoner produces one opaque analytical insight.
type Reasoner interface {
	Advise(ctx context.Context, question string, rows []engine.Row) string
}

// Response is the bundle emitted for every question.
type Response struct {
	ID          string                    `json:"id"`
	Question    string                    `json:"question"`
	Type        translator.Classification `json:"type"`
	QueryParams *engine.QuerySpec         `json:"query_params,omitempty"`
	Results     []engine.Row              `json:"results,omitempty"`
	Insights    []string                  `json:"insights"`
	Error       string                    `json:"error,omitempty"`
}

// Analyzer sequences classifier, extractor, engine, insight generator, and
// reasoner over a shared read-only dataset.
type Analyzer struct {
	ds         *dataset.Dataset
	classifier Classifier
	extractor  Extractor
	reasoner   Reasoner
}

// New wires the pipeline. The dataset must already be loaded and is
// borrowed read-only for the process lifetime.
func New(ds *dataset.Dataset, c Classifier, e Extractor, r Reasoner) *Analyzer {
	return &Analyzer{ds: ds, classifier: c, extractor: e, reasoner: r}
}

// Ask answers one question end to end. The context carries the caller's
// per-question deadline; collaborator calls inherit it.
func (a *Analyzer) Ask(ctx context.Context, question string) *Response {
	resp := &Response{
		ID:       uuid.NewString(),
		Question: question,
	}

	resp.Type = a.classifier.Classify(ctx, question)
	logrus.WithFields(logrus.Fields{"id": resp.ID, "type": resp.Type}).Info("question classified")

	switch resp.Type {
	case translator.TypeAnalytical:
		resp.Insights = []string{a.reasoner.Advise(ctx, question, nil)}

	case translator.TypeHybrid:
		a.runDataPath(ctx, question, resp)
		analytical := a.reasoner.Advise(ctx, question, resp.Results)
		resp.Insights = append(resp.Insights, analytical)

	default: // data_query
		a.runDataPath(ctx, question, resp)
	}

	return resp
}

// runDataPath extracts, executes, and generates data-derived insights,
// filling the response in place.
func (a *Analyzer) runDataPath(ctx context.Context, question string, resp *Response) {
	spec, err := a.extractor.Extract(ctx, question)
	if err != nil {
		// Only reachable with a non-degrading extractor wired in.
		resp.Error = err.Error()
		resp.Insights = []string{"Unable to interpret the question"}
		return
	}
	resp.QueryParams = &spec

	rows, err := engine.Execute(spec, a.ds)
	if err != nil {
		var notFound *engine.DataNotFoundError
		if errors.As(err, &notFound) {
			// Structured "no results" answer, not a failure.
			resp.Insights = []string{"No data found for this query", notFound.Error()}
			return
		}
		var malformed *engine.MalformedSpecError
		if errors.As(err, &malformed) {
			resp.Error = malformed.Error()
			resp.Insights = []string{"The generated query was invalid: " + malformed.Detail}
			return
		}
		resp.Error = err.Error()
		resp.Insights = []string{"Query execution failed"}
		return
	}

	resp.Results = rows
	resp.Insights = insight.Generate(spec, rows)
}
