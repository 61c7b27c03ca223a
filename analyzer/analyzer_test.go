package analyzer

import (
	"context"
	"testing"

	"github.com/lastmile-org/lastmile/dataset"
	"github.com/lastmile-org/lastmile/engine"
	"github.com/lastmile-org/lastmile/translator"
)

// ============================================================================
// ANALYZER TESTS — pipeline orchestration with stub collaborators
// ============================================================================

type stubClassifier struct {
	label translator.Classification
}

func (s stubClassifier) Classify(context.Context, string) translator.Classification {
	return s.label
}

type stubExtractor struct {
	spec engine.QuerySpec
	err  error
}

func (s stubExtractor) Extract(context.Context, string) (engine.QuerySpec, error) {
	return s.spec, s.err
}

type stubReasoner struct {
	insight string
	gotRows []engine.Row
}

func (s *stubReasoner) Advise(_ context.Context, _ string, rows []engine.Row) string {
	s.gotRows = rows
	return s.insight
}

func pipelineDataset() *dataset.Dataset {
	return dataset.New(map[string][]dataset.Record{
		"orders": {
			{"order_id": "1", "city": "Chennai", "status": "Failed", "failure_reason": "Address not found", "amount": "100"},
			{"order_id": "2", "city": "Chennai", "status": "Failed", "failure_reason": "Address not found", "amount": "200"},
			{"order_id": "3", "city": "Mumbai", "status": "Delivered", "failure_reason": "", "amount": "300"},
		},
		"clients": {
			{"client_id": "C1", "client_name": "Acme Traders"},
			{"client_id": "C2", "client_name": "Bharat Goods"},
		},
	})
}

func TestAskDataQuery(t *testing.T) {
	spec := engine.QuerySpec{
		Table:        "clients",
		Aggregations: map[string]string{"client_id": engine.OpCount},
	}
	az := New(pipelineDataset(),
		stubClassifier{translator.TypeDataQuery},
		stubExtractor{spec: spec},
		&stubReasoner{insight: "should not be called"},
	)

	resp := az.Ask(context.Background(), "How many clients are in total?")
	if resp.Type != translator.TypeDataQuery {
		t.Errorf("type = %q", resp.Type)
	}
	if resp.Error != "" {
		t.Errorf("unexpected error: %q", resp.Error)
	}
	if resp.QueryParams == nil || resp.QueryParams.Table != "clients" {
		t.Errorf("query params not recorded: %+v", resp.QueryParams)
	}
	if len(resp.Results) != 1 || resp.Results[0].Num("count_client_id") != 2 {
		t.Errorf("results = %v", resp.Results)
	}
	if len(resp.Insights) != 1 || resp.Insights[0] != "Total client_ids: 2" {
		t.Errorf("insights = %v", resp.Insights)
	}
	if resp.ID == "" || resp.Question == "" {
		t.Error("response must carry an id and echo the question")
	}
}

func TestAskAnalytical(t *testing.T) {
	reasoner := &stubReasoner{insight: "Scale up before the monsoon."}
	az := New(pipelineDataset(),
		stubClassifier{translator.TypeAnalytical},
		stubExtractor{spec: engine.QuerySpec{Table: "orders"}},
		reasoner,
	)

	resp := az.Ask(context.Background(), "How should we prepare for next quarter?")
	if len(resp.Insights) != 1 || resp.Insights[0] != reasoner.insight {
		t.Errorf("insights = %v, want only the reasoner line", resp.Insights)
	}
	if resp.QueryParams != nil || resp.Results != nil {
		t.Error("analytical path must not run the data pipeline")
	}
}

// Hybrid: data path first, reasoner line appended last, grounded on the
// data path's rows.
func TestAskHybrid(t *testing.T) {
	spec := engine.QuerySpec{
		Table:        "orders",
		Filters:      engine.Filters{"status": engine.NewFilterValue("Failed")},
		GroupBy:      engine.GroupBy{"failure_reason"},
		Aggregations: map[string]string{"order_id": engine.OpCount},
	}
	reasoner := &stubReasoner{insight: "Verify addresses at order intake."}
	az := New(pipelineDataset(),
		stubClassifier{translator.TypeHybrid},
		stubExtractor{spec: spec},
		reasoner,
	)

	resp := az.Ask(context.Background(), "What fails and how do we fix it?")
	if len(resp.Insights) < 2 {
		t.Fatalf("hybrid insights = %v, want data insights plus reasoner line", resp.Insights)
	}
	if last := resp.Insights[len(resp.Insights)-1]; last != reasoner.insight {
		t.Errorf("reasoner line must come last, got %q", last)
	}
	if len(reasoner.gotRows) == 0 {
		t.Error("reasoner should receive the data path's rows as context")
	}
	if len(resp.Results) == 0 {
		t.Error("hybrid response must carry the data results")
	}
}

// A missing table is a structured "no results" answer, not a failure.
func TestAskUnknownTable(t *testing.T) {
	az := New(pipelineDataset(),
		stubClassifier{translator.TypeDataQuery},
		stubExtractor{spec: engine.QuerySpec{Table: "shipments"}},
		&stubReasoner{},
	)

	resp := az.Ask(context.Background(), "q")
	if resp.Error != "" {
		t.Errorf("missing table must not set Error, got %q", resp.Error)
	}
	if len(resp.Insights) == 0 || resp.Insights[0] != "No data found for this query" {
		t.Errorf("insights = %v", resp.Insights)
	}
}

// A malformed spec surfaces to the user, naming the problem.
func TestAskMalformedSpec(t *testing.T) {
	spec := engine.QuerySpec{
		Table:        "orders",
		Aggregations: map[string]string{"amount": "median"},
	}
	az := New(pipelineDataset(),
		stubClassifier{translator.TypeDataQuery},
		stubExtractor{spec: spec},
		&stubReasoner{},
	)

	resp := az.Ask(context.Background(), "q")
	if resp.Error == "" {
		t.Error("malformed spec must set Error")
	}
	if len(resp.Insights) != 1 || resp.Insights[0] == "" {
		t.Errorf("insights = %v, want one explanatory line", resp.Insights)
	}
}

// With a non-degrading extractor, extraction failure yields an error
// response instead of a crash.
func TestAskExtractionFailure(t *testing.T) {
	az := New(pipelineDataset(),
		stubClassifier{translator.TypeDataQuery},
		stubExtractor{err: &translator.MalformedResponseError{Op: "extract", Snippet: "garbage"}},
		&stubReasoner{},
	)

	resp := az.Ask(context.Background(), "q")
	if resp.Error == "" {
		t.Error("extraction failure must set Error")
	}
	if resp.Results != nil {
		t.Errorf("no results expected, got %v", resp.Results)
	}
}
