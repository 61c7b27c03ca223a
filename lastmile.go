// Package lastmile answers free-text operational questions about delivery
// performance by translating them into structured queries over flat tabular
// datasets, executing those queries in memory, and producing short
// natural-language insights.
//
// Usage:
//
//	import (
//	    "github.com/lastmile-org/lastmile/analyzer"
//	    "github.com/lastmile-org/lastmile/translator"
//	)
//
//	client := translator.NewOpenAI(translator.Config{APIKey: key})
//	a := analyzer.New(ds,
//	    translator.NewClassifier(client),
//	    translator.NewDegrading(translator.NewExtractor(client, ds)),
//	    translator.NewReasoner(client),
//	)
//	resp := a.Ask(ctx, "Which city has the highest sales?")
//
// The engine and insight generator never call an external service — all
// computation is local. Only the classifier, extractor, and reasoner talk
// to the model, each behind a bounded-time call with a deterministic
// default or fallback on failure.
package lastmile
