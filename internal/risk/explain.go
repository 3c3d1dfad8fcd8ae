package risk

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tgo/finsight/internal/model"
)

// DocumentContext gives the explanation generator enough of the source
// document to phrase a useful explanation.
type DocumentContext struct {
	DocumentType  model.DocumentType
	ExtractedData model.JSONMap
}

// ExplanationGenerator is the external AI collaborator. Each call may
// fail independently.
type ExplanationGenerator interface {
	Explain(ctx context.Context, candidate Candidate, docCtx DocumentContext) (string, error)
}

// Explained pairs a candidate with its final explanation text.
type Explained struct {
	Candidate
	Explanation string
}

// ExplainAll requests explanations for all candidates concurrently and
// joins the batch. A failed call falls back to the candidate's own
// description, so the result always has one entry per candidate, in
// input order.
func ExplainAll(ctx context.Context, generator ExplanationGenerator, candidates []Candidate, docCtx DocumentContext) []Explained {
	results := make([]Explained, len(candidates))

	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, candidate Candidate) {
			defer wg.Done()

			explanation, err := generator.Explain(ctx, candidate, docCtx)
			if err != nil {
				slog.Warn("risk explanation failed, using rule description",
					"risk_type", candidate.RiskType, "error", err)
				explanation = candidate.Description
			}
			results[i] = Explained{Candidate: candidate, Explanation: explanation}
		}(i, candidate)
	}
	wg.Wait()

	return results
}
