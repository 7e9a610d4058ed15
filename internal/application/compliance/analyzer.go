package compliance

import (
	"context"

	domain "github.com/bryanwahyu/speccheck/internal/domain/compliance"
	"github.com/bryanwahyu/speccheck/internal/domain/extract"
	"github.com/bryanwahyu/speccheck/internal/infra/ai/prompt"
)

// Analyzer runs one per-file compliance analysis against the Reasoning
// Service. Failure for one file is data, not control flow: Analyze never
// returns an error, it returns an ERROR file result.
type Analyzer struct {
	Reasoner domain.Reasoner
}

func NewAnalyzer(reasoner domain.Reasoner) *Analyzer {
	return &Analyzer{Reasoner: reasoner}
}

// Analyze submits one (spec excerpt, code excerpt) pair and converts whatever
// comes back into a FileResult. Transport retry is the Reasoner adapter's
// concern; decode failures are terminal and never retried.
func (a *Analyzer) Analyze(ctx context.Context, specExcerpt string, code extract.CodeExcerpt, actx domain.AnalysisContext) domain.FileResult {
	system := prompt.GetSystemPrompt()
	user := prompt.GetUserPrompt(specExcerpt, code, actx)

	raw, err := a.Reasoner.Complete(ctx, system, user)
	if err != nil {
		return domain.ErrorResult(actx.FilePath, "reasoning service call failed: "+err.Error())
	}

	return domain.DecodeResponse(actx.FilePath, raw)
}
