package compliance

import "github.com/bryanwahyu/speccheck/internal/domain/registry"

// AnalysisContext is passed verbatim into every analyzer call so the same
// analysis logic serves any (spec, file) pair. No per-spec branching happens
// downstream of it.
type AnalysisContext struct {
	SpecID     registry.SpecID
	SpecTitle  string
	FilePath   string
	Language   string
	FocusAreas []string
}
