package compliance

import (
	"fmt"
	"math"
	"time"

	domain "github.com/bryanwahyu/speccheck/internal/domain/compliance"
	"github.com/bryanwahyu/speccheck/internal/domain/registry"
)

// SummaryFunc produces the executive summary for a finished report. The
// default templated summary is deterministic; an external narrative
// generator can be plugged in instead.
type SummaryFunc func(r *domain.ComplianceReport) string

// Aggregate folds ordered per-file results into one report. The fold is
// pure: same results in, same report out (timestamps aside).
func Aggregate(specID registry.SpecID, implName string, results []domain.FileResult, now time.Time, summary SummaryFunc) domain.ComplianceReport {
	report := domain.ComplianceReport{
		SpecID:      specID,
		ImplName:    implName,
		GeneratedAt: now,
		FileResults: results,
	}

	var counts domain.SeverityCounts
	for _, res := range results {
		for _, f := range res.Findings {
			counts.Add(f.Severity)
		}
	}
	report.IssueCounts = counts
	report.AggregateConfidence = meanConfidence(results)
	report.AggregateStatus = aggregateStatus(results)

	if summary == nil {
		summary = TemplatedSummary
	}
	report.ExecutiveSummary = summary(&report)

	return report
}

// meanConfidence is the arithmetic mean over non-ERROR results, rounded to
// the nearest integer; 0 when every result is ERROR.
func meanConfidence(results []domain.FileResult) int {
	sum, n := 0, 0
	for _, res := range results {
		if res.Status == domain.StatusError {
			continue
		}
		sum += res.Confidence
		n++
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// aggregateStatus applies the fixed precedence rule:
// HIGH finding > ERROR/UNCERTAIN > any finding > all FULL_MATCH > PARTIAL_MATCH.
func aggregateStatus(results []domain.FileResult) domain.AggregateStatus {
	anyHigh := false
	anyIncomplete := false
	anyFinding := false
	allFull := true

	for _, res := range results {
		if res.HasHighSeverity() {
			anyHigh = true
		}
		if res.Status == domain.StatusError || res.Status == domain.StatusUncertain {
			anyIncomplete = true
		}
		if len(res.Findings) > 0 {
			anyFinding = true
		}
		if res.Status != domain.StatusFullMatch {
			allFull = false
		}
	}

	switch {
	case anyHigh:
		return domain.AggregateIssuesFound
	case anyIncomplete:
		return domain.AggregateIncomplete
	case anyFinding:
		return domain.AggregateIssuesFound
	case allFull:
		return domain.AggregateFullMatch
	default:
		return domain.AggregatePartialMatch
	}
}

// TemplatedSummary is the deterministic fallback summary, built only from
// the aggregate numbers.
func TemplatedSummary(r *domain.ComplianceReport) string {
	analyzed := 0
	for _, res := range r.FileResults {
		if res.Status != domain.StatusError {
			analyzed++
		}
	}
	return fmt.Sprintf(
		"Analyzed %d of %d mapped files for %s in %s. Aggregate status: %s with %d%% confidence. Findings: %d high, %d medium, %d low severity.",
		analyzed, len(r.FileResults), r.SpecID, r.ImplName,
		r.AggregateStatus, r.AggregateConfidence,
		r.IssueCounts.High, r.IssueCounts.Medium, r.IssueCounts.Low,
	)
}
