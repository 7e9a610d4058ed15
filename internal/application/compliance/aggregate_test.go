package compliance

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/speccheck/internal/domain/compliance"
)

var testTime = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func fullMatch(path string, confidence int) domain.FileResult {
	return domain.FileResult{Path: path, Status: domain.StatusFullMatch, Confidence: confidence, Findings: []domain.Finding{}}
}

func withFinding(path string, status domain.FileStatus, confidence int, sev domain.Severity) domain.FileResult {
	return domain.FileResult{
		Path: path, Status: status, Confidence: confidence,
		Findings: []domain.Finding{{Type: domain.FindingDeviation, Severity: sev, Description: "d"}},
	}
}

func TestAggregateMeanConfidenceSkipsErrors(t *testing.T) {
	results := []domain.FileResult{
		fullMatch("a.go", 100),
		fullMatch("b.go", 90),
		domain.ErrorResult("c.go", "fetch failed"),
	}
	report := Aggregate("eip-1559", "go-ethereum", results, testTime, nil)

	// (100+90)/2 = 95; the ERROR result is excluded from the mean.
	assert.Equal(t, 95, report.AggregateConfidence)
}

func TestAggregateAllErrorsZeroConfidence(t *testing.T) {
	results := []domain.FileResult{
		domain.ErrorResult("a.go", "x"),
		domain.ErrorResult("b.go", "y"),
	}
	report := Aggregate("eip-1559", "go-ethereum", results, testTime, nil)

	assert.Equal(t, 0, report.AggregateConfidence)
	assert.Equal(t, domain.AggregateIncomplete, report.AggregateStatus)
}

func TestAggregateHighSeverityBeatsError(t *testing.T) {
	results := []domain.FileResult{
		withFinding("a.go", domain.StatusPartialMatch, 60, domain.SeverityHigh),
		domain.ErrorResult("b.go", "timeout"),
	}
	report := Aggregate("eip-1559", "go-ethereum", results, testTime, nil)

	assert.Equal(t, domain.AggregateIssuesFound, report.AggregateStatus)
}

func TestAggregateStatusPrecedence(t *testing.T) {
	cases := []struct {
		name    string
		results []domain.FileResult
		want    domain.AggregateStatus
	}{
		{
			"uncertain present",
			[]domain.FileResult{
				fullMatch("a.go", 100),
				{Path: "b.go", Status: domain.StatusUncertain, Confidence: 40, Findings: []domain.Finding{}},
			},
			domain.AggregateIncomplete,
		},
		{
			"low finding without high",
			[]domain.FileResult{
				fullMatch("a.go", 100),
				withFinding("b.go", domain.StatusPartialMatch, 70, domain.SeverityLow),
			},
			domain.AggregateIssuesFound,
		},
		{
			"all full match",
			[]domain.FileResult{fullMatch("a.go", 100), fullMatch("b.go", 95)},
			domain.AggregateFullMatch,
		},
		{
			"clean partial match",
			[]domain.FileResult{
				fullMatch("a.go", 100),
				{Path: "b.go", Status: domain.StatusPartialMatch, Confidence: 80, Findings: []domain.Finding{}},
			},
			domain.AggregatePartialMatch,
		},
		{
			"missing without findings",
			[]domain.FileResult{
				{Path: "a.go", Status: domain.StatusMissing, Confidence: 90, Findings: []domain.Finding{}},
			},
			domain.AggregatePartialMatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := Aggregate("eip-1559", "go-ethereum", tc.results, testTime, nil)
			assert.Equal(t, tc.want, report.AggregateStatus)
		})
	}
}

func TestAggregateCountsAndOrder(t *testing.T) {
	results := []domain.FileResult{
		withFinding("z.go", domain.StatusPartialMatch, 50, domain.SeverityHigh),
		withFinding("a.go", domain.StatusPartialMatch, 50, domain.SeverityMedium),
		withFinding("m.go", domain.StatusPartialMatch, 50, domain.SeverityLow),
	}
	report := Aggregate("eip-1559", "go-ethereum", results, testTime, nil)

	assert.Equal(t, domain.SeverityCounts{High: 1, Medium: 1, Low: 1}, report.IssueCounts)
	// Input order is preserved verbatim, no sorting.
	assert.Equal(t, "z.go", report.FileResults[0].Path)
	assert.Equal(t, "a.go", report.FileResults[1].Path)
	assert.Equal(t, "m.go", report.FileResults[2].Path)
}

func TestTemplatedSummaryDeterministic(t *testing.T) {
	results := []domain.FileResult{
		fullMatch("a.go", 100),
		domain.ErrorResult("b.go", "x"),
	}
	r1 := Aggregate("eip-1559", "go-ethereum", results, testTime, nil)
	r2 := Aggregate("eip-1559", "go-ethereum", results, testTime, nil)

	assert.Equal(t, r1.ExecutiveSummary, r2.ExecutiveSummary)
	assert.Contains(t, r1.ExecutiveSummary, "Analyzed 1 of 2 mapped files")
	assert.Contains(t, r1.ExecutiveSummary, "eip-1559")
}

func TestReportJSONRoundTrip(t *testing.T) {
	results := []domain.FileResult{
		withFinding("a.go", domain.StatusPartialMatch, 72, domain.SeverityHigh),
		domain.ErrorResult("b.go", "fetch failed"),
	}
	report := Aggregate("eip-4844", "go-ethereum", results, testTime, nil)

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var back domain.ComplianceReport
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, report, back)
}
