package compliance

// FileStatus enum for a single analyzed file.
type FileStatus string

const (
	StatusFullMatch    FileStatus = "FULL_MATCH"
	StatusPartialMatch FileStatus = "PARTIAL_MATCH"
	StatusMissing      FileStatus = "MISSING"
	StatusUncertain    FileStatus = "UNCERTAIN"
	StatusError        FileStatus = "ERROR"
)

// Valid reports whether s is one of the five file statuses.
func (s FileStatus) Valid() bool {
	switch s {
	case StatusFullMatch, StatusPartialMatch, StatusMissing, StatusUncertain, StatusError:
		return true
	}
	return false
}

// AggregateStatus enum for the whole report.
type AggregateStatus string

const (
	AggregateFullMatch    AggregateStatus = "FULL_MATCH"
	AggregatePartialMatch AggregateStatus = "PARTIAL_MATCH"
	AggregateIssuesFound  AggregateStatus = "ISSUES_FOUND"
	AggregateIncomplete   AggregateStatus = "INCOMPLETE"
)

// Severity enum
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// FindingType enum
type FindingType string

const (
	FindingMissingCheck FindingType = "MISSING_CHECK"
	FindingDeviation    FindingType = "DEVIATION"
	FindingEdgeCase     FindingType = "EDGE_CASE"
	FindingMissing      FindingType = "MISSING"
)

// Finding is one reported deviation, omission, or unhandled edge case.
type Finding struct {
	Type          FindingType `json:"type"`
	Severity      Severity    `json:"severity"`
	SpecReference string      `json:"spec_reference"`
	CodeLocation  string      `json:"code_location"`
	Description   string      `json:"description"`
	Suggestion    string      `json:"suggestion"`
}

// SeverityCounts value object
type SeverityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Total is the number of findings across all severities.
func (c SeverityCounts) Total() int { return c.High + c.Medium + c.Low }

// Add increments the counter matching sev. Unknown severities count as low.
func (c *SeverityCounts) Add(sev Severity) {
	switch sev {
	case SeverityHigh:
		c.High++
	case SeverityMedium:
		c.Medium++
	default:
		c.Low++
	}
}

// FileResult is the per-file analysis outcome. Immutable once built.
type FileResult struct {
	Path       string     `json:"path"`
	Status     FileStatus `json:"status"`
	Confidence int        `json:"confidence"`
	Findings   []Finding  `json:"findings"`
	Diagnostic string     `json:"diagnostic,omitempty"`
}

// ErrorResult builds the canonical failed-file result: status ERROR always
// carries zero confidence, no findings, and a human-readable diagnostic.
func ErrorResult(path, diagnostic string) FileResult {
	return FileResult{
		Path:       path,
		Status:     StatusError,
		Confidence: 0,
		Findings:   []Finding{},
		Diagnostic: diagnostic,
	}
}

// HasHighSeverity reports whether any finding is HIGH.
func (f FileResult) HasHighSeverity() bool {
	for _, issue := range f.Findings {
		if issue.Severity == SeverityHigh {
			return true
		}
	}
	return false
}
