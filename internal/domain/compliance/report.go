package compliance

import (
	"time"

	"github.com/bryanwahyu/speccheck/internal/domain/registry"
)

// ComplianceReport is the canonical report model handed to renderers.
// File results appear in mapping order, one entry per mapped file.
type ComplianceReport struct {
	SpecID              registry.SpecID `json:"spec_id"`
	ImplName            string          `json:"impl_name"`
	GeneratedAt         time.Time       `json:"generated_at"`
	FileResults         []FileResult    `json:"file_results"`
	AggregateStatus     AggregateStatus `json:"aggregate_status"`
	AggregateConfidence int             `json:"aggregate_confidence"`
	IssueCounts         SeverityCounts  `json:"issue_counts"`
	ExecutiveSummary    string          `json:"executive_summary"`
}

// RunID identifier type
type RunID string

// RunStatus tracks the lifecycle of one analysis run.
type RunStatus string

const (
	RunQueued  RunStatus = "queued"
	RunRunning RunStatus = "running"
	RunSuccess RunStatus = "success"
	RunFailed  RunStatus = "failed"
)

// Run is the persisted record of one compliance analysis: lifecycle state,
// the aggregate numbers for quick querying, and the full report JSON.
type Run struct {
	ID                  RunID           `json:"id"`
	SpecID              registry.SpecID `json:"spec_id"`
	ImplName            string          `json:"impl_name"`
	TriggeredAt         time.Time       `json:"triggered_at"`
	Status              RunStatus       `json:"status"`
	AggregateStatus     AggregateStatus `json:"aggregate_status,omitempty"`
	AggregateConfidence int             `json:"aggregate_confidence"`
	Counts              SeverityCounts  `json:"counts"`
	FilesAnalyzed       int             `json:"files_analyzed"`
	ArtifactURL         string          `json:"artifact_url,omitempty"`
	DurationMS          int64           `json:"duration_ms"`
	ReportJSON          string          `json:"report_json,omitempty"`
}
