package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/speccheck/internal/domain/compliance"
	regdomain "github.com/bryanwahyu/speccheck/internal/domain/registry"
)

const runColumns = `id, spec_id, impl_name, triggered_at, status,
       aggregate_status, aggregate_confidence,
       high, medium, low, findings_total,
       files_analyzed, artifact_url, duration_ms, report_json`

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Save insert/update a compliance run record
func (r *RunRepository) Save(ctx context.Context, run *domain.Run) error {
	const q = `
INSERT INTO compliance_runs
(id, spec_id, impl_name, triggered_at, status,
 aggregate_status, aggregate_confidence,
 high, medium, low, findings_total,
 files_analyzed, artifact_url, duration_ms, report_json)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 status=VALUES(status),
 aggregate_status=VALUES(aggregate_status), aggregate_confidence=VALUES(aggregate_confidence),
 high=VALUES(high), medium=VALUES(medium), low=VALUES(low),
 findings_total=VALUES(findings_total), files_analyzed=VALUES(files_analyzed),
 artifact_url=VALUES(artifact_url), duration_ms=VALUES(duration_ms), report_json=VALUES(report_json);
`
	status := stringOrDash(string(run.Status))
	triggered := run.TriggeredAt
	if triggered.IsZero() {
		triggered = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		run.ID, run.SpecID, run.ImplName, triggered, status,
		run.AggregateStatus, run.AggregateConfidence,
		run.Counts.High, run.Counts.Medium, run.Counts.Low, run.Counts.Total(),
		run.FilesAnalyzed, run.ArtifactURL, run.DurationMS, run.ReportJSON,
	)
	return err
}

// Get by ID
func (r *RunRepository) Get(ctx context.Context, id domain.RunID) (*domain.Run, error) {
	q := fmt.Sprintf(`SELECT %s FROM compliance_runs WHERE id=? LIMIT 1;`, runColumns)
	run, err := scanRun(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %q", regdomain.ErrNotFound, id)
	}
	return run, err
}

// Latest runs, newest first
func (r *RunRepository) Latest(ctx context.Context, limit int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	q := fmt.Sprintf(`SELECT %s FROM compliance_runs ORDER BY triggered_at DESC, id DESC LIMIT ?;`, runColumns)
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	return collectRuns(rows)
}

// Paginate with offset + limit (classic pagination)
func (r *RunRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Run, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	q := fmt.Sprintf(`SELECT %s FROM compliance_runs ORDER BY triggered_at DESC, id DESC LIMIT ? OFFSET ?;`, runColumns)
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	return collectRuns(rows)
}

// Summary counts findings across runs since N days
func (r *RunRepository) Summary(ctx context.Context, sinceDays int) (int, int, int, int, error) {
	if sinceDays <= 0 {
		sinceDays = 7
	}
	cut := time.Now().AddDate(0, 0, -sinceDays)

	const q = `
SELECT COUNT(*) AS total_runs,
       COALESCE(SUM(high),0)   AS high,
       COALESCE(SUM(medium),0) AS medium,
       COALESCE(SUM(low),0)    AS low
FROM compliance_runs
WHERE triggered_at >= ?;
`
	var t, h, m, l int
	if err := r.db.QueryRowContext(ctx, q, cut).Scan(&t, &h, &m, &l); err != nil {
		return 0, 0, 0, 0, err
	}
	return t, h, m, l, nil
}

// UpdateStatus only updates the status column
func (r *RunRepository) UpdateStatus(ctx context.Context, id domain.RunID, status domain.RunStatus) error {
	const q = `UPDATE compliance_runs SET status = ? WHERE id = ?;`
	_, err := r.db.ExecContext(ctx, q, status, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.Run, error) {
	var run domain.Run
	var hi, med, lo, tot int
	if err := row.Scan(
		&run.ID, &run.SpecID, &run.ImplName, &run.TriggeredAt, &run.Status,
		&run.AggregateStatus, &run.AggregateConfidence,
		&hi, &med, &lo, &tot,
		&run.FilesAnalyzed, &run.ArtifactURL, &run.DurationMS, &run.ReportJSON,
	); err != nil {
		return nil, err
	}
	run.Counts = domain.SeverityCounts{High: hi, Medium: med, Low: lo}
	return &run, nil
}

func collectRuns(rows *sql.Rows) ([]*domain.Run, error) {
	defer rows.Close()
	var out []*domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
