package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	domain "github.com/bryanwahyu/speccheck/internal/domain/compliance"
	regdomain "github.com/bryanwahyu/speccheck/internal/domain/registry"
)

const runColumns = `id, spec_id, impl_name, triggered_at, status,
	   aggregate_status, aggregate_confidence,
	   high, medium, low, findings_total,
	   files_analyzed, artifact_url, duration_ms, report_json`

type RunRepository struct { db *sql.DB }

func NewRunRepository(db *sql.DB) *RunRepository { return &RunRepository{db: db} }

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil { return nil, err }
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil { return nil, err }
	return db, nil
}

// Save insert/update a compliance run record
func (r *RunRepository) Save(ctx context.Context, run *domain.Run) error {
	const q = `
INSERT INTO compliance_runs
(id, spec_id, impl_name, triggered_at, status,
 aggregate_status, aggregate_confidence,
 high, medium, low, findings_total,
 files_analyzed, artifact_url, duration_ms, report_json)
VALUES ($1,$2,$3,$4,$5,
		$6,$7,
		$8,$9,$10,$11,
		$12,$13,$14,$15)
ON CONFLICT (id) DO UPDATE SET
 status = EXCLUDED.status,
 aggregate_status = EXCLUDED.aggregate_status,
 aggregate_confidence = EXCLUDED.aggregate_confidence,
 high = EXCLUDED.high,
 medium = EXCLUDED.medium,
 low = EXCLUDED.low,
 findings_total = EXCLUDED.findings_total,
 files_analyzed = EXCLUDED.files_analyzed,
 artifact_url = EXCLUDED.artifact_url,
 duration_ms = EXCLUDED.duration_ms,
 report_json = EXCLUDED.report_json;`

	status := stringOrDash(string(run.Status))
	triggered := run.TriggeredAt
	if triggered.IsZero() { triggered = time.Now() }

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
	q := fmt.Sprintf(`SELECT %s FROM compliance_runs WHERE id=$1 LIMIT 1;`, runColumns)
	run, err := scanRun(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %q", regdomain.ErrNotFound, id)
	}
	return run, err
}

// Latest runs, newest first
func (r *RunRepository) Latest(ctx context.Context, limit int) ([]*domain.Run, error) {
	if limit <= 0 { limit = 20 }
	q := fmt.Sprintf(`SELECT %s FROM compliance_runs ORDER BY triggered_at DESC, id DESC LIMIT $1;`, runColumns)
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil { return nil, err }
	return collectRuns(rows)
}

// Paginate with offset + limit
func (r *RunRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Run, error) {
	if page <= 0 { page = 1 }
	if pageSize <= 0 { pageSize = 20 }
	offset := (page - 1) * pageSize

	q := fmt.Sprintf(`SELECT %s FROM compliance_runs ORDER BY triggered_at DESC, id DESC LIMIT $1 OFFSET $2;`, runColumns)
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil { return nil, fmt.Errorf("querying runs: %w", err) }
	return collectRuns(rows)
}

// Summary counts findings across runs since N days
func (r *RunRepository) Summary(ctx context.Context, sinceDays int) (int, int, int, int, error) {
	if sinceDays <= 0 { sinceDays = 7 }
	cut := time.Now().AddDate(0, 0, -sinceDays)

	const q = `
SELECT COUNT(*) AS total_runs,
	   COALESCE(SUM(high),0)   AS high,
	   COALESCE(SUM(medium),0) AS medium,
	   COALESCE(SUM(low),0)    AS low
FROM compliance_runs
WHERE triggered_at >= $1;`
	var t, h, m, l int
	if err := r.db.QueryRowContext(ctx, q, cut).Scan(&t, &h, &m, &l); err != nil {
		return 0, 0, 0, 0, err
	}
	return t, h, m, l, nil
}

// UpdateStatus only updates the status column
func (r *RunRepository) UpdateStatus(ctx context.Context, id domain.RunID, status domain.RunStatus) error {
	const q = `UPDATE compliance_runs SET status = $1 WHERE id = $2;`
	_, err := r.db.ExecContext(ctx, q, status, id)
	return err
}

type rowScanner interface{ Scan(dest ...any) error }

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
		if err != nil { return nil, err }
		out = append(out, run)
	}
	return out, rows.Err()
}

func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" { return "-" }
	return s
}
