package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	domain "github.com/bryanwahyu/speccheck/internal/domain/runerrors"
)

type RunErrorRepository struct {
	db *sql.DB
}

func NewRunErrorRepository(db *sql.DB) *RunErrorRepository { return &RunErrorRepository{db: db} }

func (r *RunErrorRepository) Save(ctx context.Context, e *domain.RunError) error {
	const q = `
INSERT INTO compliance_run_errors
  (run_id, spec_id, file_path, phase, message, details_json, created_at)
VALUES (?,?,?,?,?,?,?)
`
	run := dashIfEmpty(e.RunID)
	spec := dashIfEmpty(e.SpecID)
	phase := dashIfEmpty(e.Phase)
	msg := e.Message
	if strings.TrimSpace(msg) == "" {
		msg = "-"
	}
	details := e.DetailsJSON
	if strings.TrimSpace(details) == "" {
		details = "{}"
	} else {
		// ensure valid json; if invalid, wrap as string field
		var js any
		if json.Unmarshal([]byte(details), &js) != nil {
			b, _ := json.Marshal(map[string]string{"raw": details})
			details = string(b)
		}
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, run, spec, e.FilePath, phase, msg, details, created)
	return err
}

func (r *RunErrorRepository) ListByRun(ctx context.Context, runID string, limit int) ([]*domain.RunError, error) {
	if limit <= 0 { limit = 20 }
	const q = `
SELECT id, run_id, spec_id, file_path, phase, message, details_json, created_at
FROM compliance_run_errors
WHERE run_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, runID, limit)
	if err != nil { return nil, err }
	defer rows.Close()
	var out []*domain.RunError
	for rows.Next() {
		var e domain.RunError
		var created time.Time
		if err := rows.Scan(&e.ID, &e.RunID, &e.SpecID, &e.FilePath, &e.Phase, &e.Message, &e.DetailsJSON, &created); err != nil {
			return nil, err
		}
		e.CreatedAt = created
		out = append(out, &e)
	}
	return out, rows.Err()
}

func dashIfEmpty(s string) string { if strings.TrimSpace(s) == "" { return "-" }; return s }
