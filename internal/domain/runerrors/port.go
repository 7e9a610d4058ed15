package runerrors

import (
	"context"
)

// Repository defines persistence for analysis run errors
type Repository interface {
	Save(ctx context.Context, e *RunError) error
	ListByRun(ctx context.Context, runID string, limit int) ([]*RunError, error)
}
