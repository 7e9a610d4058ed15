package compliance

import (
	"context"

	"github.com/bryanwahyu/speccheck/internal/domain/registry"
)

// Reasoner port (interface to the external Reasoning Service). The returned
// text is untrusted: it may be any payload, conformant or not.
type Reasoner interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// SourceProvider port (interface to the external spec/code fetcher).
type SourceProvider interface {
	FetchSpec(ctx context.Context, spec registry.SpecDescriptor) (string, error)
	FetchFile(ctx context.Context, impl registry.Implementation, path string) (string, error)
}

// Repository port (interface for run persistence)
type Repository interface {
	Save(ctx context.Context, run *Run) error
	Get(ctx context.Context, id RunID) (*Run, error)
	Latest(ctx context.Context, limit int) ([]*Run, error)
	Paginate(ctx context.Context, page, pageSize int) ([]*Run, error)
	Summary(ctx context.Context, sinceDays int) (total, high, medium, low int, err error)
	UpdateStatus(ctx context.Context, id RunID, status RunStatus) error
}

// ArtifactStore port (interface for rendered report storage)
type ArtifactStore interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
	UploadAndCleanup(ctx context.Context, localPath, key string) (string, error)
}
