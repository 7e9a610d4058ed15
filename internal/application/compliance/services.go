package compliance

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bryanwahyu/speccheck/internal/application"
	domain "github.com/bryanwahyu/speccheck/internal/domain/compliance"
	"github.com/bryanwahyu/speccheck/internal/domain/extract"
	"github.com/bryanwahyu/speccheck/internal/domain/registry"
	"github.com/bryanwahyu/speccheck/internal/domain/runerrors"
)

// ReportRenderer writes one report in one output format and returns the
// local file path. Renderers must not mutate the report.
type ReportRenderer interface {
	Generate(r *domain.ComplianceReport, format string) (string, error)
}

// Service implements the analysis use-cases. It is safe for concurrent use:
// the registry is read-only and every run owns its own state.
type Service struct {
	Registry  *registry.Registry
	Provider  domain.SourceProvider
	Analyzer  *Analyzer
	Repo      domain.Repository
	Errors    runerrors.Repository // optional error log
	Artifacts domain.ArtifactStore
	Renderer  ReportRenderer
	Clock     application.Clock
	Pool      Orchestrator
	Limits    extract.Limits
	Formats   []string
	SummaryFn SummaryFunc
}

// Command to trigger one compliance run.
type TriggerAnalysisCommand struct {
	SpecID   string
	ImplName string
}

type TriggerAnalysisResult struct {
	ID                  string                 `json:"id"`
	Status              string                 `json:"status"`
	AggregateStatus     string                 `json:"aggregate_status,omitempty"`
	AggregateConfidence int                    `json:"aggregate_confidence"`
	Counts              domain.SeverityCounts  `json:"counts"`
	FilesAnalyzed       int                    `json:"files_analyzed"`
	ArtifactURL         string                 `json:"artifact_url,omitempty"`
	DurationMS          int64                  `json:"duration_ms"`
}

// TriggerAnalysisUntilDone runs the analysis on context.Background so a
// router goroutine can let it finish after the HTTP request is gone.
func (s *Service) TriggerAnalysisUntilDone(cmd TriggerAnalysisCommand) (TriggerAnalysisResult, error) {
	return s.TriggerAnalysis(context.Background(), cmd)
}

// TriggerAnalysis runs the full pipeline: registry lookup, spec and source
// fetch, per-file fan-out, aggregation, rendering, artifact upload, and
// persistence. Registry misses and an empty file mapping are the only fatal
// errors; per-file failures surface inside the report.
func (s *Service) TriggerAnalysis(ctx context.Context, cmd TriggerAnalysisCommand) (TriggerAnalysisResult, error) {
	now := s.Clock.Now()
	id := domain.RunID(fmt.Sprintf("%s-%s", uuid.New().String(), cmd.SpecID))

	spec, err := s.Registry.Describe(registry.SpecID(cmd.SpecID))
	if err != nil {
		return TriggerAnalysisResult{}, err
	}
	impl, err := s.Registry.Implementation(cmd.ImplName)
	if err != nil {
		return TriggerAnalysisResult{}, err
	}
	mapping, err := s.Registry.Mapping(cmd.ImplName, spec.ID)
	if err != nil {
		return TriggerAnalysisResult{}, err
	}

	initial := &domain.Run{
		ID:          id,
		SpecID:      spec.ID,
		ImplName:    impl.Name,
		TriggeredAt: now,
		Status:      domain.RunRunning,
	}
	if err := s.Repo.Save(ctx, initial); err != nil {
		// If the initial row cannot be saved, return the generated ID so the
		// caller can still log it.
		return TriggerAnalysisResult{ID: string(id), Status: string(domain.RunFailed)}, err
	}

	report, err := s.BuildReport(ctx, spec, impl, mapping)
	if err != nil {
		s.logError(ctx, id, spec.ID, "", "analyze", err.Error())
		_ = s.Repo.UpdateStatus(context.Background(), id, domain.RunFailed)
		return TriggerAnalysisResult{ID: string(id), Status: string(domain.RunFailed)}, err
	}
	for _, fr := range report.FileResults {
		if fr.Status == domain.StatusError {
			s.logError(ctx, id, spec.ID, fr.Path, "analyze", fr.Diagnostic)
		}
	}

	artifactURL, err := s.publish(ctx, id, &report)
	if err != nil {
		s.logError(ctx, id, spec.ID, "", "publish", err.Error())
		_ = s.Repo.UpdateStatus(context.Background(), id, domain.RunFailed)
		return TriggerAnalysisResult{ID: string(id), Status: string(domain.RunFailed)}, err
	}

	reportJSON, err := json.Marshal(&report)
	if err != nil {
		_ = s.Repo.UpdateStatus(context.Background(), id, domain.RunFailed)
		return TriggerAnalysisResult{ID: string(id), Status: string(domain.RunFailed)}, err
	}

	run := &domain.Run{
		ID:                  id,
		SpecID:              spec.ID,
		ImplName:            impl.Name,
		TriggeredAt:         now,
		Status:              domain.RunSuccess,
		AggregateStatus:     report.AggregateStatus,
		AggregateConfidence: report.AggregateConfidence,
		Counts:              report.IssueCounts,
		FilesAnalyzed:       len(report.FileResults),
		ArtifactURL:         artifactURL,
		DurationMS:          s.Clock.Now().Sub(now).Milliseconds(),
		ReportJSON:          string(reportJSON),
	}
	if err := s.Repo.Save(ctx, run); err != nil {
		return TriggerAnalysisResult{ID: string(id), Status: string(run.Status)}, err
	}

	return TriggerAnalysisResult{
		ID:                  string(run.ID),
		Status:              string(run.Status),
		AggregateStatus:     string(run.AggregateStatus),
		AggregateConfidence: run.AggregateConfidence,
		Counts:              run.Counts,
		FilesAnalyzed:       run.FilesAnalyzed,
		ArtifactURL:         run.ArtifactURL,
		DurationMS:          run.DurationMS,
	}, nil
}

// BuildReport produces the in-memory report without touching persistence.
// Any non-empty mapping yields a complete report, possibly all-ERROR.
func (s *Service) BuildReport(ctx context.Context, spec registry.SpecDescriptor, impl registry.Implementation, mapping registry.FileMapping) (domain.ComplianceReport, error) {
	if len(mapping.Files) == 0 {
		return domain.ComplianceReport{}, domain.ErrEmptyInput
	}

	specText, specErr := s.Provider.FetchSpec(ctx, spec)
	if specErr != nil {
		// The spec document itself is unreachable: every file degrades to an
		// ERROR result, but the run still completes with a full report.
		results := make([]domain.FileResult, len(mapping.Files))
		for i, f := range mapping.Files {
			results[i] = domain.ErrorResult(f.Path, "spec fetch failed: "+specErr.Error())
		}
		return Aggregate(spec.ID, impl.Name, results, s.Clock.Now(), s.SummaryFn), nil
	}
	specExcerpt := SpecSection(specText, 0)

	tasks := make([]Task, len(mapping.Files))
	for i, f := range mapping.Files {
		tasks[i] = Task{Path: f.Path, Language: f.Language}
	}

	results, err := s.Pool.RunAll(ctx, tasks, func(ctx context.Context, _ int, task Task) domain.FileResult {
		source, err := s.Provider.FetchFile(ctx, impl, task.Path)
		if err != nil {
			return domain.ErrorResult(task.Path, "source fetch failed: "+err.Error())
		}
		excerpt := extract.Extract(task.Path, source, task.Language, spec.Keywords, s.Limits)
		return s.Analyzer.Analyze(ctx, specExcerpt, excerpt, domain.AnalysisContext{
			SpecID:     spec.ID,
			SpecTitle:  spec.Title,
			FilePath:   task.Path,
			Language:   task.Language,
			FocusAreas: spec.FocusAreas,
		})
	})
	if err != nil {
		return domain.ComplianceReport{}, err
	}

	return Aggregate(spec.ID, impl.Name, results, s.Clock.Now(), s.SummaryFn), nil
}

// publish renders the report in every configured format and uploads the
// artifacts. The JSON artifact's URL is the run's canonical artifact URL.
func (s *Service) publish(ctx context.Context, id domain.RunID, report *domain.ComplianceReport) (string, error) {
	if s.Renderer == nil || s.Artifacts == nil {
		return "", nil
	}
	formats := s.Formats
	if len(formats) == 0 {
		formats = []string{"json"}
	}

	var artifactURL string
	for _, format := range formats {
		local, err := s.Renderer.Generate(report, format)
		if err != nil {
			return "", fmt.Errorf("render %s: %w", format, err)
		}
		key := fmt.Sprintf("%s/%s/%s", report.ImplName, id, filepath.Base(local))
		url, err := s.Artifacts.UploadAndCleanup(ctx, local, key)
		if err != nil {
			return "", fmt.Errorf("upload %s: %w", format, err)
		}
		if format == "json" || artifactURL == "" {
			artifactURL = url
		}
	}
	return artifactURL, nil
}

//
// ==== QUERIES ====
//

// logError records one entry in the run error log. The log is optional and
// best effort.
func (s *Service) logError(ctx context.Context, id domain.RunID, specID registry.SpecID, filePath, phase, message string) {
	if s.Errors == nil {
		return
	}
	_ = s.Errors.Save(ctx, &runerrors.RunError{
		RunID:     string(id),
		SpecID:    string(specID),
		FilePath:  filePath,
		Phase:     phase,
		Message:   message,
		CreatedAt: s.Clock.Now(),
	})
}

// RunErrors returns the error log entries for one run.
func (s *Service) RunErrors(ctx context.Context, id domain.RunID, limit int) ([]*runerrors.RunError, error) {
	if s.Errors == nil {
		return nil, nil
	}
	return s.Errors.ListByRun(ctx, string(id), limit)
}

// Latest returns the most recent runs.
func (s *Service) Latest(ctx context.Context, limit int) ([]*domain.Run, error) {
	return s.Repo.Latest(ctx, limit)
}

// Get returns one run by ID.
func (s *Service) Get(ctx context.Context, id domain.RunID) (*domain.Run, error) {
	return s.Repo.Get(ctx, id)
}

// Paginate returns a page of runs.
func (s *Service) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Run, error) {
	return s.Repo.Paginate(ctx, page, pageSize)
}

// Summary recaps runs over the last N days.
func (s *Service) Summary(ctx context.Context, sinceDays int) (map[string]any, error) {
	total, high, medium, low, err := s.Repo.Summary(ctx, sinceDays)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"total_runs": total,
		"high":       high,
		"medium":     medium,
		"low":        low,
	}, nil
}

// Specs lists every registered spec descriptor.
func (s *Service) Specs() []registry.SpecDescriptor { return s.Registry.ListSpecs() }

// Implementations lists every registered implementation.
func (s *Service) Implementations() []registry.Implementation {
	return s.Registry.ListImplementations()
}

// SpecsFor lists the spec IDs mapped for one implementation.
func (s *Service) SpecsFor(implName string) ([]registry.SpecID, error) {
	if _, err := s.Registry.Implementation(implName); err != nil {
		return nil, err
	}
	return s.Registry.ListSpecsFor(implName), nil
}
