package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcompliance "github.com/bryanwahyu/speccheck/internal/application/compliance"
	domain "github.com/bryanwahyu/speccheck/internal/domain/compliance"
	"github.com/bryanwahyu/speccheck/internal/domain/extract"
	"github.com/bryanwahyu/speccheck/internal/domain/registry"
)

type stubClock struct{}

func (stubClock) Now() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

type stubProvider struct{}

func (stubProvider) FetchSpec(context.Context, registry.SpecDescriptor) (string, error) {
	return "## Specification\n\nrules\n", nil
}

func (stubProvider) FetchFile(context.Context, registry.Implementation, string) (string, error) {
	return "func CalcBaseFee() {\n}\n", nil
}

type stubReasoner struct{}

func (stubReasoner) Complete(context.Context, string, string) (string, error) {
	return `{"status": "FULL_MATCH", "confidence": 90, "issues": [], "summary": "fine"}`, nil
}

type stubRepo struct {
	mu   sync.Mutex
	runs map[domain.RunID]*domain.Run
}

func (s *stubRepo) Save(_ context.Context, run *domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runs == nil {
		s.runs = make(map[domain.RunID]*domain.Run)
	}
	cp := *run
	s.runs[run.ID] = &cp
	return nil
}

func (s *stubRepo) Get(_ context.Context, id domain.RunID) (*domain.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.runs[id]; ok {
		return run, nil
	}
	return nil, fmt.Errorf("%w: run %q", registry.ErrNotFound, id)
}

func (s *stubRepo) Latest(_ context.Context, limit int) ([]*domain.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Run, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, run)
	}
	return out, nil
}

func (s *stubRepo) Paginate(context.Context, int, int) ([]*domain.Run, error) { return nil, nil }

func (s *stubRepo) Summary(context.Context, int) (int, int, int, int, error) {
	return 3, 1, 2, 0, nil
}

func (s *stubRepo) UpdateStatus(context.Context, domain.RunID, domain.RunStatus) error { return nil }

func testRouter(t *testing.T) (http.Handler, *stubRepo) {
	t.Helper()
	reg, err := registry.New(
		[]registry.SpecDescriptor{{ID: "eip-1559", Title: "Fee market", SourceURL: "https://example.com/e.md", Keywords: []string{"basefee"}}},
		[]registry.Implementation{{Name: "go-ethereum", RepoURL: "https://github.com/ethereum/go-ethereum", Language: "go"}},
		[]registry.FileMapping{{ImplName: "go-ethereum", SpecID: "eip-1559", Files: []registry.SourceFile{{Path: "core/fee.go"}}}},
	)
	require.NoError(t, err)

	repo := &stubRepo{}
	svc := &appcompliance.Service{
		Registry: reg,
		Provider: stubProvider{},
		Analyzer: appcompliance.NewAnalyzer(stubReasoner{}),
		Repo:     repo,
		Clock:    stubClock{},
		Pool:     appcompliance.Orchestrator{Workers: 2, TaskTimeout: time.Second},
		Limits:   extract.DefaultLimits(),
	}
	return NewRouter(svc), repo
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := testRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestListSpecsAndImplementations(t *testing.T) {
	h, _ := testRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/specs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var specs []registry.SpecDescriptor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &specs))
	require.Len(t, specs, 1)
	assert.Equal(t, registry.SpecID("eip-1559"), specs[0].ID)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/implementations/go-ethereum/specs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var ids []registry.SpecID
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ids))
	assert.Equal(t, []registry.SpecID{"eip-1559"}, ids)
}

func TestSpecsForUnknownImplementationIs404(t *testing.T) {
	h, _ := testRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/implementations/reth/specs", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUnknownRunIs404(t *testing.T) {
	h, _ := testRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/analyses/01234567-89ab-cdef-0123-456789abcdef-eip-1559", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetMalformedRunIDIs400(t *testing.T) {
	h, _ := testRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/analyses/nope", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/analyses/nope/errors", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTriggerAnalysisQueues(t *testing.T) {
	h, repo := testRouter(t)

	body := strings.NewReader(`{"spec_id": "eip-1559", "implementation": "go-ethereum"}`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/analyses", body))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "queued", resp["status"])

	// The background run lands in the repository shortly after.
	require.Eventually(t, func() bool {
		runs, _ := repo.Latest(context.Background(), 10)
		for _, run := range runs {
			if run.Status == domain.RunSuccess {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTriggerAnalysisValidation(t *testing.T) {
	h, _ := testRouter(t)

	// Missing implementation.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/analyses", strings.NewReader(`{"spec_id": "eip-1559"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed spec ID.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/analyses", strings.NewReader(`{"spec_id": "EIP 1559!", "implementation": "go-ethereum"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Broken JSON body.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/analyses", strings.NewReader(`{"spec_id"`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown spec fails fast with 404 before queueing.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/analyses", strings.NewReader(`{"spec_id": "eip-9999", "implementation": "go-ethereum"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSummaryEndpoint(t *testing.T) {
	h, _ := testRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/summary?days=7", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var summary map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary["total_runs"])
	assert.Equal(t, 1, summary["high"])
}
