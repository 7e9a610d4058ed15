package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	appcompliance "github.com/bryanwahyu/speccheck/internal/application/compliance"
	domain "github.com/bryanwahyu/speccheck/internal/domain/compliance"
	regdomain "github.com/bryanwahyu/speccheck/internal/domain/registry"
	"github.com/bryanwahyu/speccheck/internal/middleware"
)

// errInvalidInput marks request errors the client can fix.
var errInvalidInput = errors.New("invalid request")

type Router struct {
	svc *appcompliance.Service
}

func NewRouter(svc *appcompliance.Service) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/analyses", r.wrap(r.handleTriggerAnalysis))
		rt.Get("/analyses/latest", r.wrap(r.handleLatest))
		rt.Get("/analyses/{id}", r.wrap(r.handleGet))
		rt.Get("/analyses/{id}/errors", r.wrap(r.handleRunErrors))
		rt.Get("/summary", r.wrap(r.handleSummary))
		rt.Get("/specs", r.wrap(r.handleSpecs))
		rt.Get("/implementations", r.wrap(r.handleImplementations))
		rt.Get("/implementations/{impl}/specs", r.wrap(r.handleSpecsFor))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, regdomain.ErrNotFound), errors.Is(err, sql.ErrNoRows):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, domain.ErrEmptyInput), errors.Is(err, errInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, domain.ErrQuotaExceeded):
				http.Error(w, "reasoning quota exceeded", http.StatusTooManyRequests)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// POST /v1/analyses
// Body: {"spec_id": "eip-1559", "implementation": "go-ethereum"}
// The analysis runs in the background; the response confirms the queue.
func (r *Router) handleTriggerAnalysis(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		SpecID         string `json:"spec_id"`
		Implementation string `json:"implementation"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errInvalidInput, err)
	}
	body.SpecID = middleware.SanitizeString(body.SpecID)
	body.Implementation = middleware.SanitizeString(body.Implementation)
	if err := middleware.ValidateSpecID(body.SpecID); err != nil {
		return fmt.Errorf("%w: spec_id: %v", errInvalidInput, err)
	}
	if err := middleware.ValidateImplName(body.Implementation); err != nil {
		return fmt.Errorf("%w: implementation: %v", errInvalidInput, err)
	}

	cmd := appcompliance.TriggerAnalysisCommand{
		SpecID:   body.SpecID,
		ImplName: body.Implementation,
	}

	// Validate against the registry before queueing so typos fail fast.
	if _, err := r.svc.Registry.Describe(regdomain.SpecID(cmd.SpecID)); err != nil {
		return err
	}
	if _, err := r.svc.Registry.Mapping(cmd.ImplName, regdomain.SpecID(cmd.SpecID)); err != nil {
		return err
	}

	// Run in the background so long analyses survive the request.
	go func() {
		result, err := r.svc.TriggerAnalysisUntilDone(cmd)
		if err != nil {
			fmt.Printf("background analysis error for spec=%s impl=%s: %v\n",
				cmd.SpecID, cmd.ImplName, err)
			return
		}
		fmt.Printf("analysis finished: spec=%s impl=%s status=%s artifact=%s\n",
			cmd.SpecID, cmd.ImplName, result.AggregateStatus, result.ArtifactURL)
	}()

	resp := map[string]any{
		"status":         "queued",
		"spec_id":        body.SpecID,
		"implementation": body.Implementation,
		"message":        "analysis started in background",
		"queuedAt":       time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

// GET /v1/analyses/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	list, err := r.svc.Latest(req.Context(), limit)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateRunID(id); err != nil {
		return fmt.Errorf("%w: %v", errInvalidInput, err)
	}

	run, err := r.svc.Get(req.Context(), domain.RunID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(run)
}

// GET /v1/analyses/{id}/errors?limit=20
func (r *Router) handleRunErrors(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateRunID(id); err != nil {
		return fmt.Errorf("%w: %v", errInvalidInput, err)
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	list, err := r.svc.RunErrors(req.Context(), domain.RunID(id), limit)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/summary?days=7
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	days, _ := strconv.Atoi(req.URL.Query().Get("days"))
	days = middleware.ValidateDays(days)

	summary, err := r.svc.Summary(req.Context(), days)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(summary)
}

// GET /v1/specs
func (r *Router) handleSpecs(w http.ResponseWriter, req *http.Request) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(r.svc.Specs())
}

// GET /v1/implementations
func (r *Router) handleImplementations(w http.ResponseWriter, req *http.Request) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(r.svc.Implementations())
}

// GET /v1/implementations/{impl}/specs
func (r *Router) handleSpecsFor(w http.ResponseWriter, req *http.Request) error {
	impl := chi.URLParam(req, "impl")

	ids, err := r.svc.SpecsFor(impl)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(ids)
}
