package compliance

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	domain "github.com/bryanwahyu/speccheck/internal/domain/compliance"
)

const (
	defaultWorkers     = 4
	defaultTaskTimeout = 3 * time.Minute
)

// Task is one unit of per-file work: the mapped path plus its language tag.
// The task function owns the file's fetch, extraction, and analysis.
type Task struct {
	Path     string
	Language string
}

// TaskFunc performs one task. It must return a FileResult in all cases;
// failures belong in the result, not in a panic or error.
type TaskFunc func(ctx context.Context, index int, task Task) domain.FileResult

// Orchestrator fans tasks out over a bounded worker pool. Results land in
// pre-assigned slots so output order always equals input order, whatever the
// completion order. Each worker owns a disjoint index: no locking needed.
type Orchestrator struct {
	Workers     int
	TaskTimeout time.Duration
}

// RunAll executes every task and returns one result per task, in task order.
// The only fatal condition is an empty task list; a slow or failing task
// degrades only its own slot.
func (o *Orchestrator) RunAll(ctx context.Context, tasks []Task, fn TaskFunc) ([]domain.FileResult, error) {
	if len(tasks) == 0 {
		return nil, domain.ErrEmptyInput
	}

	workers := o.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	timeout := o.TaskTimeout
	if timeout <= 0 {
		timeout = defaultTaskTimeout
	}

	results := make([]domain.FileResult, len(tasks))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, t := range tasks {
		g.Go(func() error {
			results[i] = o.runOne(ctx, i, t, fn, timeout)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are result data

	return results, nil
}

// runOne applies the per-task timeout. Expiry converts directly into an
// ERROR result; the abandoned call winds down on its own once it observes
// the cancelled context.
func (o *Orchestrator) runOne(ctx context.Context, index int, task Task, fn TaskFunc, timeout time.Duration) domain.FileResult {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan domain.FileResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- domain.ErrorResult(task.Path, fmt.Sprintf("analysis panicked: %v", r))
			}
		}()
		done <- fn(tctx, index, task)
	}()

	select {
	case res := <-done:
		if res.Path == "" {
			res.Path = task.Path
		}
		return res
	case <-tctx.Done():
		return domain.ErrorResult(task.Path, fmt.Sprintf("analysis timed out after %s", timeout))
	}
}
