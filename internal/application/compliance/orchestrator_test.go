package compliance

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/speccheck/internal/domain/compliance"
)

func okResult(path string) domain.FileResult {
	return domain.FileResult{Path: path, Status: domain.StatusFullMatch, Confidence: 100, Findings: []domain.Finding{}}
}

func TestRunAllEmptyInput(t *testing.T) {
	o := Orchestrator{}
	_, err := o.RunAll(context.Background(), nil, func(context.Context, int, Task) domain.FileResult {
		t.Fatal("task fn must not run")
		return domain.FileResult{}
	})
	assert.True(t, errors.Is(err, domain.ErrEmptyInput))
}

func TestRunAllPreservesOrderUnderSkew(t *testing.T) {
	tasks := []Task{
		{Path: "slow-0.go"}, {Path: "fast-1.go"}, {Path: "slow-2.go"}, {Path: "fast-3.go"},
	}
	o := Orchestrator{Workers: 2, TaskTimeout: time.Second}

	results, err := o.RunAll(context.Background(), tasks, func(_ context.Context, i int, task Task) domain.FileResult {
		// Even slots finish last; completion order differs from input order.
		if i%2 == 0 {
			time.Sleep(50 * time.Millisecond)
		}
		return okResult(task.Path)
	})
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, task := range tasks {
		assert.Equal(t, task.Path, results[i].Path)
	}
}

func TestRunAllBoundsConcurrency(t *testing.T) {
	var current, peak int64
	tasks := make([]Task, 8)
	for i := range tasks {
		tasks[i] = Task{Path: fmt.Sprintf("f%d.go", i)}
	}

	o := Orchestrator{Workers: 2, TaskTimeout: time.Second}
	_, err := o.RunAll(context.Background(), tasks, func(_ context.Context, _ int, task Task) domain.FileResult {
		n := atomic.AddInt64(&current, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&current, -1)
		return okResult(task.Path)
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2))
}

func TestRunAllIsolatesFailures(t *testing.T) {
	tasks := []Task{{Path: "good.go"}, {Path: "bad.go"}, {Path: "also-good.go"}}
	o := Orchestrator{Workers: 4, TaskTimeout: time.Second}

	results, err := o.RunAll(context.Background(), tasks, func(_ context.Context, _ int, task Task) domain.FileResult {
		if task.Path == "bad.go" {
			return domain.ErrorResult(task.Path, "fetch exploded")
		}
		return okResult(task.Path)
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFullMatch, results[0].Status)
	assert.Equal(t, domain.StatusError, results[1].Status)
	assert.Equal(t, domain.StatusFullMatch, results[2].Status)
}

func TestRunAllTaskTimeoutBecomesErrorResult(t *testing.T) {
	tasks := []Task{{Path: "hung.go"}, {Path: "fine.go"}}
	o := Orchestrator{Workers: 2, TaskTimeout: 30 * time.Millisecond}

	results, err := o.RunAll(context.Background(), tasks, func(ctx context.Context, _ int, task Task) domain.FileResult {
		if task.Path == "hung.go" {
			<-ctx.Done()
			time.Sleep(10 * time.Millisecond) // straggler past its deadline
			return okResult(task.Path)
		}
		return okResult(task.Path)
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusError, results[0].Status)
	assert.Contains(t, results[0].Diagnostic, "timed out")
	assert.Equal(t, domain.StatusFullMatch, results[1].Status)
}

func TestRunAllRecoversPanics(t *testing.T) {
	tasks := []Task{{Path: "panics.go"}, {Path: "fine.go"}}
	o := Orchestrator{Workers: 2, TaskTimeout: time.Second}

	results, err := o.RunAll(context.Background(), tasks, func(_ context.Context, _ int, task Task) domain.FileResult {
		if task.Path == "panics.go" {
			panic("nil map write")
		}
		return okResult(task.Path)
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusError, results[0].Status)
	assert.Contains(t, results[0].Diagnostic, "nil map write")
	assert.Equal(t, domain.StatusFullMatch, results[1].Status)
}

func TestRunAllBackfillsEmptyPath(t *testing.T) {
	tasks := []Task{{Path: "a.go"}}
	o := Orchestrator{Workers: 1, TaskTimeout: time.Second}

	results, err := o.RunAll(context.Background(), tasks, func(context.Context, int, Task) domain.FileResult {
		return domain.FileResult{Status: domain.StatusFullMatch, Confidence: 100, Findings: []domain.Finding{}}
	})
	require.NoError(t, err)
	assert.Equal(t, "a.go", results[0].Path)
}
