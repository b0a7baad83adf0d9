package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/caseflow-ai/caseflow/constants"
	"github.com/caseflow-ai/caseflow/internal/entity"
	"github.com/caseflow-ai/caseflow/internal/llm"
)

// SpecialistRunner executes every selected specialist's single external call
// concurrently, bounded by MaxParallel, and collects a complete outcome map
// even when some calls fail.
type SpecialistRunner struct {
	Invoker     llm.Invoker
	Logger      *slog.Logger
	MaxParallel int64
	TaskTimeout time.Duration
}

func NewSpecialistRunner(inv llm.Invoker, logger *slog.Logger, maxParallel int, taskTimeout time.Duration) *SpecialistRunner {
	if logger == nil {
		logger = slog.Default()
	}
	if maxParallel <= 0 {
		maxParallel = 5
	}
	if taskTimeout <= 0 {
		taskTimeout = 90 * time.Second
	}
	return &SpecialistRunner{
		Invoker:     inv,
		Logger:      logger,
		MaxParallel: int64(maxParallel),
		TaskTimeout: taskTimeout,
	}
}

// Run fans out one task per specialist and fans the results back in. A single
// task failure (timeout, upstream error, malformed payload) is captured as a
// Failure for that id and never cancels siblings. The stage fails only when
// every task failed.
func (r *SpecialistRunner) Run(ctx context.Context, ids []constants.Specialist, cc entity.CaseContext) (entity.OutcomeMap, error) {
	if len(ids) == 0 {
		return nil, newStageError(constants.StageSpecialists, fmt.Errorf("no specialists selected"), "")
	}

	start := time.Now()
	r.Logger.Info("analysis.specialists.start", "count", len(ids), "max_parallel", r.MaxParallel)

	sem := semaphore.NewWeighted(r.MaxParallel)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes = make(entity.OutcomeMap, len(ids))
	)

	for _, id := range ids {
		wg.Add(1)
		go func(id constants.Specialist) {
			defer wg.Done()

			// Acquire against the parent ctx so queued tasks drain on cancel.
			if err := sem.Acquire(ctx, 1); err != nil {
				mu.Lock()
				outcomes[id] = failure(fmt.Sprintf("not scheduled: %v", err))
				mu.Unlock()
				return
			}
			defer sem.Release(1)

			outcome := r.runOne(ctx, id, cc)
			mu.Lock()
			outcomes[id] = outcome
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	ok := len(ids) - outcomes.FailureCount()
	r.Logger.Info("analysis.specialists.done",
		"ok", ok,
		"failed", outcomes.FailureCount(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if ok == 0 {
		return outcomes, newStageError(constants.StageSpecialists, ErrAllSpecialistsFailed, "")
	}
	return outcomes, nil
}

// runOne performs a single specialist call with its own timeout and parses
// the response into an Opinion using the strict/fragment two-attempt policy.
func (r *SpecialistRunner) runOne(ctx context.Context, id constants.Specialist, cc entity.CaseContext) entity.SpecialistOutcome {
	callCtx, cancel := context.WithTimeout(ctx, r.TaskTimeout)
	defer cancel()

	schema := llm.BuildOpinionJSONSchema()
	resp, err := r.Invoker.Invoke(callCtx, llm.Request{
		System:    llm.SpecialistSystemPrompt(id),
		Prompt:    llm.SpecialistUserPrompt(cc) + "\n\nJSON Schema:\n" + llm.MustJSON(schema),
		ForceJSON: true,
	})
	if err != nil {
		r.Logger.Warn("analysis.specialists.task_failed", "specialist", id, "error", err)
		return failure(err.Error())
	}

	res := llm.ParseStrict(schema, resp.Text)
	if !res.Parsed() {
		res = llm.ParseFragment(schema, resp.Text)
	}
	if !res.Parsed() {
		r.Logger.Warn("analysis.specialists.task_malformed", "specialist", id, "error", res.Err)
		return failure(fmt.Sprintf("malformed opinion payload: %v", res.Err))
	}

	var op entity.Opinion
	if err := json.Unmarshal(res.Doc, &op); err != nil {
		return failure(fmt.Sprintf("unmarshal opinion: %v", err))
	}
	r.Logger.Info("analysis.specialists.task_ok", "specialist", id, "confidence", op.Confidence)
	return entity.SpecialistOutcome{Opinion: &op}
}

func failure(reason string) entity.SpecialistOutcome {
	return entity.SpecialistOutcome{Failure: &entity.Failure{Reason: reason}}
}
