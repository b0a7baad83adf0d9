package analysis

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/caseflow-ai/caseflow/constants"
	"github.com/caseflow-ai/caseflow/internal/entity"
	"github.com/caseflow-ai/caseflow/internal/registry"
)

// Orchestrator drives the pipeline stages for one job, writing stage label
// and progress into the job record store after every transition so that a
// concurrent poller observes strictly non-decreasing progress. It is the only
// writer of a job record.
type Orchestrator struct {
	Registry    registry.Store
	Assembler   *ContextAssembler
	Specialists *SpecialistRunner
	Strategy    *StrategyStage
	Prognosis   *PrognosisStage
	Compiler    *ResultCompiler
	Logger      *slog.Logger
}

func NewOrchestrator(
	store registry.Store,
	assembler *ContextAssembler,
	specialists *SpecialistRunner,
	strategy *StrategyStage,
	prognosis *PrognosisStage,
	compiler *ResultCompiler,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		Registry:    store,
		Assembler:   assembler,
		Specialists: specialists,
		Strategy:    strategy,
		Prognosis:   prognosis,
		Compiler:    compiler,
		Logger:      logger,
	}
}

// Run executes the full pipeline for a registered job. The case is read-only
// from here on. No stage is retried by the orchestrator itself; any retry
// lives inside a stage's own parse-fallback logic.
func (o *Orchestrator) Run(ctx context.Context, jobID uuid.UUID, c *entity.Case) error {
	o.Logger.Info("analysis.run.start", "job_id", jobID, "case_id", c.ID, "specialists", len(c.Specialists))

	o.advance(jobID, constants.StageContext, constants.ProgressQueued)

	cc, err := o.Assembler.Assemble(ctx, c)
	if err != nil {
		return o.fail(jobID, err)
	}
	o.advance(jobID, constants.StageSpecialists, constants.ProgressContext)

	outcomes, err := o.Specialists.Run(ctx, c.Specialists, cc)
	if err != nil {
		return o.fail(jobID, err)
	}
	o.advance(jobID, constants.StageStrategy, constants.ProgressSpecialists)

	strat, err := o.Strategy.Run(ctx, cc, outcomes)
	if err != nil {
		return o.fail(jobID, err)
	}
	o.advance(jobID, constants.StagePrognosis, constants.ProgressStrategy)

	prog, err := o.Prognosis.Run(ctx, cc, outcomes, strat)
	if err != nil {
		return o.fail(jobID, err)
	}
	o.advance(jobID, constants.StageCompile, constants.ProgressPrognosis)

	result := o.Compiler.Compile(ctx, cc, outcomes, strat, prog)

	_, err = o.Registry.Update(jobID, func(j *entity.Job) {
		j.Status = constants.JobStatusSucceeded
		j.Stage = constants.StageDone
		j.Progress = constants.ProgressDone
		j.Result = &result
	})
	if err != nil {
		o.Logger.Error("analysis.run.finalize_failed", "job_id", jobID, "error", err)
		return err
	}

	o.Logger.Info("analysis.run.ok", "job_id", jobID)
	return nil
}

// advance marks the job RUNNING at the given stage with the completed lower
// bound of that stage's progress window.
func (o *Orchestrator) advance(jobID uuid.UUID, stage constants.Stage, progress int) {
	_, err := o.Registry.Update(jobID, func(j *entity.Job) {
		j.Status = constants.JobStatusRunning
		j.Stage = stage
		j.Progress = progress
	})
	if err != nil {
		o.Logger.Error("analysis.run.advance_failed", "job_id", jobID, "stage", stage, "error", err)
	}
}

// fail transitions the job to FAILED with the stage's error captured
// verbatim. The pre-failure progress value is preserved by the registry.
func (o *Orchestrator) fail(jobID uuid.UUID, cause error) error {
	msg := cause.Error()
	_, err := o.Registry.Update(jobID, func(j *entity.Job) {
		j.Status = constants.JobStatusFailed
		j.ErrorMessage = &msg
	})
	if err != nil && !errors.Is(err, registry.ErrTerminal) {
		o.Logger.Error("analysis.run.fail_update_failed", "job_id", jobID, "error", err)
	}

	var se *StageError
	if errors.As(cause, &se) && se.Raw != "" {
		o.Logger.Error("analysis.run.failed", "job_id", jobID, "stage", se.Stage, "error", se.Err, "raw_payload", se.Raw)
	} else {
		o.Logger.Error("analysis.run.failed", "job_id", jobID, "error", cause)
	}
	return cause
}
