package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/caseflow-ai/caseflow/constants"
	"github.com/caseflow-ai/caseflow/internal/async"
	"github.com/caseflow-ai/caseflow/internal/cases"
	"github.com/caseflow-ai/caseflow/internal/entity"
	"github.com/caseflow-ai/caseflow/internal/registry"
)

// Service is the entry point the API layer calls: it freezes the case,
// registers the job, and enqueues the run. StartJob returns immediately;
// progress is observed by polling the registry.
type Service struct {
	Cases    *cases.Service
	Registry registry.Store
	Queue    *async.Queue
	Logger   *slog.Logger
}

func NewService(cs *cases.Service, store registry.Store, queue *async.Queue, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Cases: cs, Registry: store, Queue: queue, Logger: logger}
}

// StartJob validates and freezes the case before any job exists, so bad input
// never produces a FAILED job record, only an immediate error.
func (s *Service) StartJob(ctx context.Context, caseID uuid.UUID) (uuid.UUID, error) {
	frozen, err := s.Cases.Freeze(ctx, caseID)
	if err != nil {
		return uuid.Nil, err
	}

	jobID := uuid.New()
	if _, err := s.Registry.Create(jobID, frozen.ID, constants.StageQueued); err != nil {
		return uuid.Nil, err
	}

	if err := s.Queue.Enqueue(ctx, async.Job{
		JobID:       jobID,
		Case:        frozen,
		SubmittedAt: time.Now().UTC(),
	}); err != nil {
		// The record exists but will never run; close it out.
		msg := err.Error()
		_, _ = s.Registry.Update(jobID, func(j *entity.Job) {
			j.Status = constants.JobStatusFailed
			j.ErrorMessage = &msg
		})
		return uuid.Nil, err
	}

	s.Logger.Info("analysis.job.submitted", "job_id", jobID, "case_id", caseID)
	return jobID, nil
}
