// Package registry is the in-memory job record store: race-free
// create/read/update/remove for arbitrarily many concurrent pollers and
// exactly one logical writer per job.
package registry

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caseflow-ai/caseflow/constants"
	"github.com/caseflow-ai/caseflow/internal/entity"
)

var (
	ErrDuplicateID = errors.New("job id already exists")
	ErrNotFound    = errors.New("job not found")
	ErrTerminal    = errors.New("job is in a terminal state")
)

// Store is the job record store abstraction. The rest of the orchestrator
// stays ignorant of the locking discipline behind it.
type Store interface {
	Create(id, caseID uuid.UUID, stage constants.Stage) (*entity.Job, error)
	Get(id uuid.UUID) (*entity.Job, error)
	Update(id uuid.UUID, mutate func(*entity.Job)) (*entity.Job, error)
	Remove(id uuid.UUID)
	List() []*entity.Job
}

type memoryStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*entity.Job
	log  *slog.Logger
	now  func() time.Time
}

// NewMemoryStore returns a process-lifetime Store backed by a locked map.
func NewMemoryStore(log *slog.Logger) Store {
	if log == nil {
		log = slog.Default()
	}
	return &memoryStore{
		jobs: make(map[uuid.UUID]*entity.Job),
		log:  log,
		now:  time.Now,
	}
}

func (s *memoryStore) Create(id, caseID uuid.UUID, stage constants.Stage) (*entity.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return nil, ErrDuplicateID
	}
	now := s.now().UTC()
	job := &entity.Job{
		ID:        id,
		CaseID:    caseID,
		Status:    constants.JobStatusCreated,
		Stage:     stage,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[id] = job
	s.log.Info("registry.job.created", "job_id", id, "case_id", caseID)
	return job.Clone(), nil
}

func (s *memoryStore) Get(id uuid.UUID) (*entity.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return job.Clone(), nil
}

// Update atomically applies the mutation under the store lock. Terminal jobs
// reject all mutation. Progress is clamped so a stale writer carrying an
// earlier stage can never roll a record backwards: when a mutation would
// lower the progress value, its progress and stage fields are discarded and
// the later ones kept.
func (s *memoryStore) Update(id uuid.UUID, mutate func(*entity.Job)) (*entity.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if job.Status.Terminal() {
		return nil, ErrTerminal
	}

	prevProgress := job.Progress
	prevStage := job.Stage

	mutate(job)

	if job.Progress < prevProgress {
		job.Progress = prevProgress
		job.Stage = prevStage
	}
	if job.Progress > 100 {
		job.Progress = 100
	}
	job.UpdatedAt = s.now().UTC()

	return job.Clone(), nil
}

func (s *memoryStore) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
}

func (s *memoryStore) List() []*entity.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, job.Clone())
	}
	return out
}
