package async

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow-ai/caseflow/internal/entity"
)

type recordingRunner struct {
	mu    sync.Mutex
	seen  []uuid.UUID
	block chan struct{} // when non-nil, Run waits until closed
}

func (r *recordingRunner) Run(ctx context.Context, jobID uuid.UUID, _ *entity.Case) error {
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	r.seen = append(r.seen, jobID)
	r.mu.Unlock()
	return nil
}

func (r *recordingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

func TestQueue_ProcessesJobs(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{}
	q := NewQueue(runner, nil, WithWorkers(2), WithQueueSize(8))

	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = uuid.New()
		err := q.Enqueue(context.Background(), Job{
			JobID:       ids[i],
			Case:        &entity.Case{ID: uuid.New()},
			SubmittedAt: time.Now(),
		})
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	assert.Equal(t, len(ids), runner.count())
}

func TestQueue_ShutdownDrainsInFlight(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	runner := &recordingRunner{block: gate}
	q := NewQueue(runner, nil, WithWorkers(1), WithQueueSize(4))

	require.NoError(t, q.Enqueue(context.Background(), Job{JobID: uuid.New(), SubmittedAt: time.Now()}))
	require.NoError(t, q.Enqueue(context.Background(), Job{JobID: uuid.New(), SubmittedAt: time.Now()}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		q.Shutdown(ctx)
	}()

	// Shutdown must wait for jobs still behind the gate.
	select {
	case <-done:
		t.Fatal("shutdown returned before workers drained")
	case <-time.After(30 * time.Millisecond):
	}

	close(gate)
	<-done
	assert.Equal(t, 2, runner.count())
}

func TestQueue_EnqueueAfterShutdown(t *testing.T) {
	t.Parallel()

	q := NewQueue(&recordingRunner{}, nil, WithWorkers(1))
	q.Shutdown(context.Background())

	err := q.Enqueue(context.Background(), Job{JobID: uuid.New()})
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueue_JobTimeoutCancelsRun(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{block: make(chan struct{})} // never opened
	q := NewQueue(runner, nil, WithWorkers(1), WithJobTimeout(20*time.Millisecond))

	require.NoError(t, q.Enqueue(context.Background(), Job{JobID: uuid.New(), SubmittedAt: time.Now()}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	q.Shutdown(ctx) // returns because the per-job context expires

	assert.Equal(t, 0, runner.count())
}
