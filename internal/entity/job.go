package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/caseflow-ai/caseflow/constants"
)

// Job tracks one asynchronous analysis run for data transfer between layers.
// Progress is monotonically non-decreasing while RUNNING; terminal states are
// final and accept no further mutation.
type Job struct {
	ID           uuid.UUID           `json:"id"`
	CaseID       uuid.UUID           `json:"case_id"`
	Status       constants.JobStatus `json:"status"`
	Stage        constants.Stage     `json:"stage"`
	Progress     int                 `json:"progress"`
	ErrorMessage *string             `json:"error_message,omitempty"`
	Result       *AnalysisResult     `json:"result,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// Clone returns a deep-enough copy for handing records to concurrent readers.
// The embedded result is immutable once compiled, so sharing the pointer is
// safe; the mutable scalar fields are copied by value.
func (j *Job) Clone() *Job {
	cp := *j
	if j.ErrorMessage != nil {
		msg := *j.ErrorMessage
		cp.ErrorMessage = &msg
	}
	return &cp
}
