package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/caseflow-ai/caseflow/constants"
)

type jobStatusResponse struct {
	ID           uuid.UUID           `json:"id"`
	Status       constants.JobStatus `json:"status"`
	Stage        constants.Stage     `json:"stage"`
	Progress     int                 `json:"progress"`
	ErrorMessage string              `json:"error_message,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// handleJobStatus never returns a result, only status and progress. Polling
// a FAILED job always includes a non-empty error message.
func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r)
	if !ok {
		return
	}
	job, err := s.jobs.Get(id)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}
	resp := jobStatusResponse{
		ID:        job.ID,
		Status:    job.Status,
		Stage:     job.Stage,
		Progress:  job.Progress,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
	if job.ErrorMessage != nil {
		resp.ErrorMessage = *job.ErrorMessage
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleJobResult returns 409 while the job is not finished and 410 when it
// failed; the error message travels on the 410 body.
func (s *Server) handleJobResult(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r)
	if !ok {
		return
	}
	job, err := s.jobs.Get(id)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}
	switch job.Status {
	case constants.JobStatusSucceeded:
		s.writeJSON(w, http.StatusOK, job.Result)
	case constants.JobStatusFailed:
		msg := "analysis failed"
		if job.ErrorMessage != nil {
			msg = *job.ErrorMessage
		}
		s.writeError(w, http.StatusGone, "JOB_FAILED", fmt.Errorf("%s", msg))
	default:
		s.writeError(w, http.StatusConflict, "NOT_READY",
			fmt.Errorf("job is %s at %d%%", job.Status, job.Progress))
	}
}

func (s *Server) handleJobExport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r)
	if !ok {
		return
	}
	data, err := s.export.ExportResultXLSX(id)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="analysis-%s.xlsx"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
