package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/caseflow-ai/caseflow/internal/common"
)

type putDocumentRequest struct {
	Text string `json:"text"`
}

type putDocumentResponse struct {
	DocumentID uuid.UUID `json:"document_id"`
}

// handlePutDocument accepts already-extracted document text. Upload, type
// validation and text extraction happen upstream; this core only stores text.
func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	var req putDocumentRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, http.StatusBadRequest, "EMPTY_TEXT",
			common.NewAppError("EMPTY_TEXT", "document text is required", common.ErrInvalidInput))
		return
	}
	id := uuid.New()
	if err := s.docs.PutText(r.Context(), id, req.Text); err != nil {
		s.writeMappedError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, putDocumentResponse{DocumentID: id})
}

type createCaseRequest struct {
	Kind              string    `json:"kind"`
	PrimaryDocumentID uuid.UUID `json:"primary_document_id"`
}

func (s *Server) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	var req createCaseRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	c, err := s.cases.Create(r.Context(), req.Kind, req.PrimaryDocumentID)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleGetCase(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r)
	if !ok {
		return
	}
	c, err := s.cases.Get(r.Context(), id)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

type attachDocumentRequest struct {
	DocumentID uuid.UUID `json:"document_id"`
}

func (s *Server) handleAttachDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r)
	if !ok {
		return
	}
	var req attachDocumentRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	c, err := s.cases.AttachDocument(r.Context(), id, req.DocumentID)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r)
	if !ok {
		return
	}
	c, err := s.cases.Get(r.Context(), id)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"case_id":             c.ID,
		"suggested_documents": c.SuggestedDocuments,
	})
}

type selectSpecialistsRequest struct {
	Specialists []string `json:"specialists"`
}

func (s *Server) handleSelectSpecialists(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r)
	if !ok {
		return
	}
	var req selectSpecialistsRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	c, err := s.cases.SelectSpecialists(r.Context(), id, req.Specialists)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

type analyzeResponse struct {
	JobID uuid.UUID `json:"job_id"`
}

// handleAnalyze submits the analysis job and returns immediately.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	id, ok := s.urlUUID(w, r)
	if !ok {
		return
	}
	jobID, err := s.analysis.StartJob(r.Context(), id)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, analyzeResponse{JobID: jobID})
}
