package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/caseflow-ai/caseflow/internal/common"
	"github.com/caseflow-ai/caseflow/internal/registry"
)

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code string, err error) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = err.Error()
	s.writeJSON(w, status, body)
}

// writeMappedError translates service-layer errors into HTTP statuses.
func (s *Server) writeMappedError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound), errors.Is(err, registry.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "NOT_FOUND", err)
	case errors.Is(err, common.ErrInvalidInput):
		s.writeError(w, http.StatusBadRequest, "INVALID_INPUT", err)
	case errors.Is(err, common.ErrValidation):
		s.writeError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", err)
	case errors.Is(err, registry.ErrTerminal):
		s.writeError(w, http.StatusConflict, "TERMINAL", err)
	default:
		s.logger.Error("internal error", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "INTERNAL", err)
	}
}

// decodeJSON parses the request body, writing a 400 on failure.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "BAD_JSON", err)
		return false
	}
	return true
}
