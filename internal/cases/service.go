// Package cases implements case intake: creating a case around a primary
// document, attaching supplementary documents while the case is open, and
// handing a frozen snapshot to the analysis pipeline.
package cases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caseflow-ai/caseflow/constants"
	"github.com/caseflow-ai/caseflow/internal/common"
	"github.com/caseflow-ai/caseflow/internal/entity"
)

// Service owns the in-memory case table. Cases are mutable until analysis
// starts, then read-only.
type Service struct {
	mu     sync.RWMutex
	cases  map[uuid.UUID]*entity.Case
	logger *slog.Logger
	now    func() time.Time
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cases:  make(map[uuid.UUID]*entity.Case),
		logger: logger,
		now:    time.Now,
	}
}

// Create registers a new case around a primary document.
func (s *Service) Create(_ context.Context, kind string, primaryDocID uuid.UUID) (*entity.Case, error) {
	if primaryDocID == uuid.Nil {
		return nil, common.NewAppError("CASE_INVALID", "primary document id is required", common.ErrInvalidInput)
	}

	caseKind := constants.CanonicalizeCaseKind(kind)
	now := s.now().UTC()
	c := &entity.Case{
		ID:                 uuid.New(),
		Kind:               caseKind,
		PrimaryDocumentID:  primaryDocID,
		Specialists:        constants.AllSpecialists(),
		SuggestedDocuments: constants.SuggestedDocuments(caseKind),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	s.mu.Lock()
	s.cases[c.ID] = c
	s.mu.Unlock()

	s.logger.Info("cases.created", "case_id", c.ID, "kind", c.Kind)
	return snapshot(c), nil
}

// Get returns a copy of the case.
func (s *Service) Get(_ context.Context, id uuid.UUID) (*entity.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[id]
	if !ok {
		return nil, common.NewAppError("CASE_NOT_FOUND", fmt.Sprintf("case %s", id), common.ErrNotFound)
	}
	return snapshot(c), nil
}

// AttachDocument adds a supplementary document to an open case.
func (s *Service) AttachDocument(_ context.Context, caseID, docID uuid.UUID) (*entity.Case, error) {
	if docID == uuid.Nil {
		return nil, common.NewAppError("CASE_INVALID", "document id is required", common.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[caseID]
	if !ok {
		return nil, common.NewAppError("CASE_NOT_FOUND", fmt.Sprintf("case %s", caseID), common.ErrNotFound)
	}
	if c.AnalysisStarted {
		return nil, common.NewAppError("CASE_FROZEN", "analysis already started; case is read-only", common.ErrValidation)
	}
	for _, existing := range c.SupplementaryIDs {
		if existing == docID {
			return snapshot(c), nil // idempotent attach
		}
	}
	c.SupplementaryIDs = append(c.SupplementaryIDs, docID)
	c.UpdatedAt = s.now().UTC()

	s.logger.Info("cases.document_attached", "case_id", caseID, "doc_id", docID, "supplementary", len(c.SupplementaryIDs))
	return snapshot(c), nil
}

// SelectSpecialists narrows the specialist set for an open case. Unknown
// labels are rejected; an empty selection restores the full registry.
func (s *Service) SelectSpecialists(_ context.Context, caseID uuid.UUID, labels []string) (*entity.Case, error) {
	selected := constants.AllSpecialists()
	if len(labels) > 0 {
		selected = selected[:0]
		seen := make(map[constants.Specialist]bool)
		for _, label := range labels {
			sp, ok := constants.CanonicalizeSpecialist(label)
			if !ok {
				return nil, common.NewAppError("CASE_INVALID",
					fmt.Sprintf("unknown specialist %q", label), common.ErrInvalidInput)
			}
			if !seen[sp] {
				seen[sp] = true
				selected = append(selected, sp)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[caseID]
	if !ok {
		return nil, common.NewAppError("CASE_NOT_FOUND", fmt.Sprintf("case %s", caseID), common.ErrNotFound)
	}
	if c.AnalysisStarted {
		return nil, common.NewAppError("CASE_FROZEN", "analysis already started; case is read-only", common.ErrValidation)
	}
	c.Specialists = selected
	c.UpdatedAt = s.now().UTC()
	return snapshot(c), nil
}

// Freeze marks the case as consumed by an analysis run and returns the
// read-only snapshot the pipeline will work from.
func (s *Service) Freeze(_ context.Context, caseID uuid.UUID) (*entity.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[caseID]
	if !ok {
		return nil, common.NewAppError("CASE_NOT_FOUND", fmt.Sprintf("case %s", caseID), common.ErrNotFound)
	}
	if len(c.Specialists) == 0 {
		return nil, common.NewAppError("CASE_INVALID", "no specialists selected", common.ErrValidation)
	}
	c.AnalysisStarted = true
	c.UpdatedAt = s.now().UTC()
	return snapshot(c), nil
}

// snapshot deep-copies the mutable slices so callers can never race intake
// mutations.
func snapshot(c *entity.Case) *entity.Case {
	cp := *c
	cp.SupplementaryIDs = append([]uuid.UUID(nil), c.SupplementaryIDs...)
	cp.Specialists = append([]constants.Specialist(nil), c.Specialists...)
	cp.SuggestedDocuments = append([]string(nil), c.SuggestedDocuments...)
	return &cp
}
