package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/caseflow-ai/caseflow/constants"
)

// Case aggregates the material under analysis. It is mutable during intake
// (supplementary documents may still arrive) and treated as read-only once an
// analysis job starts.
type Case struct {
	ID                  uuid.UUID              `json:"id"`
	Kind                constants.CaseKind     `json:"kind"`
	PrimaryDocumentID   uuid.UUID              `json:"primary_document_id"`
	SupplementaryIDs    []uuid.UUID            `json:"supplementary_ids,omitempty"`
	Specialists         []constants.Specialist `json:"specialists"`
	SuggestedDocuments  []string               `json:"suggested_documents,omitempty"`
	AnalysisStarted     bool                   `json:"analysis_started"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// CaseContext is the immutable, fully assembled input shared read-only by all
// specialist tasks. Constructed once by the context stage, never mutated.
type CaseContext struct {
	PrimaryText        string
	SupplementaryTexts []string
	Kind               constants.CaseKind
}
