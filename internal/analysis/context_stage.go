package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caseflow-ai/caseflow/constants"
	"github.com/caseflow-ai/caseflow/internal/docstore"
	"github.com/caseflow-ai/caseflow/internal/entity"
)

// ContextAssembler produces the immutable case context shared by every
// downstream stage.
type ContextAssembler struct {
	Docs   docstore.TextSource
	Logger *slog.Logger
}

func NewContextAssembler(docs docstore.TextSource, logger *slog.Logger) *ContextAssembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContextAssembler{Docs: docs, Logger: logger}
}

// Assemble resolves every referenced document to text. A missing, empty or
// whitespace-only primary text fails the whole job before any external call
// is made. Missing or empty supplementary documents are logged and skipped.
func (a *ContextAssembler) Assemble(ctx context.Context, c *entity.Case) (entity.CaseContext, error) {
	primary, err := a.Docs.GetText(ctx, c.PrimaryDocumentID)
	if err != nil {
		return entity.CaseContext{}, newStageError(constants.StageContext,
			fmt.Errorf("primary document %s: %w", c.PrimaryDocumentID, err), "")
	}
	if strings.TrimSpace(primary) == "" {
		return entity.CaseContext{}, newStageError(constants.StageContext, ErrEmptyPrimaryText, "")
	}

	sups := make([]string, 0, len(c.SupplementaryIDs))
	for _, id := range c.SupplementaryIDs {
		text, err := a.Docs.GetText(ctx, id)
		if err != nil {
			a.Logger.Warn("analysis.context.supplementary_skipped", "doc_id", id, "error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			a.Logger.Warn("analysis.context.supplementary_empty", "doc_id", id)
			continue
		}
		sups = append(sups, text)
	}

	a.Logger.Info("analysis.context.ok",
		"case_id", c.ID,
		"primary_bytes", len(primary),
		"supplementary", len(sups),
		"skipped", len(c.SupplementaryIDs)-len(sups),
	)
	return entity.CaseContext{
		PrimaryText:        primary,
		SupplementaryTexts: sups,
		Kind:               c.Kind,
	}, nil
}
