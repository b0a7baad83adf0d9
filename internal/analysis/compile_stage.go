package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/caseflow-ai/caseflow/internal/entity"
	"github.com/caseflow-ai/caseflow/internal/llm"
)

// ResultCompiler assembles the final aggregate record and, when enabled,
// drafts the optional continuation document.
type ResultCompiler struct {
	Invoker           llm.Invoker
	Logger            *slog.Logger
	DraftContinuation bool
	Timeout           time.Duration
}

func NewResultCompiler(inv llm.Invoker, logger *slog.Logger, draftContinuation bool, timeout time.Duration) *ResultCompiler {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &ResultCompiler{
		Invoker:           inv,
		Logger:            logger,
		DraftContinuation: draftContinuation,
		Timeout:           timeout,
	}
}

// Compile builds the immutable AnalysisResult. The continuation draft is a
// tolerated extra: its failure only costs the document, never the job.
func (c *ResultCompiler) Compile(ctx context.Context, cc entity.CaseContext, outcomes entity.OutcomeMap, strat entity.Strategy, prog entity.Prognosis) entity.AnalysisResult {
	result := entity.AnalysisResult{
		Strategy:  strat,
		Prognosis: prog,
		Outcomes:  outcomes,
	}

	if c.DraftContinuation && c.Invoker != nil {
		callCtx, cancel := context.WithTimeout(ctx, c.Timeout)
		defer cancel()

		resp, err := c.Invoker.Invoke(callCtx, llm.Request{
			System: llm.ContinuationSystemPrompt(),
			Prompt: llm.ContinuationUserPrompt(cc, result),
		})
		if err != nil {
			c.Logger.Warn("analysis.compile.continuation_failed", "error", err)
		} else {
			result.ContinuationDocument = resp.Text
			c.Logger.Info("analysis.compile.continuation_ok", "bytes", len(resp.Text))
		}
	}

	c.Logger.Info("analysis.compile.ok",
		"opinions", len(outcomes.Opinions()),
		"scenarios", len(prog.Scenarios),
		"has_continuation", result.ContinuationDocument != "",
	)
	return result
}
