package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/caseflow-ai/caseflow/constants"
	"github.com/caseflow-ai/caseflow/internal/entity"
	"github.com/caseflow-ai/caseflow/internal/llm"
)

// StrategyStage is the single sequential call that compiles the specialist
// outcome map into an ordered action plan.
type StrategyStage struct {
	Invoker llm.Invoker
	Logger  *slog.Logger
	Timeout time.Duration
}

func NewStrategyStage(inv llm.Invoker, logger *slog.Logger, timeout time.Duration) *StrategyStage {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &StrategyStage{Invoker: inv, Logger: logger, Timeout: timeout}
}

// Run prompts with the successful opinions (failures omitted but counted) and
// parses the response with the strict/fragment two-attempt policy.
func (s *StrategyStage) Run(ctx context.Context, cc entity.CaseContext, outcomes entity.OutcomeMap) (entity.Strategy, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	opinions := outcomes.Opinions()
	schema := llm.BuildStrategyJSONSchema()

	s.Logger.Info("analysis.strategy.start", "opinions", len(opinions), "failed_specialists", outcomes.FailureCount())

	resp, err := s.Invoker.Invoke(callCtx, llm.Request{
		System:    llm.StrategySystemPrompt(),
		Prompt:    llm.StrategyUserPrompt(cc, opinions, outcomes.FailureCount()) + "\n\nJSON Schema:\n" + llm.MustJSON(schema),
		ForceJSON: true,
	})
	if err != nil {
		return entity.Strategy{}, newStageError(constants.StageStrategy,
			fmt.Errorf("%w: %v", ErrStrategyFailed, err), "")
	}

	res := llm.ParseStrict(schema, resp.Text)
	if !res.Parsed() {
		s.Logger.Warn("analysis.strategy.strict_parse_failed", "error", res.Err)
		res = llm.ParseFragment(schema, resp.Text)
	}
	if !res.Parsed() {
		s.Logger.Error("analysis.strategy.parse_failed", "error", res.Err)
		return entity.Strategy{}, newStageError(constants.StageStrategy, ErrStrategyFailed, res.Raw)
	}

	var strat entity.Strategy
	if err := json.Unmarshal(res.Doc, &strat); err != nil {
		return entity.Strategy{}, newStageError(constants.StageStrategy,
			fmt.Errorf("%w: unmarshal: %v", ErrStrategyFailed, err), string(res.Doc))
	}

	s.Logger.Info("analysis.strategy.ok", "steps", len(strat.Steps), "alternatives", len(strat.AlternativePaths))
	return strat, nil
}
