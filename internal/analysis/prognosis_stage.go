package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/caseflow-ai/caseflow/constants"
	"github.com/caseflow-ai/caseflow/internal/entity"
	"github.com/caseflow-ai/caseflow/internal/llm"
)

// PrognosisStage is the single sequential call producing a validated
// probability distribution over outcome scenarios.
type PrognosisStage struct {
	Invoker llm.Invoker
	Logger  *slog.Logger
	Timeout time.Duration
}

func NewPrognosisStage(inv llm.Invoker, logger *slog.Logger, timeout time.Duration) *PrognosisStage {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &PrognosisStage{Invoker: inv, Logger: logger, Timeout: timeout}
}

// Run consumes context, outcomes and the strategy narrative. A payload whose
// scenario probabilities do not sum to 100 within tolerance is treated
// exactly like a malformed response: the fragment fallback gets a chance
// before the stage is declared failed.
func (s *PrognosisStage) Run(ctx context.Context, cc entity.CaseContext, outcomes entity.OutcomeMap, strat entity.Strategy) (entity.Prognosis, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	schema := llm.BuildPrognosisJSONSchema()

	s.Logger.Info("analysis.prognosis.start", "opinions", len(outcomes.Opinions()))

	resp, err := s.Invoker.Invoke(callCtx, llm.Request{
		System:    llm.PrognosisSystemPrompt(),
		Prompt:    llm.PrognosisUserPrompt(cc, outcomes.Opinions(), strat.Narrative) + "\n\nJSON Schema:\n" + llm.MustJSON(schema),
		ForceJSON: true,
	})
	if err != nil {
		return entity.Prognosis{}, newStageError(constants.StagePrognosis,
			fmt.Errorf("%w: %v", ErrPrognosisFailed, err), "")
	}

	prog, perr := s.parseAndCheck(llm.ParseStrict(schema, resp.Text))
	if perr != nil {
		s.Logger.Warn("analysis.prognosis.strict_attempt_failed", "error", perr)
		prog, perr = s.parseAndCheck(llm.ParseFragment(schema, resp.Text))
	}
	if perr != nil {
		s.Logger.Error("analysis.prognosis.parse_failed", "error", perr)
		return entity.Prognosis{}, newStageError(constants.StagePrognosis, ErrPrognosisFailed, resp.Text)
	}

	s.Logger.Info("analysis.prognosis.ok", "scenarios", len(prog.Scenarios), "most_likely", prog.MostLikely)
	return prog, nil
}

// parseAndCheck promotes one parse attempt into a Prognosis, enforcing the
// probability-sum invariant before acceptance.
func (s *PrognosisStage) parseAndCheck(res llm.ParseResult) (entity.Prognosis, error) {
	if !res.Parsed() {
		return entity.Prognosis{}, res.Err
	}
	var prog entity.Prognosis
	if err := json.Unmarshal(res.Doc, &prog); err != nil {
		return entity.Prognosis{}, fmt.Errorf("unmarshal prognosis: %w", err)
	}
	if err := CheckProbabilitySum(prog.Scenarios); err != nil {
		return entity.Prognosis{}, err
	}
	return prog, nil
}

// CheckProbabilitySum enforces that scenario probabilities sum to 100 within
// constants.ProbabilitySumTolerance.
func CheckProbabilitySum(scenarios []entity.Scenario) error {
	sum := 0.0
	for _, sc := range scenarios {
		sum += sc.Probability
	}
	if math.Abs(sum-100.0) > constants.ProbabilitySumTolerance {
		return fmt.Errorf("scenario probabilities sum to %.2f, want 100±%.1f",
			sum, constants.ProbabilitySumTolerance)
	}
	return nil
}
