// Package analysis implements the staged case-analysis pipeline: context
// assembly, bounded specialist fan-out, strategy and prognosis synthesis, and
// result compilation, driven by the orchestrator.
package analysis

import (
	"errors"
	"fmt"

	"github.com/caseflow-ai/caseflow/constants"
)

// Fatal stage errors. Each aborts the whole job and is surfaced verbatim as
// the job's error message.
var (
	ErrEmptyPrimaryText     = errors.New("EmptyPrimaryText: primary document text is empty")
	ErrAllSpecialistsFailed = errors.New("AllSpecialistsFailed: no specialist produced an opinion")
	ErrStrategyFailed       = errors.New("StrategyGenerationFailed: no valid strategy payload")
	ErrPrognosisFailed      = errors.New("PrognosisGenerationFailed: no valid prognosis payload")
)

// StageError carries enough context to diagnose a stage failure without
// re-running: the stage name and, where applicable, the offending raw payload.
type StageError struct {
	Stage constants.Stage
	Err   error
	Raw   string // offending raw payload, may be empty
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %q: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func newStageError(stage constants.Stage, err error, raw string) *StageError {
	return &StageError{Stage: stage, Err: err, Raw: raw}
}
