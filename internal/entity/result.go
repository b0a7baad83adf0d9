package entity

import "github.com/caseflow-ai/caseflow/constants"

// StrategyStep is one ordered action of the recommended plan.
type StrategyStep struct {
	Order             int      `json:"order"`
	Action            string   `json:"action"`
	Deadline          string   `json:"deadline,omitempty"` // free-form, e.g. "within 3 weeks"
	RequiredDocuments []string `json:"required_documents,omitempty"`
}

// Strategy is the ordered action plan produced by the strategy stage.
type Strategy struct {
	Steps            []StrategyStep `json:"steps"`
	Narrative        string         `json:"narrative"`
	AlternativePaths []string       `json:"alternative_paths,omitempty"`
}

// Scenario is one probabilistic case outcome.
type Scenario struct {
	Kind              constants.ScenarioKind `json:"kind"`
	Probability       float64                `json:"probability"` // 0..100
	EstimatedValueEUR float64                `json:"estimated_value_eur"`
	EstimatedMonths   float64                `json:"estimated_months"`
	Summary           string                 `json:"summary,omitempty"`
}

// Prognosis is a validated probability distribution over outcome scenarios.
// The scenario probabilities sum to 100 within constants.ProbabilitySumTolerance.
type Prognosis struct {
	Scenarios      []Scenario             `json:"scenarios"`
	MostLikely     constants.ScenarioKind `json:"most_likely"`
	Recommendation string                 `json:"recommendation"`
}

// AnalysisResult is the aggregate output of one analysis run. Immutable once
// compiled; owned by the job that produced it.
type AnalysisResult struct {
	Strategy             Strategy   `json:"strategy"`
	Prognosis            Prognosis  `json:"prognosis"`
	Outcomes             OutcomeMap `json:"outcomes"`
	ContinuationDocument string     `json:"continuation_document,omitempty"`
}
