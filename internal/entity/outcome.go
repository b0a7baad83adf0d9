package entity

import "github.com/caseflow-ai/caseflow/constants"

// SpecialistOutcome is the tagged result of one specialist task: either an
// Opinion or a Failure, never both. Partial outcome maps (some failures) are
// valid and flow downstream unchanged.
type SpecialistOutcome struct {
	Opinion *Opinion `json:"opinion,omitempty"`
	Failure *Failure `json:"failure,omitempty"`
}

// Opinion is a specialist's successful output.
type Opinion struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0..1
}

// Failure records why a specialist task produced no opinion.
type Failure struct {
	Reason string `json:"reason"`
}

// OK reports whether the outcome carries an opinion.
func (o SpecialistOutcome) OK() bool {
	return o.Opinion != nil
}

// OutcomeMap maps specialist id to its outcome. Iteration order carries no
// meaning; downstream stages treat it as a set of (id, outcome) pairs.
type OutcomeMap map[constants.Specialist]SpecialistOutcome

// Opinions extracts the successful outcomes as id -> text.
func (m OutcomeMap) Opinions() map[constants.Specialist]Opinion {
	out := make(map[constants.Specialist]Opinion)
	for id, oc := range m {
		if oc.Opinion != nil {
			out[id] = *oc.Opinion
		}
	}
	return out
}

// FailureCount counts outcomes without an opinion.
func (m OutcomeMap) FailureCount() int {
	n := 0
	for _, oc := range m {
		if oc.Opinion == nil {
			n++
		}
	}
	return n
}
