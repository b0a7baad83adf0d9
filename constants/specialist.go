package constants

import (
	"strings"
)

// Specialist identifies one independently invokable analysis unit backed by
// the language-model service. Each selected specialist gets exactly one call
// per analysis run.
type Specialist string

const (
	MeritsAssessment   Specialist = "MeritsAssessment"
	EvidenceReview     Specialist = "EvidenceReview"
	ProceduralPosture  Specialist = "ProceduralPosture"
	DamagesEstimation  Specialist = "DamagesEstimation"
	OpposingArguments  Specialist = "OpposingArguments"
	SettlementLeverage Specialist = "SettlementLeverage"
)

var allSpecialists = []Specialist{
	MeritsAssessment,
	EvidenceReview,
	ProceduralPosture,
	DamagesEstimation,
	OpposingArguments,
	SettlementLeverage,
}

// AllSpecialists returns the full registry in declaration order.
func AllSpecialists() []Specialist {
	out := make([]Specialist, len(allSpecialists))
	copy(out, allSpecialists)
	return out
}

// SpecialistsAsStrings returns the registry as plain strings for prompts.
func SpecialistsAsStrings() []string {
	result := make([]string, len(allSpecialists))
	for i, s := range allSpecialists {
		result[i] = string(s)
	}
	return result
}

// CanonicalizeSpecialist maps free-form client input onto the registry.
// Returns false when the label is unknown.
func CanonicalizeSpecialist(input string) (Specialist, bool) {
	if input == "" {
		return "", false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	synonyms := map[string]Specialist{
		"merits":     MeritsAssessment,
		"liability":  MeritsAssessment,
		"evidence":   EvidenceReview,
		"proof":      EvidenceReview,
		"procedure":  ProceduralPosture,
		"procedural": ProceduralPosture,
		"damages":    DamagesEstimation,
		"quantum":    DamagesEstimation,
		"opposing":   OpposingArguments,
		"counter":    OpposingArguments,
		"settlement": SettlementLeverage,
	}
	if s, ok := synonyms[normalized]; ok {
		return s, true
	}
	for _, s := range allSpecialists {
		if strings.ToLower(string(s)) == normalized {
			return s, true
		}
	}
	return "", false
}
