package constants

// ScenarioKind is the closed set of prognosis outcome classes.
type ScenarioKind string

const (
	ScenarioBestCase   ScenarioKind = "BEST_CASE"
	ScenarioLikely     ScenarioKind = "LIKELY"
	ScenarioWorstCase  ScenarioKind = "WORST_CASE"
	ScenarioSettlement ScenarioKind = "SETTLEMENT"
)

var allScenarioKinds = []ScenarioKind{
	ScenarioBestCase,
	ScenarioLikely,
	ScenarioWorstCase,
	ScenarioSettlement,
}

// ScenarioKindsAsStrings returns the closed set for schema enums and prompts.
func ScenarioKindsAsStrings() []string {
	result := make([]string, len(allScenarioKinds))
	for i, k := range allScenarioKinds {
		result[i] = string(k)
	}
	return result
}

// ValidScenarioKind reports whether the label belongs to the closed set.
func ValidScenarioKind(input string) bool {
	for _, k := range allScenarioKinds {
		if string(k) == input {
			return true
		}
	}
	return false
}

// ProbabilitySumTolerance is the accepted deviation of a prognosis'
// scenario probability sum from 100.
const ProbabilitySumTolerance = 0.1
