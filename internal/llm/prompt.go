package llm

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/caseflow-ai/caseflow/constants"
	"github.com/caseflow-ai/caseflow/internal/entity"
)

// maxContextChars caps how much case text goes into a single prompt.
const maxContextChars = 6000

var specialistRoles = map[constants.Specialist]string{
	constants.MeritsAssessment:   "Assess the legal merits of the client's position: claims, defenses, and their likely strength.",
	constants.EvidenceReview:     "Review the evidentiary situation: what the documents prove, what is missing, and the burden of proof.",
	constants.ProceduralPosture:  "Assess the procedural posture: deadlines, jurisdiction, limitation periods, and required formal steps.",
	constants.DamagesEstimation:  "Estimate the realistic monetary range in dispute, including costs and interest.",
	constants.OpposingArguments:  "Construct the strongest arguments the opposing side will raise and how damaging each one is.",
	constants.SettlementLeverage: "Assess settlement leverage: bargaining position, pressure points, and a realistic settlement corridor.",
}

// SpecialistSystemPrompt frames one specialist call.
func SpecialistSystemPrompt(id constants.Specialist) string {
	role, ok := specialistRoles[id]
	if !ok {
		role = "Analyze the case from the perspective of " + string(id) + "."
	}
	parts := []string{
		"You are a senior legal analyst. " + role,
		"Base your analysis strictly on the provided case material; never invent facts.",
		"Return ONLY JSON that matches the JSON Schema provided.",
		"Set 'confidence' between 0 and 1 reflecting how well the material supports your conclusions.",
	}
	return strings.Join(parts, " ")
}

// SpecialistUserPrompt renders the shared case context for one specialist call.
func SpecialistUserPrompt(cc entity.CaseContext) string {
	var b strings.Builder
	b.WriteString("Case kind: ")
	b.WriteString(string(cc.Kind))
	b.WriteString("\n\nPrimary document:\n")
	b.WriteString(truncate(cc.PrimaryText, maxContextChars))
	for i, sup := range cc.SupplementaryTexts {
		b.WriteString(fmt.Sprintf("\n\nSupporting document %d:\n", i+1))
		b.WriteString(truncate(sup, maxContextChars/2))
	}
	return b.String()
}

// StrategySystemPrompt frames the strategy synthesis call.
func StrategySystemPrompt() string {
	parts := []string{
		"You are a litigation strategist compiling specialist analyses into one ordered action plan.",
		"Return ONLY JSON that matches the JSON Schema provided.",
		"Steps must be concrete and ordered; include deadlines and required documents where they matter.",
		"Mention alternative paths (settlement, mediation) under 'alternative_paths' when viable.",
	}
	return strings.Join(parts, " ")
}

// StrategyUserPrompt renders the surviving specialist opinions. Failed
// specialists are omitted but their count is stated for transparency.
func StrategyUserPrompt(cc entity.CaseContext, opinions map[constants.Specialist]entity.Opinion, failed int) string {
	var b strings.Builder
	b.WriteString("Case kind: ")
	b.WriteString(string(cc.Kind))
	b.WriteString("\n\nPrimary document (excerpt):\n")
	b.WriteString(truncate(cc.PrimaryText, maxContextChars/2))
	b.WriteString("\n\nSpecialist analyses:\n")
	writeOpinions(&b, opinions)
	if failed > 0 {
		b.WriteString(fmt.Sprintf("\nNote: %d specialist analyses failed and are not included.\n", failed))
	}
	return b.String()
}

// PrognosisSystemPrompt frames the probabilistic prognosis call.
func PrognosisSystemPrompt() string {
	parts := []string{
		"You are a legal risk assessor producing a probability distribution over case outcomes.",
		"Return ONLY JSON that matches the JSON Schema provided.",
		"Scenario kinds are limited to: " + strings.Join(constants.ScenarioKindsAsStrings(), ", ") + ".",
		"Probabilities are percentages and MUST sum to exactly 100 across all scenarios.",
		"Estimate monetary values in EUR and durations in months.",
	}
	return strings.Join(parts, " ")
}

// PrognosisUserPrompt renders opinions plus the strategy narrative.
func PrognosisUserPrompt(cc entity.CaseContext, opinions map[constants.Specialist]entity.Opinion, strategyNarrative string) string {
	var b strings.Builder
	b.WriteString("Case kind: ")
	b.WriteString(string(cc.Kind))
	b.WriteString("\n\nSpecialist analyses:\n")
	writeOpinions(&b, opinions)
	if strategyNarrative != "" {
		b.WriteString("\nPlanned strategy:\n")
		b.WriteString(truncate(strategyNarrative, maxContextChars/2))
		b.WriteString("\n")
	}
	return b.String()
}

// ContinuationSystemPrompt frames the optional continuation-document draft.
func ContinuationSystemPrompt() string {
	parts := []string{
		"You are a legal drafter. Produce a structured outline for the next procedural document",
		"(e.g. a statement of claim or a formal demand letter) following the compiled strategy.",
		"Return plain text with numbered sections, no JSON.",
	}
	return strings.Join(parts, " ")
}

// ContinuationUserPrompt renders the compiled result for the drafting call.
func ContinuationUserPrompt(cc entity.CaseContext, result entity.AnalysisResult) string {
	var b strings.Builder
	b.WriteString("Case kind: ")
	b.WriteString(string(cc.Kind))
	b.WriteString("\n\nStrategy narrative:\n")
	b.WriteString(truncate(result.Strategy.Narrative, maxContextChars/2))
	b.WriteString("\n\nPlanned steps:\n")
	for _, step := range result.Strategy.Steps {
		b.WriteString(fmt.Sprintf("%d. %s\n", step.Order, step.Action))
	}
	b.WriteString("\nRecommendation: ")
	b.WriteString(result.Prognosis.Recommendation)
	return b.String()
}

func writeOpinions(b *strings.Builder, opinions map[constants.Specialist]entity.Opinion) {
	ids := make([]string, 0, len(opinions))
	for id := range opinions {
		ids = append(ids, string(id))
	}
	sort.Strings(ids) // stable prompt text across runs
	for _, id := range ids {
		op := opinions[constants.Specialist(id)]
		b.WriteString("\n### ")
		b.WriteString(id)
		b.WriteString(fmt.Sprintf(" (confidence %.2f)\n", op.Confidence))
		b.WriteString(truncate(op.Text, maxContextChars/2))
		b.WriteString("\n")
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// MustJSON renders a schema map for embedding into a prompt.
func MustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
