package llm

import (
	"github.com/caseflow-ai/caseflow/constants"
)

// BuildStrategyJSONSchema returns the JSON-Schema (draft 2020-12 subset) for
// the strategy payload. Passed to the provider as a structured-output hint
// and used locally to validate the response.
func BuildStrategyJSONSchema() map[string]any {
	step := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"order":              map[string]any{"type": "integer", "minimum": 1},
			"action":             map[string]any{"type": "string", "minLength": 1},
			"deadline":           map[string]any{"type": "string"},
			"required_documents": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"order", "action"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"steps":             map[string]any{"type": "array", "minItems": 1, "items": step},
			"narrative":         map[string]any{"type": "string", "minLength": 1},
			"alternative_paths": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"steps", "narrative"},
	}
}

// BuildPrognosisJSONSchema returns the JSON-Schema for the prognosis payload.
// The probability-sum invariant is numeric, not structural, and is checked
// separately after validation.
func BuildPrognosisJSONSchema() map[string]any {
	scenario := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"kind":                map[string]any{"type": "string", "enum": constants.ScenarioKindsAsStrings()},
			"probability":         map[string]any{"type": "number", "minimum": 0.0, "maximum": 100.0},
			"estimated_value_eur": map[string]any{"type": "number"},
			"estimated_months":    map[string]any{"type": "number", "minimum": 0.0},
			"summary":             map[string]any{"type": "string"},
		},
		"required": []string{"kind", "probability"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"scenarios":      map[string]any{"type": "array", "minItems": 1, "items": scenario},
			"most_likely":    map[string]any{"type": "string", "enum": constants.ScenarioKindsAsStrings()},
			"recommendation": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"scenarios", "most_likely", "recommendation"},
	}
}

// BuildOpinionJSONSchema returns the JSON-Schema for a single specialist
// opinion payload.
func BuildOpinionJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"text":       map[string]any{"type": "string", "minLength": 1},
			"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		},
		"required": []string{"text"},
	}
}
