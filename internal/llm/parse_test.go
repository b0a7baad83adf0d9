package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"text":       map[string]any{"type": "string", "minLength": 1},
		"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
	},
	"required": []string{"text"},
}

func TestParseStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		wantOK   bool
	}{
		{"clean document", `{"text":"analysis","confidence":0.8}`, true},
		{"leading whitespace", "\n\t {\"text\":\"analysis\"}\n", true},
		{"prose around the object", `Here you go: {"text":"analysis"}`, false},
		{"code fence", "```json\n{\"text\":\"analysis\"}\n```", false},
		{"schema violation", `{"text":""}`, false},
		{"unknown field", `{"text":"x","extra":1}`, false},
		{"not json at all", "I cannot help with that.", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := ParseStrict(testSchema, tt.text)
			if tt.wantOK {
				require.True(t, res.Parsed(), "err: %v", res.Err)
				assert.NotEmpty(t, res.Doc)
			} else {
				assert.False(t, res.Parsed())
				assert.Error(t, res.Err)
				assert.Equal(t, tt.text, res.Raw)
			}
		})
	}
}

func TestParseFragment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		wantOK  bool
		wantDoc string
	}{
		{
			name:    "code fence",
			text:    "```json\n{\"text\":\"analysis\",\"confidence\":0.5}\n```",
			wantOK:  true,
			wantDoc: `{"text":"analysis","confidence":0.5}`,
		},
		{
			name:    "prose wrapped",
			text:    `Sure. {"text":"analysis"} Hope that helps!`,
			wantOK:  true,
			wantDoc: `{"text":"analysis"}`,
		},
		{
			name:    "braces inside strings",
			text:    `{"text":"uses {curly} braces and a \" quote"}`,
			wantOK:  true,
			wantDoc: `{"text":"uses {curly} braces and a \" quote"}`,
		},
		{
			name:   "first object wins",
			text:   `{"text":"first"} {"text":"second"}`,
			wantOK: true, wantDoc: `{"text":"first"}`,
		},
		{
			name:   "no object at all",
			text:   "plain refusal text",
			wantOK: false,
		},
		{
			name:   "unbalanced object",
			text:   `{"text":"truncated...`,
			wantOK: false,
		},
		{
			name:   "fragment violates schema",
			text:   "here: {\"wrong\":true}",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := ParseFragment(testSchema, tt.text)
			if tt.wantOK {
				require.True(t, res.Parsed(), "err: %v", res.Err)
				assert.JSONEq(t, tt.wantDoc, string(res.Doc))
			} else {
				assert.False(t, res.Parsed())
				assert.Error(t, res.Err)
			}
		})
	}
}

func TestParseFragment_NoObjectSentinel(t *testing.T) {
	t.Parallel()
	res := ParseFragment(testSchema, "nothing here")
	assert.ErrorIs(t, res.Err, ErrNoJSONObject)
}

func TestBuildSchemas_ValidateOwnPayloads(t *testing.T) {
	t.Parallel()

	strategy := `{
		"steps":[{"order":1,"action":"File the claim","deadline":"2 weeks","required_documents":["contract"]}],
		"narrative":"File quickly.",
		"alternative_paths":["settlement"]
	}`
	require.NoError(t, ValidateJSONAgainstSchema(BuildStrategyJSONSchema(), []byte(strategy)))

	prognosis := `{
		"scenarios":[
			{"kind":"LIKELY","probability":60,"estimated_value_eur":12000,"estimated_months":8},
			{"kind":"WORST_CASE","probability":40}
		],
		"most_likely":"LIKELY",
		"recommendation":"Proceed."
	}`
	require.NoError(t, ValidateJSONAgainstSchema(BuildPrognosisJSONSchema(), []byte(prognosis)))

	badKind := `{
		"scenarios":[{"kind":"MIRACLE","probability":100}],
		"most_likely":"LIKELY",
		"recommendation":"Proceed."
	}`
	assert.Error(t, ValidateJSONAgainstSchema(BuildPrognosisJSONSchema(), []byte(badKind)))
}
