package llm

import (
	"errors"
	"strings"
)

// ErrNoJSONObject means the response text contains no balanced JSON object.
var ErrNoJSONObject = errors.New("no JSON object in response text")

// ParseResult is the tagged outcome of one parse attempt: either a validated
// JSON document or the offending raw text. Exactly one of Doc/Raw is
// meaningful; Err explains a malformed attempt.
type ParseResult struct {
	Doc []byte // valid JSON matching the schema; nil when malformed
	Raw string // the raw text that failed, for diagnostics
	Err error
}

// Parsed reports whether the attempt produced a schema-valid document.
func (r ParseResult) Parsed() bool { return r.Err == nil && r.Doc != nil }

// ParseStrict is the first parse attempt: the whole response text must be a
// JSON document matching the schema.
func ParseStrict(schemaMap map[string]any, text string) ParseResult {
	trimmed := strings.TrimSpace(text)
	if err := ValidateJSONAgainstSchema(schemaMap, []byte(trimmed)); err != nil {
		return ParseResult{Raw: text, Err: err}
	}
	return ParseResult{Doc: []byte(trimmed)}
}

// ParseFragment is the explicit second attempt over a malformed response: it
// extracts the first balanced JSON object from the raw text (models often
// wrap payloads in prose or code fences) and validates that fragment.
func ParseFragment(schemaMap map[string]any, text string) ParseResult {
	fragment, ok := firstJSONObject(text)
	if !ok {
		return ParseResult{Raw: text, Err: ErrNoJSONObject}
	}
	if err := ValidateJSONAgainstSchema(schemaMap, []byte(fragment)); err != nil {
		return ParseResult{Raw: text, Err: err}
	}
	return ParseResult{Doc: []byte(fragment)}
}

// firstJSONObject scans for the first balanced top-level {...} in the text,
// respecting string literals and escapes.
func firstJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
