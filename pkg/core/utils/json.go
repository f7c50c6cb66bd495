package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// ParseModelJSON decodes JSON produced by a language model into schema.
// Model output is frequently wrapped in markdown fences, surrounded by
// prose, or slightly malformed, so parsing escalates through strategies:
//  1. Standard JSON parse (after fence cleanup)
//  2. Brace extraction: the substring from the first '{' to the last '}'
//  3. JSON repair (missing quotes, trailing commas, unclosed brackets)
//  4. Hjson (most lenient: unquoted keys, comments, optional commas)
func ParseModelJSON(input string, schema interface{}) error {
	cleaned := CleanMarkdown(input)

	if err := json.Unmarshal([]byte(cleaned), schema); err == nil {
		return nil
	}

	if extracted, ok := extractJSONObject(cleaned); ok {
		if err := json.Unmarshal([]byte(extracted), schema); err == nil {
			return nil
		}
		cleaned = extracted
	}

	if repaired, err := jsonrepair.RepairJSON(cleaned); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return nil
		}
	}

	if err := hjson.Unmarshal([]byte(cleaned), schema); err == nil {
		return nil
	}

	return fmt.Errorf("MODEL_JSON_PARSE_FAILED: all parsing strategies failed")
}

// ParseStrictJSON decodes without any leniency beyond fence cleanup. Used
// where a malformed payload must fall back to defaults rather than be
// creatively repaired into a wrong answer.
func ParseStrictJSON(input string, schema interface{}) error {
	cleaned := CleanMarkdown(input)
	if err := json.Unmarshal([]byte(cleaned), schema); err != nil {
		return fmt.Errorf("JSON_STRUCTURAL_ERROR: %v", err)
	}
	return nil
}

// extractJSONObject returns the span from the first '{' to the matching
// last '}', for model replies that wrap JSON in prose.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
