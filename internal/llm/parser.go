package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON means no extraction strategy found a JSON object in the
// response text. A batch failing to parse is a hard error for that batch.
var ErrNoJSON = errors.New("no valid JSON object found in response")

// ParseResult extracts and decodes the analysis object from free-form
// response text. Strategies, first match wins: a ```json fenced block, a
// generic fenced block whose content starts with '{', then a balanced-brace
// scan of the raw text.
func ParseResult(response string) (*AnalysisResult, error) {
	jsonStr, err := extractJSON(response)
	if err != nil {
		return nil, err
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}
	return &result, nil
}

func extractJSON(text string) (string, error) {
	if start := strings.Index(text, "```json"); start >= 0 {
		rest := text[start+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end]), nil
		}
	}

	if start := strings.Index(text, "```"); start >= 0 {
		rest := text[start+3:]
		// Skip a language identifier on the fence line.
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			content := strings.TrimSpace(rest[:end])
			if strings.HasPrefix(content, "{") {
				return content, nil
			}
		}
	}

	if obj, ok := scanBalancedObject(text); ok {
		return obj, nil
	}

	return "", ErrNoJSON
}

// scanBalancedObject finds the first top-level {...} in text, tracking
// quoted strings and escapes so braces inside string values don't count.
func scanBalancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}

	return "", false
}
