package services

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrUnparsableResponse means the provider reply held no usable JSON
// verdict. Callers must treat this like a flagged, unpublishable result.
var ErrUnparsableResponse = errors.New("no JSON verdict in moderation response")

// parseModerationResponse extracts the verdict object from raw provider
// output, which may be surrounded by extra prose. Missing fields default
// to null/false.
func parseModerationResponse(raw string) (SanitizationResult, error) {
	obj, ok := extractJSONObject(raw)
	if !ok {
		return SanitizationResult{}, ErrUnparsableResponse
	}

	var result SanitizationResult
	if err := json.Unmarshal([]byte(obj), &result); err != nil {
		return SanitizationResult{}, ErrUnparsableResponse
	}

	return result, nil
}

// extractJSONObject returns the first balanced {...} substring of s,
// skipping braces inside string literals.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

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
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
