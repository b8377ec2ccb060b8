package llm

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/leasescan/leasescan/internal/common"
)

// ErrNoJSON means the model reply contained no JSON object at all.
var ErrNoJSON = errors.New("no JSON found in model response")

// ExtractJSONObject recovers the first JSON object from a raw model reply.
// Replies arrive in three shapes: pure JSON, JSON inside a fenced code block,
// and JSON surrounded by explanatory prose. All three yield the same object.
//
// Failures are parse_error: ErrNoJSON when nothing object-shaped exists,
// a wrapped syntax error when an object is found but does not parse.
func ExtractJSONObject(raw string) ([]byte, error) {
	// Prefer the body of a fenced code block when one is present.
	if body, ok := fencedBlock(raw); ok {
		if obj, err := firstBalancedObject(body); err == nil {
			return obj, nil
		}
		// fall through: the fence held something else; scan the whole reply
	}

	obj, err := firstBalancedObject(raw)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// fencedBlock returns the content of the first ``` fence, tolerating an
// optional language tag on the opening line.
func fencedBlock(s string) (string, bool) {
	open := strings.Index(s, "```")
	if open < 0 {
		return "", false
	}
	rest := s[open+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		// skip the language tag line ("json", "JSON", or empty)
		tag := strings.TrimSpace(rest[:nl])
		if len(tag) <= 8 {
			rest = rest[nl+1:]
		}
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return rest, true
	}
	return rest[:end], true
}

// firstBalancedObject scans for the first '{' and walks to its matching '}',
// honoring string literals and escapes, then verifies the slice parses.
func firstBalancedObject(s string) ([]byte, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return nil, common.NewAppError(common.CategoryParse, "no JSON found", ErrNoJSON)
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
				candidate := []byte(s[start : i+1])
				var probe json.RawMessage
				if err := json.Unmarshal(candidate, &probe); err != nil {
					return nil, common.NewAppError(common.CategoryParse, "malformed JSON", err)
				}
				return candidate, nil
			}
		}
	}

	// an opening brace with no close is malformed, not missing
	if err := json.Unmarshal([]byte(s[start:]), new(json.RawMessage)); err != nil {
		return nil, common.NewAppError(common.CategoryParse, "malformed JSON", err)
	}
	return nil, common.NewAppError(common.CategoryParse, "no JSON found", ErrNoJSON)
}
