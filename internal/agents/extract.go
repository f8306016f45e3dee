package agents

import (
	"context"
	"strings"
)

// Backend is the narrow generation interface the agents consume.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// firstJSONObject returns the first balanced {...} substring of s.
// Models tend to wrap structured answers in prose; this digs them out.
func firstJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
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
