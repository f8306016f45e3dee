package parser

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ParseResult is the outcome of one generation call's output parsing.
// Callers branch on OK instead of handling errors: a response that
// yields no usable posts is a parse failure with a reason, not a panic.
type ParseResult struct {
	Posts  []string
	Reason string
}

// OK reports whether at least one usable post was parsed.
func (r ParseResult) OK() bool {
	return len(r.Posts) > 0
}

// A short run of bracketed words is an unresolved template token the
// model failed to fill in, e.g. "[Company]" or "[your product here]".
var placeholderPattern = regexp.MustCompile(`\[[A-Za-z][A-Za-z'-]*(?: [A-Za-z'-]+){0,3}\]`)

var placeholderLiterals = []string{
	"[name]",
	"[your name]",
	"[company]",
	"[company name]",
	"[topic]",
	"[product]",
	"[product name]",
}

// HasPlaceholder reports whether content still contains an unresolved
// template token. Posts with placeholders are never stored.
func HasPlaceholder(content string) bool {
	if placeholderPattern.MatchString(content) {
		return true
	}
	lower := strings.ToLower(content)
	for _, lit := range placeholderLiterals {
		if strings.Contains(lower, lit) {
			return true
		}
	}
	return false
}

// ParseDelimited splits free-text generator output on lines containing
// only a 3-hyphen delimiter, then filters out empty segments and
// placeholder-ridden candidates.
func ParseDelimited(raw string) ParseResult {
	if strings.TrimSpace(raw) == "" {
		return ParseResult{Reason: "empty response"}
	}

	var segments []string
	var current []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "---" {
			segments = append(segments, strings.Join(current, "\n"))
			current = current[:0]
			continue
		}
		current = append(current, line)
	}
	segments = append(segments, strings.Join(current, "\n"))

	return filterCandidates(segments)
}

// ParseStructured extracts the first bracketed array from generator
// output and reads it as a list of {content} objects. Entries whose
// content is not text are discarded.
func ParseStructured(raw string) ParseResult {
	arr, ok := firstJSONArray(raw)
	if !ok {
		return ParseResult{Reason: "no array found in response"}
	}

	var entries []map[string]any
	if err := json.Unmarshal([]byte(arr), &entries); err != nil {
		return ParseResult{Reason: "response array is not valid JSON"}
	}

	var candidates []string
	for _, entry := range entries {
		content, ok := entry["content"].(string)
		if !ok {
			continue
		}
		candidates = append(candidates, content)
	}
	if len(candidates) == 0 {
		return ParseResult{Reason: "no usable content entries in response"}
	}
	return filterCandidates(candidates)
}

// filterCandidates trims, drops empties, and applies the placeholder
// filter. If every candidate is rejected the whole call failed.
func filterCandidates(candidates []string) ParseResult {
	var posts []string
	rejected := 0
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if HasPlaceholder(c) {
			rejected++
			continue
		}
		posts = append(posts, c)
	}

	if len(posts) == 0 {
		if rejected > 0 {
			return ParseResult{Reason: "all candidates contained unresolved placeholders"}
		}
		return ParseResult{Reason: "no post content in response"}
	}
	return ParseResult{Posts: posts}
}

// firstJSONArray returns the first balanced [...] substring of s.
func firstJSONArray(s string) (string, bool) {
	start := strings.Index(s, "[")
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
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
