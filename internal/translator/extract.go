package translator

import (
	"regexp"
	"strings"
)

// extractor tries to pull a JSON object out of free-form oracle text.
// Each strategy is pure and independently testable.
type extractor func(content string) (string, bool)

var extractors = []extractor{
	extractDirect,
	extractCodeFence,
	extractBraced,
}

// ExtractJSON runs the extraction chain in order and returns the first
// candidate payload. Oracles routinely wrap their answer in prose or
// code fences despite being told not to.
func ExtractJSON(content string) (string, bool) {
	for _, extract := range extractors {
		if payload, ok := extract(content); ok {
			return payload, true
		}
	}
	return "", false
}

// extractDirect accepts content that already is a bare JSON object.
func extractDirect(content string) (string, bool) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		return trimmed, true
	}
	return "", false
}

// extractCodeFence strips a fenced code block and an optional language tag.
func extractCodeFence(content string) (string, bool) {
	if !strings.Contains(content, "```") {
		return "", false
	}

	for _, part := range strings.Split(content, "```") {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "json")
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			return part, true
		}
	}
	return "", false
}

var bracedPattern = regexp.MustCompile(`\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)

// extractBraced scans for brace-balanced substrings and returns the
// longest one, which is usually the complete object.
func extractBraced(content string) (string, bool) {
	matches := bracedPattern.FindAllString(content, -1)
	if len(matches) == 0 {
		return "", false
	}

	longest := matches[0]
	for _, match := range matches[1:] {
		if len(match) > len(longest) {
			longest = match
		}
	}
	return longest, true
}
