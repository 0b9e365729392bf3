package ai

import "strings"

// StripCodeFence extracts the payload from a model reply that may wrap it
// in markdown code fences, possibly preceded by prose. Replies without
// fences are returned trimmed.
func StripCodeFence(response string) string {
	if idx := strings.Index(response, "```json"); idx >= 0 {
		start := idx + len("```json")
		if end := strings.Index(response[start:], "```"); end >= 0 {
			return strings.TrimSpace(response[start : start+end])
		}
		return strings.TrimSpace(response[start:])
	}
	if idx := strings.Index(response, "```"); idx >= 0 {
		start := idx + len("```")
		// Skip a language tag on the fence line, e.g. ```sql
		if nl := strings.Index(response[start:], "\n"); nl >= 0 && nl < 20 && !strings.Contains(response[start:start+nl], "{") {
			start += nl + 1
		}
		if end := strings.Index(response[start:], "```"); end >= 0 {
			return strings.TrimSpace(response[start : start+end])
		}
		return strings.TrimSpace(response[start:])
	}
	return strings.TrimSpace(response)
}
