package generator

import (
	"encoding/json"
	"strings"
)

// StripCodeFences removes a surrounding markdown code fence, if present.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

// ExtractJSONObject is the best-effort structured decode for free-form
// model text: it takes the substring from the first '{' to the last '}'
// and unmarshals it into v. Returns false when no decodable object is
// present; the caller supplies the fallback value.
func ExtractJSONObject(text string, v any) bool {
	text = StripCodeFences(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return false
	}

	return json.Unmarshal([]byte(text[start:end+1]), v) == nil
}
