package knowledge_service

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	jsonFenceOpen       = regexp.MustCompile("(?i)```json")
	jsonFence           = regexp.MustCompile("```")
	trailingCommaObject = regexp.MustCompile(`,\s*}`)
	trailingCommaArray  = regexp.MustCompile(`,\s*]`)
)

// ExtractJSONFromText pulls a JSON object out of a free-text LLM
// completion: markdown fences are stripped, the text is sliced between the
// first '{' and the last '}', and trailing commas before closing brackets
// are removed before parsing. Returns false when no parseable object
// remains; callers are expected to retry the completion.
func ExtractJSONFromText(text string) (map[string]interface{}, bool) {
	text = strings.TrimSpace(text)

	text = strings.TrimSpace(jsonFenceOpen.ReplaceAllString(text, ""))
	text = strings.TrimSpace(jsonFence.ReplaceAllString(text, ""))

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}

	jsonStr := strings.TrimSpace(text[start : end+1])

	jsonStr = trailingCommaObject.ReplaceAllString(jsonStr, "}")
	jsonStr = trailingCommaArray.ReplaceAllString(jsonStr, "]")

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return nil, false
	}

	return parsed, true
}
