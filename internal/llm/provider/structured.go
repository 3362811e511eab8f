package provider

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJSON unmarshals a model completion into v. Models frequently wrap
// JSON output in markdown code fences or surrounding prose, so the raw text
// is narrowed to the outermost JSON object before decoding.
func DecodeJSON(completion string, v any) error {
	text := strings.TrimSpace(completion)

	// Strip a markdown code fence if present.
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
	}

	// Narrow to the outermost object when the model added prose around it.
	if !strings.HasPrefix(text, "{") {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start < 0 || end < start {
			return fmt.Errorf("no JSON object in completion")
		}
		text = text[start : end+1]
	}

	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("decode structured completion: %w", err)
	}
	return nil
}
