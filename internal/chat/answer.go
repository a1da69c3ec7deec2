package chat

import (
	"encoding/json"
	"regexp"
	"strings"
)

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// Answer is the structured part of a model reply.
type Answer struct {
	Text string
	CTA0 *string
	CTA1 *string
}

// ParseAnswer extracts the answer text and up to two call-to-action
// suggestions from raw model output. The outermost {...} span is decoded;
// anything that does not decode yields the raw text and no CTAs.
func ParseAnswer(raw string) Answer {
	raw = strings.TrimSpace(raw)
	candidate := jsonObjectPattern.FindString(raw)
	if candidate == "" {
		candidate = stripFences(raw)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return Answer{Text: raw}
	}

	out := Answer{Text: raw}
	if text, ok := decodeString(payload["resposta"]); ok {
		out.Text = text
	}
	var ctas []json.RawMessage
	if err := json.Unmarshal(payload["ctas"], &ctas); err == nil {
		if len(ctas) > 0 {
			if cta, ok := decodeString(ctas[0]); ok {
				out.CTA0 = &cta
			}
		}
		if len(ctas) > 1 {
			if cta, ok := decodeString(ctas[1]); ok {
				out.CTA1 = &cta
			}
		}
	}
	return out
}

func decodeString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func stripFences(s string) string {
	clean := strings.TrimSpace(s)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	return strings.TrimSpace(clean)
}
