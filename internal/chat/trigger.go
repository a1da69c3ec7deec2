package chat

import (
	"strings"

	"resume-chat/internal/shared/config"
)

// Trigger decides whether a question gets a background image.
type Trigger struct {
	Mode     string
	Keywords []string
}

// ShouldGenerate reports whether message passes the trigger.
func (t Trigger) ShouldGenerate(message string) bool {
	switch t.Mode {
	case config.ImageModeOff:
		return false
	case config.ImageModeKeywords:
		lower := strings.ToLower(message)
		for _, kw := range t.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
