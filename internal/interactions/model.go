package interactions

import "time"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Interaction records one answered chat question.
type Interaction struct {
	ID             string    `json:"id"`
	RequestID      string    `json:"requestId,omitempty"`
	ClientKey      string    `json:"clientKey,omitempty"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	CTA0           *string   `json:"cta0,omitempty"`
	CTA1           *string   `json:"cta1,omitempty"`
	ImageGenerated bool      `json:"imageGenerated"`
	ImagePrompt    *string   `json:"imagePrompt,omitempty"`
	ImageKey       *string   `json:"imageKey,omitempty"`
	ModelText      string    `json:"modelText"`
	ModelImage     string    `json:"modelImage,omitempty"`
	Status         string    `json:"status"`
	ErrorMessage   *string   `json:"errorMessage,omitempty"`
	DurationMs     int64     `json:"durationMs"`
	HistoryTurns   int       `json:"historyTurns"`
	CreatedAt      time.Time `json:"createdAt"`
}
