package chat

import "resume-chat/internal/imagegen"

const (
	// Greeting answers an empty question without calling any model.
	Greeting = "Oi! Pode mandar sua pergunta sobre minha carreira."
	// Apology is the only body returned when a question cannot be answered.
	Apology = "Desculpe, tive um problema técnico no momento. Tente novamente em alguns segundos."
)

// Turn is one prior message of the conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Question is one user message plus request metadata.
type Question struct {
	Message   string
	History   []Turn
	ClientKey string
	RequestID string
}

// Reply is what the chat endpoint returns.
type Reply struct {
	Response        string  `json:"response"`
	CallAction0     *string `json:"call_action0"`
	CallAction1     *string `json:"call_action1"`
	BackgroundImage *string `json:"background_image"`
	ImagePrompt     *string `json:"image_prompt,omitempty"`
}

// Background is the result of the image step.
type Background struct {
	DataURI string
	Prompt  string
	Key     string
	Image   imagegen.Image
}
