package llm

import (
	_ "embed"
	"strings"
)

//go:embed prompts/image_prompt.txt
var imagePromptTemplate string

// ImagePromptInstruction asks the text model for an English visual prompt
// illustrating the user's question.
func ImagePromptInstruction(question string) string {
	return strings.ReplaceAll(strings.TrimSpace(imagePromptTemplate), "{{question}}", question)
}
