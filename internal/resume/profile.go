// Package resume loads the résumé document and the system prompt template once at
// startup and assembles the full system prompt sent with every question.
package resume

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"resume-chat/internal/extract"
)

const (
	FormatJSON = "json"
	FormatText = "text"

	jsonHeader = "\n\nCurrículo completo (em JSON):\n"
	textHeader = "\n\nCurrículo completo:\n"
)

var (
	ErrEmptyPrompt   = errors.New("system prompt is empty")
	ErrInvalidUTF8   = errors.New("system prompt is not valid UTF-8")
	ErrInvalidResume = errors.New("resume document is not valid JSON")
	ErrEmptyResume   = errors.New("resume document is empty")
)

// Document is the résumé rendered as the text embedded in the prompt.
type Document struct {
	Text   string
	Format string
	Path   string
}

// Profile bundles everything the chat service needs from the résumé side.
type Profile struct {
	Document     Document
	SystemPrompt string
	fullPrompt   string
}

// FullPrompt returns the system prompt followed by the embedded résumé.
func (p *Profile) FullPrompt() string {
	if p == nil {
		return ""
	}
	return p.fullPrompt
}

// NewProfile assembles a profile from already loaded parts.
func NewProfile(systemPrompt string, doc Document) *Profile {
	return &Profile{
		Document:     doc,
		SystemPrompt: systemPrompt,
		fullPrompt:   BuildSystemPrompt(systemPrompt, doc),
	}
}

// Load reads both files and builds the profile.
func Load(ctx context.Context, resumePath, promptPath string) (*Profile, error) {
	prompt, err := LoadSystemPrompt(promptPath)
	if err != nil {
		return nil, err
	}
	doc, err := LoadDocument(ctx, resumePath)
	if err != nil {
		return nil, err
	}
	return NewProfile(prompt, doc), nil
}

// LoadSystemPrompt reads the prompt template. It must be non-empty UTF-8 and
// is returned exactly as stored, trailing newlines included.
func LoadSystemPrompt(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read system prompt %s: %w", path, err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%s: %w", path, ErrInvalidUTF8)
	}
	prompt := string(raw)
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%s: %w", path, ErrEmptyPrompt)
	}
	return prompt, nil
}

// LoadDocument reads the résumé. JSON files are validated and re-indented with
// two spaces, keeping key order and non-ASCII text as written. PDF, DOCX and
// plain text files are reduced to their text.
func LoadDocument(ctx context.Context, path string) (Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Document{}, fmt.Errorf("read resume %s: %w", path, err)
		}
		text, err := IndentJSON(raw)
		if err != nil {
			return Document{}, fmt.Errorf("%s: %w", path, err)
		}
		return Document{Text: text, Format: FormatJSON, Path: path}, nil
	}

	text, err := extract.ExtractFile(ctx, path)
	if err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Document{}, fmt.Errorf("%s: %w", path, ErrEmptyResume)
	}
	return Document{Text: text, Format: FormatText, Path: path}, nil
}

// IndentJSON validates raw and returns it indented with two spaces.
func IndentJSON(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !json.Valid(raw) {
		return "", ErrInvalidResume
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResume, err)
	}
	return buf.String(), nil
}

// BuildSystemPrompt concatenates the template and the résumé text.
func BuildSystemPrompt(systemPrompt string, doc Document) string {
	header := jsonHeader
	if doc.Format != FormatJSON {
		header = textHeader
	}
	return systemPrompt + header + doc.Text
}
