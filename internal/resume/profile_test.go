package resume

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadBuildsFullPromptFromJSON(t *testing.T) {
	dir := t.TempDir()
	promptPath := writeFile(t, dir, "system_prompt.txt", "Você é o Eleandro.\n")
	resumePath := writeFile(t, dir, "curriculum.json", `{"nome":"Eleandro","habilidades":["Go","Python"],"cidade":"São Paulo <SP>"}`)

	profile, err := Load(context.Background(), resumePath, promptPath)
	require.NoError(t, err)

	want := "Você é o Eleandro.\n\n\nCurrículo completo (em JSON):\n" +
		"{\n" +
		"  \"nome\": \"Eleandro\",\n" +
		"  \"habilidades\": [\n" +
		"    \"Go\",\n" +
		"    \"Python\"\n" +
		"  ],\n" +
		"  \"cidade\": \"São Paulo <SP>\"\n" +
		"}"
	require.Equal(t, want, profile.FullPrompt())
	require.Equal(t, FormatJSON, profile.Document.Format)
}

func TestLoadSystemPromptKeepsTemplateVerbatim(t *testing.T) {
	dir := t.TempDir()
	prompt, err := LoadSystemPrompt(writeFile(t, dir, "system_prompt.txt", "  Persona\n\n"))
	require.NoError(t, err)
	require.Equal(t, "  Persona\n\n", prompt)

	full := BuildSystemPrompt(prompt, Document{Text: "{}", Format: FormatJSON})
	require.Equal(t, "  Persona\n\n\n\nCurrículo completo (em JSON):\n{}", full)
}

func TestLoadDocumentPlainText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cv.txt", "Experiência: 10 anos\n")

	doc, err := LoadDocument(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, FormatText, doc.Format)

	full := BuildSystemPrompt("Persona", doc)
	require.Equal(t, "Persona\n\nCurrículo completo:\nExperiência: 10 anos", full)
}

func TestLoadDocumentRejectsInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "curriculum.json", `{"nome": }`)

	_, err := LoadDocument(context.Background(), path)
	require.True(t, errors.Is(err, ErrInvalidResume))
}

func TestLoadDocumentRejectsEmptyText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cv.txt", "   \n")

	_, err := LoadDocument(context.Background(), path)
	require.ErrorIs(t, err, ErrEmptyResume)
}

func TestLoadSystemPromptValidation(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadSystemPrompt(writeFile(t, dir, "empty.txt", "  \n"))
	require.ErrorIs(t, err, ErrEmptyPrompt)

	_, err = LoadSystemPrompt(writeFile(t, dir, "bad.txt", "\xff\xfe"))
	require.ErrorIs(t, err, ErrInvalidUTF8)

	_, err = LoadSystemPrompt(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}

func TestIndentJSONStripsBOM(t *testing.T) {
	out, err := IndentJSON([]byte("\xef\xbb\xbf{\"a\":1}"))
	require.NoError(t, err)
	require.Equal(t, "{\n  \"a\": 1\n}", out)
}

func TestNilProfileFullPrompt(t *testing.T) {
	var p *Profile
	require.Equal(t, "", p.FullPrompt())
}
