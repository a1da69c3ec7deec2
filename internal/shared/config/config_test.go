package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ENV", "")
	t.Setenv("XAI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, ProviderXAI, cfg.ChatProvider)
	require.Equal(t, "grok-4-fast-reasoning", cfg.ChatModel)
	require.Equal(t, "imagen-4.0-fast-generate-001", cfg.ImageModel)
	require.Equal(t, ImageModeAlways, cfg.ImageMode)
	require.Equal(t, "16:9", cfg.ImageAspectRatio)
	require.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	require.Equal(t, "data/curriculum.json", cfg.ResumePath)
	require.Equal(t, "prompts/system_prompt.txt", cfg.SystemPromptPath)
	require.Equal(t, 120*time.Second, cfg.LLMTimeout)
	require.Equal(t, StoreLocal, cfg.ObjectStoreType)
	require.Contains(t, cfg.ImageKeywords, "imagem")
}

func TestLoadReadsDotEnvWithoutOverridingEnvironment(t *testing.T) {
	chdirTemp(t)
	content := "PORT=9999\nCHAT_MODEL=grok-test\nIMAGE_MODE=keywords\nIMAGE_KEYWORDS= Foto , Viagem \n"
	require.NoError(t, os.WriteFile(filepath.Join(".", ".env"), []byte(content), 0o600))
	t.Setenv("PORT", "7000")
	t.Setenv("CHAT_MODEL", "")
	t.Setenv("IMAGE_MODE", "")
	t.Setenv("IMAGE_KEYWORDS", "")
	// t.Setenv registers the variables; unset the empty ones so the file can supply them.
	require.NoError(t, os.Unsetenv("CHAT_MODEL"))
	require.NoError(t, os.Unsetenv("IMAGE_MODE"))
	require.NoError(t, os.Unsetenv("IMAGE_KEYWORDS"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "7000", cfg.Port)
	require.Equal(t, "grok-test", cfg.ChatModel)
	require.Equal(t, ImageModeKeywords, cfg.ImageMode)
	require.Equal(t, []string{"foto", "viagem"}, cfg.ImageKeywords)
}

func TestLoadGeminiProviderDefaultsModel(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CHAT_PROVIDER", "Gemini")
	t.Setenv("CHAT_MODEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ProviderGemini, cfg.ChatProvider)
	require.Equal(t, "gemini-2.5-flash", cfg.ChatModel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "dev without key", cfg: Config{Env: "dev", ChatProvider: ProviderXAI, ImageMode: ImageModeOff}},
		{name: "production requires xai key", cfg: Config{Env: "production", ChatProvider: ProviderXAI, ImageMode: ImageModeOff}, wantErr: true},
		{name: "production with key", cfg: Config{Env: "production", ChatProvider: ProviderXAI, XAIAPIKey: "k", ImageMode: ImageModeAlways}},
		{name: "unknown provider", cfg: Config{Env: "dev", ChatProvider: "other", ImageMode: ImageModeOff}, wantErr: true},
		{name: "unknown image mode", cfg: Config{Env: "dev", ChatProvider: ProviderXAI, ImageMode: "sometimes"}, wantErr: true},
		{name: "s3 archive without bucket", cfg: Config{Env: "dev", ChatProvider: ProviderXAI, ImageMode: ImageModeOff, ObjectStoreType: StoreS3, ArchiveImages: true}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNormalizeEnv(t *testing.T) {
	require.Equal(t, "production", normalizeEnv("PROD"))
	require.Equal(t, "dev", normalizeEnv("development"))
	require.Equal(t, "local", normalizeEnv(" local "))
	require.Equal(t, "dev", normalizeEnv("whatever"))
}
