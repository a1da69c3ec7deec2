package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	ProviderXAI    = "xai"
	ProviderGemini = "gemini"

	ImageModeAlways   = "always"
	ImageModeKeywords = "keywords"
	ImageModeOff      = "off"

	StoreLocal = "local"
	StoreS3    = "s3"

	defaultGeminiChatModel = "gemini-2.5-flash"
	defaultXAIChatModel    = "grok-4-fast-reasoning"
)

// Config holds application configuration.
type Config struct {
	Env   string `env:"ENV" env-default:"dev"`
	Port  string `env:"PORT" env-default:"8080"`
	Debug bool   `env:"DEBUG" env-default:"false"`

	CORSAllowOrigins []string      `env:"CORS_ALLOW_ORIGINS" env-default:"*"`
	StaticDir        string        `env:"STATIC_DIR"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`

	ResumePath       string `env:"RESUME_PATH" env-default:"data/curriculum.json"`
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH" env-default:"prompts/system_prompt.txt"`

	ChatProvider    string        `env:"CHAT_PROVIDER" env-default:"xai"`
	ChatModel       string        `env:"CHAT_MODEL"`
	XAIAPIKey       string        `env:"XAI_API_KEY"`
	XAIBaseURL      string        `env:"XAI_BASE_URL" env-default:"https://api.x.ai/v1"`
	LLMTimeout      time.Duration `env:"LLM_TIMEOUT" env-default:"120s"`
	LLMRetry        bool          `env:"LLM_RETRY" env-default:"true"`
	MaxHistoryTurns int           `env:"MAX_HISTORY_TURNS" env-default:"6"`

	GeminiAPIKey     string   `env:"GEMINI_API_KEY,GOOGLE_API_KEY"`
	GeminiBaseURL    string   `env:"GEMINI_BASE_URL"`
	ImageModel       string   `env:"IMAGE_MODEL" env-default:"imagen-4.0-fast-generate-001"`
	ImageMode        string   `env:"IMAGE_MODE" env-default:"always"`
	ImageKeywords    []string `env:"IMAGE_KEYWORDS" env-default:"imagem,foto,mostre,mostrar,visual,ilustre,desenhe,paisagem"`
	ImageAspectRatio string   `env:"IMAGE_ASPECT_RATIO" env-default:"16:9"`
	ArchiveImages    bool     `env:"ARCHIVE_IMAGES" env-default:"false"`

	ChatRateLimitRPS   float64 `env:"CHAT_RATE_LIMIT_RPS" env-default:"0.5"`
	ChatRateLimitBurst int     `env:"CHAT_RATE_LIMIT_BURST" env-default:"5"`

	DatabaseURL string `env:"DATABASE_URL"`

	ObjectStoreType string `env:"OBJECT_STORE" env-default:"local"`
	LocalStoreDir   string `env:"LOCAL_STORE_DIR" env-default:"./var/objects"`
	AWSRegion       string `env:"AWS_REGION"`
	S3Bucket        string `env:"S3_BUCKET"`
	S3Prefix        string `env:"S3_PREFIX"`
	SSEKMSKeyID     string `env:"SSE_KMS_KEY_ID"`
}

// Load reads configuration from the environment, after best-effort loading of
// local .env files, then normalizes and validates it.
func Load() (Config, error) {
	loadEnvFiles(".env", "cmd/.env")

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Env = normalizeEnv(c.Env)
	c.ChatProvider = strings.ToLower(strings.TrimSpace(c.ChatProvider))
	c.ImageMode = strings.ToLower(strings.TrimSpace(c.ImageMode))
	c.ObjectStoreType = normalizeStoreType(c.ObjectStoreType)
	c.CORSAllowOrigins = splitAndTrim(c.CORSAllowOrigins)
	c.ImageKeywords = lowerAll(splitAndTrim(c.ImageKeywords))
	c.XAIBaseURL = strings.TrimRight(strings.TrimSpace(c.XAIBaseURL), "/")
	if strings.TrimSpace(c.ChatModel) == "" {
		if c.ChatProvider == ProviderGemini {
			c.ChatModel = defaultGeminiChatModel
		} else {
			c.ChatModel = defaultXAIChatModel
		}
	}
	if c.MaxHistoryTurns < 0 {
		c.MaxHistoryTurns = 0
	}
}

// Validate reports configuration that cannot serve requests.
func (c Config) Validate() error {
	switch c.ChatProvider {
	case ProviderXAI:
		if strings.TrimSpace(c.XAIAPIKey) == "" && !c.IsDevLike() {
			return fmt.Errorf("XAI_API_KEY is required")
		}
	case ProviderGemini:
		if strings.TrimSpace(c.GeminiAPIKey) == "" && !c.IsDevLike() {
			return fmt.Errorf("GEMINI_API_KEY is required for CHAT_PROVIDER=gemini")
		}
	default:
		return fmt.Errorf("unsupported CHAT_PROVIDER %q", c.ChatProvider)
	}
	switch c.ImageMode {
	case ImageModeAlways, ImageModeKeywords, ImageModeOff:
	default:
		return fmt.Errorf("unsupported IMAGE_MODE %q", c.ImageMode)
	}
	if c.ObjectStoreType == StoreS3 && c.ArchiveImages && strings.TrimSpace(c.S3Bucket) == "" {
		return fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
	}
	return nil
}

// IsDevLike reports whether missing credentials may fall back to placeholders.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func splitAndTrim(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, p := range strings.Split(item, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

func lowerAll(in []string) []string {
	for i := range in {
		in[i] = strings.ToLower(in[i])
	}
	return in
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return StoreS3
	default:
		return StoreLocal
	}
}
