package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"resume-chat/internal/chat"
	"resume-chat/internal/imagegen"
	"resume-chat/internal/imagegen/imagen"
	"resume-chat/internal/interactions"
	"resume-chat/internal/llm"
	"resume-chat/internal/llm/gemini"
	"resume-chat/internal/llm/xai"
	"resume-chat/internal/resume"
	"resume-chat/internal/services/health"
	"resume-chat/internal/shared/config"
	"resume-chat/internal/shared/server"
	"resume-chat/internal/shared/storage/db"
	"resume-chat/internal/shared/storage/object"
	localstore "resume-chat/internal/shared/storage/object/local"
	s3store "resume-chat/internal/shared/storage/object/s3"
	"resume-chat/internal/shared/telemetry"
	"resume-chat/internal/web"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config              config.Config
	Router              *gin.Engine
	DB                  *sql.DB
	Store               object.ObjectStore
	Profile             *resume.Profile
	LLM                 llm.Client
	Images              imagegen.Generator
	InteractionsRepo    interactions.Repo
	ChatService         *chat.Service
	ChatHandler         *chat.Handler
	InteractionsHandler *interactions.Handler
	Health              *health.Service
}

// Build loads the résumé, connects providers and storage, and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	profile, err := resume.Load(ctx, cfg.ResumePath, cfg.SystemPromptPath)
	if err != nil {
		return nil, fmt.Errorf("load resume: %w", err)
	}
	telemetry.Info(ctx, "bootstrap: resume loaded",
		zap.String("path", profile.Document.Path),
		zap.String("format", profile.Document.Format),
		zap.Int("prompt_chars", len(profile.FullPrompt())),
	)

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	genaiClient, err := buildGenAI(ctx, cfg)
	if err != nil {
		return nil, err
	}

	textClient, err := buildLLM(ctx, cfg, genaiClient)
	if err != nil {
		return nil, err
	}

	images, err := buildImages(ctx, cfg, genaiClient)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Profile: profile,
		LLM:     textClient,
		Images:  images,
		Health:  health.NewService(cfg.ChatModel),
	}

	var archiver *imagegen.Archiver
	if cfg.ArchiveImages {
		store, err := buildStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.Store = store
		archiver = imagegen.NewArchiver(store)
	}

	if sqlDB != nil {
		app.InteractionsRepo = &interactions.PGRepo{DB: sqlDB}
	} else {
		app.InteractionsRepo = interactions.NewMemoryRepo()
	}

	app.ChatService = chat.NewService(chat.Deps{
		LLM:        textClient,
		Images:     images,
		Archiver:   archiver,
		Repo:       app.InteractionsRepo,
		Profile:    profile,
		Trigger:    chat.Trigger{Mode: cfg.ImageMode, Keywords: cfg.ImageKeywords},
		ModelText:  cfg.ChatModel,
		MaxHistory: cfg.MaxHistoryTurns,
		Debug:      cfg.Debug,
	})
	app.ChatHandler = chat.NewHandler(app.ChatService)
	app.InteractionsHandler = interactions.NewHandler(app.InteractionsRepo, app.Store)

	assets, err := web.Assets(cfg.StaticDir)
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              cfg,
		ChatHandler:         app.ChatHandler,
		InteractionsHandler: app.InteractionsHandler,
		Health:              app.Health,
		Assets:              assets,
	})

	return app, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Info(ctx, "bootstrap: DATABASE_URL empty; using in-memory interactions")
		return nil, nil
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn(ctx, "bootstrap: database connect failed; using in-memory interactions", zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildGenAI(ctx context.Context, cfg config.Config) (*genai.Client, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return nil, nil
	}
	client, err := gemini.NewGenAIClient(ctx, cfg.GeminiAPIKey, cfg.GeminiBaseURL)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return client, nil
}

func buildLLM(ctx context.Context, cfg config.Config, genaiClient *genai.Client) (llm.Client, error) {
	var base llm.Client
	switch cfg.ChatProvider {
	case config.ProviderGemini:
		if genaiClient == nil {
			telemetry.Warn(ctx, "bootstrap: GEMINI_API_KEY empty; text model not configured")
			base = llm.PlaceholderClient{}
			break
		}
		client, err := gemini.NewClient(genaiClient, cfg.ChatModel)
		if err != nil {
			return nil, err
		}
		base = client
	default:
		if strings.TrimSpace(cfg.XAIAPIKey) == "" {
			telemetry.Warn(ctx, "bootstrap: XAI_API_KEY empty; text model not configured")
			base = llm.PlaceholderClient{}
			break
		}
		client, err := xai.NewClient(cfg.XAIAPIKey, cfg.ChatModel, cfg.XAIBaseURL, cfg.LLMTimeout)
		if err != nil {
			return nil, err
		}
		base = client
	}
	if cfg.LLMRetry {
		base = llm.WithRetry(base)
	}
	return llm.Instrument(base), nil
}

func buildImages(ctx context.Context, cfg config.Config, genaiClient *genai.Client) (imagegen.Generator, error) {
	if genaiClient == nil {
		telemetry.Warn(ctx, "bootstrap: GEMINI_API_KEY empty; image generation disabled")
		return imagegen.Disabled{}, nil
	}
	return imagen.New(genaiClient, cfg.ImageModel, cfg.ImageAspectRatio)
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case config.StoreS3:
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}
