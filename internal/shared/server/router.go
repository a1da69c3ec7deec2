package server

import (
	"io/fs"
	"time"

	"github.com/gin-gonic/gin"

	"resume-chat/internal/chat"
	"resume-chat/internal/interactions"
	"resume-chat/internal/services/health"
	"resume-chat/internal/shared/config"
	"resume-chat/internal/shared/metrics"
	"resume-chat/internal/shared/server/middleware"
	"resume-chat/internal/shared/server/respond"
	"resume-chat/internal/web"
)

const chatRateLimitGroup = "chat"

// RouterDeps groups handlers wired into the router.
type RouterDeps struct {
	Config              config.Config
	ChatHandler         *chat.Handler
	InteractionsHandler *interactions.Handler
	Health              *health.Service
	Assets              fs.FS
	Now                 func() time.Time
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.Metrics(),
		middleware.CORS(cfg.CORSAllowOrigins),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				chatRateLimitGroup: {Rate: cfg.ChatRateLimitRPS, Burst: cfg.ChatRateLimitBurst},
			},
			GroupFor: rateLimitGroup,
			Limiter:  middleware.NewRateLimiter(deps.Now),
		}),
	)
	r.NoRoute(func(c *gin.Context) {
		respond.NotFound(c, "")
	})

	if deps.Assets != nil {
		web.RegisterRoutes(r, deps.Assets)
	}
	if deps.Health != nil {
		r.GET("/health", deps.Health.Handle)
	}
	r.GET("/metrics", metrics.Handler())

	if deps.ChatHandler != nil {
		deps.ChatHandler.RegisterRoutes(r, cfg.Debug)
	}
	if cfg.Debug && deps.InteractionsHandler != nil {
		deps.InteractionsHandler.RegisterRoutes(r.Group("/api"))
	}

	return r
}

func rateLimitGroup(c *gin.Context) string {
	switch c.FullPath() {
	case "/chat", "/generate_background":
		return chatRateLimitGroup
	default:
		return ""
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
