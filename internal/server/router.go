package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hptracker/backend/internal/characters"
	"github.com/hptracker/backend/internal/config"
	"github.com/hptracker/backend/internal/server/handlers"
	"github.com/hptracker/backend/internal/server/mw"
	"github.com/hptracker/backend/internal/server/swaggerui"
	"github.com/hptracker/backend/internal/server/web"
)

// Deps are the runtime collaborators of the router. Redis may be nil.
type Deps struct {
	Characters *characters.Service
	Redis      *redis.Client
}

func NewRouter(cfg config.Config, deps Deps, logger *zap.Logger) http.Handler {
	if cfg.IsLocal() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.RequestID())
	r.Use(mw.Recovery(logger))
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.SecurityHeaders())

	origins := cfg.CORSAllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", mw.HeaderRequestID},
		ExposeHeaders: []string{mw.HeaderRequestID},
	}))

	r.GET("/health", handlers.Health)
	swaggerui.Register(r)
	web.Register(r)

	api := r.Group("/api")
	if deps.Redis != nil && cfg.RateLimitRPS > 0 {
		api.Use(mw.RateLimit(deps.Redis, cfg.RateLimitRPS, logger))
	}

	charH := handlers.NewCharacterHandler(logger, deps.Characters)
	api.GET("/characters", charH.List)
	api.POST("/characters", charH.Create)
	api.PUT("/characters/:id", charH.Update)
	api.DELETE("/characters/:id", charH.Delete)

	return r
}
