package api

import (
	"tracker-backend/internal/api/handlers"
	"tracker-backend/internal/api/middleware"
	"tracker-backend/pkg/config"
	"tracker-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type routeRegistrar interface {
	RegisterRoutes(r gin.IRouter)
}

func NewRouter(
	cfg *config.ServerConfig,
	taskHandler *handlers.TaskHandler,
	teamHandler *handlers.TeamHandler,
	projectHandler *handlers.ProjectHandler,
	whiteboardHandler *handlers.WhiteboardHandler,
	statusHandler *handlers.StatusHandler,
	logger *logger.Logger,
) *gin.Engine {
	log := logger.GetLogger("router")

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger.GetLogger("http")),
		middleware.CORS(cfg.Server.CORS.AllowedOrigins),
	)

	r.GET("/healthz", statusHandler.Health)

	// 业务路由挂载在 base path 下
	api := r.Group(cfg.Server.BasePath)
	for _, h := range []routeRegistrar{
		taskHandler,
		teamHandler,
		projectHandler,
		whiteboardHandler,
		statusHandler,
	} {
		h.RegisterRoutes(api)
	}

	log.Debug().
		Str("base_path", cfg.Server.BasePath).
		Strs("cors_origins", cfg.Server.CORS.AllowedOrigins).
		Msg("Router initialized")
	return r
}
