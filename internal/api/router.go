package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kickoffkings/draft-engine/internal/api/handlers"
	"github.com/kickoffkings/draft-engine/internal/api/middleware"
	"github.com/kickoffkings/draft-engine/internal/draft"
	"github.com/kickoffkings/draft-engine/internal/services"
	"github.com/kickoffkings/draft-engine/pkg/config"
	"github.com/kickoffkings/draft-engine/pkg/database"
)

// Dependencies carries the wired services the routes need.
type Dependencies struct {
	DB              *database.DB
	Cache           *services.CacheService
	PlayerCache     *services.PlayerCacheService
	Collector       *services.CollectorService
	Recommendations *services.RecommendationService
	Sessions        *services.SessionService
	Hub             *services.DraftHub
	Alerts          *services.AlertService
	Refresher       *services.RefresherService
	Rules           draft.ScoringRules
	Logger          *logrus.Logger
}

// SetupRoutes configures all API routes on the given router group.
func SetupRoutes(group *gin.RouterGroup, cfg *config.Config, deps Dependencies) {
	recommendationHandler := handlers.NewRecommendationHandler(deps.Recommendations, cfg.ResultLimit, deps.Logger)
	sessionHandler := handlers.NewSessionHandler(deps.Sessions, deps.Hub, deps.Alerts, cfg.SeasonYear, deps.Logger)
	cacheHandler := handlers.NewCacheHandler(deps.PlayerCache, deps.Refresher, cfg.SeasonYear, deps.Logger)
	playerHandler := handlers.NewPlayerHandler(deps.PlayerCache, deps.Rules, deps.Logger)
	scoringHandler := handlers.NewScoringHandler(deps.Rules, cfg.TargetGames)
	exportHandler := handlers.NewExportHandler(deps.Recommendations, deps.Logger)

	// Board endpoints are open; a token upgrades the response.
	group.POST("/recommendations", middleware.OptionalAuth(cfg.JWTSecret), recommendationHandler.GetRecommendations)
	group.GET("/predictions", recommendationHandler.GetPredictions)
	group.GET("/predictions/export", exportHandler.ExportPredictions)
	group.GET("/players", playerHandler.ListPlayers)
	group.GET("/players/:name", playerHandler.GetPlayer)
	group.GET("/scoring", scoringHandler.GetScoringRules)

	// Draft sessions belong to a user.
	sessionGroup := group.Group("/sessions")
	sessionGroup.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		sessionGroup.POST("", sessionHandler.CreateSession)
		sessionGroup.GET("", sessionHandler.ListSessions)
		sessionGroup.GET("/:id", sessionHandler.GetSession)
		sessionGroup.DELETE("/:id", sessionHandler.DeleteSession)
		sessionGroup.POST("/:id/picks", sessionHandler.RecordPicks)
		sessionGroup.DELETE("/:id/picks/:player", sessionHandler.UndoPick)
		sessionGroup.GET("/:id/ws", sessionHandler.ServeWebSocket)
	}

	// Cache administration
	adminGroup := group.Group("/cache")
	adminGroup.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		adminGroup.POST("/invalidate", cacheHandler.InvalidateCache)
	}
}

// SetupHealthRoutes registers the probes at the root, outside /api/v1.
func SetupHealthRoutes(router *gin.Engine, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Cache, deps.Collector, deps.Refresher)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/health/ready", healthHandler.GetReady)
}
