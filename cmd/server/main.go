package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/kickoffkings/draft-engine/internal/api"
	"github.com/kickoffkings/draft-engine/internal/api/middleware"
	"github.com/kickoffkings/draft-engine/internal/draft"
	"github.com/kickoffkings/draft-engine/internal/providers"
	"github.com/kickoffkings/draft-engine/internal/services"
	"github.com/kickoffkings/draft-engine/pkg/config"
	"github.com/kickoffkings/draft-engine/pkg/database"
	"github.com/kickoffkings/draft-engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	log := logger.GetLogger()
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis. An empty REDIS_URL runs the hot tier in process,
	// which is enough for a single instance.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		log.Info("REDIS_URL not set, using in-process cache tier")
	}

	// Core services
	cacheService := services.NewCacheService(redisClient)

	primary := providers.NewStatsAPIClient(cfg.StatsAPIURL, cfg.StatsAPITimeout, cfg.StatsRateLimit, log)
	collector := services.NewCollectorService(primary, providers.NewSampleProvider(), cfg.CircuitBreakerThreshold, log)

	rules := draft.DefaultScoringRules()
	predictor := draft.NewPredictor(cfg.TargetGames)
	playerCache := services.NewPlayerCacheService(
		db,
		cacheService,
		collector,
		rules,
		predictor,
		cfg.CacheTTL,
		cfg.SeasonYear,
		log,
	)

	sessionService := services.NewSessionService(db, log)
	subscriptionService := services.NewSubscriptionService(cfg.SupabaseURL, cfg.SupabaseServiceKey, cacheService, cfg.TierCacheTTL, log)

	claudeClient := services.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnalysisMaxTokens, log)
	analysisService := services.NewAnalysisService(claudeClient, cfg.AnalysisTimeout, log)

	recommendationService := services.NewRecommendationService(
		playerCache,
		sessionService,
		subscriptionService,
		analysisService,
		cfg.SeasonYear,
		log,
	)

	// Draft event hub
	hub := services.NewDraftHub(log)
	go hub.Run()

	// SMS alerts
	var smsSender services.SMSSender
	if cfg.SMSProvider == "twilio" && cfg.TwilioAccountSID != "" {
		smsSender = services.NewTwilioSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, log)
	} else {
		smsSender = services.NewMockSMSSender(log)
	}
	alertLimiter := services.NewAlertRateLimiter(cfg.SMSMaxPerWindow, cfg.SMSWindow)
	alertService := services.NewAlertService(smsSender, subscriptionService, alertLimiter, log)

	// Scheduled refresh
	var refresher *services.RefresherService
	if cfg.EnableBackgroundJobs {
		refreshInterval, err := time.ParseDuration(cfg.RefreshInterval)
		if err != nil {
			log.Warnf("Invalid refresh interval, using default 6h: %v", err)
			refreshInterval = 6 * time.Hour
		}
		refresher = services.NewRefresherService(playerCache, refreshInterval, cfg.SeasonYear, log)
		if err := refresher.Start(); err != nil {
			log.Errorf("Failed to start season refresher: %v", err)
		}
		defer refresher.Stop()
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	deps := api.Dependencies{
		DB:              db,
		Cache:           cacheService,
		PlayerCache:     playerCache,
		Collector:       collector,
		Recommendations: recommendationService,
		Sessions:        sessionService,
		Hub:             hub,
		Alerts:          alertService,
		Refresher:       refresher,
		Rules:           rules,
		Logger:          log,
	}

	api.SetupHealthRoutes(router, deps)

	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, cfg, deps)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.WithService("draft-engine").WithField("port", cfg.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.WithService("draft-engine").Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	logger.WithService("draft-engine").Info("Server exited")
}
