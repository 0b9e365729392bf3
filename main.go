package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"datadeck/agents"
	"datadeck/ai"
	"datadeck/cache"
	"datadeck/config"
	_ "datadeck/docs" // Swagger docs
	"datadeck/genie"
	"datadeck/handlers"
	"datadeck/service"
	"datadeck/warehouse"
)

func main() {
	cfg := config.Load()

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("refusing to start", "error", err)
		os.Exit(1)
	}

	// Result cache: only the pre-AI answer triple is cached; analysis and
	// visualization are regenerated on every request.
	resultCache := cache.New(cfg.CacheMaxEntries, cfg.CacheTTL, cfg.EnableQueryCaching)

	llmClient := ai.New(cfg.LLM.APIURL, cfg.LLM.APIKey, cfg.LLM.ModelName, log.With("component", "ai"))
	genieClient := genie.New(cfg.Genie.BaseURL, cfg.Genie.APIToken, cfg.Genie.SpaceID, log.With("component", "genie"))

	warehouseService, err := warehouse.New(cfg.Warehouse, cfg.MaxQueryResults, cfg.QueryTimeout, log.With("component", "warehouse"))
	if err != nil {
		log.Error("failed to initialize warehouse service", "error", err)
		os.Exit(1)
	}
	defer warehouseService.Close()

	analysisAgent := agents.NewAnalysisAgent(llmClient, cfg.AnalysisTimeout, log.With("component", "analysis"))
	vizAgent := agents.NewVisualizationAgent(llmClient, cfg.VisualizationTimeout, log.With("component", "visualization"))
	coordinator := agents.NewCoordinator(analysisAgent, vizAgent, log.With("component", "coordinator"))

	genieService := service.NewGenieService(genieClient, warehouseService, resultCache, cfg.SQLGenTimeout, log.With("component", "genie_service"))
	chatService := service.NewChatService(llmClient, vizAgent, cfg.ChatTimeout, log.With("component", "chat"))

	h := handlers.New(genieService, chatService, coordinator, warehouseService, log)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	r.Use(cors.New(corsConfig))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Routes
	r.GET("/health", h.HealthHandler)
	r.POST("/api/genie/ask", h.AskQuestionHandler)
	r.GET("/api/genie/suggestions", h.SuggestionsHandler)
	r.POST("/api/genie/cancel/:query_id", h.CancelQueryHandler)
	r.POST("/api/genie/chat", h.ChatHandler)

	// Mock tool endpoints
	r.GET("/api/tools/competitor-pricing", h.CompetitorPricingHandler)
	r.GET("/api/tools/market-trend", h.MarketTrendHandler)

	log.Info("server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	}))
}
