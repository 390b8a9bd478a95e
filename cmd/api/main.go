package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/oneq/backend/internal/api/handlers"
	cacheredis "github.com/oneq/backend/internal/cache/redis"
	"github.com/oneq/backend/internal/dialogue"
	"github.com/oneq/backend/internal/llm"
	"github.com/oneq/backend/internal/metrics"
	"github.com/oneq/backend/internal/middleware/ratelimit"
	"github.com/oneq/backend/internal/middleware/security"
	"github.com/oneq/backend/internal/storage/sqlite"
	"github.com/oneq/backend/pkg/config"
	appLogger "github.com/oneq/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting OneQ quote API server")
	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	if err := sqliteClient.InitSchema(); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}
	if cfg.SQLite.SeedVendors {
		if err := sqlite.SeedVendors(sqliteClient); err != nil {
			appLogger.Warn("Failed to seed vendors", zap.Error(err))
		}
	}

	var (
		rankCache   dialogue.RankingCache
		invalidator handlers.RankingInvalidator
	)
	if cfg.Redis.Enabled {
		redisClient, err := cacheredis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSec)*time.Second,
		)
		if err != nil {
			appLogger.Warn("Redis unavailable, ranking cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			rankCache = redisClient
			invalidator = redisClient
		}
	}

	var nlu llm.Capability
	if cfg.LLM.APIKey != "" {
		nlu = llm.NewClient(
			cfg.LLM.APIKey,
			cfg.LLM.Model,
			cfg.LLM.Temperature,
			cfg.LLM.MaxTokens,
			cfg.LLM.TimeoutSec,
		)
	} else {
		appLogger.Warn("No LLM API key configured, using deterministic fallback")
		nlu = llm.NewFallback()
	}

	sessions := dialogue.NewManager(sqliteClient)
	orch := dialogue.NewOrchestrator(nlu, llm.NewExplainCache(), sqliteClient, rankCache, sqliteClient)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Session-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		IsDevelopment: cfg.Logging.Level == "debug",
	}))

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()

	chatHandler := handlers.NewChatHandler(sessions, orch)
	vendorHandler := handlers.NewVendorHandler(sqliteClient, invalidator)
	quoteHandler := handlers.NewQuoteHandler(sqliteClient, rankCache, sqliteClient)
	wsHandler := handlers.NewWebSocketHandler(sessions, orch)

	api := app.Group("/api/v1", limiter.Middleware())

	api.Post("/chat/sessions", chatHandler.CreateSession)
	api.Post("/chat/sessions/:id/messages", chatHandler.HandleMessage)
	api.Post("/chat/sessions/:id/reset", chatHandler.ResetSession)

	api.Get("/vendors", vendorHandler.ListVendors)
	api.Get("/vendors/:id", vendorHandler.GetVendor)
	api.Post("/vendors", vendorHandler.RegisterVendor)
	api.Post("/vendors/:id/approve", vendorHandler.ApproveVendor)

	api.Post("/rank", quoteHandler.HandleRank)
	api.Get("/quotes/history", quoteHandler.GetQuoteHistory)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat", websocket.New(wsHandler.HandleConnection))

	app.Get("/metrics", metrics.MetricsHandler())

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
