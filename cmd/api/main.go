package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/justsurfingit/Agentic-Auto-Apply/internal/config"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/database"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/handlers"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/handlers/middleware"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/logger"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/services"
	"github.com/justsurfingit/Agentic-Auto-Apply/internal/store"
)

func main() {
	// 1. Configuration (+ .env)
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration: ", err)
	}

	zlog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zlog.Sync()

	// 2. Upload directories
	for _, dir := range []string{cfg.Uploads.Dir, filepath.Join(cfg.Uploads.Dir, "resumes")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			zlog.Fatal("creating upload directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	// 3. Persistent store. A connection failure is not fatal: the record
	// store degrades to the in-memory fallback and the server still runs.
	db, err := database.Connect(cfg.Database.Postgres)
	if err != nil {
		zlog.Warn("postgres unreachable, running with in-memory fallback store", zap.Error(err))
		db = nil
	} else {
		zlog.Info("postgres connected", zap.String("database", cfg.Database.Postgres.Database))
	}
	probe := database.Probe(db)

	// 4. Record store: persistent + fallback behind one router
	memStore := store.NewMemoryStore()
	var pgStore *store.PostgresStore
	if db != nil {
		pgStore = store.NewPostgresStore(db)
	}
	records := store.NewRouter(pgStore, memStore, probe, zlog)

	// 5. Core services
	appService := services.NewApplicationService(records, zlog)
	resumeService := services.NewResumeService()
	agentClient := services.NewAgentClient(cfg.Agent.URL, cfg.Agent.Timeout)
	dispatchService := services.NewDispatchService(
		appService,
		agentClient,
		resumeService,
		records,
		cfg.Agent.MaxConcurrent,
		cfg.Agent.ResumeTextLimit,
		zlog,
	)
	userService := services.NewUserService(db)
	credentialService := services.NewCredentialService(db)

	aiService, err := services.NewAIService(context.Background(), cfg.AI.GeminiAPIKey, cfg.AI.Model, zlog)
	if err != nil {
		zlog.Warn("AI service disabled", zap.Error(err))
	}

	// 6. Handlers
	appHandler := handlers.NewApplicationHandler(
		appService, dispatchService, userService, credentialService,
		cfg.Uploads.Dir, cfg.Server.PublicBaseURL, zlog,
	)
	userHandler := handlers.NewUserHandler(userService, aiService, resumeService, appHandler, zlog)
	credentialHandler := handlers.NewCredentialHandler(credentialService)

	// 7. Router & CORS
	r := gin.New()
	r.Use(gin.Recovery())
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-User-ID"}
	r.Use(cors.New(corsConfig))
	r.Use(middleware.Identity())

	// 8. Routes
	r.GET("/health", handlers.HealthCheck(probe))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/uploads", cfg.Uploads.Dir)

	api := r.Group("/api")
	{
		api.POST("/apply", appHandler.Apply)
		api.GET("/status/:id", appHandler.Status)

		api.GET("/user/profile", userHandler.GetProfile)
		api.POST("/user/profile", userHandler.UpdateProfile)
		api.POST("/user/process", userHandler.ProcessProfile)

		api.GET("/credentials", credentialHandler.List)
		api.POST("/credentials", credentialHandler.Save)
		api.DELETE("/credentials/:id", credentialHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		zlog.Fatal("server failed", zap.Error(err))
	}
}
