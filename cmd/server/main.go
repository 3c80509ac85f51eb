package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pggpgg/stfc-optimizer/internal/auth"
	"github.com/pggpgg/stfc-optimizer/internal/config"
	"github.com/pggpgg/stfc-optimizer/internal/handler"
	"github.com/pggpgg/stfc-optimizer/internal/logger"
	"github.com/pggpgg/stfc-optimizer/internal/middleware"
	"github.com/pggpgg/stfc-optimizer/internal/repository"
	"github.com/pggpgg/stfc-optimizer/internal/repository/postgres"
	redisrepo "github.com/pggpgg/stfc-optimizer/internal/repository/redis"
	"github.com/pggpgg/stfc-optimizer/internal/service"
)

func main() {
	logger.Init()
	cfg := config.Load()
	log.Info().Str("databaseURL", cfg.DatabaseURL).Msg("Config loaded")

	// Database
	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()

	// Redis
	redisClient, err := redisrepo.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis connection failed")
	}
	defer redisClient.Close()

	// Repos
	userRepo := postgres.NewUserRepo(db)
	jobRepo := postgres.NewJobRepo(db)
	catalogRepo := postgres.NewCatalogRepo(db)
	var jobCache repository.JobCache = redisClient

	// Catalog registry (shared, read-only, loaded once from Postgres)
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	registry, err := service.LoadRegistry(bootCtx, catalogRepo)
	bootCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog registry")
	}

	// Auth
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret)
	googleOAuth := auth.NewGoogleOAuth(
		os.Getenv("GOOGLE_CLIENT_ID"),
		os.Getenv("GOOGLE_CLIENT_SECRET"),
		os.Getenv("GOOGLE_REDIRECT_URL"),
	)

	// WebSocket hub
	wsHub := handler.NewHub()

	// Services
	jobSvc := service.NewJobService(jobRepo, jobCache, registry, wsHub)
	worker := service.NewWorker(jobSvc, jobCache)

	// Handlers
	authHandler := handler.NewAuthHandler(googleOAuth, jwtMgr, userRepo)
	userHandler := handler.NewUserHandler(userRepo)
	jobHandler := handler.NewJobHandler(jobSvc)
	catalogHandler := handler.NewCatalogHandler(catalogRepo)
	wsHandler := handler.NewWSHandler(wsHub, jwtMgr)

	// Router
	mux := http.NewServeMux()
	authMw := auth.Middleware(jwtMgr)

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth (public)
	mux.HandleFunc("GET /auth/google/login", authHandler.GoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)
	mux.HandleFunc("POST /auth/refresh", authHandler.RefreshToken)
	mux.HandleFunc("GET /auth/dev", authHandler.DevLogin)

	// Protected API routes
	api := http.NewServeMux()
	api.HandleFunc("GET /users/me", userHandler.GetMe)
	api.HandleFunc("PATCH /users/me", userHandler.UpdateMe)
	api.HandleFunc("POST /jobs", jobHandler.SubmitJob)
	api.HandleFunc("GET /jobs", jobHandler.ListJobs)
	api.HandleFunc("GET /jobs/{id}", jobHandler.GetJob)
	api.HandleFunc("GET /jobs/{id}/results", jobHandler.GetResults)
	api.HandleFunc("GET /catalog/ships", catalogHandler.ListShips)
	api.HandleFunc("GET /catalog/hostiles", catalogHandler.ListHostiles)
	api.HandleFunc("GET /catalog/officers", catalogHandler.ListOfficers)

	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", authMw(api)))

	// WebSocket (auth via query param, not middleware)
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	// Apply global middleware
	root := middleware.Chain(mux, middleware.Logger, middleware.CORS("*"), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Worker loop (picks up queued jobs and runs the optimizer)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
