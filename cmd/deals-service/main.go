package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mesafoods/deals/internal/api"
	"github.com/mesafoods/deals/internal/api/middleware"
	"github.com/mesafoods/deals/internal/cache"
	"github.com/mesafoods/deals/internal/config"
	"github.com/mesafoods/deals/internal/database"
	"github.com/mesafoods/deals/internal/repository"
	"github.com/mesafoods/deals/internal/service"
)

func main() {
	ctx := context.Background()

	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	// Load configuration from environment variables
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if level, err := zerolog.ParseLevel(cfg.App.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	log.Logger = log.With().Str("service", "deals-service").Logger()

	log.Info().Str("environment", cfg.App.Environment).Msg("starting deals service")

	// Initialize database connections
	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database connections")
		}
	}()

	dealRepo := repository.NewDealRepository(db.Postgres)
	usageRepo := repository.NewUsageRepository(db.Postgres)
	dealCache := cache.New(time.Duration(cfg.App.DealCacheTTLSec) * time.Second)
	dealService := service.NewDealService(dealRepo, usageRepo, dealCache)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateBurst))
	r.Mount("/", api.NewRouter(db, dealService, dealRepo))

	server := &http.Server{
		Addr:           cfg.Server.GetServerAddr(),
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
		// Use h2c so we can serve HTTP/2 without TLS
		Handler: h2c.NewHandler(r, &http2.Server{
			MaxConcurrentStreams: 1000,
		}),
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited gracefully")
}
