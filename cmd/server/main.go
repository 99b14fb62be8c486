package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/smart-health-monitoring/internal/config"
	"github.com/iliyamo/smart-health-monitoring/internal/database"
	"github.com/iliyamo/smart-health-monitoring/internal/handler"
	"github.com/iliyamo/smart-health-monitoring/internal/queue"
	"github.com/iliyamo/smart-health-monitoring/internal/repository"
	"github.com/iliyamo/smart-health-monitoring/internal/router"
	"github.com/iliyamo/smart-health-monitoring/internal/service"
)

func main() {
	boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if err := config.LoadDotEnv(""); err != nil {
		boot.Fatal().Err(err).Msg("failed to read .env")
	}
	cfg, err := config.Load()
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	logger := config.NewLogger(cfg)

	db, err := database.Open(cfg.Database())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	// An unreachable database is not fatal: each request reports it instead.
	if err := database.Ping(context.Background(), db, 5*time.Second); err != nil {
		logger.Warn().Err(err).Str("host", cfg.DBHost).Str("schema", cfg.DBName).Msg("database not reachable at startup")
	} else {
		logger.Info().Str("host", cfg.DBHost).Str("schema", cfg.DBName).Msg("connected to database")
	}

	var rdb *redis.Client
	if cfg.RateLimit.Enabled {
		if rdb = config.NewRedisClient(cfg.Redis); rdb == nil {
			logger.Warn().Str("addr", cfg.Redis.Addr).Msg("redis unavailable; rate limiting disabled")
		} else {
			defer rdb.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var publisher handler.BatchPublisher
	if cfg.Queue.PublishEnabled {
		publisher = service.NewQueuePublisher(cfg.Queue.URL, logger)
	}
	if cfg.Queue.ConsumerEnabled {
		consumer := queue.NewBatchConsumer(cfg.Queue.URL, cfg.Queue.LogDir, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("batch consumer stopped")
			}
		}()
	}

	healthData := handler.NewHealthDataHandler(
		service.NewGenerator(),
		repository.NewHealthDataRepo(db),
		publisher,
		logger,
	)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.HidePort = true
	router.UseMiddleware(e, logger)
	router.RegisterRoutes(e, db)
	router.RegisterAPI(e, healthData, cfg.RateLimit, rdb, logger)

	addr := cfg.Addr()
	go func() {
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
}
