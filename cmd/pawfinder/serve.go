package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pawfinder/web/internal/cache"
	"pawfinder/web/internal/catalog"
	"pawfinder/web/internal/config"
	"pawfinder/web/internal/database"
	"pawfinder/web/internal/handlers"
	"pawfinder/web/internal/jobs"
	"pawfinder/web/internal/log"
	"pawfinder/web/internal/repository"
	"pawfinder/web/internal/security"
	"pawfinder/web/internal/server"
	"pawfinder/web/internal/service"
	"pawfinder/web/internal/web"
)

func loadConfig(path string) (*config.AppConfig, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func migrate(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := log.New(cfg.Environment)

	db, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	return applySchema(ctx, db, logger)
}

func applySchema(ctx context.Context, db *pgxpool.Pool, logger zerolog.Logger) error {
	applied, err := database.Migrate(ctx, db)
	for _, name := range applied {
		logger.Info().Str("migration", name).Msg("migration applied")
	}
	return err
}

func serve(ctx context.Context, configPath string, migrateFirst bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger := log.New(cfg.Environment)

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer dbPool.Close()

	if migrateFirst {
		if err := applySchema(ctx, dbPool, logger); err != nil {
			return err
		}
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}()

	views, err := web.Templates()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Catalog.Timeout}
	tokens := catalog.NewTokenStore(cfg.Catalog.ClientID, cfg.Catalog.ClientSecret, cfg.Catalog.TokenURL, httpClient, logger)
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, tokens, httpClient, logger)

	auth, handlerSet := wire(cfg, logger, dbPool, redisClient, tokens, catalogClient)
	httpServer := server.NewHTTPServer(cfg, logger, views, auth, handlerSet)

	scheduler := jobs.NewScheduler(tokens, cfg.Catalog.RefreshInterval, cfg.Catalog.Timeout, logger)
	if err := scheduler.Start(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	return waitForShutdown(ctx, logger, httpServer, scheduler, errCh)
}

func wire(
	cfg *config.AppConfig,
	logger zerolog.Logger,
	db *pgxpool.Pool,
	redisClient *redis.Client,
	tokens *catalog.TokenStore,
	catalogClient *catalog.Client,
) (*service.AuthService, handlers.HandlerSet) {
	users := repository.NewUserRepository(db)
	favorites := repository.NewFavoriteRepository(db)
	sessions := repository.NewSessionRepository(redisClient)

	hasher := security.NewHasher(security.Argon2Params{
		Time:    cfg.Security.Argon2.Time,
		Memory:  cfg.Security.Argon2.Memory,
		Threads: cfg.Security.Argon2.Threads,
	})
	validate := service.NewValidator(cfg.Security.PasswordMinScore)

	auth := service.NewAuthService(users, sessions, hasher, validate, cfg.Session.Secret, cfg.Session.TTL, logger)

	handlerSet := handlers.NewHandlerSet(handlers.Deps{
		Log:         logger,
		Environment: cfg.Environment,
		Cookie:      server.SessionCookie(cfg.Session),
		Auth:        auth,
		Profiles:    service.NewProfileService(users, sessions, hasher, validate, logger),
		Favorites:   service.NewFavoriteService(favorites, catalogClient, logger),
		Animals:     service.NewAnimalService(catalogClient, cfg.Catalog.AnimalType, cfg.Catalog.DiscoverLimit, logger),
		Database:    db,
		Cache:       handlers.PingFunc(cache.Pinger(redisClient)),
		Tokens:      tokens,
	})
	return auth, handlerSet
}

func waitForShutdown(ctx context.Context, logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, errCh <-chan error) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error().Err(serveErr).Msg("http server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("scheduler stop timed out")
	}

	logger.Info().Msg("server exited")
	return serveErr
}
