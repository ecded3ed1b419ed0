package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/arenapulse/anticheat-backend/internal/api/rest"
	"github.com/arenapulse/anticheat-backend/internal/infrastructure/cache"
	"github.com/arenapulse/anticheat-backend/internal/infrastructure/config"
	"github.com/arenapulse/anticheat-backend/internal/infrastructure/database"
	"github.com/arenapulse/anticheat-backend/internal/infrastructure/ingest"
	"github.com/arenapulse/anticheat-backend/internal/infrastructure/telemetry"
	"github.com/arenapulse/anticheat-backend/internal/service/anticheat"
)

func main() {
	var configPath = flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		logger.Fatal("invalid database url", zap.Error(err))
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	poolCfg.MinConns = int32(cfg.Database.MinConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Fatal("connecting to database failed", zap.Error(err))
	}
	defer pool.Close()

	repo := database.NewProfileRepository(pool, logger)
	if err := repo.Init(ctx); err != nil {
		logger.Fatal("schema bootstrap failed", zap.Error(err))
	}

	var trustCache anticheat.TrustScoreCache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// The cache is an optimization; the engine runs without it.
		logger.Warn("redis unavailable, trust cache disabled", zap.Error(err))
	} else {
		trustCache, err = cache.NewTrustCache(redisClient, cfg.Redis.TrustTTL, logger)
		if err != nil {
			logger.Fatal("creating trust cache failed", zap.Error(err))
		}
	}

	svc := anticheat.NewService(repo, trustCache, logger)

	if cfg.Kafka.Enabled {
		consumer := ingest.NewConsumer(cfg.Kafka, svc, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Error("kafka intake stopped", zap.Error(err))
			}
		}()
	}

	server := rest.NewServer(cfg, svc, logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
