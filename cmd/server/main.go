package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"gator.dev/studygator/internal/bootstrap"
	"gator.dev/studygator/internal/config"
	"gator.dev/studygator/internal/migrations"
	"gator.dev/studygator/internal/server"
	"gator.dev/studygator/pkg/database"
	"gator.dev/studygator/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	zap.ReplaceGlobals(zapLogger)

	for _, w := range cfg.Warnings {
		zapLogger.Warn(w)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			zapLogger.Error("failed to close database", zap.Error(err))
		}
	}()
	zapLogger.Info("connected to database",
		zap.String("host", cfg.DB.Host),
		zap.String("name", cfg.DB.Name),
		zap.Int("max_conns", cfg.DB.MaxConns))

	if cfg.RunMigrations {
		if err := database.Migrate(ctx, db, migrations.FS, zapLogger); err != nil {
			zapLogger.Fatal("migration failed", zap.Error(err))
		}
	}

	if cfg.SeedDemo {
		if err := bootstrap.SeedDemoData(ctx, db, cfg.InstitutionDomain, zapLogger); err != nil {
			zapLogger.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zapLogger.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			zapLogger.Warn("redis unreachable, rate limited actions will fail until it recovers", zap.Error(err))
		} else {
			zapLogger.Info("connected to redis")
		}
	} else {
		zapLogger.Info("REDIS_URL not set, rate limiting disabled")
	}

	srv, err := server.NewServer(cfg, db, redisClient, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to build server", zap.Error(err))
	}

	if err := srv.Run(ctx, cfg.ShutdownTimeout); err != nil {
		zapLogger.Error("server exited with error", zap.Error(err))
		return
	}
	zapLogger.Info("server stopped")
}
