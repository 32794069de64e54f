// Package main runs the background email resend worker.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eventpass/backend/config"
	"github.com/eventpass/backend/internal/emaillogs"
	"github.com/eventpass/backend/internal/notify"
	"github.com/eventpass/backend/internal/qrcode"
	"github.com/eventpass/backend/internal/registrations"
	"github.com/eventpass/backend/internal/worker"
	"github.com/eventpass/backend/pkg/database"
	"github.com/eventpass/backend/pkg/queue"
	"github.com/eventpass/backend/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if cfg.Redis.Addr == "" {
		logger.Fatal("REDIS_ADDR is required for the worker")
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	sender := notify.NewSender(notify.ResendConfig{
		BaseURL: cfg.Email.BaseURL,
		APIKey:  cfg.Email.APIKey,
		From:    cfg.Email.From(),
		Subject: cfg.Email.Subject,
		Timeout: time.Duration(cfg.Email.TimeoutSec) * time.Second,
	}, logger)

	processor := worker.NewEmailProcessor(
		registrations.NewRepository(pool),
		qrcode.NewGenerator(cfg.QRCode.SizePx, logger),
		sender,
		emaillogs.NewRepository(pool),
		queue.NewQueue(rdb.Client, logger),
		cfg.Email.Subject,
		logger,
	)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		processor.Run(workerCtx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	select {
	case <-done:
	case <-time.After(worker.DequeueTimeout + 2*time.Second):
		logger.Warn("worker did not stop in time")
	}
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
