// Package main runs the event registration HTTP server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eventpass/backend/config"
	"github.com/eventpass/backend/internal/emaillogs"
	"github.com/eventpass/backend/internal/middleware"
	"github.com/eventpass/backend/internal/notify"
	"github.com/eventpass/backend/internal/qrcode"
	"github.com/eventpass/backend/internal/registrations"
	"github.com/eventpass/backend/internal/worker"
	"github.com/eventpass/backend/pkg/database"
	"github.com/eventpass/backend/pkg/queue"
	"github.com/eventpass/backend/pkg/redis"
	"github.com/eventpass/backend/pkg/response"
	"github.com/eventpass/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()
	} else {
		logger.Warn("REDIS_ADDR not set: stats cache and email resend disabled")
	}

	generator := qrcode.NewGenerator(cfg.QRCode.SizePx, logger)
	sender := notify.NewSender(resendConfig(cfg), logger)

	registrationRepo := registrations.NewRepository(pool)
	emailLogsRepo := emaillogs.NewRepository(pool)

	svc := registrations.NewService(registrationRepo, generator, sender, cfg.Email.Subject, logger)
	svc.SetDeliveryRecorder(emailLogsRepo)
	if cfg.AWS.QRBucket != "" {
		s3Client, err := storage.NewS3(ctx, storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			QRBucket:        cfg.AWS.QRBucket,
		}, logger)
		if err != nil {
			logger.Warn("s3 archive disabled", zap.Error(err))
		} else {
			svc.SetArchiver(s3Client)
		}
	}

	var statsClient *goredis.Client
	var resendQueue emaillogs.Enqueuer
	var processor *worker.EmailProcessor
	if rdb != nil {
		statsClient = rdb.Client
		jobQueue := queue.NewQueue(rdb.Client, logger)
		resendQueue = jobQueue
		processor = worker.NewEmailProcessor(registrationRepo, generator, sender, emailLogsRepo, jobQueue, cfg.Email.Subject, logger)
	}
	stats := registrations.NewStatsCache(registrationRepo, statsClient, cfg.Stats.CacheTTL(), cfg.Stats.Location(), logger)

	registrationHandler := registrations.NewHandler(svc, registrationRepo, stats, generator, logger)
	emailLogsHandler := emaillogs.NewHandler(emailLogsRepo, registrationExists(registrationRepo), resendQueue, logger)

	router := newRouter(cfg, pool, registrationHandler, emailLogsHandler, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Background worker (staff-requested email resends)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	workerDone := make(chan struct{})
	if processor != nil {
		go func() {
			defer close(workerDone)
			processor.Run(workerCtx)
		}()
	} else {
		close(workerDone)
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		logger.Warn("email worker did not stop in time")
	}
	logger.Info("server stopped")
}

func newRouter(cfg *config.Config, pool *pgxpool.Pool, regs *registrations.Handler, emails *emaillogs.Handler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			response.ServiceUnavailable(c, "database unavailable")
			return
		}
		response.OK(c, gin.H{"status": "ok"})
	})

	group := router.Group("/registrations")
	regs.RegisterRoutes(group)
	group.GET("/:id/emails", emails.ListByRegistration)
	group.POST("/:id/emails/resend", emails.Resend)
	return router
}

func resendConfig(cfg *config.Config) notify.ResendConfig {
	return notify.ResendConfig{
		BaseURL: cfg.Email.BaseURL,
		APIKey:  cfg.Email.APIKey,
		From:    cfg.Email.From(),
		Subject: cfg.Email.Subject,
		Timeout: time.Duration(cfg.Email.TimeoutSec) * time.Second,
	}
}

func registrationExists(store registrations.Store) emaillogs.RegistrationExists {
	return func(ctx context.Context, id uuid.UUID) error {
		_, err := store.FindByID(ctx, id)
		if errors.Is(err, registrations.ErrNotFound) {
			return emaillogs.ErrRegistrationNotFound
		}
		return err
	}
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
