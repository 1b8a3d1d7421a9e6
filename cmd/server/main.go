package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"travgram/internal/auth"
	"travgram/internal/config"
	"travgram/internal/currency"
	"travgram/internal/db"
	"travgram/internal/handlers"
	"travgram/internal/kv"
	"travgram/internal/media"
	"travgram/internal/notify"
	"travgram/internal/session"
	"travgram/internal/store"
	"travgram/internal/tips"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Dev {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		os.Stderr.WriteString("invalid LOG_LEVEL: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	var (
		entities store.Store
		settings kv.Store
		dbConn   *sqlx.DB
	)
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set; using in-memory store", zap.String("settings_path", cfg.SettingsPath))
		if err := os.MkdirAll(filepath.Dir(cfg.SettingsPath), 0o700); err != nil {
			logger.Fatal("failed to create settings directory", zap.Error(err))
		}
		entities = store.NewMemoryStore()
		settings = kv.NewFileStore(cfg.SettingsPath)
	} else {
		dbConn, err = sqlx.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to open db", zap.Error(err))
		}
		dbConn.SetMaxOpenConns(10)
		dbConn.SetConnMaxLifetime(2 * time.Hour)
		if err = dbConn.PingContext(ctx); err != nil {
			logger.Fatal("failed to ping db", zap.Error(err))
		}
		if err := db.RunMigrations(ctx, dbConn); err != nil {
			logger.Fatal("failed migrations", zap.Error(err))
		}
		entities = store.NewSQLStore(dbConn)
		settings = kv.NewSQLStore(dbConn)
	}
	defer entities.Close()

	var images media.ImageStore = media.InlineStore{}
	if cfg.S3.Enabled() {
		s3, err := media.NewMinioStore(cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket, cfg.S3.UseSSL)
		if err != nil {
			logger.Fatal("failed to create object storage client", zap.Error(err))
		}
		images = s3
		logger.Info("profile images stored in object storage", zap.String("endpoint", cfg.S3.Endpoint), zap.String("bucket", cfg.S3.Bucket))
	}

	reminders := notify.NewScheduler(logger.Named("reminders"))
	defer reminders.Stop()

	sessions, err := session.NewManager(ctx, session.Deps{
		Store:     entities,
		Settings:  settings,
		Tokens:    auth.NewTokenIssuer([]byte(cfg.Session.Secret), cfg.Session.TTL),
		Hasher:    auth.NewHasher(cfg.Auth.BcryptCost),
		Images:    images,
		Notifier:  reminders,
		Logger:    logger.Named("session"),
		AutoLogin: cfg.Session.AutoLogin,
	})
	if err != nil {
		logger.Fatal("failed to start session manager", zap.Error(err))
	}
	if cfg.Debug {
		logger.Warn("debug routes enabled; DELETE /api/admin/users is unauthenticated")
	}

	router := handlers.NewRouter(handlers.RouterOptions{
		Sessions:    sessions,
		Logger:      logger.Named("http"),
		Rates:       currency.DefaultTable(),
		Tips:        tips.DefaultCatalog(),
		CORSOrigins: cfg.CORSOrigins,
		Debug:       cfg.Debug,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown initiated")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
