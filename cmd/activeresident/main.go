package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"activeresident/internal/auth"
	"activeresident/internal/config"
	"activeresident/internal/live"
	"activeresident/internal/observability/logging"
	"activeresident/internal/observability/metrics"
	"activeresident/internal/service/impl"
	"activeresident/internal/storage"
	"activeresident/internal/store"
	"activeresident/internal/tasks"
	httptransport "activeresident/internal/transport/http"
	"activeresident/internal/vision"
	"activeresident/pkg/db"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := logging.NewLogger(logging.Config{
		ServiceName: "activeresident",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)

	metrics.MustRegister("activeresident")

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		slog.Error("database open failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := store.New(gdb)
	if err := st.AutoMigrate(ctx); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	blobs, err := openStorage(ctx, cfg)
	if err != nil {
		slog.Error("photo storage init failed", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}

	hub := live.NewHub()
	dispatcher := tasks.NewDispatcher(cfg.TaskQueueSize, cfg.TaskWorkers)

	signer := auth.NewSigner([]byte(cfg.SigningKey), cfg.Issuer, cfg.AccessTTL, cfg.RefreshTTL)

	userSvc := impl.NewUserServiceImpl(st, signer)
	notifSvc := impl.NewNotificationServiceImpl(st)
	assessSvc := impl.NewAssessServiceImpl(st, blobs, vision.NewClient(cfg.VisionEndpoint, cfg.VisionAPIKey), hub)

	reportSvc := impl.NewReportServiceImpl(st, blobs, hub, dispatcher)
	reportSvc.Notifier = notifSvc
	if cfg.VisionAPIKey != "" {
		reportSvc.Assessor = assessSvc
	} else {
		slog.Warn("vision api key missing, photo assessment disabled")
	}

	voteSvc := impl.NewVoteServiceImpl(st, hub, dispatcher)
	voteSvc.Notifier = notifSvc

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Signer:         signer,
		Resolver:       userSvc,
		Users:          userSvc,
		Reports:        reportSvc,
		Votes:          voteSvc,
		Notifications:  notifSvc,
		Hub:            hub,
		AllowedOrigins: cfg.AllowedOrigins,
		AuthRateLimit:  cfg.AuthRateLimit,
	})

	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		dispatcher.Run(ctx)
	}()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown", "error", err)
	}

	// The dispatcher drains queued jobs before returning.
	select {
	case <-dispatcherDone:
	case <-time.After(15 * time.Second):
		slog.Warn("task dispatcher drain timed out")
	}
}

func openStorage(ctx context.Context, cfg config.Config) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case "s3":
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Endpoint:       cfg.S3Endpoint,
			Region:         cfg.S3Region,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			ForcePathStyle: cfg.S3PathStyle,
			Bucket:         cfg.S3Bucket,
		})
		if err != nil {
			return nil, err
		}
		if err := s3.Health(ctx); err != nil {
			return nil, err
		}
		return s3, nil
	default:
		return storage.NewLocal(cfg.PhotoDir)
	}
}
