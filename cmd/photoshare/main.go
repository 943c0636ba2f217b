package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/vsmolina/photoshare/internal/config"
	"github.com/vsmolina/photoshare/internal/email"
	"github.com/vsmolina/photoshare/internal/service/admin"
	"github.com/vsmolina/photoshare/internal/service/auth"
	"github.com/vsmolina/photoshare/internal/service/comments"
	"github.com/vsmolina/photoshare/internal/service/photos"
	"github.com/vsmolina/photoshare/internal/service/ratings"
	"github.com/vsmolina/photoshare/internal/service/users"
	"github.com/vsmolina/photoshare/internal/storage/minio"
	"github.com/vsmolina/photoshare/internal/storage/postgres"
	"github.com/vsmolina/photoshare/internal/storage/redis"
	transport "github.com/vsmolina/photoshare/internal/transport/http"
	"github.com/vsmolina/photoshare/internal/transport/http/handlers"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting application", "env", cfg.Env)

	// Корневой контекст по сигналам.
	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	// Подключение к БД c таймаутом.
	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	str, err := postgres.New(dbCtx, cfg.DB.DatabaseURL)
	dbCancel()
	if err != nil {
		log.Error("postgres_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer str.Close()
	log.Info("postgres_connected")

	// Чёрный список токенов (Redis).
	blacklist, err := redis.NewBlacklist(cfg.Redis.RedisURL, cfg.Redis.BlacklistPrefix)
	if err != nil {
		log.Error("redis_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("redis_connected")

	// Объектное хранилище (MinIO).
	mediaCtx, mediaCancel := context.WithTimeout(rootCtx, 10*time.Second)
	media, err := minio.New(mediaCtx, cfg)
	mediaCancel()
	if err != nil {
		log.Error("minio_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("minio_connected")

	hasher, err := auth.NewHasher(cfg.Auth.HashScheme)
	if err != nil {
		log.Error("hasher_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	// Сервисы.
	svc := handlers.Services{
		Auth:     auth.New(str, blacklist, hasher, email.NewLogSender(), cfg.Auth),
		Photos:   photos.New(str, media),
		Comments: comments.New(str, str),
		Ratings:  ratings.New(str, str),
		Admin:    admin.New(str, str),
		Users:    users.New(str, media),
	}
	log.Info("services_initialized")

	router := transport.NewRouter(svc, transport.Options{
		Logger:    log,
		Timeout:   cfg.Timeouts.Service,
		RateLimit: cfg.RateLimit,
		Media:     cfg.Media,
	})

	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})
	mux.Handle("/", router)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		log.Info("http_listen_start", "addr", httpAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)

	// Ожидание сигнала завершения или фатальной ошибки сервера.
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	// Graceful stop с таймаутом.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_force_stop", slog.String("err", err.Error()))
		_ = httpSrv.Close()
	}

	if err := blacklist.Close(); err != nil {
		log.Warn("redis_close_failed", slog.String("err", err.Error()))
	}

	log.Info("service_stopped")
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
