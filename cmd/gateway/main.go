package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"krishimitra/internal/cache"
	"krishimitra/internal/config"
	"krishimitra/internal/handler"
	"krishimitra/internal/logger"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	godotenv.Load()
	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	store, err := openStore(cfg)
	if err != nil {
		slog.Error("cache store init failed", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	namespace := "krishimitra-v" + cfg.Cache.Version
	gw, err := handler.NewGateway(store, namespace, cfg.Backend.BaseURL, cfg.Timeout())
	if err != nil {
		slog.Error("gateway init failed", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := gw.Activate(ctx); err != nil {
		slog.Error("gateway activation failed", "err", err)
		cancel()
		os.Exit(1)
	}
	cancel()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	gw.RegisterRoutes(r)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("gateway starting", "addr", cfg.Addr(), "backend", cfg.Backend.BaseURL, "namespace", namespace)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("gateway failed", "err", err)
			stop()
		}
	}()

	<-sigCtx.Done()
	slog.Info("gateway stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
	// Join pending cache writes before the store closes.
	gw.Flush()
}

func openStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case "redis":
		ttl := time.Duration(cfg.Cache.Redis.TTLHours) * time.Hour
		return cache.NewRedisStore(cfg.Cache.Redis.Addr, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB, ttl), nil
	case "memory":
		return cache.NewMemoryStore(), nil
	default:
		return cache.NewSQLiteStore(cfg.Cache.Dir)
	}
}
