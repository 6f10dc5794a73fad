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

	"todo-app/internal/config"
	"todo-app/internal/db"
	"todo-app/internal/http/router"
	"todo-app/internal/security"
)

func main() {
	configPath := flag.String("config", "config/app.yaml", "path to the YAML config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		slog.Error("failed to initialize database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Initialize session store
	var store security.SessionStore = database
	if cfg.SessionBackend == "memory" {
		store = security.NewMemoryStore()
	}
	sessions := security.NewSessionManager(store, cfg.TTL())

	if cfg.Secret == "" {
		slog.Warn("SESSION_SECRET not set; using a random key, sessions will not survive a restart")
	}
	cookies := security.NewCookieCodec(security.CookieOptions{
		Name:     cfg.CookieName,
		Domain:   cfg.CookieDomain,
		Secure:   cfg.SecureCookie(),
		SameSite: cfg.SameSite(),
		TTL:      cfg.TTL(),
	}, []byte(cfg.Secret), []byte(cfg.EncryptionKey))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sessions.RunJanitor(ctx, 10*time.Minute)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Setup(database, sessions, cookies, cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("starting server",
			"port", cfg.Port,
			"db_driver", cfg.DBDriver,
			"session_backend", cfg.SessionBackend,
			"cors_origins", cfg.CORSOrigins,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
