package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/dongdong-admin/internal/adapter/driven/adminapi"
	redisadapter "github.com/ericfisherdev/dongdong-admin/internal/adapter/driven/redis"
	"github.com/ericfisherdev/dongdong-admin/internal/adapter/driven/slotcrypt"
	sqliteadapter "github.com/ericfisherdev/dongdong-admin/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/dongdong-admin/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/dongdong-admin/internal/adapter/driving/web"
	"github.com/ericfisherdev/dongdong-admin/internal/application"
	"github.com/ericfisherdev/dongdong-admin/internal/config"
	"github.com/ericfisherdev/dongdong-admin/internal/domain/port/driven"
)

const sweepInterval = time.Hour

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"api_url", cfg.APIURL,
		"session_backend", cfg.SessionBackend,
		"session_ttl", cfg.SessionTTL,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Credential slot storage.
	sealer, err := newSealer(cfg)
	if err != nil {
		return err
	}
	slots, storage, closeStore, err := openSlotStore(ctx, cfg, sealer)
	if err != nil {
		return err
	}
	defer closeStore()

	// 4. Gateway client and services.
	api := adminapi.NewClient(adminapi.Options{
		Context:    adminapi.DetectContext(),
		BackendURL: cfg.APIURL,
		Timeout:    cfg.APITimeout,
		Logger:     logger,
	})
	slog.Info("admin api client created", "base_url", api.BaseURL(), "timeout", cfg.APITimeout)

	authSvc := application.NewAuthService(api, cfg.LoginDomain)
	consoleSvc := application.NewConsoleService(api)

	// 5. Routes.
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(storage, cfg.SessionBackend, api.BaseURL(), logger))

	proxy, err := webhandler.NewProxy(cfg.APIURL, logger)
	if err != nil {
		return err
	}
	webhandler.RegisterProxyRoutes(mux, proxy)

	webHandler := webhandler.NewHandler(authSvc, consoleSvc, slots, webhandler.Options{
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: cfg.SecureCookies,
	}, logger)
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.APITimeout + 15*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("dongdongadmin started", "listen_addr", cfg.ListenAddr)

	// 6. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
}

// newSealer builds the at-rest cipher for credential slots. Without a
// configured key a random one is used and sessions do not survive a restart.
func newSealer(cfg *config.Config) (*slotcrypt.Sealer, error) {
	key, err := slotcrypt.ParseKey(cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("DDADMIN_SECRET_KEY: %w", err)
	}
	if key == nil {
		slog.Warn("DDADMIN_SECRET_KEY not set, using an ephemeral key; operators must sign in again after restart")
		if key, err = slotcrypt.RandomKey(); err != nil {
			return nil, err
		}
	}
	return slotcrypt.New(key)
}

// openSlotStore wires the configured session backend. The returned Pinger
// feeds /healthz and the func releases the backend's connections.
func openSlotStore(ctx context.Context, cfg *config.Config, sealer *slotcrypt.Sealer) (driven.SlotStore, httphandler.Pinger, func(), error) {
	if cfg.UsesRedis() {
		client, err := redisadapter.Connect(ctx, redisadapter.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, nil, nil, err
		}
		slog.Info("redis connected", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)

		ping := httphandler.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
		closeFn := func() {
			if err := client.Close(); err != nil {
				slog.Error("error closing redis", "error", err)
			}
		}
		return redisadapter.NewSlotRepo(client, sealer, cfg.SessionTTL), ping, closeFn, nil
	}

	// Dual reader/writer with WAL mode.
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}
	slog.Info("database opened", "path", cfg.DBPath)

	version, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	slog.Info("migrations complete", "version", version)

	repo := sqliteadapter.NewSlotRepo(db, sealer)

	// SQLite has no expiry, so abandoned sessions are swept periodically.
	janitor := application.NewSessionJanitor(repo, cfg.SessionTTL, sweepInterval)
	go janitor.Start(ctx)

	return repo, db, closeFn, nil
}
