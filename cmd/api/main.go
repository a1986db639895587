package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/geocoder89/postboard/internal/auth"
	"github.com/geocoder89/postboard/internal/config"
	"github.com/geocoder89/postboard/internal/db"
	httpx "github.com/geocoder89/postboard/internal/http"
	"github.com/geocoder89/postboard/internal/http/handlers"
	"github.com/geocoder89/postboard/internal/http/middlewares"
	"github.com/geocoder89/postboard/internal/observability"
	"github.com/geocoder89/postboard/internal/redisclient"
	"github.com/geocoder89/postboard/internal/repo/memory"
	"github.com/geocoder89/postboard/internal/repo/postgres"
	"github.com/geocoder89/postboard/internal/security"
	"github.com/geocoder89/postboard/internal/session"
	"github.com/geocoder89/postboard/internal/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx := context.Background()

	if cfg.OtelEnabled {
		shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName: "postboard",
			Env:         cfg.Env,
			Endpoint:    cfg.OtelEndpoint,
		})
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			sctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdownTracer(sctx)
		}()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	checks := map[string]handlers.Check{}

	// user store
	var users auth.UserStore

	if cfg.UseMemoryStore() {
		log.Warn("using in-memory user store; accounts are lost on restart")
		users = memory.NewUsersRepo()
	} else {
		if cfg.DBMigrate {
			if err := db.Migrate(ctx, cfg.DBURL); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}

		pool, err := db.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()

		checks["postgres"] = pool.Ping
		users = postgres.NewUsersRepo(pool, prom)
	}

	seedCtx, cancel := config.WithTimeout(10 * time.Second)
	err := db.EnsureSeedUser(seedCtx, users, db.Seed{
		Name:     cfg.SeedUserName,
		Email:    cfg.SeedUserEmail,
		Password: cfg.SeedUserPassword,
	}, log)
	cancel()
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	// session store
	var store session.Store

	if cfg.UseRedisSessions() {
		rdb := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pctx, cancel := config.WithTimeout(3 * time.Second)
		err := rdb.Ping(pctx)
		cancel()
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}

		checks["redis"] = rdb.Ping
		store = session.NewRedisStore(rdb.Raw(), cfg.SessionTTL)
	} else {
		log.Warn("using in-memory session store")
		store = session.NewMemoryStore(cfg.SessionTTL)
	}

	sessions := middlewares.NewSessions(
		store,
		session.NewSigner(cfg.SessionSecret, cfg.SessionTTL),
		middlewares.SessionOptions{
			CookieName: cfg.SessionCookie,
			Secure:     cfg.Env == "prod",
		},
		log,
	)

	svc := auth.NewService(users, security.NewBcryptHasher(), validation.New(),
		auth.WithLogger(log),
		auth.WithRecorder(prom),
	)

	var shuttingDown atomic.Bool

	// set up routers with the log
	router := httpx.NewRouter(log, httpx.RouterDeps{
		Env:            cfg.Env,
		Auth:           svc,
		Sessions:       sessions,
		RequestTimeout: cfg.RequestTimeout,
		Checks:         checks,
		IsShuttingDown: shuttingDown.Load,
		Prom:           prom,
		Gatherer:       reg,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.
	serveErr := make(chan error, 1)

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-serveErr:
		if ok {
			return err
		}
		return nil
	case <-stop:
	}

	log.Info("server shutting down")
	shuttingDown.Store(true)

	shutdownCtx, cancelShutdown := config.WithTimeout(10 * time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}
