package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadportal_backend/internal/email"
	"leadportal_backend/internal/geoip"
	apphttp "leadportal_backend/internal/http"
	"leadportal_backend/internal/http/router"
	"leadportal_backend/internal/leads"
	"leadportal_backend/internal/leads/intake"
	"leadportal_backend/platform/config"
	"leadportal_backend/platform/db"
	"leadportal_backend/platform/httpkit"
	"leadportal_backend/platform/logger"
	"leadportal_backend/platform/metrics"
	"leadportal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if cfg.ShouldRunMigrations() {
		if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.RunMigrations(ctx, pool)
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	leadMetrics := metrics.NewLeadMetrics(registry)

	intakeLimiter, closeLimiter := initIntakeLimiter(cfg, log)
	if closeLimiter != nil {
		defer closeLimiter()
	}

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsModule := leads.NewModule(
		pool,
		geoip.New(cfg),
		intake.NewNotifier(sender, cfg.GetLeadNotificationTo()),
		val,
		cfg,
		log,
		leadMetrics,
	)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:        cfg,
		Logger:        log,
		Health:        pool,
		Metrics:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		IntakeLimiter: intakeLimiter,
		Modules:       []apphttp.Module{leadsModule},
	}

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("server stopped")
}

// initIntakeLimiter shares the public form quota across instances through
// Redis when REDIS_URL is set and falls back to a per-process limiter.
func initIntakeLimiter(cfg config.RateLimitConfig, log *logger.Logger) (httpkit.Limiter, func()) {
	perMinute := cfg.GetIntakeRateLimitPerMinute()
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; intake rate limit is per instance")
		return httpkit.NewPerMinuteLimiter(perMinute, log), nil
	}

	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL; falling back to in-memory rate limit", "error", err)
		return httpkit.NewPerMinuteLimiter(perMinute, log), nil
	}

	client := redis.NewClient(opts)
	return httpkit.NewRedisRateLimiter(client, "lead-intake", perMinute, time.Minute, log), func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
