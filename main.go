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

	"golang.org/x/time/rate"

	"dashboardfetcher/internal/config"
	"dashboardfetcher/internal/coordinator"
	"dashboardfetcher/internal/fetcher"
	"dashboardfetcher/internal/logging"
	"dashboardfetcher/internal/ratelimit"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		logging.Warn().Strs("keys", missing).Msg("API keys not configured, affected sections fall back to other sources")
	}

	// Cancelled on SIGINT/SIGTERM for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := ratelimit.New(ratelimit.DefaultLimits())
	for name, rps := range cfg.ProviderRateLimits {
		limiter.SetLimit(ratelimit.API(name), rate.Limit(rps))
	}

	a := newApp(cfg, limiter, fetcher.ContextSleep, time.Now)

	scheduler, err := coordinator.NewScheduler(a.coord, cfg.RefreshInterval)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create scheduler")
	}
	schedulerDone, err := scheduler.Start(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to start scheduler")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           a.server(ctx).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Int("port", cfg.Port).Dur("refresh_interval", cfg.RefreshInterval).Msg("dashboard server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("received interrupt signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	<-schedulerDone
	logging.Info().Msg("shutdown complete")
}
