package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studiobid/internal/auctionapi"
	auth "studiobid/internal/authService"
	bidding "studiobid/internal/biddingService"
	"studiobid/internal/config"
	listing "studiobid/internal/listingService"
	"studiobid/internal/metrics"
	profile "studiobid/internal/profileService"
	"studiobid/internal/repository"
	"studiobid/internal/server"
	"studiobid/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := ParseArgs()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration:\n%v\n", err)
		os.Exit(2)
	}
	utils.SetLevel(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	if err := run(cfg); err != nil {
		utils.Fatal("server stopped", map[string]any{"error": err.Error()})
	}
}

func run(cfg config.Config) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	api, err := auctionapi.NewClient(cfg.API.BaseURL, cfg.API.Key,
		auctionapi.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		auctionapi.WithRateLimit(cfg.API.RatePerSec, cfg.API.RateBurst),
		auctionapi.WithMetrics(collector),
	)
	if err != nil {
		return fmt.Errorf("create auction api client: %w", err)
	}

	sessions, closeSessions, err := openSessionStore(cfg)
	if err != nil {
		return err
	}
	defer closeSessions.Close()

	router := server.SetupRouter(server.Services{
		Listings: listing.NewListingService(api, cfg.PageSize),
		Bidding:  bidding.NewBiddingService(api),
		Profiles: profile.NewProfileService(api),
		Auth:     auth.NewAuthService(api),
		Sessions: sessions,
		Session: server.SessionOptions{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Domain:     cfg.Session.CookieDomain,
			Secure:     cfg.Session.CookieSecure,
		},
		Metrics:  collector,
		Gatherer: reg,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * cfg.API.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		utils.Info("Starting StudioBid server", map[string]any{
			"addr":            cfg.ServerAddr,
			"api":             cfg.API.BaseURL,
			"session_backend": cfg.Session.Backend,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-stop:
		utils.Info("shutting down", map[string]any{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	utils.Info("server stopped gracefully", nil)
	return nil
}

// openSessionStore builds the configured session backend. The closer stops
// the memory janitor or the redis pool.
func openSessionStore(cfg config.Config) (repository.SessionDB, io.Closer, error) {
	switch cfg.Session.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}

		store := repository.NewRedisRepo(client, cfg.Session.TTL, repository.WithKeyPrefix(cfg.Redis.KeyPrefix))
		return store, client, nil
	default:
		store := repository.NewMemoryRepo(cfg.Session.TTL, cfg.Session.SweepEvery)
		return store, store, nil
	}
}
