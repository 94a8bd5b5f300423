package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/Overland-East-Bay/itinerary-planner/internal/adapters/filestore"
	"github.com/Overland-East-Bay/itinerary-planner/internal/adapters/httpapi"
	memitineraryrepo "github.com/Overland-East-Bay/itinerary-planner/internal/adapters/memory/itineraryrepo"
	memprofilerepo "github.com/Overland-East-Bay/itinerary-planner/internal/adapters/memory/profilerepo"
	"github.com/Overland-East-Bay/itinerary-planner/internal/adapters/openrouter"
	"github.com/Overland-East-Bay/itinerary-planner/internal/adapters/postgres"
	pgitineraryrepo "github.com/Overland-East-Bay/itinerary-planner/internal/adapters/postgres/itineraryrepo"
	pgprofilerepo "github.com/Overland-East-Bay/itinerary-planner/internal/adapters/postgres/profilerepo"
	"github.com/Overland-East-Bay/itinerary-planner/internal/app/planner"
	platformclock "github.com/Overland-East-Bay/itinerary-planner/internal/platform/clock"
	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/config"
	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/logger"
	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/metrics"
	itineraryrepoport "github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/itineraryrepo"
	profilerepoport "github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/profilerepo"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(2)
	}
	log := logger.New(logger.Config{
		Format: cfg.LogFormat,
		Level:  logger.ParseLevel(cfg.LogLevel),
	})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("api exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.ServerConfig, log *slog.Logger) error {
	var (
		itins    itineraryrepoport.Repository
		profiles profilerepoport.Repository
	)
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
			return err
		}
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer pool.Close()
		itins = pgitineraryrepo.NewRepo(pool)
		profiles = pgprofilerepo.NewRepo(pool)
	default:
		itins = memitineraryrepo.NewRepo()
		profiles = memprofilerepo.NewRepo()
	}
	log.Info("storage ready", slog.String("backend", cfg.StorageBackend))

	avatars, err := filestore.NewAvatars(cfg.AvatarDir, cfg.AvatarBaseURL)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewCollector(reg)

	if cfg.OpenRouterAPIKey == "" {
		log.Warn("OPENROUTER_API_KEY not set; generation and questions will fail")
	}
	completer := openrouter.New(openrouter.Config{
		APIKey:  cfg.OpenRouterAPIKey,
		BaseURL: cfg.OpenRouterBaseURL,
		Model:   cfg.OpenRouterModel,
		AppURL:  cfg.AppURL,
		Logger:  log,
	})

	svc := planner.NewService(itins, profiles, platformclock.NewSystemClock(), planner.Options{
		Avatars:          avatars,
		Completer:        completer,
		Logger:           log,
		Metrics:          rec,
		ImageURLTemplate: cfg.ImageURLTemplate,
		AvatarMaxBytes:   cfg.AvatarMaxBytes,
	})

	var limiter *httpapi.RateLimiter
	if cfg.GenerateRatePerMin > 0 {
		limiter = httpapi.NewRateLimiter(cfg.GenerateRatePerMin)
		defer limiter.Stop()
	}

	handler := httpapi.NewRouterWithOptions(httpapi.NewServer(svc, log), httpapi.RouterOptions{
		Logger:             log,
		Metrics:            rec,
		MetricsHandler:     metrics.Handler(reg),
		AvatarHandler:      avatars.Handler(),
		AvatarPathPrefix:   avatarPathPrefix(cfg.AvatarBaseURL),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		GenerateLimiter:    limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("api listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// avatarPathPrefix is the path part of the public avatar base URL, which may be absolute.
func avatarPathPrefix(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Path == "" {
		return "/avatars"
	}
	return u.Path
}
