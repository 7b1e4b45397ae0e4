package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	httpapi "github.com/i474232898/observatory/internal/api/http"
	"github.com/i474232898/observatory/internal/config"
	"github.com/i474232898/observatory/internal/geocode"
	"github.com/i474232898/observatory/internal/logger"
	"github.com/i474232898/observatory/internal/metrics"
	"github.com/i474232898/observatory/internal/scheduler"
	"github.com/i474232898/observatory/internal/session"
	"github.com/i474232898/observatory/internal/store"
	"github.com/i474232898/observatory/internal/weather"
	"github.com/i474232898/observatory/internal/weather/providers"
)

const appName = "observatory"

func main() {
	if err := run(); err != nil {
		logger.GetLogger().Errorw("observatory stopped", "error", err)
		_ = logger.Close()
		os.Exit(1)
	}
	_ = logger.Close()
}

// run wires the service and blocks until SIGINT or SIGTERM. Deferred
// cleanup always runs before it returns.
func run() error {
	log := logger.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Fill in coordinates for configured cities that lack them.
	cities := geocode.NewResolver(cfg.GeocoderAPIKey).Resolve(cfg.Cities)
	catalog := weather.NewCatalog(cities)

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	providerMetrics := metrics.NewProviderMetrics(prometheus.DefaultRegisterer)
	opts := []providers.Option{
		providers.WithRateLimit(cfg.ProviderRateLimit, cfg.ProviderRateBurst),
		providers.WithMetrics(providerMetrics),
	}

	// Open-Meteo needs no key. The others join when their key is set.
	provs := []weather.Provider{providers.NewOpenMeteoProvider(httpClient, opts...)}
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, opts...))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey, opts...))
	}
	log.Infow("providers configured",
		"count", len(provs),
		"openweather_key", logger.MaskSecret(cfg.OpenWeatherAPIKey),
		"weatherapi_key", logger.MaskSecret(cfg.WeatherAPIKey),
	)

	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	service := weather.NewService(memStore, provs,
		weather.WithCatalog(catalog),
		weather.WithDisplayZone(cfg.DisplayZone),
	)
	sessions := session.NewStore(catalog, session.WithTTL(cfg.SessionTTL))

	sched := scheduler.New(service.Locations(), cfg.FetchInterval, service)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	httpapi.RegisterOps(app, appName, prometheus.DefaultGatherer)
	httpapi.RegisterRoutes(app, service, sessions)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Warnw("fiber server stopped", "error", err)
		}
	}()
	log.Infow("server started", "port", cfg.Port, "cities", len(catalog.Cities()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
