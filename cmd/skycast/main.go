package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "skycast/internal/api/http"
	"skycast/internal/cache"
	"skycast/internal/config"
	"skycast/internal/httpx"
	"skycast/internal/scheduler"
	"skycast/internal/weather"
)

func main() {
	// Load configuration (reads .env itself).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Resilient outbound client shared by both services.
	client := httpx.NewClient(httpx.Config{
		Name:          "open-meteo",
		Timeout:       cfg.RequestTimeout,
		RetryAttempts: cfg.RetryAttempts,
		DailyQuota:    cfg.DailyQuota,
	})

	// Cache backend by configuration: bounded in-memory by default, Redis
	// when the deployment wants persistence across restarts.
	var weatherCache cache.Cache
	var sweeper scheduler.Sweeper

	switch cfg.CacheBackend {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := cache.ConnectRedis(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		defer redisClient.Close()
		weatherCache = cache.NewRedis(redisClient, "", cfg.WeatherCacheTTL)
	default:
		mem := cache.NewMemory(cfg.MaxCacheSize, cfg.WeatherCacheTTL)
		weatherCache = mem
		sweeper = mem
	}

	// Core services.
	service := weather.NewService(client, weatherCache, weather.ServiceConfig{
		BaseURL:      cfg.WeatherBaseURL,
		ForecastDays: cfg.ForecastDays,
		CacheTTL:     cfg.WeatherCacheTTL,
	})
	resolver := weather.NewResolver(client, weatherCache, weather.ResolverConfig{
		GeocodingURL: cfg.GeocodingBaseURL,
		CacheTTL:     cfg.LocationCacheTTL,
	})

	// Background cache sweep and optional prefetch.
	sched := scheduler.New(sweeper, service, cfg.CleanupInterval, cfg.PrefetchInterval,
		cfg.DefaultLatitude, cfg.DefaultLongitude)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "skycast",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "skycast",
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes.
	httpapi.RegisterRoutes(app, service, resolver)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
