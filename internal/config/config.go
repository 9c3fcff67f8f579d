package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// AppConfig is the full configuration surface. Everything is optional in the
// environment; the defaults below are the documented ones.
type AppConfig struct {
	// Upstream API endpoints.
	WeatherBaseURL   string `validate:"required,url"`
	GeocodingBaseURL string `validate:"required,url"`

	// Outbound request discipline.
	RequestTimeout time.Duration `validate:"gt=0"`
	RetryAttempts  int           `validate:"gte=1"`
	DailyQuota     int           `validate:"gte=0"`

	// Cache sizing and freshness.
	CacheBackend     string        `validate:"oneof=memory redis"`
	RedisURL         string        `validate:"required_if=CacheBackend redis,omitempty,uri"`
	WeatherCacheTTL  time.Duration `validate:"gt=0"`
	LocationCacheTTL time.Duration `validate:"gt=0"`
	MaxCacheSize     int           `validate:"gte=1"`

	// Forecast shape.
	ForecastDays int `validate:"gte=1,lte=16"`

	// Default coordinates, used by the optional prefetch job.
	DefaultLatitude  float64 `validate:"gte=-90,lte=90"`
	DefaultLongitude float64 `validate:"gte=-180,lte=180"`

	// Background jobs. PrefetchInterval of zero disables prefetching.
	CleanupInterval  time.Duration `validate:"gt=0"`
	PrefetchInterval time.Duration `validate:"gte=0"`

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		WeatherBaseURL:   getenvDefault("WEATHER_API_URL", "https://api.open-meteo.com/v1"),
		GeocodingBaseURL: getenvDefault("GEOCODING_API_URL", "https://geocoding-api.open-meteo.com/v1"),
		RetryAttempts:    getenvInt("API_RETRY_ATTEMPTS", 3),
		DailyQuota:       getenvInt("API_DAILY_QUOTA", 10000),
		CacheBackend:     getenvDefault("CACHE_BACKEND", "memory"),
		RedisURL:         os.Getenv("REDIS_URL"),
		MaxCacheSize:     getenvInt("MAX_CACHE_SIZE", 100),
		ForecastDays:     getenvInt("FORECAST_DAYS", 7),
		DefaultLatitude:  getenvFloat("DEFAULT_LAT", 50.0755),
		DefaultLongitude: getenvFloat("DEFAULT_LON", 14.4378),
		Port:             getenvDefault("PORT", "8080"),
	}

	var err error
	if cfg.RequestTimeout, err = getenvDuration("API_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.WeatherCacheTTL, err = getenvDuration("WEATHER_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.LocationCacheTTL, err = getenvDuration("LOCATION_CACHE_TTL", 60*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CleanupInterval, err = getenvDuration("CACHE_CLEANUP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.PrefetchInterval, err = getenvDuration("PREFETCH_INTERVAL", 0); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
