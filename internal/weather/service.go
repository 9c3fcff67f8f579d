package weather

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"skycast/internal/cache"
	"skycast/internal/errs"
	"skycast/internal/metrics"
)

// JSONClient fetches a JSON document into out. Satisfied by httpx.Client.
type JSONClient interface {
	GetJSON(ctx context.Context, url string, out any) error
}

// ServiceConfig carries the knobs the Service needs from the application
// configuration.
type ServiceConfig struct {
	BaseURL      string
	ForecastDays int
	CacheTTL     time.Duration
}

// Service orchestrates the weather pipeline: validate input, probe the
// cache, fetch from the provider, transform, cache, return. One network
// round trip serves both current conditions and the forecast.
type Service struct {
	client       JSONClient
	cache        cache.Cache
	baseURL      string
	forecastDays int
	cacheTTL     time.Duration
}

// NewService creates a Service with explicitly injected collaborators.
func NewService(client JSONClient, c cache.Cache, cfg ServiceConfig) *Service {
	if cfg.ForecastDays <= 0 {
		cfg.ForecastDays = 7
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &Service{
		client:       client,
		cache:        c,
		baseURL:      cfg.BaseURL,
		forecastDays: cfg.ForecastDays,
		cacheTTL:     cfg.CacheTTL,
	}
}

// Report bundles current conditions with the forecast they were fetched
// alongside.
type Report struct {
	Current  CurrentWeather  `json:"current"`
	Forecast WeatherForecast `json:"forecast"`
}

// WeatherAndForecast returns normalized current conditions and the 7-day
// forecast for the given coordinates. Validation failures surface before any
// network activity; a fresh cache entry short-circuits the fetch entirely.
func (s *Service) WeatherAndForecast(ctx context.Context, latitude, longitude float64) (*Report, error) {
	if err := ValidateCoordinates(latitude, longitude); err != nil {
		return nil, err
	}

	key := forecastKey(latitude, longitude)
	if data, ok := s.cache.Get(ctx, key); ok {
		var forecast WeatherForecast
		if err := json.Unmarshal(data, &forecast); err == nil {
			metrics.RecordCacheLookup("forecast", true)
			return &Report{Current: forecast.Current, Forecast: forecast}, nil
		}
		// A corrupted entry is a miss, never a failure.
		log.Printf("ERROR: dropping corrupted cache entry %s", key)
		s.cache.Delete(ctx, key)
	}
	metrics.RecordCacheLookup("forecast", false)

	forecast, err := s.fetchForecast(ctx, latitude, longitude)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(forecast); err == nil {
		s.cache.Set(ctx, key, data, s.cacheTTL)
	}
	if data, err := json.Marshal(forecast.Current); err == nil {
		s.cache.Set(ctx, currentKey(latitude, longitude), data, s.cacheTTL)
	}

	return &Report{Current: forecast.Current, Forecast: *forecast}, nil
}

// CurrentWeather returns just the current conditions, served from the
// current_ namespace when possible so a dashboard refresh does not
// deserialize the whole forecast.
func (s *Service) CurrentWeather(ctx context.Context, latitude, longitude float64) (*CurrentWeather, error) {
	if err := ValidateCoordinates(latitude, longitude); err != nil {
		return nil, err
	}

	key := currentKey(latitude, longitude)
	if data, ok := s.cache.Get(ctx, key); ok {
		var current CurrentWeather
		if err := json.Unmarshal(data, &current); err == nil {
			metrics.RecordCacheLookup("current", true)
			return &current, nil
		}
		log.Printf("ERROR: dropping corrupted cache entry %s", key)
		s.cache.Delete(ctx, key)
	}
	metrics.RecordCacheLookup("current", false)

	report, err := s.WeatherAndForecast(ctx, latitude, longitude)
	if err != nil {
		return nil, err
	}
	return &report.Current, nil
}

func (s *Service) fetchForecast(ctx context.Context, latitude, longitude float64) (*WeatherForecast, error) {
	url := buildForecastURL(s.baseURL, latitude, longitude, s.forecastDays)

	var raw forecastResponse
	if err := s.client.GetJSON(ctx, url, &raw); err != nil {
		return nil, err
	}

	// A 200 without all three blocks is unusable, not "partially missing
	// data": partial tolerance starts below the block level.
	if raw.Current == nil || raw.Hourly == nil || raw.Daily == nil {
		return nil, &errs.ApiError{Message: "invalid weather data received"}
	}

	loc := Location{
		Name:      "Current Location",
		Latitude:  latitude,
		Longitude: longitude,
		Timezone:  raw.Timezone,
	}

	forecast := transformForecast(&raw, loc)
	return &forecast, nil
}
