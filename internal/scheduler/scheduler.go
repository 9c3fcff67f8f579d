package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"skycast/internal/weather"
)

// Sweeper is the optional maintenance hook a cache backend may expose.
// The in-memory backend sweeps expired entries; Redis expires server-side
// and exposes nothing.
type Sweeper interface {
	Cleanup()
}

// Scheduler runs the periodic cache sweep and, when enabled, a forecast
// prefetch for the default location so the first dashboard load after a TTL
// lapse is served warm.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sweeper   Sweeper
	service   *weather.Service

	cleanupInterval  time.Duration
	prefetchInterval time.Duration
	latitude         float64
	longitude        float64
}

// New creates a Scheduler. sweeper may be nil; prefetchInterval of zero
// disables prefetching.
func New(sweeper Sweeper, service *weather.Service, cleanupInterval, prefetchInterval time.Duration, latitude, longitude float64) *Scheduler {
	return &Scheduler{
		scheduler:        gocron.NewScheduler(time.UTC),
		sweeper:          sweeper,
		service:          service,
		cleanupInterval:  cleanupInterval,
		prefetchInterval: prefetchInterval,
		latitude:         latitude,
		longitude:        longitude,
	}
}

// Start schedules the jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.sweeper != nil {
		_, err := s.scheduler.Every(s.cleanupInterval).Do(func() {
			s.sweeper.Cleanup()
		})
		if err != nil {
			return err
		}
	}

	if s.prefetchInterval > 0 && s.service != nil {
		_, err := s.scheduler.Every(s.prefetchInterval).Do(func() {
			log.Println("scheduler: prefetching default location forecast")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if _, err := s.service.WeatherAndForecast(ctx, s.latitude, s.longitude); err != nil {
				log.Printf("scheduler: prefetch failed: %v", err)
			}
		})
		if err != nil {
			return err
		}
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
