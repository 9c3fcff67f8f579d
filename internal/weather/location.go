package weather

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"time"

	"skycast/internal/cache"
	"skycast/internal/metrics"
)

// ResolverConfig carries the Resolver's knobs. Location data changes far
// less often than weather, so its cache TTL is much longer.
type ResolverConfig struct {
	GeocodingURL string
	CacheTTL     time.Duration
}

// Resolver turns free-text queries and coordinates into Locations via the
// geocoding API.
type Resolver struct {
	client       JSONClient
	cache        cache.Cache
	geocodingURL string
	cacheTTL     time.Duration
}

func NewResolver(client JSONClient, c cache.Cache, cfg ResolverConfig) *Resolver {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	return &Resolver{
		client:       client,
		cache:        c,
		geocodingURL: cfg.GeocodingURL,
		cacheTTL:     cfg.CacheTTL,
	}
}

// SearchLocations resolves a free-text query to candidate locations. An
// invalid or too-short query returns an empty slice without touching the
// network; transport and status failures from the client propagate as typed
// errors.
func (r *Resolver) SearchLocations(ctx context.Context, query string) ([]Location, error) {
	if !ValidateSearchQuery(query) {
		return []Location{}, nil
	}

	sanitized := SanitizeQuery(query)
	if sanitized == "" {
		return []Location{}, nil
	}

	key := searchKey(query)
	if data, ok := r.cache.Get(ctx, key); ok {
		var locations []Location
		if err := json.Unmarshal(data, &locations); err == nil {
			metrics.RecordCacheLookup("search", true)
			return locations, nil
		}
		log.Printf("ERROR: dropping corrupted cache entry %s", key)
		r.cache.Delete(ctx, key)
	}
	metrics.RecordCacheLookup("search", false)

	var resp geocodingResponse
	if err := r.client.GetJSON(ctx, buildSearchURL(r.geocodingURL, sanitized), &resp); err != nil {
		return nil, err
	}

	locations := filterLocationResults(resp.Results)

	if data, err := json.Marshal(locations); err == nil {
		r.cache.Set(ctx, key, data, r.cacheTTL)
	}
	return locations, nil
}

// filterLocationResults keeps candidates with a string name and numeric,
// in-range coordinates. Malformed entries are dropped one by one; a single
// bad candidate never fails the batch.
func filterLocationResults(results []json.RawMessage) []Location {
	locations := make([]Location, 0, len(results))

	for _, raw := range results {
		var candidate geocodingResult
		if err := json.Unmarshal(raw, &candidate); err != nil {
			continue
		}
		if candidate.Name == nil || candidate.Latitude == nil || candidate.Longitude == nil {
			continue
		}
		lat, lon := *candidate.Latitude, *candidate.Longitude
		if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			continue
		}

		name := *candidate.Name
		if name == "" {
			name = "Unknown"
		}

		loc, err := NewLocation(name, lat, lon, candidate.Country, candidate.Admin1)
		if err != nil {
			continue
		}
		loc.Timezone = candidate.Timezone
		locations = append(locations, loc)
	}

	return locations
}

// ReverseGeocode validates the coordinates and returns a synthesized
// placeholder location: the provider has no true reverse-geocoding endpoint.
func (r *Resolver) ReverseGeocode(ctx context.Context, latitude, longitude float64) (*Location, error) {
	if err := ValidateCoordinates(latitude, longitude); err != nil {
		return nil, err
	}

	key := reverseKey(latitude, longitude)
	if data, ok := r.cache.Get(ctx, key); ok {
		var loc Location
		if err := json.Unmarshal(data, &loc); err == nil {
			metrics.RecordCacheLookup("reverse", true)
			return &loc, nil
		}
		log.Printf("ERROR: dropping corrupted cache entry %s", key)
		r.cache.Delete(ctx, key)
	}
	metrics.RecordCacheLookup("reverse", false)

	loc := Location{
		Name:      "Current Location",
		Latitude:  latitude,
		Longitude: longitude,
	}

	if data, err := json.Marshal(loc); err == nil {
		r.cache.Set(ctx, key, data, r.cacheTTL)
	}
	return &loc, nil
}
