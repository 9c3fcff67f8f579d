package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skycast/internal/cache"
	"skycast/internal/errs"
	"skycast/internal/httpx"
)

const geocodingFixture = `{
	"results": [
		{"name": "Prague", "latitude": 50.0755, "longitude": 14.4378, "country": "Czechia", "admin1": "Prague", "timezone": "Europe/Prague"},
		{"name": "Praha 1", "latitude": "not-a-number", "longitude": 14.42},
		{"latitude": 50.1, "longitude": 14.5, "country": "Czechia"},
		{"name": "", "latitude": 49.1951, "longitude": 16.6068, "country": "Czechia"},
		{"name": "Offworld", "latitude": 95.0, "longitude": 14.0}
	]
}`

func newTestResolver(t *testing.T, payload string) (*Resolver, *int32) {
	t.Helper()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	client := httpx.NewClient(httpx.Config{
		Name:          "test",
		Timeout:       2 * time.Second,
		RetryAttempts: 1,
		BackoffBase:   time.Millisecond,
	})
	resolver := NewResolver(client, cache.NewMemory(0, time.Minute), ResolverConfig{
		GeocodingURL: srv.URL,
		CacheTTL:     time.Minute,
	})
	return resolver, &calls
}

func TestSearchLocationsRejectsInvalidQueriesWithoutNetwork(t *testing.T) {
	resolver, calls := newTestResolver(t, geocodingFixture)
	ctx := context.Background()

	for _, query := range []string{"", " ", "a", "<script>alert(1)</script>", "x union select"} {
		locations, err := resolver.SearchLocations(ctx, query)
		require.NoError(t, err, "query %q", query)
		assert.Empty(t, locations, "query %q", query)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestSearchLocationsFiltersMalformedCandidates(t *testing.T) {
	resolver, _ := newTestResolver(t, geocodingFixture)

	locations, err := resolver.SearchLocations(context.Background(), "Prague")
	require.NoError(t, err)

	// Of five candidates: one valid, one with a string latitude, one without
	// a name, one with an empty name, one out of range.
	require.Len(t, locations, 2)

	assert.Equal(t, "Prague", locations[0].Name)
	assert.Equal(t, 50.0755, locations[0].Latitude)
	assert.Equal(t, "Czechia", locations[0].Country)
	assert.Equal(t, "Prague", locations[0].Region)
	assert.Equal(t, "Europe/Prague", locations[0].Timezone)

	assert.Equal(t, "Unknown", locations[1].Name)
	assert.Equal(t, 49.1951, locations[1].Latitude)
}

func TestSearchLocationsCachesResults(t *testing.T) {
	resolver, calls := newTestResolver(t, geocodingFixture)
	ctx := context.Background()

	first, err := resolver.SearchLocations(ctx, "Prague")
	require.NoError(t, err)

	second, err := resolver.SearchLocations(ctx, "Prague")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, first, second)
}

func TestSearchLocationsNoResults(t *testing.T) {
	resolver, _ := newTestResolver(t, `{"results": []}`)

	locations, err := resolver.SearchLocations(context.Background(), "Nowhereville")
	require.NoError(t, err)
	assert.NotNil(t, locations)
	assert.Empty(t, locations)
}

func TestSearchLocationsMissingResultsField(t *testing.T) {
	resolver, _ := newTestResolver(t, `{}`)

	locations, err := resolver.SearchLocations(context.Background(), "Prague")
	require.NoError(t, err)
	assert.Empty(t, locations)
}

func TestSearchLocationsUpstreamError(t *testing.T) {
	resolver, _ := newTestResolver(t, "")

	srvDown := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	t.Cleanup(srvDown.Close)
	resolver.geocodingURL = srvDown.URL

	_, err := resolver.SearchLocations(context.Background(), "Prague")
	require.Error(t, err)

	var apiErr *errs.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestFilterLocationResultsSkipsUndecodableEntries(t *testing.T) {
	results := []json.RawMessage{
		json.RawMessage(`"just a string"`),
		json.RawMessage(`{"name": "Vienna", "latitude": 48.2082, "longitude": 16.3738, "country": "Austria"}`),
	}

	locations := filterLocationResults(results)
	require.Len(t, locations, 1)
	assert.Equal(t, "Vienna", locations[0].Name)
}

func TestReverseGeocode(t *testing.T) {
	resolver, calls := newTestResolver(t, geocodingFixture)
	ctx := context.Background()

	loc, err := resolver.ReverseGeocode(ctx, 50.0755, 14.4378)
	require.NoError(t, err)
	assert.Equal(t, "Current Location", loc.Name)
	assert.Equal(t, 50.0755, loc.Latitude)
	assert.Equal(t, 14.4378, loc.Longitude)

	// Synthesized without a provider round trip, then served from cache.
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))

	again, err := resolver.ReverseGeocode(ctx, 50.0755, 14.4378)
	require.NoError(t, err)
	assert.Equal(t, loc.Name, again.Name)
}

func TestReverseGeocodeInvalidCoordinates(t *testing.T) {
	resolver, _ := newTestResolver(t, geocodingFixture)

	_, err := resolver.ReverseGeocode(context.Background(), 0, 181)
	require.Error(t, err)

	var validationErr *errs.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Longitude must be between -180 and 180 degrees", validationErr.Message)
}
