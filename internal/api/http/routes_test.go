package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skycast/internal/cache"
	"skycast/internal/httpx"
	"skycast/internal/weather"
)

const upstreamForecast = `{
	"timezone": "Europe/Prague",
	"current": {
		"time": "2024-07-01T12:00",
		"temperature_2m": 15.5,
		"relative_humidity_2m": 62,
		"apparent_temperature": 14.2,
		"weather_code": 1,
		"pressure_msl": 1018.2,
		"wind_speed_10m": 12.4,
		"wind_direction_10m": 275
	},
	"hourly": {
		"time": ["2024-07-01T12:00"],
		"temperature_2m": [15.5],
		"weather_code": [1]
	},
	"daily": {
		"time": ["2024-07-01"],
		"weather_code": [1],
		"temperature_2m_max": [18.7],
		"temperature_2m_min": [9.4]
	}
}`

const upstreamSearch = `{
	"results": [
		{"name": "Prague", "latitude": 50.0755, "longitude": 14.4378, "country": "Czechia", "admin1": "Prague", "timezone": "Europe/Prague"}
	]
}`

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/search") {
			w.Write([]byte(upstreamSearch))
			return
		}
		w.Write([]byte(upstreamForecast))
	}))
	t.Cleanup(upstream.Close)

	client := httpx.NewClient(httpx.Config{
		Name:          "test",
		Timeout:       2 * time.Second,
		RetryAttempts: 1,
		BackoffBase:   time.Millisecond,
	})
	store := cache.NewMemory(0, time.Minute)

	service := weather.NewService(client, store, weather.ServiceConfig{BaseURL: upstream.URL})
	resolver := weather.NewResolver(client, store, weather.ResolverConfig{GeocodingURL: upstream.URL})

	app := fiber.New()
	RegisterRoutes(app, service, resolver)
	return app
}

func TestGetWeather(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?lat=50.0755&lon=14.4378", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Current struct {
			Temperature int `json:"temperature"`
			Condition   struct {
				Description string `json:"description"`
			} `json:"condition"`
		} `json:"current"`
		Forecast struct {
			Hourly []json.RawMessage `json:"hourly"`
			Daily  []json.RawMessage `json:"daily"`
		} `json:"forecast"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 16, body.Current.Temperature)
	assert.Equal(t, "Mainly clear", body.Current.Condition.Description)
	assert.Len(t, body.Forecast.Hourly, 1)
	assert.Len(t, body.Forecast.Daily, 1)
}

func TestGetWeatherMissingCoordinates(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{
		"/api/v1/weather",
		"/api/v1/weather?lat=50.0755",
		"/api/v1/weather?lon=14.4378",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "target %s", target)
	}
}

func TestGetWeatherNonNumericCoordinates(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?lat=abc&lon=14.4", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Coordinates must be numbers")
}

func TestGetWeatherOutOfRangeCoordinates(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?lat=91&lon=0", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Latitude must be between -90 and 90 degrees")
}

func TestGetCurrentWeather(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/current?lat=50.0755&lon=14.4378", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var current struct {
		Temperature int     `json:"temperature"`
		Visibility  float64 `json:"visibility"`
		UVIndex     float64 `json:"uvIndex"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&current))
	assert.Equal(t, 16, current.Temperature)
	assert.Equal(t, 10.0, current.Visibility)
	assert.Equal(t, 5.0, current.UVIndex)
}

func TestSearchLocations(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/search?q=Prague", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Results []struct {
			Name    string `json:"name"`
			Country string `json:"country"`
		} `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "Prague", body.Results[0].Name)
	assert.Equal(t, "Czechia", body.Results[0].Country)
}

// A too-short or dangerous query is not an error at the HTTP layer, just an
// empty result set.
func TestSearchLocationsShortQuery(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{
		"/api/v1/locations/search?q=a",
		"/api/v1/locations/search",
		"/api/v1/locations/search?q=%3Cscript%3E",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "target %s", target)

		var body struct {
			Results []json.RawMessage `json:"results"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Empty(t, body.Results, "target %s", target)
	}
}

func TestReverseGeocodeRoute(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/reverse?lat=50.0755&lon=14.4378", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var loc struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loc))
	assert.Equal(t, "Current Location", loc.Name)
	assert.Equal(t, 50.0755, loc.Latitude)
	assert.Equal(t, 14.4378, loc.Longitude)
}

func TestUpstreamFailureMapsToBadGateway(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(upstream.Close)

	client := httpx.NewClient(httpx.Config{Name: "test", Timeout: 2 * time.Second, RetryAttempts: 1, BackoffBase: time.Millisecond})
	store := cache.NewMemory(0, time.Minute)
	service := weather.NewService(client, store, weather.ServiceConfig{BaseURL: upstream.URL})
	resolver := weather.NewResolver(client, store, weather.ResolverConfig{GeocodingURL: upstream.URL})

	app := fiber.New()
	RegisterRoutes(app, service, resolver)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?lat=50&lon=14", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
