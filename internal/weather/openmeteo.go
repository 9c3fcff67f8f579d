package weather

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Raw Open-Meteo payload schema. Scalars in the current block are pointers so
// an omitted field is distinguishable from a legitimate zero; per-timestep
// fields are parallel arrays indexed against Time and may be ragged or empty.
// All defaulting happens once, in the transformer, not here.

type forecastResponse struct {
	Timezone string        `json:"timezone"`
	Current  *currentBlock `json:"current"`
	Hourly   *hourlyBlock  `json:"hourly"`
	Daily    *dailyBlock   `json:"daily"`
}

type currentBlock struct {
	Time                string   `json:"time"`
	Temperature2m       *float64 `json:"temperature_2m"`
	RelativeHumidity2m  *float64 `json:"relative_humidity_2m"`
	ApparentTemperature *float64 `json:"apparent_temperature"`
	WeatherCode         *float64 `json:"weather_code"`
	PressureMSL         *float64 `json:"pressure_msl"`
	SurfacePressure     *float64 `json:"surface_pressure"`
	WindSpeed10m        *float64 `json:"wind_speed_10m"`
	WindDirection10m    *float64 `json:"wind_direction_10m"`
}

type hourlyBlock struct {
	Time                     []string  `json:"time"`
	Temperature2m            []float64 `json:"temperature_2m"`
	RelativeHumidity2m       []float64 `json:"relative_humidity_2m"`
	ApparentTemperature      []float64 `json:"apparent_temperature"`
	PrecipitationProbability []float64 `json:"precipitation_probability"`
	WeatherCode              []float64 `json:"weather_code"`
	SurfacePressure          []float64 `json:"surface_pressure"`
	WindSpeed10m             []float64 `json:"wind_speed_10m"`
	WindDirection10m         []float64 `json:"wind_direction_10m"`
	UVIndex                  []float64 `json:"uv_index"`
}

type dailyBlock struct {
	Time                        []string  `json:"time"`
	WeatherCode                 []float64 `json:"weather_code"`
	Temperature2mMax            []float64 `json:"temperature_2m_max"`
	Temperature2mMin            []float64 `json:"temperature_2m_min"`
	ApparentTemperatureMax      []float64 `json:"apparent_temperature_max"`
	ApparentTemperatureMin      []float64 `json:"apparent_temperature_min"`
	PrecipitationSum            []float64 `json:"precipitation_sum"`
	PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
	WindSpeed10mMax             []float64 `json:"wind_speed_10m_max"`
	WindDirection10mDominant    []float64 `json:"wind_direction_10m_dominant"`
	UVIndexMax                  []float64 `json:"uv_index_max"`
	Sunrise                     []string  `json:"sunrise"`
	Sunset                      []string  `json:"sunset"`
}

// geocodingResponse keeps each candidate raw so one malformed entry can be
// dropped without failing the whole batch.
type geocodingResponse struct {
	Results []json.RawMessage `json:"results"`
}

// geocodingResult is one search candidate. Name and the coordinates are
// pointers so an absent field is distinguishable from a present zero value
// during filtering.
type geocodingResult struct {
	Name      *string  `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Country   string   `json:"country"`
	Admin1    string   `json:"admin1"`
	Timezone  string   `json:"timezone"`
}

var (
	currentFields = []string{
		"temperature_2m",
		"relative_humidity_2m",
		"apparent_temperature",
		"weather_code",
		"pressure_msl",
		"surface_pressure",
		"wind_speed_10m",
		"wind_direction_10m",
	}
	hourlyFields = []string{
		"temperature_2m",
		"relative_humidity_2m",
		"apparent_temperature",
		"precipitation_probability",
		"weather_code",
		"surface_pressure",
		"wind_speed_10m",
		"wind_direction_10m",
		"uv_index",
	}
	dailyFields = []string{
		"weather_code",
		"temperature_2m_max",
		"temperature_2m_min",
		"apparent_temperature_max",
		"apparent_temperature_min",
		"precipitation_sum",
		"precipitation_probability_max",
		"wind_speed_10m_max",
		"wind_direction_10m_dominant",
		"uv_index_max",
		"sunrise",
		"sunset",
	}
)

// buildForecastURL assembles the single forecast request that serves both
// current and forecast data. One round trip per coordinate conserves the
// daily call quota.
func buildForecastURL(baseURL string, latitude, longitude float64, forecastDays int) string {
	values := url.Values{}
	values.Set("latitude", formatCoordinate(latitude))
	values.Set("longitude", formatCoordinate(longitude))
	values.Set("current", strings.Join(currentFields, ","))
	values.Set("hourly", strings.Join(hourlyFields, ","))
	values.Set("daily", strings.Join(dailyFields, ","))
	values.Set("timezone", "auto")
	values.Set("forecast_days", strconv.Itoa(forecastDays))

	return fmt.Sprintf("%s/forecast?%s", strings.TrimSuffix(baseURL, "/"), values.Encode())
}

// buildSearchURL assembles a geocoding search request. The query must already
// be sanitized.
func buildSearchURL(baseURL, query string) string {
	values := url.Values{}
	values.Set("name", query)
	values.Set("count", "10")
	values.Set("language", "en")
	values.Set("format", "json")

	return fmt.Sprintf("%s/search?%s", strings.TrimSuffix(baseURL, "/"), values.Encode())
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// openMeteoTimeLayouts covers the minute-precision stamps the forecast API
// returns ("2024-07-01T15:00"), full RFC3339 from sunrise/sunset, and the
// date-only daily axis.
var openMeteoTimeLayouts = []string{
	"2006-01-02T15:04",
	time.RFC3339,
	"2006-01-02",
}

// parseAPITime parses an Open-Meteo timestamp, falling back to now in UTC
// when the value is absent or unparseable.
func parseAPITime(value string) time.Time {
	if ts, ok := tryParseAPITime(value); ok {
		return ts
	}
	return time.Now().UTC()
}

func tryParseAPITime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range openMeteoTimeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
