package weather

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Location is a named point on the globe. Construct through NewLocation so
// coordinate bounds are enforced; a Location that exists is valid.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Region    string  `json:"region"`
	Timezone  string  `json:"timezone,omitempty"`
}

// NewLocation validates coordinates and trims the text fields.
func NewLocation(name string, latitude, longitude float64, country, region string) (Location, error) {
	if err := ValidateCoordinates(latitude, longitude); err != nil {
		return Location{}, err
	}
	return Location{
		Name:      strings.TrimSpace(name),
		Latitude:  latitude,
		Longitude: longitude,
		Country:   strings.TrimSpace(country),
		Region:    strings.TrimSpace(region),
	}, nil
}

// Equals compares by coordinate proximity, not identity: two locations within
// 0.001 degrees on both axes are the same place.
func (l Location) Equals(other Location) bool {
	return math.Abs(l.Latitude-other.Latitude) < 0.001 &&
		math.Abs(l.Longitude-other.Longitude) < 0.001
}

func (l Location) String() string {
	return fmt.Sprintf("%s, %s, %s", l.Name, l.Region, l.Country)
}

// CurrentWeather is the normalized view of current conditions. All rounding
// and clamping happens once, in NewCurrentWeather; values deserialized from
// cache are used as-is.
type CurrentWeather struct {
	Location       Location  `json:"location"`
	Temperature    int       `json:"temperature"`
	FeelsLike      int       `json:"feelsLike"`
	Humidity       float64   `json:"humidity"`
	Pressure       int       `json:"pressure"`
	Visibility     float64   `json:"visibility"`
	WindSpeed      int       `json:"windSpeed"`
	WindDirection  float64   `json:"windDirection"`
	UVIndex        float64   `json:"uvIndex"`
	Condition      Condition `json:"condition"`
	Timestamp      time.Time `json:"timestamp"`
	TemperatureMax int       `json:"temperatureMax"`
	TemperatureMin int       `json:"temperatureMin"`
}

// CurrentWeatherInput carries the raw (already defaulted) values for
// NewCurrentWeather.
type CurrentWeatherInput struct {
	Location       Location
	Temperature    float64
	FeelsLike      float64
	Humidity       float64
	Pressure       float64
	Visibility     float64
	WindSpeed      float64
	WindDirection  float64
	UVIndex        float64
	Condition      Condition
	Timestamp      time.Time
	TemperatureMax float64
	TemperatureMin float64
}

// NewCurrentWeather normalizes: temperatures round to the nearest integer,
// humidity clamps into [0,100], pressure/visibility/wind speed/UV floor at 0,
// wind direction wraps into [0,360).
func NewCurrentWeather(in CurrentWeatherInput) CurrentWeather {
	return CurrentWeather{
		Location:       in.Location,
		Temperature:    roundInt(in.Temperature),
		FeelsLike:      roundInt(in.FeelsLike),
		Humidity:       clamp(in.Humidity, 0, 100),
		Pressure:       roundInt(math.Max(0, in.Pressure)),
		Visibility:     math.Max(0, in.Visibility),
		WindSpeed:      roundInt(math.Max(0, in.WindSpeed)),
		WindDirection:  normalizeDegrees(in.WindDirection),
		UVIndex:        math.Max(0, in.UVIndex),
		Condition:      in.Condition,
		Timestamp:      in.Timestamp,
		TemperatureMax: roundInt(in.TemperatureMax),
		TemperatureMin: roundInt(in.TemperatureMin),
	}
}

// ComfortLevel grades current conditions for the dashboard summary.
func (w CurrentWeather) ComfortLevel() string {
	temp := w.Temperature
	switch {
	case temp >= 18 && temp <= 24 && w.Humidity >= 40 && w.Humidity <= 60:
		return "comfortable"
	case temp >= 15 && temp <= 28 && w.Humidity >= 30 && w.Humidity <= 70:
		return "mild"
	case temp >= 10 && temp <= 32:
		return "uncomfortable"
	default:
		return "extreme"
	}
}

// WindDescription maps wind speed onto Beaufort-style labels.
func (w CurrentWeather) WindDescription() string {
	speed := w.WindSpeed
	switch {
	case speed < 1:
		return "Calm"
	case speed < 6:
		return "Light air"
	case speed < 12:
		return "Light breeze"
	case speed < 20:
		return "Gentle breeze"
	case speed < 29:
		return "Moderate breeze"
	case speed < 39:
		return "Fresh breeze"
	case speed < 50:
		return "Strong breeze"
	default:
		return "High wind"
	}
}

// HourlyWeather is one normalized forecast hour.
type HourlyWeather struct {
	Time                     time.Time `json:"time"`
	Temperature              int       `json:"temperature"`
	FeelsLike                int       `json:"feelsLike"`
	Humidity                 float64   `json:"humidity"`
	PrecipitationProbability float64   `json:"precipitationProbability"`
	Condition                Condition `json:"condition"`
	WindSpeed                int       `json:"windSpeed"`
	WindDirection            float64   `json:"windDirection"`
	Pressure                 int       `json:"pressure"`
	UVIndex                  float64   `json:"uvIndex"`
}

type HourlyWeatherInput struct {
	Time                     time.Time
	Temperature              float64
	FeelsLike                float64
	Humidity                 float64
	PrecipitationProbability float64
	Condition                Condition
	WindSpeed                float64
	WindDirection            float64
	Pressure                 float64
	UVIndex                  float64
}

func NewHourlyWeather(in HourlyWeatherInput) HourlyWeather {
	return HourlyWeather{
		Time:                     in.Time,
		Temperature:              roundInt(in.Temperature),
		FeelsLike:                roundInt(in.FeelsLike),
		Humidity:                 clamp(in.Humidity, 0, 100),
		PrecipitationProbability: clamp(in.PrecipitationProbability, 0, 100),
		Condition:                in.Condition,
		WindSpeed:                roundInt(math.Max(0, in.WindSpeed)),
		WindDirection:            normalizeDegrees(in.WindDirection),
		Pressure:                 roundInt(math.Max(0, in.Pressure)),
		UVIndex:                  math.Max(0, in.UVIndex),
	}
}

// DailyWeather is one normalized forecast day. Sunrise and sunset are nil
// when the provider omitted them.
type DailyWeather struct {
	Date                     time.Time  `json:"date"`
	TemperatureMax           int        `json:"temperatureMax"`
	TemperatureMin           int        `json:"temperatureMin"`
	FeelsLikeMax             int        `json:"feelsLikeMax"`
	FeelsLikeMin             int        `json:"feelsLikeMin"`
	Condition                Condition  `json:"condition"`
	PrecipitationSum         float64    `json:"precipitationSum"`
	PrecipitationProbability float64    `json:"precipitationProbability"`
	WindSpeed                int        `json:"windSpeed"`
	WindDirection            float64    `json:"windDirection"`
	UVIndex                  float64    `json:"uvIndex"`
	Sunrise                  *time.Time `json:"sunrise,omitempty"`
	Sunset                   *time.Time `json:"sunset,omitempty"`
}

type DailyWeatherInput struct {
	Date                     time.Time
	TemperatureMax           float64
	TemperatureMin           float64
	FeelsLikeMax             float64
	FeelsLikeMin             float64
	Condition                Condition
	PrecipitationSum         float64
	PrecipitationProbability float64
	WindSpeed                float64
	WindDirection            float64
	UVIndex                  float64
	Sunrise                  *time.Time
	Sunset                   *time.Time
}

func NewDailyWeather(in DailyWeatherInput) DailyWeather {
	return DailyWeather{
		Date:                     in.Date,
		TemperatureMax:           roundInt(in.TemperatureMax),
		TemperatureMin:           roundInt(in.TemperatureMin),
		FeelsLikeMax:             roundInt(in.FeelsLikeMax),
		FeelsLikeMin:             roundInt(in.FeelsLikeMin),
		Condition:                in.Condition,
		PrecipitationSum:         math.Max(0, in.PrecipitationSum),
		PrecipitationProbability: clamp(in.PrecipitationProbability, 0, 100),
		WindSpeed:                roundInt(math.Max(0, in.WindSpeed)),
		WindDirection:            normalizeDegrees(in.WindDirection),
		UVIndex:                  math.Max(0, in.UVIndex),
		Sunrise:                  in.Sunrise,
		Sunset:                   in.Sunset,
	}
}

// TemperatureRange returns the spread between the daily max and min.
func (d DailyWeather) TemperatureRange() int {
	return d.TemperatureMax - d.TemperatureMin
}

// AverageTemperature returns the midpoint of the daily max and min.
func (d DailyWeather) AverageTemperature() int {
	return roundInt(float64(d.TemperatureMax+d.TemperatureMin) / 2)
}

// WeatherAlert is an active weather warning. The current provider never
// emits alerts; the model exists for sources that do.
type WeatherAlert struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}

// WeatherForecast aggregates current conditions with the hourly and daily
// sequences, both kept in the provider's chronological ascending order.
type WeatherForecast struct {
	Current CurrentWeather  `json:"current"`
	Hourly  []HourlyWeather `json:"hourly"`
	Daily   []DailyWeather  `json:"daily"`
	Alerts  []WeatherAlert  `json:"alerts,omitempty"`
}

// HourlyForDay returns the hourly entries falling on the same calendar date
// as day.
func (f *WeatherForecast) HourlyForDay(day time.Time) []HourlyWeather {
	y, m, d := day.Date()
	result := make([]HourlyWeather, 0)
	for _, hour := range f.Hourly {
		hy, hm, hd := hour.Time.Date()
		if hy == y && hm == m && hd == d {
			result = append(result, hour)
		}
	}
	return result
}

// DailyForRange returns the daily entries with dates in [start, end].
func (f *WeatherForecast) DailyForRange(start, end time.Time) []DailyWeather {
	result := make([]DailyWeather, 0)
	for _, day := range f.Daily {
		if !day.Date.Before(start) && !day.Date.After(end) {
			result = append(result, day)
		}
	}
	return result
}

func (f *WeatherForecast) HasAlerts() bool {
	return len(f.Alerts) > 0
}

// ActiveAlerts returns the alerts whose window covers now.
func (f *WeatherForecast) ActiveAlerts(now time.Time) []WeatherAlert {
	result := make([]WeatherAlert, 0)
	for _, alert := range f.Alerts {
		if !alert.StartTime.After(now) && !alert.EndTime.Before(now) {
			result = append(result, alert)
		}
	}
	return result
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// normalizeDegrees wraps v into [0, 360).
func normalizeDegrees(v float64) float64 {
	v = math.Mod(v, 360)
	if v < 0 {
		v += 360
	}
	return v
}
