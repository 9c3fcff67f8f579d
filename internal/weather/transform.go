package weather

import "time"

// Transformation of raw Open-Meteo payloads into the domain model. The
// upstream may omit fields, return ragged or empty arrays, or skip whole
// blocks; every read here has an explicit fallback, so transformation never
// fails for data-shape reasons. Errors belong to the HTTP layer.

const (
	// The provider does not report visibility or a current UV index; fixed
	// defaults stand in for the current block only.
	defaultVisibilityKm = 10
	defaultCurrentUV    = 5

	// Standard sea-level pressure, the last step of the pressure fallback
	// chain.
	defaultPressureHpa = 1013
)

// transformCurrent maps the current block (plus day 0 of the daily block for
// the max/min) into a CurrentWeather.
func transformCurrent(data *forecastResponse, loc Location) CurrentWeather {
	cur := data.Current
	if cur == nil {
		cur = &currentBlock{}
	}

	temperature := deref(cur.Temperature2m, 0)

	feelsLike := temperature
	if cur.ApparentTemperature != nil {
		feelsLike = *cur.ApparentTemperature
	}

	pressure := float64(defaultPressureHpa)
	switch {
	case cur.PressureMSL != nil:
		pressure = *cur.PressureMSL
	case cur.SurfacePressure != nil:
		pressure = *cur.SurfacePressure
	}

	temperatureMax := temperature
	temperatureMin := temperature
	if data.Daily != nil {
		if v := at(data.Daily.Temperature2mMax, 0); v != nil {
			temperatureMax = *v
		}
		if v := at(data.Daily.Temperature2mMin, 0); v != nil {
			temperatureMin = *v
		}
	}

	return NewCurrentWeather(CurrentWeatherInput{
		Location:       loc,
		Temperature:    temperature,
		FeelsLike:      feelsLike,
		Humidity:       deref(cur.RelativeHumidity2m, 0),
		Pressure:       pressure,
		Visibility:     defaultVisibilityKm,
		WindSpeed:      deref(cur.WindSpeed10m, 0),
		WindDirection:  deref(cur.WindDirection10m, 0),
		UVIndex:        defaultCurrentUV,
		Condition:      ConditionFromCode(int(deref(cur.WeatherCode, 0))),
		Timestamp:      parseAPITime(cur.Time),
		TemperatureMax: temperatureMax,
		TemperatureMin: temperatureMin,
	})
}

// transformForecast maps the whole payload into a WeatherForecast. The hourly
// and daily sequences are zipped by index against their time axes: an empty
// time axis yields an empty sequence, and a ragged value array falls back per
// missing element.
func transformForecast(data *forecastResponse, loc Location) WeatherForecast {
	current := transformCurrent(data, loc)

	hb := data.Hourly
	if hb == nil {
		hb = &hourlyBlock{}
	}

	hourly := make([]HourlyWeather, 0, len(hb.Time))
	for i, stamp := range hb.Time {
		hourly = append(hourly, NewHourlyWeather(HourlyWeatherInput{
			Time:                     parseAPITime(stamp),
			Temperature:              atOr(hb.Temperature2m, i, 0),
			FeelsLike:                atOr(hb.ApparentTemperature, i, 0),
			Humidity:                 atOr(hb.RelativeHumidity2m, i, 0),
			PrecipitationProbability: atOr(hb.PrecipitationProbability, i, 0),
			Condition:                ConditionFromCode(int(atOr(hb.WeatherCode, i, 0))),
			WindSpeed:                atOr(hb.WindSpeed10m, i, 0),
			WindDirection:            atOr(hb.WindDirection10m, i, 0),
			Pressure:                 atOr(hb.SurfacePressure, i, defaultPressureHpa),
			UVIndex:                  atOr(hb.UVIndex, i, 0),
		}))
	}

	db := data.Daily
	if db == nil {
		db = &dailyBlock{}
	}

	daily := make([]DailyWeather, 0, len(db.Time))
	for i, stamp := range db.Time {
		daily = append(daily, NewDailyWeather(DailyWeatherInput{
			Date:                     parseAPITime(stamp),
			TemperatureMax:           atOr(db.Temperature2mMax, i, 0),
			TemperatureMin:           atOr(db.Temperature2mMin, i, 0),
			FeelsLikeMax:             atOr(db.ApparentTemperatureMax, i, 0),
			FeelsLikeMin:             atOr(db.ApparentTemperatureMin, i, 0),
			Condition:                ConditionFromCode(int(atOr(db.WeatherCode, i, 0))),
			PrecipitationSum:         atOr(db.PrecipitationSum, i, 0),
			PrecipitationProbability: atOr(db.PrecipitationProbabilityMax, i, 0),
			WindSpeed:                atOr(db.WindSpeed10mMax, i, 0),
			WindDirection:            atOr(db.WindDirection10mDominant, i, 0),
			UVIndex:                  atOr(db.UVIndexMax, i, 0),
			Sunrise:                  timeAt(db.Sunrise, i),
			Sunset:                   timeAt(db.Sunset, i),
		}))
	}

	return WeatherForecast{
		Current: current,
		Hourly:  hourly,
		Daily:   daily,
	}
}

func deref(p *float64, def float64) float64 {
	if p != nil {
		return *p
	}
	return def
}

// at returns a pointer to xs[i], or nil when the array is too short.
func at(xs []float64, i int) *float64 {
	if i < 0 || i >= len(xs) {
		return nil
	}
	return &xs[i]
}

func atOr(xs []float64, i int, def float64) float64 {
	if v := at(xs, i); v != nil {
		return *v
	}
	return def
}

// timeAt parses xs[i] if present and valid, else nil.
func timeAt(xs []string, i int) *time.Time {
	if i < 0 || i >= len(xs) {
		return nil
	}
	if ts, ok := tryParseAPITime(xs[i]); ok {
		return &ts
	}
	return nil
}
