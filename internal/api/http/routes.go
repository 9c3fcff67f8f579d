package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"skycast/internal/errs"
	"skycast/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, resolver *weather.Resolver) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		lat, lon, err := parseCoordsQuery(c)
		if err != nil {
			return statusError(err)
		}

		report, err := service.WeatherAndForecast(c.UserContext(), lat, lon)
		if err != nil {
			return statusError(err)
		}
		return c.JSON(report)
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		lat, lon, err := parseCoordsQuery(c)
		if err != nil {
			return statusError(err)
		}

		current, err := service.CurrentWeather(c.UserContext(), lat, lon)
		if err != nil {
			return statusError(err)
		}
		return c.JSON(current)
	})

	v1.Get("/locations/search", func(c *fiber.Ctx) error {
		locations, err := resolver.SearchLocations(c.UserContext(), c.Query("q"))
		if err != nil {
			return statusError(err)
		}
		return c.JSON(fiber.Map{
			"results": locations,
		})
	})

	v1.Get("/locations/reverse", func(c *fiber.Ctx) error {
		lat, lon, err := parseCoordsQuery(c)
		if err != nil {
			return statusError(err)
		}

		loc, err := resolver.ReverseGeocode(c.UserContext(), lat, lon)
		if err != nil {
			return statusError(err)
		}
		return c.JSON(loc)
	})
}

// coordsQuery holds the raw coordinate query parameters.
type coordsQuery struct {
	Lat string `validate:"required"`
	Lon string `validate:"required"`
}

func parseCoordsQuery(c *fiber.Ctx) (float64, float64, error) {
	q := coordsQuery{
		Lat: c.Query("lat"),
		Lon: c.Query("lon"),
	}
	if err := validate.Struct(q); err != nil {
		return 0, 0, errs.NewValidationError("lat and lon query parameters are required")
	}

	lat, latErr := strconv.ParseFloat(q.Lat, 64)
	lon, lonErr := strconv.ParseFloat(q.Lon, 64)
	if latErr != nil || lonErr != nil {
		return 0, 0, errs.NewValidationError("Coordinates must be numbers")
	}
	return lat, lon, nil
}

// statusError maps the pipeline's error taxonomy onto HTTP statuses for the
// UI layer: bad input is the caller's fault, timeouts are gateway timeouts,
// everything else upstream-shaped is a bad gateway.
func statusError(err error) error {
	var validationErr *errs.ValidationError
	if errors.As(err, &validationErr) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var timeoutErr *errs.TimeoutError
	if errors.As(err, &timeoutErr) {
		return fiber.NewError(fiber.StatusGatewayTimeout, err.Error())
	}

	var apiErr *errs.ApiError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == fiber.StatusTooManyRequests {
			return fiber.NewError(fiber.StatusTooManyRequests, err.Error())
		}
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	var networkErr *errs.NetworkError
	if errors.As(err, &networkErr) {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
