package httpapi

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = newValidator()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	api := app.Group("/api")

	api.Get("/weather", func(c *fiber.Ctx) error {
		var q weatherQuery
		if err := q.bind(c); err != nil {
			return err
		}

		data, err := service.Lookup(c.UserContext(), q.City, weather.Units(q.Units))
		if err != nil {
			if errors.Is(err, weather.ErrCityNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "City not found")
			}
			// Upstream failures are rendered by ErrorHandler.
			return err
		}

		return c.JSON(data)
	})
}

// weatherQuery holds the query parameters of GET /api/weather.
type weatherQuery struct {
	City  string `query:"city" validate:"required,max=255"`
	Units string `query:"units" validate:"omitempty,oneof=metric imperial"`
}

func (q *weatherQuery) bind(c *fiber.Ctx) error {
	if err := c.QueryParser(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	q.City = strings.TrimSpace(q.City)
	q.Units = strings.TrimSpace(q.Units)

	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return newValidationError(verrs)
		}
		return err
	}

	if q.Units == "" {
		q.Units = string(weather.UnitsMetric)
	}
	return nil
}
