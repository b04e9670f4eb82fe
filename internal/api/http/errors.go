package httpapi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// ValidationError carries field-level messages for a rejected request.
type ValidationError struct {
	Errors map[string][]string
}

func (e *ValidationError) Error() string {
	return "Validation failed"
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their query parameter name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

func newValidationError(verrs validator.ValidationErrors) *ValidationError {
	out := &ValidationError{Errors: make(map[string][]string, len(verrs))}
	for _, fe := range verrs {
		field := fe.Field()
		out.Errors[field] = append(out.Errors[field], fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", fe.Field())
	default:
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}
}

// ErrorHandler renders every error that reaches the Fiber boundary.
// Validation failures become 422, upstream failures 500 with the raw error
// text, and *fiber.Error keeps its own code.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": ve.Error(),
				"errors":  ve.Errors,
			})
		}

		var ue *weather.UpstreamError
		if errors.As(err, &ue) {
			logger.Error("external api error",
				zap.String("provider", ue.Provider),
				zap.String("endpoint", ue.Endpoint),
				zap.Int("status", ue.StatusCode),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "External API error",
				"error":   err.Error(),
			})
		}

		code := fiber.StatusInternalServerError
		message := "Internal Server Error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}

		return c.Status(code).JSON(fiber.Map{
			"message": message,
		})
	}
}
