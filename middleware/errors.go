package middleware

import (
	"errors"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse translates a service error into the JSON envelope. Internal
// details stay out of client messages; everything else carries the service's
// own wording.
func ErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidArgument):
		return JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	case errors.Is(err, services.ErrConflict):
		return JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	case errors.Is(err, services.ErrUnauthenticated):
		return JsonResponse(c, fiber.StatusUnauthorized, false, err.Error(), nil)
	case errors.Is(err, services.ErrForbidden):
		return JsonResponse(c, fiber.StatusForbidden, false, err.Error(), nil)
	default:
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}
