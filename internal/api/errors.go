package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/services"
)

// respondError maps service errors onto HTTP statuses. Anything that is
// not a ServiceError is a 500 with a generic body.
func respondError(c echo.Context, err error) error {
	if se, ok := services.AsServiceError(err); ok {
		return c.JSON(statusFor(se.Code), map[string]any{"error": se.Message})
	}
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, map[string]any{"error": "error interno"})
}

func statusFor(code services.ErrorCode) int {
	switch code {
	case services.ErrorInvalid:
		return http.StatusBadRequest
	case services.ErrorNotFound:
		return http.StatusNotFound
	case services.ErrorConflict:
		return http.StatusConflict
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
