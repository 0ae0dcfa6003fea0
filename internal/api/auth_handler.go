package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/services"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type credentialsPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var p credentialsPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "cuerpo inválido"})
	}
	if err := c.Validate(&p); err != nil {
		return err
	}
	res, err := h.auth.Register(p.Email, p.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, authResponse(res))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var p credentialsPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "cuerpo inválido"})
	}
	if err := c.Validate(&p); err != nil {
		return err
	}
	res, err := h.auth.Login(p.Email, p.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, authResponse(res))
}

func authResponse(res *services.AuthResult) map[string]any {
	return map[string]any{
		"token":   res.Token,
		"user_id": res.UserID,
		"email":   res.Email,
		"role":    res.Role,
	}
}
