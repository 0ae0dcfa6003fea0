package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Claims carried by admin session tokens.
type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// NewSigner returns an HS256 token signer bound to the given secret.
// The signature matches services.TokenSigner.
func NewSigner(secret string) func(uid, email, role string, ttl time.Duration) (string, error) {
	key := []byte(secret)
	return func(uid, email, role string, ttl time.Duration) (string, error) {
		now := time.Now()
		claims := Claims{
			UID:   uid,
			Email: email,
			Role:  role,
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			},
		}
		return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	}
}

func extractBearer(c echo.Context) (string, error) {
	h := c.Request().Header.Get("Authorization")
	if h == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "falta el encabezado de autorización"})
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "encabezado de autorización inválido"})
	}
	return parts[1], nil
}

// RequireAuth validates the bearer token and stores its claims on the
// request context.
func RequireAuth(secret string) echo.MiddlewareFunc {
	key := []byte(secret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, err := extractBearer(c)
			if err != nil {
				return err
			}
			token, err := jwt.ParseWithClaims(tok, &Claims{}, func(t *jwt.Token) (any, error) {
				// Reject tokens signed with a swapped algorithm.
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "método de firma inválido"})
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "token inválido"})
			}
			claims, ok := token.Claims.(*Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "claims inválidos"})
			}
			c.Set("user_id", claims.UID)
			c.Set("email", claims.Email)
			c.Set("role", claims.Role)
			return next(c)
		}
	}
}

// RequireRole allows only the listed roles; it must run after
// RequireAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[strings.ToLower(role)]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "acceso denegado"})
			}
			return next(c)
		}
	}
}

// SecureHeaders adds the standard response hardening headers.
func SecureHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			return next(c)
		}
	}
}
