package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/youssefbibani/platform-sport/internal/config"
)

// MetricsBasicAuth protects /metrics when METRICS_USER and METRICS_PASSWORD are
// set. Without credentials it passes requests through (local development).
func MetricsBasicAuth(cfg *config.AuthConfig) echo.MiddlewareFunc {
	if !cfg.MetricsAuthEnabled() {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	expectedUser := []byte(cfg.MetricsUser)
	expectedPass := []byte(cfg.MetricsPassword)
	return middleware.BasicAuth(func(username, password string, c echo.Context) (bool, error) {
		userMatch := subtle.ConstantTimeCompare([]byte(username), expectedUser) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(password), expectedPass) == 1
		return userMatch && passMatch, nil
	})
}
