package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefbibani/platform-sport/internal/config"
)

func serveMetrics(cfg *config.AuthConfig, authHeader string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := MetricsBasicAuth(cfg)(func(c echo.Context) error {
		return c.String(http.StatusOK, "metrics")
	})
	return rec, handler(c)
}

func basic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestMetricsBasicAuth_NoCredentials(t *testing.T) {
	rec, err := serveMetrics(&config.AuthConfig{}, "")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "metrics", rec.Body.String())
}

func TestMetricsBasicAuth_ValidCredentials(t *testing.T) {
	cfg := &config.AuthConfig{MetricsUser: "scraper", MetricsPassword: "s3cret"}

	rec, err := serveMetrics(cfg, basic("scraper", "s3cret"))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsBasicAuth_InvalidCredentials(t *testing.T) {
	cfg := &config.AuthConfig{MetricsUser: "scraper", MetricsPassword: "s3cret"}

	_, err := serveMetrics(cfg, basic("scraper", "wrong"))

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestMetricsBasicAuth_NoAuthHeader(t *testing.T) {
	cfg := &config.AuthConfig{MetricsUser: "scraper", MetricsPassword: "s3cret"}

	_, err := serveMetrics(cfg, "")

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestMetricsBasicAuth_HalfConfigured(t *testing.T) {
	rec, err := serveMetrics(&config.AuthConfig{MetricsUser: "scraper"}, "")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
