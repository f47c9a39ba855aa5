package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/youssefbibani/platform-sport/internal/api"
)

// NewTestEcho returns an echo instance configured like the server.
func NewTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	return e
}
