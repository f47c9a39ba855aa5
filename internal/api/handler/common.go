package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/youssefbibani/platform-sport/internal/api"
	"github.com/youssefbibani/platform-sport/internal/domain/identity"
)

var errIdentityRequired = echo.NewHTTPError(http.StatusUnauthorized, "identity required")

func requireActor(c echo.Context) (identity.Actor, error) {
	actor, ok := api.ActorFrom(c)
	if !ok {
		return identity.Actor{}, errIdentityRequired
	}
	return actor, nil
}

// page reads limit and offset. Malformed values fall back to the defaults.
func page(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return &api.FieldError{Field: "body", Message: "malformed request body"}
	}
	return c.Validate(req)
}
