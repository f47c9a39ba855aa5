package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/youssefbibani/platform-sport/internal/api"
	"github.com/youssefbibani/platform-sport/internal/config"
	"github.com/youssefbibani/platform-sport/internal/domain/identity"
	"github.com/youssefbibani/platform-sport/internal/pkg/logger"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

var errInvalidToken = errors.New("invalid token")

// Claims is the bearer token payload. Subject carries the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Identity attaches the caller to the request or rejects it with 401.
// With a JWT secret configured it verifies an HS256 bearer token; otherwise it
// trusts the X-User-ID and X-User-Role headers (local development).
func Identity(cfg *config.AuthConfig) echo.MiddlewareFunc {
	resolve := actorFromHeaders
	if cfg.JWTEnabled() {
		parser := jwt.NewParser(jwtParserOptions(cfg)...)
		secret := []byte(cfg.JWTSecret)
		resolve = func(c echo.Context) (identity.Actor, error) {
			return actorFromToken(c, parser, secret)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := resolve(c)
			if err != nil {
				logger.Debug("identity rejected", zap.String("path", c.Path()), zap.Error(err))
				return echo.NewHTTPError(http.StatusUnauthorized, "identity required")
			}
			api.SetActor(c, actor)
			return next(c)
		}
	}
}

func jwtParserOptions(cfg *config.AuthConfig) []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.JWTIssuer))
	}
	return opts
}

func actorFromHeaders(c echo.Context) (identity.Actor, error) {
	actor := identity.Actor{
		UserID: c.Request().Header.Get(HeaderUserID),
		Role:   identity.Role(c.Request().Header.Get(HeaderUserRole)),
	}
	return actor, actor.Validate()
}

func actorFromToken(c echo.Context, parser *jwt.Parser, secret []byte) (identity.Actor, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return identity.Actor{}, errInvalidToken
	}

	claims := &Claims{}
	_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return identity.Actor{}, err
	}

	actor := identity.Actor{UserID: claims.Subject, Role: identity.Role(claims.Role)}
	return actor, actor.Validate()
}
