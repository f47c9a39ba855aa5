package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/youssefbibani/platform-sport/internal/domain/capacity"
	"github.com/youssefbibani/platform-sport/internal/domain/event"
	"github.com/youssefbibani/platform-sport/internal/domain/favorite"
	"github.com/youssefbibani/platform-sport/internal/domain/identity"
	"github.com/youssefbibani/platform-sport/internal/domain/participation"
	"github.com/youssefbibani/platform-sport/internal/pkg/logger"
)

// Error kinds returned to clients. They are stable across releases.
const (
	KindEventNotJoinable        = "event_not_joinable"
	KindRoleNotEligible         = "role_not_eligible"
	KindPaymentRequired         = "payment_required"
	KindCapacityExhausted       = "capacity_exhausted"
	KindAlreadyJoined           = "already_joined"
	KindInvalidModerationTarget = "invalid_moderation_target"
	KindUnauthorized            = "unauthorized"
	KindUnauthenticated         = "unauthenticated"
	KindValidation              = "validation"
	KindNotFound                = "not_found"
	KindConflict                = "conflict"
	KindInternal                = "internal"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

type errorMapping struct {
	target error
	status int
	kind   string
}

// order matters: the first match wins
var errorMappings = []errorMapping{
	{participation.ErrEventNotJoinable, http.StatusNotFound, KindEventNotJoinable},
	{participation.ErrRoleNotEligible, http.StatusForbidden, KindRoleNotEligible},
	{participation.ErrPaymentRequired, http.StatusPaymentRequired, KindPaymentRequired},
	{capacity.ErrCapacityExhausted, http.StatusConflict, KindCapacityExhausted},
	{participation.ErrAlreadyJoined, http.StatusConflict, KindAlreadyJoined},
	{event.ErrInvalidModerationTarget, http.StatusUnprocessableEntity, KindInvalidModerationTarget},
	{event.ErrUnauthorizedTransition, http.StatusForbidden, KindUnauthorized},
	{identity.ErrForbidden, http.StatusForbidden, KindUnauthorized},
	{event.ErrInvalidStatus, http.StatusBadRequest, KindValidation},
	{event.ErrInvalidEvent, http.StatusBadRequest, KindValidation},
	{event.ErrCapacityBelowReservation, http.StatusBadRequest, KindValidation},
	{favorite.ErrEventNotPublished, http.StatusBadRequest, KindValidation},
	{event.ErrEventNotFound, http.StatusNotFound, KindNotFound},
	{favorite.ErrFavoriteNotFound, http.StatusNotFound, KindNotFound},
	{event.ErrOptimisticLockConflict, http.StatusConflict, KindConflict},
	{event.ErrSlugTaken, http.StatusConflict, KindConflict},
	{favorite.ErrAlreadyFavorited, http.StatusConflict, KindConflict},
}

// Resolve maps an error to its HTTP status and response body.
func Resolve(err error) (int, ErrorResponse) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return http.StatusBadRequest, ErrorResponse{Error: fe.Error(), Code: http.StatusBadRequest, Kind: KindValidation, Field: fe.Field}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
		return he.Code, ErrorResponse{Error: message, Code: he.Code, Kind: kindForStatus(he.Code)}
	}

	var field string
	var ve *event.ValidationError
	if errors.As(err, &ve) {
		field = ve.Field
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, ErrorResponse{Error: err.Error(), Code: m.status, Kind: m.kind, Field: field}
		}
	}
	return http.StatusInternalServerError, ErrorResponse{
		Error: "internal server error",
		Code:  http.StatusInternalServerError,
		Kind:  KindInternal,
	}
}

func kindForStatus(code int) string {
	switch code {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthenticated
	case http.StatusForbidden:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	}
	if code >= http.StatusInternalServerError {
		return KindInternal
	}
	return ""
}

// CustomHTTPErrorHandler writes every handler error through Resolve.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, body := Resolve(err)
	if code >= http.StatusInternalServerError {
		logger.Error("server error",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		logger.Error("failed to write error response", zap.Error(err))
	}
}
