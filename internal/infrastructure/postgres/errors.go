package postgres

import (
	"errors"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation           pq.ErrorCode = "23505"
	codeForeignKeyViolation       pq.ErrorCode = "23503"
	codeCheckViolation            pq.ErrorCode = "23514"
	codeInvalidTextRepresentation pq.ErrorCode = "22P02"
)

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == codeUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pqCode(err) == codeForeignKeyViolation
}

func isCheckViolation(err error) bool {
	return pqCode(err) == codeCheckViolation
}

// isInvalidID reports a malformed uuid literal, which can never match a row.
func isInvalidID(err error) bool {
	return pqCode(err) == codeInvalidTextRepresentation
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
