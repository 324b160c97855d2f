// Package apperr holds the error kinds surfaced by the farm services and the
// HTTP status each one maps to.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Kind names an error category. The string is what clients see in the
// "error" field of a failed response.
type Kind string

const (
	KindValidation  Kind = "Validation error"
	KindNotFound    Kind = "Not found"
	KindConnection  Kind = "Database error"
	KindUnavailable Kind = "Service unavailable"
	KindInternal    Kind = "Internal server error"
)

// Postgres SQLSTATE codes the services branch on.
const (
	CodeDuplicateColumn = "42701"
	CodeUndefinedTable  = "42P01"
	CodeUndefinedColumn = "42703"
	CodeUniqueViolation = "23505"
)

// Error is a categorised application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// Sentinels for errors.Is.
var (
	ErrValidation  = &Error{Kind: KindValidation}
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrConnection  = &Error{Kind: KindConnection}
	ErrUnavailable = &Error{Kind: KindUnavailable}
)

// Validation reports missing or malformed user input.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports an identity-based operation against an absent row.
func NotFound(entity string, id any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %v not found", entity, id)}
}

// Connection wraps a store failure. The wrapped error's text is kept so the
// caller can show it for diagnostics.
func Connection(op string, err error) error {
	return &Error{Kind: KindConnection, Message: op, Err: err}
}

// Unavailable reports an optional collaborator that is not configured.
func Unavailable(format string, args ...any) error {
	return &Error{Kind: KindUnavailable, Message: fmt.Sprintf(format, args...)}
}

// SchemaDriftWarning describes a failed additive schema change. It is never
// returned to a caller; the reconciler logs it and the write carries on.
type SchemaDriftWarning struct {
	Table  string
	Column string
	Err    error
}

func (w *SchemaDriftWarning) Error() string {
	return fmt.Sprintf("schema drift on %s.%s: %v", w.Table, w.Column, w.Err)
}

func (w *SchemaDriftWarning) Unwrap() error { return w.Err }

// KindOf returns the category of err, or KindInternal for unknown errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return KindNotFound
	}
	if IsConnectionError(err) {
		return KindConnection
	}
	return KindInternal
}

// HTTPStatus maps an error to the response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsConnectionError reports whether err means the store could not be reached,
// as opposed to the store rejecting a statement.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) && e.Kind == KindConnection {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	return strings.Contains(err.Error(), "closed pool")
}

// PgCode returns the SQLSTATE of a Postgres error, or "".
func PgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
