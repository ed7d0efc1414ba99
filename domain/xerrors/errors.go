package xerrors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error kinds. Callers classify failures with errors.Is against these
// sentinels; the outer layers map them to stable reason codes.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrState        = errors.New("invalid state")
	ErrUnauthorized = errors.New("unauthorized")
	ErrCrypto       = errors.New("crypto failure")
	ErrConfig       = errors.New("configuration error")
	ErrInternal     = errors.New("internal error")
)

// Stable reason codes for external payloads
const (
	CodeValidation   = "VALIDATION"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeState        = "INVALID_STATE"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeInternal     = "INTERNAL"
)

// CodedError carries a kind sentinel plus a human-readable message
type CodedError struct {
	Kind error
	Msg  string
}

func (e *CodedError) Error() string {
	return e.Msg
}

func (e *CodedError) Unwrap() error {
	return e.Kind
}

// New builds a CodedError of the given kind
func New(kind error, format string, args ...interface{}) error {
	return &CodedError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Code maps an error to its stable reason code
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrState):
		return CodeState
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	default:
		return CodeInternal
	}
}

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation, optionally narrowed to a specific constraint name.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
