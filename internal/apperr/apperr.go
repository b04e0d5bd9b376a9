package apperr

import "errors"

// Sentinels for the error taxonomy surfaced over HTTP. Services wrap these
// with context; handlers map them to status codes with errors.Is.
var (
  ErrNotFound     = errors.New("not found")
  ErrValidation   = errors.New("validation error")
  ErrUnauthorized = errors.New("unauthorized")
  ErrForbidden    = errors.New("forbidden")
)

func Code(err error) string {
  switch {
  case errors.Is(err, ErrNotFound):
    return "NOT_FOUND"
  case errors.Is(err, ErrValidation):
    return "VALIDATION_ERROR"
  case errors.Is(err, ErrUnauthorized):
    return "UNAUTHORIZED"
  case errors.Is(err, ErrForbidden):
    return "FORBIDDEN"
  default:
    return "INTERNAL_ERROR"
  }
}
