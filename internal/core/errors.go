package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeValidation    = "validation_failed"
	ErrCodeNotIdentified = "not_identified"
	ErrCodeNotInRoom     = "not_in_room"
	ErrCodeBadRequest    = "bad_request"
	ErrCodeRateLimited   = "rate_limited"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotIdentified = errors.New("not identified")
	ErrNotInRoom     = errors.New("not in room")
	ErrBadRequest    = errors.New("bad request")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

// Unwrap maps the wire code back to its sentinel so callers can match
// domain errors with errors.Is.
func (e *CoreError) Unwrap() error {
	switch e.Code {
	case ErrCodeValidation:
		return ErrValidation
	case ErrCodeNotIdentified:
		return ErrNotIdentified
	case ErrCodeNotInRoom:
		return ErrNotInRoom
	case ErrCodeBadRequest:
		return ErrBadRequest
	}
	return nil
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
