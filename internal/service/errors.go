package service

import (
	"errors"
	"fmt"
)

// Sentinel errors callers branch on when mapping to transport status codes.
var (
	ErrReportNotFound     = errors.New("report not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a missing or empty required report field. It is
// raised before any match or persistence attempt, so a rejected report
// leaves no state behind.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
