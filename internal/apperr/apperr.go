// Package apperr holds the error kinds shared by services and transports.
// Callers wrap one of the sentinels with context and classify with errors.Is.
package apperr

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrConflict       = errors.New("conflict")
	ErrAuthentication = errors.New("authentication failed")
	ErrAuthorization  = errors.New("not authorized")
	ErrNotFound       = errors.New("not found")
	ErrStore          = errors.New("graph store failure")
)

// InvalidActivitiesError reports every activity name missing from the catalog.
type InvalidActivitiesError struct {
	Names []string
}

func (e *InvalidActivitiesError) Error() string {
	return "unknown activities: " + strings.Join(e.Names, ", ")
}

func (e *InvalidActivitiesError) Unwrap() error {
	return ErrValidation
}

func Validation(msg string) error {
	return errors.Wrap(ErrValidation, msg)
}

// Message returns the human readable part of err, without the kind suffix
// appended by errors.Wrap.
func Message(err error) string {
	msg := err.Error()
	for _, kind := range []error{ErrValidation, ErrConflict, ErrAuthentication, ErrAuthorization, ErrNotFound, ErrStore} {
		if errors.Is(err, kind) {
			trimmed := strings.TrimSuffix(msg, ": "+kind.Error())
			if trimmed != "" {
				return trimmed
			}
		}
	}
	return msg
}
