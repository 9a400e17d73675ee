package dispatcher

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// ErrNoBackends is returned by New when the fallback chain is empty.
var ErrNoBackends = errors.New("no translation backends configured")

// ValidationError rejects a request before any backend is called.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AllBackendsFailedError is the single hard failure of the translation path.
// Attempts holds one entry per backend in the order they were tried.
type AllBackendsFailedError struct {
	Attempts []Attempt
	errs     error
}

func newAllBackendsFailedError(attempts []Attempt) *AllBackendsFailedError {
	var errs error
	for _, a := range attempts {
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", a.Backend, a.Err))
	}
	return &AllBackendsFailedError{Attempts: attempts, errs: errs}
}

func (e *AllBackendsFailedError) Error() string {
	names := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		names[i] = a.Backend
	}
	return fmt.Sprintf("all %d translation backends failed (%s)", len(e.Attempts), strings.Join(names, ", "))
}

// Unwrap exposes the per-backend errors to errors.Is and errors.As.
func (e *AllBackendsFailedError) Unwrap() []error {
	return multierr.Errors(e.errs)
}

var errEmptyTranslation = errors.New("backend returned an empty translation")
