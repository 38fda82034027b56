package cli

import (
	"errors"

	"github.com/harrisonrobin/gantta/pkg/columns"
	"github.com/harrisonrobin/gantta/pkg/config"
	"github.com/harrisonrobin/gantta/pkg/normalize"
	"github.com/harrisonrobin/gantta/pkg/runner"
	"github.com/harrisonrobin/gantta/pkg/table"
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitError        = 1
	ExitInvalidInput = 2
	ExitUnavailable  = 3
)

// ErrUsage is returned for bad flags and arguments.
var ErrUsage = errors.New("usage")

// ExitCode maps an error returned by a command to the exit code of the process.
// Invalid input takes precedence. An unavailable feature gives ExitUnavailable only when
// it is the sole cause.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, normalize.ErrInvalidInput),
		errors.Is(err, columns.ErrMissingColumns),
		errors.Is(err, table.ErrUnreadable),
		errors.Is(err, config.ErrInvalid),
		errors.Is(err, ErrUsage):
		return ExitInvalidInput
	case onlyUnavailable(err):
		return ExitUnavailable
	default:
		return ExitError
	}
}

// onlyUnavailable reports whether every leaf of err is an unavailable feature.
func onlyUnavailable(err error) bool {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs := joined.Unwrap()
		for _, e := range errs {
			if !onlyUnavailable(e) {
				return false
			}
		}
		return len(errs) > 0
	}
	return errors.Is(err, runner.ErrUnavailable)
}
