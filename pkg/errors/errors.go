package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArguments  = errors.New("invalid arguments")
	ErrInvalidStrategy   = errors.New("invalid search strategy")
	ErrInvalidMenuChoice = errors.New("invalid menu choice")
)

// Process exit codes reported by cmd/search.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitBadUsage = 2
)

type AppError struct {
	Err      error
	Message  string
	ExitCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, exitCode int, message string) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  message,
		ExitCode: exitCode,
	}
}

func Newf(sentinel error, exitCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  fmt.Sprintf(format, args...),
		ExitCode: exitCode,
	}
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}

	switch {
	case errors.Is(err, ErrInvalidArguments):
		return ExitBadUsage
	default:
		return ExitFailure
	}
}
