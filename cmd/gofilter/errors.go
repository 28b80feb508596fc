package main

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

const (
	exitInvalid = 1
	exitFailure = 2
	exitUsage   = 3
)

// exitError carries the exit code of a failure.
type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(err error, code int) error {
	return &exitError{err: err, code: code}
}

// errInvalid reports filters that failed to parse. Their errors have
// already been printed.
var errInvalid = withExitCode(errors.New(""), exitInvalid)

func exitCode(err error) int {
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return exitFailure
}

// withStackTrace wraps err with the stack of its caller.
func withStackTrace(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return goerrors.WrapPrefix(err, fmt.Sprintf(format, args...), 1)
}

// errorStack renders err with its stack trace, when it carries one.
func errorStack(err error) string {
	var ge *goerrors.Error
	if errors.As(err, &ge) {
		return ge.ErrorStack()
	}
	return err.Error()
}
