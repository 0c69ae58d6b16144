package cmd

import "errors"

// Exit codes for httpie CLI
const (
	// ExitSuccess indicates the request completed and was printed
	ExitSuccess = 0

	// ExitRequestError indicates a network/connection error
	ExitRequestError = 1

	// ExitUsageError indicates invalid CLI usage, a bad URL or a malformed pair
	ExitUsageError = 2

	// ExitConfigError indicates a configuration or env file error
	ExitConfigError = 3

	// ExitCheckFailure indicates the response failed --schema, --path or JSON formatting
	ExitCheckFailure = 4
)

// exitError carries the process exit code for err. reported is set once the
// error has been written through a formatter.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCode maps err to a process exit code. Errors that did not come from a
// command body are cobra argument or flag errors.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsageError
}
