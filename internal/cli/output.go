package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // A scenario failed
	ExitCommandError = 2 // Bad input: unreadable file, database not found, etc.
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from err. Errors that are not an
// ExitError (flag parsing, unknown commands) map to ExitCommandError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// OutputFormatter writes command results as JSON or plain text.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// Response is the JSON envelope for every command.
type Response struct {
	Status string `json:"status"` // "ok" or "error"
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// JSON reports whether output is machine readable.
func (f *OutputFormatter) JSON() bool {
	return f.Format == "json"
}

// Success writes data. In text mode render is used to print it.
func (f *OutputFormatter) Success(data any, render func(w io.Writer)) error {
	if f.JSON() {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}
	render(f.Writer)
	return nil
}

// Failure writes data with an error status. In text mode render is used.
func (f *OutputFormatter) Failure(msg string, data any, render func(w io.Writer)) error {
	if f.JSON() {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "error", Data: data, Error: msg})
	}
	render(f.Writer)
	return nil
}

// VerboseLog prints diagnostics when verbose mode is on. They go to
// ErrWriter so JSON output stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
