package terminal

import "errors"

var (
	// ErrNotInitialized is returned by operations called before Init or after Shutdown
	ErrNotInitialized = errors.New("terminal not initialized")

	// ErrNotTerminal is returned when the input device is not a terminal
	ErrNotTerminal = errors.New("not a terminal")

	// ErrClosed is returned by backend I/O after the device has been released
	ErrClosed = errors.New("terminal device closed")
)

// InitError reports a failure to bring the terminal into raw full-screen mode
type InitError struct {
	Op  string
	Err error
}

func (e *InitError) Error() string {
	return "terminal init: " + e.Op + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// IOError reports a write failure while flushing output
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return "terminal " + e.Op + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}
