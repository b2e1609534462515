package client

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is returned by legacy operations that exist only for API
// parity and were never ported.
var ErrNotImplemented = errors.New("mongocompat: not implemented")

// ErrClientClosed is returned by operations that need the connector after
// Close has been called.
var ErrClientClosed = errors.New("mongocompat: client is closed")

// ConnectionError reports a failure to build the connector during client
// construction. No partial client escapes when it is returned.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("mongocompat: connect: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// CommandError wraps any failure surfaced while executing an administrative
// command. Commands are not retried at this layer.
type CommandError struct {
	Database string
	Command  string
	Err      error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("mongocompat: command %q on database %q: %v", e.Command, e.Database, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
