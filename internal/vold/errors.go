package vold

import (
	"errors"
	"fmt"
	"strings"
)

// Result codes returned to callers that speak the daemon's integer convention.
const (
	ResultOK     = 0
	ResultFailed = -1
)

var (
	// ErrInvalidState is matched by every *StateError.
	ErrInvalidState = errors.New("operation not permitted in current volume state")

	// ErrEmptyFilesystemType is returned by CustomFormat when no filesystem
	// type is given. The daemon has no auto-detect sentinel on that path;
	// use Format to keep the existing filesystem type.
	ErrEmptyFilesystemType = errors.New("filesystem type is required, use Format to keep the current type")
)

// StateError reports an operation that is illegal from the volume's current state.
type StateError struct {
	Op    string
	Path  string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s volume %s in state %d (%s)", e.Op, e.Path, int(e.State), e.State)
}

// Is allows errors.Is(err, ErrInvalidState).
func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}

// CommandError reports a command the daemon (or the transport) failed.
type CommandError struct {
	// Args is the command line that was sent.
	Args []string
	// Code is the transport-level result code, always negative.
	Code int
	// Response is the daemon's response code, 0 when none was received.
	Response int
	// Message is the daemon's response text, if any.
	Message string
	// Err is the underlying transport error, if any.
	Err error
}

func (e *CommandError) Error() string {
	cmd := strings.Join(e.Args, " ")
	if e.Response != 0 {
		return fmt.Sprintf("command %q failed with response %d: %s", cmd, e.Response, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("command %q failed: %s", cmd, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("command %q failed: %v", cmd, e.Err)
	}
	return fmt.Sprintf("command %q failed with code %d", cmd, e.Code)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ResultCode maps an error returned by a Guard operation onto the daemon's
// integer convention: 0 for success, a negative value for failure.
// A *CommandError contributes its own code unchanged.
func ResultCode(err error) int {
	if err == nil {
		return ResultOK
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code < 0 {
		return cmdErr.Code
	}
	return ResultFailed
}
