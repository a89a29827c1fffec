package daemon

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	// ErrForkFailed indicates a copy of the process could not be started.
	ErrForkFailed = errors.New("fork failed")

	// ErrSessionCreationFailed indicates setsid failed, typically because the
	// process already leads a session.
	ErrSessionCreationFailed = errors.New("session creation failed")

	// ErrSinkOpenFailed indicates the null device could not be opened.
	ErrSinkOpenFailed = errors.New("null sink open failed")

	// ErrRebindOpenFailed indicates the rebind target could not be opened.
	ErrRebindOpenFailed = errors.New("rebind target open failed")
)

// Error is a failed OS primitive. Kind is one of the Err* sentinels, so
// errors.Is(err, ErrSessionCreationFailed) works on wrapped values.
type Error struct {
	Kind error
	Op   string // primitive that failed, e.g. "setsid()"
	Code int    // OS error number, 0 if the cause carried none
	Err  error
}

func newError(kind error, op string, err error) *Error {
	e := &Error{Kind: kind, Op: op, Err: err}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		e.Code = int(errno)
	}
	return e
}

func (e *Error) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed: %d (%s)", e.Op, e.Code, syscall.Errno(e.Code).Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Code returns the OS error number carried by err, or 0.
func Code(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}
