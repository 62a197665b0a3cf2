package platform

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a window, screen, layout or zone cannot be resolved.
var ErrNotFound = errors.New("not found")

// PlatformError wraps a failed native window-system call.
type PlatformError struct {
	Op     string
	Window WindowID
	Err    error
}

func (e *PlatformError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Window != 0 {
		return fmt.Sprintf("%s window 0x%x: %v", e.Op, uint32(e.Window), e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func opError(op string, windowID WindowID, err error) error {
	if err == nil {
		return nil
	}
	return &PlatformError{Op: op, Window: windowID, Err: err}
}
