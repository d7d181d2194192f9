package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// Error describes a failed backend call.
type Error struct {
	Op      string // "search", "results", "profile"
	Status  int    // HTTP status, 0 when no response arrived
	Message string // server-provided detail, if any
	Err     error  // transport or decoding cause
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s: server returned %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": request failed"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request gave up waiting for the backend.
func (e *Error) Timeout() bool {
	if e.Err == nil {
		return false
	}
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// Retryable reports whether the same request may succeed if sent again:
// timeouts, refused or reset connections, and gateway errors while the
// backend wakes up.
func (e *Error) Retryable() bool {
	if errors.Is(e.Err, context.Canceled) {
		return false
	}
	switch e.Status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	case 0:
	default:
		return false
	}
	if e.Timeout() {
		return true
	}
	return errors.Is(e.Err, syscall.ECONNREFUSED) || errors.Is(e.Err, syscall.ECONNRESET)
}

// Message renders err as the single line shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	switch {
	case apiErr.Status != 0 && apiErr.Message != "":
		return apiErr.Message
	case apiErr.Status != 0:
		return fmt.Sprintf("server error (%d %s)", apiErr.Status, http.StatusText(apiErr.Status))
	case apiErr.Timeout():
		return "backend did not respond in time; it may be waking up, try again in a minute"
	case errors.Is(apiErr.Err, syscall.ECONNREFUSED):
		return "backend unreachable; check that it is running"
	default:
		return fmt.Sprintf("request failed: %v", apiErr.Err)
	}
}
