package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable covers transport failures and, for the listing call,
	// non-2xx statuses and unreadable bodies.
	ErrUnavailable = errors.New("booking backend unavailable")

	// ErrUnexpectedResponse is a readable listing without a bookings array
	// and without an error message.
	ErrUnexpectedResponse = errors.New("unexpected booking backend response")
)

// BackendError is an error message reported by the backend itself.
type BackendError struct {
	Message string
}

func (e BackendError) Error() string {
	return fmt.Sprintf("booking backend: %s", e.Message)
}
