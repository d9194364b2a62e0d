package booking

import "context"

// Backend is the external spreadsheet-backed booking service.
//
// CreateBooking and CancelBooking only report transport failures: the
// service answers in a mode whose body and status are not observable, so a
// nil error means "the request left", not "the backend accepted it".
type Backend interface {
	CreateBooking(ctx context.Context, rec Record) error

	ListBookings(ctx context.Context) ([]AdminBooking, error)

	CancelBooking(ctx context.Context, req CancelRequest) error
}
