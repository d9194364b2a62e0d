// Package admin holds the admin console view model: the password gate and
// the locally displayed booking listing.
package admin

import (
	"github.com/BugSlayer555/ZyeroLead/internal/domain/booking"
	"github.com/BugSlayer555/ZyeroLead/internal/httperr"
)

const (
	CodeInvalidPassword      = "invalid_password"
	CodeUnauthenticated      = "unauthenticated"
	CodeConfirmationRequired = "confirmation_required"
	CodeBookingNotListed     = "booking_not_listed"
	CodeFetchFailed          = "fetch_failed"
	CodeBackendError         = "backend_error"
	CodeCancelFailed         = "cancel_failed"
)

// Console is what one signed-in admin sees.
type Console struct {
	Authenticated bool                   `json:"authenticated"`
	Bookings      []booking.AdminBooking `json:"bookings"`
	Warning       string                 `json:"warning,omitempty"`
	Deleting      string                 `json:"deleting,omitempty"`
}

// CheckPassword is a plain equality check against the shared secret.
func CheckPassword(given, secret string) error {
	if secret == "" || given != secret {
		return httperr.ErrBusiness(CodeInvalidPassword)
	}
	return nil
}

func (c *Console) Authenticate() {
	c.Authenticated = true
}

// ReplaceBookings installs a freshly fetched listing.
func (c *Console) ReplaceBookings(list []booking.AdminBooking) {
	if list == nil {
		list = []booking.AdminBooking{}
	}
	c.Bookings = list
	c.Warning = ""
}

// Find returns the listed booking with the given date|time key.
func (c *Console) Find(key string) (booking.AdminBooking, bool) {
	for _, b := range c.Bookings {
		if b.Key() == key {
			return b, true
		}
	}
	return booking.AdminBooking{}, false
}

// Remove drops every row whose date|time key equals key and reports how
// many were removed. Other rows keep their order.
func (c *Console) Remove(key string) int {
	kept := make([]booking.AdminBooking, 0, len(c.Bookings))
	removed := 0
	for _, b := range c.Bookings {
		if b.Key() == key {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	c.Bookings = kept
	return removed
}
