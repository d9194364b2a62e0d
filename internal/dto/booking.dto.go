package dto

import (
	"github.com/BugSlayer555/ZyeroLead/internal/domain/admin"
	"github.com/BugSlayer555/ZyeroLead/internal/domain/booking"
)

// CreateBookingRequest is the public submission body. Presence of the slot
// and contact fields is checked by the booking flow so the visitor gets the
// same messages as on the page.
type CreateBookingRequest struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Name    string `json:"name" binding:"max=200"`
	Email   string `json:"email" binding:"max=254"`
	Phone   string `json:"phone" binding:"max=40"`
	Company string `json:"company" binding:"max=200"`
	Details string `json:"details" binding:"max=4000"`
}

func (r CreateBookingRequest) Contact() booking.ContactDetails {
	return booking.ContactDetails{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Company: r.Company,
		Details: r.Details,
	}
}

type BookingCreatedDTO struct {
	Title        string            `json:"title"`
	Message      string            `json:"message"`
	Booking      booking.Record    `json:"booking"`
	Selection    booking.Selection `json:"selection"`
	CalendarLink string            `json:"calendar_link,omitempty"`
}

type SlotsDTO struct {
	Date      string   `json:"date"`
	Today     string   `json:"today"`
	Timezone  string   `json:"timezone"`
	Disabled  bool     `json:"disabled"`
	TimeSlots []string `json:"time_slots"`
}

type AdminLoginRequest struct {
	Password string `json:"password" form:"password"`
}

type AdminCancelRequest struct {
	Date    string `json:"date" form:"date" binding:"required"`
	Time    string `json:"time" form:"time" binding:"required"`
	Confirm bool   `json:"confirm" form:"confirm"`
}

type AdminConsoleDTO struct {
	Token     string        `json:"token,omitempty"`
	ExpiresAt string        `json:"expires_at,omitempty"`
	Console   admin.Console `json:"console"`
	Error     *ErrorDTO     `json:"error,omitempty"`
}

type AdminCancelledDTO struct {
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Cancelled booking.AdminBooking `json:"cancelled"`
	Console   admin.Console        `json:"console"`
}

// ErrorDTO reports a non-fatal failure next to a successful result, such as
// a listing fetch that failed right after sign in.
type ErrorDTO struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}
