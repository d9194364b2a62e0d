package booking

import (
	"strings"
	"time"
)

const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

// ContactDetails are the lead's details collected before submission.
type ContactDetails struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Company string `json:"company" form:"company"`
	Details string `json:"details,omitempty" form:"details"`
}

func (c ContactDetails) normalized() ContactDetails {
	return ContactDetails{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Company: strings.TrimSpace(c.Company),
		Details: strings.TrimSpace(c.Details),
	}
}

// Record is the payload sent to the backend when a call is requested.
type Record struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

func NewRecord(date, slot string, c ContactDetails, createdAt time.Time) Record {
	return Record{
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		Date:      date,
		Time:      slot,
		Details:   c.Details,
		CreatedAt: createdAt.UTC().Format(createdAtLayout),
	}
}

// AdminBooking is one row of the backend's getAll listing.
type AdminBooking struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Details string `json:"details"`
}

// Key is the composite date|time identity used by the admin listing.
func (b AdminBooking) Key() string {
	return Key(b.Date, b.Time)
}

func Key(date, slot string) string {
	return date + "|" + slot
}

// CancelRequest asks the backend to cancel the booking at date|time.
type CancelRequest struct {
	Action string `json:"action"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Email  string `json:"email"`
}

func NewCancelRequest(b AdminBooking) CancelRequest {
	return CancelRequest{
		Action: "cancel",
		Date:   b.Date,
		Time:   b.Time,
		Email:  b.Email,
	}
}
