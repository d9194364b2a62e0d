package booking

import (
	"time"

	"github.com/BugSlayer555/ZyeroLead/internal/httperr"
	"github.com/BugSlayer555/ZyeroLead/internal/validators"
)

// Selection is one visitor's in-progress booking: the chosen slot, the
// contact form and where the flow currently stands.
type Selection struct {
	Date        string         `json:"date,omitempty"`
	Time        string         `json:"time,omitempty"`
	Contact     ContactDetails `json:"contact"`
	Mode        FormMode       `json:"mode"`
	ContactOpen bool           `json:"contact_open"`
	State       State          `json:"state"`
}

// NewSelection starts a flow with today pre-selected and no time.
func NewSelection(now time.Time, mode FormMode) Selection {
	s := Selection{
		Date: now.Format(DateLayout),
		Mode: mode,
	}
	s.refresh()
	return s
}

// Day returns the selected date as a calendar day in loc.
func (s Selection) Day(loc *time.Location) (time.Time, bool) {
	if s.Date == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(DateLayout, s.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func (s Selection) Complete() bool {
	return s.Date != "" && s.Time != ""
}

// SelectDate replaces the selected date. The selected time is kept.
func (s *Selection) SelectDate(d, now time.Time) error {
	if s.State == StateSubmitting {
		return httperr.ErrBusiness(CodeInvalidState)
	}
	if IsDateDisabled(d, now) {
		return httperr.ErrBusiness(CodeDateUnavailable)
	}

	s.Date = d.Format(DateLayout)
	s.refresh()
	return nil
}

// ClearDate deselects the date, as clicking the selected calendar day does.
func (s *Selection) ClearDate() {
	if s.State == StateSubmitting {
		return
	}
	s.Date = ""
	s.ContactOpen = false
	s.refresh()
}

func (s *Selection) SelectTime(label string) error {
	if s.State == StateSubmitting {
		return httperr.ErrBusiness(CodeInvalidState)
	}
	if s.Date == "" {
		return httperr.ErrBusiness(CodeDateRequired)
	}
	if !IsTimeSlot(label) {
		return httperr.ErrBusiness(CodeInvalidTimeSlot)
	}

	s.Time = label
	s.refresh()
	return nil
}

// Submit moves a complete slot on to contact collection. Without a date
// and a time nothing happens and CodeSelectDateAndTime is returned.
func (s *Selection) Submit() error {
	if s.State == StateSubmitting {
		return httperr.ErrBusiness(CodeInvalidState)
	}
	if !s.Complete() {
		return httperr.ErrBusiness(CodeSelectDateAndTime)
	}

	s.ContactOpen = true
	return nil
}

// CloseContact dismisses the contact dialog without sending anything.
func (s *Selection) CloseContact() {
	if s.State == StateSubmitting {
		return
	}
	s.ContactOpen = false
}

// Confirm validates the contact form and builds the record to send. On
// success the selection is left in StateSubmitting until Succeed or Fail.
func (s *Selection) Confirm(contact ContactDetails, createdAt time.Time) (Record, error) {
	if err := s.Submit(); err != nil {
		return Record{}, err
	}

	s.Contact = contact.normalized()
	if err := ValidateContact(s.Contact); err != nil {
		return Record{}, err
	}

	rec := NewRecord(s.Date, s.Time, s.Contact, createdAt)
	s.State = StateSubmitting
	return rec, nil
}

// Succeed resets the selection for a new booking.
func (s *Selection) Succeed() {
	s.Time = ""
	if s.Mode == FormModal {
		s.Contact = ContactDetails{}
		s.ContactOpen = false
	}
	s.State = StateSubmitted
}

// Fail keeps everything the visitor entered so they can try again.
func (s *Selection) Fail() {
	s.State = StateFailed
}

// Summary is the "Booking for Oct 18th at 11:00 AM" line, empty until the
// slot is complete.
func (s Selection) Summary(loc *time.Location) string {
	d, ok := s.Day(loc)
	if !ok || s.Time == "" {
		return ""
	}
	return "Booking for " + ShortDate(d) + " at " + s.Time
}

func (s *Selection) refresh() {
	switch {
	case s.Date == "":
		s.State = StateNoDateSelected
	case s.Time == "":
		s.State = StateDateSelected
	default:
		s.State = StateDateAndTimeSelected
	}
}

// ValidateContact checks the mandatory fields. Formats are not checked
// beyond what the form field types already imply: the email must look
// like an address.
func ValidateContact(c ContactDetails) error {
	switch {
	case c.Name == "":
		return httperr.ErrBusinessDetail(CodeContactRequired, "name")
	case c.Phone == "":
		return httperr.ErrBusinessDetail(CodeContactRequired, "phone")
	case c.Email == "":
		return httperr.ErrBusinessDetail(CodeContactRequired, "email")
	case !validators.IsEmail(c.Email):
		return httperr.ErrBusiness(CodeInvalidEmail)
	}
	return nil
}

// ConfirmationMessage is shown after a booking request has been sent.
func ConfirmationMessage(rec Record, loc *time.Location) string {
	d, err := time.ParseInLocation(DateLayout, rec.Date, loc)
	if err != nil {
		return "Requested at " + rec.Time + ". We'll confirm shortly."
	}
	return "Requested for " + LongDate(d) + " at " + rec.Time + ". We'll confirm shortly."
}
