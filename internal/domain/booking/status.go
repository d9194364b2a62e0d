package booking

// State is the position of a visitor in the booking flow.
type State string

const (
	StateNoDateSelected      State = "no_date_selected"
	StateDateSelected        State = "date_selected"
	StateDateAndTimeSelected State = "date_and_time_selected"
	StateSubmitting          State = "submitting"
	StateSubmitted           State = "submitted"
	StateFailed              State = "failed"
)

// FormMode decides how contact details are collected.
type FormMode string

const (
	// FormModal opens a contact dialog after the slot is confirmed and
	// clears the whole form after a successful booking.
	FormModal FormMode = "modal"
	// FormInline keeps the contact fields on the page; only the time is
	// cleared after a successful booking.
	FormInline FormMode = "inline"
)

func ParseFormMode(s string) FormMode {
	if FormMode(s) == FormInline {
		return FormInline
	}
	return FormModal
}

// Business error codes raised by the booking flow.
const (
	CodeDateUnavailable   = "date_unavailable"
	CodeDateRequired      = "date_required"
	CodeInvalidDate       = "invalid_date"
	CodeInvalidTimeSlot   = "invalid_time_slot"
	CodeSelectDateAndTime = "select_date_and_time"
	CodeContactRequired   = "contact_required"
	CodeInvalidEmail      = "invalid_email"
	CodeInvalidState      = "invalid_state"
	CodeSubmissionError   = "submission_error"
)

// MsgSelectDateAndTime is shown when a booking is attempted without a
// complete slot.
const MsgSelectDateAndTime = "Please select a date and time"
