package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BugSlayer555/ZyeroLead/internal/domain/admin"
	"github.com/BugSlayer555/ZyeroLead/internal/domain/booking"
	"github.com/BugSlayer555/ZyeroLead/internal/dto"
	"github.com/BugSlayer555/ZyeroLead/internal/httperr"
)

type message struct {
	status int
	title  string
	text   string
}

// messages maps business codes to what the visitor or admin is shown.
var messages = map[string]message{
	booking.CodeDateUnavailable:   {http.StatusUnprocessableEntity, "Date Unavailable", "Please pick today or a later date."},
	booking.CodeDateRequired:      {http.StatusBadRequest, "Select a Date", "Please select a date first."},
	booking.CodeInvalidDate:       {http.StatusBadRequest, "Invalid Date", "Dates must look like 2026-10-18."},
	booking.CodeInvalidTimeSlot:   {http.StatusBadRequest, "Invalid Time", "Please pick one of the listed times."},
	booking.CodeSelectDateAndTime: {http.StatusBadRequest, booking.MsgSelectDateAndTime, ""},
	booking.CodeContactRequired:   {http.StatusBadRequest, "Missing Details", "Please fill in your name, phone and email."},
	booking.CodeInvalidEmail:      {http.StatusBadRequest, "Invalid Email", "Please enter a valid email address."},
	booking.CodeInvalidState:      {http.StatusConflict, "Please Wait", "Your booking is being sent."},
	booking.CodeSubmissionError:   {http.StatusBadGateway, "Submission Error", "Please try again or contact us directly."},

	admin.CodeInvalidPassword:      {http.StatusUnauthorized, "Invalid Password", ""},
	admin.CodeUnauthenticated:      {http.StatusUnauthorized, "Sign In Required", "Your session has expired."},
	admin.CodeConfirmationRequired: {http.StatusBadRequest, "Confirm Cancellation", "Please confirm before cancelling a booking."},
	admin.CodeBookingNotListed:     {http.StatusNotFound, "Booking Not Found", "Refresh the listing and try again."},
	admin.CodeFetchFailed:          {http.StatusBadGateway, "Failed to fetch bookings", "Check the logs for details. Ensure the script is deployed for anyone."},
	admin.CodeBackendError:         {http.StatusBadGateway, "Backend Error", ""},
	admin.CodeCancelFailed:         {http.StatusBadGateway, "Cancellation Failed", ""},
}

func lookup(err error) (message, bool) {
	m, ok := messages[httperr.CodeOf(err)]
	return m, ok
}

// describe returns the title and body shown for err. A verbatim detail from
// the backend wins over the canned body.
func describe(err error) (string, string) {
	m, ok := lookup(err)
	if !ok {
		return "Something Went Wrong", "Please try again."
	}
	if d := httperr.DetailOf(err); d != "" && httperr.CodeOf(err) == admin.CodeBackendError {
		return m.title, d
	}
	return m.title, m.text
}

func writeError(c *gin.Context, err error) {
	m, ok := lookup(err)
	if !ok {
		_ = c.Error(err)
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}
	title, _ := describe(err)
	httperr.WriteBusiness(c, m.status, err, title)
}

func errorDTO(err error) *dto.ErrorDTO {
	if err == nil {
		return nil
	}
	title, text := describe(err)
	if text == "" {
		text = title
	}
	code := httperr.CodeOf(err)
	if code == "" {
		code = "internal_error"
	}
	return &dto.ErrorDTO{
		Code:    code,
		Message: text,
		Detail:  httperr.DetailOf(err),
	}
}

var errInvalidDate = httperr.ErrBusiness(booking.CodeInvalidDate)
