package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BugSlayer555/ZyeroLead/internal/domain/booking"
	"github.com/BugSlayer555/ZyeroLead/internal/dto"
	"github.com/BugSlayer555/ZyeroLead/internal/httperr"
	"github.com/BugSlayer555/ZyeroLead/internal/httpresp"
	"github.com/BugSlayer555/ZyeroLead/internal/timezone"
	ucBooking "github.com/BugSlayer555/ZyeroLead/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	submitUC *ucBooking.SubmitBooking
}

func NewPublicHandler(submitUC *ucBooking.SubmitBooking) *PublicHandler {
	return &PublicHandler{submitUC: submitUC}
}

////////////////////////////////////////////////////////
// SLOTS
////////////////////////////////////////////////////////

// Slots reports whether date can be booked and the fixed list of times.
// Times never depend on existing bookings.
func (h *PublicHandler) Slots(c *gin.Context) {
	settings := h.submitUC.Settings()
	now := h.submitUC.Now()
	today := now.Format(booking.DateLayout)

	dateStr := c.DefaultQuery("date", today)
	day, err := timezone.ParseDay(dateStr, settings.Location)
	if err != nil {
		httperr.BadRequest(c, booking.CodeInvalidDate, "Dates must look like 2026-10-18.")
		return
	}

	httpresp.OK(c, dto.SlotsDTO{
		Date:      day.Format(booking.DateLayout),
		Today:     today,
		Timezone:  settings.Location.String(),
		Disabled:  booking.IsDateDisabled(day, now),
		TimeSlots: booking.TimeSlots(),
	})
}

////////////////////////////////////////////////////////
// BOOKINGS
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Please check the form and try again.")
		return
	}

	res, err := h.submitUC.Execute(c.Request.Context(), ucBooking.SubmitInput{
		Date:    req.Date,
		Time:    req.Time,
		Contact: req.Contact(),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Accepted(c, dto.BookingCreatedDTO{
		Title:        "Booking Request Received!",
		Message:      res.Message,
		Booking:      res.Record,
		Selection:    res.Selection,
		CalendarLink: res.CalendarLink,
	})
}
