package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BugSlayer555/ZyeroLead/internal/domain/booking"
	"github.com/BugSlayer555/ZyeroLead/internal/infra/session"
	"github.com/BugSlayer555/ZyeroLead/internal/timezone"
	ucBooking "github.com/BugSlayer555/ZyeroLead/internal/usecase/booking"
)

// SiteInfo is page furniture that does not belong to the booking flow.
type SiteInfo struct {
	ContactPhone  string
	WhatsAppURL   string
	SecureCookies bool
	SessionTTL    time.Duration
}

type slotView struct {
	Label    string
	Selected bool
}

type PublicWebHandler struct {
	submitUC *ucBooking.SubmitBooking
	sessions sessions
	site     SiteInfo
	logger   *zap.Logger
}

func NewPublicWebHandler(
	submitUC *ucBooking.SubmitBooking,
	store session.Store,
	site SiteInfo,
	logger *zap.Logger,
) *PublicWebHandler {
	return &PublicWebHandler{
		submitUC: submitUC,
		sessions: sessions{store: store},
		site:     site,
		logger:   logger,
	}
}

// ======================================================
// SESSION
// ======================================================

// sessionID returns the visitor's session id, issuing a cookie for a new
// one when the request carries none.
func (h *PublicWebHandler) sessionID(c *gin.Context) string {
	id, _ := c.Cookie(bookingCookie)
	if session.ValidID(id) {
		return id
	}

	id = session.NewID()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(bookingCookie, id, int(h.site.SessionTTL.Seconds()), "/", "", h.site.SecureCookies, true)
	return id
}

func (h *PublicWebHandler) load(c *gin.Context, id string) *bookingSession {
	now := h.submitUC.Now()
	settings := h.submitUC.Settings()

	bs, ok, err := h.sessions.loadBooking(c.Request.Context(), id)
	if err != nil {
		h.logger.Warn("could not load booking session", zap.Error(err))
	}
	if !ok {
		bs = &bookingSession{Selection: booking.NewSelection(now, settings.FormMode)}
	}

	// a day selected yesterday is no longer bookable
	if d, ok := bs.Selection.Day(settings.Location); ok && booking.IsDateDisabled(d, now) {
		_ = bs.Selection.SelectDate(timezone.Day(now), now)
	}

	return bs
}

func (h *PublicWebHandler) lock(c *gin.Context, id string) (func(), bool) {
	release, ok, err := h.sessions.lockBooking(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("could not lock booking session", zap.Error(err))
		return release, false
	}
	return release, ok
}

func (h *PublicWebHandler) save(c *gin.Context, id string, bs *bookingSession) {
	if err := h.sessions.saveBooking(c.Request.Context(), id, bs); err != nil {
		h.logger.Error("could not save booking session", zap.Error(err))
	}
}

// mutate applies fn to the visitor's session under the session lock and
// sends them back to the page. While another request holds the lock, as
// a confirm still waiting on the backend does, nothing changes.
func (h *PublicWebHandler) mutate(c *gin.Context, fn func(bs *bookingSession)) {
	id := h.sessionID(c)

	release, ok := h.lock(c, id)
	defer release()
	if !ok {
		h.logger.Info("booking session busy, request ignored", zap.String("path", c.FullPath()))
		c.Redirect(http.StatusSeeOther, "/book")
		return
	}

	bs := h.load(c, id)
	fn(bs)
	h.save(c, id, bs)
	c.Redirect(http.StatusSeeOther, "/book")
}

// ======================================================
// PAGE
// ======================================================

func (h *PublicWebHandler) ShowBookingPage(c *gin.Context) {
	id := h.sessionID(c)

	release, locked := h.lock(c, id)
	defer release()

	bs := h.load(c, id)

	// the notice is consumed only when nothing else is writing the session
	flash := bs.Notice
	if locked {
		bs.Notice = nil
		h.save(c, id, bs)
	}

	settings := h.submitUC.Settings()
	sel := bs.Selection

	slots := make([]slotView, 0, len(booking.TimeSlots()))
	for _, label := range booking.TimeSlots() {
		slots = append(slots, slotView{Label: label, Selected: label == sel.Time})
	}

	var longDate string
	if d, ok := sel.Day(settings.Location); ok {
		longDate = booking.LongDate(d)
	}

	c.HTML(http.StatusOK, "book.html", gin.H{
		"Selection":   sel,
		"Inline":      sel.Mode == booking.FormInline,
		"Today":       h.submitUC.Now().Format(booking.DateLayout),
		"LongDate":    longDate,
		"Summary":     sel.Summary(settings.Location),
		"Slots":       slots,
		"CanSubmit":   sel.Complete() && locked,
		"Busy":        !locked,
		"Notice":      flash,
		"Phone":       h.site.ContactPhone,
		"WhatsAppURL": h.site.WhatsAppURL,
	})
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *PublicWebHandler) SelectDate(c *gin.Context) {
	h.mutate(c, func(bs *bookingSession) {
		dateStr := c.PostForm("date")
		if dateStr == "" {
			bs.Selection.ClearDate()
			return
		}

		settings := h.submitUC.Settings()
		day, err := timezone.ParseDay(dateStr, settings.Location)
		if err == nil {
			err = bs.Selection.SelectDate(day, h.submitUC.Now())
		} else {
			err = errInvalidDate
		}
		if err != nil {
			bs.Notice = errorNotice(err)
		}
	})
}

func (h *PublicWebHandler) ClearDate(c *gin.Context) {
	h.mutate(c, func(bs *bookingSession) {
		bs.Selection.ClearDate()
	})
}

func (h *PublicWebHandler) SelectTime(c *gin.Context) {
	h.mutate(c, func(bs *bookingSession) {
		if err := bs.Selection.SelectTime(c.PostForm("time")); err != nil {
			bs.Notice = errorNotice(err)
		}
	})
}

// Submit opens the contact dialog once the slot is complete.
func (h *PublicWebHandler) Submit(c *gin.Context) {
	h.mutate(c, func(bs *bookingSession) {
		if err := bs.Selection.Submit(); err != nil {
			bs.Notice = errorNotice(err)
		}
	})
}

func (h *PublicWebHandler) CloseContact(c *gin.Context) {
	h.mutate(c, func(bs *bookingSession) {
		bs.Selection.CloseContact()
	})
}

// Confirm sends the booking with the posted contact details.
func (h *PublicWebHandler) Confirm(c *gin.Context) {
	h.mutate(c, func(bs *bookingSession) {
		var contact booking.ContactDetails
		if err := c.ShouldBind(&contact); err != nil {
			bs.Notice = &notice{Title: "Missing Details", Text: "Please check the form and try again.", Error: true}
			return
		}

		res, err := h.submitUC.Send(c.Request.Context(), &bs.Selection, contact)
		if err != nil {
			bs.Notice = errorNotice(err)
			return
		}

		bs.Notice = &notice{
			Title:        "Booking Request Received!",
			Text:         res.Message,
			CalendarLink: res.CalendarLink,
		}
	})
}
