package booking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BugSlayer555/ZyeroLead/internal/audit"
	"github.com/BugSlayer555/ZyeroLead/internal/calendar"
	domain "github.com/BugSlayer555/ZyeroLead/internal/domain/booking"
	"github.com/BugSlayer555/ZyeroLead/internal/httperr"
	"github.com/BugSlayer555/ZyeroLead/internal/metrics"
	"github.com/BugSlayer555/ZyeroLead/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type Settings struct {
	Location        *time.Location
	FormMode        domain.FormMode
	MeetingTitle    string
	MeetingLocation string
	InviteeEmail    string
}

type SubmitInput struct {
	Date    string
	Time    string
	Contact domain.ContactDetails
}

type SubmitResult struct {
	Record       domain.Record
	Selection    domain.Selection
	Message      string
	CalendarLink string
}

// ======================================================
// USE CASE
// ======================================================

type SubmitBooking struct {
	backend  domain.Backend
	audit    *audit.Dispatcher
	metrics  *metrics.BookingMetrics
	logger   *zap.Logger
	settings Settings
	now      func() time.Time
}

func NewSubmitBooking(
	backend domain.Backend,
	audit *audit.Dispatcher,
	metrics *metrics.BookingMetrics,
	logger *zap.Logger,
	settings Settings,
) *SubmitBooking {
	if settings.Location == nil {
		settings.Location = timezone.Location("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmitBooking{
		backend:  backend,
		audit:    audit,
		metrics:  metrics,
		logger:   logger,
		settings: settings,
		now:      time.Now,
	}
}

// Now is the current instant in the booking timezone.
func (uc *SubmitBooking) Now() time.Time {
	return uc.now().In(uc.settings.Location)
}

func (uc *SubmitBooking) Settings() Settings {
	return uc.settings
}

// ======================================================
// EXECUTE
// ======================================================

// Execute runs a stateless request through the same transitions a visitor
// makes on the page: pick the date, pick the time, submit, confirm.
func (uc *SubmitBooking) Execute(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	now := uc.Now()
	sel := domain.NewSelection(now, uc.settings.FormMode)

	if in.Date == "" {
		sel.ClearDate()
	} else {
		day, err := timezone.ParseDay(in.Date, uc.settings.Location)
		if err != nil {
			uc.metrics.ObserveSubmission("rejected")
			return nil, httperr.ErrBusiness(domain.CodeInvalidDate)
		}
		if err := sel.SelectDate(day, now); err != nil {
			uc.metrics.ObserveSubmission("rejected")
			return nil, err
		}
		if in.Time != "" {
			if err := sel.SelectTime(in.Time); err != nil {
				uc.metrics.ObserveSubmission("rejected")
				return nil, err
			}
		}
	}

	return uc.Send(ctx, &sel, in.Contact)
}

// Send confirms sel with the contact details and posts the record. sel is
// updated in place: reset on success, marked failed on transport errors.
func (uc *SubmitBooking) Send(
	ctx context.Context,
	sel *domain.Selection,
	contact domain.ContactDetails,
) (*SubmitResult, error) {

	// --------------------------------------------------
	// 1️⃣ Guards (slot + contact form)
	// --------------------------------------------------
	rec, err := sel.Confirm(contact, uc.now())
	if err != nil {
		uc.metrics.ObserveSubmission("rejected")
		return nil, err
	}
	key := domain.Key(rec.Date, rec.Time)

	// --------------------------------------------------
	// 2️⃣ Fire and forget: only transport errors are visible
	// --------------------------------------------------
	if err := uc.backend.CreateBooking(ctx, rec); err != nil {
		sel.Fail()
		uc.logger.Error("booking submission failed",
			zap.String("slot", key),
			zap.String("email", rec.Email),
			zap.Error(err),
		)
		uc.metrics.ObserveSubmission("transport_error")
		uc.audit.Dispatch(audit.Event{
			Actor:     rec.Email,
			Action:    "booking_submission_failed",
			Entity:    "booking",
			EntityKey: key,
			Metadata:  map[string]string{"error": err.Error()},
		})
		return nil, httperr.ErrBusiness(domain.CodeSubmissionError)
	}

	// --------------------------------------------------
	// 3️⃣ Reset for the next booking
	// --------------------------------------------------
	sel.Succeed()

	uc.metrics.ObserveSubmission("submitted")
	uc.audit.Dispatch(audit.Event{
		Actor:     rec.Email,
		Action:    "booking_submitted",
		Entity:    "booking",
		EntityKey: key,
		Metadata: map[string]string{
			"name":    rec.Name,
			"company": rec.Company,
		},
	})
	uc.logger.Info("booking request sent", zap.String("slot", key))

	return &SubmitResult{
		Record:       rec,
		Selection:    *sel,
		Message:      domain.ConfirmationMessage(rec, uc.settings.Location),
		CalendarLink: uc.inviteLink(rec),
	}, nil
}

func (uc *SubmitBooking) inviteLink(rec domain.Record) string {
	start, err := domain.StartAt(rec.Date, rec.Time, uc.settings.Location)
	if err != nil {
		uc.logger.Warn("could not build invite link", zap.Error(err))
		return ""
	}

	desc := fmt.Sprintf("Strategy call with %s (%s, %s)", rec.Name, rec.Email, rec.Phone)
	if rec.Company != "" {
		desc += " from " + rec.Company
	}

	return calendar.Link(calendar.Invite{
		Title:       uc.settings.MeetingTitle,
		Start:       start,
		Description: desc,
		Location:    uc.settings.MeetingLocation,
		Invitee:     uc.settings.InviteeEmail,
	})
}
