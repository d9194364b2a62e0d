package admin

import (
	"context"

	"go.uber.org/zap"

	"github.com/BugSlayer555/ZyeroLead/internal/audit"
	domain "github.com/BugSlayer555/ZyeroLead/internal/domain/admin"
	"github.com/BugSlayer555/ZyeroLead/internal/domain/booking"
	"github.com/BugSlayer555/ZyeroLead/internal/httperr"
	"github.com/BugSlayer555/ZyeroLead/internal/metrics"
)

// ======================================================
// INPUT
// ======================================================

type CancelInput struct {
	Key       string
	Confirmed bool
}

// ======================================================
// USE CASE
// ======================================================

type CancelBooking struct {
	backend booking.Backend
	audit   *audit.Dispatcher
	metrics *metrics.BookingMetrics
	logger  *zap.Logger
}

func NewCancelBooking(
	backend booking.Backend,
	audit *audit.Dispatcher,
	metrics *metrics.BookingMetrics,
	logger *zap.Logger,
) *CancelBooking {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CancelBooking{
		backend: backend,
		audit:   audit,
		metrics: metrics,
		logger:  logger,
	}
}

// Execute sends the cancel request for the listed booking identified by
// in.Key and removes it from console. The backend's answer is never read,
// so the removal is optimistic; only a transport error keeps the row.
func (uc *CancelBooking) Execute(ctx context.Context, console *domain.Console, in CancelInput) (booking.AdminBooking, error) {

	// --------------------------------------------------
	// 1️⃣ Guards
	// --------------------------------------------------
	if !console.Authenticated {
		return booking.AdminBooking{}, httperr.ErrBusiness(domain.CodeUnauthenticated)
	}
	if !in.Confirmed {
		return booking.AdminBooking{}, httperr.ErrBusiness(domain.CodeConfirmationRequired)
	}

	target, ok := console.Find(in.Key)
	if !ok {
		return booking.AdminBooking{}, httperr.ErrBusiness(domain.CodeBookingNotListed)
	}

	// --------------------------------------------------
	// 2️⃣ Cancel request (response ignored)
	// --------------------------------------------------
	console.Deleting = in.Key
	defer func() { console.Deleting = "" }()

	err := uc.backend.CancelBooking(ctx, booking.NewCancelRequest(target))

	if err != nil {
		uc.logger.Error("failed to cancel booking",
			zap.String("slot", in.Key),
			zap.Error(err),
		)
		uc.metrics.ObserveAdmin("cancel", "transport_error")
		return target, httperr.ErrBusiness(domain.CodeCancelFailed)
	}

	// --------------------------------------------------
	// 3️⃣ Optimistic removal
	// --------------------------------------------------
	console.Remove(in.Key)

	uc.metrics.ObserveAdmin("cancel", "ok")
	uc.audit.Dispatch(audit.Event{
		Actor:     "admin",
		Action:    "booking_cancelled",
		Entity:    "booking",
		EntityKey: in.Key,
		Metadata: map[string]string{
			"name":  target.Name,
			"email": target.Email,
		},
	})

	return target, nil
}
