package admin

import (
	"context"
	"errors"

	"go.uber.org/zap"

	domain "github.com/BugSlayer555/ZyeroLead/internal/domain/admin"
	"github.com/BugSlayer555/ZyeroLead/internal/domain/booking"
	"github.com/BugSlayer555/ZyeroLead/internal/httperr"
	"github.com/BugSlayer555/ZyeroLead/internal/metrics"
)

// WarningUnexpectedResponse is kept on the console when the listing came
// back in a shape we do not understand.
const WarningUnexpectedResponse = "Unexpected response from the booking backend. Listing not updated."

// ======================================================
// USE CASE
// ======================================================

type RefreshBookings struct {
	backend booking.Backend
	metrics *metrics.BookingMetrics
	logger  *zap.Logger
}

func NewRefreshBookings(
	backend booking.Backend,
	metrics *metrics.BookingMetrics,
	logger *zap.Logger,
) *RefreshBookings {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefreshBookings{
		backend: backend,
		metrics: metrics,
		logger:  logger,
	}
}

// Execute fetches the full listing once and installs it on console. The
// listing is only replaced when the backend returned a bookings array.
func (uc *RefreshBookings) Execute(ctx context.Context, console *domain.Console) error {
	if !console.Authenticated {
		return httperr.ErrBusiness(domain.CodeUnauthenticated)
	}

	list, err := uc.backend.ListBookings(ctx)

	var be booking.BackendError
	switch {
	case err == nil:
		console.ReplaceBookings(list)
		uc.metrics.ObserveAdmin("refresh", "ok")
		return nil

	case errors.As(err, &be):
		uc.logger.Warn("booking backend reported an error", zap.String("error", be.Message))
		uc.metrics.ObserveAdmin("refresh", "backend_error")
		return httperr.ErrBusinessDetail(domain.CodeBackendError, be.Message)

	case errors.Is(err, booking.ErrUnexpectedResponse):
		uc.logger.Warn("unexpected booking listing response", zap.Error(err))
		uc.metrics.ObserveAdmin("refresh", "unexpected")
		console.Warning = WarningUnexpectedResponse
		return nil

	default:
		uc.logger.Error("failed to fetch bookings", zap.Error(err))
		uc.metrics.ObserveAdmin("refresh", "fetch_failed")
		return httperr.ErrBusiness(domain.CodeFetchFailed)
	}
}
