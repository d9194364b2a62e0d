package admin

import (
	"context"

	"go.uber.org/zap"

	"github.com/BugSlayer555/ZyeroLead/internal/audit"
	domain "github.com/BugSlayer555/ZyeroLead/internal/domain/admin"
	"github.com/BugSlayer555/ZyeroLead/internal/metrics"
)

// ======================================================
// USE CASE
// ======================================================

type Login struct {
	password string
	refresh  *RefreshBookings
	audit    *audit.Dispatcher
	metrics  *metrics.BookingMetrics
	logger   *zap.Logger
}

func NewLogin(
	password string,
	refresh *RefreshBookings,
	audit *audit.Dispatcher,
	metrics *metrics.BookingMetrics,
	logger *zap.Logger,
) *Login {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Login{
		password: password,
		refresh:  refresh,
		audit:    audit,
		metrics:  metrics,
		logger:   logger,
	}
}

// Execute checks the shared password. A match authenticates console and
// triggers exactly one listing fetch; its error is returned but the console
// stays signed in. A mismatch fetches nothing.
func (uc *Login) Execute(ctx context.Context, console *domain.Console, password string, ip string) error {

	// --------------------------------------------------
	// 1️⃣ Gate
	// --------------------------------------------------
	if err := domain.CheckPassword(password, uc.password); err != nil {
		uc.metrics.ObserveAdmin("login", "invalid_password")
		uc.audit.Dispatch(audit.Event{
			Actor:    "admin",
			Action:   "admin_login_failed",
			Entity:   "admin_session",
			Metadata: map[string]string{"ip": ip},
		})
		uc.logger.Warn("admin login rejected", zap.String("ip", ip))
		return err
	}

	// --------------------------------------------------
	// 2️⃣ Sign in + initial listing
	// --------------------------------------------------
	console.Authenticate()
	uc.metrics.ObserveAdmin("login", "ok")
	uc.audit.Dispatch(audit.Event{
		Actor:    "admin",
		Action:   "admin_login",
		Entity:   "admin_session",
		Metadata: map[string]string{"ip": ip},
	})

	return uc.refresh.Execute(ctx, console)
}
