package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BugSlayer555/ZyeroLead/internal/domain/admin"
	"github.com/BugSlayer555/ZyeroLead/internal/domain/booking"
	"github.com/BugSlayer555/ZyeroLead/internal/dto"
	"github.com/BugSlayer555/ZyeroLead/internal/export"
	"github.com/BugSlayer555/ZyeroLead/internal/httperr"
	"github.com/BugSlayer555/ZyeroLead/internal/httpresp"
	"github.com/BugSlayer555/ZyeroLead/internal/infra/session"
	"github.com/BugSlayer555/ZyeroLead/internal/middleware"
	ucAdmin "github.com/BugSlayer555/ZyeroLead/internal/usecase/admin"
)

// AdminAuth configures how signed-in consoles are tracked.
type AdminAuth struct {
	Secret        string
	TokenTTL      time.Duration
	SecureCookies bool
}

// AdminConsoles is the console lifecycle shared by the JSON API and the
// server-rendered console.
type AdminConsoles struct {
	loginUC   *ucAdmin.Login
	refreshUC *ucAdmin.RefreshBookings
	cancelUC  *ucAdmin.CancelBooking
	sessions  sessions
	auth      AdminAuth
	logger    *zap.Logger
	now       func() time.Time
}

func NewAdminConsoles(
	loginUC *ucAdmin.Login,
	refreshUC *ucAdmin.RefreshBookings,
	cancelUC *ucAdmin.CancelBooking,
	store session.Store,
	auth AdminAuth,
	logger *zap.Logger,
) *AdminConsoles {
	return &AdminConsoles{
		loginUC:   loginUC,
		refreshUC: refreshUC,
		cancelUC:  cancelUC,
		sessions:  sessions{store: store},
		auth:      auth,
		logger:    logger,
		now:       time.Now,
	}
}

type signedIn struct {
	SID       string
	Token     string
	ExpiresAt time.Time
	Session   *adminSession
	// FetchErr is the failure of the listing fetch that follows sign in.
	FetchErr error
}

// signIn checks the password and, on a match, stores a new console and
// signs a token for it.
func (a *AdminConsoles) signIn(ctx context.Context, password, ip string) (*signedIn, error) {
	as := &adminSession{}
	err := a.loginUC.Execute(ctx, &as.Console, password, ip)
	if !as.Console.Authenticated {
		return nil, err
	}

	now := a.now()
	sid := session.NewID()
	token, tokenErr := middleware.IssueAdminToken(a.auth.Secret, sid, a.auth.TokenTTL, now)
	if tokenErr != nil {
		return nil, tokenErr
	}
	if saveErr := a.sessions.saveAdmin(ctx, sid, as); saveErr != nil {
		return nil, saveErr
	}

	return &signedIn{
		SID:       sid,
		Token:     token,
		ExpiresAt: now.Add(a.auth.TokenTTL),
		Session:   as,
		FetchErr:  err,
	}, nil
}

func (a *AdminConsoles) load(ctx context.Context, sid string) (*adminSession, error) {
	as, ok, err := a.sessions.loadAdmin(ctx, sid)
	if err != nil {
		return nil, err
	}
	if !ok || !as.Console.Authenticated {
		return nil, httperr.ErrBusiness(admin.CodeUnauthenticated)
	}
	return as, nil
}

func (a *AdminConsoles) save(ctx context.Context, sid string, as *adminSession) {
	if err := a.sessions.saveAdmin(ctx, sid, as); err != nil {
		a.logger.Error("could not save admin session", zap.Error(err))
	}
}

// ======================================================
// JSON API
// ======================================================

type AdminHandler struct {
	consoles *AdminConsoles
}

func NewAdminHandler(consoles *AdminConsoles) *AdminHandler {
	return &AdminHandler{consoles: consoles}
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Password is required.")
		return
	}

	in, err := h.consoles.signIn(c.Request.Context(), req.Password, c.ClientIP())
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetAdminCookie(c, in.Token, h.consoles.auth.TokenTTL, h.consoles.auth.SecureCookies)
	httpresp.OK(c, dto.AdminConsoleDTO{
		Token:     in.Token,
		ExpiresAt: in.ExpiresAt.UTC().Format(time.RFC3339),
		Console:   in.Session.Console,
		Error:     errorDTO(in.FetchErr),
	})
}

// ListBookings re-fetches the listing, as the console's refresh button does.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	ctx := c.Request.Context()
	sid := c.GetString(middleware.ContextAdminSession)

	as, err := h.consoles.load(ctx, sid)
	if err != nil {
		writeError(c, err)
		return
	}

	err = h.consoles.refreshUC.Execute(ctx, &as.Console)
	h.consoles.save(ctx, sid, as)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, dto.AdminConsoleDTO{Console: as.Console})
}

func (h *AdminHandler) CancelBooking(c *gin.Context) {
	var req dto.AdminCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Date and time are required.")
		return
	}

	ctx := c.Request.Context()
	sid := c.GetString(middleware.ContextAdminSession)

	as, err := h.consoles.load(ctx, sid)
	if err != nil {
		writeError(c, err)
		return
	}

	cancelled, err := h.consoles.cancelUC.Execute(ctx, &as.Console, ucAdmin.CancelInput{
		Key:       booking.Key(req.Date, req.Time),
		Confirmed: req.Confirm,
	})
	h.consoles.save(ctx, sid, as)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, dto.AdminCancelledDTO{
		Title:     "Booking Cancelled",
		Message:   "The slot should now be open.",
		Cancelled: cancelled,
		Console:   as.Console,
	})
}

// Export downloads the listing currently held by the console.
func (h *AdminHandler) Export(c *gin.Context) {
	sid := c.GetString(middleware.ContextAdminSession)

	as, err := h.consoles.load(c.Request.Context(), sid)
	if err != nil {
		writeError(c, err)
		return
	}

	body, err := export.BookingsXLSX(as.Console.Bookings)
	if err != nil {
		h.consoles.logger.Error("export failed", zap.Error(err))
		httperr.Internal(c, "export_failed", "Could not build the export.")
		return
	}

	filename := "bookings-" + h.consoles.now().Format("20060102") + ".xlsx"
	httpresp.Attachment(c, filename, export.ContentType, body)
}
