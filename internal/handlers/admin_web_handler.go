package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BugSlayer555/ZyeroLead/internal/domain/booking"
	"github.com/BugSlayer555/ZyeroLead/internal/dto"
	"github.com/BugSlayer555/ZyeroLead/internal/middleware"
	ucAdmin "github.com/BugSlayer555/ZyeroLead/internal/usecase/admin"
)

// AdminWebHandler serves the browser console. The admin token lives in a
// cookie; everything else is in the console session.
type AdminWebHandler struct {
	consoles *AdminConsoles
}

func NewAdminWebHandler(consoles *AdminConsoles) *AdminWebHandler {
	return &AdminWebHandler{consoles: consoles}
}

func (h *AdminWebHandler) sessionID(c *gin.Context) (string, bool) {
	token := middleware.AdminToken(c)
	if token == "" {
		return "", false
	}
	sid, err := middleware.ParseAdminToken(h.consoles.auth.Secret, token)
	if err != nil {
		return "", false
	}
	return sid, true
}

func (h *AdminWebHandler) loginPage(c *gin.Context, status int, n *notice) {
	c.HTML(status, "admin.html", gin.H{
		"Page":   "login",
		"Notice": n,
	})
}

func (h *AdminWebHandler) backToConsole(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *AdminWebHandler) Console(c *gin.Context) {
	ctx := c.Request.Context()

	sid, ok := h.sessionID(c)
	if !ok {
		h.loginPage(c, http.StatusOK, nil)
		return
	}
	as, err := h.consoles.load(ctx, sid)
	if err != nil {
		h.loginPage(c, http.StatusOK, nil)
		return
	}

	flash := as.Notice
	as.Notice = nil
	h.consoles.save(ctx, sid, as)

	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Page":     "console",
		"Console":  as.Console,
		"Bookings": as.Console.Bookings,
		"Notice":   flash,
	})
}

func (h *AdminWebHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	_ = c.ShouldBind(&req)

	in, err := h.consoles.signIn(c.Request.Context(), req.Password, c.ClientIP())
	if err != nil {
		h.loginPage(c, http.StatusUnauthorized, errorNotice(err))
		return
	}

	if in.FetchErr != nil {
		in.Session.Notice = errorNotice(in.FetchErr)
		h.consoles.save(c.Request.Context(), in.SID, in.Session)
	}

	middleware.SetAdminCookie(c, in.Token, h.consoles.auth.TokenTTL, h.consoles.auth.SecureCookies)
	h.backToConsole(c)
}

func (h *AdminWebHandler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()

	sid, ok := h.sessionID(c)
	if !ok {
		h.backToConsole(c)
		return
	}
	as, err := h.consoles.load(ctx, sid)
	if err != nil {
		h.backToConsole(c)
		return
	}

	if err := h.consoles.refreshUC.Execute(ctx, &as.Console); err != nil {
		as.Notice = errorNotice(err)
	}
	h.consoles.save(ctx, sid, as)
	h.backToConsole(c)
}

func (h *AdminWebHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	sid, ok := h.sessionID(c)
	if !ok {
		h.backToConsole(c)
		return
	}
	as, err := h.consoles.load(ctx, sid)
	if err != nil {
		h.backToConsole(c)
		return
	}

	var req dto.AdminCancelRequest
	if err := c.ShouldBind(&req); err != nil {
		as.Notice = &notice{Title: "Booking Not Found", Text: "Refresh the listing and try again.", Error: true}
		h.consoles.save(ctx, sid, as)
		h.backToConsole(c)
		return
	}

	_, err = h.consoles.cancelUC.Execute(ctx, &as.Console, ucAdmin.CancelInput{
		Key:       booking.Key(req.Date, req.Time),
		Confirmed: req.Confirm,
	})
	if err != nil {
		as.Notice = errorNotice(err)
	} else {
		as.Notice = &notice{Title: "Booking Cancelled", Text: "The slot should now be open."}
	}

	h.consoles.save(ctx, sid, as)
	h.backToConsole(c)
}

func (h *AdminWebHandler) Logout(c *gin.Context) {
	if sid, ok := h.sessionID(c); ok {
		_ = h.consoles.sessions.deleteAdmin(c.Request.Context(), sid)
	}
	middleware.SetAdminCookie(c, "", 0, h.consoles.auth.SecureCookies)
	h.backToConsole(c)
}
