package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BugSlayer555/ZyeroLead/internal/audit"
	"github.com/BugSlayer555/ZyeroLead/internal/config"
	"github.com/BugSlayer555/ZyeroLead/internal/domain/booking"
	"github.com/BugSlayer555/ZyeroLead/internal/handlers"
	"github.com/BugSlayer555/ZyeroLead/internal/infra/session"
	"github.com/BugSlayer555/ZyeroLead/internal/metrics"
	"github.com/BugSlayer555/ZyeroLead/internal/middleware"
	"github.com/BugSlayer555/ZyeroLead/internal/timezone"
	ucAdmin "github.com/BugSlayer555/ZyeroLead/internal/usecase/admin"
	ucBooking "github.com/BugSlayer555/ZyeroLead/internal/usecase/booking"
)

// Infra is everything the routes need that outlives a request.
type Infra struct {
	DB       *gorm.DB // optional
	Backend  booking.Backend
	Sessions session.Store
	Audit    *audit.Dispatcher
	Metrics  *metrics.BookingMetrics
	Logger   *zap.Logger
}

func RegisterRoutes(r *gin.Engine, infra Infra, cfg *config.Config) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	limited := limiter.Middleware(infra.Logger)

	// ======================================================
	// 🧠 USE CASES: BOOKING
	// ======================================================
	submitUC := ucBooking.NewSubmitBooking(
		infra.Backend,
		infra.Audit,
		infra.Metrics,
		infra.Logger,
		ucBooking.Settings{
			Location:        timezone.Location(cfg.Timezone),
			FormMode:        booking.ParseFormMode(cfg.FormMode),
			MeetingTitle:    cfg.MeetingTitle,
			MeetingLocation: cfg.MeetingLocation,
			InviteeEmail:    cfg.InviteeEmail,
		},
	)

	// ======================================================
	// 🧠 USE CASES: ADMIN
	// ======================================================
	refreshUC := ucAdmin.NewRefreshBookings(infra.Backend, infra.Metrics, infra.Logger)
	loginUC := ucAdmin.NewLogin(cfg.AdminPassword, refreshUC, infra.Audit, infra.Metrics, infra.Logger)
	cancelUC := ucAdmin.NewCancelBooking(infra.Backend, infra.Audit, infra.Metrics, infra.Logger)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	publicHandler := handlers.NewPublicHandler(submitUC)
	publicWebHandler := handlers.NewPublicWebHandler(
		submitUC,
		infra.Sessions,
		handlers.SiteInfo{
			ContactPhone:  cfg.ContactPhone,
			WhatsAppURL:   cfg.WhatsAppURL,
			SecureCookies: cfg.IsProduction(),
			SessionTTL:    cfg.SessionTTL,
		},
		infra.Logger,
	)

	consoles := handlers.NewAdminConsoles(
		loginUC,
		refreshUC,
		cancelUC,
		infra.Sessions,
		handlers.AdminAuth{
			Secret:        cfg.JWTSecret,
			TokenTTL:      cfg.AdminTokenTTL,
			SecureCookies: cfg.IsProduction(),
		},
		infra.Logger,
	)
	adminHandler := handlers.NewAdminHandler(consoles)
	adminWebHandler := handlers.NewAdminWebHandler(consoles)
	auditLogsHandler := handlers.NewAuditLogsHandler(infra.DB)

	// ======================================================
	// 🌍 WEB ROUTES (HTML)
	// ======================================================
	book := r.Group("/book")
	{
		book.GET("", publicWebHandler.ShowBookingPage)
		book.POST("/date", publicWebHandler.SelectDate)
		book.POST("/clear", publicWebHandler.ClearDate)
		book.POST("/time", publicWebHandler.SelectTime)
		book.POST("/submit", publicWebHandler.Submit)
		book.POST("/close", publicWebHandler.CloseContact)
		book.POST("/confirm", limited, publicWebHandler.Confirm)
	}

	webAdmin := r.Group("/admin")
	{
		webAdmin.GET("", adminWebHandler.Console)
		webAdmin.POST("/login", limited, adminWebHandler.Login)
		webAdmin.POST("/refresh", adminWebHandler.Refresh)
		webAdmin.POST("/cancel", adminWebHandler.Cancel)
		webAdmin.POST("/logout", adminWebHandler.Logout)
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PUBLIC
		// ------------------------------
		api.GET("/booking/slots", publicHandler.Slots)
		api.POST("/bookings", limited, publicHandler.CreateBooking)

		// ------------------------------
		// 🔐 ADMIN
		// ------------------------------
		api.POST("/admin/login", limited, adminHandler.Login)

		secured := api.Group("/admin")
		secured.Use(middleware.AdminAuthMiddleware(cfg))
		{
			secured.GET("/bookings", adminHandler.ListBookings)
			secured.POST("/bookings/cancel", adminHandler.CancelBooking)
			secured.GET("/bookings/export", adminHandler.Export)
			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
