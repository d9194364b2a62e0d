package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BugSlayer555/ZyeroLead/internal/audit"
	"github.com/BugSlayer555/ZyeroLead/internal/config"
	dbpkg "github.com/BugSlayer555/ZyeroLead/internal/db"
	"github.com/BugSlayer555/ZyeroLead/internal/domain/booking"
	"github.com/BugSlayer555/ZyeroLead/internal/infra/scriptbackend"
	"github.com/BugSlayer555/ZyeroLead/internal/infra/session"
	"github.com/BugSlayer555/ZyeroLead/internal/infra/sheets"
	"github.com/BugSlayer555/ZyeroLead/internal/logging"
	"github.com/BugSlayer555/ZyeroLead/internal/metrics"
	"github.com/BugSlayer555/ZyeroLead/internal/middleware"
	"github.com/BugSlayer555/ZyeroLead/internal/routes"
	"github.com/BugSlayer555/ZyeroLead/internal/web"
)

func main() {

	cfg := config.Load()
	logger := logging.New(cfg.IsProduction(), cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// 📈 METRICS
	// ======================================================
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	bookingMetrics := metrics.NewBookingMetrics(reg)

	// ======================================================
	// 🗄️ AUDIT
	// ======================================================
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}

	sinks := []audit.Sink{audit.NewZapSink(logger)}
	if db != nil {
		sinks = append(sinks, audit.New(db))
	} else {
		logger.Info("DATABASE_URL not set, audit events go to the log only")
	}
	dispatcher := audit.NewDispatcher(logger, sinks...)
	defer dispatcher.Close()

	// ======================================================
	// 🔌 BOOKING BACKEND + SESSIONS
	// ======================================================
	backend, err := newBackend(ctx, cfg, logger, bookingMetrics)
	if err != nil {
		logger.Fatal("failed to set up booking backend", zap.Error(err))
	}

	store := newSessionStore(ctx, cfg, logger)

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	r.SetHTMLTemplate(web.Templates())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	routes.RegisterRoutes(r, routes.Infra{
		DB:       db,
		Backend:  backend,
		Sessions: store,
		Audit:    dispatcher,
		Metrics:  bookingMetrics,
		Logger:   logger,
	}, cfg)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server running", zap.String("addr", cfg.Addr()), zap.String("backend", cfg.BackendMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.BookingMetrics) (booking.Backend, error) {
	if cfg.BackendMode == config.BackendModeSheets {
		b, err := sheets.NewFromCredentials(
			ctx,
			cfg.SheetsCredentialsFile,
			cfg.SheetsSpreadsheetID,
			cfg.SheetsRange,
			logger,
			m,
		)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return scriptbackend.NewClient(
		cfg.BackendURL,
		cfg.BackendTimeout,
		logger,
		scriptbackend.WithMetrics(m),
	), nil
}

// newSessionStore prefers redis and falls back to process memory when no
// address is configured or redis does not answer.
func newSessionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) session.Store {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, sessions kept in memory")
		return session.NewMemoryStore(cfg.SessionTTL)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, sessions kept in memory", zap.Error(err))
		_ = client.Close()
		return session.NewMemoryStore(cfg.SessionTTL)
	}

	return session.NewRedisStore(client, cfg.SessionTTL)
}
