package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spa-sentirse-bien/spa-server/internal/audit"
	"github.com/spa-sentirse-bien/spa-server/internal/config"
	dbpkg "github.com/spa-sentirse-bien/spa-server/internal/db"
	paymentDomain "github.com/spa-sentirse-bien/spa-server/internal/domain/payment"
	"github.com/spa-sentirse-bien/spa-server/internal/infra/gateway"
	infraRepo "github.com/spa-sentirse-bien/spa-server/internal/infra/repository"
	"github.com/spa-sentirse-bien/spa-server/internal/infra/storage"
	"github.com/spa-sentirse-bien/spa-server/internal/logging"
	"github.com/spa-sentirse-bien/spa-server/internal/report"
	"github.com/spa-sentirse-bien/spa-server/internal/routes"
	"github.com/spa-sentirse-bien/spa-server/internal/scheduler"
	"github.com/spa-sentirse-bien/spa-server/internal/session"
	"github.com/spa-sentirse-bien/spa-server/internal/timezone"
	ucAppointment "github.com/spa-sentirse-bien/spa-server/internal/usecase/appointment"
	ucPayment "github.com/spa-sentirse-bien/spa-server/internal/usecase/payment"
	"github.com/spa-sentirse-bien/spa-server/internal/validators"
)

func main() {

	cfg := config.Load()
	logger := logging.New(cfg.Env)
	defer func() { _ = logger.Sync() }()

	if cfg.JWTSecret == "changeme" && cfg.IsProduction() {
		logger.Fatal("JWT_SECRET must be set in production")
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Env,
		}); err != nil {
			logger.Error("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if err := validators.RegisterBindings(); err != nil {
		logger.Fatal("register validators", zap.Error(err))
	}

	db, err := dbpkg.NewDB(cfg, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := session.NewStore(ctx, cfg.RedisURL, logger)
	defer func() { _ = closeStore() }()
	sessions := session.NewManager(cfg.JWTSecret, cfg.SessionTTL, store)

	loc := timezone.Location(cfg.Timezone)
	clock := timezone.SystemClock(cfg.Timezone)

	dispatcher := audit.NewDispatcher(audit.New(db), logger)
	defer dispatcher.Close()

	sweep := ucAppointment.NewSweepStale(
		infraRepo.NewAppointmentGormRepository(db),
		dispatcher,
		clock,
		logger,
	)

	// Optional collaborators stay untyped nil when not configured.
	var charger paymentDomain.Charger
	if cfg.MercadoPagoToken != "" {
		mp, err := gateway.NewMercadoPago(cfg.MercadoPagoToken)
		if err != nil {
			logger.Fatal("mercadopago", zap.Error(err))
		}
		charger = mp
	}

	var archive ucPayment.Archiver
	if s3Archive := storage.NewS3Archive(cfg); s3Archive != nil {
		archive = s3Archive
	}

	logo, err := report.LoadLogo(cfg.LogoPath)
	if err != nil {
		logger.Warn("logo not usable, reports go without it", zap.String("path", cfg.LogoPath), zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Logger:   logger,
		Sessions: sessions,
		Audit:    dispatcher,
		Sweep:    sweep,
		Location: loc,
		Clock:    clock,
		Charger:  charger,
		Archive:  archive,
		Logo:     logo,
	})

	if cfg.SweepInterval > 0 {
		sched := scheduler.New(sweep, cfg.SweepInterval, logger)
		sched.Start(ctx)
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
