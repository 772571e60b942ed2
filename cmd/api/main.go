package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/notifycsc/notify-csc/docs"
	"github.com/notifycsc/notify-csc/internal/core"
	transporthttp "github.com/notifycsc/notify-csc/internal/http"
	"github.com/notifycsc/notify-csc/internal/http/handlers"
	"github.com/notifycsc/notify-csc/internal/http/health"
	"github.com/notifycsc/notify-csc/internal/jobs"
	"github.com/notifycsc/notify-csc/internal/middleware"
	"github.com/notifycsc/notify-csc/internal/notify"
	"github.com/notifycsc/notify-csc/internal/platform/auth"
	"github.com/notifycsc/notify-csc/internal/platform/config"
	"github.com/notifycsc/notify-csc/internal/platform/logging"
	"github.com/notifycsc/notify-csc/internal/store/memory"
	"github.com/notifycsc/notify-csc/internal/store/mongo"
)

// repos is the set of repositories one backend provides.
type repos struct {
	name          string
	pinger        health.Pinger
	insurances    core.InsuranceRepo
	reminders     core.ReminderRepo
	users         core.UserRepo
	announcements core.AnnouncementRepo
	devices       core.DeviceTokenRepo
	close         func(context.Context) error
}

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.Env)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.close(closeCtx); err != nil {
			log.Warn("store close failed", "err", err)
		}
	}()

	// Delivery adapters
	sms := notify.NewLogSMSSender(log)
	var mailer core.Mailer = notify.NewLogMailer(log)
	if cfg.MailEnabled() {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
		log.Info("smtp mailer enabled", "host", cfg.SMTPHost)
	}
	var pusher core.PushSender = notify.NewLogPushSender(log)
	if cfg.PushEnabled() {
		fcm, err := notify.NewFCMSender(ctx, cfg.FirebaseCredentialsFile)
		if err != nil {
			return err
		}
		pusher = fcm
		log.Info("firebase push enabled")
	}

	// Services
	tokens := auth.NewJWTIssuer(cfg.JWTSecret, time.Duration(cfg.JWTTTLMin)*time.Minute)
	authSvc := core.NewAuthService(store.users, auth.NewBcryptHasher(), tokens)
	userSvc := core.NewUserService(store.users, mailer, log)
	insuranceSvc := core.NewInsuranceService(store.insurances)
	publicSvc := core.NewPublicInsuranceService(store.insurances, log)
	reminderSvc := core.NewReminderService(store.insurances, store.reminders, sms, log)
	announcementSvc := core.NewAnnouncementService(store.announcements, store.devices)

	limiter := middleware.NewRateLimiter(cfg.PublicRateLimitRPM).WithRejectHandler(handlers.RejectTooMany)
	limiter.StartWithContext(ctx)

	router := transporthttp.NewRouter(transporthttp.Deps{
		Public: []handlers.Mountable{
			handlers.NewAuthHandler(authSvc, log),
			handlers.NewPublicHandler(publicSvc, announcementSvc, log, limiter.Middleware),
		},
		Private: []handlers.Mountable{
			handlers.NewSessionHandler(log),
			handlers.NewInsuranceHandler(insuranceSvc, reminderSvc, log),
			handlers.NewDashboardHandler(insuranceSvc, log),
			handlers.NewUserHandler(userSvc, log),
			handlers.NewAnnouncementHandler(announcementSvc, log),
		},
		Auth:           authSvc,
		Health:         health.New(log, store.pinger, store.name, time.Duration(cfg.MongoOpTimeoutMs)*time.Millisecond),
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: time.Duration(cfg.HTTPRequestTimeoutSec) * time.Second,
	})

	// Background workers
	workers := []jobs.Worker{
		jobs.NewPushWorker(store.announcements, store.devices, pusher,
			cfg.PushBatchSize, cfg.PushWorkers,
			time.Duration(cfg.WorkerIntervalSec)*time.Second, log),
	}
	if cfg.DigestSchedule != "" {
		workers = append(workers, jobs.NewDigestJob(cfg.DigestSchedule, insuranceSvc, userSvc, mailer, log))
	}

	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func(w jobs.Worker) {
			defer wg.Done()
			w.Start(ctx)
		}(w)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTPReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTPWriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.HTTPIdleTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Env, "store", store.name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			stop()
			wg.Wait()
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}
	wg.Wait()
	log.Info("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*repos, error) {
	switch cfg.DBType {
	case "memory":
		log.Warn("using in-memory store, data is lost on restart")
		s := memory.New()
		return &repos{
			name:          "memory",
			pinger:        s,
			insurances:    s.Insurances(),
			reminders:     s.Reminders(),
			users:         s.Users(),
			announcements: s.Announcements(),
			devices:       s.DeviceTokens(),
			close:         func(context.Context) error { return nil },
		}, nil

	default:
		client, err := mongo.NewClient(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := mongo.EnsureIndexes(ctx, client.DB); err != nil {
			_ = client.Close(ctx)
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}

		opTimeout := time.Duration(cfg.MongoOpTimeoutMs) * time.Millisecond
		users := mongo.NewUserRepo(client.DB, opTimeout)
		return &repos{
			name:          "mongo",
			pinger:        client,
			insurances:    mongo.NewInsuranceRepo(client.DB, users, opTimeout),
			reminders:     mongo.NewReminderRepo(client.DB, opTimeout),
			users:         users,
			announcements: mongo.NewAnnouncementRepo(client.DB, opTimeout),
			devices:       mongo.NewDeviceTokenRepo(client.DB, opTimeout),
			close:         client.Close,
		}, nil
	}
}
