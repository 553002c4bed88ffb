package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ramish-fuh/Inventory-sub000/internal/audit"
	"github.com/Ramish-fuh/Inventory-sub000/internal/config"
	"github.com/Ramish-fuh/Inventory-sub000/internal/db"
	"github.com/Ramish-fuh/Inventory-sub000/internal/handlers"
	"github.com/Ramish-fuh/Inventory-sub000/internal/mailer"
	"github.com/Ramish-fuh/Inventory-sub000/internal/middleware"
	"github.com/Ramish-fuh/Inventory-sub000/internal/models"
	"github.com/Ramish-fuh/Inventory-sub000/internal/notifier"
	"github.com/Ramish-fuh/Inventory-sub000/internal/repo"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter builds the full HTTP surface plus the dynamic job registry the
// notification endpoints are wired to.
func newRouter(database *sql.DB, cfg config.Config) (http.Handler, *notifier.Registry) {
	assetRepo := repo.NewAssetRepo(database)
	userRepo := repo.NewUserRepo(database)
	notificationRepo := repo.NewNotificationRepo(database)
	auditRepo := repo.NewAuditRepo(database)

	sink := audit.NewSink(auditRepo)
	mail := mailer.New(cfg.ResendAPIKey, cfg.MailFrom)
	registry := notifier.NewRegistry(userRepo, mail, sink, notifier.SystemClock())

	authHandler := &handlers.AuthHandler{UserRepo: userRepo, Secret: []byte(cfg.JWTSecret), ExpireHours: cfg.JWTExpireHours}
	assetHandler := &handlers.AssetHandler{Repo: assetRepo, AuditRepo: auditRepo}
	userHandler := &handlers.UserHandler{Repo: userRepo, AuditRepo: auditRepo}
	notificationHandler := &handlers.NotificationHandler{Repo: notificationRepo, Registry: registry}
	auditHandler := &handlers.AuditHandler{Repo: auditRepo}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())

	authLimiter := middleware.AuthRateLimiter()
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTMiddleware([]byte(cfg.JWTSecret)))

		r.Get("/assets", assetHandler.ListAssets)
		r.Post("/assets", assetHandler.CreateAsset)
		r.Get("/assets/{id}", assetHandler.GetAsset)
		r.Put("/assets/{id}", assetHandler.UpdateAsset)
		r.Delete("/assets/{id}", assetHandler.DeleteAsset)

		r.Get("/notifications", notificationHandler.ListNotifications)
		r.Post("/notifications", notificationHandler.ScheduleNotification)
		r.Post("/notifications/{id}/read", notificationHandler.MarkRead)
		r.Delete("/notifications/{id}/schedule", notificationHandler.CancelSchedule)

		r.Get("/users", userHandler.ListUsers)
		r.Get("/users/{id}", userHandler.GetUser)

		// Mutating user endpoints and the audit trail are admin only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))
			r.Post("/users", userHandler.CreateUser)
			r.Put("/users/{id}", userHandler.UpdateUser)
			r.Delete("/users/{id}", userHandler.DeleteUser)
			r.Get("/audit", auditHandler.ListAudit)
		})
	})

	return r, registry
}

func main() {
	cfg := config.Load()

	if cfg.LogFormat == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	database.SetMaxIdleConns(cfg.DBMaxIdleConns)
	log.Println("Successfully connected to the database")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err := db.Run(dbURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	router, registry := newRouter(database, cfg)
	defer registry.Stop()

	// Daily expiry scans run on their own cron schedules, independent of the
	// HTTP surface.
	assetRepo := repo.NewAssetRepo(database)
	userRepo := repo.NewUserRepo(database)
	notificationRepo := repo.NewNotificationRepo(database)
	sink := audit.NewSink(repo.NewAuditRepo(database))
	mail := mailer.New(cfg.ResendAPIKey, cfg.MailFrom)
	clock := notifier.SystemClock()

	dispatcher := &notifier.Dispatcher{
		Users:         userRepo,
		Notifications: notificationRepo,
		Mailer:        mail,
		Audit:         sink,
	}
	scheduler := notifier.NewScheduler([]notifier.ScanSchedule{
		{Scanner: notifier.NewScanner(notifier.MaintenanceScan, assetRepo, dispatcher, sink, clock), Spec: cfg.MaintenanceScanCron},
		{Scanner: notifier.NewScanner(notifier.WarrantyScan, assetRepo, dispatcher, sink, clock), Spec: cfg.WarrantyScanCron},
		{Scanner: notifier.NewScanner(notifier.LicenseScan, assetRepo, dispatcher, sink, clock), Spec: cfg.LicenseScanCron},
	})
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Println("Starting server on :" + cfg.Port)
		var err error
		if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}
