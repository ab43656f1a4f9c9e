package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/medmap/admin-api/internal/config"
	"github.com/medmap/admin-api/internal/database"
	"github.com/medmap/admin-api/internal/handler"
	"github.com/medmap/admin-api/internal/middleware"
	"github.com/medmap/admin-api/internal/models"
	"github.com/medmap/admin-api/internal/repository"
	"github.com/medmap/admin-api/internal/router"
	"github.com/medmap/admin-api/internal/service"
	"github.com/medmap/admin-api/pkg/identity"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Doctor{}, &models.Booking{}, &models.Profile{}, &models.ActivityLog{}, &identity.Account{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	doctorRepo := repository.NewDoctorRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	identityProvider := identity.NewGormProvider(db, logger)

	activityService := service.NewActivityService(activityRepo, logger)
	doctorService := service.NewDoctorService(doctorRepo, profileRepo, activityService, logger)
	appointmentService := service.NewAppointmentService(bookingRepo, profileRepo, doctorRepo, activityService, logger)
	patientService := service.NewPatientService(profileRepo, identityProvider, validate, activityService, logger)
	dashboardService := service.NewDashboardService(doctorRepo, profileRepo, bookingRepo, redisClient, cfg.StatsCacheTTL, logger)

	statsHandler := handler.NewStatsHandler(dashboardService, logger)
	doctorHandler := handler.NewDoctorHandler(doctorService, logger)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService, validate, logger)
	patientHandler := handler.NewPatientHandler(patientService, logger)
	activityHandler := handler.NewActivityHandler(activityService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	app.Use(middleware.RateLimit("admin-api", cfg.RateLimitMax, cfg.RateLimitWindow))

	router.Register(app, cfg, router.Dependencies{
		StatsHandler:       statsHandler,
		DoctorHandler:      doctorHandler,
		AppointmentHandler: appointmentHandler,
		PatientHandler:     patientHandler,
		ActivityHandler:    activityHandler,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
