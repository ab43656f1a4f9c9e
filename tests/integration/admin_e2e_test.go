package integration_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/medmap/admin-api/internal/config"
	"github.com/medmap/admin-api/internal/dto"
	"github.com/medmap/admin-api/internal/handler"
	"github.com/medmap/admin-api/internal/middleware"
	"github.com/medmap/admin-api/internal/models"
	"github.com/medmap/admin-api/internal/repository"
	"github.com/medmap/admin-api/internal/router"
	"github.com/medmap/admin-api/internal/service"
	"github.com/medmap/admin-api/pkg/identity"
)

const e2eJWTSecret = "integration-secret"

func setupAdminApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Doctor{}, &models.Booking{}, &models.Profile{}, &models.ActivityLog{}, &identity.Account{}))
	for _, table := range []string{"doctors", "bookings", "profiles", "activity_logs", "auth_accounts"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	doctorRepo := repository.NewDoctorRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	provider := identity.NewGormProvider(db, logger)

	activityService := service.NewActivityService(activityRepo, logger)
	doctorService := service.NewDoctorService(doctorRepo, profileRepo, activityService, logger)
	appointmentService := service.NewAppointmentService(bookingRepo, profileRepo, doctorRepo, activityService, logger)
	patientService := service.NewPatientService(profileRepo, provider, validate, activityService, logger)
	dashboardService := service.NewDashboardService(doctorRepo, profileRepo, bookingRepo, nil, 0, logger)

	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})

	cfg := config.Config{AppName: "medmap-admin-test", JWTSecret: e2eJWTSecret}
	router.Register(app, cfg, router.Dependencies{
		StatsHandler:       handler.NewStatsHandler(dashboardService, logger),
		DoctorHandler:      handler.NewDoctorHandler(doctorService, logger),
		AppointmentHandler: handler.NewAppointmentHandler(appointmentService, validate, logger),
		PatientHandler:     handler.NewPatientHandler(patientService, logger),
		ActivityHandler:    handler.NewActivityHandler(activityService, logger),
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	return app, db
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin-e2e",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(e2eJWTSecret))
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, app *fiber.App, method, path, token, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response, target *T) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, target))
}

func TestAdminEndToEndFlow(t *testing.T) {
	app, db := setupAdminApp(t)
	token := signToken(t, "admin")

	doctor := models.Doctor{PracticeName: "Nkosi Family Practice", Speciality: "Cardiology", Province: "Gauteng"}
	require.NoError(t, db.Create(&doctor).Error)

	// Step 1: approve the doctor
	resp := doJSON(t, app, http.MethodPatch, "/api/doctors/"+doctor.ID+"/status", token, `{"approved":true}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var doctorResp struct {
		Success bool               `json:"success"`
		Data    dto.DoctorResponse `json:"data"`
	}
	decode(t, resp, &doctorResp)
	require.True(t, doctorResp.Success)
	require.Equal(t, models.DoctorStatusVerified, doctorResp.Data.Status)

	// Step 2: create a patient
	resp = doJSON(t, app, http.MethodPost, "/api/patients", token, `{"email":"thandi@example.com","first_name":"Thandi","last_name":"Mokoena"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var patientResp struct {
		Success bool                `json:"success"`
		Data    dto.PatientResponse `json:"data"`
	}
	decode(t, resp, &patientResp)
	require.True(t, patientResp.Success)

	// Step 3: a completed booking feeds the revenue figure
	today := time.Now().Format("2006-01-02")
	booking := models.Booking{
		UserID:          patientResp.Data.ID,
		DoctorID:        doctor.ID,
		AppointmentDate: today,
		Status:          models.BookingStatusCompleted,
		TotalAmount:     450,
	}
	require.NoError(t, db.Create(&booking).Error)

	resp = doJSON(t, app, http.MethodGet, "/api/appointments", token, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var appointmentsResp struct {
		Success bool                      `json:"success"`
		Data    []dto.AppointmentResponse `json:"data"`
	}
	decode(t, resp, &appointmentsResp)
	require.Len(t, appointmentsResp.Data, 1)
	require.Equal(t, "Thandi Mokoena", appointmentsResp.Data[0].PatientName)
	require.Equal(t, "Nkosi Family Practice", appointmentsResp.Data[0].DoctorName)

	// Step 4: dashboard stats reflect the seeded data
	resp = doJSON(t, app, http.MethodGet, "/api/stats", token, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var statsResp struct {
		Success bool                       `json:"success"`
		Data    dto.DashboardStatsResponse `json:"data"`
	}
	decode(t, resp, &statsResp)
	require.True(t, statsResp.Success)
	require.Equal(t, int64(1), statsResp.Data.TotalDoctors)
	require.Equal(t, int64(1), statsResp.Data.ActivePatients)
	require.Equal(t, int64(1), statsResp.Data.TodayAppointments)
	require.InDelta(t, 450.0, statsResp.Data.TotalRevenue, 0.001)

	// Step 5: the audit trail recorded both admin actions
	resp = doJSON(t, app, http.MethodGet, "/api/activity", token, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var activityResp struct {
		Success bool                   `json:"success"`
		Data    []dto.ActivityResponse `json:"data"`
	}
	decode(t, resp, &activityResp)
	require.Len(t, activityResp.Data, 2)
	actions := []string{activityResp.Data[0].Action, activityResp.Data[1].Action}
	require.Contains(t, actions, "doctor.approved")
	require.Contains(t, actions, "patient.created")
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	app, _ := setupAdminApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/doctors", "", "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/doctors", signToken(t, "user"), "")
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Health stays open.
	resp = doJSON(t, app, http.MethodGet, "/api/health", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
