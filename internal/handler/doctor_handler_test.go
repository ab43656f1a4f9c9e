package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/medmap/admin-api/internal/dto"
	"github.com/medmap/admin-api/internal/handler"
	"github.com/medmap/admin-api/internal/models"
	"github.com/medmap/admin-api/internal/repository"
	"github.com/medmap/admin-api/internal/service"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Doctor{}, &models.Booking{}, &models.Profile{}, &models.ActivityLog{}))
	for _, table := range []string{"doctors", "bookings", "profiles", "activity_logs"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func withTestActor(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "admin-1")
		c.Locals("user_role", models.RoleAdmin)
		return c.Next()
	})
}

func setupDoctorApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := setupHandlerDB(t)

	activity := service.NewActivityService(repository.NewActivityLogRepository(db), zerolog.Nop())
	svc := service.NewDoctorService(repository.NewDoctorRepository(db), repository.NewProfileRepository(db), activity, zerolog.Nop())
	h := handler.NewDoctorHandler(svc, zerolog.Nop())

	app := fiber.New()
	withTestActor(app)
	h.Register(app.Group("/api/doctors"))
	return app, db
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

func TestDoctorHandlerApprovalFlow(t *testing.T) {
	app, db := setupDoctorApp(t)

	doctor := models.Doctor{PracticeName: "Nkosi Family Practice", Speciality: "Cardiology"}
	require.NoError(t, db.Create(&doctor).Error)

	// A fresh doctor shows up as pending.
	req := httptest.NewRequest(http.MethodGet, "/api/doctors?status=pending", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	require.True(t, env.Success)
	var listed []dto.DoctorResponse
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed, 1)
	require.Equal(t, models.DoctorStatusPending, listed[0].Status)

	// Approve, then confirm the pending listing no longer contains it.
	req = httptest.NewRequest(http.MethodPatch, "/api/doctors/"+doctor.ID+"/status", strings.NewReader(`{"approved":true}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	env = decodeEnvelope(t, resp)
	var updated dto.DoctorResponse
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.Equal(t, models.DoctorStatusVerified, updated.Status)
	require.True(t, updated.IsAvailable)

	req = httptest.NewRequest(http.MethodGet, "/api/doctors?status=pending", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	env = decodeEnvelope(t, resp)
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Empty(t, listed)

	req = httptest.NewRequest(http.MethodGet, "/api/doctors?status=verified", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	env = decodeEnvelope(t, resp)
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed, 1)

	// The approval was audited.
	var logs []models.ActivityLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Equal(t, "doctor.approved", logs[0].Action)
	require.Equal(t, "admin-1", logs[0].AdminID)
}

func TestDoctorHandlerUpdateStatusRejectsMissingFlag(t *testing.T) {
	app, db := setupDoctorApp(t)

	doctor := models.Doctor{PracticeName: "City Health Clinic"}
	require.NoError(t, db.Create(&doctor).Error)

	req := httptest.NewRequest(http.MethodPatch, "/api/doctors/"+doctor.ID+"/status", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	require.False(t, env.Success)
	require.Equal(t, "approved field must be a boolean", env.Message)
}

func TestDoctorHandlerGetUnknownID(t *testing.T) {
	app, _ := setupDoctorApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/doctors/not-there", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
