package performance_test

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/medmap/admin-api/internal/handler"
	"github.com/medmap/admin-api/internal/models"
	"github.com/medmap/admin-api/internal/repository"
	"github.com/medmap/admin-api/internal/service"
)

func setupDashboardPerformanceApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Doctor{}, &models.Booking{}, &models.Profile{}))
	for _, table := range []string{"doctors", "bookings", "profiles"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}

	// Seed dataset
	today := time.Now().Format("2006-01-02")
	for i := 0; i < 50; i++ {
		doctor := models.Doctor{PracticeName: fmt.Sprintf("Practice %d", i), Speciality: "General"}
		require.NoError(t, db.Create(&doctor).Error)

		patient := models.Profile{Email: fmt.Sprintf("patient%d@example.com", i), Role: models.RoleUser}
		require.NoError(t, db.Create(&patient).Error)

		booking := models.Booking{
			UserID:          patient.ID,
			DoctorID:        doctor.ID,
			AppointmentDate: today,
			Status:          models.BookingStatusCompleted,
			TotalAmount:     450,
		}
		require.NoError(t, db.Create(&booking).Error)
	}

	dashboardService := service.NewDashboardService(
		repository.NewDoctorRepository(db),
		repository.NewProfileRepository(db),
		repository.NewBookingRepository(db),
		nil, 0, zerolog.Nop(),
	)
	statsHandler := handler.NewStatsHandler(dashboardService, zerolog.Nop())

	app := fiber.New()
	statsHandler.Register(app.Group("/api/stats"))

	return app, db
}

func TestDashboardStatsP95LatencyBelow250ms(t *testing.T) {
	app, db := setupDashboardPerformanceApp(t)
	t.Cleanup(func() { _ = db })

	runs := 40
	durations := make([]time.Duration, 0, runs)

	for i := 0; i < runs; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
		start := time.Now()
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		durations = append(durations, time.Since(start))
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	index := int(math.Ceil(0.95*float64(len(durations)))) - 1
	if index < 0 {
		index = 0
	}
	p95 := durations[index]

	require.LessOrEqual(t, p95, 250*time.Millisecond)
}
