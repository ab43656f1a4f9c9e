package dto

import "time"

// DashboardStatsResponse aggregates the headline figures for the admin
// dashboard. The trend percentages are static placeholders until aggregate
// snapshots are persisted; see the dashboard service.
type DashboardStatsResponse struct {
	TotalDoctors      int64     `json:"total_doctors"`
	ActivePatients    int64     `json:"active_patients"`
	TodayAppointments int64     `json:"today_appointments"`
	TotalRevenue      float64   `json:"total_revenue"`
	RevenueTrend      float64   `json:"revenue_trend"`
	DoctorsTrend      float64   `json:"doctors_trend"`
	PatientsTrend     float64   `json:"patients_trend"`
	AppointmentsTrend float64   `json:"appointments_trend"`
	GeneratedAt       time.Time `json:"generated_at"`
	CacheHit          bool      `json:"cache_hit"`
}
