package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/medmap/admin-api/internal/service"
	"github.com/medmap/admin-api/internal/utils"
)

// StatsHandler wires the dashboard statistics endpoint.
type StatsHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewStatsHandler constructs the handler.
func NewStatsHandler(service service.DashboardService, logger zerolog.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger.With().Str("component", "stats_handler").Logger(),
	}
}

// Register attaches the stats route to the router group.
func (h *StatsHandler) Register(router fiber.Router) {
	router.Get("", h.get)
}

func (h *StatsHandler) get(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to aggregate dashboard stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to aggregate dashboard stats")
	}

	return utils.SendSuccess(c, "stats retrieved", stats)
}
