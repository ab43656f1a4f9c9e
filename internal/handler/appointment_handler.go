package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/medmap/admin-api/internal/dto"
	"github.com/medmap/admin-api/internal/models"
	"github.com/medmap/admin-api/internal/service"
	"github.com/medmap/admin-api/internal/utils"
)

// AppointmentHandler wires appointment management endpoints.
type AppointmentHandler struct {
	service  service.AppointmentService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewAppointmentHandler constructs the handler.
func NewAppointmentHandler(service service.AppointmentService, validate *validator.Validate, logger zerolog.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		service:  service,
		validate: validate,
		logger:   logger.With().Str("component", "appointment_handler").Logger(),
	}
}

// Register attaches appointment routes to the router group.
func (h *AppointmentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Patch("/:id/status", h.updateStatus)
}

func (h *AppointmentHandler) list(c *fiber.Ctx) error {
	req := dto.AppointmentListRequest{
		Status: c.Query("status"),
		Date:   c.Query("date"),
		Search: c.Query("search"),
	}

	appointments, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list appointments")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list appointments")
	}

	return utils.SendSuccess(c, "appointments retrieved", appointments)
}

func (h *AppointmentHandler) get(c *fiber.Ctx) error {
	appointment, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrAppointmentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "appointment not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch appointment")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch appointment")
	}

	return utils.SendSuccess(c, "appointment retrieved", appointment)
}

func (h *AppointmentHandler) updateStatus(c *fiber.Ctx) error {
	var payload dto.AppointmentStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.validate.Struct(payload); err != nil {
		return utils.SendValidationError(c, err)
	}

	actor := activityActorFromContext(c)
	appointment, err := h.service.UpdateStatus(c.Context(), c.Params("id"), models.BookingStatus(payload.Status), actor)
	if err != nil {
		if errors.Is(err, service.ErrAppointmentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "appointment not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update appointment status")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update appointment status")
	}

	return utils.SendSuccess(c, "appointment status updated", appointment)
}
