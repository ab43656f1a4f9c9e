package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/medmap/admin-api/internal/dto"
	"github.com/medmap/admin-api/internal/service"
	"github.com/medmap/admin-api/internal/utils"
)

// DoctorHandler wires doctor management endpoints.
type DoctorHandler struct {
	service service.DoctorService
	logger  zerolog.Logger
}

// NewDoctorHandler constructs the handler.
func NewDoctorHandler(service service.DoctorService, logger zerolog.Logger) *DoctorHandler {
	return &DoctorHandler{
		service: service,
		logger:  logger.With().Str("component", "doctor_handler").Logger(),
	}
}

// Register attaches doctor routes to the router group.
func (h *DoctorHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Patch("/:id/status", h.updateStatus)
}

func (h *DoctorHandler) list(c *fiber.Ctx) error {
	req := dto.DoctorListRequest{
		Status:    c.Query("status"),
		Province:  c.Query("province"),
		Specialty: c.Query("specialty"),
		Search:    c.Query("search"),
	}

	doctors, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list doctors")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list doctors")
	}

	return utils.SendSuccess(c, "doctors retrieved", doctors)
}

func (h *DoctorHandler) get(c *fiber.Ctx) error {
	doctor, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrDoctorNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "doctor not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch doctor")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch doctor")
	}

	return utils.SendSuccess(c, "doctor retrieved", doctor)
}

func (h *DoctorHandler) updateStatus(c *fiber.Ctx) error {
	var payload dto.DoctorApprovalRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if payload.Approved == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "approved field must be a boolean")
	}

	actor := activityActorFromContext(c)
	doctor, err := h.service.UpdateApproval(c.Context(), c.Params("id"), *payload.Approved, actor)
	if err != nil {
		if errors.Is(err, service.ErrDoctorNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "doctor not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update doctor status")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update doctor status")
	}

	return utils.SendSuccess(c, "doctor status updated", doctor)
}
